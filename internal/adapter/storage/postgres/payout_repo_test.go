package postgres

import (
	"context"
	"math/big"
	"testing"
	"time"

	"ether-payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayout(status domain.PayoutStatus) *domain.ScheduledPayout {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.ScheduledPayout{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		AmountWei: big.NewInt(500_000_000_000_000_000),
		Address:   "0xMerchant000000000000000000000000000000003",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func payoutColumnNames() []string {
	return []string{"id", "user_id", "amount_wei", "address", "status", "created_at", "updated_at"}
}

func payoutRow(p *domain.ScheduledPayout) *pgxmock.Rows {
	return pgxmock.NewRows(payoutColumnNames()).AddRow(
		p.ID, p.UserID, p.AmountWei.String(), p.Address, p.Status, p.CreatedAt, p.UpdatedAt,
	)
}

func TestPayoutRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	p := newTestPayout(domain.PayoutStatusPending)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO scheduled_payouts").
		WithArgs(p.ID, p.UserID, p.AmountWei.String(), p.Address, p.Status,
			p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_GetLastValid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	p := newTestPayout(domain.PayoutStatusCompleted)

	mock.ExpectQuery("SELECT .+ FROM scheduled_payouts").
		WithArgs(p.UserID).
		WillReturnRows(payoutRow(p))

	result, err := repo.GetLastValid(context.Background(), p.UserID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.AmountWei, result.AmountWei)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_GetLastValid_NoWatermark(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	userID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM scheduled_payouts").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(payoutColumnNames()))

	result, err := repo.GetLastValid(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_MarkCompleted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE scheduled_payouts").
		WithArgs(domain.PayoutStatusCompleted, pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.MarkCompleted(context.Background(), tx, id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_LockMerchant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.LockMerchant(context.Background(), tx, userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
