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

func newTestWallet(isMain bool) *domain.Wallet {
	return &domain.Wallet{
		ID:                  uuid.New(),
		Address:             "0xAbC1230000000000000000000000000000000001",
		EncryptedPrivateKey: "gcm_encrypted_key_material",
		IsMain:              isMain,
		CreatedAt:           time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletColumnNames() []string {
	return []string{"id", "address", "encrypted_private_key", "is_main", "created_at"}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	return pgxmock.NewRows(walletColumnNames()).AddRow(
		w.ID, w.Address, w.EncryptedPrivateKey, w.IsMain, w.CreatedAt,
	)
}

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(false)

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(w.ID, w.Address, w.EncryptedPrivateKey, w.IsMain, w.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(false)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE address").
		WithArgs(w.Address).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByAddress(context.Background(), w.Address)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.Equal(t, w.EncryptedPrivateKey, result.EncryptedPrivateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetMain_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE is_main").
		WillReturnRows(pgxmock.NewRows(walletColumnNames()))

	result, err := repo.GetMain(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_FindAssignable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(false)

	mock.ExpectQuery("SELECT .+ FROM wallets w").
		WillReturnRows(walletRow(w))

	result, err := repo.FindAssignable(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.Address, result.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_FindAssignable_PoolExhausted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM wallets w").
		WillReturnRows(pgxmock.NewRows(walletColumnNames()))

	result, err := repo.FindAssignable(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ListSubWalletsWithBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w1 := newTestWallet(false)
	w2 := newTestWallet(false)
	balance := "5000000000000000000"

	rows := pgxmock.NewRows([]string{"id", "address", "encrypted_private_key", "is_main", "created_at", "balance_wei"}).
		AddRow(w1.ID, w1.Address, w1.EncryptedPrivateKey, w1.IsMain, w1.CreatedAt, &balance).
		AddRow(w2.ID, w2.Address, w2.EncryptedPrivateKey, w2.IsMain, w2.CreatedAt, (*string)(nil))

	mock.ExpectQuery("SELECT .+ FROM wallets w").
		WillReturnRows(rows)

	result, err := repo.ListSubWalletsWithBalance(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, big.NewInt(5_000_000_000_000_000_000), result[0].BalanceWei)
	assert.Nil(t, result[1].BalanceWei)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_InsertBalanceSnapshot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	snap := &domain.BalanceSnapshot{
		ID:         uuid.New(),
		WalletID:   uuid.New(),
		BalanceWei: big.NewInt(42),
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO wallet_balances").
		WithArgs(snap.ID, snap.WalletID, "42", snap.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.InsertBalanceSnapshot(context.Background(), snap)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
