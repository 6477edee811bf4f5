package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ether-payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PayoutRepo implements ports.PayoutRepository.
type PayoutRepo struct {
	pool Pool
}

// NewPayoutRepo creates a new PayoutRepo.
func NewPayoutRepo(pool Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

const payoutColumns = `id, user_id, amount_wei, address, status, created_at, updated_at`

// Create inserts a scheduled payout within a database transaction.
func (r *PayoutRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.ScheduledPayout) error {
	query := `INSERT INTO scheduled_payouts (id, user_id, amount_wei, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.UserID, weiString(p.AmountWei), p.Address, p.Status,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

// ListPending fetches all payouts awaiting execution, oldest first.
func (r *PayoutRepo) ListPending(ctx context.Context) ([]domain.ScheduledPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM scheduled_payouts
		WHERE status = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, domain.PayoutStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending payouts: %w", err)
	}
	defer rows.Close()

	var payouts []domain.ScheduledPayout
	for rows.Next() {
		var p domain.ScheduledPayout
		var amount string
		err := rows.Scan(&p.ID, &p.UserID, &amount, &p.Address, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan payout row: %w", err)
		}
		if p.AmountWei, err = parseWei(amount); err != nil {
			return nil, fmt.Errorf("payout %s: %w", p.ID, err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payout rows: %w", err)
	}
	return payouts, nil
}

// GetLastValid fetches the merchant's most recent payout in pending or
// completed state. Its creation time is the settlement watermark.
func (r *PayoutRepo) GetLastValid(ctx context.Context, userID uuid.UUID) (*domain.ScheduledPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM scheduled_payouts
		WHERE user_id = $1 AND status IN ('pending', 'completed')
		ORDER BY created_at DESC
		LIMIT 1`

	p := &domain.ScheduledPayout{}
	var amount string
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &amount, &p.Address, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last payout: %w", err)
	}
	if p.AmountWei, err = parseWei(amount); err != nil {
		return nil, fmt.Errorf("payout %s: %w", p.ID, err)
	}
	return p, nil
}

// MarkCompleted transitions a payout to completed within a database
// transaction.
func (r *PayoutRepo) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE scheduled_payouts SET status = $1, updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, domain.PayoutStatusCompleted, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark payout completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payout not found: %s", id)
	}
	return nil
}

// LockMerchant serialises payout scheduling for one merchant. The advisory
// lock is scoped to the given transaction and released when it ends, so a
// competing scheduler blocks until the first one has committed its payout.
func (r *PayoutRepo) LockMerchant(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

	if _, err := tx.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("lock merchant payouts: %w", err)
	}
	return nil
}
