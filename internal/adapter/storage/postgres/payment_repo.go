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

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `id, token, product_id, quantity, customer_id, total_amount_wei,
		cryptocurrency, wallet_id, exchange_rate_id, created_at, expires_at`

// Create persists the payment and its initial pending status event within the
// given database transaction, so a payment row never exists without a history.
func (r *PaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	query := `INSERT INTO payments (id, token, product_id, quantity, customer_id, total_amount_wei,
		cryptocurrency, wallet_id, exchange_rate_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.Token, p.ProductID, p.Quantity, p.CustomerID,
		weiString(p.TotalAmountWei), p.Cryptocurrency, p.WalletID,
		p.ExchangeRateID, p.CreatedAt, p.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	eventQuery := `INSERT INTO payment_status_events (id, payment_id, name, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err = tx.Exec(ctx, eventQuery,
		uuid.New(), p.ID, domain.PaymentStatusPending, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert initial status event: %w", err)
	}
	return nil
}

// GetByToken fetches a payment with its full status history, or nil.
func (r *PaymentRepo) GetByToken(ctx context.Context, token string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE token = $1`

	p, err := r.scanPayment(r.pool.QueryRow(ctx, query, token))
	if err != nil || p == nil {
		return p, err
	}

	p.Statuses, err = r.loadStatuses(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindPendingMatch fetches an open payment for the same product, quantity and
// customer, or nil. Used to make token issuance idempotent.
func (r *PaymentRepo) FindPendingMatch(ctx context.Context, productID uuid.UUID, quantity int, customerID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p
		WHERE p.product_id = $1 AND p.quantity = $2 AND p.customer_id = $3
		  AND NOT EXISTS (
			SELECT 1 FROM payment_status_events e
			WHERE e.payment_id = p.id
			  AND e.name IN ('completed', 'expired', 'failed')
		  )
		ORDER BY p.created_at DESC
		LIMIT 1`

	p, err := r.scanPayment(r.pool.QueryRow(ctx, query, productID, quantity, customerID))
	if err != nil || p == nil {
		return p, err
	}

	p.Statuses, err = r.loadStatuses(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPending fetches every payment without a terminal event, histories
// included.
func (r *PaymentRepo) ListPending(ctx context.Context) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p
		WHERE NOT EXISTS (
			SELECT 1 FROM payment_status_events e
			WHERE e.payment_id = p.id
			  AND e.name IN ('completed', 'expired', 'failed')
		)
		ORDER BY p.created_at`

	return r.listWithStatuses(ctx, query)
}

// ListPendingByWalletAddress scopes ListPending to one receiving wallet.
func (r *PaymentRepo) ListPendingByWalletAddress(ctx context.Context, address string) ([]domain.Payment, error) {
	query := `SELECT p.id, p.token, p.product_id, p.quantity, p.customer_id, p.total_amount_wei,
		p.cryptocurrency, p.wallet_id, p.exchange_rate_id, p.created_at, p.expires_at
		FROM payments p
		JOIN wallets w ON w.id = p.wallet_id
		WHERE w.address = $1
		  AND NOT EXISTS (
			SELECT 1 FROM payment_status_events e
			WHERE e.payment_id = p.id
			  AND e.name IN ('completed', 'expired', 'failed')
		  )
		ORDER BY p.created_at`

	return r.listWithStatuses(ctx, query, address)
}

// AppendStatus appends one status event unless a terminal event is already
// present. The guard and the insert are a single statement, so two racing
// appenders can never both win.
func (r *PaymentRepo) AppendStatus(ctx context.Context, paymentID uuid.UUID, status domain.PaymentStatus) (bool, error) {
	query := `INSERT INTO payment_status_events (id, payment_id, name, created_at)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (
			SELECT 1 FROM payment_status_events
			WHERE payment_id = $2
			  AND name IN ('completed', 'expired', 'failed')
		)`

	tag, err := r.pool.Exec(ctx, query, uuid.New(), paymentID, status, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("append status event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaymentRepo) listWithStatuses(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	var ids []uuid.UUID
	for rows.Next() {
		var p domain.Payment
		var amount string
		err := rows.Scan(
			&p.ID, &p.Token, &p.ProductID, &p.Quantity, &p.CustomerID, &amount,
			&p.Cryptocurrency, &p.WalletID, &p.ExchangeRateID, &p.CreatedAt, &p.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		if p.TotalAmountWei, err = parseWei(amount); err != nil {
			return nil, fmt.Errorf("payment %s: %w", p.ID, err)
		}
		payments = append(payments, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	if len(payments) == 0 {
		return payments, nil
	}

	eventQuery := `SELECT id, payment_id, name, created_at
		FROM payment_status_events
		WHERE payment_id = ANY($1)
		ORDER BY created_at`

	eventRows, err := r.pool.Query(ctx, eventQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list status events: %w", err)
	}
	defer eventRows.Close()

	byPayment := make(map[uuid.UUID][]domain.StatusEvent, len(payments))
	for eventRows.Next() {
		var e domain.StatusEvent
		if err := eventRows.Scan(&e.ID, &e.PaymentID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status event row: %w", err)
		}
		byPayment[e.PaymentID] = append(byPayment[e.PaymentID], e)
	}
	if err := eventRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status event rows: %w", err)
	}

	for i := range payments {
		payments[i].Statuses = byPayment[payments[i].ID]
	}
	return payments, nil
}

func (r *PaymentRepo) loadStatuses(ctx context.Context, paymentID uuid.UUID) ([]domain.StatusEvent, error) {
	query := `SELECT id, payment_id, name, created_at
		FROM payment_status_events
		WHERE payment_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("load status events: %w", err)
	}
	defer rows.Close()

	var events []domain.StatusEvent
	for rows.Next() {
		var e domain.StatusEvent
		if err := rows.Scan(&e.ID, &e.PaymentID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status event rows: %w", err)
	}
	return events, nil
}

// scanPayment is a helper to scan a single row into a Payment.
func (r *PaymentRepo) scanPayment(row pgx.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	var amount string
	err := row.Scan(
		&p.ID, &p.Token, &p.ProductID, &p.Quantity, &p.CustomerID, &amount,
		&p.Cryptocurrency, &p.WalletID, &p.ExchangeRateID, &p.CreatedAt, &p.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	if p.TotalAmountWei, err = parseWei(amount); err != nil {
		return nil, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	return p, nil
}
