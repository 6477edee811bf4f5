package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"ether-payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, hash, from_address, to_address, amount_wei, tx_type, payment_id, wallet_id, created_at`

// InsertIfAbsent records the transaction unless its hash is already known.
// The hash uniqueness constraint resolves concurrent duplicate delivery, so
// observing the same ledger transaction twice is harmless.
func (r *TransactionRepo) InsertIfAbsent(ctx context.Context, t *domain.Transaction) (bool, error) {
	query := `INSERT INTO transactions (id, hash, from_address, to_address, amount_wei, tx_type, payment_id, wallet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (hash) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		t.ID, t.Hash, t.From, t.To, weiString(t.AmountWei),
		t.Type, t.PaymentID, t.WalletID, t.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Create inserts a transaction within a database transaction. Used when the
// record must commit atomically with other rows (payout completion).
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, hash, from_address, to_address, amount_wei, tx_type, payment_id, wallet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Hash, t.From, t.To, weiString(t.AmountWei),
		t.Type, t.PaymentID, t.WalletID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByHash fetches a transaction by its ledger hash, or nil.
func (r *TransactionRepo) GetByHash(ctx context.Context, hash string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE hash = $1`
	return r.scanTransaction(r.pool.QueryRow(ctx, query, hash))
}

// ListForPayment fetches all transactions linked to a payment.
func (r *TransactionRepo) ListForPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE payment_id = $1 ORDER BY created_at`

	return r.list(ctx, query, paymentID)
}

// SumExternalForPayment totals customer deposits linked to a payment.
// Amounts are summed in Go because they live in TEXT columns.
func (r *TransactionRepo) SumExternalForPayment(ctx context.Context, paymentID uuid.UUID) (*big.Int, error) {
	query := `SELECT amount_wei FROM transactions
		WHERE payment_id = $1 AND tx_type = $2`

	return r.sumAmounts(ctx, query, paymentID, domain.TransactionTypeExternal)
}

// SumExternalForMerchantSince totals customer deposits on the merchant's
// products recorded strictly after the watermark.
func (r *TransactionRepo) SumExternalForMerchantSince(ctx context.Context, userID uuid.UUID, since time.Time) (*big.Int, error) {
	query := `SELECT t.amount_wei FROM transactions t
		JOIN payments p ON p.id = t.payment_id
		JOIN products pr ON pr.id = p.product_id
		WHERE pr.user_id = $1 AND t.tx_type = $2 AND t.created_at > $3`

	return r.sumAmounts(ctx, query, userID, domain.TransactionTypeExternal, since)
}

func (r *TransactionRepo) sumAmounts(ctx context.Context, query string, args ...any) (*big.Int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum transactions: %w", err)
	}
	defer rows.Close()

	total := new(big.Int)
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("scan transaction amount: %w", err)
		}
		v, err := parseWei(amount)
		if err != nil {
			return nil, err
		}
		total.Add(total, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction amounts: %w", err)
	}
	return total, nil
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var amount string
		err := rows.Scan(
			&t.ID, &t.Hash, &t.From, &t.To, &amount,
			&t.Type, &t.PaymentID, &t.WalletID, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if t.AmountWei, err = parseWei(amount); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var amount string
	err := row.Scan(
		&t.ID, &t.Hash, &t.From, &t.To, &amount,
		&t.Type, &t.PaymentID, &t.WalletID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if t.AmountWei, err = parseWei(amount); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	return t, nil
}
