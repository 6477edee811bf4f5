package ports

import (
	"context"
	"math/big"
	"time"

	"ether-payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletBalance pairs a wallet with its latest recorded balance snapshot.
// BalanceWei is nil when no snapshot exists yet.
type WalletBalance struct {
	Wallet     domain.Wallet
	BalanceWei *big.Int
}

// WalletRepository defines persistence operations for wallets and their
// balance time series.
type WalletRepository interface {
	Create(ctx context.Context, w *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)
	// GetMain returns the treasury wallet, or nil if none exists.
	GetMain(ctx context.Context) (*domain.Wallet, error)
	ListAll(ctx context.Context) ([]domain.Wallet, error)
	// FindAssignable returns the best receiving wallet for a new payment:
	// non-main, not bound to any payment still in pending state, ranked by
	// descending latest balance snapshot. Nil when the pool is exhausted.
	FindAssignable(ctx context.Context) (*domain.Wallet, error)
	// ListSubWalletsWithBalance returns all non-main wallets with their
	// latest balance snapshot, for the treasury sweep.
	ListSubWalletsWithBalance(ctx context.Context) ([]WalletBalance, error)
	InsertBalanceSnapshot(ctx context.Context, snap *domain.BalanceSnapshot) error
}

// PaymentRepository defines persistence operations for payments and their
// append-only status event histories.
type PaymentRepository interface {
	// Create persists the payment together with its initial pending status
	// event within the given database transaction.
	Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error
	// GetByToken returns the payment with its full status history, or nil.
	GetByToken(ctx context.Context, token string) (*domain.Payment, error)
	// FindPendingMatch returns an existing payment for the same
	// (product, quantity, customer) whose status is still pending, or nil.
	FindPendingMatch(ctx context.Context, productID uuid.UUID, quantity int, customerID string) (*domain.Payment, error)
	// ListPending returns all payments currently in pending state, with
	// status histories loaded.
	ListPending(ctx context.Context) ([]domain.Payment, error)
	// ListPendingByWalletAddress scopes ListPending to one receiving wallet.
	ListPendingByWalletAddress(ctx context.Context, address string) ([]domain.Payment, error)
	// AppendStatus appends a status event unless a terminal event already
	// exists. Returns false when the append was refused; the refusal is
	// enforced by the storage layer, not an in-process lock.
	AppendStatus(ctx context.Context, paymentID uuid.UUID, status domain.PaymentStatus) (bool, error)
}

// TransactionRepository defines persistence operations for on-chain
// transaction records.
type TransactionRepository interface {
	// InsertIfAbsent records the transaction unless its hash is already
	// known. Returns true when a new row was inserted. Concurrent duplicate
	// delivery is resolved by the hash uniqueness constraint.
	InsertIfAbsent(ctx context.Context, t *domain.Transaction) (bool, error)
	// Create inserts within a database transaction (payout completion).
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	GetByHash(ctx context.Context, hash string) (*domain.Transaction, error)
	ListForPayment(ctx context.Context, paymentID uuid.UUID) ([]domain.Transaction, error)
	// SumExternalForPayment totals customer deposits linked to a payment.
	SumExternalForPayment(ctx context.Context, paymentID uuid.UUID) (*big.Int, error)
	// SumExternalForMerchantSince totals external transactions on the
	// merchant's products created strictly after the watermark.
	SumExternalForMerchantSince(ctx context.Context, userID uuid.UUID, since time.Time) (*big.Int, error)
}

// PayoutRepository defines persistence operations for scheduled payouts.
type PayoutRepository interface {
	Create(ctx context.Context, tx pgx.Tx, p *domain.ScheduledPayout) error
	ListPending(ctx context.Context) ([]domain.ScheduledPayout, error)
	// GetLastValid returns the merchant's most recent payout in pending or
	// completed state (the watermark), or nil.
	GetLastValid(ctx context.Context, userID uuid.UUID) (*domain.ScheduledPayout, error)
	MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	// LockMerchant serialises payout scheduling per merchant for the
	// lifetime of the given database transaction.
	LockMerchant(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}

// RateRepository defines persistence for exchange-rate quotes.
type RateRepository interface {
	Create(ctx context.Context, r *domain.ExchangeRate) error
	// GetLatest returns the freshest stored quote for a currency, or nil.
	GetLatest(ctx context.Context, currency string) (*domain.ExchangeRate, error)
}

// ProductRepository is the read-only view of the externally managed catalog.
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
