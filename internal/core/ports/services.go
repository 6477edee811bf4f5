package ports

import (
	"context"
	"math/big"

	"ether-payment-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// --- Service Ports (Business Logic) ---

// IssueTokenRequest holds validated input for payment token issuance.
type IssueTokenRequest struct {
	ProductID  uuid.UUID
	Quantity   int
	CustomerID string
}

// PaymentInfo is the customer-facing display data for a pending payment.
type PaymentInfo struct {
	ProductName    string `json:"product_name"`
	AmountEth      string `json:"amount_eth"`
	Address        string `json:"address"`
	Cryptocurrency string `json:"cryptocurrency"`
}

// PaymentDetails is the merchant-facing view of a payment in any state.
type PaymentDetails struct {
	Status       domain.PaymentStatus `json:"status"`
	Payment      *domain.Payment      `json:"payment"`
	Product      *domain.Product      `json:"product"`
	Wallet       *domain.Wallet       `json:"wallet"`
	Transactions []domain.Transaction `json:"transactions"`
}

// PaymentService owns the payment state machine.
type PaymentService interface {
	// IssueToken is idempotent: an existing pending payment for the same
	// (product, quantity, customer) yields its token instead of a duplicate.
	IssueToken(ctx context.Context, req IssueTokenRequest) (string, error)
	// GetInfo returns display data only while the payment is pending and not
	// expired. Observing expiry during the read transitions the payment.
	GetInfo(ctx context.Context, token string) (*PaymentInfo, error)
	GetDetails(ctx context.Context, token string) (*PaymentDetails, error)
	// AppendStatus appends a terminal status decided by reconciliation.
	// A payment past its expiry is transitioned to expired regardless of the
	// proposed status; a second terminal event is a Conflict.
	AppendStatus(ctx context.Context, token string, status domain.PaymentStatus) error
}

// WalletAllocator manages the pool of receiving wallets.
type WalletAllocator interface {
	// AssignWalletForPayment returns an idle receiving wallet, minting a new
	// one when the pool is exhausted.
	AssignWalletForPayment(ctx context.Context) (*domain.Wallet, error)
	CreateWallet(ctx context.Context) (*domain.Wallet, error)
	// CreateMainWallet creates the single treasury wallet; a second call is
	// a Conflict.
	CreateMainWallet(ctx context.Context) (*domain.Wallet, error)
}

// ReconcileService matches observed ledger transactions to pending payments
// and drives lifecycle transitions.
type ReconcileService interface {
	// ProcessPending reconciles every pending payment. Per-payment failures
	// are logged and skipped.
	ProcessPending(ctx context.Context) error
	// ProcessWallet reconciles pending payments bound to one wallet address
	// (the manual trigger).
	ProcessWallet(ctx context.Context, address string) error
}

// PayoutQuote is the payable amount for a merchant at quote time.
type PayoutQuote struct {
	AmountWei *big.Int `json:"-"`
	AmountEth string   `json:"amount_eth"`
	Currency  string   `json:"currency"`
}

// PayoutService computes and executes merchant payouts.
type PayoutService interface {
	PayoutAmount(ctx context.Context, userID uuid.UUID) (*PayoutQuote, error)
	// SchedulePayout records payout intent; it never moves funds.
	SchedulePayout(ctx context.Context, userID uuid.UUID, address string) (*domain.ScheduledPayout, error)
	// ProcessScheduledPayouts executes pending payouts from the treasury,
	// skipping those the treasury cannot cover and aborting any whose
	// network fee exceeds the ceiling. One failure never stops the run.
	ProcessScheduledPayouts(ctx context.Context) error
}

// TransferService moves custodial funds on chain.
type TransferService interface {
	// ExecuteTransfer sends amount minus gas cost from a custodial wallet,
	// aborting when the fee ceiling is exceeded. Returns the broadcast
	// transfer as an unsaved record; the caller tags its type and persists.
	ExecuteTransfer(ctx context.Context, fromWalletID uuid.UUID, to string, amountWei *big.Int) (*domain.Transaction, error)
	// SweepToMain drains every funded receiving wallet into the treasury.
	// Each wallet sweep is independent.
	SweepToMain(ctx context.Context) error
}

// RateService provides freshness-checked exchange rates.
type RateService interface {
	// FreshRate returns a quote no older than the freshness window,
	// refreshing from the price source when necessary.
	FreshRate(ctx context.Context, currency string) (*domain.ExchangeRate, error)
	// RefreshRates fetches and stores quotes for all supported currencies.
	RefreshRates(ctx context.Context) error
}

// BalanceService records wallet balance observations.
type BalanceService interface {
	// SnapshotBalances appends one balance snapshot per wallet. Per-wallet
	// failures are logged and skipped.
	SnapshotBalances(ctx context.Context) error
}
