package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies an observed or produced on-chain transfer.
type TransactionType string

const (
	// TransactionTypeExternal is a customer deposit into a receiving wallet.
	TransactionTypeExternal TransactionType = "external"
	// TransactionTypeInternal is a treasury sweep from a receiving wallet.
	TransactionTypeInternal TransactionType = "internal"
	// TransactionTypePayout is a merchant payout from the treasury wallet.
	TransactionTypePayout TransactionType = "payout"
)

// Transaction is the internal record of one on-chain transfer, keyed by the
// external ledger hash. A hash is recorded at most once regardless of how
// many times reconciliation observes it.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	Hash      string          `json:"hash"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	AmountWei *big.Int        `json:"amount_wei"`
	Type      TransactionType `json:"type"`
	PaymentID *uuid.UUID      `json:"payment_id,omitempty"` // nil for sweeps/payouts
	WalletID  uuid.UUID       `json:"wallet_id"`
	CreatedAt time.Time       `json:"created_at"`
}
