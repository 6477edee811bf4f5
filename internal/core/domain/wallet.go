package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Wallet is a custodial blockchain address. Exactly one wallet system-wide
// is the treasury (main) wallet; all others are fungible receiving slots.
type Wallet struct {
	ID                  uuid.UUID `json:"id"`
	Address             string    `json:"address"`
	EncryptedPrivateKey string    `json:"-"` // AES-256-GCM, never expose
	IsMain              bool      `json:"is_main"`
	CreatedAt           time.Time `json:"created_at"`
}

// BalanceSnapshot is one immutable observation of a wallet's on-chain
// balance. Balances form an append-only time series, never a mutable field.
type BalanceSnapshot struct {
	ID         uuid.UUID `json:"id"`
	WalletID   uuid.UUID `json:"wallet_id"`
	BalanceWei *big.Int  `json:"balance_wei"`
	CreatedAt  time.Time `json:"created_at"`
}
