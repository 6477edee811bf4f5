package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// PayoutStatus is the state of a scheduled payout.
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"
)

// ScheduledPayout records the intent to move settled funds to a merchant.
// The amount is fixed at schedule time and never recomputed. A payout in
// pending or completed state advances the merchant's watermark, so the same
// funds cannot be claimed twice.
type ScheduledPayout struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	AmountWei *big.Int     `json:"amount_wei"`
	Address   string       `json:"address"`
	Status    PayoutStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
