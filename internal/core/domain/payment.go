package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus names one lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsTerminal reports whether the status ends the payment lifecycle.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusExpired || s == PaymentStatusFailed
}

// terminalPrecedence resolves the current status when more than one terminal
// event would be proposed: completed wins over expired wins over failed.
var terminalPrecedence = []PaymentStatus{
	PaymentStatusCompleted,
	PaymentStatusExpired,
	PaymentStatusFailed,
}

// StatusEvent is one entry in a payment's append-only status history.
// Events are never edited or deleted.
type StatusEvent struct {
	ID        uuid.UUID     `json:"id"`
	PaymentID uuid.UUID     `json:"payment_id"`
	Name      PaymentStatus `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
}

// Payment is a customer's intent to pay for a product, bound to a receiving
// wallet. Its current status is derived from the event history, never stored.
type Payment struct {
	ID             uuid.UUID     `json:"id"`
	Token          string        `json:"token"` // opaque, unguessable
	ProductID      uuid.UUID     `json:"product_id"`
	Quantity       int           `json:"quantity"`
	CustomerID     string        `json:"customer_id"`
	TotalAmountWei *big.Int      `json:"total_amount_wei"`
	Cryptocurrency string        `json:"cryptocurrency"` // settlement asset, "ETH"
	WalletID       uuid.UUID     `json:"wallet_id"`
	ExchangeRateID uuid.UUID     `json:"exchange_rate_id"`
	CreatedAt      time.Time     `json:"created_at"`
	ExpiresAt      time.Time     `json:"expires_at"`
	Statuses       []StatusEvent `json:"statuses"`
}

// DeriveStatus computes the current status from an event history: pending
// iff at most the initial event exists, otherwise the first terminal status
// present in precedence order.
func DeriveStatus(events []StatusEvent) PaymentStatus {
	if len(events) <= 1 {
		return PaymentStatusPending
	}
	for _, terminal := range terminalPrecedence {
		for _, e := range events {
			if e.Name == terminal {
				return terminal
			}
		}
	}
	return PaymentStatusPending
}

// CurrentStatus derives the payment's status from its history.
func (p *Payment) CurrentStatus() PaymentStatus {
	return DeriveStatus(p.Statuses)
}

// IsTerminal reports whether the payment has reached a final state.
func (p *Payment) IsTerminal() bool {
	return p.CurrentStatus().IsTerminal()
}

// IsExpiredAt reports whether the expiry window has passed at the given time.
func (p *Payment) IsExpiredAt(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
