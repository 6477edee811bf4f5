package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateFreshnessWindow is how long a stored exchange-rate quote may be reused
// before the caller must refresh it.
const RateFreshnessWindow = 30 * time.Minute

// ExchangeRate is one timestamped fiat-to-ETH quote. Rows are append-only;
// the freshest row per currency is the effective rate.
type ExchangeRate struct {
	ID        uuid.UUID       `json:"id"`
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"` // fiat units per 1 ETH
	CreatedAt time.Time       `json:"created_at"`
}

// IsStaleAt reports whether the quote is older than the freshness window.
func (r *ExchangeRate) IsStaleAt(now time.Time) bool {
	return r.CreatedAt.Before(now.Add(-RateFreshnessWindow))
}
