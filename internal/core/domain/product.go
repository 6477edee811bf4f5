package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the read model of a merchant's product. Product management is
// owned by an external collaborator; the payment engine only resolves prices.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"` // owning merchant
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"` // in Currency
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// PriceEth converts the fiat price to ETH using the given rate
// (fiat units per 1 ETH).
func (p *Product) PriceEth(rate decimal.Decimal) decimal.Decimal {
	return p.Price.Div(rate)
}
