package postgres

import (
	"context"
	"errors"
	"fmt"

	"ether-payment-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RateRepo implements ports.RateRepository.
type RateRepo struct {
	pool Pool
}

// NewRateRepo creates a new RateRepo.
func NewRateRepo(pool Pool) *RateRepo {
	return &RateRepo{pool: pool}
}

// Create appends one exchange-rate quote. Quotes are never updated; the
// freshest row per currency is the effective rate.
func (r *RateRepo) Create(ctx context.Context, rate *domain.ExchangeRate) error {
	query := `INSERT INTO exchange_rates (id, currency, rate, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, rate.ID, rate.Currency, rate.Rate, rate.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exchange rate: %w", err)
	}
	return nil
}

// GetLatest fetches the freshest stored quote for a currency, or nil.
func (r *RateRepo) GetLatest(ctx context.Context, currency string) (*domain.ExchangeRate, error) {
	query := `SELECT id, currency, rate, created_at FROM exchange_rates
		WHERE currency = $1
		ORDER BY created_at DESC
		LIMIT 1`

	rate := &domain.ExchangeRate{}
	err := r.pool.QueryRow(ctx, query, currency).Scan(
		&rate.ID, &rate.Currency, &rate.Rate, &rate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest rate: %w", err)
	}
	return rate, nil
}
