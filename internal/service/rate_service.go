package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RateServiceImpl implements ports.RateService. Quote lookup is layered:
// Redis (TTL = freshness window), then the freshest stored row, then the
// upstream price source.
type RateServiceImpl struct {
	rateRepo   ports.RateRepository
	rateCache  ports.RateCache
	pricing    ports.PricingClient
	currencies []string
	log        zerolog.Logger
}

// NewRateService creates a new RateServiceImpl. currencies lists the fiat
// codes refreshed by RefreshRates.
func NewRateService(
	rateRepo ports.RateRepository,
	rateCache ports.RateCache,
	pricing ports.PricingClient,
	currencies []string,
	log zerolog.Logger,
) *RateServiceImpl {
	return &RateServiceImpl{
		rateRepo:   rateRepo,
		rateCache:  rateCache,
		pricing:    pricing,
		currencies: currencies,
		log:        log,
	}
}

// FreshRate returns a quote no older than the freshness window, fetching
// from the price source when neither cache nor store holds one.
func (s *RateServiceImpl) FreshRate(ctx context.Context, currency string) (*domain.ExchangeRate, error) {
	currency = strings.ToUpper(currency)

	cached, err := s.rateCache.Get(ctx, currency)
	if err != nil {
		s.log.Warn().Err(err).Str("currency", currency).Msg("rate cache read failed, falling through to store")
	}
	if cached != nil {
		return cached, nil
	}

	now := time.Now().UTC()
	stored, err := s.rateRepo.GetLatest(ctx, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load latest rate: %w", err))
	}
	if stored != nil && !stored.IsStaleAt(now) {
		s.cacheRate(ctx, stored, domain.RateFreshnessWindow-now.Sub(stored.CreatedAt))
		return stored, nil
	}

	rate, err := s.fetchAndStore(ctx, currency)
	if err != nil {
		// A stale stored quote is worse than none: surface it as such.
		if stored != nil {
			return nil, apperror.ErrStaleRate(currency)
		}
		return nil, err
	}
	return rate, nil
}

// RefreshRates fetches and stores quotes for every supported currency.
// One failing currency never stops the rest.
func (s *RateServiceImpl) RefreshRates(ctx context.Context) error {
	rates, err := s.pricing.EthRates(ctx, s.currencies)
	if err != nil {
		return err
	}

	for currency, value := range rates {
		rate := &domain.ExchangeRate{
			ID:        uuid.New(),
			Currency:  currency,
			Rate:      value,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.rateRepo.Create(ctx, rate); err != nil {
			s.log.Error().Err(err).Str("currency", currency).Msg("storing refreshed rate failed")
			continue
		}
		s.cacheRate(ctx, rate, domain.RateFreshnessWindow)
	}
	return nil
}

func (s *RateServiceImpl) fetchAndStore(ctx context.Context, currency string) (*domain.ExchangeRate, error) {
	rates, err := s.pricing.EthRates(ctx, []string{currency})
	if err != nil {
		return nil, err
	}
	value, ok := rates[currency]
	if !ok {
		return nil, apperror.ErrStaleRate(currency)
	}

	rate := &domain.ExchangeRate{
		ID:        uuid.New(),
		Currency:  currency,
		Rate:      value,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("store rate: %w", err))
	}
	s.cacheRate(ctx, rate, domain.RateFreshnessWindow)
	return rate, nil
}

func (s *RateServiceImpl) cacheRate(ctx context.Context, rate *domain.ExchangeRate, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.rateCache.Set(ctx, rate, ttl); err != nil {
		s.log.Warn().Err(err).Str("currency", rate.Currency).Msg("rate cache write failed")
	}
}
