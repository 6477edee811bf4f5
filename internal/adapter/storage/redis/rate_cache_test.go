package redis

import (
	"context"
	"testing"
	"time"

	"ether-payment-gateway/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRate(currency string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		ID:        uuid.New(),
		Currency:  currency,
		Rate:      decimal.RequireFromString("3214.55"),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRateCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewRateCache(client)
	ctx := context.Background()

	// Get before set => nil
	result, err := cache.Get(ctx, "USD")
	assert.NoError(t, err)
	assert.Nil(t, result)

	rate := newTestRate("USD")
	err = cache.Set(ctx, rate, domain.RateFreshnessWindow)
	require.NoError(t, err)

	result, err = cache.Get(ctx, "USD")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, rate.ID, result.ID)
	assert.True(t, rate.Rate.Equal(result.Rate))
}

func TestRateCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewRateCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, newTestRate("EUR"), domain.RateFreshnessWindow)
	require.NoError(t, err)

	// Fast-forward time in miniredis past the freshness window
	s.FastForward(domain.RateFreshnessWindow + time.Minute)

	result, err := cache.Get(ctx, "EUR")
	assert.NoError(t, err)
	assert.Nil(t, result, "expired quote should return nil")
}

func TestRateCache_CaseInsensitiveCurrency(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewRateCache(client)
	ctx := context.Background()

	rate := newTestRate("PLN")
	err := cache.Set(ctx, rate, time.Hour)
	require.NoError(t, err)

	result, err := cache.Get(ctx, "pln")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "PLN", result.Currency)
}
