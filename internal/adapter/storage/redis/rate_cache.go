package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ether-payment-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// RateCache implements ports.RateCache using Redis. Entries carry a TTL equal
// to the rate freshness window, so a hit never needs a staleness check.
type RateCache struct {
	client *goredis.Client
	prefix string
}

// NewRateCache creates a new Redis-backed exchange-rate cache.
func NewRateCache(client *goredis.Client) *RateCache {
	return &RateCache{
		client: client,
		prefix: "rate:",
	}
}

// Get retrieves the cached quote for a currency.
// Returns nil, nil on a cache miss.
func (c *RateCache) Get(ctx context.Context, currency string) (*domain.ExchangeRate, error) {
	val, err := c.client.Get(ctx, c.key(currency)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis rate get: %w", err)
	}

	var rate domain.ExchangeRate
	if err := json.Unmarshal(val, &rate); err != nil {
		return nil, fmt.Errorf("redis rate decode: %w", err)
	}
	return &rate, nil
}

// Set stores a quote with the given TTL.
func (c *RateCache) Set(ctx context.Context, rate *domain.ExchangeRate, ttl time.Duration) error {
	val, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("redis rate encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(rate.Currency), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis rate set: %w", err)
	}
	return nil
}

func (c *RateCache) key(currency string) string {
	return c.prefix + strings.ToUpper(currency)
}
