package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ether-payment-gateway/config"
	"ether-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CoinGeckoClient implements ports.PricingClient against the CoinGecko
// simple-price API.
type CoinGeckoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        zerolog.Logger
}

// NewCoinGeckoClient creates a CoinGecko pricing client.
func NewCoinGeckoClient(cfg config.PricingConfig, log zerolog.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		log:        log,
	}
}

// EthRates fetches fiat-per-ETH quotes for the requested currencies.
// Currency codes are matched case-insensitively and returned uppercased.
func (c *CoinGeckoClient) EthRates(ctx context.Context, currencies []string) (map[string]decimal.Decimal, error) {
	vs := make([]string, len(currencies))
	for i, cur := range currencies {
		vs[i] = strings.ToLower(cur)
	}

	q := url.Values{}
	q.Set("ids", "ethereum")
	q.Set("vs_currencies", strings.Join(vs, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building pricing request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("coingecko", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.ErrUpstreamUnavailable("coingecko",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding pricing response: %w", err)
	}

	quotes, ok := body["ethereum"]
	if !ok {
		return nil, fmt.Errorf("pricing response missing ethereum quotes")
	}

	rates := make(map[string]decimal.Decimal, len(currencies))
	for _, cur := range currencies {
		rate, ok := quotes[strings.ToLower(cur)]
		if !ok {
			return nil, fmt.Errorf("pricing response missing currency %s", cur)
		}
		rates[strings.ToUpper(cur)] = rate
	}
	return rates, nil
}
