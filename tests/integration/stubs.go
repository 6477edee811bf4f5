package integration

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"

	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// --- Stub Ledger ---

// stubLedger is an in-memory blockchain view. Tests seed balances and
// histories and inspect broadcast transactions.
type stubLedger struct {
	mu         sync.RWMutex
	balances   map[string]*big.Int
	histories  map[string][]ports.LedgerTx
	gasPrice   *big.Int
	chainID    *big.Int
	nonces     map[string]uint64
	broadcasts []*types.Transaction
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		balances:  make(map[string]*big.Int),
		histories: make(map[string][]ports.LedgerTx),
		gasPrice:  big.NewInt(10_000_000_000), // 10 gwei
		chainID:   big.NewInt(11155111),
		nonces:    make(map[string]uint64),
	}
}

func (l *stubLedger) setBalance(address string, wei *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[strings.ToLower(address)] = new(big.Int).Set(wei)
}

func (l *stubLedger) addDeposit(address, hash, from string, wei *big.Int, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := strings.ToLower(address)
	l.histories[key] = append(l.histories[key], ports.LedgerTx{
		Hash: hash, From: from, To: address, ValueWei: new(big.Int).Set(wei), Timestamp: at,
	})
}

func (l *stubLedger) setGasPrice(wei *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gasPrice = new(big.Int).Set(wei)
}

func (l *stubLedger) broadcastCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.broadcasts)
}

func (l *stubLedger) Balance(_ context.Context, address string) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.balances[strings.ToLower(address)]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (l *stubLedger) History(_ context.Context, address string) ([]ports.LedgerTx, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]ports.LedgerTx(nil), l.histories[strings.ToLower(address)]...), nil
}

func (l *stubLedger) GasPrice(_ context.Context) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.gasPrice), nil
}

func (l *stubLedger) PendingNonce(_ context.Context, address string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := l.nonces[strings.ToLower(address)]
	l.nonces[strings.ToLower(address)] = n + 1
	return n, nil
}

func (l *stubLedger) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(l.chainID), nil
}

func (l *stubLedger) Broadcast(_ context.Context, tx *types.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcasts = append(l.broadcasts, tx)
	return nil
}

// --- Stub Vault ---

// stubVault seals keys reversibly so signing works with real key material.
type stubVault struct{}

func (stubVault) Encrypt(plaintext string) (string, error) {
	return "sealed:" + plaintext, nil
}

func (stubVault) SignTransaction(encryptedKey string, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	hexKey, ok := strings.CutPrefix(encryptedKey, "sealed:")
	if !ok {
		return nil, fmt.Errorf("unsealed key material")
	}
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, err
	}
	return types.SignTx(tx, types.NewEIP155Signer(chainID), key)
}

// --- Stub Pricing ---

type stubPricing struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
	down  bool
}

func newStubPricing() *stubPricing {
	return &stubPricing{rates: map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("3200"),
		"EUR": decimal.RequireFromString("2950"),
	}}
}

func (p *stubPricing) EthRates(_ context.Context, currencies []string) (map[string]decimal.Decimal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.down {
		return nil, fmt.Errorf("price source unreachable")
	}
	out := make(map[string]decimal.Decimal, len(currencies))
	for _, c := range currencies {
		c = strings.ToUpper(c)
		rate, ok := p.rates[c]
		if !ok {
			return nil, fmt.Errorf("no quote for %s", c)
		}
		out[c] = rate
	}
	return out, nil
}

// --- In-Memory Rate Cache ---

type memRateCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	rate    domain.ExchangeRate
	expires time.Time
}

func newMemRateCache() *memRateCache {
	return &memRateCache{entries: make(map[string]cacheEntry)}
}

func (c *memRateCache) Get(_ context.Context, currency string) (*domain.ExchangeRate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[strings.ToUpper(currency)]
	if !ok || time.Now().After(e.expires) {
		return nil, nil
	}
	cp := e.rate
	return &cp, nil
}

func (c *memRateCache) Set(_ context.Context, rate *domain.ExchangeRate, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.ToUpper(rate.Currency)] = cacheEntry{rate: *rate, expires: time.Now().Add(ttl)}
	return nil
}
