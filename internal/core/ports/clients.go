package ports

import (
	"context"
	"math/big"
	"time"

	"ether-payment-gateway/internal/core/domain"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// LedgerTx is one historical transaction as observed on the external ledger.
type LedgerTx struct {
	Hash      string
	From      string
	To        string
	ValueWei  *big.Int
	Timestamp time.Time
}

// LedgerClient is the stateless read/broadcast interface to the blockchain.
// All network configuration is passed at construction; implementations hold
// no per-call state.
type LedgerClient interface {
	Balance(ctx context.Context, address string) (*big.Int, error)
	// History returns the address's historical transactions. The sequence is
	// finite per call and replayable; ordering is not guaranteed.
	History(ctx context.Context, address string) ([]LedgerTx, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	PendingNonce(ctx context.Context, address string) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Broadcast(ctx context.Context, tx *types.Transaction) error
}

// KeyVault holds the symmetric key protecting custodial private keys.
// Plaintext key material never leaves the vault: signing happens inside.
type KeyVault interface {
	Encrypt(plaintext string) (string, error)
	// SignTransaction decrypts the wallet key, signs the transaction for the
	// given chain and discards the key material before returning.
	SignTransaction(encryptedKey string, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// PricingClient fetches current ETH quotes from an external price source.
type PricingClient interface {
	// EthRates returns fiat-per-ETH quotes for each requested currency.
	EthRates(ctx context.Context, currencies []string) (map[string]decimal.Decimal, error)
}

// RateCache is the fast-path store for exchange-rate quotes. Entries expire
// with the freshness window, so a cache hit is always a fresh quote.
type RateCache interface {
	// Get returns the cached quote for a currency, or nil on miss.
	Get(ctx context.Context, currency string) (*domain.ExchangeRate, error)
	Set(ctx context.Context, rate *domain.ExchangeRate, ttl time.Duration) error
}
