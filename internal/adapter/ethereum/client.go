package ethereum

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ether-payment-gateway/config"
	"ether-payment-gateway/internal/core/ports"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// Client implements ports.LedgerClient against an Ethereum JSON-RPC node,
// with transaction history served by the Etherscan account API because a
// plain node cannot answer "all transactions for address" queries.
type Client struct {
	eth             *ethclient.Client
	httpClient      *http.Client
	etherscanURL    string
	etherscanAPIKey string
	log             zerolog.Logger
}

// NewClient dials the JSON-RPC endpoint and verifies it by fetching the
// chain ID.
func NewClient(ctx context.Context, cfg config.EthereumConfig, log zerolog.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing ethereum node: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}

	log.Info().
		Str("rpc_url", cfg.RPCURL).
		Str("chain_id", chainID.String()).
		Msg("Ethereum node connection established")

	return &Client{
		eth:             eth,
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		etherscanURL:    cfg.EtherscanURL,
		etherscanAPIKey: cfg.EtherscanAPIKey,
		log:             log,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Balance returns the current balance of an address in wei.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching balance of %s: %w", address, err)
	}
	return balance, nil
}

// GasPrice returns the node's suggested gas price in wei.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching gas price: %w", err)
	}
	return price, nil
}

// PendingNonce returns the next usable nonce for an address, pending
// transactions included.
func (c *Client) PendingNonce(ctx context.Context, address string) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, common.HexToAddress(address))
	if err != nil {
		return 0, fmt.Errorf("fetching nonce of %s: %w", address, err)
	}
	return nonce, nil
}

// ChainID returns the connected network's chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}
	return id, nil
}

// Broadcast submits a signed transaction to the network.
func (c *Client) Broadcast(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("broadcasting transaction %s: %w", tx.Hash().Hex(), err)
	}
	return nil
}

// etherscanTx is one row of the Etherscan account txlist response.
type etherscanTx struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
	TimeStamp string `json:"timeStamp"`
	IsError   string `json:"isError"`
}

type etherscanResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Result  []etherscanTx `json:"result"`
}

// History fetches the address's transaction list from the Etherscan API.
// Failed on-chain transactions are filtered out. Ordering follows the API
// response and should not be relied on.
func (c *Client) History(ctx context.Context, address string) ([]ports.LedgerTx, error) {
	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "txlist")
	q.Set("address", address)
	q.Set("startblock", "0")
	q.Set("endblock", "99999999")
	q.Set("sort", "asc")
	if c.etherscanAPIKey != "" {
		q.Set("apikey", c.etherscanAPIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.etherscanURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building etherscan request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying etherscan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("etherscan returned status %d", resp.StatusCode)
	}

	var body etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding etherscan response: %w", err)
	}

	// Status "0" with this message is an empty history, not an error.
	if body.Status != "1" && body.Message != "No transactions found" {
		return nil, fmt.Errorf("etherscan error: %s", body.Message)
	}

	txs := make([]ports.LedgerTx, 0, len(body.Result))
	for _, t := range body.Result {
		if t.IsError != "0" && t.IsError != "" {
			continue
		}
		value, ok := new(big.Int).SetString(t.Value, 10)
		if !ok {
			return nil, fmt.Errorf("invalid transaction value %q in %s", t.Value, t.Hash)
		}
		ts, err := strconv.ParseInt(t.TimeStamp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q in %s: %w", t.TimeStamp, t.Hash, err)
		}
		txs = append(txs, ports.LedgerTx{
			Hash:      t.Hash,
			From:      t.From,
			To:        t.To,
			ValueWei:  value,
			Timestamp: time.Unix(ts, 0).UTC(),
		})
	}
	return txs, nil
}
