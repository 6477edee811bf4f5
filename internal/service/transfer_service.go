package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// transferGasLimit is the fixed gas limit of a plain ETH value transfer.
const transferGasLimit = 21_000

// TransferServiceImpl implements ports.TransferService. Every custodial
// movement prices its gas up front and aborts when the network fee would
// exceed the configured ceiling, leaving funds where they are.
type TransferServiceImpl struct {
	walletRepo    ports.WalletRepository
	txRepo        ports.TransactionRepository
	ledger        ports.LedgerClient
	vault         ports.KeyVault
	feeCeilingWei *big.Int
	log           zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl. feeCeilingEth is the
// maximum acceptable network fee as a decimal ETH string.
func NewTransferService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	ledger ports.LedgerClient,
	vault ports.KeyVault,
	feeCeilingEth string,
	log zerolog.Logger,
) (*TransferServiceImpl, error) {
	ceiling, err := decimal.NewFromString(feeCeilingEth)
	if err != nil {
		return nil, fmt.Errorf("parse fee ceiling %q: %w", feeCeilingEth, err)
	}
	if ceiling.Sign() <= 0 {
		return nil, fmt.Errorf("fee ceiling must be positive, got %q", feeCeilingEth)
	}
	return &TransferServiceImpl{
		walletRepo:    walletRepo,
		txRepo:        txRepo,
		ledger:        ledger,
		vault:         vault,
		feeCeilingWei: domain.EthToWei(ceiling),
		log:           log,
	}, nil
}

// ExecuteTransfer sends amount minus gas cost from the given custodial wallet.
// The recipient receives amount - gasCost, so the sending wallet is drained of
// exactly amount. The returned record is not persisted; the caller tags its
// type and stores it.
func (s *TransferServiceImpl) ExecuteTransfer(ctx context.Context, fromWalletID uuid.UUID, to string, amountWei *big.Int) (*domain.Transaction, error) {
	if !common.IsHexAddress(to) {
		return nil, apperror.ErrInvalidAddress(to)
	}
	if amountWei == nil || amountWei.Sign() <= 0 {
		return nil, apperror.ErrInsufficientFunds()
	}

	wallet, err := s.walletRepo.GetByID(ctx, fromWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	balance, err := s.ledger.Balance(ctx, wallet.Address)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("ethereum", err)
	}
	if balance.Cmp(amountWei) < 0 {
		return nil, apperror.ErrInsufficientFunds()
	}

	gasPrice, err := s.ledger.GasPrice(ctx)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("ethereum", err)
	}
	gasCost := new(big.Int).Mul(gasPrice, big.NewInt(transferGasLimit))
	if gasCost.Cmp(s.feeCeilingWei) > 0 {
		s.log.Warn().
			Str("gas_cost_wei", gasCost.String()).
			Str("ceiling_wei", s.feeCeilingWei.String()).
			Msg("transfer aborted, network fee above ceiling")
		return nil, apperror.ErrFeeTooHigh(domain.FormatEth(gasCost))
	}

	// The fee comes out of the transferred amount, not on top of it.
	value := new(big.Int).Sub(amountWei, gasCost)
	if value.Sign() <= 0 {
		return nil, apperror.ErrInsufficientFunds()
	}

	nonce, err := s.ledger.PendingNonce(ctx, wallet.Address)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("ethereum", err)
	}
	chainID, err := s.ledger.ChainID(ctx)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("ethereum", err)
	}

	unsigned := types.NewTransaction(nonce, common.HexToAddress(to), value, transferGasLimit, gasPrice, nil)
	signed, err := s.vault.SignTransaction(wallet.EncryptedPrivateKey, unsigned, chainID)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Broadcast(ctx, signed); err != nil {
		return nil, apperror.ErrUpstreamUnavailable("ethereum", err)
	}

	s.log.Info().
		Str("hash", signed.Hash().Hex()).
		Str("from", wallet.Address).
		Str("to", to).
		Str("value_wei", value.String()).
		Msg("transfer broadcast")

	return &domain.Transaction{
		ID:        uuid.New(),
		Hash:      signed.Hash().Hex(),
		From:      wallet.Address,
		To:        to,
		AmountWei: value,
		WalletID:  wallet.ID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SweepToMain drains every funded receiving wallet into the treasury. Each
// wallet is swept independently; one failed wallet never blocks the rest.
func (s *TransferServiceImpl) SweepToMain(ctx context.Context) error {
	main, err := s.walletRepo.GetMain(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load main wallet: %w", err))
	}
	if main == nil {
		return apperror.ErrNotFound("main wallet")
	}

	wallets, err := s.walletRepo.ListSubWalletsWithBalance(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("list sub wallets: %w", err))
	}

	swept := 0
	for _, w := range wallets {
		balance, err := s.ledger.Balance(ctx, w.Wallet.Address)
		if err != nil {
			s.log.Error().Err(err).Str("address", w.Wallet.Address).Msg("sweep: balance check failed")
			continue
		}
		if balance.Sign() <= 0 {
			continue
		}

		rec, err := s.ExecuteTransfer(ctx, w.Wallet.ID, main.Address, balance)
		if err != nil {
			s.log.Error().Err(err).Str("address", w.Wallet.Address).Msg("sweep: transfer failed")
			continue
		}
		rec.Type = domain.TransactionTypeInternal
		if _, err := s.txRepo.InsertIfAbsent(ctx, rec); err != nil {
			s.log.Error().Err(err).Str("hash", rec.Hash).Msg("sweep: record transaction failed")
			continue
		}
		swept++
	}

	s.log.Info().Int("swept", swept).Int("candidates", len(wallets)).Msg("sweep run finished")
	return nil
}
