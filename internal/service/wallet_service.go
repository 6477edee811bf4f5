package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/apperror"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletAllocator.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	vault      ports.KeyVault
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	vault ports.KeyVault,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		vault:      vault,
		log:        log,
	}
}

// AssignWalletForPayment returns the idle receiving wallet with the highest
// latest balance, minting a fresh wallet when every existing one is bound to
// an open payment. The pool therefore grows to the historical peak of
// concurrent payments and then stabilises.
func (s *WalletServiceImpl) AssignWalletForPayment(ctx context.Context) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindAssignable(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find assignable wallet: %w", err))
	}
	if wallet != nil {
		return wallet, nil
	}

	s.log.Info().Msg("receiving wallet pool exhausted, minting a new wallet")
	return s.CreateWallet(ctx)
}

// CreateWallet mints a new receiving wallet with a random keypair.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context) (*domain.Wallet, error) {
	return s.mint(ctx, false)
}

// CreateMainWallet mints the treasury wallet. There is exactly one; a second
// call is a conflict.
func (s *WalletServiceImpl) CreateMainWallet(ctx context.Context) (*domain.Wallet, error) {
	existing, err := s.walletRepo.GetMain(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check main wallet: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrMainWalletExists()
	}
	return s.mint(ctx, true)
}

func (s *WalletServiceImpl) mint(ctx context.Context, isMain bool) (*domain.Wallet, error) {
	privateKey, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generating keypair: %w", err))
	}

	address := ethcrypto.PubkeyToAddress(privateKey.PublicKey).Hex()
	encrypted, err := s.vault.Encrypt(hex.EncodeToString(ethcrypto.FromECDSA(privateKey)))
	if err != nil {
		return nil, err
	}
	privateKey.D.SetInt64(0)

	wallet := &domain.Wallet{
		ID:                  uuid.New(),
		Address:             address,
		EncryptedPrivateKey: encrypted,
		IsMain:              isMain,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("address", wallet.Address).
		Bool("is_main", isMain).
		Msg("wallet created")

	return wallet, nil
}
