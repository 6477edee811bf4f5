package service

import (
	"context"
	"fmt"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BalanceServiceImpl implements ports.BalanceService. Balances are an
// append-only time series of snapshots; nothing is ever updated in place.
type BalanceServiceImpl struct {
	walletRepo ports.WalletRepository
	ledger     ports.LedgerClient
	log        zerolog.Logger
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(walletRepo ports.WalletRepository, ledger ports.LedgerClient, log zerolog.Logger) *BalanceServiceImpl {
	return &BalanceServiceImpl{walletRepo: walletRepo, ledger: ledger, log: log}
}

// SnapshotBalances records one balance observation per wallet. A wallet whose
// balance cannot be read is skipped; the next run covers it.
func (s *BalanceServiceImpl) SnapshotBalances(ctx context.Context) error {
	wallets, err := s.walletRepo.ListAll(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}

	recorded := 0
	for _, w := range wallets {
		balance, err := s.ledger.Balance(ctx, w.Address)
		if err != nil {
			s.log.Error().Err(err).Str("address", w.Address).Msg("snapshot: balance read failed")
			continue
		}
		snap := &domain.BalanceSnapshot{
			ID:         uuid.New(),
			WalletID:   w.ID,
			BalanceWei: balance,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.walletRepo.InsertBalanceSnapshot(ctx, snap); err != nil {
			s.log.Error().Err(err).Str("wallet_id", w.ID.String()).Msg("snapshot: insert failed")
			continue
		}
		recorded++
	}

	s.log.Info().Int("recorded", recorded).Int("wallets", len(wallets)).Msg("balance snapshot run finished")
	return nil
}
