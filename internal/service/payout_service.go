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
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PayoutServiceImpl implements ports.PayoutService. Payable funds are derived
// from a watermark: everything deposited on the merchant's products after
// their last pending or completed payout. Scheduling fixes the amount;
// execution later moves it from the treasury.
type PayoutServiceImpl struct {
	payoutRepo  ports.PayoutRepository
	txRepo      ports.TransactionRepository
	walletRepo  ports.WalletRepository
	ledger      ports.LedgerClient
	transferSvc ports.TransferService
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(
	payoutRepo ports.PayoutRepository,
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	ledger ports.LedgerClient,
	transferSvc ports.TransferService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *PayoutServiceImpl {
	return &PayoutServiceImpl{
		payoutRepo:  payoutRepo,
		txRepo:      txRepo,
		walletRepo:  walletRepo,
		ledger:      ledger,
		transferSvc: transferSvc,
		transactor:  transactor,
		log:         log,
	}
}

// PayoutAmount returns the merchant's currently payable amount.
func (s *PayoutServiceImpl) PayoutAmount(ctx context.Context, userID uuid.UUID) (*ports.PayoutQuote, error) {
	amount, err := s.payableAmount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.PayoutQuote{
		AmountWei: amount,
		AmountEth: domain.FormatEth(amount),
		Currency:  "ETH",
	}, nil
}

// SchedulePayout records the intent to pay the merchant their payable amount.
// Scheduling is serialised per merchant with an advisory lock, so two
// concurrent calls can never both claim the same deposits.
func (s *PayoutServiceImpl) SchedulePayout(ctx context.Context, userID uuid.UUID, address string) (*domain.ScheduledPayout, error) {
	if !common.IsHexAddress(address) {
		return nil, apperror.ErrInvalidAddress(address)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.payoutRepo.LockMerchant(ctx, dbTx, userID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock merchant: %w", err))
	}

	// Recomputed under the lock: a payout committed by a concurrent
	// scheduler has already advanced the watermark by now.
	amount, err := s.payableAmount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, apperror.ErrNoFundsForPayout()
	}

	now := time.Now().UTC()
	payout := &domain.ScheduledPayout{
		ID:        uuid.New(),
		UserID:    userID,
		AmountWei: amount,
		Address:   address,
		Status:    domain.PayoutStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.payoutRepo.Create(ctx, dbTx, payout); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist payout: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit payout: %w", err))
	}

	s.log.Info().
		Str("payout_id", payout.ID.String()).
		Str("user_id", userID.String()).
		Str("amount_wei", amount.String()).
		Msg("payout scheduled")
	return payout, nil
}

// ProcessScheduledPayouts executes every pending payout from the treasury.
// A payout the treasury cannot cover, or whose transfer fails, stays pending
// for the next run; one payout never blocks another.
func (s *PayoutServiceImpl) ProcessScheduledPayouts(ctx context.Context) error {
	main, err := s.walletRepo.GetMain(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load main wallet: %w", err))
	}
	if main == nil {
		return apperror.ErrNotFound("main wallet")
	}

	payouts, err := s.payoutRepo.ListPending(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("list pending payouts: %w", err))
	}

	completed := 0
	for i := range payouts {
		payout := &payouts[i]

		balance, err := s.ledger.Balance(ctx, main.Address)
		if err != nil {
			s.log.Error().Err(err).
				Str("payout_id", payout.ID.String()).
				Msg("payout run: treasury balance check failed, payout stays pending")
			continue
		}
		if balance.Cmp(payout.AmountWei) < 0 {
			s.log.Warn().
				Str("payout_id", payout.ID.String()).
				Str("amount_wei", payout.AmountWei.String()).
				Str("treasury_wei", balance.String()).
				Msg("payout run: treasury cannot cover payout, skipping")
			continue
		}

		rec, err := s.transferSvc.ExecuteTransfer(ctx, main.ID, payout.Address, payout.AmountWei)
		if err != nil {
			s.log.Error().Err(err).
				Str("payout_id", payout.ID.String()).
				Msg("payout run: transfer failed, payout stays pending")
			continue
		}

		if err := s.complete(ctx, payout, rec); err != nil {
			s.log.Error().Err(err).
				Str("payout_id", payout.ID.String()).
				Str("hash", rec.Hash).
				Msg("payout run: completion bookkeeping failed")
			continue
		}
		completed++
	}

	s.log.Info().Int("completed", completed).Int("pending", len(payouts)).Msg("payout run finished")
	return nil
}

// complete marks the payout done and records its on-chain transaction in one
// database transaction.
func (s *PayoutServiceImpl) complete(ctx context.Context, payout *domain.ScheduledPayout, rec *domain.Transaction) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.payoutRepo.MarkCompleted(ctx, dbTx, payout.ID); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	rec.Type = domain.TransactionTypePayout
	if err := s.txRepo.Create(ctx, dbTx, rec); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return dbTx.Commit(ctx)
}

// payableAmount totals the merchant's deposits received after their last
// valid payout. A merchant with no payout history is paid from the beginning
// of time.
func (s *PayoutServiceImpl) payableAmount(ctx context.Context, userID uuid.UUID) (*big.Int, error) {
	last, err := s.payoutRepo.GetLastValid(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load watermark: %w", err))
	}
	since := time.Time{}
	if last != nil {
		since = last.CreatedAt
	}

	amount, err := s.txRepo.SumExternalForMerchantSince(ctx, userID, since)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum deposits: %w", err))
	}
	return amount, nil
}
