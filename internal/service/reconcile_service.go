package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// reconcileConcurrency caps the number of payments reconciled in parallel so
// a large pending set cannot exhaust upstream rate limits.
const reconcileConcurrency = 5

// ReconcileServiceImpl implements ports.ReconcileService. It replays each
// pending payment's wallet history from the ledger, records deposits exactly
// once and appends the terminal status the expiry window and observed funds
// dictate.
type ReconcileServiceImpl struct {
	paymentRepo ports.PaymentRepository
	walletRepo  ports.WalletRepository
	txRepo      ports.TransactionRepository
	ledger      ports.LedgerClient
	log         zerolog.Logger
}

// NewReconcileService creates a new ReconcileServiceImpl.
func NewReconcileService(
	paymentRepo ports.PaymentRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	ledger ports.LedgerClient,
	log zerolog.Logger,
) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		ledger:      ledger,
		log:         log,
	}
}

// ProcessPending reconciles every pending payment. Failures are logged per
// payment and never abort the run.
func (s *ReconcileServiceImpl) ProcessPending(ctx context.Context) error {
	payments, err := s.paymentRepo.ListPending(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("list pending payments: %w", err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)
	for i := range payments {
		payment := payments[i]
		g.Go(func() error {
			if err := s.processPayment(gctx, &payment); err != nil {
				s.log.Error().Err(err).
					Str("payment_id", payment.ID.String()).
					Msg("reconcile: payment skipped")
			}
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info().Int("pending", len(payments)).Msg("reconcile run finished")
	return nil
}

// ProcessWallet reconciles the pending payments bound to a single wallet
// address. This is the manual trigger, so errors surface to the caller.
func (s *ReconcileServiceImpl) ProcessWallet(ctx context.Context, address string) error {
	wallet, err := s.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}

	payments, err := s.paymentRepo.ListPendingByWalletAddress(ctx, address)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("list pending payments: %w", err))
	}

	for i := range payments {
		if err := s.processPayment(ctx, &payments[i]); err != nil {
			return err
		}
	}
	return nil
}

// processPayment ingests the wallet's deposit history and settles the
// payment. Expiry is decided first: a payment past its window never
// completes, no matter how much arrived.
func (s *ReconcileServiceImpl) processPayment(ctx context.Context, payment *domain.Payment) error {
	wallet, err := s.walletRepo.GetByID(ctx, payment.WalletID)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}
	if wallet == nil {
		return fmt.Errorf("wallet %s not found", payment.WalletID)
	}

	history, err := s.ledger.History(ctx, wallet.Address)
	if err != nil {
		return fmt.Errorf("ledger history for %s: %w", wallet.Address, err)
	}

	for _, ltx := range history {
		if !strings.EqualFold(ltx.To, wallet.Address) {
			continue
		}
		// Deposits predating the payment belong to an earlier binding of
		// this wallet.
		if ltx.Timestamp.Before(payment.CreatedAt) {
			continue
		}
		inserted, err := s.txRepo.InsertIfAbsent(ctx, &domain.Transaction{
			Hash:      ltx.Hash,
			From:      ltx.From,
			To:        ltx.To,
			AmountWei: ltx.ValueWei,
			Type:      domain.TransactionTypeExternal,
			PaymentID: &payment.ID,
			WalletID:  wallet.ID,
			// Observation time, not the chain timestamp: the payout
			// watermark compares against it, and a deposit mined before a
			// payout but observed after must still count.
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("record deposit %s: %w", ltx.Hash, err)
		}
		if inserted {
			s.log.Info().
				Str("hash", ltx.Hash).
				Str("payment_id", payment.ID.String()).
				Str("amount_wei", ltx.ValueWei.String()).
				Msg("reconcile: deposit recorded")
		}
	}

	if payment.IsExpiredAt(time.Now().UTC()) {
		linked, err := s.txRepo.ListForPayment(ctx, payment.ID)
		if err != nil {
			return fmt.Errorf("list deposits: %w", err)
		}
		// Funds that arrived too late are a failure the merchant must
		// resolve, even when they cover the total; an untouched wallet
		// simply expires.
		if len(linked) > 0 {
			return s.append(ctx, payment, domain.PaymentStatusFailed)
		}
		return s.append(ctx, payment, domain.PaymentStatusExpired)
	}

	received, err := s.txRepo.SumExternalForPayment(ctx, payment.ID)
	if err != nil {
		return fmt.Errorf("sum deposits: %w", err)
	}
	if received.Cmp(payment.TotalAmountWei) >= 0 {
		return s.append(ctx, payment, domain.PaymentStatusCompleted)
	}
	return nil
}

func (s *ReconcileServiceImpl) append(ctx context.Context, payment *domain.Payment, status domain.PaymentStatus) error {
	appended, err := s.paymentRepo.AppendStatus(ctx, payment.ID, status)
	if err != nil {
		return fmt.Errorf("append %s: %w", status, err)
	}
	if !appended {
		// A concurrent writer settled the payment first; nothing to do.
		return nil
	}
	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("status", string(status)).
		Msg("reconcile: payment settled")
	return nil
}
