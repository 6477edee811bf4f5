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
	"github.com/shopspring/decimal"
)

// PaymentServiceImpl implements ports.PaymentService. A payment's status is
// derived from its append-only event history; this service decides which
// events may be appended and the storage layer enforces that at most one
// terminal event ever lands.
type PaymentServiceImpl struct {
	paymentRepo  ports.PaymentRepository
	productRepo  ports.ProductRepository
	txRepo       ports.TransactionRepository
	walletRepo   ports.WalletRepository
	allocator    ports.WalletAllocator
	rateSvc      ports.RateService
	transactor   ports.DBTransactor
	expiryWindow time.Duration
	log          zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	productRepo ports.ProductRepository,
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	allocator ports.WalletAllocator,
	rateSvc ports.RateService,
	transactor ports.DBTransactor,
	expiryWindow time.Duration,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		txRepo:       txRepo,
		walletRepo:   walletRepo,
		allocator:    allocator,
		rateSvc:      rateSvc,
		transactor:   transactor,
		expiryWindow: expiryWindow,
		log:          log,
	}
}

// IssueToken creates a payment and returns its opaque token. Issuance is
// idempotent: an open payment for the same (product, quantity, customer)
// yields its existing token instead of binding a second wallet.
func (s *PaymentServiceImpl) IssueToken(ctx context.Context, req ports.IssueTokenRequest) (string, error) {
	if req.Quantity <= 0 {
		return "", apperror.ErrInvalidQuantity()
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("load product: %w", err))
	}
	if product == nil {
		return "", apperror.ErrNotFound("product")
	}

	now := time.Now().UTC()
	existing, err := s.paymentRepo.FindPendingMatch(ctx, req.ProductID, req.Quantity, req.CustomerID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("find pending match: %w", err))
	}
	if existing != nil {
		if !existing.IsExpiredAt(now) {
			return existing.Token, nil
		}
		// Expiry observed during the read: transition and fall through to a
		// fresh payment.
		if _, err := s.paymentRepo.AppendStatus(ctx, existing.ID, domain.PaymentStatusExpired); err != nil {
			return "", apperror.InternalError(fmt.Errorf("expire stale match: %w", err))
		}
	}

	rate, err := s.rateSvc.FreshRate(ctx, product.Currency)
	if err != nil {
		return "", err
	}

	amountEth := product.PriceEth(rate.Rate).Mul(decimal.NewFromInt(int64(req.Quantity)))
	wallet, err := s.allocator.AssignWalletForPayment(ctx)
	if err != nil {
		return "", err
	}

	payment := &domain.Payment{
		ID:             uuid.New(),
		Token:          uuid.NewString(),
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		CustomerID:     req.CustomerID,
		TotalAmountWei: domain.EthToWei(amountEth),
		Cryptocurrency: "ETH",
		WalletID:       wallet.ID,
		ExchangeRateID: rate.ID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.expiryWindow),
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.paymentRepo.Create(ctx, dbTx, payment); err != nil {
		return "", apperror.InternalError(fmt.Errorf("persist payment: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return "", apperror.InternalError(fmt.Errorf("commit payment: %w", err))
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("amount_wei", payment.TotalAmountWei.String()).
		Msg("payment created")

	return payment.Token, nil
}

// GetInfo returns the customer-facing display data for a pending payment.
// A payment past its window is transitioned to expired on this read.
func (s *PaymentServiceImpl) GetInfo(ctx context.Context, token string) (*ports.PaymentInfo, error) {
	payment, err := s.loadPayment(ctx, token)
	if err != nil {
		return nil, err
	}

	switch status := payment.CurrentStatus(); {
	case status == domain.PaymentStatusExpired:
		return nil, apperror.ErrPaymentExpired()
	case status.IsTerminal():
		return nil, apperror.ErrPaymentFinalized(string(status))
	}

	if payment.IsExpiredAt(time.Now().UTC()) {
		if _, err := s.paymentRepo.AppendStatus(ctx, payment.ID, domain.PaymentStatusExpired); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("expire payment: %w", err))
		}
		return nil, apperror.ErrPaymentExpired()
	}

	product, err := s.productRepo.GetByID(ctx, payment.ProductID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load product: %w", err))
	}
	if product == nil {
		return nil, apperror.ErrNotFound("product")
	}

	wallet, err := s.walletRepo.GetByID(ctx, payment.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	return &ports.PaymentInfo{
		ProductName:    product.Name,
		AmountEth:      domain.FormatEth(payment.TotalAmountWei),
		Address:        wallet.Address,
		Cryptocurrency: payment.Cryptocurrency,
	}, nil
}

// GetDetails returns the merchant-facing view of a payment in any state.
// Expiry is observed lazily here too.
func (s *PaymentServiceImpl) GetDetails(ctx context.Context, token string) (*ports.PaymentDetails, error) {
	payment, err := s.loadPayment(ctx, token)
	if err != nil {
		return nil, err
	}

	if payment.CurrentStatus() == domain.PaymentStatusPending && payment.IsExpiredAt(time.Now().UTC()) {
		appended, err := s.paymentRepo.AppendStatus(ctx, payment.ID, domain.PaymentStatusExpired)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("expire payment: %w", err))
		}
		if appended {
			payment.Statuses = append(payment.Statuses, domain.StatusEvent{
				ID:        uuid.New(),
				PaymentID: payment.ID,
				Name:      domain.PaymentStatusExpired,
				CreatedAt: time.Now().UTC(),
			})
		}
	}

	product, err := s.productRepo.GetByID(ctx, payment.ProductID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load product: %w", err))
	}
	wallet, err := s.walletRepo.GetByID(ctx, payment.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	transactions, err := s.txRepo.ListForPayment(ctx, payment.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load transactions: %w", err))
	}

	return &ports.PaymentDetails{
		Status:       payment.CurrentStatus(),
		Payment:      payment,
		Product:      product,
		Wallet:       wallet,
		Transactions: transactions,
	}, nil
}

// AppendStatus appends a terminal status decided by reconciliation. A payment
// past its window is expired regardless of the proposed status. Losing the
// append race to a concurrent writer is a conflict, never a double terminal.
func (s *PaymentServiceImpl) AppendStatus(ctx context.Context, token string, status domain.PaymentStatus) error {
	payment, err := s.loadPayment(ctx, token)
	if err != nil {
		return err
	}

	if current := payment.CurrentStatus(); current.IsTerminal() {
		return apperror.ErrPaymentFinalized(string(current))
	}
	if !status.IsTerminal() {
		return apperror.ErrInvalidStatus(string(status))
	}

	if payment.IsExpiredAt(time.Now().UTC()) {
		status = domain.PaymentStatusExpired
	}

	appended, err := s.paymentRepo.AppendStatus(ctx, payment.ID, status)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("append status: %w", err))
	}
	if !appended {
		return apperror.ErrPaymentFinalized(string(status))
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("status", string(status)).
		Msg("payment status appended")
	return nil
}

func (s *PaymentServiceImpl) loadPayment(ctx context.Context, token string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	return payment, nil
}
