package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports/mocks"
	"ether-payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type payoutTestDeps struct {
	svc         *PayoutServiceImpl
	payoutRepo  *mocks.MockPayoutRepository
	txRepo      *mocks.MockTransactionRepository
	walletRepo  *mocks.MockWalletRepository
	ledger      *mocks.MockLedgerClient
	transferSvc *mocks.MockTransferService
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupPayoutService(t *testing.T) *payoutTestDeps {
	ctrl := gomock.NewController(t)
	d := &payoutTestDeps{
		payoutRepo:  mocks.NewMockPayoutRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		ledger:      mocks.NewMockLedgerClient(ctrl),
		transferSvc: mocks.NewMockTransferService(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewPayoutService(
		d.payoutRepo, d.txRepo, d.walletRepo, d.ledger,
		d.transferSvc, d.transactor, zerolog.Nop(),
	)
	return d
}

func pendingPayout(amount *big.Int) domain.ScheduledPayout {
	now := time.Now().UTC()
	return domain.ScheduledPayout{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		AmountWei: amount,
		Address:   testDest,
		Status:    domain.PayoutStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPayoutService_PayoutAmount_NoHistory(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	userID := uuid.New()
	d.payoutRepo.EXPECT().GetLastValid(gomock.Any(), userID).Return(nil, nil)
	d.txRepo.EXPECT().SumExternalForMerchantSince(gomock.Any(), userID, time.Time{}).
		Return(big.NewInt(250_000_000_000_000_000), nil)

	quote, err := d.svc.PayoutAmount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "0.25", quote.AmountEth)
	assert.Equal(t, "ETH", quote.Currency)
}

func TestPayoutService_PayoutAmount_WatermarkApplied(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	userID := uuid.New()
	last := pendingPayout(big.NewInt(1))
	last.UserID = userID

	d.payoutRepo.EXPECT().GetLastValid(gomock.Any(), userID).Return(&last, nil)
	d.txRepo.EXPECT().SumExternalForMerchantSince(gomock.Any(), userID, last.CreatedAt).
		Return(big.NewInt(0), nil)

	quote, err := d.svc.PayoutAmount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "0", quote.AmountEth)
}

func TestPayoutService_SchedulePayout_LocksAndPersists(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	userID := uuid.New()
	amount := big.NewInt(250_000_000_000_000_000)

	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.payoutRepo.EXPECT().LockMerchant(gomock.Any(), gomock.Any(), userID).Return(nil)
	d.payoutRepo.EXPECT().GetLastValid(gomock.Any(), userID).Return(nil, nil)
	d.txRepo.EXPECT().SumExternalForMerchantSince(gomock.Any(), userID, time.Time{}).Return(amount, nil)
	d.payoutRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, p *domain.ScheduledPayout) error {
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, amount, p.AmountWei)
			assert.Equal(t, domain.PayoutStatusPending, p.Status)
			return nil
		})

	payout, err := d.svc.SchedulePayout(context.Background(), userID, testDest)
	require.NoError(t, err)
	assert.Equal(t, testDest, payout.Address)
}

func TestPayoutService_SchedulePayout_InvalidAddress(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.SchedulePayout(context.Background(), uuid.New(), "nope")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_004", appErr.Code)
}

func TestPayoutService_SchedulePayout_NothingPayable(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	userID := uuid.New()
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.payoutRepo.EXPECT().LockMerchant(gomock.Any(), gomock.Any(), userID).Return(nil)
	d.payoutRepo.EXPECT().GetLastValid(gomock.Any(), userID).Return(nil, nil)
	d.txRepo.EXPECT().SumExternalForMerchantSince(gomock.Any(), userID, time.Time{}).
		Return(big.NewInt(0), nil)

	_, err := d.svc.SchedulePayout(context.Background(), userID, testDest)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_002", appErr.Code)
}

func TestPayoutService_ProcessScheduledPayouts_CompletesAndSkips(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	main := &domain.Wallet{ID: uuid.New(), Address: "0xTreasury", IsMain: true}
	covered := pendingPayout(big.NewInt(100))
	tooLarge := pendingPayout(big.NewInt(10_000))
	treasury := big.NewInt(5_000)

	d.walletRepo.EXPECT().GetMain(gomock.Any()).Return(main, nil)
	d.payoutRepo.EXPECT().ListPending(gomock.Any()).
		Return([]domain.ScheduledPayout{covered, tooLarge}, nil)
	d.ledger.EXPECT().Balance(gomock.Any(), main.Address).Return(treasury, nil).Times(2)

	rec := &domain.Transaction{ID: uuid.New(), Hash: "0xpayout", From: main.Address,
		To: covered.Address, AmountWei: big.NewInt(99), WalletID: main.ID}
	d.transferSvc.EXPECT().ExecuteTransfer(gomock.Any(), main.ID, covered.Address, covered.AmountWei).
		Return(rec, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.payoutRepo.EXPECT().MarkCompleted(gomock.Any(), gomock.Any(), covered.ID).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, got *domain.Transaction) error {
			assert.Equal(t, domain.TransactionTypePayout, got.Type)
			return nil
		})
	// tooLarge exceeds the treasury balance: no transfer, stays pending.

	err := d.svc.ProcessScheduledPayouts(context.Background())
	assert.NoError(t, err)
}

func TestPayoutService_ProcessScheduledPayouts_TransferFailureLeavesPending(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	main := &domain.Wallet{ID: uuid.New(), Address: "0xTreasury", IsMain: true}
	first := pendingPayout(big.NewInt(100))
	second := pendingPayout(big.NewInt(200))
	treasury := big.NewInt(5_000)

	d.walletRepo.EXPECT().GetMain(gomock.Any()).Return(main, nil)
	d.payoutRepo.EXPECT().ListPending(gomock.Any()).
		Return([]domain.ScheduledPayout{first, second}, nil)
	d.ledger.EXPECT().Balance(gomock.Any(), main.Address).Return(treasury, nil).Times(2)

	// The gas market spiked: the first transfer aborts on the fee ceiling.
	d.transferSvc.EXPECT().ExecuteTransfer(gomock.Any(), main.ID, first.Address, first.AmountWei).
		Return(nil, apperror.ErrFeeTooHigh("0.021"))

	rec := &domain.Transaction{ID: uuid.New(), Hash: "0xpayout2", From: main.Address,
		To: second.Address, AmountWei: big.NewInt(199), WalletID: main.ID}
	d.transferSvc.EXPECT().ExecuteTransfer(gomock.Any(), main.ID, second.Address, second.AmountWei).
		Return(rec, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.payoutRepo.EXPECT().MarkCompleted(gomock.Any(), gomock.Any(), second.ID).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.ProcessScheduledPayouts(context.Background())
	assert.NoError(t, err)
}

func TestPayoutService_ProcessScheduledPayouts_BalanceReadFailureSkipsOne(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	main := &domain.Wallet{ID: uuid.New(), Address: "0xTreasury", IsMain: true}
	first := pendingPayout(big.NewInt(100))
	second := pendingPayout(big.NewInt(200))

	d.walletRepo.EXPECT().GetMain(gomock.Any()).Return(main, nil)
	d.payoutRepo.EXPECT().ListPending(gomock.Any()).
		Return([]domain.ScheduledPayout{first, second}, nil)

	// A failed balance read skips only that payout; the rest of the run
	// proceeds against fresh reads.
	d.ledger.EXPECT().Balance(gomock.Any(), main.Address).Return(nil, assert.AnError)
	d.ledger.EXPECT().Balance(gomock.Any(), main.Address).Return(big.NewInt(5_000), nil)

	rec := &domain.Transaction{ID: uuid.New(), Hash: "0xpayout3", From: main.Address,
		To: second.Address, AmountWei: big.NewInt(199), WalletID: main.ID}
	d.transferSvc.EXPECT().ExecuteTransfer(gomock.Any(), main.ID, second.Address, second.AmountWei).
		Return(rec, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.payoutRepo.EXPECT().MarkCompleted(gomock.Any(), gomock.Any(), second.ID).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.ProcessScheduledPayouts(context.Background())
	assert.NoError(t, err)
}

func TestPayoutService_ProcessScheduledPayouts_NoMainWallet(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	d.walletRepo.EXPECT().GetMain(gomock.Any()).Return(nil, nil)

	err := d.svc.ProcessScheduledPayouts(context.Background())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NF_001", appErr.Code)
}
