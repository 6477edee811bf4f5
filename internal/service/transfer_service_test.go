package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/internal/core/ports/mocks"
	"ether-payment-gateway/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type transferTestDeps struct {
	svc        *TransferServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	ledger     *mocks.MockLedgerClient
	vault      *mocks.MockKeyVault
	ctrl       *gomock.Controller
}

func setupTransferService(t *testing.T) *transferTestDeps {
	ctrl := gomock.NewController(t)
	d := &transferTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		ledger:     mocks.NewMockLedgerClient(ctrl),
		vault:      mocks.NewMockKeyVault(ctrl),
		ctrl:       ctrl,
	}
	svc, err := NewTransferService(d.walletRepo, d.txRepo, d.ledger, d.vault, "0.01", zerolog.Nop())
	require.NoError(t, err)
	d.svc = svc
	return d
}

var (
	testChainID = big.NewInt(11155111)
	testDest    = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
)

// signWithFreshKey stands in for the vault: it signs with a throwaway key so
// the broadcast transaction carries a real hash.
func signWithFreshKey(t *testing.T) func(string, *types.Transaction, *big.Int) (*types.Transaction, error) {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	return func(_ string, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
		return types.SignTx(tx, types.NewEIP155Signer(chainID), key)
	}
}

func TestTransferService_ExecuteTransfer_DeductsGasFromAmount(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	wallet := &domain.Wallet{ID: uuid.New(), Address: "0xSender", EncryptedPrivateKey: "sealed"}
	amount := big.NewInt(1_000_000_000_000_000_000)    // 1 ETH
	gasPrice := big.NewInt(10_000_000_000)             // 10 gwei
	wantValue := big.NewInt(999_790_000_000_000_000)   // 1 ETH - 21000*10gwei

	d.walletRepo.EXPECT().GetByID(gomock.Any(), wallet.ID).Return(wallet, nil)
	d.ledger.EXPECT().Balance(gomock.Any(), wallet.Address).Return(amount, nil)
	d.ledger.EXPECT().GasPrice(gomock.Any()).Return(gasPrice, nil)
	d.ledger.EXPECT().PendingNonce(gomock.Any(), wallet.Address).Return(uint64(7), nil)
	d.ledger.EXPECT().ChainID(gomock.Any()).Return(testChainID, nil)
	d.vault.EXPECT().SignTransaction("sealed", gomock.Any(), testChainID).
		DoAndReturn(signWithFreshKey(t))
	d.ledger.EXPECT().Broadcast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
			assert.Equal(t, wantValue, tx.Value())
			assert.Equal(t, uint64(7), tx.Nonce())
			assert.Equal(t, common.HexToAddress(testDest), *tx.To())
			return nil
		})

	rec, err := d.svc.ExecuteTransfer(context.Background(), wallet.ID, testDest, amount)
	require.NoError(t, err)
	assert.Equal(t, wallet.Address, rec.From)
	assert.Equal(t, testDest, rec.To)
	assert.Equal(t, wantValue, rec.AmountWei)
	assert.Equal(t, wallet.ID, rec.WalletID)
	assert.NotEmpty(t, rec.Hash)
	assert.WithinDuration(t, time.Now().UTC(), rec.CreatedAt, 5*time.Second)
}

func TestTransferService_ExecuteTransfer_InvalidAddress(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.ExecuteTransfer(context.Background(), uuid.New(), "not-an-address", big.NewInt(1))
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_004", appErr.Code)
}

func TestTransferService_ExecuteTransfer_InsufficientBalance(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	wallet := &domain.Wallet{ID: uuid.New(), Address: "0xSender"}
	d.walletRepo.EXPECT().GetByID(gomock.Any(), wallet.ID).Return(wallet, nil)
	d.ledger.EXPECT().Balance(gomock.Any(), wallet.Address).Return(big.NewInt(5), nil)

	_, err := d.svc.ExecuteTransfer(context.Background(), wallet.ID, testDest, big.NewInt(10))
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestTransferService_ExecuteTransfer_FeeAboveCeiling(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	wallet := &domain.Wallet{ID: uuid.New(), Address: "0xSender"}
	amount := big.NewInt(1_000_000_000_000_000_000)
	// 1000 gwei * 21000 = 0.021 ETH, above the 0.01 ceiling.
	gasPrice := big.NewInt(1_000_000_000_000)

	d.walletRepo.EXPECT().GetByID(gomock.Any(), wallet.ID).Return(wallet, nil)
	d.ledger.EXPECT().Balance(gomock.Any(), wallet.Address).Return(amount, nil)
	d.ledger.EXPECT().GasPrice(gomock.Any()).Return(gasPrice, nil)

	_, err := d.svc.ExecuteTransfer(context.Background(), wallet.ID, testDest, amount)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_003", appErr.Code)
}

func TestTransferService_ExecuteTransfer_AmountBelowGasCost(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	wallet := &domain.Wallet{ID: uuid.New(), Address: "0xSender"}
	gasPrice := big.NewInt(10_000_000_000)
	amount := big.NewInt(100_000_000_000_000) // below 21000 * 10 gwei

	d.walletRepo.EXPECT().GetByID(gomock.Any(), wallet.ID).Return(wallet, nil)
	d.ledger.EXPECT().Balance(gomock.Any(), wallet.Address).Return(amount, nil)
	d.ledger.EXPECT().GasPrice(gomock.Any()).Return(gasPrice, nil)

	_, err := d.svc.ExecuteTransfer(context.Background(), wallet.ID, testDest, amount)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestTransferService_SweepToMain_IndependentWallets(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	main := &domain.Wallet{ID: uuid.New(), Address: testDest, IsMain: true}
	funded := domain.Wallet{ID: uuid.New(), Address: "0xSub1", EncryptedPrivateKey: "sealed-1"}
	broken := domain.Wallet{ID: uuid.New(), Address: "0xSub2", EncryptedPrivateKey: "sealed-2"}
	empty := domain.Wallet{ID: uuid.New(), Address: "0xSub3", EncryptedPrivateKey: "sealed-3"}

	balance := big.NewInt(500_000_000_000_000_000)
	gasPrice := big.NewInt(10_000_000_000)

	d.walletRepo.EXPECT().GetMain(gomock.Any()).Return(main, nil)
	d.walletRepo.EXPECT().ListSubWalletsWithBalance(gomock.Any()).Return([]ports.WalletBalance{
		{Wallet: funded, BalanceWei: balance},
		{Wallet: broken, BalanceWei: big.NewInt(1)},
		{Wallet: empty, BalanceWei: nil},
	}, nil)

	// funded: sweep happy path, Balance is consulted twice (candidate check
	// and transfer funding check).
	d.walletRepo.EXPECT().GetByID(gomock.Any(), funded.ID).Return(&funded, nil)
	d.ledger.EXPECT().Balance(gomock.Any(), funded.Address).Return(balance, nil).Times(2)
	d.ledger.EXPECT().GasPrice(gomock.Any()).Return(gasPrice, nil)
	d.ledger.EXPECT().PendingNonce(gomock.Any(), funded.Address).Return(uint64(0), nil)
	d.ledger.EXPECT().ChainID(gomock.Any()).Return(testChainID, nil)
	d.vault.EXPECT().SignTransaction("sealed-1", gomock.Any(), testChainID).
		DoAndReturn(signWithFreshKey(t))
	d.ledger.EXPECT().Broadcast(gomock.Any(), gomock.Any()).Return(nil)
	d.txRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *domain.Transaction) (bool, error) {
			assert.Equal(t, domain.TransactionTypeInternal, rec.Type)
			assert.Equal(t, main.Address, rec.To)
			assert.Nil(t, rec.PaymentID)
			return true, nil
		})

	// broken: balance check errors, the run continues.
	d.ledger.EXPECT().Balance(gomock.Any(), broken.Address).
		Return(nil, assert.AnError)

	// empty: live balance is zero, nothing to sweep.
	d.ledger.EXPECT().Balance(gomock.Any(), empty.Address).Return(big.NewInt(0), nil)

	err := d.svc.SweepToMain(context.Background())
	assert.NoError(t, err)
}
