package service

import (
	"context"
	"math/big"
	"testing"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestBalanceService_SnapshotBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletRepo := mocks.NewMockWalletRepository(ctrl)
	ledger := mocks.NewMockLedgerClient(ctrl)
	svc := NewBalanceService(walletRepo, ledger, zerolog.Nop())

	healthy := domain.Wallet{ID: uuid.New(), Address: "0xA"}
	broken := domain.Wallet{ID: uuid.New(), Address: "0xB"}

	walletRepo.EXPECT().ListAll(gomock.Any()).Return([]domain.Wallet{healthy, broken}, nil)
	ledger.EXPECT().Balance(gomock.Any(), healthy.Address).Return(big.NewInt(42), nil)
	walletRepo.EXPECT().InsertBalanceSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snap *domain.BalanceSnapshot) error {
			assert.Equal(t, healthy.ID, snap.WalletID)
			assert.Equal(t, big.NewInt(42), snap.BalanceWei)
			return nil
		})
	// The broken wallet's read fails and the run keeps going.
	ledger.EXPECT().Balance(gomock.Any(), broken.Address).Return(nil, assert.AnError)

	err := svc.SnapshotBalances(context.Background())
	assert.NoError(t, err)
}
