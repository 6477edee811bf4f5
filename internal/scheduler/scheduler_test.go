package scheduler

import (
	"testing"

	"ether-payment-gateway/config"
	"ether-payment-gateway/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func schedulerMocks(ctrl *gomock.Controller) (*mocks.MockReconcileService, *mocks.MockPayoutService, *mocks.MockTransferService, *mocks.MockRateService, *mocks.MockBalanceService) {
	return mocks.NewMockReconcileService(ctrl),
		mocks.NewMockPayoutService(ctrl),
		mocks.NewMockTransferService(ctrl),
		mocks.NewMockRateService(ctrl),
		mocks.NewMockBalanceService(ctrl)
}

func TestNew_WiresAllJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reconcile, payout, transfer, rate, balance := schedulerMocks(ctrl)
	cfg := config.SchedulerConfig{
		ReconcileSpec:   "@every 1m",
		PayoutSpec:      "@hourly",
		SweepSpec:       "@daily",
		RateRefreshSpec: "@every 30m",
		BalanceSpec:     "@every 5m",
	}

	s, err := New(cfg, reconcile, payout, transfer, rate, balance, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNew_RejectsBadSpec(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reconcile, payout, transfer, rate, balance := schedulerMocks(ctrl)
	cfg := config.SchedulerConfig{
		ReconcileSpec:   "not a spec",
		PayoutSpec:      "@hourly",
		SweepSpec:       "@daily",
		RateRefreshSpec: "@every 30m",
		BalanceSpec:     "@every 5m",
	}

	_, err := New(cfg, reconcile, payout, transfer, rate, balance, zerolog.Nop())
	assert.Error(t, err)
}
