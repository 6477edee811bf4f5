package scheduler

import (
	"context"
	"fmt"
	"time"

	"ether-payment-gateway/config"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// jobTimeout bounds one run of any background job.
const jobTimeout = 10 * time.Minute

// Scheduler drives the recurring fund-movement jobs: reconciliation, payout
// execution, treasury sweeps, rate refreshes and balance snapshots. Each job
// owns its errors; a failed run is logged and the next tick retries.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New wires the background jobs from their configured specs.
func New(
	cfg config.SchedulerConfig,
	reconcileSvc ports.ReconcileService,
	payoutSvc ports.PayoutService,
	transferSvc ports.TransferService,
	rateSvc ports.RateService,
	balanceSvc ports.BalanceService,
	log zerolog.Logger,
) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), log: logger.Component(log, "scheduler")}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"reconcile", cfg.ReconcileSpec, reconcileSvc.ProcessPending},
		{"payout", cfg.PayoutSpec, payoutSvc.ProcessScheduledPayouts},
		{"sweep", cfg.SweepSpec, transferSvc.SweepToMain},
		{"rate_refresh", cfg.RateRefreshSpec, rateSvc.RefreshRates},
		{"balance_snapshot", cfg.BalanceSpec, balanceSvc.SnapshotBalances},
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, s.wrap(job.name, job.run)); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
	}
	return s, nil
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) wrap(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := run(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			return
		}
		s.log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("scheduled job finished")
	}
}
