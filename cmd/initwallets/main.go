package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"ether-payment-gateway/config"
	pgStorage "ether-payment-gateway/internal/adapter/storage/postgres"
	"ether-payment-gateway/internal/service"
	"ether-payment-gateway/pkg/apperror"
	"ether-payment-gateway/pkg/logger"
)

// initwallets seeds the custodial wallet set: one treasury wallet plus an
// initial pool of receiving wallets. Safe to re-run; an existing treasury is
// left alone.
func main() {
	poolSize := flag.Int("pool", 10, "number of receiving wallets to create")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx := context.Background()
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	vault, err := service.NewVaultService(cfg.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize key vault")
	}

	walletRepo := pgStorage.NewWalletRepo(pool)
	walletSvc := service.NewWalletService(walletRepo, vault, log)

	main, err := walletSvc.CreateMainWallet(ctx)
	switch {
	case err == nil:
		log.Info().Str("address", main.Address).Msg("treasury wallet created")
	case isConflict(err):
		log.Info().Msg("treasury wallet already exists, skipping")
	default:
		log.Fatal().Err(err).Msg("Failed to create treasury wallet")
	}

	for i := 0; i < *poolSize; i++ {
		w, err := walletSvc.CreateWallet(ctx)
		if err != nil {
			log.Fatal().Err(err).Int("created", i).Msg("Failed to create receiving wallet")
		}
		log.Info().Str("address", w.Address).Msg("receiving wallet created")
	}

	log.Info().Int("pool", *poolSize).Msg("wallet initialisation finished")
}

func isConflict(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == "CFL_002"
}
