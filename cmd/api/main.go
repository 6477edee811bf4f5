package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ether-payment-gateway/config"
	ethAdapter "ether-payment-gateway/internal/adapter/ethereum"
	httpHandler "ether-payment-gateway/internal/adapter/http/handler"
	"ether-payment-gateway/internal/adapter/pricing"
	pgStorage "ether-payment-gateway/internal/adapter/storage/postgres"
	redisStorage "ether-payment-gateway/internal/adapter/storage/redis"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/internal/scheduler"
	"ether-payment-gateway/internal/service"
	"ether-payment-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Int("port", cfg.Server.Port).
		Msg("Starting Ether Payment Gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize Ethereum client
	eth, err := ethAdapter.NewClient(ctx, cfg.Ethereum, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Ethereum node")
	}
	defer eth.Close()
	log.Info().Msg("Ethereum node connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	payoutRepo := pgStorage.NewPayoutRepo(pool)
	rateRepo := pgStorage.NewRateRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	rateCache := redisStorage.NewRateCache(rdb)

	// Initialize core services
	vault, err := service.NewVaultService(cfg.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize key vault")
	}
	coingecko := pricing.NewCoinGeckoClient(cfg.Pricing, log)

	// Initialize business services
	walletSvc := service.NewWalletService(walletRepo, vault, logger.Component(log, "wallet"))
	rateSvc := service.NewRateService(rateRepo, rateCache, coingecko, cfg.Pricing.Currencies, logger.Component(log, "rate"))
	paymentSvc := service.NewPaymentService(
		paymentRepo,
		productRepo,
		txRepo,
		walletRepo,
		walletSvc,
		rateSvc,
		transactor,
		cfg.Payment.ExpiryWindow,
		logger.Component(log, "payment"),
	)
	transferSvc, err := service.NewTransferService(walletRepo, txRepo, eth, vault, cfg.Ethereum.FeeCeilingEth, logger.Component(log, "transfer"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize transfer service")
	}
	reconcileSvc := service.NewReconcileService(paymentRepo, walletRepo, txRepo, eth, logger.Component(log, "reconcile"))
	payoutSvc := service.NewPayoutService(payoutRepo, txRepo, walletRepo, eth, transferSvc, transactor, logger.Component(log, "payout"))
	balanceSvc := service.NewBalanceService(walletRepo, eth, logger.Component(log, "balance"))

	// Initialize background jobs
	sched, err := scheduler.New(cfg.Scheduler, reconcileSvc, payoutSvc, transferSvc, rateSvc, balanceSvc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     paymentSvc,
		PayoutSvc:      payoutSvc,
		ReconcileSvc:   reconcileSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
