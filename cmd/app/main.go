package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tombolapay/settlement/internal/bootstrap"
	"github.com/tombolapay/settlement/internal/collective"
	"github.com/tombolapay/settlement/internal/config"
	"github.com/tombolapay/settlement/internal/database"
	"github.com/tombolapay/settlement/internal/eventlog"
	"github.com/tombolapay/settlement/internal/payment"
	"github.com/tombolapay/settlement/internal/prediction"
	"github.com/tombolapay/settlement/internal/scheduler"
	"github.com/tombolapay/settlement/internal/server"
	"github.com/tombolapay/settlement/internal/ticket"
	"github.com/tombolapay/settlement/internal/wallet"
	"github.com/tombolapay/settlement/internal/worker"
)

const (
	shutdownTimeout      = 30 * time.Second
	auditCleanupInterval = 24 * time.Hour
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdleTime, cfg.DBMaxLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	eventBus, resilientPublisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	eventLogService := eventlog.NewService(repos.EventLog)
	if err := bootstrap.RegisterEventHandlers(eventBus, eventLogService); err != nil {
		return err
	}

	// Core services
	walletService := wallet.NewService(repos.Wallet, eventBus)
	ticketService := ticket.NewService(repos.Ticket, walletService, eventBus)

	var source collective.PredictionSource
	if cfg.FixturesFile != "" {
		fileSource := prediction.NewFileSource(cfg.FixturesFile)
		if cfg.FixturesSchema != "" {
			fileSource = fileSource.WithSchema(cfg.FixturesSchema)
		}
		source = fileSource
	} else {
		source = prediction.NewHTTPSource(cfg.FixturesURL, cfg.FixturesAPIKey)
	}

	collectiveService, err := collective.NewService(repos.Collective, walletService, source, eventBus)
	if err != nil {
		return err
	}

	// Payment adapter: provider client, token lifecycle, service
	providerClient := payment.NewHTTPClient(
		cfg.ProviderBaseURL,
		cfg.ProviderAPIUser,
		cfg.ProviderAPIKey,
		cfg.ProviderSubscriptionKey,
	)
	tokenManager := payment.NewTokenManager(providerClient, cfg.TokenRefreshSkew)
	tokenManager.Start(context.Background())

	paymentService := payment.NewService(
		repos.Payment,
		walletService,
		providerClient,
		tokenManager,
		eventBus,
		cfg.Currency,
		cfg.MinCollectionAmount,
	)

	// Background jobs: pending-payment reconciliation and audit log cleanup
	workerPool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	workerPool.Start()

	sched := scheduler.New(workerPool)
	sched.Schedule(cfg.ReconcileInterval, worker.NewReconcileJob(repos.Payment, paymentService, 0, 0))
	sched.Schedule(auditCleanupInterval, eventlog.NewCleanupJob(eventLogService, cfg.EventLogRetentionDays))

	srv := server.NewServer(
		cfg.Port,
		cfg.APIKey,
		cfg.TrustedProxies,
		dbPool,
		ticketService,
		walletService,
		collectiveService,
		paymentService,
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-stop:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         workerPool,
		TokenManager:       tokenManager,
		ResilientPublisher: resilientPublisher,
	})

	return nil
}
