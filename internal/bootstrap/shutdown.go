package bootstrap

import (
	"context"
	"log/slog"

	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/payment"
	"github.com/tombolapay/settlement/internal/scheduler"
	"github.com/tombolapay/settlement/internal/server"
	"github.com/tombolapay/settlement/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	TokenManager       *payment.TokenManager
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown performs graceful shutdown of all application components.
// Order matters:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler then worker pool (no new jobs, drain in-flight sweeps)
// 3. Token manager (stop the background refresh loop)
// 4. Event publisher last (flush pending events to ensure the audit trail
//    is complete)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.TokenManager != nil {
		components.TokenManager.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if components.ResilientPublisher != nil {
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
