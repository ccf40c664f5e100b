package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/eventlog"
	"github.com/tombolapay/settlement/internal/metrics"
)

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (event-based Prometheus counters)
// - Audit logger (persists every settlement event to the database)
func RegisterEventHandlers(eventBus event.Bus, eventLogService eventlog.Service) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(eventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if err := eventLogService.Subscribe(eventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeAuditLogger, err)
	}
	slog.Info(LogMsgAuditLoggerInitialized)

	return nil
}
