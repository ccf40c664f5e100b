package metrics

import (
	"context"

	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.TicketSold,
		event.TicketRevealed,
		event.BatchExhausted,
		event.CollectiveSettled,
		event.PaymentCompleted,
		event.PaymentFailed,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.TicketSold:
		TicketsSold.Inc()

	case event.TicketRevealed:
		payload, err := event.DecodePayload[event.TicketRevealedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		outcome := OutcomeLoser
		if payload.IsWinner {
			outcome = OutcomeWinner
			PrizesPaid.Add(float64(payload.PrizeAmount))
		}
		TicketsRevealed.WithLabelValues(outcome).Inc()

	case event.BatchExhausted:
		BatchesExhausted.Inc()

	case event.CollectiveSettled:
		payload, err := event.DecodePayload[event.CollectiveSettledPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		CollectivesSettled.WithLabelValues(payload.Outcome).Inc()
		if payload.RefundRuleFired {
			RefundsIssued.Add(float64(payload.RefundedPlays))
		}

	case event.PaymentCompleted, event.PaymentFailed:
		payload, err := event.DecodePayload[event.PaymentPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		status := "completed"
		if evt.Type == event.PaymentFailed {
			status = "failed"
		}
		Payments.WithLabelValues(status, payload.Purpose).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
