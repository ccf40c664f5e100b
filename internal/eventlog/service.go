package eventlog

import (
	"context"
	"encoding/json"

	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/logger"
)

// Service persists domain events as an audit trail. Every money movement in
// the engine produces an event, so the log doubles as a settlement audit.
type Service interface {
	// Subscribe registers the audit logger on every domain event type
	Subscribe(bus event.Bus) error

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new audit logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all event types
func (s *service) Subscribe(bus event.Bus) error {
	eventTypes := []event.Type{
		event.TicketSold,
		event.TicketRevealed,
		event.BatchCreated,
		event.BatchExhausted,
		event.CollectiveSettled,
		event.PaymentCompleted,
		event.PaymentFailed,
		event.WalletDiscrepancy,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// handleEvent flattens the typed payload to a JSON map and stores it
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := payloadToMap(evt.Payload)
	if err != nil {
		log.Debug(LogMsgEventPayloadNotEncodable, "type", evt.Type, "error", err)
		return nil
	}

	var userID *string
	if uid, ok := payload[PayloadKeyUserID].(string); ok {
		userID = &uid
	}

	var metadata map[string]interface{}
	if m, ok := evt.Metadata.(map[string]interface{}); ok {
		metadata = m
	}

	if err := s.repo.LogEvent(ctx, string(evt.Type), userID, payload, metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, "type", evt.Type, "user_id", userID)
	return nil
}

// payloadToMap converts any typed payload struct into a generic map through a
// JSON round trip, so storage stays schema-free as payload versions evolve
func payloadToMap(payload interface{}) (map[string]interface{}, error) {
	if m, ok := payload.(map[string]interface{}); ok {
		return m, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
