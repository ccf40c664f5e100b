package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Common event types
const (
	TicketSold     Type = "ticket.sold"
	TicketRevealed Type = "ticket.revealed"
	BatchCreated   Type = "batch.created"
	BatchExhausted Type = "batch.exhausted"

	CollectiveSettled Type = "collective.settled"

	PaymentCompleted Type = "payment.completed"
	PaymentFailed    Type = "payment.failed"

	WalletDiscrepancy Type = "wallet.discrepancy"
)

// Typed event payloads for type safety

// TicketSoldPayloadV1 is the typed payload for ticket sale events
type TicketSoldPayloadV1 struct {
	TicketID  string `json:"ticket_id"`
	BatchID   string `json:"batch_id"`
	UserID    string `json:"user_id"`
	Price     int64  `json:"price"`
	Timestamp int64  `json:"timestamp"`
}

// TicketRevealedPayloadV1 is the typed payload for ticket reveal events
type TicketRevealedPayloadV1 struct {
	TicketID    string `json:"ticket_id"`
	UserID      string `json:"user_id"`
	IsWinner    bool   `json:"is_winner"`
	PrizeAmount int64  `json:"prize_amount"`
	Timestamp   int64  `json:"timestamp"`
}

// BatchCreatedPayloadV1 is the typed payload for batch creation events
type BatchCreatedPayloadV1 struct {
	BatchID        string `json:"batch_id"`
	Name           string `json:"name"`
	TotalTickets   int    `json:"total_tickets"`
	WinningTickets int    `json:"winning_tickets"`
}

// BatchExhaustedPayloadV1 is the typed payload for batch exhaustion events
type BatchExhaustedPayloadV1 struct {
	BatchID   string `json:"batch_id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// CollectiveSettledPayloadV1 is the typed payload for collective settlement events
type CollectiveSettledPayloadV1 struct {
	AITicketID      string `json:"ai_ticket_id"`
	Outcome         string `json:"outcome"`
	TotalPlayers    int    `json:"total_players"`
	TotalPaidOut    int64  `json:"total_paid_out"`
	RefundRuleFired bool   `json:"refund_rule_fired"`
	RefundedPlays   int    `json:"refunded_plays"`
	Timestamp       int64  `json:"timestamp"`
}

// PaymentPayloadV1 is the typed payload for payment terminal events
type PaymentPayloadV1 struct {
	AttemptID     string `json:"attempt_id"`
	UserID        string `json:"user_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Purpose       string `json:"purpose"`
	FailureReason string `json:"failure_reason,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// WalletDiscrepancyPayloadV1 is the typed payload for reconciliation mismatch events
type WalletDiscrepancyPayloadV1 struct {
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	LedgerSum int64  `json:"ledger_sum"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewTicketSoldEvent creates a new ticket sold event
func NewTicketSoldEvent(ticketID, batchID, userID string, price int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TicketSold,
		Payload: TicketSoldPayloadV1{
			TicketID:  ticketID,
			BatchID:   batchID,
			UserID:    userID,
			Price:     price,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewTicketRevealedEvent creates a new ticket revealed event
func NewTicketRevealedEvent(ticketID, userID string, isWinner bool, prizeAmount int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TicketRevealed,
		Payload: TicketRevealedPayloadV1{
			TicketID:    ticketID,
			UserID:      userID,
			IsWinner:    isWinner,
			PrizeAmount: prizeAmount,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewBatchCreatedEvent creates a new batch created event
func NewBatchCreatedEvent(batchID, name string, totalTickets, winningTickets int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BatchCreated,
		Payload: BatchCreatedPayloadV1{
			BatchID:        batchID,
			Name:           name,
			TotalTickets:   totalTickets,
			WinningTickets: winningTickets,
		},
		Metadata: nil,
	}
}

// NewBatchExhaustedEvent creates a new batch exhausted event
func NewBatchExhaustedEvent(batchID, name string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BatchExhausted,
		Payload: BatchExhaustedPayloadV1{
			BatchID:   batchID,
			Name:      name,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewCollectiveSettledEvent creates a new collective settlement event
func NewCollectiveSettledEvent(aiTicketID, outcome string, totalPlayers int, totalPaidOut int64, refundRuleFired bool, refundedPlays int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CollectiveSettled,
		Payload: CollectiveSettledPayloadV1{
			AITicketID:      aiTicketID,
			Outcome:         outcome,
			TotalPlayers:    totalPlayers,
			TotalPaidOut:    totalPaidOut,
			RefundRuleFired: refundRuleFired,
			RefundedPlays:   refundedPlays,
			Timestamp:       time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewPaymentCompletedEvent creates a new payment completed event
func NewPaymentCompletedEvent(attemptID, userID string, amount int64, currency, purpose string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PaymentCompleted,
		Payload: PaymentPayloadV1{
			AttemptID: attemptID,
			UserID:    userID,
			Amount:    amount,
			Currency:  currency,
			Purpose:   purpose,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewPaymentFailedEvent creates a new payment failed event
func NewPaymentFailedEvent(attemptID, userID string, amount int64, currency, purpose, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PaymentFailed,
		Payload: PaymentPayloadV1{
			AttemptID:     attemptID,
			UserID:        userID,
			Amount:        amount,
			Currency:      currency,
			Purpose:       purpose,
			FailureReason: reason,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewWalletDiscrepancyEvent creates a new reconciliation mismatch event
func NewWalletDiscrepancyEvent(userID string, balance, ledgerSum int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WalletDiscrepancy,
		Payload: WalletDiscrepancyPayloadV1{
			UserID:    userID,
			Balance:   balance,
			LedgerSum: ledgerSum,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously;
// a failing handler does not stop the others.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
