package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusAvailable TicketStatus = "available"
	TicketStatusSold      TicketStatus = "sold"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusExpired   TicketStatus = "expired"
)

// Ticket represents a single sellable ticket drawn from a batch.
// Once sold it is exclusively owned by the purchasing user.
type Ticket struct {
	ID          uuid.UUID    `json:"id"`
	BatchID     *uuid.UUID   `json:"batch_id,omitempty"`
	UserID      string       `json:"user_id,omitempty"`
	Code        string       `json:"code,omitempty"` // printed code for physical tickets
	IsWinner    bool         `json:"is_winner"`
	PrizeAmount int64        `json:"prize_amount"`
	Status      TicketStatus `json:"status"`
	ActivatedAt *time.Time   `json:"activated_at,omitempty"`
	UsedAt      *time.Time   `json:"used_at,omitempty"`
	ClaimedAt   *time.Time   `json:"claimed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// RevealResult is returned when a ticket is revealed; Credited reports whether
// a prize credit was applied by this call (false on idempotent re-reveal)
type RevealResult struct {
	Ticket   *Ticket `json:"ticket"`
	Credited bool    `json:"credited"`
}
