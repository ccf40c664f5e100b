package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventBatchCreated     = "BatchCreated"
	EventBatchDeactivated = "BatchDeactivated"
	EventTicketSold       = "TicketSold"
	EventTicketRevealed   = "TicketRevealed"
)

// Batch represents a finite, pre-sized pool of tickets with fixed winner/loser counts.
// WinnersRemaining/LosersRemaining are the live remainders; the cumulative count of
// winners ever issued can never exceed WinningTickets, and likewise for losers.
type Batch struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Price            int64     `json:"price"`
	PrizeAmount      int64     `json:"prize_amount"`
	TotalTickets     int       `json:"total_tickets"`
	WinningTickets   int       `json:"winning_tickets"`
	LosingTickets    int       `json:"losing_tickets"`
	WinnersRemaining int       `json:"winners_remaining"`
	LosersRemaining  int       `json:"losers_remaining"`
	SoldTickets      int       `json:"sold_tickets"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// RemainingTickets returns the number of unsold slots left in the batch
func (b *Batch) RemainingTickets() int {
	return b.TotalTickets - b.SoldTickets
}

// Exhausted reports whether every ticket in the batch has been sold
func (b *Batch) Exhausted() bool {
	return b.SoldTickets >= b.TotalTickets
}

// Generated reports whether the batch's win/lose budget was consumed up front
// by pre-generated codes. A draw batch keeps remainders equal to its unsold
// slots; a generated batch has none left while slots are still unclaimed.
func (b *Batch) Generated() bool {
	return b.WinnersRemaining+b.LosersRemaining < b.RemainingTickets()
}

// Outcome is the win/lose assignment drawn for a single sold ticket
type Outcome struct {
	IsWinner    bool  `json:"is_winner"`
	PrizeAmount int64 `json:"prize_amount"`
}
