package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
)

// Ticket defines the interface for data access required by the ticket service
type Ticket interface {
	CreateBatch(ctx context.Context, batch *domain.Batch) error
	GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	ListActiveBatches(ctx context.Context) ([]domain.Batch, error)
	DeactivateBatch(ctx context.Context, id uuid.UUID) error

	GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)

	BeginTx(ctx context.Context) (TicketTx, error)
}

// TicketTx wraps a purchase or reveal in a single atomic unit: the batch
// counter mutation, the ticket row, and the paired ledger entries commit or
// roll back together
type TicketTx interface {
	Tx
	WalletOps

	// GetBatchForUpdate locks the batch row so concurrent allocations cannot
	// read the same remainders
	GetBatchForUpdate(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	UpdateBatchCounters(ctx context.Context, batch *domain.Batch) error
	InsertTicket(ctx context.Context, ticket *domain.Ticket) error
	// InsertTickets bulk-inserts pre-generated physical tickets for a batch
	InsertTickets(ctx context.Context, tickets []domain.Ticket) error
	CountTickets(ctx context.Context, batchID uuid.UUID) (int, error)
	GetTicketForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	// GetTicketByCodeForUpdate locks a ticket row by its printed code
	GetTicketByCodeForUpdate(ctx context.Context, code string) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticket *domain.Ticket) error
}
