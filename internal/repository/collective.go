package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
)

// Collective defines the interface for data access required by the
// collective settlement resolver
type Collective interface {
	CreateAITicket(ctx context.Context, ticket *domain.AITicket) error
	GetAITicket(ctx context.Context, id uuid.UUID) (*domain.AITicket, error)
	ListOpenAITickets(ctx context.Context) ([]domain.AITicket, error)
	GetPlays(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error)
	GetPlayByUser(ctx context.Context, ticketID uuid.UUID, userID string) (*domain.Play, error)

	BeginTx(ctx context.Context) (CollectiveTx, error)
}

// CollectiveTx wraps a play placement or a settlement in one atomic unit
type CollectiveTx interface {
	Tx
	WalletOps

	GetAITicketForUpdate(ctx context.Context, id uuid.UUID) (*domain.AITicket, error)
	UpdateAITicket(ctx context.Context, ticket *domain.AITicket) error
	InsertPlay(ctx context.Context, play *domain.Play) error
	GetPlaysForUpdate(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error)
	UpdatePlay(ctx context.Context, play *domain.Play) error
}
