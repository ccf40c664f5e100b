package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tombolapay/settlement/internal/database/postgres"
	"github.com/tombolapay/settlement/internal/eventlog"
	"github.com/tombolapay/settlement/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Wallet     repository.Wallet
	Ticket     repository.Ticket
	Collective repository.Collective
	Payment    repository.Payment
	EventLog   eventlog.Repository
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Wallet:     postgres.NewWalletRepository(dbPool),
		Ticket:     postgres.NewTicketRepository(dbPool),
		Collective: postgres.NewCollectiveRepository(dbPool),
		Payment:    postgres.NewPaymentRepository(dbPool),
		EventLog:   postgres.NewEventLogRepository(dbPool),
	}
}
