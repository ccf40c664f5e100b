package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/repository"
)

// TicketRepository implements the ticket repository for PostgreSQL
type TicketRepository struct {
	db *pgxpool.Pool
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: db}
}

// ticketTx implements repository.TicketTx
type ticketTx struct {
	walletOps
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *TicketRepository) BeginTx(ctx context.Context) (repository.TicketTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ticketTx{walletOps: walletOps{q: tx}, tx: tx}, nil
}

func (t *ticketTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ticketTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// CreateBatch inserts a new batch with full remainders
func (r *TicketRepository) CreateBatch(ctx context.Context, batch *domain.Batch) error {
	query := `
		INSERT INTO batches (batch_id, name, price, prize_amount, total_tickets,
			winning_tickets, losing_tickets, winners_remaining, losers_remaining,
			sold_tickets, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query, batch.ID, batch.Name, batch.Price, batch.PrizeAmount,
		batch.TotalTickets, batch.WinningTickets, batch.LosingTickets,
		batch.WinnersRemaining, batch.LosersRemaining, batch.SoldTickets,
		batch.IsActive, batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

const batchColumns = `batch_id, name, price, prize_amount, total_tickets,
	winning_tickets, losing_tickets, winners_remaining, losers_remaining,
	sold_tickets, is_active, created_at`

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	var b domain.Batch
	err := row.Scan(&b.ID, &b.Name, &b.Price, &b.PrizeAmount, &b.TotalTickets,
		&b.WinningTickets, &b.LosingTickets, &b.WinnersRemaining, &b.LosersRemaining,
		&b.SoldTickets, &b.IsActive, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBatch retrieves a batch by ID; returns nil when absent
func (r *TicketRepository) GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	query := fmt.Sprintf(`SELECT %s FROM batches WHERE batch_id = $1`, batchColumns)
	batch, err := scanBatch(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return batch, nil
}

// ListActiveBatches returns all batches currently open for sale
func (r *TicketRepository) ListActiveBatches(ctx context.Context) ([]domain.Batch, error) {
	query := fmt.Sprintf(`SELECT %s FROM batches WHERE is_active ORDER BY created_at DESC`, batchColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, *batch)
	}
	return batches, rows.Err()
}

// DeactivateBatch closes a batch for further sales
func (r *TicketRepository) DeactivateBatch(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE batches SET is_active = FALSE WHERE batch_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

// GetBatchForUpdate locks the batch row inside the transaction
func (t *ticketTx) GetBatchForUpdate(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	query := fmt.Sprintf(`SELECT %s FROM batches WHERE batch_id = $1 FOR UPDATE`, batchColumns)
	batch, err := scanBatch(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get batch for update: %w", err)
	}
	return batch, nil
}

// UpdateBatchCounters writes back remainders, sold count and active flag
func (t *ticketTx) UpdateBatchCounters(ctx context.Context, batch *domain.Batch) error {
	query := `
		UPDATE batches
		SET winners_remaining = $1, losers_remaining = $2, sold_tickets = $3, is_active = $4
		WHERE batch_id = $5
	`
	_, err := t.tx.Exec(ctx, query, batch.WinnersRemaining, batch.LosersRemaining,
		batch.SoldTickets, batch.IsActive, batch.ID)
	if err != nil {
		return fmt.Errorf("failed to update batch counters: %w", err)
	}
	return nil
}

const ticketColumns = `ticket_id, batch_id, user_id, COALESCE(code, ''), is_winner,
	prize_amount, status, activated_at, used_at, claimed_at, created_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var tk domain.Ticket
	var userID *string
	err := row.Scan(&tk.ID, &tk.BatchID, &userID, &tk.Code, &tk.IsWinner,
		&tk.PrizeAmount, &tk.Status, &tk.ActivatedAt, &tk.UsedAt, &tk.ClaimedAt, &tk.CreatedAt)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		tk.UserID = *userID
	}
	return &tk, nil
}

// GetTicket retrieves a ticket by ID; returns nil when absent
func (r *TicketRepository) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id = $1`, ticketColumns)
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// InsertTickets bulk-inserts pre-generated tickets inside the transaction,
// so the rows and the consumed batch counters commit together
func (t *ticketTx) InsertTickets(ctx context.Context, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(tickets))
	for i := range tickets {
		tk := &tickets[i]
		var userID *string
		if tk.UserID != "" {
			userID = &tk.UserID
		}
		rows = append(rows, []any{tk.ID, tk.BatchID, userID, tk.Code, tk.IsWinner,
			tk.PrizeAmount, string(tk.Status), tk.CreatedAt})
	}
	_, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"tickets"},
		[]string{"ticket_id", "batch_id", "user_id", "code", "is_winner", "prize_amount", "status", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert tickets: %w", err)
	}
	return nil
}

// CountTickets returns how many tickets exist for a batch
func (t *ticketTx) CountTickets(ctx context.Context, batchID uuid.UUID) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE batch_id = $1`, batchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// InsertTicket inserts a single sold ticket inside the transaction
func (t *ticketTx) InsertTicket(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (ticket_id, batch_id, user_id, code, is_winner,
			prize_amount, status, activated_at, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
	`
	_, err := t.tx.Exec(ctx, query, ticket.ID, ticket.BatchID, ticket.UserID, ticket.Code,
		ticket.IsWinner, ticket.PrizeAmount, ticket.Status, ticket.ActivatedAt, ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// GetTicketForUpdate locks a ticket row inside the transaction
func (t *ticketTx) GetTicketForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id = $1 FOR UPDATE`, ticketColumns)
	ticket, err := scanTicket(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket for update: %w", err)
	}
	return ticket, nil
}

// GetTicketByCodeForUpdate locks a ticket row by its printed code
func (t *ticketTx) GetTicketByCodeForUpdate(ctx context.Context, code string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE code = $1 FOR UPDATE`, ticketColumns)
	ticket, err := scanTicket(t.tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket by code for update: %w", err)
	}
	return ticket, nil
}

// UpdateTicket writes back ticket state inside the transaction
func (t *ticketTx) UpdateTicket(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		UPDATE tickets
		SET user_id = $1, status = $2, activated_at = $3, used_at = $4, claimed_at = $5
		WHERE ticket_id = $6
	`
	var userID *string
	if ticket.UserID != "" {
		userID = &ticket.UserID
	}
	_, err := t.tx.Exec(ctx, query, userID, ticket.Status, ticket.ActivatedAt,
		ticket.UsedAt, ticket.ClaimedAt, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	return nil
}
