package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/repository"
)

// CollectiveRepository implements the collective repository for PostgreSQL
type CollectiveRepository struct {
	db *pgxpool.Pool
}

// NewCollectiveRepository creates a new CollectiveRepository
func NewCollectiveRepository(db *pgxpool.Pool) *CollectiveRepository {
	return &CollectiveRepository{db: db}
}

// collectiveTx implements repository.CollectiveTx
type collectiveTx struct {
	walletOps
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *CollectiveRepository) BeginTx(ctx context.Context) (repository.CollectiveTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &collectiveTx{walletOps: walletOps{q: tx}, tx: tx}, nil
}

func (t *collectiveTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *collectiveTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// CreateAITicket inserts a newly proposed collective ticket
func (r *CollectiveRepository) CreateAITicket(ctx context.Context, ticket *domain.AITicket) error {
	predictions, err := json.Marshal(ticket.Predictions)
	if err != nil {
		return fmt.Errorf("failed to marshal predictions: %w", err)
	}

	query := `
		INSERT INTO ai_tickets (ai_ticket_id, predictions, total_odds, status,
			total_players, total_stake, refund_rule_fired, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query, ticket.ID, predictions, ticket.TotalOdds.String(),
		ticket.Status, ticket.TotalPlayers, ticket.TotalStake, ticket.RefundRuleFired,
		ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ai ticket: %w", err)
	}
	return nil
}

const aiTicketColumns = `ai_ticket_id, predictions, total_odds::text, status,
	total_players, total_stake, refund_rule_fired, created_at, settled_at`

func scanAITicket(row pgx.Row) (*domain.AITicket, error) {
	var t domain.AITicket
	var predictions []byte
	var odds string
	err := row.Scan(&t.ID, &predictions, &odds, &t.Status, &t.TotalPlayers,
		&t.TotalStake, &t.RefundRuleFired, &t.CreatedAt, &t.SettledAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(predictions, &t.Predictions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal predictions: %w", err)
	}
	t.TotalOdds, err = decimal.NewFromString(odds)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total odds: %w", err)
	}
	return &t, nil
}

// GetAITicket retrieves a collective ticket by ID; returns nil when absent
func (r *CollectiveRepository) GetAITicket(ctx context.Context, id uuid.UUID) (*domain.AITicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM ai_tickets WHERE ai_ticket_id = $1`, aiTicketColumns)
	ticket, err := scanAITicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ai ticket: %w", err)
	}
	return ticket, nil
}

// ListOpenAITickets returns tickets still accepting plays
func (r *CollectiveRepository) ListOpenAITickets(ctx context.Context) ([]domain.AITicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM ai_tickets WHERE status IN ('proposed', 'active') ORDER BY created_at DESC`, aiTicketColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.AITicket
	for rows.Next() {
		ticket, err := scanAITicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ai ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

// GetAITicketForUpdate locks the ticket row inside the transaction
func (t *collectiveTx) GetAITicketForUpdate(ctx context.Context, id uuid.UUID) (*domain.AITicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM ai_tickets WHERE ai_ticket_id = $1 FOR UPDATE`, aiTicketColumns)
	ticket, err := scanAITicket(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCollectiveNotFound
		}
		return nil, fmt.Errorf("failed to get ai ticket for update: %w", err)
	}
	return ticket, nil
}

// UpdateAITicket writes back ticket state inside the transaction
func (t *collectiveTx) UpdateAITicket(ctx context.Context, ticket *domain.AITicket) error {
	query := `
		UPDATE ai_tickets
		SET status = $1, total_players = $2, total_stake = $3, refund_rule_fired = $4, settled_at = $5
		WHERE ai_ticket_id = $6
	`
	_, err := t.tx.Exec(ctx, query, ticket.Status, ticket.TotalPlayers, ticket.TotalStake,
		ticket.RefundRuleFired, ticket.SettledAt, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to update ai ticket: %w", err)
	}
	return nil
}

const playColumns = `play_id, ai_ticket_id, user_id, stake_amount, predicted_selections,
	is_identical, potential_win, actual_win, status, created_at`

func scanPlay(row pgx.Row) (*domain.Play, error) {
	var p domain.Play
	var selections []byte
	err := row.Scan(&p.ID, &p.AITicketID, &p.UserID, &p.StakeAmount, &selections,
		&p.IsIdentical, &p.PotentialWin, &p.ActualWin, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(selections, &p.PredictedSelections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selections: %w", err)
	}
	return &p, nil
}

func collectPlays(rows pgx.Rows) ([]domain.Play, error) {
	defer rows.Close()
	var plays []domain.Play
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, *play)
	}
	return plays, rows.Err()
}

// GetPlays returns all plays for a collective ticket
func (r *CollectiveRepository) GetPlays(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays WHERE ai_ticket_id = $1 ORDER BY created_at`, playColumns)
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	return collectPlays(rows)
}

// GetPlayByUser returns a user's play on a ticket, or nil
func (r *CollectiveRepository) GetPlayByUser(ctx context.Context, ticketID uuid.UUID, userID string) (*domain.Play, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays WHERE ai_ticket_id = $1 AND user_id = $2`, playColumns)
	play, err := scanPlay(r.db.QueryRow(ctx, query, ticketID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get play: %w", err)
	}
	return play, nil
}

// InsertPlay adds a play inside the transaction; the unique index on
// (ai_ticket_id, user_id) enforces one play per user per ticket
func (t *collectiveTx) InsertPlay(ctx context.Context, play *domain.Play) error {
	selections, err := json.Marshal(play.PredictedSelections)
	if err != nil {
		return fmt.Errorf("failed to marshal selections: %w", err)
	}

	query := `
		INSERT INTO plays (play_id, ai_ticket_id, user_id, stake_amount,
			predicted_selections, is_identical, potential_win, actual_win, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = t.tx.Exec(ctx, query, play.ID, play.AITicketID, play.UserID, play.StakeAmount,
		selections, play.IsIdentical, play.PotentialWin, play.ActualWin, play.Status, play.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return domain.ErrAlreadyPlayed
		}
		return fmt.Errorf("failed to insert play: %w", err)
	}
	return nil
}

// GetPlaysForUpdate locks all plays of a ticket inside the transaction
func (t *collectiveTx) GetPlaysForUpdate(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays WHERE ai_ticket_id = $1 ORDER BY created_at FOR UPDATE`, playColumns)
	rows, err := t.tx.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays for update: %w", err)
	}
	return collectPlays(rows)
}

// UpdatePlay writes back settlement state for a play inside the transaction
func (t *collectiveTx) UpdatePlay(ctx context.Context, play *domain.Play) error {
	query := `
		UPDATE plays
		SET status = $1, actual_win = $2
		WHERE play_id = $3
	`
	_, err := t.tx.Exec(ctx, query, play.Status, play.ActualWin, play.ID)
	if err != nil {
		return fmt.Errorf("failed to update play: %w", err)
	}
	return nil
}
