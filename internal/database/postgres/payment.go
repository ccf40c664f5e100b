package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tombolapay/settlement/internal/domain"
)

// PaymentRepository implements the payment repository for PostgreSQL
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateAttempt persists a pending attempt before the provider call so a
// crash afterwards can still be reconciled by the stored reference
func (r *PaymentRepository) CreateAttempt(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		INSERT INTO payment_attempts (attempt_id, user_id, amount, currency, phone,
			provider_ref, status, purpose, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, attempt.ID, attempt.UserID, attempt.Amount,
		attempt.Currency, attempt.Phone, attempt.ProviderRef, attempt.Status,
		attempt.Purpose, attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment attempt: %w", err)
	}
	return nil
}

const attemptColumns = `attempt_id, user_id, amount, currency, phone, provider_ref,
	status, purpose, COALESCE(failure_reason, ''), created_at, completed_at`

func scanAttempt(row pgx.Row) (*domain.PaymentAttempt, error) {
	var a domain.PaymentAttempt
	err := row.Scan(&a.ID, &a.UserID, &a.Amount, &a.Currency, &a.Phone, &a.ProviderRef,
		&a.Status, &a.Purpose, &a.FailureReason, &a.CreatedAt, &a.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAttempt retrieves an attempt by ID; returns nil when absent
func (r *PaymentRepository) GetAttempt(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_attempts WHERE attempt_id = $1`, attemptColumns)
	attempt, err := scanAttempt(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment attempt: %w", err)
	}
	return attempt, nil
}

// ListPendingAttempts returns pending attempts created before the cutoff, oldest first
func (r *PaymentRepository) ListPendingAttempts(ctx context.Context, cutoff time.Time, limit int) ([]domain.PaymentAttempt, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payment_attempts
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at
		LIMIT $2
	`, attemptColumns)
	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.PaymentAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment attempt: %w", err)
		}
		attempts = append(attempts, *attempt)
	}
	return attempts, rows.Err()
}

// MarkCompleted transitions pending -> completed exactly once
func (r *PaymentRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE payment_attempts
		SET status = 'completed', completed_at = NOW()
		WHERE attempt_id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark attempt completed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed transitions pending -> failed exactly once, recording the reason
func (r *PaymentRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE payment_attempts
		SET status = 'failed', failure_reason = $2, completed_at = NOW()
		WHERE attempt_id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id, reason)
	if err != nil {
		return false, fmt.Errorf("failed to mark attempt failed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
