package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
)

// Payment defines the interface for data access required by the payment
// gateway adapter. Terminal transitions are compare-and-swap updates so an
// attempt becomes completed or failed exactly once.
type Payment interface {
	CreateAttempt(ctx context.Context, attempt *domain.PaymentAttempt) error
	GetAttempt(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error)
	// ListPendingAttempts returns pending attempts created before the cutoff,
	// oldest first, for reconciliation
	ListPendingAttempts(ctx context.Context, cutoff time.Time, limit int) ([]domain.PaymentAttempt, error)
	// MarkCompleted transitions pending -> completed; returns false if the
	// attempt was already terminal
	MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error)
	// MarkFailed transitions pending -> failed with a provider reason;
	// returns false if the attempt was already terminal
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}
