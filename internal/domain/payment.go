package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventPaymentCompleted = "PaymentCompleted"
	EventPaymentFailed    = "PaymentFailed"
)

// PaymentStatus represents the state of a payment attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status can no longer change
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PaymentAttempt tracks a single mobile-money collection request from
// initiation to terminal state. It becomes terminal exactly once, and the
// downstream wallet credit is applied at most once per attempt, keyed by ID.
type PaymentAttempt struct {
	ID            uuid.UUID     `json:"id"`
	UserID        string        `json:"user_id"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Phone         string        `json:"phone"`
	ProviderRef   string        `json:"provider_reference"`
	Status        PaymentStatus `json:"status"`
	Purpose       string        `json:"purpose"`
	FailureReason string        `json:"failure_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}
