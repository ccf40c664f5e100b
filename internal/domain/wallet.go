package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeWin      TransactionType = "win"
	TransactionTypeRefund   TransactionType = "refund"
	TransactionTypeDeposit  TransactionType = "deposit"
)

// Wallet holds a user's balance and running totals, one per user, created lazily.
// Invariant: Balance equals the signed sum of the user's transactions after any
// settled operation.
type Wallet struct {
	UserID     string    `json:"user_id"`
	Balance    int64     `json:"balance"`
	TotalWon   int64     `json:"total_won"`
	TotalSpent int64     `json:"total_spent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Transaction is an immutable append-only ledger record. Amount is signed:
// negative for purchases, positive for wins and refunds. IdempotencyKey ties
// the record to its external cause (ticket id, play id, payment attempt id) so
// re-invoking the same settlement cannot double-apply.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	UserID         string          `json:"user_id"`
	Type           TransactionType `json:"type"`
	Amount         int64           `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
	Reason         string          `json:"reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
