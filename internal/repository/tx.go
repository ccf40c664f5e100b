package repository

import (
	"context"

	"github.com/tombolapay/settlement/internal/domain"
)

// Tx defines the base interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WalletOps are the ledger operations available inside a transaction.
// Every money-moving transaction embeds these so a stake debit or prize
// credit commits (or rolls back) together with the operation that caused it.
type WalletOps interface {
	GetWalletForUpdate(ctx context.Context, userID string) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, wallet *domain.Wallet) error
	GetTransactionByKey(ctx context.Context, userID, idempotencyKey string) (*domain.Transaction, error)
	InsertTransaction(ctx context.Context, txn *domain.Transaction) error
}
