package repository

import (
	"context"

	"github.com/tombolapay/settlement/internal/domain"
)

// Wallet defines the interface for data access required by the wallet ledger
type Wallet interface {
	// GetWallet returns nil when the user has no wallet yet
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	// CreateWalletIfAbsent is the race-safe lazy creation path (insert-or-get)
	CreateWalletIfAbsent(ctx context.Context, userID string) (*domain.Wallet, error)
	GetTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	// SumTransactions returns the signed sum of the user's ledger entries
	SumTransactions(ctx context.Context, userID string) (int64, error)

	BeginTx(ctx context.Context) (WalletTx, error)
}

// WalletTx is a transaction scoped to ledger mutations
type WalletTx interface {
	Tx
	WalletOps
}
