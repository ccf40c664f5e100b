package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tombolapay/settlement/internal/domain"
)

// querier abstracts pgxpool.Pool and pgx.Tx so wallet ledger operations can
// run either standalone or inside a larger transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// walletOps implements repository.WalletOps against any querier. Every
// transaction type in this package embeds it so ledger mutations share one
// implementation.
type walletOps struct {
	q querier
}

// GetWalletForUpdate locks the wallet row for the duration of the transaction
func (w walletOps) GetWalletForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `
		SELECT user_id, balance, total_won, total_spent, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`
	var wallet domain.Wallet
	err := w.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID, &wallet.Balance, &wallet.TotalWon, &wallet.TotalSpent,
		&wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for update: %w", err)
	}
	return &wallet, nil
}

// UpdateWallet writes back balance and totals for a locked wallet row
func (w walletOps) UpdateWallet(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET balance = $1, total_won = $2, total_spent = $3, updated_at = NOW()
		WHERE user_id = $4
	`
	_, err := w.q.Exec(ctx, query, wallet.Balance, wallet.TotalWon, wallet.TotalSpent, wallet.UserID)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

// GetTransactionByKey returns the ledger entry for an idempotency key, or nil
func (w walletOps) GetTransactionByKey(ctx context.Context, userID, idempotencyKey string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, type, amount, idempotency_key, COALESCE(reason, ''), created_at
		FROM wallet_transactions
		WHERE user_id = $1 AND idempotency_key = $2
	`
	var txn domain.Transaction
	err := w.q.QueryRow(ctx, query, userID, idempotencyKey).Scan(
		&txn.ID, &txn.UserID, &txn.Type, &txn.Amount, &txn.IdempotencyKey,
		&txn.Reason, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction by key: %w", err)
	}
	return &txn, nil
}

// InsertTransaction appends an immutable ledger entry
func (w walletOps) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO wallet_transactions (transaction_id, user_id, type, amount, idempotency_key, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := w.q.Exec(ctx, query, txn.ID, txn.UserID, txn.Type, txn.Amount,
		txn.IdempotencyKey, txn.Reason, txn.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
