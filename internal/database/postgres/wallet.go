package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/repository"
)

// WalletRepository implements the wallet repository for PostgreSQL
type WalletRepository struct {
	db *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// walletTx implements repository.WalletTx
type walletTx struct {
	walletOps
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *WalletRepository) BeginTx(ctx context.Context) (repository.WalletTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &walletTx{walletOps: walletOps{q: tx}, tx: tx}, nil
}

// Commit commits the transaction
func (t *walletTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *walletTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetWallet retrieves a wallet without locking; returns nil when absent
func (r *WalletRepository) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `
		SELECT user_id, balance, total_won, total_spent, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`
	var wallet domain.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID, &wallet.Balance, &wallet.TotalWon, &wallet.TotalSpent,
		&wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// CreateWalletIfAbsent inserts a zero-balance wallet unless one exists, then
// reads it back. Two racing first requests both succeed; exactly one inserts.
func (r *WalletRepository) CreateWalletIfAbsent(ctx context.Context, userID string) (*domain.Wallet, error) {
	insert := `
		INSERT INTO wallets (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	wallet, err := r.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.ErrWalletNotFound
	}
	return wallet, nil
}

// GetTransactions returns the most recent ledger entries for a user
func (r *WalletRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, type, amount, idempotency_key, COALESCE(reason, ''), created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.Type, &txn.Amount,
			&txn.IdempotencyKey, &txn.Reason, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// SumTransactions returns the signed sum of all ledger entries for a user
func (r *WalletRepository) SumTransactions(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = $1`
	var sum int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}
