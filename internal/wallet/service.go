package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/repository"
)

// Service defines the interface for wallet ledger operations
type Service interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error)
	Debit(ctx context.Context, userID string, amount int64, idempotencyKey, reason string) (*domain.Transaction, error)
	Credit(ctx context.Context, userID string, amount int64, txType domain.TransactionType, idempotencyKey, reason string) (*domain.Transaction, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	Reconcile(ctx context.Context, userID string) (*ReconcileReport, error)
}

// ReconcileReport compares a wallet's cached balance against the signed sum
// of its ledger entries
type ReconcileReport struct {
	UserID     string `json:"user_id"`
	Balance    int64  `json:"balance"`
	LedgerSum  int64  `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

type service struct {
	repo     repository.Wallet
	eventBus event.Bus
}

// NewService creates a new wallet service
func NewService(repo repository.Wallet, eventBus event.Bus) Service {
	return &service{
		repo:     repo,
		eventBus: eventBus,
	}
}

// GetOrCreate returns the user's wallet, lazily creating a zero-balance one
func (s *service) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}

	wallet, err := s.repo.CreateWalletIfAbsent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreateWallet, err)
	}
	return wallet, nil
}

// Debit atomically deducts funds, recording a negative ledger entry. Replays
// of the same idempotency key return the recorded transaction without moving
// money again.
func (s *service) Debit(ctx context.Context, userID string, amount int64, idempotencyKey, reason string) (*domain.Transaction, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDebitCalled, "user_id", userID, "amount", amount, "idempotency_key", idempotencyKey)

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	txn, applied, err := ApplyDebit(ctx, tx, userID, amount, idempotencyKey, reason)
	if err != nil {
		return nil, err
	}
	if !applied {
		log.Info(LogMsgDuplicateTransaction, "user_id", userID, "idempotency_key", idempotencyKey)
		return txn, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return txn, nil
}

// Credit atomically adds funds, recording a positive ledger entry. Replays of
// the same idempotency key return the recorded transaction without moving
// money again.
func (s *service) Credit(ctx context.Context, userID string, amount int64, txType domain.TransactionType, idempotencyKey, reason string) (*domain.Transaction, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreditCalled, "user_id", userID, "amount", amount, "type", txType, "idempotency_key", idempotencyKey)

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	txn, applied, err := ApplyCredit(ctx, tx, userID, amount, txType, idempotencyKey, reason)
	if err != nil {
		return nil, err
	}
	if !applied {
		log.Info(LogMsgDuplicateTransaction, "user_id", userID, "idempotency_key", idempotencyKey)
		return txn, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return txn, nil
}

// GetBalance returns the current wallet balance
func (s *service) GetBalance(ctx context.Context, userID string) (int64, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToGetWallet, err)
	}
	if wallet == nil {
		return 0, domain.ErrWalletNotFound
	}
	return wallet.Balance, nil
}

// GetHistory returns the most recent ledger entries for a user
func (s *service) GetHistory(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	txns, err := s.repo.GetTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetHistory, err)
	}
	return txns, nil
}

// Reconcile verifies the wallet invariant: balance equals the signed sum of
// all ledger entries. A mismatch is reported, never silently corrected.
func (s *service) Reconcile(ctx context.Context, userID string) (*ReconcileReport, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgReconcileCalled, "user_id", userID)

	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetWallet, err)
	}
	if wallet == nil {
		return nil, domain.ErrWalletNotFound
	}

	sum, err := s.repo.SumTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToSumLedger, err)
	}

	report := &ReconcileReport{
		UserID:     userID,
		Balance:    wallet.Balance,
		LedgerSum:  sum,
		Consistent: wallet.Balance == sum,
	}

	if !report.Consistent {
		log.Error(LogMsgLedgerMismatch, "user_id", userID, "balance", wallet.Balance, "ledger_sum", sum)
		if s.eventBus != nil {
			if err := s.eventBus.Publish(ctx, event.NewWalletDiscrepancyEvent(userID, wallet.Balance, sum)); err != nil {
				log.Warn("Failed to publish discrepancy event", "error", err)
			}
		}
	}

	return report, nil
}

// ApplyDebit deducts funds inside a caller-owned transaction. Returns the
// ledger entry and whether it was newly applied; a replayed idempotency key
// returns the original entry with applied=false.
func ApplyDebit(ctx context.Context, ops repository.WalletOps, userID string, amount int64, idempotencyKey, reason string) (*domain.Transaction, bool, error) {
	if amount <= 0 {
		return nil, false, domain.ErrInvalidAmount
	}

	existing, err := ops.GetTransactionByKey(ctx, userID, idempotencyKey)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrContextFailedToGetTxnByKey, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	wallet, err := ops.GetWalletForUpdate(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if wallet.Balance < amount {
		return nil, false, domain.ErrInsufficientFunds
	}

	wallet.Balance -= amount
	wallet.TotalSpent += amount
	if err := ops.UpdateWallet(ctx, wallet); err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrContextFailedToUpdateWallet, err)
	}

	txn := &domain.Transaction{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           domain.TransactionTypePurchase,
		Amount:         -amount,
		IdempotencyKey: idempotencyKey,
		Reason:         reason,
		CreatedAt:      time.Now(),
	}
	if err := ops.InsertTransaction(ctx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			// Lost a race on the same key; surface so the caller retries the read
			return nil, false, domain.ErrDuplicateTransaction
		}
		return nil, false, fmt.Errorf("%s: %w", ErrContextFailedToInsertTxn, err)
	}

	return txn, true, nil
}

// ApplyCredit adds funds inside a caller-owned transaction. Returns the
// ledger entry and whether it was newly applied; a replayed idempotency key
// returns the original entry with applied=false.
func ApplyCredit(ctx context.Context, ops repository.WalletOps, userID string, amount int64, txType domain.TransactionType, idempotencyKey, reason string) (*domain.Transaction, bool, error) {
	if amount <= 0 {
		return nil, false, domain.ErrInvalidAmount
	}

	existing, err := ops.GetTransactionByKey(ctx, userID, idempotencyKey)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrContextFailedToGetTxnByKey, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	wallet, err := ops.GetWalletForUpdate(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	wallet.Balance += amount
	if txType == domain.TransactionTypeWin {
		wallet.TotalWon += amount
	}
	if err := ops.UpdateWallet(ctx, wallet); err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrContextFailedToUpdateWallet, err)
	}

	txn := &domain.Transaction{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           txType,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
		Reason:         reason,
		CreatedAt:      time.Now(),
	}
	if err := ops.InsertTransaction(ctx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			return nil, false, domain.ErrDuplicateTransaction
		}
		return nil, false, fmt.Errorf("%s: %w", ErrContextFailedToInsertTxn, err)
	}

	return txn, true, nil
}
