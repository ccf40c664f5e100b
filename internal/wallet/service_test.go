package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/event"
)

func newTestWallet(userID string, balance int64) *domain.Wallet {
	return &domain.Wallet{
		UserID:    userID,
		Balance:   balance,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestGetOrCreate_EmptyUserID(t *testing.T) {
	svc := NewService(&MockRepository{}, nil)

	_, err := svc.GetOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetOrCreate_Success(t *testing.T) {
	repo := &MockRepository{}
	repo.On("CreateWalletIfAbsent", mock.Anything, "user-1").Return(newTestWallet("user-1", 0), nil)

	svc := NewService(repo, nil)
	wallet, err := svc.GetOrCreate(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", wallet.UserID)
	assert.Equal(t, int64(0), wallet.Balance)
	repo.AssertExpectations(t)
}

func TestDebit_Success(t *testing.T) {
	repo := &MockRepository{}
	tx := &MockTx{}

	wallet := newTestWallet("user-1", 1000)
	repo.On("CreateWalletIfAbsent", mock.Anything, "user-1").Return(wallet, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetTransactionByKey", mock.Anything, "user-1", "key-1").Return(nil, nil)
	tx.On("GetWalletForUpdate", mock.Anything, "user-1").Return(wallet, nil)
	tx.On("UpdateWallet", mock.Anything, mock.MatchedBy(func(w *domain.Wallet) bool {
		return w.Balance == 700 && w.TotalSpent == 300
	})).Return(nil)
	tx.On("InsertTransaction", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.Amount == -300 && txn.Type == domain.TransactionTypePurchase && txn.IdempotencyKey == "key-1"
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()

	svc := NewService(repo, nil)
	txn, err := svc.Debit(context.Background(), "user-1", 300, "key-1", "ticket purchase")

	require.NoError(t, err)
	assert.Equal(t, int64(-300), txn.Amount)
	tx.AssertExpectations(t)
}

func TestDebit_InsufficientFunds(t *testing.T) {
	repo := &MockRepository{}
	tx := &MockTx{}

	repo.On("CreateWalletIfAbsent", mock.Anything, "user-1").Return(newTestWallet("user-1", 100), nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetTransactionByKey", mock.Anything, "user-1", "key-1").Return(nil, nil)
	tx.On("GetWalletForUpdate", mock.Anything, "user-1").Return(newTestWallet("user-1", 100), nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewService(repo, nil)
	_, err := svc.Debit(context.Background(), "user-1", 300, "key-1", "ticket purchase")

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	tx.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestDebit_InvalidAmount(t *testing.T) {
	repo := &MockRepository{}
	tx := &MockTx{}

	repo.On("CreateWalletIfAbsent", mock.Anything, "user-1").Return(newTestWallet("user-1", 100), nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewService(repo, nil)

	_, err := svc.Debit(context.Background(), "user-1", 0, "key-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Debit(context.Background(), "user-1", -50, "key-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDebit_DuplicateKeyReturnsOriginal(t *testing.T) {
	repo := &MockRepository{}
	tx := &MockTx{}

	original := &domain.Transaction{
		ID:             uuid.New(),
		UserID:         "user-1",
		Type:           domain.TransactionTypePurchase,
		Amount:         -300,
		IdempotencyKey: "key-1",
		CreatedAt:      time.Now(),
	}

	repo.On("CreateWalletIfAbsent", mock.Anything, "user-1").Return(newTestWallet("user-1", 700), nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetTransactionByKey", mock.Anything, "user-1", "key-1").Return(original, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewService(repo, nil)
	txn, err := svc.Debit(context.Background(), "user-1", 300, "key-1", "ticket purchase")

	require.NoError(t, err)
	assert.Equal(t, original.ID, txn.ID)
	// Balance must not move on replay
	tx.AssertNotCalled(t, "GetWalletForUpdate", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything)
}

func TestCredit_WinUpdatesTotals(t *testing.T) {
	repo := &MockRepository{}
	tx := &MockTx{}

	wallet := newTestWallet("user-1", 200)
	repo.On("CreateWalletIfAbsent", mock.Anything, "user-1").Return(wallet, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetTransactionByKey", mock.Anything, "user-1", "win-1").Return(nil, nil)
	tx.On("GetWalletForUpdate", mock.Anything, "user-1").Return(wallet, nil)
	tx.On("UpdateWallet", mock.Anything, mock.MatchedBy(func(w *domain.Wallet) bool {
		return w.Balance == 5200 && w.TotalWon == 5000
	})).Return(nil)
	tx.On("InsertTransaction", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.Amount == 5000 && txn.Type == domain.TransactionTypeWin
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()

	svc := NewService(repo, nil)
	txn, err := svc.Credit(context.Background(), "user-1", 5000, domain.TransactionTypeWin, "win-1", "ticket prize")

	require.NoError(t, err)
	assert.Equal(t, int64(5000), txn.Amount)
	tx.AssertExpectations(t)
}

func TestCredit_RefundDoesNotCountAsWinnings(t *testing.T) {
	repo := &MockRepository{}
	tx := &MockTx{}

	wallet := newTestWallet("user-1", 0)
	repo.On("CreateWalletIfAbsent", mock.Anything, "user-1").Return(wallet, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetTransactionByKey", mock.Anything, "user-1", "refund-1").Return(nil, nil)
	tx.On("GetWalletForUpdate", mock.Anything, "user-1").Return(wallet, nil)
	tx.On("UpdateWallet", mock.Anything, mock.MatchedBy(func(w *domain.Wallet) bool {
		return w.Balance == 1000 && w.TotalWon == 0
	})).Return(nil)
	tx.On("InsertTransaction", mock.Anything, mock.Anything).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()

	svc := NewService(repo, nil)
	_, err := svc.Credit(context.Background(), "user-1", 1000, domain.TransactionTypeRefund, "refund-1", "identical selection refund")

	require.NoError(t, err)
	tx.AssertExpectations(t)
}

func TestGetBalance_WalletNotFound(t *testing.T) {
	repo := &MockRepository{}
	repo.On("GetWallet", mock.Anything, "ghost").Return(nil, nil)

	svc := NewService(repo, nil)
	_, err := svc.GetBalance(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestGetHistory_LimitClamping(t *testing.T) {
	repo := &MockRepository{}
	repo.On("GetTransactions", mock.Anything, "user-1", DefaultHistoryLimit).Return([]domain.Transaction{}, nil).Once()
	repo.On("GetTransactions", mock.Anything, "user-1", MaxHistoryLimit).Return([]domain.Transaction{}, nil).Once()

	svc := NewService(repo, nil)

	_, err := svc.GetHistory(context.Background(), "user-1", 0)
	require.NoError(t, err)

	_, err = svc.GetHistory(context.Background(), "user-1", 10000)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestReconcile_Consistent(t *testing.T) {
	repo := &MockRepository{}
	repo.On("GetWallet", mock.Anything, "user-1").Return(newTestWallet("user-1", 700), nil)
	repo.On("SumTransactions", mock.Anything, "user-1").Return(int64(700), nil)

	bus := &MockEventBus{}
	svc := NewService(repo, bus)

	report, err := svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestReconcile_MismatchPublishesEvent(t *testing.T) {
	repo := &MockRepository{}
	repo.On("GetWallet", mock.Anything, "user-1").Return(newTestWallet("user-1", 700), nil)
	repo.On("SumTransactions", mock.Anything, "user-1").Return(int64(500), nil)

	bus := &MockEventBus{}
	bus.On("Publish", mock.Anything, mock.MatchedBy(func(evt event.Event) bool {
		return evt.Type == event.WalletDiscrepancy
	})).Return(nil)

	svc := NewService(repo, bus)

	report, err := svc.Reconcile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, int64(700), report.Balance)
	assert.Equal(t, int64(500), report.LedgerSum)
	bus.AssertExpectations(t)
}
