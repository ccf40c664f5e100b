package collective

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/repository"
	"github.com/tombolapay/settlement/internal/wallet"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAITicket(ctx context.Context, ticket *domain.AITicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockRepository) GetAITicket(ctx context.Context, id uuid.UUID) (*domain.AITicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AITicket), args.Error(1)
}

func (m *MockRepository) ListOpenAITickets(ctx context.Context) ([]domain.AITicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AITicket), args.Error(1)
}

func (m *MockRepository) GetPlays(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Play), args.Error(1)
}

func (m *MockRepository) GetPlayByUser(ctx context.Context, ticketID uuid.UUID, userID string) (*domain.Play, error) {
	args := m.Called(ctx, ticketID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Play), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.CollectiveTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.CollectiveTx), args.Error(1)
}

// MockTx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) GetWalletForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockTx) UpdateWallet(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockTx) GetTransactionByKey(ctx context.Context, userID, idempotencyKey string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTx) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTx) GetAITicketForUpdate(ctx context.Context, id uuid.UUID) (*domain.AITicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AITicket), args.Error(1)
}

func (m *MockTx) UpdateAITicket(ctx context.Context, ticket *domain.AITicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTx) InsertPlay(ctx context.Context, play *domain.Play) error {
	args := m.Called(ctx, play)
	return args.Error(0)
}

func (m *MockTx) GetPlaysForUpdate(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Play), args.Error(1)
}

func (m *MockTx) UpdatePlay(ctx context.Context, play *domain.Play) error {
	args := m.Called(ctx, play)
	return args.Error(0)
}

// MockWalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletService) Debit(ctx context.Context, userID string, amount int64, idempotencyKey, reason string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount, idempotencyKey, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockWalletService) Credit(ctx context.Context, userID string, amount int64, txType domain.TransactionType, idempotencyKey, reason string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount, txType, idempotencyKey, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockWalletService) GetBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletService) GetHistory(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockWalletService) Reconcile(ctx context.Context, userID string) (*wallet.ReconcileReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.ReconcileReport), args.Error(1)
}

// MockPredictionSource
type MockPredictionSource struct {
	mock.Mock
}

func (m *MockPredictionSource) GeneratePredictions(ctx context.Context) ([]domain.Prediction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prediction), args.Error(1)
}

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}
