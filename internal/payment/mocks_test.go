package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/wallet"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAttempt(ctx context.Context, attempt *domain.PaymentAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockRepository) GetAttempt(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAttempt), args.Error(1)
}

func (m *MockRepository) ListPendingAttempts(ctx context.Context, cutoff time.Time, limit int) ([]domain.PaymentAttempt, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentAttempt), args.Error(1)
}

func (m *MockRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	args := m.Called(ctx, id, reason)
	return args.Bool(0), args.Error(1)
}

// MockClient
type MockClient struct {
	mock.Mock
}

func (m *MockClient) RequestCollection(ctx context.Context, token string, params CollectionParams) error {
	args := m.Called(ctx, token, params)
	return args.Error(0)
}

func (m *MockClient) GetCollectionStatus(ctx context.Context, token, providerRef string) (*CollectionStatus, error) {
	args := m.Called(ctx, token, providerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CollectionStatus), args.Error(1)
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

// stubTokenSource hands out a fixed token without refreshing
type stubTokenSource struct {
	token string
	err   error
}

func (s *stubTokenSource) GetToken(ctx context.Context) (string, error) {
	return s.token, s.err
}
