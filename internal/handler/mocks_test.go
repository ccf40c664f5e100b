package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/ticket"
	"github.com/tombolapay/settlement/internal/wallet"
)

// MockTicketService
type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) CreateBatch(ctx context.Context, params ticket.CreateBatchParams) (*domain.Batch, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockTicketService) GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockTicketService) ListActiveBatches(ctx context.Context) ([]domain.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockTicketService) DeactivateBatch(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTicketService) GenerateBatch(ctx context.Context, id uuid.UUID) ([]domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketService) Purchase(ctx context.Context, userID string, batchID uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, userID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) Activate(ctx context.Context, userID, code string) (*domain.Ticket, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) Reveal(ctx context.Context, userID string, ticketID uuid.UUID) (*domain.RevealResult, error) {
	args := m.Called(ctx, userID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevealResult), args.Error(1)
}

func (m *MockTicketService) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
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

// MockCollectiveService
type MockCollectiveService struct {
	mock.Mock
}

func (m *MockCollectiveService) Propose(ctx context.Context) (*domain.AITicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AITicket), args.Error(1)
}

func (m *MockCollectiveService) GetTicket(ctx context.Context, id uuid.UUID) (*domain.AITicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AITicket), args.Error(1)
}

func (m *MockCollectiveService) ListOpenTickets(ctx context.Context) ([]domain.AITicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AITicket), args.Error(1)
}

func (m *MockCollectiveService) GetPlays(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Play), args.Error(1)
}

func (m *MockCollectiveService) PlaceStake(ctx context.Context, userID string, ticketID uuid.UUID, stake int64, selections []domain.Prediction) (*domain.Play, error) {
	args := m.Called(ctx, userID, ticketID, stake, selections)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Play), args.Error(1)
}

func (m *MockCollectiveService) SetResult(ctx context.Context, ticketID uuid.UUID, outcome domain.AITicketStatus) (*domain.SettlementResult, error) {
	args := m.Called(ctx, ticketID, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Initiate(ctx context.Context, userID string, amount int64, phone, purpose string) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, userID, amount, phone, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAttempt), args.Error(1)
}

func (m *MockPaymentService) GetAttempt(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAttempt), args.Error(1)
}

func (m *MockPaymentService) Poll(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAttempt), args.Error(1)
}

func (m *MockPaymentService) PollUntilDone(ctx context.Context, id uuid.UUID, interval, budget time.Duration) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, id, interval, budget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAttempt), args.Error(1)
}
