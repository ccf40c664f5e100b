package payment

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/repository"
	"github.com/tombolapay/settlement/internal/wallet"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// Service defines the interface for payment collection operations
type Service interface {
	Initiate(ctx context.Context, userID string, amount int64, phone, purpose string) (*domain.PaymentAttempt, error)
	GetAttempt(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error)
	Poll(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error)
	PollUntilDone(ctx context.Context, id uuid.UUID, interval, budget time.Duration) (*domain.PaymentAttempt, error)
}

type service struct {
	repo      repository.Payment
	walletSvc wallet.Service
	client    Client
	tokens    TokenSource
	eventBus  event.Bus
	currency  string
	minAmount int64
}

// NewService creates a new payment service
func NewService(repo repository.Payment, walletSvc wallet.Service, client Client, tokens TokenSource, eventBus event.Bus, currency string, minAmount int64) Service {
	return &service{
		repo:      repo,
		walletSvc: walletSvc,
		client:    client,
		tokens:    tokens,
		eventBus:  eventBus,
		currency:  currency,
		minAmount: minAmount,
	}
}

// Initiate validates the request, persists a pending attempt, then asks the
// provider to collect. The attempt is written before the provider call so a
// crash mid-request leaves a reconcilable record.
func (s *service) Initiate(ctx context.Context, userID string, amount int64, phone, purpose string) (*domain.PaymentAttempt, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgInitiateCalled, "user_id", userID, "amount", amount, "purpose", purpose)

	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !phonePattern.MatchString(phone) {
		return nil, domain.ErrInvalidPhone
	}
	if amount < s.minAmount {
		return nil, fmt.Errorf("%w: minimum is %d", domain.ErrAmountBelowMinimum, s.minAmount)
	}

	attempt := &domain.PaymentAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Currency:    s.currency,
		Phone:       phone,
		ProviderRef: uuid.New().String(),
		Status:      domain.PaymentStatusPending,
		Purpose:     purpose,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreateAttempt, err)
	}
	log.Debug(LogMsgAttemptPersisted, "attempt_id", attempt.ID, "provider_ref", attempt.ProviderRef)

	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	err = s.client.RequestCollection(ctx, token, CollectionParams{
		ReferenceID: attempt.ProviderRef,
		Amount:      amount,
		Currency:    s.currency,
		PayerPhone:  phone,
		ExternalID:  attempt.ID.String(),
	})
	if err != nil {
		s.fail(ctx, attempt, err.Error())
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRequestIn, err)
	}

	return attempt, nil
}

// GetAttempt retrieves a payment attempt by ID
func (s *service) GetAttempt(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error) {
	attempt, err := s.repo.GetAttempt(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetAttempt, err)
	}
	if attempt == nil {
		return nil, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

// Poll checks the provider and applies at most one terminal transition. On
// success the wallet credit lands before the attempt is marked completed;
// the credit is keyed by attempt ID, so a crash between the two steps is
// healed by the next poll without paying twice.
func (s *service) Poll(ctx context.Context, id uuid.UUID) (*domain.PaymentAttempt, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgPollCalled, "attempt_id", id)

	attempt, err := s.GetAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt.Status.Terminal() {
		return attempt, nil
	}

	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	status, err := s.client.GetCollectionStatus(ctx, token, attempt.ProviderRef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetStatus, err)
	}

	switch status.Status {
	case ProviderStatusPending:
		return attempt, nil

	case ProviderStatusSuccessful:
		if _, err := s.walletSvc.Credit(ctx, attempt.UserID, attempt.Amount,
			domain.TransactionTypeDeposit, attempt.ID.String(), "mobile money collection"); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
		swapped, err := s.repo.MarkCompleted(ctx, id)
		if err != nil {
			return nil, err
		}
		if swapped {
			log.Info(LogMsgPaymentCompleted, "attempt_id", id, "user_id", attempt.UserID, "amount", attempt.Amount)
			s.publish(ctx, event.NewPaymentCompletedEvent(
				attempt.ID.String(), attempt.UserID, attempt.Amount, attempt.Currency, attempt.Purpose))
		}
		return s.GetAttempt(ctx, id)

	case ProviderStatusFailed:
		s.fail(ctx, attempt, status.Reason)
		return s.GetAttempt(ctx, id)

	default:
		return nil, fmt.Errorf("%s: unexpected provider status %q", ErrContextFailedToGetStatus, status.Status)
	}
}

// PollUntilDone polls on a fixed interval until the attempt is terminal, the
// context ends, or the budget runs out. Budget exhaustion returns the attempt
// still pending; it is never inferred failed.
func (s *service) PollUntilDone(ctx context.Context, id uuid.UUID, interval, budget time.Duration) (*domain.PaymentAttempt, error) {
	log := logger.FromContext(ctx)
	deadline := time.Now().Add(budget)

	for {
		attempt, err := s.Poll(ctx, id)
		if err != nil {
			return nil, err
		}
		if attempt.Status.Terminal() {
			return attempt, nil
		}
		if time.Now().Add(interval).After(deadline) {
			log.Info(LogMsgPollBudgetSpent, "attempt_id", id, "budget", budget)
			return attempt, nil
		}

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// fail applies the pending -> failed transition and publishes on the swap
func (s *service) fail(ctx context.Context, attempt *domain.PaymentAttempt, reason string) {
	log := logger.FromContext(ctx)

	swapped, err := s.repo.MarkFailed(ctx, attempt.ID, reason)
	if err != nil {
		log.Error("Failed to mark payment attempt failed", "attempt_id", attempt.ID, "error", err)
		return
	}
	if swapped {
		log.Info(LogMsgPaymentFailed, "attempt_id", attempt.ID, "reason", reason)
		s.publish(ctx, event.NewPaymentFailedEvent(
			attempt.ID.String(), attempt.UserID, attempt.Amount, attempt.Currency, attempt.Purpose, reason))
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event", "event_type", evt.Type, "error", err)
	}
}
