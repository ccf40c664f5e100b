package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/repository"
	"github.com/tombolapay/settlement/internal/utils"
	"github.com/tombolapay/settlement/internal/wallet"
)

// Service defines the interface for batch and ticket operations
type Service interface {
	CreateBatch(ctx context.Context, params CreateBatchParams) (*domain.Batch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	ListActiveBatches(ctx context.Context) ([]domain.Batch, error)
	DeactivateBatch(ctx context.Context, id uuid.UUID) error
	GenerateBatch(ctx context.Context, batchID uuid.UUID) ([]domain.Ticket, error)

	Purchase(ctx context.Context, userID string, batchID uuid.UUID) (*domain.Ticket, error)
	Activate(ctx context.Context, userID, code string) (*domain.Ticket, error)
	Reveal(ctx context.Context, userID string, ticketID uuid.UUID) (*domain.RevealResult, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
}

// CreateBatchParams carries operator input for a new batch
type CreateBatchParams struct {
	Name           string
	Price          int64
	PrizeAmount    int64
	TotalTickets   int
	WinningTickets int
	LosingTickets  int
}

type service struct {
	repo      repository.Ticket
	walletSvc wallet.Service
	eventBus  event.Bus
}

// NewService creates a new ticket service
func NewService(repo repository.Ticket, walletSvc wallet.Service, eventBus event.Bus) Service {
	return &service{
		repo:      repo,
		walletSvc: walletSvc,
		eventBus:  eventBus,
	}
}

// CreateBatch creates a batch with full winner/loser remainders
func (s *service) CreateBatch(ctx context.Context, params CreateBatchParams) (*domain.Batch, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateBatchCalled, "name", params.Name, "total", params.TotalTickets, "winning", params.WinningTickets)

	if err := validateBatchParams(params); err != nil {
		return nil, err
	}

	batch := &domain.Batch{
		ID:               uuid.New(),
		Name:             params.Name,
		Price:            params.Price,
		PrizeAmount:      params.PrizeAmount,
		TotalTickets:     params.TotalTickets,
		WinningTickets:   params.WinningTickets,
		LosingTickets:    params.LosingTickets,
		WinnersRemaining: params.WinningTickets,
		LosersRemaining:  params.LosingTickets,
		SoldTickets:      0,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreateBatch, err)
	}

	s.publish(ctx, event.NewBatchCreatedEvent(batch.ID.String(), batch.Name, batch.TotalTickets, batch.WinningTickets))
	return batch, nil
}

func validateBatchParams(params CreateBatchParams) error {
	if params.Name == "" {
		return fmt.Errorf("%w: batch name required", domain.ErrInvalidInput)
	}
	if params.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	if params.PrizeAmount < 0 {
		return fmt.Errorf("%w: prize amount cannot be negative", domain.ErrInvalidInput)
	}
	if params.TotalTickets <= 0 {
		return fmt.Errorf("%w: total tickets must be positive", domain.ErrInvalidInput)
	}
	if params.WinningTickets < 0 || params.LosingTickets < 0 {
		return fmt.Errorf("%w: ticket counts cannot be negative", domain.ErrInvalidInput)
	}
	if params.WinningTickets+params.LosingTickets != params.TotalTickets {
		return fmt.Errorf("%w: winning + losing must equal total tickets", domain.ErrInvalidInput)
	}
	return nil
}

// GetBatch retrieves a batch by ID
func (s *service) GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	batch, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBatch, err)
	}
	if batch == nil {
		return nil, domain.ErrBatchNotFound
	}
	return batch, nil
}

// ListActiveBatches returns all batches currently open for sale
func (s *service) ListActiveBatches(ctx context.Context) ([]domain.Batch, error) {
	return s.repo.ListActiveBatches(ctx)
}

// DeactivateBatch closes a batch for further sales
func (s *service) DeactivateBatch(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDeactivateBatchCalled, "batch_id", id)

	return s.repo.DeactivateBatch(ctx, id)
}

// GetTicket retrieves a ticket by ID
func (s *service) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	ticket, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrTicketNotFound
	}
	return ticket, nil
}

// Purchase sells one ticket from a batch: the outcome draw, the batch counter
// mutation, the stake debit and the ticket row commit as one transaction, so
// a failure at any step leaves batch and wallet untouched.
func (s *service) Purchase(ctx context.Context, userID string, batchID uuid.UUID) (*domain.Ticket, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPurchaseCalled, "user_id", userID, "batch_id", batchID)

	if userID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Lazy wallet creation happens outside the purchase transaction; it is
	// race-safe and idempotent on its own
	if _, err := s.walletSvc.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	batch, err := tx.GetBatchForUpdate(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Exhausted() {
		return nil, domain.ErrBatchExhausted
	}
	if !batch.IsActive {
		return nil, domain.ErrBatchInactive
	}
	// A generated batch has already spent its winner budget on printed codes;
	// drawing here would issue the budget a second time
	if batch.Generated() {
		return nil, domain.ErrBatchGenerated
	}

	outcome, err := drawOutcome(batch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToDrawOutcome, err)
	}

	ticketID := uuid.New()
	if _, _, err := wallet.ApplyDebit(ctx, tx, userID, batch.Price,
		IdempotencyPrefixPurchase+ticketID.String(), "ticket purchase: "+batch.Name); err != nil {
		return nil, err
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:          ticketID,
		BatchID:     &batch.ID,
		UserID:      userID,
		IsWinner:    outcome.IsWinner,
		PrizeAmount: outcome.PrizeAmount,
		Status:      domain.TicketStatusSold,
		ActivatedAt: &now,
		CreatedAt:   now,
	}
	if err := tx.InsertTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToInsertTicket, err)
	}

	if outcome.IsWinner {
		batch.WinnersRemaining--
	} else {
		batch.LosersRemaining--
	}
	batch.SoldTickets++

	exhausted := batch.Exhausted()
	if exhausted {
		log.Info(LogMsgBatchExhausted, "batch_id", batch.ID)
		batch.IsActive = false
	}

	if err := tx.UpdateBatchCounters(ctx, batch); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateBatch, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	s.publish(ctx, event.NewTicketSoldEvent(ticket.ID.String(), batch.ID.String(), userID, batch.Price))
	if exhausted {
		s.publish(ctx, event.NewBatchExhaustedEvent(batch.ID.String(), batch.Name))
	}

	return ticket, nil
}

// drawOutcome samples without replacement: with Rw winners left among Rn
// unsold slots, the ticket wins with probability Rw/Rn. After Rn draws the
// batch has issued exactly its configured winner count, in any draw order.
func drawOutcome(batch *domain.Batch) (*domain.Outcome, error) {
	remaining := batch.RemainingTickets()
	if remaining <= 0 {
		return nil, domain.ErrBatchExhausted
	}

	draw, err := utils.SecureRandomInt(0, remaining-1)
	if err != nil {
		return nil, err
	}

	if draw < batch.WinnersRemaining {
		return &domain.Outcome{IsWinner: true, PrizeAmount: batch.PrizeAmount}, nil
	}
	return &domain.Outcome{IsWinner: false}, nil
}

// Activate claims a pre-generated physical ticket by its printed code: the
// ownership stamp, the stake debit and the batch counter mutation commit as
// one transaction. Re-activating a code the caller already owns returns the
// recorded ticket without a second debit.
func (s *service) Activate(ctx context.Context, userID, code string) (*domain.Ticket, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgActivateCalled, "user_id", userID)

	if userID == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.walletSvc.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	ticket, err := tx.GetTicketByCodeForUpdate(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusAvailable {
		if ticket.UserID == userID {
			log.Info(LogMsgTicketAlreadyActivated, "ticket_id", ticket.ID)
			return ticket, nil
		}
		return nil, domain.ErrTicketAlreadyUsed
	}
	if ticket.BatchID == nil {
		return nil, domain.ErrBatchNotFound
	}

	batch, err := tx.GetBatchForUpdate(ctx, *ticket.BatchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsActive {
		return nil, domain.ErrBatchInactive
	}

	if _, _, err := wallet.ApplyDebit(ctx, tx, userID, batch.Price,
		IdempotencyPrefixActivate+ticket.ID.String(), "ticket activation: "+batch.Name); err != nil {
		return nil, err
	}

	now := time.Now()
	ticket.UserID = userID
	ticket.Status = domain.TicketStatusSold
	ticket.ActivatedAt = &now
	if err := tx.UpdateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateTicket, err)
	}

	batch.SoldTickets++
	exhausted := batch.Exhausted()
	if exhausted {
		log.Info(LogMsgBatchExhausted, "batch_id", batch.ID)
		batch.IsActive = false
	}
	if err := tx.UpdateBatchCounters(ctx, batch); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateBatch, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	s.publish(ctx, event.NewTicketSoldEvent(ticket.ID.String(), batch.ID.String(), userID, batch.Price))
	if exhausted {
		s.publish(ctx, event.NewBatchExhaustedEvent(batch.ID.String(), batch.Name))
	}

	return ticket, nil
}

// Reveal marks a sold ticket used and credits the prize for winners. The
// credit is keyed to the ticket id, so re-revealing returns the recorded
// outcome without paying twice.
func (s *service) Reveal(ctx context.Context, userID string, ticketID uuid.UUID) (*domain.RevealResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRevealCalled, "user_id", userID, "ticket_id", ticketID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	ticket, err := tx.GetTicketForUpdate(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, domain.ErrNotTicketOwner
	}

	switch ticket.Status {
	case domain.TicketStatusUsed:
		log.Info(LogMsgTicketAlreadyRevealed, "ticket_id", ticketID)
		return &domain.RevealResult{Ticket: ticket, Credited: false}, nil
	case domain.TicketStatusExpired:
		return nil, domain.ErrTicketAlreadyUsed
	case domain.TicketStatusSold:
		// proceed
	default:
		return nil, domain.ErrTicketNotFound
	}

	now := time.Now()
	ticket.Status = domain.TicketStatusUsed
	ticket.UsedAt = &now

	credited := false
	if ticket.IsWinner && ticket.PrizeAmount > 0 {
		_, applied, err := wallet.ApplyCredit(ctx, tx, userID, ticket.PrizeAmount,
			domain.TransactionTypeWin, IdempotencyPrefixReveal+ticketID.String(), "ticket prize")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreditPrize, err)
		}
		credited = applied
		ticket.ClaimedAt = &now
	}

	if err := tx.UpdateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateTicket, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	s.publish(ctx, event.NewTicketRevealedEvent(ticket.ID.String(), userID, ticket.IsWinner, ticket.PrizeAmount))

	return &domain.RevealResult{Ticket: ticket, Credited: credited}, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event", "event_type", evt.Type, "error", err)
	}
}
