package collective

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/event"
	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/repository"
	"github.com/tombolapay/settlement/internal/wallet"
)

// PredictionSource supplies structured predictions for a new collective
// ticket. The content is opaque to the resolver.
type PredictionSource interface {
	GeneratePredictions(ctx context.Context) ([]domain.Prediction, error)
}

// Service defines the interface for collective ticket operations
type Service interface {
	Propose(ctx context.Context) (*domain.AITicket, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*domain.AITicket, error)
	ListOpenTickets(ctx context.Context) ([]domain.AITicket, error)
	GetPlays(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error)

	PlaceStake(ctx context.Context, userID string, ticketID uuid.UUID, stake int64, selections []domain.Prediction) (*domain.Play, error)
	SetResult(ctx context.Context, ticketID uuid.UUID, outcome domain.AITicketStatus) (*domain.SettlementResult, error)
}

type service struct {
	repo      repository.Collective
	walletSvc wallet.Service
	source    PredictionSource
	eventBus  event.Bus

	// settled holds terminal settlement results; a hit makes the idempotent
	// re-settle path skip the database entirely
	settled *lru.Cache[uuid.UUID, *domain.SettlementResult]
}

// NewService creates a new collective settlement service
func NewService(repo repository.Collective, walletSvc wallet.Service, source PredictionSource, eventBus event.Bus) (Service, error) {
	cache, err := lru.New[uuid.UUID, *domain.SettlementResult](SettledCacheSize)
	if err != nil {
		return nil, err
	}
	return &service{
		repo:      repo,
		walletSvc: walletSvc,
		source:    source,
		eventBus:  eventBus,
		settled:   cache,
	}, nil
}

// Propose seeds a new collective ticket from the prediction source and
// computes its total odds as the decimal product of the legs
func (s *service) Propose(ctx context.Context) (*domain.AITicket, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgProposeCalled)

	predictions, err := s.source.GeneratePredictions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetProposal, err)
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("%w: prediction source returned no legs", domain.ErrInvalidInput)
	}

	totalOdds := decimal.NewFromInt(1)
	for _, p := range predictions {
		if p.Odds.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: leg %q has non-positive odds", domain.ErrInvalidInput, p.MatchName)
		}
		totalOdds = totalOdds.Mul(p.Odds)
	}

	ticket := &domain.AITicket{
		ID:          uuid.New(),
		Predictions: predictions,
		TotalOdds:   totalOdds,
		Status:      domain.AITicketStatusProposed,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateAITicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreateTicket, err)
	}
	return ticket, nil
}

// GetTicket retrieves a collective ticket by ID
func (s *service) GetTicket(ctx context.Context, id uuid.UUID) (*domain.AITicket, error) {
	ticket, err := s.repo.GetAITicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetTicket, err)
	}
	if ticket == nil {
		return nil, domain.ErrCollectiveNotFound
	}
	return ticket, nil
}

// ListOpenTickets returns tickets still accepting plays
func (s *service) ListOpenTickets(ctx context.Context) ([]domain.AITicket, error) {
	return s.repo.ListOpenAITickets(ctx)
}

// GetPlays returns all plays for a collective ticket
func (s *service) GetPlays(ctx context.Context, ticketID uuid.UUID) ([]domain.Play, error) {
	return s.repo.GetPlays(ctx, ticketID)
}

// PlaceStake records one user's play: the stake debit, the play row and the
// ticket aggregates commit as a single transaction. A second play on the
// same ticket by the same user is rejected before any money moves.
func (s *service) PlaceStake(ctx context.Context, userID string, ticketID uuid.UUID, stake int64, selections []domain.Prediction) (*domain.Play, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPlaceStakeCalled, "user_id", userID, "ticket_id", ticketID, "stake", stake)

	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if stake <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: at least one selection required", domain.ErrInvalidInput)
	}

	// Cheap pre-check before touching the wallet; the unique index on
	// (ai_ticket_id, user_id) is the authoritative guard
	existing, err := s.repo.GetPlayByUser(ctx, ticketID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPlays, err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyPlayed
	}

	if _, err := s.walletSvc.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	ticket, err := tx.GetAITicketForUpdate(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.AITicketStatusProposed && ticket.Status != domain.AITicketStatusActive {
		return nil, domain.ErrTicketNotOpen
	}

	playID := uuid.New()
	if _, _, err := wallet.ApplyDebit(ctx, tx, userID, stake,
		IdempotencyPrefixStake+playID.String(), "collective stake"); err != nil {
		return nil, err
	}

	play := &domain.Play{
		ID:                  playID,
		AITicketID:          ticketID,
		UserID:              userID,
		StakeAmount:         stake,
		PredictedSelections: selections,
		IsIdentical:         domain.SelectionsIdentical(ticket.Predictions, selections),
		PotentialWin:        potentialWin(stake, ticket.TotalOdds),
		Status:              domain.PlayStatusActive,
		CreatedAt:           time.Now(),
	}
	if err := tx.InsertPlay(ctx, play); err != nil {
		if errors.Is(err, domain.ErrAlreadyPlayed) {
			return nil, domain.ErrAlreadyPlayed
		}
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToInsertPlay, err)
	}

	ticket.TotalPlayers++
	ticket.TotalStake += stake
	ticket.Status = domain.AITicketStatusActive
	if err := tx.UpdateAITicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateTicket, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	return play, nil
}

// potentialWin computes stake × total odds in minor units, floored
func potentialWin(stake int64, totalOdds decimal.Decimal) int64 {
	return decimal.NewFromInt(stake).Mul(totalOdds).Floor().IntPart()
}

// SetResult finalizes a collective ticket exactly once. Won tickets pay each
// active play its potential win; lost tickets apply the identical-refund
// rule. Resolving an already-terminal ticket is a successful no-op.
func (s *service) SetResult(ctx context.Context, ticketID uuid.UUID, outcome domain.AITicketStatus) (*domain.SettlementResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSetResultCalled, "ticket_id", ticketID, "outcome", outcome)

	if outcome != domain.AITicketStatusWon && outcome != domain.AITicketStatusLost {
		return nil, domain.ErrInvalidOutcome
	}

	if cached, ok := s.settled.Get(ticketID); ok {
		log.Info(LogMsgAlreadySettled, "ticket_id", ticketID)
		return cached, nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	ticket, err := tx.GetAITicketForUpdate(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if terminal(ticket.Status) {
		log.Info(LogMsgAlreadySettled, "ticket_id", ticketID, "status", ticket.Status)
		plays, err := tx.GetPlaysForUpdate(ctx, ticketID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPlays, err)
		}
		result := rebuildResult(ticket, plays)
		s.settled.Add(ticketID, result)
		return result, nil
	}

	plays, err := tx.GetPlaysForUpdate(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetPlays, err)
	}

	var result *domain.SettlementResult
	if outcome == domain.AITicketStatusWon {
		result, err = s.settleWon(ctx, tx, ticket, plays)
	} else {
		result, err = s.settleLost(ctx, tx, ticket, plays)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ticket.SettledAt = &now
	if err := tx.UpdateAITicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateTicket, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	s.settled.Add(ticketID, result)
	s.publish(ctx, event.NewCollectiveSettledEvent(
		ticketID.String(), string(result.Outcome), result.TotalPlays,
		result.PaidOut+result.Refunded, result.RefundApplied,
		refundedCount(result)))

	log.Info(LogMsgSettlementComplete, "ticket_id", ticketID, "outcome", result.Outcome,
		"paid_out", result.PaidOut, "refunded", result.Refunded)
	return result, nil
}

func terminal(status domain.AITicketStatus) bool {
	switch status {
	case domain.AITicketStatusWon, domain.AITicketStatusLost, domain.AITicketStatusRefunded:
		return true
	}
	return false
}

// rebuildResult reconstructs the settlement summary of an already-terminal
// ticket from its stored plays, so a retry returns the same totals the
// settling call did
func rebuildResult(ticket *domain.AITicket, plays []domain.Play) *domain.SettlementResult {
	result := &domain.SettlementResult{
		TicketID:      ticket.ID,
		Outcome:       ticket.Status,
		TotalPlays:    len(plays),
		RefundApplied: ticket.RefundRuleFired,
	}
	result.IdenticalPlays, result.IdenticalPct = identicalShare(plays)
	for i := range plays {
		switch plays[i].Status {
		case domain.PlayStatusWon:
			result.PaidOut += plays[i].ActualWin
		case domain.PlayStatusRefunded:
			result.Refunded += plays[i].ActualWin
		}
	}
	return result
}

// identicalShare counts plays identical to the proposal and their percentage
// of the field
func identicalShare(plays []domain.Play) (int, float64) {
	identical := 0
	for i := range plays {
		if plays[i].IsIdentical {
			identical++
		}
	}
	if len(plays) == 0 {
		return 0, 0
	}
	return identical, float64(identical) / float64(len(plays)) * 100
}

func refundedCount(result *domain.SettlementResult) int {
	if !result.RefundApplied {
		return 0
	}
	return result.IdenticalPlays
}

// settleWon pays every active play its potential win. Already-settled plays
// are skipped, so a crashed half-finished run completes safely on retry.
func (s *service) settleWon(ctx context.Context, tx repository.CollectiveTx, ticket *domain.AITicket, plays []domain.Play) (*domain.SettlementResult, error) {
	var paidOut int64
	for i := range plays {
		play := &plays[i]
		if play.Status != domain.PlayStatusActive {
			continue
		}
		if _, _, err := wallet.ApplyCredit(ctx, tx, play.UserID, play.PotentialWin,
			domain.TransactionTypeWin, IdempotencyPrefixSettle+play.ID.String(), "collective win"); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreditWin, err)
		}
		play.Status = domain.PlayStatusWon
		play.ActualWin = play.PotentialWin
		if err := tx.UpdatePlay(ctx, play); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdatePlay, err)
		}
		paidOut += play.ActualWin
	}

	ticket.Status = domain.AITicketStatusWon
	identicalPlays, identicalPct := identicalShare(plays)
	return &domain.SettlementResult{
		TicketID:       ticket.ID,
		Outcome:        domain.AITicketStatusWon,
		TotalPlays:     len(plays),
		IdenticalPlays: identicalPlays,
		IdenticalPct:   identicalPct,
		PaidOut:        paidOut,
	}, nil
}

// settleLost marks every play lost, then applies the identical-refund rule:
// when the share of plays identical to the proposal reaches the threshold,
// those players get their stake back in full.
func (s *service) settleLost(ctx context.Context, tx repository.CollectiveTx, ticket *domain.AITicket, plays []domain.Play) (*domain.SettlementResult, error) {
	log := logger.FromContext(ctx)

	totalPlays := len(plays)
	identicalPlays, identicalPct := identicalShare(plays)
	refund := totalPlays > 0 && identicalPct >= RefundThresholdPct

	if refund {
		log.Info(LogMsgRefundRuleFired, "ticket_id", ticket.ID,
			"identical_plays", identicalPlays, "total_plays", totalPlays, "identical_pct", identicalPct)
	}

	var refunded int64
	for i := range plays {
		play := &plays[i]
		if play.Status != domain.PlayStatusActive {
			continue
		}
		if refund && play.IsIdentical {
			if _, _, err := wallet.ApplyCredit(ctx, tx, play.UserID, play.StakeAmount,
				domain.TransactionTypeRefund, IdempotencyPrefixSettle+play.ID.String(), "collective refund"); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreditRefund, err)
			}
			play.Status = domain.PlayStatusRefunded
			play.ActualWin = play.StakeAmount
			refunded += play.StakeAmount
		} else {
			play.Status = domain.PlayStatusLost
			play.ActualWin = 0
		}
		if err := tx.UpdatePlay(ctx, play); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdatePlay, err)
		}
	}

	ticket.RefundRuleFired = refund
	if refund {
		ticket.Status = domain.AITicketStatusRefunded
	} else {
		ticket.Status = domain.AITicketStatusLost
	}

	return &domain.SettlementResult{
		TicketID:       ticket.ID,
		Outcome:        ticket.Status,
		TotalPlays:     totalPlays,
		IdenticalPlays: identicalPlays,
		IdenticalPct:   identicalPct,
		RefundApplied:  refund,
		Refunded:       refunded,
	}, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event", "event_type", evt.Type, "error", err)
	}
}
