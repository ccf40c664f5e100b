package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/repository"
	"github.com/tombolapay/settlement/internal/utils"
)

// GenerateBatch pre-generates physical ticket codes for a batch, assigning
// exactly the configured number of winning positions uniformly at random.
// This is the static variant of the allocator: the whole win/lose budget moves
// into the printed codes, so the remainders are zeroed in the same transaction
// and per-sale draws can never run against the batch afterwards.
func (s *service) GenerateBatch(ctx context.Context, batchID uuid.UUID) ([]domain.Ticket, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgGenerateBatchCalled, "batch_id", batchID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	batch, err := tx.GetBatchForUpdate(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsActive {
		return nil, domain.ErrBatchInactive
	}
	if batch.SoldTickets > 0 {
		return nil, domain.ErrBatchAlreadySold
	}
	if batch.Generated() {
		return nil, domain.ErrBatchGenerated
	}

	existing, err := tx.CountTickets(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCountTickets, err)
	}
	if existing > 0 {
		return nil, domain.ErrBatchGenerated
	}

	now := time.Now()
	tickets := make([]domain.Ticket, batch.TotalTickets)
	for i := range tickets {
		code, err := generateCode()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGenerateCode, err)
		}
		tickets[i] = domain.Ticket{
			ID:        uuid.New(),
			BatchID:   &batch.ID,
			Code:      code,
			Status:    domain.TicketStatusAvailable,
			CreatedAt: now,
		}
		if i < batch.WinningTickets {
			tickets[i].IsWinner = true
			tickets[i].PrizeAmount = batch.PrizeAmount
		}
	}

	// Winners currently occupy the first positions; shuffle to distribute them
	// uniformly across the printed codes
	if err := utils.SecureShuffle(len(tickets), func(i, j int) {
		tickets[i].IsWinner, tickets[j].IsWinner = tickets[j].IsWinner, tickets[i].IsWinner
		tickets[i].PrizeAmount, tickets[j].PrizeAmount = tickets[j].PrizeAmount, tickets[i].PrizeAmount
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToPlaceWinners, err)
	}

	if err := tx.InsertTickets(ctx, tickets); err != nil {
		return nil, err
	}

	// The budget now lives in the codes; a batch with zeroed remainders and
	// unsold slots is recognized as generated by Purchase
	batch.WinnersRemaining = 0
	batch.LosersRemaining = 0
	if err := tx.UpdateBatchCounters(ctx, batch); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateBatch, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	return tickets, nil
}

// generateCode produces a printable ticket code from the unambiguous charset
func generateCode() (string, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		idx, err := utils.SecureRandomInt(0, len(CodeCharset)-1)
		if err != nil {
			return "", err
		}
		code[i] = CodeCharset[idx]
	}
	return string(code), nil
}
