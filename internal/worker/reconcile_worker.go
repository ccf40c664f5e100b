package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/payment"
	"github.com/tombolapay/settlement/internal/repository"
)

// ReconcileJob sweeps lingering pending payment attempts and polls each one.
// Poll applies the wallet credit with the attempt-id idempotency key, so an
// attempt whose initiating request crashed still lands exactly once.
type ReconcileJob struct {
	repo       repository.Payment
	paymentSvc payment.Service
	minAge     time.Duration
	batchSize  int
}

// NewReconcileJob creates a reconciliation job. minAge keeps the sweep off
// attempts the initiating request is still polling itself.
func NewReconcileJob(repo repository.Payment, paymentSvc payment.Service, minAge time.Duration, batchSize int) *ReconcileJob {
	if batchSize <= 0 {
		batchSize = DefaultReconcileBatchSize
	}
	if minAge <= 0 {
		minAge = DefaultReconcileMinAge * time.Minute
	}
	return &ReconcileJob{
		repo:       repo,
		paymentSvc: paymentSvc,
		minAge:     minAge,
		batchSize:  batchSize,
	}
}

// Process runs one reconciliation sweep
func (j *ReconcileJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgReconcileStarting)

	cutoff := time.Now().Add(-j.minAge)
	attempts, err := j.repo.ListPendingAttempts(ctx, cutoff, j.batchSize)
	if err != nil {
		log.Error(LogMsgReconcileListFailed, "error", err)
		return fmt.Errorf("list pending attempts: %w", err)
	}

	resolved := 0
	for _, attempt := range attempts {
		polled, err := j.paymentSvc.Poll(ctx, attempt.ID)
		if err != nil {
			// One stuck attempt must not stop the sweep
			log.Warn(LogMsgReconcilePollFailed, "attempt_id", attempt.ID, "error", err)
			continue
		}
		if polled.Status.Terminal() {
			resolved++
		}
	}

	log.Info(LogMsgReconcileCompleted, "checked", len(attempts), "resolved", resolved)
	return nil
}
