package event

import (
	"context"
	"sync"
	"time"

	"github.com/tombolapay/settlement/internal/logger"
)

// retryEntry tracks an event awaiting republication
type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
	nextTry  time.Time
}

// ResilientPublisher wraps an event Bus with a retry queue and a dead-letter
// file. Settlement events drive payout notifications, so a transient handler
// failure must not lose the event.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewResilientPublisher creates a publisher that retries failed publishes with
// exponential backoff and dead-letters events once retries are exhausted
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes an event, queuing it for background retry on
// failure. The caller is never blocked on the retry mechanism.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	log.Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	p.enqueue(retryEntry{
		event:    event,
		attempts: 1,
		lastErr:  err,
		nextTry:  time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
	})
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case p.retryQueue <- entry:
	default:
		log := logger.FromContext(context.Background())
		log.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		if err := p.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "error", err)
		}
	}
}

// retryWorker drains the retry queue until shutdown, then processes whatever
// remains so pending events are either published or dead-lettered
func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case entry := <-p.retryQueue:
			p.processEntry(entry)
		case <-p.shutdown:
			for {
				select {
				case entry := <-p.retryQueue:
					p.processEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (p *ResilientPublisher) processEntry(entry retryEntry) {
	if wait := time.Until(entry.nextTry); wait > 0 {
		select {
		case <-time.After(wait):
		case <-p.shutdown:
			// Fall through and attempt once before draining
		}
	}

	ctx := context.Background()
	log := logger.FromContext(ctx)

	err := p.bus.Publish(ctx, entry.event)
	if err == nil {
		log.Info(LogMsgEventRetrySucceeded,
			"event_type", entry.event.Type,
			"attempt", entry.attempts)
		return
	}

	if entry.attempts >= p.maxRetries {
		log.Warn(LogMsgEventRetryExhausted,
			"event_type", entry.event.Type,
			"attempts", entry.attempts)
		if dlErr := p.deadLetter.Write(entry.event, entry.attempts, err); dlErr != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
		}
		return
	}

	log.Warn(LogMsgEventRetryFailed,
		"event_type", entry.event.Type,
		"attempt", entry.attempts,
		"error", err)

	entry.attempts++
	entry.lastErr = err
	entry.nextTry = time.Now().Add(CalculateRetryDelay(p.retryDelay, entry.attempts))
	p.enqueue(entry)
}

// Shutdown stops the retry worker, waiting for the queue to drain or the
// context to expire
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
