package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/logger"
)

// TokenSource hands out a valid provider token, refreshing as needed
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// inflightRefresh is the shared future all callers of a single refresh wait on
type inflightRefresh struct {
	done  chan struct{}
	token *Token
	err   error
}

// TokenManager caches the provider token and refreshes it before expiry.
// Concurrent callers that find the token missing or expiring coalesce onto
// one in-flight refresh instead of stampeding the provider.
type TokenManager struct {
	creator TokenCreator
	skew    time.Duration

	mu       sync.Mutex
	token    *Token
	inflight *inflightRefresh

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewTokenManager creates a token manager. skew is how long before expiry a
// token is treated as stale.
func NewTokenManager(creator TokenCreator, skew time.Duration) *TokenManager {
	return &TokenManager{creator: creator, skew: skew}
}

// Start launches the background refresh loop
func (m *TokenManager) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go m.refreshLoop(ctx)
}

// Stop cancels the background loop and waits for it to exit
func (m *TokenManager) Stop() {
	m.stopOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
		}
		m.wg.Wait()
	})
}

// GetToken returns the cached token while it is valid, otherwise triggers a
// refresh and waits for it. A refresh failure clears the cache so the next
// caller retries from scratch.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.valid() {
		tok := m.token.AccessToken
		m.mu.Unlock()
		return tok, nil
	}

	fl := m.inflight
	if fl == nil {
		fl = &inflightRefresh{done: make(chan struct{})}
		m.inflight = fl
		go m.refresh(fl)
	}
	m.mu.Unlock()

	select {
	case <-fl.done:
		if fl.err != nil {
			return "", fl.err
		}
		return fl.token.AccessToken, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// valid reports whether the cached token outlives the skew window.
// Caller must hold mu.
func (m *TokenManager) valid() bool {
	return m.token != nil && time.Now().Add(m.skew).Before(m.token.ExpiresAt)
}

// refresh performs one token exchange and resolves the shared future. The
// refresh deliberately ignores caller contexts so one cancelled caller cannot
// fail the refresh for everyone waiting on it.
func (m *TokenManager) refresh(fl *inflightRefresh) {
	tok, err := m.creator.CreateToken(context.Background())

	m.mu.Lock()
	if err != nil {
		m.token = nil
		fl.err = fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	} else {
		m.token = tok
		fl.token = tok
	}
	m.inflight = nil
	m.mu.Unlock()

	close(fl.done)
}

func (m *TokenManager) refreshLoop(ctx context.Context) {
	defer m.wg.Done()
	log := logger.FromContext(ctx)

	for {
		wait := m.untilRefresh()
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := m.GetToken(ctx); err != nil {
				log.Warn(LogMsgTokenRefreshErr, "error", err)
			} else {
				log.Debug(LogMsgTokenRefreshed)
			}
		}
	}
}

// untilRefresh computes how long to sleep before the next proactive refresh
func (m *TokenManager) untilRefresh() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		return MinTokenRefreshWait
	}
	wait := time.Until(m.token.ExpiresAt) - m.skew
	if wait < MinTokenRefreshWait {
		wait = MinTokenRefreshWait
	}
	return wait
}
