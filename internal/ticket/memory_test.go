package ticket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/repository"
	"github.com/tombolapay/settlement/internal/wallet"
)

// fakeStore is an in-memory stand-in for Postgres. BeginTx takes the store
// lock and holds it until Commit/Rollback, which serializes transactions the
// way row locks do, so the allocator's concurrency invariants can be tested
// without a database.
type fakeStore struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*domain.Batch
	tickets map[uuid.UUID]*domain.Ticket
	wallets map[string]*domain.Wallet
	txns    map[string]*domain.Transaction // userID + "|" + idempotencyKey
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		batches: make(map[uuid.UUID]*domain.Batch),
		tickets: make(map[uuid.UUID]*domain.Ticket),
		wallets: make(map[string]*domain.Wallet),
		txns:    make(map[string]*domain.Transaction),
	}
}

func txnKey(userID, idempotencyKey string) string {
	return userID + "|" + idempotencyKey
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	for id, b := range s.batches {
		copied := *b
		snap.batches[id] = &copied
	}
	for id, t := range s.tickets {
		copied := *t
		snap.tickets[id] = &copied
	}
	for id, w := range s.wallets {
		copied := *w
		snap.wallets[id] = &copied
	}
	for k, txn := range s.txns {
		copied := *txn
		snap.txns[k] = &copied
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.batches = snap.batches
	s.tickets = snap.tickets
	s.wallets = snap.wallets
	s.txns = snap.txns
}

// fakeRepo implements repository.Ticket over a fakeStore
type fakeRepo struct {
	store *fakeStore
}

func (r *fakeRepo) CreateBatch(ctx context.Context, batch *domain.Batch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *batch
	r.store.batches[batch.ID] = &copied
	return nil
}

func (r *fakeRepo) GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.batches[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) ListActiveBatches(ctx context.Context) ([]domain.Batch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Batch
	for _, b := range r.store.batches {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeactivateBatch(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.batches[id]
	if !ok {
		return domain.ErrBatchNotFound
	}
	b.IsActive = false
	return nil
}

func (r *fakeRepo) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tickets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeRepo) BeginTx(ctx context.Context) (repository.TicketTx, error) {
	r.store.mu.Lock()
	return &fakeTx{store: r.store, snap: r.store.snapshot()}, nil
}

// fakeTx implements repository.TicketTx; it owns the store lock until closed
type fakeTx struct {
	store  *fakeStore
	snap   *fakeStore
	closed bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.store.mu.Unlock()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.store.restore(t.snap)
	t.store.mu.Unlock()
	return nil
}

func (t *fakeTx) GetBatchForUpdate(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	b, ok := t.store.batches[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	return b, nil
}

func (t *fakeTx) UpdateBatchCounters(ctx context.Context, batch *domain.Batch) error {
	t.store.batches[batch.ID] = batch
	return nil
}

func (t *fakeTx) InsertTicket(ctx context.Context, ticket *domain.Ticket) error {
	copied := *ticket
	t.store.tickets[ticket.ID] = &copied
	return nil
}

func (t *fakeTx) InsertTickets(ctx context.Context, tickets []domain.Ticket) error {
	for i := range tickets {
		copied := tickets[i]
		t.store.tickets[copied.ID] = &copied
	}
	return nil
}

func (t *fakeTx) CountTickets(ctx context.Context, batchID uuid.UUID) (int, error) {
	count := 0
	for _, tk := range t.store.tickets {
		if tk.BatchID != nil && *tk.BatchID == batchID {
			count++
		}
	}
	return count, nil
}

func (t *fakeTx) GetTicketForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	tk, ok := t.store.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return tk, nil
}

func (t *fakeTx) GetTicketByCodeForUpdate(ctx context.Context, code string) (*domain.Ticket, error) {
	for _, tk := range t.store.tickets {
		if tk.Code == code {
			return tk, nil
		}
	}
	return nil, domain.ErrTicketNotFound
}

func (t *fakeTx) UpdateTicket(ctx context.Context, ticket *domain.Ticket) error {
	t.store.tickets[ticket.ID] = ticket
	return nil
}

func (t *fakeTx) GetWalletForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	w, ok := t.store.wallets[userID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return w, nil
}

func (t *fakeTx) UpdateWallet(ctx context.Context, wallet *domain.Wallet) error {
	t.store.wallets[wallet.UserID] = wallet
	return nil
}

func (t *fakeTx) GetTransactionByKey(ctx context.Context, userID, idempotencyKey string) (*domain.Transaction, error) {
	txn, ok := t.store.txns[txnKey(userID, idempotencyKey)]
	if !ok {
		return nil, nil
	}
	copied := *txn
	return &copied, nil
}

func (t *fakeTx) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	key := txnKey(txn.UserID, txn.IdempotencyKey)
	if _, exists := t.store.txns[key]; exists {
		return domain.ErrDuplicateTransaction
	}
	copied := *txn
	t.store.txns[key] = &copied
	return nil
}

// fakeWalletService backs wallet.Service with the same fakeStore; new wallets
// start with initialBalance so purchase tests can spend freely
type fakeWalletService struct {
	store          *fakeStore
	initialBalance int64
}

func (f *fakeWalletService) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if w, ok := f.store.wallets[userID]; ok {
		copied := *w
		return &copied, nil
	}
	w := &domain.Wallet{UserID: userID, Balance: f.initialBalance, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.store.wallets[userID] = w
	copied := *w
	return &copied, nil
}

func (f *fakeWalletService) Debit(ctx context.Context, userID string, amount int64, idempotencyKey, reason string) (*domain.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeWalletService) Credit(ctx context.Context, userID string, amount int64, txType domain.TransactionType, idempotencyKey, reason string) (*domain.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeWalletService) GetBalance(ctx context.Context, userID string) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	w, ok := f.store.wallets[userID]
	if !ok {
		return 0, domain.ErrWalletNotFound
	}
	return w.Balance, nil
}

func (f *fakeWalletService) GetHistory(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeWalletService) Reconcile(ctx context.Context, userID string) (*wallet.ReconcileReport, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	w, ok := f.store.wallets[userID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	var sum int64
	for _, txn := range f.store.txns {
		if txn.UserID == userID {
			sum += txn.Amount
		}
	}
	return &wallet.ReconcileReport{
		UserID:     userID,
		Balance:    w.Balance,
		LedgerSum:  sum,
		Consistent: w.Balance == sum,
	}, nil
}
