package integration

import (
	"context"
	"sort"
	"sync"

	"rfid-wallet-backend/internal/adapter/storage/postgres"
	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// fakeTx stands in for a pgx transaction. The in-memory repos apply
// writes immediately, so commit and rollback are no-ops.
type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(_ context.Context) error   { return nil }
func (fakeTx) Rollback(_ context.Context) error { return nil }

type fakeTransactor struct{}

func (fakeTransactor) Begin(_ context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) GetByUID(_ context.Context, uid string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[uid]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByUIDForUpdate(ctx context.Context, _ pgx.Tx, uid string) (*domain.Wallet, error) {
	return r.GetByUID(ctx, uid)
}

func (r *inMemoryWalletRepo) Upsert(_ context.Context, uid string, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wallets[uid]; ok {
		w.Balance = balance
		return nil
	}
	r.wallets[uid] = &domain.Wallet{UID: uid, Balance: balance}
	return nil
}

func (r *inMemoryWalletRepo) UpsertTx(ctx context.Context, _ pgx.Tx, uid string, balance int64) error {
	return r.Upsert(ctx, uid, balance)
}

func (r *inMemoryWalletRepo) List(_ context.Context) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Wallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *inMemoryWalletRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wallets, uid)
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	txns []domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Append(_ context.Context, _ pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = append(r.txns, *t)
	return nil
}

func (r *inMemoryTransactionRepo) List(_ context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Transaction
	for i := len(r.txns) - 1; i >= 0; i-- {
		t := r.txns[i]
		if filter.UID != "" && t.UID != filter.UID {
			continue
		}
		if filter.Kind != nil && t.Kind != *filter.Kind {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// --- In-Memory Card Repo ---

type inMemoryCardRepo struct {
	mu    sync.RWMutex
	cards map[string]*domain.Card
}

func newInMemoryCardRepo() *inMemoryCardRepo {
	return &inMemoryCardRepo{cards: make(map[string]*domain.Card)}
}

func (r *inMemoryCardRepo) Create(_ context.Context, card *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[card.UID]; ok {
		return postgres.ErrDuplicateCard
	}
	cp := *card
	r.cards[card.UID] = &cp
	return nil
}

func (r *inMemoryCardRepo) GetByUID(_ context.Context, uid string) (*domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.cards[uid]
	if !ok {
		return nil, nil
	}
	cp := *card
	return &cp, nil
}

func (r *inMemoryCardRepo) List(_ context.Context) ([]domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Card, 0, len(r.cards))
	for _, card := range r.cards {
		out = append(out, *card)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *inMemoryCardRepo) UpdateName(_ context.Context, uid, name string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[uid]
	if !ok {
		return nil, nil
	}
	card.Name = name
	cp := *card
	return &cp, nil
}

func (r *inMemoryCardRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cards, uid)
	return nil
}

// --- In-Memory Product Repo ---

type inMemoryProductRepo struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
}

func newInMemoryProductRepo() *inMemoryProductRepo {
	return &inMemoryProductRepo{products: make(map[uuid.UUID]*domain.Product)}
}

func (r *inMemoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *inMemoryProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryProductRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *inMemoryProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *inMemoryProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

// --- Recording Message Bus ---

// recordingBus captures outbound topup commands instead of talking to
// a real broker.
type recordingBus struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newRecordingBus() *recordingBus {
	return &recordingBus{messages: make(map[string][][]byte)}
}

func (b *recordingBus) Publish(topic string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	b.messages[topic] = append(b.messages[topic], cp)
	return nil
}

func (b *recordingBus) published(topic string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[topic]
}
