package integration

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memTx satisfies pgx.Tx for code paths that only Commit or Rollback.
type memTx struct{ pgx.Tx }

func (memTx) Commit(context.Context) error   { return nil }
func (memTx) Rollback(context.Context) error { return nil }

type memTransactor struct{}

func (memTransactor) Begin(context.Context) (pgx.Tx, error) { return memTx{}, nil }

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu        sync.RWMutex
	wallets   map[uuid.UUID]*domain.Wallet
	snapshots map[uuid.UUID][]*domain.BalanceSnapshot

	// openPayment reports whether a wallet is bound to a pending payment.
	// Set after construction to break the repo dependency cycle.
	openPayment func(walletID uuid.UUID) bool
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{
		wallets:   make(map[uuid.UUID]*domain.Wallet),
		snapshots: make(map[uuid.UUID][]*domain.BalanceSnapshot),
	}
}

func (r *inMemoryWalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.IsMain {
		for _, existing := range r.wallets {
			if existing.IsMain {
				return fmt.Errorf("main wallet already exists")
			}
		}
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByAddress(_ context.Context, address string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.Address == address {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetMain(_ context.Context) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.IsMain {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) ListAll(_ context.Context) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Wallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, *w)
	}
	return out, nil
}

func (r *inMemoryWalletRepo) FindAssignable(_ context.Context) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []*domain.Wallet
	for _, w := range r.wallets {
		if w.IsMain {
			continue
		}
		if r.openPayment != nil && r.openPayment(w.ID) {
			continue
		}
		candidates = append(candidates, w)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return r.latestBalance(candidates[i].ID).Cmp(r.latestBalance(candidates[j].ID)) > 0
	})
	cp := *candidates[0]
	return &cp, nil
}

func (r *inMemoryWalletRepo) latestBalance(id uuid.UUID) *big.Int {
	snaps := r.snapshots[id]
	if len(snaps) == 0 {
		return big.NewInt(0)
	}
	return snaps[len(snaps)-1].BalanceWei
}

func (r *inMemoryWalletRepo) ListSubWalletsWithBalance(_ context.Context) ([]ports.WalletBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ports.WalletBalance
	for _, w := range r.wallets {
		if w.IsMain {
			continue
		}
		wb := ports.WalletBalance{Wallet: *w}
		if snaps := r.snapshots[w.ID]; len(snaps) > 0 {
			wb.BalanceWei = snaps[len(snaps)-1].BalanceWei
		}
		out = append(out, wb)
	}
	return out, nil
}

func (r *inMemoryWalletRepo) InsertBalanceSnapshot(_ context.Context, snap *domain.BalanceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *snap
	r.snapshots[snap.WalletID] = append(r.snapshots[snap.WalletID], &cp)
	return nil
}

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
	events   map[uuid.UUID][]domain.StatusEvent
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{
		payments: make(map[uuid.UUID]*domain.Payment),
		events:   make(map[uuid.UUID][]domain.StatusEvent),
	}
}

func (r *inMemoryPaymentRepo) Create(_ context.Context, _ pgx.Tx, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.Statuses = nil
	r.payments[p.ID] = &cp
	r.events[p.ID] = []domain.StatusEvent{{
		ID:        uuid.New(),
		PaymentID: p.ID,
		Name:      domain.PaymentStatusPending,
		CreatedAt: p.CreatedAt,
	}}
	return nil
}

func (r *inMemoryPaymentRepo) withEvents(p *domain.Payment) *domain.Payment {
	cp := *p
	cp.Statuses = append([]domain.StatusEvent(nil), r.events[p.ID]...)
	return &cp
}

func (r *inMemoryPaymentRepo) GetByToken(_ context.Context, token string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.Token == token {
			return r.withEvents(p), nil
		}
	}
	return nil, nil
}

func (r *inMemoryPaymentRepo) FindPendingMatch(_ context.Context, productID uuid.UUID, quantity int, customerID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var match *domain.Payment
	for _, p := range r.payments {
		if p.ProductID != productID || p.Quantity != quantity || p.CustomerID != customerID {
			continue
		}
		full := r.withEvents(p)
		if full.CurrentStatus() != domain.PaymentStatusPending {
			continue
		}
		if match == nil || full.CreatedAt.After(match.CreatedAt) {
			match = full
		}
	}
	return match, nil
}

func (r *inMemoryPaymentRepo) ListPending(_ context.Context) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Payment
	for _, p := range r.payments {
		full := r.withEvents(p)
		if full.CurrentStatus() == domain.PaymentStatusPending {
			out = append(out, *full)
		}
	}
	return out, nil
}

func (r *inMemoryPaymentRepo) listPendingByWallet(walletID uuid.UUID) []domain.Payment {
	var out []domain.Payment
	for _, p := range r.payments {
		if p.WalletID != walletID {
			continue
		}
		full := r.withEvents(p)
		if full.CurrentStatus() == domain.PaymentStatusPending {
			out = append(out, *full)
		}
	}
	return out
}

func (r *inMemoryPaymentRepo) hasOpenPaymentForWallet(walletID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listPendingByWallet(walletID)) > 0
}

// ListPendingByWalletAddress needs the wallet repo for the address lookup.
type paymentRepoWithWallets struct {
	*inMemoryPaymentRepo
	wallets *inMemoryWalletRepo
}

func (r paymentRepoWithWallets) ListPendingByWalletAddress(ctx context.Context, address string) ([]domain.Payment, error) {
	w, err := r.wallets.GetByAddress(ctx, address)
	if err != nil || w == nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listPendingByWallet(w.ID), nil
}

func (r *inMemoryPaymentRepo) AppendStatus(_ context.Context, paymentID uuid.UUID, status domain.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[paymentID]; !ok {
		return false, fmt.Errorf("payment not found")
	}
	for _, ev := range r.events[paymentID] {
		if ev.Name.IsTerminal() {
			return false, nil
		}
	}
	r.events[paymentID] = append(r.events[paymentID], domain.StatusEvent{
		ID:        uuid.New(),
		PaymentID: paymentID,
		Name:      status,
		CreatedAt: time.Now().UTC(),
	})
	return true, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu       sync.RWMutex
	byHash   map[string]*domain.Transaction
	payments *inMemoryPaymentRepo
	products *inMemoryProductRepo
}

func newInMemoryTransactionRepo(payments *inMemoryPaymentRepo, products *inMemoryProductRepo) *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{
		byHash:   make(map[string]*domain.Transaction),
		payments: payments,
		products: products,
	}
}

func (r *inMemoryTransactionRepo) InsertIfAbsent(_ context.Context, t *domain.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byHash[t.Hash]; ok {
		return false, nil
	}
	cp := *t
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	r.byHash[t.Hash] = &cp
	return true, nil
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, _ pgx.Tx, t *domain.Transaction) error {
	inserted, err := r.InsertIfAbsent(ctx, t)
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("duplicate hash %s", t.Hash)
	}
	return nil
}

func (r *inMemoryTransactionRepo) GetByHash(_ context.Context, hash string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byHash[hash]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransactionRepo) ListForPayment(_ context.Context, paymentID uuid.UUID) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range r.byHash {
		if t.PaymentID != nil && *t.PaymentID == paymentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) SumExternalForPayment(_ context.Context, paymentID uuid.UUID) (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := big.NewInt(0)
	for _, t := range r.byHash {
		if t.Type == domain.TransactionTypeExternal && t.PaymentID != nil && *t.PaymentID == paymentID {
			sum.Add(sum, t.AmountWei)
		}
	}
	return sum, nil
}

func (r *inMemoryTransactionRepo) SumExternalForMerchantSince(_ context.Context, userID uuid.UUID, since time.Time) (*big.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := big.NewInt(0)
	for _, t := range r.byHash {
		if t.Type != domain.TransactionTypeExternal || t.PaymentID == nil {
			continue
		}
		if !t.CreatedAt.After(since) {
			continue
		}
		r.payments.mu.RLock()
		payment, ok := r.payments.payments[*t.PaymentID]
		r.payments.mu.RUnlock()
		if !ok {
			continue
		}
		product := r.products.get(payment.ProductID)
		if product == nil || product.UserID != userID {
			continue
		}
		sum.Add(sum, t.AmountWei)
	}
	return sum, nil
}

// --- In-Memory Payout Repo ---

type inMemoryPayoutRepo struct {
	mu      sync.RWMutex
	payouts map[uuid.UUID]*domain.ScheduledPayout
	locks   sync.Map // userID -> *sync.Mutex
}

func newInMemoryPayoutRepo() *inMemoryPayoutRepo {
	return &inMemoryPayoutRepo{payouts: make(map[uuid.UUID]*domain.ScheduledPayout)}
}

// lockTx releases the merchant lock when its transaction ends, mirroring an
// advisory transaction lock.
type lockTx struct {
	memTx
	release func()
	once    sync.Once
}

func (t *lockTx) Commit(context.Context) error   { t.once.Do(t.release); return nil }
func (t *lockTx) Rollback(context.Context) error { t.once.Do(t.release); return nil }

// payoutTransactor hands out transactions whose end releases any merchant
// lock taken through LockMerchant.
type payoutTransactor struct {
	repo *inMemoryPayoutRepo
}

func (tr payoutTransactor) Begin(context.Context) (pgx.Tx, error) {
	return &lockTx{release: func() {}}, nil
}

func (r *inMemoryPayoutRepo) LockMerchant(_ context.Context, tx pgx.Tx, userID uuid.UUID) error {
	muAny, _ := r.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	if lt, ok := tx.(*lockTx); ok {
		lt.release = mu.Unlock
		return nil
	}
	mu.Unlock()
	return fmt.Errorf("LockMerchant requires a payout transaction")
}

func (r *inMemoryPayoutRepo) Create(_ context.Context, _ pgx.Tx, p *domain.ScheduledPayout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.payouts[p.ID] = &cp
	return nil
}

func (r *inMemoryPayoutRepo) ListPending(_ context.Context) ([]domain.ScheduledPayout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ScheduledPayout
	for _, p := range r.payouts {
		if p.Status == domain.PayoutStatusPending {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryPayoutRepo) GetLastValid(_ context.Context, userID uuid.UUID) (*domain.ScheduledPayout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var last *domain.ScheduledPayout
	for _, p := range r.payouts {
		if p.UserID != userID {
			continue
		}
		if p.Status != domain.PayoutStatusPending && p.Status != domain.PayoutStatusCompleted {
			continue
		}
		if last == nil || p.CreatedAt.After(last.CreatedAt) {
			last = p
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (r *inMemoryPayoutRepo) MarkCompleted(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payouts[id]
	if !ok {
		return fmt.Errorf("payout not found")
	}
	p.Status = domain.PayoutStatusCompleted
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Rate Repo ---

type inMemoryRateRepo struct {
	mu    sync.RWMutex
	rates []*domain.ExchangeRate
}

func newInMemoryRateRepo() *inMemoryRateRepo {
	return &inMemoryRateRepo{}
}

func (r *inMemoryRateRepo) Create(_ context.Context, rate *domain.ExchangeRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rate
	r.rates = append(r.rates, &cp)
	return nil
}

func (r *inMemoryRateRepo) GetLatest(_ context.Context, currency string) (*domain.ExchangeRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.ExchangeRate
	for _, rate := range r.rates {
		if rate.Currency != currency {
			continue
		}
		if latest == nil || rate.CreatedAt.After(latest.CreatedAt) {
			latest = rate
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

// --- In-Memory Product Repo ---

type inMemoryProductRepo struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
}

func newInMemoryProductRepo() *inMemoryProductRepo {
	return &inMemoryProductRepo{products: make(map[uuid.UUID]*domain.Product)}
}

func (r *inMemoryProductRepo) add(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
}

func (r *inMemoryProductRepo) get(id uuid.UUID) *domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (r *inMemoryProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.get(id), nil
}
