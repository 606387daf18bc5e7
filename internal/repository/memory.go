package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-inventory-orders/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory implementation of every repository, used by
// tests and local bring-up without Postgres. A single RWMutex stands in for
// the database; MemoryTx emulates transactions by holding the write lock and
// restoring a snapshot when the callback fails.
type MemoryStore struct {
	mu           sync.RWMutex
	productsByID map[uuid.UUID]model.Product
	ordersByID   map[uuid.UUID]model.Order
	txByID       map[uuid.UUID]model.TransactionLog
	history      []model.ProductHistory
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productsByID: make(map[uuid.UUID]model.Product),
		ordersByID:   make(map[uuid.UUID]model.Order),
		txByID:       make(map[uuid.UUID]model.TransactionLog),
	}
}

// transaction-aware locking helpers
type memTxKey struct{}

func inMemTx(ctx context.Context) bool {
	v, ok := ctx.Value(memTxKey{}).(bool)
	return ok && v
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.RLock()
	}
}

func (m *MemoryStore) runlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.RUnlock()
	}
}

func (m *MemoryStore) wlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.Lock()
	}
}

func (m *MemoryStore) wunlock(ctx context.Context) {
	if !inMemTx(ctx) {
		m.mu.Unlock()
	}
}

func stamp(base *model.BaseModel) {
	now := time.Now().UTC()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	base.CreatedAt = now
	base.UpdatedAt = now
}

var _ ProductRepository = (*MemoryStore)(nil)

func (m *MemoryStore) Create(ctx context.Context, product *model.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	stamp(&product.BaseModel)
	m.productsByID[product.ID] = *product
	return nil
}

func (m *MemoryStore) FindAll(ctx context.Context) ([]model.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]model.Product, 0, len(m.productsByID))
	for _, p := range m.productsByID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *MemoryStore) FindByName(ctx context.Context, name string) (*model.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	for _, p := range m.productsByID {
		if p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// FindByNameForUpdate has no row locks here; MemoryTx's store-wide write lock
// already serializes the whole transaction.
func (m *MemoryStore) FindByNameForUpdate(ctx context.Context, name string) (*model.Product, error) {
	return m.FindByName(ctx, name)
}

func (m *MemoryStore) Save(ctx context.Context, product *model.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[product.ID]; !ok {
		return ErrNotFound
	}
	product.UpdatedAt = time.Now().UTC()
	m.productsByID[product.ID] = *product
	return nil
}

func (m *MemoryStore) UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	m.productsByID[id] = p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

// MemoryOrders implements OrderRepository on the shared store.
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func copyOrder(o model.Order) model.Order {
	cp := o
	cp.Items = make([]model.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	if o.AcceptedAt != nil {
		at := *o.AcceptedAt
		cp.AcceptedAt = &at
	}
	return cp
}

func (mo *MemoryOrders) Create(ctx context.Context, order *model.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	stamp(&order.BaseModel)
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	mo.store.ordersByID[order.ID] = copyOrder(*order)
	return nil
}

func (mo *MemoryOrders) FindAll(ctx context.Context) ([]model.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]model.Order, 0, len(mo.store.ordersByID))
	for _, o := range mo.store.ordersByID {
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (mo *MemoryOrders) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) Save(ctx context.Context, order *model.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if _, ok := mo.store.ordersByID[order.ID]; !ok {
		return ErrNotFound
	}
	order.UpdatedAt = time.Now().UTC()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	mo.store.ordersByID[order.ID] = copyOrder(*order)
	return nil
}

func (mo *MemoryOrders) Delete(ctx context.Context, id uuid.UUID) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if _, ok := mo.store.ordersByID[id]; !ok {
		return ErrNotFound
	}
	delete(mo.store.ordersByID, id)
	return nil
}

// MemoryTransactions implements TransactionRepository on the shared store.
type MemoryTransactions struct{ store *MemoryStore }

func NewMemoryTransactions(store *MemoryStore) *MemoryTransactions {
	return &MemoryTransactions{store: store}
}

var _ TransactionRepository = (*MemoryTransactions)(nil)

func copyEntry(t model.TransactionLog) model.TransactionLog {
	cp := t
	cp.Items = make([]model.TransactionItem, len(t.Items))
	copy(cp.Items, t.Items)
	return cp
}

func (mt *MemoryTransactions) Create(ctx context.Context, entry *model.TransactionLog) error {
	mt.store.wlock(ctx)
	defer mt.store.wunlock(ctx)
	stamp(&entry.BaseModel)
	for i := range entry.Items {
		entry.Items[i].TransactionID = entry.ID
	}
	mt.store.txByID[entry.ID] = copyEntry(*entry)
	return nil
}

func (mt *MemoryTransactions) FindAll(ctx context.Context) ([]model.TransactionLog, error) {
	mt.store.rlock(ctx)
	defer mt.store.runlock(ctx)
	out := make([]model.TransactionLog, 0, len(mt.store.txByID))
	for _, t := range mt.store.txByID {
		out = append(out, copyEntry(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcceptedAt.After(out[j].AcceptedAt) })
	return out, nil
}

func (mt *MemoryTransactions) FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionLog, error) {
	mt.store.rlock(ctx)
	defer mt.store.runlock(ctx)
	t, ok := mt.store.txByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyEntry(t)
	return &cp, nil
}

func (mt *MemoryTransactions) Delete(ctx context.Context, id uuid.UUID) error {
	mt.store.wlock(ctx)
	defer mt.store.wunlock(ctx)
	if _, ok := mt.store.txByID[id]; !ok {
		return ErrNotFound
	}
	delete(mt.store.txByID, id)
	return nil
}

// MemoryHistory implements HistoryRepository on the shared store.
type MemoryHistory struct{ store *MemoryStore }

func NewMemoryHistory(store *MemoryStore) *MemoryHistory { return &MemoryHistory{store: store} }

var _ HistoryRepository = (*MemoryHistory)(nil)

func (mh *MemoryHistory) Create(ctx context.Context, entry *model.ProductHistory) error {
	mh.store.wlock(ctx)
	defer mh.store.wunlock(ctx)
	stamp(&entry.BaseModel)
	mh.store.history = append(mh.store.history, *entry)
	return nil
}

func (mh *MemoryHistory) FindAll(ctx context.Context) ([]model.ProductHistory, error) {
	mh.store.rlock(ctx)
	defer mh.store.runlock(ctx)
	out := make([]model.ProductHistory, len(mh.store.history))
	copy(out, mh.store.history)
	return out, nil
}

// MemoryTx implements TxManager by holding the store-wide write lock for the
// duration of fn and rolling the maps back to a snapshot when fn fails.
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

var _ TxManager = (*MemoryTx)(nil)

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	products := make(map[uuid.UUID]model.Product, len(tx.store.productsByID))
	for id, p := range tx.store.productsByID {
		products[id] = p
	}
	orders := make(map[uuid.UUID]model.Order, len(tx.store.ordersByID))
	for id, o := range tx.store.ordersByID {
		orders[id] = copyOrder(o)
	}
	entries := make(map[uuid.UUID]model.TransactionLog, len(tx.store.txByID))
	for id, t := range tx.store.txByID {
		entries[id] = copyEntry(t)
	}
	history := make([]model.ProductHistory, len(tx.store.history))
	copy(history, tx.store.history)

	ctx = context.WithValue(ctx, memTxKey{}, true)
	if err := fn(ctx); err != nil {
		tx.store.productsByID = products
		tx.store.ordersByID = orders
		tx.store.txByID = entries
		tx.store.history = history
		return err
	}
	return nil
}
