package repository

import (
	"context"
	"errors"

	"go-inventory-orders/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("record not found")

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	// FindByNameForUpdate locks the product row for the remainder of the
	// surrounding transaction. Outside a transaction it behaves like
	// FindByName.
	FindByNameForUpdate(ctx context.Context, name string) (*model.Product, error)
	Save(ctx context.Context, product *model.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindAll(ctx context.Context) ([]model.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// Save persists the order's current state including a full replacement
	// of its line items.
	Save(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TransactionRepository interface {
	Create(ctx context.Context, entry *model.TransactionLog) error
	FindAll(ctx context.Context) ([]model.TransactionLog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionLog, error)
	// Delete exists for administrative cleanup only; it is never called from
	// the order lifecycle.
	Delete(ctx context.Context, id uuid.UUID) error
}

type HistoryRepository interface {
	Create(ctx context.Context, entry *model.ProductHistory) error
	FindAll(ctx context.Context) ([]model.ProductHistory, error)
}

// TxManager runs fn inside one storage transaction so multi-entity lifecycle
// steps commit or roll back as a unit.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
