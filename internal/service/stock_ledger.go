package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go-inventory-orders/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLedger owns the authoritative stock number per product. Deltas may be
// negative (reservation) or positive (revert); a delta that would drive a
// stock below zero rejects the whole batch before anything is written.
//
// The ledger must run inside the caller's transaction scope: with the GORM
// repositories the per-name lookups take FOR UPDATE row locks, so two
// concurrent check-then-apply sequences on the same product cannot both pass
// a stale sufficiency check.
type StockLedger struct {
	products repository.ProductRepository
}

func NewStockLedger(products repository.ProductRepository) *StockLedger {
	return &StockLedger{products: products}
}

// ApplyDelta adjusts a single product's stock.
func (l *StockLedger) ApplyDelta(ctx context.Context, productName string, delta decimal.Decimal) error {
	return l.ApplyDeltas(ctx, map[string]decimal.Decimal{productName: delta})
}

// ApplyDeltas validates every delta against the current stock before
// committing any of them, so a multi-line order fully succeeds or fully
// fails.
func (l *StockLedger) ApplyDeltas(ctx context.Context, deltas map[string]decimal.Decimal) error {
	// stable order keeps row-lock acquisition deadlock-free across
	// concurrent multi-product operations
	names := make([]string, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Strings(names)

	type pending struct {
		id    uuid.UUID
		stock decimal.Decimal
	}
	updates := make([]pending, 0, len(names))

	for _, name := range names {
		product, err := l.products.FindByNameForUpdate(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("product %q: %w", name, ErrProductNotFound)
			}
			return err
		}
		next := product.Stock.Add(deltas[name])
		if next.IsNegative() {
			return &InsufficientStockError{
				Product:   name,
				Available: product.Stock,
				Short:     next.Neg(),
			}
		}
		updates = append(updates, pending{id: product.ID, stock: next})
	}

	for _, u := range updates {
		if err := l.products.UpdateStock(ctx, u.id, u.stock); err != nil {
			return err
		}
	}
	return nil
}
