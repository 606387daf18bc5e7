package service

import (
	"context"
	"errors"
	"testing"

	"go-inventory-orders/internal/model"
	"go-inventory-orders/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedProduct(t *testing.T, store *repository.MemoryStore, name, stock, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:     name,
		Category: "Hardware",
		Stock:    dec(t, stock),
		Unit:     "pcs",
		Price:    dec(t, price),
		Cost:     decimal.Zero,
	}
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

func TestApplyDeltaReservesAndReverts(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ledger := NewStockLedger(store)
	seedProduct(t, store, "Bolt", "50", "100")

	require.NoError(t, ledger.ApplyDelta(ctx, "Bolt", dec(t, "-20")))
	p, err := store.FindByName(ctx, "Bolt")
	require.NoError(t, err)
	require.True(t, p.Stock.Equal(dec(t, "30")), "stock = %s", p.Stock)

	require.NoError(t, ledger.ApplyDelta(ctx, "Bolt", dec(t, "20")))
	p, err = store.FindByName(ctx, "Bolt")
	require.NoError(t, err)
	require.True(t, p.Stock.Equal(dec(t, "50")))
}

func TestApplyDeltaFractionalUnits(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ledger := NewStockLedger(store)
	seedProduct(t, store, "Steel Wire", "10.5", "800")

	require.NoError(t, ledger.ApplyDelta(ctx, "Steel Wire", dec(t, "-0.5")))
	p, err := store.FindByName(ctx, "Steel Wire")
	require.NoError(t, err)
	require.True(t, p.Stock.Equal(dec(t, "10")))
}

func TestApplyDeltaRejectsNegativeStock(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ledger := NewStockLedger(store)
	seedProduct(t, store, "Bolt", "30", "100")

	err := ledger.ApplyDelta(ctx, "Bolt", dec(t, "-35"))
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	require.Equal(t, "Bolt", short.Product)
	require.True(t, short.Available.Equal(dec(t, "30")))
	require.True(t, short.Short.Equal(dec(t, "5")))

	// nothing committed
	p, err := store.FindByName(ctx, "Bolt")
	require.NoError(t, err)
	require.True(t, p.Stock.Equal(dec(t, "30")))
}

func TestApplyDeltasAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ledger := NewStockLedger(store)
	seedProduct(t, store, "Bolt", "50", "100")
	seedProduct(t, store, "Washer", "3", "25")

	err := ledger.ApplyDeltas(ctx, map[string]decimal.Decimal{
		"Bolt":   dec(t, "-10"),
		"Washer": dec(t, "-5"),
	})
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	require.Equal(t, "Washer", short.Product)

	// neither product changed
	bolt, _ := store.FindByName(ctx, "Bolt")
	washer, _ := store.FindByName(ctx, "Washer")
	require.True(t, bolt.Stock.Equal(dec(t, "50")))
	require.True(t, washer.Stock.Equal(dec(t, "3")))
}

func TestApplyDeltaUnknownProduct(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ledger := NewStockLedger(store)

	err := ledger.ApplyDelta(ctx, "Ghost", dec(t, "-1"))
	require.True(t, errors.Is(err, ErrProductNotFound))
}
