package service

import (
	"context"
	"errors"
	"testing"

	"go-inventory-orders/internal/model"
	"go-inventory-orders/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	store        *repository.MemoryStore
	orders       *repository.MemoryOrders
	transactions *repository.MemoryTransactions
	svc          OrderService
}

func setupOrders(t *testing.T) *orderFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	orders := repository.NewMemoryOrders(store)
	transactions := repository.NewMemoryTransactions(store)
	tx := repository.NewMemoryTx(store)
	return &orderFixture{
		store:        store,
		orders:       orders,
		transactions: transactions,
		svc:          NewOrderService(store, orders, transactions, tx, nil),
	}
}

func (f *orderFixture) stock(t *testing.T, name string) decimal.Decimal {
	t.Helper()
	p, err := f.store.FindByName(context.Background(), name)
	require.NoError(t, err)
	return p.Stock
}

func item(t *testing.T, name, qty string) model.OrderItem {
	t.Helper()
	return model.OrderItem{ProductName: name, Quantity: dec(t, qty)}
}

func TestCreateOrderReservesStock(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "20")})
	require.NoError(t, err)
	require.Equal(t, model.OrderPending, order.Status)
	require.NotEqual(t, uuid.Nil, order.ID)
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "30")))
}

func TestCreateOrderBatchAtomicity(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")
	seedProduct(t, f.store, "Washer", "3", "25")

	_, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{
		item(t, "Bolt", "10"),
		item(t, "Washer", "5"),
	})
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)

	// zero stock change to either product, no order created
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "50")))
	require.True(t, f.stock(t, "Washer").Equal(dec(t, "3")))
	remaining, err := f.svc.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	_, err := f.svc.CreateOrder(ctx, "", []model.OrderItem{item(t, "Bolt", "1")})
	require.True(t, errors.Is(err, ErrValidation))

	_, err = f.svc.CreateOrder(ctx, "Acme", nil)
	require.True(t, errors.Is(err, ErrValidation))

	_, err = f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "0")})
	var badQty *InvalidQuantityError
	require.ErrorAs(t, err, &badQty)

	_, err = f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "-3")})
	require.ErrorAs(t, err, &badQty)

	_, err = f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{
		item(t, "Bolt", "1"),
		item(t, "Bolt", "2"),
	})
	var dup *DuplicateLineItemError
	require.ErrorAs(t, err, &dup)

	_, err = f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Ghost", "1")})
	require.True(t, errors.Is(err, ErrProductNotFound))

	// none of the rejected requests touched the stock
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "50")))
}

func TestCreateOrderTrimsProductNames(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "  Bolt ", "5")})
	require.NoError(t, err)

	// the stored item carries the trimmed name the catalog knows
	require.Equal(t, "Bolt", order.Items[0].ProductName)
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "45")))

	// and a padded duplicate of a clean name is still a duplicate
	_, err = f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{
		item(t, "Bolt", "1"),
		item(t, " Bolt", "2"),
	})
	var dup *DuplicateLineItemError
	require.ErrorAs(t, err, &dup)
}

func TestAcceptOrderWritesSnapshotAndFreezes(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "20")})
	require.NoError(t, err)

	accepted, err := f.svc.SetOrderStatus(ctx, order.ID, model.OrderAccepted)
	require.NoError(t, err)
	require.Equal(t, model.OrderAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	// no further stock change on accept
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "30")))

	entries, err := f.transactions.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, order.ID, entries[0].OrderID)
	require.Equal(t, "Acme", entries[0].Customer)
	require.Len(t, entries[0].Items, 1)
	require.Equal(t, "Bolt", entries[0].Items[0].ProductName)
	require.True(t, entries[0].Items[0].Quantity.Equal(dec(t, "20")))
	require.True(t, entries[0].Items[0].UnitPrice.Equal(dec(t, "100")))

	// accepted orders are immutable through every path
	_, err = f.svc.SetOrderStatus(ctx, order.ID, model.OrderDeclined)
	require.True(t, errors.Is(err, ErrOrderFinalized))
	_, err = f.svc.SetOrderStatus(ctx, order.ID, model.OrderAccepted)
	require.True(t, errors.Is(err, ErrOrderFinalized))
	_, err = f.svc.EditOrder(ctx, order.ID, "Acme", []model.OrderItem{item(t, "Bolt", "5")})
	require.True(t, errors.Is(err, ErrOrderFinalized))
	err = f.svc.DeleteOrder(ctx, order.ID)
	require.True(t, errors.Is(err, ErrOrderFinalized))
	err = f.svc.BulkDeleteOrders(ctx, []uuid.UUID{order.ID})
	require.True(t, errors.Is(err, ErrOrderFinalized))

	// stored order untouched by the rejected attempts
	stored, err := f.svc.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, model.OrderAccepted, stored.Status)
	require.Len(t, stored.Items, 1)
	require.True(t, stored.Items[0].Quantity.Equal(dec(t, "20")))
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "30")))
}

func TestPriceSnapshotSurvivesLaterPriceChange(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	p := seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "20")})
	require.NoError(t, err)
	_, err = f.svc.SetOrderStatus(ctx, order.ID, model.OrderAccepted)
	require.NoError(t, err)

	p.Price = dec(t, "150")
	require.NoError(t, f.store.Save(ctx, p))

	entries, err := f.transactions.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Items[0].UnitPrice.Equal(dec(t, "100")),
		"snapshot must keep the price at acceptance time")
}

func TestDeclineRevertsStockExactly(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "20")})
	require.NoError(t, err)
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "30")))

	declined, err := f.svc.SetOrderStatus(ctx, order.ID, model.OrderDeclined)
	require.NoError(t, err)
	require.Equal(t, model.OrderDeclined, declined.Status)

	// net-zero round trip
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "50")))

	// declined orders are hard-deleted
	_, err = f.svc.GetOrderByID(ctx, order.ID)
	require.True(t, errors.Is(err, ErrOrderNotFound))

	// and never reach the transaction log
	entries, err := f.transactions.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestEditOrderAppliesNetDelta(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "10")})
	require.NoError(t, err)
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "40")))

	updated, err := f.svc.EditOrder(ctx, order.ID, "", []model.OrderItem{item(t, "Bolt", "4")})
	require.NoError(t, err)

	// old qty 10, new qty 4: six units return to stock
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "46")))
	require.Len(t, updated.Items, 1)
	require.True(t, updated.Items[0].Quantity.Equal(dec(t, "4")))
	require.Equal(t, order.ID, updated.ID)
}

func TestEditOrderInsufficientStockLeavesOrderAlone(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "10")})
	require.NoError(t, err)

	// 40 left; going from 10 to 60 needs 50 more
	_, err = f.svc.EditOrder(ctx, order.ID, "", []model.OrderItem{item(t, "Bolt", "60")})
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)

	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "40")))
	stored, err := f.svc.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, stored.Items[0].Quantity.Equal(dec(t, "10")))
}

func TestEditOrderSwapsProducts(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")
	seedProduct(t, f.store, "Washer", "30", "25")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "10")})
	require.NoError(t, err)

	_, err = f.svc.EditOrder(ctx, order.ID, "", []model.OrderItem{item(t, "Washer", "8")})
	require.NoError(t, err)

	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "50")), "old product fully reverted")
	require.True(t, f.stock(t, "Washer").Equal(dec(t, "22")), "new product reserved")
}

func TestBulkDeleteAggregatesRevertsByProduct(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "100", "100")
	seedProduct(t, f.store, "Washer", "30", "25")

	o1, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "10")})
	require.NoError(t, err)
	o2, err := f.svc.CreateOrder(ctx, "Globex", []model.OrderItem{
		item(t, "Bolt", "15"),
		item(t, "Washer", "5"),
	})
	require.NoError(t, err)
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "75")))

	require.NoError(t, f.svc.BulkDeleteOrders(ctx, []uuid.UUID{o1.ID, o2.ID}))

	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "100")))
	require.True(t, f.stock(t, "Washer").Equal(dec(t, "30")))
	remaining, err := f.svc.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestBulkDeleteCollapsesRepeatedIDs(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "10")})
	require.NoError(t, err)
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "40")))

	// the same id twice reverts the order's stock exactly once
	require.NoError(t, f.svc.BulkDeleteOrders(ctx, []uuid.UUID{order.ID, order.ID}))

	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "50")))
	remaining, err := f.svc.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestBulkDeleteRejectsAcceptedOrderAtomically(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "100", "100")

	o1, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "10")})
	require.NoError(t, err)
	o2, err := f.svc.CreateOrder(ctx, "Globex", []model.OrderItem{item(t, "Bolt", "15")})
	require.NoError(t, err)
	_, err = f.svc.SetOrderStatus(ctx, o2.ID, model.OrderAccepted)
	require.NoError(t, err)

	err = f.svc.BulkDeleteOrders(ctx, []uuid.UUID{o1.ID, o2.ID})
	require.True(t, errors.Is(err, ErrOrderFinalized))

	// whole batch rejected: nothing reverted, nothing deleted
	require.True(t, f.stock(t, "Bolt").Equal(dec(t, "75")))
	remaining, err := f.svc.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
}

func TestSetOrderStatusRejectsUnknownTarget(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	seedProduct(t, f.store, "Bolt", "50", "100")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{item(t, "Bolt", "1")})
	require.NoError(t, err)

	_, err = f.svc.SetOrderStatus(ctx, order.ID, model.OrderPending)
	require.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestLifecycleOnMissingOrder(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)

	_, err := f.svc.SetOrderStatus(ctx, uuid.New(), model.OrderAccepted)
	require.True(t, errors.Is(err, ErrOrderNotFound))
	_, err = f.svc.EditOrder(ctx, uuid.New(), "Acme", []model.OrderItem{item(t, "Bolt", "1")})
	require.True(t, errors.Is(err, ErrOrderNotFound))
	err = f.svc.DeleteOrder(ctx, uuid.New())
	require.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestDeclineAfterCatalogDeleteSkipsMissingProduct(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	p := seedProduct(t, f.store, "Bolt", "50", "100")
	seedProduct(t, f.store, "Washer", "30", "25")

	order, err := f.svc.CreateOrder(ctx, "Acme", []model.OrderItem{
		item(t, "Bolt", "10"),
		item(t, "Washer", "5"),
	})
	require.NoError(t, err)

	require.NoError(t, f.store.Delete(ctx, p.ID))

	// there is no Bolt row to give stock back to; Washer still reverts
	_, err = f.svc.SetOrderStatus(ctx, order.ID, model.OrderDeclined)
	require.NoError(t, err)
	require.True(t, f.stock(t, "Washer").Equal(dec(t, "30")))
}
