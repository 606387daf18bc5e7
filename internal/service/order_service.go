package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-inventory-orders/internal/model"
	"go-inventory-orders/internal/repository"
	"go-inventory-orders/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService orchestrates the order lifecycle. Stock is reserved when an
// order is created; accepting freezes the order and writes the transaction
// log (no further stock change); declining, deleting or editing a pending
// order reverts or re-nets the reserved stock. Every multi-step mutation runs
// inside one storage transaction.
type OrderService interface {
	CreateOrder(ctx context.Context, customer string, items []model.OrderItem) (*model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	SetOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	EditOrder(ctx context.Context, id uuid.UUID, customer string, items []model.OrderItem) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	BulkDeleteOrders(ctx context.Context, ids []uuid.UUID) error
}

type orderService struct {
	products     repository.ProductRepository
	orders       repository.OrderRepository
	transactions repository.TransactionRepository
	ledger       *StockLedger
	tx           repository.TxManager
	wsHub        *ws.Hub
}

func NewOrderService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	transactions repository.TransactionRepository,
	tx repository.TxManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		products:     products,
		orders:       orders,
		transactions: transactions,
		ledger:       NewStockLedger(products),
		tx:           tx,
		wsHub:        hub,
	}
}

// validateItems rejects bad line items before anything reaches the ledger.
// Product names are trimmed in place so the stored item and the ledger key
// match the name the duplicate check saw.
func validateItems(items []model.OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order needs at least one line item", ErrValidation)
	}
	seen := make(map[string]bool, len(items))
	for i := range items {
		name := strings.TrimSpace(items[i].ProductName)
		if name == "" {
			return fmt.Errorf("%w: line item is missing a product name", ErrValidation)
		}
		if !items[i].Quantity.IsPositive() {
			return &InvalidQuantityError{Product: name, Quantity: items[i].Quantity}
		}
		if seen[name] {
			return &DuplicateLineItemError{Product: name}
		}
		seen[name] = true
		items[i].ProductName = name
	}
	return nil
}

func (s *orderService) CreateOrder(ctx context.Context, customer string, items []model.OrderItem) (*model.Order, error) {
	if strings.TrimSpace(customer) == "" {
		return nil, fmt.Errorf("%w: customer is required", ErrValidation)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var created *model.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// reserve: every line checked against current stock before any
		// product row changes
		deltas := make(map[string]decimal.Decimal, len(items))
		for _, item := range items {
			deltas[item.ProductName] = item.Quantity.Neg()
		}
		if err := s.ledger.ApplyDeltas(ctx, deltas); err != nil {
			return err
		}

		order := &model.Order{
			Customer: customer,
			Status:   model.OrderPending,
			Items:    items,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "order_update",
		Action:  "order_created",
		Payload: created,
		Message: fmt.Sprintf("Order for %s created with %d line item(s)", created.Customer, len(created.Items)),
	})
	return created, nil
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *orderService) SetOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	switch status {
	case model.OrderAccepted:
		return s.acceptOrder(ctx, id)
	case model.OrderDeclined:
		return s.declineOrder(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// acceptOrder freezes the order and appends the transaction log entry with
// sale prices snapshotted at this instant. Stock does not change; it was
// already reserved at creation. The status flip and the log insert share one
// transaction, so a log entry for a still-pending order cannot commit.
func (s *orderService) acceptOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var accepted *model.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if order.Finalized() {
			return ErrOrderFinalized
		}

		now := time.Now().UTC()
		entry := &model.TransactionLog{
			OrderID:    order.ID,
			Customer:   order.Customer,
			OrderedAt:  order.CreatedAt,
			AcceptedAt: now,
		}
		for _, item := range order.Items {
			price := decimal.Zero
			product, err := s.products.FindByName(ctx, item.ProductName)
			switch {
			case err == nil:
				price = product.Price
			case errors.Is(err, repository.ErrNotFound):
				// product removed from the catalog while the order was
				// pending; the snapshot keeps a zero price
			default:
				return err
			}
			entry.Items = append(entry.Items, model.TransactionItem{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   price,
			})
		}
		if err := s.transactions.Create(ctx, entry); err != nil {
			return err
		}

		order.Status = model.OrderAccepted
		order.AcceptedAt = &now
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		accepted = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "order_update",
		Action:  "order_accepted",
		Payload: accepted,
		Message: fmt.Sprintf("Order for %s accepted", accepted.Customer),
	})
	return accepted, nil
}

// declineOrder reverts the reserved stock and removes the order. Declined
// orders are hard-deleted; the transaction log only ever holds accepted ones.
func (s *orderService) declineOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var declined *model.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.revertAndDelete(ctx, id)
		if err != nil {
			return err
		}
		order.Status = model.OrderDeclined
		declined = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "order_update",
		Action:  "order_declined",
		Payload: declined,
		Message: fmt.Sprintf("Order for %s declined, stock reverted", declined.Customer),
	})
	return declined, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := s.revertAndDelete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "order_update",
		Action:  "order_deleted",
		Message: "Order deleted, stock reverted",
	})
	return nil
}

// BulkDeleteOrders reverts and removes several pending orders at once. Revert
// deltas are aggregated by product first, so a product shared by three orders
// gets one combined stock update. Any accepted order rejects the whole batch.
func (s *orderService) BulkDeleteOrders(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no order ids given", ErrValidation)
	}

	// a repeated id must not double its revert deltas
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	ids = unique

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		deltas := make(map[string]decimal.Decimal)
		for _, id := range ids {
			order, err := s.orders.FindByID(ctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			if err != nil {
				return err
			}
			if order.Finalized() {
				return ErrOrderFinalized
			}
			for _, item := range order.Items {
				deltas[item.ProductName] = deltas[item.ProductName].Add(item.Quantity)
			}
		}

		if err := s.applyRevert(ctx, deltas); err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.orders.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "order_update",
		Action:  "orders_deleted",
		Payload: ids,
		Message: fmt.Sprintf("%d order(s) deleted, stock reverted", len(ids)),
	})
	return nil
}

// EditOrder applies a single net delta per product: old quantities reverted,
// new quantities reserved, combined before touching the ledger. The order
// keeps its id; items and (optionally) the customer are replaced.
func (s *orderService) EditOrder(ctx context.Context, id uuid.UUID, customer string, items []model.OrderItem) (*model.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var updated *model.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if order.Finalized() {
			return ErrOrderFinalized
		}

		deltas := make(map[string]decimal.Decimal)
		for _, item := range order.Items {
			deltas[item.ProductName] = deltas[item.ProductName].Add(item.Quantity)
		}
		for _, item := range items {
			deltas[item.ProductName] = deltas[item.ProductName].Sub(item.Quantity)
		}
		for name, delta := range deltas {
			if delta.IsZero() {
				delete(deltas, name)
			}
		}

		if len(deltas) > 0 {
			if err := s.ledger.ApplyDeltas(ctx, deltas); err != nil {
				return err
			}
		}

		order.Items = items
		if strings.TrimSpace(customer) != "" {
			order.Customer = customer
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "order_update",
		Action:  "order_edited",
		Payload: updated,
		Message: fmt.Sprintf("Order for %s edited, stock re-netted", updated.Customer),
	})
	return updated, nil
}

// revertAndDelete gives a pending order's stock back and removes the order.
// Must run inside a transaction.
func (s *orderService) revertAndDelete(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.Finalized() {
		return nil, ErrOrderFinalized
	}

	deltas := make(map[string]decimal.Decimal, len(order.Items))
	for _, item := range order.Items {
		deltas[item.ProductName] = deltas[item.ProductName].Add(item.Quantity)
	}
	if err := s.applyRevert(ctx, deltas); err != nil {
		return nil, err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return nil, err
	}
	return order, nil
}

// applyRevert returns stock for the given products. Products removed from
// the catalog while the order was pending are skipped: there is no row left
// to give the stock back to.
func (s *orderService) applyRevert(ctx context.Context, deltas map[string]decimal.Decimal) error {
	for name := range deltas {
		if _, err := s.products.FindByName(ctx, name); errors.Is(err, repository.ErrNotFound) {
			delete(deltas, name)
		} else if err != nil {
			return err
		}
	}
	if len(deltas) == 0 {
		return nil
	}
	return s.ledger.ApplyDeltas(ctx, deltas)
}
