package repository

import (
	"context"
	"errors"

	"go-inventory-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

func (r *orderRepo) FindAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := conn(ctx, r.db).Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := conn(ctx, r.db).Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &order, err
}

// Save replaces the order's line items wholesale: editing an order swaps the
// whole item set, so stale rows are removed before the new ones are written.
func (r *orderRepo) Save(ctx context.Context, order *model.Order) error {
	db := conn(ctx, r.db)
	if err := db.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].ID = 0
		order.Items[i].OrderID = order.ID
	}
	return db.Save(order).Error
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
