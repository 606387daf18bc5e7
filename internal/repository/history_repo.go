package repository

import (
	"context"

	"go-inventory-orders/internal/model"

	"gorm.io/gorm"
)

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) Create(ctx context.Context, entry *model.ProductHistory) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *historyRepo) FindAll(ctx context.Context) ([]model.ProductHistory, error) {
	var entries []model.ProductHistory
	err := conn(ctx, r.db).Order("created_at DESC").Find(&entries).Error
	return entries, err
}
