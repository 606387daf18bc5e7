package repository

import (
	"context"
	"errors"

	"go-inventory-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(ctx context.Context, entry *model.TransactionLog) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.TransactionLog, error) {
	var entries []model.TransactionLog
	err := conn(ctx, r.db).Preload("Items").Order("accepted_at DESC").Find(&entries).Error
	return entries, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionLog, error) {
	var entry model.TransactionLog
	err := conn(ctx, r.db).Preload("Items").First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &entry, err
}

func (r *transactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("transaction_id = ?", id).Delete(&model.TransactionItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.TransactionLog{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
