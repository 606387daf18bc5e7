package repository

import (
	"errors"

	"context"

	"go-inventory-orders/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := conn(ctx, r.db).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := conn(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &product, err
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var product model.Product
	err := conn(ctx, r.db).First(&product, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &product, err
}

// FindByNameForUpdate takes a row lock (pessimistic locking) so concurrent
// check-then-apply sequences on the same product cannot interleave.
func (r *productRepo) FindByNameForUpdate(ctx context.Context, name string) (*model.Product, error) {
	var product model.Product
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&product, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &product, err
}

func (r *productRepo) Save(ctx context.Context, product *model.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) error {
	return conn(ctx, r.db).Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
