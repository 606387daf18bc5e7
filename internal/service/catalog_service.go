package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-orders/internal/model"
	"go-inventory-orders/internal/repository"
	"go-inventory-orders/internal/ws"
	"go-inventory-orders/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput is the warehouse-supplied shape for a new product.
// Prices are deliberately absent: a product starts at zero and purchasing
// sets them afterwards.
type CreateProductInput struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Stock    decimal.Decimal `json:"stock" validate:"decimal_gte0"`
	Unit     string          `json:"unit" validate:"required"`
}

// UpdateProductInput carries a partial update. Nil fields are untouched;
// fields outside the caller's role are silently preserved, never clobbered.
type UpdateProductInput struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Stock    *decimal.Decimal `json:"stock"`
	Unit     *string          `json:"unit"`
	Price    *decimal.Decimal `json:"price"`
	Cost     *decimal.Decimal `json:"cost"`
}

// CatalogService is role-gated product CRUD plus the product-addition audit
// log. The role is always an explicit parameter, never inferred ambiently.
type CatalogService interface {
	ListProducts(ctx context.Context, role string) ([]model.ProductView, error)
	CreateProduct(ctx context.Context, role string, input *CreateProductInput) (*model.ProductView, error)
	UpdateProduct(ctx context.Context, role string, id uuid.UUID, input *UpdateProductInput) (*model.ProductView, error)
	DeleteProduct(ctx context.Context, role string, id uuid.UUID) error
	AddHistory(ctx context.Context, entry *model.ProductHistory) error
	ListHistory(ctx context.Context) ([]model.ProductHistory, error)
}

type catalogService struct {
	products repository.ProductRepository
	history  repository.HistoryRepository
	tx       repository.TxManager
	wsHub    *ws.Hub
}

func NewCatalogService(
	products repository.ProductRepository,
	history repository.HistoryRepository,
	tx repository.TxManager,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{products: products, history: history, tx: tx, wsHub: hub}
}

func (s *catalogService) ListProducts(ctx context.Context, role string) ([]model.ProductView, error) {
	if !model.ValidRole(role) {
		return nil, ErrForbidden
	}
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.ProductView, len(products))
	for i := range products {
		views[i] = products[i].ToView(role)
	}
	return views, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, role string, input *CreateProductInput) (*model.ProductView, error) {
	if !model.CanCreateProduct(role) {
		return nil, ErrForbidden
	}
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, first.FailedField, first.Tag)
	}

	existing, err := s.products.FindByName(ctx, input.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProductExists
	}

	product := &model.Product{
		Name:     input.Name,
		Category: input.Category,
		Stock:    input.Stock,
		Unit:     input.Unit,
		Price:    decimal.Zero,
		Cost:     decimal.Zero,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.products.Create(ctx, product); err != nil {
			return err
		}
		// the addition audit entry rides the same transaction as the product
		entry := &model.ProductHistory{
			ProductID:   product.ID,
			ProductName: product.Name,
			Category:    product.Category,
			Stock:       product.Stock,
			Unit:        product.Unit,
			AddedBy:     role,
		}
		return s.history.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Payload: product,
		Message: fmt.Sprintf("%s created product %q", role, product.Name),
	})

	view := product.ToView(role)
	return &view, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, role string, id uuid.UUID, input *UpdateProductInput) (*model.ProductView, error) {
	if !model.CanEditStockFields(role) && !model.CanEditPriceFields(role) {
		return nil, ErrForbidden
	}

	var updated *model.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		if model.CanEditStockFields(role) {
			if input.Name != nil && *input.Name != product.Name {
				other, err := s.products.FindByName(ctx, *input.Name)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
				if other != nil {
					return ErrProductExists
				}
				product.Name = *input.Name
			}
			if input.Category != nil {
				product.Category = *input.Category
			}
			if input.Unit != nil {
				product.Unit = *input.Unit
			}
			if input.Stock != nil {
				if input.Stock.IsNegative() {
					return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
				}
				product.Stock = *input.Stock
			}
		}
		if model.CanEditPriceFields(role) {
			if input.Price != nil {
				if input.Price.IsNegative() {
					return fmt.Errorf("%w: price cannot be negative", ErrValidation)
				}
				product.Price = *input.Price
			}
			if input.Cost != nil {
				if input.Cost.IsNegative() {
					return fmt.Errorf("%w: cost cannot be negative", ErrValidation)
				}
				product.Cost = *input.Cost
			}
		}

		if err := s.products.Save(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_updated",
		Payload: updated,
		Message: fmt.Sprintf("%s updated product %q", role, updated.Name),
	})

	view := updated.ToView(role)
	return &view, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, role string, id uuid.UUID) error {
	if !model.CanDeleteProduct(role) {
		return ErrForbidden
	}
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_deleted",
		Payload: id,
		Message: fmt.Sprintf("%s deleted a product", role),
	})
	return nil
}

func (s *catalogService) AddHistory(ctx context.Context, entry *model.ProductHistory) error {
	if entry.ProductName == "" || entry.AddedBy == "" {
		return fmt.Errorf("%w: product name and actor are required", ErrValidation)
	}
	return s.history.Create(ctx, entry)
}

func (s *catalogService) ListHistory(ctx context.Context) ([]model.ProductHistory, error) {
	return s.history.FindAll(ctx)
}
