package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors let the HTTP layer map failures to status codes without
// string matching.
var (
	ErrForbidden       = errors.New("role not permitted for this operation")
	ErrValidation      = errors.New("validation failed")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderFinalized  = errors.New("order already accepted and can no longer change")
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product name already exists")
	ErrEntryNotFound   = errors.New("transaction entry not found")
	ErrInvalidStatus   = errors.New("invalid target status")
)

// InsufficientStockError reports which product fell short and by how much, so
// the caller can act on it.
type InsufficientStockError struct {
	Product   string
	Available decimal.Decimal
	Short     decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: short %s (available %s)",
		e.Product, e.Short.String(), e.Available.String())
}

// InvalidQuantityError rejects zero or negative line quantities at the
// boundary, before anything reaches the ledger.
type InvalidQuantityError struct {
	Product  string
	Quantity decimal.Decimal
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %s for %q: must be greater than zero",
		e.Quantity.String(), e.Product)
}

// DuplicateLineItemError rejects the same product appearing twice in one
// order.
type DuplicateLineItemError struct {
	Product string
}

func (e *DuplicateLineItemError) Error() string {
	return fmt.Sprintf("product %q is listed more than once", e.Product)
}
