package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the authoritative catalog record. Stock is a non-negative
// rational: fractional units (10.5 kg) are valid, so quantities are decimals
// end to end rather than floats.
type Product struct {
	BaseModel
	Name     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Category string          `gorm:"type:varchar(100)" json:"category" validate:"required"`
	Stock    decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"stock"`
	Unit     string          `gorm:"type:varchar(20)" json:"unit" validate:"required"`
	Price    decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"price"`
	Cost     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"cost"`
}

// ProductView is the role-filtered projection returned by the API.
type ProductView struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Stock     decimal.Decimal  `json:"stock"`
	Unit      string           `json:"unit"`
	Price     decimal.Decimal  `json:"price"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ToView converts a Product to its role-filtered projection.
func (p *Product) ToView(role string) ProductView {
	view := ProductView{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Stock:     p.Stock,
		Unit:      p.Unit,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if CanSeeCost(role) {
		cost := p.Cost
		view.Cost = &cost
	}

	return view
}
