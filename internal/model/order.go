package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "Pending"
	OrderAccepted OrderStatus = "Accepted"
	OrderDeclined OrderStatus = "Declined"
)

// OrderItem is one (product, quantity) line within a pending order. Items
// reference products by name; the name is the stable key the reporting side
// joins on.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	Quantity    decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"quantity"`
}

// Order holds a customer's pending request. Stock is already reserved while
// the order sits in Pending; once Accepted the order is frozen for good.
type Order struct {
	BaseModel
	Customer   string      `gorm:"type:varchar(255);not null" json:"customer" validate:"required"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	AcceptedAt *time.Time  `json:"accepted_at,omitempty"`
}

// Finalized reports whether the order reached its immutable terminal state.
func (o *Order) Finalized() bool {
	return o.Status == OrderAccepted
}
