package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionItem carries both the quantity and the unit sale price captured
// at acceptance time. Prices are snapshotted, never looked up later, so
// revenue figures stay historically accurate when catalog prices change.
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductName   string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity      decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"unit_price"`
}

// TransactionLog is the append-only record of an accepted order and the
// source of truth for all reporting. Entries are created only as a side
// effect of an order transitioning to Accepted and are never mutated.
type TransactionLog struct {
	BaseModel
	OrderID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	Customer   string            `gorm:"type:varchar(255);not null" json:"customer"`
	OrderedAt  time.Time         `gorm:"not null" json:"ordered_at"`
	AcceptedAt time.Time         `gorm:"not null" json:"accepted_at"`
	Items      []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items"`
}

// Total returns the revenue of this entry (sum of quantity * unit price).
func (t *TransactionLog) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return total
}
