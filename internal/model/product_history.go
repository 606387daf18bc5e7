package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductHistory is a simple audit entry written when a product is added:
// a snapshot of the record plus the role that created it.
type ProductHistory struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Stock       decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"stock"`
	Unit        string          `gorm:"type:varchar(20)" json:"unit"`
	AddedBy     string          `gorm:"type:varchar(50);not null" json:"added_by"`
}
