package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSize is one orderable variant of a product. Stock is the cap a
// storefront snapshots as maxQuantity when a line is added to a cart.
type ProductSize struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	ProductID         uint             `gorm:"not null;index" json:"product_id"`
	Name              string           `gorm:"not null" json:"name"`
	Stock             int              `gorm:"default:0" json:"stock"`
	UndiscountedPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"undiscounted_price"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
