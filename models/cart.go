package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the authenticated server-side cart, one per user, addressed
// externally by its UID.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"-"`
	UID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"uid"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.UID == uuid.Nil {
		c.UID = uuid.New()
	}
	return nil
}

// CartItem is one line of an authenticated cart, unique per
// (cart, product, size).
type CartItem struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CartID    uint         `gorm:"not null;uniqueIndex:idx_cart_product_size" json:"-"`
	ProductID uint         `gorm:"not null;uniqueIndex:idx_cart_product_size" json:"product_id"`
	Product   Product      `gorm:"foreignKey:ProductID" json:"product"`
	SizeID    uint         `gorm:"not null;uniqueIndex:idx_cart_product_size" json:"size_id"`
	Size      ProductSize  `gorm:"foreignKey:SizeID" json:"size"`
	Quantity  int          `gorm:"default:1" json:"quantity"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
