package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null;index" json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountedPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discounted_price"`
	Unlimited       bool             `gorm:"default:false" json:"unlimited"` // no stock cap on cart quantity
	IsActive        bool             `gorm:"default:true" json:"is_active"`
	CategoryID      uint             `gorm:"not null;index" json:"category_id"`
	Category        Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Sizes           []ProductSize    `gorm:"foreignKey:ProductID" json:"sizes,omitempty"`
	Images          []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// EffectivePrice returns the discounted price when one is set, else the
// regular price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// PrimaryImageURL returns the primary image URL, or the first image, or "".
func (p *Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}
