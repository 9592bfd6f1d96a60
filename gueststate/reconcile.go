package gueststate

import (
	"errors"

	"velora-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reconciler folds a guest store into a signed-in user's server-side cart
// and wishlist. Quantities for the same (product, size) are summed and
// clamped to current stock, wishlist entries are deduplicated per product
// with the server row winning, and the guest state is cleared once the
// merge commits.
type Reconciler struct {
	DB *gorm.DB
}

func (r *Reconciler) Merge(guest *Store, userID uuid.UUID) error {
	if guest == nil {
		return nil
	}

	lines := guest.CartLines()
	entries := guest.WishlistEntries()
	if len(lines) == 0 && len(entries) == 0 {
		return guest.Clear()
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}

		for _, line := range lines {
			var size models.ProductSize
			if err := tx.Where("id = ? AND product_id = ?", line.SizeID, line.ProductID).First(&size).Error; err != nil {
				// Size gone from the catalog since the guest added it;
				// drop the line rather than fail the whole merge.
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			var product models.Product
			if err := tx.Where("id = ?", line.ProductID).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			var item models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ? AND size_id = ?", cart.ID, line.ProductID, line.SizeID).First(&item).Error
			switch {
			case err == nil:
				item.Quantity += line.Quantity
				if !product.Unlimited && item.Quantity > size.Stock {
					item.Quantity = size.Stock
				}
				if item.Quantity < 1 {
					item.Quantity = 1
				}
				if err := tx.Save(&item).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				quantity := line.Quantity
				if !product.Unlimited && quantity > size.Stock {
					quantity = size.Stock
				}
				if quantity < 1 {
					continue
				}
				item = models.CartItem{
					CartID:    cart.ID,
					ProductID: line.ProductID,
					SizeID:    line.SizeID,
					Quantity:  quantity,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		for _, entry := range entries {
			var existing models.WishlistItem
			err := tx.Where("user_id = ? AND product_id = ?", userID, entry.ProductID).First(&existing).Error
			if err == nil {
				// Already liked server-side; the server row wins.
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			var product models.Product
			if err := tx.Where("id = ?", entry.ProductID).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			item := models.WishlistItem{UserID: userID, ProductID: entry.ProductID}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return guest.Clear()
}
