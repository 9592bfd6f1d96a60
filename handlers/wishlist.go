package handlers

import (
	"context"
	"errors"
	"net/http"

	"velora-backend/gueststate"
	"velora-backend/models"
	"velora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WishlistHandler struct {
	DB *gorm.DB
}

// dbRemoteWishlist adapts the wishlist table to the toggle coordinator's
// remote interface for one user.
type dbRemoteWishlist struct {
	db     *gorm.DB
	userID uuid.UUID
}

func (r dbRemoteWishlist) Add(ctx context.Context, productID uint) (int64, error) {
	item := models.WishlistItem{UserID: r.userID, ProductID: productID}
	// The unique index makes a repeated like land on the existing row.
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", r.userID, productID).
		FirstOrCreate(&item).Error
	if err != nil {
		return 0, err
	}
	return int64(item.ID), nil
}

func (r dbRemoteWishlist) Remove(ctx context.Context, entryID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, r.userID).
		Delete(&models.WishlistItem{}).Error
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var items []models.WishlistItem
	if err := h.DB.Preload("Product.Images").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) AddItem(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	item := models.WishlistItem{UserID: userID, ProductID: req.ProductID}
	if err := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		FirstOrCreate(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
		return
	}

	h.DB.Preload("Product.Images").First(&item, item.ID)
	c.JSON(http.StatusCreated, item)
}

func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	id := c.Param("id")

	var item models.WishlistItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found"})
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

// Toggle flips a product's liked state for the signed-in user through the
// same coordinator the guest endpoints use.
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	state := gueststate.ToggleState{}
	var existing models.WishlistItem
	err := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing).Error
	if err == nil {
		state = gueststate.ToggleState{Liked: true, EntryID: int64(existing.ID)}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}

	toggler := gueststate.Toggler{Remote: dbRemoteWishlist{db: h.DB, userID: userID}}
	entry := gueststate.WishlistEntry{ProductID: req.ProductID}
	if err := toggler.Toggle(c.Request.Context(), &state, nil, entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, state)
}
