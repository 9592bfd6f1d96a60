package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"velora-backend/models"
	"velora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

// findOrCreateCart returns the user's cart, creating it on first use.
func (h *CartHandler) findOrCreateCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := h.DB.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := h.DB.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	cart, err := h.findOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	if err := h.DB.Preload("Items.Product.Images").Preload("Items.Size").
		Where("id = ?", cart.ID).First(cart).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		SizeID    uint `json:"size_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,gte=1"`
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

	var size models.ProductSize
	if err := h.DB.Where("id = ? AND product_id = ?", req.SizeID, req.ProductID).First(&size).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found for this product"})
		return
	}

	cart, err := h.findOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	// Same (product, size) aggregates onto the existing line.
	var item models.CartItem
	err = h.DB.Where("cart_id = ? AND product_id = ? AND size_id = ?", cart.ID, req.ProductID, req.SizeID).First(&item).Error
	newQuantity := req.Quantity
	if err == nil {
		newQuantity = item.Quantity + req.Quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	if !product.Unlimited && newQuantity > size.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Only %d in stock for this size", size.Stock)})
		return
	}

	if item.ID == 0 {
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			SizeID:    req.SizeID,
			Quantity:  newQuantity,
		}
		if err := h.DB.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}
	} else {
		if err := h.DB.Model(&item).Update("quantity", newQuantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
	}

	h.DB.Preload("Product.Images").Preload("Size").First(&item, item.ID)
	c.JSON(http.StatusCreated, item)
}

// cartItemByUID resolves a cart item addressed as /cart/:cartUid/items/:itemId,
// checking that the cart belongs to the requesting user.
func (h *CartHandler) cartItemByUID(c *gin.Context) (*models.Cart, *models.CartItem, bool) {
	userID := c.MustGet("user_id").(uuid.UUID)

	cartUID, err := uuid.Parse(c.Param("cartUid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return nil, nil, false
	}

	var cart models.Cart
	if err := h.DB.Where("uid = ? AND user_id = ?", cartUID, userID).First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return nil, nil, false
	}

	var item models.CartItem
	if err := h.DB.Where("id = ? AND cart_id = ?", c.Param("itemId"), cart.ID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return nil, nil, false
	}

	return &cart, &item, true
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	_, item, ok := h.cartItemByUID(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,gte=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", item.ProductID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var size models.ProductSize
	if err := h.DB.Where("id = ?", item.SizeID).First(&size).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
		return
	}

	if !product.Unlimited && req.Quantity > size.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Only %d in stock for this size", size.Stock)})
		return
	}

	if err := h.DB.Model(item).Update("quantity", req.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}

	h.DB.Preload("Product.Images").Preload("Size").First(item, item.ID)
	c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	_, item, ok := h.cartItemByUID(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var cart models.Cart
	if err := h.DB.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
		return
	}

	if err := h.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
