package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"velora-backend/gueststate"
	"velora-backend/models"
	"velora-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GuestHandler serves anonymous shoppers. Cart and wishlist state lives in
// the gueststate store keyed by an opaque session id; nothing here touches
// the user-owned cart tables.
type GuestHandler struct {
	DB      *gorm.DB
	Storage gueststate.Storage
}

func (h *GuestHandler) CreateSession(c *gin.Context) {
	guestID, err := utils.GenerateGuestID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"guest_id": guestID})
}

func (h *GuestHandler) openStore(c *gin.Context) (*gueststate.Store, bool) {
	guestID := c.Param("guestId")
	if guestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guest ID required"})
		return nil, false
	}

	store, err := gueststate.Open(h.Storage, guestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load guest state"})
		return nil, false
	}
	return store, true
}

func (h *GuestHandler) GetCart(c *gin.Context) {
	store, ok := h.openStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": store.CartLines()})
}

func (h *GuestHandler) AddCartItem(c *gin.Context) {
	store, ok := h.openStore(c)
	if !ok {
		return
	}

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
	if err := h.DB.Preload("Images").Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var size models.ProductSize
	if err := h.DB.Where("id = ? AND product_id = ?", req.SizeID, req.ProductID).First(&size).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found for this product"})
		return
	}

	// The store aggregates quantities but does not cap them; the cap is
	// checked here against the would-be total.
	newQuantity := req.Quantity
	if existing, ok := store.CartLine(req.ProductID, req.SizeID); ok {
		newQuantity += existing.Quantity
	}
	if !product.Unlimited && newQuantity > size.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Only %d in stock for this size", size.Stock)})
		return
	}

	line := gueststate.CartLine{
		ProductID:             product.ID,
		SizeID:                size.ID,
		Quantity:              req.Quantity,
		MaxQuantity:           size.Stock,
		Unlimited:             product.Unlimited,
		ProductName:           product.Name,
		ProductImage:          product.PrimaryImageURL(),
		SizeName:              size.Name,
		ProductPrice:          product.Price,
		DiscountedPrice:       product.DiscountedPrice,
		SizeUndiscountedPrice: size.UndiscountedPrice,
		AddedAt:               time.Now(),
	}

	if err := store.AddToCart(line); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save guest cart"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": store.CartLines()})
}

func (h *GuestHandler) UpdateCartItem(c *gin.Context) {
	store, ok := h.openStore(c)
	if !ok {
		return
	}

	productID, sizeID, ok := parseLineParams(c)
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

	line, exists := store.CartLine(productID, sizeID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	// Cap against the stock snapshot taken when the line was added.
	if !line.Unlimited && req.Quantity > line.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Only %d in stock for this size", line.MaxQuantity)})
		return
	}

	if err := store.SetCartQuantity(productID, sizeID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save guest cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": store.CartLines()})
}

func (h *GuestHandler) RemoveCartItem(c *gin.Context) {
	store, ok := h.openStore(c)
	if !ok {
		return
	}

	productID, sizeID, ok := parseLineParams(c)
	if !ok {
		return
	}

	if err := store.RemoveCartLine(productID, sizeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save guest cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": store.CartLines()})
}

func (h *GuestHandler) ClearCart(c *gin.Context) {
	store, ok := h.openStore(c)
	if !ok {
		return
	}

	if err := store.ClearCart(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear guest cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (h *GuestHandler) GetWishlist(c *gin.Context) {
	store, ok := h.openStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": store.WishlistEntries()})
}

// ToggleWishlist flips a product's liked state for a guest session.
func (h *GuestHandler) ToggleWishlist(c *gin.Context) {
	store, ok := h.openStore(c)
	if !ok {
		return
	}

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.Preload("Images").Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	entry := gueststate.WishlistEntry{
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductImage:    product.PrimaryImageURL(),
		ProductPrice:    product.Price,
		DiscountedPrice: product.DiscountedPrice,
		AddedAt:         time.Now(),
	}

	state := gueststate.InitialState(nil, store, product.ID)
	toggler := gueststate.Toggler{}
	if err := toggler.Toggle(c.Request.Context(), &state, store, entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, state)
}

func parseLineParams(c *gin.Context) (uint, uint, bool) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, 0, false
	}
	sizeID, err := strconv.ParseUint(c.Param("sizeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size ID"})
		return 0, 0, false
	}
	return uint(productID), uint(sizeID), true
}
