package handlers

import (
	"fmt"
	"net/http"

	"velora-backend/models"
	"velora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderHandler struct {
	DB *gorm.DB
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req struct {
		DeliveryAddress string `json:"delivery_address" binding:"required"`
		DeliveryState   string `json:"delivery_state" binding:"required"`
		PaymentMethod   string `json:"payment_method" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var settings models.StoreSettings
	if err := h.DB.First(&settings, 1).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Store settings unavailable"})
		return
	}

	// Delivery state must be one the store ships to, when a list is set.
	states := settings.StatesList()
	if len(states) > 0 {
		valid := false
		for _, s := range states {
			if s == req.DeliveryState {
				valid = true
				break
			}
		}
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "We do not deliver to that state"})
			return
		}
	}

	var cart models.Cart
	if err := h.DB.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	var cartItems []models.CartItem
	if err := h.DB.Preload("Product.Images").Preload("Size").
		Where("cart_id = ?", cart.ID).Find(&cartItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	if len(cartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	// Price each line at order time: discounted price wins when set.
	subtotal := decimal.Zero
	var orderItems []models.OrderItem
	for _, item := range cartItems {
		price := item.Product.EffectivePrice()
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

		orderItems = append(orderItems, models.OrderItem{
			ProductID:   item.ProductID,
			SizeID:      item.SizeID,
			ProductName: item.Product.Name,
			SizeName:    item.Size.Name,
			ImageURL:    item.Product.PrimaryImageURL(),
			Quantity:    item.Quantity,
			Price:       price,
		})
	}

	deliveryFee := decimal.Zero
	if subtotal.LessThan(settings.FreeDeliveryMin) {
		deliveryFee = settings.DeliveryFee
	}
	total := subtotal.Add(deliveryFee)

	orderNumber, err := utils.GenerateOrderNumber()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	order := models.Order{
		UserID:          userID,
		OrderNumber:     orderNumber,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		Total:           total,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryState:   req.DeliveryState,
		PaymentMethod:   req.PaymentMethod,
	}

	tx := h.DB.Begin()

	// Decrement size stock with row-level locking to prevent oversells.
	for _, item := range cartItems {
		if item.Product.Unlimited {
			continue
		}

		var size models.ProductSize
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", item.SizeID).First(&size).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Size not found"})
			return
		}
		if size.Stock < item.Quantity {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Insufficient stock for %s (%s)", item.Product.Name, size.Name)})
			return
		}
		size.Stock -= item.Quantity
		tx.Save(&size)
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := tx.CreateInBatches(&orderItems, 100).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order items"})
		return
	}

	// Clear cart
	tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete order"})
		return
	}

	h.DB.Preload("Items").Preload("User").First(&order, order.ID)

	// Send order confirmation email (non-blocking)
	utils.SendOrderConfirmation(order.User.Email, order.User.Name, order.OrderNumber, settings.Currency, order.Total)

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	var orders []models.Order
	query := h.DB.Preload("Items")

	if roleStr, _ := userRole.(string); roleStr == "admin" {
		query = query.Preload("User")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	} else if exists {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("user_id")
	userRole, _ := c.Get("user_role")

	var order models.Order
	query := h.DB.Preload("Items").Preload("User")

	if roleStr, _ := userRole.(string); roleStr == "admin" {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("id = ? AND user_id = ?", id, userID)
	}

	if err := query.First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid status transition from '%s' to '%s'", order.Status, req.Status),
		})
		return
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	if req.Status == models.OrderStatusCancelled {
		h.restoreStock(&order)
	}

	h.DB.Preload("Items").Preload("User").First(&order, order.ID)

	// Send status update email (non-blocking)
	if order.User.Email != "" {
		utils.SendOrderStatusUpdate(order.User.Email, order.User.Name, order.OrderNumber, string(req.Status))
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder lets a customer cancel their own order while the state
// machine still allows it.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id := c.Param("id")
	userID := c.MustGet("user_id").(uuid.UUID)

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, models.OrderStatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Order in status '%s' can no longer be cancelled", order.Status),
		})
		return
	}

	order.Status = models.OrderStatusCancelled
	if err := h.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	h.restoreStock(&order)

	h.DB.Preload("Items").First(&order, order.ID)
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) restoreStock(order *models.Order) {
	var items []models.OrderItem
	h.DB.Where("order_id = ?", order.ID).Find(&items)
	for _, item := range items {
		// Unlimited products were never decremented.
		var product models.Product
		if err := h.DB.Where("id = ?", item.ProductID).First(&product).Error; err == nil && product.Unlimited {
			continue
		}
		h.DB.Model(&models.ProductSize{}).Where("id = ?", item.SizeID).
			Update("stock", gorm.Expr("stock + ?", item.Quantity))
	}
}

func (h *OrderHandler) GetOrderTransitions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllowedTransitions)
}
