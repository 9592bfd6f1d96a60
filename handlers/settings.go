package handlers

import (
	"net/http"

	"velora-backend/models"
	"velora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	DB *gorm.DB
}

// GetDeliveryInfo is the public checkout endpoint: which states the store
// ships to and what delivery costs.
func (h *SettingsHandler) GetDeliveryInfo(c *gin.Context) {
	var settings models.StoreSettings
	if err := h.DB.First(&settings, 1).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Store settings unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store_name":        settings.StoreName,
		"currency":          settings.Currency,
		"delivery_fee":      settings.DeliveryFee,
		"free_delivery_min": settings.FreeDeliveryMin,
		"available_states":  settings.StatesList(),
	})
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	var settings models.StoreSettings
	if err := h.DB.First(&settings, 1).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Store settings unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                settings.ID,
		"store_name":        settings.StoreName,
		"currency":          settings.Currency,
		"delivery_fee":      settings.DeliveryFee,
		"free_delivery_min": settings.FreeDeliveryMin,
		"available_states":  settings.StatesList(),
		"updated_at":        settings.UpdatedAt,
	})
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings models.StoreSettings
	if err := h.DB.First(&settings, 1).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Store settings unavailable"})
		return
	}

	var req struct {
		StoreName       *string          `json:"store_name"`
		Currency        *string          `json:"currency"`
		DeliveryFee     *decimal.Decimal `json:"delivery_fee"`
		FreeDeliveryMin *decimal.Decimal `json:"free_delivery_min"`
		AvailableStates []string         `json:"available_states"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.StoreName != nil {
		settings.StoreName = *req.StoreName
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.DeliveryFee != nil {
		if req.DeliveryFee.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery fee cannot be negative"})
			return
		}
		settings.DeliveryFee = *req.DeliveryFee
	}
	if req.FreeDeliveryMin != nil {
		if req.FreeDeliveryMin.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Free delivery threshold cannot be negative"})
			return
		}
		settings.FreeDeliveryMin = *req.FreeDeliveryMin
	}
	if req.AvailableStates != nil {
		if err := settings.SetStatesList(req.AvailableStates); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid states list"})
			return
		}
	}

	if err := h.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                settings.ID,
		"store_name":        settings.StoreName,
		"currency":          settings.Currency,
		"delivery_fee":      settings.DeliveryFee,
		"free_delivery_min": settings.FreeDeliveryMin,
		"available_states":  settings.StatesList(),
		"updated_at":        settings.UpdatedAt,
	})
}
