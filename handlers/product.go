package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"velora-backend/config"
	"velora-backend/models"
	"velora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

// buildPageLink assembles an absolute pagination URL for the listing
// endpoint. The backend origin is the single configured PUBLIC_BASE_URL;
// handlers never derive it from the incoming request.
func buildPageLink(path string, page, limit int, category, search string) string {
	link := fmt.Sprintf("%s%s?page=%d&limit=%d", config.PublicBaseURL(), path, page, limit)
	if category != "" {
		link += "&category=" + category
	}
	if search != "" {
		link += "&search=" + search
	}
	return link
}

// GetProducts serves the public catalog listing as a paginated envelope:
// {count, next, previous, results}.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	category := c.Query("category")
	search := c.Query("search")

	query := h.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category_id = ?", category)
	}
	if search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var count int64
	query.Count(&count)

	var products []models.Product
	if err := query.Preload("Category").Preload("Sizes").Preload("Images").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	var next, previous interface{}
	if int64(page*limit) < count {
		next = buildPageLink(c.FullPath(), page+1, limit, category, search)
	}
	if page > 1 {
		previous = buildPageLink(c.FullPath(), page-1, limit, category, search)
	}

	results := products
	if results == nil {
		results = []models.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Preload("Category").Preload("Sizes").Preload("Images").
		Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name            string           `json:"name" binding:"required"`
		Description     string           `json:"description"`
		Price           decimal.Decimal  `json:"price" binding:"required"`
		DiscountedPrice *decimal.Decimal `json:"discounted_price"`
		Unlimited       bool             `json:"unlimited"`
		IsActive        *bool            `json:"is_active"`
		CategoryID      uint             `json:"category_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}
	if req.DiscountedPrice != nil && req.DiscountedPrice.GreaterThan(req.Price) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discounted price cannot exceed the regular price"})
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		Unlimited:       req.Unlimited,
		IsActive:        true,
		CategoryID:      req.CategoryID,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.DB.Preload("Category").First(&product, product.ID)
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req struct {
		Name            *string          `json:"name"`
		Description     *string          `json:"description"`
		Price           *decimal.Decimal `json:"price"`
		DiscountedPrice *decimal.Decimal `json:"discounted_price"`
		ClearDiscount   bool             `json:"clear_discount"`
		Unlimited       *bool            `json:"unlimited"`
		IsActive        *bool            `json:"is_active"`
		CategoryID      *uint            `json:"category_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
			return
		}
		product.Price = *req.Price
	}
	if req.ClearDiscount {
		product.DiscountedPrice = nil
	} else if req.DiscountedPrice != nil {
		product.DiscountedPrice = req.DiscountedPrice
	}
	if product.DiscountedPrice != nil && product.DiscountedPrice.GreaterThan(product.Price) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discounted price cannot exceed the regular price"})
		return
	}
	if req.Unlimited != nil {
		product.Unlimited = *req.Unlimited
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := h.DB.Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		product.CategoryID = *req.CategoryID
	}

	if err := h.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.DB.Preload("Category").Preload("Sizes").Preload("Images").First(&product, product.ID)
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) AddSize(c *gin.Context) {
	productID := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", productID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req struct {
		Name              string           `json:"name" binding:"required"`
		Stock             int              `json:"stock" binding:"gte=0"`
		UndiscountedPrice *decimal.Decimal `json:"undiscounted_price"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	size := models.ProductSize{
		ProductID:         product.ID,
		Name:              req.Name,
		Stock:             req.Stock,
		UndiscountedPrice: req.UndiscountedPrice,
	}

	if err := h.DB.Create(&size).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create size"})
		return
	}

	c.JSON(http.StatusCreated, size)
}

func (h *ProductHandler) UpdateSize(c *gin.Context) {
	productID := c.Param("id")
	sizeID := c.Param("sizeId")

	var size models.ProductSize
	if err := h.DB.Where("id = ? AND product_id = ?", sizeID, productID).First(&size).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
		return
	}

	var req struct {
		Name              *string          `json:"name"`
		Stock             *int             `json:"stock"`
		UndiscountedPrice *decimal.Decimal `json:"undiscounted_price"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		size.Name = *req.Name
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
			return
		}
		size.Stock = *req.Stock
	}
	if req.UndiscountedPrice != nil {
		size.UndiscountedPrice = req.UndiscountedPrice
	}

	if err := h.DB.Save(&size).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update size"})
		return
	}

	c.JSON(http.StatusOK, size)
}

func (h *ProductHandler) DeleteSize(c *gin.Context) {
	productID := c.Param("id")
	sizeID := c.Param("sizeId")

	var size models.ProductSize
	if err := h.DB.Where("id = ? AND product_id = ?", sizeID, productID).First(&size).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
		return
	}

	if err := h.DB.Delete(&size).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete size"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Size deleted successfully"})
}

func (h *ProductHandler) AddImage(c *gin.Context) {
	productID := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", productID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req struct {
		ImageURL  string `json:"image_url" binding:"required,url"`
		IsPrimary bool   `json:"is_primary"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	// Only one primary image per product
	if req.IsPrimary {
		h.DB.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Update("is_primary", false)
	}

	image := models.ProductImage{
		ProductID: product.ID,
		ImageURL:  req.ImageURL,
		IsPrimary: req.IsPrimary,
	}

	if err := h.DB.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add image"})
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *ProductHandler) DeleteImage(c *gin.Context) {
	productID := c.Param("id")
	imageID := c.Param("imageId")

	var image models.ProductImage
	if err := h.DB.Where("id = ? AND product_id = ?", imageID, productID).First(&image).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	if err := h.DB.Delete(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
