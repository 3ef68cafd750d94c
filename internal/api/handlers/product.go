package handlers

import (
	"net/http"
	"strconv"

	"curator/internal/api/middleware"
	"curator/internal/logger"
	"curator/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductHandler(db *gorm.DB, log *logger.Logger) *ProductHandler {
	return &ProductHandler{db: db, log: log}
}

func ownedProducts(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.Product{}).
		Select("products.*").
		Joins("JOIN product_catalogs ON product_catalogs.id = products.catalog_id").
		Joins("JOIN brands ON brands.id = product_catalogs.brand_id").
		Where("brands.user_id = ?", userID)
}

func (h *ProductHandler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := ownedProducts(h.db, userID)
	if catalogID := c.Query("catalog_id"); catalogID != "" {
		query = query.Where("products.catalog_id = ?", catalogID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("products.status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("products.title LIKE ? OR products.sku LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var products []models.Product
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var product models.Product
	err := ownedProducts(h.db, userID).Where("products.id = ?", c.Param("id")).First(&product).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	respondOK(c, http.StatusOK, product)
}

type productInput struct {
	CatalogID   string  `json:"catalog_id" binding:"required"`
	SKU         string  `json:"sku" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var owned int64
	err := h.db.Model(&models.ProductCatalog{}).
		Joins("JOIN brands ON brands.id = product_catalogs.brand_id").
		Where("product_catalogs.id = ? AND brands.user_id = ?", in.CatalogID, userID).
		Count(&owned).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check catalog ownership")
		return
	}
	if owned == 0 {
		respondError(c, http.StatusForbidden, "access denied")
		return
	}

	product := models.Product{
		CatalogID:   in.CatalogID,
		SKU:         in.SKU,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
	}
	if in.Currency != "" {
		product.Currency = in.Currency
	}
	if in.Status != "" {
		product.Status = in.Status
	}
	if err := h.db.Create(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create product")
		return
	}

	respondOK(c, http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var product models.Product
	err := ownedProducts(h.db, userID).Where("products.id = ?", c.Param("id")).First(&product).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	var in struct {
		SKU         *string  `json:"sku"`
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Currency    *string  `json:"currency"`
		Status      *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.SKU != nil {
		product.SKU = *in.SKU
	}
	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Currency != nil {
		product.Currency = *in.Currency
	}
	if in.Status != nil {
		product.Status = *in.Status
	}

	if err := h.db.Save(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update product")
		return
	}

	respondOK(c, http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	id := c.Param("id")

	var product models.Product
	err := ownedProducts(h.db, userID).Where("products.id = ?", id).First(&product).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	// variants and attribute schemas go with the product
	if err := h.db.Delete(&models.ProductVariant{}, "product_id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete product variants")
		return
	}
	if err := h.db.Delete(&models.AttributeSchema{}, "product_id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete product attributes")
		return
	}
	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete product")
		return
	}

	c.Status(http.StatusNoContent)
}
