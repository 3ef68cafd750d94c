package handlers

import (
	"net/http"
	"strings"

	"curator/internal/api/middleware"
	"curator/internal/logger"
	"curator/internal/models"
	"curator/internal/services/attributes"
	"curator/internal/services/variants"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VariantHandler struct {
	db        *gorm.DB
	log       *logger.Logger
	attrs     *attributes.Service
	generator *variants.Generator
}

func NewVariantHandler(db *gorm.DB, log *logger.Logger, attrs *attributes.Service, generator *variants.Generator) *VariantHandler {
	return &VariantHandler{db: db, log: log, attrs: attrs, generator: generator}
}

func (h *VariantHandler) List(c *gin.Context) {
	productID := c.Param("id")
	if err := h.attrs.AuthorizeProduct(c.Request.Context(), middleware.CurrentUserID(c), productID); err != nil {
		respondServiceError(c, err)
		return
	}

	var list []models.ProductVariant
	if err := h.db.Where("product_id = ?", productID).Order("created_at ASC").Find(&list).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch variants")
		return
	}

	respondOK(c, http.StatusOK, list)
}

type variantInput struct {
	SKU        string                 `json:"sku" binding:"required"`
	Price      float64                `json:"price"`
	Stock      int                    `json:"stock"`
	Attributes map[string]interface{} `json:"attributes"`
}

func (h *VariantHandler) Create(c *gin.Context) {
	productID := c.Param("id")
	ctx := c.Request.Context()

	if err := h.attrs.AuthorizeProduct(ctx, middleware.CurrentUserID(c), productID); err != nil {
		respondServiceError(c, err)
		return
	}

	var in variantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if res := h.attrs.ValidateValues(ctx, productID, in.Attributes); !res.Valid {
		respondError(c, http.StatusBadRequest, strings.Join(res.Errors, "; "))
		return
	}

	variant := models.ProductVariant{
		ProductID:  productID,
		SKU:        in.SKU,
		Price:      in.Price,
		Stock:      in.Stock,
		Attributes: in.Attributes,
	}
	if err := h.db.Create(&variant).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create variant")
		return
	}

	respondOK(c, http.StatusCreated, variant)
}

func (h *VariantHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var variant models.ProductVariant
	err := h.db.First(&variant, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "variant not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch variant")
		return
	}
	if err := h.attrs.AuthorizeProduct(ctx, middleware.CurrentUserID(c), variant.ProductID); err != nil {
		respondServiceError(c, err)
		return
	}

	var in struct {
		SKU        *string                `json:"sku"`
		Price      *float64               `json:"price"`
		Stock      *int                   `json:"stock"`
		Attributes map[string]interface{} `json:"attributes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.SKU != nil {
		variant.SKU = *in.SKU
	}
	if in.Price != nil {
		variant.Price = *in.Price
	}
	if in.Stock != nil {
		variant.Stock = *in.Stock
	}
	if in.Attributes != nil {
		if res := h.attrs.ValidateValues(ctx, variant.ProductID, in.Attributes); !res.Valid {
			respondError(c, http.StatusBadRequest, strings.Join(res.Errors, "; "))
			return
		}
		variant.Attributes = in.Attributes
	}

	if err := h.db.Save(&variant).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update variant")
		return
	}

	respondOK(c, http.StatusOK, variant)
}

func (h *VariantHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	var variant models.ProductVariant
	err := h.db.First(&variant, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "variant not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch variant")
		return
	}
	if err := h.attrs.AuthorizeProduct(ctx, middleware.CurrentUserID(c), variant.ProductID); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.db.Delete(&models.ProductVariant{}, "id = ?", variant.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete variant")
		return
	}

	c.Status(http.StatusNoContent)
}

// Generate materializes one variant per missing attribute combination.
func (h *VariantHandler) Generate(c *gin.Context) {
	var in variants.GenerateInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	created, err := h.generator.Generate(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, created)
}
