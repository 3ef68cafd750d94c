package handlers

import (
	"net/http"

	"curator/internal/api/middleware"
	"curator/internal/logger"
	"curator/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogHandler(db *gorm.DB, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{db: db, log: log}
}

func ownedCatalogs(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.ProductCatalog{}).
		Select("product_catalogs.*").
		Joins("JOIN brands ON brands.id = product_catalogs.brand_id").
		Where("brands.user_id = ?", userID)
}

func (h *CatalogHandler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	query := ownedCatalogs(h.db, userID)
	if brandID := c.Query("brand_id"); brandID != "" {
		query = query.Where("product_catalogs.brand_id = ?", brandID)
	}

	var catalogs []models.ProductCatalog
	if err := query.Order("product_catalogs.created_at ASC").Find(&catalogs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch catalogs")
		return
	}

	respondOK(c, http.StatusOK, catalogs)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var catalog models.ProductCatalog
	err := ownedCatalogs(h.db, userID).Where("product_catalogs.id = ?", c.Param("id")).First(&catalog).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "catalog not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch catalog")
		return
	}

	respondOK(c, http.StatusOK, catalog)
}

type catalogInput struct {
	BrandID     string  `json:"brand_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

func (h *CatalogHandler) Create(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var in catalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var owned int64
	if err := h.db.Model(&models.Brand{}).Where("id = ? AND user_id = ?", in.BrandID, userID).Count(&owned).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check brand ownership")
		return
	}
	if owned == 0 {
		respondError(c, http.StatusForbidden, "access denied")
		return
	}

	catalog := models.ProductCatalog{BrandID: in.BrandID, Name: in.Name, Description: in.Description}
	if err := h.db.Create(&catalog).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create catalog")
		return
	}

	respondOK(c, http.StatusCreated, catalog)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var catalog models.ProductCatalog
	err := ownedCatalogs(h.db, userID).Where("product_catalogs.id = ?", c.Param("id")).First(&catalog).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "catalog not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch catalog")
		return
	}

	var in struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.Name != nil {
		catalog.Name = *in.Name
	}
	if in.Description != nil {
		catalog.Description = in.Description
	}

	if err := h.db.Save(&catalog).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update catalog")
		return
	}

	respondOK(c, http.StatusOK, catalog)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	id := c.Param("id")

	var catalog models.ProductCatalog
	err := ownedCatalogs(h.db, userID).Where("product_catalogs.id = ?", id).First(&catalog).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "catalog not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch catalog")
		return
	}

	var products int64
	if err := h.db.Model(&models.Product{}).Where("catalog_id = ?", id).Count(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check catalog usage")
		return
	}
	if products > 0 {
		respondError(c, http.StatusConflict, "catalog still has products")
		return
	}

	if err := h.db.Delete(&models.ProductCatalog{}, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete catalog")
		return
	}

	c.Status(http.StatusNoContent)
}
