package handlers

import (
	"net/http"

	"curator/internal/api/middleware"
	"curator/internal/logger"
	"curator/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BrandHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBrandHandler(db *gorm.DB, log *logger.Logger) *BrandHandler {
	return &BrandHandler{db: db, log: log}
}

func (h *BrandHandler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var brands []models.Brand
	if err := h.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&brands).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch brands")
		return
	}

	respondOK(c, http.StatusOK, brands)
}

func (h *BrandHandler) Get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var brand models.Brand
	err := h.db.First(&brand, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "brand not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch brand")
		return
	}

	respondOK(c, http.StatusOK, brand)
}

type brandInput struct {
	Name    string  `json:"name" binding:"required"`
	Slug    string  `json:"slug" binding:"required"`
	LogoURL *string `json:"logo_url"`
}

func (h *BrandHandler) Create(c *gin.Context) {
	var in brandInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	brand := models.Brand{
		UserID:  middleware.CurrentUserID(c),
		Name:    in.Name,
		Slug:    in.Slug,
		LogoURL: in.LogoURL,
	}
	if err := h.db.Create(&brand).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create brand")
		return
	}

	respondOK(c, http.StatusCreated, brand)
}

func (h *BrandHandler) Update(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var brand models.Brand
	err := h.db.First(&brand, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusNotFound, "brand not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch brand")
		return
	}

	var in brandInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	brand.Name = in.Name
	brand.Slug = in.Slug
	brand.LogoURL = in.LogoURL

	if err := h.db.Save(&brand).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update brand")
		return
	}

	respondOK(c, http.StatusOK, brand)
}

func (h *BrandHandler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	id := c.Param("id")

	var catalogs int64
	if err := h.db.Model(&models.ProductCatalog{}).Where("brand_id = ?", id).Count(&catalogs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check brand usage")
		return
	}
	if catalogs > 0 {
		respondError(c, http.StatusConflict, "brand still has catalogs")
		return
	}

	res := h.db.Delete(&models.Brand{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete brand")
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "brand not found")
		return
	}

	c.Status(http.StatusNoContent)
}
