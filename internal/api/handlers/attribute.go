package handlers

import (
	"net/http"
	"strconv"

	"curator/internal/api/middleware"
	"curator/internal/logger"
	"curator/internal/models"
	"curator/internal/services/attributes"
	"curator/internal/services/combinations"

	"github.com/gin-gonic/gin"
)

type AttributeHandler struct {
	svc *attributes.Service
	log *logger.Logger
}

func NewAttributeHandler(svc *attributes.Service, log *logger.Logger) *AttributeHandler {
	return &AttributeHandler{svc: svc, log: log}
}

// List returns a product's attribute schemas in display order. The result is
// empty both when the product has none and when the lookup failed.
func (h *AttributeHandler) List(c *gin.Context) {
	schemas := h.svc.List(c.Request.Context(), c.Param("id"))
	respondOK(c, http.StatusOK, schemas)
}

func (h *AttributeHandler) Create(c *gin.Context) {
	var in attributes.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	in.ProductID = c.Param("id")

	schema, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, schema)
}

// Get renders data:null for an unknown id instead of an error.
func (h *AttributeHandler) Get(c *gin.Context) {
	schema := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	respondOK(c, http.StatusOK, schema)
}

func (h *AttributeHandler) Update(c *gin.Context) {
	var in attributes.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	schema, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, schema)
}

func (h *AttributeHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

func (h *AttributeHandler) Reorder(c *gin.Context) {
	var items []attributes.ReorderItem
	if err := c.ShouldBindJSON(&items); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.ReorderBulk(c.Request.Context(), middleware.CurrentUserID(c), items); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

func (h *AttributeHandler) AddOption(c *gin.Context) {
	var opt models.AttributeOption
	if err := c.ShouldBindJSON(&opt); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	schema, err := h.svc.AddOption(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), opt)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, schema)
}

func (h *AttributeHandler) RemoveOption(c *gin.Context) {
	schema, err := h.svc.RemoveOption(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), c.Param("value"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, schema)
}

func (h *AttributeHandler) CombinableOptions(c *gin.Context) {
	axes := h.svc.CombinableOptions(c.Request.Context(), c.Param("id"))
	respondOK(c, http.StatusOK, axes)
}

// Combinations previews the Cartesian product of a product's variant-defining
// attributes. ?limit= caps the enumeration without changing its order.
func (h *AttributeHandler) Combinations(c *gin.Context) {
	axes := h.svc.CombinableOptions(c.Request.Context(), c.Param("id"))
	total := combinations.Count(axes)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	combos := make([]combinations.Combination, 0, total)
	combinations.Each(axes, func(combo combinations.Combination) bool {
		combos = append(combos, combo)
		return limit <= 0 || len(combos) < limit
	})

	respondOK(c, http.StatusOK, gin.H{
		"total":        total,
		"combinations": combos,
	})
}

func (h *AttributeHandler) ValidateValues(c *gin.Context) {
	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result := h.svc.ValidateValues(c.Request.Context(), c.Param("id"), values)
	respondOK(c, http.StatusOK, result)
}

func (h *AttributeHandler) ProductSchema(c *gin.Context) {
	blob := h.svc.GetProductSchema(c.Request.Context(), c.Param("id"))
	respondOK(c, http.StatusOK, blob)
}
