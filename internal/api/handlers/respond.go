package handlers

import (
	"errors"
	"net/http"

	"curator/internal/services/attributes"

	"github.com/gin-gonic/gin"
)

// Every response carries the same envelope: {success:true, data} on success,
// {success:false, error} on failure. Nothing else crosses the boundary.

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// respondServiceError translates service errors. Access denial stays generic
// on purpose: record existence must not leak through error variants.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attributes.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "access denied")
	case errors.Is(err, attributes.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, attributes.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
