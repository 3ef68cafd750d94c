// Package validation re-checks variant attribute maps against the product's
// attribute schemas after out-of-band writes.
package validation

import (
	"context"
	"errors"
	"strings"

	"curator/internal/database"
	"curator/internal/logger"
	"curator/internal/models"
	"curator/internal/services/attributes"

	"gorm.io/gorm"
)

type Validator struct {
	logger *logger.Logger
	db     *database.Database
	attrs  *attributes.Service
}

func New(log *logger.Logger, db *database.Database) *Validator {
	return &Validator{
		logger: log,
		db:     db,
		attrs:  attributes.NewService(db.DB, log),
	}
}

// ValidateVariant checks one variant, or every variant of the product when no
// variant id is given. Violations are reported, not repaired.
func (v *Validator) ValidateVariant(ctx context.Context, productID, variantID string) error {
	var variants []models.ProductVariant

	query := v.db.DB.WithContext(ctx).Where("product_id = ?", productID)
	if variantID != "" {
		query = query.Where("id = ?", variantID)
	}
	if err := query.Find(&variants).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	for _, variant := range variants {
		result := v.attrs.ValidateValues(ctx, productID, variant.Attributes)
		if result.Valid {
			continue
		}
		v.logger.Warn("variant %s violates the attribute schema of product %s: %s",
			variant.ID, productID, strings.Join(result.Errors, "; "))
	}
	return nil
}
