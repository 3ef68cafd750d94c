// Package variants materializes product variants from attribute combinations.
package variants

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"curator/internal/events"
	"curator/internal/logger"
	"curator/internal/models"
	"curator/internal/services/attributes"
	"curator/internal/services/combinations"

	"gorm.io/gorm"
)

type Generator struct {
	db        *gorm.DB
	log       *logger.Logger
	attrs     *attributes.Service
	publisher *events.Publisher
}

func NewGenerator(db *gorm.DB, log *logger.Logger, attrs *attributes.Service, publisher *events.Publisher) *Generator {
	return &Generator{db: db, log: log, attrs: attrs, publisher: publisher}
}

type GenerateInput struct {
	BasePrice float64 `json:"base_price"`
	SKUPrefix string  `json:"sku_prefix"`
}

// Generate creates one variant per attribute combination not yet present on
// the product. Combinations already covered by an existing variant are left
// untouched, so the call is safe to repeat.
func (g *Generator) Generate(ctx context.Context, actorID, productID string, in GenerateInput) ([]models.ProductVariant, error) {
	if err := g.attrs.AuthorizeProduct(ctx, actorID, productID); err != nil {
		return nil, err
	}

	axes := g.attrs.CombinableOptions(ctx, productID)
	if len(axes) == 0 {
		return nil, fmt.Errorf("%w: product has no variant-defining attributes", attributes.ErrConflict)
	}

	prefix := in.SKUPrefix
	if prefix == "" {
		var product models.Product
		if err := g.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
			return nil, err
		}
		prefix = product.SKU
	}

	var existing []models.ProductVariant
	if err := g.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	covered := make(map[string]bool, len(existing))
	for _, v := range existing {
		covered[signature(v.Attributes)] = true
	}

	var created []models.ProductVariant
	for _, combo := range combinations.Generate(axes) {
		attrs := make(map[string]interface{}, len(combo))
		for k, v := range combo {
			attrs[k] = v
		}
		if covered[signature(attrs)] {
			continue
		}
		created = append(created, models.ProductVariant{
			ProductID:  productID,
			SKU:        variantSKU(prefix, axes, combo),
			Price:      in.BasePrice,
			Attributes: attrs,
		})
	}
	if len(created) == 0 {
		return []models.ProductVariant{}, nil
	}

	if err := g.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}

	for _, v := range created {
		g.publisher.Publish(ctx, events.Event{
			Type:      events.TypeVariantGenerated,
			ProductID: productID,
			Data:      map[string]interface{}{"variant_id": v.ID, "sku": v.SKU},
		})
	}
	g.log.Info("generated %d variants for product %s", len(created), productID)
	return created, nil
}

// signature canonicalizes an attribute map for duplicate detection.
func signature(attrs map[string]interface{}) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%s=%v", k, attrs[k])
	}
	return b.String()
}

var skuSanitizer = regexp.MustCompile(`[^A-Z0-9]+`)

func variantSKU(prefix string, axes []combinations.Axis, combo combinations.Combination) string {
	parts := []string{prefix}
	for _, ax := range axes {
		part := skuSanitizer.ReplaceAllString(strings.ToUpper(combo[ax.Key]), "")
		if part == "" {
			part = "X"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "-")
}
