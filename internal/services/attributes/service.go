// Package attributes owns the lifecycle of per-product attribute schemas and
// guards mutations against concurrent variant usage.
package attributes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"curator/internal/logger"
	"curator/internal/models"
	"curator/internal/services/combinations"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(db *gorm.DB, log *logger.Logger) *Service {
	return &Service{db: db, log: log}
}

type CreateInput struct {
	ProductID         string                   `json:"product_id"`
	Key               string                   `json:"key"`
	Label             string                   `json:"label"`
	Type              models.AttributeType     `json:"type"`
	Options           []models.AttributeOption `json:"options"`
	DefaultValue      json.RawMessage          `json:"default_value"`
	IsRequired        bool                     `json:"is_required"`
	IsVariantDefining *bool                    `json:"is_variant_defining"`
	ValidationRules   json.RawMessage          `json:"validation_rules"`
	HelpText          *string                  `json:"help_text"`
	SortOrder         int                      `json:"sort_order"`
}

// Create adds a new attribute schema to a product. The key must be unique
// within the product; IsVariantDefining defaults to true when omitted.
func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (*models.AttributeSchema, error) {
	if err := s.AuthorizeProduct(ctx, actorID, in.ProductID); err != nil {
		return nil, err
	}
	if in.Key == "" {
		return nil, fmt.Errorf("%w: attribute key is required", ErrConflict)
	}
	if dup := duplicateOptionValue(in.Options); dup != "" {
		return nil, fmt.Errorf("%w: duplicate option value %q", ErrConflict, dup)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.AttributeSchema{}).
		Where("product_id = ? AND attribute_key = ?", in.ProductID, in.Key).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: attribute %q already exists for this product", ErrConflict, in.Key)
	}

	variantDefining := true
	if in.IsVariantDefining != nil {
		variantDefining = *in.IsVariantDefining
	}
	options := in.Options
	if options == nil {
		options = []models.AttributeOption{}
	}

	schema := &models.AttributeSchema{
		ProductID:         in.ProductID,
		Key:               in.Key,
		Label:             in.Label,
		Type:              in.Type,
		Options:           datatypes.NewJSONSlice(options),
		DefaultValue:      datatypes.JSON(in.DefaultValue),
		IsRequired:        in.IsRequired,
		IsVariantDefining: variantDefining,
		ValidationRules:   datatypes.JSON(in.ValidationRules),
		HelpText:          in.HelpText,
		SortOrder:         in.SortOrder,
	}
	if err := s.db.WithContext(ctx).Create(schema).Error; err != nil {
		return nil, err
	}
	return schema, nil
}

type UpdateInput struct {
	ProductID         *string                   `json:"product_id"`
	Key               *string                   `json:"key"`
	Label             *string                   `json:"label"`
	Type              *models.AttributeType     `json:"type"`
	Options           *[]models.AttributeOption `json:"options"`
	DefaultValue      json.RawMessage           `json:"default_value"`
	IsRequired        *bool                     `json:"is_required"`
	IsVariantDefining *bool                     `json:"is_variant_defining"`
	ValidationRules   json.RawMessage           `json:"validation_rules"`
	HelpText          *string                   `json:"help_text"`
	SortOrder         *int                      `json:"sort_order"`
}

// Update applies a partial update. When the key or the owning product
// changes, key uniqueness is re-checked against the target product, excluding
// the record itself.
func (s *Service) Update(ctx context.Context, actorID, id string, in UpdateInput) (*models.AttributeSchema, error) {
	schema, err := s.getSchema(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeProduct(ctx, actorID, schema.ProductID); err != nil {
		return nil, err
	}

	targetProduct := schema.ProductID
	if in.ProductID != nil && *in.ProductID != schema.ProductID {
		if err := s.AuthorizeProduct(ctx, actorID, *in.ProductID); err != nil {
			return nil, err
		}
		targetProduct = *in.ProductID
	}
	targetKey := schema.Key
	if in.Key != nil {
		targetKey = *in.Key
	}

	if targetKey != schema.Key || targetProduct != schema.ProductID {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.AttributeSchema{}).
			Where("product_id = ? AND attribute_key = ? AND id <> ?", targetProduct, targetKey, schema.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: attribute %q already exists for this product", ErrConflict, targetKey)
		}
	}

	schema.ProductID = targetProduct
	schema.Key = targetKey
	if in.Label != nil {
		schema.Label = *in.Label
	}
	if in.Type != nil {
		schema.Type = *in.Type
	}
	if in.Options != nil {
		if dup := duplicateOptionValue(*in.Options); dup != "" {
			return nil, fmt.Errorf("%w: duplicate option value %q", ErrConflict, dup)
		}
		schema.Options = datatypes.NewJSONSlice(*in.Options)
	}
	if in.DefaultValue != nil {
		schema.DefaultValue = datatypes.JSON(in.DefaultValue)
	}
	if in.IsRequired != nil {
		schema.IsRequired = *in.IsRequired
	}
	if in.IsVariantDefining != nil {
		schema.IsVariantDefining = *in.IsVariantDefining
	}
	if in.ValidationRules != nil {
		schema.ValidationRules = datatypes.JSON(in.ValidationRules)
	}
	if in.HelpText != nil {
		schema.HelpText = in.HelpText
	}
	if in.SortOrder != nil {
		schema.SortOrder = *in.SortOrder
	}

	if err := s.db.WithContext(ctx).Save(schema).Error; err != nil {
		return nil, err
	}
	return schema, nil
}

// Delete removes an attribute schema unless any variant of the product still
// carries its key in the variant attribute map.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	schema, err := s.getSchema(ctx, id)
	if err != nil {
		return err
	}
	if err := s.AuthorizeProduct(ctx, actorID, schema.ProductID); err != nil {
		return err
	}

	inUse, err := s.keyInUse(ctx, schema.ProductID, schema.Key)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: attribute %q is in use by existing variants", ErrConflict, schema.Key)
	}

	return s.db.WithContext(ctx).Delete(&models.AttributeSchema{}, "id = ?", id).Error
}

// List returns a product's attribute schemas ordered by sort order, creation
// time breaking ties. Store failures degrade to an empty result.
func (s *Service) List(ctx context.Context, productID string) []models.AttributeSchema {
	var schemas []models.AttributeSchema
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&schemas).Error; err != nil {
		s.log.Error("listing attribute schemas for product %s: %v", productID, err)
		return []models.AttributeSchema{}
	}
	return schemas
}

// GetByID returns the schema or nil when it does not exist. Store failures
// degrade to nil.
func (s *Service) GetByID(ctx context.Context, id string) *models.AttributeSchema {
	var schema models.AttributeSchema
	err := s.db.WithContext(ctx).First(&schema, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		s.log.Error("fetching attribute schema %s: %v", id, err)
		return nil
	}
	return &schema
}

type ReorderItem struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// ReorderBulk applies the sort-order updates concurrently and reports failure
// if any single update fails. Already-applied updates are not rolled back.
func (s *Service) ReorderBulk(ctx context.Context, actorID string, items []ReorderItem) error {
	var g errgroup.Group
	for _, item := range items {
		item := item
		g.Go(func() error {
			schema, err := s.getSchema(ctx, item.ID)
			if err != nil {
				return err
			}
			if err := s.AuthorizeProduct(ctx, actorID, schema.ProductID); err != nil {
				return err
			}
			return s.db.WithContext(ctx).Model(&models.AttributeSchema{}).
				Where("id = ?", item.ID).
				Update("sort_order", item.SortOrder).Error
		})
	}
	return g.Wait()
}

// AddOption appends an option to a schema; the value must not already exist.
func (s *Service) AddOption(ctx context.Context, actorID, attributeID string, opt models.AttributeOption) (*models.AttributeSchema, error) {
	schema, err := s.getSchema(ctx, attributeID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeProduct(ctx, actorID, schema.ProductID); err != nil {
		return nil, err
	}
	if schema.HasOption(opt.Value) {
		return nil, fmt.Errorf("%w: option %q already exists on attribute %q", ErrConflict, opt.Value, schema.Key)
	}

	schema.Options = append(schema.Options, opt)
	if err := s.db.WithContext(ctx).Save(schema).Error; err != nil {
		return nil, err
	}
	return schema, nil
}

// RemoveOption removes an option unless some variant currently assigns that
// value to the attribute's key.
func (s *Service) RemoveOption(ctx context.Context, actorID, attributeID, value string) (*models.AttributeSchema, error) {
	schema, err := s.getSchema(ctx, attributeID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeProduct(ctx, actorID, schema.ProductID); err != nil {
		return nil, err
	}

	idx := -1
	for i, opt := range schema.Options {
		if opt.Value == value {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: option %q on attribute %q", ErrNotFound, value, schema.Key)
	}

	inUse, err := s.optionInUse(ctx, schema.ProductID, schema.Key, value)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, fmt.Errorf("%w: option %q is in use by existing variants", ErrConflict, value)
	}

	schema.Options = append(schema.Options[:idx], schema.Options[idx+1:]...)
	if err := s.db.WithContext(ctx).Save(schema).Error; err != nil {
		return nil, err
	}
	return schema, nil
}

// CombinableOptions returns one axis per variant-defining attribute, in list
// order, each carrying the attribute's option values. The result feeds the
// combination generator directly. Store failures degrade to an empty result.
func (s *Service) CombinableOptions(ctx context.Context, productID string) []combinations.Axis {
	schemas := s.List(ctx, productID)
	axes := make([]combinations.Axis, 0, len(schemas))
	for _, schema := range schemas {
		if !schema.IsVariantDefining {
			continue
		}
		axes = append(axes, combinations.Axis{Key: schema.Key, Values: schema.OptionValues()})
	}
	return axes
}

// AuthorizeProduct walks product -> catalog -> brand -> user and compares the
// owner against the actor. A broken chain and a mismatch both come back as
// ErrAccessDenied; the distinction is only logged.
func (s *Service) AuthorizeProduct(ctx context.Context, actorID, productID string) error {
	if actorID == "" {
		return ErrAccessDenied
	}

	var ownerID string
	err := s.db.WithContext(ctx).
		Table("products").
		Select("brands.user_id").
		Joins("JOIN product_catalogs ON product_catalogs.id = products.catalog_id").
		Joins("JOIN brands ON brands.id = product_catalogs.brand_id").
		Where("products.id = ?", productID).
		Scan(&ownerID).Error
	if err != nil {
		return err
	}
	if ownerID == "" {
		s.log.Debug("ownership chain incomplete for product %s", productID)
		return ErrAccessDenied
	}
	if ownerID != actorID {
		s.log.Debug("actor %s does not own product %s", actorID, productID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) getSchema(ctx context.Context, id string) (*models.AttributeSchema, error) {
	var schema models.AttributeSchema
	err := s.db.WithContext(ctx).First(&schema, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: attribute schema %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

// keyInUse reports whether any variant of the product has the attribute key
// set in its attribute map. The JSON maps are scanned in Go to stay portable
// across postgres and sqlite.
func (s *Service) keyInUse(ctx context.Context, productID, key string) (bool, error) {
	variants, err := s.productVariants(ctx, productID)
	if err != nil {
		return false, err
	}
	for _, v := range variants {
		if _, ok := v.Attributes[key]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) optionInUse(ctx context.Context, productID, key, value string) (bool, error) {
	variants, err := s.productVariants(ctx, productID)
	if err != nil {
		return false, err
	}
	for _, v := range variants {
		if got, ok := v.AttributeValue(key); ok && got == value {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) productVariants(ctx context.Context, productID string) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := s.db.WithContext(ctx).
		Select("id", "product_id", "attributes").
		Where("product_id = ?", productID).
		Find(&variants).Error
	return variants, err
}

func duplicateOptionValue(options []models.AttributeOption) string {
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		if seen[opt.Value] {
			return opt.Value
		}
		seen[opt.Value] = true
	}
	return ""
}
