package attributes

import (
	"context"
	"fmt"

	"curator/internal/models"

	"gorm.io/datatypes"
)

// ValidationResult reports whether a candidate attribute-value map satisfies
// a product's attribute schemas, with one message per violation.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateValues checks a value map against the product's schemas: required
// keys must be present, keys must be defined, and values must match the
// attribute type (and option set for selection-style attributes).
func (s *Service) ValidateValues(ctx context.Context, productID string, values map[string]interface{}) ValidationResult {
	schemas := s.List(ctx, productID)
	byKey := make(map[string]models.AttributeSchema, len(schemas))
	for _, schema := range schemas {
		byKey[schema.Key] = schema
	}

	var problems []string
	for _, schema := range schemas {
		if _, ok := values[schema.Key]; schema.IsRequired && !ok {
			problems = append(problems, fmt.Sprintf("missing required attribute %q", schema.Key))
		}
	}
	for key, value := range values {
		schema, ok := byKey[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown attribute %q", key))
			continue
		}
		if msg := checkValue(schema, value); msg != "" {
			problems = append(problems, msg)
		}
	}

	return ValidationResult{Valid: len(problems) == 0, Errors: problems}
}

func checkValue(schema models.AttributeSchema, value interface{}) string {
	switch schema.Type {
	case models.AttributeTypeSelect, models.AttributeTypeColor:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("attribute %q expects a string value", schema.Key)
		}
		if len(schema.Options) > 0 && !schema.HasOption(s) {
			return fmt.Sprintf("value %q is not an option of attribute %q", s, schema.Key)
		}
	case models.AttributeTypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
		default:
			return fmt.Sprintf("attribute %q expects a numeric value", schema.Key)
		}
	case models.AttributeTypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("attribute %q expects a boolean value", schema.Key)
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("attribute %q expects a string value", schema.Key)
		}
	}
	return ""
}

// ProductSchema is the assembled description of a product's attribute
// schemas, shaped for UI consumption.
type ProductSchema struct {
	ProductID  string           `json:"product_id"`
	Attributes []AttributeField `json:"attributes"`
}

type AttributeField struct {
	Key               string                   `json:"key"`
	Label             string                   `json:"label"`
	Type              models.AttributeType     `json:"type"`
	Options           []models.AttributeOption `json:"options"`
	DefaultValue      datatypes.JSON           `json:"default_value,omitempty"`
	IsRequired        bool                     `json:"is_required"`
	IsVariantDefining bool                     `json:"is_variant_defining"`
	ValidationRules   datatypes.JSON           `json:"validation_rules,omitempty"`
	HelpText          *string                  `json:"help_text,omitempty"`
	SortOrder         int                      `json:"sort_order"`
}

// GetProductSchema returns the schema blob for a product, attributes in list
// order. Store failures degrade to an empty attribute list.
func (s *Service) GetProductSchema(ctx context.Context, productID string) ProductSchema {
	schemas := s.List(ctx, productID)
	fields := make([]AttributeField, 0, len(schemas))
	for _, schema := range schemas {
		fields = append(fields, AttributeField{
			Key:               schema.Key,
			Label:             schema.Label,
			Type:              schema.Type,
			Options:           schema.Options,
			DefaultValue:      schema.DefaultValue,
			IsRequired:        schema.IsRequired,
			IsVariantDefining: schema.IsVariantDefining,
			ValidationRules:   schema.ValidationRules,
			HelpText:          schema.HelpText,
			SortOrder:         schema.SortOrder,
		})
	}
	return ProductSchema{ProductID: productID, Attributes: fields}
}
