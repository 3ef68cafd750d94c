package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttributeSchema defines one customizable property of a product, e.g.
// "color" with options red/blue. The key is unique within a product.
type AttributeSchema struct {
	ID                string                               `json:"id" gorm:"type:uuid;primary_key"`
	ProductID         string                               `json:"product_id" gorm:"not null;uniqueIndex:uniq_product_attribute_key"`
	Key               string                               `json:"key" gorm:"column:attribute_key;not null;uniqueIndex:uniq_product_attribute_key"`
	Label             string                               `json:"label" gorm:"column:attribute_label;not null"`
	Type              AttributeType                        `json:"type" gorm:"column:attribute_type;not null"`
	Options           datatypes.JSONSlice[AttributeOption] `json:"options"`
	DefaultValue      datatypes.JSON                       `json:"default_value"`
	IsRequired        bool                                 `json:"is_required"`
	IsVariantDefining bool                                 `json:"is_variant_defining"`
	ValidationRules   datatypes.JSON                       `json:"validation_rules"`
	HelpText          *string                              `json:"help_text"`
	SortOrder         int                                  `json:"sort_order"`
	CreatedAt         time.Time                            `json:"created_at"`
	UpdatedAt         time.Time                            `json:"updated_at"`
}

// AttributeOption is one selectable value of a selection-style attribute.
// Value is unique within a schema's option list.
type AttributeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type AttributeType string

const (
	AttributeTypeText    AttributeType = "text"
	AttributeTypeSelect  AttributeType = "select"
	AttributeTypeNumber  AttributeType = "number"
	AttributeTypeBoolean AttributeType = "boolean"
	AttributeTypeColor   AttributeType = "color"
)

func (AttributeSchema) TableName() string {
	return "product_attribute_schemas"
}

func (s *AttributeSchema) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// HasOption reports whether the schema carries an option with the given value.
func (s *AttributeSchema) HasOption(value string) bool {
	for _, opt := range s.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// OptionValues returns the option values in their stored order.
func (s *AttributeSchema) OptionValues() []string {
	values := make([]string, 0, len(s.Options))
	for _, opt := range s.Options {
		values = append(values, opt.Value)
	}
	return values
}
