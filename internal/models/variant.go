package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductVariant is a concrete purchasable configuration of a product. Its
// Attributes map assigns one value per attribute key.
type ProductVariant struct {
	ID         string            `json:"id" gorm:"type:uuid;primary_key"`
	ProductID  string            `json:"product_id" gorm:"not null;index"`
	SKU        string            `json:"sku" gorm:"not null"`
	Price      float64           `json:"price" gorm:"type:decimal(10,2)"`
	Stock      int               `json:"stock"`
	Attributes datatypes.JSONMap `json:"attributes"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// AttributeValue returns the variant's value for an attribute key in string
// form, and whether the key is set at all.
func (v *ProductVariant) AttributeValue(key string) (string, bool) {
	raw, ok := v.Attributes[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
