package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductCatalog groups products under one brand.
type ProductCatalog struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	BrandID     string    `json:"brand_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProductCatalog) TableName() string {
	return "product_catalogs"
}

func (pc *ProductCatalog) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == "" {
		pc.ID = uuid.New().String()
	}
	return nil
}
