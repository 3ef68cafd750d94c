package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	CatalogID   string    `json:"catalog_id" gorm:"not null;index"`
	SKU         string    `json:"sku" gorm:"unique;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2)"`
	Currency    string    `json:"currency" gorm:"default:USD"`
	Status      string    `json:"status" gorm:"default:DRAFT"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
