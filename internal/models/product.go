package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_products_user_sku"`
	User      User
	Name      string  `gorm:"size:100;not null"`
	SKU       *string `gorm:"size:64;uniqueIndex:idx_products_user_sku"` // natural key for upsert matching, immutable once set; nil when the product has none
	Category  string  `gorm:"size:64;not null"`
	Brand     string  `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SKUValue returns the product's SKU, or "" when it has none.
func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}
