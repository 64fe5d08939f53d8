package models

import (
	"time"

	"github.com/google/uuid"
)

// LowStockRule overrides the global low-stock threshold for a single product.
type LowStockRule struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Product   Product
	MinQty    int `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
