package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock holds the current on-hand quantity for a product. One row per
// product, mutated only through the adjustment service.
type Stock struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Product   Product
	Quantity  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
