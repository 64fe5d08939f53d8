package models

import (
	"time"

	"github.com/google/uuid"
)

type StockLogType string

const (
	StockLogIn  StockLogType = "IN"
	StockLogOut StockLogType = "OUT"
)

// StockLogSourceScan tags quantity changes that originate from the scan flow.
const StockLogSourceScan = "scan"

// StockLog is the append-only audit trail of quantity changes. Rows are never
// updated or deleted; they record the requested qty even when the resulting
// quantity was clamped at zero.
type StockLog struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	Product   Product
	Type      StockLogType `gorm:"size:3;not null"`
	Qty       int          `gorm:"not null"`
	Source    string       `gorm:"size:32;not null"`
	CreatedAt time.Time
}
