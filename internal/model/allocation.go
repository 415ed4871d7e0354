package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation assigns a quantity of one inventory item to an owner. Multiple
// rows may exist per item (one per owner). The sum of allocations for an
// item should not exceed its available quantity, but that is soft-enforced:
// bulk import reports violations as warnings, it does not reject them.
type Allocation struct {
	ID                 uint            `gorm:"primaryKey"`
	NormalizedItemName string          `gorm:"index;not null"`
	Owner              string          `gorm:"index;not null"`
	AllocatedQuantity  int             `gorm:"not null"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// SourceItemName is the display name the allocation was created under
	// (spreadsheet cell or dashboard input), kept for reconciliation.
	SourceItemName string `gorm:"not null"`
	CreatedAt      time.Time
}
