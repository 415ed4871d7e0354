package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductImage is the curated metadata attached to a normalized item name:
// an optional image, an optional admin-overridden display name, and a unit
// cost. Created lazily the first time an admin attaches any of the three,
// updated in place, never auto-deleted. A missing row is expected
// steady-state for most items, not an error.
type ProductImage struct {
	ID                 uint    `gorm:"primaryKey"`
	NormalizedItemName string  `gorm:"uniqueIndex;not null"`
	ImageURL           *string
	ThumbnailURL       *string
	Description        *string
	UnitCost           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
