package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one ingested marketplace sale line item. Append-mostly:
// immutable after ingestion except for explicit admin corrections (quantity
// edit, deletion). OrderID is the natural key enforcing at-most-once
// ingestion. ListingTitle stores the raw title (whitespace-collapsed only) —
// semantic normalization is recomputed at query time, never persisted.
type Transaction struct {
	ID                     uint    `gorm:"primaryKey"`
	OrderID                string  `gorm:"uniqueIndex;not null"`
	ListingTitle           string  `gorm:"index;not null"`
	ListingDescription     *string
	ProductCategory        *string
	BuyFormat              *string
	SaleType               *string
	QuantitySold           int             `gorm:"not null;default:1"`
	TransactionAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	BuyerPaid              decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	OriginalItemPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TransactionType        string          `gorm:"not null"`
	BuyerName              *string         `gorm:"index"`
	BuyerState             *string
	BuyerCountry           *string
	OrderPlacedAt          *time.Time
	TransactionCompletedAt *time.Time
	SourceFile             string `gorm:"not null"`
	// IsSale is computed once at ingestion time and never recomputed.
	IsSale    bool `gorm:"not null;default:true;index"`
	CreatedAt time.Time
}
