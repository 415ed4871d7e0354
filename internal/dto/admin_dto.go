package dto

import "github.com/shopspring/decimal"

// ─── Transaction corrections ─────────────────────────────────────────────────

// UpdateQuantityRequest sets the total quantity for every transaction
// grouping under a normalized item name.
type UpdateQuantityRequest struct {
	ItemName string `json:"item_name" validate:"required"`
	Quantity int    `json:"quantity"  validate:"min=0"`
}

// DeleteItemRequest removes all transactions grouping under a normalized
// item name.
type DeleteItemRequest struct {
	ItemName string `json:"item_name" validate:"required"`
}

// AddItemRequest adds inventory manually, outside any export file. Creates a
// synthetic sale transaction and upserts curated metadata in one operation.
type AddItemRequest struct {
	Name     string          `json:"name"      validate:"required"`
	Quantity int             `json:"quantity"  validate:"min=1"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	ImageURL *string         `json:"image_url"`
}

// ─── Curated metadata ────────────────────────────────────────────────────────

// UpdateImageRequest sets (or clears, when nil) the image for a normalized
// item name, lazily creating the metadata row.
type UpdateImageRequest struct {
	NormalizedName string  `json:"normalized_name" validate:"required"`
	ImageURL       *string `json:"image_url"`
}

// UpdateNameRequest overrides the display name for a normalized item name.
type UpdateNameRequest struct {
	NormalizedName string `json:"normalized_name" validate:"required"`
	NewName        string `json:"new_name"        validate:"required"`
}

// UpdatePriceRequest sets the unit cost for a normalized item name.
type UpdatePriceRequest struct {
	NormalizedName string          `json:"normalized_name" validate:"required"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

// StatusResponse is the generic mutation acknowledgment.
type StatusResponse struct {
	Status  string `json:"status"`
	Deleted int    `json:"deleted,omitempty"`
	Message string `json:"message,omitempty"`
}
