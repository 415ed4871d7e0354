package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AssignRequest allocates quantity of an item to an owner. ItemName may be a
// display name; it is normalized before lookup. Re-assigning to the same
// owner merges into the existing allocation.
type AssignRequest struct {
	ItemName string `json:"item_name" validate:"required"`
	Owner    string `json:"owner"     validate:"required"`
	Quantity int    `json:"quantity"  validate:"required,gt=0"`
}

// UpdateAllocationRequest sets the allocated quantity for an existing
// (item, owner) pair. Quantity 0 removes the allocation.
type UpdateAllocationRequest struct {
	NormalizedName string `json:"normalized_name" validate:"required"`
	Owner          string `json:"owner"           validate:"required"`
	Quantity       int    `json:"quantity"        validate:"min=0"`
}

// MoveAllocationRequest moves an allocation between owners.
type MoveAllocationRequest struct {
	NormalizedName string `json:"normalized_name" validate:"required"`
	FromOwner      string `json:"from_owner"      validate:"required"`
	ToOwner        string `json:"to_owner"        validate:"required"`
	Quantity       int    `json:"quantity"        validate:"required,gt=0"`
}

// RemoveAllocationRequest deletes one (item, owner) allocation entirely.
type RemoveAllocationRequest struct {
	NormalizedName string `json:"normalized_name" validate:"required"`
	Owner          string `json:"owner"           validate:"required"`
}

// ImportAllocationsRequest bulk-imports allocations from an Excel workbook
// on the server's disk: one sheet per owner, rows of
// (item name, cost, count, total).
type ImportAllocationsRequest struct {
	ExcelPath  string `json:"excel_path" validate:"required"`
	TitleMatch string `json:"title_match"`
	DryRun     bool   `json:"dry_run"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// AllocationEntry is one owner's share of an item.
type AllocationEntry struct {
	Owner    string          `json:"owner"`
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// AllocatedItem summarizes one item that has at least one allocation.
type AllocatedItem struct {
	ItemName       string            `json:"item_name"`
	NormalizedName string            `json:"normalized_name"`
	TotalQuantity  int               `json:"total_quantity"`
	TotalAllocated int               `json:"total_allocated"`
	Remaining      int               `json:"remaining"`
	SetName        *string           `json:"set_name"`
	ImageURL       *string           `json:"image_url"`
	Allocations    []AllocationEntry `json:"allocations"`
}

// UnallocatedItem is an inventory item with remaining unallocated quantity.
type UnallocatedItem struct {
	ItemName       string          `json:"item_name"`
	Quantity       int             `json:"quantity"`
	SetName        *string         `json:"set_name"`
	ImageURL       *string         `json:"image_url"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	NormalizedName string          `json:"normalized_name"`
}

// OwnerTotal aggregates an owner's allocations across all items.
type OwnerTotal struct {
	Count int `json:"count"`
	Items int `json:"items"`
}

// AllocationSummaryResponse is the full allocations-vs-inventory view.
type AllocationSummaryResponse struct {
	AllocatedItems   []AllocatedItem       `json:"allocated_items"`
	UnallocatedItems []UnallocatedItem     `json:"unallocated_items"`
	OwnerTotals      map[string]OwnerTotal `json:"owner_totals"`
	TotalInventory   int                   `json:"total_inventory"`
	TotalAllocated   int                   `json:"total_allocated"`
	TotalUnallocated int                   `json:"total_unallocated"`
}

// ImportMatch is one successfully matched spreadsheet row.
type ImportMatch struct {
	SheetItemName     string          `json:"sheet_item_name"`
	InventoryName     string          `json:"inventory_name"`
	Owner             string          `json:"owner"`
	AllocatedQuantity int             `json:"allocated_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	AvailableQuantity int             `json:"available_quantity"`
}

// ImportUnmatched is a spreadsheet row no inventory item could be matched to.
type ImportUnmatched struct {
	SheetItemName     string          `json:"sheet_item_name"`
	Owner             string          `json:"owner"`
	AllocatedQuantity int             `json:"allocated_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
}

// ImportOverAllocated is a row whose cumulative allocation exceeds the
// available quantity. Reported as a warning and skipped on write — never
// fatal, a later pass may legitimately re-attempt it.
type ImportOverAllocated struct {
	SheetItemName     string          `json:"sheet_item_name"`
	InventoryName     string          `json:"inventory_name"`
	Owner             string          `json:"owner"`
	AllocatedQuantity int             `json:"allocated_quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	TotalAllocated    int             `json:"total_allocated"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
}

// ImportAllocationsResponse summarizes one bulk import.
type ImportAllocationsResponse struct {
	Matched            []ImportMatch         `json:"matched"`
	Unmatched          []ImportUnmatched     `json:"unmatched"`
	OverAllocated      []ImportOverAllocated `json:"over_allocated"`
	TotalAllocated     int                   `json:"total_allocated"`
	TotalUnmatched     int                   `json:"total_unmatched"`
	TotalOverAllocated int                   `json:"total_over_allocated"`
}
