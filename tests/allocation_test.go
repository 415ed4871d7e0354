package tests

import (
	"context"
	"path/filepath"
	"testing"

	"kantocollect/internal/dto"
	"kantocollect/internal/model"
	"kantocollect/internal/repository"
	"kantocollect/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newAllocationService(db *gorm.DB) service.AllocationService {
	imgRepo := repository.NewProductImageRepository(db)
	reportSvc := service.NewReportService(repository.NewTransactionRepository(db), imgRepo)
	return service.NewAllocationService(repository.NewAllocationRepository(db), imgRepo, reportSvc)
}

func TestAllocation_AssignMergesPerOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newAllocationService(db)
	ctx := context.Background()

	require.NoError(t, svc.Assign(ctx, dto.AssignRequest{
		ItemName: "Phantasmal Flames Booster Pack", Owner: "alice", Quantity: 2,
	}))
	// Same item under a raw variant title merges into the same allocation.
	require.NoError(t, svc.Assign(ctx, dto.AssignRequest{
		ItemName: "phantasmal flames pack", Owner: "alice", Quantity: 3,
	}))

	var allocations []model.Allocation
	require.NoError(t, db.Find(&allocations).Error)
	require.Len(t, allocations, 1)
	assert.Equal(t, "phantasmal flames pack", allocations[0].NormalizedItemName)
	assert.Equal(t, "alice", allocations[0].Owner)
	assert.Equal(t, 5, allocations[0].AllocatedQuantity)
}

func TestAllocation_AssignPicksUpCuratedCost(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.ProductImage{
		NormalizedItemName: "phantasmal flames pack",
		UnitCost:           decimal.RequireFromString("4.25"),
	}).Error)

	svc := newAllocationService(db)
	require.NoError(t, svc.Assign(context.Background(), dto.AssignRequest{
		ItemName: "Phantasmal Flames Pack", Owner: "bob", Quantity: 1,
	}))

	var a model.Allocation
	require.NoError(t, db.First(&a).Error)
	assert.True(t, a.UnitCost.Equal(decimal.RequireFromString("4.25")))
}

func TestAllocation_UpdateQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := newAllocationService(db)
	ctx := context.Background()

	require.NoError(t, svc.Assign(ctx, dto.AssignRequest{ItemName: "Crown Zenith ETB", Owner: "alice", Quantity: 4}))

	require.NoError(t, svc.UpdateQuantity(ctx, dto.UpdateAllocationRequest{
		NormalizedName: "crown zenith etb", Owner: "alice", Quantity: 2,
	}))
	var a model.Allocation
	require.NoError(t, db.First(&a).Error)
	assert.Equal(t, 2, a.AllocatedQuantity)

	// Quantity 0 removes the allocation outright.
	require.NoError(t, svc.UpdateQuantity(ctx, dto.UpdateAllocationRequest{
		NormalizedName: "crown zenith etb", Owner: "alice", Quantity: 0,
	}))
	var count int64
	require.NoError(t, db.Model(&model.Allocation{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	err := svc.UpdateQuantity(ctx, dto.UpdateAllocationRequest{
		NormalizedName: "crown zenith etb", Owner: "nobody", Quantity: 1,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAllocation_MoveBetweenOwners(t *testing.T) {
	db := newTestDB(t)
	svc := newAllocationService(db)
	ctx := context.Background()

	require.NoError(t, svc.Assign(ctx, dto.AssignRequest{ItemName: "Crown Zenith ETB", Owner: "alice", Quantity: 3}))
	require.NoError(t, svc.Assign(ctx, dto.AssignRequest{ItemName: "Crown Zenith ETB", Owner: "bob", Quantity: 1}))

	require.NoError(t, svc.Move(ctx, dto.MoveAllocationRequest{
		NormalizedName: "crown zenith etb", FromOwner: "alice", ToOwner: "bob", Quantity: 3,
	}))

	var allocations []model.Allocation
	require.NoError(t, db.Find(&allocations).Error)
	require.Len(t, allocations, 1)
	assert.Equal(t, "bob", allocations[0].Owner)
	assert.Equal(t, 4, allocations[0].AllocatedQuantity)

	err := svc.Move(ctx, dto.MoveAllocationRequest{
		NormalizedName: "crown zenith etb", FromOwner: "alice", ToOwner: "bob", Quantity: 1,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAllocation_RemoveMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newAllocationService(db)

	err := svc.Remove(context.Background(), dto.RemoveAllocationRequest{
		NormalizedName: "crown zenith etb", Owner: "alice",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAllocation_Summary(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 5, "ash")
	seedSale(t, db, "ORDER-2", "Crown Zenith ETB", 2, "misty")

	svc := newAllocationService(db)
	ctx := context.Background()
	require.NoError(t, svc.Assign(ctx, dto.AssignRequest{
		ItemName: "Phantasmal Flames Pack", Owner: "alice", Quantity: 3,
	}))

	summary, err := svc.Summary(ctx, "custom")
	require.NoError(t, err)

	require.Len(t, summary.AllocatedItems, 1)
	allocated := summary.AllocatedItems[0]
	assert.Equal(t, "phantasmal flames pack", allocated.NormalizedName)
	assert.Equal(t, 5, allocated.TotalQuantity)
	assert.Equal(t, 3, allocated.TotalAllocated)
	assert.Equal(t, 2, allocated.Remaining)
	require.Len(t, allocated.Allocations, 1)
	assert.Equal(t, "alice", allocated.Allocations[0].Owner)

	// Both items appear as unallocated with their remaining quantities.
	remaining := map[string]int{}
	for _, u := range summary.UnallocatedItems {
		remaining[u.NormalizedName] = u.Quantity
	}
	assert.Equal(t, map[string]int{
		"phantasmal flames pack": 2,
		"crown zenith etb":       2,
	}, remaining)

	assert.Equal(t, dto.OwnerTotal{Count: 3, Items: 1}, summary.OwnerTotals["alice"])
	assert.Equal(t, 7, summary.TotalInventory)
	assert.Equal(t, 3, summary.TotalAllocated)
	assert.Equal(t, 4, summary.TotalUnallocated)
}

// writeWorkbook builds an owner-per-sheet allocation workbook.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for owner, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", owner))
			first = false
		} else {
			_, err := f.NewSheet(owner)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(owner, "A1", &[]interface{}{"Item", "Cost", "Count", "Total"}))
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(owner, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), "allocations.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestAllocation_ImportFromExcel(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 5, "ash")

	path := writeWorkbook(t, map[string][][]interface{}{
		"Alice": {
			{"Phantasma Flames Pack", 4.50, 2, 9.00}, // misspelled, fuzzy-matched
			{"Garden Hose", 1.00, 3, 3.00},           // unmatchable
		},
	})

	svc := newAllocationService(db)
	resp, err := svc.ImportFromExcel(context.Background(), dto.ImportAllocationsRequest{
		ExcelPath: path,
	})
	require.NoError(t, err)

	require.Len(t, resp.Matched, 1)
	assert.Equal(t, "Phantasma Flames Pack", resp.Matched[0].SheetItemName)
	assert.Equal(t, "Phantasmal Flames Pack", resp.Matched[0].InventoryName)
	assert.Equal(t, "Alice", resp.Matched[0].Owner)
	assert.Equal(t, 2, resp.Matched[0].AllocatedQuantity)
	assert.Equal(t, 5, resp.Matched[0].AvailableQuantity)

	require.Len(t, resp.Unmatched, 1)
	assert.Equal(t, "Garden Hose", resp.Unmatched[0].SheetItemName)

	assert.Equal(t, 2, resp.TotalAllocated)
	assert.Equal(t, 3, resp.TotalUnmatched)

	var allocations []model.Allocation
	require.NoError(t, db.Find(&allocations).Error)
	require.Len(t, allocations, 1)
	assert.Equal(t, "phantasmal flames pack", allocations[0].NormalizedItemName)
	assert.Equal(t, "Phantasma Flames Pack", allocations[0].SourceItemName)
}

func TestAllocation_ImportOverAllocationWarnsAndSkips(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 5, "ash")

	path := writeWorkbook(t, map[string][][]interface{}{
		"Alice": {
			{"Phantasmal Flames Pack", 4.50, 3, 13.50},
			{"Phantasmal Flames Pack", 4.50, 4, 18.00}, // cumulative 7 > 5
		},
	})

	svc := newAllocationService(db)
	resp, err := svc.ImportFromExcel(context.Background(), dto.ImportAllocationsRequest{
		ExcelPath: path,
	})
	require.NoError(t, err)

	require.Len(t, resp.Matched, 1)
	require.Len(t, resp.OverAllocated, 1)
	assert.Equal(t, 7, resp.OverAllocated[0].TotalAllocated)
	assert.Equal(t, 5, resp.OverAllocated[0].AvailableQuantity)
	assert.Equal(t, 4, resp.TotalOverAllocated)

	// Only the in-budget row was written.
	var allocations []model.Allocation
	require.NoError(t, db.Find(&allocations).Error)
	require.Len(t, allocations, 1)
	assert.Equal(t, 3, allocations[0].AllocatedQuantity)
}

func TestAllocation_ImportDryRunWritesNothing(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 5, "ash")

	path := writeWorkbook(t, map[string][][]interface{}{
		"Alice": {{"Phantasmal Flames Pack", 4.50, 2, 9.00}},
	})

	svc := newAllocationService(db)
	resp, err := svc.ImportFromExcel(context.Background(), dto.ImportAllocationsRequest{
		ExcelPath: path,
		DryRun:    true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Matched, 1)

	var count int64
	require.NoError(t, db.Model(&model.Allocation{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAllocation_ImportMissingFile(t *testing.T) {
	db := newTestDB(t)
	svc := newAllocationService(db)

	_, err := svc.ImportFromExcel(context.Background(), dto.ImportAllocationsRequest{
		ExcelPath: "/nonexistent/allocations.xlsx",
	})
	require.Error(t, err)
}
