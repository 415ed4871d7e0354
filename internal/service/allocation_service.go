package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"kantocollect/internal/dto"
	"kantocollect/internal/model"
	"kantocollect/internal/normalize"
	"kantocollect/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// AllocationService manages ownership of inventory items: who gets how many
// of each, at what unit cost. Allocations reference items by normalized name
// so they survive re-ingestion and rule changes.
type AllocationService interface {
	Assign(ctx context.Context, req dto.AssignRequest) error
	UpdateQuantity(ctx context.Context, req dto.UpdateAllocationRequest) error
	Move(ctx context.Context, req dto.MoveAllocationRequest) error
	Remove(ctx context.Context, req dto.RemoveAllocationRequest) error
	Summary(ctx context.Context, titleMatch string) (*dto.AllocationSummaryResponse, error)
	ImportFromExcel(ctx context.Context, req dto.ImportAllocationsRequest) (*dto.ImportAllocationsResponse, error)
}

type allocationService struct {
	allocRepo repository.AllocationRepository
	imgRepo   repository.ProductImageRepository
	reportSvc ReportService
}

func NewAllocationService(allocRepo repository.AllocationRepository, imgRepo repository.ProductImageRepository, reportSvc ReportService) AllocationService {
	return &allocationService{allocRepo: allocRepo, imgRepo: imgRepo, reportSvc: reportSvc}
}

// unitCost resolves the curated unit cost for a normalized item, zero when
// no metadata row exists. Reads through tx when one is active.
func (s *allocationService) unitCost(ctx context.Context, tx *gorm.DB, normalizedName string) (decimal.Decimal, error) {
	var meta *model.ProductImage
	var err error
	if tx != nil {
		meta, err = s.imgRepo.FindByNormalizedNameTx(tx, normalizedName)
	} else {
		meta, err = s.imgRepo.FindByNormalizedName(ctx, normalizedName)
	}
	if err != nil {
		return decimal.Zero, err
	}
	if meta == nil {
		return decimal.Zero, nil
	}
	return meta.UnitCost, nil
}

func (s *allocationService) Assign(ctx context.Context, req dto.AssignRequest) error {
	normalized := normalize.Title(strings.ToLower(req.ItemName), normalize.ModeCustom)

	return runTx(ctx, s.allocRepo.DB(), func(tx *gorm.DB) error {
		existing, err := s.allocRepo.FindTx(tx, normalized, req.Owner)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			existing.AllocatedQuantity += req.Quantity
			return s.allocRepo.SaveTx(tx, existing)
		}

		cost, err := s.unitCost(ctx, tx, normalized)
		if err != nil {
			return err
		}
		return s.allocRepo.CreateTx(tx, &model.Allocation{
			NormalizedItemName: normalized,
			Owner:              req.Owner,
			AllocatedQuantity:  req.Quantity,
			UnitCost:           cost,
			SourceItemName:     req.ItemName,
		})
	})
}

func (s *allocationService) UpdateQuantity(ctx context.Context, req dto.UpdateAllocationRequest) error {
	return runTx(ctx, s.allocRepo.DB(), func(tx *gorm.DB) error {
		existing, err := s.allocRepo.FindTx(tx, req.NormalizedName, req.Owner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if req.Quantity == 0 {
			_, err := s.allocRepo.DeleteTx(tx, req.NormalizedName, req.Owner)
			return err
		}
		existing.AllocatedQuantity = req.Quantity
		return s.allocRepo.SaveTx(tx, existing)
	})
}

// Move commits the source delete and the target write together, so a failure
// part-way cannot lose the allocation.
func (s *allocationService) Move(ctx context.Context, req dto.MoveAllocationRequest) error {
	return runTx(ctx, s.allocRepo.DB(), func(tx *gorm.DB) error {
		source, err := s.allocRepo.FindTx(tx, req.NormalizedName, req.FromOwner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if _, err := s.allocRepo.DeleteTx(tx, req.NormalizedName, req.FromOwner); err != nil {
			return err
		}

		target, err := s.allocRepo.FindTx(tx, req.NormalizedName, req.ToOwner)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if target != nil {
			target.AllocatedQuantity += req.Quantity
			return s.allocRepo.SaveTx(tx, target)
		}

		cost, err := s.unitCost(ctx, tx, req.NormalizedName)
		if err != nil {
			return err
		}
		return s.allocRepo.CreateTx(tx, &model.Allocation{
			NormalizedItemName: req.NormalizedName,
			Owner:              req.ToOwner,
			AllocatedQuantity:  req.Quantity,
			UnitCost:           cost,
			SourceItemName:     source.SourceItemName,
		})
	})
}

func (s *allocationService) Remove(ctx context.Context, req dto.RemoveAllocationRequest) error {
	affected, err := s.allocRepo.Delete(ctx, req.NormalizedName, req.Owner)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary joins the live inventory report against allocations. Inventory is
// always computed with non-sales included so manual entries count.
func (s *allocationService) Summary(ctx context.Context, titleMatch string) (*dto.AllocationSummaryResponse, error) {
	if titleMatch == "" {
		titleMatch = "custom"
	}
	inventory, err := s.reportSvc.GetItemCounts(ctx, dto.ItemReportFilter{
		IncludeNonSales: true,
		TitleMatch:      titleMatch,
	})
	if err != nil {
		return nil, err
	}

	allocations, err := s.allocRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string][]model.Allocation)
	for _, a := range allocations {
		byItem[a.NormalizedItemName] = append(byItem[a.NormalizedItemName], a)
	}

	resp := &dto.AllocationSummaryResponse{
		AllocatedItems:   []dto.AllocatedItem{},
		UnallocatedItems: []dto.UnallocatedItem{},
		OwnerTotals:      make(map[string]dto.OwnerTotal),
	}

	for _, item := range inventory {
		itemAllocations := byItem[item.NormalizedName]
		totalAllocated := 0
		entries := make([]dto.AllocationEntry, 0, len(itemAllocations))
		for _, a := range itemAllocations {
			totalAllocated += a.AllocatedQuantity
			entries = append(entries, dto.AllocationEntry{
				Owner:    a.Owner,
				Quantity: a.AllocatedQuantity,
				UnitCost: a.UnitCost,
			})
		}
		remaining := item.QuantitySold - totalAllocated

		if totalAllocated > 0 {
			resp.AllocatedItems = append(resp.AllocatedItems, dto.AllocatedItem{
				ItemName:       item.ListingTitle,
				NormalizedName: item.NormalizedName,
				TotalQuantity:  item.QuantitySold,
				TotalAllocated: totalAllocated,
				Remaining:      remaining,
				SetName:        item.SetName,
				ImageURL:       item.ImageURL,
				Allocations:    entries,
			})
		}
		// Over-allocated items drop out of the unallocated list instead of
		// going negative.
		if remaining >= 0 {
			resp.UnallocatedItems = append(resp.UnallocatedItems, dto.UnallocatedItem{
				ItemName:       item.ListingTitle,
				Quantity:       remaining,
				SetName:        item.SetName,
				ImageURL:       item.ImageURL,
				UnitCost:       item.UnitCost,
				NormalizedName: item.NormalizedName,
			})
		}
		resp.TotalInventory += item.QuantitySold
	}

	for _, a := range allocations {
		total := resp.OwnerTotals[a.Owner]
		total.Count += a.AllocatedQuantity
		total.Items++
		resp.OwnerTotals[a.Owner] = total
	}
	resp.TotalAllocated = totalQuantity(allocations)
	for _, u := range resp.UnallocatedItems {
		resp.TotalUnallocated += u.Quantity
	}
	return resp, nil
}

func totalQuantity(allocations []model.Allocation) int {
	total := 0
	for _, a := range allocations {
		total += a.AllocatedQuantity
	}
	return total
}

// ImportFromExcel bulk-loads allocations from a workbook where each sheet is
// an owner and each data row is (item name, unit cost, count, total). The
// import is a full replace of the allocation table. Rows that cannot be
// matched to inventory, or that would cumulatively exceed an item's
// available quantity, are reported and skipped, never fatal.
func (s *allocationService) ImportFromExcel(ctx context.Context, req dto.ImportAllocationsRequest) (*dto.ImportAllocationsResponse, error) {
	if _, err := os.Stat(req.ExcelPath); err != nil {
		return nil, fmt.Errorf("excel file not found: %s", req.ExcelPath)
	}

	titleMatch := req.TitleMatch
	if titleMatch == "" {
		titleMatch = "custom"
	}
	inventory, err := s.reportSvc.GetItemCounts(ctx, dto.ItemReportFilter{
		IncludeNonSales: true,
		TitleMatch:      titleMatch,
	})
	if err != nil {
		return nil, err
	}
	available := make(map[string]int, len(inventory))
	names := make([]string, 0, len(inventory))
	for _, item := range inventory {
		available[item.ListingTitle] = item.QuantitySold
		names = append(names, item.ListingTitle)
	}

	wb, err := excelize.OpenFile(req.ExcelPath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	resp := &dto.ImportAllocationsResponse{
		Matched:       []dto.ImportMatch{},
		Unmatched:     []dto.ImportUnmatched{},
		OverAllocated: []dto.ImportOverAllocated{},
	}
	allocatedPerItem := make(map[string]int)

	for _, sheet := range wb.GetSheetList() {
		owner := sheet
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for i, row := range rows {
			if i == 0 {
				continue // header
			}
			itemName, cost, count := sheetCells(row)
			if itemName == "" || count == 0 {
				continue
			}

			matchedName := fuzzyMatchItemName(itemName, names)
			if matchedName == "" {
				resp.Unmatched = append(resp.Unmatched, dto.ImportUnmatched{
					SheetItemName:     itemName,
					Owner:             owner,
					AllocatedQuantity: count,
					UnitCost:          cost,
				})
				resp.TotalUnmatched += count
				continue
			}

			normalized := normalize.Title(strings.ToLower(matchedName), normalize.ModeCustom)
			dbCost, err := s.unitCost(ctx, nil, normalized)
			if err != nil {
				return nil, err
			}
			// Curated cost wins over the spreadsheet cell.
			finalCost := cost
			if dbCost.IsPositive() {
				finalCost = dbCost
			}

			allocatedPerItem[matchedName] += count
			if allocatedPerItem[matchedName] > available[matchedName] {
				resp.OverAllocated = append(resp.OverAllocated, dto.ImportOverAllocated{
					SheetItemName:     itemName,
					InventoryName:     matchedName,
					Owner:             owner,
					AllocatedQuantity: count,
					AvailableQuantity: available[matchedName],
					TotalAllocated:    allocatedPerItem[matchedName],
					UnitCost:          finalCost,
				})
				resp.TotalOverAllocated += count
				continue
			}

			resp.Matched = append(resp.Matched, dto.ImportMatch{
				SheetItemName:     itemName,
				InventoryName:     matchedName,
				Owner:             owner,
				AllocatedQuantity: count,
				UnitCost:          finalCost,
				AvailableQuantity: available[matchedName],
			})
			resp.TotalAllocated += count
		}
	}

	if !req.DryRun {
		replacement := make([]model.Allocation, 0, len(resp.Matched))
		for _, m := range resp.Matched {
			replacement = append(replacement, model.Allocation{
				NormalizedItemName: normalize.Title(strings.ToLower(m.InventoryName), normalize.ModeCustom),
				Owner:              m.Owner,
				AllocatedQuantity:  m.AllocatedQuantity,
				UnitCost:           m.UnitCost,
				SourceItemName:     m.SheetItemName,
			})
		}
		if err := s.allocRepo.ReplaceAll(ctx, replacement); err != nil {
			return nil, err
		}
		log.Info().
			Str("path", req.ExcelPath).
			Int("matched", len(resp.Matched)).
			Int("unmatched", len(resp.Unmatched)).
			Int("over_allocated", len(resp.OverAllocated)).
			Msg("allocations imported")
	}
	return resp, nil
}

// sheetCells pulls (item name, cost, count) out of a spreadsheet row,
// tolerating short rows and unparseable numbers.
func sheetCells(row []string) (string, decimal.Decimal, int) {
	name := ""
	cost := decimal.Zero
	count := 0
	if len(row) > 0 {
		name = strings.TrimSpace(row[0])
	}
	if len(row) > 1 {
		if c, err := decimal.NewFromString(strings.TrimSpace(row[1])); err == nil {
			cost = c
		}
	}
	if len(row) > 2 {
		if n, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err == nil {
			count = int(n)
		}
	}
	return name, cost, count
}
