package service

import (
	"context"
	"fmt"
	"strings"

	"kantocollect/internal/dto"
	"kantocollect/internal/model"
	"kantocollect/internal/normalize"
	"kantocollect/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	manualOrderPrefix = "MANUAL-"
	manualBuyerName   = "MANUAL_ENTRY"
	manualSourceFile  = "MANUAL"
)

// AdminService covers the dashboard's correction surface: fixing quantities,
// deleting mis-ingested items, adding inventory that never passed through an
// export file, and curating per-item metadata. Corrections address items by
// normalized name and touch every transaction that folds into it.
type AdminService interface {
	UpdateItemQuantity(ctx context.Context, req dto.UpdateQuantityRequest) error
	DeleteItem(ctx context.Context, req dto.DeleteItemRequest) (int, error)
	AddItem(ctx context.Context, req dto.AddItemRequest) (string, error)
	UpdateImage(ctx context.Context, req dto.UpdateImageRequest) error
	UpdateName(ctx context.Context, req dto.UpdateNameRequest) error
	UpdatePrice(ctx context.Context, req dto.UpdatePriceRequest) error
}

type adminService struct {
	txRepo  repository.TransactionRepository
	imgRepo repository.ProductImageRepository
}

func NewAdminService(txRepo repository.TransactionRepository, imgRepo repository.ProductImageRepository) AdminService {
	return &adminService{txRepo: txRepo, imgRepo: imgRepo}
}

// matchingTransactions scans all transactions and returns those whose title
// folds to the given normalized name. Linear, but corrections are rare and
// the table is small.
func (s *adminService) matchingTransactions(ctx context.Context, itemName string) ([]model.Transaction, error) {
	target := strings.ToLower(itemName)
	all, err := s.txRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []model.Transaction
	for _, t := range all {
		if normalize.Title(t.ListingTitle, normalize.ModeCustom) == target {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// UpdateItemQuantity sets the total quantity for one normalized item. The
// first matching transaction absorbs the full quantity and the rest are
// zeroed, so the group's sum equals the requested value exactly.
func (s *adminService) UpdateItemQuantity(ctx context.Context, req dto.UpdateQuantityRequest) error {
	matched, err := s.matchingTransactions(ctx, req.ItemName)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return ErrNotFound
	}
	// The group's updates land together or not at all; a half-corrected
	// group would report a wrong total.
	err = runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		for i, t := range matched {
			quantity := 0
			if i == 0 {
				quantity = req.Quantity
			}
			if err := s.txRepo.UpdateQuantity(ctx, tx, t.ID, quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Str("item", req.ItemName).Int("quantity", req.Quantity).
		Int("transactions", len(matched)).Msg("item quantity corrected")
	return nil
}

// DeleteItem removes every transaction folding into the normalized item name
// and returns how many were deleted.
func (s *adminService) DeleteItem(ctx context.Context, req dto.DeleteItemRequest) (int, error) {
	matched, err := s.matchingTransactions(ctx, req.ItemName)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, ErrNotFound
	}
	err = runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		for _, t := range matched {
			if err := s.txRepo.Delete(ctx, tx, t.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("item", req.ItemName).Int("deleted", len(matched)).Msg("item deleted")
	return len(matched), nil
}

// AddItem creates a synthetic sale transaction so manual inventory flows
// through the same reporting pipeline as ingested sales, and upserts the
// curated metadata in the same operation. Returns a confirmation message.
func (s *adminService) AddItem(ctx context.Context, req dto.AddItemRequest) (string, error) {
	normalized := normalize.Title(strings.ToLower(req.Name), normalize.ModeCustom)

	buyer := manualBuyerName
	txn := &model.Transaction{
		OrderID:           manualOrderPrefix + uuid.NewString()[:8],
		ListingTitle:      req.Name,
		BuyerName:         &buyer,
		QuantitySold:      req.Quantity,
		TransactionAmount: req.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity))),
		TransactionType:   SaleEarningsType,
		SourceFile:        manualSourceFile,
		IsSale:            true,
	}
	// The synthetic sale and its metadata upsert are one operation; a sale
	// without its curated row would surface under the wrong name.
	err := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		if err := s.txRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		meta, err := s.imgRepo.FindByNormalizedNameTx(tx, normalized)
		if err != nil {
			return err
		}
		if meta != nil {
			meta.UnitCost = req.UnitCost
			if req.ImageURL != nil && *req.ImageURL != "" {
				meta.ImageURL = req.ImageURL
			}
			if meta.Description == nil || *meta.Description == "" {
				name := req.Name
				meta.Description = &name
			}
		} else {
			name := req.Name
			meta = &model.ProductImage{
				NormalizedItemName: normalized,
				Description:        &name,
				ImageURL:           req.ImageURL,
				UnitCost:           req.UnitCost,
			}
		}
		return s.imgRepo.SaveTx(tx, meta)
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Added %d x %q", req.Quantity, req.Name), nil
}

func (s *adminService) UpdateImage(ctx context.Context, req dto.UpdateImageRequest) error {
	return s.upsertMetadata(ctx, req.NormalizedName, func(meta *model.ProductImage) {
		if req.ImageURL != nil && *req.ImageURL == "" {
			meta.ImageURL = nil
			return
		}
		meta.ImageURL = req.ImageURL
	})
}

func (s *adminService) UpdateName(ctx context.Context, req dto.UpdateNameRequest) error {
	return s.upsertMetadata(ctx, req.NormalizedName, func(meta *model.ProductImage) {
		name := req.NewName
		meta.Description = &name
	})
}

func (s *adminService) UpdatePrice(ctx context.Context, req dto.UpdatePriceRequest) error {
	return s.upsertMetadata(ctx, req.NormalizedName, func(meta *model.ProductImage) {
		meta.UnitCost = req.UnitCost
	})
}

// upsertMetadata lazily creates the metadata row on first mutation. A miss
// is not an error here: curation can precede ingestion.
func (s *adminService) upsertMetadata(ctx context.Context, normalizedName string, apply func(*model.ProductImage)) error {
	return runTx(ctx, s.imgRepo.DB(), func(tx *gorm.DB) error {
		meta, err := s.imgRepo.FindByNormalizedNameTx(tx, normalizedName)
		if err != nil {
			return err
		}
		if meta == nil {
			meta = &model.ProductImage{NormalizedItemName: normalizedName}
		}
		apply(meta)
		return s.imgRepo.SaveTx(tx, meta)
	})
}
