package tests

import (
	"context"
	"strings"
	"testing"

	"kantocollect/internal/dto"
	"kantocollect/internal/model"
	"kantocollect/internal/repository"
	"kantocollect/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) service.AdminService {
	return service.NewAdminService(
		repository.NewTransactionRepository(db),
		repository.NewProductImageRepository(db),
	)
}

func TestAdmin_UpdateItemQuantity(t *testing.T) {
	db := newTestDB(t)
	// Two raw variants folding into the same item.
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 2, "ash")
	seedSale(t, db, "ORDER-2", "phantasmal flames pack", 3, "misty")

	svc := newAdminService(db)
	require.NoError(t, svc.UpdateItemQuantity(context.Background(), dto.UpdateQuantityRequest{
		ItemName: "phantasmal flames pack", Quantity: 4,
	}))

	// The group's sum is exactly the requested value.
	results := getCounts(t, newReportService(db), dto.ItemReportFilter{TitleMatch: "custom"})
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].QuantitySold)
}

func TestAdmin_UpdateItemQuantity_Missing(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	err := svc.UpdateItemQuantity(context.Background(), dto.UpdateQuantityRequest{
		ItemName: "no such item", Quantity: 1,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAdmin_DeleteItem(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 2, "ash")
	seedSale(t, db, "ORDER-2", "phantasmal flames pack", 3, "misty")
	seedSale(t, db, "ORDER-3", "Crown Zenith ETB", 1, "brock")

	svc := newAdminService(db)
	deleted, err := svc.DeleteItem(context.Background(), dto.DeleteItemRequest{
		ItemName: "phantasmal flames pack",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = svc.DeleteItem(context.Background(), dto.DeleteItemRequest{ItemName: "phantasmal flames pack"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAdmin_AddItemFlowsThroughReport(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	msg, err := svc.AddItem(context.Background(), dto.AddItemRequest{
		Name:     "Crown Zenith Mini Tin",
		Quantity: 3,
		UnitCost: decimal.RequireFromString("7.99"),
		ImageURL: strptr("https://img.example/tin.png"),
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "Crown Zenith Mini Tin")

	var tx model.Transaction
	require.NoError(t, db.First(&tx).Error)
	assert.True(t, strings.HasPrefix(tx.OrderID, "MANUAL-"))
	require.NotNil(t, tx.BuyerName)
	assert.Equal(t, "MANUAL_ENTRY", *tx.BuyerName)
	assert.True(t, tx.IsSale)
	assert.True(t, tx.TransactionAmount.Equal(decimal.RequireFromString("23.97")))

	results := getCounts(t, newReportService(db), dto.ItemReportFilter{TitleMatch: "custom"})
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].QuantitySold)
	// Curated metadata created alongside carries the display name and cost.
	assert.Equal(t, "Crown Zenith Mini Tin", results[0].ListingTitle)
	assert.True(t, results[0].UnitCost.Equal(decimal.RequireFromString("7.99")))
	require.NotNil(t, results[0].ImageURL)
}

func TestAdmin_MetadataUpserts(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 1, "ash")

	svc := newAdminService(db)
	ctx := context.Background()

	// First mutation lazily creates the row.
	require.NoError(t, svc.UpdateName(ctx, dto.UpdateNameRequest{
		NormalizedName: "phantasmal flames pack", NewName: "Phantasmal Flames Booster",
	}))
	require.NoError(t, svc.UpdatePrice(ctx, dto.UpdatePriceRequest{
		NormalizedName: "phantasmal flames pack", UnitCost: decimal.RequireFromString("3.75"),
	}))
	require.NoError(t, svc.UpdateImage(ctx, dto.UpdateImageRequest{
		NormalizedName: "phantasmal flames pack", ImageURL: strptr("https://img.example/pf.png"),
	}))

	var meta model.ProductImage
	require.NoError(t, db.Where("normalized_item_name = ?", "phantasmal flames pack").First(&meta).Error)
	require.NotNil(t, meta.Description)
	assert.Equal(t, "Phantasmal Flames Booster", *meta.Description)
	assert.True(t, meta.UnitCost.Equal(decimal.RequireFromString("3.75")))

	results := getCounts(t, newReportService(db), dto.ItemReportFilter{TitleMatch: "custom"})
	require.Len(t, results, 1)
	assert.Equal(t, "Phantasmal Flames Booster", results[0].ListingTitle)

	// Empty string clears the image.
	require.NoError(t, svc.UpdateImage(ctx, dto.UpdateImageRequest{
		NormalizedName: "phantasmal flames pack", ImageURL: strptr(""),
	}))
	require.NoError(t, db.Where("normalized_item_name = ?", "phantasmal flames pack").First(&meta).Error)
	assert.Nil(t, meta.ImageURL)
}
