package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kantocollect/internal/infra"
	"kantocollect/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database named after the
// test, migrated with the production schema. Single connection so the
// in-memory database survives for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, infra.RunMigrations(db))
	return db
}

// seedSale inserts one sale transaction directly, bypassing CSV ingestion.
func seedSale(t *testing.T, db *gorm.DB, orderID, title string, qty int, buyer string) {
	t.Helper()
	tx := &model.Transaction{
		OrderID:           orderID,
		ListingTitle:      title,
		QuantitySold:      qty,
		TransactionAmount: decimal.NewFromInt(10),
		TransactionType:   "ORDER_EARNINGS",
		SourceFile:        "seed",
		IsSale:            true,
	}
	if buyer != "" {
		tx.BuyerName = &buyer
	}
	require.NoError(t, db.Create(tx).Error)
}

// writeCSV drops a marketplace export file into the test's temp dir.
func writeCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func strptr(s string) *string { return &s }
