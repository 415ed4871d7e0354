package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"kantocollect/internal/dto"
	"kantocollect/internal/model"
	"kantocollect/internal/normalize"
	"kantocollect/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SaleEarningsType is the transaction type classifying real sale revenue.
const SaleEarningsType = "ORDER_EARNINGS"

// IngestService loads marketplace CSV exports into the store. Malformed
// rows, non-sales (when excluded), and duplicate order ids are skipped and
// counted, never fatal; a missing input file aborts the whole batch before
// any row of any file is written.
type IngestService interface {
	IngestFiles(ctx context.Context, paths []string, includeNonSales bool) (*dto.IngestResponse, error)
}

type ingestService struct {
	repo repository.TransactionRepository
}

func NewIngestService(repo repository.TransactionRepository) IngestService {
	return &ingestService{repo: repo}
}

// isSaleRow reports whether a row represents real consideration exchanged:
// sale-earnings type AND at least one positive amount. Zero-value giveaway
// entries fail this.
func isSaleRow(row dto.CSVRow) bool {
	if row.TransactionType != SaleEarningsType {
		return false
	}
	return row.TransactionAmount.IsPositive() ||
		row.BuyerPaid.IsPositive() ||
		row.OriginalItemPrice.IsPositive()
}

// storedTitle collapses whitespace runs and trims — the only normalization
// applied at write time. Semantic folding happens at query time only.
func storedTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

func (s *ingestService) IngestFiles(ctx context.Context, paths []string, includeNonSales bool) (*dto.IngestResponse, error) {
	// Validate every path up front so a missing file aborts the batch
	// before any partial commit.
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("csv file not found: %s", path)
		}
	}

	result := &dto.IngestResponse{}
	// The whole batch commits once at the end: a failure in any file rolls
	// back every row already written, never leaving a partial batch behind.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, path := range paths {
			loaded, skipped, err := s.ingestFile(ctx, tx, path, includeNonSales)
			if err != nil {
				return err
			}
			result.FilesProcessed++
			result.RowsLoaded += loaded
			result.RowsSkipped += skipped

			log.Info().
				Str("file", path).
				Int("loaded", loaded).
				Int("skipped", skipped).
				Msg("csv file ingested")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

func (s *ingestService) ingestFile(ctx context.Context, tx *gorm.DB, path string, includeNonSales bool) (loaded, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("csv file not found: %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged exports happen; validation is per-row

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header of %s: %w", path, err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Structurally broken line, not a broken file.
			skipped++
			continue
		}

		raw := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				raw[col] = record[i]
			}
		}

		row, err := dto.ParseCSVRow(raw)
		if err != nil {
			log.Debug().Err(err).Str("file", path).Msg("row skipped: validation")
			skipped++
			continue
		}

		saleFlag := isSaleRow(row)
		if !includeNonSales && !saleFlag {
			skipped++
			continue
		}

		exists, err := s.repo.ExistsByOrderID(ctx, tx, row.OrderID)
		if err != nil {
			return loaded, skipped, err
		}
		if exists {
			skipped++
			continue
		}

		multiplier := normalize.ExtractMultiplier(row.ListingTitle)

		t := &model.Transaction{
			OrderID:                row.OrderID,
			ListingTitle:           storedTitle(row.ListingTitle),
			ListingDescription:     row.ListingDescription,
			ProductCategory:        row.ProductCategory,
			BuyFormat:              row.BuyFormat,
			SaleType:               row.SaleType,
			QuantitySold:           row.QuantitySold * multiplier,
			TransactionAmount:      row.TransactionAmount,
			BuyerPaid:              row.BuyerPaid,
			OriginalItemPrice:      row.OriginalItemPrice,
			TransactionType:        row.TransactionType,
			BuyerName:              row.BuyerName,
			BuyerState:             row.BuyerState,
			BuyerCountry:           row.BuyerCountry,
			OrderPlacedAt:          row.OrderPlacedAtUTC,
			TransactionCompletedAt: row.TransactionCompletedAtUTC,
			SourceFile:             path,
			IsSale:                 saleFlag,
		}
		if err := s.repo.Create(ctx, tx, t); err != nil {
			return loaded, skipped, err
		}
		loaded++
	}
	return loaded, skipped, nil
}
