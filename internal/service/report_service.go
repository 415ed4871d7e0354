package service

import (
	"context"
	"sort"

	"kantocollect/internal/dto"
	"kantocollect/internal/model"
	"kantocollect/internal/normalize"
	"kantocollect/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService produces the normalized, deduplicated item-count report.
// Normalization is recomputed from raw titles on every request — rule
// changes retroactively re-group historical data. Safe for concurrent
// invocation: no state is shared across calls.
type ReportService interface {
	GetItemCounts(ctx context.Context, filter dto.ItemReportFilter) ([]dto.ItemCount, error)
}

type reportService struct {
	txRepo  repository.TransactionRepository
	imgRepo repository.ProductImageRepository
}

func NewReportService(txRepo repository.TransactionRepository, imgRepo repository.ProductImageRepository) ReportService {
	return &reportService{txRepo: txRepo, imgRepo: imgRepo}
}

// groupKey identifies one report group. Buyer participates only when
// grouping by buyer is requested.
type groupKey struct {
	normalized string
	buyer      string
	hasBuyer   bool
}

func (s *reportService) GetItemCounts(ctx context.Context, filter dto.ItemReportFilter) ([]dto.ItemCount, error) {
	mode := normalize.ParseMode(filter.TitleMatch)

	if mode == normalize.ModeExact {
		return s.exactCounts(ctx, filter)
	}
	return s.foldedCounts(ctx, filter, mode)
}

// exactCounts pushes the aggregation into SQL: no per-row folding is needed
// when grouping verbatim. Metadata join and set classification do not apply.
func (s *reportService) exactCounts(ctx context.Context, filter dto.ItemReportFilter) ([]dto.ItemCount, error) {
	rows, err := s.txRepo.SumByTitle(ctx, filter.GroupByBuyer, filter.IncludeNonSales)
	if err != nil {
		return nil, err
	}
	results := make([]dto.ItemCount, 0, len(rows))
	for _, row := range rows {
		item := dto.ItemCount{
			ListingTitle: row.ListingTitle,
			QuantitySold: row.QuantitySold,
			UnitCost:     decimal.Zero,
		}
		if filter.GroupByBuyer {
			item.BuyerName = row.BuyerName
		}
		results = append(results, item)
	}
	return results, nil
}

// foldedCounts loads every qualifying row, folds titles in memory, and joins
// curated metadata per group.
func (s *reportService) foldedCounts(ctx context.Context, filter dto.ItemReportFilter, mode normalize.Mode) ([]dto.ItemCount, error) {
	rows, err := s.txRepo.ListTitles(ctx, filter.IncludeNonSales)
	if err != nil {
		return nil, err
	}

	counts := make(map[groupKey]int)
	// First-seen raw title per key: multiplier suffix re-derivation works off
	// the original text, not the folded key.
	firstSeen := make(map[string]string)

	for _, row := range rows {
		normalized := normalize.Title(row.ListingTitle, mode)
		key := groupKey{normalized: normalized, hasBuyer: filter.GroupByBuyer}
		if filter.GroupByBuyer && row.BuyerName != nil {
			key.buyer = *row.BuyerName
		}
		counts[key] += row.QuantitySold

		if _, ok := firstSeen[normalized]; !ok {
			firstSeen[normalized] = row.ListingTitle
		}
	}

	metadata, err := s.metadataByName(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]dto.ItemCount, 0, len(counts))
	for key, quantity := range counts {
		var setName *string
		if mode == normalize.ModeCustom {
			name := normalize.SetName(key.normalized)
			setName = &name
		}

		meta := metadata[key.normalized]

		// Display precedence: curated override name wins outright; otherwise
		// the formatted key plus the raw-title-derived multiplier suffix.
		var displayTitle string
		if meta != nil && meta.Description != nil && *meta.Description != "" {
			displayTitle = *meta.Description
		} else {
			displayTitle = normalize.DisplayTitle(key.normalized, mode) +
				normalize.MultiplierSuffix(firstSeen[key.normalized])
		}

		item := dto.ItemCount{
			ListingTitle:   displayTitle,
			QuantitySold:   quantity,
			SetName:        setName,
			UnitCost:       decimal.Zero,
			NormalizedName: key.normalized,
		}
		if key.hasBuyer {
			buyer := key.buyer
			item.BuyerName = &buyer
		}
		if meta != nil {
			item.ImageURL = meta.ImageURL
			item.UnitCost = meta.UnitCost
		}
		results = append(results, item)
	}

	// Unclassified items sort last within set ordering, then title, then
	// buyer as a stable tiebreak.
	sort.Slice(results, func(i, j int) bool {
		si, sj := sortSet(results[i].SetName), sortSet(results[j].SetName)
		if si != sj {
			return si < sj
		}
		if results[i].ListingTitle != results[j].ListingTitle {
			return results[i].ListingTitle < results[j].ListingTitle
		}
		return derefOr(results[i].BuyerName) < derefOr(results[j].BuyerName)
	})
	return results, nil
}

func (s *reportService) metadataByName(ctx context.Context) (map[string]*model.ProductImage, error) {
	images, err := s.imgRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*model.ProductImage, len(images))
	for i := range images {
		byName[images[i].NormalizedItemName] = &images[i]
	}
	return byName, nil
}

func sortSet(setName *string) string {
	if setName == nil {
		return "ZZZ"
	}
	return *setName
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// BuildReport wraps GetItemCounts into the wire payload with its total.
func BuildReport(results []dto.ItemCount) dto.ItemReportResponse {
	total := 0
	for _, item := range results {
		total += item.QuantitySold
	}
	return dto.ItemReportResponse{TotalItems: total, Results: results}
}
