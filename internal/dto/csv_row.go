package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CSVRow is the validated, typed form of one marketplace export row.
// Column names are case-sensitive and match the export format exactly.
// Blank optional text fields normalize to nil, blank numerics to their
// defaults, blank datetimes to nil.
type CSVRow struct {
	OrderID                   string
	ListingTitle              string
	ListingDescription        *string
	ProductCategory           *string
	BuyFormat                 *string
	SaleType                  *string
	QuantitySold              int
	TransactionType           string
	TransactionAmount         decimal.Decimal
	BuyerPaid                 decimal.Decimal
	OriginalItemPrice         decimal.Decimal
	BuyerName                 *string
	BuyerState                *string
	BuyerCountry              *string
	OrderPlacedAtUTC          *time.Time
	TransactionCompletedAtUTC *time.Time
}

// Datetime layouts accepted in export files.
var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func optionalText(raw map[string]string, key string) *string {
	v := strings.TrimSpace(raw[key])
	if v == "" {
		return nil
	}
	return &v
}

func optionalDecimal(raw map[string]string, key string) (decimal.Decimal, error) {
	v := strings.TrimSpace(raw[key])
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %w", key, err)
	}
	return d, nil
}

func optionalTime(raw map[string]string, key string) (*time.Time, error) {
	v := strings.TrimSpace(raw[key])
	if v == "" {
		return nil, nil
	}
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("column %s: unrecognized datetime %q", key, v)
}

// ParseCSVRow validates and coerces one raw header→value mapping into a
// typed CSVRow. A returned error means the row is malformed and should be
// skipped and counted — never fatal to the batch.
func ParseCSVRow(raw map[string]string) (CSVRow, error) {
	row := CSVRow{
		OrderID:            strings.TrimSpace(raw["ORDER_ID"]),
		ListingTitle:       strings.TrimSpace(raw["LISTING_TITLE"]),
		TransactionType:    strings.TrimSpace(raw["TRANSACTION_TYPE"]),
		ListingDescription: optionalText(raw, "LISTING_DESCRIPTION"),
		ProductCategory:    optionalText(raw, "PRODUCT_CATEGORY"),
		BuyFormat:          optionalText(raw, "BUY_FORMAT"),
		SaleType:           optionalText(raw, "SALE_TYPE"),
		BuyerName:          optionalText(raw, "BUYER_NAME"),
		BuyerState:         optionalText(raw, "BUYER_STATE"),
		BuyerCountry:       optionalText(raw, "BUYER_COUNTRY"),
		QuantitySold:       1,
	}

	if row.OrderID == "" {
		return row, fmt.Errorf("missing ORDER_ID")
	}
	if row.ListingTitle == "" {
		return row, fmt.Errorf("missing LISTING_TITLE")
	}
	if row.TransactionType == "" {
		return row, fmt.Errorf("missing TRANSACTION_TYPE")
	}

	if v := strings.TrimSpace(raw["QUANTITY_SOLD"]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return row, fmt.Errorf("column QUANTITY_SOLD: %w", err)
		}
		row.QuantitySold = n
	}

	var err error
	if row.TransactionAmount, err = optionalDecimal(raw, "TRANSACTION_AMOUNT"); err != nil {
		return row, err
	}
	if row.BuyerPaid, err = optionalDecimal(raw, "BUYER_PAID"); err != nil {
		return row, err
	}
	if row.OriginalItemPrice, err = optionalDecimal(raw, "ORIGINAL_ITEM_PRICE"); err != nil {
		return row, err
	}
	if row.OrderPlacedAtUTC, err = optionalTime(raw, "ORDER_PLACED_AT_UTC"); err != nil {
		return row, err
	}
	if row.TransactionCompletedAtUTC, err = optionalTime(raw, "TRANSACTION_COMPLETED_AT_UTC"); err != nil {
		return row, err
	}
	return row, nil
}
