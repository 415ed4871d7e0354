package dto

import "github.com/shopspring/decimal"

// ItemReportFilter are the query parameters of the item count report.
// TitleMatch accepts exact | case_insensitive | aggressive | custom;
// anything else falls back to exact.
type ItemReportFilter struct {
	GroupByBuyer    bool   `form:"group_by_buyer"`
	IncludeNonSales bool   `form:"include_non_sales"`
	TitleMatch      string `form:"title_match,default=custom"`
}

// ItemCount is one aggregated report row.
type ItemCount struct {
	ListingTitle   string          `json:"listing_title"`
	QuantitySold   int             `json:"quantity_sold"`
	BuyerName      *string         `json:"buyer_name"`
	SetName        *string         `json:"set_name"`
	ImageURL       *string         `json:"image_url"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	NormalizedName string          `json:"normalized_name"`
}

// ItemReportResponse is the report payload consumed by the dashboard and CLI.
type ItemReportResponse struct {
	TotalItems int         `json:"total_items"`
	Results    []ItemCount `json:"results"`
}
