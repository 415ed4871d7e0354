package dto

// IngestRequest asks the server to ingest export files already on its disk.
type IngestRequest struct {
	CSVPaths        []string `json:"csv_paths" validate:"required,min=1"`
	IncludeNonSales bool     `json:"include_non_sales"`
}

// IngestResponse summarizes one ingestion batch. Skip counts make
// data-quality issues observable without aborting the run.
type IngestResponse struct {
	FilesProcessed int `json:"files_processed"`
	RowsLoaded     int `json:"rows_loaded"`
	RowsSkipped    int `json:"rows_skipped"`
}
