package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kantocollect/internal/config"
	"kantocollect/internal/dto"
	"kantocollect/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Port: 0, Env: "test", RateLimitPerMinute: 10000}
	return router.New(cfg, db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPI_IngestThenReport(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	path := writeCSV(t, "export.csv",
		csvHeader,
		"ORDER-1,Phantasmal Flames Booster Pack,ORDER_EARNINGS,2,9.99,ash",
		"ORDER-2,phantasmal flames pack,ORDER_EARNINGS,1,9.99,misty",
	)

	w := doJSON(t, r, http.MethodPost, "/v1/ingest", dto.IngestRequest{CSVPaths: []string{path}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ingest dto.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingest))
	assert.Equal(t, 2, ingest.RowsLoaded)

	w = doJSON(t, r, http.MethodGet, "/v1/items?title_match=custom", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report dto.ItemReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.TotalItems)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Phantasmal Flames Pack", report.Results[0].ListingTitle)
}

func TestAPI_IngestMissingFileIsBadRequest(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := doJSON(t, r, http.MethodPost, "/v1/ingest", dto.IngestRequest{
		CSVPaths: []string{"/nonexistent/export.csv"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_ValidationFailureIs422(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	// Missing owner and quantity.
	w := doJSON(t, r, http.MethodPost, "/v1/allocations/assign", map[string]interface{}{
		"item_name": "Phantasmal Flames Pack",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAPI_AdminMutationMissIs404(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := doJSON(t, r, http.MethodPut, "/v1/items/quantity", dto.UpdateQuantityRequest{
		ItemName: "no such item", Quantity: 2,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/allocations/remove", dto.RemoveAllocationRequest{
		NormalizedName: "no such item", Owner: "alice",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_AllocationLifecycle(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	seedSale(t, db, "ORDER-1", "Phantasmal Flames Booster Pack", 5, "ash")

	w := doJSON(t, r, http.MethodPost, "/v1/allocations/assign", dto.AssignRequest{
		ItemName: "Phantasmal Flames Pack", Owner: "alice", Quantity: 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/v1/allocations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary dto.AllocationSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalAllocated)
	assert.Equal(t, 5, summary.TotalInventory)

	w = doJSON(t, r, http.MethodPost, "/v1/allocations/move", dto.MoveAllocationRequest{
		NormalizedName: "phantasmal flames pack", FromOwner: "alice", ToOwner: "bob", Quantity: 3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/allocations", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, dto.OwnerTotal{Count: 3, Items: 1}, summary.OwnerTotals["bob"])
}

func TestAPI_HealthEndpoint(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestAPI_ManualAddItem(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)

	w := doJSON(t, r, http.MethodPost, "/v1/items", map[string]interface{}{
		"name":      "Crown Zenith Mini Tin",
		"quantity":  2,
		"unit_cost": "7.99",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/v1/items?title_match=custom", nil)
	var report dto.ItemReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, 2, report.Results[0].QuantitySold)
}
