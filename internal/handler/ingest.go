package handler

import (
	"net/http"

	"kantocollect/internal/apierror"
	"kantocollect/internal/dto"
	"kantocollect/internal/service"

	"github.com/gin-gonic/gin"
)

type IngestHandler struct{ svc service.IngestService }

func NewIngestHandler(svc service.IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

// Ingest godoc
// @Summary      Ingest marketplace CSV exports
// @Description  Loads one or more export files from the server's disk. Duplicate order ids and malformed rows are skipped and counted. A missing file fails the whole batch before anything is written.
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        body body dto.IngestRequest true "Paths to ingest"
// @Success      200 {object} dto.IngestResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ingest [post]
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req dto.IngestRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.IngestFiles(c.Request.Context(), req.CSVPaths, req.IncludeNonSales)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
