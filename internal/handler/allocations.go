package handler

import (
	"errors"
	"net/http"

	"kantocollect/internal/apierror"
	"kantocollect/internal/dto"
	"kantocollect/internal/service"

	"github.com/gin-gonic/gin"
)

type AllocationsHandler struct{ svc service.AllocationService }

func NewAllocationsHandler(svc service.AllocationService) *AllocationsHandler {
	return &AllocationsHandler{svc: svc}
}

// Summary godoc
// @Summary      Allocation summary
// @Description  Allocations joined against live inventory: per-item owner breakdowns, remaining quantities, and per-owner totals.
// @Tags         allocations
// @Produce      json
// @Param        title_match query string false "Matching mode (default custom)"
// @Success      200 {object} dto.AllocationSummaryResponse
// @Router       /v1/allocations [get]
func (h *AllocationsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context(), c.Query("title_match"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build allocation summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AllocationsHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Assign(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to assign item"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

func (h *AllocationsHandler) UpdateQuantity(c *gin.Context) {
	var req dto.UpdateAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateQuantity(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("allocation not found for "+req.Owner))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to update allocation"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

func (h *AllocationsHandler) Move(c *gin.Context) {
	var req dto.MoveAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Move(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("allocation not found for "+req.FromOwner))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to move allocation"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

func (h *AllocationsHandler) Remove(c *gin.Context) {
	var req dto.RemoveAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("allocation not found for "+req.Owner))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to remove allocation"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

// Import godoc
// @Summary      Bulk-import allocations from Excel
// @Description  One sheet per owner, rows of (item, cost, count). Fuzzy-matches sheet names to inventory; unmatched and over-allocated rows are reported and skipped. Replaces all existing allocations unless dry_run.
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        body body dto.ImportAllocationsRequest true "Workbook path and options"
// @Success      200 {object} dto.ImportAllocationsResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/allocations/import [post]
func (h *AllocationsHandler) Import(c *gin.Context) {
	var req dto.ImportAllocationsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ImportFromExcel(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
