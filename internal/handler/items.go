package handler

import (
	"errors"
	"net/http"

	"kantocollect/internal/apierror"
	"kantocollect/internal/dto"
	"kantocollect/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct {
	reportSvc service.ReportService
	adminSvc  service.AdminService
}

func NewItemsHandler(reportSvc service.ReportService, adminSvc service.AdminService) *ItemsHandler {
	return &ItemsHandler{reportSvc: reportSvc, adminSvc: adminSvc}
}

// List godoc
// @Summary      Item count report
// @Description  Aggregated sold-item counts with configurable title matching (exact | case_insensitive | aggressive | custom). Unknown modes fall back to exact.
// @Tags         items
// @Produce      json
// @Param        group_by_buyer    query bool   false "Split counts per buyer"
// @Param        include_non_sales query bool   false "Include excluded transaction rows"
// @Param        title_match       query string false "Matching mode (default custom)"
// @Success      200 {object} dto.ItemReportResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/items [get]
func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	results, err := h.reportSvc.GetItemCounts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build item report"))
		return
	}
	c.JSON(http.StatusOK, service.BuildReport(results))
}

// UpdateQuantity sets the total quantity for every transaction grouping
// under a normalized item name.
func (h *ItemsHandler) UpdateQuantity(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.adminSvc.UpdateItemQuantity(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("no transactions found for: "+req.ItemName))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to update quantity"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

// Delete removes every transaction grouping under a normalized item name.
func (h *ItemsHandler) Delete(c *gin.Context) {
	var req dto.DeleteItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	deleted, err := h.adminSvc.DeleteItem(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("no transactions found for: "+req.ItemName))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to delete item"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success", Deleted: deleted})
}

// Add creates manual inventory outside any export file.
func (h *ItemsHandler) Add(c *gin.Context) {
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	msg, err := h.adminSvc.AddItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to add item"))
		return
	}
	c.JSON(http.StatusCreated, dto.StatusResponse{Status: "success", Message: msg})
}
