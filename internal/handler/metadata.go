package handler

import (
	"net/http"

	"kantocollect/internal/apierror"
	"kantocollect/internal/dto"
	"kantocollect/internal/service"

	"github.com/gin-gonic/gin"
)

// MetadataHandler exposes the curated-metadata mutations: image, display
// name override, and unit cost. All three lazily create the metadata row.
type MetadataHandler struct{ svc service.AdminService }

func NewMetadataHandler(svc service.AdminService) *MetadataHandler {
	return &MetadataHandler{svc: svc}
}

func (h *MetadataHandler) UpdateImage(c *gin.Context) {
	var req dto.UpdateImageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateImage(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to update image"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

func (h *MetadataHandler) UpdateName(c *gin.Context) {
	var req dto.UpdateNameRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateName(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to update name"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

func (h *MetadataHandler) UpdatePrice(c *gin.Context) {
	var req dto.UpdatePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdatePrice(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to update price"))
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}
