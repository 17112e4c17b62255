package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketing_analytics_backend/internal/mappings/repository"
	"marketing_analytics_backend/internal/mappings/service"
	"marketing_analytics_backend/internal/mappings/transport"
	"marketing_analytics_backend/platform/httpkit"
	"marketing_analytics_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for mapping administration.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new mappings handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListCampaignMappings retrieves the campaign crosswalk.
// GET /api/v1/admin/mappings/campaign
func (h *Handler) ListCampaignMappings(c *gin.Context) {
	mappings, err := h.svc.ListCampaignMappings(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.CampaignMappingResponse, 0, len(mappings))
	for _, m := range mappings {
		items = append(items, transport.FromCampaignMapping(m))
	}
	httpkit.OK(c, transport.CampaignMappingListResponse{Items: items, Total: len(items)})
}

// CreateCampaignMapping adds a crosswalk entry.
// POST /api/v1/admin/mappings/campaign
func (h *Handler) CreateCampaignMapping(c *gin.Context) {
	var req transport.CreateCampaignMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	mapping, err := h.svc.CreateCampaignMapping(c.Request.Context(), req.RawSource, req.CampaignName)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromCampaignMapping(mapping))
}

// UpdateCampaignMapping changes the canonical name of an entry.
// PUT /api/v1/admin/mappings/campaign/:rawSource
func (h *Handler) UpdateCampaignMapping(c *gin.Context) {
	var req transport.UpdateCampaignMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	mapping, err := h.svc.UpdateCampaignMapping(c.Request.Context(), c.Param("rawSource"), req.CampaignName)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromCampaignMapping(mapping))
}

// DeleteCampaignMapping removes a crosswalk entry.
// DELETE /api/v1/admin/mappings/campaign/:rawSource
func (h *Handler) DeleteCampaignMapping(c *gin.Context) {
	if err := h.svc.DeleteCampaignMapping(c.Request.Context(), c.Param("rawSource")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListStatusMappings retrieves the status table.
// GET /api/v1/admin/mappings/status
func (h *Handler) ListStatusMappings(c *gin.Context) {
	mappings, err := h.svc.ListStatusMappings(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.StatusMappingResponse, 0, len(mappings))
	for _, m := range mappings {
		items = append(items, transport.FromStatusMapping(m))
	}
	httpkit.OK(c, transport.StatusMappingListResponse{Items: items, Total: len(items)})
}

// CreateStatusMapping adds a status mapping.
// POST /api/v1/admin/mappings/status
func (h *Handler) CreateStatusMapping(c *gin.Context) {
	var req transport.CreateStatusMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	mapping, err := h.svc.CreateStatusMapping(c.Request.Context(), repository.StatusMapping{
		Status:                 req.Status,
		IsApplicationReceived:  req.IsApplicationReceived,
		IsApplicationProcessed: req.IsApplicationProcessed,
		IsApplicationApproved:  req.IsApplicationApproved,
		IsFuture:               req.IsFuture,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromStatusMapping(mapping))
}

// UpdateStatusMapping updates the flags of a status mapping.
// PUT /api/v1/admin/mappings/status/:status
func (h *Handler) UpdateStatusMapping(c *gin.Context) {
	var req transport.UpdateStatusMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	mapping, err := h.svc.UpdateStatusMapping(c.Request.Context(), repository.UpdateStatusMappingParams{
		Status:                 c.Param("status"),
		IsApplicationReceived:  req.IsApplicationReceived,
		IsApplicationProcessed: req.IsApplicationProcessed,
		IsApplicationApproved:  req.IsApplicationApproved,
		IsFuture:               req.IsFuture,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromStatusMapping(mapping))
}

// DeleteStatusMapping removes a status mapping.
// DELETE /api/v1/admin/mappings/status/:status
func (h *Handler) DeleteStatusMapping(c *gin.Context) {
	if err := h.svc.DeleteStatusMapping(c.Request.Context(), c.Param("status")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
