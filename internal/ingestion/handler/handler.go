// Package handler exposes the upload endpoints. Each endpoint accepts one
// multipart file, reads it into raw sheet grids and hands the promoted table
// to the ingestion service under a fresh batch id.
package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketing_analytics_backend/internal/ingestion/repository"
	"marketing_analytics_backend/internal/ingestion/service"
	"marketing_analytics_backend/internal/ingestion/transport"
	"marketing_analytics_backend/platform/apperr"
	"marketing_analytics_backend/platform/httpkit"
	"marketing_analytics_backend/platform/tabular"
)

const (
	formFieldFile    = "file"
	formFieldOutcome = "outcome"

	sheetAffordabilityPassed = "Affordability data - passed"
	sheetAffordabilityFailed = "Affordability data - failed"
	sheetLedger              = "ALL"

	sentinelAffordability = "DateTime"
	sentinelLedger        = "Reference"
)

// Handler handles the upload endpoints.
type Handler struct {
	svc         *service.Service
	maxFileSize int64
}

// New creates a new ingestion handler.
func New(svc *service.Service, maxFileSize int64) *Handler {
	return &Handler{svc: svc, maxFileSize: maxFileSize}
}

// readUpload reads the multipart file into raw sheet grids. It writes the
// error response itself and reports success through the bool.
func (h *Handler) readUpload(c *gin.Context) (tabular.Workbook, bool) {
	file, header, err := c.Request.FormFile(formFieldFile)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload field", nil)
		return tabular.Workbook{}, false
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	if header.Size > h.maxFileSize {
		httpkit.Error(c, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit", gin.H{"maxBytes": h.maxFileSize})
		return tabular.Workbook{}, false
	}

	wb, err := tabular.ReadUpload(header.Filename, file)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindUnsupported, "could not read uploaded file", err).WithDetails(err.Error()))
		return tabular.Workbook{}, false
	}
	return wb, true
}

// UploadAffordability ingests an affordability export. The workbook carries a
// passed and a failed sheet; a CSV upload carries one sheet and declares its
// outcome through the form field.
// POST /api/v1/uploads/affordability
func (h *Handler) UploadAffordability(c *gin.Context) {
	wb, ok := h.readUpload(c)
	if !ok {
		return
	}

	batchID := uuid.New().String()
	response := transport.AffordabilityUploadResponse{BatchID: batchID}

	passed, hasPassed := wb.Sheet(sheetAffordabilityPassed)
	failed, hasFailed := wb.Sheet(sheetAffordabilityFailed)

	if !hasPassed && !hasFailed {
		outcome := c.PostForm(formFieldOutcome)
		if outcome == "" || len(wb.Sheets) == 0 {
			httpkit.HandleError(c, apperr.Validation("workbook has no affordability sheets; single-sheet uploads must declare an outcome"))
			return
		}
		table := tabular.PromoteHeader(wb.Sheets[0].Name, wb.Sheets[0].Grid, sentinelAffordability)
		result, err := h.svc.IngestAffordability(c.Request.Context(), batchID, table, outcome)
		if httpkit.HandleError(c, err) {
			return
		}
		if outcome == repository.AffordabilityFailed {
			response.Failed = &result
		} else {
			response.Passed = &result
		}
		httpkit.OK(c, response)
		return
	}

	if hasPassed {
		table := tabular.PromoteHeader(passed.Name, passed.Grid, sentinelAffordability)
		result, err := h.svc.IngestAffordability(c.Request.Context(), batchID, table, repository.AffordabilityPassed)
		if httpkit.HandleError(c, err) {
			return
		}
		response.Passed = &result
	}
	if hasFailed {
		table := tabular.PromoteHeader(failed.Name, failed.Grid, sentinelAffordability)
		result, err := h.svc.IngestAffordability(c.Request.Context(), batchID, table, repository.AffordabilityFailed)
		if httpkit.HandleError(c, err) {
			return
		}
		response.Failed = &result
	}
	httpkit.OK(c, response)
}

// UploadLeadLedger ingests the weekly lead ledger from the ALL sheet, or the
// first sheet when the export drops the sheet name.
// POST /api/v1/uploads/lead-ledger
func (h *Handler) UploadLeadLedger(c *gin.Context) {
	wb, ok := h.readUpload(c)
	if !ok {
		return
	}
	sheet, found := wb.Sheet(sheetLedger)
	if !found {
		if len(wb.Sheets) == 0 {
			httpkit.HandleError(c, apperr.Validation("workbook has no sheets"))
			return
		}
		sheet = wb.Sheets[0]
	}

	table := tabular.PromoteHeader(sheet.Name, sheet.Grid, sentinelLedger)
	result, err := h.svc.IngestLeadLedger(c.Request.Context(), uuid.New().String(), table)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UploadAdSpend ingests a spend export from the first sheet.
// POST /api/v1/uploads/ad-spend
func (h *Handler) UploadAdSpend(c *gin.Context) {
	wb, ok := h.readUpload(c)
	if !ok {
		return
	}
	if len(wb.Sheets) == 0 {
		httpkit.HandleError(c, apperr.Validation("workbook has no sheets"))
		return
	}

	sheet := wb.Sheets[0]
	table := tabular.PromoteHeader(sheet.Name, sheet.Grid, "Reporting End Date", "Date")
	result, err := h.svc.IngestAdSpend(c.Request.Context(), uuid.New().String(), table)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UploadCampaignMappings ingests a crosswalk file: first column raw source,
// second column canonical campaign name.
// POST /api/v1/uploads/campaign-mappings
func (h *Handler) UploadCampaignMappings(c *gin.Context) {
	wb, ok := h.readUpload(c)
	if !ok {
		return
	}
	if len(wb.Sheets) == 0 {
		httpkit.HandleError(c, apperr.Validation("workbook has no sheets"))
		return
	}

	sheet := wb.Sheets[0]
	table := tabular.PromoteHeader(sheet.Name, sheet.Grid)
	result, err := h.svc.IngestCampaignMapping(c.Request.Context(), uuid.New().String(), table)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
