// Package handler exposes the report endpoints.
package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"marketing_analytics_backend/internal/reports/service"
	"marketing_analytics_backend/platform/apperr"
	"marketing_analytics_backend/platform/httpkit"
)

const dateLayout = "2006-01-02"

// Handler handles report requests.
type Handler struct {
	svc              *service.Service
	defaultRangeDays int
}

// New creates a new reports handler. defaultRangeDays is the lookback window
// applied when the request carries no date range.
func New(svc *service.Service, defaultRangeDays int) *Handler {
	return &Handler{svc: svc, defaultRangeDays: defaultRangeDays}
}

// filters parses the shared query parameters. When neither bound is given the
// default lookback window applies; a single bound leaves the other side open.
func (h *Handler) filters(c *gin.Context) (service.Filters, error) {
	var f service.Filters

	startParam := c.Query("startDate")
	endParam := c.Query("endDate")
	if startParam != "" {
		start, err := time.Parse(dateLayout, startParam)
		if err != nil {
			return f, apperr.Validation(fmt.Sprintf("invalid startDate %q, want YYYY-MM-DD", startParam))
		}
		f.StartDate = &start
	}
	if endParam != "" {
		end, err := time.Parse(dateLayout, endParam)
		if err != nil {
			return f, apperr.Validation(fmt.Sprintf("invalid endDate %q, want YYYY-MM-DD", endParam))
		}
		// Inclusive through the end of the named day.
		end = end.AddDate(0, 0, 1).Add(-time.Second)
		f.EndDate = &end
	}
	if f.StartDate == nil && f.EndDate == nil {
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -h.defaultRangeDays)
		f.StartDate = &start
		f.EndDate = &end
	}

	f.ProductCategory = c.Query("productCategory")
	f.CampaignName = c.Query("campaignName")
	f.AdLevel = c.Query("adLevel")
	return f, nil
}

// CreditPerformance serves the credit performance by product report.
// GET /api/v1/reports/credit-performance
func (h *Handler) CreditPerformance(c *gin.Context) {
	f, err := h.filters(c)
	if httpkit.HandleError(c, err) {
		return
	}
	report, err := h.svc.CreditPerformance(c.Request.Context(), f)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

// MarketingCampaign serves the marketing campaign performance report.
// GET /api/v1/reports/marketing-campaign
func (h *Handler) MarketingCampaign(c *gin.Context) {
	f, err := h.filters(c)
	if httpkit.HandleError(c, err) {
		return
	}
	report, err := h.svc.MarketingCampaign(c.Request.Context(), f)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

// Summary serves the dashboard statistics.
// GET /api/v1/reports/summary
func (h *Handler) Summary(c *gin.Context) {
	stats, err := h.svc.SummaryStatistics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}
