// Package ingestion provides the ingestion bounded context module: the four
// upload endpoints feeding affordability outcomes, the lead ledger, ad spend
// and the campaign crosswalk into the reporting tables.
package ingestion

import (
	"marketing_analytics_backend/internal/http"
	"marketing_analytics_backend/internal/ingestion/handler"
	"marketing_analytics_backend/internal/ingestion/repository"
	"marketing_analytics_backend/internal/ingestion/service"
	"marketing_analytics_backend/platform/config"
	"marketing_analytics_backend/platform/httpkit"
	"marketing_analytics_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the ingestion bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the ingestion module. Mapping snapshots
// and crosswalk writes are delegated to the mappings service.
func NewModule(pool *pgxpool.Pool, mappings service.MappingProvider, cfg config.UploadConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, mappings, log)
	h := handler.New(svc, cfg.GetUploadMaxFileSize())

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "ingestion"
}

// RegisterRoutes mounts the upload routes on the provided router context.
// Uploads are rate limited per client IP and capped at the configured body size.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	group := ctx.V1.Group("/uploads")
	group.Use(ctx.UploadRateLimiter.RateLimit())
	group.Use(httpkit.MaxBodySize(ctx.UploadMaxFileSize))
	group.POST("/affordability", m.handler.UploadAffordability)
	group.POST("/lead-ledger", m.handler.UploadLeadLedger)
	group.POST("/ad-spend", m.handler.UploadAdSpend)
	group.POST("/campaign-mappings", m.handler.UploadCampaignMappings)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
