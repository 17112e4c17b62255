// Package reports provides the reporting bounded context module: the legacy
// credit performance and marketing campaign reports plus the dashboard
// statistics, generated from the ingested tables.
package reports

import (
	"marketing_analytics_backend/internal/http"
	"marketing_analytics_backend/internal/reports/handler"
	"marketing_analytics_backend/internal/reports/repository"
	"marketing_analytics_backend/internal/reports/service"
	"marketing_analytics_backend/platform/config"
	"marketing_analytics_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reporting bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the reports module.
func NewModule(pool *pgxpool.Pool, mappings service.MappingSource, cfg config.ReportConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, mappings, cfg.GetExpectedGrossMargin(), log)
	h := handler.New(svc, cfg.GetReportDefaultRangeDays())

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// RegisterRoutes mounts the report routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	group := ctx.V1.Group("/reports")
	group.GET("/credit-performance", m.handler.CreditPerformance)
	group.GET("/marketing-campaign", m.handler.MarketingCampaign)
	group.GET("/summary", m.handler.Summary)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
