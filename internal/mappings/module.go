// Package mappings provides the mapping bounded context module: the campaign
// crosswalk and status table with their admin CRUD surface, plus read-only
// snapshots consumed by ingestion and reporting.
package mappings

import (
	"marketing_analytics_backend/internal/http"
	"marketing_analytics_backend/internal/mappings/handler"
	"marketing_analytics_backend/internal/mappings/repository"
	"marketing_analytics_backend/internal/mappings/service"
	"marketing_analytics_backend/platform/logger"
	"marketing_analytics_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the mappings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the mappings module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "mappings"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts mapping administration routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	group := ctx.Admin.Group("/mappings")
	group.GET("/campaign", m.handler.ListCampaignMappings)
	group.POST("/campaign", m.handler.CreateCampaignMapping)
	group.PUT("/campaign/:rawSource", m.handler.UpdateCampaignMapping)
	group.DELETE("/campaign/:rawSource", m.handler.DeleteCampaignMapping)

	group.GET("/status", m.handler.ListStatusMappings)
	group.POST("/status", m.handler.CreateStatusMapping)
	group.PUT("/status/:status", m.handler.UpdateStatusMapping)
	group.DELETE("/status/:status", m.handler.DeleteStatusMapping)
}

// Compile-time check that Module implements http.Module
var _ http.Module = (*Module)(nil)
