// Package service contains the mapping context business logic: admin CRUD
// over the campaign crosswalk and status table, plus snapshot construction
// for ingestion and reporting.
package service

import (
	"context"
	"fmt"
	"strings"

	"marketing_analytics_backend/internal/mappings/repository"
	"marketing_analytics_backend/internal/mappings/resolver"
	"marketing_analytics_backend/platform/apperr"
	"marketing_analytics_backend/platform/logger"
)

// Service implements mapping operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new mappings service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Snapshot loads both mapping tables and freezes them into an immutable
// resolver snapshot. Every ingestion and report call takes its own snapshot
// so concurrent mapping edits cannot change results mid-call.
func (s *Service) Snapshot(ctx context.Context) (*resolver.Snapshot, error) {
	campaignRows, err := s.repo.ListCampaignMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot campaign mappings: %w", err)
	}
	statusRows, err := s.repo.ListStatusMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot status mappings: %w", err)
	}

	campaigns := make(map[string]string, len(campaignRows))
	for _, m := range campaignRows {
		campaigns[m.RawSource] = m.CampaignName
	}
	statuses := make(map[string]resolver.FunnelFlags, len(statusRows))
	for _, m := range statusRows {
		statuses[m.Status] = resolver.FunnelFlags{
			Received:  m.IsApplicationReceived != 0,
			Processed: m.IsApplicationProcessed != 0,
			Approved:  m.IsApplicationApproved != 0,
			Future:    m.IsFuture != 0,
		}
	}
	return resolver.NewSnapshot(campaigns, statuses), nil
}

// ListCampaignMappings returns all crosswalk entries.
func (s *Service) ListCampaignMappings(ctx context.Context) ([]repository.CampaignMapping, error) {
	return s.repo.ListCampaignMappings(ctx)
}

// CreateCampaignMapping adds a crosswalk entry.
func (s *Service) CreateCampaignMapping(ctx context.Context, rawSource, campaignName string) (repository.CampaignMapping, error) {
	rawSource = strings.TrimSpace(rawSource)
	campaignName = strings.TrimSpace(campaignName)
	if rawSource == "" || campaignName == "" {
		return repository.CampaignMapping{}, apperr.Validation("raw source and campaign name are required")
	}
	return s.repo.CreateCampaignMapping(ctx, rawSource, campaignName)
}

// UpdateCampaignMapping changes the canonical name of an entry.
func (s *Service) UpdateCampaignMapping(ctx context.Context, rawSource, campaignName string) (repository.CampaignMapping, error) {
	campaignName = strings.TrimSpace(campaignName)
	if campaignName == "" {
		return repository.CampaignMapping{}, apperr.Validation("campaign name is required")
	}
	return s.repo.UpdateCampaignMapping(ctx, rawSource, campaignName)
}

// DeleteCampaignMapping removes an entry. Deletion never cascades into lead
// records; already resolved campaign names stay as written.
func (s *Service) DeleteCampaignMapping(ctx context.Context, rawSource string) error {
	return s.repo.DeleteCampaignMapping(ctx, rawSource)
}

// UpsertCampaignMapping inserts or overwrites a crosswalk entry. Crosswalk
// uploads funnel through here row by row.
func (s *Service) UpsertCampaignMapping(ctx context.Context, rawSource, campaignName string) (bool, error) {
	rawSource = strings.TrimSpace(rawSource)
	campaignName = strings.TrimSpace(campaignName)
	if rawSource == "" || campaignName == "" {
		return false, apperr.Validation("raw source and campaign name are required")
	}
	return s.repo.UpsertCampaignMapping(ctx, rawSource, campaignName)
}

// ListStatusMappings returns all status mappings.
func (s *Service) ListStatusMappings(ctx context.Context) ([]repository.StatusMapping, error) {
	return s.repo.ListStatusMappings(ctx)
}

// CreateStatusMapping adds a status mapping.
func (s *Service) CreateStatusMapping(ctx context.Context, mapping repository.StatusMapping) (repository.StatusMapping, error) {
	mapping.Status = strings.TrimSpace(mapping.Status)
	if mapping.Status == "" {
		return repository.StatusMapping{}, apperr.Validation("status is required")
	}
	for _, flag := range []int{mapping.IsApplicationReceived, mapping.IsApplicationProcessed, mapping.IsApplicationApproved, mapping.IsFuture} {
		if flag != 0 && flag != 1 {
			return repository.StatusMapping{}, apperr.Validation("flags must be 0 or 1")
		}
	}
	return s.repo.CreateStatusMapping(ctx, mapping)
}

// UpdateStatusMapping updates the flags of a status mapping.
func (s *Service) UpdateStatusMapping(ctx context.Context, params repository.UpdateStatusMappingParams) (repository.StatusMapping, error) {
	for _, flag := range []*int{params.IsApplicationReceived, params.IsApplicationProcessed, params.IsApplicationApproved, params.IsFuture} {
		if flag != nil && *flag != 0 && *flag != 1 {
			return repository.StatusMapping{}, apperr.Validation("flags must be 0 or 1")
		}
	}
	return s.repo.UpdateStatusMapping(ctx, params)
}

// DeleteStatusMapping removes a status mapping. Records carrying the status
// fall back to all-false flags on the next snapshot.
func (s *Service) DeleteStatusMapping(ctx context.Context, status string) error {
	return s.repo.DeleteStatusMapping(ctx, status)
}
