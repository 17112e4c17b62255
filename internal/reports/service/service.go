// Package service generates the legacy report set over the ingested data.
package service

import (
	"context"
	"fmt"
	"time"

	mappingrepo "marketing_analytics_backend/internal/mappings/repository"
	"marketing_analytics_backend/internal/mappings/resolver"
	"marketing_analytics_backend/internal/reports/repository"
	"marketing_analytics_backend/internal/reports/transport"
	"marketing_analytics_backend/platform/logger"
)

// MappingSource supplies the status table and mapping snapshots. Satisfied by
// the mappings service.
type MappingSource interface {
	Snapshot(ctx context.Context) (*resolver.Snapshot, error)
	ListStatusMappings(ctx context.Context) ([]mappingrepo.StatusMapping, error)
}

// Filters are the optional report filters. Nil dates mean unbounded.
type Filters struct {
	StartDate       *time.Time
	EndDate         *time.Time
	ProductCategory string
	CampaignName    string
	AdLevel         string
}

// Service generates reports.
type Service struct {
	repo     repository.Repository
	mappings MappingSource
	margin   float64
	log      *logger.Logger
}

// New creates a new reports service. margin is the expected gross margin
// fraction used for the return-per-pound metrics.
func New(repo repository.Repository, mappings MappingSource, margin float64, log *logger.Logger) *Service {
	return &Service{repo: repo, mappings: mappings, margin: margin, log: log}
}

// CreditPerformance generates the credit performance by product report.
func (s *Service) CreditPerformance(ctx context.Context, f Filters) (transport.CreditPerformanceReport, error) {
	started := time.Now()

	data, err := s.repo.LoadDataset(ctx, f.StartDate, f.EndDate)
	if err != nil {
		return transport.CreditPerformanceReport{}, fmt.Errorf("credit performance report: %w", err)
	}
	snap, err := s.mappings.Snapshot(ctx)
	if err != nil {
		return transport.CreditPerformanceReport{}, fmt.Errorf("credit performance report: %w", err)
	}

	report := buildCreditPerformance(data, snap, f.ProductCategory)
	s.log.ReportGenerated("credit-performance", len(report.Rows), float64(time.Since(started).Milliseconds()))
	return report, nil
}

// MarketingCampaign generates the marketing campaign performance report.
func (s *Service) MarketingCampaign(ctx context.Context, f Filters) (transport.MarketingCampaignReport, error) {
	started := time.Now()

	data, err := s.repo.LoadDataset(ctx, f.StartDate, f.EndDate)
	if err != nil {
		return transport.MarketingCampaignReport{}, fmt.Errorf("marketing campaign report: %w", err)
	}
	statuses, err := s.mappings.ListStatusMappings(ctx)
	if err != nil {
		return transport.MarketingCampaignReport{}, fmt.Errorf("marketing campaign report: %w", err)
	}

	report := buildMarketingCampaign(data, statuses, f.CampaignName, f.AdLevel, s.margin)
	s.log.ReportGenerated("marketing-campaign", len(report.StatusBreakdown), float64(time.Since(started).Milliseconds()))
	return report, nil
}

// SummaryStatistics generates the dashboard counters. The week figures run
// from the most recent Monday.
func (s *Service) SummaryStatistics(ctx context.Context) (transport.SummaryStatistics, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))

	counts, err := s.repo.SummaryCounts(ctx, weekStart)
	if err != nil {
		return transport.SummaryStatistics{}, fmt.Errorf("summary statistics: %w", err)
	}

	return transport.SummaryStatistics{
		TotalEnquiries:    counts.TotalEnquiries,
		TotalApplications: counts.TotalApplications,
		TotalCampaigns:    counts.TotalCampaigns,
		WeekEnquiries:     counts.WeekEnquiries,
		WeekApplications:  counts.WeekApplications,
		WeekSpend:         counts.WeekSpend.InexactFloat64(),
		ApprovalRate:      ratio(float64(counts.ApprovedEnquiries), float64(counts.TotalApplications)),
	}, nil
}
