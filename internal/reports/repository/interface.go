package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Lead is one ledger row as the report engine sees it.
type Lead struct {
	LeadID          string
	ReceivedAt      *time.Time
	RawStatus       string
	CampaignName    *string
	ProductName     string
	ProductCategory string
	TotalSaleValue  decimal.Decimal
}

// Application is one affordability check as the report engine sees it. The
// applied value is zero when the source sheet carried none.
type Application struct {
	LeadID       string
	CheckedAt    *time.Time
	AppliedValue decimal.Decimal
	Outcome      string
}

// SpendRow is one ad spend row as the report engine sees it.
type SpendRow struct {
	ReportingEndDate time.Time
	CampaignLabel    string
	AdLevel          string
	Spend            decimal.Decimal
	CampaignName     *string
}

// Dataset is everything the report formulas need for one date range.
type Dataset struct {
	Leads        []Lead
	Applications []Application
	Spend        []SpendRow
}

// SummaryCounts backs the dashboard statistics endpoint.
type SummaryCounts struct {
	TotalEnquiries    int
	TotalApplications int
	TotalCampaigns    int
	WeekEnquiries     int
	WeekApplications  int
	WeekSpend         decimal.Decimal
	ApprovedEnquiries int
}

// Repository loads report inputs.
type Repository interface {
	// LoadDataset loads leads, applications and spend bounded by the
	// optional date range. Nil bounds load everything.
	LoadDataset(ctx context.Context, start, end *time.Time) (*Dataset, error)
	// SummaryCounts loads the dashboard counters. weekStart bounds the
	// this-week figures.
	SummaryCounts(ctx context.Context, weekStart time.Time) (SummaryCounts, error)
}
