package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Affordability outcome values carried on lead records.
const (
	AffordabilityUnknown = "unknown"
	AffordabilityPassed  = "passed"
	AffordabilityFailed  = "failed"
)

// AffordabilityOutcome is one lead's affordability check result as supplied
// by a passed/failed export. Outcomes persist independently of lead records
// so the two file types can arrive in either order.
type AffordabilityOutcome struct {
	LeadID       string
	Outcome      string
	CheckedAt    *time.Time
	Status       string
	AppliedValue *decimal.Decimal
}

// LeadRecord is the unified lead row written by ledger ingestion.
type LeadRecord struct {
	LeadID          string
	ReceivedAt      *time.Time
	RawStatus       string
	FlagReceived    bool
	FlagProcessed   bool
	FlagApproved    bool
	FlagFuture      bool
	MarketingSource string
	CampaignName    *string
	ProductName     string
	ProductCategory string
	TotalSaleValue  decimal.Decimal
	Affordability   string
}

// LineItem is one product extracted from a lead's free-text description.
type LineItem struct {
	Product  string
	Category string
	Price    decimal.Decimal
}

// AdSpendRecord is one spend row keyed by its natural identity
// (reporting end date, raw campaign label, ad level).
type AdSpendRecord struct {
	ReportingEndDate time.Time
	CampaignLabel    string
	AdLevel          string
	Spend            decimal.Decimal
	CampaignName     *string
}

// Repository defines persistence for ingestion.
type Repository interface {
	// UpsertAffordabilityOutcome stores or overwrites a lead's outcome and
	// returns the previous outcome when one existed, so callers can warn on
	// passed/failed conflicts.
	UpsertAffordabilityOutcome(ctx context.Context, outcome AffordabilityOutcome) (previous string, existed bool, err error)

	// ApplyAffordabilityToLead retroactively updates an already ingested
	// lead record. Reports false when no such lead exists yet.
	ApplyAffordabilityToLead(ctx context.Context, leadID, outcome string) (bool, error)

	// GetAffordabilityOutcomes returns the stored outcomes for the given
	// lead identifiers.
	GetAffordabilityOutcomes(ctx context.Context, leadIDs []string) (map[string]AffordabilityOutcome, error)

	// UpsertLeadRecord writes a lead and its line items in one transaction.
	// Line items are deleted and recreated; a stored non-unknown
	// affordability outcome survives an incoming unknown.
	UpsertLeadRecord(ctx context.Context, record LeadRecord, items []LineItem) error

	// UpsertAdSpendRecord inserts or updates spend by natural key.
	UpsertAdSpendRecord(ctx context.Context, record AdSpendRecord) error
}
