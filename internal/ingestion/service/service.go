// Package service contains the ingestion business logic: normalizing
// uploaded tables, reconciling affordability outcomes with the lead ledger,
// extracting line items, and recording ad spend and crosswalk uploads.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"marketing_analytics_backend/internal/extraction"
	"marketing_analytics_backend/internal/ingestion/repository"
	"marketing_analytics_backend/internal/ingestion/transport"
	"marketing_analytics_backend/internal/mappings/resolver"
	"marketing_analytics_backend/platform/apperr"
	"marketing_analytics_backend/platform/logger"
	"marketing_analytics_backend/platform/tabular"
)

// MappingProvider supplies mapping snapshots and crosswalk writes. Satisfied
// by the mappings service.
type MappingProvider interface {
	Snapshot(ctx context.Context) (*resolver.Snapshot, error)
	UpsertCampaignMapping(ctx context.Context, rawSource, campaignName string) (bool, error)
}

// Service implements the ingestion operations.
type Service struct {
	repo     repository.Repository
	mappings MappingProvider
	log      *logger.Logger
}

// New creates a new ingestion service.
func New(repo repository.Repository, mappings MappingProvider, log *logger.Logger) *Service {
	return &Service{repo: repo, mappings: mappings, log: log}
}

// IngestAffordability processes one affordability sheet. Outcomes are stored
// per lead and applied retroactively to lead records already ingested, so
// upload order between ledger and affordability files does not matter.
func (s *Service) IngestAffordability(ctx context.Context, batchID string, table tabular.Table, outcome string) (transport.AffordabilityResult, error) {
	result := transport.AffordabilityResult{Outcome: outcome}
	if outcome != repository.AffordabilityPassed && outcome != repository.AffordabilityFailed {
		return result, apperr.Validation(fmt.Sprintf("affordability outcome must be %q or %q", repository.AffordabilityPassed, repository.AffordabilityFailed))
	}

	normalized, _, err := tabular.Normalize(table, affordabilitySchema)
	if err != nil {
		return result, s.schemaError(affordabilitySchema.Name, err)
	}

	log := s.log.WithBatchID(batchID)
	for i := 0; i < normalized.Len(); i++ {
		if normalized.IsEmptyRow(i) {
			continue
		}
		leadID := normalized.Cell(i, fieldLeadID)
		if leadID == "" {
			result.RejectedRows = append(result.RejectedRows, transport.RejectedRow{RowIndex: i + 1, Reason: "missing lead id"})
			continue
		}

		record := repository.AffordabilityOutcome{
			LeadID:  leadID,
			Outcome: outcome,
			Status:  normalized.Cell(i, fieldStatus),
		}
		if cell := normalized.Cell(i, fieldDateTime); cell != "" {
			if checkedAt, err := tabular.ParseExcelDateTime(cell); err == nil {
				record.CheckedAt = &checkedAt
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unparseable check date %q", i+1, cell))
			}
		}
		if cell := normalized.Cell(i, fieldLeadValue); cell != "" {
			if value, err := tabular.ParseDecimal(cell); err == nil {
				record.AppliedValue = &value
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unparseable lead value %q", i+1, cell))
			}
		}

		previous, existed, err := s.repo.UpsertAffordabilityOutcome(ctx, record)
		if err != nil {
			return result, fmt.Errorf("ingest affordability: %w", err)
		}
		if existed && previous != outcome {
			result.Warnings = append(result.Warnings, fmt.Sprintf("lead %s: affordability outcome changed from %s to %s", leadID, previous, outcome))
		}
		if _, err := s.repo.ApplyAffordabilityToLead(ctx, leadID, outcome); err != nil {
			return result, fmt.Errorf("ingest affordability: %w", err)
		}
		result.AcceptedCount++
	}

	log.IngestSummary("affordability-"+outcome, result.AcceptedCount, len(result.RejectedRows), len(result.Warnings))
	return result, nil
}

type parsedLead struct {
	record repository.LeadRecord
	items  []repository.LineItem
}

// IngestLeadLedger processes the weekly lead ledger: campaign and status
// resolution against a mapping snapshot, product extraction from the
// free-text description, and upsert keyed by lead identifier.
func (s *Service) IngestLeadLedger(ctx context.Context, batchID string, table tabular.Table) (transport.LeadLedgerResult, error) {
	result := transport.LeadLedgerResult{BatchID: batchID}

	normalized, _, err := tabular.Normalize(table, ledgerSchema)
	if err != nil {
		return result, s.schemaError(ledgerSchema.Name, err)
	}

	snap, err := s.mappings.Snapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("ingest lead ledger: %w", err)
	}

	unmapped := make(map[string]struct{})
	var parsed []parsedLead
	for i := 0; i < normalized.Len(); i++ {
		if normalized.IsEmptyRow(i) {
			continue
		}
		reference := normalized.Cell(i, fieldReference)
		if reference == "" {
			result.RejectedRows = append(result.RejectedRows, transport.RejectedRow{RowIndex: i + 1, Reason: "missing reference"})
			continue
		}

		record := repository.LeadRecord{
			LeadID:          reference,
			RawStatus:       normalized.Cell(i, fieldStatus),
			MarketingSource: normalized.Cell(i, fieldMarketingSource),
			Affordability:   repository.AffordabilityUnknown,
		}

		if cell := normalized.Cell(i, fieldReceivedAt); cell != "" {
			receivedAt, err := tabular.ParseExcelDateTime(cell)
			if err != nil {
				result.RejectedRows = append(result.RejectedRows, transport.RejectedRow{RowIndex: i + 1, Reason: fmt.Sprintf("unparseable received date %q", cell)})
				continue
			}
			record.ReceivedAt = &receivedAt
		}

		flags := snap.ResolveStatus(record.RawStatus)
		record.FlagReceived = flags.Received
		record.FlagProcessed = flags.Processed
		record.FlagApproved = flags.Approved
		record.FlagFuture = flags.Future

		if record.MarketingSource != "" {
			if campaign, ok := snap.ResolveCampaign(record.MarketingSource); ok {
				record.CampaignName = &campaign
			} else {
				unmapped[record.MarketingSource] = struct{}{}
			}
		}

		description := normalized.Cell(i, fieldDescription)
		extracted := extraction.Extract(description)
		items := make([]repository.LineItem, len(extracted))
		total := decimal.Zero
		for j, item := range extracted {
			items[j] = repository.LineItem{Product: item.Product, Category: item.Category, Price: item.Price}
			total = total.Add(item.Price)
		}
		record.ProductName = extracted[0].Product
		record.ProductCategory = extracted[0].Category
		if total.IsZero() {
			total = s.ledgerSaleValue(normalized, i)
		}
		record.TotalSaleValue = total

		parsed = append(parsed, parsedLead{record: record, items: items})
	}

	leadIDs := make([]string, len(parsed))
	for i, p := range parsed {
		leadIDs[i] = p.record.LeadID
	}
	outcomes, err := s.repo.GetAffordabilityOutcomes(ctx, leadIDs)
	if err != nil {
		return result, fmt.Errorf("ingest lead ledger: %w", err)
	}

	for _, p := range parsed {
		if outcome, ok := outcomes[p.record.LeadID]; ok {
			p.record.Affordability = outcome.Outcome
		}
		if err := s.repo.UpsertLeadRecord(ctx, p.record, p.items); err != nil {
			return result, fmt.Errorf("ingest lead ledger: %w", err)
		}
		result.LeadsUpserted++
		result.LineItemsCreated += len(p.items)
	}

	for source := range unmapped {
		result.UnmappedSources = append(result.UnmappedSources, source)
	}
	result.UnmappedCampaignCount = len(result.UnmappedSources)
	if result.UnmappedCampaignCount > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d marketing sources have no campaign mapping", result.UnmappedCampaignCount))
	}

	s.log.WithBatchID(batchID).IngestSummary("lead-ledger", result.LeadsUpserted, len(result.RejectedRows), len(result.Warnings))
	return result, nil
}

// ledgerSaleValue reproduces the legacy sale value fallback used when the
// description yields no priced items: periodic payment plans use the term
// value when present, everything else uses the plain sale value column.
func (s *Service) ledgerSaleValue(t tabular.Table, row int) decimal.Decimal {
	saleValue, err := tabular.ParseDecimal(t.Cell(row, fieldSaleValue))
	if err != nil || saleValue.IsZero() {
		return decimal.Zero
	}
	paymentType := t.Cell(row, fieldPaymentType)
	if paymentType == "Monthly" || paymentType == "Four Weekly" {
		if termValue, err := tabular.ParseDecimal(t.Cell(row, fieldTermValue)); err == nil && !termValue.IsZero() {
			return termValue
		}
	}
	return saleValue
}

// IngestAdSpend processes a spend export. Columns are identified by content,
// rows are upserted by (reporting end date, campaign label, ad level), and
// zero-spend rows are dropped.
func (s *Service) IngestAdSpend(ctx context.Context, batchID string, table tabular.Table) (transport.AdSpendResult, error) {
	result := transport.AdSpendResult{BatchID: batchID, TotalSpend: "0"}

	normalized, unmatched, err := tabular.Normalize(table, adSpendSchema)
	if err != nil {
		return result, s.schemaError(adSpendSchema.Name, err)
	}
	result.UnmatchedColumnsDetected = unmatched

	totalSpend := decimal.Zero
	for i := 0; i < normalized.Len(); i++ {
		if normalized.IsEmptyRow(i) {
			continue
		}
		label := normalized.Cell(i, fieldSpendCampaign)
		if label == "" {
			continue
		}

		reportingEnd, err := tabular.ParseExcelDate(normalized.Cell(i, fieldSpendDate))
		if err != nil {
			result.RejectedRows = append(result.RejectedRows, transport.RejectedRow{RowIndex: i + 1, Reason: fmt.Sprintf("unparseable reporting date %q", normalized.Cell(i, fieldSpendDate))})
			continue
		}
		spend, err := tabular.ParseDecimal(normalized.Cell(i, fieldSpendAmount))
		if err != nil {
			result.RejectedRows = append(result.RejectedRows, transport.RejectedRow{RowIndex: i + 1, Reason: fmt.Sprintf("unparseable spend %q", normalized.Cell(i, fieldSpendAmount))})
			continue
		}
		if spend.IsZero() {
			continue
		}

		// Spend labels come from the ad platform and already are canonical
		// campaign names; the crosswalk only translates ledger sources.
		campaignName := label
		record := repository.AdSpendRecord{
			ReportingEndDate: reportingEnd,
			CampaignLabel:    label,
			AdLevel:          normalized.Cell(i, fieldSpendAdLevel),
			Spend:            spend,
			CampaignName:     &campaignName,
		}
		if err := s.repo.UpsertAdSpendRecord(ctx, record); err != nil {
			return result, fmt.Errorf("ingest ad spend: %w", err)
		}
		totalSpend = totalSpend.Add(spend)
		result.RecordsUpserted++
	}
	result.TotalSpend = totalSpend.String()

	s.log.WithBatchID(batchID).IngestSummary("ad-spend", result.RecordsUpserted, len(result.RejectedRows), len(result.UnmatchedColumnsDetected))
	return result, nil
}

// IngestCampaignMapping processes a crosswalk file: the first column is the
// raw ledger source, the second the canonical campaign name.
func (s *Service) IngestCampaignMapping(ctx context.Context, batchID string, table tabular.Table) (transport.CampaignMappingUploadResult, error) {
	result := transport.CampaignMappingUploadResult{BatchID: batchID}
	if len(table.Headers) < 2 {
		return result, apperr.Validation("campaign mapping file needs at least two columns")
	}

	for _, row := range table.Rows {
		if len(row) < 2 {
			continue
		}
		rawSource := strings.TrimSpace(row[0])
		campaignName := strings.TrimSpace(row[1])
		if rawSource == "" || campaignName == "" {
			continue
		}
		created, err := s.mappings.UpsertCampaignMapping(ctx, rawSource, campaignName)
		if err != nil {
			return result, fmt.Errorf("ingest campaign mapping: %w", err)
		}
		if created {
			result.MappingsCreated++
		} else {
			result.MappingsUpdated++
		}
	}

	s.log.WithBatchID(batchID).IngestSummary("campaign-mapping", result.MappingsCreated+result.MappingsUpdated, 0, 0)
	return result, nil
}

// schemaError converts a schema mismatch into the validation error shape the
// HTTP layer returns, keeping the missing field list in the details.
func (s *Service) schemaError(source string, err error) error {
	if mismatch, ok := err.(*tabular.SchemaMismatchError); ok {
		s.log.SchemaMismatch(source, mismatch.Missing)
		return apperr.Validation(mismatch.Error()).WithDetails(map[string]interface{}{"missingFields": mismatch.Missing})
	}
	return err
}
