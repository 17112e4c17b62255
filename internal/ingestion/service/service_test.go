package service

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"marketing_analytics_backend/internal/ingestion/repository"
	"marketing_analytics_backend/internal/mappings/resolver"
	"marketing_analytics_backend/platform/apperr"
	"marketing_analytics_backend/platform/logger"
	"marketing_analytics_backend/platform/tabular"
)

type fakeRepo struct {
	outcomes map[string]repository.AffordabilityOutcome
	leads    map[string]repository.LeadRecord
	items    map[string][]repository.LineItem
	spend    map[string]repository.AdSpendRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		outcomes: make(map[string]repository.AffordabilityOutcome),
		leads:    make(map[string]repository.LeadRecord),
		items:    make(map[string][]repository.LineItem),
		spend:    make(map[string]repository.AdSpendRecord),
	}
}

func (f *fakeRepo) UpsertAffordabilityOutcome(_ context.Context, o repository.AffordabilityOutcome) (string, bool, error) {
	previous, existed := f.outcomes[o.LeadID]
	f.outcomes[o.LeadID] = o
	return previous.Outcome, existed, nil
}

func (f *fakeRepo) ApplyAffordabilityToLead(_ context.Context, leadID, outcome string) (bool, error) {
	lead, ok := f.leads[leadID]
	if !ok {
		return false, nil
	}
	lead.Affordability = outcome
	f.leads[leadID] = lead
	return true, nil
}

func (f *fakeRepo) GetAffordabilityOutcomes(_ context.Context, leadIDs []string) (map[string]repository.AffordabilityOutcome, error) {
	found := make(map[string]repository.AffordabilityOutcome)
	for _, id := range leadIDs {
		if o, ok := f.outcomes[id]; ok {
			found[id] = o
		}
	}
	return found, nil
}

func (f *fakeRepo) UpsertLeadRecord(_ context.Context, record repository.LeadRecord, items []repository.LineItem) error {
	f.leads[record.LeadID] = record
	f.items[record.LeadID] = items
	return nil
}

func (f *fakeRepo) UpsertAdSpendRecord(_ context.Context, record repository.AdSpendRecord) error {
	key := fmt.Sprintf("%s|%s|%s", record.ReportingEndDate.Format("2006-01-02"), record.CampaignLabel, record.AdLevel)
	f.spend[key] = record
	return nil
}

type fakeMappings struct {
	snapshot  *resolver.Snapshot
	crosswalk map[string]string
}

func newFakeMappings() *fakeMappings {
	return &fakeMappings{
		snapshot: resolver.NewSnapshot(
			map[string]string{"fb sofa spring": "FB Sofas"},
			map[string]resolver.FunnelFlags{
				"Active":    {Received: true, Processed: true, Approved: true},
				"Cancelled": {},
			},
		),
		crosswalk: make(map[string]string),
	}
}

func (f *fakeMappings) Snapshot(_ context.Context) (*resolver.Snapshot, error) {
	return f.snapshot, nil
}

func (f *fakeMappings) UpsertCampaignMapping(_ context.Context, rawSource, campaignName string) (bool, error) {
	_, existed := f.crosswalk[rawSource]
	f.crosswalk[rawSource] = campaignName
	return !existed, nil
}

func newTestService(repo *fakeRepo, mappings *fakeMappings) *Service {
	return New(repo, mappings, logger.New("test"))
}

func affordabilityTable(rows [][]string) tabular.Table {
	return tabular.NewTable("Affordability data - passed", []string{"Lead ID", "DateTime", "Status", "LeadValue"}, rows)
}

func ledgerTable(rows [][]string) tabular.Table {
	headers := []string{"Reference", "ReceivedDateTime", "Status", "MarketingSource", "Data5", "Data6", "Data10", "Data29"}
	return tabular.NewTable("ALL", headers, rows)
}

func TestIngestAffordabilityAcceptsAndRejects(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	table := affordabilityTable([][]string{
		{"L-1", "2026-08-24 10:30:00", "Active", "£1,200.00"},
		{"", "2026-08-24 11:00:00", "Active", "500"},
		{"L-2", "not a date", "Active", ""},
	})
	result, err := svc.IngestAffordability(context.Background(), "batch-1", table, repository.AffordabilityPassed)
	if err != nil {
		t.Fatalf("IngestAffordability: %v", err)
	}
	if result.AcceptedCount != 2 {
		t.Fatalf("accepted = %d, want 2", result.AcceptedCount)
	}
	if len(result.RejectedRows) != 1 || result.RejectedRows[0].RowIndex != 2 {
		t.Fatalf("rejected rows = %+v, want one at row 2", result.RejectedRows)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one for the unparseable date", result.Warnings)
	}

	outcome := repo.outcomes["L-1"]
	if outcome.Outcome != repository.AffordabilityPassed {
		t.Fatalf("outcome = %q, want passed", outcome.Outcome)
	}
	if outcome.AppliedValue == nil || !outcome.AppliedValue.Equal(decimal.RequireFromString("1200")) {
		t.Fatalf("applied value = %v, want 1200", outcome.AppliedValue)
	}
	if outcome.CheckedAt == nil {
		t.Fatal("expected a parsed check date")
	}
}

func TestIngestAffordabilityRejectsUnknownOutcome(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeMappings())
	_, err := svc.IngestAffordability(context.Background(), "batch-1", affordabilityTable(nil), "maybe")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestIngestAffordabilityConflictLastWins(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())
	rows := [][]string{{"L-1", "2026-08-24 10:30:00", "Active", "900"}}

	if _, err := svc.IngestAffordability(context.Background(), "b1", affordabilityTable(rows), repository.AffordabilityPassed); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	result, err := svc.IngestAffordability(context.Background(), "b2", affordabilityTable(rows), repository.AffordabilityFailed)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one conflict warning", result.Warnings)
	}
	if repo.outcomes["L-1"].Outcome != repository.AffordabilityFailed {
		t.Fatalf("outcome = %q, want failed (last ingest wins)", repo.outcomes["L-1"].Outcome)
	}
}

func TestIngestAffordabilityUpdatesExistingLead(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	ledger := ledgerTable([][]string{{"L-1", "2026-08-20 09:00:00", "Active", "fb sofa spring", "500", "Weekly", "", "Aldis corner sofa £500"}})
	if _, err := svc.IngestLeadLedger(context.Background(), "b1", ledger); err != nil {
		t.Fatalf("IngestLeadLedger: %v", err)
	}
	if repo.leads["L-1"].Affordability != repository.AffordabilityUnknown {
		t.Fatalf("affordability = %q before any check", repo.leads["L-1"].Affordability)
	}

	rows := [][]string{{"L-1", "2026-08-24 10:30:00", "Active", "500"}}
	if _, err := svc.IngestAffordability(context.Background(), "b2", affordabilityTable(rows), repository.AffordabilityPassed); err != nil {
		t.Fatalf("IngestAffordability: %v", err)
	}
	if repo.leads["L-1"].Affordability != repository.AffordabilityPassed {
		t.Fatalf("affordability = %q, want passed applied to the existing lead", repo.leads["L-1"].Affordability)
	}
}

func TestIngestLeadLedgerOutOfOrderAffordability(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	rows := [][]string{{"L-9", "2026-08-24 10:30:00", "Active", "800"}}
	if _, err := svc.IngestAffordability(context.Background(), "b1", affordabilityTable(rows), repository.AffordabilityPassed); err != nil {
		t.Fatalf("IngestAffordability: %v", err)
	}

	ledger := ledgerTable([][]string{{"L-9", "2026-08-20 09:00:00", "Active", "fb sofa spring", "800", "Weekly", "", "Rattan garden set £800"}})
	if _, err := svc.IngestLeadLedger(context.Background(), "b2", ledger); err != nil {
		t.Fatalf("IngestLeadLedger: %v", err)
	}
	if repo.leads["L-9"].Affordability != repository.AffordabilityPassed {
		t.Fatalf("affordability = %q, want passed picked up from the earlier upload", repo.leads["L-9"].Affordability)
	}
}

func TestIngestLeadLedgerResolvesMappingsAndProducts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	ledger := ledgerTable([][]string{
		{"L-1", "2026-08-20 09:00:00", "Active", "? FB Sofa Spring", "500", "Weekly", "", "Aldis corner sofa £500"},
		{"L-2", "2026-08-20 10:00:00", "Cancelled", "tiktok beds", "0", "", "", "Double bed frame £250"},
		{"L-3", "2026-08-20 11:00:00", "Unheard-of status", "", "300", "Monthly", "360", "no products here"},
	})
	result, err := svc.IngestLeadLedger(context.Background(), "b1", ledger)
	if err != nil {
		t.Fatalf("IngestLeadLedger: %v", err)
	}
	if result.LeadsUpserted != 3 {
		t.Fatalf("leads upserted = %d, want 3", result.LeadsUpserted)
	}
	if result.UnmappedCampaignCount != 1 || result.UnmappedSources[0] != "tiktok beds" {
		t.Fatalf("unmapped = %v, want [tiktok beds]", result.UnmappedSources)
	}

	one := repo.leads["L-1"]
	if one.CampaignName == nil || *one.CampaignName != "FB Sofas" {
		t.Fatalf("campaign = %v, want FB Sofas via normalized source", one.CampaignName)
	}
	if !one.FlagReceived || !one.FlagProcessed || !one.FlagApproved {
		t.Fatalf("flags = %+v, want Active funnel flags", one)
	}
	if one.ProductName != "Aldis" || !one.TotalSaleValue.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("product = %q total = %s", one.ProductName, one.TotalSaleValue)
	}

	two := repo.leads["L-2"]
	if two.CampaignName != nil {
		t.Fatalf("campaign = %v, want nil for an unmapped source", *two.CampaignName)
	}
	if two.FlagReceived || two.FlagProcessed || two.FlagApproved || two.FlagFuture {
		t.Fatalf("Cancelled should map to all-false flags, got %+v", two)
	}
	if two.ProductName != "Bed" {
		t.Fatalf("product = %q, want Bed", two.ProductName)
	}

	three := repo.leads["L-3"]
	if three.ProductName != "Other" {
		t.Fatalf("product = %q, want Other fallback", three.ProductName)
	}
	if !three.TotalSaleValue.Equal(decimal.RequireFromString("360")) {
		t.Fatalf("total = %s, want the monthly term value 360", three.TotalSaleValue)
	}
}

func TestIngestLeadLedgerReplacesLineItems(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	first := ledgerTable([][]string{{"L-1", "2026-08-20 09:00:00", "Active", "", "", "", "", "Cooker £400 and microwave £100"}})
	if _, err := svc.IngestLeadLedger(context.Background(), "b1", first); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if len(repo.items["L-1"]) != 2 {
		t.Fatalf("items = %d, want 2", len(repo.items["L-1"]))
	}

	second := ledgerTable([][]string{{"L-1", "2026-08-20 09:00:00", "Active", "", "", "", "", "Cooker £400"}})
	if _, err := svc.IngestLeadLedger(context.Background(), "b2", second); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if len(repo.items["L-1"]) != 1 {
		t.Fatalf("items = %d after re-ingest, want 1 (replaced, not accumulated)", len(repo.items["L-1"]))
	}
}

func TestIngestLeadLedgerSameFileTwiceIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	ledger := ledgerTable([][]string{
		{"L-1", "2026-08-20 09:00:00", "Active", "fb sofa spring", "500", "Weekly", "", "Aldis corner sofa £500"},
		{"L-2", "2026-08-20 10:00:00", "Cancelled", "tiktok beds", "", "", "", "Cooker £400 and microwave £100"},
	})
	first, err := svc.IngestLeadLedger(context.Background(), "b1", ledger)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	leadsAfterFirst := make(map[string]repository.LeadRecord, len(repo.leads))
	for id, lead := range repo.leads {
		leadsAfterFirst[id] = lead
	}
	itemsAfterFirst := make(map[string][]repository.LineItem, len(repo.items))
	for id, items := range repo.items {
		itemsAfterFirst[id] = items
	}

	second, err := svc.IngestLeadLedger(context.Background(), "b2", ledger)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second.LeadsUpserted != first.LeadsUpserted || len(second.RejectedRows) != len(first.RejectedRows) {
		t.Fatalf("second ingest accounting %+v differs from first %+v", second, first)
	}
	if !reflect.DeepEqual(repo.leads, leadsAfterFirst) {
		t.Fatalf("lead records changed on re-ingest of the same file:\n%+v\nwas\n%+v", repo.leads, leadsAfterFirst)
	}
	if !reflect.DeepEqual(repo.items, itemsAfterFirst) {
		t.Fatalf("line items changed on re-ingest of the same file:\n%+v\nwas\n%+v", repo.items, itemsAfterFirst)
	}
}

func TestIngestLeadLedgerSchemaMismatch(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	table := tabular.NewTable("ALL", []string{"Something", "Else"}, [][]string{{"a", "b"}})
	_, err := svc.IngestLeadLedger(context.Background(), "b1", table)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error for missing columns", err)
	}
	if len(repo.leads) != 0 {
		t.Fatal("nothing should be written on a schema mismatch")
	}
}

func TestIngestAdSpendUpsertsAndSkips(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeMappings())

	headers := []string{"Reporting End Date", "Campaign Name", "Ad Level", "Spend", "Notes"}
	table := tabular.NewTable("Sheet1", headers, [][]string{
		{"2026-08-23", "FB Sofas", "Ad set", "120.00", "x"},
		{"2026-08-23", "", "Ad set", "50.00", ""},
		{"2026-08-23", "TikTok Beds", "Ad set", "0", ""},
		{"not a date", "TikTok Beds", "Ad set", "40", ""},
	})
	result, err := svc.IngestAdSpend(context.Background(), "b1", table)
	if err != nil {
		t.Fatalf("IngestAdSpend: %v", err)
	}
	if result.RecordsUpserted != 1 {
		t.Fatalf("records = %d, want 1", result.RecordsUpserted)
	}
	if result.TotalSpend != "120.00" {
		t.Fatalf("total spend = %s, want 120.00", result.TotalSpend)
	}
	if len(result.RejectedRows) != 1 {
		t.Fatalf("rejected = %+v, want one for the bad date", result.RejectedRows)
	}
	if len(result.UnmatchedColumnsDetected) != 1 || result.UnmatchedColumnsDetected[0] != "Notes" {
		t.Fatalf("unmatched = %v, want [Notes]", result.UnmatchedColumnsDetected)
	}

	// Re-ingesting the same week with a corrected figure updates in place.
	corrected := tabular.NewTable("Sheet1", headers, [][]string{{"2026-08-23", "FB Sofas", "Ad set", "150.00", ""}})
	if _, err := svc.IngestAdSpend(context.Background(), "b2", corrected); err != nil {
		t.Fatalf("corrected ingest: %v", err)
	}
	if len(repo.spend) != 1 {
		t.Fatalf("spend rows = %d, want 1 after correction", len(repo.spend))
	}
	for _, record := range repo.spend {
		if !record.Spend.Equal(decimal.RequireFromString("150")) {
			t.Fatalf("spend = %s, want 150", record.Spend)
		}
		if record.CampaignName == nil || *record.CampaignName != "FB Sofas" {
			t.Fatalf("campaign name = %v, want the label itself", record.CampaignName)
		}
	}
}

func TestIngestCampaignMapping(t *testing.T) {
	mappings := newFakeMappings()
	svc := newTestService(newFakeRepo(), mappings)

	table := tabular.NewTable("Sheet1", []string{"Raw", "Canonical"}, [][]string{
		{"fb sofa spring", "FB Sofas"},
		{"tiktok beds", "TikTok Beds"},
		{"", "ignored"},
	})
	result, err := svc.IngestCampaignMapping(context.Background(), "b1", table)
	if err != nil {
		t.Fatalf("IngestCampaignMapping: %v", err)
	}
	if result.MappingsCreated != 2 || result.MappingsUpdated != 0 {
		t.Fatalf("created/updated = %d/%d, want 2/0", result.MappingsCreated, result.MappingsUpdated)
	}

	again, err := svc.IngestCampaignMapping(context.Background(), "b2", table)
	if err != nil {
		t.Fatalf("second IngestCampaignMapping: %v", err)
	}
	if again.MappingsCreated != 0 || again.MappingsUpdated != 2 {
		t.Fatalf("created/updated = %d/%d, want 0/2", again.MappingsCreated, again.MappingsUpdated)
	}

	narrow := tabular.NewTable("Sheet1", []string{"Raw"}, nil)
	if _, err := svc.IngestCampaignMapping(context.Background(), "b3", narrow); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error for a single-column file", err)
	}
}
