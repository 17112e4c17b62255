package tabular

import (
	"testing"
)

func leadSchema() Schema {
	return Schema{
		Name: "lead_ledger",
		Fields: []Field{
			{Name: "reference", Required: true, Aliases: []string{"Reference", "Lead ID", "LeadID"}},
			{Name: "received_at", Required: true, Aliases: []string{"ReceivedDateTime", "Received Date Time", "Received"}},
			{Name: "status", Required: false, Aliases: []string{"Status"}},
		},
	}
}

func TestNormalizeMatchesAliasesAcrossCapitalizationAndOrder(t *testing.T) {
	raw := NewTable("ALL",
		[]string{"STATUS", "received-datetime", "reference"},
		[][]string{{"Active", "2025-07-01", "L1"}},
	)

	out, unmatched, err := Normalize(raw, leadSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unmatched) != 0 {
		t.Fatalf("expected no unmatched headers, got %v", unmatched)
	}
	if got := out.Cell(0, "reference"); got != "L1" {
		t.Fatalf("expected reference L1, got %q", got)
	}
	if got := out.Cell(0, "received_at"); got != "2025-07-01" {
		t.Fatalf("expected received_at 2025-07-01, got %q", got)
	}
	if got := out.Cell(0, "status"); got != "Active" {
		t.Fatalf("expected status Active, got %q", got)
	}
}

func TestNormalizeMissingRequiredFieldFailsWithNames(t *testing.T) {
	raw := NewTable("", []string{"Status"}, nil)

	_, _, err := Normalize(raw, leadSchema())
	mismatch, ok := err.(*SchemaMismatchError)
	if !ok {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
	if len(mismatch.Missing) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", mismatch.Missing)
	}
	if mismatch.Missing[0] != "reference" || mismatch.Missing[1] != "received_at" {
		t.Fatalf("unexpected missing fields: %v", mismatch.Missing)
	}
}

func TestNormalizeHeaderClaimedOnlyOnce(t *testing.T) {
	// "Lead ID" could satisfy both fields; the first field in schema order
	// claims it and the second must look elsewhere.
	schema := Schema{
		Name: "claim",
		Fields: []Field{
			{Name: "a", Required: true, Aliases: []string{"Lead ID"}},
			{Name: "b", Required: false, Aliases: []string{"Lead ID", "Backup"}},
		},
	}
	raw := NewTable("", []string{"Lead ID", "Backup"}, [][]string{{"x", "y"}})

	out, _, err := Normalize(raw, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Cell(0, "a"); got != "x" {
		t.Fatalf("expected a=x, got %q", got)
	}
	if got := out.Cell(0, "b"); got != "y" {
		t.Fatalf("expected b=y from fallback alias, got %q", got)
	}
}

func TestNormalizeSubstringFallbackAndUnmatchedReporting(t *testing.T) {
	schema := Schema{
		Name: "ad_spend",
		Fields: []Field{
			{Name: "reporting_end_date", Required: true, Aliases: []string{"Reporting End Date"}, Substrings: [][]string{{"date"}}},
			{Name: "campaign_label", Required: true, Substrings: [][]string{{"campaign", "name"}}},
			{Name: "spend", Required: true, Substrings: [][]string{{"spend"}, {"amount"}, {"cost"}}},
		},
	}
	raw := NewTable("",
		[]string{"Week end date", "Meta Campaign Name", "Amount (GBP)", "Impressions"},
		[][]string{{"2025-07-01", "Sofa Sale", "120.00", "9000"}},
	)

	out, unmatched, err := Normalize(raw, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Cell(0, "campaign_label"); got != "Sofa Sale" {
		t.Fatalf("expected campaign label, got %q", got)
	}
	if got := out.Cell(0, "spend"); got != "120.00" {
		t.Fatalf("expected spend 120.00, got %q", got)
	}
	if len(unmatched) != 1 || unmatched[0] != "Impressions" {
		t.Fatalf("expected Impressions unmatched, got %v", unmatched)
	}
}

func TestPromoteHeaderSkipsTitleRows(t *testing.T) {
	grid := [][]string{
		{"Weekly export", ""},
		{""},
		{"Reference", "Status"},
		{"L1", "Active"},
	}
	table := PromoteHeader("ALL", grid, "Reference")
	if len(table.Headers) != 2 || table.Headers[0] != "Reference" {
		t.Fatalf("expected promoted header row, got %v", table.Headers)
	}
	if table.Len() != 1 || table.Cell(0, "Reference") != "L1" {
		t.Fatalf("expected single data row, got %d rows", table.Len())
	}
}

func TestPromoteHeaderFallsBackToFirstRow(t *testing.T) {
	grid := [][]string{
		{"ColA", "ColB"},
		{"1", "2"},
	}
	table := PromoteHeader("", grid, "Reference")
	if table.Headers[0] != "ColA" || table.Len() != 1 {
		t.Fatalf("expected first-row header fallback, got %v", table.Headers)
	}
}
