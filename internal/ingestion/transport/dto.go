package transport

// RejectedRow records a single row that failed parsing and was skipped.
// Row indexes are 1-based data-row positions below the header.
type RejectedRow struct {
	RowIndex int    `json:"rowIndex"`
	Reason   string `json:"reason"`
}

// AffordabilityResult is the outcome of ingesting one affordability sheet.
type AffordabilityResult struct {
	Outcome       string        `json:"outcome"`
	AcceptedCount int           `json:"acceptedCount"`
	RejectedRows  []RejectedRow `json:"rejectedRows"`
	Warnings      []string      `json:"warnings"`
}

// AffordabilityUploadResponse is the response of an affordability upload.
// Workbooks carry a passed and a failed sheet; CSV uploads fill just one
// side depending on the declared outcome.
type AffordabilityUploadResponse struct {
	BatchID string               `json:"batchId"`
	Passed  *AffordabilityResult `json:"passed,omitempty"`
	Failed  *AffordabilityResult `json:"failed,omitempty"`
}

// LeadLedgerResult is the outcome of ingesting a lead ledger file.
type LeadLedgerResult struct {
	BatchID               string        `json:"batchId"`
	LeadsUpserted         int           `json:"leadsUpserted"`
	LineItemsCreated      int           `json:"lineItemsCreated"`
	UnmappedCampaignCount int           `json:"unmappedCampaignCount"`
	UnmappedSources       []string      `json:"unmappedSources"`
	RejectedRows          []RejectedRow `json:"rejectedRows"`
	Warnings              []string      `json:"warnings"`
}

// AdSpendResult is the outcome of ingesting an ad-spend file.
type AdSpendResult struct {
	BatchID                  string        `json:"batchId"`
	RecordsUpserted          int           `json:"recordsUpserted"`
	TotalSpend               string        `json:"totalSpend"`
	UnmatchedColumnsDetected []string      `json:"unmatchedColumnsDetected"`
	RejectedRows             []RejectedRow `json:"rejectedRows"`
}

// CampaignMappingUploadResult is the outcome of ingesting a crosswalk file.
type CampaignMappingUploadResult struct {
	BatchID         string `json:"batchId"`
	MappingsCreated int    `json:"mappingsCreated"`
	MappingsUpdated int    `json:"mappingsUpdated"`
}
