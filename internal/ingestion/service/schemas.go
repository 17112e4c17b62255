package service

import "marketing_analytics_backend/platform/tabular"

// Canonical field names shared between schema normalization and row parsing.
const (
	fieldLeadID          = "Lead ID"
	fieldDateTime        = "DateTime"
	fieldStatus          = "Status"
	fieldLeadValue       = "LeadValue"
	fieldReference       = "Reference"
	fieldReceivedAt      = "ReceivedDateTime"
	fieldMarketingSource = "MarketingSource"
	fieldSaleValue       = "Data5"
	fieldPaymentType     = "Data6"
	fieldTermValue       = "Data10"
	fieldDescription     = "Data29"
	fieldSpendDate       = "ReportingEndDate"
	fieldSpendCampaign   = "CampaignName"
	fieldSpendAdLevel    = "AdLevel"
	fieldSpendAmount     = "Spend"
)

// affordabilitySchema matches the passed/failed affordability exports. Only
// the identifier and check timestamp are mandatory; the rest of the export's
// columns are carried when present.
var affordabilitySchema = tabular.Schema{
	Name: "affordability",
	Fields: []tabular.Field{
		{Name: fieldLeadID, Required: true, Aliases: []string{"Lead ID", "LeadID", "Lead"}},
		{Name: fieldDateTime, Required: true, Aliases: []string{"DateTime", "Date Time", "Checked At"}},
		{Name: fieldStatus, Aliases: []string{"Status"}},
		{Name: fieldLeadValue, Aliases: []string{"LeadValue", "Lead Value", "Value"}},
	},
}

// ledgerSchema matches the weekly lead ledger export. The DataN columns keep
// their export names because that is how every historical file labels them.
var ledgerSchema = tabular.Schema{
	Name: "lead-ledger",
	Fields: []tabular.Field{
		{Name: fieldReference, Required: true, Aliases: []string{"Reference", "Lead Reference", "Ref"}},
		{Name: fieldReceivedAt, Required: true, Aliases: []string{"ReceivedDateTime", "Received Date Time", "Received"}},
		{Name: fieldStatus, Aliases: []string{"Status"}},
		{Name: fieldMarketingSource, Aliases: []string{"MarketingSource", "Marketing Source", "Source"}},
		{Name: fieldSaleValue, Aliases: []string{"Data5", "Sale Value"}},
		{Name: fieldPaymentType, Aliases: []string{"Data6", "Payment Type"}},
		{Name: fieldTermValue, Aliases: []string{"Data10", "Term Value"}},
		{Name: fieldDescription, Aliases: []string{"Data29", "Product Description", "Description"}},
	},
}

// adSpendSchema identifies the spend export columns by content rather than
// exact name. These files come out of ad platforms with freely renamed
// headers, so matching falls through to token substrings.
var adSpendSchema = tabular.Schema{
	Name: "ad-spend",
	Fields: []tabular.Field{
		{
			Name:       fieldSpendDate,
			Required:   true,
			Aliases:    []string{"Reporting End Date", "Reporting Ends"},
			Substrings: [][]string{{"date"}},
		},
		{
			Name:       fieldSpendCampaign,
			Required:   true,
			Aliases:    []string{"Campaign Name"},
			Substrings: [][]string{{"campaign", "name"}, {"campaign"}},
		},
		{
			Name:       fieldSpendAdLevel,
			Aliases:    []string{"Ad Level"},
			Substrings: [][]string{{"ad", "level"}},
		},
		{
			Name:       fieldSpendAmount,
			Required:   true,
			Aliases:    []string{"Spend"},
			Substrings: [][]string{{"spend"}, {"amount"}, {"cost"}},
		},
	},
}
