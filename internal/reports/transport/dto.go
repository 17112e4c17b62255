// Package transport defines the report response payloads.
package transport

// CreditPerformanceRow is one product row of the credit performance report.
// Rates are fractions, not percentages.
type CreditPerformanceRow struct {
	Product                             string  `json:"product"`
	Number                              int     `json:"number"`
	AverageValueCreditApplied           float64 `json:"averageValueCreditApplied"`
	CombinedEnquiryCreditValue          float64 `json:"combinedEnquiryCreditValue"`
	CreditForApplications               float64 `json:"creditForApplications"`
	PullThroughRate                     float64 `json:"pullThroughRate"`
	CreditForProcessedApplications      float64 `json:"creditForProcessedApplications"`
	PercentApplicationsProcessed        float64 `json:"percentApplicationsProcessed"`
	CreditIssuedForApprovedApplications float64 `json:"creditIssuedForApprovedApplications"`
	PercentProcessedApplicationsIssued  float64 `json:"percentProcessedApplicationsIssued"`
	AverageCreditIssuedPerEnquiry       float64 `json:"averageCreditIssuedPerEnquiry"`
}

// CreditPerformanceReport is the credit performance report: product rows plus
// a totals row whose ratios are recomputed from the summed values.
type CreditPerformanceReport struct {
	Rows   []CreditPerformanceRow `json:"rows"`
	Totals CreditPerformanceRow   `json:"totals"`
}

// CampaignSummary is the headline metrics block of the marketing campaign
// report.
type CampaignSummary struct {
	MarketingCost                       float64 `json:"marketingCost"`
	CostPerEnquiry                      float64 `json:"costPerEnquiry"`
	CostPerApplication                  float64 `json:"costPerApplication"`
	CostPerApprovedLoan                 float64 `json:"costPerApprovedLoan"`
	ApprovalRate                        float64 `json:"approvalRate"`
	SumOfCreditIssued                   float64 `json:"sumOfCreditIssued"`
	AverageCreditIssuedPerSuccessfulApp float64 `json:"averageCreditIssuedPerSuccessfulApp"`
	CreditPerPoundSpent                 float64 `json:"creditPerPoundSpent"`
	ExpectedGrossMarginPerPoundSpent    float64 `json:"expectedGrossMarginPerPoundSpent"`
	GrossMarginReturnPerPoundSpent      float64 `json:"grossMarginReturnPerPoundSpent"`
}

// StatusBreakdownRow is one status row of the marketing campaign report.
type StatusBreakdownRow struct {
	Status                 string  `json:"status"`
	IsApplicationReceived  int     `json:"isApplicationReceived"`
	IsApplicationProcessed int     `json:"isApplicationProcessed"`
	IsApplicationApproved  int     `json:"isApplicationApproved"`
	IsFuture               int     `json:"isFuture"`
	Count                  int     `json:"count"`
	Value                  float64 `json:"value"`
}

// FunnelCounts is the counts block of the marketing campaign report.
type FunnelCounts struct {
	Enquiries    int `json:"enquiries"`
	Applications int `json:"applications"`
	Processed    int `json:"processed"`
	Approved     int `json:"approved"`
}

// MarketingCampaignReport is the full marketing campaign report payload.
type MarketingCampaignReport struct {
	Summary         CampaignSummary      `json:"summary"`
	StatusBreakdown []StatusBreakdownRow `json:"statusBreakdown"`
	Counts          FunnelCounts         `json:"counts"`
}

// SummaryStatistics is the dashboard statistics payload.
type SummaryStatistics struct {
	TotalEnquiries    int     `json:"totalEnquiries"`
	TotalApplications int     `json:"totalApplications"`
	TotalCampaigns    int     `json:"totalCampaigns"`
	WeekEnquiries     int     `json:"weekEnquiries"`
	WeekApplications  int     `json:"weekApplications"`
	WeekSpend         float64 `json:"weekSpend"`
	ApprovalRate      float64 `json:"approvalRate"`
}
