package service

import (
	"sort"

	"github.com/shopspring/decimal"

	mappingrepo "marketing_analytics_backend/internal/mappings/repository"
	"marketing_analytics_backend/internal/mappings/resolver"
	"marketing_analytics_backend/internal/reports/repository"
	"marketing_analytics_backend/internal/reports/transport"
)

// ratio divides two floats, mapping a zero denominator to zero. Every rate in
// the legacy formula set degrades this way instead of erroring.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// campaignOf buckets leads without a resolved campaign under the synthetic
// unmapped name so they stay visible in campaign-filtered reports.
func campaignOf(lead repository.Lead) string {
	if lead.CampaignName == nil {
		return resolver.UnmappedCampaign
	}
	return *lead.CampaignName
}

type productAccumulator struct {
	product        string
	enquiryCount   int
	enquiryValue   decimal.Decimal
	appCount       int
	appValue       decimal.Decimal
	processedCount int
	processedValue decimal.Decimal
	approvedCount  int
	approvedValue  decimal.Decimal
}

// buildCreditPerformance computes the credit performance by product report.
// Funnel flags are resolved from the raw status at report time, so editing the
// status table retroactively reclassifies history.
func buildCreditPerformance(data *repository.Dataset, snap *resolver.Snapshot, productCategory string) transport.CreditPerformanceReport {
	appByLead := make(map[string]repository.Application, len(data.Applications))
	for _, app := range data.Applications {
		appByLead[app.LeadID] = app
	}

	groups := make(map[string]*productAccumulator)
	for _, lead := range data.Leads {
		if productCategory != "" && lead.ProductCategory != productCategory {
			continue
		}
		if lead.ProductName == "" {
			continue
		}
		acc, ok := groups[lead.ProductName]
		if !ok {
			acc = &productAccumulator{product: lead.ProductName}
			groups[lead.ProductName] = acc
		}
		acc.enquiryCount++
		acc.enquiryValue = acc.enquiryValue.Add(lead.TotalSaleValue)

		app, applied := appByLead[lead.LeadID]
		if !applied {
			continue
		}
		acc.appCount++
		acc.appValue = acc.appValue.Add(app.AppliedValue)

		flags := snap.ResolveStatus(lead.RawStatus)
		if flags.Processed {
			acc.processedCount++
			acc.processedValue = acc.processedValue.Add(app.AppliedValue)
		}
		if flags.Approved {
			acc.approvedCount++
			acc.approvedValue = acc.approvedValue.Add(app.AppliedValue)
		}
	}

	rows := make([]transport.CreditPerformanceRow, 0, len(groups))
	for _, acc := range groups {
		appValue := acc.appValue.InexactFloat64()
		approvedValue := acc.approvedValue.InexactFloat64()
		rows = append(rows, transport.CreditPerformanceRow{
			Product:                             acc.product,
			Number:                              acc.enquiryCount,
			AverageValueCreditApplied:           ratio(appValue, float64(acc.appCount)),
			CombinedEnquiryCreditValue:          acc.enquiryValue.InexactFloat64(),
			CreditForApplications:               appValue,
			PullThroughRate:                     ratio(float64(acc.appCount), float64(acc.enquiryCount)),
			CreditForProcessedApplications:      acc.processedValue.InexactFloat64(),
			PercentApplicationsProcessed:        ratio(float64(acc.processedCount), float64(acc.appCount)),
			CreditIssuedForApprovedApplications: approvedValue,
			PercentProcessedApplicationsIssued:  ratio(float64(acc.approvedCount), float64(acc.processedCount)),
			AverageCreditIssuedPerEnquiry:       ratio(approvedValue, float64(acc.enquiryCount)),
		})
	}

	// Best performers first: average credit issued per enquiry, then average
	// applied value, then name for a stable order.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AverageCreditIssuedPerEnquiry != rows[j].AverageCreditIssuedPerEnquiry {
			return rows[i].AverageCreditIssuedPerEnquiry > rows[j].AverageCreditIssuedPerEnquiry
		}
		if rows[i].AverageValueCreditApplied != rows[j].AverageValueCreditApplied {
			return rows[i].AverageValueCreditApplied > rows[j].AverageValueCreditApplied
		}
		return rows[i].Product < rows[j].Product
	})

	totals := transport.CreditPerformanceRow{Product: "TOTAL"}
	for _, row := range rows {
		totals.Number += row.Number
		totals.CombinedEnquiryCreditValue += row.CombinedEnquiryCreditValue
		totals.CreditForApplications += row.CreditForApplications
		totals.CreditForProcessedApplications += row.CreditForProcessedApplications
		totals.CreditIssuedForApprovedApplications += row.CreditIssuedForApprovedApplications
	}
	// Totals ratios come from the summed values, never from summing the
	// per-row ratios.
	totals.AverageValueCreditApplied = ratio(totals.CreditForApplications, float64(totals.Number))
	totals.PullThroughRate = ratio(totals.CreditForApplications, totals.CombinedEnquiryCreditValue)
	totals.PercentApplicationsProcessed = ratio(totals.CreditForProcessedApplications, totals.CreditForApplications)
	totals.PercentProcessedApplicationsIssued = ratio(totals.CreditIssuedForApprovedApplications, totals.CreditForProcessedApplications)
	totals.AverageCreditIssuedPerEnquiry = ratio(totals.CreditIssuedForApprovedApplications, float64(totals.Number))

	return transport.CreditPerformanceReport{Rows: rows, Totals: totals}
}

// buildMarketingCampaign computes the marketing campaign report. The campaign
// filter applies to leads and spend; the ad level filter applies to spend only.
func buildMarketingCampaign(data *repository.Dataset, statuses []mappingrepo.StatusMapping, campaignName, adLevel string, margin float64) transport.MarketingCampaignReport {
	totalSpend := decimal.Zero
	for _, row := range data.Spend {
		if campaignName != "" && (row.CampaignName == nil || *row.CampaignName != campaignName) {
			continue
		}
		if adLevel != "" && row.AdLevel != adLevel {
			continue
		}
		totalSpend = totalSpend.Add(row.Spend)
	}

	var leads []repository.Lead
	for _, lead := range data.Leads {
		if campaignName != "" && campaignOf(lead) != campaignName {
			continue
		}
		leads = append(leads, lead)
	}

	breakdown := make([]transport.StatusBreakdownRow, 0, len(statuses))
	var applicationCount, processedCount, approvedCount int
	creditIssued := decimal.Zero
	for _, status := range statuses {
		row := transport.StatusBreakdownRow{
			Status:                 status.Status,
			IsApplicationReceived:  status.IsApplicationReceived,
			IsApplicationProcessed: status.IsApplicationProcessed,
			IsApplicationApproved:  status.IsApplicationApproved,
			IsFuture:               status.IsFuture,
		}
		value := decimal.Zero
		for _, lead := range leads {
			if lead.RawStatus != status.Status {
				continue
			}
			row.Count++
			value = value.Add(lead.TotalSaleValue)
		}
		row.Value = value.InexactFloat64()
		breakdown = append(breakdown, row)

		if status.IsApplicationReceived == 1 {
			applicationCount += row.Count
		}
		if status.IsApplicationProcessed == 1 {
			processedCount += row.Count
		}
		if status.IsApplicationApproved == 1 {
			approvedCount += row.Count
			creditIssued = creditIssued.Add(value)
		}
	}

	spend := totalSpend.InexactFloat64()
	issued := creditIssued.InexactFloat64()
	creditPerPound := ratio(issued, spend)
	expectedGM := creditPerPound * margin

	return transport.MarketingCampaignReport{
		Summary: transport.CampaignSummary{
			MarketingCost:                       spend,
			CostPerEnquiry:                      ratio(spend, float64(len(leads))),
			CostPerApplication:                  ratio(spend, float64(applicationCount)),
			CostPerApprovedLoan:                 ratio(spend, float64(approvedCount)),
			ApprovalRate:                        ratio(float64(approvedCount), float64(applicationCount)),
			SumOfCreditIssued:                   issued,
			AverageCreditIssuedPerSuccessfulApp: ratio(issued, float64(approvedCount)),
			CreditPerPoundSpent:                 creditPerPound,
			ExpectedGrossMarginPerPoundSpent:    expectedGM,
			// A pound of margin pays back the pound of spend first.
			GrossMarginReturnPerPoundSpent: expectedGM - 1,
		},
		StatusBreakdown: breakdown,
		Counts: transport.FunnelCounts{
			Enquiries:    len(leads),
			Applications: applicationCount,
			Processed:    processedCount,
			Approved:     approvedCount,
		},
	}
}
