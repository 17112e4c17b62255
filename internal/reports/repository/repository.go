// Package repository loads report inputs from PostgreSQL. The per-range
// dataset is fetched with one concurrent fan-out so the two report endpoints
// stay single-round-trip-latency bound.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Repo is the PostgreSQL implementation of Repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reports repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// LoadDataset implements Repository.
func (r *Repo) LoadDataset(ctx context.Context, start, end *time.Time) (*Dataset, error) {
	var data Dataset
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT lead_id, received_at, raw_status, campaign_name,
				product_name, product_category, total_sale_value
			FROM lead_records
			WHERE ($1::timestamptz IS NULL OR received_at >= $1)
			  AND ($2::timestamptz IS NULL OR received_at <= $2)`, start, end)
		if err != nil {
			return fmt.Errorf("load leads: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var lead Lead
			if err := rows.Scan(&lead.LeadID, &lead.ReceivedAt, &lead.RawStatus, &lead.CampaignName,
				&lead.ProductName, &lead.ProductCategory, &lead.TotalSaleValue); err != nil {
				return fmt.Errorf("scan lead: %w", err)
			}
			data.Leads = append(data.Leads, lead)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT lead_id, checked_at, COALESCE(applied_value, 0), outcome
			FROM affordability_outcomes
			WHERE ($1::timestamptz IS NULL OR checked_at >= $1)
			  AND ($2::timestamptz IS NULL OR checked_at <= $2)`, start, end)
		if err != nil {
			return fmt.Errorf("load applications: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var app Application
			if err := rows.Scan(&app.LeadID, &app.CheckedAt, &app.AppliedValue, &app.Outcome); err != nil {
				return fmt.Errorf("scan application: %w", err)
			}
			data.Applications = append(data.Applications, app)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT reporting_end_date, campaign_label, ad_level, spend, campaign_name
			FROM ad_spend_records
			WHERE ($1::date IS NULL OR reporting_end_date >= $1::date)
			  AND ($2::date IS NULL OR reporting_end_date <= $2::date)`, start, end)
		if err != nil {
			return fmt.Errorf("load ad spend: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var row SpendRow
			if err := rows.Scan(&row.ReportingEndDate, &row.CampaignLabel, &row.AdLevel, &row.Spend, &row.CampaignName); err != nil {
				return fmt.Errorf("scan ad spend: %w", err)
			}
			data.Spend = append(data.Spend, row)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// SummaryCounts implements Repository.
func (r *Repo) SummaryCounts(ctx context.Context, weekStart time.Time) (SummaryCounts, error) {
	var counts SummaryCounts
	g, ctx := errgroup.WithContext(ctx)

	count := func(dest *int, query string, args ...any) {
		g.Go(func() error {
			if err := r.pool.QueryRow(ctx, query, args...).Scan(dest); err != nil {
				return fmt.Errorf("summary counts: %w", err)
			}
			return nil
		})
	}

	count(&counts.TotalEnquiries, `SELECT COUNT(*) FROM lead_records`)
	count(&counts.TotalApplications, `SELECT COUNT(*) FROM affordability_outcomes`)
	count(&counts.TotalCampaigns, `SELECT COUNT(DISTINCT campaign_name) FROM campaign_mappings`)
	count(&counts.WeekEnquiries, `SELECT COUNT(*) FROM lead_records WHERE received_at >= $1`, weekStart)
	count(&counts.WeekApplications, `SELECT COUNT(*) FROM affordability_outcomes WHERE checked_at >= $1`, weekStart)
	count(&counts.ApprovedEnquiries, `
		SELECT COUNT(DISTINCT l.lead_id)
		FROM lead_records l
		JOIN status_mappings s ON l.raw_status = s.status
		WHERE s.is_application_approved = 1`)

	g.Go(func() error {
		err := r.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(spend), 0) FROM ad_spend_records
			WHERE reporting_end_date >= $1::date`, weekStart).Scan(&counts.WeekSpend)
		if err != nil {
			return fmt.Errorf("summary counts: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return SummaryCounts{}, err
	}
	return counts, nil
}

var _ Repository = (*Repo)(nil)
