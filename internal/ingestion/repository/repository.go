package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the ingestion repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ingestion repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// UpsertAffordabilityOutcome stores a lead's outcome, returning the previous
// outcome when the lead was already checked.
func (r *Repo) UpsertAffordabilityOutcome(ctx context.Context, outcome AffordabilityOutcome) (string, bool, error) {
	query := `
		WITH previous AS (
			SELECT outcome FROM affordability_outcomes WHERE lead_id = $1
		)
		INSERT INTO affordability_outcomes (lead_id, outcome, checked_at, status, applied_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id) DO UPDATE
		SET outcome = EXCLUDED.outcome,
			checked_at = EXCLUDED.checked_at,
			status = EXCLUDED.status,
			applied_value = EXCLUDED.applied_value,
			updated_at = now()
		RETURNING (SELECT outcome FROM previous)`

	var previous *string
	if err := r.pool.QueryRow(ctx, query,
		outcome.LeadID, outcome.Outcome, outcome.CheckedAt, outcome.Status, outcome.AppliedValue,
	).Scan(&previous); err != nil {
		return "", false, fmt.Errorf("upsert affordability outcome: %w", err)
	}
	if previous == nil {
		return "", false, nil
	}
	return *previous, true, nil
}

// ApplyAffordabilityToLead updates the affordability outcome of an existing
// lead record.
func (r *Repo) ApplyAffordabilityToLead(ctx context.Context, leadID, outcome string) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE lead_records
		SET affordability = $2, updated_at = now()
		WHERE lead_id = $1`, leadID, outcome)
	if err != nil {
		return false, fmt.Errorf("apply affordability to lead: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetAffordabilityOutcomes loads outcomes for the given lead identifiers.
func (r *Repo) GetAffordabilityOutcomes(ctx context.Context, leadIDs []string) (map[string]AffordabilityOutcome, error) {
	outcomes := make(map[string]AffordabilityOutcome, len(leadIDs))
	if len(leadIDs) == 0 {
		return outcomes, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT lead_id, outcome, checked_at, status, applied_value
		FROM affordability_outcomes
		WHERE lead_id = ANY($1)`, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("get affordability outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o AffordabilityOutcome
		if err := rows.Scan(&o.LeadID, &o.Outcome, &o.CheckedAt, &o.Status, &o.AppliedValue); err != nil {
			return nil, fmt.Errorf("scan affordability outcome: %w", err)
		}
		outcomes[o.LeadID] = o
	}
	return outcomes, rows.Err()
}

// UpsertLeadRecord writes one lead and its line items transactionally.
// Re-ingesting a lead replaces its line items wholesale so repeated uploads
// never accumulate duplicates.
func (r *Repo) UpsertLeadRecord(ctx context.Context, record LeadRecord, items []LineItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin lead upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_records (lead_id, received_at, raw_status,
			flag_received, flag_processed, flag_approved, flag_future,
			marketing_source, campaign_name, product_name, product_category,
			total_sale_value, affordability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (lead_id) DO UPDATE
		SET received_at = EXCLUDED.received_at,
			raw_status = EXCLUDED.raw_status,
			flag_received = EXCLUDED.flag_received,
			flag_processed = EXCLUDED.flag_processed,
			flag_approved = EXCLUDED.flag_approved,
			flag_future = EXCLUDED.flag_future,
			marketing_source = EXCLUDED.marketing_source,
			campaign_name = EXCLUDED.campaign_name,
			product_name = EXCLUDED.product_name,
			product_category = EXCLUDED.product_category,
			total_sale_value = EXCLUDED.total_sale_value,
			affordability = CASE
				WHEN EXCLUDED.affordability = 'unknown' THEN lead_records.affordability
				ELSE EXCLUDED.affordability
			END,
			updated_at = now()`,
		record.LeadID, record.ReceivedAt, record.RawStatus,
		record.FlagReceived, record.FlagProcessed, record.FlagApproved, record.FlagFuture,
		record.MarketingSource, record.CampaignName, record.ProductName, record.ProductCategory,
		record.TotalSaleValue, record.Affordability,
	)
	if err != nil {
		return fmt.Errorf("upsert lead record: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM lead_line_items WHERE lead_id = $1`, record.LeadID); err != nil {
		return fmt.Errorf("delete lead line items: %w", err)
	}
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO lead_line_items (lead_id, position, product, category, price)
			VALUES ($1, $2, $3, $4, $5)`,
			record.LeadID, i, item.Product, item.Category, item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert lead line item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit lead upsert: %w", err)
	}
	return nil
}

// UpsertAdSpendRecord inserts or updates one spend row by its natural key.
func (r *Repo) UpsertAdSpendRecord(ctx context.Context, record AdSpendRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ad_spend_records (reporting_end_date, campaign_label, ad_level, spend, campaign_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (reporting_end_date, campaign_label, ad_level) DO UPDATE
		SET spend = EXCLUDED.spend,
			campaign_name = EXCLUDED.campaign_name,
			updated_at = now()`,
		record.ReportingEndDate, record.CampaignLabel, record.AdLevel, record.Spend, record.CampaignName,
	)
	if err != nil {
		return fmt.Errorf("upsert ad spend record: %w", err)
	}
	return nil
}
