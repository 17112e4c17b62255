package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketing_analytics_backend/platform/apperr"
)

const (
	campaignMappingNotFoundMessage = "campaign mapping not found"
	statusMappingNotFoundMessage   = "status mapping not found"
	uniqueViolationCode            = "23505"
)

// Repo implements the mappings repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new mappings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListCampaignMappings returns all crosswalk entries ordered by raw source.
func (r *Repo) ListCampaignMappings(ctx context.Context) ([]CampaignMapping, error) {
	query := `
		SELECT raw_source, campaign_name, created_at, updated_at
		FROM campaign_mappings
		ORDER BY raw_source`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campaign mappings: %w", err)
	}
	defer rows.Close()

	var mappings []CampaignMapping
	for rows.Next() {
		m, err := scanCampaignMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// CreateCampaignMapping inserts a new crosswalk entry.
func (r *Repo) CreateCampaignMapping(ctx context.Context, rawSource, campaignName string) (CampaignMapping, error) {
	query := `
		INSERT INTO campaign_mappings (raw_source, campaign_name)
		VALUES ($1, $2)
		RETURNING raw_source, campaign_name, created_at, updated_at`

	m, err := scanCampaignMapping(r.pool.QueryRow(ctx, query, rawSource, campaignName))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return CampaignMapping{}, apperr.Conflict("raw source is already mapped")
		}
		return CampaignMapping{}, fmt.Errorf("create campaign mapping: %w", err)
	}
	return m, nil
}

// UpdateCampaignMapping changes the canonical name of an existing entry.
func (r *Repo) UpdateCampaignMapping(ctx context.Context, rawSource, campaignName string) (CampaignMapping, error) {
	query := `
		UPDATE campaign_mappings
		SET campaign_name = $2, updated_at = now()
		WHERE raw_source = $1
		RETURNING raw_source, campaign_name, created_at, updated_at`

	m, err := scanCampaignMapping(r.pool.QueryRow(ctx, query, rawSource, campaignName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CampaignMapping{}, apperr.NotFound(campaignMappingNotFoundMessage)
		}
		return CampaignMapping{}, fmt.Errorf("update campaign mapping: %w", err)
	}
	return m, nil
}

// DeleteCampaignMapping removes a crosswalk entry.
func (r *Repo) DeleteCampaignMapping(ctx context.Context, rawSource string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM campaign_mappings WHERE raw_source = $1`, rawSource)
	if err != nil {
		return fmt.Errorf("delete campaign mapping: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(campaignMappingNotFoundMessage)
	}
	return nil
}

// UpsertCampaignMapping inserts or overwrites a crosswalk entry and reports
// whether a new row was created.
func (r *Repo) UpsertCampaignMapping(ctx context.Context, rawSource, campaignName string) (bool, error) {
	query := `
		INSERT INTO campaign_mappings (raw_source, campaign_name)
		VALUES ($1, $2)
		ON CONFLICT (raw_source) DO UPDATE
		SET campaign_name = EXCLUDED.campaign_name, updated_at = now()
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	if err := r.pool.QueryRow(ctx, query, rawSource, campaignName).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert campaign mapping: %w", err)
	}
	return inserted, nil
}

// ListStatusMappings returns all status mappings ordered by status.
func (r *Repo) ListStatusMappings(ctx context.Context) ([]StatusMapping, error) {
	query := `
		SELECT status, is_application_received, is_application_processed,
			is_application_approved, is_future, created_at, updated_at
		FROM status_mappings
		ORDER BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list status mappings: %w", err)
	}
	defer rows.Close()

	var mappings []StatusMapping
	for rows.Next() {
		m, err := scanStatusMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan status mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// CreateStatusMapping inserts a new status mapping.
func (r *Repo) CreateStatusMapping(ctx context.Context, mapping StatusMapping) (StatusMapping, error) {
	query := `
		INSERT INTO status_mappings (status, is_application_received, is_application_processed,
			is_application_approved, is_future)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING status, is_application_received, is_application_processed,
			is_application_approved, is_future, created_at, updated_at`

	m, err := scanStatusMapping(r.pool.QueryRow(ctx, query,
		mapping.Status, mapping.IsApplicationReceived, mapping.IsApplicationProcessed,
		mapping.IsApplicationApproved, mapping.IsFuture,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return StatusMapping{}, apperr.Conflict("status already exists")
		}
		return StatusMapping{}, fmt.Errorf("create status mapping: %w", err)
	}
	return m, nil
}

// UpdateStatusMapping updates the flags of an existing status mapping.
func (r *Repo) UpdateStatusMapping(ctx context.Context, params UpdateStatusMappingParams) (StatusMapping, error) {
	query := `
		UPDATE status_mappings
		SET is_application_received = COALESCE($2, is_application_received),
			is_application_processed = COALESCE($3, is_application_processed),
			is_application_approved = COALESCE($4, is_application_approved),
			is_future = COALESCE($5, is_future),
			updated_at = now()
		WHERE status = $1
		RETURNING status, is_application_received, is_application_processed,
			is_application_approved, is_future, created_at, updated_at`

	m, err := scanStatusMapping(r.pool.QueryRow(ctx, query,
		params.Status, params.IsApplicationReceived, params.IsApplicationProcessed,
		params.IsApplicationApproved, params.IsFuture,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StatusMapping{}, apperr.NotFound(statusMappingNotFoundMessage)
		}
		return StatusMapping{}, fmt.Errorf("update status mapping: %w", err)
	}
	return m, nil
}

// DeleteStatusMapping removes a status mapping.
func (r *Repo) DeleteStatusMapping(ctx context.Context, status string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM status_mappings WHERE status = $1`, status)
	if err != nil {
		return fmt.Errorf("delete status mapping: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(statusMappingNotFoundMessage)
	}
	return nil
}

func scanCampaignMapping(row pgx.Row) (CampaignMapping, error) {
	var m CampaignMapping
	var createdAt, updatedAt time.Time
	if err := row.Scan(&m.RawSource, &m.CampaignName, &createdAt, &updatedAt); err != nil {
		return CampaignMapping{}, err
	}
	m.CreatedAt = createdAt.Format(time.RFC3339)
	m.UpdatedAt = updatedAt.Format(time.RFC3339)
	return m, nil
}

func scanStatusMapping(row pgx.Row) (StatusMapping, error) {
	var m StatusMapping
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&m.Status, &m.IsApplicationReceived, &m.IsApplicationProcessed,
		&m.IsApplicationApproved, &m.IsFuture, &createdAt, &updatedAt,
	); err != nil {
		return StatusMapping{}, err
	}
	m.CreatedAt = createdAt.Format(time.RFC3339)
	m.UpdatedAt = updatedAt.Format(time.RFC3339)
	return m, nil
}
