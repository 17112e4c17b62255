package repository

import "context"

// CampaignMapping is one crosswalk entry from a raw marketing-source string
// to a canonical campaign name.
type CampaignMapping struct {
	RawSource    string `db:"raw_source"`
	CampaignName string `db:"campaign_name"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

// StatusMapping maps one exact status string to its four funnel-stage flags.
// Flags are stored as 0/1 integers, matching the legacy export tables the
// seed data was lifted from.
type StatusMapping struct {
	Status                 string `db:"status"`
	IsApplicationReceived  int    `db:"is_application_received"`
	IsApplicationProcessed int    `db:"is_application_processed"`
	IsApplicationApproved  int    `db:"is_application_approved"`
	IsFuture               int    `db:"is_future"`
	CreatedAt              string `db:"created_at"`
	UpdatedAt              string `db:"updated_at"`
}

// UpdateStatusMappingParams contains the mutable flag fields of a status
// mapping. Nil leaves the stored value unchanged.
type UpdateStatusMappingParams struct {
	Status                 string
	IsApplicationReceived  *int
	IsApplicationProcessed *int
	IsApplicationApproved  *int
	IsFuture               *int
}

// Repository defines persistence for the mapping context.
type Repository interface {
	ListCampaignMappings(ctx context.Context) ([]CampaignMapping, error)
	CreateCampaignMapping(ctx context.Context, rawSource, campaignName string) (CampaignMapping, error)
	UpdateCampaignMapping(ctx context.Context, rawSource, campaignName string) (CampaignMapping, error)
	DeleteCampaignMapping(ctx context.Context, rawSource string) error
	// UpsertCampaignMapping inserts or overwrites a crosswalk entry and
	// reports whether a new row was created. Used by crosswalk uploads.
	UpsertCampaignMapping(ctx context.Context, rawSource, campaignName string) (created bool, err error)

	ListStatusMappings(ctx context.Context) ([]StatusMapping, error)
	CreateStatusMapping(ctx context.Context, mapping StatusMapping) (StatusMapping, error)
	UpdateStatusMapping(ctx context.Context, params UpdateStatusMappingParams) (StatusMapping, error)
	DeleteStatusMapping(ctx context.Context, status string) error
}
