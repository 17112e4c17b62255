package service

import (
	"context"
	"testing"

	"marketing_analytics_backend/internal/mappings/repository"
	"marketing_analytics_backend/platform/apperr"
	"marketing_analytics_backend/platform/logger"
)

type fakeRepo struct {
	campaigns map[string]string
	statuses  map[string]repository.StatusMapping
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		campaigns: make(map[string]string),
		statuses:  make(map[string]repository.StatusMapping),
	}
}

func (f *fakeRepo) ListCampaignMappings(ctx context.Context) ([]repository.CampaignMapping, error) {
	var out []repository.CampaignMapping
	for raw, name := range f.campaigns {
		out = append(out, repository.CampaignMapping{RawSource: raw, CampaignName: name})
	}
	return out, nil
}

func (f *fakeRepo) CreateCampaignMapping(ctx context.Context, rawSource, campaignName string) (repository.CampaignMapping, error) {
	if _, exists := f.campaigns[rawSource]; exists {
		return repository.CampaignMapping{}, apperr.Conflict("raw source is already mapped")
	}
	f.campaigns[rawSource] = campaignName
	return repository.CampaignMapping{RawSource: rawSource, CampaignName: campaignName}, nil
}

func (f *fakeRepo) UpdateCampaignMapping(ctx context.Context, rawSource, campaignName string) (repository.CampaignMapping, error) {
	if _, exists := f.campaigns[rawSource]; !exists {
		return repository.CampaignMapping{}, apperr.NotFound("campaign mapping not found")
	}
	f.campaigns[rawSource] = campaignName
	return repository.CampaignMapping{RawSource: rawSource, CampaignName: campaignName}, nil
}

func (f *fakeRepo) DeleteCampaignMapping(ctx context.Context, rawSource string) error {
	if _, exists := f.campaigns[rawSource]; !exists {
		return apperr.NotFound("campaign mapping not found")
	}
	delete(f.campaigns, rawSource)
	return nil
}

func (f *fakeRepo) UpsertCampaignMapping(ctx context.Context, rawSource, campaignName string) (bool, error) {
	_, exists := f.campaigns[rawSource]
	f.campaigns[rawSource] = campaignName
	return !exists, nil
}

func (f *fakeRepo) ListStatusMappings(ctx context.Context) ([]repository.StatusMapping, error) {
	var out []repository.StatusMapping
	for _, m := range f.statuses {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) CreateStatusMapping(ctx context.Context, mapping repository.StatusMapping) (repository.StatusMapping, error) {
	if _, exists := f.statuses[mapping.Status]; exists {
		return repository.StatusMapping{}, apperr.Conflict("status already exists")
	}
	f.statuses[mapping.Status] = mapping
	return mapping, nil
}

func (f *fakeRepo) UpdateStatusMapping(ctx context.Context, params repository.UpdateStatusMappingParams) (repository.StatusMapping, error) {
	m, exists := f.statuses[params.Status]
	if !exists {
		return repository.StatusMapping{}, apperr.NotFound("status mapping not found")
	}
	if params.IsApplicationReceived != nil {
		m.IsApplicationReceived = *params.IsApplicationReceived
	}
	if params.IsApplicationProcessed != nil {
		m.IsApplicationProcessed = *params.IsApplicationProcessed
	}
	if params.IsApplicationApproved != nil {
		m.IsApplicationApproved = *params.IsApplicationApproved
	}
	if params.IsFuture != nil {
		m.IsFuture = *params.IsFuture
	}
	f.statuses[params.Status] = m
	return m, nil
}

func (f *fakeRepo) DeleteStatusMapping(ctx context.Context, status string) error {
	if _, exists := f.statuses[status]; !exists {
		return apperr.NotFound("status mapping not found")
	}
	delete(f.statuses, status)
	return nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("test"))
}

func TestSnapshotConvertsFlagsAndNormalizesSources(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns["FB Sofa Spring"] = "Sofa Campaign"
	repo.statuses["Agreement signed"] = repository.StatusMapping{
		Status:                 "Agreement signed",
		IsApplicationReceived:  1,
		IsApplicationProcessed: 1,
		IsApplicationApproved:  1,
	}
	repo.statuses["Future"] = repository.StatusMapping{Status: "Future", IsFuture: 1}

	snap, err := newTestService(repo).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if got, ok := snap.ResolveCampaign("? fb sofa spring"); !ok || got != "Sofa Campaign" {
		t.Fatalf("ResolveCampaign = %q, %v", got, ok)
	}

	flags := snap.ResolveStatus("Agreement signed")
	if !flags.Received || !flags.Processed || !flags.Approved || flags.Future {
		t.Fatalf("unexpected flags: %+v", flags)
	}
	if got := snap.ResolveStatus("Future"); !got.Future || got.Received {
		t.Fatalf("unexpected future flags: %+v", got)
	}
}

func TestSnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns["src"] = "Campaign A"
	svc := newTestService(repo)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if _, err := svc.UpdateCampaignMapping(context.Background(), "src", "Campaign B"); err != nil {
		t.Fatalf("UpdateCampaignMapping: %v", err)
	}

	if got, _ := snap.ResolveCampaign("src"); got != "Campaign A" {
		t.Fatalf("snapshot changed after mapping edit: %q", got)
	}
}

func TestCreateCampaignMappingValidatesInput(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateCampaignMapping(context.Background(), "  ", "Campaign")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.CreateCampaignMapping(context.Background(), "src", "")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateStatusMappingRejectsNonBinaryFlags(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateStatusMapping(context.Background(), repository.StatusMapping{
		Status:                "Active",
		IsApplicationReceived: 2,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpsertCampaignMappingReportsCreatedVsUpdated(t *testing.T) {
	svc := newTestService(newFakeRepo())

	created, err := svc.UpsertCampaignMapping(context.Background(), "src", "Campaign A")
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}
	created, err = svc.UpsertCampaignMapping(context.Background(), "src", "Campaign B")
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}
}
