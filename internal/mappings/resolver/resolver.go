// Package resolver resolves raw marketing-source and status strings against
// an immutable mapping snapshot. Reconciliation and reporting receive a
// snapshot per call instead of reading shared mutable tables, so resolution
// stays a pure lookup.
package resolver

import "strings"

// UnmappedCampaign is the synthetic bucket for lead records whose marketing
// source has no crosswalk entry. Reports still include these records.
const UnmappedCampaign = "Unmapped"

// FunnelFlags are the four independent funnel-stage markers derived from a
// raw status string. An unmapped status leaves all flags false.
type FunnelFlags struct {
	Received  bool `json:"received"`
	Processed bool `json:"processed"`
	Approved  bool `json:"approved"`
	Future    bool `json:"future"`
}

// Zero reports whether no funnel stage applies.
func (f FunnelFlags) Zero() bool {
	return !f.Received && !f.Processed && !f.Approved && !f.Future
}

// Snapshot is a read-only view of the campaign crosswalk and status table,
// taken once per ingestion or report call. Maps are copied on construction
// so later mapping edits never leak into an in-flight call.
type Snapshot struct {
	campaigns map[string]string
	statuses  map[string]FunnelFlags
}

// NewSnapshot builds a snapshot from the crosswalk (keyed by raw source,
// any casing) and the status table (keyed by exact status string).
func NewSnapshot(campaigns map[string]string, statuses map[string]FunnelFlags) *Snapshot {
	s := &Snapshot{
		campaigns: make(map[string]string, len(campaigns)),
		statuses:  make(map[string]FunnelFlags, len(statuses)),
	}
	for raw, canonical := range campaigns {
		s.campaigns[NormalizeSource(raw)] = canonical
	}
	for status, flags := range statuses {
		s.statuses[status] = flags
	}
	return s
}

// NormalizeSource prepares a raw marketing-source string for lookup: trim
// surrounding whitespace, drop the stray leading "?" some exports carry,
// and case-fold.
func NormalizeSource(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "?")
	trimmed = strings.TrimSpace(trimmed)
	return strings.ToLower(trimmed)
}

// ResolveCampaign maps a raw marketing source to its canonical campaign
// name. A miss is not an error; callers count misses and bucket the record
// under UnmappedCampaign.
func (s *Snapshot) ResolveCampaign(raw string) (string, bool) {
	key := NormalizeSource(raw)
	if key == "" {
		return "", false
	}
	canonical, ok := s.campaigns[key]
	return canonical, ok
}

// ResolveStatus maps a raw status string to its funnel flags. Matching is
// exact and case-sensitive; a miss yields all-false flags so the record
// still counts toward totals without advancing any funnel stage.
func (s *Snapshot) ResolveStatus(raw string) FunnelFlags {
	return s.statuses[raw]
}

// StatusKnown reports whether the status has a mapping entry, letting
// callers surface coverage gaps separately from all-false flag rows.
func (s *Snapshot) StatusKnown(raw string) bool {
	_, ok := s.statuses[raw]
	return ok
}
