package db

import (
	"context"

	"fmrwatch/internal/types"
)

// StaticProjectSource serves a fixed project set from memory. It backs local
// mode and demos where no tracking database is available, and it is the
// record set exercised by the end-to-end dashboard tests.
type StaticProjectSource struct {
	records []types.ProjectRecord
}

// NewStaticProjectSource creates a source over the given records. The slice
// is copied so callers cannot mutate the served set.
func NewStaticProjectSource(records []types.ProjectRecord) *StaticProjectSource {
	copied := make([]types.ProjectRecord, len(records))
	copy(copied, records)
	return &StaticProjectSource{records: copied}
}

// NewSeedProjectSource returns the built-in Iloilo district sample set.
func NewSeedProjectSource() *StaticProjectSource {
	return NewStaticProjectSource(SeedProjects())
}

// ListProjects returns a fresh copy of the record set in fixed order.
func (s *StaticProjectSource) ListProjects(_ context.Context) ([]types.ProjectRecord, error) {
	out := make([]types.ProjectRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// SeedProjects returns the three sample FMR projects used in local mode.
func SeedProjects() []types.ProjectRecord {
	return []types.ProjectRecord{
		{
			ID:              "fmr_sanjose",
			Name:            "Brgy. San Jose Road Concreting",
			Location:        types.Location{Lat: 10.7202, Lon: 122.5621},
			TargetDate:      "2026-03-15",
			ProgressPercent: 60,
		},
		{
			ID:              "fmr_stacruz",
			Name:            "Sta. Cruz Repair Phase 2",
			Location:        types.Location{Lat: 10.7310, Lon: 122.5500},
			TargetDate:      "2026-02-10",
			ProgressPercent: 40,
		},
		{
			ID:              "fmr_mandurriao",
			Name:            "Mandurriao-Jaro Link",
			Location:        types.Location{Lat: 10.7150, Lon: 122.5400},
			TargetDate:      "2025-12-01",
			ProgressPercent: 100,
		},
	}
}
