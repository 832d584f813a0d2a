// Package dashboard assembles the classified project set behind the map and
// table views. The presenter is a stateless 1:1 projection: no sorting,
// filtering, or aggregation beyond the explicit status summary.
package dashboard

import (
	"fmt"

	"fmrwatch/internal/types"
)

// DefaultViewState is the initial map camera over the monitored district.
var DefaultViewState = types.MapViewState{
	Lat:    10.7250,
	Lon:    122.5550,
	Zoom:   12,
	Pitch:  45,
	Radius: 300,
}

// MapMarkers projects classified projects onto scatter-layer markers, keyed
// by (lon, lat) with fill color taken directly from the classification.
// Output order matches input order.
func MapMarkers(projects []types.ClassifiedProject) []types.MapMarker {
	markers := make([]types.MapMarker, 0, len(projects))
	for _, p := range projects {
		markers = append(markers, types.MapMarker{
			Position:  [2]float64{p.Location.Lon, p.Location.Lat},
			FillColor: p.DisplayColor,
			Tooltip:   fmt.Sprintf("%s\nStatus: %s\nProgress: %d%%", p.Name, p.Status, p.ProgressPercent),
		})
	}
	return markers
}

// TableRows projects classified projects onto directory rows in input order.
func TableRows(projects []types.ClassifiedProject) []types.TableRow {
	rows := make([]types.TableRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, types.TableRow{
			Name:            p.Name,
			Status:          p.Status,
			ProgressPercent: p.ProgressPercent,
			TargetDate:      p.TargetDate,
			Lat:             p.Location.Lat,
			Lon:             p.Location.Lon,
		})
	}
	return rows
}

// StatusCounts tallies the classified set per status in rule order. Statuses
// with zero projects are included so the summary shape is stable.
func StatusCounts(projects []types.ClassifiedProject) []types.StatusCount {
	tally := make(map[types.ProjectStatus]int, len(types.AllStatuses))
	for _, p := range projects {
		tally[p.Status]++
	}
	counts := make([]types.StatusCount, 0, len(types.AllStatuses))
	for _, s := range types.AllStatuses {
		counts = append(counts, types.StatusCount{Status: s, Count: tally[s]})
	}
	return counts
}
