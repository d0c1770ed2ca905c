package engine

import (
	"math"

	"github.com/gpgis-ams/internal/address"
)

// Pair joins a classified source record with its matched target for
// drift computation.
type Pair struct {
	Source address.Record
	Target address.Record
}

// DriftRecord reports the spatial distance between the two sides of a
// matched pair.  Distance is planar, in the units of the dataset
// projection, which is adequate at municipal scale.
type DriftRecord struct {
	SourceID string
	TargetID string
	Distance float64
	// Exceeds flags distances above the configured threshold.
	Exceeds bool
}

// ComputeDrift measures coordinate drift for every pair where both
// sides carry a location.  Pairs missing a coordinate on either side
// are skipped, not errors.
func (e *Engine) ComputeDrift(pairs []Pair, threshold float64) []DriftRecord {
	var out []DriftRecord
	for _, p := range pairs {
		sp, ok := p.Source.Location()
		if !ok {
			continue
		}
		tp, ok := p.Target.Location()
		if !ok {
			continue
		}
		d := distance(sp, tp)
		out = append(out, DriftRecord{
			SourceID: p.Source.ID(),
			TargetID: p.Target.ID(),
			Distance: d,
			Exceeds:  d > threshold,
		})
	}
	return out
}

// MatchedPairs resolves a report's Matching and Divergent results back
// to record pairs, in report order.  Missing results contribute
// nothing.
func MatchedPairs(report *Report, source, target []address.Record) []Pair {
	srcByID := make(map[string]address.Record, len(source))
	for _, rec := range source {
		srcByID[rec.ID()] = rec
	}
	tgtByID := make(map[string]address.Record, len(target))
	for _, rec := range target {
		tgtByID[rec.ID()] = rec
	}

	var pairs []Pair
	for _, r := range report.Results {
		if r.Class == Missing {
			continue
		}
		src, ok := srcByID[r.SourceID]
		if !ok {
			continue
		}
		tgt, ok := tgtByID[r.TargetID]
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Source: src, Target: tgt})
	}
	return pairs
}

// distance is the planar distance between two points.
func distance(a, b address.Point) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}
