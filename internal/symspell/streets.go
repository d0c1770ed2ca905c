package symspell

import (
	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/normalize"
	"github.com/gpgis-ams/internal/vocab"
)

// BuildStreetIndex indexes the normalized complete street names of a
// dataset, weighted by how many records sit on each street.
func BuildStreetIndex(dataset []address.Record, v *vocab.Vocabulary) *Index {
	idx := NewIndex(nil)
	for _, rec := range dataset {
		if street := normalize.StreetKey(rec.Components(), v); street != "" {
			idx.Add(street)
		}
	}
	return idx
}

// OrphanSuggestion pairs an orphan street with its likeliest
// counterpart in the other dataset, when one sits within edit
// distance.
type OrphanSuggestion struct {
	Street     string
	Suggestion string
	Distance   int
}

// SuggestCounterparts looks each orphan street up against the other
// side's index.  Streets with no near neighbor come back with an
// empty suggestion; the caller decides whether those are new streets
// or data entry errors.
func SuggestCounterparts(orphans []string, other *Index) []OrphanSuggestion {
	out := make([]OrphanSuggestion, 0, len(orphans))
	for _, street := range orphans {
		s := OrphanSuggestion{Street: street}
		if best := other.Best(street, DefaultConfig().MaxEditDistance); best != nil {
			s.Suggestion = best.Term
			s.Distance = best.Distance
		}
		out = append(out, s)
	}
	return out
}
