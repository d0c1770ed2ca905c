package engine

import (
	"sort"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/normalize"
)

// FindOrphanStreets computes the normalized street-name vocabulary of
// each dataset and returns the two set differences: streets named only
// in the source and streets named only in the target.  Both slices
// come back sorted.
func (e *Engine) FindOrphanStreets(source, target []address.Record) (srcOnly, tgtOnly []string) {
	srcStreets := e.streetSet(source)
	tgtStreets := e.streetSet(target)

	for street := range srcStreets {
		if !tgtStreets[street] {
			srcOnly = append(srcOnly, street)
		}
	}
	for street := range tgtStreets {
		if !srcStreets[street] {
			tgtOnly = append(tgtOnly, street)
		}
	}
	sort.Strings(srcOnly)
	sort.Strings(tgtOnly)
	return srcOnly, tgtOnly
}

// streetSet collects the distinct normalized complete street names of
// a dataset.  Records with no street name contribute nothing.
func (e *Engine) streetSet(dataset []address.Record) map[string]bool {
	set := make(map[string]bool)
	for _, rec := range dataset {
		if street := normalize.StreetKey(rec.Components(), e.vocab); street != "" {
			set[street] = true
		}
	}
	return set
}
