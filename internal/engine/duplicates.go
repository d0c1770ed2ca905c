package engine

import (
	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/normalize"
)

// DuplicateGroup collects the distinct record identities that share
// one match key inside a single dataset.  Groups always hold at least
// two identities; singleton keys are never emitted.
type DuplicateGroup struct {
	Key normalize.MatchKey
	IDs []string
}

// FindDuplicates groups a dataset by match key and reports every key
// claimed by two or more distinct identities.  Groups and their IDs
// follow dataset order, so output is deterministic.
func (e *Engine) FindDuplicates(dataset []address.Record) []DuplicateGroup {
	byKey := make(map[normalize.MatchKey][]string, len(dataset))
	var order []normalize.MatchKey
	for _, rec := range dataset {
		key := normalize.KeyFor(rec, e.vocab)
		ids := byKey[key]
		if ids == nil {
			order = append(order, key)
		}
		if !contains(ids, rec.ID()) {
			byKey[key] = append(ids, rec.ID())
		}
	}

	var groups []DuplicateGroup
	for _, key := range order {
		if ids := byKey[key]; len(ids) >= 2 {
			groups = append(groups, DuplicateGroup{Key: key, IDs: ids})
		}
	}
	return groups
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
