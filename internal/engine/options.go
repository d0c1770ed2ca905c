// Package engine classifies address records across datasets: full
// reconciliation, duplicate grouping, spatial drift and orphan-street
// detection.  The engine holds no state between runs; every report is
// derived fresh and owned by the caller.
package engine

import (
	"fmt"
	"runtime"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/vocab"
)

// DefaultFields is the comparable-field set used when the caller does
// not choose one.  Fields beyond the match key that count toward
// divergence.
var DefaultFields = []string{
	address.FieldSubaddress,
	address.FieldZIP,
	address.FieldCommunity,
	address.FieldCoordinates,
}

// knownFields lists every field name a record can expose.
var knownFields = map[string]bool{
	address.FieldSubaddress:  true,
	address.FieldZIP:         true,
	address.FieldCommunity:   true,
	address.FieldCoordinates: true,
	address.FieldStatus:      true,
}

// Options configures a reconciliation engine.
type Options struct {
	// Fields names the comparable fields used for divergence
	// detection.  Empty means DefaultFields.
	Fields []string
	// Workers bounds the comparison worker pool.  Zero means
	// one worker per CPU.
	Workers int
}

// Engine reconciles record sets against a shared vocabulary.  An
// Engine is safe for concurrent use once constructed.
type Engine struct {
	vocab   *vocab.Vocabulary
	fields  []string
	workers int
}

// New validates the options eagerly and returns a ready engine.
// Configuration problems (empty vocabulary tables, unknown field
// names) surface here, never inside a per-record result.
func New(v *vocab.Vocabulary, opts Options) (*Engine, error) {
	if v == nil {
		return nil, fmt.Errorf("engine: nil vocabulary")
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, f := range fields {
		if !knownFields[f] {
			return nil, fmt.Errorf("engine: unknown comparable field %q", f)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Engine{vocab: v, fields: fields, workers: workers}, nil
}
