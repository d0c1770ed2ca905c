package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/normalize"
)

// Class partitions every source record into exactly one bucket.
type Class int

const (
	// Matching means a target shares the key and no comparable field
	// differs.
	Matching Class = iota
	// Divergent means a target shares the key but at least one
	// comparable field differs.
	Divergent
	// Missing means no target shares the key.
	Missing
)

// String renders the class for reports and logs.
func (c Class) String() string {
	switch c {
	case Matching:
		return "matching"
	case Divergent:
		return "divergent"
	default:
		return "missing"
	}
}

// Result classifies one source record against the target set.
type Result struct {
	Class    Class
	SourceID string
	TargetID string
	// Key is the derived match key, carried for duplicate inspection
	// and export.
	Key normalize.MatchKey
	// Fields lists the differing comparable field names when the
	// class is Divergent.
	Fields []string
}

// Summary counts results by class.
type Summary struct {
	Matching  int
	Divergent int
	Missing   int
}

// Report is the outcome of one reconciliation run.  Results appear in
// source order, so identical inputs always produce identical reports.
type Report struct {
	RunID       uuid.UUID
	Created     time.Time
	SourceCount int
	TargetCount int
	Results     []Result
	Summary     Summary
}

// candidate pins a target record to its insertion position, the
// tie-break order for divergent matches.
type candidate struct {
	pos int
	rec address.Record
}

// Reconcile classifies every source record against the target set.
// The target index is built in a single sequential pass; the
// comparison phase then fans out over a worker pool that treats the
// index as read-only.  Expected cost is O(n+m).
func (e *Engine) Reconcile(source, target []address.Record) *Report {
	index := make(map[normalize.MatchKey][]candidate, len(target))
	for i, rec := range target {
		key := normalize.KeyFor(rec, e.vocab)
		index[key] = append(index[key], candidate{pos: i, rec: rec})
	}

	results := make([]Result, len(source))
	jobs := make(chan int, e.workers)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.classify(source[i], index)
			}
		}()
	}
	for i := range source {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := &Report{
		RunID:       uuid.New(),
		Created:     time.Now().UTC(),
		SourceCount: len(source),
		TargetCount: len(target),
		Results:     results,
	}
	for _, r := range results {
		switch r.Class {
		case Matching:
			report.Summary.Matching++
		case Divergent:
			report.Summary.Divergent++
		case Missing:
			report.Summary.Missing++
		}
	}
	return report
}

// classify probes the index for one source record and picks the best
// candidate: zero differing fields wins outright, otherwise fewest
// differing fields with earliest insertion position breaking ties.
func (e *Engine) classify(rec address.Record, index map[normalize.MatchKey][]candidate) Result {
	key := normalize.KeyFor(rec, e.vocab)
	candidates, ok := index[key]
	if !ok {
		return Result{Class: Missing, SourceID: rec.ID(), Key: key}
	}

	srcFields := fieldMap(rec)
	best := candidates[0]
	var bestDiff []string
	first := true
	for _, cand := range candidates {
		diff := e.diffFields(srcFields, cand.rec)
		if len(diff) == 0 {
			return Result{Class: Matching, SourceID: rec.ID(), TargetID: cand.rec.ID(), Key: key}
		}
		if first || len(diff) < len(bestDiff) ||
			(len(diff) == len(bestDiff) && cand.pos < best.pos) {
			best, bestDiff, first = cand, diff, false
		}
	}
	return Result{
		Class:    Divergent,
		SourceID: rec.ID(),
		TargetID: best.rec.ID(),
		Key:      key,
		Fields:   bestDiff,
	}
}

// diffFields returns the names of comparable fields that differ
// between the source field map and a target record.  A field counts
// only when both sides expose it, so schemas that lack an attribute
// never read as divergent on it.
func (e *Engine) diffFields(src map[string]string, target address.Record) []string {
	tgt := fieldMap(target)
	var diff []string
	for _, name := range e.fields {
		sv, sok := src[name]
		tv, tok := tgt[name]
		if !sok || !tok {
			continue
		}
		if sv != tv {
			diff = append(diff, name)
		}
	}
	return diff
}

// fieldMap indexes a record's comparable fields by name.
func fieldMap(rec address.Record) map[string]string {
	fields := rec.Fields()
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}
