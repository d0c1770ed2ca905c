package engine

import "fmt"

// Filter returns a copy of the report holding only the results the
// term selects.  A class name ("matching", "divergent", "missing")
// keeps every result of that class; a comparable field name keeps the
// divergent results where that field differs.  Run identity and the
// dataset counts carry over unchanged; the summary is recomputed from
// the kept results.
func (r *Report) Filter(term string) (*Report, error) {
	var keep func(Result) bool
	switch term {
	case Matching.String():
		keep = func(res Result) bool { return res.Class == Matching }
	case Divergent.String():
		keep = func(res Result) bool { return res.Class == Divergent }
	case Missing.String():
		keep = func(res Result) bool { return res.Class == Missing }
	default:
		if !knownFields[term] {
			return nil, fmt.Errorf("engine: unknown filter %q (want a class or comparable field name)", term)
		}
		keep = func(res Result) bool {
			return res.Class == Divergent && contains(res.Fields, term)
		}
	}

	filtered := &Report{
		RunID:       r.RunID,
		Created:     r.Created,
		SourceCount: r.SourceCount,
		TargetCount: r.TargetCount,
	}
	for _, res := range r.Results {
		if !keep(res) {
			continue
		}
		filtered.Results = append(filtered.Results, res)
		switch res.Class {
		case Matching:
			filtered.Summary.Matching++
		case Divergent:
			filtered.Summary.Divergent++
		case Missing:
			filtered.Summary.Missing++
		}
	}
	return filtered, nil
}
