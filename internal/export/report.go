// Package export serializes reconciliation artifacts to CSV for
// review in a spreadsheet or GIS join.  The core returns in-memory
// structures only; everything file-shaped lives here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gpgis-ams/internal/engine"
)

// WriteResults writes one row per classified source record, in report
// order.
func WriteResults(w io.Writer, report *engine.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"class", "source_id", "target_id", "match_key", "differing_fields"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, r := range report.Results {
		row := []string{
			r.Class.String(),
			r.SourceID,
			r.TargetID,
			string(r.Key),
			strings.Join(r.Fields, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDuplicates writes one row per duplicate group.
func WriteDuplicates(w io.Writer, groups []engine.DuplicateGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"match_key", "count", "ids"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, g := range groups {
		row := []string{string(g.Key), strconv.Itoa(len(g.IDs)), strings.Join(g.IDs, ";")}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDrift writes one row per measured pair.
func WriteDrift(w io.Writer, records []engine.DriftRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source_id", "target_id", "distance", "exceeds_threshold"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, d := range records {
		row := []string{
			d.SourceID,
			d.TargetID,
			strconv.FormatFloat(d.Distance, 'f', 2, 64),
			strconv.FormatBool(d.Exceeds),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOrphans writes the two street-name difference sets, labeled by
// side.
func WriteOrphans(w io.Writer, srcOnly, tgtOnly []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"street", "only_in"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, s := range srcOnly {
		if err := cw.Write([]string{s, "source"}); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	for _, s := range tgtOnly {
		if err := cw.Write([]string{s, "target"}); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
