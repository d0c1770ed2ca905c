package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gpgis-ams/internal/symspell"
)

// WriteOrphanSuggestions writes the orphan-street report with the
// nearest-counterpart column filled in, one row per orphan on either
// side.
func WriteOrphanSuggestions(w io.Writer, src, tgt []symspell.OrphanSuggestion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"street", "only_in", "nearest_counterpart", "edit_distance"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	write := func(side string, suggestions []symspell.OrphanSuggestion) error {
		for _, s := range suggestions {
			distance := ""
			if s.Suggestion != "" {
				distance = strconv.Itoa(s.Distance)
			}
			if err := cw.Write([]string{s.Street, side, s.Suggestion, distance}); err != nil {
				return fmt.Errorf("export: %w", err)
			}
		}
		return nil
	}
	if err := write("source", src); err != nil {
		return err
	}
	if err := write("target", tgt); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
