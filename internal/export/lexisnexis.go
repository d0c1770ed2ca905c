package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/normalize"
	"github.com/gpgis-ams/internal/vocab"
)

// RangeRow is one row of the dispatch-service address range report:
// a contiguous run of in-service address numbers on one street.
type RangeRow struct {
	NumberFrom     int
	NumberTo       int
	PreDirectional string
	StreetName     string
	PostType       string
	Community      string
	ZIP            string
}

// observation pins an address number to whether it sits inside the
// service area.
type observation struct {
	num     int
	include bool
}

// LexisNexisRanges derives the in-service number ranges per street.
// Addresses in the include set are inside the service area; exclude
// addresses interrupt ranges, so a run of include numbers ends
// wherever an excluded number falls between them.  Streets are keyed
// by their normalized complete name, so spelling variants land on the
// same street.
func LexisNexisRanges(include, exclude []address.Record, v *vocab.Vocabulary) []RangeRow {
	obs := make(map[string][]observation)
	reps := make(map[string]address.Components)
	var order []string

	collect := func(records []address.Record, in bool) {
		for _, rec := range records {
			c := rec.Components()
			key := normalize.StreetKey(c, v)
			if key == "" {
				continue
			}
			num, err := strconv.Atoi(c.Number)
			if err != nil {
				continue
			}
			if _, seen := reps[key]; !seen {
				if !in {
					// Excluded addresses shape ranges but never name
					// a street row on their own.
					continue
				}
				reps[key] = c
				order = append(order, key)
			}
			obs[key] = append(obs[key], observation{num: num, include: in})
		}
	}
	collect(include, true)
	collect(exclude, false)

	var rows []RangeRow
	for _, key := range order {
		items := obs[key]
		// Stable sort keeps include observations ahead of excludes at
		// the same number, so a number present on both sides still
		// counts as served.
		sort.SliceStable(items, func(i, j int) bool { return items[i].num < items[j].num })

		rep := reps[key]
		for _, rng := range sweep(items) {
			rows = append(rows, RangeRow{
				NumberFrom:     rng[0],
				NumberTo:       rng[1],
				PreDirectional: canonDirectional(rep.PreDirectional, v),
				StreetName:     rep.StreetName,
				PostType:       rep.PostType,
				Community:      rep.Community,
				ZIP:            rep.ZIP,
			})
		}
	}
	return rows
}

// sweep walks number observations in order and emits the maximal runs
// of included numbers uninterrupted by an excluded one.
func sweep(items []observation) [][2]int {
	var ranges [][2]int
	var min, max int
	open := false
	for _, item := range items {
		if item.include {
			if !open {
				open = true
				min = item.num
			}
			max = item.num
		} else if open {
			open = false
			ranges = append(ranges, [2]int{min, max})
		}
	}
	if open {
		ranges = append(ranges, [2]int{min, max})
	}
	return ranges
}

func canonDirectional(s string, v *vocab.Vocabulary) string {
	if canon, ok := v.Directional(s); ok {
		return canon
	}
	return s
}

// WriteLexisNexis writes range rows in the dispatch service's upload
// format.  Beat, area, district, zone, post-direction and commonplace
// are required columns the city leaves blank.
func WriteLexisNexis(w io.Writer, rows []RangeRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"StNumFrom", "StNumTo", "StPreDirection", "StName", "StType",
		"StPostDirection", "City", "Beat", "Area", "District", "Zone",
		"Zipcode", "CommonPlace", "StNum",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.NumberFrom),
			strconv.Itoa(r.NumberTo),
			r.PreDirectional,
			r.StreetName,
			r.PostType,
			"",
			r.Community,
			"", "", "", "",
			r.ZIP,
			"",
			"",
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
