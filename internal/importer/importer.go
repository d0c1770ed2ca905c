// Package importer reads address datasets from CSV exports into
// records.  Each loader knows one export schema: the city GIS layer,
// the county site-address layer, the business license roll, and a
// generic free-text format that goes through the grammar parser.
//
// A malformed row never aborts a batch; it is recorded as a Failure
// and loading continues.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/parser"
)

// Failure records one row that could not be converted.
type Failure struct {
	// Line is the 1-based CSV line number.
	Line int
	// ID is the row's identifier when one was readable.
	ID string
	// Reason says what went wrong.
	Reason string
}

// Batch is the outcome of loading one file.
type Batch struct {
	Records  []address.Record
	Failures []Failure
}

// table wraps a CSV file with named column access.  Column names are
// matched case-insensitively against the header row.
type table struct {
	reader  *csv.Reader
	columns map[string]int
	line    int
	fields  []string
}

func openTable(path string) (*table, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("importer: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("importer: reading header of %s: %w", path, err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}

	return &table{reader: reader, columns: columns, line: 1}, file.Close, nil
}

// next advances to the next row.  io.EOF ends the file; any other read
// error is reported as a row failure so the batch keeps going.
func (t *table) next() (bool, *Failure) {
	fields, err := t.reader.Read()
	t.line++
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return true, &Failure{Line: t.line, Reason: err.Error()}
	}
	t.fields = fields
	return true, nil
}

// get returns the named column of the current row, trimmed.  Missing
// columns and short rows read as empty, the same way the source GIS
// exports leave blanks.
func (t *table) get(name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(t.fields) {
		return ""
	}
	return strings.TrimSpace(t.fields[i])
}

// getFloat parses the named column as a float when present.
func (t *table) getFloat(name string) (float64, bool) {
	s := t.get(name)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// has reports whether the file carries the named column at all.
func (t *table) has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// point reads the coordinate pair from the given columns.
func (t *table) point(latCol, lonCol string) (address.Point, bool) {
	lat, ok := t.getFloat(latCol)
	if !ok {
		return address.Point{}, false
	}
	lon, ok := t.getFloat(lonCol)
	if !ok {
		return address.Point{}, false
	}
	return address.Point{Lat: lat, Lon: lon}, true
}

// LoadCity reads the city address site-point export.  Components
// arrive pre-split in the GIS schema, so no grammar parsing happens
// here.
func LoadCity(path string) (*Batch, error) {
	t, closer, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	batch := &Batch{}
	for {
		ok, failure := t.next()
		if !ok {
			break
		}
		if failure != nil {
			batch.Failures = append(batch.Failures, *failure)
			continue
		}

		entry := &address.Entry{
			SourceID:   t.get("globalid"),
			Provenance: "city",
			Status:     t.get("status"),
			Parts: address.Components{
				Number:          t.get("add_number"),
				NumberSuffix:    t.get("addnum_suf"),
				PreDirectional:  t.get("st_predir"),
				StreetName:      t.get("st_name"),
				PostType:        t.get("st_postyp"),
				PostDirectional: t.get("st_posdir"),
				SubaddressType:  t.get("unittype"),
				SubaddressID:    t.get("unit"),
				Community:       t.get("post_comm"),
				State:           t.get("state"),
				ZIP:             t.get("post_code"),
			},
		}
		if entry.SourceID == "" {
			entry.SourceID = fmt.Sprintf("city-%d", t.line)
		}
		entry.Point, entry.HasPoint = t.point("latitude", "longitude")

		if !entry.Parts.Matchable() {
			batch.Failures = append(batch.Failures, Failure{
				Line: t.line, ID: entry.SourceID,
				Reason: "address number or street name missing",
			})
			continue
		}
		batch.Records = append(batch.Records, entry)
	}
	return batch, nil
}

// LoadCounty reads the county site-address export.  The county schema
// uses lowercase column names and labels the community as the
// unincorporated community.
func LoadCounty(path string) (*Batch, error) {
	t, closer, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	batch := &Batch{}
	for {
		ok, failure := t.next()
		if !ok {
			break
		}
		if failure != nil {
			batch.Failures = append(batch.Failures, *failure)
			continue
		}

		entry := &address.Entry{
			SourceID:   t.get("id"),
			Provenance: "county",
			Status:     t.get("status"),
			Parts: address.Components{
				Number:         t.get("add_number"),
				NumberSuffix:   t.get("addnum_suf"),
				PreDirectional: t.get("st_predir"),
				StreetName:     t.get("st_name"),
				PostType:       t.get("st_postyp"),
				SubaddressType: t.get("unittype"),
				SubaddressID:   t.get("unit"),
				Community:      t.get("uninc_comm"),
				State:          t.get("state"),
				ZIP:            t.get("post_code"),
			},
		}
		if entry.SourceID == "" {
			entry.SourceID = fmt.Sprintf("county-%d", t.line)
		}
		entry.Point, entry.HasPoint = t.point("latitude", "longitude")

		if !entry.Parts.Matchable() {
			batch.Failures = append(batch.Failures, Failure{
				Line: t.line, ID: entry.SourceID,
				Reason: "address number or street name missing",
			})
			continue
		}
		batch.Records = append(batch.Records, entry)
	}
	return batch, nil
}

// LoadBusiness reads the business license roll.  The situs address is
// one free-text label, so every row goes through the grammar parser;
// partial and unparseable rows land in Failures with the parser's
// diagnosis.
func LoadBusiness(path string, p *parser.Parser) (*Batch, error) {
	t, closer, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	batch := &Batch{}
	for {
		ok, failure := t.next()
		if !ok {
			break
		}
		if failure != nil {
			batch.Failures = append(batch.Failures, *failure)
			continue
		}

		license := t.get("license")
		if license == "" {
			license = fmt.Sprintf("business-%d", t.line)
		}

		result := p.Parse(t.get("street_address_label"))
		if result.Status == parser.Unparseable {
			batch.Failures = append(batch.Failures, Failure{
				Line: t.line, ID: license, Reason: result.Reason,
			})
			continue
		}
		if result.Status == parser.Partial && !result.Address.Matchable() {
			batch.Failures = append(batch.Failures, Failure{
				Line: t.line, ID: license,
				Reason: fmt.Sprintf("partial parse, missing %s", strings.Join(result.Missing, ", ")),
			})
			continue
		}

		rec := &address.BusinessLicense{
			LicenseNumber: license,
			CompanyName:   t.get("company_name"),
			Parts:         result.Address,
		}
		rec.Point, rec.HasPoint = t.point("latitude", "longitude")
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

// LoadRaw reads a generic export whose address is one free-text
// column, optionally pre-split into street line, city, state and zip
// columns.  Useful for partner datasets with no fixed schema.
func LoadRaw(path, provenance string, p *parser.Parser) (*Batch, error) {
	t, closer, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	split := t.has("city") || t.has("state") || t.has("zip")

	batch := &Batch{}
	for {
		ok, failure := t.next()
		if !ok {
			break
		}
		if failure != nil {
			batch.Failures = append(batch.Failures, *failure)
			continue
		}

		id := t.get("id")
		if id == "" {
			id = fmt.Sprintf("%s-%d", provenance, t.line)
		}

		var result parser.Result
		if split {
			result = p.ParseParts(t.get("address"), t.get("city"), t.get("state"), t.get("zip"))
		} else {
			result = p.Parse(t.get("address"))
		}
		if !result.Address.Matchable() {
			reason := result.Reason
			if reason == "" {
				reason = fmt.Sprintf("missing %s", strings.Join(result.Missing, ", "))
			}
			batch.Failures = append(batch.Failures, Failure{Line: t.line, ID: id, Reason: reason})
			continue
		}

		entry := &address.Entry{
			SourceID:   id,
			Provenance: provenance,
			Status:     t.get("status"),
			Parts:      result.Address,
		}
		entry.Point, entry.HasPoint = t.point("latitude", "longitude")
		batch.Records = append(batch.Records, entry)
	}
	return batch, nil
}
