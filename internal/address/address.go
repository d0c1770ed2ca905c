// Package address defines the structured address data model and the
// capability interface record types implement to participate in
// matching.  The reconciliation engine depends only on the Record
// interface, never on a concrete schema, so municipal, county and
// business-license datasets all flow through the same code.
package address

import (
	"fmt"
	"strings"
)

// Components holds the structural parts of a situs address.  House
// number and street name are the only parts required for a record to be
// eligible for matching; everything else may be absent (empty string or
// zero value).
type Components struct {
	// Number is the house number, digits only ("123").
	Number string
	// NumberSuffix is an alphabetic suffix attached to the number
	// without a separating space ("B" in "123B"), or a fractional
	// suffix such as "1/2".
	NumberSuffix string
	// PreDirectional is the canonical directional abbreviation
	// preceding the street name (N, S, E, W, NE, NW, SE, SW).
	PreDirectional string
	// StreetName is the normalized street name without directionals or
	// type suffix.
	StreetName string
	// PostType is the canonical street-type abbreviation (St, Ave, Rd).
	// Empty when the street has no type suffix (e.g. "Broadway"); this
	// is valid, not every locale requires one.
	PostType string
	// PostDirectional is the canonical directional abbreviation
	// following the street type.  The city does not assign these, but
	// partner datasets can carry them.
	PostDirectional string
	// SubaddressType is the canonical secondary unit designator (Apt,
	// Ste, Unit, Lot).
	SubaddressType string
	// SubaddressID identifies the unit ("2", "B", "101 102").
	SubaddressID string
	// Community is the postal community (city or town).
	Community string
	// State is the two-letter state code.
	State string
	// ZIP is the postal code, digits with an optional hyphenated
	// plus-four ("97526" or "97526-1234").
	ZIP string
}

// Matchable reports whether the components carry the minimum structure
// required for key derivation: a house number and a street name.
func (c Components) Matchable() bool {
	return c.Number != "" && c.StreetName != ""
}

// CompleteStreetName returns the directional, street name and type
// suffix as a single label, the form used for street vocabulary
// comparison.
func (c Components) CompleteStreetName() string {
	parts := make([]string, 0, 4)
	if c.PreDirectional != "" {
		parts = append(parts, c.PreDirectional)
	}
	parts = append(parts, c.StreetName)
	if c.PostType != "" {
		parts = append(parts, c.PostType)
	}
	if c.PostDirectional != "" {
		parts = append(parts, c.PostDirectional)
	}
	return strings.Join(parts, " ")
}

// Label renders the components as a single mailing-style line, used for
// map labels and report output.
func (c Components) Label() string {
	var b strings.Builder
	b.WriteString(c.Number)
	if c.NumberSuffix != "" {
		b.WriteString(" ")
		b.WriteString(c.NumberSuffix)
	}
	b.WriteString(" ")
	b.WriteString(c.CompleteStreetName())
	if c.SubaddressID != "" {
		if c.SubaddressType != "" {
			fmt.Fprintf(&b, " %s %s", c.SubaddressType, c.SubaddressID)
		} else {
			fmt.Fprintf(&b, " #%s", c.SubaddressID)
		}
	} else if c.SubaddressType != "" {
		b.WriteString(" ")
		b.WriteString(c.SubaddressType)
	}
	return strings.TrimSpace(b.String())
}

// Point is a coordinate pair in the dataset's projection.  The engine
// only compares points already attached to records; it never geocodes.
type Point struct {
	// Lat is the 'y' value.  Depending on the source projection this
	// may be decimal degrees, meters or feet.
	Lat float64
	// Lon is the 'x' value.
	Lon float64
}

// Comparable field names recognized by the reconciliation engine.
// These are the attributes that can diverge between two records that
// share a match key.
const (
	FieldSubaddress  = "subaddress"
	FieldZIP         = "zip"
	FieldCommunity   = "community"
	FieldCoordinates = "coordinates"
	FieldStatus      = "status"
)

// Field is one named comparable attribute with its current value.
type Field struct {
	Name  string
	Value string
}

// Record is the capability any address schema must expose to
// participate in matching: a stable identity, the structural components
// for key derivation, optional coordinates, and the enumeration of
// comparable fields used to compute divergence sets.
type Record interface {
	// ID returns the stable source identifier for the record.
	ID() string
	// Source returns the provenance label of the dataset the record
	// came from ("city", "county", "business").
	Source() string
	// Components returns the structural address components.
	Components() Components
	// Location returns the record's coordinates, if it has any.
	Location() (Point, bool)
	// Fields enumerates the named comparable attributes with their
	// current values.
	Fields() []Field
}

// Label returns the mailing-style label for any record.
func Label(r Record) string {
	return r.Components().Label()
}
