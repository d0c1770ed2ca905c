package address

import (
	"fmt"
	"strings"
)

// Entry is the common concrete record for municipal and county situs
// address datasets.  Importers convert their native schemas into
// entries; the provenance label records which dataset an entry came
// from.
type Entry struct {
	// SourceID is the dataset's stable identifier for the record.
	SourceID string
	// Provenance labels the originating dataset.
	Provenance string
	// Parts holds the structural components.
	Parts Components
	// Status is the assignment status of the address (Current,
	// Retired, Pending), when the dataset tracks one.
	Status string
	// HasPoint reports whether Lat/Lon carry a real coordinate.
	HasPoint bool
	// Point is the record's coordinate in the dataset projection.
	Point Point
}

// ID implements Record.
func (e *Entry) ID() string { return e.SourceID }

// Source implements Record.
func (e *Entry) Source() string { return e.Provenance }

// Components implements Record.
func (e *Entry) Components() Components { return e.Parts }

// Location implements Record.
func (e *Entry) Location() (Point, bool) { return e.Point, e.HasPoint }

// Fields implements Record.  Coordinates render at fixed precision so
// two reads of the same point compare equal.
func (e *Entry) Fields() []Field {
	fields := []Field{
		{Name: FieldSubaddress, Value: subaddressValue(e.Parts)},
		{Name: FieldZIP, Value: e.Parts.ZIP},
		{Name: FieldCommunity, Value: strings.ToLower(e.Parts.Community)},
		{Name: FieldStatus, Value: strings.ToLower(e.Status)},
	}
	if e.HasPoint {
		fields = append(fields, Field{
			Name:  FieldCoordinates,
			Value: fmt.Sprintf("%.6f,%.6f", e.Point.Lat, e.Point.Lon),
		})
	} else {
		fields = append(fields, Field{Name: FieldCoordinates})
	}
	return fields
}

// subaddressValue folds designator and identifier into one comparable
// value.  "Apt 2" and "apt 2" compare equal; "Apt 2" and "Apt 3" do
// not.
func subaddressValue(c Components) string {
	if c.SubaddressType == "" && c.SubaddressID == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.SubaddressType + " " + c.SubaddressID))
}
