package address

import (
	"fmt"
	"strings"
)

// BusinessLicense is an address record drawn from the active business
// license roll.  Licenses carry a company name and license number on
// top of the situs address; the engine never sees those extras, it only
// consumes the Record capability.
type BusinessLicense struct {
	// LicenseNumber is the license identifier, used as the stable ID.
	LicenseNumber string
	// CompanyName is the licensed business name.
	CompanyName string
	// Parts holds the situs address components.
	Parts Components
	// HasPoint reports whether Lat/Lon carry a real coordinate.
	HasPoint bool
	// Point is the licensed premises coordinate.
	Point Point
}

// ID implements Record.
func (b *BusinessLicense) ID() string { return b.LicenseNumber }

// Source implements Record.
func (b *BusinessLicense) Source() string { return "business" }

// Components implements Record.
func (b *BusinessLicense) Components() Components { return b.Parts }

// Location implements Record.
func (b *BusinessLicense) Location() (Point, bool) { return b.Point, b.HasPoint }

// Fields implements Record.  License rolls do not track an address
// status, so the status slot stays empty and never reads as divergent
// against datasets that do.
func (b *BusinessLicense) Fields() []Field {
	fields := []Field{
		{Name: FieldSubaddress, Value: subaddressValue(b.Parts)},
		{Name: FieldZIP, Value: b.Parts.ZIP},
		{Name: FieldCommunity, Value: strings.ToLower(b.Parts.Community)},
	}
	if b.HasPoint {
		fields = append(fields, Field{
			Name:  FieldCoordinates,
			Value: fmt.Sprintf("%.6f,%.6f", b.Point.Lat, b.Point.Lon),
		})
	} else {
		fields = append(fields, Field{Name: FieldCoordinates})
	}
	return fields
}
