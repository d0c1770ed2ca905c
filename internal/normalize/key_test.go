package normalize

import (
	"testing"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/vocab"
)

func TestKeyVariantsCollapse(t *testing.T) {
	v := vocab.Default()

	tests := []struct {
		name string
		a, b address.Components
	}{
		{
			name: "street type abbreviation",
			a:    address.Components{Number: "123", StreetName: "Main", PostType: "St", Community: "Springfield"},
			b:    address.Components{Number: "123", StreetName: "Main", PostType: "Street", Community: "Springfield"},
		},
		{
			name: "type embedded in street name",
			a:    address.Components{Number: "123", StreetName: "Main St", Community: "Springfield"},
			b:    address.Components{Number: "123", StreetName: "Main", PostType: "Street", Community: "Springfield"},
		},
		{
			name: "directional long and short form",
			a:    address.Components{Number: "400", PreDirectional: "Northeast", StreetName: "Beacon", PostType: "Dr"},
			b:    address.Components{Number: "400", PreDirectional: "NE", StreetName: "Beacon", PostType: "Drive"},
		},
		{
			name: "case and whitespace",
			a:    address.Components{Number: "77", StreetName: "AZALEA  DRIVE", PostType: "CUTOFF", Community: "GRANTS PASS"},
			b:    address.Components{Number: "77", StreetName: "Azalea Dr", PostType: "Cutoff", Community: "Grants Pass"},
		},
		{
			name: "number suffix spacing",
			a:    address.Components{Number: "123", NumberSuffix: "B", StreetName: "Oak", PostType: "Ave"},
			b:    address.Components{Number: "123", NumberSuffix: " b ", StreetName: "Oak", PostType: "Avenue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := Key(tt.a, v)
			kb := Key(tt.b, v)
			if ka != kb {
				t.Errorf("keys differ:\n  a = %q\n  b = %q", ka, kb)
			}
		})
	}
}

func TestKeyDistinguishesStructure(t *testing.T) {
	v := vocab.Default()

	base := address.Components{Number: "123", StreetName: "Main", PostType: "St", Community: "Springfield"}

	tests := []struct {
		name  string
		other address.Components
	}{
		{"different number", address.Components{Number: "124", StreetName: "Main", PostType: "St", Community: "Springfield"}},
		{"different street", address.Components{Number: "123", StreetName: "Maine", PostType: "St", Community: "Springfield"}},
		{"different type", address.Components{Number: "123", StreetName: "Main", PostType: "Ave", Community: "Springfield"}},
		{"directional added", address.Components{Number: "123", PreDirectional: "N", StreetName: "Main", PostType: "St", Community: "Springfield"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Key(base, v) == Key(tt.other, v) {
				t.Errorf("key should differ from base for %+v", tt.other)
			}
		})
	}
}

func TestKeyIgnoresVolatileFields(t *testing.T) {
	v := vocab.Default()

	a := address.Components{Number: "45", StreetName: "Oak", PostType: "Ave", SubaddressType: "Apt", SubaddressID: "2", ZIP: "97526"}
	b := address.Components{Number: "45", StreetName: "Oak", PostType: "Ave", SubaddressType: "Ste", SubaddressID: "9", ZIP: "97527"}

	if Key(a, v) != Key(b, v) {
		t.Error("subaddress and ZIP must not contribute to the key")
	}
}

func TestKeyTotalOnEmptyComponents(t *testing.T) {
	v := vocab.Default()
	// Derivation never fails; empty components give the all-empty key.
	if got := Key(address.Components{}, v); got != MatchKey("|||") {
		t.Errorf("empty key = %q", got)
	}
}

func TestStreetKey(t *testing.T) {
	v := vocab.Default()

	a := address.Components{PreDirectional: "NE", StreetName: "Main", PostType: "Street"}
	b := address.Components{PreDirectional: "Northeast", StreetName: "Main St"}
	if StreetKey(a, v) != StreetKey(b, v) {
		t.Errorf("street keys differ: %q vs %q", StreetKey(a, v), StreetKey(b, v))
	}
	if got := StreetKey(a, v); got != "ne main st" {
		t.Errorf("StreetKey = %q, want %q", got, "ne main st")
	}
}
