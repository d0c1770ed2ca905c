package vocab

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirectionalSpellings(t *testing.T) {
	v := Default()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short form", "NE", "NE"},
		{"long form", "Northeast", "NE"},
		{"dotted", "N.E.", "NE"},
		{"dotted simple", "N.", "N"},
		{"lowercase", "southwest", "SW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.Directional(tt.input)
			if !ok {
				t.Fatalf("Directional(%q) not found", tt.input)
			}
			if got != tt.want {
				t.Errorf("Directional(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if _, ok := v.Directional("MAIN"); ok {
		t.Error("Directional(MAIN) should not resolve")
	}
}

func TestStreetTypeSpellings(t *testing.T) {
	v := Default()

	tests := []struct {
		input string
		want  string
	}{
		{"STREET", "St"},
		{"St", "St"},
		{"st.", "St"},
		{"Avenue", "Ave"},
		{"HWY", "Hwy"},
		{"Boulevard", "Blvd"},
	}

	for _, tt := range tests {
		got, ok := v.StreetType(tt.input)
		if !ok {
			t.Fatalf("StreetType(%q) not found", tt.input)
		}
		if got != tt.want {
			t.Errorf("StreetType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateEmptyTable(t *testing.T) {
	v := Default()
	v.StreetTypes = nil
	if err := v.Validate(); err == nil {
		t.Error("Validate should fail with an empty street type table")
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	data := []byte("street_types:\n  camino: Cam\ncommunities:\n  gpass: Grants Pass\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	// New entry from the file.
	if got, ok := v.StreetType("Camino"); !ok || got != "Cam" {
		t.Errorf("StreetType(Camino) = %q, %v; want Cam, true", got, ok)
	}
	// Defaults survive the merge.
	if got, ok := v.StreetType("Street"); !ok || got != "St" {
		t.Errorf("StreetType(Street) = %q, %v; want St, true", got, ok)
	}
	if got, ok := v.Community("gpass"); !ok || got != "Grants Pass" {
		t.Errorf("Community(gpass) = %q, %v", got, ok)
	}
}
