// Package vocab holds the canonical vocabulary tables used to normalize
// address components.  Every table maps alternate spellings to one fixed
// abbreviation per concept, following USPS Publication 28 conventions.
// The tables are plain data: the parser and key deriver consume them,
// they contain no matching logic of their own.
package vocab

import (
	"fmt"
	"strings"
)

// Vocabulary bundles the canonical tables for one run.  Callers pass a
// Vocabulary explicitly into the parser and key deriver rather than
// relying on package globals, so runs stay reproducible.
type Vocabulary struct {
	// Directionals maps directional spellings (N, N., NORTH) to the
	// postal abbreviation (N, S, E, W, NE, NW, SE, SW).
	Directionals map[string]string
	// StreetTypes maps street-type spellings (STREET, ST, ST.) to the
	// postal abbreviation (St, Ave, Rd, ...).
	StreetTypes map[string]string
	// SubaddressTypes maps secondary unit designators (APARTMENT, APT,
	// "#") to the postal abbreviation (Apt, Ste, Unit, ...).
	SubaddressTypes map[string]string
	// Communities maps postal community spellings (GP, GRANTS PASS) to
	// the community label (Grants Pass).
	Communities map[string]string
	// States maps state spellings (OREGON, OR) to the two-letter code.
	States map[string]string
}

// Default returns the built-in vocabulary covering the directionals,
// street types and subaddress designators in local use.  Callers can
// extend the returned tables before handing the vocabulary to the
// parser; see LoadFile for the file-driven route.
func Default() *Vocabulary {
	return &Vocabulary{
		Directionals:    defaultDirectionals(),
		StreetTypes:     defaultStreetTypes(),
		SubaddressTypes: defaultSubaddressTypes(),
		Communities:     defaultCommunities(),
		States:          defaultStates(),
	}
}

// Validate reports a configuration error when a required table is empty.
// Run before any record is processed so bad configuration surfaces
// immediately instead of polluting per-record results.
func (v *Vocabulary) Validate() error {
	if len(v.Directionals) == 0 {
		return fmt.Errorf("vocabulary: directional table is empty")
	}
	if len(v.StreetTypes) == 0 {
		return fmt.Errorf("vocabulary: street type table is empty")
	}
	if len(v.SubaddressTypes) == 0 {
		return fmt.Errorf("vocabulary: subaddress type table is empty")
	}
	return nil
}

// Directional resolves a token to its canonical directional abbreviation.
func (v *Vocabulary) Directional(token string) (string, bool) {
	canon, ok := v.Directionals[foldKey(token)]
	return canon, ok
}

// StreetType resolves a token to its canonical street-type abbreviation.
func (v *Vocabulary) StreetType(token string) (string, bool) {
	canon, ok := v.StreetTypes[foldKey(token)]
	return canon, ok
}

// SubaddressType resolves a token to its canonical subaddress designator.
func (v *Vocabulary) SubaddressType(token string) (string, bool) {
	canon, ok := v.SubaddressTypes[foldKey(token)]
	return canon, ok
}

// Community resolves a community spelling to its canonical label.
func (v *Vocabulary) Community(name string) (string, bool) {
	canon, ok := v.Communities[foldKey(name)]
	return canon, ok
}

// State resolves a state spelling to its two-letter code.
func (v *Vocabulary) State(name string) (string, bool) {
	canon, ok := v.States[foldKey(name)]
	return canon, ok
}

// foldKey lower-cases and strips trailing periods so "N." and "n" hit
// the same table entry.
func foldKey(token string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(token)), ".")
}

func defaultDirectionals() map[string]string {
	// City streets use the compound forms (NE, NW, SE, SW); county roads
	// annexed by the city can carry the simple forms.
	return map[string]string{
		"n": "N", "north": "N",
		"s": "S", "south": "S",
		"e": "E", "east": "E",
		"w": "W", "west": "W",
		"ne": "NE", "n.e": "NE", "northeast": "NE",
		"nw": "NW", "n.w": "NW", "northwest": "NW",
		"se": "SE", "s.e": "SE", "southeast": "SE",
		"sw": "SW", "s.w": "SW", "southwest": "SW",
	}
}

func defaultStreetTypes() map[string]string {
	return map[string]string{
		"alley": "Aly", "aly": "Aly",
		"avenue": "Ave", "ave": "Ave", "av": "Ave",
		"boulevard": "Blvd", "blvd": "Blvd",
		"circle": "Cir", "cir": "Cir",
		"court": "Ct", "ct": "Ct",
		"crossing": "Xing", "xing": "Xing",
		"cutoff": "Cutoff",
		"drive":  "Dr", "dr": "Dr",
		"glen": "Gln", "gln": "Gln",
		"heights": "Hts", "hts": "Hts",
		"highway": "Hwy", "hwy": "Hwy",
		"lane": "Ln", "ln": "Ln",
		"loop": "Loop",
		"park": "Park",
		"parkway": "Pkwy", "pkwy": "Pkwy",
		"place": "Pl", "pl": "Pl",
		"road": "Rd", "rd": "Rd",
		"street": "St", "st": "St",
		"terrace": "Ter", "ter": "Ter",
		"trail": "Trl", "trl": "Trl",
		"view": "Vw", "vw": "Vw",
		"way": "Way", "wy": "Way",
	}
}

func defaultSubaddressTypes() map[string]string {
	return map[string]string{
		"apartment": "Apt", "apt": "Apt",
		"basement": "Bsmt", "bsmt": "Bsmt",
		"building": "Bldg", "bldg": "Bldg",
		"department": "Dept", "dept": "Dept",
		"floor": "Fl", "fl": "Fl",
		"lot":    "Lot",
		"office": "Ofc", "ofc": "Ofc",
		"rear": "Rear",
		"room": "Rm", "rm": "Rm",
		"space": "Spc", "spc": "Spc",
		"suite": "Ste", "ste": "Ste",
		"trailer": "Trlr", "trlr": "Trlr",
		"unit": "Unit",
		"#":    "Unit",
	}
}

func defaultCommunities() map[string]string {
	return map[string]string{
		"grants pass": "Grants Pass",
		"gp":          "Grants Pass",
		"medford":     "Medford",
		"merlin":      "Merlin",
	}
}

func defaultStates() map[string]string {
	return map[string]string{
		"or": "OR", "oregon": "OR", "ore": "OR",
		"ca": "CA", "california": "CA",
		"wa": "WA", "washington": "WA",
		"id": "ID", "idaho": "ID",
		"nv": "NV", "nevada": "NV",
	}
}
