// Package normalize derives deterministic match keys from structural
// address components.  Key derivation is pure and total: it never
// fails, and two structurally identical addresses produce the same key
// regardless of input case, spacing or abbreviation variant.
package normalize

import (
	"strings"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/vocab"
)

// MatchKey is the canonical equality key for an address.  The key
// covers house number, pre-directional, complete street name and
// postal community; subaddress, ZIP and coordinates are volatile and
// excluded so they can be compared as divergence fields instead.
type MatchKey string

// keySep joins key slots.  Absent components keep their slot as an
// empty segment so keys with and without optional parts stay
// comparable.
const keySep = "|"

// Key derives the match key for a set of components.  Each contributing
// slot is lower-cased, trimmed, whitespace-collapsed and resolved
// through the vocabulary, so "123 NE Main STREET" and "123 Northeast
// Main St" collapse to one key.  Street name and type suffix share one
// slot: sources that leave the suffix embedded in the street name field
// ("Main Street") key identically to sources that split it out.
func Key(c address.Components, v *vocab.Vocabulary) MatchKey {
	number := Fold(c.Number)
	if suffix := Fold(c.NumberSuffix); suffix != "" {
		number += " " + suffix
	}

	slots := []string{
		number,
		foldDirectional(c.PreDirectional, v),
		foldStreet(c, v),
		Fold(c.Community),
	}
	return MatchKey(strings.Join(slots, keySep))
}

// KeyFor derives the match key for any record.
func KeyFor(r address.Record, v *vocab.Vocabulary) MatchKey {
	return Key(r.Components(), v)
}

// StreetKey returns the normalized complete street name, the unit of
// street vocabulary comparison for orphan detection.
func StreetKey(c address.Components, v *vocab.Vocabulary) string {
	parts := make([]string, 0, 2)
	if dir := foldDirectional(c.PreDirectional, v); dir != "" {
		parts = append(parts, dir)
	}
	if street := foldStreet(c, v); street != "" {
		parts = append(parts, street)
	}
	return strings.Join(parts, " ")
}

// Fold lower-cases, trims and collapses interior whitespace.
func Fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// foldDirectional resolves a directional through the vocabulary before
// folding, so "Northeast" and "NE" land on the same slot value.
func foldDirectional(s string, v *vocab.Vocabulary) string {
	if s == "" {
		return ""
	}
	if canon, ok := v.Directional(s); ok {
		return strings.ToLower(canon)
	}
	return Fold(s)
}

// foldStreet normalizes the street name plus type suffix as one unit.
// Every word after the first is resolved through the street-type table,
// which canonicalizes an embedded or trailing type ("Main Street" and
// "Main St" both read "main st") and also covers streets with stacked
// types such as "Azalea Dr Cutoff".  The first word is never resolved,
// so names like "Park Ave" keep their leading word.
func foldStreet(c address.Components, v *vocab.Vocabulary) string {
	joined := c.StreetName
	if c.PostType != "" {
		joined += " " + c.PostType
	}
	words := strings.Fields(strings.ToLower(joined))
	for i := 1; i < len(words); i++ {
		if canon, ok := v.StreetType(words[i]); ok {
			words[i] = strings.ToLower(canon)
		}
	}
	if dir := foldDirectional(c.PostDirectional, v); dir != "" {
		words = append(words, dir)
	}
	return strings.Join(words, " ")
}
