// Package cache persists imported record sets as a binary snapshot,
// so repeated runs against the same datasets skip the CSV import and
// parse phase.
package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gpgis-ams/internal/address"
)

// snapshot is the on-disk form.  Records are stored by concrete type;
// Load reassembles them in their original order.
type snapshot struct {
	Order    []string
	Entries  []*address.Entry
	Licenses []*address.BusinessLicense
}

const (
	kindEntry   = "entry"
	kindLicense = "license"
)

// Save writes the record set to path, creating parent directories as
// needed.  The write goes through a temp file and rename, so a crash
// never leaves a truncated cache behind.
func Save(path string, records []address.Record) error {
	snap := snapshot{Order: make([]string, 0, len(records))}
	for _, rec := range records {
		switch r := rec.(type) {
		case *address.Entry:
			snap.Order = append(snap.Order, kindEntry)
			snap.Entries = append(snap.Entries, r)
		case *address.BusinessLicense:
			snap.Order = append(snap.Order, kindLicense)
			snap.Licenses = append(snap.Licenses, r)
		default:
			return fmt.Errorf("cache: unsupported record type %T", rec)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: encoding %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Load reads a record set previously written by Save.
func Load(path string) ([]address.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("cache: decoding %s: %w", path, err)
	}

	records := make([]address.Record, 0, len(snap.Order))
	var e, l int
	for _, kind := range snap.Order {
		switch kind {
		case kindEntry:
			if e >= len(snap.Entries) {
				return nil, fmt.Errorf("cache: corrupt snapshot %s", path)
			}
			records = append(records, snap.Entries[e])
			e++
		case kindLicense:
			if l >= len(snap.Licenses) {
				return nil, fmt.Errorf("cache: corrupt snapshot %s", path)
			}
			records = append(records, snap.Licenses[l])
			l++
		default:
			return nil, fmt.Errorf("cache: corrupt snapshot %s", path)
		}
	}
	return records, nil
}
