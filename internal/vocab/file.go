package vocab

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// fileVocabulary is the YAML shape of a vocabulary override file.  Keys
// are alternate spellings, values are the canonical form.
type fileVocabulary struct {
	Directionals    map[string]string `yaml:"directionals"`
	StreetTypes     map[string]string `yaml:"street_types"`
	SubaddressTypes map[string]string `yaml:"subaddress_types"`
	Communities     map[string]string `yaml:"communities"`
	States          map[string]string `yaml:"states"`
}

// LoadFile reads a YAML vocabulary file and merges its entries over the
// defaults.  Entries in the file win on collision, so a site can remap
// an abbreviation without recompiling.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: read %s: %w", path, err)
	}

	var file fileVocabulary
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("vocabulary: parse %s: %w", path, err)
	}

	v := Default()
	merge(v.Directionals, file.Directionals)
	merge(v.StreetTypes, file.StreetTypes)
	merge(v.SubaddressTypes, file.SubaddressTypes)
	merge(v.Communities, file.Communities)
	merge(v.States, file.States)

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func merge(dst, src map[string]string) {
	for spelling, canon := range src {
		dst[foldKey(spelling)] = canon
	}
}
