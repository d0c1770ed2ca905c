// Package symspell implements symmetric-delete spelling lookup over
// street names.  Orphan-street review uses it to suggest the closest
// counterpart in the other dataset: a street that appears only in one
// source is usually a typo of one that appears in the other.
//
// The index pre-computes every deletion variant of each term within
// the maximum edit distance, so lookups cost O(1) per variant instead
// of a scan over the dictionary.
package symspell

import (
	"sort"
	"strings"
)

// Config holds index parameters.
type Config struct {
	// MaxEditDistance is the largest Damerau-Levenshtein distance a
	// suggestion may have.  Two catches most typos without inventing
	// false matches.
	MaxEditDistance int
	// MinTermLength is the shortest term worth indexing; very short
	// names produce too many accidental neighbors.
	MinTermLength int
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() *Config {
	return &Config{MaxEditDistance: 2, MinTermLength: 3}
}

// Suggestion is one candidate spelling for a looked-up term.
type Suggestion struct {
	// Term is the indexed spelling.
	Term string
	// Distance is the edit distance from the input.
	Distance int
	// Frequency is how many records carry this spelling.  Higher
	// frequency wins when distances tie.
	Frequency int64
}

// Index is a symmetric-delete dictionary over street names.
type Index struct {
	terms   map[string]int64
	deletes map[string][]string
	config  *Config
}

// NewIndex creates an empty index.
func NewIndex(config *Config) *Index {
	if config == nil {
		config = DefaultConfig()
	}
	return &Index{
		terms:   make(map[string]int64),
		deletes: make(map[string][]string),
		config:  config,
	}
}

// Add records one occurrence of a term, indexing its deletion
// variants on first sight.
func (x *Index) Add(term string) {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < x.config.MinTermLength {
		return
	}

	x.terms[term]++
	if x.terms[term] > 1 {
		return
	}
	for _, del := range x.deleteVariants(term, x.config.MaxEditDistance) {
		x.deletes[del] = append(x.deletes[del], term)
	}
}

// Contains reports whether the exact term is indexed.
func (x *Index) Contains(term string) bool {
	_, ok := x.terms[strings.ToLower(strings.TrimSpace(term))]
	return ok
}

// Len returns the number of distinct indexed terms.
func (x *Index) Len() int { return len(x.terms) }

// Lookup returns candidate spellings for the input, nearest first;
// frequency breaks distance ties.
func (x *Index) Lookup(input string, maxDistance int) []Suggestion {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil
	}
	if maxDistance > x.config.MaxEditDistance {
		maxDistance = x.config.MaxEditDistance
	}

	if freq, ok := x.terms[input]; ok {
		return []Suggestion{{Term: input, Distance: 0, Frequency: freq}}
	}

	seen := make(map[string]bool)
	var found []Suggestion
	consider := func(term string) {
		if seen[term] {
			return
		}
		seen[term] = true
		if d := editDistance(input, term, maxDistance); d >= 0 {
			found = append(found, Suggestion{Term: term, Distance: d, Frequency: x.terms[term]})
		}
	}

	variants := x.deleteVariants(input, maxDistance)
	variants = append(variants, input)
	for _, del := range variants {
		for _, term := range x.deletes[del] {
			consider(term)
		}
		// The variant itself may be a dictionary term, when the input
		// carries extra characters.
		if _, ok := x.terms[del]; ok {
			consider(del)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Distance != found[j].Distance {
			return found[i].Distance < found[j].Distance
		}
		if found[i].Frequency != found[j].Frequency {
			return found[i].Frequency > found[j].Frequency
		}
		return found[i].Term < found[j].Term
	})
	return found
}

// Best returns the single nearest suggestion, or nil.
func (x *Index) Best(input string, maxDistance int) *Suggestion {
	found := x.Lookup(input, maxDistance)
	if len(found) == 0 {
		return nil
	}
	return &found[0]
}

// deleteVariants generates every string reachable from term by up to
// maxDistance single-character deletions.
func (x *Index) deleteVariants(term string, maxDistance int) []string {
	if maxDistance <= 0 || term == "" {
		return nil
	}
	set := make(map[string]bool)
	collectDeletes(term, maxDistance, set)

	out := make([]string, 0, len(set))
	for del := range set {
		out = append(out, del)
	}
	return out
}

func collectDeletes(term string, distance int, set map[string]bool) {
	if distance <= 0 || len(term) <= 1 {
		return
	}
	for i := 0; i < len(term); i++ {
		del := term[:i] + term[i+1:]
		if !set[del] {
			set[del] = true
			collectDeletes(del, distance-1, set)
		}
	}
}

// editDistance computes the Damerau-Levenshtein distance, returning
// -1 as soon as it provably exceeds maxDistance.
func editDistance(a, b string, maxDistance int) int {
	lenA, lenB := len(a), len(b)
	if diff := lenA - lenB; diff > maxDistance || -diff > maxDistance {
		return -1
	}
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}
	if lenA > lenB {
		a, b = b, a
		lenA, lenB = lenB, lenA
	}

	prevPrev := make([]int, lenA+1)
	prev := make([]int, lenA+1)
	curr := make([]int, lenA+1)
	for i := 0; i <= lenA; i++ {
		prev[i] = i
	}

	for j := 1; j <= lenB; j++ {
		curr[0] = j
		rowMin := j
		for i := 1; i <= lenA; i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[i] = minInt(prev[i]+1, minInt(curr[i-1]+1, prev[i-1]+cost))
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				curr[i] = minInt(curr[i], prevPrev[i-2]+cost)
			}
			if curr[i] < rowMin {
				rowMin = curr[i]
			}
		}
		if rowMin > maxDistance {
			return -1
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}

	if prev[lenA] > maxDistance {
		return -1
	}
	return prev[lenA]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
