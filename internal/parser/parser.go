// Package parser converts free-text address lines into structured
// components.  Parsing is an ordered grammar with backtracking: each
// step speculatively consumes tokens and rewinds when the lookahead
// says the tokens belong to a later component.  A Parser holds only a
// read-only vocabulary, so one instance is safe across goroutines.
package parser

import (
	"fmt"
	"strings"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/vocab"
)

// Status classifies a parse outcome.  All three are ordinary results;
// batch callers record them per record and keep going.
type Status int

const (
	// Complete means every token was consumed and the address is
	// eligible for matching.
	Complete Status = iota
	// Partial means some components were read but tokens remain, or a
	// required component is absent.  The remainder is preserved
	// verbatim for manual review.
	Partial
	// Unparseable means no address structure could be read at all.
	Unparseable
)

// String renders the status for logs and reports.
func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	default:
		return "unparseable"
	}
}

// Component names reported in Result.Missing.
const (
	MissingNumber = "address number"
	MissingStreet = "street name"
	MissingZIP    = "zip"
)

// Result is the outcome of parsing one address string.
type Result struct {
	Status    Status
	Address   address.Components
	Remainder string
	Missing   []string
	Reason    string
}

// Parser parses address text against a canonical vocabulary.
type Parser struct {
	vocab *vocab.Vocabulary
}

// New builds a parser over the given vocabulary.  Vocabulary problems
// are fatal here, before any record is processed.
func New(v *vocab.Vocabulary) (*Parser, error) {
	if v == nil {
		return nil, fmt.Errorf("parser: nil vocabulary")
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	return &Parser{vocab: v}, nil
}

// Parse reads a complete address line, through city, state and zip
// when present.
func (p *Parser) Parse(raw string) Result {
	s := newScanner(raw)
	if s.done() {
		return Result{Status: Unparseable, Reason: "empty input"}
	}

	var c address.Components
	p.number(s, &c)
	p.preDirectional(s, &c)
	p.streetName(s, &c)
	p.postType(s, &c)
	p.postDirectional(s, &c)
	p.subaddress(s, &c)
	p.community(s, &c)
	p.state(s, &c)
	p.zip(s, &c)

	return finish(s, c)
}

// ParseParts reads a pre-split record: the street line goes through
// the grammar, while city, state and zip are validated against simple
// format rules and attached directly.
func (p *Parser) ParseParts(street, city, state, zip string) Result {
	s := newScanner(street)
	if s.done() && strings.TrimSpace(city) == "" {
		return Result{Status: Unparseable, Reason: "empty input"}
	}

	var c address.Components
	p.number(s, &c)
	p.preDirectional(s, &c)
	p.streetName(s, &c)
	p.postType(s, &c)
	p.postDirectional(s, &c)
	p.subaddress(s, &c)

	if city = strings.TrimSpace(city); city != "" {
		if canon, ok := p.vocab.Community(city); ok {
			c.Community = canon
		} else {
			c.Community = city
		}
	}
	if state = strings.TrimSpace(state); state != "" {
		if canon, ok := p.vocab.State(state); ok {
			c.State = canon
		} else {
			c.State = strings.ToUpper(state)
		}
	}
	zipInvalid := false
	if zip = strings.TrimSpace(zip); zip != "" {
		if validZIP(zip) {
			c.ZIP = zip
		} else {
			zipInvalid = true
		}
	}

	r := finish(s, c)
	if zipInvalid {
		r.Missing = append(r.Missing, MissingZIP)
		if r.Status == Complete {
			r.Status = Partial
		}
	}
	return r
}

// finish classifies the outcome once the grammar has run.
func finish(s *scanner, c address.Components) Result {
	r := Result{Address: c, Remainder: s.remainder()}
	if c.Number == "" {
		r.Missing = append(r.Missing, MissingNumber)
	}
	if c.StreetName == "" {
		r.Missing = append(r.Missing, MissingStreet)
	}
	switch {
	case c.Number == "" && c.StreetName == "":
		r.Status = Unparseable
		r.Reason = "no address structure recognized"
	case s.done() && c.Matchable():
		r.Status = Complete
	default:
		r.Status = Partial
	}
	return r
}

// number consumes a leading numeric token as the house number.  A
// trailing single letter with no separating space ("123B") becomes the
// number suffix, as does a following fraction token ("1/2", "3/4").
func (p *Parser) number(s *scanner, c *address.Components) {
	t, ok := s.peek()
	if !ok {
		return
	}
	digits, rest := splitNumber(clean(t.text))
	if digits == "" {
		return
	}
	if rest != "" && !(len(rest) == 1 && isAlpha(rest)) {
		// "123-B" or garbage glued to the number: take neither.
		return
	}
	s.next()
	c.Number = digits
	c.NumberSuffix = strings.ToUpper(rest)

	// A fraction suffix is space-delimited from the number and has a
	// slash in second position, which no street-name word does.
	if t, ok := s.peek(); ok && c.NumberSuffix == "" {
		w := clean(t.text)
		if len(w) > 2 && w[1] == '/' && isDigits(w[:1]) && isDigits(w[2:]) {
			s.next()
			c.NumberSuffix = w
		}
	}
}

// preDirectional consumes a directional before the street name,
// canonicalizing to the short form.  "North" followed by "East" or
// "West" reads as the compound NE/NW.  A directional that would leave
// no street name behind is rewound: it was the street name itself.
func (p *Parser) preDirectional(s *scanner, c *address.Components) {
	mark := s.mark()
	t, ok := s.peek()
	if !ok {
		return
	}
	canon, ok := p.vocab.Directional(clean(t.text))
	if !ok {
		return
	}
	s.next()

	if canon == "N" || canon == "S" {
		if t2, ok := s.peek(); ok {
			if second, ok := p.vocab.Directional(clean(t2.text)); ok && (second == "E" || second == "W") {
				s.next()
				canon += second
			}
		}
	}

	if s.done() {
		// "123 North" is a house on North, not a directional with no
		// street.
		s.restore(mark)
		return
	}
	c.PreDirectional = canon
}

// streetName greedily consumes words until the lookahead says the
// street name is over: a street-type suffix, a postal community, end
// of input, or a token that is not a name word.  Two stacked type
// tokens keep the first as part of the name ("Azalea Drive Cutoff"),
// unless the second is a subaddress designator, in which case the
// first really is the suffix.
func (p *Parser) streetName(s *scanner, c *address.Components) {
	var words []string
	for {
		t, ok := s.peek()
		if !ok {
			break
		}
		w := clean(t.text)
		if !isNameWord(w) {
			break
		}
		if len(words) > 0 && p.endsStreetName(s) {
			break
		}
		s.next()
		words = append(words, strings.ToUpper(w))
	}
	c.StreetName = strings.Join(words, " ")
}

// endsStreetName reports whether the token at the cursor terminates
// the street name.
func (p *Parser) endsStreetName(s *scanner) bool {
	t, _ := s.peek()
	w := clean(t.text)
	if p.isCommunityAt(s, 0) {
		return true
	}
	if _, ok := p.vocab.StreetType(w); !ok {
		return false
	}
	// Candidate suffix found.  Look past it.
	next, ok := s.peekAt(1)
	if !ok {
		return true
	}
	nw := clean(next.text)
	if _, sub := p.vocab.SubaddressType(strings.TrimPrefix(nw, "#")); sub || strings.HasPrefix(nw, "#") {
		return true
	}
	if _, stacked := p.vocab.StreetType(nw); stacked {
		// Only the last of stacked types is the suffix.
		return false
	}
	return true
}

// postType consumes a recognized street-type suffix.  Absence is not
// an error: not every street carries one.
func (p *Parser) postType(s *scanner, c *address.Components) {
	t, ok := s.peek()
	if !ok {
		return
	}
	if canon, ok := p.vocab.StreetType(clean(t.text)); ok {
		s.next()
		c.PostType = canon
	}
}

// postDirectional consumes a directional after the street type.
func (p *Parser) postDirectional(s *scanner, c *address.Components) {
	t, ok := s.peek()
	if !ok {
		return
	}
	w := clean(t.text)
	if p.isCommunityAt(s, 0) {
		return
	}
	if canon, ok := p.vocab.Directional(w); ok {
		s.next()
		c.PostDirectional = canon
	}
}

// subaddress consumes a designator (Apt, Suite, Unit, Lot or "#") and
// the identifier tokens that follow it, up to the postal community,
// state, zip or end of input.  A bare "#id" with no designator keeps
// the id and leaves the designator empty.
func (p *Parser) subaddress(s *scanner, c *address.Components) {
	t, ok := s.peek()
	if !ok {
		return
	}
	w := clean(t.text)

	switch {
	case w == "#":
		s.next()
		if canon, ok := p.vocab.SubaddressType("#"); ok {
			c.SubaddressType = canon
		}
	case strings.HasPrefix(w, "#"):
		if canon, ok := p.vocab.SubaddressType("#"); ok {
			c.SubaddressType = canon
		}
		// Identifier is glued to the symbol; leave it for the id loop.
	default:
		canon, ok := p.vocab.SubaddressType(w)
		if !ok {
			return
		}
		s.next()
		c.SubaddressType = canon
	}

	var ids []string
	for {
		t, ok := s.peek()
		if !ok {
			break
		}
		if p.isCommunityAt(s, 0) || p.isStateAt(s, 0) {
			break
		}
		w := strings.TrimLeft(clean(t.text), "#&-")
		if w == "" {
			// Bare separator symbol between identifiers.
			s.next()
			continue
		}
		if validZIP(w) || !isAlphanumeric(w) {
			break
		}
		s.next()
		ids = append(ids, strings.ToUpper(w))
	}
	c.SubaddressID = strings.Join(ids, " ")
}

// community consumes the postal community, trying the two-word form
// first so "Grants Pass" is not read as a street named Grants.
func (p *Parser) community(s *scanner, c *address.Components) {
	t, ok := s.peek()
	if !ok {
		return
	}
	if t2, ok := s.peekAt(1); ok {
		pair := clean(t.text) + " " + clean(t2.text)
		if canon, ok := p.vocab.Community(pair); ok {
			s.next()
			s.next()
			c.Community = canon
			return
		}
	}
	if canon, ok := p.vocab.Community(clean(t.text)); ok {
		s.next()
		c.Community = canon
	}
}

// state consumes a recognized state name or code.
func (p *Parser) state(s *scanner, c *address.Components) {
	t, ok := s.peek()
	if !ok {
		return
	}
	if canon, ok := p.vocab.State(clean(t.text)); ok {
		s.next()
		c.State = canon
	}
}

// zip consumes a postal code: five digits, optionally hyphenated with
// a four-digit extension.
func (p *Parser) zip(s *scanner, c *address.Components) {
	t, ok := s.peek()
	if !ok {
		return
	}
	if w := clean(t.text); validZIP(w) {
		s.next()
		c.ZIP = w
	}
}

// isCommunityAt reports whether the token n ahead starts a recognized
// postal community, checking the two-word form first.
func (p *Parser) isCommunityAt(s *scanner, n int) bool {
	t, ok := s.peekAt(n)
	if !ok {
		return false
	}
	if t2, ok := s.peekAt(n + 1); ok {
		if _, ok := p.vocab.Community(clean(t.text) + " " + clean(t2.text)); ok {
			return true
		}
	}
	_, ok = p.vocab.Community(clean(t.text))
	return ok
}

// isStateAt reports whether the token n ahead is a recognized state.
func (p *Parser) isStateAt(s *scanner, n int) bool {
	t, ok := s.peekAt(n)
	if !ok {
		return false
	}
	_, ok = p.vocab.State(clean(t.text))
	return ok
}

// validZIP accepts five digits with an optional four-digit extension.
func validZIP(s string) bool {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		return i == 5 && isDigits(s[:5]) && isDigits(s[6:]) && len(s) == 10
	}
	return len(s) == 5 && isDigits(s)
}

// isNameWord accepts street-name words: alphanumerics plus an interior
// apostrophe ("O'Brien").
func isNameWord(s string) bool {
	if s == "" {
		return false
	}
	return isAlphanumeric(strings.ReplaceAll(s, "'", ""))
}
