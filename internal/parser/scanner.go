package parser

import (
	"strings"
	"unicode"
)

// token is one whitespace-delimited word of the input, with the byte
// offset where it starts so the unparsed remainder can be reported
// verbatim.
type token struct {
	text  string
	start int
}

// scanner walks a token stream with save/restore marks, which is what
// lets the grammar back out of a speculative consume.
type scanner struct {
	raw    string
	tokens []token
	cursor int
}

func newScanner(raw string) *scanner {
	s := &scanner{raw: raw}
	start := -1
	for i, r := range raw {
		if unicode.IsSpace(r) {
			if start >= 0 {
				s.tokens = append(s.tokens, token{text: raw[start:i], start: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		s.tokens = append(s.tokens, token{text: raw[start:], start: start})
	}
	return s
}

// done reports whether all tokens are consumed.
func (s *scanner) done() bool { return s.cursor >= len(s.tokens) }

// mark saves the cursor for a later restore.
func (s *scanner) mark() int { return s.cursor }

// restore rewinds the cursor to a saved mark.
func (s *scanner) restore(mark int) { s.cursor = mark }

// peek returns the next token without consuming it.
func (s *scanner) peek() (token, bool) {
	if s.done() {
		return token{}, false
	}
	return s.tokens[s.cursor], true
}

// peekAt returns the token n positions ahead of the cursor.
func (s *scanner) peekAt(n int) (token, bool) {
	if s.cursor+n >= len(s.tokens) {
		return token{}, false
	}
	return s.tokens[s.cursor+n], true
}

// next consumes and returns the next token.
func (s *scanner) next() (token, bool) {
	t, ok := s.peek()
	if ok {
		s.cursor++
	}
	return t, ok
}

// remainder returns the unconsumed input verbatim.
func (s *scanner) remainder() string {
	if s.done() {
		return ""
	}
	return strings.TrimSpace(s.raw[s.tokens[s.cursor].start:])
}

// clean strips surrounding punctuation from a token, leaving interior
// characters (apostrophes, slashes) alone.
func clean(text string) string {
	return strings.TrimFunc(text, func(r rune) bool {
		return r == ',' || r == '.' || r == ';'
	})
}

// isAlpha reports whether the string is entirely alphabetic.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isDigits reports whether the string is entirely numeric.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isAlphanumeric reports whether the string contains only letters and
// digits.
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// splitNumber splits a leading digit run from whatever trails it:
// "123" gives ("123", ""), "123B" gives ("123", "B").
func splitNumber(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}
