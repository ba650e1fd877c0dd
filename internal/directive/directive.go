// Package directive keeps a leading 'use client' / 'use server' / 'use strict'
// directive at the top of a file after imports have been inserted.
package directive

import (
	"regexp"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/patch"
)

// Leading whitespace includes a byte-order mark.
var directiveRE = regexp.MustCompile(`^[\s\x{FEFF}]*['"]use\s+(?:client|server|strict)['"]\s*;?\s*`)

// Match returns the directive at the start of text, including surrounding whitespace
func Match(text string) (domain.DirectiveMatch, bool) {
	m := directiveRE.FindString(text)
	if m == "" {
		return domain.DirectiveMatch{}, false
	}
	return domain.DirectiveMatch{Text: m, Length: len(m)}, true
}

// EndIndex returns the offset after the leading directive, or 0 when there is none
func EndIndex(text string) int {
	m, _ := Match(text)
	return m.Length
}

func separator(m domain.DirectiveMatch) string {
	if strings.HasSuffix(m.Text, "\n") {
		return "\n"
	}
	return "\n\n"
}

// Apply moves import statements inserted at the start of the file behind the leading
// directive. The directive keeps its original bytes so the generated source map stays
// exact. It reports whether anything was moved.
func Apply(s *patch.Source) (bool, error) {
	m, ok := Match(s.Original())
	if !ok {
		return false, nil
	}
	lead := s.ExtractInsertions(0)
	trimmed := strings.TrimSpace(lead)
	if trimmed == "" || !strings.HasPrefix(trimmed, "import") {
		s.Prepend(lead)
		return false, nil
	}
	if err := s.AppendRight(m.Length, separator(m)+trimmed+"\n\n"); err != nil {
		return false, err
	}
	return true, nil
}
