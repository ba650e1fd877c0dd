package transform

import (
	"github.com/ludo-technologies/autoimport/internal/directive"
	"github.com/ludo-technologies/autoimport/internal/injector"
	"github.com/ludo-technologies/autoimport/internal/patch"
)

// InsertionPoint returns where generated imports go in a markup file: after the last
// static import that ends at or before firstOccurrence, else after a leading directive,
// else 0.
func InsertionPoint(code, masked string, firstOccurrence int) int {
	if idx := injector.InsertionIndex(code, masked, firstOccurrence); idx > 0 {
		return idx
	}
	return directive.EndIndex(code)
}

// Insert places stmts at offset. Empty statements insert nothing.
func Insert(s *patch.Source, offset int, stmts string) error {
	if stmts == "" {
		return nil
	}
	if offset > 0 {
		return s.AppendRight(offset, "\n"+stmts+"\n")
	}
	s.Prepend(stmts + "\n")
	return nil
}
