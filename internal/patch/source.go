// Package patch implements a non-destructive edit buffer over an immutable source text.
// Edits are recorded against offsets of the original text and rendered on demand, so the
// original is always available for source map generation.
package patch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrOutOfRange is returned for edits outside the original text
var ErrOutOfRange = errors.New("offset out of range")

// Source is an original text plus pending insertions.
//
// At any offset, content attached with AppendLeft belongs to the text that ends there
// and is rendered before content attached with AppendRight, which belongs to the text
// that starts there.
type Source struct {
	original string
	intro    string
	left     map[int]string
	right    map[int]string
}

// New creates a Source over original
func New(original string) *Source {
	return &Source{
		original: original,
		left:     make(map[int]string),
		right:    make(map[int]string),
	}
}

// Original returns the unmodified text
func (s *Source) Original() string {
	return s.original
}

func (s *Source) check(index int) error {
	if index < 0 || index > len(s.original) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, index, len(s.original))
	}
	return nil
}

// Prepend inserts content at the very start of the output
func (s *Source) Prepend(content string) {
	s.intro = content + s.intro
}

// AppendLeft inserts content at index, after earlier left insertions at the same index
func (s *Source) AppendLeft(index int, content string) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.left[index] += content
	return nil
}

// AppendRight inserts content at index, after earlier right insertions at the same index
func (s *Source) AppendRight(index int, content string) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.right[index] += content
	return nil
}

// ExtractInsertions removes every insertion located at or before upTo and returns the
// removed content in output order.
func (s *Source) ExtractInsertions(upTo int) string {
	var sb strings.Builder
	sb.WriteString(s.intro)
	s.intro = ""
	for _, p := range s.points() {
		if p > upTo {
			break
		}
		sb.WriteString(s.left[p])
		sb.WriteString(s.right[p])
		delete(s.left, p)
		delete(s.right, p)
	}
	return sb.String()
}

// HasChanged reports whether the rendered text differs from the original
func (s *Source) HasChanged() bool {
	return s.String() != s.original
}

// String renders the edited text
func (s *Source) String() string {
	var sb strings.Builder
	s.walk(func(seg segment) {
		sb.WriteString(seg.text)
	})
	return sb.String()
}

// segment is a piece of output text. Original segments are copied verbatim from
// original[origin:].
type segment struct {
	text     string
	origin   int
	original bool
}

func (s *Source) points() []int {
	set := map[int]bool{0: true, len(s.original): true}
	for p := range s.left {
		set[p] = true
	}
	for p := range s.right {
		set[p] = true
	}
	points := make([]int, 0, len(set))
	for p := range set {
		points = append(points, p)
	}
	sort.Ints(points)
	return points
}

func (s *Source) walk(emit func(segment)) {
	emitText := func(text string) {
		if text != "" {
			emit(segment{text: text})
		}
	}

	emitText(s.intro)
	pos := 0
	for _, p := range s.points() {
		if p > pos {
			emit(segment{text: s.original[pos:p], origin: pos, original: true})
			pos = p
		}
		emitText(s.left[p])
		emitText(s.right[p])
	}
	if pos < len(s.original) {
		emit(segment{text: s.original[pos:], origin: pos, original: true})
	}
}
