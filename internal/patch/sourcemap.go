package patch

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ludo-technologies/autoimport/domain"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// MapOptions controls source map generation
type MapOptions struct {
	// Source is the name recorded in "sources"
	Source string

	// File is the name of the generated file
	File string

	// IncludeContent embeds the original text in "sourcesContent"
	IncludeContent bool

	// Hires maps every character instead of chunk and line starts
	Hires bool
}

type mapping struct {
	genCol  int
	srcLine int
	srcCol  int
}

// GenerateMap builds a Source Map v3 for the rendered text. Columns are counted in
// UTF-16 code units. Inserted text is unmapped.
func (s *Source) GenerateMap(opts MapOptions) *domain.SourceMap {
	lineStarts := lineOffsets(s.original)
	lines := [][]mapping{nil}
	genCol := 0

	advance := func(text string) {
		for _, r := range text {
			if r == '\n' {
				lines = append(lines, nil)
				genCol = 0
				continue
			}
			genCol += utf16Len(r)
		}
	}

	s.walk(func(seg segment) {
		if !seg.original {
			advance(seg.text)
			return
		}

		srcLine, srcCol := position(s.original, lineStarts, seg.origin)

		atStart := true
		for _, r := range seg.text {
			if r == '\n' {
				lines = append(lines, nil)
				genCol = 0
				srcLine++
				srcCol = 0
				atStart = true
				continue
			}
			if opts.Hires || atStart {
				cur := len(lines) - 1
				lines[cur] = append(lines[cur], mapping{genCol: genCol, srcLine: srcLine, srcCol: srcCol})
				atStart = false
			}
			n := utf16Len(r)
			genCol += n
			srcCol += n
		}
	})

	m := &domain.SourceMap{
		Version:  3,
		File:     opts.File,
		Sources:  []string{opts.Source},
		Names:    []string{},
		Mappings: encodeMappings(lines),
	}
	if opts.IncludeContent {
		m.SourcesContent = []string{s.original}
	}
	return m
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// position converts a byte offset into a zero-based line and UTF-16 column
func position(text string, lineStarts []int, offset int) (int, int) {
	line := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > offset }) - 1
	col := 0
	for rest := text[lineStarts[line]:offset]; rest != ""; {
		r, size := utf8.DecodeRuneInString(rest)
		col += utf16Len(r)
		rest = rest[size:]
	}
	return line, col
}

func encodeMappings(lines [][]mapping) string {
	var sb strings.Builder
	prevSrcLine, prevSrcCol := 0, 0
	for i, segments := range lines {
		if i > 0 {
			sb.WriteByte(';')
		}
		prevGenCol := 0
		for j, m := range segments {
			if j > 0 {
				sb.WriteByte(',')
			}
			encodeVLQ(&sb, m.genCol-prevGenCol)
			encodeVLQ(&sb, 0)
			encodeVLQ(&sb, m.srcLine-prevSrcLine)
			encodeVLQ(&sb, m.srcCol-prevSrcCol)
			prevGenCol, prevSrcLine, prevSrcCol = m.genCol, m.srcLine, m.srcCol
		}
	}
	return sb.String()
}

func encodeVLQ(sb *strings.Builder, value int) {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq > 0 {
			digit |= 32
		}
		sb.WriteByte(base64Chars[digit])
		if vlq == 0 {
			return
		}
	}
}
