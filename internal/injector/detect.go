package injector

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/lexer"
)

// Declarations whose names are local to the file and must not be imported
var excludeRE = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\b(import|export)\b([\s\w$*{},]+)\sfrom\b`),
	regexp.MustCompile(`(?s)\bfunction\s*([\w$]+?)\s*\(`),
	regexp.MustCompile(`(?s)\bclass\s*([\w$]+?)\s*\{`),
	regexp.MustCompile(`(?s)\b(?:const|let|var)\s+?(\[.*?\]|\{.*?\}|.+?)\s*?[=;\n]`),
}

var (
	separatorRE = regexp.MustCompile(`[,[\]{}\n]|\b(?:import|export)\b`)
	importAsRE  = regexp.MustCompile(`^.*\sas\s+`)

	esmRE = regexp.MustCompile(`(?m)(?:[\s;]|^)(?:import[\s\w*,{}]*from|import\s*["'*{]|export\b\s*(?:[*{]|default|class|type|function|const|var|let|async function)|import\.meta\b)`)
	cjsRE = regexp.MustCompile(`(?m)(?:[\s;]|^)(?:module\.exports\b|exports\.\w|require\s*\(|global\.\w)`)
)

// Detection is the result of scanning a file for references to known bindings
type Detection struct {
	// Matched are the referenced bindings ordered by first reference
	Matched []domain.ResolvedImport

	// FirstOccurrence is the offset of the earliest reference, or -1
	FirstOccurrence int

	// CJS is set for CommonJS files without ESM syntax
	CJS bool

	// Masked is the comment and string mask the scan ran on
	Masked string
}

// Detect scans code for references to the registry's injectable bindings
func (r *Registry) Detect(code string) *Detection {
	masked := lexer.Mask(code)
	det := &Detection{
		FirstOccurrence: -1,
		CJS:             IsCJSContext(masked),
		Masked:          masked,
	}

	occurrences := referencedIdentifiers(masked)
	for _, name := range declaredIdentifiers(masked) {
		delete(occurrences, name)
	}

	for name, offset := range occurrences {
		b, ok := r.Lookup(name)
		if !ok {
			continue
		}
		det.Matched = append(det.Matched, domain.ResolvedImport{Binding: b, Offset: offset})
		if det.FirstOccurrence < 0 || offset < det.FirstOccurrence {
			det.FirstOccurrence = offset
		}
	}
	sort.Slice(det.Matched, func(i, j int) bool {
		return det.Matched[i].Offset < det.Matched[j].Offset
	})
	return det
}

// IsCJSContext reports whether masked code uses CommonJS and no ESM syntax
func IsCJSContext(masked string) bool {
	return cjsRE.MatchString(masked) && !esmRE.MatchString(masked)
}

// referencedIdentifiers returns identifiers used as values, mapped to the offset of
// their first use. Property accesses and object keys are skipped.
func referencedIdentifiers(masked string) map[string]int {
	found := make(map[string]int)
	for i := 0; i < len(masked); {
		c := masked[i]
		if !lexer.IsIdentifierStart(c) || (i > 0 && lexer.IsIdentifierChar(masked[i-1])) {
			i++
			continue
		}
		start := i
		for i < len(masked) && lexer.IsIdentifierChar(masked[i]) {
			i++
		}
		name := masked[start:i]

		prefix, ok := referencePrefix(masked, start)
		if !ok || prefix == "." {
			continue
		}
		next, ok := referenceSuffix(masked, start, i)
		if !ok {
			continue
		}
		if next == ':' {
			trimmed := strings.TrimSpace(prefix)
			before := byte(0)
			if prefix != "" {
				before = prefix[len(prefix)-1]
			}
			if trimmed != "?" && trimmed != "case" && before != ':' {
				continue
			}
		}
		if _, seen := found[name]; !seen {
			found[name] = start
		}
	}
	return found
}

// referencePrefix returns the text that qualifies the identifier at start as a
// reference: start of text, a spread, `case `/`? `, `extends `, or a single byte that
// is not a word character, '$', '/' or ')'.
func referencePrefix(masked string, start int) (string, bool) {
	if start == 0 {
		return "", true
	}
	if start >= 3 && masked[start-3:start] == "..." {
		return "...", true
	}

	ws := start
	for ws > 0 && isSpace(masked[ws-1]) {
		ws--
	}
	if ws < start {
		head := masked[:ws]
		switch {
		case strings.HasSuffix(head, "?"):
			return masked[ws-1 : start], true
		case hasWordSuffix(head, "case"):
			return masked[ws-4 : start], true
		case hasWordSuffix(head, "extends"):
			return masked[ws-7 : start], true
		}
	}

	prev := masked[start-1]
	if isWordChar(prev) || prev == '$' || prev == '/' || prev == ')' {
		return "", false
	}
	return string(prev), true
}

// referenceSuffix checks what follows the identifier and returns the next significant
// byte (0 at end of text or before a newline or keyword).
func referenceSuffix(masked string, start, end int) (byte, bool) {
	j := end
	sawNewline := false
	for j < len(masked) && isSpace(masked[j]) {
		if masked[j] == '\n' {
			sawNewline = true
		}
		j++
	}
	if j >= len(masked) {
		return 0, true
	}
	next := masked[j]
	if strings.IndexByte(".()[]}:;?+-*&|`<>,", next) >= 0 {
		return next, true
	}
	if sawNewline {
		return '\n', true
	}
	if hasWordAt(masked, j, "instanceof") || hasWordAt(masked, j, "in") {
		return 0, true
	}
	if next == '{' && j > end && hasWordSuffix(strings.TrimRight(masked[:start], " \t\r\n"), "extends") {
		return next, true
	}
	return 0, false
}

// declaredIdentifiers returns names bound by imports, exports, function, class and
// variable declarations in the file.
func declaredIdentifiers(masked string) []string {
	var names []string
	for _, re := range excludeRE {
		for _, m := range re.FindAllStringSubmatch(masked, -1) {
			for _, group := range m[1:] {
				for _, segment := range separatorRE.Split(group, -1) {
					name := strings.TrimSpace(importAsRE.ReplaceAllString(segment, ""))
					if name != "" {
						names = append(names, name)
					}
				}
			}
		}
	}
	return names
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isWordChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func hasWordSuffix(s, word string) bool {
	if !strings.HasSuffix(s, word) {
		return false
	}
	i := len(s) - len(word)
	return i == 0 || !isWordChar(s[i-1])
}

func hasWordAt(s string, i int, word string) bool {
	if !strings.HasPrefix(s[i:], word) {
		return false
	}
	end := i + len(word)
	return end >= len(s) || !isWordChar(s[end])
}
