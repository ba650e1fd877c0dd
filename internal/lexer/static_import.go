package lexer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedImport is returned for import statements whose clause cannot be parsed
var ErrMalformedImport = errors.New("malformed import statement")

// StaticImport is a static `import ... from '...'` or `import '...'` statement
type StaticImport struct {
	// Start is the offset of the import keyword
	Start int

	// End is the offset after the statement, including trailing whitespace and semicolons
	End int

	// Code is the statement text
	Code string

	// Specifier is the module specifier
	Specifier string

	// TypeOnly is set for `import type ...`
	TypeOnly bool

	clauseStart int
	clauseEnd   int
}

// ParsedImport is a static import with its bindings resolved
type ParsedImport struct {
	StaticImport

	// DefaultImport is the local name of the default import
	DefaultImport string

	// NamespacedImport is the local name of a `* as` import
	NamespacedImport string

	// NamedImports maps imported names to local names
	NamedImports map[string]string
}

// LocalNames returns every local name bound by the import
func (p *ParsedImport) LocalNames() []string {
	var names []string
	if p.DefaultImport != "" {
		names = append(names, p.DefaultImport)
	}
	if p.NamespacedImport != "" {
		names = append(names, p.NamespacedImport)
	}
	for _, local := range p.NamedImports {
		names = append(names, local)
	}
	return names
}

func isClauseChar(c byte) bool {
	return IsIdentifierChar(c) || isWhiteSpace(c) || strings.IndexByte("*,{}/@.", c) >= 0
}

// FindStaticImports returns the static import statements of code in source order.
// Statements inside comments and strings are ignored.
func FindStaticImports(code string) []StaticImport {
	return FindStaticImportsMasked(code, Mask(code))
}

// FindStaticImportsMasked is FindStaticImports for callers that already hold the mask
func FindStaticImportsMasked(code, masked string) []StaticImport {
	var imports []StaticImport
	offset := 0
	for {
		idx := strings.Index(masked[offset:], "import")
		if idx < 0 {
			break
		}
		start := offset + idx
		offset = start + len("import")
		if imp, ok := scanStaticImport(code, masked, start); ok {
			imports = append(imports, imp)
			offset = imp.End
		}
	}
	return imports
}

func scanStaticImport(code, masked string, start int) (StaticImport, bool) {
	if start > 0 {
		prev := masked[start-1]
		if !isWhiteSpace(prev) && prev != ';' && prev != '}' {
			return StaticImport{}, false
		}
	}
	i := start + len("import")
	if i >= len(masked) {
		return StaticImport{}, false
	}
	next := masked[i]
	if !isWhiteSpace(next) && next != '{' && next != '*' && next != '\'' && next != '"' {
		return StaticImport{}, false
	}

	for i < len(masked) && isWhiteSpace(masked[i]) {
		i++
	}
	imp := StaticImport{Start: start}

	if i < len(masked) && masked[i] != '\'' && masked[i] != '"' {
		clauseStart := i
		for i < len(masked) && isClauseChar(masked[i]) {
			i++
		}
		if i >= len(masked) || (masked[i] != '\'' && masked[i] != '"') {
			return StaticImport{}, false
		}
		clause := strings.TrimRight(masked[clauseStart:i], " \t\r\n")
		if !strings.HasSuffix(clause, "from") {
			return StaticImport{}, false
		}
		fromAt := clauseStart + len(clause) - len("from")
		if fromAt == clauseStart || IsIdentifierChar(masked[fromAt-1]) {
			return StaticImport{}, false
		}
		imp.clauseStart = clauseStart
		imp.clauseEnd = fromAt
	}

	if i >= len(masked) {
		return StaticImport{}, false
	}
	quote := masked[i]
	closing := strings.IndexByte(masked[i+1:], quote)
	if closing < 0 {
		return StaticImport{}, false
	}
	specEnd := i + 1 + closing
	if strings.ContainsAny(code[i+1:specEnd], "\n") {
		return StaticImport{}, false
	}
	imp.Specifier = strings.TrimSpace(code[i+1 : specEnd])
	if imp.Specifier == "" {
		return StaticImport{}, false
	}

	end := specEnd + 1
	for end < len(masked) && (isWhiteSpace(masked[end]) || masked[end] == ';') {
		end++
	}
	imp.End = end
	imp.Code = code[start:end]

	if imp.clauseEnd > imp.clauseStart {
		clause := strings.TrimSpace(masked[imp.clauseStart:imp.clauseEnd])
		if rest, ok := strings.CutPrefix(clause, "type"); ok && rest != "" && isWhiteSpace(rest[0]) {
			if strings.TrimSpace(rest) != "" {
				imp.TypeOnly = true
			}
		}
	}
	return imp, true
}

// clause returns the masked text between `import` and `from`, or "" for side-effect imports
func (s StaticImport) clause(masked string) string {
	if s.clauseEnd <= s.clauseStart {
		return ""
	}
	return masked[s.clauseStart:s.clauseEnd]
}

// ParseStaticImport resolves the bindings of a static import. The masked text must be
// the mask of the text the import was found in.
func ParseStaticImport(imp StaticImport, masked string) (*ParsedImport, error) {
	parsed := &ParsedImport{StaticImport: imp, NamedImports: make(map[string]string)}
	clause := strings.TrimSpace(imp.clause(masked))
	if clause == "" {
		return parsed, nil
	}
	if imp.TypeOnly {
		clause = strings.TrimSpace(strings.TrimPrefix(clause, "type"))
	}

	p := &clauseParser{s: clause}
	if p.peek() != '{' && p.peek() != '*' {
		name := p.identifier()
		if name == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedImport, imp.Code)
		}
		parsed.DefaultImport = name
		p.skipSpaces()
		if p.done() {
			return parsed, nil
		}
		if p.peek() != ',' {
			return nil, fmt.Errorf("%w: %q", ErrMalformedImport, imp.Code)
		}
		p.pos++
		p.skipSpaces()
	}

	switch p.peek() {
	case '*':
		p.pos++
		p.skipSpaces()
		if p.identifier() != "as" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedImport, imp.Code)
		}
		p.skipSpaces()
		parsed.NamespacedImport = p.identifier()
		if parsed.NamespacedImport == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedImport, imp.Code)
		}
	case '{':
		p.pos++
		if err := p.namedImports(parsed.NamedImports); err != nil {
			return nil, fmt.Errorf("%w: %q", err, imp.Code)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrMalformedImport, imp.Code)
	}

	p.skipSpaces()
	if !p.done() {
		return nil, fmt.Errorf("%w: %q", ErrMalformedImport, imp.Code)
	}
	return parsed, nil
}

type clauseParser struct {
	s   string
	pos int
}

func (p *clauseParser) done() bool {
	return p.pos >= len(p.s)
}

func (p *clauseParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *clauseParser) skipSpaces() {
	for !p.done() && isWhiteSpace(p.s[p.pos]) {
		p.pos++
	}
}

func (p *clauseParser) identifier() string {
	p.skipSpaces()
	start := p.pos
	if p.done() || !IsIdentifierStart(p.s[p.pos]) {
		return ""
	}
	for !p.done() && IsIdentifierChar(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

// namedImports parses `a, b as c, type D }` after the opening brace
func (p *clauseParser) namedImports(into map[string]string) error {
	for {
		p.skipSpaces()
		if p.peek() == '}' {
			p.pos++
			return nil
		}
		imported := p.identifier()
		if imported == "" {
			return ErrMalformedImport
		}
		local := imported
		next := p.identifier()
		if imported == "type" && next != "" && next != "as" {
			imported, local = next, next
			next = p.identifier()
		}
		if next == "as" {
			local = p.identifier()
			if local == "" {
				return ErrMalformedImport
			}
		} else if next != "" {
			return ErrMalformedImport
		}
		into[imported] = local

		p.skipSpaces()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return nil
		default:
			return ErrMalformedImport
		}
	}
}
