// Package lexer provides token-aware helpers for JavaScript/TypeScript source text:
// a comment and string mask that preserves byte offsets, and a static import scanner.
package lexer

import "strings"

// regexPrefixes are the significant bytes after which a slash starts a regular
// expression literal rather than a division. '<', ')' and '}' are left out so that
// JSX closing tags and self-closing tags are read as code.
const regexPrefixes = "(,=:[!&|?{;+-*%~^>"

var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "case": true, "do": true, "else": true,
	"in": true, "of": true, "new": true, "delete": true, "void": true,
	"throw": true, "yield": true, "await": true, "instanceof": true,
}

func isWhiteSpace(char byte) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}

// IsIdentifierChar reports whether the byte may appear inside an identifier.
// Bytes of multi-byte UTF-8 sequences are accepted.
func IsIdentifierChar(char byte) bool {
	return (char >= '0' && char <= '9') || (char >= 'A' && char <= 'Z') ||
		(char >= 'a' && char <= 'z') || char == '_' || char == '$' || char >= 0x80
}

// IsIdentifierStart reports whether the byte may start an identifier
func IsIdentifierStart(char byte) bool {
	return IsIdentifierChar(char) && !(char >= '0' && char <= '9')
}

// IsIdentifier reports whether s is a single identifier
func IsIdentifier(s string) bool {
	if s == "" || !IsIdentifierStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsIdentifierChar(s[i]) {
			return false
		}
	}
	return true
}

func blank(c byte) byte {
	if c == '\n' || c == '\r' {
		return c
	}
	return ' '
}

type masker struct {
	src []byte
	out []byte
	i   int

	// lastSig is the last non-space byte emitted as code, lastWord the last identifier
	lastSig  byte
	lastWord string

	// braces counts open braces per template expression nesting level
	braces []int
}

// Mask returns a copy of code in which comment bodies and the contents of string,
// template and regular expression literals are replaced by spaces. Quotes, template
// `${...}` expressions and newlines are kept, so every byte offset of the result
// corresponds to the same offset in code. A leading shebang line is masked as a comment.
func Mask(code string) string {
	m := &masker{src: []byte(code), out: []byte(code)}
	if strings.HasPrefix(code, "#!") {
		m.skipLineComment()
	}
	m.scanCode()
	return string(m.out)
}

func (m *masker) scanCode() {
	for m.i < len(m.src) {
		c := m.src[m.i]
		switch {
		case c == '/' && m.peek(1) == '/':
			m.skipLineComment()
		case c == '/' && m.peek(1) == '*':
			m.skipBlockComment()
		case c == '\'' || c == '"':
			m.skipString(c)
			m.lastSig, m.lastWord = c, ""
		case c == '`':
			m.i++
			if m.scanTemplate() {
				m.braces = append(m.braces, 0)
				continue
			}
			m.lastSig, m.lastWord = '`', ""
		case c == '/' && m.startsRegex():
			m.skipRegex()
			m.lastSig, m.lastWord = '/', ""
		case c == '{':
			if n := len(m.braces); n > 0 {
				m.braces[n-1]++
			}
			m.i++
			m.lastSig, m.lastWord = c, ""
		case c == '}':
			m.i++
			if n := len(m.braces); n > 0 {
				if m.braces[n-1] == 0 {
					m.braces = m.braces[:n-1]
					if m.scanTemplate() {
						m.braces = append(m.braces, 0)
					}
					m.lastSig, m.lastWord = '`', ""
					continue
				}
				m.braces[n-1]--
			}
			m.lastSig, m.lastWord = c, ""
		case IsIdentifierStart(c):
			start := m.i
			for m.i < len(m.src) && IsIdentifierChar(m.src[m.i]) {
				m.i++
			}
			m.lastSig, m.lastWord = m.src[m.i-1], string(m.src[start:m.i])
		case isWhiteSpace(c):
			m.i++
		default:
			m.i++
			m.lastSig, m.lastWord = c, ""
		}
	}
}

func (m *masker) peek(n int) byte {
	if m.i+n < len(m.src) {
		return m.src[m.i+n]
	}
	return 0
}

func (m *masker) skipLineComment() {
	for m.i < len(m.src) && m.src[m.i] != '\n' {
		m.out[m.i] = ' '
		m.i++
	}
}

func (m *masker) skipBlockComment() {
	start := m.i
	end := strings.Index(string(m.src[m.i+2:]), "*/")
	stop := len(m.src)
	if end >= 0 {
		stop = m.i + 2 + end + 2
	}
	for j := start; j < stop; j++ {
		m.out[j] = blank(m.src[j])
	}
	m.i = stop
}

// skipString masks a quoted string. Unterminated strings end at the line break.
func (m *masker) skipString(quote byte) {
	m.i++
	for m.i < len(m.src) {
		c := m.src[m.i]
		switch {
		case c == '\\' && m.i+1 < len(m.src):
			m.out[m.i] = ' '
			m.out[m.i+1] = blank(m.src[m.i+1])
			m.i += 2
		case c == quote:
			m.i++
			return
		case c == '\n':
			return
		default:
			m.out[m.i] = ' '
			m.i++
		}
	}
}

// scanTemplate masks template text up to the closing backtick or the next `${`.
// It returns true when it stopped at an expression.
func (m *masker) scanTemplate() bool {
	for m.i < len(m.src) {
		c := m.src[m.i]
		switch {
		case c == '\\' && m.i+1 < len(m.src):
			m.out[m.i] = ' '
			m.out[m.i+1] = blank(m.src[m.i+1])
			m.i += 2
		case c == '`':
			m.i++
			return false
		case c == '$' && m.peek(1) == '{':
			m.i += 2
			m.lastSig, m.lastWord = '{', ""
			return true
		default:
			m.out[m.i] = blank(c)
			m.i++
		}
	}
	return false
}

func (m *masker) startsRegex() bool {
	if m.lastSig == 0 {
		return true
	}
	if m.lastWord != "" {
		return regexKeywords[m.lastWord]
	}
	return strings.IndexByte(regexPrefixes, m.lastSig) >= 0
}

// skipRegex masks a regular expression body, keeping the delimiting slashes
func (m *masker) skipRegex() {
	m.i++
	inClass := false
	for m.i < len(m.src) {
		c := m.src[m.i]
		switch {
		case c == '\n':
			return
		case c == '\\' && m.i+1 < len(m.src) && m.src[m.i+1] != '\n':
			m.out[m.i] = ' '
			m.out[m.i+1] = ' '
			m.i += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			m.i++
			return
		}
		m.out[m.i] = ' '
		m.i++
	}
}
