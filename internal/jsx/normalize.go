// Package jsx exposes component references made through JSX tags to the identifier
// scanner, which only recognizes plain expression references.
package jsx

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Marker tags the synthetic reference statement
const Marker = "/* @autoimport-jsx-refs */"

var (
	tagRE      = regexp.MustCompile(`<([A-Z][A-Za-z0-9_$]*)[\s>/.]`)
	sentinelRE = regexp.MustCompile(`(?m)^[ \t]*;\[[^\]\n]*\][ \t]*` + regexp.QuoteMeta(Marker) + `[ \t]*\r?\n?`)
)

// IsMarkupFile reports whether path is a .jsx or .tsx file
func IsMarkupFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsx", ".tsx":
		return true
	}
	return false
}

// ComponentRefs returns the distinct PascalCase tag names in code, in order of first
// appearance. Only the leftmost segment of a member tag is returned.
func ComponentRefs(code string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, m := range tagRE.FindAllStringSubmatch(code, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
	}
	return refs
}

// Sentinel returns the statement that references names, or "" when there are none
func Sentinel(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return ";[" + strings.Join(names, ", ") + "] " + Marker + "\n"
}

// Normalize prepends a sentinel statement referencing every component tag in code.
// It returns the normalized text and the sentinel, which is empty when code has no
// component tags.
func Normalize(code string) (normalized, sentinel string) {
	sentinel = Sentinel(ComponentRefs(code))
	return sentinel + code, sentinel
}

// Strip removes a sentinel from transformed text. The exact sentinel is removed first;
// if the transform reshaped it, every line carrying the marker statement is removed.
func Strip(code, sentinel string) string {
	if sentinel == "" {
		return code
	}
	if i := strings.Index(code, sentinel); i >= 0 {
		return code[:i] + code[i+len(sentinel):]
	}
	if !strings.Contains(code, Marker) {
		return code
	}
	return sentinelRE.ReplaceAllString(code, "")
}
