package transform

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/injector"
	"github.com/ludo-technologies/autoimport/internal/lexer"
)

// ExistingImportNames returns the local names bound by the static imports of code.
// Statements that cannot be parsed are skipped.
func ExistingImportNames(code string, logger *slog.Logger) map[string]struct{} {
	masked := lexer.Mask(code)
	names := make(map[string]struct{})
	for _, imp := range lexer.FindStaticImportsMasked(code, masked) {
		parsed, err := lexer.ParseStaticImport(imp, masked)
		if err != nil {
			if logger != nil {
				logger.Debug("skipping malformed import", "statement", imp.Code, "error", err)
			}
			continue
		}
		for _, name := range parsed.LocalNames() {
			names[name] = struct{}{}
		}
	}
	return names
}

// IsSelfImport reports whether from refers to filePath itself. Relative specifiers are
// resolved against the file's directory; package specifiers never match.
func IsSelfImport(from, filePath string) bool {
	if filePath == "" {
		return false
	}
	var target string
	switch {
	case filepath.IsAbs(from):
		target = filepath.Clean(from)
	case strings.HasPrefix(from, "./") || strings.HasPrefix(from, "../"):
		target = filepath.Join(filepath.Dir(filePath), from)
	default:
		return false
	}

	self, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return false
	}
	return target == self || target == strings.TrimSuffix(self, filepath.Ext(self))
}

// NewImportFilter returns a filter that drops candidates already bound by an import in
// code and candidates that would import filePath into itself.
func NewImportFilter(filePath, code string, logger *slog.Logger) injector.FilterFunc {
	existing := ExistingImportNames(code, logger)
	return func(imports []domain.ResolvedImport) []domain.ResolvedImport {
		kept := imports[:0:0]
		for _, imp := range imports {
			if _, ok := existing[imp.LocalName()]; ok {
				continue
			}
			if IsSelfImport(imp.From, filePath) {
				continue
			}
			kept = append(kept, imp)
		}
		return kept
	}
}
