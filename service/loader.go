package service

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
)

// TransformFilter matches the files bundler adapters hand to the loader
var TransformFilter = regexp.MustCompile(`\.[cm]?[jt]sx?$`)

// Loader adapts AutoImportService to bundler load hooks
type Loader struct {
	service *AutoImportService
}

// NewLoader creates a loader backed by service
func NewLoader(service *AutoImportService) *Loader {
	return &Loader{service: service}
}

// ShouldTransform reports whether a path is a script outside node_modules and not a
// declaration file
func (l *Loader) ShouldTransform(path string) bool {
	slashed := filepath.ToSlash(path)
	if strings.Contains(slashed, "/node_modules/") || strings.Contains(filepath.Base(slashed), ".d.") {
		return false
	}
	return TransformFilter.MatchString(slashed)
}

// Load transforms source and returns the new code with its source map. The map is nil
// when the file is unchanged.
func (l *Loader) Load(ctx context.Context, path, source string) (code string, mapJSON []byte, err error) {
	if !l.ShouldTransform(path) {
		return source, nil, nil
	}

	result, err := l.service.Transform(ctx, path, source)
	if err != nil {
		return "", nil, err
	}
	if !result.Changed || result.Map == nil {
		return result.Code, nil, nil
	}

	mapJSON, err = result.Map.ToJSON()
	if err != nil {
		return "", nil, domain.NewOutputError("failed to encode source map for "+path, err)
	}
	return result.Code, mapJSON, nil
}
