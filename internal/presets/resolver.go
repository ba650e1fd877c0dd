package presets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
)

// Resolver expands preset references into bindings
type Resolver struct {
	root   string
	logger *slog.Logger
}

// NewResolver creates a resolver that looks up installed packages from root
func NewResolver(root string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{root: root, logger: logger}
}

// Resolve returns the bindings of all referenced presets in order. A package preset whose
// package is not installed is skipped with a warning.
func (r *Resolver) Resolve(ctx context.Context, refs []domain.PresetRef) ([]domain.Binding, error) {
	var bindings []domain.Binding
	for _, ref := range refs {
		groups, err := r.groups(ref)
		if err != nil {
			return nil, err
		}
		for _, preset := range groups {
			resolved, err := r.resolvePreset(ctx, preset)
			if err != nil {
				r.logger.Warn("package preset unavailable", "package", preset.Package, "error", err)
				continue
			}
			bindings = append(bindings, resolved...)
		}
	}
	return bindings, nil
}

func (r *Resolver) groups(ref domain.PresetRef) ([]domain.Preset, error) {
	if ref.Inline != nil {
		return []domain.Preset{*ref.Inline}, nil
	}
	groups, ok := Lookup(ref.Name)
	if !ok {
		return nil, domain.NewConfigError(fmt.Sprintf("unknown preset %q", ref.Name), nil)
	}
	return groups, nil
}

func (r *Resolver) resolvePreset(ctx context.Context, preset domain.Preset) ([]domain.Binding, error) {
	filter, err := newNameFilter(preset.Ignore, preset.MinNameLength)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("preset %s", preset.Name), err)
	}

	var bindings []domain.Binding
	if preset.IsPackagePreset() {
		names, err := r.packageExports(ctx, preset.Package)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			bindings = append(bindings, domain.Binding{Name: name, From: preset.Package, Priority: preset.Priority})
		}
	} else {
		bindings = preset.Bindings()
	}

	kept := bindings[:0]
	for _, b := range bindings {
		if filter.keep(b.LocalName()) {
			kept = append(kept, b)
		}
	}
	return kept, nil
}

// nameFilter drops names matching an ignore entry or shorter than a minimum length
type nameFilter struct {
	exact    map[string]struct{}
	patterns []*regexp.Regexp
	minLen   int
}

func newNameFilter(ignore []string, minLen int) (*nameFilter, error) {
	f := &nameFilter{exact: make(map[string]struct{}), minLen: minLen}
	for _, entry := range ignore {
		if len(entry) > 2 && strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/") {
			re, err := regexp.Compile(entry[1 : len(entry)-1])
			if err != nil {
				return nil, fmt.Errorf("invalid ignore pattern %s: %w", entry, err)
			}
			f.patterns = append(f.patterns, re)
			continue
		}
		f.exact[entry] = struct{}{}
	}
	return f, nil
}

func (f *nameFilter) keep(name string) bool {
	if len(name) < f.minLen {
		return false
	}
	if _, ok := f.exact[name]; ok {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}
