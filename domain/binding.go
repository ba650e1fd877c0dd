package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Special binding names
const (
	// DefaultExportName binds the default export of a module
	DefaultExportName = "default"

	// NamespaceExportName binds the whole module namespace
	NamespaceExportName = "*"
)

// Binding is a symbol that may be auto-imported from a module
type Binding struct {
	// Name is the exported name, "default", "*", or empty for a side-effect import
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// As is the local alias (required for "default" and "*")
	As string `json:"as,omitempty" yaml:"as,omitempty" mapstructure:"as"`

	// From is the module specifier, or an absolute path for scanned files
	From string `json:"from" yaml:"from" mapstructure:"from"`

	// Type marks type-only bindings. They are declared but never injected.
	Type bool `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`

	// Priority decides between bindings competing for the same local name
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty" mapstructure:"priority"`

	// Disabled removes the binding from the table
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`
}

// LocalName returns the name the binding introduces into the importing file
func (b Binding) LocalName() string {
	if b.As != "" {
		return b.As
	}
	return b.Name
}

// Key returns the uniqueness key of the binding
func (b Binding) Key() string {
	return b.LocalName() + "\x00" + b.From
}

// IsSideEffect reports whether the binding imports a module only for its side effects
func (b Binding) IsSideEffect() bool {
	return b.Name == ""
}

// Validate checks that the binding can be stringified
func (b Binding) Validate() error {
	if strings.TrimSpace(b.From) == "" {
		return NewInvalidInputError(fmt.Sprintf("binding %q has no module specifier", b.LocalName()), nil)
	}
	if (b.Name == DefaultExportName || b.Name == NamespaceExportName) && b.As == "" {
		return NewInvalidInputError(fmt.Sprintf("binding %q from %q requires an alias", b.Name, b.From), nil)
	}
	return nil
}

// String returns a readable form of the binding
func (b Binding) String() string {
	switch {
	case b.IsSideEffect():
		return fmt.Sprintf("'%s'", b.From)
	case b.As != "" && b.As != b.Name:
		return fmt.Sprintf("%s as %s from '%s'", b.Name, b.As, b.From)
	default:
		return fmt.Sprintf("%s from '%s'", b.Name, b.From)
	}
}

// SortBindings orders bindings by local name, then module
func SortBindings(bindings []Binding) {
	sort.SliceStable(bindings, func(i, j int) bool {
		li, lj := bindings[i].LocalName(), bindings[j].LocalName()
		if li != lj {
			return li < lj
		}
		return bindings[i].From < bindings[j].From
	})
}

// PresetImport is one entry of a preset's import list
type PresetImport struct {
	Name string `json:"name" yaml:"name"`
	As   string `json:"as,omitempty" yaml:"as,omitempty"`
	Type bool   `json:"type,omitempty" yaml:"type,omitempty"`
}

// Preset is a reusable table of bindings for a library
type Preset struct {
	// Name is the preset's registry name (empty for inline presets)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// From is the module every import of the preset comes from
	From string `json:"from,omitempty" yaml:"from,omitempty"`

	// Imports lists the exported names
	Imports []PresetImport `json:"imports,omitempty" yaml:"imports,omitempty"`

	// Package names an installed package whose exports are discovered from its typings
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// Ignore holds exact names or /regular expressions/ excluded from the preset
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// MinNameLength drops discovered names shorter than this
	MinNameLength int `json:"min_name_length,omitempty" yaml:"min_name_length,omitempty"`

	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// IsPackagePreset reports whether exports must be discovered from an installed package
func (p Preset) IsPackagePreset() bool {
	return p.Package != ""
}

// Bindings expands an inline preset into bindings
func (p Preset) Bindings() []Binding {
	bindings := make([]Binding, 0, len(p.Imports))
	for _, imp := range p.Imports {
		bindings = append(bindings, Binding{
			Name:     imp.Name,
			As:       imp.As,
			From:     p.From,
			Type:     imp.Type,
			Priority: p.Priority,
		})
	}
	return bindings
}

// ImportsMap maps a module specifier to names or [name, alias] pairs
type ImportsMap map[string][]ImportNameAlias

// ImportNameAlias is a name with an optional alias
type ImportNameAlias struct {
	Name string
	As   string
}

// Bindings flattens the map in module order
func (m ImportsMap) Bindings() []Binding {
	modules := make([]string, 0, len(m))
	for from := range m {
		modules = append(modules, from)
	}
	sort.Strings(modules)

	var bindings []Binding
	for _, from := range modules {
		for _, entry := range m[from] {
			bindings = append(bindings, Binding{Name: entry.Name, As: entry.As, From: from})
		}
	}
	return bindings
}

// PresetRef refers to a named preset or carries an inline one
type PresetRef struct {
	Name   string
	Inline *Preset
}

// ResolvedImport is a binding confirmed as referenced in a file
type ResolvedImport struct {
	Binding

	// Offset is the byte offset of the first reference in the file
	Offset int
}

// DirectiveMatch is the leading directive of a file and its exact span
type DirectiveMatch struct {
	Text   string
	Length int
}
