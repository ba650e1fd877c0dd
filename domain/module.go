package domain

// ModuleType represents the type of module source
type ModuleType string

const (
	// ModuleTypeRelative represents relative specifiers: ./foo, ../bar
	ModuleTypeRelative ModuleType = "relative"

	// ModuleTypeAbsolute represents absolute specifiers: /foo/bar
	ModuleTypeAbsolute ModuleType = "absolute"

	// ModuleTypePackage represents package specifiers: lodash, react
	ModuleTypePackage ModuleType = "package"
)

// SourceLocation is a position in a source file
type SourceLocation struct {
	FilePath  string `json:"file_path"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// Export represents a single export statement in JavaScript/TypeScript
type Export struct {
	// ExportType is the type of export: "named", "default", "all"
	ExportType string `json:"export_type"`

	// Source is the re-export source (empty if not re-exporting)
	Source string `json:"source,omitempty"`

	// SourceType is the type of re-export source module
	SourceType ModuleType `json:"source_type,omitempty"`

	// Specifiers are the individual exported items
	Specifiers []ExportSpecifier `json:"specifiers,omitempty"`

	// Declaration is the declaration type (function, class, const, etc.)
	Declaration string `json:"declaration,omitempty"`

	// Name is the exported name
	Name string `json:"name,omitempty"`

	// IsTypeOnly indicates TypeScript type-only exports
	IsTypeOnly bool `json:"is_type_only,omitempty"`

	// Location is the source code location
	Location SourceLocation `json:"location"`
}

// ExportSpecifier represents an individual exported item
type ExportSpecifier struct {
	// Local is the local name
	Local string `json:"local"`

	// Exported is the exported name (or same as Local if no alias)
	Exported string `json:"exported"`

	// IsType indicates TypeScript type-only specifier
	IsType bool `json:"is_type,omitempty"`
}

// ModuleExports is the export surface of one file
type ModuleExports struct {
	// FilePath is the path to the analyzed file
	FilePath string `json:"file_path"`

	// Exports are all export statements in the file
	Exports []*Export `json:"exports"`
}

// ExportedNames returns the value and type names exported by the file, excluding
// "default" and star re-exports.
func (m *ModuleExports) ExportedNames() (values []string, types []string) {
	seen := make(map[string]bool)
	for _, exp := range m.Exports {
		if exp.ExportType != "named" {
			continue
		}
		for _, spec := range exp.Specifiers {
			name := spec.Exported
			if name == "" || name == DefaultExportName || seen[name] {
				continue
			}
			seen[name] = true
			if spec.IsType || exp.IsTypeOnly {
				types = append(types, name)
			} else {
				values = append(values, name)
			}
		}
	}
	return values, types
}

// HasDefaultExport reports whether the file has a default export
func (m *ModuleExports) HasDefaultExport() bool {
	for _, exp := range m.Exports {
		if exp.ExportType == "default" {
			return true
		}
		for _, spec := range exp.Specifiers {
			if spec.Exported == DefaultExportName {
				return true
			}
		}
	}
	return false
}

// StarSources returns the specifiers of `export * from` statements
func (m *ModuleExports) StarSources() []string {
	var sources []string
	for _, exp := range m.Exports {
		if exp.ExportType == "all" && exp.Source != "" && exp.Name == "" {
			sources = append(sources, exp.Source)
		}
	}
	return sources
}
