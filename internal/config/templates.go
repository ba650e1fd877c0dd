package config

import (
	"sort"
	"strings"
)

// Framework represents the UI framework a project is built with
type Framework string

const (
	FrameworkGeneric Framework = "generic"
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkSolid   Framework = "solid"
	FrameworkSvelte  Framework = "svelte"
	FrameworkPreact  Framework = "preact"
)

// FrameworkPreset holds the starting configuration for a framework
type FrameworkPreset struct {
	Presets []string
	Dirs    []string
}

// GetFrameworkPresets returns presets for different frameworks
func GetFrameworkPresets() map[Framework]FrameworkPreset {
	return map[Framework]FrameworkPreset{
		FrameworkGeneric: {
			Dirs: []string{"src/utils"},
		},
		FrameworkReact: {
			Presets: []string{"react", "react-dom"},
			Dirs:    []string{"src/hooks", "src/components/**"},
		},
		FrameworkVue: {
			Presets: []string{"vue", "vue-router", "pinia"},
			Dirs:    []string{"src/composables", "src/stores"},
		},
		FrameworkSolid: {
			Presets: []string{"solid"},
			Dirs:    []string{"src/primitives"},
		},
		FrameworkSvelte: {
			Presets: []string{"svelte"},
			Dirs:    []string{"src/lib"},
		},
		FrameworkPreact: {
			Presets: []string{"preact"},
			Dirs:    []string{"src/hooks"},
		},
	}
}

// Frameworks returns the known framework names in sorted order
func Frameworks() []string {
	names := make([]string, 0, len(GetFrameworkPresets()))
	for f := range GetFrameworkPresets() {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// GetFullConfigTemplate returns the documented config template as YAML. Extra presets are
// appended after the framework's own.
func GetFullConfigTemplate(framework Framework, extraPresets []string, dts bool) string {
	preset := GetFrameworkPresets()[framework]

	presetNames := append([]string{}, preset.Presets...)
	for _, p := range extraPresets {
		if !contains(presetNames, p) {
			presetNames = append(presetNames, p)
		}
	}

	dtsValue := "false"
	if dts {
		dtsValue = "true"
	}

	return `# autoimport configuration
# Documentation: https://github.com/ludo-technologies/autoimport

# Built-in presets. Run "autoimport presets" for the full list.
presets:` + formatYAMLList(presetNames, "  ") + `

# Explicit bindings. Three shapes are accepted:
#   - { name: ref, from: vue }                     single binding
#   - { name: default, as: axios, from: axios }    default export under a local name
#   - { from: lodash-es, imports: [debounce] }     several names from one module
imports: []

# Directories whose exports become bindings. "dir/**" scans recursively.
dirs:` + formatYAMLList(preset.Dirs, "  ") + `

# Generate auto-imports.d.ts (true), a named declaration file ("types/auto-imports.d.ts"),
# or nothing (false)
dts: ` + dtsValue + `

# Names that are never injected
ignore: []

# Log level: debug, info, warn, error, silent
log_level: info

# Base directory for dirs, dts and node_modules lookup
root: .

transform:
  # File patterns to transform
  include:` + formatYAMLList(DefaultConfig().Transform.Include, "    ") + `

  # File or directory patterns to skip
  exclude:` + formatYAMLList(DefaultConfig().Transform.Exclude, "    ") + `

  # Number of parallel workers (0 = auto-detect based on CPU)
  concurrency: 0
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# autoimport configuration (minimal)
presets:
  - react
dirs:
  - src/hooks
dts: true
`
}

// formatYAMLList formats a string slice as a YAML block sequence, or [] when empty
func formatYAMLList(items []string, indent string) string {
	if len(items) == 0 {
		return " []"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("- ")
		b.WriteString(quoteYAML(item))
	}
	return b.String()
}

// quoteYAML quotes values YAML would otherwise misread
func quoteYAML(s string) string {
	if strings.ContainsAny(s, "*:#@{}[],&!|>'\"%`") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
