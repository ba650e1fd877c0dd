// Package presets holds the built-in binding tables for popular libraries and resolves
// preset references from configuration into bindings.
package presets

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/ludo-technologies/autoimport/domain"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var tablesYAML []byte

var (
	loadOnce sync.Once
	tables   map[string][]domain.Preset
	loadErr  error
)

// importEntry decodes a preset import written as `name`, `[name, alias]` or
// `{name, as, type}`.
type importEntry domain.PresetImport

// UnmarshalYAML implements yaml.Unmarshaler
func (e *importEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Name = node.Value
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) == 0 || len(pair) > 2 {
			return fmt.Errorf("line %d: import pair must be [name] or [name, alias]", node.Line)
		}
		e.Name = pair[0]
		if len(pair) == 2 {
			e.As = pair[1]
		}
	case yaml.MappingNode:
		var m struct {
			Name string `yaml:"name"`
			As   string `yaml:"as"`
			Type bool   `yaml:"type"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		e.Name, e.As, e.Type = m.Name, m.As, m.Type
	default:
		return fmt.Errorf("line %d: unsupported import entry", node.Line)
	}
	return nil
}

type presetEntry struct {
	From          string        `yaml:"from"`
	Imports       []importEntry `yaml:"imports"`
	Package       string        `yaml:"package"`
	Ignore        []string      `yaml:"ignore"`
	MinNameLength int           `yaml:"min_name_length"`
	Priority      int           `yaml:"priority"`
}

func (p presetEntry) toPreset(name string) domain.Preset {
	preset := domain.Preset{
		Name:          name,
		From:          p.From,
		Package:       p.Package,
		Ignore:        p.Ignore,
		MinNameLength: p.MinNameLength,
		Priority:      p.Priority,
	}
	for _, imp := range p.Imports {
		preset.Imports = append(preset.Imports, domain.PresetImport(imp))
	}
	return preset
}

func (p presetEntry) validate() error {
	if p.Package == "" && p.From == "" {
		return fmt.Errorf("preset needs either from or package")
	}
	if p.Package != "" && len(p.Imports) > 0 {
		return fmt.Errorf("package preset %q cannot list imports", p.Package)
	}
	return nil
}

func builtin() (map[string][]domain.Preset, error) {
	loadOnce.Do(func() {
		var raw map[string][]presetEntry
		if err := yaml.Unmarshal(tablesYAML, &raw); err != nil {
			loadErr = fmt.Errorf("failed to decode built-in presets: %w", err)
			return
		}
		tables = make(map[string][]domain.Preset, len(raw))
		for name, entries := range raw {
			for _, entry := range entries {
				if err := entry.validate(); err != nil {
					loadErr = fmt.Errorf("built-in preset %s: %w", name, err)
					return
				}
				tables[name] = append(tables[name], entry.toPreset(name))
			}
		}
	})
	return tables, loadErr
}

// Names returns the sorted names of the built-in presets
func Names() []string {
	t, err := builtin()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the import groups of a built-in preset
func Lookup(name string) ([]domain.Preset, bool) {
	t, err := builtin()
	if err != nil {
		return nil, false
	}
	groups, ok := t[name]
	return groups, ok
}

// Decode converts a configuration value into an inline preset. The value has the
// shape of a built-in table entry: {from, imports} or {package, ignore}.
func Decode(raw any) (domain.Preset, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return domain.Preset{}, err
	}
	var entry presetEntry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return domain.Preset{}, err
	}
	if err := entry.validate(); err != nil {
		return domain.Preset{}, err
	}
	return entry.toPreset(""), nil
}

// DecodeImports converts a configuration value into import entries
func DecodeImports(raw any) ([]domain.PresetImport, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var entries []importEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	imports := make([]domain.PresetImport, 0, len(entries))
	for _, e := range entries {
		imports = append(imports, domain.PresetImport(e))
	}
	return imports, nil
}

// ParseRef converts a configuration value into a preset reference: a string names a
// built-in preset, a mapping is an inline preset.
func ParseRef(raw any) (domain.PresetRef, error) {
	if name, ok := raw.(string); ok {
		if _, found := Lookup(name); !found {
			return domain.PresetRef{}, domain.NewConfigError(fmt.Sprintf("unknown preset %q", name), nil)
		}
		return domain.PresetRef{Name: name}, nil
	}
	preset, err := Decode(raw)
	if err != nil {
		return domain.PresetRef{}, domain.NewConfigError("invalid inline preset", err)
	}
	return domain.PresetRef{Inline: &preset}, nil
}
