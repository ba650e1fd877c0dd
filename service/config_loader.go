package service

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/config"
	"github.com/ludo-technologies/autoimport/internal/logging"
	"github.com/ludo-technologies/autoimport/internal/presets"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.LoaderOptions, error) {
	opts, _, err := c.Load(path, "")
	return opts, err
}

// Load loads the configuration for targetPath, or from configPath when given, and returns
// the loader options together with the batch defaults of the file.
func (c *ConfigurationLoaderImpl) Load(configPath, targetPath string) (*domain.LoaderOptions, *domain.BatchOptions, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, targetPath)
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to load configuration file", err)
	}

	opts, err := c.convertToLoaderOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := c.ValidateOptions(opts); err != nil {
		return nil, nil, domain.NewConfigError("invalid configuration", err)
	}
	return opts, c.convertToBatchOptions(cfg), nil
}

// LoadDefaultConfig loads the discovered configuration, falling back to defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.LoaderOptions {
	if opts, _, err := c.Load("", ""); err == nil {
		return opts
	}

	// Fall back to hardcoded default configuration
	opts, _ := c.convertToLoaderOptions(config.DefaultConfig())
	return opts
}

// FindDefaultConfigFile searches for a default configuration file from the current
// directory upward
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	return config.FindDefaultConfig(".")
}

// MergeBatchOptions merges CLI flags with the batch settings of the configuration file
func (c *ConfigurationLoaderImpl) MergeBatchOptions(base *domain.BatchOptions, override *domain.BatchOptions) *domain.BatchOptions {
	merged := *base

	// Paths always come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if len(override.Include) > 0 {
		merged.Include = override.Include
	}
	if len(override.Exclude) > 0 {
		merged.Exclude = append(append([]string{}, base.Exclude...), override.Exclude...)
	}
	if override.Concurrency > 0 {
		merged.Concurrency = override.Concurrency
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}

	merged.OutDir = override.OutDir
	merged.Write = override.Write
	merged.Check = override.Check
	merged.Diff = override.Diff
	merged.SourceMaps = override.SourceMaps

	return &merged
}

// convertToLoaderOptions converts a Config to LoaderOptions
func (c *ConfigurationLoaderImpl) convertToLoaderOptions(cfg *config.Config) (*domain.LoaderOptions, error) {
	bindings, maps, err := convertImports(cfg.Imports)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.PresetRef, 0, len(cfg.Presets))
	for _, raw := range cfg.Presets {
		ref, err := presets.ParseRef(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	enabled, filename := cfg.DtsSettings()

	return &domain.LoaderOptions{
		Imports:     bindings,
		ImportsMaps: maps,
		Dirs:        cfg.Dirs,
		Presets:     refs,
		Ignore:      cfg.Ignore,
		Dts:         domain.DtsOptions{Enabled: enabled, Filename: filename},
		LogLevel:    cfg.LogLevel,
		Root:        cfg.Root,
	}, nil
}

// convertToBatchOptions converts the transform section of a Config to BatchOptions
func (c *ConfigurationLoaderImpl) convertToBatchOptions(cfg *config.Config) *domain.BatchOptions {
	return &domain.BatchOptions{
		// Paths are set by the caller, not from config
		Paths:       []string{},
		Include:     cfg.Transform.Include,
		Exclude:     cfg.Transform.Exclude,
		Concurrency: cfg.Transform.Concurrency,
	}
}

// convertImports splits configured import entries into explicit bindings and
// module-keyed tables. Entries with `imports` are inline presets, entries with `from`
// are single bindings, anything else maps module names to import lists.
func convertImports(entries []any) ([]domain.Binding, []domain.ImportsMap, error) {
	var bindings []domain.Binding
	var maps []domain.ImportsMap

	for i, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, nil, domain.NewConfigError(fmt.Sprintf("imports[%d] must be a mapping, got %T", i, entry), nil)
		}

		if _, ok := m["imports"]; ok {
			preset, err := presets.Decode(m)
			if err != nil {
				return nil, nil, domain.NewConfigError(fmt.Sprintf("imports[%d] is not a valid import group", i), err)
			}
			bindings = append(bindings, preset.Bindings()...)
			continue
		}

		if _, ok := m["from"]; ok {
			b, err := decodeBinding(m)
			if err != nil {
				return nil, nil, domain.NewConfigError(fmt.Sprintf("imports[%d] is not a valid binding", i), err)
			}
			bindings = append(bindings, b)
			continue
		}

		table := make(domain.ImportsMap, len(m))
		for from, raw := range m {
			imports, err := presets.DecodeImports(raw)
			if err != nil {
				return nil, nil, domain.NewConfigError(fmt.Sprintf("imports[%d].%s is not a valid import list", i, from), err)
			}
			for _, imp := range imports {
				table[from] = append(table[from], domain.ImportNameAlias{Name: imp.Name, As: imp.As})
			}
		}
		maps = append(maps, table)
	}
	return bindings, maps, nil
}

func decodeBinding(m map[string]any) (domain.Binding, error) {
	var b domain.Binding
	data, err := yaml.Marshal(m)
	if err != nil {
		return b, err
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return b, err
	}
	return b, b.Validate()
}

// ValidateOptions validates resolved loader options
func (c *ConfigurationLoaderImpl) ValidateOptions(opts *domain.LoaderOptions) error {
	for _, b := range opts.Imports {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if _, _, err := logging.ParseLevel(opts.LogLevel); err != nil {
		return err
	}
	return nil
}
