package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/autoimport/internal/constants"
)

// EnvConfigPath names a configuration file to use when none is given explicitly
const EnvConfigPath = constants.EnvVarPrefix + "_CONFIG"

// Default transform settings
const (
	// DefaultConcurrency of 0 means one worker per CPU
	DefaultConcurrency = 0

	// DefaultLogLevel is the log level when none is configured
	DefaultLogLevel = "info"
)

// ConfigCandidates are the file names searched for, in order of preference
var ConfigCandidates = []string{
	"autoimport.config.json",
	"autoimport.yaml",
	"autoimport.yml",
	".autoimport.toml",
	".autoimport.yaml",
	".autoimport.yml",
	".autoimport.json",
}

// Config represents the main configuration structure
type Config struct {
	// Imports holds explicit bindings ({name, as, from}), inline presets ({from, imports})
	// and module-keyed tables ({module: [names]})
	Imports []any `json:"imports" mapstructure:"imports" yaml:"imports"`

	// Dirs are directories scanned for exports, relative to Root. "dir/**" recurses.
	Dirs []string `json:"dirs" mapstructure:"dirs" yaml:"dirs"`

	// Presets are built-in preset names or inline presets
	Presets []any `json:"presets" mapstructure:"presets" yaml:"presets"`

	// Dts is true, false or a declaration file name
	Dts any `json:"dts" mapstructure:"dts" yaml:"dts"`

	// Ignore lists names that are never injected
	Ignore []string `json:"ignore" mapstructure:"ignore" yaml:"ignore"`

	// LogLevel is debug, info, warn, error or silent
	LogLevel string `json:"log_level" mapstructure:"log_level" yaml:"log_level"`

	// Root is the base directory for dirs, dts and package lookup. Relative roots are
	// resolved against the configuration file's directory.
	Root string `json:"root" mapstructure:"root" yaml:"root"`

	// Transform holds batch transform settings
	Transform TransformConfig `json:"transform" mapstructure:"transform" yaml:"transform"`

	// File is the path the configuration was loaded from (empty for defaults)
	File string `json:"-" mapstructure:"-" yaml:"-"`
}

// TransformConfig holds configuration for batch transforms
type TransformConfig struct {
	// Include specifies file patterns to transform
	Include []string `json:"include" mapstructure:"include" yaml:"include"`

	// Exclude specifies file or directory patterns to skip
	Exclude []string `json:"exclude" mapstructure:"exclude" yaml:"exclude"`

	// Concurrency is the number of files transformed in parallel (0 = NumCPU)
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Imports:  []any{},
		Dirs:     []string{},
		Presets:  []any{},
		Dts:      false,
		Ignore:   []string{},
		LogLevel: DefaultLogLevel,
		Root:     ".",
		Transform: TransformConfig{
			Include: []string{"*.js", "*.jsx", "*.ts", "*.tsx", "*.mjs", "*.mts", "*.cjs", "*.cts"},
			Exclude: []string{"node_modules", "dist", "build", "*.d.ts", "*.min.js"},
			Concurrency: DefaultConcurrency,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = FindDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads, validates and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := ValidateSettings(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.File = configPath
	if !filepath.IsAbs(config.Root) {
		config.Root = filepath.Join(filepath.Dir(configPath), config.Root)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindDefaultConfig looks for configuration files: the AUTOIMPORT_CONFIG variable, then
// the target path and its parents, then the current and XDG config directories.
func FindDefaultConfig(targetPath string) string {
	if envConfig := os.Getenv(EnvConfigPath); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, ConfigCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", ConfigCandidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), ConfigCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, ConfigCandidates); config != "" {
			return config
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Transform.Concurrency < 0 {
		return fmt.Errorf("transform.concurrency cannot be negative, got %d", c.Transform.Concurrency)
	}

	switch v := c.Dts.(type) {
	case nil, bool:
	case string:
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("dts filename cannot be empty")
		}
	default:
		return fmt.Errorf("dts must be a boolean or a file name, got %T", c.Dts)
	}

	for _, dir := range c.Dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("dirs cannot contain empty entries")
		}
	}
	return nil
}

// DtsSettings returns whether declarations are enabled and the configured file name
func (c *Config) DtsSettings() (enabled bool, filename string) {
	switch v := c.Dts.(type) {
	case bool:
		return v, ""
	case string:
		return true, v
	}
	return false, ""
}

// SaveConfig writes the configuration as YAML
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("imports", config.Imports)
	v.Set("dirs", config.Dirs)
	v.Set("presets", config.Presets)
	v.Set("dts", config.Dts)
	v.Set("ignore", config.Ignore)
	v.Set("log_level", config.LogLevel)
	v.Set("root", config.Root)
	v.Set("transform", map[string]any{
		"include":     config.Transform.Include,
		"exclude":     config.Transform.Exclude,
		"concurrency": config.Transform.Concurrency,
	})

	return v.WriteConfig()
}
