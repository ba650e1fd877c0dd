package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// isolate keeps discovery away from the user's real configuration
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}
	if config.LogLevel != DefaultLogLevel {
		t.Errorf("Expected LogLevel %s, got %s", DefaultLogLevel, config.LogLevel)
	}
	if config.Dts != false {
		t.Errorf("Expected dts to be disabled by default, got %v", config.Dts)
	}
	if config.Root != "." {
		t.Errorf("Expected Root '.', got %q", config.Root)
	}
	if len(config.Transform.Include) == 0 {
		t.Error("Include patterns should not be empty")
	}
	if config.Transform.Concurrency != DefaultConcurrency {
		t.Errorf("Expected Concurrency %d, got %d", DefaultConcurrency, config.Transform.Concurrency)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative concurrency", func(c *Config) { c.Transform.Concurrency = -1 }, "concurrency"},
		{"empty dts file name", func(c *Config) { c.Dts = "  " }, "dts filename"},
		{"dts of wrong type", func(c *Config) { c.Dts = 3 }, "boolean or a file name"},
		{"empty dir entry", func(c *Config) { c.Dirs = []string{"src", ""} }, "dirs"},
		{"dts file name", func(c *Config) { c.Dts = "types/auto.d.ts" }, ""},
		{"dts unset", func(c *Config) { c.Dts = nil }, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestConfig_DtsSettings(t *testing.T) {
	testCases := []struct {
		dts      any
		enabled  bool
		filename string
	}{
		{nil, false, ""},
		{false, false, ""},
		{true, true, ""},
		{"types/imports.d.ts", true, "types/imports.d.ts"},
	}
	for _, tc := range testCases {
		config := &Config{Dts: tc.dts}
		enabled, filename := config.DtsSettings()
		if enabled != tc.enabled || filename != tc.filename {
			t.Errorf("DtsSettings(%v) = (%v, %q), want (%v, %q)", tc.dts, enabled, filename, tc.enabled, tc.filename)
		}
	}
}

func TestLoadConfig_Default(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path failed: %v", err)
	}
	if !reflect.DeepEqual(config, DefaultConfig()) {
		t.Errorf("Loaded config should match default, got %+v", config)
	}
}

func TestLoadConfig_NonExistent(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/autoimport.yaml")
	if err == nil {
		t.Error("Expected error for non-existent config file")
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "autoimport.yaml"), `
presets:
  - react
  - from: lodash-es
    imports: [debounce, [throttle, throttleFn]]
imports:
  - { name: default, as: axios, from: axios }
dirs:
  - src/hooks
  - "src/components/**"
dts: types/auto-imports.d.ts
ignore: [useless]
log_level: debug
root: web
transform:
  concurrency: 4
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.File != path {
		t.Errorf("Expected File %s, got %s", path, config.File)
	}
	if len(config.Presets) != 2 || config.Presets[0] != "react" {
		t.Errorf("Unexpected presets %v", config.Presets)
	}
	if len(config.Imports) != 1 {
		t.Errorf("Expected one import, got %v", config.Imports)
	}
	if !reflect.DeepEqual(config.Dirs, []string{"src/hooks", "src/components/**"}) {
		t.Errorf("Unexpected dirs %v", config.Dirs)
	}
	if enabled, name := config.DtsSettings(); !enabled || name != "types/auto-imports.d.ts" {
		t.Errorf("Unexpected dts settings (%v, %q)", enabled, name)
	}
	if config.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", config.LogLevel)
	}
	if config.Root != filepath.Join(dir, "web") {
		t.Errorf("Expected root relative to the config file, got %s", config.Root)
	}
	if config.Transform.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", config.Transform.Concurrency)
	}
	// Unset sections keep their defaults
	if len(config.Transform.Include) == 0 {
		t.Error("Expected default include patterns to survive")
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "autoimport.config.json"), `{
  "presets": ["vue"],
  "dts": true
}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if enabled, name := config.DtsSettings(); !enabled || name != "" {
		t.Errorf("Unexpected dts settings (%v, %q)", enabled, name)
	}
	if config.Root != dir {
		t.Errorf("Expected root %s, got %s", dir, config.Root)
	}
}

func TestLoadConfig_SchemaViolations(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown log level", "log_level: loud\n", "log_level"},
		{"dts of wrong type", "dts: 3\n", "dts"},
		{"negative concurrency", "transform:\n  concurrency: -2\n", "concurrency"},
		{"preset without module", "presets:\n  - imports: [a]\n", "presets"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), "autoimport.yaml"), tc.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.field) {
				t.Errorf("Expected schema error mentioning %q, got %v", tc.field, err)
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	if err := ValidateSettings(map[string]any{"presets": []any{"react"}, "dts": false}); err != nil {
		t.Errorf("Expected valid settings, got %v", err)
	}
	if err := ValidateSettings(map[string]any{"dirs": []any{1}}); err == nil {
		t.Error("Expected error for non-string dir")
	}
}

func TestSearchConfigInDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeFile(t, filepath.Join(tempDir, "autoimport.yaml"), "dts: true\n")

	candidates := []string{"autoimport.config.json", "autoimport.yaml"}
	if result := searchConfigInDirectory(tempDir, candidates); result != configPath {
		t.Errorf("Expected %s, got %s", configPath, result)
	}

	if result := searchConfigInDirectory(t.TempDir(), candidates); result != "" {
		t.Error("Expected empty string for directory without config")
	}
}

func TestFindDefaultConfig_WalksUp(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	configPath := writeFile(t, filepath.Join(root, ".autoimport.yaml"), "dts: true\n")
	target := writeFile(t, filepath.Join(root, "src", "pages", "App.tsx"), "")

	if result := FindDefaultConfig(target); result != configPath {
		t.Errorf("Expected %s, got %s", configPath, result)
	}
}

func TestFindDefaultConfig_EnvVar(t *testing.T) {
	isolate(t)
	configPath := writeFile(t, filepath.Join(t.TempDir(), "custom.yaml"), "dts: true\n")
	t.Setenv(EnvConfigPath, configPath)

	if result := FindDefaultConfig(t.TempDir()); result != configPath {
		t.Errorf("Expected %s, got %s", configPath, result)
	}
}

func TestFindDefaultConfig_XDG(t *testing.T) {
	isolate(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	configPath := writeFile(t, filepath.Join(xdg, "autoimport", "autoimport.yml"), "dts: true\n")

	if result := FindDefaultConfig(""); result != configPath {
		t.Errorf("Expected %s, got %s", configPath, result)
	}
}

func TestLoadConfigWithTarget_EmptyPaths(t *testing.T) {
	isolate(t)

	config, err := LoadConfigWithTarget("", "")
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if config.File != "" {
		t.Errorf("Expected defaults without a file, got %s", config.File)
	}
}

func TestGetFullConfigTemplate_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoimport.yaml")
	writeFile(t, path, GetFullConfigTemplate(FrameworkReact, []string{"ahooks", "react"}, true))

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Template should load, got %v", err)
	}
	if !reflect.DeepEqual(config.Presets, []any{"react", "react-dom", "ahooks"}) {
		t.Errorf("Unexpected presets %v", config.Presets)
	}
	if !reflect.DeepEqual(config.Dirs, []string{"src/hooks", "src/components/**"}) {
		t.Errorf("Unexpected dirs %v", config.Dirs)
	}
	if config.Dts != true {
		t.Errorf("Expected dts true, got %v", config.Dts)
	}
}

func TestGetMinimalConfigTemplate_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoimport.yaml")
	writeFile(t, path, GetMinimalConfigTemplate())

	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("Template should load, got %v", err)
	}
}

func TestFrameworks(t *testing.T) {
	expected := []string{"generic", "preact", "react", "solid", "svelte", "vue"}
	if got := Frameworks(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Frameworks() = %v, want %v", got, expected)
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoimport.yaml")
	config := DefaultConfig()
	config.Presets = []any{"vue"}
	config.Dts = "auto.d.ts"
	config.LogLevel = "warn"

	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.LogLevel != "warn" || loaded.Dts != "auto.d.ts" {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
	if !reflect.DeepEqual(loaded.Presets, []any{"vue"}) {
		t.Errorf("Unexpected presets %v", loaded.Presets)
	}
}
