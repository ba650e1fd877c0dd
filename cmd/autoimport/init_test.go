package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ludo-technologies/autoimport/internal/config"
)

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "autoimport.yaml")

	cmd := initCmd()
	cmd.SetOut(&strings.Builder{})
	cmd.SetArgs([]string{"--config", configPath, "--framework", "react"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	expectedSections := []string{"presets:", "imports:", "dirs:", "dts:", "ignore:", "log_level:", "transform:"}
	for _, section := range expectedSections {
		if !strings.Contains(string(content), section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}

	// The generated file must load through the regular config path
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Presets, []any{"react", "react-dom"}) {
		t.Errorf("Unexpected presets %v", cfg.Presets)
	}
	if cfg.Dts != true {
		t.Errorf("Expected dts to default to true, got %v", cfg.Dts)
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "autoimport.yaml")
	if err := os.WriteFile(configPath, []byte("existing: true\n"), 0o644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when file exists without --force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	cmd = initCmd()
	cmd.SetOut(&strings.Builder{})
	cmd.SetArgs([]string{"--config", configPath, "--force"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if !strings.Contains(string(content), "presets:") {
		t.Error("Config file was not overwritten with new content")
	}
}

func TestInitCommand_MinimalConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "autoimport.yaml")

	cmd := initCmd()
	cmd.SetOut(&strings.Builder{})
	cmd.SetArgs([]string{"--config", configPath, "--minimal"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != config.GetMinimalConfigTemplate() {
		t.Errorf("Unexpected minimal config:\n%s", content)
	}
}

func TestInitCommand_ExtraPresetsAndNoDts(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "autoimport.yaml")

	cmd := initCmd()
	cmd.SetOut(&strings.Builder{})
	cmd.SetArgs([]string{"--config", configPath, "--framework", "vue", "--preset", "@vueuse/core,vue", "--dts=false"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Presets, []any{"vue", "vue-router", "pinia", "@vueuse/core"}) {
		t.Errorf("Unexpected presets %v", cfg.Presets)
	}
	if cfg.Dts != false {
		t.Errorf("Expected dts false, got %v", cfg.Dts)
	}
}

func TestInitCommand_InvalidInput(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown framework", []string{"--config", filepath.Join(dir, "a.yaml"), "--framework", "angular"}, "unknown framework"},
		{"unknown preset", []string{"--config", filepath.Join(dir, "b.yaml"), "--preset", "nope"}, "unknown preset"},
		{"missing directory", []string{"--config", filepath.Join(dir, "missing", "c.yaml")}, "directory does not exist"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := initCmd()
			cmd.SetArgs(tc.args)
			err := cmd.Execute()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" jotai, ,ahooks ,")
	if !reflect.DeepEqual(got, []string{"jotai", "ahooks"}) {
		t.Errorf("splitList() = %v", got)
	}
	if splitList("") != nil {
		t.Error("Expected nil for empty input")
	}
}
