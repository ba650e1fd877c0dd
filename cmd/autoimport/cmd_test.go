package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/autoimport/internal/testutil"
	"github.com/ludo-technologies/autoimport/service"
)

// runCLI executes the root command with args and returns its standard output
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}

func vueProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteTree(t, map[string]string{
		"autoimport.yaml": "presets: [vue]\nlog_level: silent\n",
		"src/counter.ts":  "export const count = ref(0)\n",
		"src/plain.ts":    "export const n = 1\n",
	})
}

func TestTransformCmd_FlagsExist(t *testing.T) {
	cmd := transformCmd()

	expectedFlags := []string{"config", "out-dir", "check", "diff", "map", "dry-run", "format",
		"concurrency", "include", "exclude", "timeout", "no-progress"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}

	shortFlags := map[string]string{"c": "config", "o": "out-dir", "f": "format", "j": "concurrency"}
	for short, long := range shortFlags {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}

	if def := cmd.Flags().Lookup("format").DefValue; def != "text" {
		t.Errorf("Expected default format to be 'text', got '%s'", def)
	}
}

func TestTransformCmd_NoPathsError(t *testing.T) {
	_, err := runCLI(t, "transform")
	if code := exitCode(t, err); code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
}

func TestTransformCmd_InvalidFlagCombinations(t *testing.T) {
	root := vueProject(t)
	cfg := filepath.Join(root, "autoimport.yaml")

	testCases := [][]string{
		{"transform", "--config", cfg, "--format", "html", root},
		{"transform", "--config", cfg, "--check", "--dry-run", root},
		{"transform", "--config", cfg, "--check", "--out-dir", "out", root},
	}
	for _, args := range testCases {
		_, err := runCLI(t, args...)
		if code := exitCode(t, err); code != 2 {
			t.Errorf("%v: expected exit code 2, got %d", args, code)
		}
	}
}

func TestTransformCmd_InPlace(t *testing.T) {
	root := vueProject(t)

	out, err := runCLI(t, "transform", "--config", filepath.Join(root, "autoimport.yaml"),
		"--no-progress", filepath.Join(root, "src"))
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if !strings.Contains(out, "counter.ts") {
		t.Errorf("Expected report to name the changed file, got:\n%s", out)
	}

	got := testutil.ReadFile(t, filepath.Join(root, "src", "counter.ts"))
	if got != "import { ref } from 'vue';\nexport const count = ref(0)\n" {
		t.Errorf("Unexpected counter.ts %q", got)
	}
	if got := testutil.ReadFile(t, filepath.Join(root, "src", "plain.ts")); got != "export const n = 1\n" {
		t.Errorf("plain.ts should be untouched, got %q", got)
	}
}

func TestTransformCmd_CheckFailsWhenImportsMissing(t *testing.T) {
	root := vueProject(t)
	cfg := filepath.Join(root, "autoimport.yaml")

	out, err := runCLI(t, "transform", "--config", cfg, "--check", "--diff", "--no-progress", root)
	if code := exitCode(t, err); code != 1 {
		t.Fatalf("Expected exit code 1, got %d (%v)", code, err)
	}
	if !strings.Contains(out, "+import { ref } from 'vue';") {
		t.Errorf("Expected diff in output, got:\n%s", out)
	}
	if got := testutil.ReadFile(t, filepath.Join(root, "src", "counter.ts")); strings.Contains(got, "import") {
		t.Error("Check mode must not write files")
	}

	if _, err := runCLI(t, "transform", "--config", cfg, "--no-progress", root); err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if _, err := runCLI(t, "transform", "--config", cfg, "--check", "--no-progress", root); err != nil {
		t.Errorf("Check should pass once imports are present, got %v", err)
	}
}

func TestTransformCmd_DryRunJSON(t *testing.T) {
	root := vueProject(t)

	out, err := runCLI(t, "transform", "--config", filepath.Join(root, "autoimport.yaml"),
		"--dry-run", "--format", "json", filepath.Join(root, "src"))
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	var report service.BatchResultJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, out)
	}
	if report.Summary.TotalFiles != 2 || report.Summary.ChangedFiles != 1 || report.Summary.Imports != 1 {
		t.Errorf("Unexpected summary %+v", report.Summary)
	}
	if got := testutil.ReadFile(t, filepath.Join(root, "src", "counter.ts")); strings.Contains(got, "import") {
		t.Error("Dry run must not write files")
	}
}

func TestTransformCmd_OutDirWithMap(t *testing.T) {
	root := vueProject(t)
	outDir := filepath.Join(root, "dist")

	_, err := runCLI(t, "transform", "--config", filepath.Join(root, "autoimport.yaml"),
		"--out-dir", outDir, "--map", "--no-progress", filepath.Join(root, "src"))
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	code := testutil.ReadFile(t, filepath.Join(outDir, "counter.ts"))
	if !strings.HasPrefix(code, "import { ref } from 'vue';") || !strings.Contains(code, "sourceMappingURL=counter.ts.map") {
		t.Errorf("Unexpected output file %q", code)
	}
	testutil.ReadFile(t, filepath.Join(outDir, "counter.ts.map"))
}

func TestDtsCmd(t *testing.T) {
	root := vueProject(t)
	cfg := filepath.Join(root, "autoimport.yaml")

	out, err := runCLI(t, "dts", "--config", cfg, "--stdout")
	if err != nil {
		t.Fatalf("dts --stdout failed: %v", err)
	}
	if !strings.Contains(out, "const ref: typeof import('vue')['ref']") {
		t.Errorf("Expected declarations in output, got:\n%s", out)
	}

	_, err = runCLI(t, "dts", "--config", cfg, "--check")
	if code := exitCode(t, err); code != 1 {
		t.Errorf("Expected exit code 1 for missing file, got %d", code)
	}

	if _, err := runCLI(t, "dts", "--config", cfg); err != nil {
		t.Fatalf("dts failed: %v", err)
	}
	written := testutil.ReadFile(t, filepath.Join(root, "auto-imports.d.ts"))
	if written != out {
		t.Error("Written declarations should match --stdout output")
	}

	if _, err := runCLI(t, "dts", "--config", cfg, "--check"); err != nil {
		t.Errorf("Expected check to pass after writing, got %v", err)
	}
}

func TestPresetsCmd(t *testing.T) {
	out, err := runCLI(t, "presets")
	if err != nil {
		t.Fatalf("presets failed: %v", err)
	}
	for _, want := range []string{"react", "vue", "ahooks", "Total:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in preset list:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "presets", "vue")
	if err != nil {
		t.Fatalf("presets vue failed: %v", err)
	}
	if !strings.Contains(out, "computed") || !strings.Contains(out, "type") {
		t.Errorf("Expected vue imports, got:\n%s", out)
	}

	_, err = runCLI(t, "presets", "no-such-preset")
	if code := exitCode(t, err); code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "autoimport version ") {
		t.Errorf("Unexpected version output %q", out)
	}
}

func TestReportError(t *testing.T) {
	if code := reportError(&ExitError{Code: 1}); code != 1 {
		t.Errorf("Expected 1, got %d", code)
	}
	if code := reportError(errors.New("boom")); code != 2 {
		t.Errorf("Expected 2, got %d", code)
	}
}
