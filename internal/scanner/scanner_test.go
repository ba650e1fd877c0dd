package scanner

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/testutil"
)

func projectTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteTree(t, map[string]string{
		".gitignore":                       "src/components/generated/\n",
		"src/hooks/use-scope.ts":           "export default function useScope() {}\n",
		"src/hooks/useCounter.ts":          "export function useCounter() {}\nexport interface CounterOptions {}\n",
		"src/hooks/useCounter.test.ts":     "export const notAHook = 1\n",
		"src/hooks/types.d.ts":             "export declare const declared: number\n",
		"src/hooks/nested/useNested.ts":    "export const useNested = () => {}\n",
		"src/components/Button.tsx":        "export function Button() { return <button /> }\n",
		"src/components/Card/index.tsx":    "export default function Card() { return <div /> }\n",
		"src/components/generated/Gen.tsx": "export const Gen = 1\n",
		"src/components/styles.css":        "a {}\n",
	})
}

func TestScanTopLevel(t *testing.T) {
	root := projectTree(t)
	s, err := New(root, []string{"src/hooks"}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bindings, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	hooks := filepath.ToSlash(filepath.Join(root, "src", "hooks"))
	expected := []domain.Binding{
		{Name: "default", As: "useScope", From: hooks + "/use-scope"},
		{Name: "useCounter", From: hooks + "/useCounter"},
		{Name: "CounterOptions", From: hooks + "/useCounter", Type: true},
	}
	if !reflect.DeepEqual(bindings, expected) {
		t.Errorf("Scan() = %v, want %v", bindings, expected)
	}
}

func TestScanRecursive(t *testing.T) {
	root := projectTree(t)
	s, err := New(root, []string{"src/components/**", "src/hooks/**", "missing"}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	files, err := s.Files()
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	expected := []string{
		"src/components/Button.tsx",
		"src/components/Card/index.tsx",
		"src/hooks/nested/useNested.ts",
		"src/hooks/use-scope.ts",
		"src/hooks/useCounter.ts",
	}
	if !reflect.DeepEqual(rel, expected) {
		t.Errorf("Files() = %v, want %v", rel, expected)
	}

	bindings, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	found := false
	for _, b := range bindings {
		if b.Name == "default" && b.As == "Card" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected index default export to be named after its directory, got %v", bindings)
	}
}

func TestScanCacheInvalidation(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"lib/util.ts": "export const a = 1\n",
	})
	s, err := New(root, []string{"lib"}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first, err := s.Scan(context.Background())
	if err != nil || len(first) != 1 {
		t.Fatalf("Expected one binding, got %v (err %v)", first, err)
	}
	if s.cache.Len() != 1 {
		t.Errorf("Expected one cache entry, got %d", s.cache.Len())
	}

	path := filepath.Join(root, "lib", "util.ts")
	if err := os.WriteFile(path, []byte("export const a = 1\nexport const b = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	second, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("Expected rescan to pick up the new export, got %v", second)
	}
}

func TestIsScannable(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"a.ts", true},
		{"a.tsx", true},
		{"a.mjs", true},
		{"a.d.ts", false},
		{"a.d.mts", false},
		{"a.test.ts", false},
		{"a.spec.jsx", false},
		{"a.css", false},
		{"a.vue", false},
	}
	for _, tc := range testCases {
		if got := IsScannable(tc.path); got != tc.expected {
			t.Errorf("IsScannable(%q) = %v, want %v", tc.path, got, tc.expected)
		}
	}
}

func TestDefaultExportName(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"/p/src/hooks/use-scope.ts", "useScope"},
		{"/p/src/components/Button.tsx", "Button"},
		{"/p/src/components/date_picker.tsx", "datePicker"},
		{"/p/src/components/my-card/index.tsx", "myCard"},
		{"/p/src/1-bad.ts", ""},
	}
	for _, tc := range testCases {
		if got := DefaultExportName(tc.path); got != tc.expected {
			t.Errorf("DefaultExportName(%q) = %q, want %q", tc.path, got, tc.expected)
		}
	}
}

func TestParseDirEntry(t *testing.T) {
	testCases := []struct {
		entry     string
		dir       string
		recursive bool
	}{
		{"src/hooks", filepath.FromSlash("src/hooks"), false},
		{"src/hooks/*", filepath.FromSlash("src/hooks"), false},
		{"src/components/**", filepath.FromSlash("src/components"), true},
	}
	for _, tc := range testCases {
		dir, recursive := parseDirEntry(tc.entry)
		if dir != tc.dir || recursive != tc.recursive {
			t.Errorf("parseDirEntry(%q) = (%q, %v), want (%q, %v)", tc.entry, dir, recursive, tc.dir, tc.recursive)
		}
	}
}
