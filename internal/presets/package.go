package presets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/analyzer"
)

type packageManifest struct {
	Types   string          `json:"types"`
	Typings string          `json:"typings"`
	Exports json.RawMessage `json:"exports"`
}

// packageExports returns the value exports declared by an installed package's typings.
// `export * from './x'` statements are followed.
func (r *Resolver) packageExports(ctx context.Context, pkg string) ([]string, error) {
	dir, err := findPackageDir(r.root, pkg)
	if err != nil {
		return nil, err
	}
	entry, err := typesEntry(dir)
	if err != nil {
		return nil, err
	}

	ma := analyzer.NewModuleAnalyzer(&analyzer.ModuleAnalyzerConfig{AmbientModule: pkg})
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	var names []string

	var collect func(path string) error
	collect = func(path string) error {
		if visited[path] {
			return nil
		}
		visited[path] = true

		source, err := os.ReadFile(path)
		if err != nil {
			return domain.NewFileNotFoundError(path, err)
		}
		info, err := ma.AnalyzeSource(ctx, path, source)
		if err != nil {
			return err
		}
		values, _ := info.ExportedNames()
		for _, name := range values {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for _, src := range info.StarSources() {
			if !strings.HasPrefix(src, ".") {
				r.logger.Debug("skipping bare star re-export", "package", pkg, "source", src)
				continue
			}
			next, ok := resolveDeclarationFile(filepath.Dir(path), src)
			if !ok {
				r.logger.Debug("unresolved star re-export", "package", pkg, "source", src)
				continue
			}
			if err := collect(next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := collect(entry); err != nil {
		return nil, err
	}
	r.logger.Debug("resolved package preset", "package", pkg, "exports", len(names))
	return names, nil
}

// findPackageDir looks for node_modules/<pkg> from root upward
func findPackageDir(root, pkg string) (string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg))
		if _, err := os.Stat(filepath.Join(candidate, "package.json")); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", domain.NewFileNotFoundError(pkg, fmt.Errorf("package %s is not installed", pkg))
		}
		dir = parent
	}
}

// typesEntry returns the declaration entry point of a package
func typesEntry(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", err
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", domain.NewParseError(filepath.Join(dir, "package.json"), err)
	}

	candidates := []string{manifest.Types, manifest.Typings, exportsTypes(manifest.Exports), "index.d.ts"}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(c))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", domain.NewFileNotFoundError(dir, fmt.Errorf("no type declarations found"))
}

// exportsTypes finds the "types" condition of the "." entry of package.json exports
func exportsTypes(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var exports map[string]any
	if err := json.Unmarshal(raw, &exports); err != nil {
		return ""
	}
	if root, ok := exports["."]; ok {
		return conditionTypes(root)
	}
	return conditionTypes(exports)
}

func conditionTypes(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if types, ok := m["types"].(string); ok {
		return types
	}
	for _, cond := range []string{"import", "default", "require"} {
		if t := conditionTypes(m[cond]); t != "" {
			return t
		}
	}
	return ""
}

// resolveDeclarationFile maps a relative specifier to a declaration file on disk
func resolveDeclarationFile(dir, spec string) (string, bool) {
	base := filepath.Join(dir, filepath.FromSlash(spec))
	trimmed := strings.TrimSuffix(strings.TrimSuffix(base, ".js"), ".mjs")
	candidates := []string{
		trimmed + ".d.ts",
		trimmed + ".d.mts",
		trimmed + ".ts",
		base,
		filepath.Join(base, "index.d.ts"),
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			return c, true
		}
	}
	return "", false
}
