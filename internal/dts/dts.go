// Package dts renders the global declaration file describing every auto-importable
// binding, so editors and the type checker know about names that are never imported
// explicitly.
package dts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/injector"
)

// Header is written at the top of every generated declaration file
const Header = `/* eslint-disable */
/* prettier-ignore */
// @ts-nocheck
// noinspection JSUnusedGlobalSymbols
// Generated by autoimport
`

// Generate renders the declaration file for bindings. Module paths of scanned files are
// written relative to dtsDir.
func Generate(bindings []domain.Binding, dtsDir string) string {
	anchor := filepath.Join(dtsDir, domain.DefaultDtsFilename)

	var values []string
	typesByModule := make(map[string][]string)
	for _, b := range bindings {
		if b.IsSideEffect() || b.Disabled {
			continue
		}
		from := stripExtension(injector.ResolveID(b.From, anchor))
		if b.Type {
			typesByModule[from] = append(typesByModule[from], typeSpecifier(b))
			continue
		}
		values = append(values, valueLine(b, from))
	}
	sort.Strings(values)

	var buf strings.Builder
	buf.WriteString(Header)
	buf.WriteString("export {}\n")
	buf.WriteString("declare global {\n")
	for _, line := range values {
		buf.WriteString("  ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	if len(typesByModule) > 0 {
		modules := make([]string, 0, len(typesByModule))
		for m := range typesByModule {
			modules = append(modules, m)
		}
		sort.Strings(modules)

		buf.WriteString("// for type re-export\n")
		buf.WriteString("declare global {\n")
		for _, m := range modules {
			names := typesByModule[m]
			sort.Strings(names)
			buf.WriteString("  // @ts-ignore\n")
			fmt.Fprintf(&buf, "  export type { %s } from '%s'\n", strings.Join(names, ", "), m)
			fmt.Fprintf(&buf, "  import('%s')\n", m)
		}
		buf.WriteString("}\n")
	}
	return buf.String()
}

func valueLine(b domain.Binding, from string) string {
	switch b.Name {
	case domain.NamespaceExportName:
		return fmt.Sprintf("const %s: typeof import('%s')", b.LocalName(), from)
	default:
		return fmt.Sprintf("const %s: typeof import('%s')['%s']", b.LocalName(), from, b.Name)
	}
}

func typeSpecifier(b domain.Binding) string {
	if b.As != "" && b.As != b.Name {
		return b.Name + " as " + b.As
	}
	return b.Name
}

// stripExtension drops script extensions from relative module paths
func stripExtension(from string) string {
	if !strings.HasPrefix(from, ".") {
		return from
	}
	switch ext := filepath.Ext(from); ext {
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".mts", ".cjs", ".cts":
		return strings.TrimSuffix(from, ext)
	}
	return from
}

// Write stores content at path unless the file already holds it. It reports whether the
// file was written.
func Write(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, []byte(content)) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, domain.NewOutputError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, domain.NewOutputError(fmt.Sprintf("failed to write %s", path), err)
	}
	return true, nil
}
