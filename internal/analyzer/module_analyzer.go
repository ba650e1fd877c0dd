package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/parser"
)

// ModuleAnalyzerConfig holds configuration for the module analyzer
type ModuleAnalyzerConfig struct {
	// IncludeTypeExports keeps interfaces, type aliases and `export type` specifiers
	IncludeTypeExports bool

	// AmbientModule also collects exports declared inside `declare module '<name>' { }`
	AmbientModule string
}

// DefaultModuleAnalyzerConfig returns the default configuration
func DefaultModuleAnalyzerConfig() *ModuleAnalyzerConfig {
	return &ModuleAnalyzerConfig{
		IncludeTypeExports: true,
	}
}

// ModuleAnalyzer extracts the export surface of JavaScript/TypeScript modules
type ModuleAnalyzer struct {
	config *ModuleAnalyzerConfig
}

// NewModuleAnalyzer creates a new module analyzer with the given configuration
func NewModuleAnalyzer(config *ModuleAnalyzerConfig) *ModuleAnalyzer {
	if config == nil {
		config = DefaultModuleAnalyzerConfig()
	}
	return &ModuleAnalyzer{
		config: config,
	}
}

// AnalyzeSource parses source with the parser matching filePath and extracts its exports
func (ma *ModuleAnalyzer) AnalyzeSource(ctx context.Context, filePath string, source []byte) (*domain.ModuleExports, error) {
	ast, err := parser.ParseForLanguage(ctx, filePath, source)
	if err != nil {
		return nil, domain.NewParseError(filePath, err)
	}
	return ma.AnalyzeFile(ast, filePath)
}

// AnalyzeFile analyzes a single file and returns its exports
func (ma *ModuleAnalyzer) AnalyzeFile(ast *parser.Node, filePath string) (*domain.ModuleExports, error) {
	info := &domain.ModuleExports{
		FilePath: filePath,
		Exports:  make([]*domain.Export, 0),
	}
	if ast == nil {
		return info, nil
	}

	ma.extractExports(ast.Body, info)
	return info, nil
}

// extractExports walks the top-level statements and extracts all export statements
func (ma *ModuleAnalyzer) extractExports(statements []*parser.Node, info *domain.ModuleExports) {
	// Track visited nodes by their location to avoid duplicates
	visited := make(map[string]bool)

	for _, node := range statements {
		key := nodeLocationKey(node)
		if visited[key] {
			continue
		}
		visited[key] = true

		var exp *domain.Export
		switch node.Type {
		case parser.NodeExportNamedDeclaration:
			exp = ma.processExportNamedDeclaration(node)
		case parser.NodeExportDefaultDeclaration:
			exp = ma.processExportDefaultDeclaration(node)
		case parser.NodeExportAllDeclaration:
			exp = ma.processExportAllDeclaration(node)
		case parser.NodeAmbientModule:
			if ma.config.AmbientModule != "" && ma.extractSourceValue(node.Source) == ma.config.AmbientModule {
				ma.extractExports(node.Body, info)
			}
		}
		if exp != nil {
			info.Exports = append(info.Exports, exp)
		}
	}
}

// nodeLocationKey creates a unique key for a node based on its location
func nodeLocationKey(node *parser.Node) string {
	if node == nil {
		return ""
	}
	return fmt.Sprintf("%s:%s:%d:%d", node.Type, node.Location.File,
		node.Location.StartLine, node.Location.StartCol)
}

// processExportNamedDeclaration processes a named export declaration
func (ma *ModuleAnalyzer) processExportNamedDeclaration(node *parser.Node) *domain.Export {
	exp := &domain.Export{
		ExportType: "named",
		IsTypeOnly: node.IsType,
		Specifiers: make([]domain.ExportSpecifier, 0),
		Location:   ma.nodeToSourceLocation(node),
	}
	if exp.IsTypeOnly && !ma.config.IncludeTypeExports {
		return nil
	}

	// Check for re-export: export { ... } from 'source'
	if node.Source != nil {
		exp.Source = ma.extractSourceValue(node.Source)
		exp.SourceType = ma.classifyModuleSource(exp.Source)
	}

	// export const a = 1, export function f() {}, export interface I {}
	if decl := node.Declaration; decl != nil {
		exp.Declaration = string(decl.Type)
		if decl.IsType && !ma.config.IncludeTypeExports {
			return nil
		}
		for _, name := range decl.DeclaredNames() {
			exp.Specifiers = append(exp.Specifiers, domain.ExportSpecifier{
				Local:    name,
				Exported: name,
				IsType:   decl.IsType,
			})
		}
		if len(exp.Specifiers) > 0 {
			exp.Name = exp.Specifiers[0].Exported
		}
	}

	for _, spec := range node.Specifiers {
		if spec.IsType && !ma.config.IncludeTypeExports {
			continue
		}
		specifier := domain.ExportSpecifier{
			Local:    spec.Name,
			Exported: spec.Name,
			IsType:   spec.IsType,
		}
		if spec.Local != nil {
			specifier.Local = spec.Local.Name
		}
		exp.Specifiers = append(exp.Specifiers, specifier)
	}

	if len(exp.Specifiers) == 0 {
		return nil
	}
	return exp
}

// processExportDefaultDeclaration processes a default export declaration
func (ma *ModuleAnalyzer) processExportDefaultDeclaration(node *parser.Node) *domain.Export {
	exp := &domain.Export{
		ExportType: "default",
		Location:   ma.nodeToSourceLocation(node),
	}

	if node.Declaration != nil {
		exp.Declaration = string(node.Declaration.Type)
		exp.Name = node.Declaration.Name
		exp.IsTypeOnly = node.Declaration.IsType
	}

	return exp
}

// processExportAllDeclaration processes `export * from` and `export * as ns from`
func (ma *ModuleAnalyzer) processExportAllDeclaration(node *parser.Node) *domain.Export {
	exp := &domain.Export{
		ExportType: "all",
		Name:       node.Name,
		IsTypeOnly: node.IsType,
		Location:   ma.nodeToSourceLocation(node),
	}

	if node.Source != nil {
		exp.Source = ma.extractSourceValue(node.Source)
		exp.SourceType = ma.classifyModuleSource(exp.Source)
	}

	// The namespace of `export * as ns` is a named export of this module
	if node.Name != "" {
		exp.Specifiers = []domain.ExportSpecifier{{Local: node.Name, Exported: node.Name, IsType: node.IsType}}
		exp.ExportType = "named"
	}

	return exp
}

// extractSourceValue extracts the string value from a source node
func (ma *ModuleAnalyzer) extractSourceValue(node *parser.Node) string {
	if node == nil {
		return ""
	}

	raw := node.Raw
	if raw == "" {
		raw = node.Name
	}
	if len(raw) >= 2 {
		if (raw[0] == '"' && raw[len(raw)-1] == '"') ||
			(raw[0] == '\'' && raw[len(raw)-1] == '\'') ||
			(raw[0] == '`' && raw[len(raw)-1] == '`') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// classifyModuleSource determines the type of module source
func (ma *ModuleAnalyzer) classifyModuleSource(source string) domain.ModuleType {
	switch {
	case strings.HasPrefix(source, "./"), strings.HasPrefix(source, "../"), source == ".", source == "..":
		return domain.ModuleTypeRelative
	case strings.HasPrefix(source, "/"):
		return domain.ModuleTypeAbsolute
	default:
		return domain.ModuleTypePackage
	}
}

// nodeToSourceLocation converts a parser.Node location to domain.SourceLocation
func (ma *ModuleAnalyzer) nodeToSourceLocation(node *parser.Node) domain.SourceLocation {
	return domain.SourceLocation{
		FilePath:  node.Location.File,
		StartLine: node.Location.StartLine,
		EndLine:   node.Location.EndLine,
		StartCol:  node.Location.StartCol,
		EndCol:    node.Location.EndCol,
	}
}
