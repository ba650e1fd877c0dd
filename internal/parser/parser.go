// Package parser builds a module-level AST of JavaScript and TypeScript files with
// tree-sitter. It is used to discover the exports of scanned source files and of
// package type declarations.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser wraps tree-sitter parser for JavaScript/TypeScript
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	isTS     bool
}

func newParser(lang *sitter.Language, isTS bool) *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &Parser{
		parser:   parser,
		language: lang,
		isTS:     isTS,
	}
}

// NewParser creates a new JavaScript parser (JSX included)
func NewParser() *Parser {
	return newParser(javascript.GetLanguage(), false)
}

// NewTypeScriptParser creates a TypeScript parser for .ts and .d.ts files
func NewTypeScriptParser() *Parser {
	return newParser(typescript.GetLanguage(), true)
}

// NewTSXParser creates a TypeScript parser with JSX support
func NewTSXParser() *Parser {
	return newParser(tsx.GetLanguage(), true)
}

// ParseFile parses a JavaScript/TypeScript file
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// ParseString parses JavaScript/TypeScript source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.ParseFile(context.Background(), "<input>", []byte(source))
}

// IsTypeScript returns true if this parser is configured for TypeScript
func (p *Parser) IsTypeScript() bool {
	return p.isTS
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ForFile returns a parser for the language of filename
func ForFile(filename string) *Parser {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return NewTypeScriptParser()
	case ".tsx":
		return NewTSXParser()
	default:
		return NewParser()
	}
}

// ParseForLanguage selects the parser from the file extension and parses source
func ParseForLanguage(ctx context.Context, filename string, source []byte) (*Node, error) {
	parser := ForFile(filename)
	defer parser.Close()

	return parser.ParseFile(ctx, filename, source)
}
