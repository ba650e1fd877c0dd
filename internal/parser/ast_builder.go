package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds the module-level AST from a tree-sitter CST. Only the statements
// that matter for a module's import/export surface are built in detail; function and
// class bodies are never descended into.
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildProgram(tsNode)
	case "function_declaration", "generator_function_declaration", "function_signature":
		return b.buildNamedDeclaration(tsNode, NodeFunction)
	case "class_declaration", "abstract_class_declaration":
		return b.buildNamedDeclaration(tsNode, NodeClass)
	case "interface_declaration":
		node := b.buildNamedDeclaration(tsNode, NodeInterfaceDeclaration)
		node.IsType = true
		return node
	case "type_alias_declaration":
		node := b.buildNamedDeclaration(tsNode, NodeTypeAlias)
		node.IsType = true
		return node
	case "enum_declaration":
		return b.buildNamedDeclaration(tsNode, NodeEnumDeclaration)
	case "internal_module":
		return b.buildNamespace(tsNode)
	case "module":
		return b.buildModule(tsNode)
	case "variable_declaration", "lexical_declaration":
		return b.buildVariableDeclaration(tsNode)
	case "ambient_declaration":
		return b.buildAmbientDeclaration(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "identifier", "type_identifier", "property_identifier":
		return b.buildIdentifier(tsNode)
	case "string":
		return b.buildLiteral(tsNode)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "export_statement":
		return b.buildExportStatement(tsNode)
	default:
		node := NewNode(NodeStatement)
		node.Location = b.getLocation(tsNode)
		return node
	}
}

// buildProgram builds a program node
func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := NewNode(NodeProgram)
	node.Location = b.getLocation(tsNode)
	b.buildStatements(tsNode, node)
	return node
}

func (b *ASTBuilder) buildStatements(tsNode *sitter.Node, node *Node) {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if childNode := b.buildNode(child); childNode != nil {
			node.AddChild(childNode)
			node.Body = append(node.Body, childNode)
		}
	}
}

// buildNamedDeclaration builds a declaration identified by its "name" field
func (b *ASTBuilder) buildNamedDeclaration(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}
	return node
}

// buildNamespace builds `namespace Foo { ... }`
func (b *ASTBuilder) buildNamespace(tsNode *sitter.Node) *Node {
	node := b.buildNamedDeclaration(tsNode, NodeNamespace)
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		b.buildStatements(bodyNode, node)
	}
	return node
}

// buildModule builds `declare module 'name' { ... }` and `module Foo { ... }`
func (b *ASTBuilder) buildModule(tsNode *sitter.Node) *Node {
	nameNode := b.getChildByFieldName(tsNode, "name")
	if nameNode == nil || nameNode.Type() != "string" {
		return b.buildNamespace(tsNode)
	}
	node := NewNode(NodeAmbientModule)
	node.Location = b.getLocation(tsNode)
	node.Source = b.buildLiteral(nameNode)
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		b.buildStatements(bodyNode, node)
	}
	return node
}

// buildVariableDeclaration builds a variable declaration node
func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclaration)
	node.Location = b.getLocation(tsNode)

	// Extract kind (var, let, const)
	if tsNode.Type() == "lexical_declaration" {
		if kindNode := b.getChildByFieldName(tsNode, "kind"); kindNode != nil {
			node.Kind = kindNode.Content(b.source)
		} else if tsNode.ChildCount() > 0 {
			node.Kind = tsNode.Child(0).Content(b.source)
		}
	} else {
		node.Kind = "var"
	}

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || child.Type() != "variable_declarator" {
			continue
		}
		decl := NewNode(NodeVariableDeclarator)
		decl.Location = b.getLocation(child)
		if nameNode := b.getChildByFieldName(child, "name"); nameNode != nil {
			if nameNode.Type() == "identifier" {
				decl.Name = nameNode.Content(b.source)
			} else {
				for _, name := range b.patternNames(nameNode) {
					id := NewNode(NodeIdentifier)
					id.Name = name
					decl.AddChild(id)
				}
			}
		}
		node.Declarations = append(node.Declarations, decl)
	}

	return node
}

// patternNames returns the names bound by a destructuring pattern
func (b *ASTBuilder) patternNames(tsNode *sitter.Node) []string {
	var names []string
	switch tsNode.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{tsNode.Content(b.source)}
	case "pair_pattern":
		if value := b.getChildByFieldName(tsNode, "value"); value != nil {
			return b.patternNames(value)
		}
		return nil
	case "assignment_pattern", "object_assignment_pattern":
		if left := b.getChildByFieldName(tsNode, "left"); left != nil {
			return b.patternNames(left)
		}
	}
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if child := tsNode.NamedChild(i); child != nil {
			names = append(names, b.patternNames(child)...)
		}
	}
	return names
}

// buildAmbientDeclaration builds `declare ...`
func (b *ASTBuilder) buildAmbientDeclaration(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		node := b.buildNode(child)
		node.Ambient = true
		return node
	}
	node := NewNode(NodeStatement)
	node.Location = b.getLocation(tsNode)
	return node
}

// buildExpressionStatement unwraps statements tree-sitter wraps around namespaces
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && child.Type() == "internal_module" {
			return b.buildNamespace(child)
		}
	}
	node := NewNode(NodeStatement)
	node.Location = b.getLocation(tsNode)
	return node
}

// buildIdentifier builds an identifier node
func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.getLocation(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

// buildLiteral builds a string literal node
func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node) *Node {
	node := NewNode(NodeStringLiteral)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)
	return node
}

// buildImportStatement builds an import statement node
func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeImportDeclaration)
	node.Location = b.getLocation(tsNode)

	if sourceNode := b.getChildByFieldName(tsNode, "source"); sourceNode != nil {
		node.Source = b.buildLiteral(sourceNode)
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "type":
			node.IsType = true
		case "import_clause":
			b.extractImportClause(child, node)
		}
	}

	return node
}

// extractImportClause extracts specifiers from an import_clause node
func (b *ASTBuilder) extractImportClause(clauseNode *sitter.Node, node *Node) {
	for i := 0; i < int(clauseNode.ChildCount()); i++ {
		child := clauseNode.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "identifier":
			// import React from 'react'
			specNode := NewNode(NodeImportDefaultSpecifier)
			specNode.Location = b.getLocation(child)
			specNode.Name = child.Content(b.source)
			node.Specifiers = append(node.Specifiers, specNode)

		case "namespace_import":
			// import * as React from 'react'
			specNode := NewNode(NodeImportNamespaceSpecifier)
			specNode.Location = b.getLocation(child)
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if grandchild := child.NamedChild(j); grandchild != nil && grandchild.Type() == "identifier" {
					specNode.Name = grandchild.Content(b.source)
				}
			}
			node.Specifiers = append(node.Specifiers, specNode)

		case "named_imports":
			// import { useState, useEffect as effect } from 'react'
			for j := 0; j < int(child.NamedChildCount()); j++ {
				importSpec := child.NamedChild(j)
				if importSpec != nil && importSpec.Type() == "import_specifier" {
					node.Specifiers = append(node.Specifiers, b.buildImportSpecifier(importSpec))
				}
			}
		}
	}
}

// buildImportSpecifier builds an import specifier node
func (b *ASTBuilder) buildImportSpecifier(tsNode *sitter.Node) *Node {
	specNode := NewNode(NodeImportSpecifier)
	specNode.Location = b.getLocation(tsNode)

	imported := b.getChildByFieldName(tsNode, "name")
	if imported == nil {
		return specNode
	}
	specNode.Imported = b.buildIdentifier(imported)
	specNode.Name = specNode.Imported.Name
	if alias := b.getChildByFieldName(tsNode, "alias"); alias != nil {
		specNode.Name = alias.Content(b.source)
	}
	specNode.IsType = b.hasChildOfType(tsNode, "type")
	return specNode
}

// buildExportStatement builds an export statement node
func (b *ASTBuilder) buildExportStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeExportNamedDeclaration)
	node.Location = b.getLocation(tsNode)

	hasDefault := false
	hasWildcard := false

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "default":
			hasDefault = true
		case "*":
			hasWildcard = true
		case "type":
			node.IsType = true
		case "namespace_export":
			// export * as ns from 'module'
			hasWildcard = true
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if grandchild := child.NamedChild(j); grandchild != nil {
					node.Name = grandchild.Content(b.source)
				}
			}
		case "export_clause":
			b.extractExportClause(child, node)
		}
	}

	if hasDefault {
		node.Type = NodeExportDefaultDeclaration
	} else if hasWildcard {
		node.Type = NodeExportAllDeclaration
	}

	if declNode := b.getChildByFieldName(tsNode, "declaration"); declNode != nil {
		node.Declaration = b.buildNode(declNode)
	}

	// export default <expression>
	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		if valueNode.Type() == "identifier" {
			node.Declaration = b.buildIdentifier(valueNode)
		} else {
			node.Declaration = NewNode(NodeExpression)
			node.Declaration.Location = b.getLocation(valueNode)
			// export default function Foo() {} parsed as a named expression
			if nameNode := b.getChildByFieldName(valueNode, "name"); nameNode != nil {
				node.Declaration.Name = nameNode.Content(b.source)
			}
		}
	}

	if sourceNode := b.getChildByFieldName(tsNode, "source"); sourceNode != nil {
		node.Source = b.buildLiteral(sourceNode)
	}

	return node
}

// extractExportClause extracts specifiers from an export_clause node
func (b *ASTBuilder) extractExportClause(clauseNode *sitter.Node, node *Node) {
	for i := 0; i < int(clauseNode.NamedChildCount()); i++ {
		child := clauseNode.NamedChild(i)
		if child == nil || child.Type() != "export_specifier" {
			continue
		}

		specNode := NewNode(NodeExportSpecifier)
		specNode.Location = b.getLocation(child)
		specNode.IsType = b.hasChildOfType(child, "type")

		nameNode := b.getChildByFieldName(child, "name")
		if nameNode == nil {
			continue
		}
		// export { foo } or export { foo as bar }
		specNode.Local = b.buildIdentifier(nameNode)
		specNode.Name = specNode.Local.Name
		if alias := b.getChildByFieldName(child, "alias"); alias != nil {
			specNode.Name = alias.Content(b.source)
		}

		node.Specifiers = append(node.Specifiers, specNode)
	}
}

// Helper methods

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

func (b *ASTBuilder) hasChildOfType(tsNode *sitter.Node, nodeType string) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil && child.Type() == nodeType {
			return true
		}
	}
	return false
}

// isTrivia checks if a node is trivia (whitespace, comments, etc.)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "block_comment" ||
		nodeType == ""
}
