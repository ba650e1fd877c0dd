package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// Module-level node types. Statements that neither declare nor import/export a name are
// kept as NodeStatement without children.
const (
	NodeProgram NodeType = "Program"

	// Declarations
	NodeFunction             NodeType = "FunctionDeclaration"
	NodeClass                NodeType = "ClassDeclaration"
	NodeVariableDeclaration  NodeType = "VariableDeclaration"
	NodeVariableDeclarator   NodeType = "VariableDeclarator"
	NodeInterfaceDeclaration NodeType = "InterfaceDeclaration"
	NodeTypeAlias            NodeType = "TypeAliasDeclaration"
	NodeEnumDeclaration      NodeType = "EnumDeclaration"
	NodeNamespace            NodeType = "NamespaceDeclaration"
	NodeAmbientModule        NodeType = "AmbientModuleDeclaration"

	NodeIdentifier    NodeType = "Identifier"
	NodeStringLiteral NodeType = "StringLiteral"
	NodeExpression    NodeType = "Expression"
	NodeStatement     NodeType = "Statement"

	// Module system (ESM)
	NodeImportDeclaration        NodeType = "ImportDeclaration"
	NodeImportSpecifier          NodeType = "ImportSpecifier"
	NodeImportDefaultSpecifier   NodeType = "ImportDefaultSpecifier"
	NodeImportNamespaceSpecifier NodeType = "ImportNamespaceSpecifier"
	NodeExportNamedDeclaration   NodeType = "ExportNamedDeclaration"
	NodeExportDefaultDeclaration NodeType = "ExportDefaultDeclaration"
	NodeExportAllDeclaration     NodeType = "ExportAllDeclaration"
	NodeExportSpecifier          NodeType = "ExportSpecifier"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name is the declared, imported or exported name
	Name string

	// Raw is the source text of literals
	Raw string

	// Body holds the top-level statements of a program or namespace
	Body []*Node

	// Kind is var, let or const for variable declarations
	Kind         string
	Declarations []*Node

	// Import/Export fields
	Source      *Node   // Module specifier
	Specifiers  []*Node // Import/export specifiers
	Declaration *Node   // Exported declaration or default value
	Imported    *Node   // Imported name of an import specifier
	Local       *Node   // Local name of an export specifier

	// IsType marks type-only imports, exports and declarations
	IsType bool

	// Ambient marks `declare` declarations
	Ambient bool
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:         nodeType,
		Children:     []*Node{},
		Body:         []*Node{},
		Declarations: []*Node{},
		Specifiers:   []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first and calls the visitor function for each node
// If the visitor returns false, traversal of that branch is stopped
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, decl := range n.Declarations {
		decl.Walk(visitor)
	}
	for _, spec := range n.Specifiers {
		spec.Walk(visitor)
	}
	if n.Source != nil {
		n.Source.Walk(visitor)
	}
	if n.Declaration != nil {
		n.Declaration.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsDeclaration returns true if the node declares a module-level name
func (n *Node) IsDeclaration() bool {
	switch n.Type {
	case NodeFunction, NodeClass, NodeVariableDeclaration,
		NodeInterfaceDeclaration, NodeTypeAlias, NodeEnumDeclaration, NodeNamespace:
		return true
	}
	return false
}

// DeclaredNames returns the names introduced by a declaration node
func (n *Node) DeclaredNames() []string {
	if n == nil {
		return nil
	}
	if n.Type == NodeVariableDeclaration {
		var names []string
		for _, decl := range n.Declarations {
			if decl.Name != "" {
				names = append(names, decl.Name)
			}
			for _, child := range decl.Children {
				if child.Type == NodeIdentifier {
					names = append(names, child.Name)
				}
			}
		}
		return names
	}
	if n.IsDeclaration() && n.Name != "" {
		return []string{n.Name}
	}
	return nil
}
