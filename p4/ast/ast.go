// Package ast declares the abstract syntax tree produced by the packet-
// processing-language parser.
//
// A Node is a single tagged sum type: a Kind discriminant plus a
// variant-specific Payload, rather than one Go type per AST production
// implementing a common interface. Passes dispatch with an exhaustive
// switch over Kind.
package ast

import "github.com/dfrunza/ashp4c-sub003/p4/token"

// Kind discriminates the ~70 AST node variants this front end builds.
// Language constructs left as future work (table entries,
// simpleProperty) have no Kind at all: the parser never produces a node
// for them, so there is nothing for internal/sema's dispatch switches
// to carry a case for; each already falls through to
// an explicit default for any Kind it does not recognize.
type Kind uint16

const (
	Invalid Kind = iota

	// Program structure.
	Program
	DeclarationList

	// Declarations.
	ParameterList
	Parameter
	PackageTypeDeclaration
	Instantiation
	ParserDeclaration
	ParserTypeDeclaration
	ParserLocalElements
	ParserState
	ControlDeclaration
	ControlTypeDeclaration
	ControlLocalDeclarations
	ExternDeclaration
	ExternTypeDeclaration
	FunctionPrototype
	FunctionDeclaration
	ActionDeclaration
	TableDeclaration
	TablePropertyList
	VariableDeclaration
	TypedefDeclaration
	HeaderTypeDeclaration
	HeaderUnionDeclaration
	StructTypeDeclaration
	StructFieldList
	StructField
	EnumDeclaration
	ErrorDeclaration
	MatchKindDeclaration
	IdentifierList

	// Types.
	TypeRef
	BaseType
	SpecializedType
	StackType
	TupleType

	// Statements.
	BlockStatement
	AssignmentStatement
	MethodCallStatement
	ReturnStatement
	ExitStatement
	ConditionalStatement
	DirectApplication
	SwitchStatement
	SwitchCase

	// Parser-state machinery.
	ParserBlockStatement
	TransitionStatement
	SelectExpression
	SelectCase
	KeysetExpression
	TupleKeysetExpression

	// Expressions.
	Name
	TypeName
	LValueExpression
	BinaryExpression
	UnaryExpression
	MemberSelector
	ArraySubscript
	FunctionCall
	ParenExpression
	Argument
	ArgumentList
	ExpressionList
	IntLiteral
	BoolLiteral
	StringLiteral
	DontCare
	DefaultExpression

	BadNode
)

//go:generate stringer -type=Kind

// Direction classifies a parameter's data-flow direction.
type Direction uint8

const (
	DirNone Direction = iota
	DirIn
	DirOut
	DirInOut
)

// Node is a single AST node: a kind tag, a source position, intrusive
// first-child/right-sibling tree links, and a variant-specific payload.
//
// A parent owns FirstChild; a node owns NextSibling, so even variadic
// nodes form a single-owner tree. Identity equality is by pointer.
type Node struct {
	Kind Kind
	Pos  token.Pos

	FirstChild  *Node
	NextSibling *Node

	// Payload holds one of the *Payload structs below, selected by Kind.
	// Leaf nodes with no variant data (e.g. DontCare, DefaultExpression)
	// leave this nil.
	Payload interface{}
}

// IdentPayload backs Name and TypeName nodes.
type IdentPayload struct {
	Value string
}

// LitPayload backs IntLiteral, BoolLiteral, and StringLiteral nodes.
type LitPayload struct {
	Text string // literal lexeme as written, e.g. "8w0", "true", `"foo"`
}

// BinaryPayload backs BinaryExpression nodes. Children (in order) are the
// left and right operand expressions.
type BinaryPayload struct {
	Op token.Kind
}

// UnaryPayload backs UnaryExpression nodes. The single child is the operand.
type UnaryPayload struct {
	Op token.Kind
}

// MemberPayload backs MemberSelector nodes. The single child is the lhs
// expression; Member is the selected name.
type MemberPayload struct {
	Member string
}

// ArgumentPayload backs Argument nodes. Name is "" for a positional
// argument and non-empty for a named "name = expr" argument. The single
// child is the argument expression.
type ArgumentPayload struct {
	Name string
}

// DeclPayload backs every declaration-introducing node (Parameter,
// VariableDeclaration, Instantiation, ParserState, table/action/function
// names, struct/enum/error/match_kind members, typedefs, packages).
type DeclPayload struct {
	Name      string
	Direction Direction // meaningful only for Parameter
}

// BaseTypePayload backs BaseType nodes (void, bool, int, bit<N>,
// varbit<N>, string, error, match_kind). Width is the bit-width for
// bit/varbit/int types that carry one, or -1 if absent (plain "int").
type BaseTypePayload struct {
	Keyword token.Kind
	Width   int
}

// TransitionPayload backs TransitionStatement nodes; its single child is
// either a Name (direct transition) or a SelectExpression.
type TransitionPayload struct{}

// Decls returns the children of the root node's single DeclarationList
// child.
func (n *Node) Decls() []*Node {
	if n == nil || n.FirstChild == nil {
		return nil
	}
	return n.FirstChild.Children()
}

// Children returns n's children in declaration order via the intrusive
// tree links.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Child returns n's i'th child (0-based), or nil if there is no such
// child.
func (n *Node) Child(i int) *Node {
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// AddChild appends child to n's child list, preserving declaration order.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	if n.FirstChild == nil {
		n.FirstChild = child
		return
	}
	last := n.FirstChild
	for last.NextSibling != nil {
		last = last.NextSibling
	}
	last.NextSibling = child
}

// Ident returns the identifier payload's text for Name/TypeName nodes, or
// "" for any other kind.
func (n *Node) Ident() string {
	if n == nil {
		return ""
	}
	if p, ok := n.Payload.(*IdentPayload); ok {
		return p.Value
	}
	return ""
}

// DeclName returns the declared identifier for a declaration node, or ""
// if n does not carry a DeclPayload.
func (n *Node) DeclName() string {
	if n == nil {
		return ""
	}
	if p, ok := n.Payload.(*DeclPayload); ok {
		return p.Name
	}
	return ""
}

// New allocates a Node of the given kind at pos. Construction does not
// go through an arena (see internal/arena for the pool used by types);
// AST nodes are plain heap allocations. No node is ever individually
// freed: the whole tree lives for the compilation and is reclaimed in
// bulk by the garbage collector.
func New(kind Kind, pos token.Pos) *Node {
	return &Node{Kind: kind, Pos: pos}
}
