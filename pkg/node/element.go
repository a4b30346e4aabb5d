package node

// Kind tags the root of a parsed tree with what kind of top-level
// construct it represents, per the parser's three possible outputs.
type Kind int

const (
	// TypeDeclaration roots a *type ... => ... declaration tree.
	TypeDeclaration Kind = iota
	// TypeExpression roots a TypeInstance tree: a type name followed by
	// its indented content/members.
	TypeExpression
	// RawText roots a run of un-typed prose at the top level.
	RawText
)

func (k Kind) String() string {
	switch k {
	case TypeDeclaration:
		return "TypeDeclaration"
	case TypeExpression:
		return "TypeExpression"
	case RawText:
		return "RawText"
	default:
		return "Unknown"
	}
}

// Element is one top-level unit the parser produces: a tagged tree root.
// A full parse is a []Element, one per top-level declaration, instance, or
// raw text run, in source order.
type Element struct {
	Kind Kind
	Root *TreeNode
}

// Walk traverses e's tree preorder.
func (e Element) Walk(v Visitor) error {
	return e.Root.Walk(v)
}

// String renders a short, single-line summary of e, grounded on the
// original implementation's print() methods for its IR nodes.
func (e Element) String() string {
	name := e.Root.Token.Text
	if name == "" {
		name = e.Root.Token.Kind.String()
	}
	return e.Kind.String() + "(" + name + ")"
}
