// Package node holds the tree shape the parser builds: a TreeNode per
// token that carries structure (type declarations, type instances, and the
// synthetic groupings the parser introduces), linked by strong
// parent-to-child and plain child-to-parent pointers. Go's garbage
// collector handles the resulting reference cycle the way the original
// implementation's Rc<RefCell<>>/Weak split did by construction; see
// SPEC_FULL.md §9 for why this package keeps plain pointers instead of
// reintroducing a Weak-equivalent.
package node

import "github.com/diazo-lang/diazo/pkg/lexer"

// TreeNode is one node of a parsed Diazo tree. Children is the strong,
// top-down edge the tree is built from; Parent lets a builder walk back up
// without maintaining a separate stack, grounded on the teacher's
// Parent-pointer tree shape (v1/pkg/node).
type TreeNode struct {
	Token    lexer.Token
	Parent   *TreeNode
	Children []*TreeNode
}

// NewTreeNode returns a childless, parentless node wrapping tok.
func NewTreeNode(tok lexer.Token) *TreeNode {
	return &TreeNode{Token: tok}
}

// AddChild appends child to n's children and sets child's parent to n.
func (n *TreeNode) AddChild(child *TreeNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Visitor receives one TreeNode at a time during a Walk.
type Visitor interface {
	Visit(n *TreeNode) error
}

// VisitorFunc adapts a plain function to Visitor.
type VisitorFunc func(n *TreeNode) error

// Visit implements Visitor.
func (f VisitorFunc) Visit(n *TreeNode) error { return f(n) }

// Walk traverses n and its descendants preorder, stopping at the first
// error a Visitor returns. This replaces the original implementation's
// ReaderTuple/preorder_read as a general preorder traversal for callers;
// apart from Element.Walk, nothing in this module calls it (pkg/interpreter
// descends trees with its own recursion).
func (n *TreeNode) Walk(v Visitor) error {
	if n == nil {
		return nil
	}
	if err := v.Visit(n); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.Walk(v); err != nil {
			return err
		}
	}
	return nil
}
