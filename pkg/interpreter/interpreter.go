// Package interpreter is the thin shell a host embeds to consume a parsed
// Diazo program. It owns nothing beyond the single Accept entrypoint: all
// interpretation semantics are supplied by the caller's Visitor, generalized
// from the teacher's node.Visitor seam (VisitScalar/VisitSequence/VisitMapping
// in pkg/node/node.go) to Diazo's three element kinds plus the Element
// grouping boundary the parser introduces for indented collections.
package interpreter

import (
	"github.com/diazo-lang/diazo/pkg/lexer"
	"github.com/diazo-lang/diazo/pkg/node"
)

// Visitor receives callbacks as Accept walks a parsed program. A Visitor
// that only cares about some element kinds can embed BaseVisitor and
// override the rest.
type Visitor interface {
	VisitTypeDeclaration(el node.Element) error
	VisitTypeExpression(el node.Element) error
	VisitRawText(el node.Element) error
	VisitElementGroup(group *node.TreeNode) error
}

// BaseVisitor implements Visitor with no-op methods, so a caller can embed
// it and override only the callbacks it cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitTypeDeclaration(node.Element) error  { return nil }
func (BaseVisitor) VisitTypeExpression(node.Element) error   { return nil }
func (BaseVisitor) VisitRawText(node.Element) error          { return nil }
func (BaseVisitor) VisitElementGroup(*node.TreeNode) error   { return nil }

// Accept walks elements in source order, dispatching each top-level element
// to the matching Visitor callback and then descending into its tree to
// call VisitElementGroup at every Element boundary the parser introduced
// (the indented-member groupings under a TypeInstance). It stops at the
// first error, mirroring the lexer/parser's fail-fast propagation rule.
func Accept(elements []node.Element, v Visitor) error {
	for _, el := range elements {
		switch el.Kind {
		case node.TypeDeclaration:
			if err := v.VisitTypeDeclaration(el); err != nil {
				return err
			}
		case node.TypeExpression:
			if err := v.VisitTypeExpression(el); err != nil {
				return err
			}
		case node.RawText:
			if err := v.VisitRawText(el); err != nil {
				return err
			}
		}
		if err := visitGroups(el.Root, v); err != nil {
			return err
		}
	}
	return nil
}

// visitGroups descends n's children, calling VisitElementGroup for every
// Element node encountered (the synthetic sibling-group wrapper dispatchTab
// introduces), recursing into its members so nested groups are also seen.
func visitGroups(n *node.TreeNode, v Visitor) error {
	for _, child := range n.Children {
		if child.Token.Kind == lexer.Element {
			if err := v.VisitElementGroup(child); err != nil {
				return err
			}
		}
		if err := visitGroups(child, v); err != nil {
			return err
		}
	}
	return nil
}
