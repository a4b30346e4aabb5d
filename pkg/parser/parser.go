// Package parser turns a lexer token stream into an ordered list of IR
// elements. It is a single linear pass dispatching on the *previous*
// token (the lookahead merely supplies one token of context), generalized
// from the teacher's recursive-descent parser (advance/current/peek,
// NewParser/Errors()/addError) to Diazo's scope-less, indentation-driven
// grammar described in original_source/src/lib.rs's parse_contents.
package parser

import (
	"github.com/diazo-lang/diazo/internal/diagnostics"
	"github.com/diazo-lang/diazo/internal/errs"
	"github.com/diazo-lang/diazo/pkg/lexer"
	"github.com/diazo-lang/diazo/pkg/node"
)

// Parser holds the state threaded through one parse: the current tree
// pointer, the two indentation counters, the in-progress formatting stack,
// and the finished element list.
type Parser struct {
	sink   diagnostics.Sink
	errors []*errs.Error

	tree            *node.TreeNode
	formattingStack []lexer.Token
	lineScope       int
	lastLineScope   int
	elements        []node.Element
}

// New returns a Parser reporting through sink (may be nil).
func New(sink diagnostics.Sink) *Parser {
	return &Parser{sink: sink}
}

// Errors returns every error accumulated across calls to Parse.
func (p *Parser) Errors() []*errs.Error {
	return p.errors
}

func (p *Parser) addError(err *errs.Error) {
	p.errors = append(p.errors, err)
	if p.sink != nil {
		p.sink.Report(diagnostics.Diagnostic{Err: err})
	}
}

// Parse consumes tokens and returns the ordered IR element list. It fails
// fast: the first structural error aborts the parse.
func (p *Parser) Parse(tokens []lexer.Token) ([]node.Element, error) {
	p.tree = nil
	p.formattingStack = nil
	p.lineScope = 0
	p.lastLineScope = 0
	p.elements = nil

	stream := make([]lexer.Token, 0, len(tokens)+1)
	stream = append(stream, tokens...)
	stream = append(stream, lexer.Token{Kind: lexer.Null})

	prev := lexer.Token{Kind: lexer.Null}
	for _, lookahead := range stream {
		if err := p.dispatch(prev, lookahead); err != nil {
			p.addError(err)
			return nil, err
		}
		prev = lookahead
	}
	return p.elements, nil
}

// ParseTokens is a convenience wrapper for one-off parses where errors
// don't need a diagnostics sink.
func ParseTokens(tokens []lexer.Token) ([]node.Element, error) {
	return New(nil).Parse(tokens)
}

func (p *Parser) dispatch(prev, lookahead lexer.Token) error {
	switch prev.Kind {
	case lexer.Null:
		return nil

	case lexer.Linebreak:
		return p.dispatchLinebreak(prev, lookahead)

	case lexer.Tab:
		return p.dispatchTab(lookahead)

	case lexer.TypeKeyword:
		if p.tree != nil {
			return p.parseError(prev, "*type cannot appear inside another expression or statement")
		}
		p.tree = node.NewTreeNode(prev)
		return nil

	case lexer.TypeName:
		if p.tree == nil {
			return p.parseError(prev, "a type name must appear inside a type declaration")
		}
		if p.tree.Token.Kind != lexer.TypeKeyword {
			return p.parseError(prev, "a type name must be nested directly under *type")
		}
		p.tree.AddChild(node.NewTreeNode(prev))
		return nil

	case lexer.Assignment:
		if p.tree == nil {
			return p.parseError(prev, "=> found outside a type declaration")
		}
		if p.tree.Token.Kind != lexer.TypeKeyword {
			return p.parseError(prev, "=> must be nested directly under *type")
		}
		child := node.NewTreeNode(prev)
		p.tree.AddChild(child)
		p.tree = child
		return nil

	case lexer.C:
		if p.tree == nil {
			return p.parseError(prev, "a content-formatter argument was placed outside a type declaration")
		}
		if p.tree.Token.Kind != lexer.Assignment && p.tree.Token.Kind != lexer.E {
			return p.parseError(prev, "a content-formatter argument must follow => or an element-formatter argument")
		}
		p.tree.AddChild(node.NewTreeNode(prev))
		return nil

	case lexer.E:
		if p.tree == nil {
			return p.parseError(prev, "an element-formatter argument was placed outside a type declaration")
		}
		if p.tree.Token.Kind != lexer.Assignment {
			return p.parseError(prev, "an element-formatter argument must follow =>")
		}
		child := node.NewTreeNode(prev)
		p.tree.AddChild(child)
		p.tree = child
		return nil

	case lexer.Any:
		if p.tree == nil {
			return p.parseError(prev, "\"any\" was placed outside a type declaration")
		}
		if p.tree.Token.Kind != lexer.Assignment && p.tree.Token.Kind != lexer.E {
			return p.parseError(prev, "\"any\" must follow => or an element-formatter argument")
		}
		p.tree.AddChild(node.NewTreeNode(prev))
		return nil

	case lexer.TypeAsDeclarationParameter:
		if p.tree == nil {
			return p.parseError(prev, "a type argument was placed outside a type declaration")
		}
		if p.tree.Token.Kind != lexer.Assignment && p.tree.Token.Kind != lexer.E {
			return p.parseError(prev, "a type argument must follow => or an element-formatter argument")
		}
		p.tree.AddChild(node.NewTreeNode(prev))
		return nil

	case lexer.TypeInstance:
		return p.dispatchTypeInstance(prev)

	case lexer.Content:
		return p.dispatchContent(prev, lookahead)

	case lexer.CodeBlockClose, lexer.MathBlockClose:
		return p.dispatchBlockClose(lookahead)

	case lexer.Separator, lexer.UseKeyword, lexer.Filename, lexer.CommentLine,
		lexer.CommentOpen, lexer.CommentContents, lexer.CodeBlockOpen, lexer.MathBlockOpen:
		return nil

	case lexer.Element, lexer.ContentWithFormatting, lexer.CodeBlock, lexer.MathBlock:
		return p.parseError(prev, "token cannot occur in lexer output")

	default:
		return p.parseError(prev, "unrecognized token")
	}
}

func (p *Parser) dispatchTypeInstance(prev lexer.Token) error {
	if p.tree == nil {
		p.tree = node.NewTreeNode(prev)
		return nil
	}
	switch p.tree.Token.Kind {
	case lexer.Element, lexer.ContentWithFormatting:
		child := node.NewTreeNode(prev)
		p.tree.AddChild(child)
		p.tree = child
		return nil
	case lexer.TypeInstance:
		return p.parseError(prev, "a type name on its own line instantiates a new sibling; it cannot follow another type instance directly")
	case lexer.TypeKeyword, lexer.Assignment, lexer.E:
		return p.parseError(prev, "a type expression cannot be nested under a type declaration")
	default:
		return p.parseError(prev, "a type expression cannot be placed here")
	}
}

// dispatchContent implements the formatting-stack packaging rules: prose
// adjacent to a code/math block is deferred onto the stack until the block
// closes or the run of prose ends.
func (p *Parser) dispatchContent(prev, lookahead lexer.Token) error {
	switch lookahead.Kind {
	case lexer.CodeBlockOpen, lexer.MathBlockOpen:
		p.formattingStack = append(p.formattingStack, prev)
		return nil
	case lexer.CodeBlockClose:
		p.formattingStack = append(p.formattingStack, lexer.Token{Kind: lexer.CodeBlock, Text: prev.Text})
		return nil
	case lexer.MathBlockClose:
		p.formattingStack = append(p.formattingStack, lexer.Token{Kind: lexer.MathBlock, Text: prev.Text})
		return nil
	default:
		p.formattingStack = append(p.formattingStack, prev)
		p.attachFormatting()
		return nil
	}
}

func (p *Parser) dispatchBlockClose(lookahead lexer.Token) error {
	switch lookahead.Kind {
	case lexer.Content, lexer.CodeBlockOpen, lexer.MathBlockOpen:
		return nil
	default:
		p.attachFormatting()
		return nil
	}
}

// attachFormatting packages the pending formatting stack into one
// ContentWithFormatting token, appending it to the current tree (without
// descending) or starting a fresh tree when none is open.
func (p *Parser) attachFormatting() {
	packaged := node.NewTreeNode(lexer.Token{Kind: lexer.ContentWithFormatting, Formatting: p.formattingStack})
	if p.tree == nil {
		p.tree = packaged
	} else {
		p.tree.AddChild(packaged)
	}
	p.formattingStack = nil
}

// dispatchTab runs once per Tab token. Intermediate tabs in a run just
// bump lineScope; the decision of whether this line's indentation nests
// under the open tree or closes it out is only safe to make once the
// whole run has been counted, which is why it lives here (on the last
// tab, lookahead != Tab) rather than in the Linebreak dispatch that
// precedes it; see DESIGN.md ("Deliberate deviations", item 1) for how the
// original's placement of this check one token earlier nests a second
// member at the same indent under the first instead of beside it.
func (p *Parser) dispatchTab(lookahead lexer.Token) error {
	if lookahead.Kind == lexer.Tab {
		p.lineScope++
		return nil
	}
	p.lineScope++
	if p.tree == nil {
		return nil
	}
	switch p.tree.Token.Kind {
	case lexer.TypeInstance:
		if p.lineScope > p.lastLineScope {
			if p.tree.Parent != nil && p.tree.Parent.Token.Kind == lexer.Element {
				p.tree = p.tree.Parent
			} else {
				element := node.NewTreeNode(lexer.Token{Kind: lexer.Element})
				p.tree.AddChild(element)
				p.tree = element
			}
			return nil
		}
		return p.finalizeExpression(lexer.Token{Line: lookahead.Line, Word: lookahead.Word})
	case lexer.Element:
		if p.lineScope <= p.lastLineScope {
			p.tree = p.tree.Parent
			return p.finalizeExpression(lexer.Token{Line: lookahead.Line, Word: lookahead.Word})
		}
	}
	return nil
}

func (p *Parser) dispatchLinebreak(prev, lookahead lexer.Token) error {
	p.lastLineScope = p.lineScope

	if p.tree == nil {
		return nil
	}

	if lookahead.Kind == lexer.Tab {
		switch p.tree.Token.Kind {
		case lexer.Assignment, lexer.E:
			return p.parseError(lookahead, "tabs cannot nest under a type declaration")
		default:
			// ContentWithFormatting/TypeInstance/Element: whether this
			// new line's indentation keeps the tree open isn't knowable
			// until its tabs are fully counted, so defer to dispatchTab.
			return nil
		}
	}

	switch p.tree.Token.Kind {
	case lexer.Assignment:
		return p.finalizeDeclaration(prev, 1)
	case lexer.E:
		return p.finalizeDeclaration(prev, 2)
	case lexer.ContentWithFormatting, lexer.TypeInstance:
		if p.lineScope > p.lastLineScope {
			return nil
		}
		return p.finalizeExpression(prev)
	case lexer.Element:
		p.tree = p.tree.Parent
		return nil
	default:
		return p.parseError(prev, "token appears out of place as the root of an expression")
	}
}

// finalizeDeclaration walks up `steps` parents from the current tree
// pointer, verifies the ancestor reached is the declaration's TypeKeyword
// root, and emits it as a TypeDeclaration element.
func (p *Parser) finalizeDeclaration(prev lexer.Token, steps int) error {
	root := p.tree
	for i := 0; i < steps; i++ {
		if root.Parent == nil {
			return p.parseError(prev, "type declaration is missing its *type root")
		}
		root = root.Parent
	}
	if root.Token.Kind != lexer.TypeKeyword {
		return p.parseError(prev, "type declaration's root is not *type")
	}
	p.elements = append(p.elements, node.Element{Kind: node.TypeDeclaration, Root: root})
	p.tree = nil
	return nil
}

// finalizeExpression walks the current tree pointer up to its root and
// emits a RawText or TypeExpression element depending on the root's kind.
func (p *Parser) finalizeExpression(prev lexer.Token) error {
	root := p.tree
	for root.Parent != nil {
		root = root.Parent
	}
	switch root.Token.Kind {
	case lexer.ContentWithFormatting:
		p.elements = append(p.elements, node.Element{Kind: node.RawText, Root: root})
	case lexer.TypeInstance:
		p.elements = append(p.elements, node.Element{Kind: node.TypeExpression, Root: root})
	default:
		return p.parseError(prev, "tree root is neither free text nor a type instance")
	}
	p.tree = nil
	return nil
}

func (p *Parser) parseError(tok lexer.Token, reason string) error {
	word := tok.Text
	if word == "" {
		word = tok.Kind.String()
	}
	return errs.New(errs.Parse, errs.Position{Line: tok.Line, Word: tok.Word}, word, reason)
}
