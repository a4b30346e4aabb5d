package lexer

import "fmt"

// Kind identifies the variant of a Token. Diazo's lexer emits a flat,
// tagged token stream; most variants carry no payload, a handful carry a
// single string, and one (ContentWithFormatting, synthesized only by the
// parser) carries a nested token sequence.
type Kind int

const (
	// Null terminates a token stream so the parser's look-behind state
	// machine never has to special-case end-of-input.
	Null Kind = iota

	// Separator is one of the content-level delimiters ::, ->, ,,
	Separator
	// Tab is one unit of line-leading indentation.
	Tab
	// Linebreak is an end-of-line marker synthesized by the lexer.
	Linebreak

	// UseKeyword is *use.
	UseKeyword
	// Filename is the literal immediately following *use.
	Filename

	// CommentLine is //.
	CommentLine
	// CommentOpen is /*; it is also pushed onto the lexer's scope stack.
	CommentOpen
	// CommentContents is accumulated comment text.
	CommentContents

	// TypeKeyword is *type.
	TypeKeyword
	// TypeName is a declared type's name.
	TypeName
	// Assignment is =>.
	Assignment
	// E is an element-formatter declaration argument (begins with e).
	E
	// C is a content-formatter declaration argument (begins with c).
	C
	// Any is the wildcard declaration argument.
	Any
	// TypeAsDeclarationParameter is a previously declared type used as an
	// argument in another type's declaration.
	TypeAsDeclarationParameter

	// TypeInstance is an instantiation of a declared type.
	TypeInstance
	// Content is free prose.
	Content

	// CodeBlockOpen is [[.
	CodeBlockOpen
	// CodeBlockClose is ]].
	CodeBlockClose
	// MathBlockOpen is {{.
	MathBlockOpen
	// MathBlockClose is }}.
	MathBlockClose

	// Element is a synthetic grouping node the parser inserts under a
	// TypeInstance to hold the indented members of a collection.
	Element
	// ContentWithFormatting packages a run of prose and inline code/math
	// blocks into one token; only the parser produces it.
	ContentWithFormatting
	// CodeBlock packages the text between a CodeBlockOpen/Close pair;
	// only the parser produces it.
	CodeBlock
	// MathBlock is CodeBlock's counterpart for {{ }}.
	MathBlock
)

var kindNames = map[Kind]string{
	Null:                       "Null",
	Separator:                  "Separator",
	Tab:                        "Tab",
	Linebreak:                  "Linebreak",
	UseKeyword:                 "UseKeyword",
	Filename:                   "Filename",
	CommentLine:                "CommentLine",
	CommentOpen:                "CommentOpen",
	CommentContents:            "CommentContents",
	TypeKeyword:                "TypeKeyword",
	TypeName:                   "TypeName",
	Assignment:                 "Assignment",
	E:                          "E",
	C:                          "C",
	Any:                        "Any",
	TypeAsDeclarationParameter: "TypeAsDeclarationParameter",
	TypeInstance:               "TypeInstance",
	Content:                    "Content",
	CodeBlockOpen:              "CodeBlockOpen",
	CodeBlockClose:             "CodeBlockClose",
	MathBlockOpen:              "MathBlockOpen",
	MathBlockClose:             "MathBlockClose",
	Element:                    "Element",
	ContentWithFormatting:      "ContentWithFormatting",
	CodeBlock:                  "CodeBlock",
	MathBlock:                  "MathBlock",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a tagged value produced by the lexer (and, for Element /
// ContentWithFormatting / CodeBlock / MathBlock, by the parser). Text holds
// the payload for every string-carrying variant; Formatting holds the
// nested sequence for ContentWithFormatting. Line and Word locate the token
// for diagnostics.
type Token struct {
	Kind       Kind
	Text       string
	Formatting []Token
	Line       int
	Word       int
}

// separators lists the accepted separator variants, in the order the
// lexer checks them.
var separators = []string{"::", "->", ",,"}

// Separators returns the accepted content-level separator forms.
func Separators() []string {
	out := make([]string, len(separators))
	copy(out, separators)
	return out
}

func (t Token) String() string {
	switch t.Kind {
	case Separator, Filename, CommentContents, TypeName, E, C,
		TypeAsDeclarationParameter, TypeInstance, Content, CodeBlock, MathBlock:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	case ContentWithFormatting:
		return fmt.Sprintf("ContentWithFormatting(%d parts)", len(t.Formatting))
	default:
		return t.Kind.String()
	}
}
