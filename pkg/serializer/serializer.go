// Package serializer reconstructs source text from a lexer.Token stream,
// adapted from the teacher's AST-to-YAML-text Serializer (pkg/serializer)
// into a Diazo token-stream-to-text writer. It exists to support P5's
// round-trip property (lex, reconstruct, re-lex, same token kinds) rather
// than to reproduce byte-identical source.
package serializer

import (
	"io"
	"strings"

	"github.com/diazo-lang/diazo/pkg/lexer"
)

// Options configures reconstruction. Indent is the text written per Tab
// token; Separator the original form chosen for Separator tokens that
// carry no own text is deliberately left as the token's own Text field,
// since the lexer always records the separator it matched.
type Options struct {
	Indent string
}

// DefaultOptions returns the reconstruction defaults: one literal tab per
// Tab token, matching the grammar's own expansion of "\t" to " *tab! ".
func DefaultOptions() *Options {
	return &Options{Indent: "\t"}
}

// Serializer writes a token stream back out as Diazo source text.
type Serializer struct {
	writer  io.Writer
	options *Options
	buffer  strings.Builder
}

// NewSerializer creates a Serializer writing to w.
func NewSerializer(w io.Writer, opts *Options) *Serializer {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Serializer{writer: w, options: opts}
}

// Write renders tokens as source text and flushes the result to the
// underlying writer.
func (s *Serializer) Write(tokens []lexer.Token) error {
	s.buffer.Reset()
	for _, tok := range tokens {
		s.writeToken(tok)
	}
	_, err := io.WriteString(s.writer, s.buffer.String())
	return err
}

func (s *Serializer) writeToken(tok lexer.Token) {
	switch tok.Kind {
	case lexer.Linebreak:
		s.buffer.WriteByte('\n')
	case lexer.Tab:
		s.buffer.WriteString(s.options.Indent)
	case lexer.TypeKeyword:
		s.buffer.WriteString("*type ")
	case lexer.UseKeyword:
		s.buffer.WriteString("*use ")
	case lexer.Assignment:
		s.buffer.WriteString(" => ")
	case lexer.TypeName, lexer.Filename, lexer.TypeInstance,
		lexer.TypeAsDeclarationParameter, lexer.E, lexer.C,
		lexer.Content, lexer.CommentContents, lexer.Separator:
		s.buffer.WriteString(tok.Text)
	case lexer.CommentLine:
		s.buffer.WriteString("// ")
	case lexer.CommentOpen:
		s.buffer.WriteString("/* ")
	case lexer.CodeBlockOpen:
		s.buffer.WriteString("[[ ")
	case lexer.CodeBlockClose:
		s.buffer.WriteString(" ]]")
	case lexer.MathBlockOpen:
		s.buffer.WriteString("{{ ")
	case lexer.MathBlockClose:
		s.buffer.WriteString(" }}")
	case lexer.Any:
		s.buffer.WriteString("any")
	}
}

// Reconstruct is a convenience wrapper returning the rendered text as a
// string instead of writing through an io.Writer.
func Reconstruct(tokens []lexer.Token) string {
	var sb strings.Builder
	s := NewSerializer(&sb, nil)
	_ = s.Write(tokens)
	return sb.String()
}
