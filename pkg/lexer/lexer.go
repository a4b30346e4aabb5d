// Package lexer turns Diazo source text into a flat token stream, resolving
// *use imports through a recursive, abridged re-entry of the same state
// machine. See SPEC_FULL.md §4.1/§4.2 for the full grammar this package
// implements; the state machine below is a direct generalization of the
// teacher's line/column tracking lexer (v1/pkg/lexer/lexer.go) to Diazo's
// three-mode, scope-stack-driven grammar described in
// original_source/src/lib.rs.
package lexer

import (
	"strings"

	"github.com/diazo-lang/diazo/internal/diagnostics"
	"github.com/diazo-lang/diazo/internal/errs"
	"github.com/diazo-lang/diazo/internal/source"
)

type mode int

const (
	modeKeys mode = iota
	modeContents
	modeComments
)

// Lexer lexes Diazo source, resolving *use by reading and recursively
// lexing the named file through an abridged pass.
type Lexer struct {
	Reader source.Reader
	Sink   diagnostics.Sink
}

// New returns a Lexer backed by the given file reader and diagnostic sink.
func New(reader source.Reader, sink diagnostics.Sink) *Lexer {
	if sink == nil {
		sink = diagnostics.Noop{}
	}
	return &Lexer{Reader: reader, Sink: sink}
}

// Lex tokenizes input, threading registry through so a caller can lex
// several units (e.g. a REPL) against a shared namespace. *use is resolved
// recursively via the abridged lexer.
func (l *Lexer) Lex(filename, input string, registry *TypeRegistry) ([]Token, error) {
	e := &engine{
		abridged: false,
		filename: filename,
		reader:   l.Reader,
		sink:     l.Sink,
		registry: registry,
	}
	return e.run(input)
}

// LexAbridged runs the abridged pass standalone (outside of resolving a
// *use import), returning only the subset of tokens needed to reconstruct
// type declarations (plus intervening Linebreaks) and the names newly
// declared. Exposed for callers that want to preview or validate a file's
// declarations without running it through the full lexer/parser, e.g. a
// pipeline's --abridged-only mode.
func LexAbridged(filename, input string, sink diagnostics.Sink) ([]Token, []string, error) {
	if sink == nil {
		sink = diagnostics.Noop{}
	}
	return lexAbridged(filename, input, sink)
}

// lexAbridged runs the same grammar with *use rejected, returning only the
// subset of tokens needed to reconstruct type declarations (plus
// intervening Linebreaks) and the names newly declared by the import.
func lexAbridged(filename, input string, sink diagnostics.Sink) ([]Token, []string, error) {
	if sink == nil {
		sink = diagnostics.Noop{}
	}
	registry := NewTypeRegistry()
	e := &engine{
		abridged: true,
		filename: filename,
		sink:     sink,
		registry: registry,
	}
	tokens, err := e.run(input)
	if err != nil {
		return nil, nil, err
	}
	return tokens, registry.Names(), nil
}

// engine is the shared state machine behind both the full and abridged
// lexer; abridged switches *use handling and the token subset returned.
type engine struct {
	abridged bool
	filename string
	reader   source.Reader
	sink     diagnostics.Sink
	registry *TypeRegistry

	mode       mode
	scope      []Kind
	contentBuf string
	commentBuf string

	syntax []Token // full validated stream; returned as-is when !abridged
	final  []Token // declaration-only subset; returned when abridged

	lineNum int
	wordNum int
}

func (e *engine) run(input string) ([]Token, error) {
	lines := strings.Split(input, "\n")
	for _, line := range lines {
		if err := e.startLine(); err != nil {
			return nil, err
		}
		if err := e.lexLine(line); err != nil {
			return nil, err
		}
	}
	e.flushEOF()
	if e.scopeTopIs(0, CommentOpen) {
		return nil, e.lexError("", "unclosed block comment: no matching */ before end of input")
	}
	if e.abridged {
		return e.final, nil
	}
	// Guarantee the stream ends on a Linebreak regardless of whether the
	// source text itself ends in "\n", so the parser can always finalize
	// a trailing declaration or expression (original_source/src/lib.rs
	// relies on a trailing newline in practice; this normalizes that).
	if len(e.syntax) == 0 || e.syntax[len(e.syntax)-1].Kind != Linebreak {
		e.syntax = append(e.syntax, Token{Kind: Linebreak, Line: e.lineNum, Word: e.wordNum})
	}
	return e.syntax, nil
}

// startLine applies the line discipline from SPEC_FULL.md §4.1: either
// remain in Comments mode (flushing the accumulated comment text for this
// physical line) or emit a Linebreak, flush any pending buffers ahead of
// it, clear the scope stack, and re-enter Keys mode.
func (e *engine) startLine() error {
	if e.scopeTopIs(0, CommentOpen) {
		if e.commentBuf != "" {
			e.pushSyntax(Token{Kind: CommentContents, Text: e.commentBuf})
			e.commentBuf = ""
			e.pushSyntax(Token{Kind: Linebreak})
		}
		e.mode = modeComments
		e.lineNum++
		return nil
	}

	if e.abridged && e.scopeContains(TypeKeyword) {
		e.pushFinal(Token{Kind: Linebreak})
	}

	if e.lineNum > 0 {
		e.pushSyntax(Token{Kind: Linebreak})
	}
	e.scope = e.scope[:0]

	if e.contentBuf != "" {
		hadBreak := e.popTrailingLinebreak()
		e.pushSyntax(Token{Kind: Content, Text: e.contentBuf})
		e.contentBuf = ""
		if hadBreak {
			e.pushSyntax(Token{Kind: Linebreak})
		}
	}
	if e.commentBuf != "" {
		hadBreak := e.popTrailingLinebreak()
		e.pushSyntax(Token{Kind: CommentContents, Text: e.commentBuf})
		e.commentBuf = ""
		if hadBreak {
			e.pushSyntax(Token{Kind: Linebreak})
		}
	}
	e.mode = modeKeys
	e.lineNum++
	return nil
}

func (e *engine) popTrailingLinebreak() bool {
	if len(e.syntax) == 0 || e.syntax[len(e.syntax)-1].Kind != Linebreak {
		return false
	}
	e.syntax = e.syntax[:len(e.syntax)-1]
	return true
}

func (e *engine) lexLine(line string) error {
	e.wordNum = 0
	lineScope := 0

	words := strings.Fields(strings.ReplaceAll(line, "\t", " *tab! "))
	for idx := 0; idx < len(words); idx++ {
		w := words[idx]
		e.wordNum++

		var err error
		switch e.mode {
		case modeKeys:
			err = e.lexKeysWord(w, &lineScope)
		case modeContents:
			err = e.lexContentsWord(w)
		case modeComments:
			err = e.lexCommentsWord(w)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) lexKeysWord(w string, lineScope *int) error {
	switch w {
	case "*tab!":
		atLineStart := e.wordNum == 1 || (len(e.syntax) > 0 && e.syntax[len(e.syntax)-1].Kind == Tab)
		if atLineStart {
			*lineScope++
		}
		if e.abridged {
			if atLineStart {
				e.pushSyntax(Token{Kind: Tab})
			}
		} else {
			e.pushSyntax(Token{Kind: Tab})
		}
		return nil

	case "//":
		e.mode = modeComments
		e.pushSyntax(Token{Kind: CommentLine})
		return nil

	case "/*":
		e.mode = modeComments
		e.scope = append(e.scope, CommentOpen)
		e.pushSyntax(Token{Kind: CommentOpen})
		return nil

	case "*type":
		if *lineScope != 0 {
			return e.lexError(w, "*type cannot appear indented inside a scope; remove any leading tabs before this *type")
		}
		e.scope = append(e.scope, TypeKeyword)
		e.pushSyntax(Token{Kind: TypeKeyword})
		e.pushFinal(Token{Kind: TypeKeyword})
		return nil

	case "*use":
		if e.abridged {
			return e.lexError(w, "*use is not permitted in an imported file")
		}
		if e.scopeTopIs(0, UseKeyword) {
			return e.lexError(w, "*use has already been called; only one import is allowed per line")
		}
		if *lineScope != 0 {
			return e.lexError(w, "*use cannot appear indented inside a scope; remove any leading tabs before this *use")
		}
		if e.scopeTopIs(0, Assignment) || e.scopeTopIs(0, TypeKeyword) {
			return e.lexError(w, "*use cannot appear inside a type declaration")
		}
		e.scope = append(e.scope, UseKeyword)
		e.pushSyntax(Token{Kind: UseKeyword})
		return nil

	case "=>":
		if !e.scopeTopIs(0, TypeKeyword) {
			return e.lexError(w, "=> used somewhere other than a type declaration")
		}
		if !e.syntaxTopIs(0, TypeName) {
			return e.lexError(w, "type names must be a single word")
		}
		e.scope = append(e.scope, Assignment)
		e.pushSyntax(Token{Kind: Assignment})
		e.pushFinal(Token{Kind: Assignment})
		return nil

	default:
		return e.lexKeysOther(w)
	}
}

func (e *engine) lexKeysOther(other string) error {
	// 1. Filename following *use; recursively resolve the import.
	if !e.abridged && e.scopeTopIs(0, UseKeyword) && e.syntaxTopIs(0, UseKeyword) {
		e.scope = e.scope[:len(e.scope)-1]
		e.pushSyntax(Token{Kind: Filename, Text: other})
		e.pushSyntax(Token{Kind: Linebreak})
		return e.resolveImport(other)
	}

	// 2. Immediately after *type: this word is the declared name.
	if e.syntaxTopIs(0, TypeKeyword) && e.scopeTopIs(0, TypeKeyword) {
		if err := e.registry.Register(other); err != nil {
			return e.lexError(other, "type namespace already occupied: "+other)
		}
		e.pushSyntax(Token{Kind: TypeName, Text: other})
		e.pushFinal(Token{Kind: TypeName, Text: other})
		return nil
	}

	// 3. Inside a declaration's argument list.
	if e.scopeTopIs(1, TypeKeyword) && e.scopeTopIs(0, Assignment) {
		return e.lexDeclarationArgument(other)
	}

	// 4. Attached comment openers.
	if strings.Contains(other, "//") {
		e.pushSyntax(Token{Kind: CommentLine})
		e.commentBuf += strings.Replace(other, "//", "", 1)
		e.mode = modeComments
		return nil
	}
	if strings.Contains(other, "/*") {
		e.pushSyntax(Token{Kind: CommentOpen})
		e.scope = append(e.scope, CommentOpen)
		e.commentBuf += strings.Replace(other, "/*", "", 1)
		e.mode = modeComments
		return nil
	}

	// 5. A registered type name instantiates that type.
	if e.registry.Has(other) {
		e.pushSyntax(Token{Kind: TypeInstance, Text: other})
		e.mode = modeContents
		return nil
	}

	// 6. Attached separators.
	for _, sep := range separators {
		if strings.Contains(other, sep) {
			e.contentBuf += strings.ReplaceAll(other, sep, " ")
			e.pushSyntax(Token{Kind: Content, Text: e.contentBuf})
			e.contentBuf = ""
			e.pushSyntax(Token{Kind: Separator, Text: sep})
			return nil
		}
	}

	// 7. Bare block openers.
	if other == "[[" {
		e.pushSyntax(Token{Kind: CodeBlockOpen})
		e.mode = modeContents
		return nil
	}
	if other == "{{" {
		e.pushSyntax(Token{Kind: MathBlockOpen})
		e.mode = modeContents
		return nil
	}

	// 8. Otherwise it's free prose.
	e.contentBuf += other + " "
	e.mode = modeContents
	return nil
}

func (e *engine) lexDeclarationArgument(other string) error {
	if other == "any" {
		e.pushSyntax(Token{Kind: Any})
		e.pushFinal(Token{Kind: Any})
		return nil
	}
	if e.registry.Has(other) {
		e.pushSyntax(Token{Kind: TypeAsDeclarationParameter, Text: other})
		e.pushFinal(Token{Kind: TypeAsDeclarationParameter, Text: other})
		return nil
	}
	switch other[0] {
	case 'e':
		if !hasDotDotAfterFirst(other) {
			return e.lexError(other, `malformed element-formatter argument: expected "e.." followed by a multiplicity`)
		}
		e.pushSyntax(Token{Kind: E, Text: other})
		e.pushFinal(Token{Kind: E, Text: other})
		return nil
	case 'c':
		if !hasDotDotAfterFirst(other) {
			return e.lexError(other, `malformed content-formatter argument: expected "c.." followed by a multiplicity`)
		}
		e.pushSyntax(Token{Kind: C, Text: other})
		e.pushFinal(Token{Kind: C, Text: other})
		return nil
	default:
		return e.lexError(other, "declaration argument must be a type name, \"e..\", \"c..\", or \"any\": "+other)
	}
}

// hasDotDotAfterFirst reports whether s has ".." as its second and third
// characters, i.e. the e../c.. argument form.
func hasDotDotAfterFirst(s string) bool {
	if len(s) < 3 {
		return false
	}
	return s[1] == '.' && s[2] == '.'
}

func (e *engine) lexContentsWord(w string) error {
	switch w {
	case "[[":
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: CodeBlockOpen})
		return nil
	case "]]":
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: CodeBlockClose})
		return nil
	case "{{":
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: MathBlockOpen})
		return nil
	case "}}":
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: MathBlockClose})
		return nil
	}

	if strings.Contains(w, "[[") {
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: CodeBlockOpen})
		e.contentBuf = strings.Replace(w, "[[", "", 1)
		return nil
	}
	if strings.Contains(w, "]]") {
		for _, sep := range separators {
			if strings.Contains(w, sep) {
				e.contentBuf += strings.ReplaceAll(strings.Replace(w, "]]", "", 1), sep, " ")
				e.flushContentAsToken()
				e.pushSyntax(Token{Kind: CodeBlockClose})
				e.pushSyntax(Token{Kind: Separator, Text: sep})
				return nil
			}
		}
		e.contentBuf += strings.Replace(w, "]]", " ", 1)
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: CodeBlockClose})
		return nil
	}
	if strings.Contains(w, "{{") {
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: MathBlockOpen})
		e.contentBuf = strings.Replace(w, "{{", "", 1)
		return nil
	}
	if strings.Contains(w, "}}") {
		for _, sep := range separators {
			if strings.Contains(w, sep) {
				e.contentBuf += strings.ReplaceAll(strings.Replace(w, "}}", "", 1), sep, " ")
				e.flushContentAsToken()
				e.pushSyntax(Token{Kind: MathBlockClose})
				e.pushSyntax(Token{Kind: Separator, Text: sep})
				return nil
			}
		}
		// The closing delimiter actually present is }}; strip that one
		// (SPEC_FULL.md §9 / spec.md §9 corrects the original's erroneous
		// stripping of ]] in this branch).
		e.contentBuf += strings.Replace(w, "}}", " ", 1)
		e.flushContentAsToken()
		e.pushSyntax(Token{Kind: MathBlockClose})
		return nil
	}

	for _, sep := range separators {
		if w == sep {
			e.flushContentAsToken()
			e.pushSyntax(Token{Kind: Separator, Text: sep})
			return nil
		}
	}
	for _, sep := range separators {
		if strings.Contains(w, sep) {
			e.contentBuf += strings.ReplaceAll(w, sep, " ")
			e.flushContentAsToken()
			e.pushSyntax(Token{Kind: Separator, Text: sep})
			return nil
		}
	}

	e.contentBuf += w + " "
	return nil
}

func (e *engine) flushContentAsToken() {
	e.pushSyntax(Token{Kind: Content, Text: e.contentBuf})
	e.contentBuf = ""
}

func (e *engine) lexCommentsWord(w string) error {
	if w == "*/" {
		if !e.scopeTopIs(0, CommentOpen) {
			return e.lexError(w, "*/ found without a matching /*")
		}
		e.scope = e.scope[:len(e.scope)-1]
		e.pushSyntax(Token{Kind: CommentContents, Text: e.commentBuf})
		e.commentBuf = ""
		e.mode = modeKeys
		return nil
	}
	if strings.Contains(w, "*/") {
		if !e.scopeTopIs(0, CommentOpen) {
			return e.lexError(w, "*/ found without a matching /*")
		}
		e.commentBuf += strings.Replace(w, "*/", " ", 1)
		e.pushSyntax(Token{Kind: CommentContents, Text: e.commentBuf})
		e.commentBuf = ""
		e.scope = e.scope[:len(e.scope)-1]
		e.mode = modeKeys
		return nil
	}
	e.commentBuf += w + " "
	return nil
}

func (e *engine) flushEOF() {
	if e.contentBuf != "" {
		e.pushSyntax(Token{Kind: Content, Text: e.contentBuf})
		e.contentBuf = ""
	}
	if e.commentBuf != "" {
		e.pushSyntax(Token{Kind: CommentContents, Text: e.commentBuf})
		e.commentBuf = ""
	}
}

func (e *engine) resolveImport(filename string) error {
	if e.reader == nil {
		return e.lexError(filename, "no file reader configured for *use")
	}
	text, err := e.reader.ReadFile(filename)
	if err != nil {
		wrapped := errs.Wrap(filename, err)
		e.report(wrapped, filename)
		return wrapped
	}

	// The nested pass reports nothing itself; its error is reported once
	// below, tagged with the imported file's name.
	tokens, names, err := lexAbridged(filename, text, diagnostics.Noop{})
	if err != nil {
		wrapped := errs.Wrap(filename, err)
		e.report(wrapped, filename)
		return wrapped
	}

	for _, name := range names {
		if err := e.registry.Register(name); err != nil {
			return e.lexError(name, "type namespace already occupied by import "+filename+": "+name)
		}
	}
	e.syntax = append(e.syntax, tokens...)
	return nil
}

func (e *engine) scopeTopIs(i int, k Kind) bool {
	idx := len(e.scope) - 1 - i
	if idx < 0 || idx >= len(e.scope) {
		return false
	}
	return e.scope[idx] == k
}

func (e *engine) scopeContains(k Kind) bool {
	for _, s := range e.scope {
		if s == k {
			return true
		}
	}
	return false
}

func (e *engine) syntaxTopIs(i int, k Kind) bool {
	idx := len(e.syntax) - 1 - i
	if idx < 0 || idx >= len(e.syntax) {
		return false
	}
	return e.syntax[idx].Kind == k
}

func (e *engine) pushSyntax(t Token) {
	t.Line = e.lineNum
	t.Word = e.wordNum
	e.syntax = append(e.syntax, t)
}

func (e *engine) pushFinal(t Token) {
	if !e.abridged {
		return
	}
	t.Line = e.lineNum
	t.Word = e.wordNum
	e.final = append(e.final, t)
}

func (e *engine) lexError(word, reason string) error {
	err := errs.New(errs.Lexical, errs.Position{Line: e.lineNum, Word: e.wordNum}, word, reason)
	e.report(err, "")
	return err
}

func (e *engine) report(err *errs.Error, file string) {
	e.sink.Report(diagnostics.Diagnostic{Err: err, File: file})
}
