package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diazo-lang/diazo/internal/source"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexEmptyDeclaration(t *testing.T) {
	tokens, err := New(nil, nil).Lex("test.dz", "*type Foo => any", NewTypeRegistry())
	require.NoError(t, err)
	assert.Equal(t, []Kind{TypeKeyword, TypeName, Assignment, Any, Linebreak}, kinds(tokens))
	assert.Equal(t, "Foo", tokens[1].Text)
}

func TestLexCollectionDeclaration(t *testing.T) {
	tokens, err := New(nil, nil).Lex("test.dz", "*type List => e..n c..1", NewTypeRegistry())
	require.NoError(t, err)
	assert.Equal(t, []Kind{TypeKeyword, TypeName, Assignment, E, C, Linebreak}, kinds(tokens))
	assert.Equal(t, "e..n", tokens[3].Text)
	assert.Equal(t, "c..1", tokens[4].Text)
}

func TestLexDuplicateTypeNameIsAnError(t *testing.T) {
	registry := NewTypeRegistry()
	l := New(nil, nil)
	_, err := l.Lex("test.dz", "*type Foo => any", registry)
	require.NoError(t, err)
	_, err = l.Lex("test.dz", "*type Foo => any", registry)
	if err == nil {
		t.Fatal("want error re-declaring Foo, got nil")
	}
}

func TestLexInlineFormatting(t *testing.T) {
	tokens, err := New(nil, nil).Lex("test.dz", "hello [[ code ]] world", NewTypeRegistry())
	require.NoError(t, err)
	assert.Equal(t, []Kind{Content, CodeBlockOpen, Content, CodeBlockClose, Content, Linebreak}, kinds(tokens))
	assert.Equal(t, "hello ", tokens[0].Text)
	assert.Equal(t, "code ", tokens[2].Text)
	assert.Equal(t, "world ", tokens[4].Text)
}

func TestLexUnclosedCommentIsAnError(t *testing.T) {
	_, err := New(nil, nil).Lex("test.dz", "/* never closed", NewTypeRegistry())
	if err == nil {
		t.Fatal("want error for unclosed block comment, got nil")
	}
}

func TestLexBareCommentCloseFlushesImmediately(t *testing.T) {
	tokens, err := New(nil, nil).Lex("test.dz", "/* note */ after", NewTypeRegistry())
	require.NoError(t, err)
	assert.Equal(t, []Kind{CommentOpen, CommentContents, Content, Linebreak}, kinds(tokens))
	assert.Equal(t, "note ", tokens[1].Text)
}

func TestLexTrailingLinebreakIsAlwaysAppended(t *testing.T) {
	tokens, err := New(nil, nil).Lex("test.dz", "*type Foo => any\n", NewTypeRegistry())
	require.NoError(t, err)
	last := tokens[len(tokens)-1]
	assert.Equal(t, Linebreak, last.Kind)

	tokensNoNewline, err := New(nil, nil).Lex("test.dz", "*type Foo => any", NewTypeRegistry())
	require.NoError(t, err)
	assert.Equal(t, tokens, tokensNoNewline)
}

func TestLexImportSplicesTokensAndRegistersNames(t *testing.T) {
	reader := source.Map{
		"shapes.dz": "*type Circle => any\n*type Square => any\n",
	}
	registry := NewTypeRegistry()
	tokens, err := New(reader, nil).Lex("main.dz", "*use shapes.dz\nCircle", registry)
	require.NoError(t, err)

	assert.True(t, registry.Has("Circle"))
	assert.True(t, registry.Has("Square"))

	assert.Equal(t, UseKeyword, tokens[0].Kind)
	assert.Equal(t, Filename, tokens[1].Kind)
	assert.Equal(t, "shapes.dz", tokens[1].Text)

	last := tokens[len(tokens)-2]
	assert.Equal(t, TypeInstance, last.Kind)
	assert.Equal(t, "Circle", last.Text)
	assert.Equal(t, Linebreak, tokens[len(tokens)-1].Kind)
}

func TestLexAbridgedRejectsUse(t *testing.T) {
	_, _, err := lexAbridged("inner.dz", "*use nested.dz\n", nil)
	if err == nil {
		t.Fatal("want error rejecting *use inside an imported file, got nil")
	}
}

func TestLexAbridgedReturnsOnlyDeclarationTokens(t *testing.T) {
	tokens, names, err := lexAbridged("shapes.dz", "*type Circle => any\nsome prose that is not a declaration\n*type Square => any\n", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Circle", "Square"}, names)
	for _, tok := range tokens {
		switch tok.Kind {
		case TypeKeyword, TypeName, Assignment, Any, E, C, TypeAsDeclarationParameter, Linebreak:
		default:
			t.Fatalf("abridged lexer returned a non-declaration token: %v", tok.Kind)
		}
	}
}

func TestLexImportMissingFileIsAnError(t *testing.T) {
	reader := source.Map{}
	_, err := New(reader, nil).Lex("main.dz", "*use missing.dz", NewTypeRegistry())
	if err == nil {
		t.Fatal("want error for a *use of a file the reader cannot find, got nil")
	}
}

func TestLexSeparatorsInsideContent(t *testing.T) {
	tokens, err := New(nil, nil).Lex("test.dz", "left::right", NewTypeRegistry())
	require.NoError(t, err)
	assert.Equal(t, []Kind{Content, Separator, Linebreak}, kinds(tokens))
	assert.Equal(t, "::", tokens[1].Text)
}
