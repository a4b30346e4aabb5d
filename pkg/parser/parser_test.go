package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diazo-lang/diazo/pkg/lexer"
	"github.com/diazo-lang/diazo/pkg/node"
)

func mustLex(t *testing.T, input string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.New(nil, nil).Lex("test.dz", input, lexer.NewTypeRegistry())
	require.NoError(t, err)
	return tokens
}

func TestParseEmptyDeclaration(t *testing.T) {
	tokens := mustLex(t, "*type Foo => any")
	elements, err := ParseTokens(tokens)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(elements) != 1 {
		t.Fatalf("want 1 element, got %d", len(elements))
	}
	el := elements[0]
	if el.Kind != node.TypeDeclaration {
		t.Fatalf("want TypeDeclaration, got %v", el.Kind)
	}
	if el.Root.Token.Kind != lexer.TypeKeyword {
		t.Fatalf("root kind = %v", el.Root.Token.Kind)
	}
	if len(el.Root.Children) != 2 {
		t.Fatalf("want 2 children (TypeName, Assignment), got %d", len(el.Root.Children))
	}
	if el.Root.Children[0].Token.Kind != lexer.TypeName || el.Root.Children[0].Token.Text != "Foo" {
		t.Fatalf("first child = %+v", el.Root.Children[0].Token)
	}
	assignment := el.Root.Children[1]
	if assignment.Token.Kind != lexer.Assignment {
		t.Fatalf("second child kind = %v", assignment.Token.Kind)
	}
	if len(assignment.Children) != 1 || assignment.Children[0].Token.Kind != lexer.Any {
		t.Fatalf("assignment children = %+v", assignment.Children)
	}
}

func TestParseCollectionDeclaration(t *testing.T) {
	tokens := mustLex(t, "*type List => e..n c..1")
	elements, err := ParseTokens(tokens)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	require.Len(t, elements, 1)
	root := elements[0].Root
	assignment := root.Children[1]
	require.Len(t, assignment.Children, 1)
	e := assignment.Children[0]
	assert.Equal(t, lexer.E, e.Token.Kind)
	require.Len(t, e.Children, 1)
	assert.Equal(t, lexer.C, e.Children[0].Token.Kind)
}

func TestParseInstantiationWithIndentedElements(t *testing.T) {
	registry := lexer.NewTypeRegistry()
	l := lexer.New(nil, nil)
	declTokens, err := l.Lex("test.dz", "*type List => any", registry)
	require.NoError(t, err)
	require.NoError(t, registry.Register("ItemA"))
	require.NoError(t, registry.Register("ItemB"))

	bodyTokens, err := l.Lex("test.dz", "List\n\tItemA\n\tItemB", registry)
	require.NoError(t, err)

	all := append(declTokens, bodyTokens...)
	elements, err := ParseTokens(all)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	expr := elements[1]
	assert.Equal(t, node.TypeExpression, expr.Kind)
	assert.Equal(t, lexer.TypeInstance, expr.Root.Token.Kind)
	assert.Equal(t, "List", expr.Root.Token.Text)
	require.Len(t, expr.Root.Children, 1)
	elementGroup := expr.Root.Children[0]
	assert.Equal(t, lexer.Element, elementGroup.Token.Kind)
	require.Len(t, elementGroup.Children, 2)
	assert.Equal(t, "ItemA", elementGroup.Children[0].Token.Text)
	assert.Equal(t, "ItemB", elementGroup.Children[1].Token.Text)
}

func TestParseInlineFormatting(t *testing.T) {
	tokens := mustLex(t, "hello [[ code ]] world")
	elements, err := ParseTokens(tokens)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	require.Len(t, elements, 1)
	el := elements[0]
	assert.Equal(t, node.RawText, el.Kind)
	assert.Equal(t, lexer.ContentWithFormatting, el.Root.Token.Kind)

	var kinds []lexer.Kind
	for _, f := range el.Root.Token.Formatting {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []lexer.Kind{lexer.Content, lexer.CodeBlock, lexer.Content}, kinds)
}

func TestParseRejectsTypeKeywordInsideExpression(t *testing.T) {
	p := New(nil)
	tokens := []lexer.Token{
		{Kind: lexer.TypeInstance, Text: "Foo"},
		{Kind: lexer.TypeKeyword},
	}
	_, err := p.Parse(tokens)
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestParseRejectsTabsUnderDeclaration(t *testing.T) {
	tokens := mustLex(t, "*type Foo =>\n\tany")
	_, err := ParseTokens(tokens)
	if err == nil {
		t.Fatal("want error for tab nested under declaration, got nil")
	}
}
