package serializer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diazo-lang/diazo/internal/diagnostics"
	"github.com/diazo-lang/diazo/pkg/lexer"
)

func lexAll(t *testing.T, input string) []lexer.Token {
	t.Helper()
	l := lexer.New(nil, diagnostics.Noop{})
	tokens, err := l.Lex("test.dz", input, lexer.NewTypeRegistry())
	require.NoError(t, err)
	return tokens
}

func TestReconstructRoundTripsDeclarationKinds(t *testing.T) {
	input := "*type Greeting => any\n"
	tokens := lexAll(t, input)

	out := Reconstruct(tokens)

	retokens := lexAll(t, out)
	require.Equal(t, len(tokens), len(retokens))
	for i := range tokens {
		assert.Equal(t, tokens[i].Kind, retokens[i].Kind, "token %d", i)
	}
}

func TestSerializerWriteMatchesReconstruct(t *testing.T) {
	tokens := lexAll(t, "*type Greeting => any\nGreeting\n")

	var sb strings.Builder
	s := NewSerializer(&sb, nil)
	require.NoError(t, s.Write(tokens))

	assert.Equal(t, Reconstruct(tokens), sb.String())
}

func TestReconstructPreservesTypeInstanceText(t *testing.T) {
	tokens := lexAll(t, "*type Greeting => any\nGreeting\n")

	out := Reconstruct(tokens)

	assert.Contains(t, out, "Greeting")
}
