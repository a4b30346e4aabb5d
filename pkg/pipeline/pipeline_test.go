package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diazo-lang/diazo/internal/diagnostics"
	"github.com/diazo-lang/diazo/internal/source"
	"github.com/diazo-lang/diazo/pkg/node"
)

func TestRunWithParsesAProgram(t *testing.T) {
	reader := source.Map{
		"main.dz": "*type Greeting => any\nhello world",
	}
	elements, err := RunWith(reader, diagnostics.Noop{}, "main.dz")
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, node.TypeDeclaration, elements[0].Kind)
	assert.Equal(t, node.RawText, elements[1].Kind)
}

func TestRunWithResolvesImports(t *testing.T) {
	reader := source.Map{
		"shapes.dz": "*type Circle => any\n",
		"main.dz":   "*use shapes.dz\nCircle",
	}
	elements, err := RunWith(reader, diagnostics.Noop{}, "main.dz")
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, node.TypeDeclaration, elements[0].Kind)
	assert.Equal(t, node.TypeExpression, elements[1].Kind)
	assert.Equal(t, "Circle", elements[1].Root.Token.Text)
}

func TestRunWithPropagatesMissingFile(t *testing.T) {
	_, err := RunWith(source.Map{}, diagnostics.Noop{}, "missing.dz")
	if err == nil {
		t.Fatal("want error for a missing source file, got nil")
	}
}

func TestRunAbridgedReturnsDeclaredNamesOnly(t *testing.T) {
	reader := source.Map{
		"shapes.dz": "*type Circle => any\n*type Square => any\n",
	}
	names, err := RunAbridged(reader, diagnostics.Noop{}, "shapes.dz")
	require.NoError(t, err)
	assert.Equal(t, []string{"Circle", "Square"}, names)
}

func TestNewConfigUsesPackStandardNames(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "tree", cfg.Format)
	assert.False(t, cfg.AbridgedOnly)
	assert.Equal(t, "abridged-only", cfg.Flags.AbridgedOnly)
	assert.Equal(t, "format", cfg.Flags.Format)
}
