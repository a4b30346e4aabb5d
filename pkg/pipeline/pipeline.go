// Package pipeline wires the lexer and parser into the single
// path-in/elements-out operation a host program or CLI actually calls,
// grounded on the teacher's top-level Decoder/Encoder entrypoints that sit
// above pkg/lexer and pkg/parser.
package pipeline

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/diazo-lang/diazo/internal/diagnostics"
	"github.com/diazo-lang/diazo/internal/source"
	"github.com/diazo-lang/diazo/pkg/lexer"
	"github.com/diazo-lang/diazo/pkg/node"
	"github.com/diazo-lang/diazo/pkg/parser"
)

// Flags holds CLI flag names for pipeline configuration, grounded on
// MacroPower-x's log.Flags/log.Config split so flag names stay overridable
// while Config carries sensible defaults.
type Flags struct {
	AbridgedOnly string
	Format       string
}

// NewConfig creates a new Config embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds the pipeline's CLI-tunable behavior: whether to run only the
// abridged (declarations-only) lexer pass, and the shape to report results
// in. Create instances with NewConfig and register flags with
// Config.RegisterFlags.
type Config struct {
	AbridgedOnly bool
	Format       string
	Flags        Flags
}

// NewConfig returns a Config with the pack-standard flag names and a
// "tree" default format.
func NewConfig() *Config {
	f := Flags{
		AbridgedOnly: "abridged-only",
		Format:       "format",
	}
	c := f.NewConfig()
	c.Format = "tree"
	return c
}

// RegisterFlags adds the pipeline's flags to the given FlagSet.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.AbridgedOnly, c.Flags.AbridgedOnly, false,
		"only run the abridged, declarations-only lexer pass")
	flags.StringVar(&c.Format, c.Flags.Format, c.Format,
		"result format, one of: tree, json")
}

// Run reads path from the local filesystem, lexes, and parses it, returning
// the resulting elements. This is the external pipeline(path) contract: no
// persisted state, one call in and one result out.
func Run(path string) ([]node.Element, error) {
	return RunWith(source.OS{}, diagnostics.Noop{}, path)
}

// RunWith is Run generalized over the file reader and diagnostic sink, so a
// host (or a test) can supply an in-memory source.Map and a zerolog-backed
// sink instead of the OS defaults.
func RunWith(reader source.Reader, sink diagnostics.Sink, path string) ([]node.Element, error) {
	text, err := reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	l := lexer.New(reader, sink)
	tokens, err := l.Lex(path, text, lexer.NewTypeRegistry())
	if err != nil {
		return nil, err
	}

	p := parser.New(sink)
	elements, err := p.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return elements, nil
}

// RunAbridged reads path and runs only the declarations-only lexer pass
// (rejecting *use), returning the declared type names without parsing a
// full element tree. Backs the pipeline's --abridged-only mode.
func RunAbridged(reader source.Reader, sink diagnostics.Sink, path string) ([]string, error) {
	text, err := reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	_, names, err := lexer.LexAbridged(path, text, sink)
	if err != nil {
		return nil, err
	}
	return names, nil
}
