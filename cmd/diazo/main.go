// Package main provides the CLI entry point for diazo: lex and parse a
// single Diazo source file and report its parsed elements (or, with
// --abridged-only, just the type names it declares).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diazo-lang/diazo/internal/diagnostics"
	"github.com/diazo-lang/diazo/internal/source"
	"github.com/diazo-lang/diazo/pkg/node"
	"github.com/diazo-lang/diazo/pkg/pipeline"
)

func main() {
	cfg := pipeline.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "diazo [flags] <path>",
		Short:         "Lex and parse a Diazo source file",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args[0])
		},
	}
	cfg.RegisterFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *pipeline.Config, path string) error {
	sink := diagnostics.NewZerologSink()

	if cfg.AbridgedOnly {
		names, err := pipeline.RunAbridged(source.OS{}, sink, path)
		if err != nil {
			return err
		}
		return printNames(names)
	}

	elements, err := pipeline.RunWith(source.OS{}, sink, path)
	if err != nil {
		return err
	}
	return printElements(elements, cfg.Format)
}

func printNames(names []string) error {
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func printElements(elements []node.Element, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(elementSummaries(elements), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling elements: %w", err)
		}
		fmt.Println(string(out))
		return nil
	case "tree", "":
		for _, el := range elements {
			fmt.Println(el.String())
		}
		return nil
	default:
		return fmt.Errorf("unknown --format %q: want tree or json", format)
	}
}

type elementSummary struct {
	Kind string `json:"kind"`
	Root string `json:"root"`
}

func elementSummaries(elements []node.Element) []elementSummary {
	out := make([]elementSummary, len(elements))
	for i, el := range elements {
		out[i] = elementSummary{Kind: el.Kind.String(), Root: el.String()}
	}
	return out
}
