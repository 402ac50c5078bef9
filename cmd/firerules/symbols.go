package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"firerules/internal/diagfmt"
)

type definitionJSON struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

func newSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols <file.rules>",
		Short: "Print the outline and definitions index of a rules file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSymbols,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runSymbols(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		defs := doc.Definitions()
		payload := make([]definitionJSON, 0, len(defs))
		for _, d := range defs {
			payload = append(payload, definitionJSON{
				Name:   d.Name,
				Kind:   definitionKind(d.Node),
				Line:   d.NameSpan.Start.Row + 1,
				Column: d.NameSpan.Start.Column + 1,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		diagfmt.FormatSymbolsPretty(out, args[0], doc.Outline())
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
