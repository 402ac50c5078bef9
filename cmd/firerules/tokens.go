package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"firerules/internal/diagfmt"
	"firerules/internal/semtok"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file.rules>",
		Short: "Print the semantic tokens of a rules file",
		Long: `Print the absolute semantic tokens (byte columns) of a rules file followed by
the delta-encoded integers an editor receives (UTF-16 columns).`,
		Args: cobra.ExactArgs(1),
		RunE: runTokens,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
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
	tokens := semtok.SplitLines(doc.Tokens(), doc.File)

	switch strings.ToLower(format) {
	case "json":
		if err := diagfmt.FormatTokensJSON(out, tokens, doc.File); err != nil {
			return err
		}
	case "pretty":
		if err := diagfmt.FormatTokensPretty(out, tokens, doc.File); err != nil {
			return err
		}
		data := semtok.Encode(semtok.ToUTF16(tokens, doc.File))
		fmt.Fprintln(out, "data:")
		for i := 0; i+5 <= len(data); i += 5 {
			fmt.Fprintf(out, "  %v\n", data[i:i+5])
		}
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	if timingsEnabled(cmd) {
		writeTimings(cmd.ErrOrStderr(), doc)
	}
	return nil
}
