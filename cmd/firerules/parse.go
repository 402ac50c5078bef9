package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"firerules/internal/analysis"
	"firerules/internal/config"
	"firerules/internal/diag"
	"firerules/internal/diagfmt"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file.rules>",
		Short: "Parse a rules file and print its tree",
		Long:  `Parse prints the typed rules tree of a file, or its concrete syntax tree with --cst. Diagnostics go to stderr.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().Bool("cst", false, "print the concrete syntax tree")
	cmd.Flags().Bool("sexp", false, "print the concrete syntax tree as an s-expression of named nodes")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cst, err := cmd.Flags().GetBool("cst")
	if err != nil {
		return fmt.Errorf("failed to get cst flag: %w", err)
	}
	sexp, err := cmd.Flags().GetBool("sexp")
	if err != nil {
		return fmt.Errorf("failed to get sexp flag: %w", err)
	}
	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}

	reportDiagnostics(cmd, cfg, doc)

	out := cmd.OutOrStdout()
	switch {
	case sexp:
		fmt.Fprintln(out, doc.CST.Root.String())
	case cst:
		err = diagfmt.FormatCSTPretty(out, doc.CST)
	default:
		err = diagfmt.FormatASTPretty(out, doc.AST)
	}
	if err != nil {
		return err
	}
	if timingsEnabled(cmd) {
		writeTimings(cmd.ErrOrStderr(), doc)
	}
	return nil
}

// reportDiagnostics prints the document's diagnostics to stderr.
func reportDiagnostics(cmd *cobra.Command, cfg config.Config, doc *analysis.Document) {
	bag := diag.NewBag(cfg.LSP.MaxDiagnostics)
	bag.AddAll(doc.Diagnostics())
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	errOut := cmd.ErrOrStderr()
	diagfmt.Pretty(errOut, bag, doc.File, doc.File.Path, diagfmt.PrettyOpts{
		Color:    useColor(cfg.Output.Color, errOut),
		PathMode: diagfmt.PathModeBasename,
	})
}
