package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firerules/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the Firestore rules language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
	cmd.Flags().Bool("stdio", true, "communicate over stdin/stdout (the only transport)")
	return cmd
}

func runLSP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:       cfg.Debounce(),
		MaxDiagnostics: cfg.LSP.MaxDiagnostics,
		Analysis:       cfg.AnalysisOptions(),
		Trace:          cfg.LSP.Trace,
		Log:            os.Stderr,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
