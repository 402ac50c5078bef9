package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"firerules/internal/config"
	"firerules/internal/prof"
	"firerules/internal/version"
)

var (
	rootCmd = newRootCmd()
	// активная сессия профилирования
	profiling *prof.Session
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "firerules",
		Short:         "Firestore security rules analyzer and language server",
		Long:          `firerules parses Firestore security rules, reports diagnostics and serves editors over LSP`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Глобальные флаги
	root.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: search upwards)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	root.PersistentFlags().String("trace", "", "write a runtime trace to file")
	root.PersistentPreRunE = startProfiling
	root.PersistentPostRunE = func(*cobra.Command, []string) error { return stopProfiling() }

	root.AddCommand(
		newLSPCmd(),
		newCheckCmd(),
		newTokensCmd(),
		newParseCmd(),
		newResolveCmd(),
		newSymbolsCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)
	return root
}

// main executes the root command. Failed checks exit with status 1 without
// an extra message; other errors are printed first.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if perr := stopProfiling(); perr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", perr)
	}
	if err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func startProfiling(cmd *cobra.Command, _ []string) error {
	var paths prof.Paths
	flags := cmd.Flags()
	var err error
	if paths.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return err
	}
	if paths.Mem, err = flags.GetString("mem-profile"); err != nil {
		return err
	}
	if paths.Trace, err = flags.GetString("trace"); err != nil {
		return err
	}
	if !paths.Enabled() {
		return nil
	}
	profiling, err = prof.Start(paths)
	return err
}

func stopProfiling() error {
	err := profiling.Stop()
	profiling = nil
	return err
}
