package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"firerules/internal/config"
	"firerules/internal/diag"
	"firerules/internal/diagfmt"
	"firerules/internal/driver"
)

type checkOptions struct {
	format  string
	jobs    int
	ui      autoMode
	watch   bool
	noCache bool
	timings bool
	color   bool
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Diagnose rules files and directories",
		Long: `Diagnose every *.rules file under the given paths (default: the current directory).
Exits with status 1 when any error is reported.`,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "", "output format (pretty|short|json), default from config")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0 = config or GOMAXPROCS)")
	cmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off)")
	cmd.Flags().Bool("watch", false, "re-check when rules files change")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
	return cmd
}

func readCheckOptions(cmd *cobra.Command, cfg config.Config) (checkOptions, error) {
	opts := checkOptions{
		format:  cfg.Output.Format,
		jobs:    cfg.Check.Jobs,
		noCache: !cfg.Check.Cache,
		timings: timingsEnabled(cmd),
		color:   useColor(cfg.Output.Color, cmd.OutOrStdout()),
	}
	if cmd.Flags().Changed("format") {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return opts, err
		}
		opts.format = strings.ToLower(strings.TrimSpace(format))
	}
	switch opts.format {
	case "pretty", "short", "json":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty, short or json)", opts.format)
	}
	if cmd.Flags().Changed("jobs") {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return opts, err
		}
		if jobs < 0 {
			return opts, fmt.Errorf("--jobs must not be negative")
		}
		opts.jobs = jobs
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, err
	}
	if opts.ui, err = parseAutoMode("ui", uiValue); err != nil {
		return opts, err
	}
	if opts.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return opts, err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return opts, err
	}
	opts.noCache = opts.noCache || noCache
	return opts, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := readCheckOptions(cmd, cfg)
	if err != nil {
		return err
	}

	driverOpts := driver.CheckOptions{
		Analysis:       cfg.AnalysisOptions(),
		Include:        cfg.Check.Include,
		Jobs:           opts.jobs,
		MaxDiagnostics: cfg.LSP.MaxDiagnostics,
	}
	if !opts.noCache {
		dir, err := cfg.CacheDir()
		if err != nil {
			return err
		}
		if driverOpts.Cache, err = driver.OpenDiskCache(dir); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	ok, err := checkOnce(cmd.Context(), out, args, driverOpts, opts)
	if err != nil {
		return err
	}
	if !opts.watch {
		if !ok {
			return errCheckFailed
		}
		return nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "watching for changes (Ctrl+C to stop)")
	return driver.Watch(cmd.Context(), args, driverOpts.Include, 0, func(changed []string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d file(s) changed, re-checking\n", len(changed))
		if _, err := checkOnce(cmd.Context(), out, args, driverOpts, opts); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
}

// checkOnce runs one check pass and prints its report. ok is false when any
// error diagnostic was reported.
func checkOnce(ctx context.Context, out io.Writer, paths []string, driverOpts driver.CheckOptions, opts checkOptions) (bool, error) {
	var (
		res *driver.CheckResult
		err error
	)
	if opts.format == "pretty" && shouldUseTUI(opts.ui) {
		files, listErr := driver.ListFiles(paths, driverOpts.Include)
		if listErr != nil {
			return false, listErr
		}
		res, err = runCheckWithUI(ctx, "checking rules", files, paths, driverOpts)
	} else {
		res, err = driver.Check(ctx, paths, driverOpts)
	}
	if err != nil {
		return false, err
	}

	switch opts.format {
	case "json":
		files := make([]diagfmt.FileDiagnostics, len(res.Files))
		for i, f := range res.Files {
			files[i] = diagfmt.FileDiagnostics{Path: f.Path, File: f.File, Bag: f.Bag}
		}
		if err := diagfmt.JSON(out, files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
			return false, err
		}
	case "short":
		cwd, _ := os.Getwd()
		for _, f := range res.Files {
			if f.Bag == nil || f.Bag.Len() == 0 {
				continue
			}
			fmt.Fprintln(out, diag.FormatShort(f.Bag.Items(), diagfmt.FormatPath(f.Path, diagfmt.PathModeAuto, cwd), false))
		}
	default:
		cwd, _ := os.Getwd()
		prettyOpts := diagfmt.PrettyOpts{Color: opts.color, Context: 0, PathMode: diagfmt.PathModeAuto, BaseDir: cwd, ShowNotes: true}
		for _, f := range res.Files {
			diagfmt.Pretty(out, f.Bag, f.File, f.Path, prettyOpts)
			if f.Dropped > 0 {
				fmt.Fprintf(out, "%s: %d more diagnostics not shown\n", diagfmt.FormatPath(f.Path, diagfmt.PathModeAuto, cwd), f.Dropped)
			}
		}
		errs, warnings := res.Counts()
		diagfmt.Summary(out, errs, warnings, len(res.Files), opts.color)
	}

	if opts.timings {
		fmt.Fprint(os.Stderr, res.Timings().Summary())
		fmt.Fprintf(os.Stderr, "  cache hits: %d/%d\n", res.CacheHits(), len(res.Files))
	}
	return !res.HasErrors(), nil
}
