package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"firerules/internal/analysis"
	"firerules/internal/config"
	"firerules/internal/source"
)

var errCheckFailed = errors.New("check failed")

// loadConfig resolves firerules.toml and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, _, err := config.Resolve(cwd, explicit)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("color") {
		value, err := cmd.Flags().GetString("color")
		if err != nil {
			return config.Config{}, err
		}
		cfg.Output.Color = strings.ToLower(strings.TrimSpace(value))
	}
	if cmd.Flags().Changed("max-diagnostics") {
		limit, err := cmd.Flags().GetInt("max-diagnostics")
		if err != nil {
			return config.Config{}, err
		}
		cfg.LSP.MaxDiagnostics = limit
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// autoMode is the auto|on|off switch behind --color and --ui.
type autoMode string

const (
	modeAuto autoMode = "auto"
	modeOn   autoMode = "on"
	modeOff  autoMode = "off"
)

func parseAutoMode(flag, value string) (autoMode, error) {
	switch m := autoMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return modeAuto, nil
	case modeAuto, modeOn, modeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// resolve returns the forced value, or detect() in auto mode.
func (m autoMode) resolve(detect func() bool) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	}
	return detect()
}

// useColor decides whether output written to w gets ANSI colors.
func useColor(mode string, w io.Writer) bool {
	return autoMode(mode).resolve(func() bool {
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		f, ok := w.(*os.File)
		return ok && isTerminal(f)
	})
}

// shouldUseTUI reports whether check progress gets the interactive view.
func shouldUseTUI(mode autoMode) bool {
	return mode.resolve(func() bool {
		// CI logs are not terminals even when a pty is attached
		return os.Getenv("CI") == "" && isTerminal(os.Stderr)
	})
}

func timingsEnabled(cmd *cobra.Command) bool {
	on, err := cmd.Flags().GetBool("timings")
	return err == nil && on
}

// loadDocument reads path and runs every analysis pass over it.
func loadDocument(path string, cfg config.Config) (*analysis.Document, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return analysis.Parse(path, 0, file, cfg.AnalysisOptions()), nil
}

func writeTimings(w io.Writer, doc *analysis.Document) {
	fmt.Fprint(w, doc.Timings.Summary())
}

// parsePosition parses "line:col" with both parts 1-based; col counts
// characters. The result is a byte-column point inside file.
func parsePosition(file *source.File, value string) (source.Point, error) {
	lineStr, colStr, ok := strings.Cut(value, ":")
	if !ok {
		return source.Point{}, fmt.Errorf("invalid position %q (expected line:col)", value)
	}
	line, err := strconv.Atoi(strings.TrimSpace(lineStr))
	if err != nil || line < 1 {
		return source.Point{}, fmt.Errorf("invalid line in %q", value)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil || col < 1 {
		return source.Point{}, fmt.Errorf("invalid column in %q", value)
	}
	if line > file.LineCount() {
		return source.Point{}, fmt.Errorf("line %d is past the end of %s (%d lines)", line, file.Path, file.LineCount())
	}
	row := uint32(line - 1)
	text := file.Line(row)
	byteCol := 0
	for i := 1; i < col && byteCol < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[byteCol:])
		byteCol += size
	}
	return source.Point{Row: row, Column: uint32(byteCol)}, nil
}
