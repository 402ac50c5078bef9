// Package config loads firerules.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"firerules/internal/analysis"
	"firerules/internal/diagnose"
	"firerules/internal/scope"
	"firerules/internal/syntax"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "firerules.toml"

type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Check    CheckConfig    `toml:"check"`
	LSP      LSPConfig      `toml:"lsp"`
	Output   OutputConfig   `toml:"output"`
}

type AnalysisConfig struct {
	MaxDepth    int    `toml:"max_depth"`
	ScopePolicy string `toml:"scope_policy"`
	// RuntimeBuiltins exempts get, exists and the other runtime functions
	// from the unresolved function check.
	RuntimeBuiltins bool `toml:"runtime_builtins"`
	// ExtraBuiltins are further call names exempt from the check.
	ExtraBuiltins []string `toml:"extra_builtins"`
}

type CheckConfig struct {
	Jobs     int      `toml:"jobs"`
	Include  []string `toml:"include"`
	Cache    bool     `toml:"cache"`
	CacheDir string   `toml:"cache_dir"`
}

type LSPConfig struct {
	DebounceMS     int  `toml:"debounce_ms"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Trace          bool `toml:"trace"`
}

type OutputConfig struct {
	Color  string `toml:"color"`
	Format string `toml:"format"`
}

func Default() Config {
	return Config{
		Analysis: AnalysisConfig{
			MaxDepth:    syntax.DefaultMaxDepth,
			ScopePolicy: scope.OutermostFirst.String(),
		},
		Check: CheckConfig{
			Include: []string{"*.rules"},
			Cache:   true,
		},
		LSP: LSPConfig{
			DebounceMS:     150,
			MaxDiagnostics: 100,
		},
		Output: OutputConfig{
			Color:  "auto",
			Format: "pretty",
		},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads explicit when set, otherwise the nearest FileName above
// startDir, otherwise the defaults. The returned path is empty for defaults.
func Resolve(startDir, explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c Config) Validate() error {
	if c.Analysis.MaxDepth <= 0 {
		return fmt.Errorf("[analysis].max_depth must be positive, got %d", c.Analysis.MaxDepth)
	}
	if _, err := scope.ParsePolicy(c.Analysis.ScopePolicy); err != nil {
		return fmt.Errorf("[analysis].scope_policy: %w", err)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative, got %d", c.Check.Jobs)
	}
	for _, pattern := range c.Check.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("[check].include %q: %w", pattern, err)
		}
	}
	if c.LSP.DebounceMS < 0 {
		return fmt.Errorf("[lsp].debounce_ms must not be negative, got %d", c.LSP.DebounceMS)
	}
	if c.LSP.MaxDiagnostics <= 0 {
		return fmt.Errorf("[lsp].max_diagnostics must be positive, got %d", c.LSP.MaxDiagnostics)
	}
	if !slices.Contains([]string{"auto", "on", "off"}, c.Output.Color) {
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	if !slices.Contains([]string{"pretty", "short", "json"}, c.Output.Format) {
		return fmt.Errorf("[output].format must be pretty, short or json, got %q", c.Output.Format)
	}
	return nil
}

// AnalysisOptions converts the analysis section. The config must be valid.
func (c Config) AnalysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.MaxDepth = c.Analysis.MaxDepth
	if p, err := scope.ParsePolicy(c.Analysis.ScopePolicy); err == nil {
		opts.Policy = p
	}
	if c.Analysis.RuntimeBuiltins {
		opts.Builtins = append(opts.Builtins, diagnose.RuntimeBuiltins...)
	}
	opts.Builtins = append(opts.Builtins, c.Analysis.ExtraBuiltins...)
	return opts
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.LSP.DebounceMS) * time.Millisecond
}

// CacheDir returns the configured cache directory or one under the user
// cache directory.
func (c Config) CacheDir() (string, error) {
	if c.Check.CacheDir != "" {
		return c.Check.CacheDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(base, "firerules"), nil
}
