package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"firerules/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the check result cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show the cache location and size",
			Args:  cobra.NoArgs,
			RunE:  runCacheInfo,
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Remove every cached result",
			Args:  cobra.NoArgs,
			RunE:  runCacheClean,
		},
	)
	return cmd
}

func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return driver.OpenDiskCache(dir)
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	st, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dir:     %s\n", cache.Dir())
	fmt.Fprintf(out, "entries: %d\n", st.Entries)
	fmt.Fprintf(out, "size:    %s\n", humanBytes(st.Bytes))
	return nil
}

func runCacheClean(cmd *cobra.Command, _ []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	st, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("clean cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries (%s)\n", st.Entries, humanBytes(st.Bytes))
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
