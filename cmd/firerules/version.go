package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"firerules/internal/diagnose"
	"firerules/internal/version"
)

type versionPayload struct {
	Tool          string `json:"tool"`
	Version       string `json:"version"`
	RulesVersions string `json:"rules_versions"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show firerules build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "json":
				return renderVersionJSON(cmd.OutOrStdout())
			case "pretty":
				fmt.Fprint(cmd.OutOrStdout(), version.Summary())
				fmt.Fprintf(cmd.OutOrStdout(), "rules_version: %s\n", diagnose.SupportedVersions)
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionJSON(out io.Writer) error {
	payload := versionPayload{
		Tool:          "firerules",
		Version:       strings.TrimSpace(version.Version),
		RulesVersions: diagnose.SupportedVersions,
		GitCommit:     strings.TrimSpace(version.GitCommit),
		BuildDate:     strings.TrimSpace(version.BuildDate),
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
