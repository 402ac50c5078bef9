package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestPrettyWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "1.2.3-rc1"
	if got := Pretty(); got != "1.2.3-rc1" {
		t.Errorf("Pretty() = %q", got)
	}
	Version = "weird"
	if got := Pretty(); got != "weird" {
		t.Errorf("Pretty() = %q", got)
	}
}

func TestSummary(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	got := Summary()
	for _, want := range []string{"firerules 1.2.3", "commit: abc123def456", "built:  2024-01-15T10:30:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summary() = %q, missing %q", got, want)
		}
	}
}
