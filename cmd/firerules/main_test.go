package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"firerules/internal/diagfmt"
	"firerules/internal/source"
)

const sampleRules = `rules_version = '2';
service cloud.firestore {
  match /databases/{database}/documents {
    function isOwner(uid) { return request.auth.uid == uid; }
    match /users/{userId} {
      allow read, write: if isOwner(userId);
    }
  }
}
`

const brokenRules = `service cloud.firestore {
  match /a {
    allow read: if missing();
  }
}
`

// setupWorkspace writes a config and the given rules files into a temp dir.
func setupWorkspace(t *testing.T, files map[string]string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "firerules.toml")
	cfg := "[check]\ncache = false\n\n[output]\ncolor = \"off\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir, cfgPath
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckCommandPretty(t *testing.T) {
	dir, cfg := setupWorkspace(t, map[string]string{"ok.rules": sampleRules})
	out, _, err := execute(t, "check", "--config", cfg, "--ui", "off", dir)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok: 1 file") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestCheckCommandFailsOnErrors(t *testing.T) {
	dir, cfg := setupWorkspace(t, map[string]string{"bad.rules": brokenRules, "ok.rules": sampleRules})
	out, _, err := execute(t, "check", "--config", cfg, "--ui", "off", "--no-cache", dir)
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("err = %v, want errCheckFailed", err)
	}
	if !strings.Contains(out, "SEM3005") || !strings.Contains(out, "1 error in 2 files") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	dir, cfg := setupWorkspace(t, map[string]string{"bad.rules": brokenRules})
	out, _, err := execute(t, "check", "--config", cfg, "--format", "json", dir)
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("err = %v", err)
	}
	var payload diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if payload.Count != 1 || payload.Diagnostics[0].Location.StartLine != 3 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestCheckCommandShort(t *testing.T) {
	dir, cfg := setupWorkspace(t, map[string]string{"bad.rules": brokenRules, "ok.rules": sampleRules})
	out, _, err := execute(t, "check", "--config", cfg, "--format", "short", dir)
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("err = %v", err)
	}
	want := filepath.Join(dir, "bad.rules") + ":3:20: error SEM3005 "
	if !strings.HasPrefix(out, want) || strings.Count(out, "\n") != 1 {
		t.Fatalf("output:\n%s", out)
	}
}

func TestCheckCommandRejectsBadFlags(t *testing.T) {
	_, cfg := setupWorkspace(t, nil)
	if _, _, err := execute(t, "check", "--config", cfg, "--format", "xml"); err == nil {
		t.Fatal("expected error for --format xml")
	}
	if _, _, err := execute(t, "check", "--config", cfg, "--ui", "maybe"); err == nil {
		t.Fatal("expected error for --ui maybe")
	}
	if _, _, err := execute(t, "check", "--config", cfg, "--color", "sometimes"); err == nil {
		t.Fatal("expected error for --color sometimes")
	}
}

func TestResolveCommand(t *testing.T) {
	dir, cfg := setupWorkspace(t, map[string]string{"a.rules": sampleRules})
	path := filepath.Join(dir, "a.rules")

	// line 6: `      allow read, write: if isOwner(userId);`, isOwner starts at column 29
	out, _, err := execute(t, "resolve", "--config", cfg, path, "6:30")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "function isOwner defined at "+path+":4:14") {
		t.Fatalf("output:\n%s", out)
	}

	out, _, err = execute(t, "resolve", "--config", cfg, path, "1:1")
	if err != nil {
		t.Fatalf("resolve at header: %v", err)
	}
	if !strings.Contains(out, "no reference") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestTokensAndSymbolsCommands(t *testing.T) {
	dir, cfg := setupWorkspace(t, map[string]string{"a.rules": sampleRules})
	path := filepath.Join(dir, "a.rules")

	out, _, err := execute(t, "tokens", "--config", cfg, path)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if !strings.Contains(out, `"rules_version"`) || !strings.Contains(out, "data:") {
		t.Fatalf("tokens output:\n%s", out)
	}
	if !strings.Contains(out, `string    0:16+3 "'2'"`) {
		t.Fatalf("version string token missing:\n%s", out)
	}

	out, _, err = execute(t, "symbols", "--config", cfg, path)
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	if !strings.Contains(out, "function isOwner(uid)") || !strings.Contains(out, "allow read, write") {
		t.Fatalf("symbols output:\n%s", out)
	}

	out, _, err = execute(t, "parse", "--config", cfg, "--cst", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.HasPrefix(out, "source_file") {
		t.Fatalf("parse output:\n%s", out)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "firerules" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestParsePosition(t *testing.T) {
	file := source.NewVirtualFile("p.rules", "ab\nxé🙂y\n")
	tests := []struct {
		in      string
		want    source.Point
		wantErr bool
	}{
		{"1:1", source.Point{Row: 0, Column: 0}, false},
		{"2:3", source.Point{Row: 1, Column: uint32(len("xé"))}, false},
		{"2:4", source.Point{Row: 1, Column: uint32(len("xé🙂"))}, false},
		{"2:99", source.Point{Row: 1, Column: uint32(len("xé🙂y"))}, false},
		{"0:1", source.Point{}, true},
		{"9:1", source.Point{}, true},
		{"12", source.Point{}, true},
		{"a:b", source.Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePosition(file, tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parsePosition(%q) error = %v", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Fatalf("parsePosition(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAutoMode(t *testing.T) {
	for in, want := range map[string]autoMode{"": modeAuto, "AUTO": modeAuto, " on ": modeOn, "off": modeOff} {
		got, err := parseAutoMode("ui", in)
		if err != nil || got != want {
			t.Fatalf("parseAutoMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := parseAutoMode("ui", "sometimes"); err == nil {
		t.Fatal("expected error")
	}
	if !modeOn.resolve(func() bool { return false }) || modeOff.resolve(func() bool { return true }) {
		t.Fatal("forced modes must ignore detection")
	}
	if !modeAuto.resolve(func() bool { return true }) {
		t.Fatal("auto must use detection")
	}
}
