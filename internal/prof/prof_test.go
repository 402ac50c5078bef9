package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesRequestedProfiles(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	s, err := Start(paths)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	for _, p := range []string{paths.CPU, paths.Mem, paths.Trace} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
}

func TestEmptyPaths(t *testing.T) {
	if (Paths{}).Enabled() {
		t.Fatal("empty paths should be disabled")
	}
	s, err := Start(Paths{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	var nilSession *Session
	if err := nilSession.Stop(); err != nil {
		t.Fatalf("nil Stop: %v", err)
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	_, err := Start(Paths{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	if err == nil {
		t.Fatal("expected error")
	}
}
