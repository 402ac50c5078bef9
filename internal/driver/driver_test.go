package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"firerules/internal/analysis"
	"firerules/internal/diag"
	"firerules/internal/scope"
	"firerules/internal/source"
)

const validRules = `rules_version = '2';
service cloud.firestore {
  match /databases/{database}/documents {
    function signedIn() { return request.auth != null; }
    allow read: if signedIn();
  }
}
`

const brokenRules = `service cloud.firestore {
  match /a {
    allow read: if missing();
  }
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.rules"), validRules)
	writeFile(t, filepath.Join(dir, "nested", "a.rules"), validRules)
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden", "c.rules"), validRules)
	explicit := filepath.Join(dir, "notes.txt")

	files, err := ListFiles([]string{dir, explicit, filepath.Join(dir, "b.rules")}, nil)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "b.rules"),
		filepath.Join(dir, "nested", "a.rules"),
		explicit,
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}

	if _, err := ListFiles([]string{filepath.Join(dir, "missing")}, nil); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	content := []byte(validRules)
	base := analysis.DefaultOptions()
	k1 := CacheKey(content, base)
	if k1.IsZero() {
		t.Fatal("zero digest")
	}
	if k2 := CacheKey(content, base); k1 != k2 {
		t.Fatal("cache key is not deterministic")
	}

	inner := base
	inner.Policy = scope.InnermostFirst
	if CacheKey(content, inner) == k1 {
		t.Fatal("policy must change the key")
	}
	deeper := base
	deeper.MaxDepth = 10
	if CacheKey(content, deeper) == k1 {
		t.Fatal("max depth must change the key")
	}
	extra := base
	extra.Builtins = append(append([]string(nil), base.Builtins...), "custom")
	if CacheKey(content, extra) == k1 {
		t.Fatal("builtins must change the key")
	}
	if CacheKey([]byte(brokenRules), base) == k1 {
		t.Fatal("content must change the key")
	}
}

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := CacheKey([]byte(brokenRules), analysis.DefaultOptions())

	var out DiskPayload
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}

	d := diag.NewError(diag.SemaUnresolvedFunction, source.Span{
		Start: source.Point{Row: 2, Column: 19},
		End:   source.Point{Row: 2, Column: 25},
	}, "missing")
	in := &DiskPayload{Path: "a.rules", Diagnostics: []diag.Diagnostic{d}, Broken: true}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if out.Path != "a.rules" || !out.Broken || len(out.Diagnostics) != 1 {
		t.Fatalf("payload = %+v", out)
	}
	if got := out.Diagnostics[0]; got.Code != d.Code || got.Primary != d.Primary || got.Message != d.Message || got.Severity != d.Severity {
		t.Fatalf("diagnostic = %+v, want %+v", got, d)
	}

	st, err := cache.Stats()
	if err != nil || st.Entries != 1 || st.Bytes == 0 {
		t.Fatalf("Stats = %+v, %v", st, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, _ := cache.Get(key, &out); ok {
		t.Fatal("entry survived DropAll")
	}
	if st, err := cache.Stats(); err != nil || st.Entries != 0 {
		t.Fatalf("Stats after DropAll = %+v, %v", st, err)
	}
}

func TestDiskCacheIgnoresOtherSchema(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := CacheKey([]byte("x"), analysis.DefaultOptions())
	if err := cache.Put(key, &DiskPayload{Path: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Put stamps the current schema; rewrite the entry with a stale one.
	f, err := os.Create(cache.pathFor(key))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stale := DiskPayload{Schema: diskCacheSchemaVersion + 1, Path: "x"}
	if err := encodePayload(f, &stale); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if err != nil || ok {
		t.Fatalf("Get with stale schema = %v, %v", ok, err)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) final(file string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if ev.File == file && (ev.Status == StatusDone || ev.Status == StatusError) {
			return ev, true
		}
	}
	return Event{}, false
}

func TestCheckDiagnosesAndCaches(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.rules")
	bad := filepath.Join(dir, "bad.rules")
	writeFile(t, good, validRules)
	writeFile(t, bad, brokenRules)

	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	sink := &recordingSink{}
	opts := CheckOptions{
		Analysis:       analysis.DefaultOptions(),
		Jobs:           2,
		MaxDiagnostics: 50,
		Cache:          cache,
		Progress:       sink,
	}

	res, err := Check(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(res.Files))
	}
	// sorted: bad.rules before good.rules
	if res.Files[0].Path != bad || res.Files[1].Path != good {
		t.Fatalf("order = %q, %q", res.Files[0].Path, res.Files[1].Path)
	}
	if !res.HasErrors() || !res.Files[0].HasErrors() || res.Files[1].HasErrors() {
		t.Fatalf("unexpected error state: bad=%v good=%v", res.Files[0].HasErrors(), res.Files[1].HasErrors())
	}
	if res.CacheHits() != 0 {
		t.Fatalf("cold run hit the cache %d times", res.CacheHits())
	}
	if res.Files[0].Doc == nil {
		t.Fatal("fresh result must carry the document")
	}
	if ev, ok := sink.final(bad); !ok || ev.Status != StatusError {
		t.Fatalf("final event for bad = %+v, %v", ev, ok)
	}
	if ev, ok := sink.final(good); !ok || ev.Status != StatusDone {
		t.Fatalf("final event for good = %+v, %v", ev, ok)
	}

	warm, err := Check(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("warm Check: %v", err)
	}
	if warm.CacheHits() != 2 {
		t.Fatalf("warm cache hits = %d, want 2", warm.CacheHits())
	}
	coldErrs, _ := res.Counts()
	warmErrs, _ := warm.Counts()
	if coldErrs != warmErrs || coldErrs == 0 {
		t.Fatalf("errors cold=%d warm=%d", coldErrs, warmErrs)
	}
	if warm.Files[0].Bag.Items()[0].Code != res.Files[0].Bag.Items()[0].Code {
		t.Fatal("cached diagnostics differ")
	}
}

func TestCheckMissingFileReportsLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.rules")
	writeFile(t, path, validRules)
	files, err := ListFiles([]string{dir}, nil)
	if err != nil || len(files) != 1 {
		t.Fatalf("ListFiles = %v, %v", files, err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	res := checkFile(path, CheckOptions{Analysis: analysis.DefaultOptions()})
	if res.File != nil || !res.HasErrors() {
		t.Fatalf("result = %+v", res)
	}
	if got := res.Bag.Items()[0].Code; got != diag.IOLoadFileError {
		t.Fatalf("code = %v", got)
	}
}

func TestCheckHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rules"), validRules)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Check(ctx, []string{dir}, CheckOptions{Analysis: analysis.DefaultOptions(), Jobs: 1})
	if !IsCanceled(err) {
		t.Fatalf("err = %v, want cancellation", err)
	}
}

func TestCheckMaxDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many.rules")
	writeFile(t, path, `service cloud.firestore {
  match /a {
    allow read: if a() && b() && c();
  }
}
`)
	res, err := Check(context.Background(), []string{path}, CheckOptions{
		Analysis:       analysis.DefaultOptions(),
		MaxDiagnostics: 1,
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	f := res.Files[0]
	if f.Bag.Len() != 1 || f.Dropped != 2 {
		t.Fatalf("len = %d dropped = %d", f.Bag.Len(), f.Dropped)
	}
}
