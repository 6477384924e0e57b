package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"annot/internal/source"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListFilesFiltersAndSorts(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.ts":        "let b = 2;",
		"a.ts":        "let a = 1;",
		"sub/c.ts":    "let c = 3;",
		"notes.md":    "skip me",
		"sub/skip.js": "skip me too",
	})
	files, err := ListFiles(dir, []string{".ts"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Fatalf("files not sorted: %v", files)
		}
	}
}

func TestCheckFileCleanRoundTrip(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.ts", []byte("function f() { return 1; } // done\n"))
	res := CheckFile(fs, id, 100)
	if !res.Clean {
		t.Fatalf("expected a clean round trip")
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Bag.Items())
	}
}

func TestCheckFileReportsScanWarnings(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.ts", []byte("x = 'oops"))
	res := CheckFile(fs, id, 100)
	if !res.Bag.HasWarnings() {
		t.Fatalf("expected the unterminated-string warning to surface")
	}
}

func TestCheckDirProcessesAllFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.ts":     "let a = 1;\n",
		"b.ts":     "// comment only\n",
		"sub/c.ts": "const c = 'x';\n",
	})
	events := make(chan Event, 16)
	_, results, err := CheckDir(context.Background(), dir, Options{
		Jobs:   2,
		Events: events,
	})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	close(events)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if !res.Clean {
			t.Errorf("%s: not clean", res.Path)
		}
	}
	seen := 0
	for ev := range events {
		seen++
		if ev.Total != 3 {
			t.Errorf("event total = %d", ev.Total)
		}
	}
	if seen != 3 {
		t.Fatalf("expected 3 events, got %d", seen)
	}
}

func TestCheckDirUsesCacheOnSecondRun(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("annot-test")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	dir := writeTree(t, map[string]string{"a.ts": "let a = 1;\n"})

	_, first, err := CheckDir(context.Background(), dir, Options{Cache: cache})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first[0].Cached {
		t.Fatalf("first run must not be cached")
	}

	_, second, err := CheckDir(context.Background(), dir, Options{Cache: cache})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !second[0].Cached {
		t.Fatalf("second run should replay from cache")
	}
	if second[0].Clean != first[0].Clean {
		t.Fatalf("cached result diverges")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("annot-test")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	key := Digest{1, 2, 3}
	in := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Clean:  false,
		Diagnostics: []CachedDiagnostic{
			{Code: 2003, Severity: 2, Start: 4, End: 5, Message: "diverged"},
		},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if out.Clean != in.Clean || len(out.Diagnostics) != 1 || out.Diagnostics[0].Message != "diverged" {
		t.Fatalf("payload mismatch: %+v", out)
	}

	var missing DiskPayload
	ok, err = cache.Get(Digest{9, 9}, &missing)
	if err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
}

func TestMergeBagsSortsAcrossFiles(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.ts", []byte("x = 'oops"))
	b := fs.AddVirtual("b.ts", []byte("/* open"))
	resB := CheckFile(fs, b, 100)
	resA := CheckFile(fs, a, 100)
	merged := MergeBags([]FileResult{resB, resA})
	items := merged.Items()
	if len(items) < 2 {
		t.Fatalf("expected diagnostics from both files, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Primary.File > items[i].Primary.File {
			t.Fatalf("merged bag not sorted by file")
		}
	}
}
