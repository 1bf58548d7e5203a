package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashContentDeterministic(t *testing.T) {
	if HashContent("hello world") != HashContent("hello world") {
		t.Errorf("HashContent must be deterministic for identical input")
	}
	if HashContent("hello") == HashContent("world") {
		t.Errorf("HashContent should differ for different input")
	}
}

func TestLookupHitAndMiss(t *testing.T) {
	c := New()
	c.Store("a.astra", CachedFileResult{ContentHash: 42, Errors: 0, Warnings: 1})

	if _, ok := c.Lookup("a.astra", 99); ok {
		t.Errorf("Lookup should miss when the stored hash differs")
	}
	result, ok := c.Lookup("a.astra", 42)
	if !ok {
		t.Fatalf("Lookup should hit when the hash matches")
	}
	if result.Warnings != 1 {
		t.Errorf("cached result mismatch: %+v", result)
	}
}

func TestPruneRemovesMissingFilesOnly(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.astra")
	if err := os.WriteFile(keep, []byte("module m"), 0o644); err != nil {
		t.Fatal(err)
	}
	gone := filepath.Join(dir, "gone.astra")

	c := New()
	c.Store(keep, CachedFileResult{ContentHash: 1})
	c.Store(gone, CachedFileResult{ContentHash: 2})
	c.Prune()

	if _, ok := c.Files[pathKey(keep)]; !ok {
		t.Errorf("Prune must keep entries for files that still exist")
	}
	if _, ok := c.Files[pathKey(gone)]; ok {
		t.Errorf("Prune must remove entries for files that no longer exist")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New()
	c.Store("x.astra", CachedFileResult{ContentHash: 7, Errors: 2, Diagnostics: []string{"E1001"}})
	if err := c.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(dir)
	result, ok := loaded.Lookup("x.astra", 7)
	if !ok {
		t.Fatalf("expected a cache hit after round-tripping through disk")
	}
	if result.Errors != 2 || len(result.Diagnostics) != 1 || result.Diagnostics[0] != "E1001" {
		t.Errorf("round-tripped result mismatch: %+v", result)
	}
}

func TestLoadMissingCacheReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	c := Load(dir)
	if c == nil || len(c.Files) != 0 {
		t.Errorf("Load with no cache file present should return an empty cache")
	}
}

func TestFindProjectRootWalksUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "astra.toml"), []byte("[package]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got := FindProjectRoot(nested)
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot(%q) = %q, want %q", nested, got, want)
	}
}
