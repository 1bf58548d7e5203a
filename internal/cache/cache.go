// Package cache implements the incremental-checking cache described in
// spec.md §6: a JSON file under .astra-cache/ mapping each source file's
// canonical path to its content hash and last-seen diagnostic counts, so
// `astra check` can skip files that have not changed since they last
// cleanly (or not-so-cleanly) checked.
//
// Grounded on original_source/src/cache.rs's CheckCache (load/save/
// lookup/store/prune, hash_content, find_project_root), translated from
// serde_json + DefaultHasher to encoding/json + hash/fnv, and on
// funvibe/funxy's internal/ext.Cache for the Go shape of a cache type
// (struct + methods, os.MkdirAll, os.WriteFile with explicit perms,
// filepath.Join) — though unlike funxy's binary cache this one persists
// structured check results, not build artifacts.
package cache

import (
	"encoding/json"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/astra-lang/astra/internal/config"
)

// CachedFileResult is the cached outcome of checking a single file, keyed
// by its content hash so a later check with the same hash can be skipped.
type CachedFileResult struct {
	ContentHash uint64   `json:"content_hash"`
	Errors      int      `json:"errors"`
	Warnings    int      `json:"warnings"`
	Diagnostics []string `json:"diagnostics"`
}

// CheckCache is the on-disk cache structure, one entry per canonicalized
// source file path.
type CheckCache struct {
	Files map[string]CachedFileResult `json:"files"`
}

// New returns an empty cache.
func New() *CheckCache {
	return &CheckCache{Files: make(map[string]CachedFileResult)}
}

// Load reads the cache from .astra-cache/check-cache.json under
// projectRoot, returning an empty cache on any read or parse error
// (missing cache, corrupt JSON, first run) rather than failing the check.
func Load(projectRoot string) *CheckCache {
	path := filepath.Join(projectRoot, config.CacheDirName, config.CacheFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return New()
	}
	var c CheckCache
	if err := json.Unmarshal(data, &c); err != nil {
		return New()
	}
	if c.Files == nil {
		c.Files = make(map[string]CachedFileResult)
	}
	return &c
}

// Save writes the cache to .astra-cache/check-cache.json under
// projectRoot, creating the cache directory if needed.
func (c *CheckCache) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, config.CacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, config.CacheFileName), data, 0o644)
}

// Lookup returns the cached result for path if present and its stored
// content hash matches currentHash (meaning the file hasn't changed since
// it was last checked).
func (c *CheckCache) Lookup(path string, currentHash uint64) (CachedFileResult, bool) {
	key := pathKey(path)
	result, ok := c.Files[key]
	if !ok || result.ContentHash != currentHash {
		return CachedFileResult{}, false
	}
	return result, true
}

// Store records result under path's canonicalized key.
func (c *CheckCache) Store(path string, result CachedFileResult) {
	if c.Files == nil {
		c.Files = make(map[string]CachedFileResult)
	}
	c.Files[pathKey(path)] = result
}

// Prune removes entries for files that no longer exist on disk.
func (c *CheckCache) Prune() {
	for path := range c.Files {
		if _, err := os.Stat(path); err != nil {
			delete(c.Files, path)
		}
	}
}

// HashContent computes a stable 64-bit content hash, the Go-side
// equivalent of the original's DefaultHasher-over-the-string approach.
func HashContent(content string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}

// pathKey normalizes a path to a stable string key, preferring the
// canonical (symlink-resolved, absolute) form but falling back to the
// path as given if it can't be resolved (e.g. the file doesn't exist yet).
func pathKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// FindProjectRoot walks upward from start looking for astra.toml, the
// project manifest, returning the directory that contains it. If none is
// found, it falls back to the current working directory.
func FindProjectRoot(start string) string {
	info, err := os.Stat(start)
	dir := start
	if err == nil && !info.IsDir() {
		dir = filepath.Dir(start)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		dir = start
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, config.ManifestFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
