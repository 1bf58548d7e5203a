// Package manifest parses astra.toml, the project manifest documented in
// spec.md §6: a required [package] table plus optional [build], [lint],
// [dependencies], [dev-dependencies], [features], and [targets] tables.
//
// Grounded on funvibe/funxy's internal/ext.Config/LoadConfig/FindConfig
// (the project's own external-manifest loader: os.ReadFile + unmarshal +
// validate, plus an upward directory walk to locate the file), adapted
// from funxy.yaml/yaml.v3 to astra.toml/BurntSushi-toml, the TOML library
// the example corpus's own manifests (go.mod) already depend on.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/astra-lang/astra/internal/config"
)

// Package describes the required [package] table.
type Package struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Authors     []string `toml:"authors,omitempty"`
	License     string   `toml:"license,omitempty"`
	Description string   `toml:"description,omitempty"`
	Main        string   `toml:"main,omitempty"`
}

// Build describes the optional [build] table.
type Build struct {
	Target string `toml:"target,omitempty"`
}

// Lint describes the optional [lint] table.
type Lint struct {
	Level string `toml:"level,omitempty"`
}

// Dependency is a single entry in [dependencies] or [dev-dependencies],
// keyed by package name to a version requirement string.
type Dependency struct {
	Version string `toml:"version"`
}

// Target describes a single entry under [targets], naming an additional
// entry-point module to build or run distinctly from [package].main.
type Target struct {
	Main string `toml:"main"`
}

// Manifest is the parsed form of astra.toml.
type Manifest struct {
	Package         Package               `toml:"package"`
	Build           Build                 `toml:"build,omitempty"`
	Lint            Lint                  `toml:"lint,omitempty"`
	Dependencies    map[string]Dependency `toml:"dependencies,omitempty"`
	DevDependencies map[string]Dependency `toml:"dev-dependencies,omitempty"`
	Features        map[string]bool       `toml:"features,omitempty"`
	Targets         map[string]Target     `toml:"targets,omitempty"`
}

// Load reads and parses astra.toml at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses astra.toml content from bytes. path is used only in error
// messages.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	return &m, nil
}

// validate checks the required [package] fields are present.
func (m *Manifest) validate(path string) error {
	if m.Package.Name == "" {
		return fmt.Errorf("%s: [package].name is required", path)
	}
	if m.Package.Version == "" {
		return fmt.Errorf("%s: [package].version is required", path)
	}
	return nil
}

// Find searches for astra.toml starting from dir and walking upward to
// parent directories, returning the path to the manifest if found, or an
// empty string if the filesystem root is reached with no match.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, config.ManifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
