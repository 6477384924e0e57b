// Package project locates and loads the annot.toml manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the tool looks for when walking up from the
// working directory.
const ManifestName = "annot.toml"

// Config is the parsed manifest.
type Config struct {
	Source SourceConfig `toml:"source"`
	Check  CheckConfig  `toml:"check"`
}

type SourceConfig struct {
	// Suffixes selects which files a directory run picks up.
	Suffixes []string `toml:"suffixes"`
}

type CheckConfig struct {
	Jobs           int  `toml:"jobs"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Cache          bool `toml:"cache"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Source: SourceConfig{Suffixes: []string{".ts"}},
		Check:  CheckConfig{MaxDiagnostics: 100, Cache: true},
	}
}

// Manifest couples a loaded config with where it came from.
type Manifest struct {
	Path   string // absolute path of annot.toml, "" when defaulted
	Root   string // directory containing the manifest
	Config Config
}

// Find walks up from startDir to locate the manifest file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and validates the manifest at path, filling defaults for
// omitted fields.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if len(cfg.Source.Suffixes) == 0 {
		cfg.Source.Suffixes = Default().Source.Suffixes
	}
	if cfg.Check.MaxDiagnostics <= 0 {
		cfg.Check.MaxDiagnostics = Default().Check.MaxDiagnostics
	}
	return cfg, nil
}

// Resolve finds and loads the nearest manifest, falling back to the
// defaults when none exists.
func Resolve(startDir string) (Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Manifest{}, err
	}
	if !ok {
		return Manifest{Config: Default()}, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}
