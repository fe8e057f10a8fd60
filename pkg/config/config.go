// Package config loads the optional keel.yaml project configuration
// and resolves defaults from the enclosing Go module.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Config represents the optional keel.yaml configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Engine EngineConfig `yaml:"engine"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// EngineConfig contains engine settings. PropagateContentResize and
// DiagnosticLimit map directly onto the layout engine's options.
type EngineConfig struct {
	Version                string `yaml:"version,omitempty"`
	PropagateContentResize *bool  `yaml:"propagate_content_resize,omitempty"`
	DiagnosticLimit        int    `yaml:"diagnostic_limit,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string

	EngineVersion          string
	PropagateContentResize bool
	DiagnosticLimit        int
}

// LoadOptional reads keel.yaml if present. A missing file is not an
// error; it yields the zero configuration.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "keel.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read keel.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse keel.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads keel.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	engineVersion := strings.TrimSpace(cfg.Engine.Version)
	if engineVersion == "" {
		engineVersion = "latest"
	}
	if err := validateEngineVersion(engineVersion); err != nil {
		return nil, err
	}

	propagate := true
	if cfg.Engine.PropagateContentResize != nil {
		propagate = *cfg.Engine.PropagateContentResize
	}

	limit := cfg.Engine.DiagnosticLimit
	if limit < 0 {
		return nil, fmt.Errorf("engine.diagnostic_limit must not be negative (got %d)", limit)
	}

	return &Resolved{
		Root:                   dir,
		ModulePath:             modulePath,
		AppName:                appName,
		EngineVersion:          engineVersion,
		PropagateContentResize: propagate,
		DiagnosticLimit:        limit,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

// validateEngineVersion accepts "latest" or a valid semantic version
// (with or without the leading "v").
func validateEngineVersion(version string) error {
	if version == "latest" {
		return nil
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("engine.version must be 'latest' or a semantic version (got %q)", version)
	}
	return nil
}

func defaultAppName(modulePath, dir string) string {
	parts := strings.Split(modulePath, "/")
	base := parts[len(parts)-1]
	if len(parts) > 1 && semver.IsValid(base) {
		// Major-version suffix like /v2 is not a name.
		base = parts[len(parts)-2]
	}
	if base == "" {
		base = filepath.Base(dir)
	}
	if base == "" || base == "." {
		return "keel_app"
	}
	return base
}
