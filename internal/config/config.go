// Package config loads and validates the application definitions that drive
// a scan. Definitions live in a YAML (or JSON) file; multiple files can be
// merged in order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the apps definition file looked up when a directory is
// given instead of a file.
const DefaultFileName = "apphound.yaml"

// Error marks a fatal configuration problem. Configuration errors abort the
// run before any scanning starts; everything else is collected as scan notes.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// NewError creates a configuration error.
func NewError(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// App is the definition of a single application to audit.
type App struct {
	Name                string   `yaml:"name" json:"name"`
	AdditionalLocations []string `yaml:"additional_locations,omitempty" json:"additional_locations,omitempty"`
	Patterns            []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	InstallationPath    string   `yaml:"installation_path,omitempty" json:"installation_path,omitempty"`
	DeepHomeSearch      bool     `yaml:"deep_home_search,omitempty" json:"deep_home_search,omitempty"`
}

// Config holds all configured applications.
type Config struct {
	Apps []App `yaml:"apps" json:"apps"`
}

// AppNames returns the configured application names in order.
func (c *Config) AppNames() []string {
	names := make([]string, 0, len(c.Apps))
	for _, app := range c.Apps {
		names = append(names, app.Name)
	}
	return names
}

// Load reads an apps definition file. YAML is the native format; JSON files
// parse through the same decoder since YAML is a superset.
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err == nil {
		path = expanded
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewError("configuration file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError("failed to read config file %s: %v", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewError("invalid configuration in %s: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative additional locations resolve against the config file's
	// directory so definition files stay portable.
	base := filepath.Dir(path)
	for i := range cfg.Apps {
		for j, loc := range cfg.Apps[i].AdditionalLocations {
			if loc == "" || filepath.IsAbs(loc) || strings.HasPrefix(loc, "~") || strings.ContainsRune(loc, '$') {
				continue
			}
			cfg.Apps[i].AdditionalLocations[j] = filepath.Join(base, loc)
		}
	}

	return &cfg, nil
}

// LoadAll loads multiple definition files and merges their apps in order.
func LoadAll(paths []string) (*Config, error) {
	merged := &Config{}
	for _, p := range paths {
		cfg, err := Load(p)
		if err != nil {
			return nil, err
		}
		merged.Apps = append(merged.Apps, cfg.Apps...)
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// ResolvePath turns a user-supplied input (a definition file or a directory
// containing one) into the definition file path to load.
func ResolvePath(input string) (string, error) {
	expanded, err := homedir.Expand(input)
	if err != nil {
		return "", NewError("cannot expand path %s: %v", input, err)
	}

	info, err := os.Stat(expanded)
	if err != nil {
		return "", NewError("configuration path not found: %s", expanded)
	}
	if info.IsDir() {
		return filepath.Join(expanded, DefaultFileName), nil
	}
	return expanded, nil
}

// Validate checks the configuration for schema-level problems.
func (c *Config) Validate() error {
	if len(c.Apps) == 0 {
		return NewError("configuration must define at least one app")
	}
	for i, app := range c.Apps {
		if strings.TrimSpace(app.Name) == "" {
			return NewError("app entry at index %d must include a non-empty 'name'", i)
		}
		for _, pattern := range app.Patterns {
			if strings.TrimSpace(pattern) == "" {
				return NewError("app %q has an empty pattern entry", app.Name)
			}
		}
	}
	return nil
}

// SingleApp builds an in-memory configuration for ad-hoc scans driven purely
// by command-line flags, without a definition file.
func SingleApp(name string, locations, patterns []string, installationPath string, deepHome bool) (*Config, error) {
	cfg := &Config{
		Apps: []App{{
			Name:                strings.TrimSpace(name),
			AdditionalLocations: locations,
			Patterns:            patterns,
			InstallationPath:    installationPath,
			DeepHomeSearch:      deepHome,
		}},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
