// Package config loads the waypath engine configuration from YAML.
//
// Scalars may reference the environment as ${VAR} or ${VAR:-default};
// LoadEnvFiles seeds the environment from .env files first.
//
//	nodes: ${WAYPATH_NODES:-nodes.json}
//	navigation:
//	  initial_radius: 1.1
//	  radius_step: 0.1
//	  max_radius: 25
//	  max_attempts: 64
//	logging:
//	  level: info
//	  format: simple
//	metrics:
//	  enabled: true
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/waypath/internal/logger"
	"github.com/katalvlaran/waypath/navigation"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// File is the top-level configuration document.
type File struct {
	// Nodes is the path of the node list document.
	Nodes      string            `yaml:"nodes"`
	Navigation navigation.Config `yaml:"navigation"`
	Logging    Logging           `yaml:"logging"`
	Metrics    Metrics           `yaml:"metrics"`
}

// Logging selects level, output format and an optional log file (stderr when empty).
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Metrics toggles the prometheus dump printed after each command.
type Metrics struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	f := &File{}
	f.SetDefaults()
	return f
}

// SetDefaults fills zero fields.
func (f *File) SetDefaults() {
	f.Navigation.SetDefaults()
	if f.Logging.Level == "" {
		f.Logging.Level = "info"
	}
	if f.Logging.Format == "" {
		f.Logging.Format = logger.FormatSimple
	}
}

// Validate checks every section.
func (f *File) Validate() error {
	if err := f.Navigation.Validate(); err != nil {
		return fmt.Errorf("%w: navigation: %w", ErrInvalid, err)
	}
	if _, err := logger.ParseLevel(f.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging: %w", ErrInvalid, err)
	}
	switch f.Logging.Format {
	case logger.FormatSimple, logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: logging: unknown format %q", ErrInvalid, f.Logging.Format)
	}

	return nil
}

// Parse decodes data, expanding environment references, then applies
// defaults and validates.
func Parse(data []byte) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	expandNode(&root)

	f := &File{}
	if root.Kind != 0 {
		if err := root.Decode(f); err != nil {
			return nil, fmt.Errorf("config: decode: %w", err)
		}
	}
	f.SetDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}
