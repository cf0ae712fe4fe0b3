// Package config loads and validates the optional .hosttriple YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deixis/hosttriple"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file at the project root.
const FileName = ".hosttriple"

// Config holds the parsed .hosttriple configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	RawCommand   string   `yaml:"command"`    // default: rustc
	RawArgs      []string `yaml:"args"`       // default: [-vV]
	RawTimeout   string   `yaml:"timeout"`    // e.g. "30s"; empty means none, must be positive
	RawMaxOutput int      `yaml:"max_output"` // bytes; zero means unlimited
	RawStrategy  string   `yaml:"strategy"`   // lines or bytes
}

// Command returns the configured command or rustc.
func (c *Config) Command() string {
	if c.RawCommand != "" {
		return c.RawCommand
	}
	return hosttriple.DefaultCommand
}

// Args returns the configured arguments. When the command is left at
// its default and no args are given, -vV is used.
func (c *Config) Args() []string {
	if c.RawArgs != nil {
		return c.RawArgs
	}
	if c.RawCommand == "" {
		return []string{hosttriple.DefaultArg}
	}
	return nil
}

// Timeout returns the configured timeout, or zero for none.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// MaxOutputBytes returns the configured max output size, or zero for unlimited.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return 0
}

// Strategy returns the configured parsing strategy.
func (c *Config) Strategy() (hosttriple.Strategy, error) {
	return hosttriple.ParseStrategy(c.RawStrategy)
}

// Options converts the configuration into query options.
func (c *Config) Options() ([]hosttriple.Option, error) {
	strategy, err := c.Strategy()
	if err != nil {
		return nil, err
	}
	return []hosttriple.Option{
		hosttriple.WithCommand(c.Command(), c.Args()...),
		hosttriple.WithTimeout(c.Timeout()),
		hosttriple.WithMaxOutput(c.MaxOutputBytes()),
		hosttriple.WithStrategy(strategy),
	}, nil
}

func (c *Config) validate() error {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout: must be positive, got %s", c.RawTimeout)
		}
	}
	if _, err := c.Strategy(); err != nil {
		return err
	}
	return nil
}

// LoadResult holds the parsed config and the discovered project root.
type LoadResult struct {
	Config      *Config
	ProjectRoot string // directory containing go.mod or Cargo.toml; falls back to workspace
}

// Load reads the .hosttriple file from the project root.
// The project root is discovered by walking upward from workspace
// looking for go.mod or Cargo.toml. If no .hosttriple file exists,
// a default Config is returned.
func Load(workspace string) (*LoadResult, error) {
	root, err := findProjectRoot(workspace)
	if err != nil {
		root = workspace
	}

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Config: &Config{}, ProjectRoot: root}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return &LoadResult{Config: cfg, ProjectRoot: root}, nil
}

var rootMarkers = []string{"go.mod", "Cargo.toml"}

// findProjectRoot walks upward from dir looking for a root marker file.
func findProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, m := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no project root marker found")
		}
		dir = parent
	}
}
