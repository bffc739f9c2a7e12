// Package config loads carp's optional settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory when no path is given.
const FileName = ".carp.yaml"

// Config holds the settings shared by the CLI and the REPL.
type Config struct {
	Path string // file the settings were read from; empty for defaults

	// MaxCallDepth bounds call nesting. Zero means unlimited.
	MaxCallDepth int
	Trace        bool
	HistoryFile  string
	Prompt       string
	Color        bool
}

// ValidationError aggregates invalid settings.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	MaxCallDepth *int    `yaml:"max_call_depth"`
	Trace        bool    `yaml:"trace"`
	HistoryFile  *string `yaml:"history_file"`
	Prompt       *string `yaml:"prompt"`
	Color        *bool   `yaml:"color"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		MaxCallDepth: 1024,
		HistoryFile:  defaultHistoryFile(),
		Prompt:       "carp> ",
		Color:        true,
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".carp_history")
}

// Load reads settings from path. An empty path means FileName in the
// working directory, and a missing default file yields Default().
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Decode parses settings from r. Unknown keys are rejected; an empty
// document yields Default().
func Decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	return raw.toConfig()
}

func (f *configFile) toConfig() (*Config, error) {
	cfg := Default()
	var issues []string

	if f.MaxCallDepth != nil {
		if *f.MaxCallDepth < 0 {
			issues = append(issues, fmt.Sprintf("max_call_depth must be >= 0, got %d", *f.MaxCallDepth))
		}
		cfg.MaxCallDepth = *f.MaxCallDepth
	}
	cfg.Trace = f.Trace
	if f.HistoryFile != nil {
		cfg.HistoryFile = expandHome(strings.TrimSpace(*f.HistoryFile))
	}
	if f.Prompt != nil {
		if *f.Prompt == "" {
			issues = append(issues, "prompt must not be empty")
		}
		cfg.Prompt = *f.Prompt
	}
	if f.Color != nil {
		cfg.Color = *f.Color
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// CallDepthLimit converts MaxCallDepth to the interpreter's convention,
// where a negative limit disables the check.
func (c *Config) CallDepthLimit() int {
	if c.MaxCallDepth == 0 {
		return -1
	}
	return c.MaxCallDepth
}
