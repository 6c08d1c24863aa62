// Package config locates the novarum config directory, loads its settings
// file, and discovers the scripts stored in it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/antoKeinanen/novarum/pkg/governance"
)

// EnvConfigDir overrides the config directory location.
const EnvConfigDir = "NOVARUM_CONFIG_DIR"

// SettingsFile is the settings file name inside the config directory.
const SettingsFile = "config.yaml"

// Prompt styles.
const (
	PromptTUI   = "tui"
	PromptPlain = "plain"
)

// Settings is the parsed config.yaml. Every field is optional.
type Settings struct {
	// Shell is the argv prefix used to run shell lines, e.g. [bash, -c].
	Shell []string `yaml:"shell,omitempty"      json:"shell,omitempty"`
	// Prompt selects the default prompt gateway: tui or plain.
	Prompt string `yaml:"prompt,omitempty"     json:"prompt,omitempty"`
	// TraceDir, when set, receives a JSONL trace for every run.
	TraceDir string `yaml:"trace_dir,omitempty"  json:"trace_dir,omitempty"`
	// RedactEnv names env vars whose values are scrubbed from traces.
	RedactEnv []string `yaml:"redact_env,omitempty" json:"redact_env,omitempty"`
	// Policy restricts which shell lines may run in real mode.
	Policy governance.Policy `yaml:"policy,omitempty" json:"policy,omitempty"`

	// Dir is the directory the settings were loaded from.
	// Set after loading, not from YAML.
	Dir string `yaml:"-" json:"-"`
}

// PromptStyle returns the effective prompt style (default: tui).
func (s *Settings) PromptStyle() string {
	if s != nil && s.Prompt != "" {
		return s.Prompt
	}
	return PromptTUI
}

// Dir returns the config directory: $NOVARUM_CONFIG_DIR, or novarum under
// the user config directory.
func Dir() (string, error) {
	if d := os.Getenv(EnvConfigDir); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, "novarum"), nil
}

// Exists reports whether dir exists and is a directory.
func Exists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Load reads config.yaml from dir. A missing file yields default settings.
func Load(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Settings{Dir: dir}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Dir = dir
	return s, nil
}

// Parse decodes settings, rejecting unknown keys and invalid values.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	switch s.Prompt {
	case "", PromptTUI, PromptPlain:
	default:
		return nil, fmt.Errorf("prompt must be %q or %q, got %q", PromptTUI, PromptPlain, s.Prompt)
	}
	for i, arg := range s.Shell {
		if arg == "" {
			return nil, fmt.Errorf("shell[%d] is empty", i)
		}
	}
	if err := s.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	return &s, nil
}
