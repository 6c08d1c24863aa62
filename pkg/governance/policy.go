// Package governance restricts what shell lines may run: a command
// allowlist and denylist, environment variable blocking, and output
// redaction for traces.
package governance

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Policy is the shell policy section of config.yaml. The zero value permits
// everything.
type Policy struct {
	AllowedCommands []string        `yaml:"allowed_commands,omitempty" json:"allowed_commands,omitempty"`
	DeniedCommands  []string        `yaml:"denied_commands,omitempty"  json:"denied_commands,omitempty"`
	DenyEnvVars     []string        `yaml:"deny_env_vars,omitempty"    json:"deny_env_vars,omitempty"`
	Redact          []RedactionRule `yaml:"redact,omitempty"           json:"redact,omitempty"`
}

// Program returns the program a shell line starts with, without its
// directory: "/usr/bin/git commit" -> "git".
func Program(commandLine string) string {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}

// CheckCommand validates the program of a shell line against the
// allowlist and denylist. Deny takes precedence over allow.
func (p *Policy) CheckCommand(commandLine string) error {
	if p == nil {
		return nil
	}
	program := Program(commandLine)
	for _, denied := range p.DeniedCommands {
		if program == denied {
			return fmt.Errorf("command %q is denied by policy", program)
		}
	}

	if len(p.AllowedCommands) > 0 {
		for _, allowed := range p.AllowedCommands {
			if program == allowed {
				return nil
			}
		}
		return fmt.Errorf("command %q is not in the allowlist", program)
	}
	return nil
}

// CheckEnvVar validates an environment variable name against the
// deny_env_vars glob patterns.
func (p *Policy) CheckEnvVar(name string) error {
	if p == nil {
		return nil
	}
	for _, pattern := range p.DenyEnvVars {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			// An invalid pattern blocks.
			return fmt.Errorf("invalid env var deny pattern %q: %w", pattern, err)
		}
		if matched {
			return fmt.Errorf("environment variable %q matches denied pattern %q", name, pattern)
		}
	}
	return nil
}

// FilterEnv returns env with denied variables removed, plus the names that
// were removed. filtered is never nil when a deny pattern is set, since a nil
// exec.Cmd.Env means "inherit everything".
func (p *Policy) FilterEnv(env []string) (filtered, blocked []string) {
	if p == nil || len(p.DenyEnvVars) == 0 {
		return env, nil
	}
	filtered = []string{}
	for _, e := range env {
		name, _, _ := strings.Cut(e, "=")
		if err := p.CheckEnvVar(name); err != nil {
			blocked = append(blocked, name)
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, blocked
}

// Validate compiles every pattern so configuration mistakes surface at load.
func (p *Policy) Validate() error {
	if p == nil {
		return nil
	}
	for _, pattern := range p.DenyEnvVars {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("deny_env_vars: invalid pattern %q: %w", pattern, err)
		}
	}
	if _, err := CompileRedactionRules(p.Redact); err != nil {
		return err
	}
	return nil
}
