package governance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProgram(t *testing.T) {
	tests := map[string]string{
		"git init":             "git",
		"  /usr/bin/make all ": "make",
		"":                     "",
	}
	for line, want := range tests {
		if got := Program(line); got != want {
			t.Errorf("Program(%q) = %q, want %q", line, got, want)
		}
	}
}

// TestAllowlistAcceptsAllowedCommand verifies allowed commands pass.
func TestAllowlistAcceptsAllowedCommand(t *testing.T) {
	p := &Policy{AllowedCommands: []string{"git", "cargo", "go"}}
	if err := p.CheckCommand("cargo init --bin"); err != nil {
		t.Errorf("expected allowed, got: %v", err)
	}
}

// TestAllowlistRejectsUnlistedCommand verifies non-allowed commands are blocked.
func TestAllowlistRejectsUnlistedCommand(t *testing.T) {
	p := &Policy{AllowedCommands: []string{"git", "go"}}
	if err := p.CheckCommand("rm -rf build"); err == nil {
		t.Error("expected rejection for unlisted command 'rm'")
	}
}

// TestCombinedAllowDenyMode verifies deny wins over allow.
func TestCombinedAllowDenyMode(t *testing.T) {
	p := &Policy{
		AllowedCommands: []string{"git", "curl"},
		DeniedCommands:  []string{"curl"},
	}
	if err := p.CheckCommand("git status"); err != nil {
		t.Errorf("git should pass: %v", err)
	}
	if err := p.CheckCommand("curl https://example.com"); err == nil {
		t.Error("curl should be denied")
	}
	if err := p.CheckCommand("rm x"); err == nil {
		t.Error("rm should be rejected (not in allowlist)")
	}
}

func TestNilPolicyAllowsAll(t *testing.T) {
	var p *Policy
	if err := p.CheckCommand("anything"); err != nil {
		t.Errorf("nil policy should allow all: %v", err)
	}
	env := []string{"A=1"}
	got, blocked := p.FilterEnv(env)
	if diff := cmp.Diff(env, got); diff != "" || blocked != nil {
		t.Errorf("nil policy filtered env: %v %v", got, blocked)
	}
}

func TestFilterEnv(t *testing.T) {
	p := &Policy{DenyEnvVars: []string{"SECRET_*", "TOKEN"}}
	got, blocked := p.FilterEnv([]string{"HOME=/root", "SECRET_KEY=x", "TOKEN=y", "PATH=/bin"})
	if diff := cmp.Diff([]string{"HOME=/root", "PATH=/bin"}, got); diff != "" {
		t.Errorf("filtered mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"SECRET_KEY", "TOKEN"}, blocked); diff != "" {
		t.Errorf("blocked mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEnvDenyAll(t *testing.T) {
	p := &Policy{DenyEnvVars: []string{"*"}}
	got, blocked := p.FilterEnv([]string{"HOME=/root", "TOKEN=y"})
	if got == nil || len(got) != 0 {
		t.Errorf("filtered = %#v, want an empty non-nil slice", got)
	}
	if len(blocked) != 2 {
		t.Errorf("blocked = %v", blocked)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Policy{DenyEnvVars: []string{"["}}).Validate(); err == nil {
		t.Error("expected error for bad glob")
	}
	if err := (&Policy{Redact: []RedactionRule{{Pattern: "("}}}).Validate(); err == nil {
		t.Error("expected error for bad regexp")
	}
	if err := (&Policy{Redact: []RedactionRule{{Pattern: `ghp_\w+`, Replace: "ghp_***"}}}).Validate(); err != nil {
		t.Errorf("valid policy: %v", err)
	}
}

func TestRedactOutput(t *testing.T) {
	rules, err := CompileRedactionRules([]RedactionRule{
		{Pattern: `ghp_[A-Za-z0-9]+`, Replace: "ghp_***"},
		{Pattern: `password=\S+`, Replace: "password=***"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := RedactOutput("git clone https://ghp_abc123@host password=hunter2", rules)
	want := "git clone https://ghp_***@host password=***"
	if got != want {
		t.Errorf("RedactOutput = %q, want %q", got, want)
	}
}
