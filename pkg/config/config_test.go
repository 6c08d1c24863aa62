package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/antoKeinanen/novarum/pkg/lint"
)

func TestDirFromEnv(t *testing.T) {
	t.Setenv(EnvConfigDir, "/tmp/novarum-test")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/novarum-test" {
		t.Errorf("dir = %q", dir)
	}
}

func TestLoadMissingFileDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.PromptStyle() != PromptTUI || s.Dir != dir || len(s.Shell) != 0 {
		t.Errorf("settings = %+v", s)
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	content := "shell: [bash, -c]\nprompt: plain\ntrace_dir: /var/tmp/traces\nredact_env: [GITHUB_TOKEN]\n"
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := &Settings{
		Shell:     []string{"bash", "-c"},
		Prompt:    PromptPlain,
		TraceDir:  "/var/tmp/traces",
		RedactEnv: []string{"GITHUB_TOKEN"},
		Dir:       dir,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name, yaml, contains string
	}{
		{"unknown key", "shel: [sh]\n", "shel"},
		{"bad prompt", "prompt: gui\n", "prompt must be"},
		{"empty shell arg", "shell: [sh, '']\n", "shell[1]"},
		{"bad redact pattern", "policy:\n  redact:\n    - pattern: '('\n", "policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("err = %v, want mention of %q", err, tt.contains)
			}
		})
	}
	if _, err := Parse(nil); err != nil {
		t.Errorf("empty settings should parse: %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	s, err := Parse([]byte("policy:\n  denied_commands: [rm]\n  deny_env_vars: ['AWS_*']\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Policy.CheckCommand("rm -rf /"); err == nil {
		t.Error("rm should be denied")
	}
	if err := s.Policy.CheckEnvVar("AWS_SECRET_ACCESS_KEY"); err == nil {
		t.Error("AWS_* should be blocked")
	}
}

func TestDiscoverSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zsh.novconf", "alpha.novconf", "notes.txt"} {
		os.WriteFile(filepath.Join(dir, name), []byte("print x\n"), 0o644)
	}
	os.Mkdir(filepath.Join(dir, "dir.novconf"), 0o755)

	scripts, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"alpha", "zsh"}, Names(scripts)); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setup.novconf")
	os.WriteFile(path, []byte("print x\n"), 0o644)

	for _, arg := range []string{"setup", "setup.novconf", path} {
		got, err := Resolve(dir, arg)
		if err != nil || got != path {
			t.Errorf("Resolve(%q) = %q, %v", arg, got, err)
		}
	}
	if _, err := Resolve(dir, "missing"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestBootstrap(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "novarum")
	if Exists(dir) {
		t.Fatal("dir should not exist yet")
	}
	path, err := Bootstrap(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !Exists(dir) || filepath.Base(path) != ExampleName {
		t.Errorf("bootstrap path = %q", path)
	}

	// An edited example survives a second bootstrap.
	os.WriteFile(path, []byte("print mine\n"), 0o644)
	if _, err := Bootstrap(dir); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "print mine\n" {
		t.Errorf("example overwritten: %q", data)
	}
}

func TestExampleIsValid(t *testing.T) {
	res, err := lint.Check(strings.NewReader(string(Example())))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("example has diagnostics: %v", res.Diagnostics)
	}
	if len(res.Blocks) != 3 {
		t.Errorf("example blocks = %d, want 3", len(res.Blocks))
	}
}
