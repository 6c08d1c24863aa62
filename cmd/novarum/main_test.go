package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/lint"
	"github.com/antoKeinanen/novarum/pkg/providers"
	"github.com/antoKeinanen/novarum/pkg/schema"
	"github.com/antoKeinanen/novarum/pkg/script"
)

func init() {
	color.NoColor = true
}

func TestIsScenarioPath(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml":      true,
		"b.yml":       true,
		"c.novconf":   false,
		"yaml.script": false,
	} {
		if got := isScenarioPath(path); got != want {
			t.Errorf("isScenarioPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Errorf("exitCode(nil) = %d", got)
	}
	wrapped := fmt.Errorf("wrap: %w", &providers.ExitError{Command: "false", ExitCode: 3})
	if got := exitCode(wrapped); got != 3 {
		t.Errorf("exitCode(ExitError) = %d, want 3", got)
	}
	if got := exitCode(errors.New("exec: not found")); got != 1 {
		t.Errorf("exitCode(other) = %d, want 1", got)
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	writeError(&buf, &script.Error{Kind: script.ErrPromptAborted, Line: 7, Detail: `block "lang"`})
	if got := buf.String(); got != "error: aborted at line 7\n" {
		t.Errorf("aborted = %q", got)
	}

	buf.Reset()
	writeError(&buf, script.Errorf(script.ErrUnexpectedEnd, 4, "no open block"))
	if got := buf.String(); !strings.HasPrefix(got, "error: line 4:") {
		t.Errorf("fatal = %q", got)
	}
}

func TestWriteDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	writeDiagnostics(&buf, "setup.novconf", []*lint.Diagnostic{
		{Line: 2, Message: "stray end", Severity: lint.SeverityError},
		{Line: 9, Message: "block never closed", Severity: lint.SeverityWarning},
	})
	want := "  ✗ setup.novconf:2: stray end\n  ⚠ setup.novconf:9: block never closed\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandLog(t *testing.T) {
	var log commandLog
	log.Observe(interp.Event{Type: interp.EventShell, Value: "git init"})
	log.Observe(interp.Event{Type: interp.EventPrint, Value: "hello"})
	log.Observe(interp.Event{Type: interp.EventChdir, Value: "app"})
	log.Observe(interp.Event{Type: interp.EventShell, Value: "make", Err: &providers.ExitError{Command: "make", ExitCode: 2}})

	wantCmds := []schema.Command{{Run: "git init"}, {Run: "make", ExitCode: 2}}
	if diff := cmp.Diff(wantCmds, log.commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"app"}, log.dirs); diff != "" {
		t.Errorf("dirs mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteAndRecord(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "setup.novconf")
	src := "select lang\n- go\n- rust\nend\nif lang go\nshell go mod init demo\nend\n"
	if err := os.WriteFile(scriptPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := providers.NewRecordingPrompter(&providers.DryRunPrompter{})
	sess := &session{
		prompter: rec,
		actions:  &providers.DryRunActions{Out: io.Discard},
		recorder: rec,
		commands: &commandLog{},
	}
	if err := execute(context.Background(), scriptPath, sess); err != nil {
		t.Fatalf("execute: %v", err)
	}

	out := filepath.Join(dir, "scenarios", "setup", "picked-go.yaml")
	if err := writeRecording(sess, scriptPath, out); err != nil {
		t.Fatalf("writeRecording: %v", err)
	}
	s, err := schema.LoadFile(out)
	if err != nil {
		t.Fatalf("load recorded scenario: %v", err)
	}
	if s.Name != "picked-go" {
		t.Errorf("name = %q, want picked-go", s.Name)
	}
	if got := s.Answers["lang"].Label(); got != "go" {
		t.Errorf("lang answer = %q, want go", got)
	}
	if diff := cmp.Diff([]schema.Command{{Run: "go mod init demo"}}, s.Commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRecordingWithoutRecorder(t *testing.T) {
	if err := writeRecording(&session{}, "x.novconf", filepath.Join(t.TempDir(), "x.yaml")); err == nil {
		t.Fatal("expected error without a recorder")
	}
}
