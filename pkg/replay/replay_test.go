package replay

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/providers"
	"github.com/antoKeinanen/novarum/pkg/schema"
	"github.com/antoKeinanen/novarum/pkg/script"
	"github.com/google/go-cmp/cmp"
)

func TestPrompterSelect(t *testing.T) {
	p := NewPrompter(&schema.Scenario{Name: "s", Answers: map[string]schema.Answer{
		"color": schema.Single("blue"),
		"langs": schema.Multi("Rust", "Go"),
	}})
	ctx := context.Background()

	idx, err := p.Select(ctx, interp.PromptRequest{Name: "color", Options: []string{"red", "blue"}})
	if err != nil || idx != 1 {
		t.Fatalf("Select = %d, %v; want 1", idx, err)
	}
	if _, err := p.Select(ctx, interp.PromptRequest{Name: "color", Options: []string{"red"}}); err == nil {
		t.Error("expected error for label not offered")
	}
	if _, err := p.Select(ctx, interp.PromptRequest{Name: "size", Options: []string{"s"}}); err == nil {
		t.Error("expected error for missing answer")
	}
	if _, err := p.Select(ctx, interp.PromptRequest{Name: "langs", Options: []string{"Go"}}); err == nil {
		t.Error("expected error for list answer to a single block")
	}

	got, err := p.MultiSelect(ctx, interp.PromptRequest{Name: "langs", Options: []string{"Go", "C", "Rust"}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Errorf("indices mismatch:\n%s", diff)
	}
}

func TestPrompterRepeatedName(t *testing.T) {
	p := NewPrompter(&schema.Scenario{
		Name:    "s",
		Answers: map[string]schema.Answer{"a": schema.Single("x"), "b": schema.Single("k")},
		Repeats: map[string][]schema.Answer{"a": {schema.Single("q")}},
	})
	ctx := context.Background()

	if idx, err := p.Select(ctx, interp.PromptRequest{Name: "a", Options: []string{"x", "y"}}); err != nil || idx != 0 {
		t.Fatalf("first a = %d, %v; want 0", idx, err)
	}
	if idx, err := p.Select(ctx, interp.PromptRequest{Name: "a", Options: []string{"p", "q"}}); err != nil || idx != 1 {
		t.Fatalf("second a = %d, %v; want 1", idx, err)
	}
	// repeats exhausted: the last answer is reused
	if idx, err := p.Select(ctx, interp.PromptRequest{Name: "a", Options: []string{"q"}}); err != nil || idx != 0 {
		t.Fatalf("third a = %d, %v; want 0", idx, err)
	}
	// no repeats: the single answer serves every prompt
	for range 2 {
		if idx, err := p.Select(ctx, interp.PromptRequest{Name: "b", Options: []string{"j", "k"}}); err != nil || idx != 1 {
			t.Fatalf("b = %d, %v; want 1", idx, err)
		}
	}
}

func TestRecordThenReplayRepeatedName(t *testing.T) {
	const src = "select a\n- x\n- y\nselect a\n- p\n- q\nif a q\nprint second was q\nend\n"
	rec := providers.NewRecordingPrompter(&pickLast{})
	var out bytes.Buffer
	it := interp.New(interp.Config{Prompter: rec, Actions: NewActions(&schema.Scenario{}), Stdout: &out})
	if err := it.Run(context.Background(), strings.NewReader(src)); err != nil {
		t.Fatalf("record run: %v", err)
	}
	s := rec.Scenario("recorded")

	out.Reset()
	it = interp.New(interp.Config{Prompter: NewPrompter(s), Actions: NewActions(s), Stdout: &out})
	if err := it.Run(context.Background(), strings.NewReader(src)); err != nil {
		t.Fatalf("replay run: %v", err)
	}
	if got := it.Bindings().Single("a"); got != "q" {
		t.Errorf("a = %q, want q", got)
	}
	if out.String() != "second was q\n" {
		t.Errorf("out = %q", out.String())
	}
}

// pickLast chooses the last option of every prompt.
type pickLast struct{}

func (pickLast) Select(ctx context.Context, req interp.PromptRequest) (int, error) {
	return len(req.Options) - 1, nil
}

func (pickLast) MultiSelect(ctx context.Context, req interp.PromptRequest) ([]int, error) {
	return nil, nil
}

func TestActionsExitCodes(t *testing.T) {
	a := NewActions(&schema.Scenario{Commands: []schema.Command{
		{Run: "make", ExitCode: 0},
		{Run: "make", ExitCode: 2},
	}})
	ctx := context.Background()
	if err := a.Shell(ctx, "make"); err != nil {
		t.Fatalf("first make: %v", err)
	}
	var exitErr *providers.ExitError
	if err := a.Shell(ctx, "make"); !errors.As(err, &exitErr) || exitErr.ExitCode != 2 {
		t.Fatalf("second make: err = %v, want exit 2", err)
	}
	if err := a.Shell(ctx, "ls"); err != nil {
		t.Errorf("lenient mode should accept unlisted command: %v", err)
	}
	a.Strict = true
	if err := a.Shell(ctx, "pwd"); err == nil {
		t.Error("strict mode should reject unlisted command")
	}
	if diff := cmp.Diff([]string{"make", "make", "ls", "pwd"}, a.Ran); diff != "" {
		t.Errorf("ran mismatch:\n%s", diff)
	}
}

func TestReplayWholeScript(t *testing.T) {
	s, err := LoadScenario("../../testdata/scenarios/setup/go-with-git.yaml")
	if err != nil {
		t.Fatal(err)
	}
	src, err := readFixture("../../testdata/setup.novconf")
	if err != nil {
		t.Fatal(err)
	}
	actions := NewActions(s)
	var out bytes.Buffer
	it := interp.New(interp.Config{Prompter: NewPrompter(s), Actions: actions, Stdout: &out})
	if err := it.Run(context.Background(), strings.NewReader(src)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]string{"go mod init example.com/project", "git init"}, actions.Ran); diff != "" {
		t.Errorf("commands mismatch:\n%s", diff)
	}
	if len(actions.Unused()) != 0 {
		t.Errorf("unused commands: %v", actions.Unused())
	}
	if diff := cmp.Diff([]string{"git", "ci"}, it.Bindings().Multi("extras")); diff != "" {
		t.Errorf("extras mismatch:\n%s", diff)
	}
}

func TestReplayFailingCommand(t *testing.T) {
	s, err := LoadScenario("../../testdata/scenarios/setup/cargo-fails.yaml")
	if err != nil {
		t.Fatal(err)
	}
	src, err := readFixture("../../testdata/setup.novconf")
	if err != nil {
		t.Fatal(err)
	}
	it := interp.New(interp.Config{Prompter: NewPrompter(s), Actions: NewActions(s), Stdout: &bytes.Buffer{}})
	err = it.Run(context.Background(), strings.NewReader(src))
	if !errors.Is(err, script.ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}
}

func readFixture(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}
