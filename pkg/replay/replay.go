// Package replay runs scripts offline from a scenario: prompts are answered
// from recorded labels and shell lines resolve to recorded exit codes.
package replay

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/providers"
	"github.com/antoKeinanen/novarum/pkg/schema"
)

// Prompter answers prompts from a scenario's recorded answers.
// Fail-closed: a block without an answer, or an answer that is not one of the
// offered labels, is an error.
//
// The first prompt of a block name takes its answer from answers; the n-th
// later prompt of the same name takes repeats[name][n-1]. Once repeats run
// out the last answer is reused.
type Prompter struct {
	scenario *schema.Scenario
	asked    map[string]int
}

// NewPrompter creates a Prompter from a loaded scenario.
func NewPrompter(s *schema.Scenario) *Prompter {
	return &Prompter{scenario: s, asked: make(map[string]int)}
}

func (p *Prompter) answer(req interp.PromptRequest) (schema.Answer, error) {
	a, ok := p.scenario.Answers[req.Name]
	if !ok {
		return schema.Answer{}, fmt.Errorf("replay: scenario %q has no answer for block %q", p.scenario.Name, req.Name)
	}
	n := p.asked[req.Name]
	p.asked[req.Name] = n + 1
	if repeats := p.scenario.Repeats[req.Name]; n > 0 && len(repeats) > 0 {
		a = repeats[min(n, len(repeats))-1]
	}
	return a, nil
}

// Select returns the index of the recorded label.
func (p *Prompter) Select(ctx context.Context, req interp.PromptRequest) (int, error) {
	a, err := p.answer(req)
	if err != nil {
		return 0, err
	}
	if a.Multi {
		return 0, fmt.Errorf("replay: block %q is a %s but the scenario answer is a list", req.Name, req.Kind)
	}
	idx := slices.Index(req.Options, a.Label())
	if idx < 0 {
		return 0, fmt.Errorf("replay: answer %q for block %q is not one of: %s", a.Label(), req.Name, strings.Join(req.Options, ", "))
	}
	return idx, nil
}

// MultiSelect returns the ascending indices of the recorded labels.
// Duplicate option labels are matched left to right.
func (p *Prompter) MultiSelect(ctx context.Context, req interp.PromptRequest) ([]int, error) {
	a, err := p.answer(req)
	if err != nil {
		return nil, err
	}
	used := make([]bool, len(req.Options))
	var indices []int
	for _, label := range a.Values {
		found := -1
		for i, opt := range req.Options {
			if !used[i] && opt == label {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("replay: answer %q for block %q is not one of: %s", label, req.Name, strings.Join(req.Options, ", "))
		}
		used[found] = true
		indices = append(indices, found)
	}
	slices.Sort(indices)
	return indices, nil
}

// Actions records shell and chdir lines instead of performing them. Shell
// lines resolve to the exit code recorded for the same command line; each
// recorded entry is consumed once, in order.
type Actions struct {
	// Strict rejects shell lines the scenario does not list.
	Strict bool

	commands []schema.Command
	used     []bool

	// Ran lists every shell line in execution order.
	Ran []string
	// Dirs lists every chdir path in execution order.
	Dirs []string
}

// NewActions creates replay actions from a loaded scenario.
func NewActions(s *schema.Scenario) *Actions {
	return &Actions{
		commands: s.Commands,
		used:     make([]bool, len(s.Commands)),
	}
}

func (a *Actions) Shell(ctx context.Context, commandLine string) error {
	a.Ran = append(a.Ran, commandLine)
	for i, c := range a.commands {
		if a.used[i] || c.Run != commandLine {
			continue
		}
		a.used[i] = true
		if c.ExitCode != 0 {
			return &providers.ExitError{Command: commandLine, ExitCode: c.ExitCode}
		}
		return nil
	}
	if a.Strict {
		return fmt.Errorf("replay: no matching scenario entry for command: %s", commandLine)
	}
	return nil
}

func (a *Actions) Chdir(path string) error {
	a.Dirs = append(a.Dirs, path)
	return nil
}

// Unused returns recorded commands the run never reached.
func (a *Actions) Unused() []string {
	var out []string
	for i, c := range a.commands {
		if !a.used[i] {
			out = append(out, c.Run)
		}
	}
	return out
}
