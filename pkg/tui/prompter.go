package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/antoKeinanen/novarum/pkg/interp"
)

// Prompter answers interpreter prompts with a Bubble Tea program per block.
// It implements interp.Prompter.
type Prompter struct {
	Input  io.Reader // defaults to the terminal
	Output io.Writer // defaults to stdout
}

// NewPrompter creates a terminal prompter.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// Select shows a list (or fuzzy search list) and returns the chosen index.
func (p *Prompter) Select(ctx context.Context, req interp.PromptRequest) (int, error) {
	m, err := p.run(ctx, newChoiceModel(req, false))
	if err != nil {
		return 0, err
	}
	return m.chosen[0], nil
}

// MultiSelect shows a checklist and returns the toggled indices ascending.
func (p *Prompter) MultiSelect(ctx context.Context, req interp.PromptRequest) ([]int, error) {
	m, err := p.run(ctx, newChoiceModel(req, true))
	if err != nil {
		return nil, err
	}
	return m.chosen, nil
}

// Pick shows a searchable list outside of any script, e.g. to choose which
// script to run.
func (p *Prompter) Pick(ctx context.Context, message string, options []string) (int, error) {
	return p.Select(ctx, interp.PromptRequest{
		Kind:    interp.PromptSearch,
		Name:    "script",
		Message: message,
		Options: options,
	})
}

func (p *Prompter) run(ctx context.Context, m choiceModel) (choiceModel, error) {
	if len(m.req.Options) == 0 {
		return m, fmt.Errorf("%s %q: no options", m.req.Kind, m.req.Name)
	}
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	}
	if p.Output != nil {
		opts = append(opts, tea.WithOutput(p.Output))
	}
	out, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return m, interp.ErrAborted
		}
		return m, fmt.Errorf("prompt %q: %w", m.req.Name, err)
	}
	final := out.(choiceModel)
	if final.err != nil {
		return final, final.err
	}
	if !final.done {
		return final, interp.ErrAborted
	}
	return final, nil
}
