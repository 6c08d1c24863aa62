package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/chzyer/readline"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// LinePrompter asks questions as numbered lists on a plain terminal and reads
// answers line by line. It works where a full-screen TUI cannot, such as
// dumb terminals and CI logs.
type LinePrompter struct {
	Out io.Writer
	// ReadLine reads one answer. Defaults to a readline instance on the
	// terminal; it must return readline.ErrInterrupt or io.EOF on cancel.
	ReadLine func(prompt string) (string, error)

	rl *readline.Instance
}

// NewLinePrompter returns a prompter on the process terminal.
func NewLinePrompter() *LinePrompter {
	return &LinePrompter{Out: os.Stdout}
}

// Close releases the terminal.
func (p *LinePrompter) Close() error {
	if p.rl != nil {
		return p.rl.Close()
	}
	return nil
}

func (p *LinePrompter) read(prompt string) (string, error) {
	if p.ReadLine != nil {
		return p.ReadLine(prompt)
	}
	if p.rl == nil {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          prompt,
			InterruptPrompt: "^C",
			EOFPrompt:       "",
		})
		if err != nil {
			return "", fmt.Errorf("init readline: %w", err)
		}
		p.rl = rl
	}
	p.rl.SetPrompt(prompt)
	return p.rl.Readline()
}

func (p *LinePrompter) ask(prompt string) (string, error) {
	line, err := p.read(prompt)
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", interp.ErrAborted
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) printOptions(req interp.PromptRequest, markDefault bool) {
	fmt.Fprintf(p.Out, "\n? %s\n", req.Message)
	for i, opt := range req.Options {
		marker := " "
		if markDefault && i == req.Default {
			marker = ">"
		}
		fmt.Fprintf(p.Out, " %s %d) %s\n", marker, i+1, opt)
	}
}

// Select asks for one option. An empty answer picks the default; for search
// prompts, text that is not a number picks the closest fuzzy match.
func (p *LinePrompter) Select(ctx context.Context, req interp.PromptRequest) (int, error) {
	p.printOptions(req, true)
	hint := fmt.Sprintf("  number [%d]: ", req.Default+1)
	if req.Kind == interp.PromptSearch {
		hint = fmt.Sprintf("  number or search [%d]: ", req.Default+1)
	}
	for {
		answer, err := p.ask(hint)
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return req.Default, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(req.Options) {
			return n - 1, nil
		}
		if req.Kind == interp.PromptSearch {
			if idx, ok := bestMatch(answer, req.Options); ok {
				fmt.Fprintf(p.Out, "  -> %s\n", req.Options[idx])
				return idx, nil
			}
		}
		fmt.Fprintf(p.Out, "  enter a number between 1 and %d\n", len(req.Options))
	}
}

// MultiSelect asks for any number of options as comma- or space-separated
// numbers. An empty answer selects nothing.
func (p *LinePrompter) MultiSelect(ctx context.Context, req interp.PromptRequest) ([]int, error) {
	p.printOptions(req, false)
	for {
		answer, err := p.ask("  numbers (e.g. 1,3): ")
		if err != nil {
			return nil, err
		}
		indices, err := parseIndices(answer, len(req.Options))
		if err == nil {
			return indices, nil
		}
		fmt.Fprintf(p.Out, "  %v\n", err)
	}
}

// parseIndices converts "1, 3 2" into ascending, de-duplicated 0-based indices.
func parseIndices(answer string, n int) ([]int, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var out []int
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 1 || v > n {
			return nil, fmt.Errorf("%q is not a number between 1 and %d", f, n)
		}
		if !slices.Contains(out, v-1) {
			out = append(out, v-1)
		}
	}
	slices.Sort(out)
	return out, nil
}

// bestMatch returns the option closest to query by fuzzy rank, preferring
// earlier options on ties.
func bestMatch(query string, options []string) (int, bool) {
	ranks := fuzzy.RankFindFold(query, options)
	if len(ranks) == 0 {
		return 0, false
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	return ranks[0].OriginalIndex, true
}
