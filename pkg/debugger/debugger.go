// Package debugger implements the interactive REPL debugger for scripts.
package debugger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/script"
)

// Debugger steps through a script one line at a time.
type Debugger struct {
	name   string
	lines  []script.Line
	pos    int // index into lines of the next line to run
	it     *interp.Interpreter
	output io.Writer
	rl     *readline.Instance
	mode   string

	breakpoints map[int]bool
	history     []entry
	failed      error // fatal error that halted the script
}

type entry struct {
	line int
	text string
	err  error
}

// New loads a script and prepares an interpreter for it. cfg.Stdout
// defaults to the debugger's own output.
func New(name string, src io.Reader, cfg interp.Config, mode string) (*Debugger, error) {
	rd := script.NewReader(src)
	var lines []script.Line
	for {
		line, ok := rd.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	d := &Debugger{
		name:        name,
		lines:       lines,
		output:      os.Stdout,
		mode:        mode,
		breakpoints: make(map[int]bool),
	}
	if cfg.Stdout == nil {
		cfg.Stdout = d.output
	}
	d.it = interp.New(cfg)
	return d, nil
}

// SetOutput redirects debugger messages.
func (d *Debugger) SetOutput(w io.Writer) {
	d.output = w
}

// Interpreter returns the interpreter the debugger drives.
func (d *Debugger) Interpreter() *interp.Interpreter {
	return d.it
}

// ReadLine reads a line on the debugger's terminal. Prompters that run
// inside the debugger use it so both share one readline instance.
func (d *Debugger) ReadLine(prompt string) (string, error) {
	if d.rl == nil {
		return "", fmt.Errorf("debugger terminal not started")
	}
	d.rl.SetPrompt(prompt)
	defer d.rl.SetPrompt(d.buildPrompt())
	return d.rl.Readline()
}

// Run starts the interactive REPL loop.
func (d *Debugger) Run(ctx context.Context) error {
	commands := []string{"next", "continue", "print", "mode", "list",
		"break", "history", "help", "quit"}

	var completer = readline.NewPrefixCompleter()
	for _, cmd := range commands {
		completer.Children = append(completer.Children,
			readline.PcItem(cmd))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          d.buildPrompt(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	d.rl = rl
	defer rl.Close()

	fmt.Fprintf(d.output, "novarum debugger: %s, %d lines, mode=%s\n", d.name, d.statementCount(), d.mode)
	fmt.Fprintf(d.output, "Type 'help' for available commands, 'next' to execute the next line.\n\n")

	for {
		rl.SetPrompt(d.buildPrompt())
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}
		if d.Dispatch(ctx, line) {
			return nil
		}
	}
}

// Dispatch runs one debugger command and reports whether the session ended.
func (d *Debugger) Dispatch(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "next", "n":
		d.handleNext(ctx)
	case "continue", "c":
		d.handleContinue(ctx)
	case "print", "p":
		d.handlePrint(parts)
	case "mode", "m":
		d.handleMode()
	case "list", "l":
		d.handleList(parts)
	case "break", "b":
		d.handleBreak(parts)
	case "history", "h":
		d.handleHistory()
	case "help", "?":
		d.handleHelp()
	case "quit", "q":
		fmt.Fprintf(d.output, "Exiting debugger.\n")
		return true
	default:
		fmt.Fprintf(d.output, "Unknown command: %q. Type 'help' for available commands.\n", parts[0])
	}
	return false
}

// buildPrompt creates the prompt string: novarum[line N | mode]>
func (d *Debugger) buildPrompt() string {
	switch {
	case d.failed != nil:
		return "novarum[halted]> "
	case d.done():
		return "novarum[done]> "
	}
	return fmt.Sprintf("novarum[line %d | %s]> ", d.lines[d.pos].Number, d.it.Mode())
}

func (d *Debugger) done() bool {
	d.skipComments()
	return d.pos >= len(d.lines)
}

func (d *Debugger) skipComments() {
	for d.pos < len(d.lines) && d.lines[d.pos].IsComment() {
		d.pos++
	}
}

func (d *Debugger) statementCount() int {
	n := 0
	for _, l := range d.lines {
		if !l.IsComment() {
			n++
		}
	}
	return n
}
