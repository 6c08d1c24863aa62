// Package interp implements the config script interpreter: a single-pass
// state machine over tokenized lines that collects choice blocks, resolves
// them through a Prompter, records the answers as bindings, evaluates
// conditionals against those bindings, and dispatches shell and chdir lines
// to an Actions gateway.
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/script"
)

// Config wires an Interpreter to its collaborators.
type Config struct {
	Prompter Prompter
	Actions  Actions
	Stdout   io.Writer // destination of print lines; defaults to os.Stdout
	Observer Observer  // optional
}

// pendingBlock accumulates a choice block until its end line.
type pendingBlock struct {
	name    string
	line    int
	options []string
	message string
}

func (p *pendingBlock) reset() {
	p.name = ""
	p.line = 0
	p.options = nil
	p.message = DefaultMessage
}

// Interpreter executes one script run. It is not safe for concurrent use;
// create a fresh Interpreter per run.
type Interpreter struct {
	prompter Prompter
	actions  Actions
	stdout   io.Writer
	observer Observer

	mode     Mode
	ifLine   int
	pending  pendingBlock
	bindings *Bindings
}

// New creates an interpreter in idle mode with an empty binding store.
func New(cfg Config) *Interpreter {
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}
	it := &Interpreter{
		prompter: cfg.Prompter,
		actions:  cfg.Actions,
		stdout:   out,
		observer: cfg.Observer,
		bindings: NewBindings(),
	}
	it.pending.reset()
	return it
}

// Mode returns the current parsing context.
func (it *Interpreter) Mode() Mode {
	return it.mode
}

// Bindings returns the live binding store.
func (it *Interpreter) Bindings() *Bindings {
	return it.bindings
}

// OpenBlock returns the name and opening line of the block being collected
// or the conditional being evaluated. line is 0 when idle.
func (it *Interpreter) OpenBlock() (name string, line int) {
	switch {
	case it.mode.Collecting():
		return it.pending.name, it.pending.line
	case it.mode.InConditional():
		return "", it.ifLine
	}
	return "", 0
}

// Run reads the whole script from r and executes it line by line. It stops
// at the first fatal error, which is always a *script.Error. Reaching the
// end of input is success, even with a block left open.
func (it *Interpreter) Run(ctx context.Context, r io.Reader) error {
	rd := script.NewReader(r)
	for {
		line, ok := rd.Next()
		if !ok {
			break
		}
		if line.IsComment() {
			continue
		}
		tok, err := script.Tokenize(line)
		if err != nil {
			return err
		}
		if err := it.Exec(ctx, tok); err != nil {
			return err
		}
	}
	return rd.Err()
}

// Exec executes a single token against the current state.
func (it *Interpreter) Exec(ctx context.Context, tok script.Token) error {
	if it.mode == ModeIfFalse && tok.Keyword != script.KeywordEnd {
		return nil
	}

	switch tok.Keyword {
	case script.KeywordOption:
		if !it.mode.Collecting() {
			return script.Errorf(script.ErrInvalidListOperator, tok.Line, "%q used while %s", tok.Argument, it.mode)
		}
		it.pending.options = append(it.pending.options, tok.Argument)

	case script.KeywordShell:
		err := it.actions.Shell(ctx, tok.Argument)
		it.emit(Event{Type: EventShell, Line: tok.Line, Value: tok.Argument, Err: err})
		if err != nil {
			return &script.Error{Kind: script.ErrCommandFailed, Line: tok.Line, Keyword: tok.Keyword, Detail: fmt.Sprintf("%q", tok.Argument), Err: err}
		}

	case script.KeywordSelect:
		return it.open(tok, ModeSelect)
	case script.KeywordMultiSelect:
		return it.open(tok, ModeMultiSelect)
	case script.KeywordSearchSelect:
		return it.open(tok, ModeSearchSelect)

	case script.KeywordPrint:
		fmt.Fprintln(it.stdout, tok.Argument)
		it.emit(Event{Type: EventPrint, Line: tok.Line, Value: tok.Argument})

	case script.KeywordMessage:
		it.pending.message = tok.Argument

	case script.KeywordEnd:
		return it.end(ctx, tok)

	case script.KeywordIf:
		if it.mode != ModeIdle {
			return it.nested(tok)
		}
		name, target := splitCondition(tok.Argument)
		matched := it.bindings.Matches(name, target)
		it.mode = Conditional(matched)
		it.ifLine = tok.Line
		it.emit(Event{Type: EventBranch, Line: tok.Line, Name: name, Value: target, Matched: matched})

	case script.KeywordChdir:
		err := it.actions.Chdir(tok.Argument)
		it.emit(Event{Type: EventChdir, Line: tok.Line, Value: tok.Argument, Err: err})
		if err != nil {
			return &script.Error{Kind: script.ErrChdirFailed, Line: tok.Line, Keyword: tok.Keyword, Detail: fmt.Sprintf("%q", tok.Argument), Err: err}
		}

	default:
		e := script.Errorf(script.ErrUnknownKeyword, tok.Line, "%q", tok.Keyword)
		if s := script.Suggest(tok.Keyword); s != "" {
			e.Detail += fmt.Sprintf(" (did you mean %q?)", s)
		}
		e.Keyword = tok.Keyword
		return e
	}
	return nil
}

func (it *Interpreter) open(tok script.Token, mode Mode) error {
	if strings.TrimSpace(tok.Argument) == "" {
		return script.Errorf(script.ErrInvalidBlockName, tok.Line, "%s block needs a name", tok.Keyword)
	}
	if it.mode != ModeIdle {
		return it.nested(tok)
	}
	it.mode = mode
	it.pending.name = tok.Argument
	it.pending.line = tok.Line
	it.pending.options = nil
	return nil
}

func (it *Interpreter) nested(tok script.Token) error {
	name, line := it.OpenBlock()
	detail := fmt.Sprintf("%s opened inside %s block", tok.Keyword, it.mode)
	if name != "" {
		detail = fmt.Sprintf("%s opened inside %s block %q", tok.Keyword, it.mode, name)
	}
	return script.Errorf(script.ErrNestedBlock, tok.Line, "%s started on line %d", detail, line)
}

func (it *Interpreter) end(ctx context.Context, tok script.Token) error {
	switch it.mode {
	case ModeSelect, ModeSearchSelect:
		if err := it.resolveSingle(ctx, tok); err != nil {
			return err
		}
	case ModeMultiSelect:
		if err := it.resolveMulti(ctx, tok); err != nil {
			return err
		}
	case ModeIfTrue, ModeIfFalse:
		it.ifLine = 0
	default:
		return script.Errorf(script.ErrUnexpectedEnd, tok.Line, "no open block")
	}
	it.mode = ModeIdle
	return nil
}

func (it *Interpreter) request(kind PromptKind) PromptRequest {
	return PromptRequest{
		Kind:    kind,
		Name:    it.pending.name,
		Message: it.pending.message,
		Options: append([]string(nil), it.pending.options...),
	}
}

func (it *Interpreter) resolveSingle(ctx context.Context, tok script.Token) error {
	kind := PromptList
	if it.mode == ModeSearchSelect {
		kind = PromptSearch
	}
	if len(it.pending.options) == 0 {
		return script.Errorf(script.ErrInvalidSelection, tok.Line, "block %q has no options", it.pending.name)
	}
	idx, err := it.prompter.Select(ctx, it.request(kind))
	if err != nil {
		return it.promptError(tok, err)
	}
	if idx < 0 || idx >= len(it.pending.options) {
		return script.Errorf(script.ErrInvalidSelection, tok.Line, "index %d out of range for block %q", idx, it.pending.name)
	}
	name, label := it.pending.name, it.pending.options[idx]
	it.bindings.Set(name, label)
	it.pending.reset()
	it.emit(Event{Type: EventBind, Line: tok.Line, Name: name, Value: label})
	return nil
}

func (it *Interpreter) resolveMulti(ctx context.Context, tok script.Token) error {
	if len(it.pending.options) == 0 {
		return script.Errorf(script.ErrInvalidSelection, tok.Line, "block %q has no options", it.pending.name)
	}
	indices, err := it.prompter.MultiSelect(ctx, it.request(PromptMulti))
	if err != nil {
		return it.promptError(tok, err)
	}
	labels := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(it.pending.options) {
			return script.Errorf(script.ErrInvalidSelection, tok.Line, "index %d out of range for block %q", idx, it.pending.name)
		}
		labels = append(labels, it.pending.options[idx])
	}
	name := it.pending.name
	it.bindings.SetMulti(name, labels)
	it.pending.reset()
	it.emit(Event{Type: EventBind, Line: tok.Line, Name: name, Values: labels, Multi: true})
	return nil
}

func (it *Interpreter) promptError(tok script.Token, err error) error {
	detail := fmt.Sprintf("block %q", it.pending.name)
	if errors.Is(err, ErrAborted) {
		return &script.Error{Kind: script.ErrPromptAborted, Line: tok.Line, Keyword: tok.Keyword, Detail: detail}
	}
	return &script.Error{Kind: script.ErrPromptAborted, Line: tok.Line, Keyword: tok.Keyword, Detail: detail, Err: err}
}

func (it *Interpreter) emit(e Event) {
	if it.observer != nil {
		it.observer.Observe(e)
	}
}

// splitCondition splits an if argument into the binding name (first word)
// and the trimmed target value.
func splitCondition(arg string) (name, target string) {
	fields := script.Fields(arg)
	if len(fields) == 0 {
		return "", ""
	}
	name = fields[0]
	return name, strings.TrimSpace(strings.TrimPrefix(arg, name))
}
