// Package lint checks a script without executing it. It follows the same
// block rules as the interpreter so that anything reported as an error here
// is a line the interpreter would reject.
package lint

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/script"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic is a single problem found in a script.
type Diagnostic struct {
	Line     int    `json:"line"`
	Keyword  string `json:"keyword,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (d *Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Severity, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []*Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Result summarises a checked script.
type Result struct {
	Diagnostics []*Diagnostic `json:"diagnostics"`
	Blocks      []Block       `json:"blocks"`
}

// Block describes one choice block found in the script.
type Block struct {
	Kind    string   `json:"kind"` // select, multiselect, searchselect
	Name    string   `json:"name"`
	Line    int      `json:"line"`
	Options []string `json:"options"`
}

type blockKind int

const (
	none blockKind = iota
	choice
	conditional
)

type checker struct {
	diags  []*Diagnostic
	blocks []Block

	open     blockKind
	openLine int
	current  Block
}

// CheckFile reads and checks the script at path.
func CheckFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return Check(f)
}

// Check walks every line of the script. Only I/O failures are returned as
// errors; script problems are reported as diagnostics.
func Check(r io.Reader) (*Result, error) {
	c := &checker{}
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
			c.report(line.Number, "", SeverityError, "blank line contains only whitespace")
			continue
		}
		c.check(tok)
	}
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	switch c.open {
	case choice:
		c.report(c.openLine, c.current.Kind, SeverityWarning,
			fmt.Sprintf("%s block %q is never closed and will not prompt", c.current.Kind, c.current.Name))
	case conditional:
		c.report(c.openLine, script.KeywordIf, SeverityWarning, "if block is never closed")
	}
	sort.SliceStable(c.diags, func(i, j int) bool { return c.diags[i].Line < c.diags[j].Line })
	return &Result{Diagnostics: c.diags, Blocks: c.blocks}, nil
}

// severity downgrades errors inside an if body: those lines only fail when
// the branch is taken.
func (c *checker) severity() string {
	if c.open == conditional {
		return SeverityWarning
	}
	return SeverityError
}

func (c *checker) report(line int, keyword, severity, msg string) {
	c.diags = append(c.diags, &Diagnostic{Line: line, Keyword: keyword, Message: msg, Severity: severity})
}

func (c *checker) check(tok script.Token) {
	switch tok.Keyword {
	case script.KeywordSelect, script.KeywordMultiSelect, script.KeywordSearchSelect:
		if strings.TrimSpace(tok.Argument) == "" {
			c.report(tok.Line, tok.Keyword, c.severity(), tok.Keyword+" block needs a name")
			return
		}
		if c.open != none {
			c.nested(tok)
			return
		}
		c.open, c.openLine = choice, tok.Line
		c.current = Block{Kind: tok.Keyword, Name: tok.Argument, Line: tok.Line, Options: []string{}}

	case script.KeywordOption:
		if c.open != choice {
			c.report(tok.Line, tok.Keyword, c.severity(), fmt.Sprintf("option %q outside a choice block", tok.Argument))
			return
		}
		if tok.Argument == "" {
			c.report(tok.Line, tok.Keyword, SeverityWarning, "empty option label")
		}
		for _, existing := range c.current.Options {
			if existing == tok.Argument {
				c.report(tok.Line, tok.Keyword, SeverityWarning, fmt.Sprintf("duplicate option %q", tok.Argument))
				break
			}
		}
		c.current.Options = append(c.current.Options, tok.Argument)

	case script.KeywordIf:
		if c.open != none {
			c.nested(tok)
			return
		}
		name, target := splitCondition(tok.Argument)
		switch {
		case name == "":
			c.report(tok.Line, tok.Keyword, SeverityWarning, "if has no binding name and never matches")
		case target == "":
			c.report(tok.Line, tok.Keyword, SeverityWarning, fmt.Sprintf("if %s has no target value", name))
		}
		c.open, c.openLine = conditional, tok.Line

	case script.KeywordEnd:
		switch c.open {
		case none:
			c.report(tok.Line, tok.Keyword, SeverityError, "end with no open block")
		case choice:
			if len(c.current.Options) == 0 {
				c.report(tok.Line, tok.Keyword, SeverityError,
					fmt.Sprintf("%s block %q has no options", c.current.Kind, c.current.Name))
			}
			c.blocks = append(c.blocks, c.current)
		}
		c.open, c.openLine = none, 0

	case script.KeywordShell, script.KeywordChdir:
		if tok.Argument == "" {
			c.report(tok.Line, tok.Keyword, SeverityWarning, tok.Keyword+" has no argument")
		}

	case script.KeywordPrint, script.KeywordMessage:

	default:
		msg := fmt.Sprintf("unknown keyword %q", tok.Keyword)
		if s := script.Suggest(tok.Keyword); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		c.report(tok.Line, tok.Keyword, c.severity(), msg)
	}
}

func (c *checker) nested(tok script.Token) {
	what := "if"
	if c.open == choice {
		what = fmt.Sprintf("%s block %q", c.current.Kind, c.current.Name)
	}
	c.report(tok.Line, tok.Keyword, c.severity(),
		fmt.Sprintf("%s opened inside %s started on line %d", tok.Keyword, what, c.openLine))
}

func splitCondition(arg string) (name, target string) {
	fields := script.Fields(arg)
	if len(fields) == 0 {
		return "", ""
	}
	name = fields[0]
	target = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(arg), name))
	return name, target
}
