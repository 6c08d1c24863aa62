package diagram

import (
	"io"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/script"
)

// Step is one statement of a script's control flow.
type Step struct {
	Kind    string // select, multiselect, searchselect, if, shell, chdir, print
	Line    int
	Label   string   // block name, condition, command line, path or text
	Options []string // choice blocks only
	Body    []Step   // if only
}

// Parse reads a script into its flow: choice blocks with their options and
// conditionals with their bodies. message lines and comments are dropped.
// Structural mistakes (a stray end, a block left open) are tolerated; use
// the lint package to report them.
func Parse(r io.Reader) ([]Step, error) {
	rd := script.NewReader(r)
	var (
		top  []Step
		open *Step // block or conditional being collected
	)
	add := func(s Step) {
		if open != nil && open.Kind == script.KeywordIf {
			open.Body = append(open.Body, s)
			return
		}
		top = append(top, s)
	}

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
			return nil, err
		}
		switch tok.Keyword {
		case script.KeywordSelect, script.KeywordMultiSelect, script.KeywordSearchSelect, script.KeywordIf:
			if open != nil {
				continue
			}
			open = &Step{Kind: tok.Keyword, Line: tok.Line, Label: tok.Argument}
		case script.KeywordOption:
			if open != nil && open.Kind != script.KeywordIf {
				open.Options = append(open.Options, tok.Argument)
			}
		case script.KeywordEnd:
			if open != nil {
				top = append(top, *open)
				open = nil
			}
		case script.KeywordShell, script.KeywordChdir, script.KeywordPrint:
			add(Step{Kind: tok.Keyword, Line: tok.Line, Label: tok.Argument})
		}
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	if open != nil {
		top = append(top, *open)
	}
	return top, nil
}

// title is the one-line description of a step.
func (s Step) title() string {
	switch s.Kind {
	case "shell":
		return "$ " + s.Label
	case "chdir":
		return "cd " + s.Label
	case "print":
		return "print " + s.Label
	case "if":
		name, target, _ := strings.Cut(s.Label, " ")
		return name + " == " + strings.TrimSpace(target)
	default:
		return s.Kind + " " + s.Label
	}
}
