package debugger

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/script"
)

// step executes the next script line. It returns false when nothing ran.
func (d *Debugger) step(ctx context.Context) bool {
	if d.failed != nil {
		fmt.Fprintf(d.output, "Script halted: %v\n", d.failed)
		return false
	}
	if d.done() {
		fmt.Fprintf(d.output, "Script completed.\n")
		return false
	}

	line := d.lines[d.pos]
	d.pos++
	tok, err := script.Tokenize(line)
	if err == nil {
		err = d.it.Exec(ctx, tok)
	}
	d.history = append(d.history, entry{line: line.Number, text: line.Text, err: err})
	if err != nil {
		d.failed = err
		fmt.Fprintf(d.output, "  ✗ %v\n", err)
		return false
	}
	return true
}

// handleNext executes one line and shows it.
func (d *Debugger) handleNext(ctx context.Context) {
	if !d.done() && d.failed == nil {
		line := d.lines[d.pos]
		fmt.Fprintf(d.output, "%4d  %s\n", line.Number, line.Text)
	}
	if d.step(ctx) && d.done() {
		fmt.Fprintf(d.output, "Script completed.\n")
	}
}

// handleContinue runs until the script ends, fails, or reaches a breakpoint.
func (d *Debugger) handleContinue(ctx context.Context) {
	for d.step(ctx) {
		if d.done() {
			fmt.Fprintf(d.output, "Script completed.\n")
			return
		}
		if next := d.lines[d.pos].Number; d.breakpoints[next] {
			fmt.Fprintf(d.output, "Breakpoint at line %d.\n", next)
			return
		}
	}
}

// handlePrint shows all bindings or a single one.
func (d *Debugger) handlePrint(parts []string) {
	b := d.it.Bindings()
	names := b.Names()
	if len(parts) > 1 {
		names = parts[1:]
	}
	if len(names) == 0 {
		fmt.Fprintf(d.output, "No bindings yet.\n")
		return
	}
	for _, name := range names {
		single, okS := b.LookupSingle(name)
		multi, okM := b.LookupMulti(name)
		if !okS && !okM {
			fmt.Fprintf(d.output, "  %s is not bound\n", name)
			continue
		}
		if okS {
			fmt.Fprintf(d.output, "  %s = %q\n", name, single)
		}
		if okM {
			fmt.Fprintf(d.output, "  %s = [%s]\n", name, quoteAll(multi))
		}
	}
}

// handleMode shows the interpreter's parsing context.
func (d *Debugger) handleMode() {
	mode := d.it.Mode()
	name, line := d.it.OpenBlock()
	switch {
	case mode.Collecting():
		fmt.Fprintf(d.output, "  %s block %q opened on line %d\n", mode, name, line)
	case mode.InConditional():
		fmt.Fprintf(d.output, "  %s (if on line %d)\n", mode, line)
	default:
		fmt.Fprintf(d.output, "  %s\n", mode)
	}
}

// handleList shows lines around the next one, or around a given line.
func (d *Debugger) handleList(parts []string) {
	center := len(d.lines)
	if d.pos < len(d.lines) {
		center = d.lines[d.pos].Number
	}
	if len(parts) > 1 {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			fmt.Fprintf(d.output, "Usage: list [line]\n")
			return
		}
		center = n
	}

	current := -1
	if d.pos < len(d.lines) {
		current = d.lines[d.pos].Number
	}
	for _, l := range d.lines {
		if l.Number < center-5 || l.Number > center+5 {
			continue
		}
		marker := "  "
		switch {
		case l.Number == current:
			marker = "=>"
		case d.breakpoints[l.Number]:
			marker = "* "
		}
		fmt.Fprintf(d.output, "%s %4d  %s\n", marker, l.Number, l.Text)
	}
}

// handleBreak toggles a breakpoint, or lists them with no argument.
func (d *Debugger) handleBreak(parts []string) {
	if len(parts) < 2 {
		if len(d.breakpoints) == 0 {
			fmt.Fprintf(d.output, "No breakpoints set.\n")
			return
		}
		var lines []int
		for n := range d.breakpoints {
			lines = append(lines, n)
		}
		sort.Ints(lines)
		for _, n := range lines {
			fmt.Fprintf(d.output, "  line %d\n", n)
		}
		return
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 {
		fmt.Fprintf(d.output, "Usage: break <line>\n")
		return
	}
	if d.breakpoints[n] {
		delete(d.breakpoints, n)
		fmt.Fprintf(d.output, "  Breakpoint at line %d removed\n", n)
		return
	}
	d.breakpoints[n] = true
	fmt.Fprintf(d.output, "  Breakpoint at line %d set\n", n)
}

// handleHistory shows executed lines.
func (d *Debugger) handleHistory() {
	if len(d.history) == 0 {
		fmt.Fprintf(d.output, "No lines executed yet.\n")
		return
	}
	for _, e := range d.history {
		status := "✓"
		if e.err != nil {
			status = "✗"
		}
		fmt.Fprintf(d.output, "  %s %4d  %s\n", status, e.line, e.text)
		if e.err != nil {
			fmt.Fprintf(d.output, "         error: %v\n", e.err)
		}
	}
}

// handleHelp displays available commands.
func (d *Debugger) handleHelp() {
	fmt.Fprintln(d.output, "Available commands:")
	fmt.Fprintln(d.output, "  next (n)         Execute the next line")
	fmt.Fprintln(d.output, "  continue (c)     Run to the end or the next breakpoint")
	fmt.Fprintln(d.output, "  print (p) [name] Show bindings")
	fmt.Fprintln(d.output, "  mode (m)         Show the current block or conditional")
	fmt.Fprintln(d.output, "  list (l) [line]  Show surrounding lines")
	fmt.Fprintln(d.output, "  break (b) <line> Toggle a breakpoint")
	fmt.Fprintln(d.output, "  history (h)      Show executed lines")
	fmt.Fprintln(d.output, "  help (?)         Show this help")
	fmt.Fprintln(d.output, "  quit (q)         Exit debugger")
}

func quoteAll(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = strconv.Quote(v)
	}
	return strings.Join(q, ", ")
}
