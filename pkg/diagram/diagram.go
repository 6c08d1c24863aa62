// Package diagram draws a script's control flow as a Mermaid flowchart or
// as ASCII boxes for the terminal.
package diagram

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format represents the output diagram format.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatASCII   Format = "ascii"
)

// maxLabel caps the display width of a node label.
const maxLabel = 48

// Generate reads a script from r and draws it. name titles ASCII output.
func Generate(name string, r io.Reader, format Format) (string, error) {
	steps, err := Parse(r)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatMermaid:
		return generateMermaid(steps), nil
	case FormatASCII:
		return generateASCII(name, steps), nil
	default:
		return "", fmt.Errorf("unsupported diagram format: %s", format)
	}
}

// --- Mermaid flowchart ---

type exit struct {
	id    string
	label string
}

func generateMermaid(steps []Step) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	if len(steps) == 0 {
		b.WriteString("    START([Start]) --> DONE([Done])\n")
		return b.String()
	}
	first, exits := writeSequence(&b, steps)
	b.WriteString("    START([Start]) --> " + first + "\n")
	for _, e := range exits {
		writeEdge(&b, e, "DONE([Done])")
	}
	return b.String()
}

// writeSequence writes steps in order and returns the entry node and the
// dangling exits of the last step.
func writeSequence(b *strings.Builder, steps []Step) (first string, exits []exit) {
	for _, s := range steps {
		id := nodeID(s)
		b.WriteString("    " + nodeDefinition(s) + "\n")
		for _, e := range exits {
			writeEdge(b, e, id)
		}
		if first == "" {
			first = id
		}

		if s.Kind != "if" {
			exits = []exit{{id: id}}
			continue
		}
		bodyFirst, bodyExits := writeSequence(b, s.Body)
		if bodyFirst == "" {
			exits = []exit{{id: id}}
			continue
		}
		writeEdge(b, exit{id: id, label: "yes"}, bodyFirst)
		exits = append(bodyExits, exit{id: id, label: "no"})
	}
	return first, exits
}

func writeEdge(b *strings.Builder, from exit, to string) {
	if from.label != "" {
		fmt.Fprintf(b, "    %s -->|%s| %s\n", from.id, from.label, to)
		return
	}
	fmt.Fprintf(b, "    %s --> %s\n", from.id, to)
}

func nodeID(s Step) string {
	return fmt.Sprintf("L%d", s.Line)
}

func nodeDefinition(s Step) string {
	id := nodeID(s)
	title := escMermaid(truncate(s.title(), maxLabel))
	switch s.Kind {
	case "if":
		return fmt.Sprintf(`%s{"%s"}`, id, title)
	case "select", "multiselect", "searchselect":
		opts := escMermaid(truncate(strings.Join(s.Options, " | "), maxLabel))
		return fmt.Sprintf(`%s[/"%s<br/>%s"/]`, id, title, opts)
	case "shell":
		return fmt.Sprintf(`%s[["%s"]]`, id, title)
	default:
		return fmt.Sprintf(`%s["%s"]`, id, title)
	}
}

func escMermaid(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, `'`, "#apos;")
	return s
}

// --- ASCII ---

func generateASCII(name string, steps []Step) string {
	var b strings.Builder
	if name == "" {
		name = "script"
	}
	if len(steps) == 0 {
		b.WriteString(name + " (empty)\n")
		return b.String()
	}

	const indent = 4
	boxWidth := computeUniformBoxWidth(steps, name)
	connCol := indent + 1 + boxWidth/2
	pad := strings.Repeat(" ", indent)
	connPad := strings.Repeat(" ", connCol)

	mid := boxWidth / 2
	b.WriteString(pad + "╔" + strings.Repeat("═", boxWidth) + "╗\n")
	b.WriteString(pad + "║" + centerPad(name, boxWidth) + "║\n")
	b.WriteString(pad + "╚" + strings.Repeat("═", mid) + "╤" + strings.Repeat("═", boxWidth-mid-1) + "╝\n")
	b.WriteString(connPad + "│\n")

	for i, s := range steps {
		if s.Kind == "if" {
			writeASCIIBranch(&b, s, connCol)
		} else {
			writeASCIIStep(&b, s, indent, boxWidth)
		}
		if i < len(steps)-1 {
			b.WriteString(connPad + "│\n")
		}
	}
	return b.String()
}

// computeUniformBoxWidth returns the widest interior width needed across
// all top-level steps and the header name.
func computeUniformBoxWidth(steps []Step, name string) int {
	w := 22
	if nw := runewidth.StringWidth(name) + 4; nw > w {
		w = nw
	}
	for _, s := range steps {
		if s.Kind == "if" {
			continue
		}
		for _, l := range stepLines(s) {
			if lw := runewidth.StringWidth(l); lw > w {
				w = lw
			}
		}
	}
	return w
}

// stepLines returns the padded content lines of a step box.
func stepLines(s Step) []string {
	lines := []string{" " + stepIcon(s.Kind) + " " + truncate(s.title(), maxLabel) + " "}
	if len(s.Options) > 0 {
		lines = append(lines, "   "+truncate(strings.Join(s.Options, " | "), maxLabel)+" ")
	}
	return lines
}

func writeASCIIStep(b *strings.Builder, s Step, indent, boxWidth int) {
	pad := strings.Repeat(" ", indent)
	mid := boxWidth / 2
	b.WriteString(pad + "┌" + strings.Repeat("─", boxWidth) + "┐\n")
	for _, l := range stepLines(s) {
		b.WriteString(pad + "│" + l + strings.Repeat(" ", boxWidth-runewidth.StringWidth(l)) + "│\n")
	}
	b.WriteString(pad + "└" + strings.Repeat("─", mid) + "┬" + strings.Repeat("─", boxWidth-mid-1) + "┘\n")
}

// writeASCIIBranch draws a conditional as a diamond-topped box holding the
// steps that run when it matches.
func writeASCIIBranch(b *strings.Builder, s Step, connCol int) {
	lines := []string{" if " + truncate(s.title(), maxLabel) + " "}
	for _, bs := range s.Body {
		lines = append(lines, "  "+stepIcon(bs.Kind)+" "+truncate(bs.title(), maxLabel)+" ")
	}

	width := 9
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > width {
			width = w
		}
	}
	// Odd width puts ◇ and ┬ on the connector column.
	if width%2 == 0 {
		width++
	}
	half := width / 2
	left := connCol - half - 1
	if left < 0 {
		left = 0
	}
	pad := strings.Repeat(" ", left)

	b.WriteString(pad + "┌" + strings.Repeat("─", half) + "◇" + strings.Repeat("─", half) + "┐\n")
	for _, l := range lines {
		b.WriteString(pad + "│" + l + strings.Repeat(" ", width-runewidth.StringWidth(l)) + "│\n")
	}
	b.WriteString(pad + "└" + strings.Repeat("─", half) + "┬" + strings.Repeat("─", half) + "┘\n")
}

// centerPad centers s within width using spaces, based on display width.
func centerPad(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	total := width - sw
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

func stepIcon(kind string) string {
	switch kind {
	case "select", "searchselect":
		return "?"
	case "multiselect":
		return "☰"
	case "shell":
		return "$"
	case "chdir":
		return "→"
	case "print":
		return "»"
	default:
		return "○"
	}
}

func truncate(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}
