package lint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/antoKeinanen/novarum/pkg/script"
)

// Document builds a markdown page for the script at path: its leading
// comment block followed by a summary of the prompts it asks. The title is
// the header's leading markdown heading, else its first line, else the file
// name.
func Document(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	header, err := script.Header(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read header: %w", err)
	}
	res, err := Check(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if t, rest := headerTitle(header); t != "" {
		title, header = t, rest
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	body := strings.TrimSpace(strings.Join(header, "\n"))
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	if len(res.Blocks) > 0 {
		b.WriteString("## Prompts\n\n")
		for _, blk := range res.Blocks {
			fmt.Fprintf(&b, "- **%s** (%s, line %d): %s\n", blk.Name, blk.Kind, blk.Line, strings.Join(blk.Options, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// headerTitle splits the title off a comment header.
func headerTitle(header []string) (title string, rest []string) {
	for len(header) > 0 && strings.TrimSpace(header[0]) == "" {
		header = header[1:]
	}
	if len(header) == 0 {
		return "", header
	}
	source := []byte(strings.Join(header, "\n"))
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	if h, ok := doc.FirstChild().(*ast.Heading); ok {
		consumed := 1
		if !strings.HasPrefix(strings.TrimSpace(header[0]), "#") {
			consumed = 2 // setext underline
		}
		if consumed > len(header) {
			consumed = len(header)
		}
		return inlineText(h, source), header[consumed:]
	}
	first := strings.TrimSpace(header[0])
	if first == "" {
		return "", header
	}
	return first, header[1:]
}

// inlineText concatenates the text segments under n.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.CodeSpan:
			for ch := t.FirstChild(); ch != nil; ch = ch.NextSibling() {
				if tx, ok := ch.(*ast.Text); ok {
					b.Write(tx.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
