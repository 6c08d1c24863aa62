package providers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/interp"
)

// DryRunActions reports shell and chdir lines without performing them.
type DryRunActions struct {
	Out io.Writer // defaults to os.Stderr
}

func (d *DryRunActions) out() io.Writer {
	if d.Out == nil {
		return os.Stderr
	}
	return d.Out
}

func (d *DryRunActions) Shell(ctx context.Context, commandLine string) error {
	fmt.Fprintf(d.out(), "  [dry-run] would execute: %s\n", commandLine)
	return nil
}

func (d *DryRunActions) Chdir(path string) error {
	fmt.Fprintf(d.out(), "  [dry-run] would chdir: %s\n", path)
	return nil
}

// DryRunPrompter answers every prompt without asking: the default index for
// single choices and an empty set for multi choices.
type DryRunPrompter struct {
	Out io.Writer // optional; when set, answers are reported
}

func (d *DryRunPrompter) Select(ctx context.Context, req interp.PromptRequest) (int, error) {
	if d.Out != nil && req.Default < len(req.Options) {
		fmt.Fprintf(d.Out, "  [dry-run] %s %s -> %s\n", req.Kind, req.Name, req.Options[req.Default])
	}
	return req.Default, nil
}

func (d *DryRunPrompter) MultiSelect(ctx context.Context, req interp.PromptRequest) ([]int, error) {
	if d.Out != nil {
		fmt.Fprintf(d.Out, "  [dry-run] %s %s -> (none of %s)\n", req.Kind, req.Name, strings.Join(req.Options, ", "))
	}
	return nil, nil
}
