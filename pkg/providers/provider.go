// Package providers implements the interpreter's gateways: real and dry-run
// actions, the line-mode terminal prompter, and prompter wrappers.
package providers

import (
	"fmt"
	"time"
)

// ExitError reports a shell line that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.ExitCode)
}

// CommandResult holds the outcome of a single shell line.
type CommandResult struct {
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}
