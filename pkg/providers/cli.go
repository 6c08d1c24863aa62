package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/antoKeinanen/novarum/pkg/governance"
)

// ShellActions runs shell lines through the system shell and changes the
// process working directory. Commands inherit the configured streams.
type ShellActions struct {
	// Prefix is the argv the command line is appended to.
	// Defaults to DefaultShell().
	Prefix []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Policy, when set, vets each line and filters the child environment.
	Policy *governance.Policy

	// Last holds the result of the most recent shell line.
	Last *CommandResult
}

// NewShellActions returns actions bound to the process standard streams.
func NewShellActions(shell []string) *ShellActions {
	return &ShellActions{
		Prefix: shell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// DefaultShell returns "sh -c", or "cmd.exe /C" on Windows.
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd.exe", "/C"}
	}
	return []string{"sh", "-c"}
}

// Shell runs commandLine and blocks until it exits. A non-zero exit is
// reported as *ExitError.
func (s *ShellActions) Shell(ctx context.Context, commandLine string) error {
	if err := s.Policy.CheckCommand(commandLine); err != nil {
		return err
	}
	argv := s.Prefix
	if len(argv) == 0 {
		argv = DefaultShell()
	}
	args := append(append([]string(nil), argv[1:]...), commandLine)

	start := time.Now()
	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if s.Policy != nil && len(s.Policy.DenyEnvVars) > 0 {
		env, _ := s.Policy.FilterEnv(os.Environ())
		if env == nil {
			env = []string{}
		}
		cmd.Env = env
	}

	err := cmd.Run()
	result := &CommandResult{Command: commandLine, Duration: time.Since(start)}
	s.Last = result
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return &ExitError{Command: commandLine, ExitCode: result.ExitCode}
		}
		result.ExitCode = -1
		return fmt.Errorf("execute %q: %w", commandLine, err)
	}
	return nil
}

// Chdir changes the process working directory.
func (s *ShellActions) Chdir(path string) error {
	if err := os.Chdir(path); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	return nil
}
