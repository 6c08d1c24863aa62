package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/antoKeinanen/novarum/pkg/config"
	"github.com/antoKeinanen/novarum/pkg/governance"
	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/providers"
	"github.com/antoKeinanen/novarum/pkg/replay"
	"github.com/antoKeinanen/novarum/pkg/schema"
	"github.com/antoKeinanen/novarum/pkg/script"
	"github.com/antoKeinanen/novarum/pkg/trace"
	"github.com/antoKeinanen/novarum/pkg/tui"
)

var (
	runMode     string
	runScenario string
	runTrace    string
	runRecord   string
	runPlain    bool
	runDefaults bool
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a script",
	Long: `Run a script by path or by name from the config directory. Without an
argument, pick one of the scripts in the config directory.

Modes:
  real     ask the questions and run shell lines (default)
  dry-run  ask the questions, report shell and chdir lines without running them
  replay   answer from --scenario and resolve shell lines to recorded exit codes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

// session bundles the gateways and sinks of one run.
type session struct {
	prompter interp.Prompter
	actions  interp.Actions
	recorder *providers.RecordingPrompter
	commands *commandLog
	tracer   *trace.Writer
	closers  []io.Closer
}

func (s *session) Close() {
	for _, c := range s.closers {
		c.Close()
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path, err = config.Resolve(settings.Dir, args[0])
	} else {
		path, err = pickScript(ctx, settings)
	}
	if err != nil || path == "" {
		return err
	}

	sess, err := newSession(settings, runMode)
	if err != nil {
		return err
	}
	defer sess.Close()

	runID := trace.GenerateRunID()
	if runTrace == "" && settings.TraceDir != "" {
		if err := os.MkdirAll(settings.TraceDir, 0o755); err != nil {
			return fmt.Errorf("create trace dir: %w", err)
		}
		runTrace = filepath.Join(settings.TraceDir, runID+".jsonl")
	}
	if runTrace != "" {
		tw, err := trace.NewFileWriter(runTrace, runID)
		if err != nil {
			return err
		}
		sess.closers = append(sess.closers, tw)
		tw.SetSecrets(settings.RedactEnv)
		rules, err := governance.CompileRedactionRules(settings.Policy.Redact)
		if err != nil {
			return err
		}
		tw.SetRedactions(rules)
		sess.tracer = tw
		fmt.Fprintf(os.Stderr, "  [trace] %s (run %s)\n", runTrace, tw.RunID())
	}

	runErr := execute(ctx, path, sess)

	if runRecord != "" && !errors.Is(runErr, script.ErrPromptAborted) {
		if err := writeRecording(sess, path, runRecord); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record scenario: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "  [record] scenario written to %s\n", runRecord)
		}
	}
	return runErr
}

// execute runs the script at path with the session's gateways.
func execute(ctx context.Context, path string, sess *session) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	var observers interp.MultiObserver
	if sess.commands != nil {
		observers = append(observers, sess.commands)
	}
	if sess.tracer != nil {
		observers = append(observers, sess.tracer)
		sess.tracer.EmitRunStart(path, runMode)
	}

	it := interp.New(interp.Config{
		Prompter: sess.prompter,
		Actions:  sess.actions,
		Stdout:   os.Stdout,
		Observer: observers,
	})
	start := time.Now()
	runErr := it.Run(ctx, f)
	if sess.tracer != nil {
		sess.tracer.EmitRunComplete(runErr, time.Since(start))
	}
	return runErr
}

// newSession wires gateways for a mode.
func newSession(settings *config.Settings, mode string) (*session, error) {
	sess := &session{}
	switch mode {
	case "real":
		sh := providers.NewShellActions(settings.Shell)
		sh.Policy = &settings.Policy
		sess.actions = sh
		sess.prompter = interactivePrompter(settings, sess)
	case "dry-run":
		sess.actions = &providers.DryRunActions{Out: os.Stderr}
		sess.prompter = interactivePrompter(settings, sess)
	case "replay":
		if runScenario == "" {
			return nil, fmt.Errorf("--scenario is required for replay mode")
		}
		s, err := replay.LoadScenario(runScenario)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		fmt.Fprintf(os.Stderr, "  [replay] Loaded scenario %s (%d answers, %d commands)\n", s.Name, len(s.Answers), len(s.Commands))
		sess.actions = replay.NewActions(s)
		sess.prompter = replay.NewPrompter(s)
	default:
		return nil, fmt.Errorf("unknown mode: %q", mode)
	}

	if runRecord != "" {
		sess.recorder = providers.NewRecordingPrompter(sess.prompter)
		sess.prompter = sess.recorder
		sess.commands = &commandLog{}
	}
	return sess, nil
}

func interactivePrompter(settings *config.Settings, sess *session) interp.Prompter {
	if runDefaults {
		return &providers.DryRunPrompter{Out: os.Stderr}
	}
	if usePlain(settings) {
		lp := providers.NewLinePrompter()
		sess.closers = append(sess.closers, lp)
		return lp
	}
	return tui.NewPrompter()
}

// usePlain picks line-mode prompts when asked to, or when stdin is not a
// terminal the full-screen picker could drive.
func usePlain(settings *config.Settings) bool {
	if runPlain || settings.PromptStyle() == config.PromptPlain {
		return true
	}
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

func loadSettings() (*config.Settings, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

// resolveScript maps a script argument to a path, looking in the config
// directory for bare names.
func resolveScript(arg string) (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return config.Resolve(dir, arg)
}

// pickScript offers the scripts in the config directory. A missing
// directory is created, with the example script, after confirmation.
func pickScript(ctx context.Context, settings *config.Settings) (string, error) {
	picker, release := pickerPrompter(settings)
	defer release()
	dir := settings.Dir

	if !config.Exists(dir) {
		fmt.Printf("It looks like you are missing the config directory at:\n  %s\n", dir)
		choice, err := picker.Select(ctx, interp.PromptRequest{
			Kind:    interp.PromptList,
			Name:    "bootstrap",
			Message: "Would you like to create one now?",
			Options: []string{"yes", "no"},
		})
		if err != nil {
			return "", err
		}
		if choice != 0 {
			fmt.Println("Exiting...")
			return "", nil
		}
		path, err := config.Bootstrap(dir)
		if err != nil {
			return "", err
		}
		fmt.Printf("Wrote example script to %s\n", path)
	}

	scripts, err := config.Discover(dir)
	if err != nil {
		return "", err
	}
	if len(scripts) == 0 {
		return "", fmt.Errorf("no %s scripts in %s", config.ScriptExt, dir)
	}
	idx, err := picker.Select(ctx, interp.PromptRequest{
		Kind:    interp.PromptSearch,
		Name:    "script",
		Message: "Select config to be used (type to search):",
		Options: config.Names(scripts),
	})
	if err != nil {
		return "", err
	}
	return scripts[idx].Path, nil
}

func pickerPrompter(settings *config.Settings) (interp.Prompter, func()) {
	if usePlain(settings) {
		lp := providers.NewLinePrompter()
		return lp, func() { lp.Close() }
	}
	return tui.NewPrompter(), func() {}
}

// commandLog records shell lines and their exit codes for --record.
type commandLog struct {
	commands []schema.Command
	dirs     []string
}

func (c *commandLog) Observe(e interp.Event) {
	switch e.Type {
	case interp.EventShell:
		c.commands = append(c.commands, schema.Command{Run: e.Value, ExitCode: exitCode(e.Err)})
	case interp.EventChdir:
		c.dirs = append(c.dirs, e.Value)
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *providers.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}

// writeRecording saves the session's answers and commands as a scenario.
func writeRecording(sess *session, scriptPath, out string) error {
	if sess.recorder == nil {
		return fmt.Errorf("recording was not enabled")
	}
	name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	s := sess.recorder.Scenario(name)
	s.Description = fmt.Sprintf("recorded from %s on %s", filepath.Base(scriptPath), time.Now().UTC().Format(time.RFC3339))
	s.Commands = sess.commands.commands

	data, err := schema.Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create scenario dir: %w", err)
		}
	}
	return os.WriteFile(out, data, 0o644)
}
