package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/antoKeinanen/novarum/pkg/debugger"
	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/providers"
	"github.com/antoKeinanen/novarum/pkg/replay"
)

var (
	debugMode     string
	debugScenario string
)

var debugCmd = &cobra.Command{
	Use:   "debug [script]",
	Short: "Step through a script line by line",
	Long: `Start an interactive debugger for a script. Execute one line at a time,
inspect bindings and the parser mode, set breakpoints on lines.

Commands: next (n), continue (c), print [names] (p), mode, list (l),
break <line> (b), history (h), help, quit (q)`,
	Args: cobra.ExactArgs(1),
	RunE: runDebug,
}

func runDebug(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := resolveScript(args[0])
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	var cfg interp.Config
	lp := providers.NewLinePrompter()
	switch debugMode {
	case "real":
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		sh := providers.NewShellActions(settings.Shell)
		sh.Policy = &settings.Policy
		cfg.Actions = sh
		cfg.Prompter = lp
	case "dry-run":
		cfg.Actions = &providers.DryRunActions{Out: os.Stdout}
		cfg.Prompter = lp
	case "replay":
		if debugScenario == "" {
			return fmt.Errorf("--scenario is required for replay mode")
		}
		s, err := replay.LoadScenario(debugScenario)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		cfg.Actions = replay.NewActions(s)
		cfg.Prompter = replay.NewPrompter(s)
	default:
		return fmt.Errorf("unknown mode: %q", debugMode)
	}

	dbg, err := debugger.New(filepath.Base(path), f, cfg, debugMode)
	if err != nil {
		return err
	}
	// Prompts share the debugger's terminal instead of opening a second one.
	lp.ReadLine = dbg.ReadLine
	return dbg.Run(ctx)
}
