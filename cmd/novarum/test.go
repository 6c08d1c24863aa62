package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	runtest "github.com/antoKeinanen/novarum/pkg/testing"
)

var (
	testScenario string
	testJSON     bool
	testFailFast bool
	testStrict   bool
	testTimeout  string
)

var testCmd = &cobra.Command{
	Use:   "test [script...]",
	Short: "Replay recorded scenarios against scripts and check expectations",
	Long: `Run every scenario under scenarios/<script name>/ next to each script.
Answers come from the scenario, shell lines resolve to the recorded exit
codes, and the expect, expect_output and expect_error entries are checked.

Exit codes: 0 all passed, 1 a scenario failed, 2 a script could not be checked.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	timeout := 30 * time.Second
	if testTimeout != "" {
		d, err := time.ParseDuration(testTimeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout %q: %w", testTimeout, err)
		}
		timeout = d
	}

	runner := &runtest.Runner{Timeout: timeout, Strict: testStrict}
	allPassed := true
	hasValidationError := false

	for _, arg := range args {
		scriptPath, err := resolveScript(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", arg, err)
			hasValidationError = true
			continue
		}

		output, err := runTests(runner, scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", scriptPath, err)
			hasValidationError = true
			continue
		}

		if testJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.Encode(output)
		} else {
			printTestOutput(output)
		}

		if output.Summary.Failed > 0 || output.Summary.Errors > 0 {
			allPassed = false
		}
		if testFailFast && !allPassed {
			break
		}
	}

	if hasValidationError {
		os.Exit(2)
	}
	if !allPassed {
		os.Exit(1)
	}
	return nil
}

// runTests runs all scenarios of a script, or only --scenario.
func runTests(runner *runtest.Runner, scriptPath string) (*runtest.TestOutput, error) {
	if testScenario == "" {
		return runner.RunAll(scriptPath, testFailFast)
	}
	result, err := runner.RunScenario(scriptPath, testScenario)
	if err != nil {
		return nil, err
	}
	output := &runtest.TestOutput{Script: result.ScriptName, Scenarios: []runtest.TestResult{*result}}
	output.Summary.Total = 1
	switch result.Status {
	case "passed":
		output.Summary.Passed = 1
	case "failed":
		output.Summary.Failed = 1
	case "skipped":
		output.Summary.Skipped = 1
	case "error":
		output.Summary.Errors = 1
	}
	return output, nil
}

func printTestOutput(output *runtest.TestOutput) {
	fmt.Printf("\n  %s\n", output.Script)
	for _, s := range output.Scenarios {
		switch s.Status {
		case "passed":
			fmt.Printf("    %s %-30s (%d checks)  %dms\n", color.GreenString("✓"), s.ScenarioName, len(s.Assertions), s.DurationMs)
		case "failed":
			fmt.Printf("    %s %-30s  %dms\n", color.RedString("✗"), s.ScenarioName, s.DurationMs)
			for _, a := range s.Assertions {
				if !a.Passed {
					fmt.Printf("        %s: %s\n", a.Type, a.Message)
				}
			}
		case "skipped":
			fmt.Printf("    %s %-30s (no expectations)  %dms\n", color.YellowString("○"), s.ScenarioName, s.DurationMs)
		case "error":
			fmt.Printf("    %s %-30s ERROR: %s\n", color.RedString("✗"), s.ScenarioName, s.Error)
		}
	}
	fmt.Printf("\n  %d scenarios, %d passed, %d failed, %d skipped\n",
		output.Summary.Total, output.Summary.Passed, output.Summary.Failed, output.Summary.Skipped)
	if output.Summary.Errors > 0 {
		fmt.Printf("  %d errors\n", output.Summary.Errors)
	}
}
