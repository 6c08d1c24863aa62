// Package testing runs scripts against scenario files and checks their
// expectations.
package testing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/lint"
	"github.com/antoKeinanen/novarum/pkg/replay"
	"github.com/antoKeinanen/novarum/pkg/schema"
)

// ScriptExt is the conventional script file extension.
const ScriptExt = ".novconf"

// Runner discovers and executes scenario tests for a script.
type Runner struct {
	Timeout time.Duration // per-scenario timeout
	Strict  bool          // reject shell lines a scenario does not list
}

// ScenarioInfo describes a discovered scenario file.
type ScenarioInfo struct {
	Name string // file stem (e.g. "go-with-git")
	Path string // path to the scenario file
}

// ScenarioDir returns the conventional scenario directory for a script:
// {script-dir}/scenarios/{script-stem}
func ScenarioDir(scriptPath string) string {
	dir := filepath.Dir(scriptPath)
	name := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	return filepath.Join(dir, "scenarios", name)
}

// DiscoverScenarios finds all scenario files for a script by convention:
// {script-dir}/scenarios/{script-stem}/*.yaml
func DiscoverScenarios(scriptPath string) ([]ScenarioInfo, error) {
	base := ScenarioDir(scriptPath)
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no scenarios directory, not an error
		}
		return nil, fmt.Errorf("read scenarios directory: %w", err)
	}

	var scenarios []ScenarioInfo
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		scenarios = append(scenarios, ScenarioInfo{
			Name: strings.TrimSuffix(entry.Name(), ext),
			Path: filepath.Join(base, entry.Name()),
		})
	}
	return scenarios, nil
}

// RunAll executes all scenarios for a script and returns test results.
func (r *Runner) RunAll(scriptPath string, failFast bool) (*TestOutput, error) {
	if err := checkScript(scriptPath); err != nil {
		return nil, err
	}

	scenarios, err := DiscoverScenarios(scriptPath)
	if err != nil {
		return nil, err
	}

	output := &TestOutput{Script: scriptName(scriptPath)}
	for _, scenario := range scenarios {
		result := r.runScenario(scriptPath, scenario)
		output.Scenarios = append(output.Scenarios, result)

		switch result.Status {
		case "passed":
			output.Summary.Passed++
		case "failed":
			output.Summary.Failed++
		case "skipped":
			output.Summary.Skipped++
		case "error":
			output.Summary.Errors++
		}
		output.Summary.Total++

		if failFast && (result.Status == "failed" || result.Status == "error") {
			break
		}
	}
	return output, nil
}

// RunScenario executes a single named scenario for a script.
func (r *Runner) RunScenario(scriptPath, scenarioName string) (*TestResult, error) {
	if err := checkScript(scriptPath); err != nil {
		return nil, err
	}

	scenarios, err := DiscoverScenarios(scriptPath)
	if err != nil {
		return nil, err
	}
	for _, s := range scenarios {
		if s.Name == scenarioName {
			result := r.runScenario(scriptPath, s)
			return &result, nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found in %s", scenarioName, ScenarioDir(scriptPath))
}

// RunFile executes one scenario file against a script, wherever it lives.
func (r *Runner) RunFile(scriptPath, scenarioPath string) TestResult {
	name := strings.TrimSuffix(filepath.Base(scenarioPath), filepath.Ext(scenarioPath))
	return r.runScenario(scriptPath, ScenarioInfo{Name: name, Path: scenarioPath})
}

func (r *Runner) runScenario(scriptPath string, info ScenarioInfo) TestResult {
	start := time.Now()
	result := TestResult{
		ScriptName:   scriptName(scriptPath),
		ScenarioName: info.Name,
		ScenarioFile: info.Path,
	}

	s, err := replay.LoadScenario(info.Path)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}
	if s.Name != "" {
		result.ScenarioName = s.Name
	}

	// A scenario with nothing to check is recorded data only.
	if len(s.Expect) == 0 && len(s.ExpectOutput) == 0 && s.ExpectError == "" {
		result.Status = "skipped"
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	run, err := r.Execute(scriptPath, s)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	result.Assertions = Evaluate(s, run)
	if HasFailures(result.Assertions) {
		result.Status = "failed"
	} else {
		result.Status = "passed"
	}
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

// Execute replays a script with a scenario and collects what it did. The
// returned error covers only failures to start the run; a script that fails
// part way is reported in RunResult.Err.
func (r *Runner) Execute(scriptPath string, s *schema.Scenario) (*RunResult, error) {
	f, err := os.Open(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	ctx := context.Background()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	actions := replay.NewActions(s)
	actions.Strict = r.Strict
	var stdout bytes.Buffer
	it := interp.New(interp.Config{
		Prompter: replay.NewPrompter(s),
		Actions:  actions,
		Stdout:   &stdout,
	})
	runErr := it.Run(ctx, f)

	return &RunResult{
		Single:   it.Bindings().SingleMap(),
		Multi:    it.Bindings().MultiMap(),
		Output:   splitOutput(stdout.String()),
		Commands: actions.Ran,
		Dirs:     actions.Dirs,
		Err:      runErr,
	}, nil
}

func splitOutput(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func scriptName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// checkScript rejects scripts with static errors. Warnings do not block
// test execution.
func checkScript(path string) error {
	res, err := lint.CheckFile(path)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		if d.Severity == lint.SeverityError {
			return fmt.Errorf("script validation failed: %s", d)
		}
	}
	return nil
}
