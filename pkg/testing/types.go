package testing

// TestResult captures the outcome of running one scenario against a script.
type TestResult struct {
	ScriptName   string            `json:"script_name"`
	ScenarioName string            `json:"scenario_name"`
	ScenarioFile string            `json:"scenario_file"`
	Status       string            `json:"status"` // passed, failed, skipped, error
	DurationMs   int64             `json:"duration_ms"`
	Assertions   []AssertionResult `json:"assertions"`
	Error        string            `json:"error,omitempty"`
}

// AssertionResult is the outcome of a single assertion check.
type AssertionResult struct {
	Type     string `json:"type"`          // expect, expect_output, expect_error
	Key      string `json:"key,omitempty"` // expression or expected line
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
}

// TestSummary aggregates results across scenarios.
type TestSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// TestOutput is the top-level JSON structure for novarum test --json.
type TestOutput struct {
	Script    string       `json:"script"`
	Scenarios []TestResult `json:"scenarios"`
	Summary   TestSummary  `json:"summary"`
}

// RunResult holds what a replayed run observably did, used as input to the
// assertion evaluator.
type RunResult struct {
	Single   map[string]string   // single-choice bindings
	Multi    map[string][]string // multi-choice bindings
	Output   []string            // lines written by print
	Commands []string            // shell lines in execution order
	Dirs     []string            // chdir paths in execution order
	Err      error               // fatal error that stopped the run, if any
}
