package testing

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/antoKeinanen/novarum/pkg/schema"
)

// Reserved expression variables. A binding with one of these names is only
// reachable through the single or multi maps.
var reserved = map[string]bool{
	"single": true, "multi": true, "output": true, "commands": true, "dirs": true, "error": true,
}

// Evaluate checks a scenario's expectations against a RunResult. Each
// expectation yields one AssertionResult; a run that failed without an
// expect_error yields a failing expect_error assertion as well.
func Evaluate(s *schema.Scenario, run *RunResult) []AssertionResult {
	var results []AssertionResult

	results = append(results, evalError(s.ExpectError, run.Err))

	if len(s.Expect) > 0 {
		env := BuildEnv(run)
		for _, e := range s.Expect {
			results = append(results, evalExpect(e, env))
		}
	}

	if len(s.ExpectOutput) > 0 {
		results = append(results, evalOutput(s.ExpectOutput, run.Output)...)
	}

	return results
}

// HasFailures returns true if any assertion in the slice failed.
func HasFailures(results []AssertionResult) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

// BuildEnv builds the expression environment for a run. Lists are exposed
// as []any so that literal comparisons like commands == ["make"] hold.
func BuildEnv(run *RunResult) map[string]any {
	single := make(map[string]any, len(run.Single))
	multi := make(map[string]any, len(run.Multi))
	env := map[string]any{
		"single":   single,
		"multi":    multi,
		"output":   toAny(run.Output),
		"commands": toAny(run.Commands),
		"dirs":     toAny(run.Dirs),
		"error":    "",
	}
	if run.Err != nil {
		env["error"] = run.Err.Error()
	}
	for name, labels := range run.Multi {
		multi[name] = toAny(labels)
		if !reserved[name] {
			env[name] = multi[name]
		}
	}
	// single wins when a name was bound by both kinds
	for name, label := range run.Single {
		single[name] = label
		if !reserved[name] {
			env[name] = label
		}
	}
	return env
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func evalExpect(exprStr string, env map[string]any) AssertionResult {
	result := AssertionResult{Type: "expect", Key: exprStr}
	program, err := expr.Compile(exprStr, expr.Env(env), expr.AsBool())
	if err != nil {
		result.Message = fmt.Sprintf("compile %q: %v", exprStr, err)
		return result
	}
	output, err := expr.Run(program, env)
	if err != nil {
		result.Message = fmt.Sprintf("eval %q: %v", exprStr, err)
		return result
	}
	passed, ok := output.(bool)
	if !ok {
		result.Message = fmt.Sprintf("%q did not return bool (got %T: %v)", exprStr, output, output)
		return result
	}
	result.Passed = passed
	result.Actual = fmt.Sprint(passed)
	if !passed {
		result.Message = fmt.Sprintf("expected %s", exprStr)
	}
	return result
}

// evalOutput checks that each expected line was printed, in order. Other
// lines may appear in between.
func evalOutput(expected, actual []string) []AssertionResult {
	var results []AssertionResult
	pos := 0
	for _, want := range expected {
		r := AssertionResult{Type: "expect_output", Key: want, Expected: want}
		found := -1
		for i := pos; i < len(actual); i++ {
			if actual[i] == want {
				found = i
				break
			}
		}
		if found >= 0 {
			r.Passed = true
			r.Actual = actual[found]
			pos = found + 1
		} else {
			r.Message = fmt.Sprintf("line %q not printed after line %d of output", want, pos)
		}
		results = append(results, r)
	}
	return results
}

func evalError(expected string, runErr error) AssertionResult {
	r := AssertionResult{Type: "expect_error", Expected: expected}
	if runErr != nil {
		r.Actual = runErr.Error()
	}
	switch {
	case expected == "" && runErr == nil:
		r.Passed = true
	case expected == "":
		r.Message = fmt.Sprintf("run failed: %v", runErr)
	case runErr == nil:
		r.Message = fmt.Sprintf("expected error containing %q, run succeeded", expected)
	case strings.Contains(runErr.Error(), expected):
		r.Passed = true
	default:
		r.Message = fmt.Sprintf("expected error containing %q, got %q", expected, runErr.Error())
	}
	return r
}
