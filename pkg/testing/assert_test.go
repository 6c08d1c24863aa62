package testing

import (
	"errors"
	"strings"
	"testing"

	"github.com/antoKeinanen/novarum/pkg/schema"
)

func sampleRun() *RunResult {
	return &RunResult{
		Single:   map[string]string{"language": "Go", "output": "shadowed"},
		Multi:    map[string][]string{"extras": {"git", "ci"}},
		Output:   []string{"start", "middle", "Done"},
		Commands: []string{"go mod init x", "git init"},
		Dirs:     []string{"/tmp/x"},
	}
}

func TestEvalExpectPass(t *testing.T) {
	env := BuildEnv(sampleRun())
	for _, e := range []string{
		`language == "Go"`,
		`"git" in extras`,
		`single["language"] == "Go"`,
		`len(multi["extras"]) == 2`,
		`commands == ["go mod init x", "git init"]`,
		`dirs[0] == "/tmp/x"`,
		`"Done" in output`,
		`error == ""`,
		`single["output"] == "shadowed"`,
	} {
		r := evalExpect(e, env)
		if !r.Passed {
			t.Errorf("%s: %s", e, r.Message)
		}
	}
}

func TestEvalExpectFail(t *testing.T) {
	r := evalExpect(`language == "Rust"`, BuildEnv(sampleRun()))
	if r.Passed {
		t.Fatal("expected failure")
	}
	if !strings.Contains(r.Message, `language == "Rust"`) {
		t.Errorf("message = %q", r.Message)
	}
}

func TestEvalExpectCompileError(t *testing.T) {
	r := evalExpect(`nosuchbinding == "x"`, BuildEnv(sampleRun()))
	if r.Passed || !strings.HasPrefix(r.Message, "compile") {
		t.Errorf("got %+v, want compile failure", r)
	}
	r = evalExpect(`len(commands)`, BuildEnv(sampleRun()))
	if r.Passed {
		t.Error("non-bool expression should fail")
	}
}

func TestReservedNamesStayReserved(t *testing.T) {
	env := BuildEnv(sampleRun())
	if _, ok := env["output"].([]any); !ok {
		t.Errorf("output = %T, want the printed lines", env["output"])
	}
}

func TestSingleWinsOverMulti(t *testing.T) {
	env := BuildEnv(&RunResult{
		Single: map[string]string{"x": "a"},
		Multi:  map[string][]string{"x": {"b"}},
	})
	if env["x"] != "a" {
		t.Errorf("x = %v, want single binding", env["x"])
	}
}

func TestEvalOutputInOrder(t *testing.T) {
	results := evalOutput([]string{"start", "Done"}, []string{"start", "middle", "Done"})
	if HasFailures(results) {
		t.Errorf("subsequence should pass: %+v", results)
	}
	results = evalOutput([]string{"Done", "start"}, []string{"start", "middle", "Done"})
	if !HasFailures(results) {
		t.Error("out-of-order lines should fail")
	}
	if !results[0].Passed || results[1].Passed {
		t.Errorf("results = %+v", results)
	}
}

func TestEvalError(t *testing.T) {
	boom := errors.New("line 3: command failed: \"make\"")
	tests := []struct {
		name     string
		expected string
		err      error
		passed   bool
	}{
		{"clean run", "", nil, true},
		{"unexpected failure", "", boom, false},
		{"missing failure", "command failed", nil, false},
		{"matching failure", "command failed", boom, true},
		{"different failure", "prompt aborted", boom, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalError(tt.expected, tt.err); got.Passed != tt.passed {
				t.Errorf("passed = %v, want %v (%s)", got.Passed, tt.passed, got.Message)
			}
		})
	}
}

func TestEvaluateAllKinds(t *testing.T) {
	s := &schema.Scenario{
		Name:         "x",
		Expect:       []string{`language == "Go"`},
		ExpectOutput: []string{"Done"},
	}
	results := Evaluate(s, sampleRun())
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if HasFailures(results) {
		t.Errorf("unexpected failure: %+v", results)
	}
}

func TestHasFailuresEmpty(t *testing.T) {
	if HasFailures(nil) {
		t.Error("no assertions means no failures")
	}
}
