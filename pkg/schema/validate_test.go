package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateAcceptsScenario(t *testing.T) {
	s, errs := Validate([]byte(colorScenario))
	if HasErrors(errs) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if s == nil || s.Name != "pick-red" {
		t.Fatalf("scenario = %+v", s)
	}
}

func TestValidatePhases(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		phase string
	}{
		{"bad yaml", "name: [unclosed\n", "structural"},
		{"empty", "", "structural"},
		{"missing name", "answers:\n  a: b\n", "semantic"},
		{"unknown key", "name: x\nextra: 1\n", "semantic"},
		{"mapping answer", "name: x\nanswers:\n  a:\n    b: c\n", "semantic"},
		{"exit code type", "name: x\ncommands:\n  - run: ls\n    exit_code: nope\n", "semantic"},
		{"blank name", "name: \"  \"\n", "domain"},
		{"blank command", "name: x\ncommands:\n  - run: \"\"\n", "domain"},
		{"repeat without first answer", "name: x\nrepeats:\n  a: [b]\n", "domain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Validate([]byte(tt.doc))
			if !HasErrors(errs) {
				t.Fatalf("expected errors for %q", tt.doc)
			}
			if errs[0].Phase != tt.phase {
				t.Errorf("phase = %q, want %q (%v)", errs[0].Phase, tt.phase, errs)
			}
		})
	}
}

func TestValidateAcceptsRepeats(t *testing.T) {
	s, errs := Validate([]byte("name: x\nanswers:\n  a: x\nrepeats:\n  a: [q, m]\n"))
	if HasErrors(errs) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(s.Repeats["a"]) != 2 || s.Repeats["a"][1].Label() != "m" {
		t.Errorf("repeats = %+v", s.Repeats)
	}
}

func TestValidateBlankExpectationIsWarning(t *testing.T) {
	_, errs := Validate([]byte("name: x\nexpect:\n  - \"\"\n"))
	if len(errs) != 1 || errs[0].Severity != "warning" {
		t.Fatalf("errs = %v, want one warning", errs)
	}
	if HasErrors(errs) {
		t.Error("warnings must not count as errors")
	}
}

func TestValidateFixtures(t *testing.T) {
	files, err := filepath.Glob("../../testdata/scenarios/*/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario fixtures found")
	}
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			if _, errs := ValidateFile(f); HasErrors(errs) {
				t.Errorf("%s: %v", f, errs)
			}
		})
	}
}

func TestValidateFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := os.Stat(path); err == nil {
		t.Fatal("temp path should not exist")
	}
	if _, errs := ValidateFile(path); !HasErrors(errs) {
		t.Error("expected error for missing file")
	}
}
