package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const colorScenario = `name: pick-red
description: chooses red and expects the matched branch
answers:
  color: red
  langs: [Go, 3]
commands:
  - run: go mod init example
    exit_code: 0
expect:
  - color == "red"
expect_output:
  - matched
`

func TestLoadScenario(t *testing.T) {
	s, err := Load(strings.NewReader(colorScenario))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "pick-red" {
		t.Errorf("name = %q", s.Name)
	}
	if got := s.Answers["color"]; got.Multi || got.Label() != "red" {
		t.Errorf("color answer = %+v", got)
	}
	langs := s.Answers["langs"]
	if !langs.Multi {
		t.Error("langs should be a multi answer")
	}
	if diff := cmp.Diff([]string{"Go", "3"}, langs.Values); diff != "" {
		t.Errorf("langs mismatch:\n%s", diff)
	}
	if len(s.Commands) != 1 || s.Commands[0].Run != "go mod init example" {
		t.Errorf("commands = %+v", s.Commands)
	}
}

// TestLoadRejectsUnknownFields verifies that strict mode rejects unknown YAML keys.
func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("name: x\nanswer:\n  a: b\n"))
	if err == nil {
		t.Fatal("expected error for unknown field 'answer'")
	}
}

func TestLoadRejectsNestedAnswer(t *testing.T) {
	_, err := Load(strings.NewReader("name: x\nanswers:\n  a:\n    b: c\n"))
	if err == nil {
		t.Fatal("expected error for mapping answer")
	}
}

func TestMarshalRoundTripShape(t *testing.T) {
	s := &Scenario{
		Name: "recorded",
		Answers: map[string]Answer{
			"color": Single("blue"),
			"langs": Multi("Go", "Rust"),
			"none":  Multi(),
		},
	}
	data, err := Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"color: blue", "- Go", "none: []"} {
		if !strings.Contains(out, want) {
			t.Errorf("marshalled scenario missing %q:\n%s", want, out)
		}
	}
	back, err := Load(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if !back.Answers["none"].Multi {
		t.Error("empty multi answer lost its kind")
	}
}

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if doc["$id"] != SchemaID {
		t.Errorf("$id = %v, want %s", doc["$id"], SchemaID)
	}
	if !strings.Contains(string(data), "expect_output") {
		t.Error("schema should describe expect_output")
	}
}
