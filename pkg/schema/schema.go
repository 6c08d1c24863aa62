// Package schema defines the scenario document: pre-recorded prompt answers,
// command results, and expectations used to replay and test a config script
// without a terminal. It provides strict YAML parsing, JSON Schema export,
// and schema validation.
package schema

import (
	"fmt"
	"io"
	"os"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Scenario is one replayable run of a script.
type Scenario struct {
	Name         string              `yaml:"name"                    json:"name"                    jsonschema:"description=Short identifier shown in test output"`
	Description  string              `yaml:"description,omitempty"   json:"description,omitempty"`
	Answers      map[string]Answer   `yaml:"answers,omitempty"       json:"answers,omitempty"       jsonschema:"description=Chosen label(s) keyed by block name"`
	Repeats      map[string][]Answer `yaml:"repeats,omitempty"       json:"repeats,omitempty"       jsonschema:"description=Answers for later prompts of a repeated block name in prompt order"`
	Commands     []Command           `yaml:"commands,omitempty"      json:"commands,omitempty"`
	Expect       []string            `yaml:"expect,omitempty"        json:"expect,omitempty"        jsonschema:"description=expr-lang boolean expressions checked after the run"`
	ExpectOutput []string            `yaml:"expect_output,omitempty" json:"expect_output,omitempty" jsonschema:"description=Exact print lines in order"`
	ExpectError  string              `yaml:"expect_error,omitempty"  json:"expect_error,omitempty"  jsonschema:"description=Substring of the fatal error the run must end with"`
}

// Command is the recorded result of one shell line.
type Command struct {
	Run      string `yaml:"run"                 json:"run"`
	ExitCode int    `yaml:"exit_code,omitempty" json:"exit_code,omitempty"`
}

// Answer is the recorded answer to one block: a single label for select and
// searchselect blocks, a list of labels for multiselect blocks.
type Answer struct {
	Values []string
	Multi  bool
}

// Single builds a single-label answer.
func Single(label string) Answer {
	return Answer{Values: []string{label}}
}

// Multi builds a multi-label answer.
func Multi(labels ...string) Answer {
	return Answer{Values: labels, Multi: true}
}

// Label returns the single label of the answer.
func (a Answer) Label() string {
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

// UnmarshalYAML accepts either a scalar or a sequence of scalars.
func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		a.Values = []string{node.Value}
		a.Multi = false
		return nil
	case yaml.SequenceNode:
		labels := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: answer list items must be labels", item.Line)
			}
			labels = append(labels, item.Value)
		}
		a.Values = labels
		a.Multi = true
		return nil
	}
	return fmt.Errorf("line %d: answer must be a label or a list of labels", node.Line)
}

// MarshalYAML writes a scalar for single answers and a list otherwise.
func (a Answer) MarshalYAML() (any, error) {
	if a.Multi {
		if a.Values == nil {
			return []string{}, nil
		}
		return a.Values, nil
	}
	return a.Label(), nil
}

// JSONSchema describes Answer as a scalar or an array of scalars. Unquoted
// YAML numbers and booleans are accepted since labels are read verbatim.
func (Answer) JSONSchema() *jsonschema.Schema {
	scalar := func() *jsonschema.Schema {
		return &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "number"},
				{Type: "boolean"},
			},
		}
	}
	s := scalar()
	s.OneOf = append(s.OneOf, &jsonschema.Schema{Type: "array", Items: scalar()})
	return s
}

// LoadFile reads and strictly decodes a scenario file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a scenario from r, rejecting unknown fields.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decode scenario: empty document")
		}
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &s, nil
}

// Marshal renders a scenario as YAML.
func Marshal(s *Scenario) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal scenario: %w", err)
	}
	return data, nil
}
