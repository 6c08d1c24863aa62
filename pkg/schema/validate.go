package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation problem with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-pointer-like location, e.g. "answers/color"
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Phase, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// HasErrors reports whether any problem has error severity.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity != "warning" {
			return true
		}
	}
	return false
}

// ValidateFile runs the full pipeline on a scenario file.
func ValidateFile(path string) (*Scenario, []*ValidationError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []*ValidationError{structural(fmt.Sprintf("read scenario: %v", err))}
	}
	return Validate(data)
}

// Validate runs three phases over raw scenario bytes.
// Phase 1: Structural (generic YAML decode)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (strict decode plus custom rules)
func Validate(data []byte) (*Scenario, []*ValidationError) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, []*ValidationError{structural(err.Error())}
	}
	if raw == nil {
		return nil, []*ValidationError{structural("empty document")}
	}

	if errs := validateSemantic(raw); len(errs) > 0 {
		return nil, errs
	}

	s, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, []*ValidationError{structural(err.Error())}
	}
	if errs := validateDomain(s); len(errs) > 0 {
		return s, errs
	}
	return s, nil
}

func structural(msg string) *ValidationError {
	return &ValidationError{Phase: "structural", Message: msg, Severity: "error"}
}

var (
	compiledOnce   sync.Once
	compiledSchema *sjsonschema.Schema
	compileErr     error
)

func compiled() (*sjsonschema.Schema, error) {
	compiledOnce.Do(func() {
		schemaJSON, err := GenerateJSONSchema()
		if err != nil {
			compileErr = fmt.Errorf("generate schema: %w", err)
			return
		}
		doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal schema: %w", err)
			return
		}
		c := sjsonschema.NewCompiler()
		if err := c.AddResource("scenario-v0.json", doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("scenario-v0.json")
	})
	return compiledSchema, compileErr
}

// validateSemantic validates the decoded YAML tree against the JSON Schema.
func validateSemantic(raw any) []*ValidationError {
	semantic := func(path, msg string) []*ValidationError {
		return []*ValidationError{{Phase: "semantic", Path: path, Message: msg, Severity: "error"}}
	}

	sch, err := compiled()
	if err != nil {
		return semantic("", err.Error())
	}

	// Round-trip through JSON so the validator only sees JSON value types.
	data, err := json.Marshal(raw)
	if err != nil {
		return semantic("", fmt.Sprintf("document is not JSON-compatible: %v", err))
	}
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return semantic("", fmt.Sprintf("unmarshal document: %v", err))
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *sjsonschema.ValidationError
	if !errors.As(err, &ve) {
		return semantic("", err.Error())
	}
	var errs []*ValidationError
	for _, cause := range flattenValidationErrors(ve) {
		errs = append(errs, &ValidationError{
			Phase:    "semantic",
			Path:     strings.Join(cause.InstanceLocation, "/"),
			Message:  fmt.Sprintf("%v", cause.ErrorKind),
			Severity: "error",
		})
	}
	return errs
}

// flattenValidationErrors returns the leaf causes of a validation error tree.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var leaves []*sjsonschema.ValidationError
	for _, c := range ve.Causes {
		leaves = append(leaves, flattenValidationErrors(c)...)
	}
	return leaves
}

// validateDomain applies rules the schema cannot express.
func validateDomain(s *Scenario) []*ValidationError {
	var errs []*ValidationError
	add := func(path, msg, severity string) {
		errs = append(errs, &ValidationError{Phase: "domain", Path: path, Message: msg, Severity: severity})
	}

	if strings.TrimSpace(s.Name) == "" {
		add("name", "scenario name must not be empty", "error")
	}
	for name, a := range s.Answers {
		if strings.TrimSpace(name) == "" {
			add("answers", "answer key must be a block name", "error")
		}
		if !a.Multi && len(a.Values) != 1 {
			add("answers/"+name, "single answer must have exactly one label", "error")
		}
	}
	for name, list := range s.Repeats {
		if _, ok := s.Answers[name]; !ok {
			add("repeats/"+name, "repeated block has no first answer under answers", "error")
		}
		for i, a := range list {
			if !a.Multi && len(a.Values) != 1 {
				add(fmt.Sprintf("repeats/%s/%d", name, i), "single answer must have exactly one label", "error")
			}
		}
	}
	for i, c := range s.Commands {
		if strings.TrimSpace(c.Run) == "" {
			add(fmt.Sprintf("commands/%d/run", i), "command line must not be empty", "error")
		}
	}
	for i, e := range s.Expect {
		if strings.TrimSpace(e) == "" {
			add(fmt.Sprintf("expect/%d", i), "empty expectation is ignored", "warning")
		}
	}
	return errs
}
