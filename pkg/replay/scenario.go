package replay

import (
	"fmt"
	"strings"

	"github.com/antoKeinanen/novarum/pkg/schema"
)

// LoadScenario reads and validates a scenario file for replay.
func LoadScenario(path string) (*schema.Scenario, error) {
	s, errs := schema.ValidateFile(path)
	if schema.HasErrors(errs) {
		var msgs []string
		for _, e := range errs {
			if e.Severity != "warning" {
				msgs = append(msgs, e.Error())
			}
		}
		return nil, fmt.Errorf("invalid scenario %s: %s", path, strings.Join(msgs, "; "))
	}
	return s, nil
}
