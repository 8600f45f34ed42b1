package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one evaluation test case: facts in, expected rule
// matches and action outcomes out.
type Scenario struct {
	// Name uniquely identifies this scenario (also names the golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pack is the content-pack file to evaluate against, relative to the
	// scenario file location.
	Pack string `yaml:"pack"`

	// Facts seed the session state before evaluation: dot-delimited field
	// path to value.
	Facts map[string]any `yaml:"facts,omitempty"`

	// Completed lists action ids recorded as already completed, for
	// scenarios exercising prerequisites.
	Completed []string `yaml:"completed,omitempty"`

	// Expect declares the outcomes to assert on.
	Expect Expectation `yaml:"expect"`
}

// Expectation declares the expected evaluation outcome. Empty members are
// not asserted, but at least one must be present.
type Expectation struct {
	// Rules are the expected matched rule ids, in priority order.
	Rules []string `yaml:"rules,omitempty"`

	// Actions are the expected triggered action ids, in first-occurrence
	// order.
	Actions []string `yaml:"actions,omitempty"`

	// Executions maps action id to the expected execution status.
	Executions map[string]string `yaml:"executions,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The pack path is
// resolved relative to the scenario file. Returns an error if the file is
// malformed, contains unknown fields (typos), or is missing required
// fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject unknown fields (catches typos like "expects:")
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Pack != "" && !filepath.IsAbs(scenario.Pack) {
		scenario.Pack = filepath.Join(filepath.Dir(path), scenario.Pack)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Pack == "" {
		return fmt.Errorf("pack is required")
	}
	if _, err := os.Stat(s.Pack); os.IsNotExist(err) {
		return fmt.Errorf("pack file not found: %s", s.Pack)
	}

	if len(s.Expect.Rules) == 0 && len(s.Expect.Actions) == 0 && len(s.Expect.Executions) == 0 {
		return fmt.Errorf("expect must assert at least one of rules, actions, or executions")
	}

	valid := map[string]bool{"completed": true, "pending": true, "failed": true, "skipped": true}
	for id, status := range s.Expect.Executions {
		if !valid[status] {
			return fmt.Errorf("expect.executions[%s]: unknown status %q", id, status)
		}
	}

	return nil
}
