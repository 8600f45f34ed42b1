package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a scenario and compares the full trace against the
// golden file testdata/golden/<scenario.Name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
//
// Run already pins the session id and fact ordering, so the trace bytes
// are stable across runs.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result against the golden file
// named after the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	trace, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	trace = append(trace, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, trace)

	return nil
}
