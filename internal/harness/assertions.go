package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/signpost/internal/engine"
)

// CheckExpectations compares a result against a scenario's expectation.
// Returns one failure message per unmet assertion; empty means the
// scenario passed. Only declared members are asserted.
func CheckExpectations(scenario *Scenario, result *Result) []string {
	var failures []string

	if len(scenario.Expect.Rules) > 0 && !slices.Equal(scenario.Expect.Rules, result.MatchedRules) {
		failures = append(failures, fmt.Sprintf(
			"matched rules: expected %v, got %v", scenario.Expect.Rules, result.MatchedRules))
	}

	if len(scenario.Expect.Actions) > 0 && !slices.Equal(scenario.Expect.Actions, result.TriggeredActions) {
		failures = append(failures, fmt.Sprintf(
			"triggered actions: expected %v, got %v", scenario.Expect.Actions, result.TriggeredActions))
	}

	for _, id := range sortedKeys(scenario.Expect.Executions) {
		want := scenario.Expect.Executions[id]
		got, ok := findExecution(result, id)
		if !ok {
			failures = append(failures, fmt.Sprintf(
				"execution %s: expected status %q, action never executed", id, want))
			continue
		}
		if string(got.Status) != want {
			failures = append(failures, fmt.Sprintf(
				"execution %s: expected status %q, got %q", id, want, got.Status))
		}
	}

	return failures
}

func findExecution(result *Result, actionID string) (engine.ExecutionResult, bool) {
	for _, ex := range result.Executions {
		if ex.ActionID == actionID {
			return ex, true
		}
	}
	return engine.ExecutionResult{}, false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
