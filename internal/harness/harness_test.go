package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/signpost/internal/engine"
)

func loadTestScenario(t *testing.T) *Scenario {
	t.Helper()
	s, err := LoadScenario("testdata/scenarios/interim-accommodation.yaml")
	require.NoError(t, err)
	return s
}

func TestRun_InterimAccommodation(t *testing.T) {
	scenario := loadTestScenario(t)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, "interim-accommodation", result.Scenario)
	assert.Equal(t, []string{"r-interim", "r-pets", "r-referral"}, result.MatchedRules)
	assert.Equal(t,
		[]string{"emergency-housing-application", "find-pet-friendly-shelter", "ghost-action"},
		result.TriggeredActions)
	assert.Equal(t, []string{"ghost-action"}, result.MissingActions)

	require.Len(t, result.Executions, 2)
	assert.Equal(t, "emergency-housing-application", result.Executions[0].ActionID)
	assert.Equal(t, engine.StatusPending, result.Executions[0].Status)
	assert.Equal(t, "missing: location", result.Executions[0].Message)
	assert.Equal(t, "find-pet-friendly-shelter", result.Executions[1].ActionID)
	assert.Equal(t, engine.StatusPending, result.Executions[1].Status)
}

func TestRun_IsDeterministic(t *testing.T) {
	scenario := loadTestScenario(t)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCheckExpectations_Pass(t *testing.T) {
	scenario := loadTestScenario(t)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Empty(t, CheckExpectations(scenario, result))
}

func TestCheckExpectations_Failures(t *testing.T) {
	scenario := loadTestScenario(t)

	result, err := Run(scenario)
	require.NoError(t, err)

	scenario.Expect.Rules = []string{"r-pets", "r-interim", "r-referral"} // wrong order
	scenario.Expect.Executions = map[string]string{
		"emergency-housing-application": "completed", // actually pending
		"never-ran":                     "completed", // not executed at all
	}

	failures := CheckExpectations(scenario, result)
	require.Len(t, failures, 3)
	assert.Contains(t, failures[0], "matched rules")
	assert.Contains(t, failures[1], `expected status "completed", got "pending"`)
	assert.Contains(t, failures[2], "action never executed")
}
