package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/signpost/internal/harness"
)

// ScenarioOutcome is one scenario's result in the test payload.
type ScenarioOutcome struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
}

// TestResult is the test command's payload.
type TestResult struct {
	Scenarios []ScenarioOutcome `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test <scenario-file>...",
		Short: "Run evaluation scenarios",
		Long: `Run one or more YAML evaluation scenarios: each scenario seeds a
session from its facts, evaluates its pack, and asserts the expected
rule matches, triggered actions, and execution outcomes.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(rootOpts, args, cmd)
		},
	}
}

func runTest(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var result TestResult
	for _, path := range paths {
		formatter.VerboseLog("Running scenario %s", path)

		scenario, err := harness.LoadScenario(path)
		if err != nil {
			_ = formatter.Error("E000", fmt.Sprintf("failed to load scenario %s: %v", path, err), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load scenario %s", path), err)
		}

		run, err := harness.Run(scenario)
		if err != nil {
			_ = formatter.Error("E000", fmt.Sprintf("scenario %s failed to run: %v", scenario.Name, err), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s failed to run", scenario.Name), err)
		}

		failures := harness.CheckExpectations(scenario, run)
		outcome := ScenarioOutcome{
			Name:     scenario.Name,
			Passed:   len(failures) == 0,
			Failures: failures,
		}
		result.Scenarios = append(result.Scenarios, outcome)
		if outcome.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if formatter.JSON() {
		if result.Failed > 0 {
			if err := formatter.EmitJSON(Response{
				Status: "error",
				Data:   result,
				Error: &ResponseError{
					Code:    "E000",
					Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
				},
			}); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
		}
		return formatter.Success(result)
	}

	for _, s := range result.Scenarios {
		if s.Passed {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", s.Name)
		for _, f := range s.Failures {
			fmt.Fprintf(formatter.Writer, "    %s\n", f)
		}
	}
	fmt.Fprintf(formatter.Writer, "\n%d passed, %d failed\n", result.Passed, result.Failed)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
