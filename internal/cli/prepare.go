package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/signpost/internal/engine"
)

// PrepareResult is the prepare command's payload.
type PrepareResult struct {
	Pack           string               `json:"pack"`
	Preparations   []engine.Preparation `json:"preparations"`
	MissingActions []string             `json:"missingActions,omitempty"`
}

// NewPrepareCommand creates the prepare command.
func NewPrepareCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		statePath string
		actionID  string
	)

	cmd := &cobra.Command{
		Use:   "prepare <pack-file>",
		Short: "Prepare the actions a session state triggers",
		Long: `Evaluate a pack against a session state, then prepare each triggered
action: check its required information and prerequisites against the
state and render its step-by-step guidance.

With --action, only the named action is prepared (it need not be
triggered by any rule).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(rootOpts, args[0], statePath, actionID, cmd)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "session state file (JSON path-to-value map)")
	cmd.Flags().StringVar(&actionID, "action", "", "prepare only this action id")

	return cmd
}

func runPrepare(opts *RootOptions, packPath, statePath, actionID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	repo, p, err := registerPack(formatter, packPath)
	if err != nil {
		return err
	}

	st, err := loadState(formatter, statePath)
	if err != nil {
		return err
	}

	result := PrepareResult{Pack: p.ID}
	exec := engine.NewExecutor()

	if actionID != "" {
		a, ok := repo.Action(p.ID, actionID)
		if !ok {
			_ = formatter.Error("E000", fmt.Sprintf("action %q not found in pack %q", actionID, p.ID), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("action %q not found", actionID))
		}
		result.Preparations = append(result.Preparations, exec.Prepare(a, st))
	} else {
		eval := engine.NewEvaluator()
		for _, id := range eval.TriggeredActions(repo.Rules(p.ID), st) {
			a, ok := repo.Action(p.ID, id)
			if !ok {
				result.MissingActions = append(result.MissingActions, id)
				continue
			}
			result.Preparations = append(result.Preparations, exec.Prepare(a, st))
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	if len(result.Preparations) == 0 && len(result.MissingActions) == 0 {
		fmt.Fprintln(formatter.Writer, "No actions to prepare.")
		return nil
	}

	for i, prep := range result.Preparations {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprint(formatter.Writer, engine.FormatActionSteps(prep.Action))
		if prep.CanExecute {
			fmt.Fprintln(formatter.Writer, "Ready to execute.")
		} else {
			fmt.Fprintln(formatter.Writer, "Missing:")
			for _, m := range prep.MissingInformation {
				fmt.Fprintf(formatter.Writer, "  - %s\n", m)
			}
		}
	}
	for _, id := range result.MissingActions {
		fmt.Fprintf(formatter.Writer, "! %s (not defined in pack)\n", id)
	}

	return nil
}
