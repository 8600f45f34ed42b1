package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/signpost/internal/engine"
)

// MatchedRule is one matched rule in the evaluate payload.
type MatchedRule struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Priority   int      `json:"priority"`
	LegalBasis string   `json:"legalBasis,omitempty"`
	Actions    []string `json:"actions"`
}

// EvaluateResult is the evaluate command's payload.
type EvaluateResult struct {
	Pack             string        `json:"pack"`
	MatchedRules     []MatchedRule `json:"matchedRules"`
	TriggeredActions []string      `json:"triggeredActions"`
	MissingActions   []string      `json:"missingActions,omitempty"`
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "evaluate <pack-file>",
		Short: "Evaluate a pack's rules against a session state",
		Long: `Evaluate every rule in a content pack against a session state and
report the rules that match, ordered by descending priority, together
with the deduplicated actions they trigger.

The state file is a JSON object mapping dot-delimited field paths to
values, for example {"situation.homelessTonight": true}.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(rootOpts, args[0], statePath, cmd)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "session state file (JSON path-to-value map)")

	return cmd
}

func runEvaluate(opts *RootOptions, packPath, statePath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	repo, p, err := registerPack(formatter, packPath)
	if err != nil {
		return err
	}

	st, err := loadState(formatter, statePath)
	if err != nil {
		return err
	}

	eval := engine.NewEvaluator()
	rules := repo.Rules(p.ID)
	matched := eval.EvaluateRules(rules, st)
	triggered := eval.TriggeredActions(rules, st)

	result := EvaluateResult{
		Pack:             p.ID,
		MatchedRules:     make([]MatchedRule, 0, len(matched)),
		TriggeredActions: triggered,
	}
	for _, r := range matched {
		result.MatchedRules = append(result.MatchedRules, MatchedRule{
			ID:         r.ID,
			Name:       r.Name,
			Priority:   r.Priority,
			LegalBasis: r.LegalBasis,
			Actions:    r.Actions,
		})
	}
	for _, id := range triggered {
		if _, ok := repo.Action(p.ID, id); !ok {
			result.MissingActions = append(result.MissingActions, id)
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	if len(matched) == 0 {
		fmt.Fprintln(formatter.Writer, "No rules matched.")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%d rule(s) matched:\n", len(matched))
	for _, r := range result.MatchedRules {
		fmt.Fprintf(formatter.Writer, "  [%d] %s - %s", r.Priority, r.ID, r.Name)
		if r.LegalBasis != "" {
			fmt.Fprintf(formatter.Writer, " (%s)", r.LegalBasis)
		}
		fmt.Fprintln(formatter.Writer)
	}

	fmt.Fprintf(formatter.Writer, "\nTriggered actions:\n")
	for _, id := range triggered {
		fmt.Fprintf(formatter.Writer, "  %s\n", id)
	}
	for _, id := range result.MissingActions {
		fmt.Fprintf(formatter.Writer, "  ! %s (not defined in pack)\n", id)
	}

	return nil
}
