package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/signpost/internal/engine"
	"github.com/roach88/signpost/internal/pack"
)

// AskResult is the ask command's payload: either the question to present,
// or the routing target after an answer.
type AskResult struct {
	Pack     string         `json:"pack"`
	Question *pack.Question `json:"question,omitempty"`
	Target   *engine.Target `json:"target,omitempty"`
}

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		statePath  string
		questionID string
		answer     string
	)

	cmd := &cobra.Command{
		Use:   "ask <pack-file>",
		Short: "Navigate a pack's guided question flow",
		Long: `Resolve the next step of a pack's guided question flow against a
session state.

Without --question, prints the entry question: the pack's declared
entry when visible, otherwise the visible question with the highest
priority. With --question and --answer, routes the answer and prints
the follow-on target (next question, action, or end of flow).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(rootOpts, args[0], statePath, questionID, answer, cmd)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "session state file (JSON path-to-value map)")
	cmd.Flags().StringVar(&questionID, "question", "", "question id being answered")
	cmd.Flags().StringVar(&answer, "answer", "", "answer value (matched against option values as a string)")

	return cmd
}

func runAsk(opts *RootOptions, packPath, statePath, questionID, answer string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	repo, p, err := registerPack(formatter, packPath)
	if err != nil {
		return err
	}
	registered, _ := repo.Get(p.ID)

	st, err := loadState(formatter, statePath)
	if err != nil {
		return err
	}

	nav := engine.NewNavigator(engine.NewEvaluator())
	result := AskResult{Pack: p.ID}

	if questionID == "" {
		q, ok := nav.Entry(registered, st)
		if !ok {
			if formatter.JSON() {
				return formatter.Success(result)
			}
			fmt.Fprintln(formatter.Writer, "No visible questions.")
			return nil
		}
		result.Question = &q

		if formatter.JSON() {
			return formatter.Success(result)
		}
		printQuestion(formatter, q)
		return nil
	}

	q, ok := findPackQuestion(registered, questionID)
	if !ok {
		_ = formatter.Error("E000", fmt.Sprintf("question %q not found in pack %q", questionID, p.ID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("question %q not found", questionID))
	}

	if err := nav.Apply(q, answer, st); err != nil {
		_ = formatter.Error("E000", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to apply answer", err)
	}

	target := nav.Next(q, answer, st)
	result.Target = &target

	if formatter.JSON() {
		return formatter.Success(result)
	}

	switch {
	case target.QuestionID != "":
		if next, ok := findPackQuestion(registered, target.QuestionID); ok {
			printQuestion(formatter, next)
		} else {
			fmt.Fprintf(formatter.Writer, "Next question: %s\n", target.QuestionID)
		}
	case target.ActionID != "":
		fmt.Fprintf(formatter.Writer, "Action: %s\n", target.ActionID)
	default:
		fmt.Fprintln(formatter.Writer, "End of flow.")
	}
	return nil
}

func printQuestion(formatter *OutputFormatter, q pack.Question) {
	fmt.Fprintf(formatter.Writer, "[%s] %s\n", q.ID, q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(formatter.Writer, "  %v - %s\n", opt.Value, opt.Label)
	}
}

func findPackQuestion(p *pack.Pack, id string) (pack.Question, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return pack.Question{}, false
}
