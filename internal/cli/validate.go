package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/signpost/internal/pack"
)

// ValidationResult is the validate command's payload.
type ValidationResult struct {
	Pack   string                 `json:"pack"`
	Valid  bool                   `json:"valid"`
	Errors []pack.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <pack-file>",
		Short: "Validate a content pack",
		Long: `Validate a content pack file against the structural rules of the
pack contract: required metadata, semantic version, unique ids, and
every rule triggering at least one action. All problems are reported,
not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	p, err := loadPack(formatter, path)
	if err != nil {
		return err
	}

	p.Normalize()
	errs := pack.Validate(p)
	if len(errs) > 0 {
		return reportValidationErrors(formatter, p.ID, errs)
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{Pack: p.ID, Valid: true})
	}
	fmt.Fprintf(formatter.Writer, "✓ Pack %q valid (%d rules, %d actions, %d services, %d questions)\n",
		p.ID, len(p.Rules), len(p.Actions), len(p.Services), len(p.Questions))
	return nil
}

// loadPack loads a pack file and converts load failures into command-level
// exit errors (exit code 2).
func loadPack(formatter *OutputFormatter, path string) (*pack.Pack, error) {
	formatter.VerboseLog("Loading pack from %s", path)

	p, err := pack.NewLoader().LoadFile(path)
	if err != nil {
		var le *pack.LoadError
		if errors.As(err, &le) {
			_ = formatter.Error(le.Code, le.Message, nil)
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", le.Code, le.Message), err)
		}
		_ = formatter.Error("E000", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load pack", err)
	}
	return p, nil
}

func reportValidationErrors(formatter *OutputFormatter, packID string, errs []pack.ValidationError) error {
	if formatter.JSON() {
		if err := formatter.EmitJSON(Response{
			Status: "error",
			Data:   ValidationResult{Pack: packID, Valid: false, Errors: errs},
			Error:  &ResponseError{Code: errs[0].Code, Message: errs[0].Message},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "✗ Pack %q invalid\n\n", packID)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", e.Code, e.Field, e.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
