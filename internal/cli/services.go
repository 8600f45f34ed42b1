package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/signpost/internal/engine"
	"github.com/roach88/signpost/internal/pack"
)

// ServicesResult is the services command's payload.
type ServicesResult struct {
	Pack     string         `json:"pack"`
	Services []pack.Service `json:"services"`
}

// NewServicesCommand creates the services command.
func NewServicesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		statePath   string
		serviceType string
		petsOnly    bool
		alwaysOpen  bool
	)

	cmd := &cobra.Command{
		Use:   "services <pack-file>",
		Short: "Find services matching a session state",
		Long: `List a pack's services, filtered by the static finders (--type,
--pets, --always-open) and then by eligibility against the session
state: age range, gender restriction, and pet acceptance. Constraints
the state cannot answer do not exclude a service.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(rootOpts, args[0], statePath, serviceType, petsOnly, alwaysOpen, cmd)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "session state file (JSON path-to-value map)")
	cmd.Flags().StringVar(&serviceType, "type", "", "only services of this type")
	cmd.Flags().BoolVar(&petsOnly, "pets", false, "only services that explicitly accept pets")
	cmd.Flags().BoolVar(&alwaysOpen, "always-open", false, "only services available 24/7")

	return cmd
}

func runServices(opts *RootOptions, packPath, statePath, serviceType string, petsOnly, alwaysOpen bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	repo, p, err := registerPack(formatter, packPath)
	if err != nil {
		return err
	}

	st, err := loadState(formatter, statePath)
	if err != nil {
		return err
	}

	var candidates []pack.Service
	switch {
	case petsOnly:
		candidates = repo.FindPetFriendlyServices(p.ID)
	case alwaysOpen:
		candidates = repo.Find24x7Services(p.ID)
	case serviceType != "":
		candidates = repo.FindServicesByType(p.ID, serviceType)
	default:
		candidates = repo.Services(p.ID)
	}

	matched := engine.MatchServices(candidates, st)
	result := ServicesResult{Pack: p.ID, Services: matched}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	if len(matched) == 0 {
		fmt.Fprintln(formatter.Writer, "No matching services.")
		return nil
	}

	for _, svc := range matched {
		fmt.Fprintf(formatter.Writer, "%s - %s (%s)", svc.ID, svc.Name, svc.Type)
		if svc.Availability.Always {
			fmt.Fprint(formatter.Writer, " [24/7]")
		}
		fmt.Fprintln(formatter.Writer)
		if svc.Contact != nil && svc.Contact.Phone != "" {
			fmt.Fprintf(formatter.Writer, "  Phone: %s\n", svc.Contact.Phone)
		}
	}
	return nil
}
