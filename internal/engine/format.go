package engine

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/signpost/internal/pack"
)

var headingCaser = cases.Title(language.English)

// FormatActionSteps renders an action's steps as guidance text.
//
// Steps render sorted ascending by their declared order number - duplicate
// or out-of-order input still sorts correctly - with each step's required
// inputs interleaved beneath it, followed by the contact block and the
// estimated duration when present.
//
// Pure formatting: no side effects, no state access.
func FormatActionSteps(action pack.Action) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", headingCaser.String(action.Name))

	steps := make([]pack.Step, len(action.Steps))
	copy(steps, action.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Order < steps[j].Order
	})

	for _, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", step.Order, step.Instruction)
		for _, input := range step.Inputs {
			if input.Prompt != "" {
				fmt.Fprintf(&b, "   - %s (%s)\n", input.Prompt, input.Field)
			} else {
				fmt.Fprintf(&b, "   - %s\n", input.Field)
			}
		}
	}

	if c := action.Contact; c != nil {
		b.WriteString("Contact:\n")
		if c.Name != "" {
			fmt.Fprintf(&b, "  %s\n", c.Name)
		}
		if c.Phone != "" {
			fmt.Fprintf(&b, "  Phone: %s\n", c.Phone)
		}
		if c.Email != "" {
			fmt.Fprintf(&b, "  Email: %s\n", c.Email)
		}
		if c.Website != "" {
			fmt.Fprintf(&b, "  Web: %s\n", c.Website)
		}
		if c.Address != "" {
			fmt.Fprintf(&b, "  Address: %s\n", c.Address)
		}
	}

	if action.EstimatedDuration != "" {
		fmt.Fprintf(&b, "Estimated duration: %s\n", action.EstimatedDuration)
	}

	return b.String()
}
