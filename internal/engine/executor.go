package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// ExecutionStatus is the outcome of executing one action.
type ExecutionStatus string

const (
	StatusCompleted ExecutionStatus = "completed"
	StatusPending   ExecutionStatus = "pending"
	StatusFailed    ExecutionStatus = "failed"
	StatusSkipped   ExecutionStatus = "skipped"
)

// Preparation reports whether an action's information requirements and
// prerequisites are satisfied by the current session state.
type Preparation struct {
	Action             pack.Action `json:"action"`
	MissingInformation []string    `json:"missingInformation,omitempty"`
	CanExecute         bool        `json:"canExecute"`
}

// ExecutionResult is the outcome of one executeAction call.
type ExecutionResult struct {
	ActionID string          `json:"actionId"`
	Status   ExecutionStatus `json:"status"`
	Message  string          `json:"message,omitempty"`
}

// Executor prepares and executes action templates against a session state.
// Like the Evaluator it is pure over its inputs: the state is read, never
// written; recording outcomes is the caller's job.
type Executor struct {
	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorLogger replaces the default slog logger.
func WithExecutorLogger(l *slog.Logger) ExecutorOption {
	return func(x *Executor) {
		x.logger = l
	}
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	x := &Executor{logger: slog.Default()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// requiredInfoKeyword pairs a tag keyword with the predicate that decides
// whether the session state satisfies it. Matching is a substring check on
// the lowercased tag, in this fixed order, first match wins.
//
// This keyword table is a heuristic stand-in for a declarative per-action
// requirements schema; unrecognized tags are treated as satisfied so a new
// tag never blocks an action outright.
type requiredInfoKeyword struct {
	keyword   string
	satisfied func(st *session.State) bool
}

var requiredInfoKeywords = []requiredInfoKeyword{
	{"location", func(st *session.State) bool {
		return hasAny(st, "user.location", "situation.location", "housing.location")
	}},
	{"age", func(st *session.State) bool {
		return hasAny(st, "user.age")
	}},
	{"children", func(st *session.State) bool {
		return hasAny(st, "user.hasChildren")
	}},
	{"name", func(st *session.State) bool {
		return hasAny(st, "user.name")
	}},
	{"contact", func(st *session.State) bool {
		return hasAny(st, "user.phone", "user.email")
	}},
}

func hasAny(st *session.State, paths ...string) bool {
	for _, p := range paths {
		if _, found := st.Resolve(p); found {
			return true
		}
	}
	return false
}

// Prepare checks an action's required-information tags and prerequisite
// actions against the state. CanExecute is true iff nothing is missing.
//
// Prerequisites are satisfied by an entry in the state's completed-action
// history; unmet ones are reported as "prerequisite: <id>" alongside the
// unmet information tags.
func (x *Executor) Prepare(action pack.Action, st *session.State) Preparation {
	var missing []string

	for _, tag := range action.RequiredInformation {
		if !tagSatisfied(tag, st) {
			missing = append(missing, tag)
		}
	}

	for _, prereq := range action.Prerequisites {
		if !st.HasCompletedAction(prereq) {
			missing = append(missing, "prerequisite: "+prereq)
		}
	}

	return Preparation{
		Action:             action,
		MissingInformation: missing,
		CanExecute:         len(missing) == 0,
	}
}

func tagSatisfied(tag string, st *session.State) bool {
	lower := strings.ToLower(tag)
	for _, k := range requiredInfoKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.satisfied(st)
		}
	}
	// Unrecognized tag: satisfied by default (permissive).
	return true
}

// Execute resolves one action to an execution result:
//
//   - missing information or prerequisites: pending, message lists them
//   - critical or high urgency: pending - urgent actions always require a
//     human or external step and are never auto-completed
//   - otherwise: completed
//
// Auto-completing low/medium urgency actions is a placeholder policy until
// real downstream integrations exist.
func (x *Executor) Execute(action pack.Action, st *session.State) ExecutionResult {
	prep := x.Prepare(action, st)

	if !prep.CanExecute {
		return ExecutionResult{
			ActionID: action.ID,
			Status:   StatusPending,
			Message:  fmt.Sprintf("missing: %s", strings.Join(prep.MissingInformation, ", ")),
		}
	}

	if action.Urgency == pack.UrgencyCritical || action.Urgency == pack.UrgencyHigh {
		return ExecutionResult{
			ActionID: action.ID,
			Status:   StatusPending,
			Message:  "requires external follow-up",
		}
	}

	return ExecutionResult{
		ActionID: action.ID,
		Status:   StatusCompleted,
	}
}

// urgencyRank orders urgencies for execution: critical first, low last.
// Unknown urgencies rank as medium.
func urgencyRank(u pack.Urgency) int {
	switch u {
	case pack.UrgencyCritical:
		return 0
	case pack.UrgencyHigh:
		return 1
	case pack.UrgencyLow:
		return 3
	default:
		return 2
	}
}

// ExecuteAll executes a batch of actions ordered by urgency (critical,
// high, medium, low). The sort is stable: actions tied on urgency keep
// their relative input order. Results follow the execution order.
func (x *Executor) ExecuteAll(actions []pack.Action, st *session.State) []ExecutionResult {
	ordered := make([]pack.Action, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return urgencyRank(ordered[i].Urgency) < urgencyRank(ordered[j].Urgency)
	})

	results := make([]ExecutionResult, 0, len(ordered))
	for _, a := range ordered {
		results = append(results, x.Execute(a, st))
	}
	return results
}
