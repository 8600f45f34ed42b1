package harness

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/signpost/internal/engine"
	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// Result captures the full evaluation trace for one scenario run.
type Result struct {
	Scenario         string                   `json:"scenario"`
	MatchedRules     []string                 `json:"matchedRules"`
	TriggeredActions []string                 `json:"triggeredActions"`
	MissingActions   []string                 `json:"missingActions,omitempty"`
	Executions       []engine.ExecutionResult `json:"executions,omitempty"`
}

// Run executes a scenario: load the pack, seed a session from the facts,
// evaluate the rule set, and execute the triggered actions.
//
// The session id is fixed and facts are applied in sorted path order, so a
// scenario always produces an identical trace - required for golden
// comparison.
func Run(scenario *Scenario) (*Result, error) {
	// Scenario logging stays quiet: expected warnings (unknown operators
	// under test) would otherwise leak into test output.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eval := engine.NewEvaluator(engine.WithLogger(logger))
	exec := engine.NewExecutor(engine.WithExecutorLogger(logger))

	loader := pack.NewLoader()
	p, err := loader.LoadFile(scenario.Pack)
	if err != nil {
		return nil, fmt.Errorf("loading pack: %w", err)
	}

	repo := pack.NewRepository()
	if err := repo.Load(p); err != nil {
		return nil, fmt.Errorf("registering pack: %w", err)
	}

	st := session.New(session.NewFixedGenerator("scenario-" + scenario.Name))

	paths := make([]string, 0, len(scenario.Facts))
	for path := range scenario.Facts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := st.Set(path, scenario.Facts[path]); err != nil {
			return nil, fmt.Errorf("seeding fact %q: %w", path, err)
		}
	}

	for _, id := range scenario.Completed {
		st.RecordCompleted(id, "setup")
	}

	matched := eval.EvaluateRules(repo.Rules(p.ID), st)
	matchedIDs := make([]string, len(matched))
	for i, r := range matched {
		matchedIDs[i] = r.ID
	}

	triggered := eval.TriggeredActions(repo.Rules(p.ID), st)

	var actions []pack.Action
	var missing []string
	for _, id := range triggered {
		a, ok := repo.Action(p.ID, id)
		if !ok {
			// Referenced but undefined in the pack: surfaced, not dropped.
			missing = append(missing, id)
			continue
		}
		actions = append(actions, a)
	}

	return &Result{
		Scenario:         scenario.Name,
		MatchedRules:     matchedIDs,
		TriggeredActions: triggered,
		MissingActions:   missing,
		Executions:       exec.ExecuteAll(actions, st),
	}, nil
}
