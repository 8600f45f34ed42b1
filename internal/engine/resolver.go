package engine

import (
	"log/slog"
	"sort"

	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// EvaluateRules returns the rules whose condition tree evaluates true,
// ordered descending by priority. The sort is stable: rules tied on
// priority keep their relative input order.
//
// This is a pure query over the rule set and the state snapshot. Neither is
// mutated, and re-evaluating identical inputs yields identical output.
func (e *Evaluator) EvaluateRules(rules []pack.Rule, st *session.State) []pack.Rule {
	// Copy before sorting so the caller's slice order is untouched.
	ordered := make([]pack.Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	matched := make([]pack.Rule, 0, len(ordered))
	for _, rule := range ordered {
		if e.evaluateRuleSafe(rule, st) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// TriggeredActions aggregates the action ids of every matched rule into a
// deduplicated list, in stable first-occurrence order following the
// priority ordering of EvaluateRules.
func (e *Evaluator) TriggeredActions(rules []pack.Rule, st *session.State) []string {
	seen := make(map[string]bool)
	var actions []string
	for _, rule := range e.EvaluateRules(rules, st) {
		for _, id := range rule.Actions {
			if !seen[id] {
				seen[id] = true
				actions = append(actions, id)
			}
		}
	}
	return actions
}

// evaluateRuleSafe evaluates one rule's condition tree with panic isolation
// at the rule boundary: a fault inside this rule resolves it to "not
// matched" and is logged, never propagated.
func (e *Evaluator) evaluateRuleSafe(rule pack.Rule, st *session.State) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			ee := &EvalError{
				Code:    ErrCodeRulePanic,
				RuleID:  rule.ID,
				Message: "recovered panic during rule evaluation",
			}
			e.logger.Warn("rule evaluation failed, treating as non-matching",
				slog.String("rule", rule.ID),
				slog.String("code", ee.Code),
				slog.Any("panic", r))
			matched = false
		}
	}()
	return e.EvaluateGroup(rule.Conditions, st)
}
