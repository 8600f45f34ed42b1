package engine

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// Evaluator evaluates condition trees and rule sets against a session-state
// snapshot. Construct one explicitly and pass it where needed; there is no
// shared process-wide instance.
type Evaluator struct {
	logger *slog.Logger
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateGroup evaluates a condition group against a state snapshot.
//
// Atomic rules and nested sub-groups are resolved to one boolean list, then
// combined per the group type:
//
//	all:  non-empty list, every entry true
//	any:  non-empty list, at least one entry true
//	none: non-empty list, every entry false
//
// A group with no rules and no nested groups evaluates false for every
// type. A group must assert something to pass; the empty group is never
// vacuously true.
func (e *Evaluator) EvaluateGroup(group pack.ConditionGroup, st *session.State) bool {
	results := make([]bool, 0, len(group.Rules)+len(group.Nested))
	for _, rule := range group.Rules {
		results = append(results, e.evaluateAtomic(rule, st))
	}
	for _, nested := range group.Nested {
		results = append(results, e.EvaluateGroup(nested, st))
	}

	if len(results) == 0 {
		return false
	}

	switch group.Type {
	case pack.GroupAll:
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	case pack.GroupAny:
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	case pack.GroupNone:
		for _, r := range results {
			if r {
				return false
			}
		}
		return true
	default:
		e.logger.Warn("unknown condition group type, failing closed",
			slog.String("type", string(group.Type)))
		return false
	}
}

// evaluateAtomic resolves one comparison against the state.
//
// The field path resolves to an "absent" sentinel (found=false) when any
// segment is missing; absent is distinct from an explicitly stored nil.
// Type-mismatched comparisons evaluate false rather than erroring, and an
// unknown operator fails closed with a logged warning so one malformed rule
// never aborts the rest of the rule set.
func (e *Evaluator) evaluateAtomic(rule pack.ConditionRule, st *session.State) bool {
	value, found := st.Resolve(rule.Field)

	switch rule.Operator {
	case pack.OpEquals:
		return found && valuesEqual(value, rule.Value)
	case pack.OpNotEquals:
		return !found || !valuesEqual(value, rule.Value)

	case pack.OpGreaterThan:
		return compareNumeric(value, rule.Value, found, func(a, b float64) bool { return a > b })
	case pack.OpLessThan:
		return compareNumeric(value, rule.Value, found, func(a, b float64) bool { return a < b })
	case pack.OpGreaterThanOrEqual:
		return compareNumeric(value, rule.Value, found, func(a, b float64) bool { return a >= b })
	case pack.OpLessThanOrEqual:
		return compareNumeric(value, rule.Value, found, func(a, b float64) bool { return a <= b })

	case pack.OpContains:
		return found && containsValue(value, rule.Value)
	case pack.OpNotContains:
		// Mirrors "not found" semantics: an absent or inapplicable field
		// does not contain anything, so notContains holds.
		return !found || !containsValue(value, rule.Value)

	case pack.OpIn:
		return found && memberOf(rule.Value, value)
	case pack.OpNotIn:
		// A non-sequence rule value yields false for BOTH in and notIn, so
		// notIn is not the negation of in for that edge case. This matches
		// the observed source behavior and is pinned by tests.
		seq, ok := asSequence(rule.Value)
		if !ok {
			return false
		}
		return !found || !sequenceContains(seq, value)

	case pack.OpExists:
		// An explicitly stored null counts as present.
		return found
	case pack.OpNotExists:
		return !found

	default:
		e.logger.Warn("unknown condition operator, failing closed",
			slog.String("code", ErrCodeUnknownOperator),
			slog.String("operator", string(rule.Operator)),
			slog.String("field", rule.Field))
		return false
	}
}

// valuesEqual is strict value equality with numeric normalization: JSON
// decoding yields float64 while hand-built states may hold int, so numbers
// compare by value across Go types.
func valuesEqual(a, b any) bool {
	af, aok := asNumber(a)
	bf, bok := asNumber(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// compareNumeric applies an ordering comparison. Both sides must be
// numeric; anything else evaluates false, not an error.
func compareNumeric(value, ruleValue any, found bool, cmp func(a, b float64) bool) bool {
	if !found {
		return false
	}
	a, aok := asNumber(value)
	b, bok := asNumber(ruleValue)
	if !aok || !bok {
		return false
	}
	return cmp(a, b)
}

// asNumber converts the numeric types that reach the evaluator (JSON
// decoding, YAML decoding, hand-built states) to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// containsValue implements the contains operator: substring check when both
// sides are strings, element membership when the field value is a sequence,
// false otherwise.
func containsValue(fieldValue, ruleValue any) bool {
	if s, ok := fieldValue.(string); ok {
		sub, ok := ruleValue.(string)
		return ok && strings.Contains(s, sub)
	}
	if seq, ok := asSequence(fieldValue); ok {
		return sequenceContains(seq, ruleValue)
	}
	return false
}

// memberOf implements the in operator: the rule value must be a sequence
// containing the field value. A non-sequence rule value is false.
func memberOf(ruleValue, fieldValue any) bool {
	seq, ok := asSequence(ruleValue)
	if !ok {
		return false
	}
	return sequenceContains(seq, fieldValue)
}

// asSequence normalizes the slice shapes that reach the evaluator.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}

func sequenceContains(seq []any, v any) bool {
	for _, elem := range seq {
		if valuesEqual(elem, v) {
			return true
		}
	}
	return false
}
