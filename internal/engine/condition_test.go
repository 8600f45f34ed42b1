package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// Test helper to build a state from attribute group maps.
func makeState(groups map[string]map[string]any) *session.State {
	st := &session.State{
		ID:        "test-session",
		Status:    session.StatusActive,
		User:      groups["user"],
		Situation: groups["situation"],
		Housing:   groups["housing"],
		Legal:     groups["legal"],
		Metadata:  groups["metadata"],
	}
	return st
}

func atomic(field string, op pack.Operator, value any) pack.ConditionRule {
	return pack.ConditionRule{Field: field, Operator: op, Value: value}
}

func TestEvaluateGroup_EmptyGroupIsFalse(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(nil)

	for _, typ := range []pack.GroupType{pack.GroupAll, pack.GroupAny, pack.GroupNone} {
		t.Run(string(typ), func(t *testing.T) {
			group := pack.ConditionGroup{Type: typ}
			assert.False(t, eval.EvaluateGroup(group, st), "empty group must never be vacuously true")
		})
	}
}

func TestEvaluateGroup_AllSemantics(t *testing.T) {
	eval := NewEvaluator()

	group := pack.ConditionGroup{
		Type: pack.GroupAll,
		Rules: []pack.ConditionRule{
			atomic("situation.a", pack.OpEquals, true),
			atomic("situation.b", pack.OpEquals, true),
		},
	}

	tests := []struct {
		name string
		a, b bool
		want bool
	}{
		{"both true", true, true, true},
		{"one false", true, false, false},
		{"both false", false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := makeState(map[string]map[string]any{
				"situation": {"a": tc.a, "b": tc.b},
			})
			assert.Equal(t, tc.want, eval.EvaluateGroup(group, st))
		})
	}
}

func TestEvaluateGroup_AnySemantics(t *testing.T) {
	eval := NewEvaluator()

	group := pack.ConditionGroup{
		Type: pack.GroupAny,
		Rules: []pack.ConditionRule{
			atomic("situation.a", pack.OpEquals, true),
			atomic("situation.b", pack.OpEquals, true),
		},
	}

	st := makeState(map[string]map[string]any{
		"situation": {"a": false, "b": true},
	})
	assert.True(t, eval.EvaluateGroup(group, st))

	st = makeState(map[string]map[string]any{
		"situation": {"a": false, "b": false},
	})
	assert.False(t, eval.EvaluateGroup(group, st))
}

func TestEvaluateGroup_NoneSemantics(t *testing.T) {
	eval := NewEvaluator()

	group := pack.ConditionGroup{
		Type: pack.GroupNone,
		Rules: []pack.ConditionRule{
			atomic("situation.a", pack.OpEquals, true),
			atomic("situation.b", pack.OpEquals, true),
		},
	}

	st := makeState(map[string]map[string]any{
		"situation": {"a": false, "b": false},
	})
	assert.True(t, eval.EvaluateGroup(group, st), "none with all members false is true")

	st = makeState(map[string]map[string]any{
		"situation": {"a": true, "b": false},
	})
	assert.False(t, eval.EvaluateGroup(group, st), "none with any member true is false")
}

func TestEvaluateGroup_NestedGroups(t *testing.T) {
	eval := NewEvaluator()

	// all[homelessTonight] AND any[hasChildren, isPregnant, age<18]
	group := pack.ConditionGroup{
		Type: pack.GroupAll,
		Rules: []pack.ConditionRule{
			atomic("situation.homelessTonight", pack.OpEquals, true),
		},
		Nested: []pack.ConditionGroup{
			{
				Type: pack.GroupAny,
				Rules: []pack.ConditionRule{
					atomic("user.hasChildren", pack.OpEquals, true),
					atomic("user.isPregnant", pack.OpEquals, true),
					atomic("user.age", pack.OpLessThan, 18),
				},
			},
		},
	}

	st := makeState(map[string]map[string]any{
		"situation": {"homelessTonight": true},
		"user":      {"hasChildren": true},
	})
	assert.True(t, eval.EvaluateGroup(group, st))

	st = makeState(map[string]map[string]any{
		"situation": {"homelessTonight": true},
		"user":      {"hasChildren": false, "age": 30},
	})
	assert.False(t, eval.EvaluateGroup(group, st), "nested any has no true member")
}

func TestEvaluateAtomic_MissingPathIsFalseNotPanic(t *testing.T) {
	eval := NewEvaluator()

	// situation group entirely absent
	st := makeState(map[string]map[string]any{
		"user": {"name": "sam"},
	})

	rule := atomic("situation.homelessTonight", pack.OpEquals, true)
	assert.False(t, eval.evaluateAtomic(rule, st))
}

func TestEvaluateAtomic_Equality(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"user": {"age": 17, "name": "sam", "score": 17.0},
	})

	tests := []struct {
		name string
		rule pack.ConditionRule
		want bool
	}{
		{"string equals", atomic("user.name", pack.OpEquals, "sam"), true},
		{"string not equal", atomic("user.name", pack.OpEquals, "alex"), false},
		{"int vs float64 equal", atomic("user.age", pack.OpEquals, float64(17)), true},
		{"float field vs int value", atomic("user.score", pack.OpEquals, 17), true},
		{"notEquals on differing value", atomic("user.name", pack.OpNotEquals, "alex"), true},
		{"notEquals on equal value", atomic("user.name", pack.OpNotEquals, "sam"), false},
		{"notEquals on absent field", atomic("user.missing", pack.OpNotEquals, "x"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval.evaluateAtomic(tc.rule, st))
		})
	}
}

func TestEvaluateAtomic_NumericComparisons(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"user": {"age": 17, "name": "sam"},
	})

	tests := []struct {
		name string
		rule pack.ConditionRule
		want bool
	}{
		{"lessThan true", atomic("user.age", pack.OpLessThan, 18), true},
		{"lessThan false", atomic("user.age", pack.OpLessThan, 17), false},
		{"greaterThan", atomic("user.age", pack.OpGreaterThan, 16), true},
		{"gte equal", atomic("user.age", pack.OpGreaterThanOrEqual, 17), true},
		{"lte equal", atomic("user.age", pack.OpLessThanOrEqual, 17), true},
		{"non-numeric field is false", atomic("user.name", pack.OpGreaterThan, 5), false},
		{"non-numeric value is false", atomic("user.age", pack.OpGreaterThan, "old"), false},
		{"absent field is false", atomic("user.height", pack.OpGreaterThan, 5), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval.evaluateAtomic(tc.rule, st))
		})
	}
}

func TestEvaluateAtomic_Contains(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"user": {
			"name":  "alexandra",
			"needs": []any{"shelter", "food"},
			"age":   30,
		},
	})

	tests := []struct {
		name string
		rule pack.ConditionRule
		want bool
	}{
		{"substring match", atomic("user.name", pack.OpContains, "xand"), true},
		{"substring miss", atomic("user.name", pack.OpContains, "zzz"), false},
		{"sequence member", atomic("user.needs", pack.OpContains, "food"), true},
		{"sequence non-member", atomic("user.needs", pack.OpContains, "money"), false},
		{"inapplicable type is false", atomic("user.age", pack.OpContains, "3"), false},
		{"notContains substring miss", atomic("user.name", pack.OpNotContains, "zzz"), true},
		{"notContains sequence member", atomic("user.needs", pack.OpNotContains, "food"), false},
		{"notContains inapplicable defaults true", atomic("user.age", pack.OpNotContains, "3"), true},
		{"notContains absent field", atomic("user.missing", pack.OpNotContains, "x"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval.evaluateAtomic(tc.rule, st))
		})
	}
}

func TestEvaluateAtomic_InNotIn(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"situation": {"region": "london"},
	})

	tests := []struct {
		name string
		rule pack.ConditionRule
		want bool
	}{
		{"in member", atomic("situation.region", pack.OpIn, []any{"london", "leeds"}), true},
		{"in non-member", atomic("situation.region", pack.OpIn, []any{"leeds"}), false},
		{"notIn non-member", atomic("situation.region", pack.OpNotIn, []any{"leeds"}), true},
		{"notIn member", atomic("situation.region", pack.OpNotIn, []any{"london"}), false},
		{"notIn absent field", atomic("situation.missing", pack.OpNotIn, []any{"x"}), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval.evaluateAtomic(tc.rule, st))
		})
	}
}

// Non-sequence rule value yields false for BOTH in and notIn. This pins the
// asymmetry: notIn is deliberately not the negation of in in this edge case.
func TestEvaluateAtomic_InNotIn_NonSequenceValueAsymmetry(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"situation": {"region": "london"},
	})

	in := atomic("situation.region", pack.OpIn, "london")
	notIn := atomic("situation.region", pack.OpNotIn, "london")

	assert.False(t, eval.evaluateAtomic(in, st))
	assert.False(t, eval.evaluateAtomic(notIn, st), "notIn must also be false, not the negation of in")
}

func TestEvaluateAtomic_Exists(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"user": {"name": "sam", "partner": nil},
	})

	tests := []struct {
		name string
		rule pack.ConditionRule
		want bool
	}{
		{"present field exists", atomic("user.name", pack.OpExists, nil), true},
		{"absent field exists", atomic("user.missing", pack.OpExists, nil), false},
		{"explicit null counts as present", atomic("user.partner", pack.OpExists, nil), true},
		{"absent field notExists", atomic("user.missing", pack.OpNotExists, nil), true},
		{"explicit null notExists", atomic("user.partner", pack.OpNotExists, nil), false},
		{"missing group notExists", atomic("legal.rightToReside", pack.OpNotExists, nil), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval.evaluateAtomic(tc.rule, st))
		})
	}
}

func TestEvaluateAtomic_UnknownOperatorFailsClosed(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"user": {"name": "sam"},
	})

	rule := atomic("user.name", pack.Operator("matchesRegex"), ".*")
	assert.False(t, eval.evaluateAtomic(rule, st), "unknown operator must fail closed, not panic")
}

func TestEvaluateGroup_UnknownGroupTypeFailsClosed(t *testing.T) {
	eval := NewEvaluator()
	st := makeState(map[string]map[string]any{
		"user": {"name": "sam"},
	})

	group := pack.ConditionGroup{
		Type:  pack.GroupType("xor"),
		Rules: []pack.ConditionRule{atomic("user.name", pack.OpExists, nil)},
	}
	assert.False(t, eval.EvaluateGroup(group, st))
}
