package engine

import (
	"fmt"
	"sort"

	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// Target is where the question flow goes after an answer: the next question,
// a direct action, or the end of the flow. Zero value means "no route
// matched"; callers usually treat that as end-of-flow too.
type Target struct {
	QuestionID string `json:"questionId,omitempty"`
	ActionID   string `json:"actionId,omitempty"`
	End        bool   `json:"end,omitempty"`
}

// Navigator walks a pack's guided question flow. Guard conditions and
// transition conditions are resolved through the shared condition
// evaluator, so visibility and routing follow the same semantics (and the
// same fault isolation) as rule matching.
type Navigator struct {
	eval *Evaluator
}

// NewNavigator creates a Navigator using the given evaluator.
func NewNavigator(eval *Evaluator) *Navigator {
	return &Navigator{eval: eval}
}

// Entry resolves the first question to ask. The pack's declared entry
// question wins when set and visible; otherwise the visible question with
// the highest priority (ties by declaration order).
func (n *Navigator) Entry(p *pack.Pack, st *session.State) (pack.Question, bool) {
	if p.EntryQuestion != "" {
		if q, ok := findQuestion(p, p.EntryQuestion); ok && n.Visible(q, st) {
			return q, true
		}
	}

	candidates := make([]pack.Question, 0, len(p.Questions))
	for _, q := range p.Questions {
		if n.Visible(q, st) {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return pack.Question{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates[0], true
}

// Visible reports whether a question's show-if guard passes. A question
// with no guard is always visible.
func (n *Navigator) Visible(q pack.Question, st *session.State) bool {
	if q.ShowIf == nil {
		return true
	}
	return n.eval.EvaluateGroup(*q.ShowIf, st)
}

// Apply writes an answer into the session state at the question's
// state-mapping path. A question with no mapping accepts any answer and
// stores nothing.
func (n *Navigator) Apply(q pack.Question, answer any, st *session.State) error {
	if q.StateMapping == "" {
		return nil
	}
	if err := st.Set(q.StateMapping, answer); err != nil {
		return fmt.Errorf("applying answer for question %q: %w", q.ID, err)
	}
	return nil
}

// Next resolves the follow-on target after a question is answered.
//
// Resolution order:
//  1. the chosen option's per-option route, when the answer matches an
//     option that declares one
//  2. the first transition whose condition passes (a nil condition always
//     passes), in declaration order
//  3. end of flow
func (n *Navigator) Next(q pack.Question, answer any, st *session.State) Target {
	for _, opt := range q.Options {
		if opt.Next != "" && valuesEqual(opt.Value, answer) {
			return Target{QuestionID: opt.Next}
		}
	}

	for _, tr := range q.Transitions {
		if tr.When != nil && !n.eval.EvaluateGroup(*tr.When, st) {
			continue
		}
		switch {
		case tr.Next != "":
			return Target{QuestionID: tr.Next}
		case tr.Action != "":
			return Target{ActionID: tr.Action}
		case tr.End:
			return Target{End: true}
		}
	}

	return Target{End: true}
}

func findQuestion(p *pack.Pack, id string) (pack.Question, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return pack.Question{}, false
}
