package session

import (
	"fmt"
	"strings"
	"time"
)

// Status tracks the lifecycle of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
	StatusEscalated Status = "escalated"
)

// Attribute group names. The first segment of every field path must be one
// of these.
const (
	GroupUser      = "user"
	GroupSituation = "situation"
	GroupHousing   = "housing"
	GroupLegal     = "legal"
	GroupMetadata  = "metadata"
)

// TriggeredRule records one rule match during an evaluation cycle.
type TriggeredRule struct {
	RuleID      string    `json:"ruleId"`
	TriggeredAt time.Time `json:"triggeredAt"`
	Result      bool      `json:"result"`
}

// CompletedAction records the outcome of one executed action.
type CompletedAction struct {
	ActionID    string    `json:"actionId"`
	CompletedAt time.Time `json:"completedAt"`
	Outcome     string    `json:"outcome"`
}

// State is the fact base for one user engagement.
//
// Attribute groups are open maps: values arrive from user answers and
// external events as booleans, numbers, strings, arrays, or nested objects.
// Field lookups use dot-delimited paths ("situation.homelessTonight") via
// Resolve, which distinguishes absent fields from explicitly stored nulls.
//
// Ownership: the calling application mutates a State strictly between
// evaluation cycles. The engine treats it as a read-only snapshot.
type State struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`

	User      map[string]any `json:"user"`
	Situation map[string]any `json:"situation"`
	Housing   map[string]any `json:"housing"`
	Legal     map[string]any `json:"legal"`
	Metadata  map[string]any `json:"metadata"`

	TriggeredRules   []TriggeredRule   `json:"triggeredRules,omitempty"`
	CompletedActions []CompletedAction `json:"completedActions,omitempty"`
	PendingActions   []string          `json:"pendingActions,omitempty"`
}

// New creates an active State with a fresh id from the generator.
func New(gen IDGenerator) *State {
	return &State{
		ID:        gen.Generate(),
		CreatedAt: time.Now().UTC(),
		Status:    StatusActive,
		User:      map[string]any{},
		Situation: map[string]any{},
		Housing:   map[string]any{},
		Legal:     map[string]any{},
		Metadata:  map[string]any{},
	}
}

// group returns the attribute group map for a top-level segment.
// Returns nil for unknown segments and for groups never initialized.
func (s *State) group(name string) map[string]any {
	switch name {
	case GroupUser:
		return s.User
	case GroupSituation:
		return s.Situation
	case GroupHousing:
		return s.Housing
	case GroupLegal:
		return s.Legal
	case GroupMetadata:
		return s.Metadata
	default:
		return nil
	}
}

// Resolve walks a dot-delimited field path through the attribute groups.
//
// The second return value reports presence: (nil, false) means the path is
// absent (missing group, missing key, or a non-map intermediate), while
// (nil, true) means the field exists and holds an explicit null. Any missing
// segment yields absent rather than an error.
func (s *State) Resolve(path string) (any, bool) {
	if s == nil || path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")
	grp := s.group(segments[0])
	if grp == nil {
		return nil, false
	}
	if len(segments) == 1 {
		// Bare group name resolves to the group map itself.
		return grp, true
	}

	var current any = grp
	for _, seg := range segments[1:] {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set writes a value at a dot-delimited path, creating intermediate maps as
// needed. The first segment must name a known attribute group.
func (s *State) Set(path string, value any) error {
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		return fmt.Errorf("path %q must have at least a group and a field", path)
	}

	grp := s.group(segments[0])
	if grp == nil {
		// Known group that was never initialized vs unknown name.
		switch segments[0] {
		case GroupUser, GroupSituation, GroupHousing, GroupLegal, GroupMetadata:
			grp = map[string]any{}
			s.setGroup(segments[0], grp)
		default:
			return fmt.Errorf("unknown attribute group %q in path %q", segments[0], path)
		}
	}

	current := grp
	for _, seg := range segments[1 : len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[seg] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
	return nil
}

func (s *State) setGroup(name string, m map[string]any) {
	switch name {
	case GroupUser:
		s.User = m
	case GroupSituation:
		s.Situation = m
	case GroupHousing:
		s.Housing = m
	case GroupLegal:
		s.Legal = m
	case GroupMetadata:
		s.Metadata = m
	}
}

// HasCompletedAction reports whether an action id appears in the completed
// action history.
func (s *State) HasCompletedAction(actionID string) bool {
	for _, rec := range s.CompletedActions {
		if rec.ActionID == actionID {
			return true
		}
	}
	return false
}

// RecordTriggered appends a triggered-rule record.
func (s *State) RecordTriggered(ruleID string, result bool) {
	s.TriggeredRules = append(s.TriggeredRules, TriggeredRule{
		RuleID:      ruleID,
		TriggeredAt: time.Now().UTC(),
		Result:      result,
	})
}

// RecordCompleted appends a completed-action record and drops the id from
// the pending list if present.
func (s *State) RecordCompleted(actionID, outcome string) {
	s.CompletedActions = append(s.CompletedActions, CompletedAction{
		ActionID:    actionID,
		CompletedAt: time.Now().UTC(),
		Outcome:     outcome,
	})
	for i, id := range s.PendingActions {
		if id == actionID {
			s.PendingActions = append(s.PendingActions[:i], s.PendingActions[i+1:]...)
			break
		}
	}
}
