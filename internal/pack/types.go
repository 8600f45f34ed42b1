package pack

// Operator identifies one atomic comparison in a condition rule.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "notEquals"
	OpGreaterThan        Operator = "greaterThan"
	OpLessThan           Operator = "lessThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpContains           Operator = "contains"
	OpNotContains        Operator = "notContains"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "notIn"
	OpExists             Operator = "exists"
	OpNotExists          Operator = "notExists"
)

// ConditionRule is one atomic comparison against a session-state field.
// Field is a dot-delimited path ("situation.homelessTonight").
// Value is unused for exists/notExists.
type ConditionRule struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

// GroupType combines the members of a condition group.
type GroupType string

const (
	GroupAll  GroupType = "all"
	GroupAny  GroupType = "any"
	GroupNone GroupType = "none"
)

// ConditionGroup is a recursive boolean expression: atomic rules plus nested
// sub-groups, combined per Type. A group with no rules and no nested groups
// evaluates false for every type — it asserts nothing, so it cannot pass.
type ConditionGroup struct {
	Type   GroupType        `json:"type"`
	Rules  []ConditionRule  `json:"rules,omitempty"`
	Nested []ConditionGroup `json:"nested,omitempty"`
}

// Rule is a rights/eligibility rule: a named condition tree plus the action
// ids it triggers when the tree evaluates true. Higher Priority rules are
// evaluated and presented first; the zero value is the default priority.
type Rule struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Jurisdiction string         `json:"jurisdiction"`
	LegalBasis   string         `json:"legalBasis,omitempty"`
	Priority     int            `json:"priority,omitempty"`
	Conditions   ConditionGroup `json:"conditions"`
	Actions      []string       `json:"actions"`
}

// ActionType categorizes an action template.
type ActionType string

const (
	ActionImmediate     ActionType = "immediate"
	ActionReferral      ActionType = "referral"
	ActionApplication   ActionType = "application"
	ActionAssessment    ActionType = "assessment"
	ActionNotification  ActionType = "notification"
	ActionDocumentation ActionType = "documentation"
)

// Urgency orders actions for presentation and execution.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// RequiredInput describes a field the user must supply within a step.
type RequiredInput struct {
	Field  string `json:"field"`
	Prompt string `json:"prompt"`
	Type   string `json:"type,omitempty"`
}

// Step is one ordered instruction within an action template. Steps are
// rendered sorted ascending by Order regardless of input order.
type Step struct {
	Order       int             `json:"order"`
	Instruction string          `json:"instruction"`
	Inputs      []RequiredInput `json:"inputs,omitempty"`
}

// Contact holds the contact block attached to actions and services.
type Contact struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
	Address string `json:"address,omitempty"`
}

// Action is a structured guide for a follow-on task triggered by rules.
type Action struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                ActionType `json:"type"`
	Category            string     `json:"category,omitempty"`
	Urgency             Urgency    `json:"urgency,omitempty"`
	Steps               []Step     `json:"steps,omitempty"`
	RequiredInformation []string   `json:"requiredInformation,omitempty"`
	Prerequisites       []string   `json:"prerequisites,omitempty"`
	Contact             *Contact   `json:"contact,omitempty"`
	EstimatedDuration   string     `json:"estimatedDuration,omitempty"`
}

// Availability describes when a service can be reached.
type Availability struct {
	Always bool   `json:"always,omitempty"` // open 24/7
	Hours  string `json:"hours,omitempty"`
}

// Eligibility holds a service's intake constraints. Nil pointer fields mean
// the constraint is not declared.
type Eligibility struct {
	MinAge                  *int   `json:"minAge,omitempty"`
	MaxAge                  *int   `json:"maxAge,omitempty"`
	Gender                  string `json:"gender,omitempty"`
	AcceptsPets             *bool  `json:"acceptsPets,omitempty"`
	RequiresReferral        bool   `json:"requiresReferral,omitempty"`
	RequiresLocalConnection bool   `json:"requiresLocalConnection,omitempty"`
}

// Service is a real-world provider referenced by actions and finders.
type Service struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Provider     string       `json:"provider,omitempty"`
	Contact      *Contact     `json:"contact,omitempty"`
	Location     string       `json:"location,omitempty"`
	Availability Availability `json:"availability,omitempty"`
	Capacity     int          `json:"capacity,omitempty"`
	Eligibility  *Eligibility `json:"eligibility,omitempty"`
}

// QuestionOption is one selectable answer, optionally routing to the next
// question when chosen.
type QuestionOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
	Next  string `json:"next,omitempty"`
}

// Transition routes the flow after a question is answered. When is evaluated
// against the session state; a nil When always applies. Exactly one of Next,
// Action, or End should be set.
type Transition struct {
	When   *ConditionGroup `json:"when,omitempty"`
	Next   string          `json:"next,omitempty"`
	Action string          `json:"action,omitempty"`
	End    bool            `json:"end,omitempty"`
}

// Question is one step of the guided intake flow. The answer is written into
// the session state at StateMapping; ShowIf guards visibility.
type Question struct {
	ID           string           `json:"id"`
	Text         string           `json:"text"`
	Type         string           `json:"type"`
	Required     bool             `json:"required,omitempty"`
	Options      []QuestionOption `json:"options,omitempty"`
	Transitions  []Transition     `json:"transitions,omitempty"`
	Priority     int              `json:"priority,omitempty"`
	ShowIf       *ConditionGroup  `json:"showIf,omitempty"`
	StateMapping string           `json:"stateMapping,omitempty"`
}

// Pack is a versioned bundle of questions, rules, actions, and services for
// one jurisdiction. Version must be a MAJOR.MINOR.PATCH string.
type Pack struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	Jurisdiction  string         `json:"jurisdiction"`
	EntryQuestion string         `json:"entryQuestion,omitempty"`
	Questions     []Question     `json:"questions,omitempty"`
	Rules         []Rule         `json:"rules,omitempty"`
	Actions       []Action       `json:"actions,omitempty"`
	Services      []Service      `json:"services,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Normalize fills defaulted fields in place: action urgency defaults to
// medium. Rule priority already defaults to the zero value.
func (p *Pack) Normalize() {
	for i := range p.Actions {
		if p.Actions[i].Urgency == "" {
			p.Actions[i].Urgency = UrgencyMedium
		}
	}
}
