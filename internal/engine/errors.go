package engine

import (
	"errors"
	"fmt"
)

// Evaluation error codes (E300-E399). These never reach callers of the
// evaluation path - they exist so isolated faults are logged with structure
// and so tests can assert on the category of a recovered failure.
const (
	// ErrCodeRulePanic indicates a panic was recovered at a rule boundary.
	ErrCodeRulePanic = "E301"

	// ErrCodeUnknownOperator indicates a condition used an operator the
	// evaluator does not implement.
	ErrCodeUnknownOperator = "E302"
)

// EvalError describes a fault isolated to a single rule during evaluation.
// The rule it belongs to resolves to "not matched"; the remaining rules are
// unaffected.
type EvalError struct {
	Code    string
	RuleID  string
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("%s: %s (rule=%s)", e.Code, e.Message, e.RuleID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRulePanic returns true if the error is a recovered rule panic.
// Uses errors.As to handle wrapped errors.
func IsRulePanic(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeRulePanic
	}
	return false
}
