package pack

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation error codes (E200-E299)
const (
	ErrPackMissingField = "E201" // required pack field missing
	ErrPackBadVersion   = "E202" // version is not MAJOR.MINOR.PATCH
	ErrPackDuplicateID  = "E203" // duplicate id within a collection
	ErrRuleNoActions    = "E204" // rule triggers no actions
)

// ValidationError represents one structural problem found in a pack.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationFailure aggregates every structural error found in one pack.
// A failed validation rejects the whole load; the pack is never partially
// registered.
type ValidationFailure struct {
	PackID string
	Errors []ValidationError
}

// Error implements the error interface.
func (e *ValidationFailure) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("pack %q invalid: %s", e.PackID, e.Errors[0].Error())
	}
	return fmt.Sprintf("pack %q invalid: %d errors (first: %s)", e.PackID, len(e.Errors), e.Errors[0].Error())
}

// versionPattern matches exact MAJOR.MINOR.PATCH semantic versions.
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Validate checks a pack against the structural rules of the wire contract.
// Returns all errors found (does not fail-fast).
//
// Checks, in order:
//   - required fields: id, name, version, jurisdiction
//   - version matches MAJOR.MINOR.PATCH exactly
//   - no duplicate ids within questions, rules, actions, or services
//     (each collection checked independently; cross-collection collisions
//     are not checked)
//   - every rule triggers at least one action
func Validate(p *Pack) []ValidationError {
	var errs []ValidationError

	required := []struct {
		name, value string
	}{
		{"id", p.ID},
		{"name", p.Name},
		{"version", p.Version},
		{"jurisdiction", p.Jurisdiction},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("%s is required and must be non-empty", f.name),
				Code:    ErrPackMissingField,
			})
		}
	}

	if p.Version != "" && !versionPattern.MatchString(p.Version) {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("invalid version %q, expected MAJOR.MINOR.PATCH", p.Version),
			Code:    ErrPackBadVersion,
		})
	}

	errs = append(errs, checkDuplicates("questions", questionIDs(p.Questions))...)
	errs = append(errs, checkDuplicates("rules", ruleIDs(p.Rules))...)
	errs = append(errs, checkDuplicates("actions", actionIDs(p.Actions))...)
	errs = append(errs, checkDuplicates("services", serviceIDs(p.Services))...)

	for i, r := range p.Rules {
		if len(r.Actions) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rules[%d].actions", i),
				Message: fmt.Sprintf("rule %q must trigger at least one action", r.ID),
				Code:    ErrRuleNoActions,
			})
		}
	}

	return errs
}

// checkDuplicates reports every id that appears more than once in a
// collection. The first occurrence is not an error.
func checkDuplicates(collection string, ids []string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d].id", collection, i),
				Message: fmt.Sprintf("duplicate id %q in %s", id, collection),
				Code:    ErrPackDuplicateID,
			})
		}
		seen[id] = true
	}
	return errs
}

func questionIDs(qs []Question) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

func ruleIDs(rs []Rule) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func actionIDs(as []Action) []string {
	ids := make([]string, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	return ids
}

func serviceIDs(ss []Service) []string {
	ids := make([]string, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}
