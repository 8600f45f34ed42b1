// Package engine evaluates content-pack rules against a session state and
// prepares the actions they trigger.
//
// All evaluation is pure, synchronous computation over values already in
// memory: the condition evaluator and rule resolver never mutate the state
// or the pack, never block, and are idempotent for identical inputs.
//
// Failure semantics are isolation, not propagation. A malformed condition,
// unknown operator, or panic inside one rule resolves that rule to "not
// matched" and evaluation proceeds with the rest of the rule set; nothing
// on the evaluation path returns an error to the caller.
package engine
