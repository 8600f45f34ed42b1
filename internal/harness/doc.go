// Package harness runs declarative evaluation scenarios against content
// packs: a YAML scenario states the session facts and the rules, actions,
// and execution outcomes expected from them, and the harness checks the
// engine delivers exactly that. Golden files pin the full evaluation trace
// for regression coverage.
package harness
