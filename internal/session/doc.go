// Package session holds the mutable fact base the rules engine evaluates
// against: one State per user engagement, addressed by dot-delimited paths.
//
// The engine only ever reads a State. All mutation (recording answers,
// triggered rules, completed actions) is driven by the calling application
// between evaluation cycles.
package session
