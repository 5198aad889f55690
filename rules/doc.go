// Package rules implements an ordered, append-only registry of response
// classification rules.
//
// A rule pairs a status-code matcher and a set of body-path predicates with
// an action payload. Rules are registered through a Builder during client
// definition and compiled into an immutable RuleSet. Resolution walks rules
// from most recently registered to least recently registered, so a later,
// narrower rule shadows an earlier, broader one without editing prior
// declarations.
//
// The action payload is a type parameter: the rules engine decides which
// rule matches a response, the caller decides what the action means.
package rules
