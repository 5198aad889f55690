package rules

import "strings"

// PredicateFunc is a named unary boolean test invoked by Predicate matchers.
// It receives the decoded value extracted from the response body (or the
// status code for a status-position predicate).
type PredicateFunc func(v any) bool

// BodyPredicate pairs a body path expression with a matcher. The path is a
// gjson expression over the structured response body; a leading "$." (or a
// bare "$") is accepted and stripped.
type BodyPredicate struct {
	// Path selects a value from the response body, e.g. "errors.code" or
	// "$.errors.code".
	Path string
	// Match tests the extracted value. A path that resolves to nothing is
	// matched only by Any.
	Match Matcher
}

// Def declares one classification rule for registration.
type Def[A any] struct {
	// Status matches the HTTP status code. The zero value matches every
	// status.
	Status Matcher
	// Body are path predicates over the response body. All must match,
	// together with Status, for the rule to match.
	Body []BodyPredicate
	// CatchAll marks a rule with no predicates as an explicit match-all.
	// Without it, a predicate-free registration is rejected at Build.
	CatchAll bool
	// Action is the payload returned when the rule matches.
	Action A
}

// rule is a compiled, immutable classification rule.
type rule[A any] struct {
	status Matcher
	body   []BodyPredicate
	action A
}

// normalizePath strips the optional JSON-path style prefix from a body path
// expression.
func normalizePath(path string) string {
	if p, ok := strings.CutPrefix(path, "$."); ok {
		return p
	}
	if path == "$" {
		return "@this"
	}
	return path
}
