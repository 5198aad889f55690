package rules

import "github.com/tidwall/gjson"

// RuleSet is an immutable, ordered set of compiled classification rules.
// It is built once during client definition and may be shared by any number
// of concurrent executions without locking.
type RuleSet[A any] struct {
	// eval holds rules in evaluation order: the most recently registered
	// rule first, with the parent chain after the child's own rules.
	eval  []rule[A]
	preds map[string]PredicateFunc
}

// Len reports the number of rules in the set, including inherited ones.
func (s *RuleSet[A]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.eval)
}

// Resolve evaluates a response against the rule set and returns the action
// of the first matching rule in evaluation order. The second return value
// reports whether any rule matched; an empty or nil set never matches.
//
// Resolution is a pure read: resolving the same response against an
// unchanged set always yields the same action.
func (s *RuleSet[A]) Resolve(statusCode int, body []byte) (A, bool) {
	var zero A
	if s == nil {
		return zero, false
	}
	for _, r := range s.eval {
		if s.matches(r, statusCode, body) {
			return r.action, true
		}
	}
	return zero, false
}

// matches reports whether every predicate of the rule holds for the
// response. The status predicate and all body predicates AND together.
func (s *RuleSet[A]) matches(r rule[A], statusCode int, body []byte) bool {
	if !r.status.matchStatus(statusCode, s.preds) {
		return false
	}
	for _, bp := range r.body {
		var res gjson.Result
		if len(body) > 0 {
			res = gjson.GetBytes(body, bp.Path)
		}
		// An unresolvable path is an absent value, not an error; only the
		// Any matcher accepts it.
		if !bp.Match.matchValue(res, s.preds) {
			return false
		}
	}
	return true
}
