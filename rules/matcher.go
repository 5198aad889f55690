package rules

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"
)

// matcherKind discriminates the closed set of matcher variants.
type matcherKind int

const (
	// matchAny is the zero value: it matches every value, including an
	// absent one.
	matchAny matcherKind = iota
	matchExact
	matchRange
	matchPattern
	matchPredicate
)

// Matcher tests a single value: either an HTTP status code or a value
// extracted from the response body by a path expression. The zero value
// matches everything.
//
// Matching semantics are dispatched by matcher kind, not by guessing the
// operand's type: Exact compares by the expected value's type, Range is
// numeric, Pattern is textual.
type Matcher struct {
	kind  matcherKind
	exact any
	lo    float64
	hi    float64
	expr  string
	re    *regexp.Regexp
	pred  string
}

// Any returns a matcher that matches every value, including an absent one.
// It is the only matcher that matches a body path that resolves to nothing.
func Any() Matcher {
	return Matcher{kind: matchAny}
}

// Exact returns a matcher that tests for equality with v. Numbers compare
// numerically regardless of width, strings compare as strings, booleans as
// booleans, and nil matches an explicit JSON null.
func Exact(v any) Matcher {
	return Matcher{kind: matchExact, exact: v}
}

// Range returns a matcher that tests inclusive numeric membership in
// [lo, hi]. Non-numeric values never match.
func Range(lo, hi float64) Matcher {
	return Matcher{kind: matchRange, lo: lo, hi: hi}
}

// Pattern returns a matcher that tests the string form of the value against
// a regular expression. For status codes the string form is the decimal
// representation. The expression is compiled at Build time; a malformed
// expression surfaces as a build error.
func Pattern(expr string) Matcher {
	return Matcher{kind: matchPattern, expr: expr}
}

// Predicate returns a matcher that invokes a named unary boolean test
// registered on the Builder. The name must resolve at Build time.
func Predicate(name string) Matcher {
	return Matcher{kind: matchPredicate, pred: name}
}

// compile returns a copy of the matcher with its regular expression
// compiled. Matchers without a pattern are returned unchanged.
func (m Matcher) compile() (Matcher, error) {
	if m.kind != matchPattern || m.re != nil {
		return m, nil
	}
	re, err := regexp.Compile(m.expr)
	if err != nil {
		return m, fmt.Errorf("pattern %q: %w", m.expr, err)
	}
	m.re = re
	return m, nil
}

// predicateName returns the referenced predicate name, or "" if the matcher
// is not a predicate matcher.
func (m Matcher) predicateName() string {
	if m.kind != matchPredicate {
		return ""
	}
	return m.pred
}

// matchStatus tests the matcher against an HTTP status code.
func (m Matcher) matchStatus(code int, preds map[string]PredicateFunc) bool {
	switch m.kind {
	case matchAny:
		return true
	case matchExact:
		want, ok := toFloat(m.exact)
		return ok && want == float64(code)
	case matchRange:
		return float64(code) >= m.lo && float64(code) <= m.hi
	case matchPattern:
		return m.re != nil && m.re.MatchString(strconv.Itoa(code))
	case matchPredicate:
		fn, ok := preds[m.pred]
		return ok && fn(code)
	default:
		return false
	}
}

// matchValue tests the matcher against a value extracted from the response
// body. An absent value (missing body or unresolvable path) matches only
// the Any matcher.
func (m Matcher) matchValue(res gjson.Result, preds map[string]PredicateFunc) bool {
	if m.kind == matchAny {
		return true
	}
	if !res.Exists() {
		return false
	}

	switch m.kind {
	case matchExact:
		return matchExactValue(m.exact, res)
	case matchRange:
		if res.Type != gjson.Number {
			return false
		}
		return res.Num >= m.lo && res.Num <= m.hi
	case matchPattern:
		return m.re != nil && m.re.MatchString(res.String())
	case matchPredicate:
		fn, ok := preds[m.pred]
		return ok && fn(res.Value())
	default:
		return false
	}
}

// matchExactValue compares an extracted value against the expected value,
// dispatching on the expected value's type.
func matchExactValue(want any, res gjson.Result) bool {
	if want == nil {
		return res.Type == gjson.Null
	}
	if f, ok := toFloat(want); ok {
		return res.Type == gjson.Number && res.Num == f
	}
	switch v := want.(type) {
	case string:
		return res.Type == gjson.String && res.Str == v
	case bool:
		return res.IsBool() && res.Bool() == v
	default:
		return false
	}
}

// toFloat normalizes any numeric type to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
