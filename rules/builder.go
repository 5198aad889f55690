package rules

import (
	"errors"
	"fmt"
)

// Builder accumulates rule registrations and named predicates during client
// definition and compiles them into an immutable RuleSet. Registration
// order is significant: it is preserved and drives resolution precedence.
//
// Builder methods record the first configuration error and report it from
// Build, so a definition can be written as one fluent chain.
type Builder[A any] struct {
	parent *RuleSet[A]
	defs   []Def[A]
	preds  map[string]PredicateFunc
	errs   []error
}

// NewBuilder creates an empty rule builder.
func NewBuilder[A any]() *Builder[A] {
	return &Builder[A]{preds: make(map[string]PredicateFunc)}
}

// Extend inherits the rules and named predicates of a parent RuleSet.
// Inheritance is purely additive: the child's own rules are evaluated
// before the parent's, following the same last-registered-wins precedence,
// forming one ordered sequence at resolution time.
func (b *Builder[A]) Extend(parent *RuleSet[A]) *Builder[A] {
	if b.parent != nil {
		b.errs = append(b.errs, errors.New("rules: Extend called twice"))
		return b
	}
	b.parent = parent
	return b
}

// Predicate registers a named unary boolean test referenced by Predicate
// matchers. Registering the same name twice is a build error; a child
// definition may shadow a parent's predicate of the same name.
func (b *Builder[A]) Predicate(name string, fn PredicateFunc) *Builder[A] {
	if name == "" || fn == nil {
		b.errs = append(b.errs, errors.New("rules: predicate requires a name and a function"))
		return b
	}
	if _, dup := b.preds[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("rules: predicate %q registered twice", name))
		return b
	}
	b.preds[name] = fn
	return b
}

// Register appends one rule declaration. Order matters: a later
// registration takes precedence over an earlier one at resolution time.
func (b *Builder[A]) Register(d Def[A]) *Builder[A] {
	b.defs = append(b.defs, d)
	return b
}

// Build compiles the registrations into an immutable RuleSet. It validates
// that every rule carries at least one predicate (or is an explicit
// CatchAll), compiles pattern expressions, and resolves every referenced
// predicate name, so misconfiguration surfaces here rather than on a failed
// request.
func (b *Builder[A]) Build() (*RuleSet[A], error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	preds := make(map[string]PredicateFunc, len(b.preds))
	if b.parent != nil {
		for name, fn := range b.parent.preds {
			preds[name] = fn
		}
	}
	for name, fn := range b.preds {
		preds[name] = fn
	}

	compiled := make([]rule[A], 0, len(b.defs))
	for i, d := range b.defs {
		r, err := compileDef(d, preds)
		if err != nil {
			return nil, fmt.Errorf("rules: rule %d: %w", i, err)
		}
		compiled = append(compiled, r)
	}

	// Evaluation order is reverse registration order, with the inherited
	// parent chain appended after the child's own rules.
	evalLen := len(compiled)
	if b.parent != nil {
		evalLen += len(b.parent.eval)
	}
	eval := make([]rule[A], 0, evalLen)
	for i := len(compiled) - 1; i >= 0; i-- {
		eval = append(eval, compiled[i])
	}
	if b.parent != nil {
		eval = append(eval, b.parent.eval...)
	}

	return &RuleSet[A]{eval: eval, preds: preds}, nil
}

// compileDef validates a declaration and produces a compiled rule.
func compileDef[A any](d Def[A], preds map[string]PredicateFunc) (rule[A], error) {
	var zero rule[A]

	if d.Status.kind == matchAny && len(d.Body) == 0 && !d.CatchAll {
		return zero, errors.New("no predicates; set CatchAll for an explicit match-all rule")
	}

	status, err := d.Status.compile()
	if err != nil {
		return zero, err
	}
	if name := status.predicateName(); name != "" {
		if _, ok := preds[name]; !ok {
			return zero, fmt.Errorf("unknown predicate %q", name)
		}
	}

	body := make([]BodyPredicate, 0, len(d.Body))
	for _, bp := range d.Body {
		if bp.Path == "" {
			return zero, errors.New("body predicate requires a path")
		}
		m, err := bp.Match.compile()
		if err != nil {
			return zero, fmt.Errorf("path %q: %w", bp.Path, err)
		}
		if name := m.predicateName(); name != "" {
			if _, ok := preds[name]; !ok {
				return zero, fmt.Errorf("path %q: unknown predicate %q", bp.Path, name)
			}
		}
		body = append(body, BodyPredicate{Path: normalizePath(bp.Path), Match: m})
	}

	return rule[A]{status: status, body: body, action: d.Action}, nil
}
