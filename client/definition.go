package client

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/kbukum/apikit/rules"
)

// Handler is a recovery routine invoked when a matched rule dispatches to
// it. It receives the execution context of the attempt and the client's log
// sink; its return values become the outcome of the call.
type Handler func(ctx context.Context, ec *ExecutionContext, sink Sink) (any, error)

// actionKind discriminates the dispatch variants of an Action.
type actionKind int

const (
	actionSuccess actionKind = iota
	actionRaise
	actionHandle
)

// Action is the dispatch payload of a classification rule: treat the
// response as a success, invoke a recovery handler, or raise a typed
// error. Construct it with Success, Handle, HandleFunc, or Raise.
type Action struct {
	kind        actionKind
	errKind     ErrorKind
	handlerName string
	handler     Handler
}

// Success returns an action that treats the matched response as a success.
// It is useful for shadowing an inherited failure rule.
func Success() Action {
	return Action{kind: actionSuccess}
}

// Raise returns an action that fails the call with a ClassifiedError of the
// given kind. Raised kinds are the anchor for retry policies.
func Raise(kind ErrorKind) Action {
	return Action{kind: actionRaise, errKind: kind}
}

// Handle returns an action that dispatches to the named handler. The name
// is resolved against the definition's handler registry at Build time.
func Handle(name string) Action {
	return Action{kind: actionHandle, handlerName: name}
}

// HandleFunc returns an action that dispatches to an inline handler.
func HandleFunc(fn Handler) Action {
	return Action{kind: actionHandle, handler: fn}
}

// RetryPolicy controls automatic re-execution for one raised error kind.
// The first rule match that raises the kind starts the retry cycle; the
// request is re-issued until an attempt stops matching or MaxAttempts is
// exhausted, at which point the ClassifiedError escalates.
type RetryPolicy struct {
	// Wait is the delay before the first retry.
	Wait time.Duration
	// MaxAttempts is the total number of attempts, including the first.
	// It must be at least 1; a policy of 1 never retries.
	MaxAttempts int
	// BackoffFactor multiplies the wait after each retry. Values at or
	// below 1 keep the wait constant.
	BackoffFactor float64
	// MaxWait caps the backed-off wait. Zero means no cap.
	MaxWait time.Duration
	// Jitter randomizes each wait by up to the given fraction in either
	// direction, e.g. 0.2 for plus or minus 20%. Zero disables jitter.
	Jitter float64
}

// waitFor computes the delay before the retry that produces the given
// attempt number. The first retry (attempt 2) waits Wait; later retries
// back off by BackoffFactor.
func (p RetryPolicy) waitFor(attempt int) time.Duration {
	w := float64(p.Wait)
	if p.BackoffFactor > 1 && attempt > 2 {
		w *= math.Pow(p.BackoffFactor, float64(attempt-2))
	}
	if p.MaxWait > 0 && w > float64(p.MaxWait) {
		w = float64(p.MaxWait)
	}
	if p.Jitter > 0 {
		w *= 1 + (rand.Float64()*2-1)*p.Jitter
	}
	if w < 0 {
		w = 0
	}
	return time.Duration(w)
}

// Def declares one classification rule for registration on a Builder. The
// matcher fields have the same semantics as rules.Def; Action and Retry
// carry the dispatch side.
type Def struct {
	// Status matches the HTTP status code. The zero value matches every
	// status.
	Status rules.Matcher
	// Body are path predicates over the response body. All must match,
	// together with Status, for the rule to match.
	Body []rules.BodyPredicate
	// CatchAll marks a rule with no predicates as an explicit match-all.
	CatchAll bool
	// Action is dispatched when the rule matches.
	Action Action
	// Retry registers a retry policy for the raised kind. Only valid on a
	// Raise action.
	Retry *RetryPolicy
}

// Definition is an immutable compiled client definition: the ordered rule
// set, the resolved handler registry, and the per-kind retry policies. A
// Definition is safe for concurrent use and may serve as the parent of a
// derived definition via Builder.Extend.
type Definition struct {
	rules    *rules.RuleSet[Action]
	handlers map[string]Handler
	retries  map[ErrorKind]RetryPolicy
}

// Rules returns the compiled rule set.
func (d *Definition) Rules() *rules.RuleSet[Action] {
	if d == nil {
		return nil
	}
	return d.rules
}

// RetryPolicy returns the retry policy registered for an error kind.
func (d *Definition) RetryPolicy(kind ErrorKind) (RetryPolicy, bool) {
	if d == nil {
		return RetryPolicy{}, false
	}
	p, ok := d.retries[kind]
	return p, ok
}

// handlerNamed resolves a handler by name.
func (d *Definition) handlerNamed(name string) (Handler, bool) {
	if d == nil {
		return nil, false
	}
	h, ok := d.handlers[name]
	return h, ok
}

// Builder accumulates the declarative configuration of a client type and
// compiles it into a Definition. Registration order of rules is
// significant; handler, predicate, and retry registrations are unordered.
//
// Builder methods record configuration errors and report the first one
// from Build, so a definition reads as one fluent chain.
type Builder struct {
	rb       *rules.Builder[Action]
	parent   *Definition
	handlers map[string]Handler
	retries  map[ErrorKind]RetryPolicy
	// named collects handler names referenced by Handle actions, checked
	// against the merged registry at Build.
	named []string
	errs  []error
}

// NewBuilder creates an empty definition builder.
func NewBuilder() *Builder {
	return &Builder{
		rb:       rules.NewBuilder[Action](),
		handlers: make(map[string]Handler),
		retries:  make(map[ErrorKind]RetryPolicy),
	}
}

// Extend inherits the rules, handlers, predicates, and retry policies of a
// parent definition. The child's own rules take precedence over inherited
// ones; a handler or retry policy registered on the child shadows the
// parent's entry of the same name or kind.
func (b *Builder) Extend(parent *Definition) *Builder {
	if b.parent != nil {
		b.errs = append(b.errs, newConfigError("Extend called twice"))
		return b
	}
	if parent == nil {
		b.errs = append(b.errs, newConfigError("Extend requires a non-nil parent definition"))
		return b
	}
	b.parent = parent
	b.rb.Extend(parent.rules)
	return b
}

// Handler registers a named recovery handler. Registering the same name
// twice on one builder is a build error; a child definition may shadow a
// parent's handler of the same name.
func (b *Builder) Handler(name string, fn Handler) *Builder {
	if name == "" || fn == nil {
		b.errs = append(b.errs, newConfigError("handler requires a name and a function"))
		return b
	}
	if _, dup := b.handlers[name]; dup {
		b.errs = append(b.errs, newConfigError("handler %q registered twice", name))
		return b
	}
	b.handlers[name] = fn
	return b
}

// Predicate registers a named boolean test for use in Predicate matchers.
func (b *Builder) Predicate(name string, fn rules.PredicateFunc) *Builder {
	b.rb.Predicate(name, fn)
	return b
}

// Retry registers a retry policy for an error kind. Registering the same
// kind twice on one builder is a build error; a child definition may
// shadow a parent's policy for the same kind.
func (b *Builder) Retry(kind ErrorKind, p RetryPolicy) *Builder {
	if kind == "" {
		b.errs = append(b.errs, newConfigError("retry policy requires an error kind"))
		return b
	}
	if _, dup := b.retries[kind]; dup {
		b.errs = append(b.errs, newConfigError("retry policy for %q registered twice", kind))
		return b
	}
	if p.MaxAttempts < 1 {
		b.errs = append(b.errs, newConfigError("retry policy for %q: MaxAttempts must be at least 1", kind))
		return b
	}
	if p.Wait < 0 {
		b.errs = append(b.errs, newConfigError("retry policy for %q: negative wait", kind))
		return b
	}
	b.retries[kind] = p
	return b
}

// Register appends one rule declaration. A later registration takes
// precedence over an earlier one at resolution time.
func (b *Builder) Register(d Def) *Builder {
	if d.Retry != nil {
		if d.Action.kind != actionRaise {
			b.errs = append(b.errs, newConfigError("retry requires a Raise action"))
			return b
		}
		b.Retry(d.Action.errKind, *d.Retry)
	}
	if d.Action.kind == actionRaise && d.Action.errKind == "" {
		b.errs = append(b.errs, newConfigError("Raise requires a non-empty error kind"))
		return b
	}
	if d.Action.kind == actionHandle && d.Action.handler == nil {
		if d.Action.handlerName == "" {
			b.errs = append(b.errs, newConfigError("Handle requires a handler name"))
			return b
		}
		b.named = append(b.named, d.Action.handlerName)
	}
	b.rb.Register(rules.Def[Action]{
		Status:   d.Status,
		Body:     d.Body,
		CatchAll: d.CatchAll,
		Action:   d.Action,
	})
	return b
}

// Build compiles the accumulated configuration into an immutable
// Definition. Every referenced handler name must resolve against the
// merged handler registry; resolution failures, invalid matchers, and
// invalid retry policies all surface here as ConfigError rather than on a
// failed request.
func (b *Builder) Build() (*Definition, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	rs, err := b.rb.Build()
	if err != nil {
		return nil, &ConfigError{Message: "invalid rule set", Err: err}
	}

	handlers := make(map[string]Handler, len(b.handlers))
	retries := make(map[ErrorKind]RetryPolicy, len(b.retries))
	if b.parent != nil {
		for name, fn := range b.parent.handlers {
			handlers[name] = fn
		}
		for kind, p := range b.parent.retries {
			retries[kind] = p
		}
	}
	for name, fn := range b.handlers {
		handlers[name] = fn
	}
	for kind, p := range b.retries {
		retries[kind] = p
	}

	for _, name := range b.named {
		if _, ok := handlers[name]; !ok {
			return nil, newConfigError("unknown handler %q", name)
		}
	}

	return &Definition{rules: rs, handlers: handlers, retries: retries}, nil
}
