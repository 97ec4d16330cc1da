package op

import (
	"time"

	"github.com/google/uuid"
)

// Value is an opaque parameter or context entry. A param slot is typically
// a map[string]Value but the algebra accepts any value (transformed
// results can be primitives), so it is modeled as an empty interface
// rather than constrained to a mapping.
type Value = any

// Params is the ordered list of positional parameters accompanying a
// Context through a pipeline.
type Params []Value

// Context is the keyed mapping threaded through a pipeline, accumulating
// keys as components run. Keys are unique; insertion order is not part of
// the algebra (unlike Collection's mapping-shaped output, which uses
// OrderedMap instead).
type Context map[string]Value

// Result is the immutable carrier a Component invocation produces. Results
// are constructed once and never mutated; ApplyChanges and Merge always
// return a new value, following the same copy-on-write shape as the
// teacher's rop.Result[T].
type Result struct {
	id        uuid.UUID
	createdAt time.Time

	operation Component
	params    Params
	context   Context
	errors    []Error
	shortcut  Component
	onSuccess []CallbackOutcome
	onFailure []CallbackOutcome
}

// CallbackOutcome holds either an already-resolved transaction callback
// Result (sync mode) or a PendingCallback handle that resolves to one later
// (async mode). See the transaction package for the concrete handle type.
type CallbackOutcome struct {
	resolved *Result
	pending  PendingCallback
}

// PendingCallback is a handle to a transaction callback submitted to the
// async worker pool. Awaiting it blocks until the callback completes.
type PendingCallback interface {
	Await() Result
}

// Resolved wraps an already-completed callback Result (sync mode).
func Resolved(r Result) CallbackOutcome {
	return CallbackOutcome{resolved: &r}
}

// Pending wraps a handle to a not-yet-completed callback (async mode).
func Pending(p PendingCallback) CallbackOutcome {
	return CallbackOutcome{pending: p}
}

// IsPending reports whether this outcome is an unresolved async handle.
func (c CallbackOutcome) IsPending() bool { return c.pending != nil }

// Result returns the resolved Result and true, or the zero Result and
// false if this outcome is still pending.
func (c CallbackOutcome) Result() (Result, bool) {
	if c.resolved != nil {
		return *c.resolved, true
	}
	return Result{}, false
}

// Await blocks on a pending handle and returns its Result; it is a no-op
// passthrough for already-resolved outcomes.
func (c CallbackOutcome) Await() Result {
	if c.resolved != nil {
		return *c.resolved
	}
	return c.pending.Await()
}

func newStamped() Result {
	return Result{id: uuid.New(), createdAt: time.Now().UTC()}
}

// NewSuccess builds a successful Result with no errors and no shortcut.
func NewSuccess(operation Component, params Params, c Context) Result {
	r := newStamped()
	r.operation = operation
	r.params = params
	if c == nil {
		c = Context{}
	}
	r.context = c
	return r
}

// NewFailure builds a failed Result carrying the given errors.
func NewFailure(operation Component, errs ...Error) Result {
	r := newStamped()
	r.operation = operation
	r.context = Context{}
	r.errors = errs
	return r
}

// Empty returns a Result with no params, no context, and no errors — the
// "empty Success" Shortcut falls back to on a swallowed failure.
func Empty(operation Component) Result {
	r := newStamped()
	r.operation = operation
	r.context = Context{}
	return r
}

// Operation returns the Component that produced (or last re-labeled) this
// Result.
func (r Result) Operation() Component { return r.operation }

// Params returns the positional parameters carried by this Result.
func (r Result) Params() Params { return r.params }

// Context returns the keyed context carried by this Result.
func (r Result) Context() Context { return r.context }

// Errors returns the ordered list of Error records attached to this
// Result. An empty (or nil) slice means success.
func (r Result) Errors() []Error { return r.errors }

// Shortcut returns the Component that triggered early exit, or nil if none
// did.
func (r Result) Shortcut() Component { return r.shortcut }

// ShortcutActive reports whether a shortcut has been set.
func (r Result) ShortcutActive() bool { return r.shortcut != nil }

// OnSuccess returns the ordered list of on_success callback outcomes
// staged by a Transaction this Result passed through.
func (r Result) OnSuccess() []CallbackOutcome { return r.onSuccess }

// OnFailure returns the ordered list of on_failure callback outcomes
// staged by a Transaction this Result passed through.
func (r Result) OnFailure() []CallbackOutcome { return r.onFailure }

// Success reports whether this Result carries no errors.
func (r Result) Success() bool { return len(r.errors) == 0 }

// Failure is the negation of Success.
func (r Result) Failure() bool { return !r.Success() }

// ID returns the Result's identity, stamped once at construction and
// carried unchanged through ApplyChanges/Merge — diagnostic metadata, not
// part of the combinator algebra.
func (r Result) ID() uuid.UUID { return r.id }

// CreatedAt returns the UTC timestamp this Result was constructed at.
func (r Result) CreatedAt() time.Time { return r.createdAt }

// option mutates a copy of a Result; see ApplyChanges.
type option func(*Result)

// WithParams overrides the params field.
func WithParams(p Params) option { return func(r *Result) { r.params = p } }

// WithContext overrides the context field.
func WithContext(c Context) option { return func(r *Result) { r.context = c } }

// WithErrors overrides the errors field.
func WithErrors(errs []Error) option { return func(r *Result) { r.errors = errs } }

// WithShortcut overrides the shortcut field.
func WithShortcut(c Component) option { return func(r *Result) { r.shortcut = c } }

// WithOperation overrides the operation field — used by Either to relabel
// a passed-through child Result as produced by the combinator itself.
func WithOperation(c Component) option { return func(r *Result) { r.operation = c } }

// WithOnSuccess overrides the on_success callback list.
func WithOnSuccess(cs []CallbackOutcome) option { return func(r *Result) { r.onSuccess = cs } }

// WithOnFailure overrides the on_failure callback list.
func WithOnFailure(cs []CallbackOutcome) option { return func(r *Result) { r.onFailure = cs } }

// ApplyChanges returns a new Result with the given field overrides
// applied, per §4.2. ApplyChanges(r) with no options returns a value equal
// to r (R1).
func (r Result) ApplyChanges(opts ...option) Result {
	next := r
	for _, opt := range opts {
		opt(&next)
	}
	return next
}

// mergeContext combines two contexts, b winning on key conflicts.
func mergeContext(a, b Context) Context {
	out := make(Context, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// mergeCore applies the operation/shortcut/context/errors/callback merge
// rules of §4.2 but leaves params untouched (callers set params
// explicitly — Chain adopts the generic replace-or-keep rule via Merge,
// while Parallel/Fanout/Collection append per their own distribution
// rules instead).
func mergeCore(r, other Result) Result {
	merged := r
	if merged.shortcut == nil {
		merged.shortcut = other.shortcut
	}
	merged.context = mergeContext(r.context, other.context)
	merged.errors = append(append([]Error{}, r.errors...), other.errors...)
	merged.onSuccess = append(append([]CallbackOutcome{}, r.onSuccess...), other.onSuccess...)
	merged.onFailure = append(append([]CallbackOutcome{}, r.onFailure...), other.onFailure...)
	return merged
}

// Merge combines two Results in evaluation order per §4.2: r.operation is
// kept, the first non-nil shortcut wins, other's params replace r's unless
// other's are empty, contexts union with other winning on conflict, and
// errors/callback lists concatenate. This is the merge Chain uses; other
// collecting combinators use mergeCore plus their own params rule.
func Merge(r, other Result) Result {
	merged := mergeCore(r, other)
	if len(other.params) > 0 {
		merged.params = other.params
	} else {
		merged.params = r.params
	}
	return merged
}
