package op

import "context"

// Component is anything that maps a tuple of positional params plus a
// keyed context to a Result (§3, §6). Combinators implement Component
// directly; raw callables are adapted via the tagged constructors below.
type Component interface {
	Call(ctx context.Context, params Params, c Context) Result
	Signature() Signature
	Name() string
}

// outcomeKind tags which of the §4.1 return-normalization shapes an
// Outcome carries.
type outcomeKind int

const (
	outcomeResult outcomeKind = iota
	outcomeSuccess
	outcomeFailure
)

// Outcome is what a raw callable passed to ContextOnly/Fixed/FixedCtx/
// Variadic returns. It is the statically-typed stand-in for §4.1's
// "return-value normalization" table: since Outcome is a concrete sum
// type, the "anything else is a fatal programming error" branch of §4.1 is
// unreachable by construction — the compiler rejects a malformed return at
// the call site instead of the runtime raising on it.
type Outcome struct {
	kind   outcomeKind
	result Result

	values  []Value
	context Context

	errors []Error
}

// FromResult passes a full Result through unchanged.
func FromResult(r Result) Outcome { return Outcome{kind: outcomeResult, result: r} }

// Ok builds a success Outcome carrying only a context mapping.
func Ok(c Context) Outcome { return Outcome{kind: outcomeSuccess, context: c} }

// OkValues builds a success Outcome carrying positional values followed by
// a context mapping.
func OkValues(values []Value, c Context) Outcome {
	return Outcome{kind: outcomeSuccess, values: values, context: c}
}

// Fail builds a failure Outcome carrying one or more Error records.
func Fail(errs ...Error) Outcome { return Outcome{kind: outcomeFailure, errors: errs} }

func normalize(self Component, o Outcome) Result {
	switch o.kind {
	case outcomeResult:
		return o.result
	case outcomeSuccess:
		return NewSuccess(self, Params(o.values), o.context)
	case outcomeFailure:
		return NewFailure(self, o.errors...)
	default:
		panic("op: malformed component outcome")
	}
}

func truncate(p Params, n int) Params {
	if n < 0 || n >= len(p) {
		return p
	}
	return p[:n]
}

// contextOnlyComponent implements dispatch row (0, true): consumes no
// positional params, receives the keyed context.
type contextOnlyComponent struct {
	name string
	fn   func(ctx context.Context, c Context) Outcome
}

// ContextOnly wraps a callable that consumes no positional params but
// reads the keyed context — dispatch row (0, true).
func ContextOnly(name string, fn func(ctx context.Context, c Context) Outcome) Component {
	return &contextOnlyComponent{name: name, fn: fn}
}

func (c *contextOnlyComponent) Name() string        { return c.name }
func (c *contextOnlyComponent) Signature() Signature { return Signature{Arity: 0, AcceptsContext: true} }
func (c *contextOnlyComponent) Call(ctx context.Context, _ Params, cc Context) Result {
	return normalize(c, c.fn(ctx, cc))
}

// fixedComponent implements dispatch row (n, false): consumes the first n
// params, ignores the keyed context entirely.
type fixedComponent struct {
	name  string
	arity int
	fn    func(ctx context.Context, p Params) Outcome
}

// Fixed wraps a callable of fixed arity that does not read the keyed
// context — dispatch row (n, false). Extra params are truncated.
func Fixed(name string, arity int, fn func(ctx context.Context, p Params) Outcome) Component {
	return &fixedComponent{name: name, arity: arity, fn: fn}
}

func (c *fixedComponent) Name() string { return c.name }
func (c *fixedComponent) Signature() Signature {
	return Signature{Arity: c.arity, AcceptsContext: false}
}
func (c *fixedComponent) Call(ctx context.Context, p Params, _ Context) Result {
	return normalize(c, c.fn(ctx, truncate(p, c.arity)))
}

// fixedCtxComponent implements dispatch row (n, true): consumes the first
// n params plus the keyed context.
type fixedCtxComponent struct {
	name  string
	arity int
	fn    func(ctx context.Context, p Params, c Context) Outcome
}

// FixedCtx wraps a callable of fixed arity that also reads the keyed
// context — dispatch row (n, true). Extra params are truncated.
func FixedCtx(name string, arity int, fn func(ctx context.Context, p Params, c Context) Outcome) Component {
	return &fixedCtxComponent{name: name, arity: arity, fn: fn}
}

func (c *fixedCtxComponent) Name() string { return c.name }
func (c *fixedCtxComponent) Signature() Signature {
	return Signature{Arity: c.arity, AcceptsContext: true}
}
func (c *fixedCtxComponent) Call(ctx context.Context, p Params, cc Context) Result {
	return normalize(c, c.fn(ctx, truncate(p, c.arity), cc))
}

// variadicComponent implements dispatch row (∅, true): consumes all
// remaining params plus the keyed context.
type variadicComponent struct {
	name string
	fn   func(ctx context.Context, p Params, c Context) Outcome
}

// Variadic wraps a callable that consumes every remaining param plus the
// keyed context — dispatch row (∅, true).
func Variadic(name string, fn func(ctx context.Context, p Params, c Context) Outcome) Component {
	return &variadicComponent{name: name, fn: fn}
}

func (c *variadicComponent) Name() string { return c.name }
func (c *variadicComponent) Signature() Signature {
	return Signature{Arity: Unbounded, AcceptsContext: true}
}
func (c *variadicComponent) Call(ctx context.Context, p Params, cc Context) Result {
	return normalize(c, c.fn(ctx, p, cc))
}
