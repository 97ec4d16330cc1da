package op

import "context"

// eitherComponent implements §4.7: try children in order with the same
// input until one succeeds.
type eitherComponent struct {
	name     string
	children []Component
}

// Either tries each child in turn against the same params/context,
// returning the first successful Result (relabeled as produced by Either
// itself) or, if none succeed, the last failure (§4.7).
func Either(name string, children ...Component) Component {
	return &eitherComponent{name: name, children: children}
}

func (e *eitherComponent) Name() string { return e.name }

// Signature is the max of children's arities, Unbounded if any child is
// Unbounded (§4.7).
func (e *eitherComponent) Signature() Signature {
	max := 0
	for _, c := range e.children {
		sig := c.Signature()
		if sig.Arity == Unbounded {
			return Signature{Arity: Unbounded, AcceptsContext: true}
		}
		if sig.Arity > max {
			max = sig.Arity
		}
	}
	return Signature{Arity: max, AcceptsContext: true}
}

func (e *eitherComponent) Call(ctx context.Context, params Params, cc Context) Result {
	if len(e.children) == 0 {
		return NewSuccess(e, params, cc)
	}

	var last Result
	for _, child := range e.children {
		res := child.Call(ctx, params, cc)
		if res.Success() {
			return res.ApplyChanges(WithOperation(e))
		}
		last = res
	}
	return last.ApplyChanges(WithOperation(e))
}
