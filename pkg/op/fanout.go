package op

import "context"

// fanoutComponent implements §4.5: every child receives the same input
// params (each truncated to its own arity); errors collect, params
// accumulate by appending.
type fanoutComponent struct {
	name     string
	children []Component
}

// Fanout sends the full input params to every child (each truncating to
// its own arity), collecting all errors and appending each child's
// returned params in order (§4.5).
func Fanout(name string, children ...Component) Component {
	return &fanoutComponent{name: name, children: children}
}

func (f *fanoutComponent) Name() string { return f.name }

// Signature is the max of children's arities, ignoring Unbounded
// children; if every child is Unbounded, the signature is Unbounded too
// (§4.5, P11).
func (f *fanoutComponent) Signature() Signature {
	if len(f.children) == 0 {
		return Signature{Arity: 0, AcceptsContext: true}
	}
	max := 0
	hasFinite := false
	for _, c := range f.children {
		sig := c.Signature()
		if sig.Arity == Unbounded {
			continue
		}
		hasFinite = true
		if sig.Arity > max {
			max = sig.Arity
		}
	}
	if !hasFinite {
		return Signature{Arity: Unbounded, AcceptsContext: true}
	}
	return Signature{Arity: max, AcceptsContext: true}
}

func (f *fanoutComponent) Call(ctx context.Context, params Params, cc Context) Result {
	acc := NewSuccess(f, params, cc)
	for _, child := range f.children {
		if acc.ShortcutActive() {
			break
		}

		sig := child.Signature()
		slice := params
		if sig.Arity != Unbounded && sig.Arity < len(params) {
			slice = params[:sig.Arity]
		}

		childResult := child.Call(ctx, slice, acc.Context())
		acc = mergeCore(acc, childResult)
		acc = acc.ApplyChanges(WithParams(append(append(Params{}, acc.Params()...), childResult.Params()...)))
	}
	return acc
}
