package op

import "context"

// distribute implements the shared params-distribution algebra of
// Parallel (§4.4) and Split (§4.6) — they differ only in whether a failure
// stops iteration (failFast). Children consume disjoint slices of the
// input params by arity, except in the single-param fan-out case (§B1),
// where every child receives the same lone param.
func distribute(ctx context.Context, self Component, children []Component, params Params, cc Context, packByIndex, failFast bool) Result {
	acc := NewSuccess(self, Params{}, cc)
	remaining := params
	fanOut := len(params) == 1

	for _, child := range children {
		if acc.ShortcutActive() || (failFast && acc.Failure()) {
			break
		}

		var slice Params
		if fanOut {
			slice = params
		} else {
			n := child.Signature().Arity
			if n == Unbounded || n > len(remaining) {
				n = len(remaining)
			}
			slice = remaining[:n]
			remaining = remaining[n:]
		}

		childResult := child.Call(ctx, slice, acc.Context())

		var newParams Params
		if packByIndex {
			newParams = packParams(acc.Params(), childResult.Params())
		} else {
			newParams = append(append(Params{}, acc.Params()...), childResult.Params()...)
		}

		acc = mergeCore(acc, childResult)
		acc = acc.ApplyChanges(WithParams(newParams))
	}

	if !fanOut && len(remaining) > 0 {
		acc = acc.ApplyChanges(WithParams(append(append(Params{}, acc.Params()...), remaining...)))
	}

	return acc
}

// distributionSignature implements the arity law shared by Parallel and
// Split: the sum of children's arities, or Unbounded if any child is
// Unbounded (§4.4, P11).
func distributionSignature(children []Component) Signature {
	arity := 0
	for _, c := range children {
		sig := c.Signature()
		if sig.Arity == Unbounded {
			return Signature{Arity: Unbounded, AcceptsContext: true}
		}
		arity += sig.Arity
	}
	return Signature{Arity: arity, AcceptsContext: true}
}

// packParams implements the pack_by_index params-accumulation mode
// (§4.4): for each index, the key-value mappings contributed by existing
// and incoming params merge, later (incoming) values winning on key
// conflict; a shorter side at that index falls back to the longer side's
// value entirely.
func packParams(existing, incoming Params) Params {
	n := len(existing)
	if len(incoming) > n {
		n = len(incoming)
	}
	out := make(Params, n)
	for i := 0; i < n; i++ {
		var a, b Value
		hasA, hasB := false, false
		if i < len(existing) {
			a = existing[i]
			hasA = true
		}
		if i < len(incoming) {
			b = incoming[i]
			hasB = true
		}
		switch {
		case hasA && hasB:
			out[i] = mergeValueMaps(a, b)
		case hasB:
			out[i] = b
		default:
			out[i] = a
		}
	}
	return out
}

// mergeValueMaps merges two param-slot values as maps when both are
// map-shaped (b winning on key conflict); otherwise b simply wins, since
// there is no key-level structure to merge.
func mergeValueMaps(a, b Value) Value {
	am, aok := asMap(a)
	bm, bok := asMap(b)
	if !aok || !bok {
		return b
	}
	out := make(map[string]Value, len(am)+len(bm))
	for k, v := range am {
		out[k] = v
	}
	for k, v := range bm {
		out[k] = v
	}
	return out
}
