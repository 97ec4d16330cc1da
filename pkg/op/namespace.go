package op

import "context"

// nsOption configures a Namespace component; see From and MarkOptional.
type nsOption func(*namespaceComponent)

// From overrides the extraction path (default: ns itself). An empty Path
// means "pass the full param through unchanged" (§4.11).
func From(from Path) nsOption {
	return func(n *namespaceComponent) { n.from = from; n.fromSet = true }
}

// MarkOptional makes the namespace a clean no-op when its extraction path
// is absent from every param slot, instead of failing (§4.11, B3).
func MarkOptional() nsOption {
	return func(n *namespaceComponent) { n.optional = true }
}

// namespaceComponent implements §4.11: scope a sub-pipeline under a key
// path, rewriting the child's params/context/errors back into that path on
// return.
type namespaceComponent struct {
	name     string
	ns       Path
	child    Component
	from     Path
	fromSet  bool
	optional bool
}

// Namespace scopes child under ns, extracting its input from the `from`
// path (ns itself by default) and re-nesting its output back under ns
// (§4.11).
func Namespace(name string, ns Path, child Component, opts ...nsOption) Component {
	n := &namespaceComponent{name: name, ns: ns, child: child, from: ns}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *namespaceComponent) Name() string { return n.name }

// Signature is (1, true) by default; if from is explicitly [], Namespace
// passes params through untouched and delegates to the child's arity
// (§4.11).
func (n *namespaceComponent) Signature() Signature {
	if n.fromSet && len(n.from) == 0 {
		return n.child.Signature()
	}
	return Signature{Arity: 1, AcceptsContext: true}
}

func (n *namespaceComponent) Call(ctx context.Context, params Params, cc Context) Result {
	present := len(n.from) == 0
	if !present {
		for _, p := range params {
			if Present(p, n.from) {
				present = true
				break
			}
		}
	}

	if !present {
		if n.optional {
			return NewSuccess(n, params, cc)
		}
		return NewFailure(n, Missing(n, n.from))
	}

	arity := n.child.Signature().Arity
	innerParams := make(Params, len(params))
	for i, p := range params {
		if arity != Unbounded && i >= arity {
			innerParams[i] = p
			continue
		}
		if len(n.from) == 0 {
			innerParams[i] = p
			continue
		}
		v, ok := Dig(p, n.from)
		if !ok {
			v = map[string]Value{}
		}
		innerParams[i] = v
	}

	base := cc
	if len(n.ns) > 0 {
		if key, ok := n.ns[0].(string); ok {
			base = Context{}
			for k, v := range cc {
				if k != key {
					base[k] = v
				}
			}
		}
	}
	nsExisting, _ := Dig(Value(cc), n.ns)
	innerContext := mergeContext(base, Context{})
	if nsMap, ok := asMap(nsExisting); ok {
		for k, v := range nsMap {
			innerContext[k] = v
		}
	} else if len(n.ns) > 0 {
		innerContext = base
	}

	childResult := n.child.Call(ctx, innerParams, innerContext)

	outParams := make(Params, len(params))
	for i, p := range params {
		if arity != Unbounded && i >= arity {
			outParams[i] = p
			continue
		}
		if len(n.from) == 0 {
			outParams[i] = p
			continue
		}
		var inner Value
		if i < len(childResult.Params()) {
			inner = childResult.Params()[i]
		}
		outParams[i] = setPath(p, n.ns, inner)
	}

	mergedNS := deepMerge(nsExisting, Value(childResult.Context()))
	outContext := setPath(Value(cc), n.ns, mergedNS)

	errs := make([]Error, 0, len(childResult.Errors()))
	for _, e := range childResult.Errors() {
		errs = append(errs, e.WithPath(n.ns))
	}

	res := NewSuccess(n, outParams, asContext(outContext))
	return res.ApplyChanges(
		WithErrors(errs),
		WithShortcut(childResult.Shortcut()),
		WithOnSuccess(childResult.OnSuccess()),
		WithOnFailure(childResult.OnFailure()),
	)
}

// asContext coerces a Value known to be map-shaped (or nil) into a Context.
func asContext(v Value) Context {
	if m, ok := asMap(v); ok {
		return Context(m)
	}
	return Context{}
}

// setPath returns a copy of original with value set at the nested path,
// creating intermediate maps as needed and preserving sibling keys at
// every level — the multi-atom generalization of withKeySet used by
// Namespace to re-nest a child's output under ns (§4.11).
func setPath(original Value, path Path, value Value) Value {
	if len(path) == 0 {
		return value
	}
	key, ok := path[0].(string)
	if !ok {
		return value
	}
	var child Value
	if m, ok := asMap(original); ok {
		child = m[key]
	}
	nested := setPath(child, path[1:], value)
	return withKeySet(original, key, nested)
}

// deepMerge combines two values: when both are map-shaped, keys merge
// recursively with b winning conflicts; otherwise b wins outright (nil b
// keeps a). Used to combine a namespace's existing context value with the
// child's freshly returned context (§4.11: "deep-merges successive
// namespaced contexts").
func deepMerge(a, b Value) Value {
	if b == nil {
		return a
	}
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
		if existing, ok := out[k]; ok {
			out[k] = deepMerge(existing, v)
		} else {
			out[k] = v
		}
	}
	return out
}
