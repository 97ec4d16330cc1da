package op

import "context"

// optionalComponent implements §4.9: success passes through unchanged;
// failure is swallowed but the child's own params are kept (unlike
// Shortcut, which discards everything).
type optionalComponent struct {
	name  string
	child Component
}

// Optional wraps a child so a failure becomes a clean Success carrying the
// child Result's own params (not Optional's input params — a combinator
// child may have accumulated params of its own before failing) and an
// empty context, with all errors dropped (§4.9).
func Optional(name string, child Component) Component {
	return &optionalComponent{name: name, child: child}
}

func (o *optionalComponent) Name() string         { return o.name }
func (o *optionalComponent) Signature() Signature { return o.child.Signature() }

func (o *optionalComponent) Call(ctx context.Context, params Params, cc Context) Result {
	res := o.child.Call(ctx, params, cc)
	if res.Success() {
		return res
	}
	return NewSuccess(o, res.Params(), Context{})
}
