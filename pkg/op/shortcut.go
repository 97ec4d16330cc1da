package op

import "context"

// shortcutComponent implements §4.8: a successful child marks early exit
// for the enclosing Chain/Split; a failing child is swallowed entirely so
// the enclosing combinator can continue as if nothing happened.
type shortcutComponent struct {
	name  string
	child Component
}

// Shortcut wraps a child so that success sets the Result's shortcut flag
// (causing an enclosing Chain or Split to exit without invoking later
// steps) while failure is discarded as a true no-op — an empty Result
// with no params/context delta, so a Chain's Merge rules leave its
// accumulator untouched (§4.8).
func Shortcut(name string, child Component) Component {
	return &shortcutComponent{name: name, child: child}
}

func (s *shortcutComponent) Name() string         { return s.name }
func (s *shortcutComponent) Signature() Signature { return s.child.Signature() }

func (s *shortcutComponent) Call(ctx context.Context, params Params, cc Context) Result {
	res := s.child.Call(ctx, params, cc)
	if res.Success() {
		return res.ApplyChanges(WithShortcut(s))
	}
	return Empty(s)
}
