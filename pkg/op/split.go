package op

import "context"

// splitComponent implements §4.6: the same params-distribution as
// Parallel, but fails fast on the first child failure or shortcut.
type splitComponent struct {
	name        string
	children    []Component
	packByIndex bool
}

// Split distributes input params across children by arity, identically to
// Parallel, but stops at the first failure or shortcut instead of
// collecting every error (§4.6).
func Split(name string, children ...Component) Component {
	return &splitComponent{name: name, children: children}
}

// SplitPacked is Split with the pack_by_index params-accumulation mode
// enabled.
func SplitPacked(name string, children ...Component) Component {
	return &splitComponent{name: name, children: children, packByIndex: true}
}

func (s *splitComponent) Name() string         { return s.name }
func (s *splitComponent) Signature() Signature { return distributionSignature(s.children) }

func (s *splitComponent) Call(ctx context.Context, params Params, cc Context) Result {
	return distribute(ctx, s, s.children, params, cc, s.packByIndex, true)
}
