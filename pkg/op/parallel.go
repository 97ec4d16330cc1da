package op

import "context"

// parallelComponent implements §4.4: distributes params across children
// and collects every error instead of stopping at the first.
type parallelComponent struct {
	name        string
	children    []Component
	packByIndex bool
}

// Parallel distributes input params across children by arity (collecting
// all errors rather than stopping at the first) — §4.4.
func Parallel(name string, children ...Component) Component {
	return &parallelComponent{name: name, children: children}
}

// ParallelPacked is Parallel with the pack_by_index params-accumulation
// mode enabled (§4.4).
func ParallelPacked(name string, children ...Component) Component {
	return &parallelComponent{name: name, children: children, packByIndex: true}
}

func (p *parallelComponent) Name() string         { return p.name }
func (p *parallelComponent) Signature() Signature { return distributionSignature(p.children) }

func (p *parallelComponent) Call(ctx context.Context, params Params, cc Context) Result {
	return distribute(ctx, p, p.children, params, cc, p.packByIndex, false)
}
