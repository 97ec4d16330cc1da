package op

// Pipeline is a fluent builder over Chain, mirroring the teacher's
// Start/Then chain-of-wrappers shape but built around Component instead of
// a generic rop.Result[T]: each call returns a new Pipeline value rather
// than mutating the receiver, so a partially built pipeline can be reused
// as a prefix for more than one continuation.
type Pipeline struct {
	name  string
	steps []Component
}

// NewPipeline starts an empty, named pipeline.
func NewPipeline(name string) *Pipeline {
	return &Pipeline{name: name}
}

// Then appends step to the pipeline and returns the extended Pipeline.
func (p *Pipeline) Then(step Component) *Pipeline {
	steps := make([]Component, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)
	steps = append(steps, step)
	return &Pipeline{name: p.name, steps: steps}
}

// Namespaced appends a Namespace-wrapped step under ns.
func (p *Pipeline) Namespaced(ns Path, step Component, opts ...nsOption) *Pipeline {
	return p.Then(Namespace(p.name+":"+pathLabel(ns), ns, step, opts...))
}

// Optional appends an Optional-wrapped step.
func (p *Pipeline) Optional(step Component) *Pipeline {
	return p.Then(Optional(p.name+":optional", step))
}

// Shortcut appends a Shortcut-wrapped step.
func (p *Pipeline) Shortcut(step Component) *Pipeline {
	return p.Then(Shortcut(p.name+":shortcut", step))
}

// Build collapses the accumulated steps into a single Chain component.
func (p *Pipeline) Build() Component {
	return Chain(p.name, p.steps...)
}

func pathLabel(path Path) string {
	label := ""
	for i, atom := range path {
		if i > 0 {
			label += "."
		}
		switch a := atom.(type) {
		case string:
			label += a
		default:
			label += "_"
		}
	}
	if label == "" {
		label = "ns"
	}
	return label
}
