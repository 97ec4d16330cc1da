package validate

import (
	"context"

	"github.com/opflow-io/opflow/pkg/op"
)

// ParamsValidatorConfig configures a ParamsValidator component (§4.15).
type ParamsValidatorConfig struct {
	Schema   string
	Engine   SchemaEngine
	Optional bool
}

type paramsValidatorComponent struct {
	name string
	cfg  ParamsValidatorConfig
}

// ParamsValidator builds a component that delegates mapping validation to
// cfg.Engine (§4.15). On success the first param slot is replaced by the
// engine's validated mapping and any context_delta the engine returns is
// merged into the Result's context.
func ParamsValidator(name string, cfg ParamsValidatorConfig) op.Component {
	return &paramsValidatorComponent{name: name, cfg: cfg}
}

func (p *paramsValidatorComponent) Name() string { return p.name }
func (p *paramsValidatorComponent) Signature() op.Signature {
	return op.Signature{Arity: 1, AcceptsContext: true}
}

func (p *paramsValidatorComponent) Call(ctx context.Context, params op.Params, cc op.Context) op.Result {
	var mapping op.Value
	if len(params) > 0 {
		mapping = params[0]
	}

	if p.cfg.Optional && isEmptyMapping(mapping) {
		return op.NewSuccess(p, params, op.Context{})
	}

	validated, delta, errs := p.cfg.Engine.ValidateMapping(p.cfg.Schema, mapping, cc)
	if len(errs) > 0 {
		return op.NewFailure(p, errs...)
	}

	outParams := make(op.Params, len(params))
	copy(outParams, params)
	if len(outParams) > 0 {
		outParams[0] = validated
	} else {
		outParams = op.Params{validated}
	}
	if delta == nil {
		delta = op.Context{}
	}
	return op.NewSuccess(p, outParams, delta)
}

func isEmptyMapping(v op.Value) bool {
	if v == nil {
		return true
	}
	switch m := v.(type) {
	case map[string]op.Value:
		return len(m) == 0
	default:
		return false
	}
}
