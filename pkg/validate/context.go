package validate

import (
	"context"
	"sort"

	"github.com/opflow-io/opflow/pkg/op"
)

// ContextValidatorConfig configures a ContextValidator component (§4.16).
type ContextValidatorConfig struct {
	// Schema maps a context key to the type expression cfg.Engine checks
	// it against.
	Schema map[string]string
	Engine SchemaEngine
	// Raise, when true, panics with op.OperationFailed instead of
	// returning a Failure Result.
	Raise bool
}

type contextValidatorComponent struct {
	name string
	cfg  ContextValidatorConfig
}

// ContextValidator builds a component schema-checking caller-supplied
// context entries (§4.16). It consumes no positional params.
func ContextValidator(name string, cfg ContextValidatorConfig) op.Component {
	return &contextValidatorComponent{name: name, cfg: cfg}
}

func (c *contextValidatorComponent) Name() string { return c.name }
func (c *contextValidatorComponent) Signature() op.Signature {
	return op.Signature{Arity: 0, AcceptsContext: true}
}

func (c *contextValidatorComponent) Call(ctx context.Context, params op.Params, cc op.Context) op.Result {
	keys := make([]string, 0, len(c.cfg.Schema))
	for k := range c.cfg.Schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	validated := op.Context{}
	var errs []op.Error
	for _, key := range keys {
		value, present := cc[key]
		result := c.cfg.Engine.Try(c.cfg.Schema[key], value, present)
		switch {
		case !present && result.Skip:
			continue
		case result.Err != nil:
			errs = append(errs, op.NewError(c, "invalid", result.Err.Error(), op.Path{key}, nil))
		default:
			validated[key] = result.Value
		}
	}

	if len(errs) > 0 {
		failure := op.NewFailure(c, errs...)
		if c.cfg.Raise {
			panic(op.OperationFailed{Result: failure})
		}
		return failure
	}

	return op.NewSuccess(c, params, validated)
}
