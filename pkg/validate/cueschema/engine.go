// Package cueschema is a validate.SchemaEngine backed by cuelang.org/go:
// schemas are CUE expressions, registered once by name and unified against
// each mapping or value Engine is asked to check.
package cueschema

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/opflow-io/opflow/pkg/op"
	"github.com/opflow-io/opflow/pkg/validate"
)

// contextDeltaField is the reserved schema field a registered schema may
// use to declare derived context entries alongside the validated mapping;
// it is stripped from the returned mapping and surfaced as the
// ParamsValidator's context_delta.
const contextDeltaField = "_context"

// Engine implements validate.SchemaEngine over a CUE runtime. Registered
// schemas and compiled type expressions are cached; both are safe for
// concurrent use.
type Engine struct {
	ctx *cue.Context

	mu      sync.Mutex
	schemas map[string]cue.Value
	types   map[string]cue.Value
}

// New returns an Engine with its own CUE runtime.
func New() *Engine {
	return &Engine{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
		types:   make(map[string]cue.Value),
	}
}

// RegisterSchema compiles source as a CUE struct expression and stores it
// under name for later ValidateMapping calls.
func (e *Engine) RegisterSchema(name, source string) error {
	v := e.ctx.CompileString(source)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	e.mu.Lock()
	e.schemas[name] = v
	e.mu.Unlock()
	return nil
}

func (e *Engine) compiledType(typeExpr string) (cue.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.types[typeExpr]; ok {
		return v, nil
	}
	v := e.ctx.CompileString(typeExpr)
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	e.types[typeExpr] = v
	return v, nil
}

// ValidateMapping implements validate.SchemaEngine.
func (e *Engine) ValidateMapping(schema string, mapping op.Value, paramsContext op.Context) (op.Value, op.Context, []op.Error) {
	e.mu.Lock()
	schemaVal, ok := e.schemas[schema]
	e.mu.Unlock()
	if !ok {
		return nil, nil, []op.Error{op.NewError(nil, "schema_not_registered", "no schema registered: "+schema, nil, nil)}
	}

	mappingVal := e.ctx.Encode(mapping)
	unified := schemaVal.Unify(mappingVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, nil, cueErrorsToOpErrors(err)
	}

	var decoded map[string]op.Value
	if err := unified.Decode(&decoded); err != nil {
		return nil, nil, []op.Error{op.NewError(nil, "decode_error", err.Error(), nil, nil)}
	}

	contextDelta := op.Context{}
	if raw, ok := decoded[contextDeltaField]; ok {
		if m, ok := raw.(map[string]op.Value); ok {
			for k, v := range m {
				contextDelta[k] = v
			}
		}
		delete(decoded, contextDeltaField)
	}

	return decoded, contextDelta, nil
}

// Try implements validate.SchemaEngine.
func (e *Engine) Try(typeExpr string, value op.Value, present bool) validate.TryResult {
	typeVal, err := e.compiledType(typeExpr)
	if err != nil {
		return validate.TryResult{Err: err}
	}

	var dataVal cue.Value
	if present {
		dataVal = e.ctx.Encode(value)
	} else {
		dataVal = e.ctx.CompileString("null")
	}

	unified := typeVal.Unify(dataVal)
	verr := unified.Validate(cue.Concrete(true))
	if !present && verr == nil {
		return validate.TryResult{Skip: true}
	}
	if verr != nil {
		return validate.TryResult{Err: formatCUEError(verr)}
	}

	var out op.Value
	if err := unified.Decode(&out); err != nil {
		return validate.TryResult{Err: err}
	}
	return validate.TryResult{Value: out}
}

func cueErrorsToOpErrors(err error) []op.Error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return []op.Error{op.NewError(nil, "invalid", err.Error(), nil, nil)}
	}
	out := make([]op.Error, 0, len(errs))
	for _, e := range errs {
		path := make(op.Path, 0, len(e.Path()))
		for _, p := range e.Path() {
			path = append(path, p)
		}
		out = append(out, op.NewError(nil, "invalid", e.Error(), path, nil))
	}
	return out
}

func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	return fmt.Errorf("%s", errs[0].Error())
}
