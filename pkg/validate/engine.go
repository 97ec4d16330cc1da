package validate

import "github.com/opflow-io/opflow/pkg/op"

// SchemaEngine is the external collaborator spec.md §1 places out of core
// scope ("the validation-schema DSL (params contracts)"). ParamsValidator
// and ContextValidator are thin adapters over it; neither understands
// schema syntax or type semantics itself.
type SchemaEngine interface {
	// ValidateMapping checks mapping against the named schema, given the
	// pipeline context the mapping is validated alongside (§4.15: "given a
	// mapping and a context"). It returns the validated mapping, any context
	// entries the schema derives alongside it, or validation errors.
	ValidateMapping(schema string, mapping op.Value, paramsContext op.Context) (validated op.Value, contextDelta op.Context, errs []op.Error)

	// Try applies typeExpr to value (§4.16: "type.try(value)"). present
	// reports whether the key existed in the context at all; when it did
	// not, value is the zero Value and the engine decides whether its type
	// accepts absence.
	Try(typeExpr string, value op.Value, present bool) TryResult
}

// TryResult is the verdict ContextValidator uses per schema key.
type TryResult struct {
	// Skip is true when the key was absent and the type accepts absence
	// (§4.16: "If the key is absent AND the try succeeds on the absent
	// value, skip writing").
	Skip bool
	// Value is the (possibly coerced) value to write when Err is nil and
	// Skip is false.
	Value op.Value
	// Err, when non-nil, is the failure to report for this key.
	Err error
}
