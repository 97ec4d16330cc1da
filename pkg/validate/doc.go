// Package validate provides thin op.Component adapters (§4.15-4.16) over an
// external SchemaEngine collaborator. Neither adapter implements schema
// semantics itself: spec.md §1 places the validation-schema DSL out of
// core scope, so both adapters only translate a SchemaEngine's verdict into
// the Result shape the rest of the pipeline expects.
package validate
