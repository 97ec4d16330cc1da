package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/opflow-io/opflow/pkg/op"
)

// fakeEngine is a SchemaEngine test double that validates a single
// required key without pulling in cuelang.org/go.
type fakeEngine struct {
	requireKey  string
	deltaKey    string
	deltaValue  op.Value
	typeOK      map[string]bool // keyed by typeExpr, value present in map means "succeeds when present"
	okOnAbsent  map[string]bool
}

func (f *fakeEngine) ValidateMapping(schema string, mapping op.Value, paramsContext op.Context) (op.Value, op.Context, []op.Error) {
	m, _ := mapping.(map[string]op.Value)
	if _, ok := m[f.requireKey]; !ok {
		return nil, nil, []op.Error{op.Missing(nil, op.Path{f.requireKey})}
	}
	delta := op.Context{}
	if f.deltaKey != "" {
		delta[f.deltaKey] = f.deltaValue
	}
	return m, delta, nil
}

func (f *fakeEngine) Try(typeExpr string, value op.Value, present bool) TryResult {
	if !present {
		if f.okOnAbsent[typeExpr] {
			return TryResult{Skip: true}
		}
		return TryResult{Err: errors.New("required")}
	}
	if !f.typeOK[typeExpr] || !matchesGoType(typeExpr, value) {
		return TryResult{Err: errors.New("type mismatch: " + typeExpr)}
	}
	return TryResult{Value: value}
}

// matchesGoType is the fake engine's stand-in for real type-checking:
// "int"-rooted expressions expect a Go int, "string"-rooted expect a
// string.
func matchesGoType(typeExpr string, value op.Value) bool {
	switch {
	case len(typeExpr) >= 3 && typeExpr[:3] == "int":
		_, ok := value.(int)
		return ok
	case len(typeExpr) >= 6 && typeExpr[:6] == "string":
		_, ok := value.(string)
		return ok
	default:
		return true
	}
}

func TestParamsValidator_SuccessReplacesFirstSlotAndMergesDelta(t *testing.T) {
	engine := &fakeEngine{requireKey: "title", deltaKey: "validated_at", deltaValue: "now"}
	v := ParamsValidator("validate_post", ParamsValidatorConfig{Schema: "post", Engine: engine})

	params := op.Params{map[string]op.Value{"title": "Hello"}}
	res := v.Call(context.Background(), params, op.Context{})

	if res.Failure() {
		t.Fatalf("expected success, got %+v", res.Errors())
	}
	if res.Context()["validated_at"] != "now" {
		t.Fatalf("expected context_delta merged, got %+v", res.Context())
	}
}

func TestParamsValidator_SchemaFailurePropagates(t *testing.T) {
	engine := &fakeEngine{requireKey: "title"}
	v := ParamsValidator("validate_post", ParamsValidatorConfig{Schema: "post", Engine: engine})

	res := v.Call(context.Background(), op.Params{map[string]op.Value{}}, op.Context{})
	if res.Success() {
		t.Fatalf("expected failure")
	}
	if res.Errors()[0].Code != "missing" {
		t.Fatalf("expected missing error, got %+v", res.Errors())
	}
}

func TestParamsValidator_OptionalSkipsOnEmptyMapping(t *testing.T) {
	engine := &fakeEngine{requireKey: "title"}
	v := ParamsValidator("validate_post", ParamsValidatorConfig{Schema: "post", Engine: engine, Optional: true})

	res := v.Call(context.Background(), op.Params{map[string]op.Value{}}, op.Context{})
	if res.Failure() {
		t.Fatalf("expected success on optional empty mapping, got %+v", res.Errors())
	}
}

func TestParamsValidator_OptionalStillValidatesNonEmptyMapping(t *testing.T) {
	engine := &fakeEngine{requireKey: "title"}
	v := ParamsValidator("validate_post", ParamsValidatorConfig{Schema: "post", Engine: engine, Optional: true})

	res := v.Call(context.Background(), op.Params{map[string]op.Value{"body": "x"}}, op.Context{})
	if res.Success() {
		t.Fatalf("expected failure since a non-empty mapping is still validated")
	}
}
