package cueschema

import (
	"fmt"
	"testing"
)

func TestEngine_ValidateMapping_SuccessDecodesFields(t *testing.T) {
	e := New()
	if err := e.RegisterSchema("post", `{title: string, body: string}`); err != nil {
		t.Fatalf("RegisterSchema failed: %v", err)
	}

	validated, delta, errs := e.ValidateMapping("post", map[string]any{"title": "Hi", "body": "world"}, nil)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
	m, ok := validated.(map[string]any)
	if !ok || m["title"] != "Hi" {
		t.Fatalf("expected decoded mapping with title, got %+v", validated)
	}
	if len(delta) != 0 {
		t.Fatalf("expected empty context delta, got %+v", delta)
	}
}

func TestEngine_ValidateMapping_FailureOnTypeMismatch(t *testing.T) {
	e := New()
	if err := e.RegisterSchema("post", `{title: string}`); err != nil {
		t.Fatalf("RegisterSchema failed: %v", err)
	}

	_, _, errs := e.ValidateMapping("post", map[string]any{"title": 42}, nil)
	if len(errs) == 0 {
		t.Fatalf("expected a type-mismatch error")
	}
}

func TestEngine_ValidateMapping_UnknownSchemaReturnsError(t *testing.T) {
	e := New()
	_, _, errs := e.ValidateMapping("nope", map[string]any{}, nil)
	if len(errs) != 1 || errs[0].Code != "schema_not_registered" {
		t.Fatalf("expected schema_not_registered error, got %+v", errs)
	}
}

func TestEngine_Try_SucceedsOnPresentMatchingType(t *testing.T) {
	e := New()
	result := e.Try("int", 7, true)
	if result.Err != nil {
		t.Fatalf("expected success, got %v", result.Err)
	}
	if fmt.Sprint(result.Value) != "7" {
		t.Fatalf("expected decoded value 7, got %+v", result.Value)
	}
}

func TestEngine_Try_FailsOnPresentMismatchedType(t *testing.T) {
	e := New()
	result := e.Try("int", "not-a-number", true)
	if result.Err == nil {
		t.Fatalf("expected type-mismatch error")
	}
}

func TestEngine_Try_SkipsWhenAbsentAndTypeAllowsNull(t *testing.T) {
	e := New()
	result := e.Try("null | string", nil, false)
	if !result.Skip {
		t.Fatalf("expected Skip=true for a nullable type when absent, got %+v", result)
	}
}

func TestEngine_Try_FailsWhenAbsentAndTypeRequiresValue(t *testing.T) {
	e := New()
	result := e.Try("int", nil, false)
	if result.Err == nil {
		t.Fatalf("expected a failure when a required type is absent")
	}
}
