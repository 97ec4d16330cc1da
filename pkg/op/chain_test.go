package op

import (
	"context"
	"testing"
)

func fieldOf(p Value, key string) (string, bool) {
	m, ok := p.(map[string]Value)
	if !ok {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}

// validateTitle fails when params[0].title is blank.
func validateTitle(name string) Component {
	return Fixed(name, 1, func(ctx context.Context, p Params) Outcome {
		title, _ := fieldOf(p[0], "title")
		if title == "" {
			return Fail(NewError(nil, "blank", "", Path{Key("title")}, nil))
		}
		return Ok(nil)
	})
}

func TestChain_S1_StopsOnFirstFailure(t *testing.T) {
	enrichCalled := false
	enrich := Fixed("enrich", 1, func(ctx context.Context, p Params) Outcome {
		enrichCalled = true
		return Ok(nil)
	})

	pipeline := Chain("validate_then_enrich", validateTitle("validate"), enrich)

	params := Params{map[string]Value{"title": "", "body": "x"}}
	res := pipeline.Call(context.Background(), params, Context{})

	if res.Success() {
		t.Fatalf("expected failure")
	}
	if enrichCalled {
		t.Fatalf("enrich must not run after validate fails")
	}
	if len(res.Errors()) != 1 || res.Errors()[0].Code != "blank" {
		t.Fatalf("unexpected errors: %+v", res.Errors())
	}
	if len(res.Errors()[0].Path) != 1 || res.Errors()[0].Path[0] != "title" {
		t.Fatalf("unexpected path: %+v", res.Errors()[0].Path)
	}
}

func TestChain_AllSuccess_AccumulatesContext(t *testing.T) {
	step1 := ContextOnly("step1", func(ctx context.Context, c Context) Outcome {
		return Ok(Context{"a": 1})
	})
	step2 := ContextOnly("step2", func(ctx context.Context, c Context) Outcome {
		if _, ok := c["a"]; !ok {
			t.Fatalf("step2 did not see step1's context")
		}
		return Ok(Context{"b": 2})
	})

	pipeline := Chain("two_steps", step1, step2)
	res := pipeline.Call(context.Background(), Params{}, Context{})

	if res.Failure() {
		t.Fatalf("expected success, got errors: %+v", res.Errors())
	}
	if res.Context()["a"] != 1 || res.Context()["b"] != 2 {
		t.Fatalf("expected merged context, got %+v", res.Context())
	}
}

func TestChain_Signature_FirstParamConsumingChild(t *testing.T) {
	noop := ContextOnly("noop", func(ctx context.Context, c Context) Outcome { return Ok(nil) })
	two := Fixed("two", 2, func(ctx context.Context, p Params) Outcome { return Ok(nil) })

	pipeline := Chain("chain", noop, two)
	sig := pipeline.Signature()
	if sig.Arity != 2 || !sig.AcceptsContext {
		t.Fatalf("expected arity 2, accepts_context true, got %+v", sig)
	}
}

func TestChain_EmptyChildrenIsIdentity(t *testing.T) {
	pipeline := Chain("empty")
	params := Params{1, 2}
	res := pipeline.Call(context.Background(), params, Context{"x": 1})

	if res.Failure() {
		t.Fatalf("expected success")
	}
	if len(res.Params()) != 2 {
		t.Fatalf("expected params passed through, got %+v", res.Params())
	}
}
