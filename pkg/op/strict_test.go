package op

import (
	"context"
	"testing"
)

func TestCallStrict_PanicsWithOperationFailedOnFailure(t *testing.T) {
	failing := ContextOnly("failing", func(ctx context.Context, c Context) Outcome {
		return Fail(NewError(nil, "bad", "", nil, nil))
	})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		failed, ok := r.(OperationFailed)
		if !ok {
			t.Fatalf("expected OperationFailed panic value, got %T", r)
		}
		if failed.Result.Success() {
			t.Fatalf("expected the carried Result to report failure")
		}
	}()

	CallStrict(context.Background(), failing, Params{}, Context{})
}

func TestCallStrict_ReturnsResultOnSuccess(t *testing.T) {
	succeeding := ContextOnly("succeeding", func(ctx context.Context, c Context) Outcome {
		return Ok(Context{"k": 1})
	})

	res := CallStrict(context.Background(), succeeding, Params{}, Context{})
	if res.Failure() {
		t.Fatalf("expected success")
	}
}

func TestStrict_WrapsComponentWithRaisingSemantics(t *testing.T) {
	failing := ContextOnly("failing", func(ctx context.Context, c Context) Outcome {
		return Fail(NewError(nil, "bad", "", nil, nil))
	})
	wrapped := Strict("strict_failing", failing)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from wrapped strict component")
		}
	}()
	wrapped.Call(context.Background(), Params{}, Context{})
}
