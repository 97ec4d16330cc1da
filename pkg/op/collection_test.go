package op

import (
	"context"
	"testing"
)

// validateBody fails when params[0].body is blank.
var validateBody = Fixed("validate_body", 1, func(ctx context.Context, p Params) Outcome {
	body, _ := fieldOf(p[0], "body")
	if body == "" {
		return Fail(NewError(nil, "blank", "", Path{Key("body")}, nil))
	}
	return Ok(nil)
})

// TestCollection_S5_PrefixesErrorsWithKeyAndIndex mirrors the
// Collection(validate, namespace=:comments) concrete scenario.
func TestCollection_S5_PrefixesErrorsWithKeyAndIndex(t *testing.T) {
	coll := Collection("validate_comments", "comments", validateBody)

	params := Params{map[string]Value{
		"comments": []Value{
			map[string]Value{"body": "a"},
			map[string]Value{"body": ""},
		},
	}}

	res := coll.Call(context.Background(), params, Context{})

	if res.Success() {
		t.Fatalf("expected failure")
	}
	if len(res.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %+v", res.Errors())
	}
	e := res.Errors()[0]
	if e.Code != "blank" {
		t.Fatalf("expected blank code, got %s", e.Code)
	}
	wantPath := Path{"comments", 1, "body"}
	if len(e.Path) != len(wantPath) {
		t.Fatalf("expected path %+v, got %+v", wantPath, e.Path)
	}
	for i := range wantPath {
		if e.Path[i] != wantPath[i] {
			t.Fatalf("expected path %+v, got %+v", wantPath, e.Path)
		}
	}
}

// TestCollection_B2_MismatchedSizesUnionKeys verifies B2: iterating over the
// union of keys across mismatched-size collections, with missing entries
// treated as empty.
func TestCollection_B2_MismatchedSizesUnionKeys(t *testing.T) {
	var seen []Value
	capture := Fixed("capture", 1, func(ctx context.Context, p Params) Outcome {
		seen = append(seen, p[0])
		return OkValues([]Value{p[0]}, nil)
	})

	coll := Collection("coll", "items", capture)
	params := Params{
		map[string]Value{"items": []Value{"a", "b", "c"}},
		map[string]Value{"items": []Value{"x"}},
	}
	coll.Call(context.Background(), params, Context{})

	if len(seen) != 3 {
		t.Fatalf("expected 3 iterations (union of keys 0,1,2), got %d calls: %+v", len(seen), seen)
	}
	if seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Fatalf("expected first slot's values per key, got %+v", seen)
	}
}

func TestCollection_PreservesOtherKeysInParamSlot(t *testing.T) {
	passthrough := Fixed("passthrough", 1, func(ctx context.Context, p Params) Outcome {
		return OkValues([]Value{p[0]}, nil)
	})
	coll := Collection("coll", "comments", passthrough)

	params := Params{map[string]Value{
		"title":    "Hi",
		"comments": []Value{"a"},
	}}
	res := coll.Call(context.Background(), params, Context{})

	title, _ := fieldOf(res.Params()[0], "title")
	if title != "Hi" {
		t.Fatalf("expected sibling key preserved, got %+v", res.Params()[0])
	}
}
