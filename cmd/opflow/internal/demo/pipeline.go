// Package demo wires lookup, transaction, and core combinators into a
// single runnable business operation — "create a comment on a post" — the
// same role the teacher's examples/lite_examples/main.go plays: a complete,
// runnable demonstration of the library rather than a test fixture.
package demo

import (
	"context"
	"fmt"

	"github.com/opflow-io/opflow/pkg/lookup"
	"github.com/opflow-io/opflow/pkg/op"
	"github.com/opflow-io/opflow/pkg/transaction"
)

// seedPosts and seedAuthors build the in-memory repositories the demo pipeline
// resolves against.
func seedPosts() *lookup.MemoryRepository {
	return lookup.NewMemoryRepository(
		lookup.Attrs{"id": 1, "title": "Hello, opflow"},
		lookup.Attrs{"id": 2, "title": "Composable pipelines"},
	)
}

func seedAuthors() *lookup.MemoryRepository {
	return lookup.NewMemoryRepository(
		lookup.Attrs{"id": 10, "email": "ada@example.com"},
		lookup.Attrs{"id": 11, "email": "grace@example.com"},
	)
}

func validateComment() op.Component {
	var self op.Component
	self = op.FixedCtx("validate_comment", 1, func(_ context.Context, p op.Params, _ op.Context) op.Outcome {
		m, _ := p[0].(map[string]op.Value)
		body, _ := m["body"].(string)
		if body == "" {
			return op.Fail(op.NewError(self, "blank", "comment body must not be empty", op.Path{"body"}, nil))
		}
		return op.OkValues([]op.Value{m}, op.Context{"length": len(body)})
	})
	return self
}

func assembleComment() op.Component {
	return op.FixedCtx("assemble_comment", 1, func(_ context.Context, p op.Params, cc op.Context) op.Outcome {
		m, _ := p[0].(map[string]op.Value)
		comment, _ := m["comment"].(map[string]op.Value)

		post, _ := cc["post"].(lookup.Attrs)
		author, _ := cc["author"].(lookup.Attrs)

		return op.Ok(op.Context{"comment": map[string]op.Value{
			"post_id":   post["id"],
			"author_id": author["id"],
			"body":      comment["body"],
		}})
	})
}

// CreateCommentPipeline builds the "create a comment on a post" operation:
// resolve the target post and author by id, validate the comment body
// under its own namespace, assemble the final record, and commit the whole
// thing inside a Transaction with a logging on_success callback.
func CreateCommentPipeline() op.Component {
	findPost := lookup.FindOne("find_post", lookup.FindOneConfig{
		ContextKey: "post",
		Repo:       seedPosts(),
	})
	findAuthor := lookup.FindOne("find_author", lookup.FindOneConfig{
		ContextKey: "author",
		Repo:       seedAuthors(),
	})

	body := op.NewPipeline("create_comment_on_post").
		Then(findPost).
		Then(findAuthor).
		Namespaced(op.Path{"comment"}, validateComment()).
		Then(assembleComment()).
		Build()

	manager := transaction.NewMemoryManager()
	pool := transaction.NewPool(4)

	logCreated := op.ContextOnly("log_comment_created", func(_ context.Context, cc op.Context) op.Outcome {
		fmt.Printf("comment created: %+v\n", cc["comment"])
		return op.Ok(op.Context{})
	})

	return transaction.Transaction("create_comment_tx", manager, pool,
		body, []op.Component{logCreated}, nil)
}

// Run invokes the pipeline with a sample payload and returns the Result.
// Callbacks run synchronously so the demo's output is deterministic.
func Run(ctx context.Context, postID, authorID int, body string) op.Result {
	ctx = transaction.WithSyncCallbacks(ctx, true)
	pipeline := CreateCommentPipeline()
	params := op.Params{map[string]op.Value{
		"post_id":   postID,
		"author_id": authorID,
		"comment":   map[string]op.Value{"body": body},
	}}
	return pipeline.Call(ctx, params, op.Context{})
}
