package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opflow-io/opflow/pkg/op"
)

func TestRun_ResolvesPostAndAuthorAndAssemblesComment(t *testing.T) {
	res := Run(context.Background(), 1, 10, "Great post!")

	assert.False(t, res.Failure(), "expected success, got %+v", res.Errors())

	comment, ok := res.Context()["comment"].(map[string]any)
	assert.True(t, ok, "expected an assembled comment in context")
	assert.Equal(t, 1, comment["post_id"])
	assert.Equal(t, 10, comment["author_id"])
	assert.Equal(t, "Great post!", comment["body"])
}

func TestRun_UnknownPostIsNotFound(t *testing.T) {
	res := Run(context.Background(), 999, 10, "Great post!")

	assert.True(t, res.Failure())
	assert.Equal(t, "not_found", res.Errors()[0].Code)
}

func TestRun_BlankBodyFailsValidation(t *testing.T) {
	res := Run(context.Background(), 1, 10, "")

	assert.True(t, res.Failure())
	assert.Equal(t, "blank", res.Errors()[0].Code)
	assert.Equal(t, "validate_comment", op.Describe(res.Errors()[0].Producer))
}

// TestBatchOfCommentSubmissions re-expresses the teacher's batch
// validate/try/finalize scenario (tests/pipeline_test.go) over a batch of
// comment submissions instead of URLs: each submission is run through the
// same pipeline independently and classified as accepted or rejected.
func TestBatchOfCommentSubmissions(t *testing.T) {
	type submission struct {
		postID   int
		authorID int
		body     string
	}
	submissions := []submission{
		{postID: 1, authorID: 10, body: "Nice writeup!"},
		{postID: 2, authorID: 11, body: "Agreed."},
		{postID: 999, authorID: 10, body: "Broken post reference"},
		{postID: 1, authorID: 999, body: "Broken author reference"},
		{postID: 1, authorID: 10, body: ""},
	}

	accepted, rejected := 0, 0
	for _, s := range submissions {
		res := Run(context.Background(), s.postID, s.authorID, s.body)
		if res.Failure() {
			rejected++
			continue
		}
		accepted++
	}

	assert.Equal(t, len(submissions), accepted+rejected)
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 3, rejected)
}
