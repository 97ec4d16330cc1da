package transaction

import (
	"context"
	"testing"

	"github.com/opflow-io/opflow/pkg/op"
)

func newTestSQLManager(t *testing.T) *SQLManager {
	t.Helper()
	m, err := NewSQLManager(":memory:")
	if err != nil {
		t.Fatalf("open sqlite manager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })

	if _, err := m.Exec(context.Background(), `CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return m
}

func TestSQLManager_CommitsOnSuccess(t *testing.T) {
	m := newTestSQLManager(t)
	ctx := context.Background()

	err := m.Transaction(ctx, true, func(ctx context.Context, scope Scope) error {
		_, execErr := m.Exec(ctx, `INSERT INTO posts (title) VALUES (?)`, "hello")
		return execErr
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	rows, err := m.Query(ctx, `SELECT title FROM posts`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if count != 1 {
		t.Fatalf("expected 1 committed row, got %d", count)
	}
}

func TestSQLManager_RollsBackOnMarkRollback(t *testing.T) {
	m := newTestSQLManager(t)
	ctx := context.Background()

	err := m.Transaction(ctx, true, func(ctx context.Context, scope Scope) error {
		_, execErr := m.Exec(ctx, `INSERT INTO posts (title) VALUES (?)`, "doomed")
		if execErr != nil {
			return execErr
		}
		scope.MarkRollback()
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	rows, err := m.Query(ctx, `SELECT title FROM posts`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if count != 0 {
		t.Fatalf("expected rollback to leave no rows, got %d", count)
	}
}

func TestSQLManager_NestedRequiresNewRollsBackToSavepoint(t *testing.T) {
	m := newTestSQLManager(t)
	ctx := context.Background()

	err := m.Transaction(ctx, true, func(ctx context.Context, scope Scope) error {
		if _, execErr := m.Exec(ctx, `INSERT INTO posts (title) VALUES (?)`, "outer"); execErr != nil {
			return execErr
		}

		innerErr := m.Transaction(ctx, true, func(ctx context.Context, inner Scope) error {
			_, execErr := m.Exec(ctx, `INSERT INTO posts (title) VALUES (?)`, "inner")
			if execErr != nil {
				return execErr
			}
			inner.MarkRollback()
			return nil
		})
		return innerErr
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	rows, err := m.Query(ctx, `SELECT title FROM posts`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if scanErr := rows.Scan(&title); scanErr != nil {
			t.Fatalf("scan: %v", scanErr)
		}
		titles = append(titles, title)
	}
	if len(titles) != 1 || titles[0] != "outer" {
		t.Fatalf("expected only the outer row to survive, got %+v", titles)
	}
}

// TestTransaction_WithSQLManager exercises the Transaction combinator end
// to end against a real SQLite-backed manager.
func TestTransaction_WithSQLManager(t *testing.T) {
	m := newTestSQLManager(t)
	pool := NewPool(1)

	insert := op.FixedCtx("insert_post", 1, func(ctx context.Context, p op.Params, c op.Context) op.Outcome {
		title, _ := p[0].(string)
		if _, err := m.Exec(ctx, `INSERT INTO posts (title) VALUES (?)`, title); err != nil {
			return op.Fail(op.NewError(nil, "db_error", err.Error(), nil, nil))
		}
		return op.Ok(op.Context{"inserted": title})
	})

	txn := Transaction("create_post", m, pool, insert, nil, nil)
	res := txn.Call(WithSyncCallbacks(context.Background(), true), op.Params{"hello world"}, op.Context{})

	if res.Failure() {
		t.Fatalf("expected success, got %+v", res.Errors())
	}

	rows, err := m.Query(context.Background(), `SELECT title FROM posts`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	count := 0
	for rows.Next() {
		count++
	}
	if count != 1 {
		t.Fatalf("expected transaction to have committed the insert, got %d rows", count)
	}
}
