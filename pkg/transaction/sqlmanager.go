package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

// SQLManager is a DBManager backed by database/sql, implementing nested
// requires_new transactions with SAVEPOINT/RELEASE/ROLLBACK TO — the
// standard SQLite idiom for nested transactions, since SQLite itself has
// no true nested-transaction primitive.
type SQLManager struct {
	db      *sql.DB
	counter uint64
}

// NewSQLManager opens a SQLite-backed manager at dsn (e.g. "file::memory:?cache=shared").
func NewSQLManager(dsn string) (*SQLManager, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("transaction: open sqlite3: %w", err)
	}
	return &SQLManager{db: db}, nil
}

// Close releases the underlying database handle.
func (m *SQLManager) Close() error { return m.db.Close() }

type sqlTxKey struct{}

type sqlTx struct {
	tx *sql.Tx
}

type sqlScope struct {
	mu         sync.Mutex
	rollback   bool
	afterHooks []func()
}

func (s *sqlScope) AfterCommit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterHooks = append(s.afterHooks, fn)
}

func (s *sqlScope) MarkRollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollback = true
}

// Transaction implements DBManager. The outermost call opens a real
// database/sql transaction; any call nested inside it (requiresNew=true)
// opens a SAVEPOINT instead, releasing it on commit or rolling back to it
// on failure, so an inner requires_new failure never unwinds the outer
// transaction.
func (m *SQLManager) Transaction(ctx context.Context, requiresNew bool, fn func(ctx context.Context, scope Scope) error) error {
	outer, hasOuter := ctx.Value(sqlTxKey{}).(*sqlTx)

	if !hasOuter {
		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("transaction: begin: %w", err)
		}
		txHandle := &sqlTx{tx: tx}
		innerCtx := context.WithValue(ctx, sqlTxKey{}, txHandle)

		scope := &sqlScope{}
		if err := fn(innerCtx, scope); err != nil {
			_ = tx.Rollback()
			return err
		}

		scope.mu.Lock()
		rolledBack := scope.rollback
		hooks := append([]func(){}, scope.afterHooks...)
		scope.mu.Unlock()

		if rolledBack {
			return tx.Rollback()
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("transaction: commit: %w", err)
		}
		for _, hook := range hooks {
			hook()
		}
		return nil
	}

	savepoint := fmt.Sprintf("op_sp_%d", atomic.AddUint64(&m.counter, 1))
	if _, err := outer.tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("transaction: savepoint: %w", err)
	}

	scope := &sqlScope{}
	if err := fn(ctx, scope); err != nil {
		_, _ = outer.tx.ExecContext(ctx, "ROLLBACK TO "+savepoint)
		return err
	}

	scope.mu.Lock()
	rolledBack := scope.rollback
	hooks := append([]func(){}, scope.afterHooks...)
	scope.mu.Unlock()

	if rolledBack {
		_, err := outer.tx.ExecContext(ctx, "ROLLBACK TO "+savepoint)
		return err
	}
	if _, err := outer.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("transaction: release savepoint: %w", err)
	}
	for _, hook := range hooks {
		hook()
	}
	return nil
}

// Exec runs a statement against the transaction active in ctx, or plainly
// against the database if no transaction is open.
func (m *SQLManager) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if txHandle, ok := ctx.Value(sqlTxKey{}).(*sqlTx); ok {
		return txHandle.tx.ExecContext(ctx, query, args...)
	}
	return m.db.ExecContext(ctx, query, args...)
}

// Query runs a query against the transaction active in ctx, or plainly
// against the database if no transaction is open.
func (m *SQLManager) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if txHandle, ok := ctx.Value(sqlTxKey{}).(*sqlTx); ok {
		return txHandle.tx.QueryContext(ctx, query, args...)
	}
	return m.db.QueryContext(ctx, query, args...)
}
