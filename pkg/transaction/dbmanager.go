package transaction

import (
	"context"
	"sync"
)

// Scope is what a DBManager hands the wrapped function: a place to
// register after-commit hooks and a rollback-signalling primitive (§6,
// "DB transaction interface (egress)").
type Scope interface {
	// AfterCommit registers fn to run once this scope has committed. Hooks
	// run in registration order. For a scope nested inside another, they
	// run as soon as the nested scope itself completes; they do not wait
	// for the enclosing transaction to commit.
	AfterCommit(fn func())
	// MarkRollback signals that the scope should roll back instead of
	// committing, without the wrapped function itself returning an error.
	MarkRollback()
}

// DBManager is the external DB transaction manager collaborator (§6):
// `transaction(requires_new=true, fn)`. It owns commit/rollback and running
// the after-commit hooks fn registered on its Scope; Transaction decides
// *how* each hook dispatches (sync vs the worker pool), not the manager.
type DBManager interface {
	Transaction(ctx context.Context, requiresNew bool, fn func(ctx context.Context, scope Scope) error) error
}

type memoryScope struct {
	mu         sync.Mutex
	rollback   bool
	afterHooks []func()
}

func (s *memoryScope) AfterCommit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterHooks = append(s.afterHooks, fn)
}

func (s *memoryScope) MarkRollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollback = true
}

// MemoryManager is a dependency-free DBManager for tests and examples: it
// has no real store to roll back, but honors the requires_new/rollback/
// after-commit contract so callers exercising Transaction don't need a
// real database.
type MemoryManager struct {
	mu    sync.Mutex
	depth int
}

// NewMemoryManager returns a ready-to-use in-memory transaction manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{}
}

func (m *MemoryManager) Transaction(ctx context.Context, requiresNew bool, fn func(ctx context.Context, scope Scope) error) error {
	m.mu.Lock()
	m.depth++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.depth--
		m.mu.Unlock()
	}()

	scope := &memoryScope{}
	if err := fn(ctx, scope); err != nil {
		return err
	}

	scope.mu.Lock()
	rolledBack := scope.rollback
	hooks := append([]func(){}, scope.afterHooks...)
	scope.mu.Unlock()

	if rolledBack {
		return nil
	}
	for _, hook := range hooks {
		hook()
	}
	return nil
}

