package transaction

import (
	"context"

	"github.com/opflow-io/opflow/pkg/op"
)

// transactionComponent implements §4.12: wraps one child in a database
// transaction and manages its on_success/on_failure side-effect callbacks.
type transactionComponent struct {
	name      string
	manager   DBManager
	pool      *Pool
	child     op.Component
	onSuccess []op.Component
	onFailure []op.Component
}

// Transaction wraps child in a nested transaction opened on manager.
// onSuccess callbacks run (sync or async, per ctx's WithSyncCallbacks
// flag) after commit in declaration order; onFailure callbacks run
// synchronously after rollback (§4.12).
func Transaction(name string, manager DBManager, pool *Pool, child op.Component, onSuccess, onFailure []op.Component) op.Component {
	return &transactionComponent{
		name:      name,
		manager:   manager,
		pool:      pool,
		child:     child,
		onSuccess: onSuccess,
		onFailure: onFailure,
	}
}

func (t *transactionComponent) Name() string            { return t.name }
func (t *transactionComponent) Signature() op.Signature { return t.child.Signature() }

func (t *transactionComponent) Call(ctx context.Context, params op.Params, cc op.Context) op.Result {
	var childResult op.Result

	err := t.manager.Transaction(ctx, true, func(ctx context.Context, scope Scope) error {
		childResult = t.child.Call(ctx, params, cc)

		switch {
		case childResult.ShortcutActive():
			// commit, no callbacks (§4.12 step 2).
			return nil
		case childResult.Failure():
			scope.MarkRollback()
			return nil
		default:
			scope.AfterCommit(func() {
				childResult = t.dispatchSuccess(ctx, childResult)
			})
			return nil
		}
	})
	if err != nil {
		panic("transaction: " + err.Error())
	}

	if childResult.Failure() && !childResult.ShortcutActive() {
		childResult = childResult.ApplyChanges(op.WithOnFailure(t.runFailureCallbacks(ctx, childResult)))
	}
	return childResult
}

// dispatchSuccess schedules every on_success callback per §4.12 step 4:
// sync mode runs them inline and stores resolved Results; async mode
// submits them to the pool and stores pending handles.
func (t *transactionComponent) dispatchSuccess(ctx context.Context, childResult op.Result) op.Result {
	if len(t.onSuccess) == 0 {
		return childResult
	}

	outcomes := make([]op.CallbackOutcome, 0, len(t.onSuccess))
	for _, cb := range t.onSuccess {
		cb := cb
		if SyncCallbacks(ctx) {
			outcomes = append(outcomes, op.Resolved(invokeOnSuccess(ctx, cb, childResult)))
			continue
		}
		handle := t.pool.Submit(func() op.Result {
			return invokeOnSuccess(ctx, cb, childResult)
		})
		outcomes = append(outcomes, op.Pending(handle))
	}
	return childResult.ApplyChanges(op.WithOnSuccess(outcomes))
}

// runFailureCallbacks implements §4.12's on_failure invocation: always
// synchronous, always after rollback, always in declaration order.
func (t *transactionComponent) runFailureCallbacks(ctx context.Context, childResult op.Result) []op.CallbackOutcome {
	outcomes := make([]op.CallbackOutcome, 0, len(t.onFailure))
	for _, cb := range t.onFailure {
		outcomes = append(outcomes, op.Resolved(invokeOnFailure(ctx, cb, childResult)))
	}
	return outcomes
}

// invokeOnSuccess implements the on_success calling convention of §4.12:
// f(*child_result.params, **child_result.context).
func invokeOnSuccess(ctx context.Context, cb op.Component, childResult op.Result) op.Result {
	return cb.Call(ctx, childResult.Params(), childResult.Context())
}

// invokeOnFailure implements the on_failure calling convention of §4.12:
// a (1, false) callback is the "legacy form" invoked with the whole
// Result as its single param; anything else receives
// f(*params, child_result, **context) — the Result appended as an extra
// trailing param so FixedCtx/Variadic callbacks can still read params and
// context directly.
func invokeOnFailure(ctx context.Context, cb op.Component, childResult op.Result) op.Result {
	sig := cb.Signature()
	if sig.Arity == 1 && !sig.AcceptsContext {
		return cb.Call(ctx, op.Params{childResult}, op.Context{})
	}
	params := append(append(op.Params{}, childResult.Params()...), childResult)
	return cb.Call(ctx, params, childResult.Context())
}
