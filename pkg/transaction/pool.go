package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/opflow-io/opflow/pkg/op"
)

// EnvCallbackThreads is the environment variable configuring the
// process-wide async callback pool's size (§6: "CALLBACK_THREADS —
// positive integer, default 1").
const EnvCallbackThreads = "CALLBACK_THREADS"

// Pool is the shared bounded worker pool async on_success callbacks are
// submitted to (§5: "a process-wide worker pool with a fixed thread
// count"). It bounds concurrency with a semaphore and fans submissions out
// through an errgroup, grounded on the teacher's channel-driven dispatch
// in pkg/rop/core but replacing unbounded channel plumbing with
// golang.org/x/sync/errgroup's simpler fan-out/wait shape.
type Pool struct {
	g  *errgroup.Group
	wg sync.WaitGroup
}

// NewPool returns a pool bounded to size concurrent callbacks. size must
// be positive.
func NewPool(size int) *Pool {
	if size <= 0 {
		panic("transaction: pool size must be positive")
	}
	g := &errgroup.Group{}
	g.SetLimit(size)
	return &Pool{g: g}
}

var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
	defaultPoolErr  error
)

// DefaultPool lazily initializes the process-wide pool sized by
// CALLBACK_THREADS, returning the same instance on every subsequent call.
// A Pool has no shutdown: Wait blocks until every submitted callback has
// completed, and nothing cancels or force-stops a running callback.
func DefaultPool() (*Pool, error) {
	defaultPoolOnce.Do(func() {
		n, err := threadsFromEnv()
		if err != nil {
			defaultPoolErr = err
			return
		}
		defaultPool = NewPool(n)
	})
	return defaultPool, defaultPoolErr
}

func threadsFromEnv() (int, error) {
	raw := os.Getenv(EnvCallbackThreads)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("transaction: %s must be a positive integer, got %q", EnvCallbackThreads, raw)
	}
	return n, nil
}

// pendingHandle is the op.PendingCallback a Pool submission returns.
type pendingHandle struct {
	resultCh chan op.Result
}

func (h *pendingHandle) Await() op.Result {
	return <-h.resultCh
}

// Submit runs fn on the pool, bounded by its semaphore, and returns a
// handle that resolves to fn's Result when awaited. A panic inside fn is
// recovered and logged through slog rather than re-raised — an unrecovered
// panic on any goroutine would terminate the whole process, contradicting
// §4.12's "the main pipeline proceeds" guarantee for the async error escape.
func (p *Pool) Submit(fn func() op.Result) op.PendingCallback {
	h := &pendingHandle{resultCh: make(chan op.Result, 1)}
	p.wg.Add(1)
	p.g.Go(func() error {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("async callback panicked",
					slog.String("producer", "transaction.Pool"),
					slog.String("code", "panic"),
					slog.Any("recovered", r))
				h.resultCh <- op.NewFailure(nil, op.NewError(nil, "panic", fmt.Sprint(r), nil, nil))
			}
		}()
		h.resultCh <- fn()
		return nil
	})
	return h
}

// Wait blocks until every callback submitted so far has completed.
func (p *Pool) Wait() {
	p.wg.Wait()
}

type syncCallbacksKey struct{}

// WithSyncCallbacks returns a derived context carrying the sync_callbacks
// flag for its dynamic extent (§5: "with_sync_callbacks(v, thunk) sets the
// flag for the dynamic extent of thunk"). Since Go has no mutable
// thread-locals, the flag rides the context instead: it is visible to
// every Transaction invocation reached through ctx, including nested
// transactions (which read the same flag back out of the context they
// were handed, exactly matching "nested transactions inherit the mode").
func WithSyncCallbacks(ctx context.Context, v bool) context.Context {
	return context.WithValue(ctx, syncCallbacksKey{}, v)
}

// SyncCallbacks reports whether ctx has sync_callbacks set, defaulting to
// false (async) when unset.
func SyncCallbacks(ctx context.Context) bool {
	v, _ := ctx.Value(syncCallbacksKey{}).(bool)
	return v
}
