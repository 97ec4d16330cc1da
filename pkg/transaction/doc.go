// Package transaction wraps a pipeline step in a database transaction and
// orchestrates its on_success/on_failure side-effect callbacks, dispatched
// either synchronously or on a bounded worker pool.
package transaction
