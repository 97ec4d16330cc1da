// Package op implements the pipeline runtime of a composable
// business-operation engine: an immutable Result value, the Component
// capability interface with tagged constructors standing in for dynamic
// arity inspection, and the combinator set (Chain, Parallel, Fanout, Split,
// Either, Shortcut, Optional, Collection, Namespace) that wires Components
// into railway-oriented dataflows.
//
// Every combinator is itself a Component, so trees compose without a
// separate "runner" type: build a tree with the combinator constructors and
// call it like any other Component.
package op
