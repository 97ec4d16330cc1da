package op

import "fmt"

// Path is an ordered sequence of atoms (string keys or non-negative int
// indices) denoting the location of an Error, or the location a Pointer
// addresses, inside a nested Params/Context structure.
type Path []Value

// Key returns a string path atom. Present for readability at call sites
// (Path{Key("email")} reads better than Path{"email"}).
func Key(name string) Value { return name }

// Index returns an integer path atom.
func Index(i int) Value { return i }

// Error is a structured validation/operation failure (§3). Either Code or
// Message must be set (both may be).
type Error struct {
	Producer Component
	Code     string
	Message  string
	Path     Path
	Tokens   map[string]Value
}

// NewError constructs an Error, enforcing the "code or message" invariant.
// A violation is a programming error (§7 category 2) and panics rather
// than producing a malformed Result.
func NewError(producer Component, code, message string, path Path, tokens map[string]Value) Error {
	if code == "" && message == "" {
		panic("op: Error requires a code or a message")
	}
	return Error{Producer: producer, Code: code, Message: message, Path: path, Tokens: tokens}
}

// Missing builds the well-known "missing" error used by Namespace,
// FindOne, and FindMany when a required path is absent.
func Missing(producer Component, path Path) Error {
	return Error{Producer: producer, Code: "missing", Path: path}
}

// NotFound builds the well-known "not_found" error FindOne/FindMany
// produce when a repository lookup comes back empty.
func NotFound(producer Component, path Path) Error {
	return Error{Producer: producer, Code: "not_found", Path: path}
}

// Included builds the "included" error FindOne/FindMany produce for an
// unrecognized polymorphic type tag.
func Included(producer Component, path Path, allowed []string) Error {
	tokens := map[string]Value{"allowed_values": allowed}
	return Error{Producer: producer, Code: "included", Path: path, Tokens: tokens}
}

// Error implements the error interface so an Error can be returned,
// wrapped, or joined using the standard library's error machinery.
func (e Error) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Message != "":
		return e.Message
	default:
		return e.Code
	}
}

// WithPath returns a copy of e with prefix prepended to its existing Path,
// the operation Namespace (§4.11, P8) and Collection (§4.10) use to thread
// nesting into error locations.
func (e Error) WithPath(prefix Path) Error {
	next := e
	next.Path = append(append(Path{}, prefix...), e.Path...)
	return next
}
