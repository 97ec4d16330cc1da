package op

import (
	"fmt"
	"strings"
)

// Describe renders a minimal one-line label for a component tree — enough
// to tell which component in a chain failed, not a pretty-printing DSL
// (spec.md places that out of scope). It is diagnostic labelling only,
// used by cmd/opflow and tests; nothing in the combinator algebra consults
// it. Combinators with multiple children render as
// name:kind(child, child, ...); single-child wrappers render as
// name:kind(child) (namespace and collection add their path or key in
// brackets after kind); a leaf renders as its own Name().
func Describe(c Component) string {
	if c == nil {
		return "<nil>"
	}

	switch t := c.(type) {
	case *chainComponent:
		return describeMulti(t.name, "chain", t.children)
	case *parallelComponent:
		return describeMulti(t.name, "parallel", t.children)
	case *fanoutComponent:
		return describeMulti(t.name, "fanout", t.children)
	case *splitComponent:
		return describeMulti(t.name, "split", t.children)
	case *eitherComponent:
		return describeMulti(t.name, "either", t.children)
	case *namespaceComponent:
		return fmt.Sprintf("%s:namespace[%s](%s)", t.name, pathString(t.ns), Describe(t.child))
	case *collectionComponent:
		return fmt.Sprintf("%s:collection[%s](%s)", t.name, t.key, Describe(t.child))
	case *optionalComponent:
		return fmt.Sprintf("%s:optional(%s)", t.name, Describe(t.child))
	case *shortcutComponent:
		return fmt.Sprintf("%s:shortcut(%s)", t.name, Describe(t.child))
	case *strictComponent:
		return fmt.Sprintf("%s:strict(%s)", t.name, Describe(t.child))
	default:
		return c.Name()
	}
}

func describeMulti(name, kind string, children []Component) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = Describe(child)
	}
	return fmt.Sprintf("%s:%s(%s)", name, kind, strings.Join(parts, ", "))
}

func pathString(p Path) string {
	parts := make([]string, len(p))
	for i, atom := range p {
		parts[i] = fmt.Sprint(atom)
	}
	return strings.Join(parts, ".")
}
