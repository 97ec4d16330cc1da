package op

import (
	"context"
	"fmt"
)

// OperationFailed is the panic value raised by CallStrict when a
// component's Result reports failure — category 3 of the three-way error
// split in §7. It carries the full Result so a recovering caller can
// inspect errors, params, and context.
type OperationFailed struct {
	Result Result
}

func (e OperationFailed) Error() string {
	return fmt.Sprintf("op: operation %q failed with %d error(s)", componentName(e.Result.Operation()), len(e.Result.Errors()))
}

func componentName(c Component) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name()
}

// CallStrict runs c and panics with OperationFailed(result) if the Result
// reports failure; otherwise it returns the (successful) Result, mirroring
// the raising entry point described in §4.17.
func CallStrict(ctx context.Context, c Component, params Params, cc Context) Result {
	res := c.Call(ctx, params, cc)
	if res.Failure() {
		panic(OperationFailed{Result: res})
	}
	return res
}

// Strict wraps c so every invocation goes through CallStrict — useful when
// embedding a component inside code that wants raising semantics without
// calling CallStrict at every call site.
func Strict(name string, child Component) Component {
	return &strictComponent{name: name, child: child}
}

type strictComponent struct {
	name  string
	child Component
}

func (s *strictComponent) Name() string         { return s.name }
func (s *strictComponent) Signature() Signature { return s.child.Signature() }

func (s *strictComponent) Call(ctx context.Context, params Params, cc Context) Result {
	return CallStrict(ctx, s.child, params, cc)
}
