package lookup

import (
	"context"

	"github.com/opflow-io/opflow/pkg/op"
)

// Attrs is the column→value mapping a repository lookup is called with.
type Attrs map[string]op.Value

// Repository is the egress interface FindOne/FindMany's non-polymorphic
// configuration requires (§6: "FindOne requires get_one(attrs) -> entity |
// nil").
type Repository interface {
	GetOne(ctx context.Context, attrs Attrs) (op.Value, error)
	GetMany(ctx context.Context, attrs Attrs) ([]op.Value, error)
}

// PolymorphicRepository maps a string type tag to the Repository that
// serves it (§4.13: "repository: ... a mapping from type-tag (string) to
// such objects (polymorphic)").
type PolymorphicRepository map[string]Repository

// MemoryRepository is a dependency-free Repository backed by an in-memory
// slice, useful for tests and the demo CLI: it scans its rows and matches
// every requested attribute exactly.
type MemoryRepository struct {
	rows []Attrs
}

// NewMemoryRepository returns a repository over the given rows.
func NewMemoryRepository(rows ...Attrs) *MemoryRepository {
	return &MemoryRepository{rows: rows}
}

func matches(row Attrs, attrs Attrs) bool {
	for k, v := range attrs {
		if row[k] != v {
			return false
		}
	}
	return true
}

func (m *MemoryRepository) GetOne(ctx context.Context, attrs Attrs) (op.Value, error) {
	for _, row := range m.rows {
		if matches(row, attrs) {
			return row, nil
		}
	}
	return nil, nil
}

func matchesMany(row Attrs, attrs Attrs) bool {
	for k, v := range attrs {
		ids, isList := v.([]op.Value)
		if !isList {
			if row[k] != v {
				return false
			}
			continue
		}
		found := false
		for _, id := range ids {
			if row[k] == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *MemoryRepository) GetMany(ctx context.Context, attrs Attrs) ([]op.Value, error) {
	var out []op.Value
	for _, row := range m.rows {
		if matchesMany(row, attrs) {
			out = append(out, row)
		}
	}
	return out, nil
}
