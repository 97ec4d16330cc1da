package lookup

import (
	"context"
	"sort"

	"github.com/opflow-io/opflow/pkg/op"
)

// By configures the column(s) a FindOne/FindMany lookup resolves against:
// a single column, several columns (multi-column lookup), or a mapping
// from column to the param path it is extracted from (§4.13: "a single
// column, a list of columns ..., or a mapping column->path").
type By struct {
	single  string
	many    []string
	byPath  map[string]op.Pointer
	hasPath bool
}

// Column builds a single-column By.
func Column(name string) By { return By{single: name} }

// Columns builds a multi-column By with one pointer per column, each
// pointer being the column name itself (`with` is not used).
func Columns(names ...string) By { return By{many: names} }

// ColumnPaths builds a multi-column By with an explicit path per column.
func ColumnPaths(byColumn map[string]op.Pointer) By { return By{byPath: byColumn, hasPath: true} }

func (b By) resolve(withKey string) (pointers []op.Pointer, columns []string) {
	switch {
	case b.hasPath:
		columns = make([]string, 0, len(b.byPath))
		for col := range b.byPath {
			columns = append(columns, col)
		}
		sort.Strings(columns)
		pointers = make([]op.Pointer, len(columns))
		for i, col := range columns {
			pointers[i] = b.byPath[col]
		}
		return pointers, columns
	case len(b.many) > 0:
		columns = append([]string{}, b.many...)
		pointers = make([]op.Pointer, len(columns))
		for i, col := range columns {
			pointers[i] = op.Pointer{col}
		}
		return pointers, columns
	case b.single != "":
		return []op.Pointer{{withKey}}, []string{b.single}
	default:
		return []op.Pointer{{withKey}}, []string{"id"}
	}
}

// FindOneConfig configures a FindOne component (§4.13).
type FindOneConfig struct {
	ContextKey string
	Repo       Repository
	Poly       PolymorphicRepository
	With       string
	By         By
	TypePath   op.Pointer
	Nullable   bool
	Omittable  bool
	Skippable  bool
}

type findOneComponent struct {
	name string
	cfg  FindOneConfig
}

// FindOne builds a component resolving a single entity from cfg.Repo (or
// cfg.Poly, for polymorphic dispatch) into context[cfg.ContextKey] (§4.13).
func FindOne(name string, cfg FindOneConfig) op.Component {
	if cfg.With == "" {
		cfg.With = cfg.ContextKey + "_id"
	}
	if len(cfg.TypePath) == 0 {
		cfg.TypePath = op.Pointer{cfg.ContextKey + "_type"}
	}
	return &findOneComponent{name: name, cfg: cfg}
}

func (f *findOneComponent) Name() string { return f.name }
func (f *findOneComponent) Signature() op.Signature {
	return op.Signature{Arity: 1, AcceptsContext: true}
}

func (f *findOneComponent) Call(ctx context.Context, params op.Params, cc op.Context) op.Result {
	if existing, ok := cc[f.cfg.ContextKey]; ok {
		if f.cfg.Nullable || existing != nil {
			return op.NewSuccess(f, params, op.Context{})
		}
	}

	pointers, columns := f.cfg.By.resolve(f.cfg.With)

	var missing []op.Pointer
	for _, p := range pointers {
		if !anyParamHas(params, p) {
			missing = append(missing, p)
		}
	}

	if len(missing) > 0 {
		if f.cfg.Omittable && len(missing) == len(pointers) {
			return op.NewSuccess(f, params, op.Context{})
		}
		if !f.cfg.Omittable {
			errs := make([]op.Error, 0, len(missing))
			for _, p := range missing {
				errs = append(errs, op.Missing(f, op.Path(p)))
			}
			return op.NewFailure(f, errs...)
		}
	}

	values := make([]op.Value, len(pointers))
	allNil := true
	for i, p := range pointers {
		v, _ := digAnyParam(params, p)
		values[i] = v
		if v != nil {
			allNil = false
		}
	}
	if f.cfg.Nullable && allNil {
		return op.NewSuccess(f, params, op.Context{f.cfg.ContextKey: nil})
	}

	repo, errs := f.resolveRepository(params)
	if len(errs) > 0 {
		return op.NewFailure(f, errs...)
	}

	attrs := make(Attrs, len(columns))
	for i, col := range columns {
		attrs[col] = values[i]
	}

	entity, err := repo.GetOne(ctx, attrs)
	if err != nil {
		return op.NewFailure(f, op.NewError(f, "lookup_error", err.Error(), nil, nil))
	}
	if entity == nil {
		if f.cfg.Skippable {
			return op.NewSuccess(f, params, op.Context{})
		}
		errs := make([]op.Error, 0, len(pointers))
		for _, p := range pointers {
			errs = append(errs, op.NotFound(f, op.Path(p)))
		}
		return op.NewFailure(f, errs...)
	}

	return op.NewSuccess(f, params, op.Context{f.cfg.ContextKey: entity})
}

func (f *findOneComponent) resolveRepository(params op.Params) (Repository, []op.Error) {
	if f.cfg.Poly == nil {
		return f.cfg.Repo, nil
	}
	tag, ok := digAnyParam(params, f.cfg.TypePath)
	if !ok {
		return nil, []op.Error{op.Missing(f, op.Path(f.cfg.TypePath))}
	}
	tagStr, _ := tag.(string)
	repo, ok := f.cfg.Poly[tagStr]
	if !ok {
		allowed := make([]string, 0, len(f.cfg.Poly))
		for k := range f.cfg.Poly {
			allowed = append(allowed, k)
		}
		sort.Strings(allowed)
		return nil, []op.Error{op.Included(f, op.Path(f.cfg.TypePath), allowed)}
	}
	return repo, nil
}

func anyParamHas(params op.Params, p op.Pointer) bool {
	for _, param := range params {
		if op.Present(param, p) {
			return true
		}
	}
	return false
}

func digAnyParam(params op.Params, p op.Pointer) (op.Value, bool) {
	for _, param := range params {
		if v, ok := op.Dig(param, p); ok {
			return v, true
		}
	}
	return nil, false
}
