package lookup

import (
	"context"
	"sort"

	"github.com/opflow-io/opflow/pkg/op"
)

// FindManyConfig configures a FindMany component (§4.14).
type FindManyConfig struct {
	ContextKey string
	Repo       Repository
	Poly       PolymorphicRepository
	With       string
	By         By
	TypePath   op.Pointer
	Nullable   bool
	Omittable  bool
}

type reference struct {
	path op.Pointer
	id   op.Value
}

type findManyComponent struct {
	name string
	cfg  FindManyConfig
}

// FindMany builds a component resolving a set of entities referenced from
// params into context[cfg.ContextKey] (§4.14). Unlike FindOne it walks
// nested arrays under the lookup path, flattening and deduplicating ids
// before calling the repository.
func FindMany(name string, cfg FindManyConfig) op.Component {
	if cfg.With == "" {
		cfg.With = singularize(cfg.ContextKey) + "_ids"
	}
	if len(cfg.TypePath) == 0 {
		cfg.TypePath = op.Pointer{cfg.ContextKey + "_type"}
	}
	return &findManyComponent{name: name, cfg: cfg}
}

func singularize(key string) string {
	if len(key) > 1 && key[len(key)-1] == 's' {
		return key[:len(key)-1]
	}
	return key
}

func (f *findManyComponent) Name() string { return f.name }
func (f *findManyComponent) Signature() op.Signature {
	return op.Signature{Arity: 1, AcceptsContext: true}
}

func (f *findManyComponent) Call(ctx context.Context, params op.Params, cc op.Context) op.Result {
	if existing, ok := cc[f.cfg.ContextKey]; ok && existing != nil {
		return op.NewSuccess(f, params, op.Context{})
	}

	pointers, columns := f.cfg.By.resolve(f.cfg.With)

	var allRefs []reference
	var missing []op.Pointer
	for _, p := range pointers {
		refs, found := collectReferences(params, p)
		if !found {
			missing = append(missing, p)
			continue
		}
		allRefs = append(allRefs, refs...)
	}

	if len(missing) == len(pointers) && f.cfg.Omittable {
		return op.NewSuccess(f, params, op.Context{})
	}
	if len(missing) > 0 {
		errs := make([]op.Error, 0, len(missing))
		for _, p := range missing {
			errs = append(errs, op.Missing(f, op.Path(p)))
		}
		return op.NewFailure(f, errs...)
	}

	ids := dedupe(filterNullable(allRefs, f.cfg.Nullable))
	if len(ids) == 0 {
		if f.cfg.Omittable {
			return op.NewSuccess(f, params, op.Context{})
		}
	}

	repo, errs := f.resolveRepository(params)
	if len(errs) > 0 {
		return op.NewFailure(f, errs...)
	}

	attrs := make(Attrs, len(columns))
	attrs[firstOr(columns, "id")] = ids

	entities, err := repo.GetMany(ctx, attrs)
	if err != nil {
		return op.NewFailure(f, op.NewError(f, "lookup_error", err.Error(), nil, nil))
	}

	found := make(map[op.Value]bool, len(entities))
	for _, e := range entities {
		found[idOf(e, firstOr(columns, "id"))] = true
	}

	var notFound []op.Error
	for _, ref := range allRefs {
		if ref.id == nil {
			continue
		}
		if !found[ref.id] {
			notFound = append(notFound, op.NotFound(f, op.Path(ref.path)))
		}
	}
	if len(notFound) > 0 {
		return op.NewFailure(f, notFound...)
	}

	return op.NewSuccess(f, params, op.Context{f.cfg.ContextKey: entities})
}

func (f *findManyComponent) resolveRepository(params op.Params) (Repository, []op.Error) {
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

// collectReferences walks path through every param slot, recursing through
// any array found at an intermediate position (not just at the final leaf)
// and emitting one reference per leaf, with each array index appended to
// its path as it is crossed, per §4.14: "the engine walks the nested
// structure and emits one Reference per leaf (with path including array
// indices)".
func collectReferences(params op.Params, path op.Pointer) ([]reference, bool) {
	var refs []reference
	found := false
	for _, param := range params {
		r, ok := collectFromValue(param, op.Pointer{}, path)
		if !ok {
			continue
		}
		found = true
		refs = append(refs, r...)
	}
	return refs, found
}

// collectFromValue walks remaining through v, extending consumedPath with
// every atom and array index crossed. A string atom landing on an array
// (rather than a map) distributes across the array's elements instead of
// failing, recursing into each with the same remaining path; a slice found
// once remaining is exhausted is itself flattened into one reference per
// element. ok is false only when the pointer's structure is genuinely
// absent from v (a missing key or an out-of-range index), never merely
// because an intermediate array happened to be empty.
func collectFromValue(v op.Value, consumedPath op.Pointer, remaining op.Pointer) ([]reference, bool) {
	if len(remaining) == 0 {
		return flattenLeaf(v, consumedPath), true
	}

	atom, rest := remaining[0], remaining[1:]

	switch key := atom.(type) {
	case string:
		if m, ok := asMapValue(v); ok {
			val, ok := m[key]
			if !ok {
				return nil, false
			}
			return collectFromValue(val, append(append(op.Pointer{}, consumedPath...), key), rest)
		}
		if s, ok := asSliceValue(v); ok {
			if len(s) == 0 {
				return nil, true
			}
			var refs []reference
			resolvedAny := false
			for i, item := range s {
				itemPath := append(append(op.Pointer{}, consumedPath...), i)
				r, ok := collectFromValue(item, itemPath, remaining)
				if ok {
					resolvedAny = true
					refs = append(refs, r...)
				}
			}
			return refs, resolvedAny
		}
		return nil, false
	case int:
		s, ok := asSliceValue(v)
		if !ok || key < 0 || key >= len(s) {
			return nil, false
		}
		return collectFromValue(s[key], append(append(op.Pointer{}, consumedPath...), key), rest)
	default:
		return nil, false
	}
}

// flattenLeaf fully flattens a leaf value found at the end of a lookup
// pointer: a leaf array is itself recursed into element by element (an
// element that is again an array keeps flattening), so every emitted
// reference's id is a scalar — a doubly-nested leaf array never reaches
// dedupe/found as an unhashable []op.Value map key.
func flattenLeaf(v op.Value, path op.Pointer) []reference {
	list, isList := v.([]op.Value)
	if !isList {
		return []reference{{path: path, id: v}}
	}
	refs := make([]reference, 0, len(list))
	for i, item := range list {
		itemPath := append(append(op.Pointer{}, path...), i)
		refs = append(refs, flattenLeaf(item, itemPath)...)
	}
	return refs
}

// asMapValue and asSliceValue mirror op's unexported asMap/asSlice — the
// same mapping/sequence shapes a Pointer step may need to index into, but
// reimplemented here since collectFromValue needs to recurse into
// intermediate positions that op.Dig's stdlib-only walk does not expose.
func asMapValue(v op.Value) (map[string]op.Value, bool) {
	switch m := v.(type) {
	case map[string]op.Value:
		return m, true
	case op.Context:
		return map[string]op.Value(m), true
	default:
		return nil, false
	}
}

func asSliceValue(v op.Value) ([]op.Value, bool) {
	switch s := v.(type) {
	case []op.Value:
		return s, true
	case op.Params:
		return []op.Value(s), true
	default:
		return nil, false
	}
}

func filterNullable(refs []reference, nullable bool) []reference {
	if !nullable {
		return refs
	}
	out := make([]reference, 0, len(refs))
	for _, r := range refs {
		if r.id != nil {
			out = append(out, r)
		}
	}
	return out
}

// dedupe implements B4: repeated ids are deduplicated before the
// repository call, preserving first-seen order.
func dedupe(refs []reference) []op.Value {
	seen := make(map[op.Value]bool, len(refs))
	out := make([]op.Value, 0, len(refs))
	for _, r := range refs {
		if r.id == nil || seen[r.id] {
			continue
		}
		seen[r.id] = true
		out = append(out, r.id)
	}
	return out
}

func firstOr(columns []string, fallback string) string {
	if len(columns) > 0 {
		return columns[0]
	}
	return fallback
}

func idOf(entity op.Value, column string) op.Value {
	if m, ok := entity.(Attrs); ok {
		return m[column]
	}
	if m, ok := entity.(map[string]op.Value); ok {
		return m[column]
	}
	return nil
}
