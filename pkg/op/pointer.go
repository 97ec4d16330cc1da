package op

// Pointer is the glossary's "ordered sequence of atoms addressing a value
// inside a nested mapping" — the same shape as Path, reused by Namespace
// (§4.11) and by the lookup package's FindOne/FindMany (§4.13-14).
type Pointer = Path

// asMap recognizes the mapping shapes a Dig step may need to index into:
// a plain map[string]Value, or the Context named type over the same
// underlying representation.
func asMap(v Value) (map[string]Value, bool) {
	switch m := v.(type) {
	case map[string]Value:
		return m, true
	case Context:
		return map[string]Value(m), true
	default:
		return nil, false
	}
}

// asSlice recognizes the sequence shapes a Dig step may need to index
// into: a plain []Value, or the Params named type over the same
// underlying representation.
func asSlice(v Value) ([]Value, bool) {
	switch s := v.(type) {
	case []Value:
		return s, true
	case Params:
		return []Value(s), true
	default:
		return nil, false
	}
}

// Present reports whether path fully resolves inside v — every
// intermediate segment exists and has the shape the next atom expects.
func Present(v Value, path Pointer) bool {
	_, ok := Dig(v, path)
	return ok
}

// Dig walks v following path's atoms (string keys into maps, int indices
// into slices), returning the value found and whether every segment
// resolved. An empty path returns v itself.
func Dig(v Value, path Pointer) (Value, bool) {
	cur := v
	for _, atom := range path {
		switch key := atom.(type) {
		case string:
			m, ok := asMap(cur)
			if !ok {
				return nil, false
			}
			val, ok := m[key]
			if !ok {
				return nil, false
			}
			cur = val
		case int:
			s, ok := asSlice(cur)
			if !ok {
				return nil, false
			}
			if key < 0 || key >= len(s) {
				return nil, false
			}
			cur = s[key]
		default:
			return nil, false
		}
	}
	return cur, true
}

// withKeySet returns a shallow copy of original (if it is map-shaped) with
// key set to value, or a fresh single-key map if original is not
// map-shaped. Used by Namespace and Collection to rebuild a param slot
// around a nested key.
func withKeySet(original Value, key string, value Value) Value {
	out := make(map[string]Value)
	if m, ok := asMap(original); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	out[key] = value
	return out
}

// withoutKey returns a shallow copy of original (if map-shaped) with key
// removed, or an empty map otherwise.
func withoutKey(original Value, key string) Value {
	out := make(map[string]Value)
	if m, ok := asMap(original); ok {
		for k, v := range m {
			if k != key {
				out[k] = v
			}
		}
	}
	return out
}
