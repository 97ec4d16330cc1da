package op

import "sort"

// OrderedMap is a symbol-keyed, insertion-order-preserving collection.
// Go's map[string]Value has no deterministic iteration order; spec.md's
// Collection combinator depends on iteration order for its keyset union
// (§4.10, design notes §9: "pick an order-preserving mapping for
// deterministic tests"), so mapping-shaped collections that need ordering
// guarantees should be built with OrderedMap instead of a bare map.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: map[string]Value{}}
}

// Set inserts or updates key, appending it to the key order the first time
// it is seen.
func (m *OrderedMap) Set(key string, v Value) *OrderedMap {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Get returns the value at key and whether it was present.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return append([]string{}, m.keys...)
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int { return len(m.keys) }

// entry is one (key, value) pair of a normalized collection, where key is
// either an int (sequence) or a string (mapping).
type entry struct {
	key   Value
	value Value
}

// toEntries normalizes any of the collection shapes Collection accepts —
// []Value/Params (sequence, int keys), *OrderedMap (mapping, ordered
// string keys), or map[string]Value (mapping, keys sorted for
// determinism since Go gives no ordering guarantee) — into an ordered
// entry list. Anything else, including nil, normalizes to an empty
// collection (§4.10: "preserve missing entries as empty").
func toEntries(v Value) []entry {
	switch vv := v.(type) {
	case []Value:
		out := make([]entry, len(vv))
		for i, item := range vv {
			out[i] = entry{key: i, value: item}
		}
		return out
	case Params:
		return toEntries([]Value(vv))
	case *OrderedMap:
		out := make([]entry, 0, vv.Len())
		for _, k := range vv.Keys() {
			val, _ := vv.Get(k)
			out = append(out, entry{key: k, value: val})
		}
		return out
	case map[string]Value:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			out = append(out, entry{key: k, value: vv[k]})
		}
		return out
	default:
		return nil
	}
}

// lookupEntry finds the value for key within entries, by equality.
func lookupEntry(entries []entry, key Value) (Value, bool) {
	for _, e := range entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// unionKeys builds the ordered union of keys across sources: the first
// non-empty source seeds the order, and keys new to later sources are
// appended in their own relative order (§4.10: "the iteration keyset is
// the union of non-empty keysets ... ordering follows the first non-empty
// source").
func unionKeys(sources [][]entry) []Value {
	seen := make(map[Value]bool)
	var keys []Value
	for _, src := range sources {
		for _, e := range src {
			if !seen[e.key] {
				seen[e.key] = true
				keys = append(keys, e.key)
			}
		}
	}
	return keys
}

// allInt reports whether every key in keys is an int, meaning the
// collection should be rebuilt as a sequence rather than a mapping.
func allInt(keys []Value) bool {
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if _, ok := k.(int); !ok {
			return false
		}
	}
	return true
}
