// Package bmap implements BijectiveMap, a 1:1 key<->value map used by
// the obfuscator (name<->name) and available to anything else needing
// a stable bijection: two full-blown maps, one per direction, since
// both directions are primary here rather than one being just an
// index cache over the other.
package bmap

// BijectiveMap holds a forward K->V map and a reverse V->K map, kept
// in lockstep so that invariant 6 of the data model always holds:
// |forward| == |reverse| and reverse[v] == k for every (k, v) in
// forward.
type BijectiveMap[K comparable, V comparable] struct {
	forward map[K]V
	reverse map[V]K
}

// New constructs an empty BijectiveMap.
func New[K comparable, V comparable]() *BijectiveMap[K, V] {
	return &BijectiveMap[K, V]{
		forward: make(map[K]V),
		reverse: make(map[V]K),
	}
}

// Insert links k and v. Succeeds (returns true) iff neither k nor v is
// already present; on failure, state is left unchanged (no partial
// insert).
func (m *BijectiveMap[K, V]) Insert(k K, v V) bool {
	if _, exists := m.forward[k]; exists {
		return false
	}
	if _, exists := m.reverse[v]; exists {
		return false
	}
	m.forward[k] = v
	m.reverse[v] = k
	return true
}

// InsertUsingValueGenerator links k to a value produced by gen. If k
// is already present, its existing value is returned unchanged and
// gen is never called. Otherwise gen is invoked repeatedly, discarding
// any v it returns that is already taken, until it produces an unused
// v; that v is linked to k and returned.
func (m *BijectiveMap[K, V]) InsertUsingValueGenerator(k K, gen func() V) V {
	if v, ok := m.forward[k]; ok {
		return v
	}
	for {
		v := gen()
		if _, taken := m.reverse[v]; taken {
			continue
		}
		m.forward[k] = v
		m.reverse[v] = k
		return v
	}
}

// FindForward returns the value linked to k, if any.
func (m *BijectiveMap[K, V]) FindForward(k K) (V, bool) {
	v, ok := m.forward[k]
	return v, ok
}

// FindReverse returns the key linked to v, if any.
func (m *BijectiveMap[K, V]) FindReverse(v V) (K, bool) {
	k, ok := m.reverse[v]
	return k, ok
}

// Remove deletes the (k, v) pair keyed by k, if present, restoring the
// bijection on both sides atomically. Returns true if a pair was
// removed.
func (m *BijectiveMap[K, V]) Remove(k K) bool {
	v, ok := m.forward[k]
	if !ok {
		return false
	}
	delete(m.forward, k)
	delete(m.reverse, v)
	return true
}

// Size reports the number of linked pairs.
func (m *BijectiveMap[K, V]) Size() int { return len(m.forward) }

// Empty reports whether the map holds no pairs.
func (m *BijectiveMap[K, V]) Empty() bool { return len(m.forward) == 0 }

// ForwardView returns a read-only copy of the forward map. Callers
// must not assume any iteration order from the returned map.
func (m *BijectiveMap[K, V]) ForwardView() map[K]V {
	out := make(map[K]V, len(m.forward))
	for k, v := range m.forward {
		out[k] = v
	}
	return out
}

// ReverseView returns a read-only copy of the reverse map.
func (m *BijectiveMap[K, V]) ReverseView() map[V]K {
	out := make(map[V]K, len(m.reverse))
	for v, k := range m.reverse {
		out[v] = k
	}
	return out
}
