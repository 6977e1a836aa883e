package directory

// TwoKeyMap indexes values under two independent keys. Both keys must be
// unique across entries; Put replaces any entry sharing either key.
type TwoKeyMap[K1 comparable, K2 comparable, V any] struct {
	byFirst  map[K1]V
	bySecond map[K2]K1
	secondOf map[K1]K2
}

// NewTwoKeyMap returns an empty map.
func NewTwoKeyMap[K1 comparable, K2 comparable, V any]() *TwoKeyMap[K1, K2, V] {
	return &TwoKeyMap[K1, K2, V]{
		byFirst:  make(map[K1]V),
		bySecond: make(map[K2]K1),
		secondOf: make(map[K1]K2),
	}
}

// Put stores v under both keys, evicting any entry that shares either key
// so neither index can hold a stale mapping.
func (m *TwoKeyMap[K1, K2, V]) Put(k1 K1, k2 K2, v V) {
	if oldK2, ok := m.secondOf[k1]; ok && oldK2 != k2 {
		delete(m.bySecond, oldK2)
	}
	if oldK1, ok := m.bySecond[k2]; ok && oldK1 != k1 {
		delete(m.byFirst, oldK1)
		delete(m.secondOf, oldK1)
	}
	m.byFirst[k1] = v
	m.bySecond[k2] = k1
	m.secondOf[k1] = k2
}

// ByFirst looks up a value by its first key.
func (m *TwoKeyMap[K1, K2, V]) ByFirst(k1 K1) (V, bool) {
	v, ok := m.byFirst[k1]
	return v, ok
}

// BySecond looks up a value by its second key.
func (m *TwoKeyMap[K1, K2, V]) BySecond(k2 K2) (V, bool) {
	k1, ok := m.bySecond[k2]
	if !ok {
		var zero V
		return zero, false
	}
	return m.ByFirst(k1)
}

// FirstKeyOf resolves a second key to its first key.
func (m *TwoKeyMap[K1, K2, V]) FirstKeyOf(k2 K2) (K1, bool) {
	k1, ok := m.bySecond[k2]
	return k1, ok
}

// Len reports the number of entries.
func (m *TwoKeyMap[K1, K2, V]) Len() int {
	return len(m.byFirst)
}

// Values returns the stored values in unspecified order.
func (m *TwoKeyMap[K1, K2, V]) Values() []V {
	values := make([]V, 0, len(m.byFirst))
	for _, v := range m.byFirst {
		values = append(values, v)
	}
	return values
}

// Clone returns an independent copy. Values are copied by assignment, so
// with value-typed V the clone shares nothing with the original.
func (m *TwoKeyMap[K1, K2, V]) Clone() *TwoKeyMap[K1, K2, V] {
	cp := &TwoKeyMap[K1, K2, V]{
		byFirst:  make(map[K1]V, len(m.byFirst)),
		bySecond: make(map[K2]K1, len(m.bySecond)),
		secondOf: make(map[K1]K2, len(m.secondOf)),
	}
	for k, v := range m.byFirst {
		cp.byFirst[k] = v
	}
	for k, v := range m.bySecond {
		cp.bySecond[k] = v
	}
	for k, v := range m.secondOf {
		cp.secondOf[k] = v
	}
	return cp
}
