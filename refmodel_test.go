package rax_test

import "github.com/dolthub/maphash"

// refEntry is one slot in refModel's hash buckets.
type refEntry[V any] struct {
	key   string
	value *V
}

// refModel is a reference dictionary used as the oracle for
// model-equivalence property tests: every rax.Tree operation under test
// is mirrored here, and the two are compared for agreement. It hashes
// keys with maphash.Hasher and resolves collisions with a short linear
// scan per bucket, the same shape as a from-scratch hash table without
// the probing/SIMD machinery a production one would add.
type refModel[V any] struct {
	hasher  maphash.Hasher[string]
	buckets map[uint64][]refEntry[V]
	count   int
}

func newRefModel[V any]() *refModel[V] {
	return &refModel[V]{
		hasher:  maphash.NewHasher[string](),
		buckets: make(map[uint64][]refEntry[V]),
	}
}

func (m *refModel[V]) find(key string) (*V, bool) {
	h := m.hasher.Hash(key)
	for _, e := range m.buckets[h] {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// insert reports whether key is new, mirroring Tree.Insert.
func (m *refModel[V]) insert(key string, value *V) bool {
	h := m.hasher.Hash(key)
	bucket := m.buckets[h]
	for i, e := range bucket {
		if e.key == key {
			bucket[i].value = value
			return false
		}
	}
	m.buckets[h] = append(bucket, refEntry[V]{key: key, value: value})
	m.count++
	return true
}

func (m *refModel[V]) remove(key string) bool {
	h := m.hasher.Hash(key)
	bucket := m.buckets[h]
	for i, e := range bucket {
		if e.key == key {
			m.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			m.count--
			return true
		}
	}
	return false
}

func (m *refModel[V]) keys() []string {
	out := make([]string, 0, m.count)
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			out = append(out, e.key)
		}
	}
	return out
}
