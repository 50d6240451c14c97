package rax

import "iter"

// Tree is an in-memory, ordered associative map keyed by arbitrary byte
// strings, implemented as a compressed radix tree. The zero value is not
// ready to use; construct one with New.
//
// A Tree is not safe for concurrent use. Multiple goroutines may call
// read-only methods (Find, Iterator and its read operations)
// concurrently only if no goroutine is mutating the tree at the same
// time; concurrent mutation is undefined behavior.
type Tree[V any] struct {
	root     *node[V]
	elements int
	nodes    int
	maxDepth int
}

// Option configures a Tree constructed by New.
type Option[V any] func(*Tree[V])

// WithMaxDepth bounds how many ancestor frames a single walk may push
// before Insert or Remove report ErrOutOfMemory, and how deep an
// Iterator's path stack may grow. The default is generous; callers
// exercising the out-of-memory contract directly should pass a small
// value.
func WithMaxDepth[V any](n int) Option[V] {
	return func(t *Tree[V]) {
		t.maxDepth = n
	}
}

// New returns an empty Tree.
func New[V any](opts ...Option[V]) *Tree[V] {
	t := &Tree[V]{
		root:     newNormalNode[V](0),
		nodes:    1,
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len reports the number of keys currently stored.
func (t *Tree[V]) Len() int { return t.elements }

// NodeCount reports the number of nodes currently allocated, including
// the root.
func (t *Tree[V]) NodeCount() int { return t.nodes }

// Free discards every node, leaving t as if newly constructed by New.
func (t *Tree[V]) Free() {
	t.root = newNormalNode[V](0)
	t.elements = 0
	t.nodes = 1
}

// Insert associates key with value, returning true if key did not
// already exist (false if an existing value was overwritten). A nil
// value stores the distinguished null value, distinct from the key
// being absent: Find on such a key reports (nil, true), not (nil,
// false).
//
// Insert returns ErrOutOfMemory, leaving the tree unchanged, if the
// walk needed to locate key's insertion point would exceed the tree's
// configured maximum depth.
func (t *Tree[V]) Insert(key []byte, value *V) (insertedNew bool, err error) {
	return t.insert(key, value)
}

// Find reports the value stored at key. The returned bool is false if
// key is absent; it is true (with a possibly nil *V) if key is present,
// with a nil *V meaning the stored value is the distinguished null
// value.
func (t *Tree[V]) Find(key []byte) (*V, bool) {
	res, err := t.walk(key, nil)
	if err != nil || res.charsMatched != len(key) {
		return nil, false
	}
	if res.stopNode.isCompressed && res.splitPos > 0 {
		return nil, false
	}
	return res.stopNode.getValue()
}

// Remove deletes key, returning true if it was present. It is a no-op,
// returning false, if key was not present.
func (t *Tree[V]) Remove(key []byte) (removed bool, err error) {
	return t.remove(key)
}

// All returns a Go 1.23 range-over-func iterator over every key/value
// pair in ascending key order, built on top of Tree's own Iterator
// rather than a separate recursive visitor.
func (t *Tree[V]) All() iter.Seq2[[]byte, *V] {
	return func(yield func([]byte, *V) bool) {
		it := t.Iterator()
		defer it.Stop()

		for ok, _ := it.Next(); ok; ok, _ = it.Next() {
			v, _ := it.Value()
			if !yield(it.Key(), v) {
				return
			}
		}
	}
}
