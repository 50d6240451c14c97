package rax

// walkResult reports where a walk stopped: how many key bytes were
// consumed, the node it stopped at, the address of the slot that points
// to that node (either the tree's root field or a parent's child slot),
// and, if it stopped partway through a compressed edge, the position
// within that edge where matching ended.
type walkResult[V any] struct {
	charsMatched int
	stopNode     *node[V]
	parentLink   **node[V]
	splitPos     int
}

// walk traverses from the root following bytes of key for as long as
// they match, reporting where it stopped. If stk is non-nil, every
// ancestor visited is pushed onto it before the walk descends past it,
// so that the caller can later retrace the path upward (used by delete
// and by the iterator's seek).
func (t *Tree[V]) walk(key []byte, stk *stack[V]) (walkResult[V], error) {
	cur := t.root
	parentLink := &t.root
	i := 0
	depth := 0

	for !cur.isLeaf() && i < len(key) {
		depth++
		if depth > t.maxDepth {
			return walkResult[V]{}, ErrOutOfMemory
		}

		if cur.isCompressed {
			j := 0
			for j < len(cur.edges) && i < len(key) && cur.edges[j] == key[i] {
				i++
				j++
			}
			if j < len(cur.edges) {
				return walkResult[V]{charsMatched: i, stopNode: cur, parentLink: parentLink, splitPos: j}, nil
			}

			if stk != nil {
				if err := stk.push(cur, 0); err != nil {
					return walkResult[V]{}, err
				}
			}
			parentLink = cur.firstChildPtr()
			cur = cur.children[0]
			continue
		}

		idx, found := cur.findEdge(key[i])
		if !found {
			return walkResult[V]{charsMatched: i, stopNode: cur, parentLink: parentLink, splitPos: 0}, nil
		}

		if stk != nil {
			if err := stk.push(cur, idx); err != nil {
				return walkResult[V]{}, err
			}
		}
		parentLink = &cur.children[idx]
		cur = cur.children[idx]
		i++
	}

	return walkResult[V]{charsMatched: i, stopNode: cur, parentLink: parentLink, splitPos: 0}, nil
}
