package rax

// remove runs the walker with ancestor collection, clears the stop
// node's key status if it holds the queried key, then performs the two
// deletion post-conditions: upward pruning of any now-orphaned chain
// (phase 1) and re-compression of any resulting collapsible chain
// (phase 2).
func (t *Tree[V]) remove(key []byte) (removed bool, err error) {
	stk := newStack[V](t.maxDepth)
	res, err := t.walk(key, stk)
	if err != nil {
		return false, err
	}

	if res.charsMatched != len(key) {
		return false, nil
	}
	if res.stopNode.isCompressed && res.splitPos > 0 {
		return false, nil
	}
	if !res.stopNode.isKey {
		return false, nil
	}

	debugLog("delete", "removing key of length %d", len(key))

	res.stopNode.clearKey()
	t.elements--

	cur := res.stopNode
	if len(cur.children) == 0 {
		cur = t.pruneUpward(stk, cur)
	}

	t.recompress(stk, cur)

	return true, nil
}

// pruneUpward implements Phase 1: it frees the orphan chain above a
// childless, non-key node until it reaches an ancestor that is itself a
// key, is a normal node with more than one child, or is the root (which
// has no parent link to unlink from and so always stops the walk). A
// non-key compressed ancestor has only the freed child, so it is freed
// too. It returns that stopping ancestor, which Phase 2 then considers
// for re-compression.
func (t *Tree[V]) pruneUpward(stk *stack[V], victim *node[V]) *node[V] {
	for {
		frame, ok := stk.pop()
		if !ok {
			return victim
		}

		parent := frame.node
		if parent == t.root || parent.isKey || (!parent.isCompressed && len(parent.children) >= 2) {
			parent.removeChild(victim)
			t.nodes--
			debugLog("delete", "pruned orphan chain at depth %d", stk.len())
			return parent
		}

		t.nodes--
		victim = parent
	}
}

// recompress implements Phase 2: starting from anchor (the node Phase 1
// left behind, or the stop node itself if no pruning was needed), it
// climbs through any further collapsible ancestors still on stk, then
// walks back down through single-child non-key nodes, merging the whole
// chain into one freshly allocated compressed node when it spans two or
// more nodes.
func (t *Tree[V]) recompress(stk *stack[V], anchor *node[V]) {
	if anchor.isKey || len(anchor.children) != 1 {
		return
	}

	start := anchor
	for {
		frame, ok := stk.peek()
		if !ok {
			break
		}
		p := frame.node
		if p.isKey || len(p.children) != 1 {
			break
		}
		stk.pop()
		start = p
	}

	var parentLink **node[V]
	if frame, ok := stk.peek(); ok {
		p := frame.node
		if p.isCompressed {
			parentLink = p.firstChildPtr()
		} else {
			parentLink = &p.children[frame.childIdx]
		}
	} else {
		parentLink = &t.root
	}

	var collected []byte
	collapsed := 0
	cur := start
	for {
		if cur.isCompressed {
			collected = append(collected, cur.edges...)
		} else {
			collected = append(collected, cur.edges[0])
		}
		collapsed++

		next := cur.children[0]
		if next.isKey || len(next.children) != 1 {
			cur = next
			break
		}
		cur = next
	}

	if collapsed < 2 {
		return
	}

	debugLog("delete", "recompressing %d nodes into one %d-byte edge", collapsed, len(collected))

	merged := &node[V]{
		isCompressed: len(collected) > 1,
		edges:        collected,
		children:     []*node[V]{cur},
	}
	t.nodes++
	t.nodes -= collapsed

	*parentLink = merged
}
