package rax

// maxCompressedEdgeLen bounds how many bytes Case D will fold into a
// single freshly created compressed edge. A few hundred bytes keeps a
// single edge allocation small while still absorbing most long unique
// suffixes in one step; 256 is a round number in that range.
const maxCompressedEdgeLen = 256

// insert runs the walker and then applies whichever insertion case
// matches what the walk found: an exact stop on an existing node, a
// mismatch partway through a compressed edge, a short key that ends
// partway through one, or a key whose remaining suffix must be appended
// as new nodes. It reports whether a new key was created (true) or an
// existing one's value was updated (false).
func (t *Tree[V]) insert(key []byte, value *V) (insertedNew bool, err error) {
	res, err := t.walk(key, nil)
	if err != nil {
		return false, err
	}

	if res.charsMatched == len(key) {
		if res.stopNode.isCompressed && res.splitPos > 0 {
			return t.insertCaseC(res, value), nil
		}
		return t.insertCaseA(res.stopNode, value), nil
	}

	if res.stopNode.isCompressed {
		cur := t.insertCaseB(res)
		return t.insertCaseD(cur, key[res.charsMatched:], value), nil
	}

	return t.insertCaseD(res.stopNode, key[res.charsMatched:], value), nil
}

// insertCaseA handles a full match outside the middle of a compressed
// node: update the existing key, or grow the stop node for a value slot.
func (t *Tree[V]) insertCaseA(stopNode *node[V], value *V) (insertedNew bool) {
	debugLog("insert", "case A at node with %d edges", stopNode.size())

	if stopNode.isKey {
		stopNode.setValue(value)
		return false
	}

	stopNode = stopNode.growForValue(value)
	stopNode.setValue(value)
	t.elements++
	return true
}

// insertCaseB splits a compressed node at res.splitPos because the
// inserted key diverges partway through its edge string. It returns the
// split node, the node Case D should continue appending the key's
// remaining suffix to.
func (t *Tree[V]) insertCaseB(res walkResult[V]) (splitNode *node[V]) {
	debugLog("insert", "case B split at position %d", res.splitPos)

	orig := res.stopNode
	j := res.splitPos
	next := orig.children[0]

	splitNode = &node[V]{
		edges:    []byte{orig.edges[j]},
		children: make([]*node[V], 1),
	}
	t.nodes++

	if j == 0 {
		if orig.isKey {
			splitNode.isKey = orig.isKey
			splitNode.isNullValue = orig.isNullValue
			splitNode.value = orig.value
		}
		*res.parentLink = splitNode
		t.nodes--
	} else {
		prefix := orig.edges[:j]
		trimmed := &node[V]{
			isCompressed: j > 1,
			edges:        append([]byte(nil), prefix...),
			children:     []*node[V]{splitNode},
			isKey:        orig.isKey,
			isNullValue:  orig.isNullValue,
			value:        orig.value,
		}
		t.nodes++
		*res.parentLink = trimmed
		t.nodes--
	}

	postfixLen := orig.size() - j - 1
	var postfix *node[V]
	if postfixLen > 0 {
		postfixEdges := append([]byte(nil), orig.edges[j+1:]...)
		child := next
		// A non-key single-child next is folded into the postfix, so the
		// two never form a collapsible chain.
		if !next.isKey && (next.isCompressed || len(next.children) == 1) {
			if next.isCompressed {
				postfixEdges = append(postfixEdges, next.edges...)
			} else {
				postfixEdges = append(postfixEdges, next.edges[0])
			}
			child = next.children[0]
			t.nodes--
		}
		postfix = &node[V]{
			isCompressed: len(postfixEdges) > 1,
			edges:        postfixEdges,
			children:     []*node[V]{child},
		}
		t.nodes++
	} else {
		postfix = next
	}
	splitNode.children[0] = postfix

	return splitNode
}

// insertCaseC splits a compressed node on a prefix match: the inserted
// key is a proper prefix of the edge string. It does not fall through to
// Case D.
func (t *Tree[V]) insertCaseC(res walkResult[V], value *V) (insertedNew bool) {
	debugLog("insert", "case C prefix split at position %d", res.splitPos)

	orig := res.stopNode
	j := res.splitPos
	next := orig.children[0]

	postfixBytes := orig.edges[j:]
	postfix := &node[V]{
		isCompressed: len(postfixBytes) > 1,
		edges:        append([]byte(nil), postfixBytes...),
		children:     []*node[V]{next},
	}
	postfix.setValue(value)
	t.nodes++

	prefixBytes := orig.edges[:j]
	trimmed := &node[V]{
		isCompressed: j > 1,
		edges:        append([]byte(nil), prefixBytes...),
		children:     []*node[V]{postfix},
		isKey:        orig.isKey,
		isNullValue:  orig.isNullValue,
		value:        orig.value,
	}
	t.nodes++

	*res.parentLink = trimmed
	t.nodes--
	t.elements++

	return true
}

// insertCaseD appends the remaining suffix of a key byte by byte (or, for
// long suffixes landing on an empty node, as one new compressed edge),
// then stores value at the terminal node.
func (t *Tree[V]) insertCaseD(cur *node[V], remaining []byte, value *V) (insertedNew bool) {
	for len(remaining) > 0 {
		if cur.isLeaf() && len(remaining) > 1 {
			n := len(remaining)
			if n > maxCompressedEdgeLen {
				n = maxCompressedEdgeLen
			}
			child := cur.compress(remaining[:n])
			t.nodes++
			cur = child
			remaining = remaining[n:]
			continue
		}

		child, _ := cur.addChild(remaining[0])
		t.nodes++
		cur = child
		remaining = remaining[1:]
	}

	existed := cur.isKey
	cur = cur.growForValue(value)
	cur.setValue(value)
	if !existed {
		t.elements++
	}
	return !existed
}
