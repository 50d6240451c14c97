package rax

// Iterator is a stateful, read-only cursor over a Tree's keys in
// lexicographic order. It holds the path from the root to the current
// node (as a stack of ancestor frames) plus the key bytes accumulated
// along that path, so that advancing or retreating is pure stack
// arithmetic rather than a fresh walk from the root.
//
// An Iterator is invalidated by any mutation on its Tree between
// positioning and advancement; behavior after such a mutation is
// undefined, mirroring the tree's single-threaded, unsynchronized
// design.
type Iterator[V any] struct {
	tree  *Tree[V]
	key   []byte
	stack *stack[V]
	cur   *node[V]

	eof        bool
	positioned bool
	justSeeked bool
}

// Iterator returns a new cursor over t, not yet positioned at any key.
func (t *Tree[V]) Iterator() *Iterator[V] {
	return &Iterator[V]{
		tree:  t,
		stack: newStack[V](t.maxDepth),
		cur:   t.root,
	}
}

// Stop releases the iterator's internal stack. The iterator must not be
// used afterward.
func (it *Iterator[V]) Stop() {
	it.stack.free()
	it.key = nil
	it.cur = nil
	it.eof = true
	it.positioned = false
	it.justSeeked = false
}

// Key returns a copy of the key at the iterator's current position. It
// is only meaningful when the most recent Seek/Next/Prev/RandomWalk
// reported a successful position.
func (it *Iterator[V]) Key() []byte {
	out := make([]byte, len(it.key))
	copy(out, it.key)
	return out
}

// Value returns the value stored at the iterator's current position,
// and whether that position is in fact a key (as opposed to mid-walk
// bookkeeping state).
func (it *Iterator[V]) Value() (*V, bool) {
	if it.cur == nil {
		return nil, false
	}
	return it.cur.getValue()
}

func (it *Iterator[V]) reset() {
	it.key = it.key[:0]
	it.stack.free()
	it.cur = it.tree.root
	it.eof = false
	it.positioned = false
	it.justSeeked = false
}

// Seek positions the iterator according to op, one of "^" (first), "$"
// (last), "==", ">=", "<=", ">", "<". It reports whether the iterator
// landed on a key (false means EOF). An unrecognized op positions the
// iterator at EOF and returns ErrInvalidSeekOp (wrapped in a *SeekError).
//
// Key and Value are already meaningful immediately after a successful
// Seek, but the first Next or Prev call afterward still reports that
// same key rather than the one beyond it — mirroring a seek-then-next
// idiom where Next/Prev is how the matched element is retrieved from
// the walk, not an unconditional step past it.
func (it *Iterator[V]) Seek(op string, key []byte) (bool, error) {
	it.reset()

	var err error
	switch op {
	case "^":
		err = it.seekFirst()
	case "$":
		err = it.seekLast()
	case "==":
		err = it.seekEq(key)
	case ">=":
		err = it.seekCeil(key, false)
	case ">":
		err = it.seekCeil(key, true)
	case "<=":
		err = it.seekFloor(key, false)
	case "<":
		err = it.seekFloor(key, true)
	default:
		it.eof = true
		return false, &SeekError{Op: op}
	}
	if err != nil {
		it.eof = true
		return false, err
	}

	it.positioned = !it.eof
	it.justSeeked = it.positioned
	return it.positioned, nil
}

// Next advances to the lexicographically next key, returning false on
// EOF. Calling Next on a fresh, not-yet-positioned iterator positions it
// at the first key, mirroring Seek("^", nil). The first call to Next
// (or Prev) right after a successful Seek reports the key Seek matched,
// without moving past it; subsequent calls genuinely advance.
func (it *Iterator[V]) Next() (bool, error) {
	if it.eof {
		return false, nil
	}
	if it.justSeeked {
		it.justSeeked = false
		return it.positioned, nil
	}
	if !it.positioned {
		if err := it.seekFirst(); err != nil {
			it.eof = true
			return false, err
		}
		it.positioned = !it.eof
		return it.positioned, nil
	}

	it.positioned = it.advance()
	return it.positioned, nil
}

// Prev retreats to the lexicographically previous key, returning false
// on EOF. Calling Prev on a fresh iterator positions it at the last key.
// As with Next, the first call right after a successful Seek reports
// the matched key itself before any further movement.
func (it *Iterator[V]) Prev() (bool, error) {
	if it.eof {
		return false, nil
	}
	if it.justSeeked {
		it.justSeeked = false
		return it.positioned, nil
	}
	if !it.positioned {
		if err := it.seekLast(); err != nil {
			it.eof = true
			return false, err
		}
		it.positioned = !it.eof
		return it.positioned, nil
	}

	it.positioned = it.retreat()
	return it.positioned, nil
}

// descendSmallest moves it.cur downward, always taking the smallest
// available edge, stopping as soon as a key node is reached (a node's
// own key, if any, is the smallest key in its subtree since it is a
// strict prefix of every descendant key).
func (it *Iterator[V]) descendSmallest() {
	for {
		if it.cur.isKey {
			return
		}
		if it.cur.isCompressed {
			it.key = append(it.key, it.cur.edges...)
			it.stack.push(it.cur, 0)
			it.cur = it.cur.children[0]
			continue
		}
		if len(it.cur.children) == 0 {
			return
		}
		it.key = append(it.key, it.cur.edges[0])
		it.stack.push(it.cur, 0)
		it.cur = it.cur.children[0]
	}
}

// descendLargest moves it.cur downward, always taking the largest
// available edge, all the way to a childless node. Unlike
// descendSmallest it never stops early at an intermediate key, since the
// largest key in a subtree is always the deepest one along the
// rightmost path.
func (it *Iterator[V]) descendLargest() {
	for {
		if it.cur.isCompressed {
			it.key = append(it.key, it.cur.edges...)
			it.stack.push(it.cur, 0)
			it.cur = it.cur.children[0]
			continue
		}
		if len(it.cur.children) == 0 {
			return
		}
		idx := len(it.cur.children) - 1
		it.key = append(it.key, it.cur.edges[idx])
		it.stack.push(it.cur, idx)
		it.cur = it.cur.children[idx]
	}
}

// enterSuffix moves it.cur from a compressed stopNode, stopped partway
// through its edge at splitPos, past the remainder of that edge into its
// child. Callers that decided the answer lies inside stopNode's subtree
// must go through this before calling descendSmallest/descendLargest:
// stopNode's own isKey, if set, names a strictly shorter string than
// whatever already matched up to splitPos and must not be consulted, and
// its edges must not be appended twice.
func (it *Iterator[V]) enterSuffix(stopNode *node[V], splitPos int) {
	it.key = append(it.key, stopNode.edges[splitPos:]...)
	it.stack.push(stopNode, 0)
	it.cur = stopNode.children[0]
}

func (it *Iterator[V]) seekFirst() error {
	it.cur = it.tree.root
	it.descendSmallest()
	if !it.cur.isKey {
		it.eof = true
	}
	return nil
}

func (it *Iterator[V]) seekLast() error {
	it.cur = it.tree.root
	it.descendLargest()
	if !it.cur.isKey {
		it.eof = true
	}
	return nil
}

func (it *Iterator[V]) seekEq(key []byte) error {
	res, err := it.tree.walk(key, it.stack)
	if err != nil {
		return err
	}
	if res.charsMatched != len(key) || !res.stopNode.isKey || (res.stopNode.isCompressed && res.splitPos > 0) {
		it.eof = true
		return nil
	}
	it.cur = res.stopNode
	it.key = append(it.key, key...)
	return nil
}

// seekCeil positions at the smallest key >= key (or > key if strict).
func (it *Iterator[V]) seekCeil(key []byte, strict bool) error {
	res, err := it.tree.walk(key, it.stack)
	if err != nil {
		return err
	}
	it.key = append(it.key, key[:res.charsMatched]...)
	it.cur = res.stopNode

	if res.charsMatched == len(key) {
		exact := res.stopNode.isKey && !(res.stopNode.isCompressed && res.splitPos > 0)
		if exact && !strict {
			return nil
		}
		if exact && strict {
			if !it.advance() {
				it.eof = true
			}
			return nil
		}
		if res.stopNode.isCompressed {
			it.enterSuffix(res.stopNode, res.splitPos)
		}
		it.descendSmallest()
		if !it.cur.isKey {
			it.eof = true
		}
		return nil
	}

	mismatch := key[res.charsMatched]

	if res.stopNode.isCompressed {
		edgeByte := res.stopNode.edges[res.splitPos]
		if mismatch < edgeByte {
			it.enterSuffix(res.stopNode, res.splitPos)
			it.descendSmallest()
			if !it.cur.isKey {
				it.eof = true
			}
			return nil
		}
		it.key = it.key[:len(it.key)-res.splitPos]
		if !it.ascendToNextSibling() {
			it.eof = true
		}
		return nil
	}

	idx, _ := res.stopNode.findEdge(mismatch)
	if idx < len(res.stopNode.children) {
		it.key = append(it.key, res.stopNode.edges[idx])
		it.stack.push(res.stopNode, idx)
		it.cur = res.stopNode.children[idx]
		it.descendSmallest()
		if !it.cur.isKey {
			it.eof = true
		}
		return nil
	}

	if !it.ascendToNextSibling() {
		it.eof = true
	}
	return nil
}

// seekFloor positions at the largest key <= key (or < key if strict).
func (it *Iterator[V]) seekFloor(key []byte, strict bool) error {
	res, err := it.tree.walk(key, it.stack)
	if err != nil {
		return err
	}
	it.key = append(it.key, key[:res.charsMatched]...)
	it.cur = res.stopNode

	if res.charsMatched == len(key) {
		exact := res.stopNode.isKey && !(res.stopNode.isCompressed && res.splitPos > 0)
		if exact && !strict {
			return nil
		}
		if !exact {
			it.key = it.key[:len(it.key)-res.splitPos]
			if res.stopNode.isKey {
				return nil
			}
		}
		if !it.retreat() {
			it.eof = true
		}
		return nil
	}

	mismatch := key[res.charsMatched]

	if res.stopNode.isCompressed {
		edgeByte := res.stopNode.edges[res.splitPos]
		if mismatch > edgeByte {
			it.enterSuffix(res.stopNode, res.splitPos)
			it.descendLargest()
			if !it.cur.isKey {
				it.eof = true
			}
			return nil
		}
		it.key = it.key[:len(it.key)-res.splitPos]
		if res.stopNode.isKey {
			return nil
		}
		if !it.retreat() {
			it.eof = true
		}
		return nil
	}

	idx, _ := res.stopNode.findEdge(mismatch)
	if idx > 0 {
		prevIdx := idx - 1
		it.key = append(it.key, res.stopNode.edges[prevIdx])
		it.stack.push(res.stopNode, prevIdx)
		it.cur = res.stopNode.children[prevIdx]
		it.descendLargest()
		if !it.cur.isKey {
			it.eof = true
		}
		return nil
	}

	if res.stopNode.isKey {
		return nil
	}
	if !it.retreat() {
		it.eof = true
	}
	return nil
}

// advance moves from the current key to its preorder successor: into
// its own subtree if it has one, else up to the next unexplored sibling
// of the nearest ancestor that has one.
func (it *Iterator[V]) advance() bool {
	if !it.cur.isLeaf() {
		if it.cur.isCompressed {
			it.key = append(it.key, it.cur.edges...)
			it.stack.push(it.cur, 0)
			it.cur = it.cur.children[0]
		} else {
			it.key = append(it.key, it.cur.edges[0])
			it.stack.push(it.cur, 0)
			it.cur = it.cur.children[0]
		}
		it.descendSmallest()
		if it.cur.isKey {
			return true
		}
	}
	return it.ascendToNextSibling()
}

// retreat moves from the current key to its preorder predecessor: the
// deepest-rightmost descendant of the nearest earlier sibling, or the
// nearest key-bearing ancestor if there is no earlier sibling.
func (it *Iterator[V]) retreat() bool {
	for {
		frame, ok := it.stack.pop()
		if !ok {
			return false
		}
		p := frame.node

		if p.isCompressed {
			it.key = it.key[:len(it.key)-len(p.edges)]
			it.cur = p
			if p.isKey {
				return true
			}
			continue
		}

		it.key = it.key[:len(it.key)-1]
		if frame.childIdx > 0 {
			prevIdx := frame.childIdx - 1
			it.key = append(it.key, p.edges[prevIdx])
			it.stack.push(p, prevIdx)
			it.cur = p.children[prevIdx]
			it.descendLargest()
			return true
		}

		it.cur = p
		if p.isKey {
			return true
		}
	}
}

// ascendToNextSibling pops ancestors until it finds one with an
// unexplored larger child, descends into it and takes its smallest key.
func (it *Iterator[V]) ascendToNextSibling() bool {
	for {
		frame, ok := it.stack.pop()
		if !ok {
			return false
		}
		p := frame.node

		if p.isCompressed {
			it.key = it.key[:len(it.key)-len(p.edges)]
			continue
		}

		it.key = it.key[:len(it.key)-1]
		nextIdx := frame.childIdx + 1
		if nextIdx >= len(p.children) {
			continue
		}

		it.key = append(it.key, p.edges[nextIdx])
		it.stack.push(p, nextIdx)
		it.cur = p.children[nextIdx]
		it.descendSmallest()
		if it.cur.isKey {
			return true
		}
	}
}

// RandomWalk takes up to steps random moves from the current position,
// at each step choosing uniformly among the move to the parent (if any)
// and the move to each child. It reports whether a key node was entered
// at any point during the walk.
func (it *Iterator[V]) RandomWalk(steps int) (bool, error) {
	if it.cur == nil {
		it.cur = it.tree.root
	}
	it.justSeeked = false

	moved := false
	for i := 0; i < steps; i++ {
		numChildren := len(it.cur.children)
		hasParent := it.stack.len() > 0

		total := numChildren
		if hasParent {
			total++
		}
		if total == 0 {
			break
		}

		choice := randIntN(total)
		if hasParent && choice == numChildren {
			frame, _ := it.stack.pop()
			p := frame.node
			if p.isCompressed {
				it.key = it.key[:len(it.key)-len(p.edges)]
			} else {
				it.key = it.key[:len(it.key)-1]
			}
			it.cur = p
		} else if it.cur.isCompressed {
			it.key = append(it.key, it.cur.edges...)
			it.stack.push(it.cur, 0)
			it.cur = it.cur.children[0]
		} else {
			it.key = append(it.key, it.cur.edges[choice])
			it.stack.push(it.cur, choice)
			it.cur = it.cur.children[choice]
		}

		if it.cur.isKey {
			moved = true
			it.eof = false
			it.positioned = true
		}
	}

	return moved, nil
}
