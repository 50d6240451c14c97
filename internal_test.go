package rax

import "fmt"

// CheckInvariants walks every node reachable from tr's root and reports
// the first violation of the structural invariants this package
// maintains after every insert and remove: strictly ascending edges on
// normal nodes, compressed edges of length at least two, maximal
// compression (no two adjacent non-key nodes that could have been
// merged into one), and an element count matching the number of
// is_key nodes. A tree holding a suffix of more than
// maxCompressedEdgeLen bytes appended by one insert is reported as not
// maximally compressed. It is exported only so external test files in this
// module can call it; it has no other use.
func CheckInvariants[V any](tr *Tree[V]) error {
	keys := 0
	if err := checkNode(tr.root, &keys); err != nil {
		return err
	}
	if keys != tr.elements {
		return fmt.Errorf("element count mismatch: tree reports %d, found %d is_key nodes", tr.elements, keys)
	}
	return nil
}

func checkNode[V any](n *node[V], keys *int) error {
	if n.isKey {
		*keys++
		if !n.isNullValue && n.value == nil {
			return fmt.Errorf("node is_key with non-null value but nil value pointer")
		}
		if n.isNullValue && n.value != nil {
			return fmt.Errorf("node is_key with is_null_value set but non-nil value pointer")
		}
	} else if n.value != nil || n.isNullValue {
		return fmt.Errorf("non-key node carries value state")
	}

	if n.isCompressed {
		if len(n.edges) < 2 {
			return fmt.Errorf("compressed node has edge length %d, want >= 2", len(n.edges))
		}
		if len(n.children) != 1 {
			return fmt.Errorf("compressed node has %d children, want exactly 1", len(n.children))
		}
	} else {
		for i := 1; i < len(n.edges); i++ {
			if n.edges[i-1] >= n.edges[i] {
				return fmt.Errorf("normal node edges not strictly ascending: %q", n.edges)
			}
		}
	}

	if !n.isKey && singleContinuation(n) {
		for _, c := range n.children {
			if !c.isKey && singleContinuation(c) {
				return fmt.Errorf("two adjacent non-key single-child nodes were not recompressed")
			}
		}
	}

	for _, c := range n.children {
		if err := checkNode(c, keys); err != nil {
			return err
		}
	}
	return nil
}

// singleContinuation reports whether n is the kind of node that, if
// also non-key, should have been folded into an ancestor's compressed
// edge rather than left as its own node.
func singleContinuation[V any](n *node[V]) bool {
	return n.isCompressed || len(n.children) == 1
}

// CountNodes returns the number of nodes reachable from tr's root,
// independent of tr's own bookkeeping counter, for cross-checking
// against NodeCount in tests.
func CountNodes[V any](tr *Tree[V]) int {
	return countNodes(tr.root)
}

func countNodes[V any](n *node[V]) int {
	total := 1
	for _, c := range n.children {
		total += countNodes(c)
	}
	return total
}
