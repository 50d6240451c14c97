package rax

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders a human-readable ASCII dump of the tree, for debugging
// only. Nothing in this package or its tests parses this format back.
func (t *Tree[V]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rax (%d keys, %d nodes)\n", t.elements, t.nodes)
	showNode(&b, t.root, "", true)
	return b.String()
}

// Show is an alias for String, kept so callers can spell the dump
// operation by its conventional name.
func (t *Tree[V]) Show() string { return t.String() }

func showNode[V any](b *strings.Builder, n *node[V], prefix string, root bool) {
	marker := ""
	switch {
	case n.isKey && n.isNullValue:
		marker = " =(null)"
	case n.isKey:
		marker = " =value"
	}

	label := "."
	if root {
		label = "*"
	}

	if n.isCompressed {
		fmt.Fprintf(b, "%s%s %s%s\n", prefix, label, strconv.Quote(string(n.edges)), marker)
		showNode(b, n.children[0], prefix+"  ", false)
		return
	}

	fmt.Fprintf(b, "%s%s (%d children)%s\n", prefix, label, len(n.children), marker)
	for i, c := range n.children {
		fmt.Fprintf(b, "%s|-%q\n", prefix+"  ", n.edges[i])
		showNode(b, c, prefix+"    ", false)
	}
}
