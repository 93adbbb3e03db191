// Package tree implements a rooted tree over node IDs.
//
// The tree is an index structure: it stores parent and child lists keyed by
// integer ID and never holds the payload itself. Children keep the order in
// which they were attached.
package tree

import (
	"github.com/matzehuels/spore/pkg/errors"
)

// Tree is a rooted tree over integer IDs.
type Tree struct {
	root     int
	parent   map[int]int
	children map[int][]int
	order    []int
}

// New returns a tree containing only root.
func New(root int) *Tree {
	return &Tree{
		root:     root,
		parent:   map[int]int{root: -1},
		children: map[int][]int{},
		order:    []int{root},
	}
}

// Root returns the root ID.
func (t *Tree) Root() int { return t.root }

// Len returns the number of IDs in the tree.
func (t *Tree) Len() int { return len(t.order) }

// Contains reports whether id is in the tree.
func (t *Tree) Contains(id int) bool {
	_, ok := t.parent[id]
	return ok
}

// Attach adds child under parent. The parent must already be in the tree
// and the child must not.
func (t *Tree) Attach(parent, child int) error {
	if !t.Contains(parent) {
		return errors.Inconsistent("attach %d: parent %d not in tree", child, parent)
	}
	if t.Contains(child) {
		return errors.Inconsistent("attach %d: already in tree", child)
	}
	t.parent[child] = parent
	t.children[parent] = append(t.children[parent], child)
	t.order = append(t.order, child)
	return nil
}

// Parent returns id's parent, or -1 for the root and unknown IDs.
func (t *Tree) Parent(id int) int {
	p, ok := t.parent[id]
	if !ok {
		return -1
	}
	return p
}

// Children returns id's children in attach order.
func (t *Tree) Children(id int) []int { return t.children[id] }

// IDs returns every ID in attach order, root first.
func (t *Tree) IDs() []int { return t.order }

// Walk visits the subtree rooted at id in pre-order.
func (t *Tree) Walk(id int, fn func(id int)) {
	fn(id)
	for _, c := range t.children[id] {
		t.Walk(c, fn)
	}
}

// PostOrder visits the subtree rooted at id children-first.
func (t *Tree) PostOrder(id int, fn func(id int)) {
	for _, c := range t.children[id] {
		t.PostOrder(c, fn)
	}
	fn(id)
}

// Subtree returns the IDs in the subtree rooted at id, in pre-order.
func (t *Tree) Subtree(id int) []int {
	var ids []int
	t.Walk(id, func(n int) { ids = append(ids, n) })
	return ids
}

// Links returns every (parent, child) pair in attach order.
func (t *Tree) Links() [][2]int {
	links := make([][2]int, 0, len(t.order)-1)
	for _, id := range t.order[1:] {
		links = append(links, [2]int{t.parent[id], id})
	}
	return links
}

// Depth returns the number of links between the root and id, or -1 if id
// is not in the tree.
func (t *Tree) Depth(id int) int {
	if !t.Contains(id) {
		return -1
	}
	d := 0
	for id != t.root {
		id = t.parent[id]
		d++
	}
	return d
}
