// Package scanline finds overlapping rectangles with a top-to-bottom sweep.
//
// Each node contributes an enter event at its top edge and a leave event at
// its bottom edge. Events are processed by increasing y with leaves before
// enters, so rectangles that only share a horizontal boundary are never
// active together. The active set is a B-tree ordered by left edge.
package scanline

import (
	"cmp"
	"slices"

	"github.com/google/btree"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/errors"
)

const degree = 8

type kind int

const (
	leave kind = iota
	enter
)

type event struct {
	y    float64
	kind kind
	node *model.Node
}

// Handler receives each overlapping pair once, with a.ID < b.ID.
type Handler func(a, b *model.Node)

// Detect sweeps nodes and calls fn for every pair that overlaps with
// positive area. It fails with an internal consistency error if the sweep
// state is corrupted, which only happens for malformed rectangles.
func Detect(nodes []*model.Node, fn Handler) error {
	events := make([]event, 0, 2*len(nodes))
	for _, n := range nodes {
		events = append(events,
			event{y: n.Rect.MinY(), kind: enter, node: n},
			event{y: n.Rect.MaxY(), kind: leave, node: n},
		)
	}
	slices.SortFunc(events, func(a, b event) int {
		return cmp.Or(
			cmp.Compare(a.y, b.y),
			cmp.Compare(a.kind, b.kind),
			cmp.Compare(a.node.ID, b.node.ID),
		)
	})

	active := btree.NewG[*model.Node](degree, less)
	for _, ev := range events {
		n := ev.node
		switch ev.kind {
		case enter:
			if active.Has(n) {
				return errors.Inconsistent("node %q entered the sweep twice", n.Ref)
			}
			active.Ascend(func(m *model.Node) bool {
				// Members are sorted by left edge, so once one starts at or
				// beyond n's right edge none of the rest can overlap it.
				if m.Rect.MinX() >= n.Rect.MaxX()-geom.Fuzz {
					return false
				}
				if m.Overlaps(n) {
					report(fn, m, n)
				}
				return true
			})
			active.ReplaceOrInsert(n)
		case leave:
			if _, ok := active.Delete(n); !ok {
				return errors.Inconsistent("node %q left the sweep without entering", n.Ref)
			}
		}
	}
	if active.Len() != 0 {
		return errors.Inconsistent("%d nodes still active after the sweep", active.Len())
	}
	return nil
}

// Overlaps returns every overlapping pair found by Detect, sorted.
func Overlaps(nodes []*model.Node) ([]geom.Edge, error) {
	var pairs []geom.Edge
	err := Detect(nodes, func(a, b *model.Node) {
		pairs = append(pairs, geom.NewEdge(a.ID, b.ID))
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(pairs, geom.Edge.Compare)
	return pairs, nil
}

// Naive returns every overlapping pair by checking all pairs, sorted.
func Naive(nodes []*model.Node) []geom.Edge {
	var pairs []geom.Edge
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if a.Overlaps(b) {
				pairs = append(pairs, geom.NewEdge(a.ID, b.ID))
			}
		}
	}
	slices.SortFunc(pairs, geom.Edge.Compare)
	return pairs
}

func report(fn Handler, a, b *model.Node) {
	if a.ID > b.ID {
		a, b = b, a
	}
	fn(a, b)
}

// less orders the active set by left edge, then by original position and
// ID so that distinct nodes never compare equal.
func less(a, b *model.Node) bool {
	return cmp.Or(
		cmp.Compare(a.Rect.MinX(), b.Rect.MinX()),
		cmp.Compare(a.Original.X, b.Original.X),
		cmp.Compare(a.Original.Y, b.Original.Y),
		cmp.Compare(a.ID, b.ID),
	) < 0
}
