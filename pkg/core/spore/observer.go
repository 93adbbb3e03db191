package spore

import (
	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
	"github.com/matzehuels/spore/pkg/core/tree"
)

// Phase names a point in a run at which the observer is called.
type Phase string

const (
	PhaseImport    Phase = "import"
	PhaseOverlaps  Phase = "overlaps"
	PhaseStructure Phase = "structure"
	PhaseTree      Phase = "tree"
	PhaseMoved     Phase = "moved"
	PhaseDone      Phase = "done"
)

// Checkpoint is a snapshot of a run handed to an Observer. All slices are
// copies owned by the receiver.
type Checkpoint struct {
	Algorithm Algorithm   `json:"algorithm"`
	Phase     Phase       `json:"phase"`
	Iteration int         `json:"iteration"`
	Refs      []string    `json:"refs"`
	Rects     []geom.Rect `json:"rects"`
	Overlaps  []geom.Edge `json:"overlaps,omitempty"`
	Edges     []geom.Edge `json:"edges,omitempty"`
	Tree      [][2]int    `json:"tree,omitempty"`
	Roots     []int       `json:"roots,omitempty"`
}

// Observer receives checkpoints. It runs synchronously on the calling
// goroutine and must not retain or mutate the graph.
type Observer func(Checkpoint)

// Recorder is an Observer that keeps every checkpoint.
type Recorder struct {
	Checkpoints []Checkpoint
}

// Observe appends cp. Pass r.Observe as Config.Observer.
func (r *Recorder) Observe(cp Checkpoint) {
	r.Checkpoints = append(r.Checkpoints, cp)
}

// Phases returns the phase of every recorded checkpoint in order.
func (r *Recorder) Phases() []Phase {
	phases := make([]Phase, len(r.Checkpoints))
	for i, cp := range r.Checkpoints {
		phases[i] = cp.Phase
	}
	return phases
}

// probe builds checkpoints for one run. A nil observer makes every call a
// no-op, so snapshots are only taken when someone is listening.
type probe struct {
	obs       Observer
	alg       Algorithm
	g         *model.Graph
	iteration int
}

func (p *probe) emit(phase Phase, fill func(*Checkpoint)) {
	if p.obs == nil {
		return
	}
	cp := Checkpoint{
		Algorithm: p.alg,
		Phase:     phase,
		Iteration: p.iteration,
		Rects:     p.g.Snapshot(),
		Refs:      make([]string, p.g.Len()),
	}
	for i, n := range p.g.Nodes() {
		cp.Refs[i] = n.Ref
	}
	if fill != nil {
		fill(&cp)
	}
	p.obs(cp)
}

func (p *probe) overlaps(pairs []geom.Edge) {
	p.emit(PhaseOverlaps, func(cp *Checkpoint) { cp.Overlaps = clone(pairs) })
}

func (p *probe) structure(edges []geom.Edge) {
	p.emit(PhaseStructure, func(cp *Checkpoint) { cp.Edges = clone(edges) })
}

func (p *probe) trees(ts []*tree.Tree) {
	p.emit(PhaseTree, func(cp *Checkpoint) {
		for _, t := range ts {
			cp.Roots = append(cp.Roots, t.Root())
			cp.Tree = append(cp.Tree, t.Links()...)
		}
	})
}

func clone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}
