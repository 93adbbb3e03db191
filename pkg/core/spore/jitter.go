package spore

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/core/model"
)

// jitterer separates nodes whose centers coincide exactly, which the
// triangulator cannot handle. It is deterministic for a given seed.
type jitterer struct {
	rng    *rand.Rand
	radius float64
}

func newJitterer(cfg Config) *jitterer {
	return &jitterer{
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		radius: cfg.Jitter,
	}
}

// apply moves every node that shares its center with a lower-ID node by
// radius in a random direction and returns how many nodes moved.
func (j *jitterer) apply(g *model.Graph) int {
	moved := 0
	for {
		seen := make(map[geom.Vertex]bool, g.Len())
		round := 0
		for _, n := range g.Nodes() {
			if !seen[n.C] {
				seen[n.C] = true
				continue
			}
			a := j.rng.Float64() * 2 * math.Pi
			n.Translate(geom.Vertex{X: j.radius * math.Cos(a), Y: j.radius * math.Sin(a)})
			round++
		}
		// A moved node can land on another center; repeat until distinct.
		if round == 0 {
			break
		}
		moved += round
	}
	if moved > 0 {
		g.RefreshOriginals()
	}
	return moved
}
