package sink

import (
	"github.com/matzehuels/spore/pkg/graph"
)

// RenderJSON returns the layout document. It takes the layout rather than a
// scene because JSON output keeps the original coordinates.
func RenderJSON(l graph.Layout) ([]byte, error) {
	return graph.MarshalLayout(l)
}
