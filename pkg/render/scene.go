package render

import (
	"math"

	"github.com/matzehuels/spore/pkg/core/geom"
	"github.com/matzehuels/spore/pkg/graph"
)

// Palette shared by all sinks.
const (
	ColorBackground = "#ffffff"
	ColorContainer  = "#c8ccd2"
	ColorFill       = "#f5f9ff"
	ColorStroke     = "#2b4c7e"
	ColorEdge       = "#8a8f98"
	ColorText       = "#1d2733"
)

// Base sizes in layout units; sinks multiply them by the scale.
const (
	StrokeWidth = 1.0
	EdgeWidth   = 1.0
	FontSize    = 11.0
)

// DefaultScale is the scale factor when none is given.
const DefaultScale = 1.0

// Options controls which parts of the layout are drawn.
type Options struct {
	Scale         float64
	ShowLabels    bool
	ShowEdges     bool
	ShowContainer bool
}

// Option configures a scene.
type Option func(*Options)

func WithScale(s float64) Option { return func(o *Options) { o.Scale = s } }
func WithLabels() Option         { return func(o *Options) { o.ShowLabels = true } }
func WithEdges() Option          { return func(o *Options) { o.ShowEdges = true } }
func WithContainer() Option      { return func(o *Options) { o.ShowContainer = true } }

// Box is a node in scene coordinates.
type Box struct {
	ID     string
	Label  string
	X, Y   float64
	Width  float64
	Height float64
}

// Center returns the center of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Line is a routed edge in scene coordinates.
type Line struct {
	ID             string
	X1, Y1, X2, Y2 float64
}

// Scene is a layout prepared for drawing. The origin is the top-left corner
// of the container and every length is already scaled.
type Scene struct {
	Name      string
	Width     float64
	Height    float64
	Container Box
	Boxes     []Box
	Lines     []Line
	Options   Options
}

// NewScene prepares l for drawing. Without a container the node bounds are
// used as the frame.
func NewScene(l graph.Layout, opts ...Option) Scene {
	o := Options{Scale: DefaultScale}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.Scale > 0) || math.IsInf(o.Scale, 0) {
		o.Scale = DefaultScale
	}

	frame := l.Container.Rect()
	if frame.W <= 0 || frame.H <= 0 {
		frame = bounds(l)
	}
	s := o.Scale
	tx := func(x float64) float64 { return (x - frame.X) * s }
	ty := func(y float64) float64 { return (y - frame.Y) * s }

	sc := Scene{
		Name:      l.Name,
		Width:     math.Max(1, math.Ceil(frame.W*s)),
		Height:    math.Max(1, math.Ceil(frame.H*s)),
		Container: Box{Width: frame.W * s, Height: frame.H * s},
		Options:   o,
		Boxes:     make([]Box, len(l.Nodes)),
	}
	for i, n := range l.Nodes {
		sc.Boxes[i] = Box{
			ID:     n.ID,
			Label:  n.DisplayLabel(),
			X:      tx(n.X),
			Y:      ty(n.Y),
			Width:  n.Width * s,
			Height: n.Height * s,
		}
	}
	if o.ShowEdges {
		for _, e := range l.Edges {
			sc.Lines = append(sc.Lines, Line{ID: e.ID, X1: tx(e.X1), Y1: ty(e.Y1), X2: tx(e.X2), Y2: ty(e.Y2)})
		}
	}
	return sc
}

func bounds(l graph.Layout) geom.Rect {
	if len(l.Nodes) == 0 {
		return geom.Rect{W: 1, H: 1}
	}
	r := l.Nodes[0].Rect()
	for i := 1; i < len(l.Nodes); i++ {
		r = r.Union(l.Nodes[i].Rect())
	}
	return r
}
