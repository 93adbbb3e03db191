package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spore/pkg/graph"
	"github.com/matzehuels/spore/pkg/render"
	"github.com/matzehuels/spore/pkg/render/nodelink"
	"github.com/matzehuels/spore/pkg/render/sink"
)

// SceneOptions converts the render options for render.NewScene.
func (o *Options) SceneOptions() []render.Option {
	opts := []render.Option{render.WithScale(o.Scale)}
	if o.ShowLabels {
		opts = append(opts, render.WithLabels())
	}
	if o.ShowEdges {
		opts = append(opts, render.WithEdges())
	}
	if o.ShowContainer {
		opts = append(opts, render.WithContainer())
	}
	return opts
}

// Render draws l in every requested format. Formats are rendered
// concurrently; the first failure cancels the rest.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	sc := render.NewScene(l, opts.SceneOptions()...)

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, format, l, sc)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, l graph.Layout, sc render.Scene) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(sc), nil
	case FormatPNG:
		return sink.RenderPNG(sc)
	case FormatPDF:
		return sink.RenderPDF(sc)
	case FormatJSON:
		return sink.RenderJSON(l)
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: true})), nil
	case FormatGraphviz:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{}))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
