package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spore/pkg/graph"
	"github.com/matzehuels/spore/pkg/pipeline"
)

// renderCommand creates the render command. A .layout.json input is drawn
// as-is; any other input is laid out first.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   layoutFlags
		r       renderFlags
		output  string
		formats string
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json|diagram]",
		Short: "Render a layout to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a layout to one or more output formats.

The input is either a layout written by 'spore layout' or a diagram, which
is laid out with the given options first. The graphviz format lays the
edges out with Graphviz instead of drawing the computed positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c, cmd.Flags())
			r.apply(&opts, cmd.Flags())
			if f := parseFormats(formats); f != nil {
				opts.Formats = f
			}
			return c.runRender(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	flags.register(cmd.Flags())
	r.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: svg (default), png, pdf, json, dot, graphviz (comma-separated)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	opts.SetDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		artifacts map[string][]byte
		cached    bool
		l         graph.Layout
	)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	if isLayoutFile(input) {
		l, err = graph.ReadLayoutFile(input)
		if err == nil {
			artifacts, cached, err = runner.RenderWithCacheInfo(ctx, l, opts)
		}
	} else {
		var d graph.Diagram
		if d, err = pipeline.LoadDiagram(input); err == nil {
			var res *pipeline.Result
			if res, err = runner.Execute(ctx, d, opts); err == nil {
				l, artifacts, cached = res.Layout, res.Artifacts, res.CacheInfo.RenderHit
			}
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, basePath(output, input))
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printLayoutStats(l, cached)
	return nil
}

func isLayoutFile(path string) bool {
	return strings.HasSuffix(path, ".layout.json")
}
