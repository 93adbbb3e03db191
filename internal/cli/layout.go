package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/spore/pkg/core/spore"
	"github.com/matzehuels/spore/pkg/graph"
	"github.com/matzehuels/spore/pkg/pipeline"
)

// =============================================================================
// Shared Flags
// =============================================================================

// layoutFlags binds the layout options shared by layout, compact, check,
// render and inspect.
type layoutFlags struct {
	opts    pipeline.Options
	spacing float64
	padding float64
	noCache bool
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.opts.Algorithm, "algorithm", "a", "", "algorithm: overlap, compact, overlap+compact (default)")
	fs.Float64VarP(&f.spacing, "spacing", "s", spore.DefaultSpacing, "minimum gap between nodes")
	fs.StringVar(&f.opts.CostFunction, "cost", "", "compaction cost function: CENTER_DISTANCE, CIRCLE_UNDERLAP (default), RECTANGLE_UNDERLAP, INVERTED_OVERLAP, MINIMUM_ROOT_DISTANCE")
	fs.StringVar(&f.opts.RootSelection, "root", "", "compaction root: CENTER_NODE (default), FIXED")
	fs.StringVar(&f.opts.RootRef, "root-ref", "", "node ID used as the FIXED root")
	fs.StringVar(&f.opts.Mode, "mode", "", "compaction mode: FREE (default), ORTHOGONAL")
	fs.IntVar(&f.opts.MaxIterations, "max-iterations", 0, fmt.Sprintf("overlap removal pass limit (default %d)", spore.DefaultMaxIterations))
	fs.BoolVar(&f.opts.NaiveCheck, "naive", false, "check all pairs instead of the sweep line")
	fs.StringVar(&f.opts.EdgePolicy, "edge-policy", "", "overlap structure: UNION (default), OVERLAPS_ONLY")
	fs.Float64Var(&f.padding, "padding", spore.DefaultPadding, "container padding around the nodes")
	fs.Uint64Var(&f.opts.Seed, "seed", 0, fmt.Sprintf("jitter seed (default %d)", spore.DefaultSeed))
	fs.BoolVar(&f.opts.AssertConnected, "assert-connected", false, "fail when the structure graph is disconnected")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "recompute even if cached")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// renderFlags binds the drawing options shared by the commands that render.
type renderFlags struct {
	scale     float64
	labels    bool
	edges     bool
	container bool
}

func (f *renderFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "scale factor for PNG output")
	fs.BoolVar(&f.labels, "labels", false, "draw node labels")
	fs.BoolVar(&f.edges, "edges", false, "draw edges")
	fs.BoolVar(&f.container, "container", false, "draw the container box")
}

func (f *renderFlags) apply(opts *pipeline.Options, fs *pflag.FlagSet) {
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
	opts.ShowLabels = opts.ShowLabels || f.labels
	opts.ShowEdges = opts.ShowEdges || f.edges
	opts.ShowContainer = opts.ShowContainer || f.container
}

// options returns the bound options with config defaults applied. Spacing
// and padding are only set when their flags were given, so the config file
// and the diagram's own padding can apply otherwise.
func (f *layoutFlags) options(c *CLI, fs *pflag.FlagSet) pipeline.Options {
	opts := f.opts
	if fs.Changed("spacing") {
		opts.Spacing = pipeline.Float(f.spacing)
	}
	if fs.Changed("padding") {
		opts.Padding = pipeline.Float(f.padding)
	}
	c.Config.Apply(&opts)
	opts.Logger = c.Logger
	return opts
}

// =============================================================================
// layout / compact
// =============================================================================

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	return c.newLayoutCommand("layout", "", `Remove overlaps from a diagram and write the layout.

The input is a .spore diagram or a JSON diagram. The output is a
<input>.layout.json file that can be rendered with 'spore render'.
With --format the layout is also rendered directly.

Results are cached locally for faster subsequent runs.`)
}

// compactCommand creates the compact command, a layout preset.
func (c *CLI) compactCommand() *cobra.Command {
	return c.newLayoutCommand("compact", string(spore.AlgorithmCompact), `Compact a diagram without creating new overlaps.

Equivalent to 'spore layout --algorithm compact'.`)
}

func (c *CLI) newLayoutCommand(use, algorithm, long string) *cobra.Command {
	var (
		flags      layoutFlags
		output     string
		formats    string
		saveSource bool
		record     bool
		r          renderFlags
	)

	cmd := &cobra.Command{
		Use:   use + " [diagram]",
		Short: firstLine(long),
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c, cmd.Flags())
			if algorithm != "" {
				opts.Algorithm = algorithm
			}
			r.apply(&opts, cmd.Flags())
			opts.Formats = parseFormats(formats)
			opts.Record = opts.Record || record
			return c.runLayout(cmd.Context(), args[0], output, opts, flags.noCache, saveSource)
		},
	}

	flags.register(cmd.Flags())
	r.register(cmd.Flags())
	if algorithm != "" {
		cmd.Flags().Lookup("algorithm").Hidden = true
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "also render: svg, png, pdf, json, dot, graphviz (comma-separated)")
	cmd.Flags().BoolVar(&saveSource, "save-diagram", false, "also write the moved diagram as <input>.out.spore")
	cmd.Flags().BoolVar(&record, "record", false, "save the run in the run history")

	return cmd
}

// runLayout loads the diagram, computes the layout and writes the outputs.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, noCache, saveSource bool) error {
	d, err := pipeline.LoadDiagram(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, opts.Record)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	render := len(opts.Formats) > 0
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	if render {
		if err := opts.ValidateForRender(); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %s on %d nodes...", opts.Algorithm, len(d.Nodes)))
	spinner.Start()
	if noCache || opts.Refresh {
		opts.Observer = progressObserver(spinner)
	}

	var res *pipeline.Result
	if render || opts.Record {
		if !render {
			opts.Formats = []string{pipeline.FormatJSON}
		}
		res, err = runner.Execute(ctx, d, opts)
	} else {
		var l graph.Layout
		var hit bool
		l, hit, err = runner.LayoutWithCacheInfo(ctx, d, opts)
		res = &pipeline.Result{Layout: l, CacheInfo: pipeline.CacheInfo{LayoutHit: hit}}
	}
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(output, input)
	layoutPath := output
	if layoutPath == "" {
		layoutPath = base + ".layout.json"
	}
	if err := graph.WriteLayoutFile(res.Layout, layoutPath); err != nil {
		return fmt.Errorf("write output %s: %w", layoutPath, err)
	}

	printSuccess("Layout complete")
	printFile(layoutPath)
	if render {
		paths, err := writeArtifacts(res.Artifacts, opts.Formats, base)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
		}
	}
	if saveSource {
		p := base + ".out.spore"
		if err := pipeline.SaveDiagram(res.Layout.Diagram(), p); err != nil {
			return fmt.Errorf("write diagram %s: %w", p, err)
		}
		printFile(p)
	}
	printLayoutStats(res.Layout, res.CacheInfo.LayoutHit)
	if res.RunID != "" {
		printKeyValue("Run", res.RunID)
	}
	if res.Layout.Stats.CapReached {
		printWarning("Stopped after %d passes with %d overlaps left", res.Layout.Stats.Iterations, res.Layout.Stats.Remaining)
	}
	printNewline()
	printNextStep("Render", appName+" render "+layoutPath)

	return nil
}

// writeArtifacts writes each rendered format next to base and returns the
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		p := base + pipeline.Extension(f)
		if f == pipeline.FormatJSON {
			p = base + ".render.json"
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// progressObserver reports each overlap detection on the spinner.
func progressObserver(s *Spinner) spore.Observer {
	return func(cp spore.Checkpoint) {
		if cp.Phase == spore.PhaseOverlaps {
			s.Update(fmt.Sprintf("Pass %d: %d overlaps", cp.Iteration+1, len(cp.Overlaps)))
		}
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
