// Package pipeline provides the load → layout → render pipeline for SPOrE.
//
// The CLI and the HTTP API both run layouts through this package so that
// defaults, validation, caching and run recording behave the same way at
// every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a diagram from JSON or a .spore file
//  2. Layout: remove overlaps and/or compact the diagram
//  3. Render: draw the layout in one or more formats (SVG, PNG, PDF, DOT, JSON)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	d, err := pipeline.LoadDiagram("diagram.spore")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, d, pipeline.Options{
//	    Algorithm: "overlap+compact",
//	    Formats:   []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spore/pkg/cache"
	"github.com/matzehuels/spore/pkg/core/compact"
	"github.com/matzehuels/spore/pkg/core/spanning"
	"github.com/matzehuels/spore/pkg/core/spore"
	"github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAlgorithm removes overlaps and then compacts.
	DefaultAlgorithm = string(spore.AlgorithmChain)

	// DefaultScale is the default render scale.
	DefaultScale = 1.0

	// MaxScale bounds the render scale so a request cannot allocate huge rasters.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// ValidAlgorithms is the set of supported algorithms.
var ValidAlgorithms = map[string]bool{
	string(spore.AlgorithmOverlap): true,
	string(spore.AlgorithmCompact): true,
	string(spore.AlgorithmChain):   true,
}

// ValidCostFunctions is the set of supported compaction cost functions.
var ValidCostFunctions = map[string]bool{
	spanning.CenterDistance.String():      true,
	spanning.CircleUnderlap.String():      true,
	spanning.RectangleUnderlap.String():   true,
	spanning.InvertedOverlap.String():     true,
	spanning.MinimumRootDistance.String(): true,
}

// ValidRootSelections is the set of supported root selections.
var ValidRootSelections = map[string]bool{
	spanning.Fixed.String():      true,
	spanning.CenterNode.String(): true,
}

// ValidModes is the set of supported compaction modes.
var ValidModes = map[string]bool{
	compact.Free.String():       true,
	compact.Orthogonal.String(): true,
}

// ValidEdgePolicies is the set of supported edge policies.
var ValidEdgePolicies = map[string]bool{
	spore.Union.String():        true,
	spore.OverlapsOnly.String(): true,
}

// Names returns the sorted keys of one of the Valid* maps.
func Names(valid map[string]bool) []string {
	names := make([]string, 0, len(valid))
	for k := range valid {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Extension returns the file extension used when writing format.
func Extension(format string) string {
	if format == FormatGraphviz {
		return ".gv.svg"
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests. Spacing and
// Padding are pointers because zero is a valid value distinct from "unset".
type Options struct {
	// Layout options
	Algorithm       string   `json:"algorithm,omitempty"`
	Spacing         *float64 `json:"spacing,omitempty"`
	CostFunction    string   `json:"cost_function,omitempty"`
	RootSelection   string   `json:"root_selection,omitempty"`
	RootRef         string   `json:"root_ref,omitempty"`
	Mode            string   `json:"mode,omitempty"`
	MaxIterations   int      `json:"max_iterations,omitempty"`
	NaiveCheck      bool     `json:"naive_check,omitempty"`
	EdgePolicy      string   `json:"edge_policy,omitempty"`
	Padding         *float64 `json:"padding,omitempty"`
	Seed            uint64   `json:"seed,omitempty"`
	AssertConnected bool     `json:"assert_connected,omitempty"`
	Refresh         bool     `json:"refresh,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	Scale         float64  `json:"scale,omitempty"`
	ShowLabels    bool     `json:"show_labels,omitempty"`
	ShowEdges     bool     `json:"show_edges,omitempty"`
	ShowContainer bool     `json:"show_container,omitempty"`

	// Record saves the run in the runner's store.
	Record bool `json:"record,omitempty"`

	// Runtime options (not serialized)
	Source   string         `json:"-"`
	Logger   *log.Logger    `json:"-"`
	Observer spore.Observer `json:"-"`
}

// Float returns a pointer to v, for the optional Spacing and Padding fields.
func Float(v float64) *float64 { return &v }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the input diagram.
	Diagram graph.Diagram

	// DiagramHash is the content hash of the diagram.
	DiagramHash string

	// Layout is the computed layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// RunID is set when the run was recorded.
	RunID string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Names(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScale checks that a render scale is usable.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || scale <= 0 || scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid scale: %g (must be in (0, %g])", scale, MaxScale)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset layout and render options with their defaults and
// canonicalizes enum names. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	o.Algorithm = strings.ToLower(strings.TrimSpace(o.Algorithm))
	if o.Spacing == nil {
		o.Spacing = Float(spore.DefaultSpacing)
	}
	if o.CostFunction == "" {
		o.CostFunction = spanning.CircleUnderlap.String()
	}
	if o.RootSelection == "" {
		o.RootSelection = spanning.CenterNode.String()
		if o.RootRef != "" {
			o.RootSelection = spanning.Fixed.String()
		}
	}
	if o.Mode == "" {
		o.Mode = compact.Free.String()
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = spore.DefaultMaxIterations
	}
	if o.EdgePolicy == "" {
		o.EdgePolicy = spore.Union.String()
	}
	if o.Seed == 0 {
		o.Seed = spore.DefaultSeed
	}
	o.canonicalize()

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// canonicalize rewrites parseable enum names in their canonical spelling so
// that equivalent requests share cache keys.
func (o *Options) canonicalize() {
	if f, err := spanning.ParseCostFunction(o.CostFunction); err == nil {
		o.CostFunction = f.String()
	}
	if r, err := spanning.ParseRootSelection(o.RootSelection); err == nil {
		o.RootSelection = r.String()
	}
	if m, err := compact.ParseMode(o.Mode); err == nil {
		o.Mode = m.String()
	}
	if p, err := spore.ParseEdgePolicy(o.EdgePolicy); err == nil {
		o.EdgePolicy = p.String()
	}
}

// ValidateForLayout sets defaults and checks the layout options.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	_, err := o.Config()
	return err
}

// ValidateForRender sets defaults and checks the render options.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateScale(o.Scale)
}

// Validate sets defaults and checks all options.
func (o *Options) Validate() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// AlgorithmValue returns the parsed algorithm.
func (o *Options) AlgorithmValue() (spore.Algorithm, error) {
	alg := o.Algorithm
	if alg == "" {
		alg = DefaultAlgorithm
	}
	return spore.ParseAlgorithm(alg)
}

// Config builds and validates the core configuration. Unset fields take the
// core defaults.
func (o *Options) Config() (spore.Config, error) {
	cfg := spore.DefaultConfig()
	if _, err := o.AlgorithmValue(); err != nil {
		return cfg, err
	}
	if o.Spacing != nil {
		cfg.Spacing = *o.Spacing
	}
	if o.Padding != nil {
		cfg.Padding = *o.Padding
	}
	if o.CostFunction != "" {
		f, err := spanning.ParseCostFunction(o.CostFunction)
		if err != nil {
			return cfg, err
		}
		cfg.CostFunction = f
	}
	if o.RootSelection != "" {
		r, err := spanning.ParseRootSelection(o.RootSelection)
		if err != nil {
			return cfg, err
		}
		cfg.RootSelection = r
	} else if o.RootRef != "" {
		cfg.RootSelection = spanning.Fixed
	}
	cfg.RootRef = o.RootRef
	if o.Mode != "" {
		m, err := compact.ParseMode(o.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = m
	}
	if o.MaxIterations != 0 {
		cfg.MaxIterations = o.MaxIterations
	}
	if o.EdgePolicy != "" {
		p, err := spore.ParseEdgePolicy(o.EdgePolicy)
		if err != nil {
			return cfg, err
		}
		cfg.EdgePolicy = p
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}
	cfg.RunScanlineCheck = !o.NaiveCheck
	cfg.AssertConnected = o.AssertConnected
	cfg.Observer = o.Observer

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SpacingValue returns the configured spacing or the default.
func (o *Options) SpacingValue() float64 {
	if o.Spacing == nil {
		return spore.DefaultSpacing
	}
	return *o.Spacing
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Algorithm:       o.Algorithm,
		Spacing:         o.SpacingValue(),
		CostFunction:    o.CostFunction,
		RootSelection:   o.RootSelection,
		RootRef:         o.RootRef,
		Mode:            o.Mode,
		MaxIterations:   o.MaxIterations,
		NaiveCheck:      o.NaiveCheck,
		EdgePolicy:      o.EdgePolicy,
		Padding:         -1,
		Seed:            o.Seed,
		AssertConnected: o.AssertConnected,
	}
	if o.Padding != nil {
		k.Padding = *o.Padding
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		Scale:         o.Scale,
		ShowLabels:    o.ShowLabels,
		ShowEdges:     o.ShowEdges,
		ShowContainer: o.ShowContainer,
	}
}

func (o *Options) String() string {
	return fmt.Sprintf("%s spacing=%g cost=%s root=%s mode=%s", o.Algorithm, o.SpacingValue(), o.CostFunction, o.RootSelection, o.Mode)
}
