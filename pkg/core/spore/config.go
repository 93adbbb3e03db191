package spore

import (
	"math"
	"strings"

	"github.com/matzehuels/spore/pkg/core/compact"
	"github.com/matzehuels/spore/pkg/core/spanning"
	"github.com/matzehuels/spore/pkg/errors"
)

// Default configuration values.
const (
	DefaultSpacing       = 20.0
	DefaultMaxIterations = 64
	DefaultPadding       = 12.0
	DefaultSeed          = 42
	DefaultJitter        = 0.5
)

// EdgePolicy decides how overlap pairs are combined with the triangulation
// when building the structure for one overlap-removal pass.
type EdgePolicy int

const (
	// Union uses the triangulation edges plus every overlap pair.
	Union EdgePolicy = iota
	// OverlapsOnly uses the overlap pairs alone, one tree per cluster of
	// mutually overlapping nodes.
	OverlapsOnly
)

func (p EdgePolicy) String() string {
	switch p {
	case Union:
		return "UNION"
	case OverlapsOnly:
		return "OVERLAPS_ONLY"
	default:
		return "UNKNOWN"
	}
}

// ParseEdgePolicy parses an edge policy name.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "UNION":
		return Union, nil
	case "OVERLAPS_ONLY":
		return OverlapsOnly, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown edge policy: %q", s)
}

func (p EdgePolicy) MarshalText() ([]byte, error) {
	if p != Union && p != OverlapsOnly {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown edge policy: %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *EdgePolicy) UnmarshalText(b []byte) error {
	v, err := ParseEdgePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Config configures overlap removal and compaction.
type Config struct {
	// Spacing is the minimum gap kept between any two nodes.
	Spacing float64 `json:"spacing"`
	// CostFunction weighs structure edges during compaction. Overlap
	// removal always uses spanning.InvertedOverlap.
	CostFunction spanning.CostFunction `json:"cost_function"`
	// RootSelection picks the compaction root. Overlap removal always uses
	// spanning.CenterNode.
	RootSelection spanning.RootSelection `json:"root_selection"`
	// RootRef names the root for spanning.Fixed; empty means the first node.
	RootRef string `json:"root_ref,omitempty"`
	// Mode restricts compaction moves.
	Mode compact.Mode `json:"mode"`
	// MaxIterations caps the overlap-removal loop.
	MaxIterations int `json:"max_iterations"`
	// RunScanlineCheck selects the sweep-line detector; when false all
	// pairs are checked directly.
	RunScanlineCheck bool `json:"run_scanline_check"`
	// EdgePolicy combines overlap pairs with the triangulation.
	EdgePolicy EdgePolicy `json:"edge_policy"`
	// Padding surrounds the exported container box.
	Padding float64 `json:"padding"`
	// Seed makes jitter of coincident centers reproducible.
	Seed uint64 `json:"seed"`
	// Jitter is the distance a coincident center is moved.
	Jitter float64 `json:"jitter"`
	// AssertConnected fails a pass whose structure graph is disconnected
	// instead of building a partial tree.
	AssertConnected bool `json:"assert_connected,omitempty"`
	// Observer, if set, receives checkpoints while the algorithms run.
	Observer Observer `json:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Spacing:          DefaultSpacing,
		CostFunction:     spanning.CircleUnderlap,
		RootSelection:    spanning.CenterNode,
		Mode:             compact.Free,
		MaxIterations:    DefaultMaxIterations,
		RunScanlineCheck: true,
		EdgePolicy:       Union,
		Padding:          DefaultPadding,
		Seed:             DefaultSeed,
		Jitter:           DefaultJitter,
	}
}

// Validate checks c before any geometry is touched.
func (c Config) Validate() error {
	if err := errors.ValidateNonNegative("spacing", c.Spacing); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if err := errors.ValidateNonNegative("padding", c.Padding); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if math.IsNaN(c.Jitter) || math.IsInf(c.Jitter, 0) || c.Jitter <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "jitter must be positive, got %g", c.Jitter)
	}
	if c.MaxIterations < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max iterations must be at least 1, got %d", c.MaxIterations)
	}
	if _, err := c.CostFunction.MarshalText(); err != nil {
		return err
	}
	if _, err := c.RootSelection.MarshalText(); err != nil {
		return err
	}
	if _, err := c.Mode.MarshalText(); err != nil {
		return err
	}
	if _, err := c.EdgePolicy.MarshalText(); err != nil {
		return err
	}
	if c.RootRef != "" && c.RootSelection != spanning.Fixed {
		return errors.New(errors.ErrCodeInvalidConfig, "root %q requires FIXED root selection", c.RootRef)
	}
	return nil
}
