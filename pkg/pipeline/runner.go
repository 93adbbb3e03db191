package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spore/pkg/cache"
	"github.com/matzehuels/spore/pkg/graph"
	"github.com/matzehuels/spore/pkg/observability"
	"github.com/matzehuels/spore/pkg/store"
)

// Runner encapsulates pipeline execution with caching and run recording.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The store starts as a NullStore; set Runner.Store to record runs.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  store.NullStore{},
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching, and
// records the run when opts.Record is set.
func (r *Runner) Execute(ctx context.Context, d graph.Diagram, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	hash, err := DiagramHash(d)
	if err != nil {
		return nil, fmt.Errorf("hash diagram: %w", err)
	}
	result := &Result{
		Diagram:     d,
		DiagramHash: hash,
		Stats: Stats{
			NodeCount: len(d.Nodes),
			EdgeCount: len(d.Edges),
		},
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"algorithm", l.Algorithm,
		"nodes", len(l.Nodes),
		"iterations", l.Stats.Iterations,
		"remaining", l.Stats.Remaining,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	if l.Stats.CapReached {
		logger.Warn("iteration cap reached with overlaps left",
			"max_iterations", opts.MaxIterations,
			"remaining", l.Stats.Remaining)
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	if opts.Record {
		id, err := r.record(ctx, result, opts)
		if err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		result.RunID = id
		logger.Debug("recorded run", "id", id)
	}

	return result, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit
// info. Runs with an observer always compute so every checkpoint is seen.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d graph.Diagram, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	hash, err := DiagramHash(d)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("hash diagram: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh && opts.Observer == nil {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Algorithm, len(d.Nodes))
	start := time.Now()
	l, err := ComputeLayout(d, opts)
	hooks.OnLayoutComplete(ctx, opts.Algorithm, l.Stats.Iterations, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "kind", "layout", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, d graph.Diagram, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, d, opts)
	return l, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit
// info. The hit flag is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "kind", "artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Check reports the overlapping pairs of d with caching.
func (r *Runner) Check(ctx context.Context, d graph.Diagram, opts Options) (*CheckReport, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	hash, err := DiagramHash(d)
	if err != nil {
		return nil, fmt.Errorf("hash diagram: %w", err)
	}
	cacheKey := r.Keyer.CheckKey(hash, opts.SpacingValue(), opts.NaiveCheck)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var report CheckReport
			if err := json.Unmarshal(data, &report); err == nil {
				observability.Cache().OnCacheHit(ctx, "check")
				return &report, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "check")
	}

	start := time.Now()
	report, err := CheckOverlaps(d, opts)
	if err != nil {
		return nil, err
	}
	observability.Pipeline().OnCheck(ctx, report.Nodes, len(report.Pairs), time.Since(start))

	if data, err := json.Marshal(report); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLCheck); err == nil {
			observability.Cache().OnCacheSet(ctx, "check", len(data))
		}
	}
	return report, nil
}

// record saves a finished run to the store and returns its ID.
func (r *Runner) record(ctx context.Context, res *Result, opts Options) (string, error) {
	rec := store.NewRecord(opts.Source, res.Diagram.Name)
	if rec.Source == "" {
		rec.Source = store.SourceCLI
	}
	rec.Algorithm = res.Layout.Algorithm
	rec.DiagramHash = res.DiagramHash
	rec.Nodes = res.Stats.NodeCount
	rec.Edges = res.Stats.EdgeCount
	rec.Duration = res.Stats.LayoutTime
	rec.CacheHit = res.CacheInfo.LayoutHit
	rec.Stats = store.RunStats{
		Iterations: res.Layout.Stats.Iterations,
		Overlaps:   res.Layout.Stats.Overlaps,
		Remaining:  res.Layout.Stats.Remaining,
		CapReached: res.Layout.Stats.CapReached,
		Jittered:   res.Layout.Stats.Jittered,
	}

	var err error
	if rec.Options, err = json.Marshal(opts); err != nil {
		return "", err
	}
	if rec.Layout, err = json.Marshal(res.Layout); err != nil {
		return "", err
	}

	err = r.Store.Save(ctx, rec)
	observability.Store().OnRunSaved(ctx, rec.Source, err)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// logger returns the per-call logger if set, else the runner's logger.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
