package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/spore/pkg/buildinfo"
	sperrors "github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/graph"
	"github.com/matzehuels/spore/pkg/observability"
	"github.com/matzehuels/spore/pkg/pipeline"
	"github.com/matzehuels/spore/pkg/store"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// Request is the body of POST /v1/layout and POST /v1/check. Exactly one of
// Diagram and Source must be set.
type Request struct {
	Diagram *graph.Diagram   `json:"diagram,omitempty"`
	Source  string           `json:"source,omitempty"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse is the body returned by POST /v1/layout. Artifacts are
// base64 encoded by encoding/json.
type LayoutResponse struct {
	DiagramHash string            `json:"diagram_hash"`
	RunID       string            `json:"run_id,omitempty"`
	Layout      graph.Layout      `json:"layout"`
	Artifacts   map[string][]byte `json:"artifacts,omitempty"`
	Cached      CacheStatus       `json:"cached"`
	DurationMS  int64             `json:"duration_ms"`
}

// CacheStatus reports which stages were served from cache.
type CacheStatus struct {
	Layout bool `json:"layout"`
	Render bool `json:"render"`
}

// RunList is the body returned by GET /v1/runs.
type RunList struct {
	Runs []*store.Record `json:"runs"`
}

// Health is the body returned by GET /healthz.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, Health{
		Status:    "ok",
		Version:   info.Version,
		Commit:    info.Commit,
		BuildDate: info.Date,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	d, opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Record = opts.Record || s.cfg.Server.RecordRuns

	start := time.Now()
	res, err := s.runner.Execute(r.Context(), d, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		DiagramHash: res.DiagramHash,
		RunID:       res.RunID,
		Layout:      res.Layout,
		Artifacts:   res.Artifacts,
		Cached:      CacheStatus{Layout: res.CacheInfo.LayoutHit, Render: res.CacheInfo.RenderHit},
		DurationMS:  time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	d, opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := s.runner.Check(r.Context(), d, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{Source: r.URL.Query().Get("source")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, sperrors.New(sperrors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		opts.Limit = n
	}
	runs, err := s.runner.Store.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, RunList{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := sperrors.ValidateRunID(id); err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.runner.Store.Get(r.Context(), id)
	observability.Store().OnRunLoaded(r.Context(), id, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// decode reads a Request, resolves the diagram and applies the configured
// defaults to its options.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (graph.Diagram, pipeline.Options, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		if _, ok := err.(*http.MaxBytesError); ok {
			return graph.Diagram{}, pipeline.Options{}, err
		}
		return graph.Diagram{}, pipeline.Options{}, sperrors.Wrap(sperrors.ErrCodeInvalidFormat, err, "decode request")
	}

	var (
		d   graph.Diagram
		err error
	)
	switch {
	case req.Diagram != nil && req.Source != "":
		return d, req.Options, sperrors.New(sperrors.ErrCodeInvalidInput, "set either diagram or source, not both")
	case req.Diagram != nil:
		d = *req.Diagram
		err = d.Validate()
	case req.Source != "":
		d, err = pipeline.ParseDiagram([]byte(req.Source), pipeline.InputSpore)
	default:
		err = sperrors.New(sperrors.ErrCodeInvalidInput, "request has no diagram")
	}
	if err != nil {
		return d, req.Options, err
	}

	opts := req.Options
	s.cfg.Apply(&opts)
	opts.Source = store.SourceAPI
	opts.Logger = s.logger
	return d, opts, nil
}
