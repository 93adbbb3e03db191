package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spore/pkg/config"
	sperrors "github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/pipeline"
	"github.com/matzehuels/spore/pkg/store"
)

const abcSource = `diagram abc {
  node A at 0, 0 size 20, 20
  node B at 5, 5 size 20, 20
  node C at 100, 100 size 20, 20
  edge A -> B
}`

func newTestServer(t *testing.T, cfg config.File) *httptest.Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	runner.Store = st

	ts := httptest.NewServer(New(runner, cfg, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	h := decode[Health](t, resp)
	if h.Status != "ok" || h.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp := post(t, ts.URL+"/v1/layout", Request{
		Source:  abcSource,
		Options: pipeline.Options{Algorithm: "overlap", Formats: []string{"svg", "json"}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	lr := decode[LayoutResponse](t, resp)

	if lr.Layout.Algorithm != "overlap" || len(lr.Layout.Nodes) != 3 {
		t.Errorf("layout = %+v", lr.Layout)
	}
	if lr.Layout.Stats.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", lr.Layout.Stats.Remaining)
	}
	if !strings.Contains(string(lr.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact does not contain <svg")
	}
	if lr.DiagramHash == "" {
		t.Error("DiagramHash is empty")
	}
	if lr.RunID != "" {
		t.Errorf("RunID = %q, want none without record", lr.RunID)
	}
}

func TestLayoutRecordsAndServesRuns(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RecordRuns = true
	ts := newTestServer(t, cfg)

	resp := post(t, ts.URL+"/v1/layout", Request{Source: abcSource, Options: pipeline.Options{Formats: []string{"json"}}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	lr := decode[LayoutResponse](t, resp)
	if lr.RunID == "" {
		t.Fatal("RunID is empty")
	}

	got, err := http.Get(ts.URL + "/v1/runs/" + lr.RunID)
	if err != nil {
		t.Fatal(err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusOK {
		t.Fatalf("GET run status = %d, want 200", got.StatusCode)
	}
	rec := decode[store.Record](t, got)
	if rec.ID != lr.RunID || rec.Source != store.SourceAPI || rec.Name != "abc" {
		t.Errorf("record = %+v", rec.Summary())
	}
	if len(rec.Layout) == 0 {
		t.Error("record has no layout")
	}

	list, err := http.Get(ts.URL + "/v1/runs?limit=10")
	if err != nil {
		t.Fatal(err)
	}
	defer list.Body.Close()
	runs := decode[RunList](t, list)
	if len(runs.Runs) != 1 || runs.Runs[0].ID != lr.RunID {
		t.Errorf("runs = %+v", runs.Runs)
	}
	if len(runs.Runs[0].Layout) != 0 {
		t.Error("list includes the layout document")
	}
}

func TestCheck(t *testing.T) {
	ts := newTestServer(t, config.Default())

	resp := post(t, ts.URL+"/v1/check", Request{Source: abcSource, Options: pipeline.Options{Spacing: pipeline.Float(0)}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	report := decode[pipeline.CheckReport](t, resp)
	if report.Nodes != 3 || len(report.Pairs) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if p := report.Pairs[0]; p.A != "A" || p.B != "B" || p.DX != 15 {
		t.Errorf("pair = %+v", p)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, config.Default())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   sperrors.Code
	}{
		{"malformed json", "POST", "/v1/layout", `{"source":`, 400, sperrors.ErrCodeInvalidFormat},
		{"unknown field", "POST", "/v1/layout", `{"src":"x"}`, 400, sperrors.ErrCodeInvalidFormat},
		{"no diagram", "POST", "/v1/layout", `{}`, 400, sperrors.ErrCodeInvalidInput},
		{"bad dsl", "POST", "/v1/check", `{"source":"diagram {"}`, 400, sperrors.ErrCodeInvalidFormat},
		{"bad option", "POST", "/v1/layout", `{"source":"diagram d { node a at 0, 0 size 1, 1 }","options":{"mode":"diagonal"}}`, 400, sperrors.ErrCodeInvalidConfig},
		{"duplicate node", "POST", "/v1/layout", `{"diagram":{"nodes":[{"id":"a","x":0,"y":0,"width":1,"height":1},{"id":"a","x":0,"y":0,"width":1,"height":1}]}}`, 400, sperrors.ErrCodeInvalidInput},
		{"missing run", "GET", "/v1/runs/0b6f8a52-0000-4000-8000-000000000000", "", 404, sperrors.ErrCodeRunNotFound},
		{"bad run id", "GET", "/v1/runs/a.b", "", 400, sperrors.ErrCodeInvalidInput},
		{"bad limit", "GET", "/v1/runs?limit=x", "", 400, sperrors.ErrCodeInvalidInput},
		{"unknown route", "GET", "/v2/nothing", "", 404, sperrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[errorBody](t, resp)
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 16
	ts := newTestServer(t, cfg)

	resp := post(t, ts.URL+"/v1/layout", Request{Source: abcSource})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{sperrors.New(sperrors.ErrCodeDegenerateGeometry, "collinear"), http.StatusUnprocessableEntity},
		{sperrors.Inconsistent("cycle"), http.StatusUnprocessableEntity},
		{sperrors.New(sperrors.ErrCodeInvalidPath, "x"), http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got, _ := statusFor(tt.err); got != tt.status {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.status)
		}
	}
}
