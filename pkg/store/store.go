// Package store keeps a history of layout runs.
//
// Every layout requested through the CLI (with --record) or the HTTP API is
// saved as a [Record]: the options it ran with, the iteration statistics and
// the resulting layout document. Records are addressed by a random UUID.
//
// # Backends
//
//   - [FileStore]: one JSON file per run under a directory, used by the CLI
//   - [MongoStore]: a MongoDB collection, used by the server
//   - [NullStore]: recording disabled
//
// # Usage
//
//	st, err := store.Open(ctx, store.Options{Backend: "file", Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec := store.NewRecord(store.SourceCLI, "example")
//	rec.Layout = layoutJSON
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Sources of a run.
const (
	SourceCLI = "cli"
	SourceAPI = "api"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Record describes one layout run.
type Record struct {
	ID          string          `json:"id" bson:"_id"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	Source      string          `json:"source" bson:"source"`
	Name        string          `json:"name" bson:"name"`
	Algorithm   string          `json:"algorithm" bson:"algorithm"`
	DiagramHash string          `json:"diagram_hash,omitempty" bson:"diagram_hash,omitempty"`
	Nodes       int             `json:"nodes" bson:"nodes"`
	Edges       int             `json:"edges" bson:"edges"`
	Stats       RunStats        `json:"stats" bson:"stats"`
	Duration    time.Duration   `json:"duration_ns" bson:"duration_ns"`
	CacheHit    bool            `json:"cache_hit,omitempty" bson:"cache_hit,omitempty"`
	Options     json.RawMessage `json:"options,omitempty" bson:"options,omitempty"`
	Layout      json.RawMessage `json:"layout,omitempty" bson:"layout,omitempty"`
}

// RunStats mirrors the driver statistics of a run.
type RunStats struct {
	Iterations int   `json:"iterations" bson:"iterations"`
	Overlaps   []int `json:"overlaps,omitempty" bson:"overlaps,omitempty"`
	Remaining  int   `json:"remaining" bson:"remaining"`
	CapReached bool  `json:"cap_reached,omitempty" bson:"cap_reached,omitempty"`
	Jittered   int   `json:"jittered,omitempty" bson:"jittered,omitempty"`
}

// NewRecord creates a record with a fresh ID and the current time.
func NewRecord(source, name string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Name:      name,
	}
}

// Summary returns a copy of r without the layout document.
func (r *Record) Summary() *Record {
	c := *r
	c.Layout = nil
	return &c
}

// ListOptions filters List.
type ListOptions struct {
	Limit  int    // max records, DefaultListLimit when <= 0
	Source string // only records from this source when set
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Store is the interface for run history backends.
type Store interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns record summaries, newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)

	// Delete removes a record. Deleting a missing record returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}
