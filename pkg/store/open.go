package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a store backend.
type Options struct {
	Backend    string `toml:"backend" yaml:"backend" json:"backend"`
	Dir        string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	MongoURI   string `toml:"mongo_uri" yaml:"mongo_uri" json:"mongo_uri,omitempty"`
	Database   string `toml:"database" yaml:"database" json:"database,omitempty"`
	Collection string `toml:"collection" yaml:"collection" json:"collection,omitempty"`
}

// Open creates the store described by opts. An empty backend disables recording.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NullStore{}, nil
	case BackendFile:
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo store: mongo_uri is required")
		}
		s, err := NewMongoStore(ctx, opts.MongoURI, opts.Database, opts.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
