// Package config loads spore configuration files.
//
// A configuration file sets defaults for the layout and render options and
// selects the cache and run store backends used by the CLI and the server.
// TOML and YAML are both accepted; the format follows the file extension.
//
//	[layout]
//	algorithm = "overlap+compact"
//	spacing = 16
//	cost_function = "CIRCLE_UNDERLAP"
//
//	[render]
//	formats = ["svg", "png"]
//	labels = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Values given on the command line or in an API request override the file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spore/pkg/cache"
	"github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/pipeline"
	"github.com/matzehuels/spore/pkg/store"
)

// DefaultAddr is the server listen address when none is configured.
const DefaultAddr = ":8080"

// File is the root of a configuration file.
type File struct {
	Layout Layout        `toml:"layout" yaml:"layout"`
	Render Render        `toml:"render" yaml:"render"`
	Cache  cache.Options `toml:"cache" yaml:"cache"`
	Store  store.Options `toml:"store" yaml:"store"`
	Server Server        `toml:"server" yaml:"server"`
	Log    Log           `toml:"log" yaml:"log"`
}

// Layout holds default layout options. Empty values keep the built-in defaults.
type Layout struct {
	Algorithm       string   `toml:"algorithm" yaml:"algorithm"`
	Spacing         *float64 `toml:"spacing" yaml:"spacing"`
	CostFunction    string   `toml:"cost_function" yaml:"cost_function"`
	RootSelection   string   `toml:"root_selection" yaml:"root_selection"`
	RootRef         string   `toml:"root_ref" yaml:"root_ref"`
	Mode            string   `toml:"mode" yaml:"mode"`
	MaxIterations   int      `toml:"max_iterations" yaml:"max_iterations"`
	NaiveCheck      bool     `toml:"naive_check" yaml:"naive_check"`
	EdgePolicy      string   `toml:"edge_policy" yaml:"edge_policy"`
	Padding         *float64 `toml:"padding" yaml:"padding"`
	Seed            uint64   `toml:"seed" yaml:"seed"`
	AssertConnected bool     `toml:"assert_connected" yaml:"assert_connected"`
}

// Render holds default render options.
type Render struct {
	Formats   []string `toml:"formats" yaml:"formats"`
	Scale     float64  `toml:"scale" yaml:"scale"`
	Labels    bool     `toml:"labels" yaml:"labels"`
	Edges     bool     `toml:"edges" yaml:"edges"`
	Container bool     `toml:"container" yaml:"container"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxBodyBytes    int64    `toml:"max_body_bytes" yaml:"max_body_bytes"`
	RecordRuns      bool     `toml:"record_runs" yaml:"record_runs"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// UnmarshalText parses a duration string. It serves both TOML and YAML.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Server: Server{
			Addr:            DefaultAddr,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			MaxBodyBytes:    4 << 20,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) file on top of Default.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return File{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return Parse(data, "toml")
	case ".yaml", ".yml":
		return Parse(data, "yaml")
	}
	return File{}, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown extension (want .toml, .yaml or .yml)", path)
}

// Parse decodes data in format ("toml" or "yaml") on top of Default and
// validates the result.
func Parse(data []byte, format string) (File, error) {
	f := Default()
	var err error
	switch format {
	case "toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&f); err == io.EOF {
			err = nil
		}
	default:
		return File{}, errors.New(errors.ErrCodeInvalidFormat, "unknown config format: %q", format)
	}
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s config", format)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks the layout and render defaults and the backend names.
func (f *File) Validate() error {
	opts := pipeline.Options{}
	f.Apply(&opts)
	if err := opts.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config")
	}
	switch f.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %q", f.Cache.Backend)
	}
	switch f.Store.Backend {
	case "", store.BackendNone, store.BackendFile, store.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %q", f.Store.Backend)
	}
	if f.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	return nil
}

// Apply copies configured defaults into opts for every field opts leaves
// unset. Boolean switches are enabled when either side enables them.
func (f *File) Apply(opts *pipeline.Options) {
	l, r := f.Layout, f.Render
	setString(&opts.Algorithm, l.Algorithm)
	if opts.Spacing == nil && l.Spacing != nil {
		opts.Spacing = pipeline.Float(*l.Spacing)
	}
	setString(&opts.CostFunction, l.CostFunction)
	setString(&opts.RootSelection, l.RootSelection)
	setString(&opts.RootRef, l.RootRef)
	setString(&opts.Mode, l.Mode)
	if opts.MaxIterations == 0 {
		opts.MaxIterations = l.MaxIterations
	}
	opts.NaiveCheck = opts.NaiveCheck || l.NaiveCheck
	setString(&opts.EdgePolicy, l.EdgePolicy)
	if opts.Padding == nil && l.Padding != nil {
		opts.Padding = pipeline.Float(*l.Padding)
	}
	if opts.Seed == 0 {
		opts.Seed = l.Seed
	}
	opts.AssertConnected = opts.AssertConnected || l.AssertConnected

	if len(opts.Formats) == 0 && len(r.Formats) > 0 {
		opts.Formats = append([]string(nil), r.Formats...)
	}
	if opts.Scale == 0 {
		opts.Scale = r.Scale
	}
	opts.ShowLabels = opts.ShowLabels || r.Labels
	opts.ShowEdges = opts.ShowEdges || r.Edges
	opts.ShowContainer = opts.ShowContainer || r.Container
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// String renders f as TOML.
func (f File) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
