package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/spore/pkg/cache"
	"github.com/matzehuels/spore/pkg/dsl"
	"github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/graph"
)

// Input formats accepted by LoadDiagram and ParseDiagram.
const (
	InputJSON  = "json"
	InputSpore = "spore"
)

// DetectInputFormat returns the input format for a file path, or "" if the
// extension is not recognized.
func DetectInputFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return InputJSON
	case ".spore", ".sp":
		return InputSpore
	}
	return ""
}

// LoadDiagram reads and validates a diagram file. The format follows the
// file extension; unknown extensions are sniffed from the content.
func LoadDiagram(path string) (graph.Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Diagram{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram %s", path)
		}
		return graph.Diagram{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	d, err := ParseDiagram(data, DetectInputFormat(path))
	if err != nil {
		return graph.Diagram{}, err
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// ParseDiagram decodes and validates a diagram. An empty format selects JSON
// when the first non-space byte is '{' and the DSL otherwise.
func ParseDiagram(data []byte, format string) (graph.Diagram, error) {
	if format == "" {
		format = InputSpore
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			format = InputJSON
		}
	}

	var (
		d   graph.Diagram
		err error
	)
	switch format {
	case InputJSON:
		d, err = graph.UnmarshalDiagram(data)
	case InputSpore:
		d, err = dsl.Parse(bytes.NewReader(data))
	default:
		return graph.Diagram{}, errors.New(errors.ErrCodeInvalidFormat, "unknown input format: %q", format)
	}
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s diagram", format)
		}
		return graph.Diagram{}, err
	}
	if err := d.Validate(); err != nil {
		return graph.Diagram{}, err
	}
	return d, nil
}

// SaveDiagram writes d to path, as DSL text for .spore files and JSON otherwise.
func SaveDiagram(d graph.Diagram, path string) error {
	if DetectInputFormat(path) == InputSpore {
		return os.WriteFile(path, []byte(dsl.Format(d)), 0o644)
	}
	return graph.WriteDiagramFile(d, path)
}

// DiagramHash returns the content hash used for cache keys and run records.
func DiagramHash(d graph.Diagram) (string, error) {
	data, err := graph.MarshalDiagram(d)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
