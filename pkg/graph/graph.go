package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Diagram Serialization API
// =============================================================================

// MarshalDiagram converts a Diagram to indented JSON bytes.
func MarshalDiagram(d Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDiagram(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDiagramFile writes a Diagram to a JSON file.
// The file is created with 0644 permissions.
func WriteDiagramFile(d Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDiagram(d, f)
}

// WriteDiagram writes a Diagram as JSON to an io.Writer.
func WriteDiagram(d Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDiagramFile reads and validates a JSON diagram file.
func ReadDiagramFile(path string) (Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDiagram(f)
}

// ReadDiagram decodes and validates a JSON diagram from an io.Reader.
func ReadDiagram(r io.Reader) (Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Diagram{}, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Diagram{}, err
	}
	return d, nil
}

// UnmarshalDiagram decodes and validates JSON diagram bytes.
func UnmarshalDiagram(data []byte) (Diagram, error) {
	return ReadDiagram(bytes.NewReader(data))
}
