package cli

import (
	"testing"

	"github.com/matzehuels/spore/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty keeps configured", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", " svg , dot ", []string{"svg", "dot"}},
		{"empty entries skipped", "svg,,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input string
		want          string
	}{
		{"", "diagram.spore", "diagram"},
		{"", "dir/diagram.json", "dir/diagram"},
		{"", "diagram.layout.json", "diagram"},
		{"out.svg", "diagram.spore", "out"},
		{"out.gv.svg", "diagram.spore", "out"},
		{"out", "diagram.spore", "out"},
		{"", "notes.txt", "notes.txt"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestIsLayoutFile(t *testing.T) {
	if !isLayoutFile("a/b.layout.json") {
		t.Error("isLayoutFile(b.layout.json) = false, want true")
	}
	if isLayoutFile("b.json") {
		t.Error("isLayoutFile(b.json) = true, want false")
	}
}

func TestValidFormatsMap(t *testing.T) {
	for _, f := range []string{"svg", "pdf", "png", "json", "dot", "graphviz"} {
		if !pipeline.ValidFormats[f] {
			t.Errorf("ValidFormats[%q] = false, want true", f)
		}
	}
	if pipeline.ValidFormats["invalid"] {
		t.Error("ValidFormats[invalid] should be false")
	}
}
