package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/spore/pkg/graph"
)

const abcSource = `diagram abc {
  node A at 0, 0 size 20, 20
  node B at 5, 5 size 20, 20
  node C at 100, 100 size 20, 20
}
`

func writeABC(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abc.spore")
	if err := os.WriteFile(path, []byte(abcSource), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestLayoutCommand(t *testing.T) {
	input := writeABC(t)
	out := filepath.Join(filepath.Dir(input), "out.layout.json")

	if err := runCLI(t, "layout", input, "-a", "overlap", "--no-cache", "-o", out, "-f", "svg,dot"); err != nil {
		t.Fatalf("layout error: %v", err)
	}

	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if len(l.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(l.Nodes))
	}
	if a := l.Nodes[0]; a.X != -35 || a.Y != -35 {
		t.Errorf("A = (%v, %v), want (-35, -35)", a.X, a.Y)
	}
	if l.Stats.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", l.Stats.Remaining)
	}
	for _, name := range []string{"out.svg", "out.dot"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(out), name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestLayoutCommandSpacingFlag(t *testing.T) {
	input := writeABC(t)
	out := filepath.Join(filepath.Dir(input), "abc.layout.json")

	if err := runCLI(t, "layout", input, "-a", "overlap", "--no-cache", "--spacing", "0"); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if a := l.Nodes[0]; a.X != -15 {
		t.Errorf("A.X = %v, want -15 with zero spacing", a.X)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	input := writeABC(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "nope.spore"), "--no-cache"}},
		{"bad algorithm", []string{"layout", input, "-a", "bogus", "--no-cache"}},
		{"bad format", []string{"layout", input, "-f", "gif", "--no-cache"}},
		{"bad cost", []string{"compact", input, "--cost", "cheapest", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCheckCommandStrict(t *testing.T) {
	input := writeABC(t)
	if err := runCLI(t, "check", input, "--no-cache"); err != nil {
		t.Errorf("check error: %v", err)
	}
	if err := runCLI(t, "check", input, "--no-cache", "--strict"); err == nil {
		t.Error("check --strict with overlaps: expected error")
	}
}

func TestRenderCommandFromLayout(t *testing.T) {
	input := writeABC(t)
	dir := filepath.Dir(input)
	if err := runCLI(t, "layout", input, "-a", "overlap", "--no-cache"); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if err := runCLI(t, "render", filepath.Join(dir, "abc.layout.json"), "--no-cache", "-f", "json"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abc.render.json")); err != nil {
		t.Errorf("abc.render.json not written: %v", err)
	}
}
