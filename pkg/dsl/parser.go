// Package dsl parses the .spore diagram language.
//
// A diagram file declares positioned boxes and the edges between them:
//
//	diagram services {
//	  padding 12
//
//	  node api "API gateway" at 0, 0 size 120, 40
//	  node auth at 40, 20 size 80, 40 margin 4
//	  edge api -> auth as login
//	}
//
// Statements may be separated by newlines or semicolons. Comments start
// with '#' or '//' and run to the end of the line.
package dsl

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/graph"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Arrow", Pattern: `->`},
		{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*(?:-[A-Za-z0-9_]+)*`},
		{Name: "Punct", Pattern: `[{},;]`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
	)
)

// File is the root AST node of a .spore file.
type File struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"'diagram' @(Ident | String)"`
	Statements []*Statement   `parser:"'{' ( @@ ';'* )* '}'"`
}

// Statement is one declaration inside the diagram block.
type Statement struct {
	Padding *Padding  `parser:"  @@"`
	Node    *NodeDecl `parser:"| @@"`
	Edge    *EdgeDecl `parser:"| @@"`
}

// Padding sets the container padding.
type Padding struct {
	Value float64 `parser:"'padding' @Number"`
}

// NodeDecl declares a positioned box.
type NodeDecl struct {
	Pos    lexer.Position `parser:"" json:"-"`
	ID     string         `parser:"'node' @Ident"`
	Label  *string        `parser:"@String?"`
	X      float64        `parser:"'at' @Number ','"`
	Y      float64        `parser:"@Number"`
	Width  float64        `parser:"'size' @Number ','"`
	Height float64        `parser:"@Number"`
	Margin float64        `parser:"( 'margin' @Number )?"`
}

// EdgeDecl declares an edge between two nodes.
type EdgeDecl struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Source string         `parser:"'edge' @Ident"`
	Target string         `parser:"'->' @Ident"`
	ID     string         `parser:"( 'as' @Ident )?"`
}

// ParseFile parses DSL content into its syntax tree.
func ParseFile(r io.Reader) (*File, error) {
	f, err := fileParser.Parse("", r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse diagram")
	}
	return f, nil
}

// Parse parses DSL content from an io.Reader into a validated diagram.
func Parse(r io.Reader) (graph.Diagram, error) {
	f, err := ParseFile(r)
	if err != nil {
		return graph.Diagram{}, err
	}
	return f.Diagram()
}

// ParseString parses DSL content from a string.
func ParseString(input string) (graph.Diagram, error) {
	return Parse(strings.NewReader(input))
}

// Diagram converts the syntax tree into a validated diagram. A repeated
// padding statement overrides earlier ones.
func (f *File) Diagram() (graph.Diagram, error) {
	d := graph.Diagram{Name: f.Name}
	for _, st := range f.Statements {
		switch {
		case st.Padding != nil:
			d.Padding = st.Padding.Value
		case st.Node != nil:
			n := st.Node
			node := graph.Node{ID: n.ID, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height, Margin: n.Margin}
			if n.Label != nil {
				node.Label = *n.Label
			}
			d.Nodes = append(d.Nodes, node)
		case st.Edge != nil:
			e := st.Edge
			d.Edges = append(d.Edges, graph.Edge{ID: e.ID, Source: e.Source, Target: e.Target})
		}
	}
	if err := d.Validate(); err != nil {
		return graph.Diagram{}, err
	}
	return d, nil
}

// =============================================================================
// Formatting
// =============================================================================

// Format renders d in the DSL. For diagrams whose node and edge IDs are
// identifiers, parsing the result yields d again.
func Format(d graph.Diagram) string {
	var b strings.Builder
	b.WriteString("diagram ")
	b.WriteString(formatName(d.Name))
	b.WriteString(" {\n")
	if d.Padding > 0 {
		b.WriteString("  padding " + num(d.Padding) + "\n")
	}
	if len(d.Nodes) > 0 && d.Padding > 0 {
		b.WriteString("\n")
	}
	for _, n := range d.Nodes {
		b.WriteString("  node " + n.ID)
		if n.Label != "" {
			b.WriteString(" " + strconv.Quote(n.Label))
		}
		b.WriteString(" at " + num(n.X) + ", " + num(n.Y))
		b.WriteString(" size " + num(n.Width) + ", " + num(n.Height))
		if n.Margin > 0 {
			b.WriteString(" margin " + num(n.Margin))
		}
		b.WriteString("\n")
	}
	if len(d.Edges) > 0 && len(d.Nodes) > 0 {
		b.WriteString("\n")
	}
	for _, e := range d.Edges {
		b.WriteString("  edge " + e.Source + " -> " + e.Target)
		if e.ID != "" {
			b.WriteString(" as " + e.ID)
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func formatName(name string) string {
	if name != "" && isIdent(name) {
		return name
	}
	return strconv.Quote(name)
}

func isIdent(s string) bool {
	tok, err := dslLexer.Lex("", strings.NewReader(s))
	if err != nil {
		return false
	}
	t, err := tok.Next()
	if err != nil || t.Type != dslLexer.Symbols()["Ident"] || t.Value != s {
		return false
	}
	next, err := tok.Next()
	return err == nil && next.EOF()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
