package shape

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/latticetile/pkg/geom"
)

// ToDOT returns a Graphviz DOT representation of the tree rooted at j.
//
// Each cell is a node labeled with its offset from the seed; each branch is
// an edge labeled with its direction. The seed is drawn as a double box.
// title becomes the graph label and may be empty.
func ToDOT(j *Junction, title string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Shape {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", title)
	}
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n")
	buf.WriteString("  edge [fontname=\"SF Mono, Menlo, monospace\", fontsize=10];\n\n")

	var next int
	var write func(n *Junction, at geom.Direction)
	write = func(n *Junction, at geom.Direction) {
		id := next
		next++
		if id == 0 {
			fmt.Fprintf(&buf, "  n%d [label=%q, peripheries=2];\n", id, at.String())
		} else {
			fmt.Fprintf(&buf, "  n%d [label=%q];\n", id, at.String())
		}
		for i, b := range n.Branches {
			child := next
			write(b, at.Add(n.Directions[i]))
			fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", id, child, n.Directions[i].String())
		}
	}
	write(j, geom.Direction{})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders the tree rooted at j as an SVG document via [ToDOT].
func RenderSVG(ctx context.Context, j *Junction, title string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(j, title)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
