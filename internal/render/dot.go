package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/msalah0e/scentnet/internal/network"
)

// DOT writes the view as an undirected Graphviz graph. Only drawn edges are
// written; similarity edges never are.
type DOT struct {
	W io.Writer
	Options
}

// Render implements Renderer.
func (d *DOT) Render(v *network.View) error {
	var b strings.Builder
	b.WriteString("graph scentnet {\n")
	if d.Title != "" {
		b.WriteString(fmt.Sprintf("  label=%q;\n", d.Title))
	}
	b.WriteString("  layout=neato;\n  overlap=false;\n")
	b.WriteString("  node [style=filled, fontname=\"Helvetica\"];\n\n")

	for _, n := range v.Nodes {
		b.WriteString(fmt.Sprintf("  %q [%s];\n", n.ID, d.nodeAttrs(n)))
	}

	b.WriteString("\n")
	for _, e := range v.Edges {
		if !e.Drawn {
			continue
		}
		b.WriteString(fmt.Sprintf("  %q -- %q [penwidth=%.2f, color=\"#88888866\"];\n", e.From, e.To, 0.5+2*e.Weight))
	}

	b.WriteString("}\n")
	_, err := io.WriteString(d.W, b.String())
	return err
}

func (d *DOT) nodeAttrs(n network.ViewNode) string {
	var attrs []string
	label := n.Label
	if n.Kind == network.KindAccord {
		attrs = append(attrs, "shape=diamond")
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorOf(d.Labels, n.Key)))
	} else {
		if n.Brand != "" {
			label += " (" + n.Brand + ")"
		}
		attrs = append(attrs, "shape=ellipse")
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorOf(d.Labels, n.PrimaryAccord)))
	}
	attrs = append([]string{fmt.Sprintf("label=%q", label)}, attrs...)

	switch n.Emphasis {
	case network.EmphasisSelected:
		attrs = append(attrs, "penwidth=3", "fontsize=16")
	case network.EmphasisNeighbor, network.EmphasisHovered:
		attrs = append(attrs, "penwidth=2")
	case network.EmphasisDimmed:
		attrs = append(attrs, "fontcolor=\"#aaaaaa\"", "color=\"#dddddd\"", "fillcolor=\"#eeeeee\"")
	}
	return strings.Join(attrs, ", ")
}
