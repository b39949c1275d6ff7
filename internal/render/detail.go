package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/ui"
)

// WriteDetail prints a node's detail panel as a tree.
func WriteDetail(w io.Writer, d *network.Detail, l Labeler) {
	n := d.Node
	fmt.Fprintf(w, "  ● %s\n", ui.Brand.Sprint(n.Label))
	if n.IsPerfume() {
		if n.Brand != "" {
			fmt.Fprintf(w, "  │  %s\n", ui.Subtle.Sprint(n.Brand))
		}
		if n.PrimaryAccord != "" {
			fmt.Fprintf(w, "  │  %s %s\n", ui.Subtle.Sprint("primary accord"), nameOf(l, network.FacetAccord, n.PrimaryAccord))
		}
		facetLine(w, l, network.FacetSeason, n.Seasons)
		facetLine(w, l, network.FacetOccasion, n.Occasions)
		facetLine(w, l, network.FacetGender, n.Genders)
		if n.InCollection() {
			fmt.Fprintf(w, "  │  %s %s\n", ui.Subtle.Sprint("collection"), ui.Good.Sprint(strings.ToLower(n.Status.String())))
		}
	} else {
		fmt.Fprintf(w, "  │  %s\n", ui.Subtle.Sprint("accord"))
	}

	if len(d.Accords) > 0 {
		fmt.Fprintf(w, "  │\n  ├── %s\n", ui.Subtle.Sprint("accords"))
		for i, a := range d.Accords {
			fmt.Fprintf(w, "  │   %s %s %s\n", branch(i, len(d.Accords)), nameOf(l, network.FacetAccord, a.Accord), weight(a.Weight))
		}
	}

	related, title := d.Similar, "similar"
	if !n.IsPerfume() {
		related, title = d.Carriers, "carried by"
	}
	fmt.Fprintf(w, "  │\n  └── %s\n", ui.Subtle.Sprint(title))
	if len(related) == 0 {
		fmt.Fprintf(w, "      %s\n", ui.Subtle.Sprint("(none)"))
		return
	}
	for i, r := range related {
		name := r.Label
		if r.Brand != "" {
			name += " " + ui.Subtle.Sprint("("+r.Brand+")")
		}
		fmt.Fprintf(w, "      %s %s %s %s\n", branch(i, len(related)), ui.Info.Sprint(r.ID), name, weight(r.Weight))
	}
}

func facetLine(w io.Writer, l Labeler, f network.Facet, values []string) {
	if len(values) == 0 {
		return
	}
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = nameOf(l, f, v)
	}
	fmt.Fprintf(w, "  │  %s %s\n", ui.Subtle.Sprint(f.String()), strings.Join(names, ", "))
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func weight(w float64) string {
	return ui.Subtle.Sprintf("%.2f", w)
}
