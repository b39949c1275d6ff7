// Package render turns derived views into terminal tables, Graphviz DOT,
// JSON and a self-contained force-directed HTML page.
//
// Renderers only paint. Layout, hit-testing and event handling belong to
// whatever displays the output; the HTML page posts clicks and hovers back
// to `scentnet serve` when rendered in live mode.
package render

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/msalah0e/scentnet/internal/network"
)

// Renderer consumes a derived view.
type Renderer interface {
	Render(v *network.View) error
}

// Func adapts a function to Renderer.
type Func func(v *network.View) error

// Render implements Renderer.
func (f Func) Render(v *network.View) error { return f(v) }

// Formats accepted by New.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatHTML  = "html"
)

// Options are shared by every renderer.
type Options struct {
	// Labels resolves display names and accord colors. Nil uses ids.
	Labels Labeler
	// Title heads the HTML page and the DOT graph comment.
	Title string
}

// Labeler is the part of the label table renderers need.
type Labeler interface {
	Name(f network.Facet, id string) string
	Color(accord string) string
}

// New returns the renderer of a format writing to w.
func New(format string, w io.Writer, opts Options) (Renderer, error) {
	switch format {
	case FormatTable, "":
		return &Terminal{W: w, Options: opts}, nil
	case FormatJSON:
		return &JSON{W: w}, nil
	case FormatDOT:
		return &DOT{W: w, Options: opts}, nil
	case FormatHTML:
		return &HTML{W: w, Options: opts}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want table, json, dot or html)", format)
}

// JSON writes the view as indented JSON.
type JSON struct {
	W io.Writer
}

// Render implements Renderer.
func (j *JSON) Render(v *network.View) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(j.W, "%s\n", data)
	return err
}

func colorOf(l Labeler, accord string) string {
	if l == nil {
		return "#2DB682"
	}
	return l.Color(accord)
}

func nameOf(l Labeler, f network.Facet, id string) string {
	if l == nil {
		return id
	}
	return l.Name(f, id)
}
