// Package labels maps facet values to display names, and accords to colors.
//
// The label provider's table is layered over a built-in one embedded from
// builtin/*.toml; any id missing from both displays as itself.
package labels

import (
	"embed"
	"fmt"
	"hash/fnv"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/scentnet/internal/network"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Palette colors accords the tables leave out.
var Palette = []string{"#2DB682", "#0171E3", "#E07C3A", "#9B59B6", "#E74C3C", "#1ABC9C", "#F1C40F", "#3498DB", "#E91E63", "#00BCD4"}

// Entry is one row of a label file.
type Entry struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Color string `toml:"color,omitempty"`
}

type labelFile struct {
	Labels []Entry `toml:"labels"`
}

// Labels is a per-facet id to display name table. The zero value is not
// usable; call New.
type Labels struct {
	names  map[network.Facet]map[string]string
	colors map[string]string
}

// New returns an empty table.
func New() *Labels {
	l := &Labels{
		names:  make(map[network.Facet]map[string]string, len(network.AllFacets)),
		colors: make(map[string]string),
	}
	for _, f := range network.AllFacets {
		l.names[f] = make(map[string]string)
	}
	return l
}

// Set records a display name.
func (l *Labels) Set(f network.Facet, id, name string) {
	if id == "" || name == "" {
		return
	}
	l.names[f][id] = name
}

// SetColor records an accord color.
func (l *Labels) SetColor(accord, color string) {
	if accord != "" && color != "" {
		l.colors[accord] = color
	}
}

// Name returns the display name of id, or id itself.
func (l *Labels) Name(f network.Facet, id string) string {
	if l != nil {
		if name, ok := l.names[f][id]; ok {
			return name
		}
	}
	return id
}

// Color returns the accord color. Unknown accords get a stable palette
// color derived from the key.
func (l *Labels) Color(accord string) string {
	if l != nil {
		if c, ok := l.colors[accord]; ok {
			return c
		}
	}
	h := fnv.New32a()
	h.Write([]byte(accord))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// Len counts the names across all facets.
func (l *Labels) Len() int {
	n := 0
	for _, m := range l.names {
		n += len(m)
	}
	return n
}

// Overlay returns a new table with top's entries over l's.
func (l *Labels) Overlay(top *Labels) *Labels {
	out := New()
	for _, src := range []*Labels{l, top} {
		if src == nil {
			continue
		}
		for f, m := range src.names {
			for id, name := range m {
				out.names[f][id] = name
			}
		}
		for id, c := range src.colors {
			out.colors[id] = c
		}
	}
	return out
}

// Map returns the names keyed by facet name, the label provider's shape.
func (l *Labels) Map() map[string]map[string]string {
	out := make(map[string]map[string]string, len(l.names))
	for f, m := range l.names {
		if len(m) == 0 {
			continue
		}
		cp := make(map[string]string, len(m))
		for id, name := range m {
			cp[id] = name
		}
		out[f.String()] = cp
	}
	return out
}

// FromMap builds a table from the label provider's response. Unknown facet
// keys are ignored.
func FromMap(m map[string]map[string]string) *Labels {
	l := New()
	for key, names := range m {
		f, err := network.ParseFacet(key)
		if err != nil {
			continue
		}
		for id, name := range names {
			// Accord ids may carry the node prefix.
			if f == network.FacetAccord {
				id = strings.TrimPrefix(id, "accord:")
			}
			l.Set(f, id, name)
		}
	}
	return l
}

// LoadFromFS reads every <facet>.toml in dir.
func LoadFromFS(fsys fs.FS, dir string) (*Labels, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading label tables: %w", err)
	}

	l := New()
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".toml" {
			continue
		}
		f, err := network.ParseFacet(strings.TrimSuffix(entry.Name(), ".toml"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		var lf labelFile
		if err := toml.Unmarshal(data, &lf); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		for _, e := range lf.Labels {
			l.Set(f, e.ID, e.Name)
			if f == network.FacetAccord {
				l.SetColor(e.ID, e.Color)
			}
		}
	}
	return l, nil
}

var (
	builtin     *Labels
	builtinOnce sync.Once
)

// Builtin returns the embedded table. It panics if the embedded files are
// malformed, which the package tests rule out.
func Builtin() *Labels {
	builtinOnce.Do(func() {
		l, err := LoadFromFS(builtinFS, "builtin")
		if err != nil {
			panic(err)
		}
		builtin = l
	})
	return builtin
}
