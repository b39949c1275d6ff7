package network

import (
	"slices"
	"sort"
)

// Graph is an ingested network. It is never modified after Ingest returns,
// so it can be shared by any number of derivations.
type Graph struct {
	meta Meta

	nodes    map[string]*Node
	perfumes []*Node // payload order
	accords  []*Node // payload order
	byKey    map[string]*Node
	order    map[string]int

	similar   []Edge
	hasAccord []Edge

	// accordsOf holds each perfume's accords by descending weight.
	accordsOf map[string][]AccordWeight
	// similarity holds both orientations of every SimilarTo edge.
	similarity map[string]map[string]float64
}

// Stats holds summary counts.
type Stats struct {
	Perfumes   int `json:"perfumes"`
	Accords    int `json:"accords"`
	Similar    int `json:"similar"`
	HasAccord  int `json:"hasAccord"`
	Collection int `json:"collection"`
}

// Meta returns the payload metadata.
func (g *Graph) Meta() Meta { return g.meta }

// Node returns a node by id. The node is shared with the graph and must
// not be modified; use Clone for a private copy.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AccordNode resolves an accord key to its node.
func (g *Graph) AccordNode(key string) (*Node, bool) {
	n, ok := g.byKey[key]
	return n, ok
}

// AccordsOf returns a copy of a perfume's accords sorted by weight,
// strongest first.
func (g *Graph) AccordsOf(id string) []AccordWeight { return slices.Clone(g.accordsOf[id]) }

// Similarity returns the similarity score between two perfumes in either orientation.
func (g *Graph) Similarity(a, b string) (float64, bool) {
	w, ok := g.similarity[a][b]
	return w, ok
}

// SimilarOf ranks every perfume sharing a SimilarTo edge with id,
// highest score first, ties in payload order.
func (g *Graph) SimilarOf(id string) []Neighbor {
	m := g.similarity[id]
	out := make([]Neighbor, 0, len(m))
	for other, w := range m {
		out = append(out, Neighbor{ID: other, Score: w})
	}
	g.rank(out)
	return out
}

// Stats returns summary statistics.
func (g *Graph) Stats() Stats {
	s := Stats{
		Perfumes:  len(g.perfumes),
		Accords:   len(g.accords),
		Similar:   len(g.similar),
		HasAccord: len(g.hasAccord),
	}
	for _, p := range g.perfumes {
		if p.InCollection() {
			s.Collection++
		}
	}
	return s
}

func (g *Graph) rank(ns []Neighbor) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].Score != ns[j].Score {
			return ns[i].Score > ns[j].Score
		}
		return g.order[ns[i].ID] < g.order[ns[j].ID]
	})
}
