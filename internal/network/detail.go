package network

import (
	"fmt"
	"sort"
)

// Related is another node shown in a detail panel.
type Related struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Brand  string  `json:"brand,omitempty"`
	Weight float64 `json:"weight"`
}

// Detail holds what the detail panel shows for one node.
type Detail struct {
	Node    *Node          `json:"node"`
	Accords []AccordWeight `json:"accords,omitempty"`
	Similar []Related      `json:"similar,omitempty"`
	// Carriers lists the perfumes carrying an accord, strongest first.
	Carriers []Related `json:"carriers,omitempty"`
}

// Details builds the detail panel for a node. For perfumes it lists accords
// and the n most similar perfumes; for accords, the n strongest carriers.
// An accord may also be named by its key. A non-positive n means no limit.
// The detail holds copies and may be modified freely.
func Details(g *Graph, id string, n int) (*Detail, error) {
	node, ok := g.nodes[id]
	if !ok {
		if node, ok = g.AccordNode(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		id = node.ID
	}
	d := &Detail{Node: node.Clone()}

	if node.IsPerfume() {
		d.Accords = g.AccordsOf(id)
		for _, nb := range limit(g.SimilarOf(id), n) {
			p := g.nodes[nb.ID]
			d.Similar = append(d.Similar, Related{ID: p.ID, Label: p.Label, Brand: p.Brand, Weight: nb.Score})
		}
		return d, nil
	}

	for _, e := range g.hasAccord {
		if e.To != id {
			continue
		}
		p := g.nodes[e.From]
		d.Carriers = append(d.Carriers, Related{ID: p.ID, Label: p.Label, Brand: p.Brand, Weight: e.Weight})
	}
	sort.SliceStable(d.Carriers, func(i, j int) bool {
		return d.Carriers[i].Weight > d.Carriers[j].Weight
	})
	d.Carriers = limit(d.Carriers, n)
	return d, nil
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
