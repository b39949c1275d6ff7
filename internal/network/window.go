package network

// Windowed is the bounded perfume set handed to the emphasis stage.
type Windowed struct {
	Subgraph

	// Focus lists the selected perfume and its closest neighbors in keep
	// order. It is empty when the selection did not survive filtering.
	Focus []string `json:"focus,omitempty"`
}

// focusNeighbors ranks the perfumes linked to id by the subgraph's SimilarTo
// edges and returns at most FocusNeighbors of them.
func focusNeighbors(g *Graph, s *Subgraph, id string) []Neighbor {
	if id == "" || !s.Contains(id) {
		return nil
	}
	var ns []Neighbor
	for _, e := range s.Similar {
		switch id {
		case e.From:
			ns = append(ns, Neighbor{ID: e.To, Score: e.Weight})
		case e.To:
			ns = append(ns, Neighbor{ID: e.From, Score: e.Weight})
		}
	}
	g.rank(ns)
	if len(ns) > FocusNeighbors {
		ns = ns[:FocusNeighbors]
	}
	return ns
}

// FocusSet returns the selected perfume followed by its top similar
// neighbors inside the filtered subgraph, strongest first.
func FocusSet(g *Graph, f *Subgraph, selectedID string) []string {
	if selectedID == "" || !f.Contains(selectedID) {
		return nil
	}
	focus := []string{selectedID}
	for _, n := range focusNeighbors(g, f, selectedID) {
		focus = append(focus, n.ID)
	}
	return focus
}

// Window bounds the filtered perfumes to limit while keeping the focus set.
// When the focus set alone reaches the limit it is cut in keep order, so the
// selected perfume always stays. Remaining slots are filled in payload order.
// Edges and accords are re-derived from the final perfume set only.
func Window(g *Graph, f *Subgraph, selectedID string, limit int) *Windowed {
	focus := FocusSet(g, f, selectedID)

	var ids []string
	switch {
	case limit < 1:
	case limit >= len(f.PerfumeIDs):
		ids = append(ids, f.PerfumeIDs...)
	case len(focus) >= limit:
		ids = append(ids, focus[:limit]...)
	default:
		ids = append(ids, focus...)
		kept := toSet(focus)
		for _, id := range f.PerfumeIDs {
			if len(ids) == limit {
				break
			}
			if !kept[id] {
				ids = append(ids, id)
			}
		}
	}

	w := &Windowed{Subgraph: *newSubgraph(g, ids, f.Similar, f.HasAccord)}
	for _, id := range focus {
		if w.Contains(id) {
			w.Focus = append(w.Focus, id)
		}
	}
	return w
}
