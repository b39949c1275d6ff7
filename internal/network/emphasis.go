package network

// Emphasis is the presentation state of a node or edge. It never affects
// which data is visible, only how a renderer draws it.
type Emphasis int

const (
	EmphasisNormal Emphasis = iota
	EmphasisSelected
	EmphasisNeighbor
	EmphasisHovered
	EmphasisDimmed
)

// String returns the emphasis name.
func (e Emphasis) String() string {
	switch e {
	case EmphasisSelected:
		return "selected"
	case EmphasisNeighbor:
		return "neighbor"
	case EmphasisHovered:
		return "hovered"
	case EmphasisDimmed:
		return "dimmed"
	default:
		return "normal"
	}
}

// MarshalText encodes the emphasis by name.
func (e Emphasis) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// ViewNode is a node ready for rendering.
type ViewNode struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	Kind          NodeKind       `json:"kind"`
	Key           string         `json:"key,omitempty"`
	Brand         string         `json:"brand,omitempty"`
	PrimaryAccord string         `json:"primaryAccord,omitempty"`
	Status        RegisterStatus `json:"registerStatus,omitempty"`
	Emphasis      Emphasis       `json:"emphasis"`
}

// ViewEdge is an edge ready for rendering. Edges with Drawn unset are kept
// for reference and must not be painted.
type ViewEdge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Kind     EdgeKind `json:"kind"`
	Weight   float64  `json:"weight"`
	Emphasis Emphasis `json:"emphasis"`
	Drawn    bool     `json:"drawn"`
}

// ViewStatus describes why a view looks the way it does.
type ViewStatus string

const (
	ViewReady      ViewStatus = "ready"
	ViewEmpty      ViewStatus = "empty"
	ViewNoData     ViewStatus = "no_data"
	ViewLoading    ViewStatus = "loading"
	ViewLoadFailed ViewStatus = "load_failed"
)

// ViewStats counts what survived each stage.
type ViewStats struct {
	Filtered int `json:"filtered"`
	Visible  int `json:"visible"`
	Accords  int `json:"accords"`
	Drawn    int `json:"drawnEdges"`
}

// View is the pipeline output consumed by renderers.
type View struct {
	Nodes      []ViewNode `json:"nodes"`
	Edges      []ViewEdge `json:"edges"`
	SelectedID string     `json:"selectedId,omitempty"`
	HoveredID  string     `json:"hoveredId,omitempty"`
	Status     ViewStatus `json:"status"`
	Message    string     `json:"message,omitempty"`
	Stats      ViewStats  `json:"stats"`
}

// Emphasize assigns a presentation state to every node and edge of the
// window. A selection counts only when the selected perfume is in the window.
func Emphasize(g *Graph, w *Windowed, selectedID, hoveredID string) *View {
	v := &View{Status: ViewReady, HoveredID: hoveredID}

	active := selectedID != "" && w.Contains(selectedID)
	if active {
		v.SelectedID = selectedID
	}
	neighbors := make(map[string]bool)
	if active {
		for _, n := range focusNeighbors(g, &w.Subgraph, selectedID) {
			neighbors[n.ID] = true
		}
	}

	perfume := make(map[string]Emphasis, len(w.PerfumeIDs))
	for _, id := range w.PerfumeIDs {
		var e Emphasis
		switch {
		case active && id == selectedID:
			e = EmphasisSelected
		case id == hoveredID:
			e = EmphasisHovered
		case neighbors[id]:
			e = EmphasisNeighbor
		case active:
			e = EmphasisDimmed
		}
		perfume[id] = e
	}

	// Hovering a neighbor changes how it is drawn, not whether its accords
	// belong to the focus.
	focus := func(id string) bool {
		return active && (id == selectedID || neighbors[id])
	}

	highlighted := make(map[string]bool)
	for _, e := range w.HasAccord {
		if focus(e.From) {
			highlighted[e.To] = true
		}
	}

	for _, id := range w.PerfumeIDs {
		n := g.nodes[id]
		v.Nodes = append(v.Nodes, ViewNode{
			ID:            n.ID,
			Label:         n.Label,
			Kind:          n.Kind,
			Brand:         n.Brand,
			PrimaryAccord: n.PrimaryAccord,
			Status:        n.Status,
			Emphasis:      perfume[id],
		})
	}
	for _, id := range w.AccordIDs {
		n := g.nodes[id]
		var e Emphasis
		switch {
		case id == hoveredID:
			e = EmphasisHovered
		case highlighted[id]:
			e = EmphasisNeighbor
		case active:
			e = EmphasisDimmed
		}
		v.Nodes = append(v.Nodes, ViewNode{ID: n.ID, Label: n.Label, Kind: n.Kind, Key: n.Key, Emphasis: e})
	}

	for _, e := range w.Similar {
		ve := ViewEdge{From: e.From, To: e.To, Kind: e.Kind, Weight: e.Weight}
		if active {
			ve.Emphasis = EmphasisDimmed
		}
		v.Edges = append(v.Edges, ve)
	}
	for _, e := range w.HasAccord {
		ve := ViewEdge{From: e.From, To: e.To, Kind: e.Kind, Weight: e.Weight}
		switch {
		case focus(e.From):
			ve.Emphasis = EmphasisNeighbor
			ve.Drawn = true
			v.Stats.Drawn++
		case active:
			ve.Emphasis = EmphasisDimmed
		}
		v.Edges = append(v.Edges, ve)
	}

	v.Stats.Visible = len(w.PerfumeIDs)
	v.Stats.Accords = len(w.AccordIDs)
	return v
}
