package network

import (
	"math"
	"sort"
	"strings"
)

// Reasons an edge is dropped during ingestion.
const (
	ReasonUnknownNode  = "unknown_node"
	ReasonKindMismatch = "kind_mismatch"
	ReasonSelfLoop     = "self_loop"
	ReasonUnknownType  = "unknown_type"
)

// DroppedEdge records an edge that ingestion refused.
type DroppedEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Report summarizes data-quality findings of one ingestion.
type Report struct {
	Nodes          int           `json:"nodes"`
	DroppedNodes   int           `json:"droppedNodes"`
	Edges          int           `json:"edges"`
	DroppedEdges   []DroppedEdge `json:"droppedEdges,omitempty"`
	MergedEdges    int           `json:"mergedEdges"`
	ClampedWeights int           `json:"clampedWeights"`
}

// Ingest validates and normalizes a payload into an immutable Graph.
// Bad nodes and edges are dropped and reported, never fatal; only a payload
// without any perfume yields ErrNoData. The report is returned in both cases.
func Ingest(p *Payload) (*Graph, *Report, error) {
	rep := &Report{}
	if p == nil {
		return nil, rep, ErrNoData
	}

	g := &Graph{
		meta:       p.Meta,
		nodes:      make(map[string]*Node, len(p.Nodes)),
		byKey:      make(map[string]*Node),
		order:      make(map[string]int, len(p.Nodes)),
		accordsOf:  make(map[string][]AccordWeight),
		similarity: make(map[string]map[string]float64),
	}

	for _, rn := range p.Nodes {
		n, ok := buildNode(rn)
		if !ok {
			rep.DroppedNodes++
			continue
		}
		if _, dup := g.nodes[n.ID]; dup {
			rep.DroppedNodes++
			continue
		}
		if n.Kind == KindAccord {
			if _, dup := g.byKey[n.Key]; dup {
				rep.DroppedNodes++
				continue
			}
			g.byKey[n.Key] = n
			g.accords = append(g.accords, n)
		} else {
			g.perfumes = append(g.perfumes, n)
		}
		g.order[n.ID] = len(g.order)
		g.nodes[n.ID] = n
	}
	rep.Nodes = len(g.nodes)

	if len(g.perfumes) == 0 {
		return nil, rep, ErrNoData
	}

	hasAccordAt := make(map[[2]string]int)
	similarAt := make(map[[2]string]int)

	for _, re := range p.Edges {
		kind, ok := parseEdgeKind(re.Type)
		if !ok {
			rep.drop(re, ReasonUnknownType)
			continue
		}
		from, fromOK := g.nodes[re.From]
		to, toOK := g.nodes[re.To]
		if !fromOK || !toOK {
			rep.drop(re, ReasonUnknownNode)
			continue
		}

		w, clamped := clampWeight(re.Weight)
		if clamped {
			rep.ClampedWeights++
		}

		switch kind {
		case EdgeHasAccord:
			if from.Kind != KindPerfume || to.Kind != KindAccord {
				rep.drop(re, ReasonKindMismatch)
				continue
			}
			pair := [2]string{from.ID, to.ID}
			if i, seen := hasAccordAt[pair]; seen {
				rep.MergedEdges++
				g.hasAccord[i].Weight = math.Max(g.hasAccord[i].Weight, w)
				continue
			}
			hasAccordAt[pair] = len(g.hasAccord)
			g.hasAccord = append(g.hasAccord, Edge{From: from.ID, To: to.ID, Kind: kind, Weight: w})

		case EdgeSimilarTo:
			if from.Kind != KindPerfume || to.Kind != KindPerfume {
				rep.drop(re, ReasonKindMismatch)
				continue
			}
			if from.ID == to.ID {
				rep.drop(re, ReasonSelfLoop)
				continue
			}
			pair := unorderedPair(from.ID, to.ID)
			if i, seen := similarAt[pair]; seen {
				rep.MergedEdges++
				g.similar[i].Weight = math.Max(g.similar[i].Weight, w)
				continue
			}
			similarAt[pair] = len(g.similar)
			g.similar = append(g.similar, Edge{From: from.ID, To: to.ID, Kind: kind, Weight: w})
		}
	}
	rep.Edges = len(g.similar) + len(g.hasAccord)

	g.buildIndices()
	return g, rep, nil
}

func (r *Report) drop(re RawEdge, reason string) {
	r.DroppedEdges = append(r.DroppedEdges, DroppedEdge{From: re.From, To: re.To, Type: re.Type, Reason: reason})
}

// buildIndices precomputes the ranked accord lists and the similarity map.
func (g *Graph) buildIndices() {
	for _, e := range g.hasAccord {
		key := g.nodes[e.To].Key
		g.accordsOf[e.From] = append(g.accordsOf[e.From], AccordWeight{Accord: key, Weight: e.Weight})
	}
	for id, list := range g.accordsOf {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Weight > list[j].Weight
		})
		// Perfume accord sets also cover accords only known from edges.
		p := g.nodes[id]
		names := append([]string(nil), p.Accords...)
		for _, aw := range list {
			names = append(names, aw.Accord)
		}
		p.Accords = normalizeSet(names)
	}

	for _, e := range g.similar {
		g.link(e.From, e.To, e.Weight)
		g.link(e.To, e.From, e.Weight)
	}
}

func (g *Graph) link(a, b string, w float64) {
	m, ok := g.similarity[a]
	if !ok {
		m = make(map[string]float64)
		g.similarity[a] = m
	}
	m[b] = w
}

func buildNode(rn RawNode) (*Node, bool) {
	id := strings.TrimSpace(rn.ID)
	if id == "" {
		return nil, false
	}
	kind, ok := parseNodeKind(rn.Type)
	if !ok {
		return nil, false
	}
	label := strings.TrimSpace(rn.Label)
	if label == "" {
		label = id
	}

	n := &Node{ID: id, Label: label, Kind: kind}
	if kind == KindAccord {
		n.Key = accordKey(id)
		return n, true
	}

	n.Brand = strings.TrimSpace(rn.Brand)
	n.PrimaryAccord = accordKey(strings.TrimSpace(rn.PrimaryAccord))
	n.Accords = normalizeSet(accordKeys(rn.Accords))
	if n.PrimaryAccord != "" {
		n.Accords = normalizeSet(append(n.Accords, n.PrimaryAccord))
	}
	n.Seasons = normalizeSet(rn.Seasons)
	n.Occasions = normalizeSet(rn.Occasions)
	n.Genders = normalizeSet(rn.Genders)
	n.Status = ParseRegisterStatus(rn.RegisterStatus)
	return n, true
}

// clampWeight forces a weight into [0,1]; absent and NaN weights read as 0.
func clampWeight(w *float64) (float64, bool) {
	if w == nil {
		return 0, false
	}
	v := *w
	switch {
	case math.IsNaN(v):
		return 0, true
	case v < 0:
		return 0, true
	case v > 1:
		return 1, true
	}
	return v, false
}

func unorderedPair(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// normalizeSet trims, de-duplicates and sorts a string set.
func normalizeSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func accordKeys(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, accordKey(strings.TrimSpace(s)))
	}
	return out
}
