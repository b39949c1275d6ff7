package network

import (
	"fmt"
	"testing"
)

func w(v float64) *float64 { return &v }

// scenarioPayload is the two-perfume graph used by the documented scenarios.
func scenarioPayload() *Payload {
	return &Payload{
		Nodes: []RawNode{
			{ID: "P1", Label: "Rose Noir", Type: "perfume", Brand: "Maison A", PrimaryAccord: "Floral",
				Seasons: []string{"Spring"}, Occasions: []string{"Date"}, Genders: []string{"Female"}, RegisterStatus: "HAVE"},
			{ID: "P2", Label: "Cedar Smoke", Type: "perfume", Brand: "Maison B", PrimaryAccord: "Woody",
				Seasons: []string{"Autumn"}, Occasions: []string{"Office"}, Genders: []string{"Male"}},
			{ID: "accord:Floral", Label: "Floral", Type: "accord"},
			{ID: "accord:Woody", Label: "Woody", Type: "accord"},
		},
		Edges: []RawEdge{
			{From: "P1", To: "accord:Floral", Type: "HAS_ACCORD", Weight: w(0.9)},
			{From: "P1", To: "accord:Woody", Type: "HAS_ACCORD", Weight: w(0.4)},
			{From: "P2", To: "accord:Woody", Type: "HAS_ACCORD", Weight: w(0.8)},
			{From: "P1", To: "P2", Type: "SIMILAR_TO", Weight: w(0.7)},
		},
	}
}

// starWeights are the hub similarities of N1..N8. N3 and N4 tie.
var starWeights = []float64{0.95, 0.9, 0.8, 0.8, 0.75, 0.7, 0.68, 0.66}

// starPayload builds eight perfumes N1..N8 followed by a hub H similar to
// all of them. Every perfume is Floral-primary with a weak Woody accord.
func starPayload() *Payload {
	p := &Payload{
		Nodes: []RawNode{},
	}
	for i := range starWeights {
		id := fmt.Sprintf("N%d", i+1)
		p.Nodes = append(p.Nodes, RawNode{ID: id, Type: "perfume", Brand: "House", PrimaryAccord: "Floral"})
		p.Edges = append(p.Edges,
			RawEdge{From: id, To: "Floral", Type: "HAS_ACCORD", Weight: w(0.9)},
			RawEdge{From: id, To: "Woody", Type: "HAS_ACCORD", Weight: w(0.3)},
			RawEdge{From: "H", To: id, Type: "SIMILAR_TO", Weight: w(starWeights[i])},
		)
	}
	p.Nodes = append(p.Nodes,
		RawNode{ID: "H", Type: "perfume", Brand: "House", PrimaryAccord: "Floral"},
		RawNode{ID: "Floral", Type: "accord"},
		RawNode{ID: "Woody", Type: "accord"},
	)
	p.Edges = append(p.Edges, RawEdge{From: "H", To: "Floral", Type: "HAS_ACCORD", Weight: w(1)})
	return p
}

func mustIngest(t *testing.T, p *Payload) *Graph {
	t.Helper()
	g, _, err := Ingest(p)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	return g
}

func openState() FilterState {
	s := DefaultFilterState()
	s.Accords = nil
	s.MinSimilarity = 0
	s.DisplayLimit = 100
	return s
}

func ids(s *Subgraph) string {
	return fmt.Sprint(s.PerfumeIDs)
}
