package network

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestIngestBuildsIndices(t *testing.T) {
	g, rep, err := Ingest(scenarioPayload())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if rep.Nodes != 4 || len(rep.DroppedEdges) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	accords := g.AccordsOf("P1")
	if len(accords) != 2 {
		t.Fatalf("expected 2 accords for P1, got %d", len(accords))
	}
	if accords[0].Accord != "Floral" || accords[1].Accord != "Woody" {
		t.Errorf("expected Floral before Woody, got %+v", accords)
	}

	for _, pair := range [][2]string{{"P1", "P2"}, {"P2", "P1"}} {
		score, ok := g.Similarity(pair[0], pair[1])
		if !ok || score != 0.7 {
			t.Errorf("Similarity(%s, %s) = %v, %v; want 0.7, true", pair[0], pair[1], score, ok)
		}
	}

	a, ok := g.AccordNode("Floral")
	if !ok || a.ID != "accord:Floral" {
		t.Errorf("expected accord key Floral to resolve to accord:Floral, got %v", a)
	}

	p1, _ := g.Node("P1")
	if strings.Join(p1.Accords, ",") != "Floral,Woody" {
		t.Errorf("expected P1 accords to include edge accords, got %v", p1.Accords)
	}
	if p1.Status != StatusHave {
		t.Errorf("expected HAVE status, got %v", p1.Status)
	}
}

func TestIngestDropsBadReferences(t *testing.T) {
	p := scenarioPayload()
	p.Edges = append(p.Edges,
		RawEdge{From: "P1", To: "ghost", Type: "SIMILAR_TO", Weight: w(0.9)},
		RawEdge{From: "accord:Floral", To: "P1", Type: "HAS_ACCORD", Weight: w(0.5)},
		RawEdge{From: "P2", To: "P2", Type: "SIMILAR_TO", Weight: w(1)},
		RawEdge{From: "P1", To: "P2", Type: "LIKES"},
	)

	g, rep, err := Ingest(p)
	if err != nil {
		t.Fatalf("bad edges must not fail ingestion: %v", err)
	}
	if len(rep.DroppedEdges) != 4 {
		t.Fatalf("expected 4 dropped edges, got %d: %+v", len(rep.DroppedEdges), rep.DroppedEdges)
	}
	want := []string{ReasonUnknownNode, ReasonKindMismatch, ReasonSelfLoop, ReasonUnknownType}
	for i, reason := range want {
		if rep.DroppedEdges[i].Reason != reason {
			t.Errorf("dropped edge %d: expected reason %s, got %s", i, reason, rep.DroppedEdges[i].Reason)
		}
	}
	if g.Stats().Similar != 1 {
		t.Errorf("expected 1 similar edge, got %d", g.Stats().Similar)
	}
}

func TestIngestClampsWeights(t *testing.T) {
	p := scenarioPayload()
	p.Edges = []RawEdge{
		{From: "P1", To: "accord:Floral", Type: "has_accord", Weight: w(1.7)},
		{From: "P2", To: "accord:Woody", Type: "HAS_ACCORD", Weight: w(-0.2)},
		{From: "P1", To: "P2", Type: "similar-to", Weight: w(math.NaN())},
		{From: "P2", To: "accord:Floral", Type: "HAS_ACCORD"},
	}

	g, rep, err := Ingest(p)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if rep.ClampedWeights != 3 {
		t.Errorf("expected 3 clamped weights, got %d", rep.ClampedWeights)
	}
	if got := g.AccordsOf("P1")[0].Weight; got != 1 {
		t.Errorf("expected weight clamped to 1, got %v", got)
	}
	for _, aw := range g.AccordsOf("P2") {
		if aw.Weight != 0 {
			t.Errorf("expected weight 0 for %s, got %v", aw.Accord, aw.Weight)
		}
	}
	if score, _ := g.Similarity("P1", "P2"); score != 0 {
		t.Errorf("expected NaN similarity to read as 0, got %v", score)
	}
}

func TestIngestMergesDuplicateSimilarity(t *testing.T) {
	p := scenarioPayload()
	p.Edges = append(p.Edges, RawEdge{From: "P2", To: "P1", Type: "SIMILAR_TO", Weight: w(0.8)})

	g, rep, err := Ingest(p)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if rep.MergedEdges != 1 {
		t.Errorf("expected 1 merged edge, got %d", rep.MergedEdges)
	}
	if g.Stats().Similar != 1 {
		t.Fatalf("expected one similar edge per pair, got %d", g.Stats().Similar)
	}
	if score, _ := g.Similarity("P1", "P2"); score != 0.8 {
		t.Errorf("expected the higher weight to win, got %v", score)
	}
}

func TestIngestNoData(t *testing.T) {
	if _, _, err := Ingest(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("nil payload: expected ErrNoData, got %v", err)
	}
	if _, _, err := Ingest(&Payload{}); !errors.Is(err, ErrNoData) {
		t.Errorf("empty payload: expected ErrNoData, got %v", err)
	}

	onlyAccords := &Payload{Nodes: []RawNode{{ID: "Floral", Type: "accord"}}}
	if _, _, err := Ingest(onlyAccords); !errors.Is(err, ErrNoData) {
		t.Errorf("accord-only payload: expected ErrNoData, got %v", err)
	}
}

func TestIngestDropsBadNodes(t *testing.T) {
	p := scenarioPayload()
	p.Nodes = append(p.Nodes,
		RawNode{ID: "", Type: "perfume"},
		RawNode{ID: "X", Type: "bottle"},
		RawNode{ID: "P1", Type: "perfume", Label: "Impostor"},
		RawNode{ID: "Floral", Type: "accord"},
	)

	g, rep, err := Ingest(p)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if rep.DroppedNodes != 4 {
		t.Errorf("expected 4 dropped nodes, got %d", rep.DroppedNodes)
	}
	p1, _ := g.Node("P1")
	if p1.Label != "Rose Noir" {
		t.Errorf("expected first occurrence to win, got label %q", p1.Label)
	}
}

func TestDecodePayload(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": "p-1", "label": "Aqua", "type": "perfume", "brand": "Blue", "primaryAccord": "Fresh", "registerStatus": "WANT"},
			{"id": "accord:Fresh", "label": "Fresh", "type": "accord"}
		],
		"edges": [{"from": "p-1", "to": "accord:Fresh", "type": "HAS_ACCORD"}],
		"meta": {"memberId": "42"}
	}`

	p, err := DecodePayload(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if p.Meta.MemberID != "42" {
		t.Errorf("expected member 42, got %q", p.Meta.MemberID)
	}
	if p.Edges[0].Weight != nil {
		t.Errorf("expected missing weight to decode as nil")
	}

	g := mustIngest(t, p)
	if got := g.AccordsOf("p-1"); len(got) != 1 || got[0].Weight != 0 {
		t.Errorf("expected one accord with weight 0, got %+v", got)
	}
	n, _ := g.Node("p-1")
	if n.Status != StatusWant {
		t.Errorf("expected WANT, got %v", n.Status)
	}

	if _, err := DecodePayload(strings.NewReader("{nodes")); err == nil {
		t.Error("expected decode error for malformed document")
	}
}
