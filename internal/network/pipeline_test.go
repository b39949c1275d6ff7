package network

import (
	"errors"
	"fmt"
	"testing"
)

func TestCollectionFacets(t *testing.T) {
	g := mustIngest(t, scenarioPayload())

	f := FacetsOf(g, true)
	checks := map[string][2]string{
		"accords":   {fmt.Sprint(f.Accords), "[Floral Woody]"},
		"brands":    {fmt.Sprint(f.Brands), "[Maison A]"},
		"seasons":   {fmt.Sprint(f.Seasons), "[Spring]"},
		"occasions": {fmt.Sprint(f.Occasions), "[Date]"},
		"genders":   {fmt.Sprint(f.Genders), "[Female]"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s: expected %s, got %s", name, c[1], c[0])
		}
	}

	state := ApplyCollection(g, DefaultFilterState())
	if !state.CollectionOnly {
		t.Fatal("expected collection mode on")
	}
	if fmt.Sprint(state.Accords) != "[Floral Woody]" || fmt.Sprint(state.Brands) != "[Maison A]" {
		t.Errorf("expected selections overwritten by the collection, got %v / %v", state.Accords, state.Brands)
	}

	v := Derive(g, state, "")
	if v.Stats.Visible != 1 || v.Nodes[0].ID != "P1" {
		t.Errorf("expected only P1 visible, got %+v", v.Nodes)
	}
}

func TestFacetsOfWholeGraph(t *testing.T) {
	g := mustIngest(t, scenarioPayload())
	f := FacetsOf(g, false)
	if fmt.Sprint(f.Brands) != "[Maison A Maison B]" {
		t.Errorf("expected both brands, got %v", f.Brands)
	}
	if f.Empty() {
		t.Error("expected non-empty facets")
	}
	if !(Facets{}).Empty() {
		t.Error("expected zero facets to be empty")
	}
}

func TestParseFacet(t *testing.T) {
	for in, want := range map[string]Facet{
		"accord": FacetAccord, "Accords": FacetAccord, "brand": FacetBrand,
		"seasons": FacetSeason, " occasion ": FacetOccasion, "GENDERS": FacetGender,
	} {
		got, err := ParseFacet(in)
		if err != nil || got != want {
			t.Errorf("ParseFacet(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFacet("notes"); err == nil {
		t.Error("expected error for unknown facet")
	}
}

func TestDeriveEmptyResult(t *testing.T) {
	g := mustIngest(t, scenarioPayload())
	state := DefaultFilterState()
	state.Brands = []string{"Nobody"}

	v := Derive(g, state, "")
	if v.Status != ViewEmpty {
		t.Errorf("expected empty status, got %s", v.Status)
	}
	if v.Message != EmptyMessage {
		t.Errorf("expected empty-state message, got %q", v.Message)
	}
	if len(v.Nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(v.Nodes))
	}
}

func TestDeriveZeroDisplayLimit(t *testing.T) {
	g := mustIngest(t, scenarioPayload())
	state := openState()
	state.DisplayLimit = 0

	v := Derive(g, state, "")
	if v.Status != ViewEmpty || v.Stats.Filtered != 2 {
		t.Fatalf("expected an empty view over 2 filtered perfumes, got %s %+v", v.Status, v.Stats)
	}
	if v.Message != HiddenMessage {
		t.Errorf("expected display limit message, got %q", v.Message)
	}
}

func TestDeriveNilGraph(t *testing.T) {
	v := Derive(nil, DefaultFilterState(), "")
	if v.Status != ViewNoData {
		t.Errorf("expected no-data status, got %s", v.Status)
	}
}

func TestDeriveStats(t *testing.T) {
	g := mustIngest(t, starPayload())
	state := openState()
	state.DisplayLimit = 4
	state.SelectedID = "H"

	v := Derive(g, state, "")
	if v.Status != ViewReady {
		t.Fatalf("expected ready, got %s", v.Status)
	}
	if v.Stats.Filtered != 9 || v.Stats.Visible != 4 {
		t.Errorf("expected 9 filtered and 4 visible, got %+v", v.Stats)
	}
}

func TestDetails(t *testing.T) {
	g := mustIngest(t, starPayload())

	d, err := Details(g, "H", 3)
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(d.Similar) != 3 || d.Similar[0].ID != "N1" {
		t.Errorf("expected top 3 similar starting at N1, got %+v", d.Similar)
	}
	if len(d.Accords) != 1 || d.Accords[0].Accord != "Floral" {
		t.Errorf("expected Floral accord, got %+v", d.Accords)
	}

	d, err = Details(g, "Woody", 0)
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(d.Carriers) != 8 {
		t.Errorf("expected 8 Woody carriers, got %d", len(d.Carriers))
	}

	if _, err := Details(g, "missing", 1); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestDetailsByAccordKey(t *testing.T) {
	g := mustIngest(t, scenarioPayload())

	d, err := Details(g, "Woody", 0)
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if d.Node.ID != "accord:Woody" || len(d.Carriers) != 2 || d.Carriers[0].ID != "P2" {
		t.Errorf("expected Woody carriers P2 then P1, got %+v / %+v", d.Node, d.Carriers)
	}
}

func TestDetailsAreCopies(t *testing.T) {
	g := mustIngest(t, scenarioPayload())

	d, err := Details(g, "P1", 0)
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	d.Node.Label = "changed"
	d.Node.Seasons[0] = "changed"
	d.Accords[0].Weight = 0

	n, _ := g.Node("P1")
	if n.Label != "Rose Noir" || n.Seasons[0] != "Spring" {
		t.Errorf("detail edits leaked into the graph: %+v", n)
	}
	if got := g.AccordsOf("P1")[0].Weight; got != 0.9 {
		t.Errorf("expected accord weight 0.9 kept, got %v", got)
	}

	accords := g.AccordsOf("P1")
	accords[0] = AccordWeight{Accord: "changed"}
	if g.AccordsOf("P1")[0].Accord != "Floral" {
		t.Error("AccordsOf must return a copy")
	}
}
