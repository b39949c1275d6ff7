package labels

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/msalah0e/scentnet/internal/network"
)

func TestBuiltin(t *testing.T) {
	b := Builtin()
	if b.Len() == 0 {
		t.Fatal("expected built-in labels")
	}
	if got := b.Name(network.FacetSeason, "SPRING"); got != "Spring" {
		t.Errorf("expected Spring, got %q", got)
	}
	for _, a := range network.DefaultAccords {
		if got := b.Name(network.FacetAccord, a); got != a {
			t.Errorf("expected built-in name for %s, got %q", a, got)
		}
		if c := b.Color(a); !strings.HasPrefix(c, "#") {
			t.Errorf("expected color for %s, got %q", a, c)
		}
	}
}

func TestNameFallsBackToID(t *testing.T) {
	b := Builtin()
	if got := b.Name(network.FacetBrand, "Maison X"); got != "Maison X" {
		t.Errorf("expected id fallback, got %q", got)
	}
	var nilLabels *Labels
	if got := nilLabels.Name(network.FacetGender, "MALE"); got != "MALE" {
		t.Errorf("expected nil table to fall back, got %q", got)
	}
}

func TestColorIsStable(t *testing.T) {
	l := New()
	a, b := l.Color("Smoky"), l.Color("Smoky")
	if a != b {
		t.Errorf("expected a stable color, got %s and %s", a, b)
	}
}

func TestOverlay(t *testing.T) {
	remote := FromMap(map[string]map[string]string{
		"accords": {"accord:Woody": "Boisé"},
		"brands":  {"b1": "Maison A"},
		"notes":   {"x": "ignored"},
	})
	l := Builtin().Overlay(remote)

	if got := l.Name(network.FacetAccord, "Woody"); got != "Boisé" {
		t.Errorf("expected provider name to win, got %q", got)
	}
	if got := l.Name(network.FacetAccord, "Floral"); got != "Floral" {
		t.Errorf("expected built-in name kept, got %q", got)
	}
	if got := l.Name(network.FacetBrand, "b1"); got != "Maison A" {
		t.Errorf("expected brand label, got %q", got)
	}
	if l.Color("Woody") != Builtin().Color("Woody") {
		t.Error("expected built-in color kept")
	}
	if got := Builtin().Name(network.FacetAccord, "Woody"); got != "Woody" {
		t.Errorf("overlay must not modify the built-in table, got %q", got)
	}

	m := l.Map()
	if m["brands"]["b1"] != "Maison A" {
		t.Errorf("expected brands in map, got %v", m["brands"])
	}
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"t/accords.toml": {Data: []byte("[[labels]]\nid = \"Smoky\"\nname = \"Smoke\"\ncolor = \"#333333\"\n")},
		"t/README.md":    {Data: []byte("skip")},
	}
	l, err := LoadFromFS(fsys, "t")
	if err != nil {
		t.Fatalf("LoadFromFS failed: %v", err)
	}
	if l.Name(network.FacetAccord, "Smoky") != "Smoke" || l.Color("Smoky") != "#333333" {
		t.Errorf("unexpected table %v", l.Map())
	}

	bad := fstest.MapFS{"t/notes.toml": {Data: []byte("")}}
	if _, err := LoadFromFS(bad, "t"); err == nil {
		t.Error("expected error for unknown facet file")
	}
	broken := fstest.MapFS{"t/brands.toml": {Data: []byte("[[labels]\n")}}
	if _, err := LoadFromFS(broken, "t"); err == nil {
		t.Error("expected parse error")
	}
}
