package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/msalah0e/scentnet/internal/network"
)

func samplePayload() *network.Payload {
	w := 0.8
	return &network.Payload{
		Nodes: []network.RawNode{
			{ID: "P1", Label: "One", Type: "perfume", PrimaryAccord: "Floral"},
			{ID: "P2", Label: "Two", Type: "perfume", PrimaryAccord: "Floral"},
		},
		Edges: []network.RawEdge{{From: "P1", To: "P2", Type: "SIMILAR_TO", Weight: &w}},
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/test-cache")
	if Dir() != "/tmp/test-cache/scentnet" {
		t.Errorf("expected /tmp/test-cache/scentnet, got %q", Dir())
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "scentnet")
	if Dir() != expected {
		t.Errorf("expected %q, got %q", expected, Dir())
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/c")
	if got := Path(""); got != "/tmp/c/scentnet/_anonymous.json" {
		t.Errorf("expected anonymous bundle, got %q", got)
	}
	if got := Path("org/m:1"); got != "/tmp/c/scentnet/org_2fm_3a1.json" {
		t.Errorf("expected escaped name, got %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	b := &Bundle{
		MemberID: "m-1",
		Payload:  samplePayload(),
		Facets:   network.Facets{Accords: []string{"Floral"}},
		Labels:   map[string]map[string]string{"accords": {"Floral": "Floral"}},
	}
	if err := Save(b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load("m-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Payload.Nodes) != 2 || len(got.Payload.Edges) != 1 {
		t.Errorf("unexpected payload %+v", got.Payload)
	}
	if *got.Payload.Edges[0].Weight != 0.8 {
		t.Errorf("expected weight 0.8, got %v", *got.Payload.Edges[0].Weight)
	}
	if got.FetchedAt.IsZero() {
		t.Error("expected fetch time to be stamped")
	}
	if got.Facets.Accords[0] != "Floral" || got.Labels["accords"]["Floral"] != "Floral" {
		t.Errorf("expected facets and labels kept, got %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if _, err := Load("nobody"); !errors.Is(err, ErrNotCached) {
		t.Errorf("expected ErrNotCached, got %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	os.MkdirAll(Dir(), 0o755)
	os.WriteFile(Path("x"), []byte("{not json"), 0o644)

	_, err := Load("x")
	if err == nil || errors.Is(err, ErrNotCached) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := Save(&Bundle{}); err == nil {
		t.Error("expected error for a bundle without payload")
	}
}

func TestListAndClear(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	entries, err := List()
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty list, got %v, %v", entries, err)
	}

	for _, m := range []string{"", "m-1"} {
		if err := Save(&Bundle{MemberID: m, Payload: samplePayload()}); err != nil {
			t.Fatalf("Save(%q) failed: %v", m, err)
		}
	}

	entries, _ = List()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
		if e.Size == 0 {
			t.Errorf("%s: expected non-zero size", e.Name)
		}
	}
	if !names["_anonymous"] || !names["m-1"] {
		t.Errorf("unexpected names %v", names)
	}

	n, err := Clear()
	if err != nil || n != 2 {
		t.Errorf("Clear = %d, %v", n, err)
	}
	if entries, _ := List(); len(entries) != 0 {
		t.Errorf("expected empty cache after clear, got %d", len(entries))
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"m-1", "m-1"},
		{"org/member:1", "org_2fmember_3a1"},
		{"@scope/m", "_40scope_2fm"},
		{"../etc", "_2e_2e_2fetc"},
		{"a_b", "a_5fb"},
		{"", "_anonymous"},
	}

	for _, tt := range tests {
		got := fileName(tt.input)
		if got != tt.expected {
			t.Errorf("fileName(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
		if member, ok := memberOf(got); !ok || member != tt.input {
			t.Errorf("memberOf(%q) = %q, %v; want %q", got, member, ok, tt.input)
		}
	}

	for _, name := range []string{"_zz", "a_4", "_an"} {
		if _, ok := memberOf(name); ok {
			t.Errorf("memberOf(%q): expected rejection", name)
		}
	}
}

func TestDistinctMembersDoNotCollide(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	members := []string{"", "anonymous", "a/b", "a:b", "a@b", "a_b", "a_2fb"}
	for _, m := range members {
		p := samplePayload()
		p.Meta.MemberID = m
		if err := Save(&Bundle{MemberID: m, Payload: p}); err != nil {
			t.Fatalf("Save(%q) failed: %v", m, err)
		}
	}
	for _, m := range members {
		b, err := Load(m)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", m, err)
		}
		if b.MemberID != m || b.Payload.Meta.MemberID != m {
			t.Errorf("Load(%q) returned the bundle of %q", m, b.MemberID)
		}
	}

	entries, err := List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(members) {
		t.Fatalf("expected %d entries, got %d", len(members), len(entries))
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		seen[e.MemberID] = true
	}
	for _, m := range members {
		if !seen[m] {
			t.Errorf("expected an entry for member %q", m)
		}
	}
}
