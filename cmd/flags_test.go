package cmd

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/config"
	"github.com/msalah0e/scentnet/internal/network"
)

func parseFlags(t *testing.T, args ...string) (*filterFlags, *cobra.Command) {
	t.Helper()
	var f filterFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	return &f, cmd
}

func TestFilterFlagsDefaults(t *testing.T) {
	f, cmd := parseFlags(t)
	c := config.Default()
	c.Filter.DisplayLimit = 25

	s := f.state(cmd, c)
	if s.DisplayLimit != 25 || s.MinSimilarity != 0.65 || s.TopAccords != 5 {
		t.Errorf("expected config values, got %+v", s)
	}
	if len(s.Accords) != len(network.DefaultAccords) || !slices.Contains(s.Accords, "Woody") {
		t.Errorf("expected default accords, got %v", s.Accords)
	}
}

func TestFilterFlagsOverride(t *testing.T) {
	f, cmd := parseFlags(t,
		"--accord", "Woody,accord:Citrus,Woody",
		"--brand", "Maison A",
		"--season", "SPRING",
		"--min-similarity", "0.8",
		"--top-accords", "0",
		"--limit", "10",
	)
	s := f.state(cmd, config.Default())

	if !slices.Equal(s.Accords, []string{"Citrus", "Woody"}) {
		t.Errorf("expected normalized accords, got %v", s.Accords)
	}
	if !slices.Equal(s.Brands, []string{"Maison A"}) || !slices.Equal(s.Seasons, []string{"SPRING"}) {
		t.Errorf("unexpected facets %+v", s)
	}
	if s.MinSimilarity != 0.8 || s.TopAccords != 0 || s.DisplayLimit != 10 {
		t.Errorf("expected numeric overrides, got %+v", s)
	}
}

func TestFilterFlagsAnyAccord(t *testing.T) {
	f, cmd := parseFlags(t, "--any-accord", "--accord", "Woody")
	if s := f.state(cmd, config.Default()); len(s.Accords) != 0 {
		t.Errorf("expected no accord restriction, got %v", s.Accords)
	}
}

func TestFilterFlagsValidate(t *testing.T) {
	tests := [][]string{
		{"--min-similarity", "1.5"},
		{"--min-similarity", "-0.1"},
		{"--top-accords", "-1"},
		{"--limit", "-5"},
	}
	for _, args := range tests {
		f, cmd := parseFlags(t, args...)
		if err := f.validate(cmd, config.Default()); err == nil {
			t.Errorf("expected %v to be rejected", args)
		}
	}

	f, cmd := parseFlags(t, "--min-similarity", "1")
	if err := f.validate(cmd, config.Default()); err != nil {
		t.Errorf("expected threshold 1 to be accepted, got %v", err)
	}
}

func TestFilterFlagsMember(t *testing.T) {
	c := config.Default()
	c.Provider.MemberID = "from-config"

	f, _ := parseFlags(t)
	if got := f.memberID(c); got != "from-config" {
		t.Errorf("expected config member, got %q", got)
	}
	f, _ = parseFlags(t, "--member", "m-7")
	if got := f.memberID(c); got != "m-7" {
		t.Errorf("expected flag member, got %q", got)
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8000"); got != "localhost:8000" {
		t.Errorf("got %q", got)
	}
	if got := displayAddr("127.0.0.1:7410"); got != "127.0.0.1:7410" {
		t.Errorf("got %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KB",
		3 << 20: "3.0 MB",
	}
	for in, want := range tests {
		if got := formatSize(in); got != want {
			t.Errorf("formatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
