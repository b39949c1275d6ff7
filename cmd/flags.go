package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/config"
	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/session"
	"github.com/msalah0e/scentnet/internal/validation"
)

// filterFlags are the filter and interaction flags shared by the commands
// that load a network. Unset flags keep the [filter] config values.
type filterFlags struct {
	accords       []string
	anyAccord     bool
	brands        []string
	seasons       []string
	occasions     []string
	genders       []string
	minSimilarity float64
	topAccords    int
	limit         int
	selectID      string
	hoverID       string
	collection    bool
	member        string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVar(&f.accords, "accord", nil, "Show perfumes whose primary accord is one of these")
	fl.BoolVar(&f.anyAccord, "any-accord", false, "Do not restrict by accord")
	fl.StringSliceVar(&f.brands, "brand", nil, "Restrict to these brands")
	fl.StringSliceVar(&f.seasons, "season", nil, "Restrict to these seasons")
	fl.StringSliceVar(&f.occasions, "occasion", nil, "Restrict to these occasions")
	fl.StringSliceVar(&f.genders, "gender", nil, "Restrict to these genders")
	fl.Float64Var(&f.minSimilarity, "min-similarity", 0, "Minimum similarity for similarity edges (0-1)")
	fl.IntVar(&f.topAccords, "top-accords", 0, "Accord edges kept per perfume")
	fl.IntVar(&f.limit, "limit", 0, "Maximum perfumes displayed")
	fl.StringVar(&f.selectID, "select", "", "Select a perfume and highlight its neighbors")
	fl.StringVar(&f.hoverID, "hover", "", "Hover a node")
	fl.BoolVar(&f.collection, "collection", false, "Only the member's collection")
	fl.StringVar(&f.member, "member", "", "Member whose network is loaded (default from config)")
}

// state builds the initial filter state from config and the changed flags.
func (f *filterFlags) state(cmd *cobra.Command, c *config.Config) network.FilterState {
	s := c.FilterState()
	changed := cmd.Flags().Changed
	if f.anyAccord {
		s = s.With(network.FacetAccord, nil)
	} else if changed("accord") {
		s = s.With(network.FacetAccord, f.accords)
	}
	for name, facet := range map[string]network.Facet{
		"brand":    network.FacetBrand,
		"season":   network.FacetSeason,
		"occasion": network.FacetOccasion,
		"gender":   network.FacetGender,
	} {
		if changed(name) {
			s = s.With(facet, f.values(facet))
		}
	}
	if changed("min-similarity") {
		s.MinSimilarity = f.minSimilarity
	}
	if changed("top-accords") {
		s.TopAccords = f.topAccords
	}
	if changed("limit") {
		s.DisplayLimit = f.limit
	}
	return s
}

func (f *filterFlags) values(facet network.Facet) []string {
	switch facet {
	case network.FacetAccord:
		return f.accords
	case network.FacetBrand:
		return f.brands
	case network.FacetSeason:
		return f.seasons
	case network.FacetOccasion:
		return f.occasions
	case network.FacetGender:
		return f.genders
	}
	return nil
}

func (f *filterFlags) memberID(c *config.Config) string {
	if f.member != "" {
		return f.member
	}
	return c.Provider.MemberID
}

// validate rejects out-of-range numeric flags before anything is loaded.
func (f *filterFlags) validate(cmd *cobra.Command, c *config.Config) error {
	s := f.state(cmd, c)
	if err := validation.Struct(s); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	return nil
}

// apply replays the interaction flags on a loaded explorer.
func (f *filterFlags) apply(e *session.Explorer) error {
	if f.collection {
		e.SetCollectionOnly(true)
	}
	if f.selectID != "" {
		if err := e.Select(f.selectID); err != nil {
			return fmt.Errorf("--select: %w", err)
		}
	}
	if f.hoverID != "" {
		if err := e.Hover(f.hoverID); err != nil {
			return fmt.Errorf("--hover: %w", err)
		}
	}
	return nil
}
