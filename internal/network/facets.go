package network

import (
	"fmt"
	"strings"
)

// Facet names one of the five filterable perfume attributes.
type Facet int

const (
	FacetAccord Facet = iota
	FacetBrand
	FacetSeason
	FacetOccasion
	FacetGender
)

// AllFacets lists the facets in display order.
var AllFacets = []Facet{FacetAccord, FacetBrand, FacetSeason, FacetOccasion, FacetGender}

// String returns the plural wire name used by the facet and label providers.
func (f Facet) String() string {
	switch f {
	case FacetAccord:
		return "accords"
	case FacetBrand:
		return "brands"
	case FacetSeason:
		return "seasons"
	case FacetOccasion:
		return "occasions"
	case FacetGender:
		return "genders"
	default:
		return "unknown"
	}
}

// ParseFacet accepts singular or plural facet names.
func ParseFacet(s string) (Facet, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	switch name {
	case "accord":
		return FacetAccord, nil
	case "brand":
		return FacetBrand, nil
	case "season":
		return FacetSeason, nil
	case "occasion":
		return FacetOccasion, nil
	case "gender":
		return FacetGender, nil
	}
	return 0, fmt.Errorf("unknown facet: %q", s)
}

// Facets holds the available values of every facet.
type Facets struct {
	Accords   []string `json:"accords"`
	Brands    []string `json:"brands"`
	Seasons   []string `json:"seasons"`
	Occasions []string `json:"occasions"`
	Genders   []string `json:"genders"`
}

// Get returns the values of one facet.
func (f Facets) Get(facet Facet) []string {
	switch facet {
	case FacetAccord:
		return f.Accords
	case FacetBrand:
		return f.Brands
	case FacetSeason:
		return f.Seasons
	case FacetOccasion:
		return f.Occasions
	case FacetGender:
		return f.Genders
	}
	return nil
}

// Empty reports whether no facet has any value.
func (f Facets) Empty() bool {
	for _, facet := range AllFacets {
		if len(f.Get(facet)) > 0 {
			return false
		}
	}
	return true
}

// FacetsOf collects the facet values present in the graph, or only in the
// member's collection when collectionOnly is set.
func FacetsOf(g *Graph, collectionOnly bool) Facets {
	var accords, brands, seasons, occasions, genders []string
	for _, p := range g.perfumes {
		if collectionOnly && !p.InCollection() {
			continue
		}
		accords = append(accords, p.Accords...)
		if p.PrimaryAccord != "" {
			accords = append(accords, p.PrimaryAccord)
		}
		for _, aw := range g.accordsOf[p.ID] {
			accords = append(accords, aw.Accord)
		}
		if p.Brand != "" {
			brands = append(brands, p.Brand)
		}
		seasons = append(seasons, p.Seasons...)
		occasions = append(occasions, p.Occasions...)
		genders = append(genders, p.Genders...)
	}
	return Facets{
		Accords:   normalizeSet(accords),
		Brands:    normalizeSet(brands),
		Seasons:   normalizeSet(seasons),
		Occasions: normalizeSet(occasions),
		Genders:   normalizeSet(genders),
	}
}

// ApplyCollection switches the state to collection-only mode and overwrites
// every facet selection with exactly the values found in the collection.
func ApplyCollection(g *Graph, s FilterState) FilterState {
	f := FacetsOf(g, true)
	out := s.Clone()
	out.CollectionOnly = true
	out.Accords = f.Accords
	out.Brands = f.Brands
	out.Seasons = f.Seasons
	out.Occasions = f.Occasions
	out.Genders = f.Genders
	return out
}
