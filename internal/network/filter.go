package network

import "slices"

// DefaultAccords is the popular accord subset selected at session start.
var DefaultAccords = []string{"Floral", "Woody", "Citrus", "Amber", "Musky", "Fresh", "Sweet", "Powdery"}

// FilterState is the current facet selection. It is a value: the helpers
// below return modified copies and never touch the receiver's slices.
type FilterState struct {
	Accords   []string `json:"accords"`
	Brands    []string `json:"brands"`
	Seasons   []string `json:"seasons"`
	Occasions []string `json:"occasions"`
	Genders   []string `json:"genders"`

	MinSimilarity float64 `json:"minSimilarity" validate:"gte=0,lte=1"`
	TopAccords    int     `json:"topAccords" validate:"gte=0,lte=100"`
	DisplayLimit  int     `json:"displayLimit" validate:"gte=0,lte=10000"`

	SelectedID     string `json:"selectedId,omitempty"`
	CollectionOnly bool   `json:"collectionOnly"`
}

// DefaultFilterState returns the session-start selection.
func DefaultFilterState() FilterState {
	return FilterState{
		Accords:       slices.Clone(DefaultAccords),
		MinSimilarity: 0.65,
		TopAccords:    5,
		DisplayLimit:  40,
	}
}

// Clone returns a deep copy.
func (s FilterState) Clone() FilterState {
	s.Accords = slices.Clone(s.Accords)
	s.Brands = slices.Clone(s.Brands)
	s.Seasons = slices.Clone(s.Seasons)
	s.Occasions = slices.Clone(s.Occasions)
	s.Genders = slices.Clone(s.Genders)
	return s
}

// Values returns the selection of one facet.
func (s FilterState) Values(f Facet) []string {
	switch f {
	case FacetAccord:
		return s.Accords
	case FacetBrand:
		return s.Brands
	case FacetSeason:
		return s.Seasons
	case FacetOccasion:
		return s.Occasions
	case FacetGender:
		return s.Genders
	}
	return nil
}

// With returns a copy whose selection for f is replaced by values.
func (s FilterState) With(f Facet, values []string) FilterState {
	out := s.Clone()
	v := normalizeSet(values)
	switch f {
	case FacetAccord:
		out.Accords = accordKeysSet(v)
	case FacetBrand:
		out.Brands = v
	case FacetSeason:
		out.Seasons = v
	case FacetOccasion:
		out.Occasions = v
	case FacetGender:
		out.Genders = v
	}
	return out
}

// Toggle returns a copy with value added to or removed from facet f.
func (s FilterState) Toggle(f Facet, value string) FilterState {
	cur := s.Values(f)
	if i := slices.Index(cur, value); i >= 0 {
		return s.With(f, slices.Delete(slices.Clone(cur), i, i+1))
	}
	return s.With(f, append(slices.Clone(cur), value))
}

// Subgraph is a perfume id set with the edges and accord nodes derived
// from it. Filter and Window both produce one.
type Subgraph struct {
	PerfumeIDs []string `json:"perfumeIds"`
	Similar    []Edge   `json:"similar"`
	HasAccord  []Edge   `json:"hasAccord"`
	AccordIDs  []string `json:"accordIds"`

	members map[string]bool
}

// Contains reports whether the perfume is part of the subgraph.
func (s *Subgraph) Contains(id string) bool { return s.members[id] }

// newSubgraph keeps the candidate edges whose perfumes are all in ids and
// the accord nodes those edges reach, in payload order.
func newSubgraph(g *Graph, ids []string, similar, hasAccord []Edge) *Subgraph {
	s := &Subgraph{
		PerfumeIDs: ids,
		members:    make(map[string]bool, len(ids)),
	}
	for _, id := range ids {
		s.members[id] = true
	}
	for _, e := range similar {
		if s.members[e.From] && s.members[e.To] {
			s.Similar = append(s.Similar, e)
		}
	}
	reached := make(map[string]bool)
	for _, e := range hasAccord {
		if s.members[e.From] {
			s.HasAccord = append(s.HasAccord, e)
			reached[e.To] = true
		}
	}
	for _, a := range g.accords {
		if reached[a.ID] {
			s.AccordIDs = append(s.AccordIDs, a.ID)
		}
	}
	return s
}

// Filter applies the facet selection, the similarity threshold and the
// top-K accord cut to the graph. It never modifies g.
func Filter(g *Graph, state FilterState) *Subgraph {
	sel := newSelection(state)

	var ids []string
	for _, p := range g.perfumes {
		if state.CollectionOnly && !p.InCollection() {
			continue
		}
		if sel.match(p) {
			ids = append(ids, p.ID)
		}
	}

	var similar []Edge
	for _, e := range g.similar {
		if e.Weight >= state.MinSimilarity {
			similar = append(similar, e)
		}
	}

	var hasAccord []Edge
	for _, id := range ids {
		list := g.accordsOf[id]
		if state.TopAccords < len(list) {
			list = list[:max(state.TopAccords, 0)]
		}
		for _, aw := range list {
			if len(sel.accords) > 0 && !sel.accords[aw.Accord] {
				continue
			}
			a := g.byKey[aw.Accord]
			hasAccord = append(hasAccord, Edge{From: id, To: a.ID, Kind: EdgeHasAccord, Weight: aw.Weight})
		}
	}

	return newSubgraph(g, ids, similar, hasAccord)
}

type selection struct {
	accords, brands, seasons, occasions, genders map[string]bool
}

func newSelection(s FilterState) selection {
	return selection{
		accords:   toSet(accordKeys(s.Accords)),
		brands:    toSet(s.Brands),
		seasons:   toSet(s.Seasons),
		occasions: toSet(s.Occasions),
		genders:   toSet(s.Genders),
	}
}

// match checks every non-empty facet. Accords match on the primary accord
// only; seasons, occasions and genders need a single overlap.
func (sel selection) match(p *Node) bool {
	if len(sel.accords) > 0 && !sel.accords[p.PrimaryAccord] {
		return false
	}
	if len(sel.brands) > 0 && !sel.brands[p.Brand] {
		return false
	}
	return overlaps(sel.seasons, p.Seasons) &&
		overlaps(sel.occasions, p.Occasions) &&
		overlaps(sel.genders, p.Genders)
}

func overlaps(want map[string]bool, have []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, v := range have {
		if want[v] {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			m[v] = true
		}
	}
	return m
}

func accordKeysSet(values []string) []string {
	return normalizeSet(accordKeys(values))
}
