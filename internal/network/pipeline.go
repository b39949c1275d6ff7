package network

// EmptyMessage is shown when the filters leave no perfume visible.
const EmptyMessage = "no perfumes match the current filters; try lowering the similarity threshold"

// HiddenMessage is shown when perfumes match but the display limit is zero.
const HiddenMessage = "perfumes match the current filters but the display limit is 0; raise it to show them"

// Derive runs the filter, window and emphasis stages in order and returns a
// fresh view. A nil graph yields an empty no-data view.
func Derive(g *Graph, state FilterState, hoveredID string) *View {
	if g == nil {
		return &View{Status: ViewNoData, Message: "no network data"}
	}

	f := Filter(g, state)
	w := Window(g, f, state.SelectedID, state.DisplayLimit)
	v := Emphasize(g, w, state.SelectedID, hoveredID)

	v.Stats.Filtered = len(f.PerfumeIDs)
	if v.Stats.Visible == 0 {
		v.Status = ViewEmpty
		v.Message = EmptyMessage
		if v.Stats.Filtered > 0 {
			v.Message = HiddenMessage
		}
	}
	return v
}
