package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/ui"
)

// Terminal prints the view as a table of perfumes followed by the accord
// nodes and a stats line.
type Terminal struct {
	W io.Writer
	Options
}

var marks = map[network.Emphasis]string{
	network.EmphasisNormal:   "·",
	network.EmphasisSelected: "●",
	network.EmphasisNeighbor: "◆",
	network.EmphasisHovered:  "◇",
	network.EmphasisDimmed:   " ",
}

// Render implements Renderer.
func (t *Terminal) Render(v *network.View) error {
	if v.Status != network.ViewReady {
		ui.Warn.Fprintf(t.W, "  %s %s\n", ui.WarnIcon(), statusLine(v))
		return nil
	}

	var rows [][]string
	var accords []string
	for _, n := range v.Nodes {
		if n.Kind == network.KindAccord {
			name := nameOf(t.Labels, network.FacetAccord, n.Key)
			if n.Emphasis == network.EmphasisNeighbor {
				name = ui.Info.Sprint(name)
			} else if n.Emphasis == network.EmphasisDimmed {
				name = ui.Subtle.Sprint(name)
			}
			accords = append(accords, name)
			continue
		}
		status := ""
		if n.Status != network.StatusNone {
			status = strings.ToLower(n.Status.String())
		}
		rows = append(rows, []string{
			marks[n.Emphasis],
			n.ID,
			n.Label,
			n.Brand,
			nameOf(t.Labels, network.FacetAccord, n.PrimaryAccord),
			status,
		})
	}

	ui.TableTo(t.W, []string{"", "ID", "PERFUME", "BRAND", "ACCORD", "COLLECTION"}, rows)
	if len(accords) > 0 {
		fmt.Fprintf(t.W, "\n  %s %s\n", ui.Subtle.Sprint("accords:"), strings.Join(accords, ", "))
	}
	fmt.Fprintf(t.W, "\n  %s\n", ui.Subtle.Sprint(statsLine(v)))
	return nil
}

func statusLine(v *network.View) string {
	if v.Message != "" {
		return v.Message
	}
	return string(v.Status)
}

func statsLine(v *network.View) string {
	s := fmt.Sprintf("%d of %d filtered perfumes shown, %d accords, %d accord edges drawn",
		v.Stats.Visible, v.Stats.Filtered, v.Stats.Accords, v.Stats.Drawn)
	if v.SelectedID != "" {
		s += ", selected " + v.SelectedID
	}
	if v.HoveredID != "" {
		s += ", hovering " + v.HoveredID
	}
	return s
}
