package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/ui"
)

func facetsCmd() *cobra.Command {
	var (
		flags   filterFlags
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:       "facets [facet]",
		Short:     "List the filter options with their display labels",
		Long:      "List accords, brands, seasons, occasions and genders. With --collection\nonly the values found in the member's collection are listed.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"accords", "brands", "seasons", "occasions", "genders"},
		Run: func(cmd *cobra.Command, args []string) {
			facets := network.AllFacets
			if len(args) == 1 {
				f, err := network.ParseFacet(args[0])
				if err != nil {
					ui.Bad.Printf("  %v\n", err)
					os.Exit(1)
				}
				facets = []network.Facet{f}
			}

			ctx, cancel := signalContext()
			defer cancel()

			e := mustLoad(ctx, loadConfig(), &flags, cmd)
			defer e.Close()

			opts := e.Facets()
			l := e.Labels()

			if jsonOut {
				out := make(map[string][]map[string]string)
				for _, f := range facets {
					for _, v := range opts.Get(f) {
						entry := map[string]string{"id": v, "name": l.Name(f, v)}
						if f == network.FacetAccord {
							entry["color"] = l.Color(v)
						}
						out[f.String()] = append(out[f.String()], entry)
					}
				}
				data, _ := json.MarshalIndent(out, "", "  ")
				fmt.Println(string(data))
				return
			}

			title := "filter options"
			if e.State().CollectionOnly {
				title += " · my collection"
			}
			ui.Banner(title)

			selected := e.State()
			var rows [][]string
			for _, f := range facets {
				active := make(map[string]bool)
				for _, v := range selected.Values(f) {
					active[v] = true
				}
				for _, v := range opts.Get(f) {
					mark := " "
					if active[v] {
						mark = "✓"
					}
					extra := ""
					if f == network.FacetAccord {
						extra = l.Color(v)
					}
					rows = append(rows, []string{mark, f.String(), v, l.Name(f, v), extra})
				}
			}
			if len(rows) == 0 {
				fmt.Println("  No filter options.")
				return
			}
			ui.Table([]string{"", "FACET", "VALUE", "LABEL", "COLOR"}, rows)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the options as JSON")
	return cmd
}
