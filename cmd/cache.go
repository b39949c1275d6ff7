package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/cache"
	"github.com/msalah0e/scentnet/internal/ui"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline network cache",
		Long: `Every successful load from the provider is cached per member so the
network can be explored with --offline.`,
	}

	cmd.AddCommand(
		cacheListCmd(),
		cacheClearCmd(),
	)

	return cmd
}

func cacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cached networks",
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := cache.List()
			if err != nil {
				ui.Bad.Printf("  Failed to read cache: %v\n", err)
				os.Exit(1)
			}

			ui.Banner("cache")
			if len(entries) == 0 {
				fmt.Println("  Cache is empty. Run `scentnet network` to fill it.")
				return
			}

			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{
					memberName(e.MemberID),
					formatSize(e.Size),
					e.ModTime.Local().Format("2006-01-02 15:04"),
				})
			}
			ui.Table([]string{"MEMBER", "SIZE", "FETCHED"}, rows)
			fmt.Printf("\n  %s\n", ui.Subtle.Sprint(cache.Dir()))
		},
	}
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached network",
		Run: func(cmd *cobra.Command, args []string) {
			n, err := cache.Clear()
			if err != nil {
				ui.Bad.Printf("  Failed to clear cache: %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Removed %d cached network(s)\n", ui.StatusIcon(true), n)
		},
	}
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
