package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/cache"
	"github.com/msalah0e/scentnet/internal/config"
	"github.com/msalah0e/scentnet/internal/parallel"
	"github.com/msalah0e/scentnet/internal/provider"
	"github.com/msalah0e/scentnet/internal/ui"
)

func doctorCmd() *cobra.Command {
	var member string

	cmd := &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"dr"},
		Short:   "Health check — verify config, provider endpoints and cache",
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			if member == "" {
				member = c.Provider.MemberID
			}

			ui.Banner("health check")
			problems := 0

			if err := c.Validate(); err != nil {
				fmt.Printf("  %s config %s\n", ui.WarnIcon(), config.Path())
				printValidation(err)
				problems++
			} else {
				fmt.Printf("  %s config %s\n", ui.StatusIcon(true), ui.Subtle.Sprint(fileState(config.Path())))
			}

			fmt.Println()
			if offlineMode || payloadFile != "" {
				fmt.Printf("  %s provider: skipped (%s)\n", ui.Subtle.Sprint("-"), newSource(c).Name())
			} else {
				problems += checkProvider(cmd.Context(), c, member)
			}

			fmt.Println()
			problems += checkCache(member)

			fmt.Println()
			if problems == 0 {
				ui.Good.Printf("  %s All checks passed\n", ui.StatusIcon(true))
			} else {
				ui.Warn.Printf("  %d problem(s) found\n", problems)
			}
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "Member used for the network check (default from config)")
	return cmd
}

func checkProvider(ctx context.Context, c *config.Config, member string) int {
	if ctx == nil {
		ctx = context.Background()
	}
	client := provider.New(provider.OptionsFromConfig(c.Provider))
	ctx, cancel := context.WithTimeout(ctx, c.Provider.TimeoutDuration()+time.Second)
	defer cancel()

	fmt.Printf("  provider %s\n", ui.Subtle.Sprint(c.Provider.BaseURL))
	results := client.Check(ctx, member)
	problems := 0
	for _, r := range results {
		switch {
		case r.OK:
			fmt.Printf("  %s %-8s %s\n", ui.StatusIcon(true), r.Name, ui.Subtle.Sprint(r.Elapsed.Round(time.Millisecond)))
		case errors.Is(r.Err, provider.ErrNotConfigured):
			fmt.Printf("  %s %-8s not configured\n", ui.Subtle.Sprint("-"), r.Name)
		case r.Name == provider.EndpointGraph:
			fmt.Printf("  %s %-8s %v\n", ui.StatusIcon(false), r.Name, r.Err)
			problems++
		default:
			// Facets and labels have fallbacks.
			fmt.Printf("  %s %-8s %v %s\n", ui.WarnIcon(), r.Name, r.Err, ui.Subtle.Sprint("(fallback in use)"))
		}
	}
	if len(parallel.Failed(results)) == len(results) {
		fmt.Println(ui.Subtle.Sprint("  Tip: check [provider] base_url, or use --offline"))
	}
	return problems
}

func checkCache(member string) int {
	entries, err := cache.List()
	if err != nil {
		fmt.Printf("  %s cache %v\n", ui.StatusIcon(false), err)
		return 1
	}
	fmt.Printf("  %s cache %d network(s) %s\n", ui.StatusIcon(true), len(entries), ui.Subtle.Sprint(cache.Dir()))

	b, err := cache.Load(member)
	switch {
	case errors.Is(err, cache.ErrNotCached):
		fmt.Printf("  %s no cached network for %s, --offline will fail\n", ui.Subtle.Sprint("-"), memberName(member))
	case err != nil:
		fmt.Printf("  %s cached network for %s unreadable: %v\n", ui.StatusIcon(false), memberName(member), err)
		return 1
	default:
		fmt.Printf("  %s cached network for %s from %s\n", ui.StatusIcon(true), memberName(member),
			b.FetchedAt.Local().Format("2006-01-02 15:04"))
	}
	return 0
}

func memberName(member string) string {
	if member == "" {
		return cache.Anonymous
	}
	return member
}
