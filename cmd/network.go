package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/render"
	"github.com/msalah0e/scentnet/internal/session"
	"github.com/msalah0e/scentnet/internal/ui"
)

func networkCmd() *cobra.Command {
	var (
		flags   filterFlags
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:     "network",
		Aliases: []string{"net"},
		Short:   "Show the filtered, windowed perfume network",
		Long: `Load the member's perfume network, apply the filters and print the
displayed perfumes and accords with their emphasis.

  scentnet network --accord Woody,Citrus --limit 20
  scentnet net --select p-42 --min-similarity 0.8
  scentnet net --collection --json`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			e := mustLoad(ctx, loadConfig(), &flags, cmd)
			defer e.Close()

			if jsonOut {
				if err := (&render.JSON{W: os.Stdout}).Render(e.View()); err != nil {
					ui.Bad.Printf("  %v\n", err)
					os.Exit(1)
				}
				return
			}

			ui.Banner(bannerTitle(e))
			t := &render.Terminal{W: os.Stdout, Options: render.Options{Labels: e.Labels()}}
			if err := t.Render(e.View()); err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the view as JSON")

	cmd.AddCommand(
		networkShowCmd(),
		networkExportCmd(),
		networkViewCmd(),
	)

	return cmd
}

func networkShowCmd() *cobra.Command {
	var (
		flags   filterFlags
		similar int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one perfume or accord with its accords and closest perfumes",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			e := mustLoad(ctx, loadConfig(), &flags, cmd)
			defer e.Close()

			d, err := e.Details(args[0], similar)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			if jsonOut {
				data, _ := json.MarshalIndent(d, "", "  ")
				fmt.Println(string(data))
				return
			}
			ui.Banner("perfume detail")
			render.WriteDetail(os.Stdout, d, e.Labels())
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&similar, "similar", "n", 10, "Closest perfumes listed (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the detail as JSON")
	return cmd
}

func networkExportCmd() *cobra.Command {
	var (
		flags  filterFlags
		format string
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current view as JSON, Graphviz DOT or HTML",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			e := mustLoad(ctx, loadConfig(), &flags, cmd)
			defer e.Close()

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					ui.Bad.Printf("  Failed to create %s: %v\n", output, err)
					os.Exit(1)
				}
				defer f.Close()
				w = f
			}

			if title == "" {
				title = bannerTitle(e)
			}
			r, err := render.New(format, w, render.Options{Labels: e.Labels(), Title: title})
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if err := r.Render(e.View()); err != nil {
				ui.Bad.Printf("  Export failed: %v\n", err)
				os.Exit(1)
			}
			if output != "" {
				ui.Good.Printf("  %s Exported %s view to %s\n", ui.StatusIcon(true), format, output)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", render.FormatJSON, "Export format: json, dot, or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "Title of the exported graph")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{render.FormatJSON, render.FormatDOT, render.FormatHTML, render.FormatTable},
		cobra.ShellCompDirectiveNoFileComp,
	))
	return cmd
}

func networkViewCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the network in the browser",
		Long: `Write a self-contained HTML page with a force-directed layout of the
current view and open it. The page is a snapshot; use ` + "`scentnet serve`" + ` for
a page that reacts to clicks.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			e := mustLoad(ctx, loadConfig(), &flags, cmd)
			defer e.Close()

			v := e.View()
			htmlPath := filepath.Join(os.TempDir(), "scentnet-network.html")
			f, err := os.Create(htmlPath)
			if err != nil {
				ui.Bad.Printf("  Failed to write HTML: %v\n", err)
				os.Exit(1)
			}
			page := &render.HTML{W: f, Options: render.Options{Labels: e.Labels(), Title: bannerTitle(e)}}
			err = page.Render(v)
			f.Close()
			if err != nil {
				ui.Bad.Printf("  Failed to write HTML: %v\n", err)
				os.Exit(1)
			}

			if err := openBrowser(htmlPath); err != nil {
				fmt.Printf("  HTML written to: %s\n", htmlPath)
				fmt.Println("  Open it in your browser to see the network")
				return
			}
			ui.Good.Printf("  %s Opened network (%d perfumes, %d accords)\n",
				ui.StatusIcon(true), v.Stats.Visible, v.Stats.Accords)
			ui.Subtle.Printf("  %s\n", htmlPath)
		},
	}

	flags.register(cmd)
	return cmd
}

func bannerTitle(e *session.Explorer) string {
	if m := e.Snapshot().MemberID; m != "" {
		return "perfume network · " + m
	}
	return "perfume network"
}

// openBrowser opens a file or URL with the platform's default handler.
func openBrowser(target string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", target)
	case "linux":
		c = exec.Command("xdg-open", target)
	default:
		c = exec.Command("cmd", "/c", "start", target)
	}
	return c.Start()
}
