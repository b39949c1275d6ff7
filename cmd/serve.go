package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/logging"
	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/render"
	"github.com/msalah0e/scentnet/internal/server"
	"github.com/msalah0e/scentnet/internal/session"
	"github.com/msalah0e/scentnet/internal/ui"
)

func serveCmd() *cobra.Command {
	var (
		flags filterFlags
		addr  string
		open  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Explore the network interactively in the browser",
		Long: `Serve a live page of the network. Clicking a perfume selects it and
highlights its closest neighbors; hovering highlights a node.

  scentnet serve                      # listen on the configured address
  scentnet serve --addr :8000 --open  # listen on :8000 and open the page
  scentnet serve --offline            # serve the last cached network

The JSON API lives under /api and metrics under /metrics.`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			if err := flags.validate(cmd, c); err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if addr == "" {
				addr = c.Serve.Addr
			}

			ctx, cancel := signalContext()
			defer cancel()

			src := newSource(c)
			e := session.New(src, flags.state(cmd, c))
			defer e.Close()

			log := logging.With("serve")
			e.Subscribe(render.Func(func(v *network.View) error {
				log.Debug().
					Str("status", string(v.Status)).
					Int("visible", v.Stats.Visible).
					Int("drawn", v.Stats.Drawn).
					Str("selected", v.SelectedID).
					Msg("view updated")
				return nil
			}))

			// A failed first load still serves the page; /api/reload retries.
			if err := e.Load(ctx, flags.memberID(c)); err != nil {
				ui.Warn.Printf("  %s Network load from %s failed: %v\n", ui.WarnIcon(), src.Name(), err)
			} else if err := flags.apply(e); err != nil {
				ui.Warn.Printf("  %s %v\n", ui.WarnIcon(), err)
			}

			srv := server.New(e, server.Options{Addr: addr, Title: "scentnet"})
			url := "http://" + displayAddr(addr)

			ui.Banner("serving")
			fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-10s", "page"), url)
			fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-10s", "source"), src.Name())
			fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-10s", "metrics"), url+"/metrics")
			fmt.Println(ui.Subtle.Sprint("  Press Ctrl+C to stop"))

			if open {
				if err := openBrowser(url); err != nil {
					log.Debug().Err(err).Msg("could not open browser")
				}
			}

			if err := srv.ListenAndServe(ctx); err != nil {
				ui.Bad.Printf("  Server failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println()
			ui.Good.Printf("  %s Stopped\n", ui.StatusIcon(true))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the page in the browser")
	return cmd
}

// displayAddr turns a listen address into one a browser can reach.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
