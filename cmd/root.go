package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/config"
	"github.com/msalah0e/scentnet/internal/logging"
	"github.com/msalah0e/scentnet/internal/provider"
	"github.com/msalah0e/scentnet/internal/session"
	"github.com/msalah0e/scentnet/internal/ui"
)

var version = "0.3.0"

var (
	cfg         *config.Config
	offlineMode bool
	payloadFile string
	logLevel    string
)

func loadConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "scentnet",
	Short: "scentnet — explore the perfume similarity network",
	Long: ui.Brand.Sprint(ui.Flower+" scentnet") + " — explore the perfume similarity network\n" +
		ui.Subtle.Sprint("Filter, window and highlight perfumes and accords from the terminal or the browser"),
	Version: version + " " + ui.Flower,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		level := c.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		logging.Init(logging.Config{Level: level, Format: c.Log.Format})
		ui.SetColor(c.UI.Color)
		if err := c.Validate(); err != nil {
			logging.Warn().Err(err).Str("path", config.Path()).Msg("invalid configuration")
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("scentnet {{ .Version }}\n")
	rootCmd.PersistentFlags().BoolVar(&offlineMode, "offline", false, "Read the network from the local cache instead of the provider")
	rootCmd.PersistentFlags().StringVar(&payloadFile, "file", "", "Read the network from a payload JSON file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		networkCmd(),
		facetsCmd(),
		serveCmd(),
		cacheCmd(),
		configCmd(),
		doctorCmd(),
		completionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newSource picks where the network comes from: a file, the offline cache
// or the provider, whose successful loads refresh the cache.
func newSource(c *config.Config) provider.Source {
	switch {
	case payloadFile != "":
		return provider.File{Path: payloadFile}
	case offlineMode:
		return provider.Offline{}
	default:
		return provider.Caching{Source: provider.New(provider.OptionsFromConfig(c.Provider))}
	}
}

// signalContext is cancelled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// mustLoad creates an explorer and loads the member's network, exiting on
// failure.
func mustLoad(ctx context.Context, c *config.Config, f *filterFlags, cmd *cobra.Command) *session.Explorer {
	if err := f.validate(cmd, c); err != nil {
		ui.Bad.Printf("  %v\n", err)
		os.Exit(1)
	}
	src := newSource(c)
	e := session.New(src, f.state(cmd, c))
	if err := e.Load(ctx, f.memberID(c)); err != nil {
		e.Close()
		ui.Bad.Printf("  Failed to load network from %s: %v\n", src.Name(), err)
		if !offlineMode && payloadFile == "" {
			fmt.Println(ui.Subtle.Sprint("  Tip: use --offline to read the last cached network"))
		}
		os.Exit(1)
	}
	if err := f.apply(e); err != nil {
		e.Close()
		ui.Bad.Printf("  %v\n", err)
		os.Exit(1)
	}
	return e
}
