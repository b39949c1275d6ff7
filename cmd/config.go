package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/msalah0e/scentnet/internal/config"
	"github.com/msalah0e/scentnet/internal/ui"
	"github.com/msalah0e/scentnet/internal/validation"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scentnet configuration",
	}

	cmd.AddCommand(
		configInitCmd(),
		configShowCmd(),
	)

	return cmd
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Run: func(cmd *cobra.Command, args []string) {
			created, err := config.EnsureExists()
			if err != nil {
				ui.Bad.Printf("  Failed to write config: %v\n", err)
				os.Exit(1)
			}
			if !created {
				fmt.Printf("  %s Config already exists: %s\n", ui.StatusIcon(true), config.Path())
				return
			}
			ui.Good.Printf("  %s Created %s\n", ui.StatusIcon(true), config.Path())
			fmt.Println(ui.Subtle.Sprint("  Set [provider] base_url and member_id to point at your network"))
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()

			ui.Banner("config")
			fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-8s", "user"), fileState(config.Path()))
			if p := config.ProjectPath(); p != "" {
				fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-8s", "project"), p)
			}
			fmt.Println()

			if err := toml.NewEncoder(os.Stdout).Encode(c); err != nil {
				ui.Bad.Printf("  Failed to encode config: %v\n", err)
				os.Exit(1)
			}

			if err := c.Validate(); err != nil {
				fmt.Println()
				printValidation(err)
			}
		},
	}
}

func fileState(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path + ui.Subtle.Sprint(" (not found, using defaults)")
	}
	return path
}

func printValidation(err error) {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		ui.Warn.Printf("  %s %v\n", ui.WarnIcon(), err)
		return
	}
	for _, f := range verr.Fields {
		ui.Warn.Printf("  %s %s\n", ui.WarnIcon(), f.Message)
	}
}
