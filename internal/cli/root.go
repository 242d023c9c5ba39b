// Package cli implements the ls-natal command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-natal/internal/config"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ls-natal",
		Short:         "Natal charts, transits, synastry and fortunes",
		Long:          "ls-natal computes natal charts (planets, houses, aspects), current transits and synastry, and narrates them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default .ls-natal.yaml)")
	flags.StringVar(&a.format, "format", "text", "output format (text, json)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("ephem", "kepler", "ephemeris source (kepler, horizons, table, auto)")
	flags.String("table-dir", "", "directory of ephemeris tables for --ephem table")
	flags.String("houses", "placidus", "house system")
	flags.String("orbs", "", "TOML file overriding the aspect orb tables")
	flags.Bool("strict-zones", false, "reject unknown time zones instead of using UTC")

	bind := map[string]string{
		"log_level":           "log-level",
		"ephemeris.mode":      "ephem",
		"ephemeris.table_dir": "table-dir",
		"houses.system":       "houses",
		"aspects.orbs_file":   "orbs",
		"time.strict_zones":   "strict-zones",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(chartCmd(a))
	root.AddCommand(transitsCmd(a))
	root.AddCommand(synastryCmd(a))
	root.AddCommand(fortuneCmd(a))
	root.AddCommand(housesCmd(a))
	root.AddCommand(ephemCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(versionCmd())

	return root
}

func (a *app) init() error {
	if a.format != "text" && a.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", a.format)
	}
	if err := config.Init(a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Logger()
	return nil
}
