package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/fortune"
	"github.com/litescript/ls-natal/internal/metrics"
	"github.com/litescript/ls-natal/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API over HTTP",
		Long: "serve exposes charts, transits, synastry and fortunes as JSON over HTTP, " +
			"with Prometheus metrics on /metrics. When aspects.orbs_file is set the file " +
			"is watched and reloaded on change.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.provider()
			if err != nil {
				return err
			}
			orbs, err := a.orbs()
			if err != nil {
				return err
			}
			tables, err := fortune.DefaultTables()
			if err != nil {
				return err
			}

			rec := metrics.New(nil)
			build := func(set aspect.OrbSet) *chart.Engine {
				return a.engineWith(p, set, chart.WithRecorder(rec))
			}
			h := server.NewHandler(build(orbs), tables, a.log)

			if path := a.cfg.Aspects.OrbsFile; path != "" {
				w, err := server.NewOrbWatcher(path, func(set aspect.OrbSet) {
					h.SetEngine(build(set))
				}, a.log)
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				defer w.Stop()
			}

			sc := a.cfg.Server
			srv := server.NewServer(h,
				server.WithHost(sc.Host),
				server.WithPort(sc.Port),
				server.WithTimeouts(sc.ReadTimeout, sc.WriteTimeout, sc.ShutdownTimeout),
				server.WithLogger(a.log),
				server.WithMetrics(rec),
			)
			a.log.Info("serving %s ephemeris, %v houses", p.Name(), a.cfg.HouseSystem())
			return srv.Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String("host", "127.0.0.1", "listen host")
	f.Int("port", 8080, "listen port")
	_ = viper.BindPFlag("server.host", f.Lookup("host"))
	_ = viper.BindPFlag("server.port", f.Lookup("port"))
	return cmd
}
