package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/report"
)

func chartCmd(a *app) *cobra.Command {
	var (
		in      birthInput
		system  string
		stars   bool
		starOrb float64
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a natal chart",
		Example: `  ls-natal chart --date 1990-06-15 --time 14:30 --zone Asia/Bangkok --lat 13.75 --lon 100.5
  ls-natal chart --file alice.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := in.moment(a.cfg.Time.DefaultZone)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			sys := eng.HouseSystem()
			if system != "" {
				if sys, err = houses.ParseSystem(system); err != nil {
					return err
				}
			}

			res, err := eng.CalculateWithSystem(cmd.Context(), b, sys)
			if err != nil {
				return err
			}

			var contacts []chart.StarContact
			if stars {
				contacts = chart.FixedStarContacts(res, astro.BrightStars(chart.DefaultStarMagnitude), starOrb)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				ex := report.ExportChart(res)
				if stars {
					ex.FixedStars = report.ExportStars(contacts)
				}
				return ex.WriteJSON(out)
			}
			st := styles(out)
			report.WriteChart(out, res, st)
			if stars {
				fmt.Fprintln(out)
				report.WriteStars(out, contacts, st)
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&system, "system", "", "house system for this chart (overrides --houses)")
	cmd.Flags().BoolVar(&stars, "stars", false, "list conjunctions with bright fixed stars")
	cmd.Flags().Float64Var(&starOrb, "star-orb", chart.DefaultStarOrb, "orb for fixed-star conjunctions, in degrees")
	return cmd
}
