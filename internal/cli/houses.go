package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/report"
)

func housesCmd(a *app) *cobra.Command {
	var (
		in  birthInput
		all bool
	)

	cmd := &cobra.Command{
		Use:     "houses",
		Short:   "Compute house cusps and angles for a moment and place",
		Example: "  ls-natal houses --date 1990-06-15 --time 14:30 --zone Asia/Bangkok --lat 13.75 --lon 100.5 --all",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := in.moment(a.cfg.Time.DefaultZone)
			if err != nil {
				return err
			}
			if err := b.Validate(); err != nil {
				return err
			}
			m, err := a.converter().ToJulianDay(b.Civil())
			if err != nil {
				return err
			}

			calc := houses.NewCalculator(houses.WithPolicy(a.cfg.HousePolicy()), houses.WithLogger(a.log))
			systems := []houses.System{a.cfg.HouseSystem()}
			if all {
				systems = houses.Systems()
			}

			results := make([]houses.Result, 0, len(systems))
			for _, sys := range systems {
				r, err := calc.Compute(m.JD, b.Latitude, b.Longitude, sys)
				if err != nil {
					return fmt.Errorf("%v: %w", sys, err)
				}
				results = append(results, r)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return report.WriteJSON(out, results)
			}
			st := styles(out)
			for i, r := range results {
				if i > 0 {
					fmt.Fprintln(out)
				}
				report.WriteHouses(out, r, st)
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "show every house system")
	return cmd
}
