package cli

import (
	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/fortune"
	"github.com/litescript/ls-natal/internal/report"
)

func fortuneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fortune",
		Short: "Narrate a chart: daily, monthly, yearly, or a birth reading",
	}

	cmd.AddCommand(fortuneSubCmd(a, "daily", "Today's transits to the natal chart", false, false,
		func(f fortuneRun) (any, error) {
			return f.reader.Daily(f.cmd.Context(), f.natal, f.lang)
		}))
	cmd.AddCommand(fortuneSubCmd(a, "monthly", "The month's planetary themes", true, true,
		func(f fortuneRun) (any, error) {
			return f.reader.Monthly(f.cmd.Context(), f.natal, f.year, f.month, f.lang)
		}))
	cmd.AddCommand(fortuneSubCmd(a, "yearly", "Jupiter and Saturn through the year", true, false,
		func(f fortuneRun) (any, error) {
			return f.reader.Yearly(f.cmd.Context(), f.natal, f.year, f.lang)
		}))
	cmd.AddCommand(fortuneSubCmd(a, "reading", "Interpretation of the birth chart", false, false,
		func(f fortuneRun) (any, error) {
			return f.reader.BirthReading(f.natal, f.lang), nil
		}))
	return cmd
}

type fortuneRun struct {
	cmd         *cobra.Command
	reader      *fortune.Reader
	natal       *chart.ChartResult
	lang        string
	year, month int
}

func fortuneSubCmd(a *app, use, short string, withYear, withMonth bool, run func(fortuneRun) (any, error)) *cobra.Command {
	var (
		in          birthInput
		lang        string
		year, month int
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := in.moment(a.cfg.Time.DefaultZone)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			natal, err := eng.CalculateAll(cmd.Context(), b)
			if err != nil {
				return err
			}
			tables, err := fortune.DefaultTables()
			if err != nil {
				return err
			}

			if year == 0 || month == 0 {
				now, err := eng.Converter().CivilNow(natal.Subject.AppliedZone)
				if err != nil {
					return err
				}
				if year == 0 {
					year = now.Year
				}
				if month == 0 {
					month = now.Month
				}
			}

			v, err := run(fortuneRun{
				cmd:    cmd,
				reader: fortune.NewReader(eng, tables),
				natal:  natal,
				lang:   lang,
				year:   year,
				month:  month,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return report.WriteJSON(out, v)
			}
			return report.WriteFortune(out, v, styles(out))
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&lang, "lang", fortune.DefaultLang, "language of the narration (en, th)")
	if withYear {
		cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	}
	if withMonth {
		cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current)")
	}
	return cmd
}
