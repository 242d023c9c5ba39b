package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/timeconv"
)

func ephemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ephem",
		Short: "Ephemeris utilities",
	}
	cmd.AddCommand(ephemDumpCmd(a))
	return cmd
}

func ephemDumpCmd(a *app) *cobra.Command {
	var (
		bodies     []string
		start, end string
		step       float64
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write ephemeris tables readable by --ephem table",
		Long: "dump samples the configured ephemeris source and writes one CSV per body " +
			"(jd,longitude,latitude,distance,speed). With no --out the first body is written to stdout.",
		Example: `  ls-natal ephem dump --ephem horizons --start 1950-01-01 --end 2030-12-31 --step 1 --out ./tables`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.provider()
			if err != nil {
				return err
			}
			from, err := julianDay(start)
			if err != nil {
				return fmt.Errorf("--start %w", err)
			}
			to, err := julianDay(end)
			if err != nil {
				return fmt.Errorf("--end %w", err)
			}

			list := ephem.ChartBodies()
			if len(bodies) > 0 {
				list = list[:0:0]
				for _, name := range bodies {
					b, err := ephem.ParseBody(name)
					if err != nil {
						return err
					}
					list = append(list, b)
				}
			}

			if outDir == "" {
				return ephem.WriteTable(cmd.Context(), cmd.OutOrStdout(), p, list[0], from, to, step)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, b := range list {
				if b == ephem.SouthNode {
					continue // derived from the North Node
				}
				path := filepath.Join(outDir, b.Slug()+".csv")
				if err := writeTableFile(cmd, path, p, b, from, to, step); err != nil {
					return err
				}
				a.log.Info("wrote %s", path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&bodies, "body", nil, "bodies to dump (default all chart bodies)")
	f.StringVar(&start, "start", "", "first date, YYYY-MM-DD (UT midnight)")
	f.StringVar(&end, "end", "", "last date, YYYY-MM-DD")
	f.Float64Var(&step, "step", 1, "sampling step in days")
	f.StringVar(&outDir, "out", "", "output directory")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func writeTableFile(cmd *cobra.Command, path string, p ephem.Provider, b ephem.Body, from, to, step float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ephem.WriteTable(cmd.Context(), f, p, b, from, to, step); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func julianDay(date string) (float64, error) {
	c, err := parseMoment(date+" 00:00", "UTC")
	if err != nil {
		return 0, err
	}
	m, err := timeconv.New().ToJulianDay(c)
	if err != nil {
		return 0, err
	}
	return m.JD, nil
}
