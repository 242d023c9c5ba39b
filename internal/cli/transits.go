package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/report"
)

const minWatch = 10 * time.Second

func transitsCmd(a *app) *cobra.Command {
	var (
		natal birthInput
		zone  string
		at    string
		watch time.Duration
	)

	cmd := &cobra.Command{
		Use:   "transits",
		Short: "Show where the planets are now, and their aspects to a natal chart",
		Example: `  ls-natal transits --transit-zone Europe/London
  ls-natal transits --at "2024-06-15 12:00" --transit-zone Asia/Bangkok --file alice.yaml
  ls-natal transits --file alice.yaml --watch 1m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone = transitZone(zone, natal, a.cfg.Time.DefaultZone)
			eng, err := a.engine()
			if err != nil {
				return err
			}

			var base *chart.ChartResult
			if natal.given() {
				b, err := natal.moment(a.cfg.Time.DefaultZone)
				if err != nil {
					return err
				}
				if base, err = eng.CalculateAll(cmd.Context(), b); err != nil {
					return err
				}
			}

			once := func(ctx context.Context) error {
				var snap *chart.TransitSnapshot
				if at != "" {
					c, err := parseMoment(at, zone)
					if err != nil {
						return fmt.Errorf("--at %w", err)
					}
					snap, err = eng.TransitsAt(ctx, c)
					if err != nil {
						return err
					}
				} else {
					snap, err = eng.CurrentTransits(ctx, zone)
					if err != nil {
						return err
					}
				}
				return a.writeTransits(cmd.OutOrStdout(), eng, base, snap)
			}

			if watch <= 0 || at != "" {
				return once(cmd.Context())
			}
			if watch < minWatch {
				watch = minWatch
			}
			return repeat(cmd.Context(), watch, once, a)
		},
	}

	natal.register(cmd)
	cmd.Flags().StringVar(&zone, "transit-zone", "", "zone for --at and the displayed time (default --zone without natal data, else time.default_zone)")
	cmd.Flags().StringVar(&at, "at", "", `moment to compute instead of now, "YYYY-MM-DD HH:MM"`)
	cmd.Flags().DurationVar(&watch, "watch", 0, "repeat at this interval until interrupted (e.g. 1m)")
	return cmd
}

// transitZone picks the zone transits are shown in. Without natal data
// --zone has nothing else to describe, so it is used for the transits.
func transitZone(flag string, natal birthInput, defaultZone string) string {
	switch {
	case flag != "":
		return flag
	case !natal.given() && natal.zone != "":
		return natal.zone
	default:
		return defaultZone
	}
}

func (a *app) writeTransits(w io.Writer, eng *chart.Engine, natal *chart.ChartResult, snap *chart.TransitSnapshot) error {
	if a.jsonOutput() {
		payload := struct {
			JD         float64                  `json:"jd"`
			UTC        time.Time                `json:"utc"`
			Zone       string                   `json:"zone"`
			Placements []report.PlacementExport `json:"placements"`
			Aspects    []report.AspectExport    `json:"aspects,omitempty"`
			Warnings   []chart.Warning          `json:"warnings,omitempty"`
		}{
			JD:         snap.JD,
			UTC:        snap.UTC,
			Zone:       snap.Zone,
			Placements: report.ExportTransits(snap),
			Warnings:   snap.Warnings,
		}
		if natal != nil {
			payload.Aspects = report.ExportAspects(eng.TransitAspects(natal, snap))
		}
		return report.WriteJSON(w, payload)
	}

	st := styles(w)
	report.WriteTransits(w, snap, st)
	if natal != nil {
		fmt.Fprintln(w)
		report.WriteAspects(w, "Transits to "+natalName(natal), eng.TransitAspects(natal, snap), st)
	}
	return nil
}

func natalName(res *chart.ChartResult) string {
	if res.Subject.Name != "" {
		return res.Subject.Name
	}
	return "natal chart"
}

// repeat runs fn every interval until ctx is done. Errors are logged and
// the loop continues.
func repeat(ctx context.Context, interval time.Duration, fn func(context.Context) error, a *app) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := fn(ctx); err != nil {
			a.log.Error("transits: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
