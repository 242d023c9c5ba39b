package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/report"
)

func synastryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "synastry <person-a.yaml> <person-b.yaml>",
		Short:   "Compare two natal charts",
		Example: "  ls-natal synastry alice.yaml bob.yaml",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pa, err := readBirthFile(args[0])
			if err != nil {
				return err
			}
			pb, err := readBirthFile(args[1])
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}

			ra, rb, aspects, err := eng.SynastryCharts(cmd.Context(), pa, pb)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return report.WriteJSON(out, struct {
					A       *report.ChartExport   `json:"a"`
					B       *report.ChartExport   `json:"b"`
					Aspects []report.AspectExport `json:"aspects"`
				}{report.ExportChart(ra), report.ExportChart(rb), report.ExportAspects(aspects)})
			}
			title := fmt.Sprintf("Synastry: %s / %s", natalName(ra), natalName(rb))
			report.WriteAspects(out, title, aspects, styles(out))
			return nil
		},
	}
}
