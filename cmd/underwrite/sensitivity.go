package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"underwriting/pkg/core/projection"
	"underwriting/pkg/core/report"

	"github.com/spf13/cobra"
)

func sensitivityCmd(a *app) *cobra.Command {
	axisNames := make([]string, 0, len(projection.Axes()))
	for _, ax := range projection.Axes() {
		axisNames = append(axisNames, string(ax))
	}

	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Re-run the projection with one assumption shifted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, _ := cmd.Flags().GetString("axis")
			deltas, _ := cmd.Flags().GetFloat64Slice("deltas")
			asJSON, _ := cmd.Flags().GetBool("json")

			s, err := sourceScenario(cmd, a)
			if err != nil {
				return err
			}
			points, err := a.runner.Sensitivity(s, projection.Axis(axis), deltas)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(points)
			}
			fmt.Fprintf(out, "%-8s  %10s  %10s  %16s  %12s  %10s\n", "Delta", axis, "IRR", "NPV", "Cash-on-cash", "DSCR")
			for _, p := range points {
				fmt.Fprintf(out, "%+-8.2f  %10s  %10s  %16s  %12s  %10s\n",
					p.Delta, report.Percent(p.Value), report.Percent(p.Metrics.IRR),
					report.Money(p.Metrics.NPV), report.Percent(p.Metrics.CashOnCash), report.Ratio(p.Metrics.DSCR))
			}
			return nil
		},
	}
	sourceFlags(cmd)
	cmd.Flags().String("axis", string(projection.AxisRentGrowth), "Assumption to shift: "+strings.Join(axisNames, ", "))
	cmd.Flags().Float64Slice("deltas", []float64{-1, 0, 1}, "Shifts in percentage points")
	cmd.Flags().Bool("json", false, "Print points as JSON")
	return cmd
}
