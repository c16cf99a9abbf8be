package main

import (
	"fmt"
	"os"

	"underwriting/pkg/core/projection"
	"underwriting/pkg/core/report"

	"github.com/spf13/cobra"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render an underwriting memo as Markdown or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			html, _ := cmd.Flags().GetBool("html")
			refinance, _ := cmd.Flags().GetBool("refinance")
			rows, _ := cmd.Flags().GetInt("amortization")
			axis, _ := cmd.Flags().GetString("sensitivity")
			outPath, _ := cmd.Flags().GetString("out")

			s, err := sourceScenario(cmd, a)
			if err != nil {
				return err
			}

			opts := report.Options{AmortizationRows: rows}
			if axis != "" {
				points, err := a.runner.Sensitivity(s, projection.Axis(axis), []float64{-2, -1, 0, 1, 2})
				if err != nil {
					return err
				}
				opts.Sensitivity = points
			}

			doc := report.Markdown(s, a.analyze(s, refinance), opts)
			if html {
				if doc, err = report.RenderHTML(doc); err != nil {
					return err
				}
			}

			if outPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), doc)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			a.log.WithField("path", outPath).Info("report written")
			return nil
		},
	}
	sourceFlags(cmd)
	cmd.Flags().Bool("html", false, "Render HTML instead of Markdown")
	cmd.Flags().Bool("refinance", false, "Apply the scenario's cash-out refinance")
	cmd.Flags().Int("amortization", 12, "Amortization rows to include (0 omits the table)")
	cmd.Flags().String("sensitivity", "", "Include a ±2 point sensitivity table for this axis")
	cmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
	return cmd
}
