package main

import (
	"encoding/json"
	"fmt"
	"io"

	"underwriting/pkg/core/projection"
	"underwriting/pkg/core/report"
	"underwriting/pkg/models"

	"github.com/spf13/cobra"
)

func analyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Project a scenario and print its headline metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refinance, _ := cmd.Flags().GetBool("refinance")
			asJSON, _ := cmd.Flags().GetBool("json")

			s, err := sourceScenario(cmd, a)
			if err != nil {
				return err
			}
			result := a.analyze(s, refinance)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printAnalysis(out, s, result)
			return nil
		},
	}
	sourceFlags(cmd)
	cmd.Flags().Bool("refinance", false, "Apply the scenario's cash-out refinance")
	cmd.Flags().Bool("json", false, "Print the full analysis as JSON")
	return cmd
}

func printAnalysis(out io.Writer, s models.Scenario, a projection.Analysis) {
	m := a.Metrics
	fmt.Fprintf(out, "%s (v%d)\n\n", s.Name, s.Version)

	lines := []struct{ label, value string }{
		{"NOI", report.Money(m.NOI)},
		{"Cash flow", report.Money(m.CashFlow)},
		{"Cap rate", report.Percent(m.CapRate)},
		{"Cash-on-cash", report.Percent(m.CashOnCash)},
		{"DSCR (" + string(m.DSCRBasis) + ")", report.Ratio(m.DSCR)},
		{"IRR", report.Percent(m.IRR)},
		{"NPV", report.Money(m.NPV)},
		{"Payback", report.Years(m.PaybackPeriod)},
		{"Monthly payment", report.Money(m.MonthlyPayment)},
		{"Total investment", report.Money(m.TotalInvestment)},
	}
	for _, l := range lines {
		fmt.Fprintf(out, "%-18s %16s\n", l.label, l.value)
	}

	fmt.Fprintf(out, "\n%-4s  %14s  %14s  %14s  %14s\n", "Year", "Revenue", "NOI", "Debt Service", "Cash Flow")
	for _, y := range a.Years {
		fmt.Fprintf(out, "%-4d  %14s  %14s  %14s  %14s\n",
			y.Year, report.Money(y.Revenue), report.Money(y.NetOperatingIncome),
			report.Money(y.DebtService), report.Money(y.CashFlow))
	}
}
