package main

import (
	"fmt"

	"underwriting/pkg/core/calc"
	"underwriting/pkg/core/report"

	"github.com/spf13/cobra"
)

func amortizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print the loan's amortization schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			s, err := sourceScenario(cmd, a)
			if err != nil {
				return err
			}
			schedule := calc.AmortizationSchedule(
				s.LoanAmount, s.InterestRate, s.TermYears, s.LoanType, s.BalloonYear, s.MonthlyExtraPrincipal,
			)

			out := cmd.OutOrStdout()
			if len(schedule) == 0 {
				fmt.Fprintln(out, "No loan to amortize.")
				return nil
			}

			rows := schedule
			if limit > 0 && limit < len(rows) {
				rows = rows[:limit]
			}
			fmt.Fprintf(out, "%-6s  %12s  %12s  %12s  %14s\n", "Month", "Payment", "Principal", "Interest", "Balance")
			for _, p := range rows {
				fmt.Fprintf(out, "%-6d  %12s  %12s  %12s  %14s\n",
					p.Period, report.Money(p.Payment), report.Money(p.Principal),
					report.Money(p.Interest), report.Money(p.Balance))
			}

			fmt.Fprintf(out, "\nPayments: %d  Total interest: %s", len(schedule), report.Money(calc.TotalInterest(schedule)))
			if s.LoanType == calc.LoanBalloon {
				fmt.Fprintf(out, "  Balloon: %s", report.Money(calc.BalloonPayment(schedule)))
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	sourceFlags(cmd)
	cmd.Flags().Int("limit", 12, "Rows to print (0 prints all)")
	return cmd
}
