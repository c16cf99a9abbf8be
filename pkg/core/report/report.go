// Package report renders an underwriting analysis as Markdown or HTML.
// Figures are rounded for display only; the analysis itself is never rounded.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"underwriting/pkg/core/calc"
	"underwriting/pkg/core/projection"
	"underwriting/pkg/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Options controls optional sections.
type Options struct {
	// AmortizationRows limits the amortization excerpt; 0 omits it.
	AmortizationRows int
	Sensitivity      []projection.SensitivityPoint
}

// Markdown builds the underwriting memo for a scenario and its analysis.
func Markdown(s models.Scenario, a projection.Analysis, opts Options) string {
	var sb strings.Builder
	m := a.Metrics

	name := s.Name
	if name == "" {
		name = "Untitled scenario"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if s.ID != "" {
		fmt.Fprintf(&sb, "_Scenario %s, version %d_\n\n", s.ID, s.Version)
	}

	sb.WriteString("## Acquisition\n\n")
	sb.WriteString("| Item | Amount |\n|---|---:|\n")
	row(&sb, "Purchase price", Money(s.PurchasePrice))
	row(&sb, "Rehab budget", Money(s.RehabBudget))
	row(&sb, "Closing costs", Money(s.ClosingCosts))
	row(&sb, "Loan amount", Money(s.LoanAmount))
	row(&sb, "Total cash invested", Money(m.TotalInvestment))
	sb.WriteString("\n")

	sb.WriteString("## Key Metrics\n\n")
	sb.WriteString("| Metric | Value |\n|---|---:|\n")
	row(&sb, "Effective gross income", Money(m.EffectiveGrossIncome))
	row(&sb, "Operating expenses", Money(m.OperatingExpenses))
	row(&sb, "Net operating income", Money(m.NOI))
	row(&sb, "Annual debt service", Money(m.AnnualDebtService))
	row(&sb, "Year 1 cash flow", Money(m.CashFlow))
	row(&sb, "Cap rate", Percent(m.CapRate))
	row(&sb, "Cash-on-cash", Percent(m.CashOnCash))
	row(&sb, fmt.Sprintf("DSCR (%s)", m.DSCRBasis), Ratio(m.DSCR))
	row(&sb, "GRM", Ratio(m.GRM))
	row(&sb, "OER", Percent(m.OER))
	row(&sb, "LTV", Percent(m.LTV))
	row(&sb, "LTC", Percent(m.LTC))
	row(&sb, "IRR", Percent(m.IRR))
	row(&sb, "NPV", Money(m.NPV))
	row(&sb, "Payback", Years(m.PaybackPeriod))
	sb.WriteString("\n")

	if len(a.Years) > 0 {
		sb.WriteString("## Cash Flow Projection\n\n")
		sb.WriteString("| Year | Revenue | Expenses | NOI | Debt Service | Cash Flow | Other |\n")
		sb.WriteString("|---:|---:|---:|---:|---:|---:|---|\n")
		for _, y := range a.Years {
			var notes []string
			if y.RefiCashOut != nil {
				notes = append(notes, "refi cash-out "+Money(*y.RefiCashOut))
			}
			if y.TerminalProceeds != nil {
				notes = append(notes, "sale proceeds "+Money(*y.TerminalProceeds))
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s | %s |\n",
				y.Year, Money(y.Revenue), Money(y.Expenses), Money(y.NetOperatingIncome),
				Money(y.DebtService), Money(y.CashFlow), strings.Join(notes, "; "))
		}
		sb.WriteString("\n")
	}

	if s.LoanAmount > 0 {
		sb.WriteString("## Financing\n\n")
		fmt.Fprintf(&sb, "- Loan type: %s\n", s.LoanType)
		fmt.Fprintf(&sb, "- Monthly payment: %s\n", Money(m.MonthlyPayment))
		fmt.Fprintf(&sb, "- Total interest: %s\n", Money(calc.TotalInterest(a.Amortization)))
		if s.LoanType == calc.LoanBalloon {
			fmt.Fprintf(&sb, "- Balloon due: %s\n", Money(calc.BalloonPayment(a.Amortization)))
		}
		sb.WriteString("\n")

		if n := min(opts.AmortizationRows, len(a.Amortization)); n > 0 {
			sb.WriteString("| Month | Payment | Principal | Interest | Balance |\n|---:|---:|---:|---:|---:|\n")
			for _, p := range a.Amortization[:n] {
				fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
					p.Period, Money(p.Payment), Money(p.Principal), Money(p.Interest), Money(p.Balance))
			}
			sb.WriteString("\n")
		}
	}

	if len(opts.Sensitivity) > 0 {
		fmt.Fprintf(&sb, "## Sensitivity: %s\n\n", opts.Sensitivity[0].Axis)
		sb.WriteString("| Delta | Input | IRR | NPV | Cash-on-cash |\n|---:|---:|---:|---:|---:|\n")
		for _, p := range opts.Sensitivity {
			fmt.Fprintf(&sb, "| %+.2f | %s | %s | %s | %s |\n",
				p.Delta, Percent(p.Value), Percent(p.Metrics.IRR), Money(p.Metrics.NPV), Percent(p.Metrics.CashOnCash))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func row(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "| %s | %s |\n", label, value)
}

// RenderHTML converts report Markdown, tables included, to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
