package projection

import (
	"underwriting/pkg/core/calc"
	"underwriting/pkg/models"
)

// HasRefinance reports whether s carries a refinance that falls inside its hold.
func HasRefinance(s models.Scenario) bool {
	return s.RefiYear >= 1 && s.RefiYear < holdingYears(s) && s.RefiLTV > 0
}

// AnalyzeWithRefinance runs the projection with a cash-out refinance at the end
// of RefiYear.
//
//	value     = price grown by appreciation for RefiYear years
//	new loan  = value × RefiLTV / 100
//	cash out  = new loan - balance of the original loan after RefiYear×12 payments
//
// Years after RefiYear pay the new loan (amortizing over TermYears at RefiRate)
// and the sale repays the new loan. Without a refinance inside the hold this is
// identical to Analyze.
func (r *Runner) AnalyzeWithRefinance(s models.Scenario) Analysis {
	if !HasRefinance(s) {
		return r.Analyze(s)
	}

	originalDS := calc.MortgagePayment(s.LoanAmount, s.InterestRate, s.TermYears, s.LoanType) * 12

	value := calc.CompoundGrowth(s.PurchasePrice, s.AppreciationRate, s.RefiYear)
	newLoan := value * s.RefiLTV / 100
	payoff := calc.RemainingBalance(s.LoanAmount, s.InterestRate, s.TermYears, s.LoanType, s.RefiYear*12)
	cashOut := newLoan - payoff
	newDS := calc.MortgagePayment(newLoan, s.RefiRate, s.TermYears, calc.LoanFixed) * 12

	return r.run(s, financing{
		debtService: func(year int) float64 {
			if year > s.RefiYear {
				return newDS
			}
			return originalDS
		},
		cashOut: func(year int) float64 {
			if year == s.RefiYear {
				return cashOut
			}
			return 0
		},
		payoff: newLoan,
	})
}
