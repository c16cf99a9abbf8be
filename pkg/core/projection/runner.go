// Package projection runs a Scenario through the calculation library over its
// holding period and produces the headline metrics and the year-by-year table.
package projection

import (
	"underwriting/pkg/core/calc"
	"underwriting/pkg/models"
)

// Runner projects scenarios. It holds only caller policy and is safe for
// concurrent use.
type Runner struct {
	dscrBasis DSCRBasis
	irrGuess  float64
}

// Option configures a Runner.
type Option func(*Runner)

// WithDSCRBasis selects NOI or net cash flow as the DSCR numerator.
func WithDSCRBasis(b DSCRBasis) Option {
	return func(r *Runner) { r.dscrBasis = b }
}

// WithIRRGuess sets the starting rate (fraction) for IRR iteration.
func WithIRRGuess(g float64) Option {
	return func(r *Runner) { r.irrGuess = g }
}

// NewRunner creates a runner with NOI-based DSCR and the default IRR guess.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{dscrBasis: BasisNOI, irrGuess: calc.DefaultIRRGuess}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// operatingBase holds the static year-0 operating figures.
type operatingBase struct {
	annualGrossRent   float64 // before vacancy
	egi               float64
	managementFee     float64
	operatingExpenses float64
}

func operatingFigures(s models.Scenario) operatingBase {
	monthlyIncome := s.GrossPotentialRent + s.OtherIncome
	vacancyLoss := monthlyIncome * s.VacancyRate / 100
	egi := (monthlyIncome - vacancyLoss) * 12
	mgmt := egi * s.ManagementFee / 100

	opex := s.PropertyTax + s.Insurance + s.Maintenance + s.Utilities +
		s.OtherExpenses + s.HOA + mgmt

	return operatingBase{
		annualGrossRent:   monthlyIncome * 12,
		egi:               egi,
		managementFee:     mgmt,
		operatingExpenses: opex,
	}
}

func holdingYears(s models.Scenario) int {
	if s.HoldingPeriod < 1 {
		return 1
	}
	return s.HoldingPeriod
}

func totalInvestment(s models.Scenario) float64 {
	return (s.PurchasePrice - s.LoanAmount) + s.RehabBudget + s.ClosingCosts
}

// TerminalValue is the sale price at the end of the given year: the exit
// override when set and positive, otherwise the appreciated purchase price.
func TerminalValue(s models.Scenario, year int) float64 {
	if s.ExitPriceOverride != nil && *s.ExitPriceOverride > 0 {
		return *s.ExitPriceOverride
	}
	return calc.CompoundGrowth(s.PurchasePrice, s.AppreciationRate, year)
}

// financing describes the debt over the hold.
type financing struct {
	debtService func(year int) float64 // annual
	cashOut     func(year int) float64 // refinance proceeds received in year
	payoff      float64                // loan repaid from sale proceeds
}

// Analyze runs the standard projection.
//
//  1. EGI = (rent + other) × (1 - vacancy) × 12; OpEx = fixed lines + management fee
//  2. Debt service = monthly payment × 12
//  3. Year y grows income and expenses by y-1 years; the final year adds net
//     sale proceeds (value - selling costs - loan amount)
//  4. [-investment, cf1 .. cfN] feeds NPV and IRR; plain cf feeds payback
func (r *Runner) Analyze(s models.Scenario) Analysis {
	ads := calc.MortgagePayment(s.LoanAmount, s.InterestRate, s.TermYears, s.LoanType) * 12
	return r.run(s, financing{
		debtService: func(int) float64 { return ads },
		cashOut:     func(int) float64 { return 0 },
		payoff:      s.LoanAmount,
	})
}

func (r *Runner) run(s models.Scenario, fin financing) Analysis {
	base := operatingFigures(s)
	monthlyPayment := calc.MortgagePayment(s.LoanAmount, s.InterestRate, s.TermYears, s.LoanType)
	ads := monthlyPayment * 12
	invested := totalInvestment(s)
	n := holdingYears(s)

	years := make([]ProjectionYear, 0, n)
	plain := make([]float64, 0, n)
	vector := make([]float64, 0, n+1)
	vector = append(vector, -invested)

	for y := 1; y <= n; y++ {
		income := calc.CompoundGrowth(base.egi, s.RentGrowthRate, y-1)
		expenses := calc.CompoundGrowth(base.operatingExpenses, s.ExpenseGrowthRate, y-1)
		yearNOI := calc.NOI(income, expenses)
		debt := fin.debtService(y)
		cashFlow := yearNOI - debt

		row := ProjectionYear{
			Year:               y,
			Revenue:            income,
			Expenses:           expenses,
			NetOperatingIncome: yearNOI,
			DebtService:        debt,
		}
		if out := fin.cashOut(y); out != 0 {
			cashFlow += out
			row.RefiCashOut = &out
		}
		row.CashFlow = cashFlow
		plain = append(plain, cashFlow)

		if y == n {
			tv := TerminalValue(s, y)
			netSale := tv - tv*s.SellingCosts/100 - fin.payoff
			row.TerminalProceeds = &netSale
			vector = append(vector, cashFlow+netSale)
		} else {
			vector = append(vector, cashFlow)
		}
		years = append(years, row)
	}

	noi := calc.NOI(base.egi, base.operatingExpenses)
	cashFlow := noi - ads
	dscrIncome := noi
	if r.dscrBasis == BasisCashFlow {
		dscrIncome = cashFlow
	}

	irr := calc.IRR(vector, r.irrGuess)
	payback := calc.PaybackPeriod(invested, plain)

	m := Metrics{
		NOI:           noi,
		CapRate:       calc.CapRate(noi, s.PurchasePrice),
		CashOnCash:    calc.CashOnCash(cashFlow, invested),
		DSCR:          calc.DSCR(dscrIncome, ads),
		CashFlow:      cashFlow,
		IRR:           irr,
		NPV:           calc.NPV(s.DiscountRate, vector, false),
		PaybackPeriod: payback,

		EffectiveGrossIncome: base.egi,
		OperatingExpenses:    base.operatingExpenses,
		AnnualDebtService:    ads,
		MonthlyPayment:       monthlyPayment,
		TotalInvestment:      invested,
		GRM:                  calc.GRM(s.PurchasePrice, base.annualGrossRent),
		OER:                  calc.OER(base.operatingExpenses, base.egi),
		LTV:                  calc.LTV(s.LoanAmount, s.PurchasePrice),
		LTC:                  calc.LTC(s.LoanAmount, s.PurchasePrice+s.RehabBudget+s.ClosingCosts),
		DSCRBasis:            r.dscrBasis,
		IRRConverged:         calc.IRRConverged(irr),
		PaybackReached:       calc.PaybackReached(payback),
	}

	return Analysis{
		Metrics:   m,
		Years:     years,
		CashFlows: vector,
		Amortization: calc.AmortizationSchedule(
			s.LoanAmount, s.InterestRate, s.TermYears, s.LoanType, s.BalloonYear, s.MonthlyExtraPrincipal,
		),
	}
}
