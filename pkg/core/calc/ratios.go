// Package calc provides deterministic financial calculations for property underwriting.
// This file implements the income and leverage ratios.
package calc

import (
	"math"
)

// =============================================================================
// INCOME RATIOS
// All percentages are whole-number percents (5.0 means 5%).
// =============================================================================

// NOI calculates Net Operating Income.
//
// FORMULA: NOI = EGI - OpEx
//
// Debt service is not an operating expense and must not be included.
func NOI(effectiveGrossIncome, operatingExpenses float64) float64 {
	return effectiveGrossIncome - operatingExpenses
}

// CapRate calculates the unleveraged yield on the purchase price.
//
// FORMULA: Cap Rate = NOI / Price × 100
func CapRate(noi, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return noi / price * 100
}

// CashOnCash calculates pre-tax cash yield on the equity invested.
//
// FORMULA: CoC = Annual Cash Flow / Cash Invested × 100
func CashOnCash(annualCashFlow, cashInvested float64) float64 {
	if cashInvested <= 0 {
		return 0
	}
	return annualCashFlow / cashInvested * 100
}

// DSCR calculates the Debt Service Coverage Ratio.
//
// FORMULA: DSCR = Income / Annual Debt Service
//
// The caller decides whether income is NOI or net cash flow.
func DSCR(income, annualDebtService float64) float64 {
	if annualDebtService <= 0 {
		return 0
	}
	return income / annualDebtService
}

// GRM calculates the Gross Rent Multiplier.
//
// FORMULA: GRM = Price / Annual Gross Rent
func GRM(price, annualGrossRent float64) float64 {
	if annualGrossRent <= 0 {
		return 0
	}
	return price / annualGrossRent
}

// OER calculates the Operating Expense Ratio.
//
// FORMULA: OER = OpEx / EGI × 100
func OER(operatingExpenses, effectiveGrossIncome float64) float64 {
	if effectiveGrossIncome <= 0 {
		return 0
	}
	return operatingExpenses / effectiveGrossIncome * 100
}

// =============================================================================
// LEVERAGE RATIOS
// =============================================================================

// LTV calculates Loan-to-Value.
//
// FORMULA: LTV = Loan / Value × 100
func LTV(loanAmount, value float64) float64 {
	if value <= 0 {
		return 0
	}
	return loanAmount / value * 100
}

// LTC calculates Loan-to-Cost.
//
// FORMULA: LTC = Loan / (Price + Rehab + Closing) × 100
func LTC(loanAmount, totalCost float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	return loanAmount / totalCost * 100
}

// =============================================================================
// GROWTH
// =============================================================================

// CompoundGrowth grows an amount at a fixed annual rate.
//
// FORMULA: FV = P × (1 + rate/100)^years
func CompoundGrowth(principal, ratePercent float64, years int) float64 {
	return principal * math.Pow(1+ratePercent/100, float64(years))
}
