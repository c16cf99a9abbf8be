// Package calc provides deterministic financial calculations for property underwriting.
// This file implements loan payments and amortization.
package calc

import (
	"math"
)

// LoanType selects how a loan is repaid.
type LoanType string

const (
	LoanFixed        LoanType = "fixed"
	LoanInterestOnly LoanType = "interest-only"
	LoanBalloon      LoanType = "balloon"
)

// Valid reports whether t is one of the supported loan types.
func (t LoanType) Valid() bool {
	switch t {
	case LoanFixed, LoanInterestOnly, LoanBalloon:
		return true
	}
	return false
}

// AmortizationPeriod is one month of a loan schedule.
type AmortizationPeriod struct {
	Period    int     `json:"period"` // 1-based month
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// MortgagePayment calculates the monthly payment on a loan.
//
// FORMULA (amortizing): PMT = P × r(1+r)^n / ((1+r)^n - 1)
// FORMULA (interest-only): PMT = P × r
//
// Where:
//   - r = annual rate / 12 (as a fraction)
//   - n = years × 12
//
// A zero rate degrades to P / n. Balloon loans pay the amortizing amount.
func MortgagePayment(principal, annualRatePercent float64, years int, loanType LoanType) float64 {
	r := annualRatePercent / 100 / 12
	if loanType == LoanInterestOnly {
		return principal * r
	}
	n := years * 12
	if n <= 0 {
		return 0
	}
	if r == 0 {
		return principal / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return principal * r * growth / (growth - 1)
}

// RemainingBalance returns the loan balance after the given number of scheduled
// monthly payments, with no extra principal.
//
// FORMULA: B_k = P(1+r)^k - PMT × ((1+r)^k - 1) / r
func RemainingBalance(principal, annualRatePercent float64, years int, loanType LoanType, months int) float64 {
	if months <= 0 {
		return principal
	}
	if loanType == LoanInterestOnly {
		return principal
	}
	n := years * 12
	if n <= 0 || months >= n {
		return 0
	}
	pmt := MortgagePayment(principal, annualRatePercent, years, loanType)
	r := annualRatePercent / 100 / 12
	var balance float64
	if r == 0 {
		balance = principal - pmt*float64(months)
	} else {
		growth := math.Pow(1+r, float64(months))
		balance = principal*growth - pmt*(growth-1)/r
	}
	return math.Max(balance, 0)
}

// =============================================================================
// AMORTIZATION
// =============================================================================

// AmortizationSchedule builds the month-by-month schedule of a loan.
//
// Each month accrues interest on the outstanding balance, applies the scheduled
// principal (none for interest-only) plus monthlyExtra, and caps the principal at
// the remaining balance. The schedule ends when the balance reaches zero, at the
// end of the term, or after balloonYear×12 periods for balloon loans. The final
// row of a balloon schedule carries the balloon balance due.
//
// Rows are not rounded; round at display time.
func AmortizationSchedule(principal, annualRatePercent float64, years int, loanType LoanType, balloonYear int, monthlyExtra float64) []AmortizationPeriod {
	n := years * 12
	if n <= 0 || principal <= 0 {
		return nil
	}

	limit := n
	if loanType == LoanBalloon && balloonYear > 0 && balloonYear*12 < n {
		limit = balloonYear * 12
	}

	r := annualRatePercent / 100 / 12
	payment := MortgagePayment(principal, annualRatePercent, years, loanType)
	amortizing := loanType != LoanInterestOnly

	schedule := make([]AmortizationPeriod, 0, limit)
	balance := principal
	for period := 1; period <= limit && balance > 0; period++ {
		interest := balance * r

		scheduled := 0.0
		if amortizing {
			scheduled = payment - interest
		}
		applied := math.Max(scheduled+monthlyExtra, 0)
		if applied > balance {
			applied = balance
		}
		// Clear float residue on the last period of a fully amortizing term.
		if amortizing && period == n {
			applied = balance
		}

		balance -= applied
		if balance < 0 {
			balance = 0
		}

		schedule = append(schedule, AmortizationPeriod{
			Period:    period,
			Payment:   applied + interest,
			Principal: applied,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return schedule
}

// BalloonPayment returns the balance still owed at the end of a schedule.
func BalloonPayment(schedule []AmortizationPeriod) float64 {
	if len(schedule) == 0 {
		return 0
	}
	return schedule[len(schedule)-1].Balance
}

// TotalInterest sums the interest paid over a schedule.
func TotalInterest(schedule []AmortizationPeriod) float64 {
	var total float64
	for _, p := range schedule {
		total += p.Interest
	}
	return total
}
