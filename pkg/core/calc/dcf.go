// Package calc provides deterministic financial calculations for property underwriting.
// This file implements discounted cash flow measures: NPV, IRR, payback.
package calc

import (
	"math"
)

const (
	// DefaultIRRGuess is the starting rate (as a fraction) for IRR iteration.
	DefaultIRRGuess = 0.10

	irrPrecision     = 1e-7
	irrMaxIterations = 100
)

// PresentValue calculates PV of a single cash flow.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, discountRate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+discountRate, float64(periods))
}

// NPV discounts a 0-indexed cash flow sequence.
//
// FORMULA: NPV = Σ [ CF_t / (1 + r)^t ]
//
// Index 0 is undiscounted (usually the initial outlay, negative). The rate is an
// annual percent; when isMonthly is set it is converted to a monthly rate.
func NPV(discountRatePercent float64, cashflows []float64, isMonthly bool) float64 {
	r := discountRatePercent / 100
	if isMonthly {
		r /= 12
	}
	var npv float64
	for t, cf := range cashflows {
		npv += PresentValue(cf, r, t)
	}
	return npv
}

// IRR finds the rate at which the NPV of cashflows is zero, using Newton-Raphson.
//
//	f(r)  = Σ CF_t / (1+r)^t
//	f'(r) = Σ -t × CF_t / (1+r)^(t+1)
//	r    ← r - f(r)/f'(r)
//
// guess is a fraction (0.10 for 10%). The result is a percent. Returns NaN when
// the derivative vanishes or the iteration cap is hit; check with IRRConverged.
func IRR(cashflows []float64, guess float64) float64 {
	rate := guess
	for i := 0; i < irrMaxIterations; i++ {
		var f, df float64
		for t, cf := range cashflows {
			denom := math.Pow(1+rate, float64(t))
			f += cf / denom
			df += -float64(t) * cf / (denom * (1 + rate))
		}
		if df == 0 {
			return math.NaN()
		}

		next := rate - f/df
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return math.NaN()
		}
		if math.Abs(next-rate) < irrPrecision {
			return next * 100
		}
		rate = next
	}
	return math.NaN()
}

// IRRConverged reports whether an IRR result is a real rate.
func IRRConverged(irr float64) bool {
	return !math.IsNaN(irr) && !math.IsInf(irr, 0)
}

// PaybackPeriod returns the (fractional) number of periods needed for cumulative
// cash flow to recover the initial investment.
//
// Within the crossing period the fraction is |cumulative before| / CF.
// Returns +Inf when the investment is never recovered.
func PaybackPeriod(initialInvestment float64, cashflows []float64) float64 {
	if initialInvestment <= 0 {
		return 0
	}
	cumulative := -initialInvestment
	for i, cf := range cashflows {
		prior := cumulative
		cumulative += cf
		if cumulative >= 0 {
			return float64(i) + math.Abs(prior)/cf
		}
	}
	return math.Inf(1)
}

// PaybackReached reports whether a payback result is finite.
func PaybackReached(payback float64) bool {
	return !math.IsInf(payback, 0) && !math.IsNaN(payback)
}
