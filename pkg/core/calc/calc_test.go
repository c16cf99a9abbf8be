package calc

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestZeroGuards(t *testing.T) {
	for _, x := range []float64{-50, 0, 1, 1e9} {
		if got := CapRate(x, 0); got != 0 {
			t.Errorf("CapRate(%v, 0) = %v, want 0", x, got)
		}
		if got := DSCR(x, 0); got != 0 {
			t.Errorf("DSCR(%v, 0) = %v, want 0", x, got)
		}
		if got := CashOnCash(x, 0); got != 0 {
			t.Errorf("CashOnCash(%v, 0) = %v, want 0", x, got)
		}
		if GRM(x, 0) != 0 || OER(x, 0) != 0 || LTV(x, 0) != 0 || LTC(x, 0) != 0 {
			t.Errorf("ratio with zero denominator should be 0 for %v", x)
		}
	}
}

func TestIncomeRatios(t *testing.T) {
	if got := NOI(91200, 40000); got != 51200 {
		t.Errorf("NOI = %v, want 51200", got)
	}
	if got := CapRate(50000, 1000000); !almostEqual(got, 5, 1e-12) {
		t.Errorf("CapRate = %v, want 5", got)
	}
	if got := CashOnCash(12000, 100000); !almostEqual(got, 12, 1e-12) {
		t.Errorf("CashOnCash = %v, want 12", got)
	}
	if got := DSCR(125, 100); !almostEqual(got, 1.25, 1e-12) {
		t.Errorf("DSCR = %v, want 1.25", got)
	}
	if got := GRM(500000, 50000); got != 10 {
		t.Errorf("GRM = %v, want 10", got)
	}
	if got := OER(40000, 100000); got != 40 {
		t.Errorf("OER = %v, want 40", got)
	}
	if got := LTV(700000, 1000000); got != 70 {
		t.Errorf("LTV = %v, want 70", got)
	}
	if got := LTC(80, 200); got != 40 {
		t.Errorf("LTC = %v, want 40", got)
	}
}

func TestCompoundGrowth(t *testing.T) {
	if got := CompoundGrowth(100, 10, 2); !almostEqual(got, 121, 1e-9) {
		t.Errorf("CompoundGrowth = %v, want 121", got)
	}
	if got := CompoundGrowth(100, 10, 0); got != 100 {
		t.Errorf("CompoundGrowth at year 0 = %v, want 100", got)
	}
}

func TestMortgagePayment(t *testing.T) {
	// 700k @ 6% / 30y is the textbook 4,196.85
	got := MortgagePayment(700000, 6, 30, LoanFixed)
	if !almostEqual(got, 4196.85, 0.01) {
		t.Errorf("MortgagePayment = %.4f, want ~4196.85", got)
	}

	if got := MortgagePayment(700000, 6, 30, LoanInterestOnly); !almostEqual(got, 3500, 1e-9) {
		t.Errorf("interest-only payment = %v, want 3500", got)
	}

	// Balloon loans pay the amortizing amount
	if b := MortgagePayment(700000, 6, 30, LoanBalloon); !almostEqual(b, got, 1e-9) {
		t.Errorf("balloon payment = %v, want amortizing payment", b)
	}
}

func TestMortgagePayment_ZeroRate(t *testing.T) {
	for _, c := range []struct {
		principal float64
		years     int
	}{{120000, 10}, {1, 1}, {999999, 30}} {
		got := MortgagePayment(c.principal, 0, c.years, LoanFixed)
		want := c.principal / float64(c.years*12)
		if !almostEqual(got, want, 1e-9) {
			t.Errorf("zero-rate payment(%v, %d) = %v, want %v", c.principal, c.years, got, want)
		}
	}
	if got := MortgagePayment(1000, 5, 0, LoanFixed); got != 0 {
		t.Errorf("zero-term payment = %v, want 0", got)
	}
}

func TestAmortizationSchedule_FullyAmortizing(t *testing.T) {
	principal := 250000.0
	schedule := AmortizationSchedule(principal, 5.5, 30, LoanFixed, 0, 0)
	if len(schedule) != 360 {
		t.Fatalf("expected 360 periods, got %d", len(schedule))
	}

	var sumPrincipal float64
	prev := principal
	for i, row := range schedule {
		if row.Period != i+1 {
			t.Errorf("row %d has period %d", i, row.Period)
		}
		if !almostEqual(row.Principal+row.Interest, row.Payment, 1e-9) {
			t.Errorf("period %d: principal+interest %v != payment %v", row.Period, row.Principal+row.Interest, row.Payment)
		}
		if row.Balance < 0 || row.Balance > prev {
			t.Errorf("period %d: balance %v not in [0, %v]", row.Period, row.Balance, prev)
		}
		prev = row.Balance
		sumPrincipal += row.Principal
	}

	if !almostEqual(sumPrincipal, principal, 1e-6) {
		t.Errorf("principal sum = %v, want %v", sumPrincipal, principal)
	}
	if last := schedule[len(schedule)-1].Balance; last != 0 {
		t.Errorf("final balance = %v, want exactly 0", last)
	}
}

func TestAmortizationSchedule_ZeroRate(t *testing.T) {
	schedule := AmortizationSchedule(1200, 0, 1, LoanFixed, 0, 0)
	if len(schedule) != 12 {
		t.Fatalf("expected 12 periods, got %d", len(schedule))
	}
	for _, row := range schedule {
		if row.Interest != 0 || !almostEqual(row.Principal, 100, 1e-9) {
			t.Errorf("period %d: got principal %v interest %v", row.Period, row.Principal, row.Interest)
		}
	}
	if schedule[11].Balance != 0 {
		t.Errorf("final balance = %v, want 0", schedule[11].Balance)
	}
}

func TestAmortizationSchedule_ExtraPrincipalEndsEarly(t *testing.T) {
	base := AmortizationSchedule(200000, 6, 30, LoanFixed, 0, 0)
	fast := AmortizationSchedule(200000, 6, 30, LoanFixed, 0, 500)

	if len(fast) >= len(base) {
		t.Fatalf("extra principal should shorten the schedule: %d vs %d", len(fast), len(base))
	}
	if last := fast[len(fast)-1].Balance; last != 0 {
		t.Errorf("final balance = %v, want 0", last)
	}
	var sum float64
	for _, row := range fast {
		sum += row.Principal
	}
	if !almostEqual(sum, 200000, 1e-6) {
		t.Errorf("principal sum = %v, want 200000", sum)
	}
	if TotalInterest(fast) >= TotalInterest(base) {
		t.Errorf("prepayment should reduce total interest")
	}
}

func TestAmortizationSchedule_Balloon(t *testing.T) {
	schedule := AmortizationSchedule(300000, 7, 30, LoanBalloon, 7, 0)
	if len(schedule) != 84 {
		t.Fatalf("expected 84 periods for a 7-year balloon, got %d", len(schedule))
	}
	balloon := BalloonPayment(schedule)
	want := RemainingBalance(300000, 7, 30, LoanFixed, 84)
	if !almostEqual(balloon, want, 1e-4) {
		t.Errorf("balloon = %v, want %v", balloon, want)
	}
	if balloon <= 0 {
		t.Errorf("balloon balance should be outstanding, got %v", balloon)
	}
}

func TestAmortizationSchedule_InterestOnly(t *testing.T) {
	schedule := AmortizationSchedule(100000, 6, 5, LoanInterestOnly, 0, 0)
	if len(schedule) != 60 {
		t.Fatalf("expected 60 periods, got %d", len(schedule))
	}
	for _, row := range schedule {
		if row.Principal != 0 || !almostEqual(row.Interest, 500, 1e-9) || row.Balance != 100000 {
			t.Fatalf("period %d: unexpected row %+v", row.Period, row)
		}
	}
}

func TestAmortizationSchedule_Degenerate(t *testing.T) {
	if s := AmortizationSchedule(0, 5, 30, LoanFixed, 0, 0); len(s) != 0 {
		t.Errorf("zero principal should yield an empty schedule")
	}
	if s := AmortizationSchedule(1000, 5, 0, LoanFixed, 0, 0); len(s) != 0 {
		t.Errorf("zero term should yield an empty schedule")
	}
}

func TestRemainingBalance(t *testing.T) {
	schedule := AmortizationSchedule(500000, 4.25, 25, LoanFixed, 0, 0)
	for _, k := range []int{1, 12, 120, 299} {
		got := RemainingBalance(500000, 4.25, 25, LoanFixed, k)
		if !almostEqual(got, schedule[k-1].Balance, 1e-4) {
			t.Errorf("RemainingBalance(%d) = %v, schedule says %v", k, got, schedule[k-1].Balance)
		}
	}
	if got := RemainingBalance(500000, 4.25, 25, LoanFixed, 300); got != 0 {
		t.Errorf("balance at term end = %v, want 0", got)
	}
	if got := RemainingBalance(500000, 4.25, 25, LoanInterestOnly, 120); got != 500000 {
		t.Errorf("interest-only balance = %v, want 500000", got)
	}
}

func TestNPV(t *testing.T) {
	flows := []float64{-1000, 300, 400, 500}
	if got := NPV(0, flows, false); got != 200 {
		t.Errorf("NPV at 0%% = %v, want plain sum 200", got)
	}

	got := NPV(10, []float64{-100, 110}, false)
	if !almostEqual(got, 0, 1e-9) {
		t.Errorf("NPV(10%%, [-100,110]) = %v, want 0", got)
	}

	monthly := NPV(12, []float64{0, 101}, true)
	if !almostEqual(monthly, 100, 1e-9) {
		t.Errorf("monthly NPV = %v, want 100", monthly)
	}
}

func TestIRR(t *testing.T) {
	if got := IRR([]float64{-100, 110}, DefaultIRRGuess); !almostEqual(got, 10, 1e-4) {
		t.Errorf("IRR([-100,110]) = %v, want 10", got)
	}

	flows := []float64{-1000, 300, 400, 500}
	irr := IRR(flows, DefaultIRRGuess)
	if !IRRConverged(irr) {
		t.Fatalf("IRR did not converge")
	}
	if npv := NPV(irr, flows, false); !almostEqual(npv, 0, 1e-6) {
		t.Errorf("NPV at IRR = %v, want 0", npv)
	}
}

func TestIRR_NonConvergence(t *testing.T) {
	// No sign change: no root exists
	if got := IRR([]float64{100, 100, 100}, DefaultIRRGuess); IRRConverged(got) {
		t.Errorf("expected NaN for all-positive flows, got %v", got)
	}
	// Single flow: derivative is identically zero
	if got := IRR([]float64{-100}, DefaultIRRGuess); !math.IsNaN(got) {
		t.Errorf("expected NaN for a single flow, got %v", got)
	}
	if got := IRR(nil, DefaultIRRGuess); !math.IsNaN(got) {
		t.Errorf("expected NaN for no flows, got %v", got)
	}
}

func TestPaybackPeriod(t *testing.T) {
	if got := PaybackPeriod(100, []float64{50, 50, 50}); got != 2 {
		t.Errorf("PaybackPeriod = %v, want 2", got)
	}
	if got := PaybackPeriod(100, []float64{40, 40, 40}); !almostEqual(got, 2.5, 1e-12) {
		t.Errorf("PaybackPeriod = %v, want 2.5", got)
	}
	if got := PaybackPeriod(100, []float64{10, 10}); !math.IsInf(got, 1) {
		t.Errorf("PaybackPeriod = %v, want +Inf", got)
	}
	if PaybackReached(PaybackPeriod(100, []float64{10, 10})) {
		t.Errorf("unbounded payback reported as reached")
	}
	if got := PaybackPeriod(0, []float64{10}); got != 0 {
		t.Errorf("PaybackPeriod with nothing invested = %v, want 0", got)
	}
}

// Deal from the underwriting worksheet: 1M price, 700k @ 6%/30y, NOI 50,160.
func TestBreakevenDealFixture(t *testing.T) {
	noi := 50160.0
	payment := MortgagePayment(700000, 6, 30, LoanFixed)

	if got := CapRate(noi, 1000000); !almostEqual(got, 5.02, 0.01) {
		t.Errorf("cap rate = %v, want ~5.02", got)
	}
	if !almostEqual(payment, 4196.5, 0.5) {
		t.Errorf("monthly debt service = %v, want ~4196.5", payment)
	}
	if got := DSCR(noi, payment*12); !almostEqual(got, 0.996, 0.001) {
		t.Errorf("DSCR = %v, want ~0.996", got)
	}
}
