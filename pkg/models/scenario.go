package models

import (
	"time"

	"underwriting/pkg/core/calc"
)

// Scenario is the named input set for an underwriting run.
// Percentages are whole-number percents (6.5 means 6.5%).
// Rent and other income are monthly; expense lines are annual.
type Scenario struct {
	// Identity
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Version      int       `json:"version"`
	LastModified time.Time `json:"lastModified"`

	// Acquisition
	PurchasePrice    float64 `json:"purchasePrice"`
	AfterRepairValue float64 `json:"afterRepairValue"`
	RehabBudget      float64 `json:"rehabBudget"`
	ClosingCosts     float64 `json:"closingCosts"`

	// Operating income (monthly)
	GrossPotentialRent float64 `json:"grossPotentialRent"`
	OtherIncome        float64 `json:"otherIncome"`
	VacancyRate        float64 `json:"vacancyRate"` // % of gross income

	// Operating expenses (annual)
	PropertyTax   float64 `json:"propertyTax"`
	Insurance     float64 `json:"insurance"`
	Maintenance   float64 `json:"maintenance"`
	Utilities     float64 `json:"utilities"`
	OtherExpenses float64 `json:"otherExpenses"`
	HOA           float64 `json:"hoa"`
	ManagementFee float64 `json:"managementFee"` // % of effective gross income

	// Financing
	LoanAmount            float64       `json:"loanAmount"`
	InterestRate          float64       `json:"interestRate"` // annual %
	TermYears             int           `json:"termYears"`
	LoanType              calc.LoanType `json:"loanType"`
	BalloonYear           int           `json:"balloonYear"`
	MonthlyExtraPrincipal float64       `json:"monthlyExtraPrincipal,omitempty"`

	// Growth and exit
	AppreciationRate  float64  `json:"appreciationRate"`
	RentGrowthRate    float64  `json:"rentGrowthRate"`
	ExpenseGrowthRate float64  `json:"expenseGrowthRate"`
	DiscountRate      float64  `json:"discountRate"`
	HoldingPeriod     int      `json:"holdingPeriod"` // years
	SellingCosts      float64  `json:"sellingCosts"`  // % of sale price
	ExitPriceOverride *float64 `json:"exitPriceOverride,omitempty"`

	// Refinance (optional)
	RefiYear int     `json:"refiYear,omitempty"`
	RefiRate float64 `json:"refiRate,omitempty"`
	RefiLTV  float64 `json:"refiLtv,omitempty"`
}

// Clone returns a deep copy of s.
func (s Scenario) Clone() Scenario {
	c := s
	if s.ExitPriceOverride != nil {
		v := *s.ExitPriceOverride
		c.ExitPriceOverride = &v
	}
	return c
}

// DefaultScenarioName is the display name of the system-provided scenario.
const DefaultScenarioName = "Sample Duplex"

// DefaultScenario builds the system-provided scenario used when a store is empty.
func DefaultScenario(id string, now time.Time) Scenario {
	return Scenario{
		ID:           id,
		Name:         DefaultScenarioName,
		Version:      1,
		LastModified: now,

		PurchasePrice:    350000,
		AfterRepairValue: 375000,
		RehabBudget:      15000,
		ClosingCosts:     7000,

		GrossPotentialRent: 3200,
		OtherIncome:        100,
		VacancyRate:        5,

		PropertyTax:   4200,
		Insurance:     1800,
		Maintenance:   2400,
		Utilities:     1200,
		OtherExpenses: 600,
		HOA:           0,
		ManagementFee: 8,

		LoanAmount:   280000,
		InterestRate: 6.5,
		TermYears:    30,
		LoanType:     calc.LoanFixed,
		BalloonYear:  7,

		AppreciationRate:  3,
		RentGrowthRate:    2.5,
		ExpenseGrowthRate: 2.5,
		DiscountRate:      8,
		HoldingPeriod:     10,
		SellingCosts:      6,
	}
}
