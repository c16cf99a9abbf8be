package projection

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"underwriting/pkg/core/calc"
)

// ProjectionYear is one row of the hold-period cash flow table.
type ProjectionYear struct {
	Year               int      `json:"year"`
	Revenue            float64  `json:"revenue"`
	Expenses           float64  `json:"expenses"`
	NetOperatingIncome float64  `json:"netOperatingIncome"`
	DebtService        float64  `json:"debtService"`
	CashFlow           float64  `json:"cashFlow"`
	RefiCashOut        *float64 `json:"refiCashOut,omitempty"`
	TerminalProceeds   *float64 `json:"terminalProceeds,omitempty"` // final year only
}

// Metrics holds the headline underwriting figures. Percent-valued fields are
// whole-number percents. IRR is NaN when it does not converge and
// PaybackPeriod is +Inf when the investment is never recovered; both encode
// as JSON null.
type Metrics struct {
	NOI           float64 `json:"noi"`
	CapRate       float64 `json:"capRate"`
	CashOnCash    float64 `json:"cashOnCash"`
	DSCR          float64 `json:"dscr"`
	CashFlow      float64 `json:"cashFlow"`
	IRR           float64 `json:"irr"`
	NPV           float64 `json:"npv"`
	PaybackPeriod float64 `json:"paybackPeriod"`

	EffectiveGrossIncome float64   `json:"effectiveGrossIncome"`
	OperatingExpenses    float64   `json:"operatingExpenses"`
	AnnualDebtService    float64   `json:"annualDebtService"`
	MonthlyPayment       float64   `json:"monthlyPayment"`
	TotalInvestment      float64   `json:"totalInvestment"`
	GRM                  float64   `json:"grm"`
	OER                  float64   `json:"oer"`
	LTV                  float64   `json:"ltv"`
	LTC                  float64   `json:"ltc"`
	DSCRBasis            DSCRBasis `json:"dscrBasis"`
	IRRConverged         bool      `json:"irrConverged"`
	PaybackReached       bool      `json:"paybackReached"`
}

type metricsAlias Metrics

type metricsJSON struct {
	metricsAlias
	IRR           *float64 `json:"irr"`
	NPV           *float64 `json:"npv"`
	PaybackPeriod *float64 `json:"paybackPeriod"`
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON writes non-finite sentinels as null.
func (m Metrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(metricsJSON{
		metricsAlias:  metricsAlias(m),
		IRR:           finiteOrNil(m.IRR),
		NPV:           finiteOrNil(m.NPV),
		PaybackPeriod: finiteOrNil(m.PaybackPeriod),
	})
}

// UnmarshalJSON restores the NaN / +Inf sentinels from null.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	var aux metricsJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Metrics(aux.metricsAlias)
	m.IRR = math.NaN()
	if aux.IRR != nil {
		m.IRR = *aux.IRR
	}
	m.NPV = math.NaN()
	if aux.NPV != nil {
		m.NPV = *aux.NPV
	}
	m.PaybackPeriod = math.Inf(1)
	if aux.PaybackPeriod != nil {
		m.PaybackPeriod = *aux.PaybackPeriod
	}
	return nil
}

// Analysis is the full output of a projection run.
type Analysis struct {
	Metrics      Metrics                   `json:"metrics"`
	Years        []ProjectionYear          `json:"years"`
	CashFlows    []float64                 `json:"cashFlows"` // [-investment, cf1, ..., cfN + sale]
	Amortization []calc.AmortizationPeriod `json:"amortization"`
}

// DSCRBasis selects the numerator of the coverage ratio.
type DSCRBasis string

const (
	BasisNOI      DSCRBasis = "noi"
	BasisCashFlow DSCRBasis = "cash-flow"
)

// ParseDSCRBasis accepts "noi" or "cash-flow" (also "cashflow"), case-insensitive.
func ParseDSCRBasis(s string) (DSCRBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "noi":
		return BasisNOI, nil
	case "cash-flow", "cashflow", "cash_flow":
		return BasisCashFlow, nil
	}
	return "", fmt.Errorf("unknown DSCR basis %q", s)
}
