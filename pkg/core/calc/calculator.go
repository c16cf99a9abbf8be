package calc

import (
	"errors"
	"fmt"
)

// Kind names one of the standalone calculators.
type Kind string

const (
	KindCapRate         Kind = "cap-rate"
	KindCashOnCash      Kind = "cash-on-cash"
	KindDSCR            Kind = "dscr"
	KindMortgagePayment Kind = "mortgage-payment"
	KindGRM             Kind = "grm"
	KindOER             Kind = "oer"
	KindLTV             Kind = "ltv"
	KindLTC             Kind = "ltc"
	KindCompoundGrowth  Kind = "compound-growth"
)

var (
	ErrUnknownKind  = errors.New("unknown calculator kind")
	ErrMissingParam = errors.New("missing calculator parameter")
)

// ParamSpec describes one input of a calculator.
type ParamSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Calculator is a single standalone calculation with its inputs bound.
// The set of implementations is closed to this package.
type Calculator interface {
	Kind() Kind
	Compute() float64
	sealed()
}

type CapRateCalc struct{ NOI, Price float64 }
type CashOnCashCalc struct{ AnnualCashFlow, CashInvested float64 }
type DSCRCalc struct{ Income, AnnualDebtService float64 }
type MortgagePaymentCalc struct {
	Principal, RatePercent float64
	Years                  int
	InterestOnly           bool
}
type GRMCalc struct{ Price, AnnualGrossRent float64 }
type OERCalc struct{ OperatingExpenses, EffectiveGrossIncome float64 }
type LTVCalc struct{ LoanAmount, Value float64 }
type LTCCalc struct{ LoanAmount, TotalCost float64 }
type CompoundGrowthCalc struct {
	Principal, RatePercent float64
	Years                  int
}

func (CapRateCalc) Kind() Kind         { return KindCapRate }
func (CashOnCashCalc) Kind() Kind      { return KindCashOnCash }
func (DSCRCalc) Kind() Kind            { return KindDSCR }
func (MortgagePaymentCalc) Kind() Kind { return KindMortgagePayment }
func (GRMCalc) Kind() Kind             { return KindGRM }
func (OERCalc) Kind() Kind             { return KindOER }
func (LTVCalc) Kind() Kind             { return KindLTV }
func (LTCCalc) Kind() Kind             { return KindLTC }
func (CompoundGrowthCalc) Kind() Kind  { return KindCompoundGrowth }

func (c CapRateCalc) Compute() float64    { return CapRate(c.NOI, c.Price) }
func (c CashOnCashCalc) Compute() float64 { return CashOnCash(c.AnnualCashFlow, c.CashInvested) }
func (c DSCRCalc) Compute() float64       { return DSCR(c.Income, c.AnnualDebtService) }
func (c MortgagePaymentCalc) Compute() float64 {
	t := LoanFixed
	if c.InterestOnly {
		t = LoanInterestOnly
	}
	return MortgagePayment(c.Principal, c.RatePercent, c.Years, t)
}
func (c GRMCalc) Compute() float64 { return GRM(c.Price, c.AnnualGrossRent) }
func (c OERCalc) Compute() float64 { return OER(c.OperatingExpenses, c.EffectiveGrossIncome) }
func (c LTVCalc) Compute() float64 { return LTV(c.LoanAmount, c.Value) }
func (c LTCCalc) Compute() float64 { return LTC(c.LoanAmount, c.TotalCost) }
func (c CompoundGrowthCalc) Compute() float64 {
	return CompoundGrowth(c.Principal, c.RatePercent, c.Years)
}

func (CapRateCalc) sealed()         {}
func (CashOnCashCalc) sealed()      {}
func (DSCRCalc) sealed()            {}
func (MortgagePaymentCalc) sealed() {}
func (GRMCalc) sealed()             {}
func (OERCalc) sealed()             {}
func (LTVCalc) sealed()             {}
func (LTCCalc) sealed()             {}
func (CompoundGrowthCalc) sealed()  {}

var schemas = map[Kind][]ParamSpec{
	KindCapRate: {
		{"noi", "annual net operating income"},
		{"price", "purchase price"},
	},
	KindCashOnCash: {
		{"cash_flow", "annual pre-tax cash flow"},
		{"cash_invested", "total cash invested"},
	},
	KindDSCR: {
		{"income", "NOI or net cash flow"},
		{"debt_service", "annual debt service"},
	},
	KindMortgagePayment: {
		{"principal", "loan amount"},
		{"rate", "annual interest rate, percent"},
		{"years", "term in years"},
		{"interest_only", "1 for interest-only, 0 for amortizing"},
	},
	KindGRM: {
		{"price", "purchase price"},
		{"annual_rent", "annual gross rent"},
	},
	KindOER: {
		{"expenses", "annual operating expenses"},
		{"egi", "effective gross income"},
	},
	KindLTV: {
		{"loan", "loan amount"},
		{"value", "property value"},
	},
	KindLTC: {
		{"loan", "loan amount"},
		{"cost", "price plus rehab plus closing"},
	},
	KindCompoundGrowth: {
		{"principal", "starting amount"},
		{"rate", "annual growth rate, percent"},
		{"years", "number of years"},
	},
}

// optionalParams may be omitted and default to zero.
var optionalParams = map[Kind]map[string]bool{
	KindMortgagePayment: {"interest_only": true},
}

// Kinds lists the supported calculators in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCapRate, KindCashOnCash, KindDSCR, KindMortgagePayment,
		KindGRM, KindOER, KindLTV, KindLTC, KindCompoundGrowth,
	}
}

// Schema returns the parameters a calculator kind accepts.
func Schema(kind Kind) ([]ParamSpec, error) {
	spec, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return spec, nil
}

// NewCalculator binds params to the calculator of the given kind.
func NewCalculator(kind Kind, params map[string]float64) (Calculator, error) {
	spec, err := Schema(kind)
	if err != nil {
		return nil, err
	}
	for _, p := range spec {
		if _, ok := params[p.Name]; !ok && !optionalParams[kind][p.Name] {
			return nil, fmt.Errorf("%w: %s requires %q", ErrMissingParam, kind, p.Name)
		}
	}

	v := func(name string) float64 { return params[name] }
	switch kind {
	case KindCapRate:
		return CapRateCalc{NOI: v("noi"), Price: v("price")}, nil
	case KindCashOnCash:
		return CashOnCashCalc{AnnualCashFlow: v("cash_flow"), CashInvested: v("cash_invested")}, nil
	case KindDSCR:
		return DSCRCalc{Income: v("income"), AnnualDebtService: v("debt_service")}, nil
	case KindMortgagePayment:
		return MortgagePaymentCalc{
			Principal:    v("principal"),
			RatePercent:  v("rate"),
			Years:        int(v("years")),
			InterestOnly: v("interest_only") != 0,
		}, nil
	case KindGRM:
		return GRMCalc{Price: v("price"), AnnualGrossRent: v("annual_rent")}, nil
	case KindOER:
		return OERCalc{OperatingExpenses: v("expenses"), EffectiveGrossIncome: v("egi")}, nil
	case KindLTV:
		return LTVCalc{LoanAmount: v("loan"), Value: v("value")}, nil
	case KindLTC:
		return LTCCalc{LoanAmount: v("loan"), TotalCost: v("cost")}, nil
	case KindCompoundGrowth:
		return CompoundGrowthCalc{Principal: v("principal"), RatePercent: v("rate"), Years: int(v("years"))}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}
