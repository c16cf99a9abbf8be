package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"underwriting/pkg/core/calc"
	"underwriting/pkg/core/projection"
	"underwriting/pkg/core/utils"
	"underwriting/pkg/models"
)

func main() {
	mode := flag.String("mode", "calculate", "Mode: check or calculate")
	dataStr := flag.String("data", "", "Scenario JSON payload")
	dataFile := flag.String("file", "", "Read the scenario from a file instead of -data")
	refinance := flag.Bool("refinance", false, "Apply the scenario's cash-out refinance")
	basis := flag.String("dscr-basis", "noi", "DSCR numerator: noi or cash-flow")
	flag.Parse()

	if err := run(os.Stdout, *mode, *dataStr, *dataFile, *refinance, *basis); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, mode, dataStr, dataFile string, refinance bool, basis string) error {
	if dataFile != "" {
		raw, err := os.ReadFile(dataFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dataFile, err)
		}
		dataStr = string(raw)
	}
	if dataStr == "" {
		return fmt.Errorf("no data provided")
	}

	var s models.Scenario
	if _, err := utils.ParseDocument(dataStr, &s); err != nil {
		return fmt.Errorf("failed to parse scenario: %w", err)
	}

	switch mode {
	case "check":
		warnings := runChecks(s)
		if len(warnings) == 0 {
			fmt.Fprintln(out, "Success: all inputs within expected ranges")
			return nil
		}
		for _, w := range warnings {
			fmt.Fprintf(out, "[WARNING] %s\n", w)
		}
		return nil
	case "calculate":
		return runCalculations(out, s, refinance, basis)
	}
	return fmt.Errorf("unknown mode: %s", mode)
}

// runChecks flags inputs the calculations accept but that are probably mistakes.
func runChecks(s models.Scenario) []string {
	var warnings []string

	percents := []struct {
		name  string
		value float64
	}{
		{"vacancyRate", s.VacancyRate},
		{"interestRate", s.InterestRate},
		{"managementFee", s.ManagementFee},
		{"appreciationRate", s.AppreciationRate},
		{"rentGrowthRate", s.RentGrowthRate},
		{"expenseGrowthRate", s.ExpenseGrowthRate},
		{"discountRate", s.DiscountRate},
		{"sellingCosts", s.SellingCosts},
		{"refiRate", s.RefiRate},
		{"refiLtv", s.RefiLTV},
	}
	for _, p := range percents {
		if p.value < 0 || p.value > 100 {
			warnings = append(warnings, fmt.Sprintf("%s = %g is outside 0-100 percent", p.name, p.value))
		}
	}

	if s.PurchasePrice <= 0 {
		warnings = append(warnings, "purchasePrice is not positive; price ratios will be 0")
	}
	if s.LoanAmount < 0 {
		warnings = append(warnings, fmt.Sprintf("loanAmount = %g is negative", s.LoanAmount))
	}
	if ltv := calc.LTV(s.LoanAmount, s.PurchasePrice); ltv > 100 {
		warnings = append(warnings, fmt.Sprintf("loan exceeds price (LTV %.2f%%)", ltv))
	}
	if s.LoanType != "" && !s.LoanType.Valid() {
		warnings = append(warnings, fmt.Sprintf("loanType %q is unknown; amortizing as fixed", s.LoanType))
	}
	if s.LoanAmount > 0 && s.TermYears <= 0 {
		warnings = append(warnings, "termYears is not positive; payment will be 0")
	}
	if s.HoldingPeriod < 1 {
		warnings = append(warnings, fmt.Sprintf("holdingPeriod = %d; projecting 1 year", s.HoldingPeriod))
	}
	if s.RefiYear != 0 && !projection.HasRefinance(s) {
		warnings = append(warnings, fmt.Sprintf("refiYear = %d is ignored; it must fall inside the hold with refiLtv > 0", s.RefiYear))
	}
	return warnings
}

func runCalculations(out io.Writer, s models.Scenario, refinance bool, basis string) error {
	b, err := projection.ParseDSCRBasis(basis)
	if err != nil {
		return err
	}
	runner := projection.NewRunner(projection.WithDSCRBasis(b))

	a := runner.Analyze(s)
	if refinance {
		a = runner.AnalyzeWithRefinance(s)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Metrics)
}
