package projection

import (
	"errors"
	"fmt"

	"underwriting/pkg/models"
)

// Axis is an assumption that a sensitivity run shifts.
type Axis string

const (
	AxisRentGrowth    Axis = "rent-growth"
	AxisExpenseGrowth Axis = "expense-growth"
	AxisAppreciation  Axis = "appreciation"
	AxisDiscountRate  Axis = "discount-rate"
	AxisVacancy       Axis = "vacancy"
	AxisInterestRate  Axis = "interest-rate"
)

var ErrUnknownAxis = errors.New("unknown sensitivity axis")

// Axes lists the supported sensitivity axes.
func Axes() []Axis {
	return []Axis{
		AxisRentGrowth, AxisExpenseGrowth, AxisAppreciation,
		AxisDiscountRate, AxisVacancy, AxisInterestRate,
	}
}

// SensitivityPoint is the outcome of one shifted run. Delta is in percentage
// points.
type SensitivityPoint struct {
	Axis    Axis    `json:"axis"`
	Delta   float64 `json:"delta"`
	Value   float64 `json:"value"` // assumption after the shift
	Metrics Metrics `json:"metrics"`
}

func shift(s *models.Scenario, axis Axis, delta float64) (float64, error) {
	var field *float64
	switch axis {
	case AxisRentGrowth:
		field = &s.RentGrowthRate
	case AxisExpenseGrowth:
		field = &s.ExpenseGrowthRate
	case AxisAppreciation:
		field = &s.AppreciationRate
	case AxisDiscountRate:
		field = &s.DiscountRate
	case AxisVacancy:
		field = &s.VacancyRate
	case AxisInterestRate:
		field = &s.InterestRate
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownAxis, axis)
	}
	*field += delta
	return *field, nil
}

// Sensitivity re-runs Analyze once per delta with one assumption shifted.
// The input scenario is not modified.
func (r *Runner) Sensitivity(s models.Scenario, axis Axis, deltas []float64) ([]SensitivityPoint, error) {
	points := make([]SensitivityPoint, 0, len(deltas))
	for _, d := range deltas {
		shifted := s.Clone()
		value, err := shift(&shifted, axis, d)
		if err != nil {
			return nil, err
		}
		points = append(points, SensitivityPoint{
			Axis:    axis,
			Delta:   d,
			Value:   value,
			Metrics: r.Analyze(shifted).Metrics,
		})
	}
	return points, nil
}
