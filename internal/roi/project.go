// Package roi projects the savings of automating manual work for a company
// of a given size and industry.
package roi

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ailutions/ailutions-site/internal/apperr"
)

const (
	WorkingDaysPerYear  = 250
	WorkingDaysPerMonth = 22
	HoursPerDay         = 8

	errorReductionShare       = 0.15
	productivityIncreaseShare = 0.20
	projectionYears           = 3

	// maxMagnitude bounds every projected value so it survives JSON and the
	// integer display rounding exactly.
	maxMagnitude = 1e15
)

type Inputs struct {
	Employees            int      `json:"employees" validate:"gte=1,lte=1000000"`
	AvgAnnualSalary      float64  `json:"avgAnnualSalary" validate:"gt=0,lte=100000000"`
	ManualHoursPerDay    float64  `json:"manualHoursPerDay" validate:"gt=0,lte=24"`
	AutomationPercentage float64  `json:"automationPercentage" validate:"gt=0,lte=100"`
	ImplementationCost   float64  `json:"implementationCost" validate:"gt=0,lte=1000000000000"`
	Industry             Industry `json:"industry" validate:"industry"`
}

type Result struct {
	HourlyRate           float64 `json:"hourlyRate"`
	HoursAutomatedPerDay float64 `json:"hoursAutomatedPerDay"`
	DailySavings         float64 `json:"dailySavings"`
	MonthlySavings       float64 `json:"monthlySavings"`
	YearlySavings        float64 `json:"yearlySavings"`
	PaybackMonths        float64 `json:"paybackMonths"`
	ThreeYearSavings     float64 `json:"threeYearSavings"`
	NetROI               float64 `json:"netROI"`
	ROIPercentage        float64 `json:"roiPercentage"`
	ErrorReduction       float64 `json:"errorReduction"`
	ProductivityIncrease float64 `json:"productivityIncrease"`
	TotalAnnualBenefit   float64 `json:"totalAnnualBenefit"`
}

// Display is Result rounded for presentation: money to whole dollars,
// payback to one decimal.
type Display struct {
	HourlyRate           int64   `json:"hourlyRate"`
	DailySavings         int64   `json:"dailySavings"`
	MonthlySavings       int64   `json:"monthlySavings"`
	YearlySavings        int64   `json:"yearlySavings"`
	PaybackMonths        float64 `json:"paybackMonths"`
	ThreeYearSavings     int64   `json:"threeYearSavings"`
	NetROI               int64   `json:"netROI"`
	ROIPercentage        int64   `json:"roiPercentage"`
	ErrorReduction       int64   `json:"errorReduction"`
	ProductivityIncrease int64   `json:"productivityIncrease"`
	TotalAnnualBenefit   int64   `json:"totalAnnualBenefit"`
}

// ErrOutOfRange is the cause of the validation error returned when valid
// inputs still project to a non-finite or unreportable value.
var ErrOutOfRange = errors.New("roi: projection out of range")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("industry", func(fl validator.FieldLevel) bool {
		return Industry(fl.Field().String()).Valid()
	})
	return v
}

// Validate rejects inputs that would make the projection degenerate
// (zero cost, zero salary, empty headcount) or fall outside a working day.
func (in Inputs) Validate() error {
	if err := validate.Struct(in); err != nil {
		return apperr.Validation(err)
	}
	return nil
}

func Project(in Inputs) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	hourly := in.AvgAnnualSalary / (WorkingDaysPerYear * HoursPerDay)
	automated := in.ManualHoursPerDay * in.AutomationPercentage / 100
	daily := float64(in.Employees) * automated * hourly * in.Industry.Multiplier()
	yearly := daily * WorkingDaysPerYear
	monthly := daily * WorkingDaysPerMonth

	threeYear := yearly * projectionYears
	net := threeYear - in.ImplementationCost
	errRed := errorReductionShare * yearly
	prod := productivityIncreaseShare * yearly

	res := Result{
		HourlyRate:           hourly,
		HoursAutomatedPerDay: automated,
		DailySavings:         daily,
		MonthlySavings:       monthly,
		YearlySavings:        yearly,
		PaybackMonths:        in.ImplementationCost / monthly,
		ThreeYearSavings:     threeYear,
		NetROI:               net,
		ROIPercentage:        100 * net / in.ImplementationCost,
		ErrorReduction:       errRed,
		ProductivityIncrease: prod,
		TotalAnnualBenefit:   yearly + errRed + prod,
	}
	if err := res.checkRange(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// checkRange rejects projections that overflowed or grew past what a report
// can show, e.g. a near-zero automated share that sends payback to +Inf.
func (r Result) checkRange() error {
	fields := map[string]float64{
		"hourlyRate":           r.HourlyRate,
		"hoursAutomatedPerDay": r.HoursAutomatedPerDay,
		"dailySavings":         r.DailySavings,
		"monthlySavings":       r.MonthlySavings,
		"yearlySavings":        r.YearlySavings,
		"paybackMonths":        r.PaybackMonths,
		"threeYearSavings":     r.ThreeYearSavings,
		"netROI":               r.NetROI,
		"roiPercentage":        r.ROIPercentage,
		"errorReduction":       r.ErrorReduction,
		"productivityIncrease": r.ProductivityIncrease,
		"totalAnnualBenefit":   r.TotalAnnualBenefit,
	}
	for _, name := range sortedNames(fields) {
		v := fields[name]
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxMagnitude {
			return apperr.InvalidArgument(fmt.Sprintf("inputs produce an out-of-range %s", name), ErrOutOfRange)
		}
	}
	return nil
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r Result) Display() Display {
	return Display{
		HourlyRate:           round(r.HourlyRate),
		DailySavings:         round(r.DailySavings),
		MonthlySavings:       round(r.MonthlySavings),
		YearlySavings:        round(r.YearlySavings),
		PaybackMonths:        math.Round(r.PaybackMonths*10) / 10,
		ThreeYearSavings:     round(r.ThreeYearSavings),
		NetROI:               round(r.NetROI),
		ROIPercentage:        round(r.ROIPercentage),
		ErrorReduction:       round(r.ErrorReduction),
		ProductivityIncrease: round(r.ProductivityIncrease),
		TotalAnnualBenefit:   round(r.TotalAnnualBenefit),
	}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
