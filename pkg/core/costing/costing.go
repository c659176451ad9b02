// Package costing estimates labour spend for a roster. Rates and loadings
// are illustrative, not award-exact; the point is that the pipeline is
// cost-aware, not legally precise.
package costing

import (
	"time"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

// Rates holds base hourly rates (AUD) per contract type plus penalty
// loadings.
type Rates struct {
	BaseHourly       map[model.ContractType]float64
	WeekendLoading   float64 // multiplier on Sat/Sun
	LateNightLoading float64 // multiplier when the shift ends at/after 22:00
}

// DefaultRates mirrors the usual casual-loading shape: casuals cost more per
// hour than permanents.
func DefaultRates() Rates {
	return Rates{
		BaseHourly: map[model.ContractType]float64{
			model.ContractFullTime: 26.0,
			model.ContractPartTime: 28.0,
			model.ContractCasual:   32.0,
		},
		WeekendLoading:   1.25,
		LateNightLoading: 1.15,
	}
}

// Estimator prices rosters.
type Estimator struct {
	catalog *rules.Catalog
	rates   Rates
}

// NewEstimator creates an estimator; zero-valued rates fall back to
// DefaultRates.
func NewEstimator(catalog *rules.Catalog, rates Rates) *Estimator {
	if rates.BaseHourly == nil {
		rates = DefaultRates()
	}
	return &Estimator{catalog: catalog, rates: rates}
}

// Estimate returns the total cost of the roster. Assignments for unknown
// employees are skipped; unknown shift codes are priced at the catalog's
// default duration with no late-night loading.
func (e *Estimator) Estimate(sys *model.Context, roster *model.Roster) float64 {
	total := 0.0
	for _, a := range roster.Assignments {
		emp, ok := sys.Employees[a.EmployeeID]
		if !ok {
			continue
		}

		hours := e.catalog.Duration(a.ShiftCode)

		rate, ok := e.rates.BaseHourly[emp.ContractType]
		if !ok {
			rate = e.rates.BaseHourly[model.ContractCasual] // conservative default
		}

		multiplier := 1.0
		if wd := a.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			multiplier *= e.rates.WeekendLoading
		}
		if _, end, known := e.catalog.Window(a.ShiftCode); known && end >= rules.ClosingCutoff {
			multiplier *= e.rates.LateNightLoading
		}

		total += hours * rate * multiplier
	}
	return total
}
