package costing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

var costStart = model.Date(2025, time.June, 2) // a Monday

func costContext(emps ...*model.Employee) *model.Context {
	sys := &model.Context{Employees: map[string]*model.Employee{}}
	for _, e := range emps {
		sys.Employees[e.ID] = e
	}
	return sys
}

func shift(empID string, dayOffset int, code string) model.ShiftAssignment {
	return model.ShiftAssignment{
		EmployeeID: empID,
		Date:       costStart.AddDate(0, 0, dayOffset),
		ShiftCode:  code,
	}
}

func TestEstimate_BaseRates(t *testing.T) {
	sys := costContext(
		&model.Employee{ID: "ft", ContractType: model.ContractFullTime},
		&model.Employee{ID: "c", ContractType: model.ContractCasual},
	)
	est := NewEstimator(rules.Default(), DefaultRates())

	// Weekday S shifts, no loadings: 8.5h at the contract's base rate.
	cost := est.Estimate(sys, &model.Roster{Assignments: []model.ShiftAssignment{
		shift("ft", 0, "S"),
		shift("c", 1, "S"),
	}})
	assert.InDelta(t, 8.5*26.0+8.5*32.0, cost, 1e-9)
}

func TestEstimate_WeekendAndLateNightLoadings(t *testing.T) {
	sys := costContext(&model.Employee{ID: "ft", ContractType: model.ContractFullTime})
	est := NewEstimator(rules.Default(), DefaultRates())

	// Saturday S: weekend loading only.
	weekend := est.Estimate(sys, &model.Roster{Assignments: []model.ShiftAssignment{
		shift("ft", 5, "S"),
	}})
	assert.InDelta(t, 8.5*26.0*1.25, weekend, 1e-9)

	// Weekday 2F ends 23:00: late-night loading only.
	late := est.Estimate(sys, &model.Roster{Assignments: []model.ShiftAssignment{
		shift("ft", 0, "2F"),
	}})
	assert.InDelta(t, 9.0*26.0*1.15, late, 1e-9)

	// Sunday 2F: both loadings stack.
	both := est.Estimate(sys, &model.Roster{Assignments: []model.ShiftAssignment{
		shift("ft", 6, "2F"),
	}})
	assert.InDelta(t, 9.0*26.0*1.25*1.15, both, 1e-9)
}

func TestEstimate_UnknownEmployeeAndCode(t *testing.T) {
	sys := costContext(&model.Employee{ID: "ft", ContractType: model.ContractFullTime})
	est := NewEstimator(rules.Default(), DefaultRates())

	// Unknown employees are skipped entirely; unknown codes cost the default
	// duration with no late-night loading.
	cost := est.Estimate(sys, &model.Roster{Assignments: []model.ShiftAssignment{
		shift("ghost", 0, "S"),
		shift("ft", 0, "XX"),
	}})
	assert.InDelta(t, rules.DefaultShiftHours*26.0, cost, 1e-9)
}

func TestNewEstimator_ZeroRatesFallBackToDefaults(t *testing.T) {
	sys := costContext(&model.Employee{ID: "ft", ContractType: model.ContractFullTime})
	est := NewEstimator(rules.Default(), Rates{})

	cost := est.Estimate(sys, &model.Roster{Assignments: []model.ShiftAssignment{
		shift("ft", 0, "S"),
	}})
	assert.InDelta(t, 8.5*26.0, cost, 1e-9)
}
