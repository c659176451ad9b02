package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbett/rostergen/pkg/core/compliance"
	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

var testWindowStart = model.Date(2025, time.June, 2) // a Monday

func testWindowEnd() time.Time {
	return testWindowStart.AddDate(0, 0, 13)
}

// buildContext creates a context where every listed employee may work every
// given code on every day of the 2-week window, with flat daily demand.
func buildContext(t *testing.T, employees []*model.Employee, codes []string, dailyDemand int) *model.Context {
	t.Helper()

	sys := &model.Context{
		Employees:    map[string]*model.Employee{},
		Availability: model.Availability{},
		DemandByDate: model.Demand{},
	}
	days := model.DaysBetween(testWindowStart, testWindowEnd())
	for _, emp := range employees {
		sys.Employees[emp.ID] = emp
		byDay := map[time.Time][]string{}
		for _, day := range days {
			byDay[day] = append([]string(nil), codes...)
		}
		sys.Availability[emp.ID] = byDay
	}
	for _, day := range days {
		sys.DemandByDate[day] = map[model.SkillTag]int{model.SkillCounter: dailyDemand}
	}
	return sys
}

func fullTimer(id string) *model.Employee {
	return &model.Employee{
		ID:           id,
		Name:         "Employee " + id,
		ContractType: model.ContractFullTime,
		SkillTags:    []model.SkillTag{model.SkillCounter},
	}
}

func TestGenerateInitialRoster_FatalErrors(t *testing.T) {
	gen := New(rules.Default(), nil, time.Second, nil)

	_, err := gen.GenerateInitialRoster(context.Background(),
		&model.Context{Employees: map[string]*model.Employee{}},
		"store-1", testWindowStart, testWindowEnd())
	assert.ErrorIs(t, err, ErrNoEmployees)

	// Employees exist but nobody is available on any day.
	sys := buildContext(t, []*model.Employee{fullTimer("e1")}, nil, 1)
	_, err = gen.GenerateInitialRoster(context.Background(), sys,
		"store-1", testWindowStart, testWindowEnd())
	assert.ErrorIs(t, err, ErrNoShiftCodes)
}

func TestGenerateInitialRoster_NoDoubleAssignments(t *testing.T) {
	sys := buildContext(t, []*model.Employee{
		fullTimer("e1"), fullTimer("e2"), fullTimer("e3"),
	}, []string{"S", "1F", "2F"}, 2)

	gen := New(rules.Default(), nil, 2*time.Second, nil)
	roster, err := gen.GenerateInitialRoster(context.Background(), sys,
		"store-1", testWindowStart, testWindowEnd())
	require.NoError(t, err)
	require.NotEmpty(t, roster.Assignments)

	seen := map[string]bool{}
	for _, a := range roster.Assignments {
		key := a.EmployeeID + a.Date.Format("2006-01-02")
		assert.False(t, seen[key], "employee %s assigned twice on %s", a.EmployeeID, a.Date)
		seen[key] = true

		// Every assignment respects availability by construction.
		assert.True(t, sys.Availability.Allows(a.EmployeeID, a.Date, a.ShiftCode))
	}
}

func TestGenerateInitialRoster_MeetsDemandWithEnoughStaff(t *testing.T) {
	sys := buildContext(t, []*model.Employee{
		fullTimer("e1"), fullTimer("e2"), fullTimer("e3"), fullTimer("e4"),
	}, []string{"S"}, 2)

	gen := New(rules.Default(), nil, 2*time.Second, nil)
	roster, err := gen.GenerateInitialRoster(context.Background(), sys,
		"store-1", testWindowStart, testWindowEnd())
	require.NoError(t, err)

	perDay := map[time.Time]int{}
	for _, a := range roster.Assignments {
		perDay[a.Date]++
	}
	for _, day := range model.DaysBetween(testWindowStart, testWindowEnd()) {
		assert.GreaterOrEqual(t, perDay[day], 2, "under-covered day %s", day.Format("2006-01-02"))
	}
}

func TestGenerateInitialRoster_OutputPassesHardHourAndRestChecks(t *testing.T) {
	sys := buildContext(t, []*model.Employee{
		fullTimer("e1"), fullTimer("e2"), fullTimer("e3"),
	}, []string{"S", "1F", "2F"}, 2)

	catalog := rules.Default()
	gen := New(catalog, nil, 2*time.Second, nil)
	roster, err := gen.GenerateInitialRoster(context.Background(), sys,
		"store-1", testWindowStart, testWindowEnd())
	require.NoError(t, err)

	violations := compliance.NewOracle(catalog).Check(sys, roster)
	for _, v := range violations {
		assert.NotEqual(t, model.CodeMaxHoursExceeded, v.Code, "bi-weekly cap violated: %s", v.Message)
		assert.NotEqual(t, model.CodeInsufficientRest, v.Code, "rest rule violated: %s", v.Message)
	}
}

func TestGenerateInitialRoster_Deterministic(t *testing.T) {
	sys := buildContext(t, []*model.Employee{
		fullTimer("e1"), fullTimer("e2"), fullTimer("e3"),
	}, []string{"S", "2F", "SC"}, 2)

	gen := New(rules.Default(), nil, 2*time.Second, nil)
	first, err := gen.GenerateInitialRoster(context.Background(), sys,
		"store-1", testWindowStart, testWindowEnd())
	require.NoError(t, err)
	second, err := gen.GenerateInitialRoster(context.Background(), sys,
		"store-1", testWindowStart, testWindowEnd())
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
}

func TestHourUnits(t *testing.T) {
	assert.Equal(t, int64(17), hourUnits(8.5))
	assert.Equal(t, int64(24), hourUnits(12.0))
	assert.Equal(t, int64(152), hourUnits(76.0))
}
