package coverage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

var evalStart = model.Date(2025, time.June, 2) // a Monday

func evalContext(demandPerDay int, emps ...*model.Employee) *model.Context {
	sys := &model.Context{
		Employees:    map[string]*model.Employee{},
		DemandByDate: model.Demand{},
	}
	for _, e := range emps {
		sys.Employees[e.ID] = e
	}
	for _, day := range model.DaysBetween(evalStart, evalStart.AddDate(0, 0, 6)) {
		sys.DemandByDate[day] = map[model.SkillTag]int{model.SkillCounter: demandPerDay}
	}
	return sys
}

func staff(id string, tags ...model.SkillTag) *model.Employee {
	return &model.Employee{ID: id, Name: id, ContractType: model.ContractFullTime, SkillTags: tags}
}

func shift(empID string, dayOffset int, code string) model.ShiftAssignment {
	return model.ShiftAssignment{
		EmployeeID: empID,
		Date:       evalStart.AddDate(0, 0, dayOffset),
		ShiftCode:  code,
	}
}

func TestEvaluate_FullCoverage(t *testing.T) {
	sys := evalContext(1, staff("e1", model.SkillCounter))
	var assignments []model.ShiftAssignment
	for i := 0; i < 7; i++ {
		// 3F runs 08:00-20:00 and so touches both lunch and dinner.
		assignments = append(assignments, shift("e1", i, "3F"))
	}
	roster := &model.Roster{Assignments: assignments}

	m := NewEvaluator(rules.Default()).Evaluate(sys, roster, evalStart, evalStart.AddDate(0, 0, 6))
	assert.InDelta(t, 1.0, m.CoverageScore, 1e-9)
	assert.InDelta(t, 1.0, m.PeakCoverageScore, 1e-9)
	// Same staffing every day: weekend uplift ratio is exactly 1.
	assert.InDelta(t, 1.0, m.FairnessScore, 1e-9)
	// No managers anywhere.
	assert.Zero(t, m.ManagerCoverageScore)
	assert.Zero(t, m.ManagerPeakTwoCoverageScore)
}

func TestEvaluate_ShortfallAndPeaks(t *testing.T) {
	sys := evalContext(2, staff("e1", model.SkillCounter))
	var assignments []model.ShiftAssignment
	for i := 0; i < 7; i++ {
		// S covers lunch but ends 15:00, before dinner.
		assignments = append(assignments, shift("e1", i, "S"))
	}
	roster := &model.Roster{Assignments: assignments}

	m := NewEvaluator(rules.Default()).Evaluate(sys, roster, evalStart, evalStart.AddDate(0, 0, 6))
	// 1 of 2 demanded heads per day.
	assert.InDelta(t, 0.5, m.CoverageScore, 1e-9)
	// Lunch shortfall 1, dinner shortfall 2, of 4 peak heads per day.
	assert.InDelta(t, 0.25, m.PeakCoverageScore, 1e-9)
}

func TestEvaluate_ManagerPresence(t *testing.T) {
	sys := evalContext(1,
		staff("m1", model.SkillManager, model.SkillCounter),
		staff("m2", model.SkillManager, model.SkillCounter),
	)

	// Managers only on the first day: one opening 3F plus one closing 2F, both
	// covering lunch or dinner.
	roster := &model.Roster{Assignments: []model.ShiftAssignment{
		shift("m1", 0, "S"),  // opening window, lunch
		shift("m2", 0, "2F"), // closing window, lunch+dinner
	}}

	m := NewEvaluator(rules.Default()).Evaluate(sys, roster, evalStart, evalStart.AddDate(0, 0, 6))
	assert.InDelta(t, 1.0/7.0, m.ManagerCoverageScore, 1e-9)
	assert.InDelta(t, 1.0/7.0, m.ManagerOpeningCoverage, 1e-9)
	assert.InDelta(t, 1.0/7.0, m.ManagerClosingCoverage, 1e-9)
	// Two managers at lunch on day one, one window of 14.
	assert.InDelta(t, 1.0/14.0, m.ManagerPeakTwoCoverageScore, 1e-9)
}

func TestEvaluate_ManagerTemplateRaisesTheBar(t *testing.T) {
	sys := evalContext(1,
		staff("m1", model.SkillManager),
		staff("m2", model.SkillManager),
	)
	// Mondays expect two managers on duty; one is not enough.
	sys.ManagerTemplateByWeekday = map[int]int{0: 2}

	single := &model.Roster{Assignments: []model.ShiftAssignment{shift("m1", 0, "S")}}
	m := NewEvaluator(rules.Default()).Evaluate(sys, single, evalStart, evalStart.AddDate(0, 0, 6))
	assert.Zero(t, m.ManagerCoverageScore)

	double := &model.Roster{Assignments: []model.ShiftAssignment{
		shift("m1", 0, "S"), shift("m2", 0, "2F"),
	}}
	m = NewEvaluator(rules.Default()).Evaluate(sys, double, evalStart, evalStart.AddDate(0, 0, 6))
	assert.InDelta(t, 1.0/7.0, m.ManagerCoverageScore, 1e-9)
}

func TestEvaluate_WeekendUplift(t *testing.T) {
	sys := evalContext(1, staff("e1"), staff("e2"))
	var assignments []model.ShiftAssignment
	for i := 0; i < 5; i++ { // Mon-Fri single staffed
		assignments = append(assignments, shift("e1", i, "S"))
	}
	for i := 5; i < 7; i++ { // Sat-Sun double staffed
		assignments = append(assignments, shift("e1", i, "S"), shift("e2", i, "S"))
	}
	roster := &model.Roster{Assignments: assignments}

	m := NewEvaluator(rules.Default()).Evaluate(sys, roster, evalStart, evalStart.AddDate(0, 0, 6))
	assert.InDelta(t, 2.0, m.FairnessScore, 1e-9)
}
