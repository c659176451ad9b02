package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

var rebalanceStart = model.Date(2025, time.June, 2) // a Monday

func buildContext(emps ...*model.Employee) *model.Context {
	sys := &model.Context{
		Employees:    map[string]*model.Employee{},
		Availability: model.Availability{},
	}
	days := model.DaysBetween(rebalanceStart, rebalanceStart.AddDate(0, 0, 13))
	for _, e := range emps {
		sys.Employees[e.ID] = e
		byDay := map[time.Time][]string{}
		for _, day := range days {
			byDay[day] = []string{"S", "1F", "2F", "3F", "SC"}
		}
		sys.Availability[e.ID] = byDay
	}
	return sys
}

func employee(id string, ct model.ContractType) *model.Employee {
	return &model.Employee{ID: id, Name: "Employee " + id, ContractType: ct}
}

func rosterWith(assignments ...model.ShiftAssignment) *model.Roster {
	return &model.Roster{
		StoreID:     "store-1",
		StartDate:   rebalanceStart,
		EndDate:     rebalanceStart.AddDate(0, 0, 13),
		Assignments: assignments,
	}
}

func shift(empID string, dayOffset int, code string) model.ShiftAssignment {
	return model.ShiftAssignment{
		EmployeeID: empID,
		Date:       rebalanceStart.AddDate(0, 0, dayOffset),
		ShiftCode:  code,
		StoreID:    "store-1",
	}
}

func totalHours(catalog *rules.Catalog, roster *model.Roster, empID string) float64 {
	total := 0.0
	for _, a := range roster.Assignments {
		if a.EmployeeID == empID {
			total += catalog.Duration(a.ShiftCode)
		}
	}
	return total
}

func TestRebalanceHours_BalancedRosterIsUntouched(t *testing.T) {
	catalog := rules.Default()
	sys := buildContext(
		employee("e1", model.ContractCasual),
		employee("e2", model.ContractCasual),
	)
	// Both casuals sit comfortably inside the 16-48h band.
	roster := rosterWith(
		shift("e1", 0, "S"), shift("e1", 2, "S"), shift("e1", 4, "S"),
		shift("e2", 1, "S"), shift("e2", 3, "S"), shift("e2", 5, "S"),
	)

	res := New(catalog, 0, nil)
	out, logs := res.RebalanceHours(sys, roster)

	assert.Equal(t, roster.Assignments, out.Assignments)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "no overloaded employees remaining")
}

func TestRebalanceHours_MovesShiftsToUnderloadedCandidate(t *testing.T) {
	catalog := rules.Default()
	sys := buildContext(
		employee("e1", model.ContractCasual),
		employee("e2", model.ContractCasual),
	)
	// e1 carries 7 x 12h = 84h, way above the 48h casual cap; e2 has nothing.
	var assignments []model.ShiftAssignment
	for i := 0; i < 7; i++ {
		assignments = append(assignments, shift("e1", i*2, "3F"))
	}
	roster := rosterWith(assignments...)

	res := New(catalog, 0, nil)
	out, logs := res.RebalanceHours(sys, roster)

	bounds, _ := catalog.ContractBounds(model.ContractCasual, rules.HorizonBiWeekly)
	assert.LessOrEqual(t, totalHours(catalog, out, "e1"), bounds.Max)
	assert.Greater(t, totalHours(catalog, out, "e2"), 0.0)

	// Total work is conserved: shifts move, they don't disappear.
	assert.Len(t, out.Assignments, len(roster.Assignments))
	assert.Equal(t, 84.0, totalHours(catalog, out, "e1")+totalHours(catalog, out, "e2"))

	// The input roster is never mutated.
	for _, a := range roster.Assignments {
		assert.Equal(t, "e1", a.EmployeeID)
	}

	assert.NotEmpty(t, logs)
	assert.Contains(t, logs[0], "Reassigning 3F on")
}

func TestRebalanceHours_StopsWhenNoCandidateExists(t *testing.T) {
	catalog := rules.Default()
	// e2 exists but is never available, so nothing can move.
	sys := buildContext(employee("e1", model.ContractCasual))
	sys.Employees["e2"] = employee("e2", model.ContractCasual)
	sys.Availability["e2"] = map[time.Time][]string{}

	var assignments []model.ShiftAssignment
	for i := 0; i < 7; i++ {
		assignments = append(assignments, shift("e1", i*2, "3F"))
	}
	roster := rosterWith(assignments...)

	res := New(catalog, 0, nil)
	out, logs := res.RebalanceHours(sys, roster)

	assert.Equal(t, roster.Assignments, out.Assignments)
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[len(logs)-1], "no feasible reassignments found")
}

func TestRebalanceHours_RespectsIterationCap(t *testing.T) {
	catalog := rules.Default()
	sys := buildContext(
		employee("e1", model.ContractCasual),
		employee("e2", model.ContractCasual),
	)
	var assignments []model.ShiftAssignment
	for i := 0; i < 7; i++ {
		assignments = append(assignments, shift("e1", i*2, "3F"))
	}
	roster := rosterWith(assignments...)

	// One iteration moves at most one shift per overloaded employee.
	res := New(catalog, 1, nil)
	out, logs := res.RebalanceHours(sys, roster)

	assert.Equal(t, 72.0, totalHours(catalog, out, "e1"))
	assert.Equal(t, 12.0, totalHours(catalog, out, "e2"))
	assert.Len(t, logs, 1)
}

func TestRebalanceHours_PrefersUnderMinimumCandidate(t *testing.T) {
	catalog := rules.Default()
	sys := buildContext(
		employee("e1", model.ContractCasual),
		employee("e2", model.ContractCasual), // in bounds
		employee("e3", model.ContractCasual), // under the 16h minimum
	)
	var assignments []model.ShiftAssignment
	for i := 0; i < 5; i++ {
		assignments = append(assignments, shift("e1", i*2, "3F")) // 60h > 48h cap
	}
	// e2 is inside the band, e3 below the minimum.
	assignments = append(assignments,
		shift("e2", 1, "S"), shift("e2", 3, "S"), shift("e2", 5, "S"),
		shift("e3", 1, "S"),
	)
	roster := rosterWith(assignments...)

	res := New(catalog, 0, nil)
	out, _ := res.RebalanceHours(sys, roster)

	// The under-minimum employee gains hours before the in-bounds one.
	assert.Greater(t, totalHours(catalog, out, "e3"), 8.5)
	assert.Equal(t, 25.5, totalHours(catalog, out, "e2"))
}

func TestRebalanceHours_GivesAwayMostRecentShiftFirst(t *testing.T) {
	catalog := rules.Default()
	sys := buildContext(
		employee("e1", model.ContractCasual),
		employee("e2", model.ContractCasual),
	)
	var assignments []model.ShiftAssignment
	for i := 0; i < 5; i++ {
		assignments = append(assignments, shift("e1", i*2, "3F"))
	}
	roster := rosterWith(assignments...)

	res := New(catalog, 1, nil)
	out, logs := res.RebalanceHours(sys, roster)

	require.Len(t, logs, 1)
	lastDay := rebalanceStart.AddDate(0, 0, 8)
	assert.Contains(t, logs[0], lastDay.Format("2006-01-02"))

	moved := 0
	for _, a := range out.Assignments {
		if a.EmployeeID == "e2" {
			moved++
			assert.Equal(t, lastDay, a.Date)
		}
	}
	assert.Equal(t, 1, moved)
}
