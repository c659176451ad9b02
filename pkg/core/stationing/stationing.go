// Package stationing assigns a station to each shift assignment after the
// roster is generated, matching per-day station demand against employee
// skills.
package stationing

import (
	"sort"
	"time"

	"github.com/jcorbett/rostergen/pkg/core/model"
)

// stationOrder fixes the tie-break order when an employee could fill more
// than one understaffed station.
var stationOrder = []model.SkillTag{
	model.SkillKitchen,
	model.SkillCounter,
	model.SkillCafe,
	model.SkillDessert,
	model.SkillDelivery,
}

// Assign returns a new roster whose assignments carry stations where demand
// allows. Two passes per day: specialists claim a matching station first,
// then anyone fills what is left. Assignments that find no open station keep
// an empty station tag (managers typically end up here).
func Assign(sys *model.Context, roster *model.Roster) *model.Roster {
	assignments := make([]model.ShiftAssignment, len(roster.Assignments))
	copy(assignments, roster.Assignments)

	byDate := make(map[time.Time][]int)
	for i, a := range assignments {
		day := model.Day(a.Date)
		byDate[day] = append(byDate[day], i)
	}

	days := make([]time.Time, 0, len(byDate))
	for day := range byDate {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for _, day := range days {
		remaining := make(map[model.SkillTag]int)
		for station, n := range sys.DemandByDate[day] {
			remaining[station] = n
		}

		indices := byDate[day]
		sort.Slice(indices, func(i, j int) bool {
			return assignments[indices[i]].EmployeeID < assignments[indices[j]].EmployeeID
		})

		var unplaced []int
		for _, idx := range indices {
			emp, ok := sys.Employees[assignments[idx].EmployeeID]
			if !ok {
				unplaced = append(unplaced, idx)
				continue
			}
			placed := false
			for _, skill := range emp.SkillTags {
				if remaining[skill] > 0 {
					assignments[idx].Station = skill
					remaining[skill]--
					placed = true
					break
				}
			}
			if !placed {
				unplaced = append(unplaced, idx)
			}
		}

		for _, idx := range unplaced {
			for _, station := range stationOrder {
				if remaining[station] > 0 {
					assignments[idx].Station = station
					remaining[station]--
					break
				}
			}
		}
	}

	return &model.Roster{
		StoreID:     roster.StoreID,
		StartDate:   roster.StartDate,
		EndDate:     roster.EndDate,
		Assignments: assignments,
	}
}
