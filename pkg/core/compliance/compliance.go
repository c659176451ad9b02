// Package compliance is the canonical judge of roster legality. Check is a
// pure function over (context, roster); it holds no state and can be re-run
// at any point, so it validates both generator output and resolver output.
package compliance

import (
	"fmt"
	"sort"
	"time"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

// Oracle checks rosters against the shared rule catalog.
type Oracle struct {
	catalog *rules.Catalog
}

// NewOracle creates an oracle backed by the given catalog.
func NewOracle(catalog *rules.Catalog) *Oracle {
	return &Oracle{catalog: catalog}
}

// HoursByEmployee aggregates catalog hours per employee over the whole
// roster. Unknown shift codes contribute the catalog's default duration.
func (o *Oracle) HoursByEmployee(roster *model.Roster) map[string]float64 {
	hours := make(map[string]float64)
	for _, a := range roster.Assignments {
		hours[a.EmployeeID] += o.catalog.Duration(a.ShiftCode)
	}
	return hours
}

// Check runs every compliance rule in a fixed order and returns the ordered
// violation list. Employees are visited in ascending ID and assignments in
// (employee, date, code) order so identical inputs always produce an
// identical list.
func (o *Oracle) Check(sys *model.Context, roster *model.Roster) []model.Violation {
	var violations []model.Violation

	employeeIDs := sys.SortedEmployeeIDs()
	assignments := roster.SortedAssignments()

	// 1) Bi-weekly hours vs contract bounds.
	hoursByEmp := o.HoursByEmployee(roster)
	for _, id := range employeeIDs {
		emp := sys.Employees[id]
		bounds, ok := o.catalog.ContractBounds(emp.ContractType, rules.HorizonBiWeekly)
		if !ok {
			continue
		}
		total := hoursByEmp[id]

		if total < bounds.Min {
			violations = append(violations, model.Violation{
				Severity: model.SeveritySoft,
				Code:     model.CodeMinHoursNotMet,
				Message: fmt.Sprintf(
					"Employee %s (%s) has %.1fh, below min %.1fh for contract type %s.",
					emp.Name, emp.ID, total, bounds.Min, emp.ContractType),
				EmployeeID: id,
			})
		}
		if total > bounds.Max {
			violations = append(violations, model.Violation{
				Severity: model.SeverityHard,
				Code:     model.CodeMaxHoursExceeded,
				Message: fmt.Sprintf(
					"Employee %s (%s) has %.1fh, above max %.1fh for contract type %s.",
					emp.Name, emp.ID, total, bounds.Max, emp.ContractType),
				EmployeeID: id,
			})
		}
	}

	// 2) Weekly hours, bucketed into 7-day windows from roster start. Only
	// buckets the employee actually worked in are checked, and weekly-max
	// breaches inside the tolerance band are tolerated by design (the
	// optimiser still penalises them).
	weeklyHours := make(map[string]map[int]float64)
	for _, a := range assignments {
		if a.Date.Before(roster.StartDate) {
			continue
		}
		week := int(model.Day(a.Date).Sub(model.Day(roster.StartDate)).Hours()) / 24 / 7
		byWeek, ok := weeklyHours[a.EmployeeID]
		if !ok {
			byWeek = make(map[int]float64)
			weeklyHours[a.EmployeeID] = byWeek
		}
		byWeek[week] += o.catalog.Duration(a.ShiftCode)
	}

	for _, id := range employeeIDs {
		emp := sys.Employees[id]
		bounds, ok := o.catalog.ContractBounds(emp.ContractType, rules.HorizonWeekly)
		if !ok {
			continue
		}
		for _, week := range sortedWeeks(weeklyHours[id]) {
			total := weeklyHours[id][week]

			if total < bounds.Min {
				violations = append(violations, model.Violation{
					Severity: model.SeveritySoft,
					Code:     model.CodeWeeklyMinHoursNotMet,
					Message: fmt.Sprintf(
						"Employee %s (%s) has %.1fh in week %d, below weekly min %.1fh for contract type %s.",
						emp.Name, emp.ID, total, week+1, bounds.Min, emp.ContractType),
					EmployeeID: id,
				})
			}
			if total > bounds.Max && total-bounds.Max > rules.WeeklyOvertimeToleranceHours {
				violations = append(violations, model.Violation{
					Severity: model.SeveritySoft,
					Code:     model.CodeWeeklyMaxHoursExceeded,
					Message: fmt.Sprintf(
						"Employee %s (%s) has %.1fh in week %d, above weekly max %.1fh for contract type %s.",
						emp.Name, emp.ID, total, week+1, bounds.Max, emp.ContractType),
					EmployeeID: id,
				})
			}
		}
	}

	// 3) Minimum shift length for casuals. Unknown templates are skipped
	// here; the default-duration leniency applies to hour totals only.
	for _, a := range assignments {
		emp, ok := sys.Employees[a.EmployeeID]
		if !ok || emp.ContractType != model.ContractCasual {
			continue
		}
		tpl, known := o.catalog.Template(a.ShiftCode)
		if !known {
			continue
		}
		if tpl.Hours < rules.MinCasualShiftHours {
			date := a.Date
			violations = append(violations, model.Violation{
				Severity: model.SeverityHard,
				Code:     model.CodeMinShiftLengthCasual,
				Message: fmt.Sprintf(
					"Employee %s (%s) has a %.1fh shift on %s, below %.1fh minimum for casuals.",
					emp.Name, emp.ID, tpl.Hours, date.Format("2006-01-02"), rules.MinCasualShiftHours),
				EmployeeID: a.EmployeeID,
				Date:       &date,
			})
		}
	}

	// 4) Rest between consecutive calendar days. Gaps of more than one day
	// are never checked; unknown templates count as a safe 24h rest.
	for _, id := range employeeIDs {
		emp := sys.Employees[id]
		empAssignments := roster.AssignmentsForEmployee(id)
		for i := 0; i+1 < len(empAssignments); i++ {
			prev, next := empAssignments[i], empAssignments[i+1]
			if daysBetween(prev.Date, next.Date) != 1 {
				continue
			}
			rest := o.catalog.RestHoursBetween(prev.ShiftCode, next.ShiftCode)
			if rest < rules.MinRestHours {
				date := next.Date
				violations = append(violations, model.Violation{
					Severity: model.SeverityHard,
					Code:     model.CodeInsufficientRest,
					Message: fmt.Sprintf(
						"Employee %s (%s) has only %.1fh rest between %s (%s) and %s (%s), below %.1fh.",
						emp.Name, emp.ID, rest,
						prev.Date.Format("2006-01-02"), prev.ShiftCode,
						next.Date.Format("2006-01-02"), next.ShiftCode,
						rules.MinRestHours),
					EmployeeID: id,
					Date:       &date,
				})
			}
		}
	}

	// 5) Maximum consecutive working days. The first streak past the limit
	// is reported once per employee and the walk stops there, so longer
	// overruns are deliberately undercounted.
	for _, id := range employeeIDs {
		emp := sys.Employees[id]
		empAssignments := roster.AssignmentsForEmployee(id)
		streak := 1
		for i := 0; i+1 < len(empAssignments); i++ {
			if daysBetween(empAssignments[i].Date, empAssignments[i+1].Date) == 1 {
				streak++
			} else {
				streak = 1
			}
			if streak > rules.MaxConsecutiveDays {
				date := empAssignments[i+1].Date
				violations = append(violations, model.Violation{
					Severity: model.SeverityHard,
					Code:     model.CodeMaxConsecutiveDaysExceeded,
					Message: fmt.Sprintf(
						"Employee %s (%s) works %d consecutive days ending %s, above limit of %d.",
						emp.Name, emp.ID, streak, date.Format("2006-01-02"), rules.MaxConsecutiveDays),
					EmployeeID: id,
					Date:       &date,
				})
				break
			}
		}
	}

	// 6) Assignments referencing employees the context doesn't know.
	for _, a := range assignments {
		if _, ok := sys.Employees[a.EmployeeID]; ok {
			continue
		}
		date := a.Date
		violations = append(violations, model.Violation{
			Severity: model.SeverityHard,
			Code:     model.CodeUnknownEmployee,
			Message: fmt.Sprintf(
				"Roster references unknown employee_id %q on %s.",
				a.EmployeeID, a.Date.Format("2006-01-02")),
			EmployeeID: a.EmployeeID,
			Date:       &date,
		})
	}

	return violations
}

func sortedWeeks(byWeek map[int]float64) []int {
	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

func daysBetween(a, b time.Time) int {
	return int(model.Day(b).Sub(model.Day(a)).Hours() / 24)
}
