// Package coverage scores how well a roster serves daily demand, peak
// windows and management presence.
package coverage

import (
	"time"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

// Approximate windows used to judge whether a shift touches store open/close.
var (
	openingWindowStart = rules.MustClock("06:30")
	openingWindowEnd   = rules.MustClock("08:00")
	closingWindowStart = rules.MustClock("22:00")
	closingWindowEnd   = rules.MustClock("23:00")
)

// Evaluator computes roster metrics from the shared catalog.
type Evaluator struct {
	catalog *rules.Catalog
}

// NewEvaluator creates an evaluator.
func NewEvaluator(catalog *rules.Catalog) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Evaluate scores the roster over [startDate, endDate]. Lunch and dinner
// headcount requirements are approximated as the full daily demand, and the
// weekend uplift ratio lands in Metrics.FairnessScore. LabourCostEstimate is
// filled elsewhere.
func (e *Evaluator) Evaluate(sys *model.Context, roster *model.Roster, startDate, endDate time.Time) model.Metrics {
	assigned := map[time.Time]map[string]bool{}
	lunchAssigned := map[time.Time]map[string]bool{}
	dinnerAssigned := map[time.Time]map[string]bool{}
	managers := map[time.Time]map[string]bool{}
	managerOpening := map[time.Time]map[string]bool{}
	managerClosing := map[time.Time]map[string]bool{}
	managerLunch := map[time.Time]map[string]bool{}
	managerDinner := map[time.Time]map[string]bool{}

	add := func(m map[time.Time]map[string]bool, day time.Time, id string) {
		if m[day] == nil {
			m[day] = map[string]bool{}
		}
		m[day][id] = true
	}

	for _, a := range roster.Assignments {
		day := model.Day(a.Date)
		add(assigned, day, a.EmployeeID)

		coversLunch := e.catalog.CoversLunch(a.ShiftCode)
		coversDinner := e.catalog.CoversDinner(a.ShiftCode)
		if coversLunch {
			add(lunchAssigned, day, a.EmployeeID)
		}
		if coversDinner {
			add(dinnerAssigned, day, a.EmployeeID)
		}

		emp, ok := sys.Employees[a.EmployeeID]
		if !ok || !emp.IsManager() {
			continue
		}
		add(managers, day, a.EmployeeID)
		if e.catalog.CoversWindow(a.ShiftCode, openingWindowStart, openingWindowEnd) {
			add(managerOpening, day, a.EmployeeID)
		}
		if e.catalog.CoversWindow(a.ShiftCode, closingWindowStart, closingWindowEnd) {
			add(managerClosing, day, a.EmployeeID)
		}
		if coversLunch {
			add(managerLunch, day, a.EmployeeID)
		}
		if coversDinner {
			add(managerDinner, day, a.EmployeeID)
		}
	}

	var (
		totalDemand, totalShortfall         float64
		totalPeakDemand, totalPeakShortfall float64
		weekdayStaff, weekendStaff          float64
		weekdayDays, weekendDays            int
		totalDays                           int
		daysWithManager                     int
		daysWithManagerOpening              int
		daysWithManagerClosing              int
		totalPeakWindows                    int
		peakWindowsWithTwoManagers          int
	)

	for _, day := range model.DaysBetween(startDate, endDate) {
		totalDays++

		demandToday := float64(sys.DemandByDate.TotalFor(day))
		assignedToday := float64(len(assigned[day]))
		totalDemand += demandToday
		totalShortfall += maxf(demandToday-assignedToday, 0)

		lunchToday := float64(len(lunchAssigned[day]))
		dinnerToday := float64(len(dinnerAssigned[day]))
		totalPeakDemand += 2 * demandToday
		totalPeakShortfall += maxf(demandToday-lunchToday, 0) + maxf(demandToday-dinnerToday, 0)

		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			weekendStaff += assignedToday
			weekendDays++
		} else {
			weekdayStaff += assignedToday
			weekdayDays++
		}

		if len(managers[day]) >= requiredManagers(sys, day) {
			daysWithManager++
		}
		if len(managerOpening[day]) > 0 {
			daysWithManagerOpening++
		}
		if len(managerClosing[day]) > 0 {
			daysWithManagerClosing++
		}

		// Two-managers-in-peaks is only judged on days the store is open.
		if demandToday > 0 {
			totalPeakWindows += 2
			if len(managerLunch[day]) >= 2 {
				peakWindowsWithTwoManagers++
			}
			if len(managerDinner[day]) >= 2 {
				peakWindowsWithTwoManagers++
			}
		}
	}

	var metrics model.Metrics
	if totalDemand > 0 {
		metrics.CoverageScore = 1.0 - totalShortfall/totalDemand
	}
	if totalPeakDemand > 0 {
		metrics.PeakCoverageScore = 1.0 - totalPeakShortfall/totalPeakDemand
	}
	if weekdayDays > 0 && weekendDays > 0 {
		weekdayAvg := weekdayStaff / float64(weekdayDays)
		weekendAvg := weekendStaff / float64(weekendDays)
		if weekdayAvg > 0 {
			metrics.FairnessScore = weekendAvg / weekdayAvg
		}
	}
	if totalDays > 0 {
		metrics.ManagerCoverageScore = float64(daysWithManager) / float64(totalDays)
		metrics.ManagerOpeningCoverage = float64(daysWithManagerOpening) / float64(totalDays)
		metrics.ManagerClosingCoverage = float64(daysWithManagerClosing) / float64(totalDays)
	}
	if totalPeakWindows > 0 {
		metrics.ManagerPeakTwoCoverageScore = float64(peakWindowsWithTwoManagers) / float64(totalPeakWindows)
	}
	return metrics
}

// requiredManagers returns the expected manager headcount for the day from
// the weekday template, defaulting to one manager per day.
func requiredManagers(sys *model.Context, day time.Time) int {
	// Template keys are 0=Monday .. 6=Sunday.
	if n, ok := sys.ManagerTemplateByWeekday[(int(day.Weekday())+6)%7]; ok {
		return n
	}
	return 1
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
