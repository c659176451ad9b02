// Package resolver repairs over-hours rosters by moving shifts from
// overloaded employees to candidates with headroom. It keeps its own hours
// aggregation so iterations stay cheap; the compliance oracle is re-run once
// by the caller after the repair loop finishes.
package resolver

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
)

// DefaultMaxIterations caps the repair loop.
const DefaultMaxIterations = 20

// Resolver rebalances bi-weekly hours across employees.
type Resolver struct {
	catalog       *rules.Catalog
	maxIterations int
	logger        *zap.Logger
}

// New creates a resolver. maxIterations <= 0 selects DefaultMaxIterations.
func New(catalog *rules.Catalog, maxIterations int, logger *zap.Logger) *Resolver {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{catalog: catalog, maxIterations: maxIterations, logger: logger}
}

// RebalanceHours returns a new roster built from a patched copy of the input
// assignments, plus an ordered audit trail of every reassignment. The input
// roster is never mutated. Residual overload after the iteration cap is not
// an error; it stays visible to the caller's follow-up compliance check.
func (r *Resolver) RebalanceHours(sys *model.Context, roster *model.Roster) (*model.Roster, []string) {
	var logs []string
	assignments := make([]model.ShiftAssignment, len(roster.Assignments))
	copy(assignments, roster.Assignments)

	employeeIDs := sys.SortedEmployeeIDs()

	for iteration := 0; iteration < r.maxIterations; iteration++ {
		hoursByEmp := r.hoursByEmployee(assignments)

		var overloadedIDs []string
		for _, id := range employeeIDs {
			bounds, ok := r.catalog.ContractBounds(sys.Employees[id].ContractType, rules.HorizonBiWeekly)
			if !ok {
				continue
			}
			if hoursByEmp[id] > bounds.Max {
				overloadedIDs = append(overloadedIDs, id)
			}
		}

		if len(overloadedIDs) == 0 {
			logs = append(logs, fmt.Sprintf("Iteration %d: no overloaded employees remaining.", iteration))
			break
		}

		progressMade := false

		for _, overloadedID := range overloadedIDs {
			bounds, _ := r.catalog.ContractBounds(sys.Employees[overloadedID].ContractType, rules.HorizonBiWeekly)

			// An earlier move in this same iteration may already have fixed
			// this employee.
			if hoursByEmp[overloadedID] <= bounds.Max {
				continue
			}

			// Most recent shifts are the first candidates to give away.
			indices := r.assignmentIndices(assignments, overloadedID)
			sort.Slice(indices, func(i, j int) bool {
				return assignments[indices[i]].Date.After(assignments[indices[j]].Date)
			})

			for _, idx := range indices {
				a := assignments[idx]
				shiftHours := r.catalog.Duration(a.ShiftCode)

				candidateID := r.findReplacement(sys, assignments, hoursByEmp, a.Date, a.ShiftCode, shiftHours, overloadedID)
				if candidateID == "" {
					continue
				}

				logs = append(logs, fmt.Sprintf(
					"Reassigning %s on %s from %s to %s.",
					a.ShiftCode, a.Date.Format("2006-01-02"), overloadedID, candidateID))
				r.logger.Debug("reassigned shift",
					zap.String("shift_code", a.ShiftCode),
					zap.String("date", a.Date.Format("2006-01-02")),
					zap.String("from", overloadedID),
					zap.String("to", candidateID))

				hoursByEmp[overloadedID] -= shiftHours
				hoursByEmp[candidateID] += shiftHours
				assignments[idx].EmployeeID = candidateID
				progressMade = true

				// Re-evaluate this employee's remaining overload next
				// iteration.
				break
			}
		}

		if !progressMade {
			logs = append(logs, fmt.Sprintf("Iteration %d: no feasible reassignments found; stopping.", iteration))
			break
		}
	}

	return &model.Roster{
		StoreID:     roster.StoreID,
		StartDate:   roster.StartDate,
		EndDate:     roster.EndDate,
		Assignments: assignments,
	}, logs
}

func (r *Resolver) hoursByEmployee(assignments []model.ShiftAssignment) map[string]float64 {
	hours := make(map[string]float64)
	for _, a := range assignments {
		hours[a.EmployeeID] += r.catalog.Duration(a.ShiftCode)
	}
	return hours
}

func (r *Resolver) assignmentIndices(assignments []model.ShiftAssignment, employeeID string) []int {
	var indices []int
	for i, a := range assignments {
		if a.EmployeeID == employeeID {
			indices = append(indices, i)
		}
	}
	return indices
}

// findReplacement looks for an employee who is not the overloaded one, is
// available for the (date, code), has no other assignment that day and stays
// under their contract max with the extra hours. Employees below their
// contract minimum are preferred; within each class the first candidate in
// ascending ID order wins.
func (r *Resolver) findReplacement(
	sys *model.Context,
	assignments []model.ShiftAssignment,
	hoursByEmp map[string]float64,
	date time.Time,
	shiftCode string,
	shiftHours float64,
	excludeID string,
) string {
	assignedOnDate := make(map[string]bool)
	for _, a := range assignments {
		if model.Day(a.Date).Equal(model.Day(date)) {
			assignedOnDate[a.EmployeeID] = true
		}
	}

	underMin := ""
	inBounds := ""
	for _, id := range sys.SortedEmployeeIDs() {
		if id == excludeID {
			continue
		}
		if !sys.Availability.Allows(id, date, shiftCode) {
			continue
		}
		if assignedOnDate[id] {
			continue
		}
		bounds, ok := r.catalog.ContractBounds(sys.Employees[id].ContractType, rules.HorizonBiWeekly)
		if !ok {
			continue
		}
		current := hoursByEmp[id]
		if current+shiftHours > bounds.Max {
			continue
		}
		if current < bounds.Min {
			if underMin == "" {
				underMin = id
			}
		} else if inBounds == "" {
			inBounds = id
		}
		if underMin != "" {
			break
		}
	}

	if underMin != "" {
		return underMin
	}
	return inBounds
}
