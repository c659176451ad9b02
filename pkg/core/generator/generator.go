// Package generator builds the constraint model for an initial roster and
// decodes the engine's solution. The hard constraints here encode the same
// legal rules the compliance oracle re-checks afterwards; both sides read
// them from the shared rules.Catalog.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jcorbett/rostergen/pkg/core/model"
	"github.com/jcorbett/rostergen/pkg/core/rules"
	"github.com/jcorbett/rostergen/pkg/solver"
)

// HoursScale converts hours to integer half-hour units so 8.5h, 9h etc. are
// exact under integer arithmetic.
const HoursScale = 2

// DefaultSolveBudget bounds the engine's wall-clock time.
const DefaultSolveBudget = 20 * time.Second

// Objective weight tiers. Each tier strictly dominates the sum of all lower
// tiers under worst-case magnitudes (employee count x day count), giving a
// lexicographic-like priority: coverage > overtime > manager presence >
// opening/closing presence > peak double-manager target.
const (
	weightUnderCoverage  = 1000
	weightOvertime       = 1
	weightManagerAbsence = 100
	weightOpeningAbsence = 50
	weightClosingAbsence = 50
	weightPeakTwoGap     = 10
)

// Fatal conditions the generator cannot repair.
var (
	ErrNoEmployees  = errors.New("no employees found in context")
	ErrNoShiftCodes = errors.New("no shift codes discovered from availability")
	ErrSolverFailed = errors.New("solver returned no usable roster")
)

// Generator produces an initial roster via the solver boundary.
type Generator struct {
	catalog *rules.Catalog
	engine  solver.Engine
	budget  time.Duration
	logger  *zap.Logger
}

// New creates a generator. A nil engine falls back to the bundled greedy
// engine and a zero budget to DefaultSolveBudget.
func New(catalog *rules.Catalog, engine solver.Engine, budget time.Duration, logger *zap.Logger) *Generator {
	if engine == nil {
		engine = solver.NewGreedy()
	}
	if budget <= 0 {
		budget = DefaultSolveBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{catalog: catalog, engine: engine, budget: budget, logger: logger}
}

func hourUnits(hours float64) int64 {
	return int64(math.Round(hours * HoursScale))
}

// GenerateInitialRoster builds and solves the roster model for the window.
func (g *Generator) GenerateInitialRoster(
	ctx context.Context,
	sys *model.Context,
	storeID string,
	startDate, endDate time.Time,
) (*model.Roster, error) {
	if len(sys.Employees) == 0 {
		return nil, ErrNoEmployees
	}

	employeeIDs := sys.SortedEmployeeIDs()
	dates := model.DaysBetween(startDate, endDate)

	// Allowed shift codes per (employee, date), sorted for stable variable
	// creation. No variable exists for disallowed combinations, which makes
	// availability a hard constraint by construction.
	type empDay struct {
		emp string
		day time.Time
	}
	allowed := make(map[empDay][]string)
	codeSet := make(map[string]bool)
	for _, id := range employeeIDs {
		for _, day := range dates {
			codes := append([]string(nil), sys.Availability.AllowedCodes(id, day)...)
			if len(codes) == 0 {
				continue
			}
			sort.Strings(codes)
			codes = dedup(codes)
			allowed[empDay{id, day}] = codes
			for _, c := range codes {
				codeSet[c] = true
			}
		}
	}
	if len(codeSet) == 0 {
		return nil, ErrNoShiftCodes
	}

	m := solver.NewModel()

	type triple struct {
		emp  string
		day  time.Time
		code string
	}
	vars := make(map[triple]solver.Var)
	for ei, id := range employeeIDs {
		for di, day := range dates {
			for _, code := range allowed[empDay{id, day}] {
				vars[triple{id, day, code}] = m.NewBoolVar(
					fmt.Sprintf("x_e%d_d%d_%s", ei, di, code))
			}
		}
	}

	// 1) At most one shift per employee per day.
	for _, id := range employeeIDs {
		for _, day := range dates {
			codes := allowed[empDay{id, day}]
			if len(codes) < 2 {
				continue
			}
			terms := make([]solver.Term, 0, len(codes))
			for _, code := range codes {
				terms = append(terms, solver.Term{Var: vars[triple{id, day, code}], Coef: 1})
			}
			m.AddLE(terms, 1)
		}
	}

	// 2) Bi-weekly contract maximum, in half-hour units.
	for _, id := range employeeIDs {
		emp := sys.Employees[id]
		bounds, ok := g.catalog.ContractBounds(emp.ContractType, rules.HorizonBiWeekly)
		if !ok {
			continue
		}
		var terms []solver.Term
		for _, day := range dates {
			for _, code := range allowed[empDay{id, day}] {
				if _, known := g.catalog.Template(code); !known {
					continue
				}
				terms = append(terms, solver.Term{
					Var:  vars[triple{id, day, code}],
					Coef: hourUnits(g.catalog.Duration(code)),
				})
			}
		}
		if len(terms) > 0 {
			m.AddLE(terms, hourUnits(bounds.Max))
		}
	}

	// 2b) Weekly maximum with an overtime slack per (employee, 7-day bucket).
	var overtimeVars []solver.Var
	for _, id := range employeeIDs {
		emp := sys.Employees[id]
		bounds, ok := g.catalog.ContractBounds(emp.ContractType, rules.HorizonWeekly)
		if !ok {
			continue
		}
		maxWeekUnits := hourUnits(bounds.Max)

		byWeek := make(map[int][]solver.Term)
		for _, day := range dates {
			week := int(day.Sub(model.Day(startDate)).Hours()) / 24 / 7
			for _, code := range allowed[empDay{id, day}] {
				if _, known := g.catalog.Template(code); !known {
					continue
				}
				byWeek[week] = append(byWeek[week], solver.Term{
					Var:  vars[triple{id, day, code}],
					Coef: hourUnits(g.catalog.Duration(code)),
				})
			}
		}

		weeks := make([]int, 0, len(byWeek))
		for w := range byWeek {
			weeks = append(weeks, w)
		}
		sort.Ints(weeks)
		for _, w := range weeks {
			ot := m.NewIntVar(fmt.Sprintf("ot_%s_w%d", id, w), 0, maxWeekUnits*2)
			overtimeVars = append(overtimeVars, ot)
			// week_hours <= week_max + overtime
			terms := append(append([]solver.Term(nil), byWeek[w]...),
				solver.Term{Var: ot, Coef: -1})
			m.AddLE(terms, maxWeekUnits)
		}
	}

	// 3) Pairwise rest exclusion between consecutive calendar days. Unknown
	// codes count as safe so a partially known catalog can't force
	// infeasibility.
	for _, id := range employeeIDs {
		for i := 0; i+1 < len(dates); i++ {
			today := allowed[empDay{id, dates[i]}]
			next := allowed[empDay{id, dates[i+1]}]
			if len(today) == 0 || len(next) == 0 {
				continue
			}
			for _, codeToday := range today {
				for _, codeNext := range next {
					if g.catalog.RestHoursBetween(codeToday, codeNext) >= rules.MinRestHours {
						continue
					}
					m.AddLE([]solver.Term{
						{Var: vars[triple{id, dates[i], codeToday}], Coef: 1},
						{Var: vars[triple{id, dates[i+1], codeNext}], Coef: 1},
					}, 1)
				}
			}
		}
	}

	// 4) Demand coverage with under-coverage slack. The slack always leaves
	// the model an escape valve: a demand-bearing day with no available staff
	// simply pushes the whole demand into the slack.
	var underCoverageVars []solver.Var
	for di, day := range dates {
		demand := int64(sys.DemandByDate.TotalFor(day))

		hi := int64(len(employeeIDs))
		if demand > hi {
			hi = demand
		}
		uc := m.NewIntVar(fmt.Sprintf("under_cov_d%d", di), 0, hi)
		underCoverageVars = append(underCoverageVars, uc)

		if demand <= 0 {
			m.AddLE([]solver.Term{{Var: uc, Coef: 1}}, 0)
			continue
		}
		terms := []solver.Term{{Var: uc, Coef: 1}}
		for _, id := range employeeIDs {
			for _, code := range allowed[empDay{id, day}] {
				terms = append(terms, solver.Term{Var: vars[triple{id, day, code}], Coef: 1})
			}
		}
		m.AddGE(terms, demand)
	}

	// 5) Soft manager coverage: absence indicators per day, plus opening and
	// closing variants. Only created where a manager is available at all, so
	// the penalty never fires on inherently unstaffable days.
	var managerIDs []string
	for _, id := range employeeIDs {
		if sys.Employees[id].IsManager() {
			managerIDs = append(managerIDs, id)
		}
	}

	var absenceVars, openingAbsenceVars, closingAbsenceVars []solver.Var
	var peakGapVars []solver.Var
	if len(managerIDs) > 0 {
		for di, day := range dates {
			var dayVars, openVars, closeVars, lunchVars, dinnerVars []solver.Var
			for _, id := range managerIDs {
				for _, code := range allowed[empDay{id, day}] {
					v := vars[triple{id, day, code}]
					dayVars = append(dayVars, v)
					if g.catalog.IsOpening(code) {
						openVars = append(openVars, v)
					}
					if g.catalog.IsClosing(code) {
						closeVars = append(closeVars, v)
					}
					if g.catalog.CoversLunch(code) {
						lunchVars = append(lunchVars, v)
					}
					if g.catalog.CoversDinner(code) {
						dinnerVars = append(dinnerVars, v)
					}
				}
			}
			if len(dayVars) == 0 {
				continue
			}

			noMgr := m.NewBoolVar(fmt.Sprintf("no_mgr_d%d", di))
			m.AddIndicatorIfAllZero(noMgr, dayVars)
			absenceVars = append(absenceVars, noMgr)

			if len(openVars) > 0 {
				noOpen := m.NewBoolVar(fmt.Sprintf("no_mgr_open_d%d", di))
				m.AddIndicatorIfAllZero(noOpen, openVars)
				openingAbsenceVars = append(openingAbsenceVars, noOpen)
			}
			if len(closeVars) > 0 {
				noClose := m.NewBoolVar(fmt.Sprintf("no_mgr_close_d%d", di))
				m.AddIndicatorIfAllZero(noClose, closeVars)
				closingAbsenceVars = append(closingAbsenceVars, noClose)
			}

			// 6) Peak double-manager shortfall: gap >= 2 - covering managers,
			// clipped at 0 by the variable's range.
			if len(lunchVars) > 0 {
				gap := m.NewIntVar(fmt.Sprintf("gap_mgr_lunch_d%d", di), 0, 2)
				terms := []solver.Term{{Var: gap, Coef: 1}}
				for _, v := range lunchVars {
					terms = append(terms, solver.Term{Var: v, Coef: 1})
				}
				m.AddGE(terms, 2)
				peakGapVars = append(peakGapVars, gap)
			}
			if len(dinnerVars) > 0 {
				gap := m.NewIntVar(fmt.Sprintf("gap_mgr_dinner_d%d", di), 0, 2)
				terms := []solver.Term{{Var: gap, Coef: 1}}
				for _, v := range dinnerVars {
					terms = append(terms, solver.Term{Var: v, Coef: 1})
				}
				m.AddGE(terms, 2)
				peakGapVars = append(peakGapVars, gap)
			}
		}
	}

	// Weighted objective: coverage dominates, then overtime, then manager
	// presence tiers, then the peak double-manager target.
	var objective []solver.Term
	appendWeighted := func(vs []solver.Var, weight int64) {
		for _, v := range vs {
			objective = append(objective, solver.Term{Var: v, Coef: weight})
		}
	}
	appendWeighted(underCoverageVars, weightUnderCoverage)
	appendWeighted(overtimeVars, weightOvertime)
	appendWeighted(absenceVars, weightManagerAbsence)
	appendWeighted(openingAbsenceVars, weightOpeningAbsence)
	appendWeighted(closingAbsenceVars, weightClosingAbsence)
	appendWeighted(peakGapVars, weightPeakTwoGap)
	m.Minimize(objective)

	g.logger.Debug("roster model built",
		zap.Int("variables", m.NumVars()),
		zap.Int("constraints", m.NumConstraints()),
		zap.Int("employees", len(employeeIDs)),
		zap.Int("days", len(dates)))

	sol, err := g.engine.Solve(ctx, m, g.budget)
	if err != nil {
		return nil, fmt.Errorf("solving roster model: %w", err)
	}
	if sol.Status != solver.StatusOptimal && sol.Status != solver.StatusFeasible {
		return nil, fmt.Errorf("%w: status %s", ErrSolverFailed, sol.Status)
	}

	g.logger.Info("roster model solved",
		zap.Stringer("status", sol.Status),
		zap.Int64("objective", sol.Objective))

	// Decode in (employee, date, code) order so the roster is reproducible.
	var assignments []model.ShiftAssignment
	for _, id := range employeeIDs {
		for _, day := range dates {
			for _, code := range allowed[empDay{id, day}] {
				if sol.Value(vars[triple{id, day, code}]) == 1 {
					assignments = append(assignments, model.ShiftAssignment{
						EmployeeID: id,
						Date:       day,
						ShiftCode:  code,
						StoreID:    storeID,
					})
				}
			}
		}
	}

	return &model.Roster{
		StoreID:     storeID,
		StartDate:   model.Day(startDate),
		EndDate:     model.Day(endDate),
		Assignments: assignments,
	}, nil
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
