// Package solver is the narrow boundary to the combinatorial engine that
// powers roster generation. Callers declare integer variables with bounds,
// add linear inequality constraints, set a single minimisation objective and
// solve within a wall-clock budget. Any CP or MIP engine satisfying Engine
// can be substituted without touching the model-construction code; the
// bundled Greedy engine (greedy.go) is the default.
package solver

import (
	"context"
	"fmt"
	"time"
)

// Status is the outcome of a solve attempt.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// Var is a handle to a model variable.
type Var int

// Term is one coefficient*variable entry of a linear expression.
type Term struct {
	Var  Var
	Coef int64
}

type relation int

const (
	relLE relation = iota // sum(terms) <= rhs
	relGE                 // sum(terms) >= rhs
)

type varDef struct {
	name string
	lo   int64
	hi   int64
}

type constraint struct {
	terms []Term
	rel   relation
	rhs   int64
}

// Model is a collection of bounded integer variables, linear constraints and
// one minimisation objective.
type Model struct {
	vars      []varDef
	cons      []constraint
	objective []Term
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar declares a 0/1 variable.
func (m *Model) NewBoolVar(name string) Var {
	return m.NewIntVar(name, 0, 1)
}

// NewIntVar declares an integer variable with inclusive bounds.
func (m *Model) NewIntVar(name string, lo, hi int64) Var {
	if hi < lo {
		hi = lo
	}
	m.vars = append(m.vars, varDef{name: name, lo: lo, hi: hi})
	return Var(len(m.vars) - 1)
}

// AddLE adds sum(terms) <= rhs.
func (m *Model) AddLE(terms []Term, rhs int64) {
	m.cons = append(m.cons, constraint{terms: cloneTerms(terms), rel: relLE, rhs: rhs})
}

// AddGE adds sum(terms) >= rhs.
func (m *Model) AddGE(terms []Term, rhs int64) {
	m.cons = append(m.cons, constraint{terms: cloneTerms(terms), rel: relGE, rhs: rhs})
}

// AddIndicatorIfAllZero adds an implication in lowered linear form: the
// indicator must take 1 whenever every watched variable is 0. Under a
// minimising objective that prices the indicator, it stays 0 as soon as any
// watched variable is set.
func (m *Model) AddIndicatorIfAllZero(indicator Var, watched []Var) {
	terms := make([]Term, 0, len(watched)+1)
	for _, v := range watched {
		terms = append(terms, Term{Var: v, Coef: 1})
	}
	terms = append(terms, Term{Var: indicator, Coef: 1})
	m.AddGE(terms, 1)
}

// Minimize sets the objective to minimise.
func (m *Model) Minimize(terms []Term) {
	m.objective = cloneTerms(terms)
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of added constraints.
func (m *Model) NumConstraints() int { return len(m.cons) }

// VarName returns the declared name of a variable.
func (m *Model) VarName(v Var) string {
	if int(v) < 0 || int(v) >= len(m.vars) {
		return fmt.Sprintf("var#%d", int(v))
	}
	return m.vars[v].name
}

// Solution is a solved assignment of values to model variables.
type Solution struct {
	Status    Status
	Objective int64
	values    []int64
}

// Value returns the solved value of v; 0 when the solve produced no
// assignment.
func (s *Solution) Value(v Var) int64 {
	if s.values == nil || int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

// Engine solves a model within the given wall-clock budget. On budget
// exhaustion it returns the best solution found so far, which may carry
// StatusUnknown when nothing feasible was reached.
type Engine interface {
	Solve(ctx context.Context, m *Model, budget time.Duration) (*Solution, error)
}

func cloneTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	copy(out, terms)
	return out
}
