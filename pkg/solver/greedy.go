package solver

import (
	"context"
	"fmt"
	"time"
)

// Greedy is a deterministic local-descent engine for slack-form models: 0/1
// decision variables plus auxiliary integer variables (slacks/indicators)
// that appear in the objective and absorb constraint pressure. Each
// constraint may reference at most one auxiliary variable; the engine derives
// every auxiliary to its cheapest feasible value for the current decisions.
//
// Search starts from the all-zero decision vector and repeatedly applies the
// best objective-improving single flip until no flip improves or the budget
// runs out. The result is a feasible local optimum; StatusOptimal is only
// reported when the objective provably hits the model's lower bound.
type Greedy struct{}

// NewGreedy creates the bundled engine.
func NewGreedy() *Greedy {
	return &Greedy{}
}

type greedyState struct {
	m *Model

	objCoef  []int64 // per var, 0 when absent from the objective
	isAux    []bool  // var appears in the objective
	decision []int   // indices of searchable 0/1 decision vars

	occ     [][]int // decision var -> constraint indices
	auxOf   []int   // constraint -> aux var index, -1 if pure-decision
	auxCons [][]int // aux var -> constraint indices

	values    []int64
	conSum    []int64 // current LHS of every constraint
	objective int64
}

// Solve runs greedy descent within the budget.
func (g *Greedy) Solve(ctx context.Context, m *Model, budget time.Duration) (*Solution, error) {
	deadline := time.Now().Add(budget)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	st, err := newGreedyState(m)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil || time.Now().After(deadline) {
		return &Solution{Status: StatusUnknown}, nil
	}

	if !st.deriveAll() {
		return &Solution{Status: StatusInfeasible}, nil
	}

	lower := st.lowerBound()

	evals := 0
	expired := func() bool {
		evals++
		return evals%256 == 0 && (ctx.Err() != nil || time.Now().After(deadline))
	}

sweep:
	for {
		bestVar := -1
		var bestDelta int64
		var bestObjDelta int64

		for _, d := range st.decision {
			if expired() {
				break sweep
			}
			delta := int64(1)
			if st.values[d] == 1 {
				delta = -1
			}
			objDelta, feasible := st.tryFlip(d, delta)
			if !feasible {
				continue
			}
			if objDelta < 0 && (bestVar == -1 || objDelta < bestObjDelta) {
				bestVar = d
				bestDelta = delta
				bestObjDelta = objDelta
			}
		}

		if bestVar == -1 {
			break
		}
		st.applyFlip(bestVar, bestDelta)

		if st.objective == lower {
			break
		}
	}

	status := StatusFeasible
	if st.objective == lower {
		status = StatusOptimal
	}

	values := make([]int64, len(st.values))
	copy(values, st.values)
	return &Solution{Status: status, Objective: st.objective, values: values}, nil
}

func newGreedyState(m *Model) (*greedyState, error) {
	n := len(m.vars)
	st := &greedyState{
		m:       m,
		objCoef: make([]int64, n),
		isAux:   make([]bool, n),
		occ:     make([][]int, n),
		auxOf:   make([]int, len(m.cons)),
		auxCons: make([][]int, n),
		values:  make([]int64, n),
		conSum:  make([]int64, len(m.cons)),
	}

	for _, t := range m.objective {
		st.objCoef[t.Var] += t.Coef
		st.isAux[t.Var] = true
	}

	for i, c := range m.cons {
		st.auxOf[i] = -1
		for _, t := range c.terms {
			v := int(t.Var)
			if st.isAux[v] {
				if st.auxOf[i] != -1 && st.auxOf[i] != v {
					return nil, fmt.Errorf(
						"unsupported model: constraint %d references auxiliaries %s and %s",
						i, m.vars[st.auxOf[i]].name, m.vars[v].name)
				}
				st.auxOf[i] = v
				st.auxCons[v] = append(st.auxCons[v], i)
			} else {
				st.occ[v] = append(st.occ[v], i)
			}
		}
	}

	for v, def := range m.vars {
		st.values[v] = def.lo
		if !st.isAux[v] && def.lo == 0 && def.hi == 1 {
			st.decision = append(st.decision, v)
		}
	}

	return st, nil
}

// deriveAll assigns every auxiliary its cheapest feasible value given the
// current decisions, refreshes constraint sums and the objective, and reports
// overall feasibility.
func (st *greedyState) deriveAll() bool {
	for v := range st.m.vars {
		if !st.isAux[v] {
			continue
		}
		val, ok := st.deriveAux(v, -1, 0)
		if !ok {
			return false
		}
		st.values[v] = val
	}

	for i, c := range st.m.cons {
		sum := int64(0)
		for _, t := range c.terms {
			sum += t.Coef * st.values[t.Var]
		}
		st.conSum[i] = sum
		if st.auxOf[i] == -1 && !satisfies(sum, c) {
			return false
		}
	}

	st.objective = 0
	for _, t := range st.m.objective {
		st.objective += t.Coef * st.values[t.Var]
	}
	return true
}

// deriveAux computes the cheapest in-bounds value for aux var a over all of
// its constraints, pretending that flipVar (when >= 0) has moved by delta.
func (st *greedyState) deriveAux(a int, flipVar int, delta int64) (int64, bool) {
	def := st.m.vars[a]
	lower, upper := def.lo, def.hi

	for _, ci := range st.auxCons[a] {
		c := st.m.cons[ci]
		var k int64
		sumOthers := int64(0)
		for _, t := range c.terms {
			if int(t.Var) == a {
				k += t.Coef
				continue
			}
			v := st.values[t.Var]
			if int(t.Var) == flipVar {
				v += delta
			}
			sumOthers += t.Coef * v
		}
		if k == 0 {
			continue
		}
		switch {
		case c.rel == relGE && k > 0:
			lower = max64(lower, ceilDiv(c.rhs-sumOthers, k))
		case c.rel == relGE && k < 0:
			upper = min64(upper, floorDiv(sumOthers-c.rhs, -k))
		case c.rel == relLE && k > 0:
			upper = min64(upper, floorDiv(c.rhs-sumOthers, k))
		case c.rel == relLE && k < 0:
			lower = max64(lower, ceilDiv(sumOthers-c.rhs, -k))
		}
	}

	if lower > upper {
		return 0, false
	}
	if st.objCoef[a] < 0 {
		return upper, true
	}
	return lower, true
}

// tryFlip evaluates moving decision var d by delta without mutating state.
// Returns the objective delta and whether the move stays feasible.
func (st *greedyState) tryFlip(d int, delta int64) (int64, bool) {
	objDelta := st.objCoef[d] * delta // decisions normally carry no cost, but allow it

	seenAux := map[int]bool{}
	for _, ci := range st.occ[d] {
		c := st.m.cons[ci]
		aux := st.auxOf[ci]
		if aux == -1 {
			var coefD int64
			for _, t := range c.terms {
				if int(t.Var) == d {
					coefD += t.Coef
				}
			}
			if !satisfies(st.conSum[ci]+coefD*delta, c) {
				return 0, false
			}
			continue
		}
		if seenAux[aux] {
			continue
		}
		seenAux[aux] = true

		newVal, ok := st.deriveAux(aux, d, delta)
		if !ok {
			return 0, false
		}
		objDelta += st.objCoef[aux] * (newVal - st.values[aux])
	}

	return objDelta, true
}

// applyFlip commits a move previously vetted by tryFlip.
func (st *greedyState) applyFlip(d int, delta int64) {
	st.objective += st.objCoef[d] * delta

	seenAux := map[int]bool{}
	var changedAux []int
	var changedVal []int64
	for _, ci := range st.occ[d] {
		aux := st.auxOf[ci]
		if aux == -1 || seenAux[aux] {
			continue
		}
		seenAux[aux] = true
		newVal, _ := st.deriveAux(aux, d, delta)
		if newVal != st.values[aux] {
			changedAux = append(changedAux, aux)
			changedVal = append(changedVal, newVal)
		}
	}

	// Decision contribution to its constraints.
	for _, ci := range st.occ[d] {
		c := st.m.cons[ci]
		for _, t := range c.terms {
			if int(t.Var) == d {
				st.conSum[ci] += t.Coef * delta
			}
		}
	}
	st.values[d] += delta

	// Auxiliary updates ripple into every constraint they participate in.
	for i, aux := range changedAux {
		diff := changedVal[i] - st.values[aux]
		for _, ci := range st.auxCons[aux] {
			c := st.m.cons[ci]
			for _, t := range c.terms {
				if int(t.Var) == aux {
					st.conSum[ci] += t.Coef * diff
				}
			}
		}
		st.objective += st.objCoef[aux] * diff
		st.values[aux] = changedVal[i]
	}
}

// lowerBound is the objective value if every priced variable sat at its
// cheapest bound.
func (st *greedyState) lowerBound() int64 {
	var lb int64
	for _, t := range st.m.objective {
		def := st.m.vars[t.Var]
		if t.Coef >= 0 {
			lb += t.Coef * def.lo
		} else {
			lb += t.Coef * def.hi
		}
	}
	return lb
}

func satisfies(sum int64, c constraint) bool {
	if c.rel == relLE {
		return sum <= c.rhs
	}
	return sum >= c.rhs
}

func ceilDiv(a, b int64) int64 {
	// b > 0
	if a >= 0 {
		return (a + b - 1) / b
	}
	return -((-a) / b)
}

func floorDiv(a, b int64) int64 {
	// b > 0
	if a >= 0 {
		return a / b
	}
	return -((-a + b - 1) / b)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
