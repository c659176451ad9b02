package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solve(t *testing.T, m *Model) *Solution {
	t.Helper()
	sol, err := NewGreedy().Solve(context.Background(), m, time.Second)
	require.NoError(t, err)
	return sol
}

func TestGreedy_CoverageSlackDrivenToZero(t *testing.T) {
	m := NewModel()
	x1 := m.NewBoolVar("x1")
	x2 := m.NewBoolVar("x2")
	x3 := m.NewBoolVar("x3")
	uc := m.NewIntVar("uc", 0, 3)

	// x1 + x2 + x3 + uc >= 2, minimise 1000*uc.
	m.AddGE([]Term{{x1, 1}, {x2, 1}, {x3, 1}, {uc, 1}}, 2)
	m.Minimize([]Term{{uc, 1000}})

	sol := solve(t, m)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, int64(0), sol.Objective)
	assert.Equal(t, int64(0), sol.Value(uc))
	assert.Equal(t, int64(2), sol.Value(x1)+sol.Value(x2)+sol.Value(x3))
}

func TestGreedy_CapacityLimitsLeaveResidualSlack(t *testing.T) {
	m := NewModel()
	x1 := m.NewBoolVar("x1")
	x2 := m.NewBoolVar("x2")
	uc := m.NewIntVar("uc", 0, 2)

	// Only one of x1/x2 may be set, but demand is 2.
	m.AddLE([]Term{{x1, 1}, {x2, 1}}, 1)
	m.AddGE([]Term{{x1, 1}, {x2, 1}, {uc, 1}}, 2)
	m.Minimize([]Term{{uc, 1000}})

	sol := solve(t, m)
	assert.Equal(t, StatusFeasible, sol.Status)
	assert.Equal(t, int64(1000), sol.Objective)
	assert.Equal(t, int64(1), sol.Value(uc))
	assert.Equal(t, int64(1), sol.Value(x1)+sol.Value(x2))
}

func TestGreedy_IndicatorDropsWhenWatchedVarSet(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("manager_shift")
	absent := m.NewBoolVar("manager_absent")

	m.AddIndicatorIfAllZero(absent, []Var{x})
	m.Minimize([]Term{{absent, 100}})

	sol := solve(t, m)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, int64(0), sol.Objective)
	assert.Equal(t, int64(1), sol.Value(x))
	assert.Equal(t, int64(0), sol.Value(absent))
}

func TestGreedy_InfeasibleWhenSlackCannotAbsorb(t *testing.T) {
	m := NewModel()
	uc := m.NewIntVar("uc", 0, 1)

	// uc alone must reach 2 but its upper bound is 1.
	m.AddGE([]Term{{uc, 1}}, 2)
	m.Minimize([]Term{{uc, 1}})

	sol := solve(t, m)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestGreedy_RejectsTwoAuxiliariesInOneConstraint(t *testing.T) {
	m := NewModel()
	a := m.NewIntVar("a", 0, 5)
	b := m.NewIntVar("b", 0, 5)

	m.AddGE([]Term{{a, 1}, {b, 1}}, 3)
	m.Minimize([]Term{{a, 1}, {b, 1}})

	_, err := NewGreedy().Solve(context.Background(), m, time.Second)
	assert.Error(t, err)
}

func TestGreedy_ZeroBudgetReturnsUnknown(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("x")
	uc := m.NewIntVar("uc", 0, 1)
	m.AddGE([]Term{{x, 1}, {uc, 1}}, 1)
	m.Minimize([]Term{{uc, 10}})

	sol, err := NewGreedy().Solve(context.Background(), m, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, sol.Status)
}

func TestGreedy_PrefersCheaperOfTwoPenalties(t *testing.T) {
	m := NewModel()
	x := m.NewBoolVar("x")
	heavy := m.NewIntVar("heavy", 0, 1)
	light := m.NewIntVar("light", 0, 1)

	// Setting x clears the heavy penalty but incurs the light one.
	m.AddGE([]Term{{x, 1}, {heavy, 1}}, 1)
	m.AddLE([]Term{{x, 1}, {light, -1}}, 0)
	m.Minimize([]Term{{heavy, 1000}, {light, 1}})

	sol := solve(t, m)
	assert.Equal(t, int64(1), sol.Value(x))
	assert.Equal(t, int64(0), sol.Value(heavy))
	assert.Equal(t, int64(1), sol.Value(light))
	assert.Equal(t, int64(1), sol.Objective)
}
