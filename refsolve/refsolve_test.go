package refsolve

import (
	"bytes"
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/wcnffuzz/solver"
	"github.com/crillab/wcnffuzz/wcnf"
)

func mustParse(t *testing.T, text string) *wcnf.Formula {
	t.Helper()
	f, err := wcnf.ParseString(text, nil)
	require.NoError(t, err)
	return f
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		status solver.Status
		cost   int64
	}{
		{"satisfiable softs", "p wcnf 2 3 6\n6 1 2 0\n3 -1 0\n4 2 0\n", solver.Optimum, 0},
		{"conflicting softs", "p wcnf 2 4 10\n10 1 0\n10 2 0\n3 -1 0\n5 -2 0\n", solver.Optimum, 8},
		{"cheapest falsified", "p wcnf 1 2 10\n3 1 0\n2 -1 0\n", solver.Optimum, 2},
		{"unsat", "p wcnf 1 2 10\n10 1 0\n10 -1 0\n", solver.Unsatisfiable, 0},
		{"empty hard clause", "p wcnf 1 2 10\n10 0\n1 1 0\n", solver.Unsatisfiable, 0},
		{"empty soft clause", "p wcnf 1 2 10\n3 0\n2 1 0\n", solver.Optimum, 3},
		{"unweighted", "p cnf 1 2\n1 0\n-1 0\n", solver.Optimum, 1},
		{"tautology", "p wcnf 1 1 10\n5 1 -1 0\n", solver.Optimum, 0},
		{"null weight", "p wcnf 1 2 10\n0 1 0\n10 -1 0\n", solver.Optimum, 0},
		{"no clause", "p wcnf 3 0 10\n", solver.Optimum, 0},
		{"huge weights", "p wcnf 1 1 99999999999999\n9999999999 1 0\n", solver.Unknown, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := Solve(mustParse(t, test.text), nil)
			require.Equal(t, test.status, res.Status)
			if test.status == solver.Optimum {
				assert.Equal(t, test.cost, res.Cost.Int64())
			}
		})
	}
}

func TestSolveVarsBeyondHeader(t *testing.T) {
	res := Solve(mustParse(t, "p wcnf 1 1 10\n10 3 0\n"), nil)
	require.Equal(t, solver.Optimum, res.Status)
	require.Len(t, res.Model, 3)
	assert.True(t, res.Model[2])
}

func TestWriteOptimum(t *testing.T) {
	res := Outcome{Status: solver.Optimum, Cost: big.NewInt(7), Model: []bool{true, false, true}}
	var buf bytes.Buffer
	require.NoError(t, res.Write(&buf))
	assert.Equal(t, "o 7\ns OPTIMUM FOUND\nv 1 -2 3 0\n", buf.String())
	assert.Equal(t, solver.ExitOptimum, res.ExitCode())

	got := solver.Extract(buf.String(), nil)
	assert.Equal(t, solver.Optimum, got.Status)
	assert.Equal(t, int64(7), got.Value.Int64())
	assert.Equal(t, map[int]bool{1: true, 2: false, 3: true}, got.Model)
}

func TestWriteOther(t *testing.T) {
	tests := []struct {
		res  Outcome
		want string
		code int
	}{
		{Outcome{Status: solver.Unsatisfiable}, "s UNSATISFIABLE\n", 20},
		{Outcome{Status: solver.Unknown, Reason: "too large"}, "c too large\ns UNKNOWN\n", 40},
		{Outcome{Status: solver.Error, Reason: "boom"}, "c boom\ns ERROR\n", 50},
		{Outcome{Status: solver.Unrecognized}, "s UNRECOGNIZED\n", 50},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		require.NoError(t, test.res.Write(&buf))
		assert.Equal(t, test.want, buf.String())
		assert.Equal(t, test.code, test.res.ExitCode())
	}
}

// randFormula returns a random small formula in the WCNF format.
func randFormula(rng *rand.Rand) string {
	nbVars := rng.Intn(6) + 1
	nbCls := rng.Intn(10) + 1
	var sb strings.Builder
	fmt.Fprintf(&sb, "p wcnf %d %d 100\n", nbVars, nbCls)
	for i := 0; i < nbCls; i++ {
		if rng.Intn(3) == 0 {
			sb.WriteString("100")
		} else {
			fmt.Fprintf(&sb, "%d", rng.Intn(9)+1)
		}
		for j := rng.Intn(3) + 1; j > 0; j-- {
			lit := rng.Intn(nbVars) + 1
			if rng.Intn(2) == 0 {
				lit = -lit
			}
			fmt.Fprintf(&sb, " %d", lit)
		}
		sb.WriteString(" 0\n")
	}
	return sb.String()
}

func satisfied(clause []int, model []bool) bool {
	for _, lit := range clause {
		if lit > 0 && model[lit-1] || lit < 0 && !model[-lit-1] {
			return true
		}
	}
	return false
}

// cost returns the cost of model for f, or -1 if model falsifies a hard clause.
func cost(f *wcnf.Formula, model []bool) int64 {
	for _, clause := range f.Hard {
		if !satisfied(clause, model) {
			return -1
		}
	}
	var res int64
	for i, clause := range f.Soft {
		if !satisfied(clause, model) {
			res += f.Weights[i].Int64()
		}
	}
	return res
}

// bruteForce returns the optimal cost of f, or -1 if f is unsatisfiable.
func bruteForce(f *wcnf.Formula) int64 {
	best := int64(-1)
	model := make([]bool, f.NbVars)
	for m := 0; m < 1<<f.NbVars; m++ {
		for i := range model {
			model[i] = m&(1<<i) != 0
		}
		if c := cost(f, model); c >= 0 && (best < 0 || c < best) {
			best = c
		}
	}
	return best
}

func TestSolveOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		text := randFormula(rng)
		f := mustParse(t, text)
		want := bruteForce(f)
		res := Solve(f, nil)
		assert.Equal(t, want >= 0, Feasible(f), text)
		if want < 0 {
			assert.Equal(t, solver.Unsatisfiable, res.Status, text)
			continue
		}
		require.Equal(t, solver.Optimum, res.Status, text)
		assert.Equal(t, want, res.Cost.Int64(), text)
		require.Len(t, res.Model, f.NbVars)
		assert.Equal(t, want, cost(f, res.Model), text)
	}
}
