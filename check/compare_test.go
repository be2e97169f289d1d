package check

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/crillab/wcnffuzz/solver"
	"github.com/crillab/wcnffuzz/wcnf"
)

func formulaWithTop(t *testing.T, top int) *wcnf.Formula {
	t.Helper()
	f, err := wcnf.ParseString("p wcnf 1 1 "+big.NewInt(int64(top)).String()+"\n1 1 0\n", nil)
	require.NoError(t, err)
	return f
}

func result(rc int, status solver.Status, value int64) solver.Result {
	res := solver.Result{ReturnCode: rc, Status: status, Token: status.String(), Model: map[int]bool{}}
	if value >= 0 {
		res.Value = big.NewInt(value)
	}
	return res
}

func keys(reg *Registry) []string {
	var res []string
	for _, e := range reg.Entries() {
		res = append(res, e.Key.String())
	}
	return res
}

func TestCompareSingle(t *testing.T) {
	tests := []struct {
		name string
		res  solver.Result
		top  int
		want []string
	}{
		{"satisfiable", result(10, solver.Satisfiable, -1), 5, nil},
		{"optimum", result(30, solver.Optimum, 5), 5, nil},
		{"zero optimum", result(30, solver.Optimum, 0), 5, nil},
		{"unsatisfiable", result(20, solver.Unsatisfiable, -1), 5, nil},
		{"unknown", result(40, solver.Unknown, -1), 5, nil},
		{"error", result(50, solver.Error, -1), 5, nil},
		{"optimum too high", result(30, solver.Optimum, 6), 5, []string{"s::optimum-toohigh"}},
		{"no value", result(30, solver.Optimum, -1), 5, []string{"s::no-value"}},
		{"negative value", solver.Result{ReturnCode: 30, Status: solver.Optimum, Token: "OPTIMUM", Value: big.NewInt(-1)}, 5, []string{"s::no-value"}},
		{"negative value above negative top", solver.Result{ReturnCode: 30, Status: solver.Optimum, Token: "OPTIMUM", Value: big.NewInt(-1)}, -3, []string{"s::no-value", "s::optimum-toohigh"}},
		{"no value with negative top", result(30, solver.Optimum, -1), -3, []string{"s::no-value"}},
		{"assertion", result(134, solver.Error, -1), 5, []string{"s::assertion", "s::wrong-returncode"}},
		{"segfault", result(139, solver.Error, -1), 5, []string{"s::sigsev", "s::wrong-returncode"}},
		{"wrong code", result(0, solver.Satisfiable, -1), 5, []string{"s::wrong-returncode"}},
		{"timeout", result(124, solver.Error, -1), 5, nil},
		{"unrecognized", solver.Result{ReturnCode: 10, Status: solver.Unrecognized, Token: "MAYBE"}, 5, []string{"s::unknown-result"}},
		{"unrecognized optimum too high", solver.Result{ReturnCode: 30, Status: solver.Unrecognized, Token: "OPT", Value: big.NewInt(10)}, 5, []string{"s::unknown-result"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reg := NewRegistry()
			var c Comparator
			found := c.Compare("i.wcnf", []Run{{Solver: "s", Result: test.res}}, reg, formulaWithTop(t, test.top))
			assert.Equal(t, len(test.want) > 0, found)
			assert.Equal(t, test.want, keys(reg))
		})
	}
}

func TestCompareSatisfiable(t *testing.T) {
	res := solver.Extract("s SATISFIABLE\n", nil)
	res.ReturnCode = 10
	reg := NewRegistry()
	var c Comparator
	assert.False(t, c.Compare("i.wcnf", []Run{{Solver: "s", Result: res}}, reg, formulaWithTop(t, 5)))
	assert.Zero(t, reg.Len())
}

func TestCompareOptimumTooHigh(t *testing.T) {
	res := solver.Extract("s OPTIMUM\no 6\n", nil)
	res.ReturnCode = 30
	reg := NewRegistry()
	var c Comparator
	assert.True(t, c.Compare("i.wcnf", []Run{{Solver: "s", Result: res}}, reg, formulaWithTop(t, 5)))
	_, ok := reg.Lookup(Key{Solver: "s", Kind: OptimumTooHigh})
	assert.True(t, ok)
}

func TestCompareDeduplicates(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := Comparator{Log: zap.New(core)}
	reg := NewRegistry()
	f := formulaWithTop(t, 5)
	crash := []Run{{Solver: "s", Result: result(139, solver.Error, -1)}}
	require.True(t, c.Compare("first.wcnf", crash, reg, f))
	require.False(t, c.Compare("second.wcnf", crash, reg, f))
	e, ok := reg.Lookup(Key{Solver: "s", Kind: Segfault})
	require.True(t, ok)
	assert.Equal(t, "first.wcnf", e.Instance)
	assert.Equal(t, 2, e.Count)
	assert.Equal(t, 1, logs.FilterMessage("solver crashes with a segmentation fault").Len())
	assert.Equal(t, "first.wcnf", logs.All()[0].ContextMap()["instance"])
}

func TestCompareTimeoutNeverWrongCode(t *testing.T) {
	for _, status := range []solver.Status{solver.Satisfiable, solver.Unsatisfiable, solver.Optimum, solver.Unknown, solver.Error} {
		reg := NewRegistry()
		var c Comparator
		c.Compare("i.wcnf", []Run{{Solver: "s", Result: result(124, status, 1)}}, reg, formulaWithTop(t, 5))
		_, ok := reg.Lookup(Key{Solver: "s", Kind: WrongReturnCode})
		assert.False(t, ok, "status %v", status)
	}
}

func TestCompareNilFormula(t *testing.T) {
	reg := NewRegistry()
	var c Comparator
	assert.False(t, c.Compare("i.wcnf", []Run{{Solver: "s", Result: result(30, solver.Optimum, 1000)}}, reg, nil))
}

func TestCompareCross(t *testing.T) {
	tests := []struct {
		name string
		a, b solver.Result
		want []string
	}{
		{"agree", result(30, solver.Optimum, 3), result(30, solver.Optimum, 3), nil},
		{"satisfiable vs optimum", result(10, solver.Satisfiable, 4), result(30, solver.Optimum, 3), nil},
		{"unsat vs optimum", result(20, solver.Unsatisfiable, -1), result(30, solver.Optimum, 3), []string{"a <> b::status-mismatch"}},
		{"satisfiable vs unsat", result(10, solver.Satisfiable, -1), result(20, solver.Unsatisfiable, -1), []string{"a <> b::status-mismatch"}},
		{"different optima", result(30, solver.Optimum, 2), result(30, solver.Optimum, 3), []string{"a <> b::optimum-mismatch"}},
		{"timeout", result(124, solver.Error, -1), result(20, solver.Unsatisfiable, -1), nil},
		{"unknown vs unsat", result(40, solver.Unknown, -1), result(20, solver.Unsatisfiable, -1), nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runs := []Run{{Solver: "a", Result: test.a}, {Solver: "b", Result: test.b}}
			reg := NewRegistry()
			c := Comparator{CrossCheck: true}
			assert.Equal(t, len(test.want) > 0, c.Compare("i.wcnf", runs, reg, formulaWithTop(t, 5)))
			assert.Equal(t, test.want, keys(reg))
			reg = NewRegistry()
			c.CrossCheck = false
			assert.False(t, c.Compare("i.wcnf", runs, reg, formulaWithTop(t, 5)))
		})
	}
}
