package check

import (
	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/internal/logging"
	"github.com/crillab/wcnffuzz/internal/proc"
	"github.com/crillab/wcnffuzz/solver"
	"github.com/crillab/wcnffuzz/wcnf"
)

// Return codes with a special meaning for the comparator.
const (
	rcAbort   = proc.ExitSignalBase + 6  // SIGABRT, usually a failed assertion.
	rcSegv    = proc.ExitSignalBase + 11 // SIGSEGV.
	rcTimeout = proc.ExitTimeout
)

// A Run is the result a given solver reported on the instance being checked.
type Run struct {
	Solver string
	Result solver.Result
}

// A Comparator checks the results of solvers.
type Comparator struct {
	Log *zap.Logger
	// CrossCheck enables the comparison of solvers against each other.
	CrossCheck bool
}

// Compare checks all runs made on instance, whose content is f, and records
// each defect found in reg.
// It returns true iff at least one defect was not already in reg.
// If f is nil, checks that depend on the problem are skipped.
func (c *Comparator) Compare(instance string, runs []Run, reg *Registry, f *wcnf.Formula) bool {
	log := logging.OrNop(c.Log).With(zap.String("instance", instance))
	found := false
	record := func(name string, kind Kind, msg string, fields ...zap.Field) {
		if !reg.Record(Key{Solver: name, Kind: kind}, instance) {
			return
		}
		found = true
		log.Warn(msg, append(fields, zap.String("solver", name), zap.String("kind", string(kind)))...)
	}
	for _, run := range runs {
		c.checkRun(run, f, record)
	}
	if c.CrossCheck {
		for i := range runs {
			for j := i + 1; j < len(runs); j++ {
				c.checkPair(runs[i], runs[j], record)
			}
		}
	}
	return found
}

type recordFunc func(name string, kind Kind, msg string, fields ...zap.Field)

func (c *Comparator) checkRun(run Run, f *wcnf.Formula, record recordFunc) {
	res := run.Result
	rc := zap.Int("rc", res.ReturnCode)
	switch res.ReturnCode {
	case rcAbort:
		record(run.Solver, Assertion, "solver crashes with an assertion", rc)
	case rcSegv:
		record(run.Solver, Segfault, "solver crashes with a segmentation fault", rc)
	}
	expected, ok := res.Status.ExitCode()
	switch {
	case !ok:
		record(run.Solver, UnknownResult, "unknown result", zap.String("result", res.Token))
	case expected != res.ReturnCode && res.ReturnCode != rcTimeout:
		record(run.Solver, WrongReturnCode, "return code does not match printed status",
			rc, zap.Int("expected", expected), zap.Stringer("status", res.Status))
	}
	if res.Status != solver.Optimum {
		return
	}
	if res.Value == nil || res.Value.Sign() < 0 {
		record(run.Solver, NoValue, "no optimum value given")
	}
	if f != nil && res.Value != nil && res.Value.Cmp(f.Top) > 0 {
		record(run.Solver, OptimumTooHigh, "optimum value is greater than top",
			zap.Stringer("value", res.Value), zap.Stringer("top", f.Top))
	}
}

// checkPair compares two solvers that both terminated in time.
func (c *Comparator) checkPair(a, b Run, record recordFunc) {
	ra, rb := a.Result, b.Result
	if ra.ReturnCode == rcTimeout || rb.ReturnCode == rcTimeout {
		return
	}
	name := pairName(a.Solver, b.Solver)
	if contradicts(ra.Status, rb.Status) || contradicts(rb.Status, ra.Status) {
		record(name, StatusMismatch, "solvers disagree on satisfiability",
			zap.Stringer("first", ra.Status), zap.Stringer("second", rb.Status))
	}
	if ra.Status == solver.Optimum && rb.Status == solver.Optimum &&
		ra.Value != nil && rb.Value != nil && ra.Value.Cmp(rb.Value) != 0 {
		record(name, OptimumMismatch, "solvers disagree on optimum value",
			zap.Stringer("first", ra.Value), zap.Stringer("second", rb.Value))
	}
}

// contradicts is true iff s1 claims there is no model while s2 claims to have one.
func contradicts(s1, s2 solver.Status) bool {
	return s1 == solver.Unsatisfiable && (s2 == solver.Satisfiable || s2 == solver.Optimum)
}
