// Package refsolve is a reference MaxSAT solver for WCNF formulas.
//
// It translates a wcnf.Formula into a gophersat maxsat.Problem and reports the
// result the way solvers of the MaxSAT evaluations do, so that it can be used
// as one of the solvers under test. The satisfiability of hard clauses is
// established independently with gini before optimizing.
package refsolve

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/crillab/gophersat/maxsat"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/internal/logging"
	"github.com/crillab/wcnffuzz/solver"
	"github.com/crillab/wcnffuzz/wcnf"
)

// MaxTotalWeight is the largest sum of soft weights the solver accepts.
// Beyond that the underlying solver could overflow, and the result is UNKNOWN.
const MaxTotalWeight = math.MaxInt32

// An Outcome is the result of solving a formula.
type Outcome struct {
	Status solver.Status
	Cost   *big.Int // Cost of the optimal model, when Status is Optimum.
	Model  []bool   // Binding of variable i+1, when Status is Optimum.
	Reason string   // Why the formula was not solved, when Status is Unknown or Error.
}

// Solve solves f.
// Literals on variables beyond f.NbVars are accepted, and such variables appear in the model.
func Solve(f *wcnf.Formula, log *zap.Logger) (res Outcome) {
	log = logging.OrNop(log)
	defer func() {
		if r := recover(); r != nil {
			log.Error("solver panicked", zap.Any("panic", r))
			res = Outcome{Status: solver.Error, Reason: fmt.Sprint(r)}
		}
	}()
	pb, err := translate(f)
	if err != nil {
		return Outcome{Status: solver.Unknown, Reason: err.Error()}
	}
	log.Debug("translated formula",
		zap.Int("constraints", len(pb.constrs)),
		zap.Int("vars", pb.nbVars),
		zap.Stringer("offset", pb.offset))
	if pb.unsat || !Feasible(f) {
		return Outcome{Status: solver.Unsatisfiable}
	}
	res = Outcome{Status: solver.Optimum, Cost: new(big.Int).Set(pb.offset), Model: make([]bool, pb.nbVars)}
	if len(pb.constrs) == 0 {
		return res
	}
	model, cost := maxsat.New(pb.constrs...).Solve()
	if model == nil {
		return Outcome{Status: solver.Error, Reason: "no model found although hard clauses are satisfiable"}
	}
	res.Cost.Add(res.Cost, big.NewInt(int64(cost)))
	for i := range res.Model {
		res.Model[i] = model[varName(i+1)]
	}
	return res
}

// Feasible is true iff the hard clauses of f can all be satisfied.
func Feasible(f *wcnf.Formula) bool {
	g := gini.New()
	for _, clause := range f.Hard {
		for _, lit := range clause {
			g.Add(z.Dimacs2Lit(lit))
		}
		g.Add(z.LitNull)
	}
	return g.Solve() == 1
}

// ExitCode is the code a solver exits with after reporting o.
func (o Outcome) ExitCode() int {
	code, ok := o.Status.ExitCode()
	if !ok {
		return solver.ExitError
	}
	return code
}

// Write writes o in the MaxSAT evaluation format.
func (o Outcome) Write(w io.Writer) error {
	out := bufio.NewWriter(w)
	if o.Reason != "" {
		fmt.Fprintf(out, "c %s\n", o.Reason)
	}
	switch o.Status {
	case solver.Optimum:
		fmt.Fprintf(out, "o %s\ns OPTIMUM FOUND\nv", o.Cost)
		for i, binding := range o.Model {
			out.WriteByte(' ')
			if !binding {
				out.WriteByte('-')
			}
			out.WriteString(strconv.Itoa(i + 1))
		}
		out.WriteString(" 0\n")
	default:
		fmt.Fprintf(out, "s %s\n", o.Status)
	}
	return out.Flush()
}

// problem is a formula translated into maxsat constraints.
type problem struct {
	constrs []maxsat.Constr
	offset  *big.Int // Cost of soft clauses that are always falsified.
	nbVars  int
	unsat   bool // A hard clause can never be satisfied.
}

func translate(f *wcnf.Formula) (*problem, error) {
	pb := &problem{offset: new(big.Int), nbVars: max(f.NbVars, 0)}
	total := new(big.Int)
	for _, w := range f.Weights {
		if w.Sign() > 0 {
			total.Add(total, w)
		}
	}
	if total.Cmp(big.NewInt(MaxTotalWeight)) > 0 {
		return nil, fmt.Errorf("sum of soft weights %s is too large", total)
	}
	for _, clause := range f.Hard {
		lits, ok := pb.lits(clause)
		if !ok {
			continue
		}
		if len(lits) == 0 {
			pb.unsat = true
			return pb, nil
		}
		pb.constrs = append(pb.constrs, maxsat.HardClause(lits...))
	}
	for i, clause := range f.Soft {
		weight := f.Weights[i]
		if weight.Sign() <= 0 {
			// Falsifying the clause costs nothing.
			continue
		}
		lits, ok := pb.lits(clause)
		if !ok {
			continue
		}
		if len(lits) == 0 {
			pb.offset.Add(pb.offset, weight)
			continue
		}
		pb.constrs = append(pb.constrs, maxsat.WeightedClause(lits, int(weight.Int64())))
	}
	return pb, nil
}

// lits returns the literals of clause, without duplicates.
// ok is false iff clause is a tautology.
func (pb *problem) lits(clause []int) (lits []maxsat.Lit, ok bool) {
	clause = lo.Uniq(clause)
	set := lo.SliceToMap(clause, func(lit int) (int, struct{}) { return lit, struct{}{} })
	for _, lit := range clause {
		if _, ok := set[-lit]; ok {
			return nil, false
		}
		v := lit
		if v < 0 {
			v = -v
		}
		pb.nbVars = max(pb.nbVars, v)
		if lit > 0 {
			lits = append(lits, maxsat.Var(varName(v)))
		} else {
			lits = append(lits, maxsat.Not(varName(v)))
		}
	}
	return lits, true
}

func varName(v int) string {
	return strconv.Itoa(v)
}
