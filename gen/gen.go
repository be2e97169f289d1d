// Package gen generates random MaxSAT instances in the WCNF format.
//
// Instances are meant to stress solvers rather than to be hard. They mix
// weighted and unweighted formulas, contain tautologies and unit clauses,
// sometimes carry weights close to 2^64 and, on demand, headers that do not
// match the actual content of the formula.
package gen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/rand"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// Default bounds for generated formulas.
const (
	DefaultMaxVar    = 500
	DefaultMaxCls    = 2000
	DefaultMaxWeight = 200
)

// ErrInvalidOptions is returned when the bounds given to Write cannot produce a formula.
var ErrInvalidOptions = errors.New("invalid generator options")

// Options describes the formula to generate.
type Options struct {
	Seed      int64
	MaxVar    int   // Upper bound on the number of variables.
	MaxCls    int   // Upper bound on the number of clauses.
	MaxWeight int64 // Clauses with a drawn weight at least MaxWeight are hard.
	// Invalid allows the formula to violate the format: weights can be 0 or negative
	// and the header may understate the number of variables and clauses.
	Invalid bool
}

// DefaultOptions returns the default options for the given seed.
func DefaultOptions(seed int64) Options {
	return Options{Seed: seed, MaxVar: DefaultMaxVar, MaxCls: DefaultMaxCls, MaxWeight: DefaultMaxWeight}
}

// maxWeights is the largest total weight huge weights aim at, 2^64-2.
var maxWeights = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(2))

// A generator holds the state of the generation of a formula.
type generator struct {
	rng       *rand.Rand
	opts      Options
	maxWeight int64
	huge      bool
	unit      bool // All weights are 1.
}

// Write generates the formula described by opts and writes it to w.
// The same options always produce the same formula.
func Write(w io.Writer, opts Options) error {
	if opts.MaxVar < 1 || opts.MaxCls < 1 || opts.MaxWeight == 0 {
		return fmt.Errorf("%w: maxvar=%d maxcls=%d maxweight=%d", ErrInvalidOptions, opts.MaxVar, opts.MaxCls, opts.MaxWeight)
	}
	g := &generator{rng: rand.New(rand.NewSource(opts.Seed)), opts: opts, maxWeight: opts.MaxWeight}
	if g.maxWeight < 0 {
		g.maxWeight = -g.maxWeight
	}
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "c wcnffuzzer\nc seed: %d\nc maxvar: %d\nc maxcls: %d\nc maxweight: %d\nc invalid: %d\n",
		opts.Seed, opts.MaxVar, opts.MaxCls, opts.MaxWeight, lo.Ternary(opts.Invalid, 1, 0))
	g.write(out)
	return out.Flush()
}

func (g *generator) write(out *bufio.Writer) {
	nbVars := g.rng.Intn(g.opts.MaxVar) + 1
	nbCls := g.nbClauses(nbVars)
	weighted := true
	if g.rng.Intn(10) == 0 {
		weighted = false
		if g.rng.Intn(10) < 5 {
			// Unweighted formula, written in the weighted format.
			weighted = true
			g.unit = true
		}
	}
	if g.unit {
		fmt.Fprintln(out, "c enable unweighted wcnf")
	} else {
		g.huge = g.rng.Intn(100) < 15
	}
	fmt.Fprintf(out, "c enable very large weights: %s\n", lo.Ternary(g.huge, "yes", "no"))
	if g.opts.Invalid {
		if g.rng.Intn(1000) < 7 {
			g.maxWeight = -g.maxWeight
		}
		if g.rng.Intn(10000) < 3 {
			g.maxWeight--
		}
	}
	limit := big.NewInt(g.maxWeight)
	nbDeclared := nbCls
	draws := make([]*big.Int, 0, nbCls)
	sum := new(big.Int)
	for len(draws) < nbCls {
		draw := g.weight()
		if weight := g.soften(draw, limit, nbDeclared); weight.Sign() > 0 {
			sum.Add(sum, weight)
		}
		draws = append(draws, draw)
	}
	top := new(big.Int).Add(sum, big.NewInt(1))
	if weighted {
		fmt.Fprintf(out, "p wcnf %d %d %s\n", nbVars, nbCls, top)
	} else {
		fmt.Fprintf(out, "p cnf %d %d\n", nbVars, nbCls)
	}
	varViolation, clsViolation := g.violation(), g.violation()
	fmt.Fprintf(out, "c violate var: %d cls: %d\n", varViolation, clsViolation)
	if g.opts.Invalid {
		nbVars += varViolation
		nbCls += clsViolation
	}
	for len(draws) < nbCls {
		draws = append(draws, g.weight())
	}
	nbHard, nbSoft := 0, 0
	hardSum, softSum := new(big.Int), new(big.Int)
	weights := make([]*big.Int, len(draws))
	for i, draw := range draws {
		if draw.Cmp(limit) >= 0 {
			weights[i] = new(big.Int).Add(top, new(big.Int).Sub(draw, limit))
			nbHard++
			hardSum.Add(hardSum, weights[i])
		} else {
			weights[i] = g.soften(draw, limit, nbDeclared)
			nbSoft++
			softSum.Add(softSum, weights[i])
		}
	}
	fmt.Fprintf(out, "c hard clauses: %d\nc soft clauses: %d\nc sum hard weights: %s\nc sum soft weights: %s\n",
		nbHard, nbSoft, hardSum, softSum)
	for c := 0; c < nbCls; c++ {
		if weighted {
			out.WriteString(weights[c].String())
			out.WriteByte(' ')
		}
		for _, lit := range g.clause(c, nbVars) {
			out.WriteString(strconv.Itoa(lit))
			out.WriteByte(' ')
		}
		out.WriteString("0\n")
	}
}

// nbClauses returns the number of clauses of a formula with nbVars variables.
func (g *generator) nbClauses(nbVars int) int {
	maxCls := g.opts.MaxCls
	minCls := maxCls / 2
	if maxCls > 3*nbVars {
		minCls = 3 * nbVars
	}
	if minCls == 0 {
		minCls = 1
	}
	if maxCls <= minCls {
		maxCls++
	}
	return g.rng.Intn(maxCls-minCls) + minCls
}

// weight draws the weight of a new clause, uniformly in [1, 2*maxWeight-1].
// Draws at least maxWeight make the clause hard.
func (g *generator) weight() *big.Int {
	span := int64(1)
	if 2*g.maxWeight > 2 {
		span = 2*g.maxWeight - 1
	}
	weight := g.rng.Int63n(span) + 1
	if !g.opts.Invalid && weight > g.maxWeight {
		weight = g.maxWeight
	}
	if g.opts.Invalid {
		if g.rng.Intn(1000) < 3 {
			weight = 0
		}
		if g.rng.Intn(100000) < 3 {
			weight = -weight
		}
	}
	if g.unit {
		return big.NewInt(1)
	}
	return big.NewInt(weight)
}

// soften returns the weight written for a soft clause whose draw is below limit.
// With huge weights enabled, it is pushed close to 2^64/nbCls, so that the sum
// of all soft weights gets close to 2^64.
func (g *generator) soften(draw, limit *big.Int, nbCls int) *big.Int {
	if !g.huge || draw.Cmp(limit) >= 0 {
		return draw
	}
	base := new(big.Int).Div(maxWeights, big.NewInt(int64(nbCls)))
	if base.Cmp(new(big.Int).Lsh(draw, 1)) > 0 {
		return base.Sub(base, draw)
	}
	return draw
}

// violation returns by how much the header understates the formula, 0 most of the time.
func (g *generator) violation() int {
	v := g.rng.Intn(100)
	if v < 90 {
		return 0
	}
	return v - 90
}

// clause returns the c-th clause of the formula: a sorted set of literals
// close to each other. Only the first 30 clauses can be drawn as unit clauses.
func (g *generator) clause(c, nbVars int) []int {
	size := g.rng.Intn(5) + 1
	if c >= 30 {
		size++
	}
	lits := make([]int, size)
	lits[0] = g.randLit(nbVars)
	for i := 1; i < size; i++ {
		lits[i] = g.relatedLit(lits[i-1], nbVars)
	}
	sort.Ints(lits)
	return lo.Uniq(lits)
}

// randLit returns a literal on one of the nbVars variables.
func (g *generator) randLit(nbVars int) int {
	i := g.rng.Intn(2*nbVars) - nbVars
	if i >= 0 {
		return i + 1
	}
	return i
}

// relatedLit returns a literal whose variable is close to the one of lit.
// It may be lit itself or its negation.
func (g *generator) relatedLit(lit, nbVars int) int {
	v := lit
	if v < 0 {
		v = -v
	}
	i := (v + nbVars - 5 + g.rng.Intn(10)) % nbVars
	if g.rng.Intn(100) < 50 {
		i = -i
	}
	if i >= 0 {
		return i + 1
	}
	return i
}
