package wcnf

import "math/big"

// A Formula is a parsed WCNF instance.
// It must not be modified once returned by Parse.
type Formula struct {
	NbVars    int        // Declared number of variables, or -1 if no header was found.
	NbClauses int        // Declared number of clauses, or -1 if no header was found.
	Top       *big.Int   // Weight from which a clause is hard; worst-case cost for unweighted input.
	Hard      [][]int    // Hard clauses, in input order.
	Soft      [][]int    // Soft clauses, in input order.
	Weights   []*big.Int // Weights[i] is the weight of Soft[i].
	WeightSum *big.Int   // Sum of all Weights.
	Weighted  bool       // Whether the header was "p wcnf".
}

func newFormula() *Formula {
	return &Formula{
		NbVars:    -1,
		NbClauses: -1,
		Top:       new(big.Int),
		WeightSum: new(big.Int),
	}
}

// HasHeader is true iff a "p" line was found in the input.
func (f *Formula) HasHeader() bool {
	return f.NbVars >= 0
}

// OverTop is true iff the sum of soft weights is greater than top.
// Such formulas are legal, but top then no longer bounds the optimum.
func (f *Formula) OverTop() bool {
	return f.WeightSum.Cmp(f.Top) > 0
}
