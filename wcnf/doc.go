// Package wcnf parses MaxSAT instances in the DIMACS WCNF format.
//
// Two flavours of input are accepted. Weighted files start with a header
// "p wcnf <vars> <clauses> <top>" and every clause line starts with its
// weight; a clause whose weight is at least top is hard, i.e it must be
// satisfied, while other clauses are soft and cost their weight when falsified.
// Unweighted files start with "p cnf <vars> <clauses>" and all of their
// clauses are soft clauses of weight 1. For those, top is computed as the
// number of clauses plus one, which is the cost of falsifying everything.
//
// Weights are arbitrary-precision integers, since generated instances may
// carry weights close to 2^64.
package wcnf
