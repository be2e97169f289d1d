package solver

import (
	"fmt"
	"math/big"
)

// A Result is what a solver run reported.
// Token is the raw status token, which differs from Status.String() only
// when the status is Unrecognized.
// Value is the last accepted optimum value, or nil if the solver did not print any.
// Model associates each variable with the binding the solver printed for it.
type Result struct {
	ReturnCode int
	Status     Status
	Token      string
	Value      *big.Int
	Model      map[int]bool
}

// errorResult is the result of a run whose output cannot be trusted.
func errorResult(rc int) Result {
	return Result{
		ReturnCode: rc,
		Status:     Error,
		Token:      Error.String(),
		Model:      map[int]bool{},
	}
}

func (r Result) String() string {
	value := "-"
	if r.Value != nil {
		value = r.Value.String()
	}
	return fmt.Sprintf("rc=%d s=%s o=%s vars=%d", r.ReturnCode, r.Token, value, len(r.Model))
}
