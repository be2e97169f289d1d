package check

// A Kind is a category of defect.
type Kind string

// Defects found by looking at a single solver.
const (
	Assertion       = Kind("assertion")        // The solver aborted (rc 134).
	Segfault        = Kind("sigsev")           // The solver crashed (rc 139).
	UnknownResult   = Kind("unknown-result")   // The status is not part of the vocabulary.
	WrongReturnCode = Kind("wrong-returncode") // The exit code does not match the status.
	NoValue         = Kind("no-value")         // OPTIMUM without an optimum value.
	OptimumTooHigh  = Kind("optimum-toohigh")  // OPTIMUM with a value above top.
)

// Defects found by comparing two solvers on the same instance.
const (
	StatusMismatch  = Kind("status-mismatch")
	OptimumMismatch = Kind("optimum-mismatch")
)

// PairSeparator separates the names of two solvers in keys of cross-solver defects.
const PairSeparator = " <> "

// pairName is the name under which defects involving both a and b are recorded.
func pairName(a, b string) string {
	return a + PairSeparator + b
}
