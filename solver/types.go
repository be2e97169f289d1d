package solver

// Describes the status vocabulary solvers use on their "s" line

// Status is the status reported by a solver.
type Status byte

const (
	// Unrecognized means the solver printed a status outside of the vocabulary.
	Unrecognized = Status(iota)
	// Satisfiable means a model was found, but not proven optimal.
	Satisfiable
	// Unsatisfiable means the hard clauses cannot be satisfied.
	Unsatisfiable
	// Optimum means a model of minimal cost was found.
	Optimum
	// Unknown means the solver gave up.
	Unknown
	// Error means the solver failed, or its output could not be understood.
	Error
)

// Exit codes solvers must use along with each status.
const (
	ExitSatisfiable   = 10
	ExitUnsatisfiable = 20
	ExitOptimum       = 30
	ExitUnknown       = 40
	ExitError         = 50
)

func (s Status) String() string {
	switch s {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	case Optimum:
		return "OPTIMUM"
	case Unknown:
		return "UNKNOWN"
	case Error:
		return "ERROR"
	default:
		return "UNRECOGNIZED"
	}
}

// ParseStatus returns the status associated with the given token,
// or Unrecognized if the token is not part of the vocabulary.
func ParseStatus(token string) Status {
	for s := Satisfiable; s <= Error; s++ {
		if token == s.String() {
			return s
		}
	}
	return Unrecognized
}

// ExitCode returns the exit code expected from a solver reporting s.
// ok is false iff s is Unrecognized, which has no expected code.
func (s Status) ExitCode() (code int, ok bool) {
	switch s {
	case Satisfiable:
		return ExitSatisfiable, true
	case Unsatisfiable:
		return ExitUnsatisfiable, true
	case Optimum:
		return ExitOptimum, true
	case Unknown:
		return ExitUnknown, true
	case Error:
		return ExitError, true
	default:
		return 0, false
	}
}
