package solver

import (
	"math/big"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/internal/logging"
)

// Extract interprets the standard output of a solver.
// The returned Result has a zero ReturnCode.
// Suspicious lines are reported on log, which may be nil.
func Extract(stdout string, log *zap.Logger) Result {
	log = logging.OrNop(log)
	res := Result{Status: Unknown, Token: Unknown.String(), Model: make(map[int]bool)}
	var (
		statusFound bool
		malformed   bool // An invalid "o" line was found: the output is not trustworthy.
	)
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, "s "):
			if statusFound {
				continue
			}
			statusFound = true
			fields := strings.Fields(line)
			if len(fields) < 2 {
				log.Warn("found invalid status line, set to ERROR", zap.String("line", line))
				res.Status, res.Token = Error, Error.String()
				continue
			}
			res.Status, res.Token = ParseStatus(fields[1]), fields[1]
		case strings.HasPrefix(line, "o "):
			value, ok := parseValue(line)
			if !ok {
				log.Warn("found invalid optimum line, set to ERROR", zap.String("line", line))
				malformed = true
				continue
			}
			if res.Value != nil && value.Cmp(res.Value) > 0 {
				log.Warn("reported optimum increased, ignore",
					zap.Stringer("from", res.Value),
					zap.Stringer("to", value))
				continue
			}
			res.Value = value
		case strings.HasPrefix(line, "v "):
			readModel(line, res.Model, log)
		}
	}
	if malformed {
		res.Status, res.Token = Error, Error.String()
	}
	return res
}

// parseValue parses a line of the form "o <value>".
func parseValue(line string) (*big.Int, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, false
	}
	return new(big.Int).SetString(fields[1], 10)
}

// readModel adds the bindings of a "v" line to model.
// The last field is the terminator and is ignored.
func readModel(line string, model map[int]bool, log *zap.Logger) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return
	}
	for _, field := range fields[1 : len(fields)-1] {
		lit, err := strconv.Atoi(field)
		if err != nil || lit == 0 {
			log.Debug("ignoring invalid literal in model", zap.String("literal", field))
			continue
		}
		if lit > 0 {
			model[lit] = true
		} else {
			model[-lit] = false
		}
	}
}
