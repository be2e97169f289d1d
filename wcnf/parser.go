package wcnf

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/internal/logging"
)

// Clause lines of generated instances can be very long.
const maxLineSize = 64 * 1024 * 1024

var one = big.NewInt(1)

type parser struct {
	f      *Formula
	header bool
	log    *zap.Logger
}

// Parse parses a WCNF or CNF formula.
// Diagnostics that do not prevent parsing, such as soft weights summing above
// top, are reported on log, which may be nil.
// If the input does not contain any header line, no error is returned but the
// formula's NbVars and NbClauses are -1 and its Top is 0.
func Parse(r io.Reader, log *zap.Logger) (*Formula, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	p := parser{f: newFormula(), log: logging.OrNop(log)}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		var err error
		switch {
		case fields[0] == "p":
			err = p.parseHeader(fields)
		case !p.header:
			err = ErrNoHeader
		default:
			err = p.parseClause(fields)
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read formula: %w", err)
	}
	p.finish()
	return p.f, nil
}

// ParseString parses a formula held in memory.
func ParseString(s string, log *zap.Logger) (*Formula, error) {
	return Parse(strings.NewReader(s), log)
}

// ParseFile parses the formula stored at path.
func ParseFile(path string, log *zap.Logger) (*Formula, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()
	form, err := Parse(f, log)
	if err != nil {
		return nil, fmt.Errorf("could not parse %q: %w", path, err)
	}
	return form, nil
}

func (p *parser) parseHeader(fields []string) error {
	if p.header {
		return ErrDuplicateHeader
	}
	if len(fields) < 2 {
		return ErrShortHeader
	}
	var nbFields int
	switch fields[1] {
	case "cnf":
		nbFields = 4
	case "wcnf":
		nbFields = 5
	default:
		return fmt.Errorf("%w: unknown format %q", ErrSyntax, fields[1])
	}
	if len(fields) < nbFields {
		return ErrShortHeader
	}
	nbVars, err := parseCount(fields[2], "vars")
	if err != nil {
		return err
	}
	nbClauses, err := parseCount(fields[3], "clauses")
	if err != nil {
		return err
	}
	f := p.f
	f.NbVars, f.NbClauses = nbVars, nbClauses
	f.Hard = make([][]int, 0)
	f.Soft = make([][]int, 0, nbClauses)
	f.Weights = make([]*big.Int, 0, nbClauses)
	if nbFields == 5 {
		if f.Top, err = parseWeight(fields[4]); err != nil {
			return err
		}
		f.Weighted = true
	} else {
		f.Top.SetInt64(1)
	}
	p.header = true
	return nil
}

func (p *parser) parseClause(fields []string) error {
	f := p.f
	if !f.Weighted {
		lits, err := parseLits(fields)
		if err != nil {
			return err
		}
		f.Soft = append(f.Soft, lits)
		f.Weights = append(f.Weights, big.NewInt(1))
		f.WeightSum.Add(f.WeightSum, one)
		f.Top.Add(f.Top, one) // Falsifying this clause too is the worst case.
		return nil
	}
	weight, err := parseWeight(fields[0])
	if err != nil {
		return err
	}
	lits, err := parseLits(fields[1:])
	if err != nil {
		return err
	}
	if weight.Cmp(f.Top) >= 0 {
		f.Hard = append(f.Hard, lits)
		return nil
	}
	f.Soft = append(f.Soft, lits)
	f.Weights = append(f.Weights, weight)
	f.WeightSum.Add(f.WeightSum, weight)
	return nil
}

func (p *parser) finish() {
	f := p.f
	if !p.header {
		return
	}
	p.log.Debug("parsed formula",
		zap.Int("vars", f.NbVars),
		zap.Int("clauses", f.NbClauses),
		zap.Stringer("top", f.Top),
		zap.Stringer("weightSum", f.WeightSum))
	if f.OverTop() {
		p.log.Warn("sum of weights is greater than top value",
			zap.Stringer("weightSum", f.WeightSum),
			zap.Stringer("top", f.Top))
	}
}

func parseCount(field, what string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: number of %s not an int: %q", ErrSyntax, what, field)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative number of %s %d", ErrSyntax, what, n)
	}
	return n, nil
}

func parseWeight(field string) (*big.Int, error) {
	w, ok := new(big.Int).SetString(field, 10)
	if !ok {
		return nil, fmt.Errorf("%w: weight not an int: %q", ErrSyntax, field)
	}
	return w, nil
}

// parseLits parses literals up to the 0 terminator, which is not included.
func parseLits(fields []string) ([]int, error) {
	lits := make([]int, 0, len(fields))
	for _, field := range fields {
		lit, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: literal not an int: %q", ErrSyntax, field)
		}
		if lit == 0 {
			break
		}
		lits = append(lits, lit)
	}
	return lits, nil
}
