package wcnf

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateHeader = errors.New("second header line")
	ErrShortHeader     = errors.New("ill-formed header line")
	ErrNoHeader        = errors.New("expected header before clause")
	ErrSyntax          = errors.New("syntax error")
)

// A ParseError describes a line that made parsing fail.
type ParseError struct {
	Line int    // 1-based line number.
	Text string // Content of the offending line.
	Err  error  // One of the Err* sentinels, possibly wrapped.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
