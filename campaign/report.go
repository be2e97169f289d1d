package campaign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/natefinch/atomic"
	"github.com/samber/lo"

	"github.com/crillab/wcnffuzz/check"
)

// A Summary is what a campaign found.
type Summary struct {
	RunID      string
	Iterations int // Completed iterations.
	Instances  int // Generated instances.
	SolverRuns int
	Registry   *check.Registry
	Kept       []string // Instances that were not deleted.
}

// Found is true iff at least one defect was found.
func (s *Summary) Found() bool {
	return s.Registry.Len() > 0
}

// Write prints the defects found, one per line, with the instance exhibiting each of them.
func (s *Summary) Write(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Defect Summary (%d found):\n", s.Registry.Len())
	for _, e := range s.Registry.Entries() {
		fmt.Fprintf(&buf, "On %s, found %s (%d times)\n", e.Instance, e.Key, e.Count)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

type jsonDefect struct {
	Solver   string `json:"solver"`
	Kind     string `json:"kind"`
	Instance string `json:"instance"`
	Count    int    `json:"count"`
}

type jsonSummary struct {
	RunID      string       `json:"run_id"`
	Iterations int          `json:"iterations"`
	Instances  int          `json:"instances"`
	SolverRuns int          `json:"solver_runs"`
	Defects    []jsonDefect `json:"defects"`
	Kept       []string     `json:"kept"`
}

// WriteJSON writes the summary as JSON to the file at path, atomically.
func (s *Summary) WriteJSON(path string) error {
	js := jsonSummary{
		RunID:      s.RunID,
		Iterations: s.Iterations,
		Instances:  s.Instances,
		SolverRuns: s.SolverRuns,
		Defects: lo.Map(s.Registry.Entries(), func(e check.Entry, _ int) jsonDefect {
			return jsonDefect{Solver: e.Key.Solver, Kind: string(e.Key.Kind), Instance: e.Instance, Count: e.Count}
		}),
		Kept: lo.Ternary(s.Kept == nil, []string{}, s.Kept),
	}
	data, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("cannot write report: %w", err)
	}
	return nil
}
