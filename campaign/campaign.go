// Package campaign drives fuzzing campaigns: it generates instances, runs
// every solver under test on them, checks their results and keeps the
// instances that exhibit new defects.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/check"
	"github.com/crillab/wcnffuzz/generator"
	"github.com/crillab/wcnffuzz/internal/logging"
	"github.com/crillab/wcnffuzz/solver"
	"github.com/crillab/wcnffuzz/wcnf"
)

// ErrNoHeader is returned when a generated instance has no header line.
var ErrNoHeader = errors.New("did not find a header in the formula")

// A Generator produces instances. See generator.Adapter.
type Generator interface {
	Generate(ctx context.Context, asString bool) (string, error)
}

// A Runner runs a solver on an instance. See solver.Runner.
type Runner interface {
	Run(ctx context.Context, instance, command string) (solver.Result, error)
}

// A Campaign is a sequence of iterations, each testing all solvers on a new instance.
type Campaign struct {
	// Iterations is the number of instances to generate.
	// If negative, -Iterations instances are generated and kept, but no solver is run.
	Iterations int
	Solvers    []string
	Generator  Generator
	Runner     Runner
	Comparator *check.Comparator
	Log        *zap.Logger
	// Remove deletes instances that did not exhibit a new defect; os.Remove if nil.
	Remove func(path string) error
}

// New returns a campaign testing solvers on iterations instances, as configured by cfg.
func New(cfg Config, iterations int, solvers []string, log *zap.Logger) *Campaign {
	return &Campaign{
		Iterations: iterations,
		Solvers:    solvers,
		Generator: &generator.Adapter{
			Command: cfg.Generator,
			Dir:     cfg.InstanceDir,
			Timeout: time.Duration(cfg.GeneratorTimeoutSeconds) * time.Second,
			Log:     log,
		},
		Runner: &solver.Runner{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Grace:     time.Duration(cfg.GraceSeconds) * time.Second,
			MaxOutput: cfg.MaxOutputBytes,
			Log:       log,
		},
		Comparator: &check.Comparator{Log: log, CrossCheck: cfg.CrossCheck},
		Log:        log,
	}
}

// state is the progress of a campaign.
type state struct {
	iteration int
	instance  string
	failed    bool // The current instance exhibited a new defect.
}

// Run runs the campaign and returns what it found.
// An error is returned if the campaign had to be aborted, along with the
// summary of the iterations that were completed.
func (c *Campaign) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{RunID: uuid.NewString(), Registry: check.NewRegistry()}
	log := logging.OrNop(c.Log).With(zap.String("run", sum.RunID))
	createOnly := c.Iterations < 0
	total := c.Iterations
	if createOnly {
		total = -total
	}
	log.Debug("start campaign", zap.Int("iterations", total), zap.Bool("createOnly", createOnly), zap.Strings("solvers", c.Solvers))
	var st state
	for st.iteration = 1; st.iteration <= total; st.iteration++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := c.iterate(ctx, &st, sum, createOnly, log); err != nil {
			return sum, fmt.Errorf("iteration %d: %w", st.iteration, err)
		}
		sum.Iterations++
	}
	return sum, nil
}

func (c *Campaign) iterate(ctx context.Context, st *state, sum *Summary, createOnly bool, log *zap.Logger) error {
	instance, err := c.Generator.Generate(ctx, false)
	if err != nil {
		return err
	}
	st.instance, st.failed = instance, false
	sum.Instances++
	log.Info("run iteration", zap.Int("iteration", st.iteration), zap.String("instance", instance))
	f, err := wcnf.ParseFile(instance, log)
	if err != nil {
		return err
	}
	if !f.HasHeader() {
		return fmt.Errorf("%w %s", ErrNoHeader, instance)
	}
	if createOnly {
		sum.Kept = append(sum.Kept, instance)
		return nil
	}
	runs := make([]check.Run, 0, len(c.Solvers))
	for _, s := range c.Solvers {
		res, err := c.Runner.Run(ctx, instance, s)
		if err != nil {
			return err
		}
		sum.SolverRuns++
		log.Debug("solver terminated", zap.String("solver", s), zap.Stringer("result", res))
		runs = append(runs, check.Run{Solver: s, Result: res})
	}
	st.failed = c.Comparator.Compare(instance, runs, sum.Registry, f)
	if st.failed {
		sum.Kept = append(sum.Kept, instance)
		return nil
	}
	remove := c.Remove
	if remove == nil {
		remove = os.Remove
	}
	if err := remove(instance); err != nil {
		return fmt.Errorf("cannot remove instance: %w", err)
	}
	return nil
}
