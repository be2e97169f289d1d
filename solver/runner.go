package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/internal/logging"
	"github.com/crillab/wcnffuzz/internal/proc"
)

// WrapperFailure is the lowest return code that denotes a failure of the
// process wrapper rather than an exit chosen by the solver.
const WrapperFailure = 120

// ErrEmptyCommand is returned when a solver command has no program in it.
var ErrEmptyCommand = errors.New("empty solver command")

// A Runner runs solvers on instances.
type Runner struct {
	Timeout   time.Duration // Wall-clock limit for a run; 0 means no limit.
	Grace     time.Duration // Delay between SIGTERM and SIGKILL; proc.DefaultGrace if 0.
	MaxOutput int64         // Bytes of output kept per stream; 0 means unlimited.
	Log       *zap.Logger
}

// NewRunner returns a runner that gives each solver timeout seconds.
func NewRunner(timeout int, log *zap.Logger) *Runner {
	return &Runner{Timeout: time.Duration(timeout) * time.Second, Log: log}
}

// Run runs command on instance and returns what it reported.
// command is split in words the way a shell would, without any expansion,
// and the path of the instance is added as last argument.
// An error is returned only if command is invalid or ctx is cancelled: a solver
// that cannot be started yields a Result with an ERROR status and code 126 or 127.
func (r *Runner) Run(ctx context.Context, instance, command string) (Result, error) {
	log := logging.OrNop(r.Log).With(zap.String("solver", command))
	argv, err := shlex.Split(command)
	if err != nil {
		return Result{}, fmt.Errorf("invalid solver command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrEmptyCommand, command)
	}
	argv = append(argv, instance)
	spec := proc.NewSpec(r.Timeout)
	if r.Grace > 0 {
		spec.Grace = r.Grace
	}
	spec.MaxOutput = r.MaxOutput
	log.Debug("run solver", zap.Strings("argv", argv), zap.Duration("timeout", r.Timeout))
	out, err := proc.Run(ctx, spec, argv)
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if err != nil {
		log.Warn("could not start solver", zap.Error(err))
	}
	if out.Truncated {
		log.Warn("solver output truncated", zap.Int64("maxBytes", r.MaxOutput))
	}
	log.Debug("solver terminated",
		zap.Int("rc", out.ExitCode),
		zap.Bool("timedOut", out.TimedOut),
		zap.Bool("killed", out.Killed),
		zap.Duration("duration", out.Duration))
	if out.ExitCode >= WrapperFailure {
		return errorResult(out.ExitCode), nil
	}
	res := Extract(out.Stdout, log)
	res.ReturnCode = out.ExitCode
	return res, nil
}
