// Package proc runs external programs under a wall-clock limit.
//
// A Spec describes how a process is bounded: once Timeout expires the
// process group receives Signal, and if it is still alive Grace later it is
// killed. Exit codes follow the conventions of a POSIX shell wrapped in
// timeout(1), so that callers can reason about 124 (timeout) and 128+N
// (killed by signal N) the same way shell scripts do.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"
)

// Exit codes synthesized for abnormal terminations.
const (
	ExitTimeout       = 124
	ExitCannotExecute = 126
	ExitNotFound      = 127
	ExitSignalBase    = 128
)

// DefaultGrace is the delay between the escalation signal and SIGKILL.
const DefaultGrace = time.Second

var (
	// ErrEmptyCommand is returned when Run is called without a program.
	ErrEmptyCommand = errors.New("empty command")
	// ErrStart is returned when the program could not be started at all.
	ErrStart = errors.New("could not start process")
)

// A Spec bounds the execution of a process.
type Spec struct {
	Timeout   time.Duration  // Wall-clock limit; 0 means no limit.
	Grace     time.Duration  // Time between Signal and SIGKILL; DefaultGrace if 0.
	Signal    syscall.Signal // Escalation signal; SIGTERM if 0.
	MaxOutput int64          // Bytes kept per output stream; 0 means unlimited.
	Dir       string         // Working directory; the current one if empty.
}

// NewSpec returns the usual spec: SIGTERM after timeout, SIGKILL one second later.
func NewSpec(timeout time.Duration) Spec {
	return Spec{Timeout: timeout, Grace: DefaultGrace, Signal: defaultSignal}
}

// An Outcome is what is known about a terminated process.
type Outcome struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	TimedOut  bool // Timeout expired and the escalation signal was sent.
	Killed    bool // The process had to be killed after the grace period.
	Truncated bool // Output exceeded MaxOutput and was cut.
	Duration  time.Duration
}

// Run executes argv and waits for it to terminate, bounded by spec.
// The process and its stdio are always reaped before Run returns, and
// helpers it left running in its process group are killed.
// An error is returned only if the process could not be started, in which
// case the Outcome still carries the shell-style exit code (126 or 127),
// or if ctx was cancelled by the caller.
func Run(ctx context.Context, spec Spec, argv []string) (*Outcome, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	if spec.Signal == 0 {
		spec.Signal = defaultSignal
	}
	if spec.Grace <= 0 {
		spec.Grace = DefaultGrace
	}
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = spec.Dir
	setProcessGroup(cmd)
	var timedOut atomic.Bool
	cmd.Cancel = func() error {
		if ctx.Err() == nil {
			timedOut.Store(true)
		}
		return signalGroup(cmd, spec.Signal)
	}
	cmd.WaitDelay = spec.Grace

	var stdout, stderr bytes.Buffer
	outW := &limitedWriter{w: &stdout, max: spec.MaxOutput}
	errW := &limitedWriter{w: &stderr, max: spec.MaxOutput}
	cmd.Stdout = outW
	cmd.Stderr = errW

	start := time.Now()
	err := cmd.Run()
	out := &Outcome{
		Duration:  time.Since(start),
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: outW.truncated || errW.truncated,
	}
	if cmd.ProcessState == nil {
		out.ExitCode = startFailureCode(err)
		return out, fmt.Errorf("%w %q: %v", ErrStart, argv[0], err)
	}
	out.ExitCode = exitCode(cmd.ProcessState)
	if timedOut.Load() {
		out.TimedOut = true
		out.Killed = killed(cmd.ProcessState)
		out.ExitCode = ExitTimeout
	}
	// Helpers left in the background by the leader die with the group.
	_ = signalGroup(cmd, killSignal)
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, nil
}

func startFailureCode(err error) int {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound
	default:
		return ExitCannotExecute
	}
}
