// Package generator runs an external formula generator and collects the instances it produces.
//
// The generator is an opaque program that writes one WCNF formula on its standard output.
// Among the comments of that formula, a line "c seed: <n>" gives the seed the
// formula can be reproduced with; it is used to name the instance file.
package generator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/internal/logging"
	"github.com/crillab/wcnffuzz/internal/proc"
)

// Default values for an Adapter.
const (
	DefaultCommand  = "./wcnffuzzer"
	DefaultAttempts = 5
	DefaultTimeout  = 60 * time.Second
)

const seedPrefix = "c seed:"

var (
	// ErrGeneratorFailed is returned when no attempt to run the generator succeeded.
	ErrGeneratorFailed = errors.New("generator failed")
	// ErrNoSeed is returned when the generator output does not carry a seed.
	ErrNoSeed = errors.New("no seed in generator output")
)

// An Adapter produces instances by running a generator command.
// The zero value runs DefaultCommand in the current directory.
type Adapter struct {
	Command  string        // Generator command line, split shell-style.
	Dir      string        // Where instance files are written.
	Attempts int           // Number of runs before giving up.
	Timeout  time.Duration // Limit for each run; 0 means DefaultTimeout.
	Log      *zap.Logger
}

// Generate runs the generator until it succeeds and returns the formula it produced.
// If asString is true, the formula text itself is returned and nothing is written.
// Otherwise it is written to Dir in a file named after its seed, and the path of
// that file is returned.
func (a *Adapter) Generate(ctx context.Context, asString bool) (string, error) {
	log := logging.OrNop(a.Log)
	out, err := a.run(ctx, log)
	if err != nil {
		return "", err
	}
	seed, err := extractSeed(out)
	if err != nil {
		return "", err
	}
	log.Debug("extracted seed", zap.String("seed", seed))
	if asString {
		return out, nil
	}
	path := filepath.Join(a.Dir, "wcnffuzzer_"+seed+".wcnf")
	if err := atomic.WriteFile(path, strings.NewReader(out)); err != nil {
		return "", fmt.Errorf("could not write instance: %w", err)
	}
	return path, nil
}

// run runs the generator until it exits with code 0, and returns its standard output.
func (a *Adapter) run(ctx context.Context, log *zap.Logger) (string, error) {
	command := a.Command
	if command == "" {
		command = DefaultCommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return "", fmt.Errorf("invalid generator command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return "", fmt.Errorf("%w: empty command", ErrGeneratorFailed)
	}
	attempts := a.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := 0
	for i := 1; i <= attempts; i++ {
		out, err := proc.Run(ctx, proc.NewSpec(timeout), argv)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if err != nil {
			log.Debug("could not start generator", zap.Int("attempt", i), zap.Error(err))
		}
		if out.ExitCode == 0 {
			return out.Stdout, nil
		}
		rc = out.ExitCode
		log.Debug("generator failed", zap.Int("attempt", i), zap.Int("rc", rc))
	}
	return "", fmt.Errorf("%w: %q returned with %d after %d attempts", ErrGeneratorFailed, command, rc, attempts)
}

// extractSeed returns the seed announced in the first seed line of out.
func extractSeed(out string) (string, error) {
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, seedPrefix) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return "", fmt.Errorf("%w: %q", ErrNoSeed, line)
		}
		if _, ok := new(big.Int).SetString(fields[2], 10); !ok {
			return "", fmt.Errorf("%w: invalid seed %q", ErrNoSeed, fields[2])
		}
		return fields[2], nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSeed, err)
	}
	return "", ErrNoSeed
}
