// Command wcnffuzz runs differential fuzzing campaigns on MaxSAT solvers.
//
// Usage:
//
//	wcnffuzz [flags] <iterations> '<solver-command>'...
//
// Each iteration generates a random WCNF instance, runs every solver on it and
// checks their results. Instances on which a new defect was found are kept;
// the others are deleted. A negative number of iterations only generates
// instances. The exit code is 1 if a defect was found, 2 if the campaign
// could not be completed, 0 otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/campaign"
	"github.com/crillab/wcnffuzz/internal/cli"
	"github.com/crillab/wcnffuzz/internal/logging"
)

const (
	exitOK      = 0
	exitDefects = 1
	exitFatal   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run runs the command with the given arguments and returns its exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		reportPath string
		verbose    bool
		overrides  *campaign.Overrides
		code       = exitOK
	)
	cmd := &cobra.Command{
		Use:   "wcnffuzz [flags] <iterations> '<solver-command>'...",
		Short: "Differential fuzzing of MaxSAT solvers",
		Long: `wcnffuzz generates random WCNF instances, runs the given solvers on each of
them and reports crashes, malformed outputs and inconsistent results.

Each solver command is split like a shell would do, and the path of the
instance is appended to it. Instances exhibiting a new defect are kept.
With a negative number of iterations, instances are only generated.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Usage()
			}
			iterations, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid number of iterations %q", args[0])
			}
			log := logging.New(verbose, stderr)
			defer func() { _ = log.Sync() }()
			cfg, err := campaign.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := overrides.Apply(&cfg); err != nil {
				return err
			}
			if cfg.Source != "" {
				log.Debug("loaded config", zap.String("path", cfg.Source))
			}
			solvers := args[1:]
			if iterations > 0 && len(solvers) == 0 {
				log.Warn("no solver given, instances are only checked for syntax")
			}
			sum, err := campaign.New(cfg, iterations, solvers, log).Run(ctx)
			if sum == nil {
				return err
			}
			// An aborted campaign still reports what it found so far.
			if werr := report(sum, stdout, reportPath); werr != nil {
				return errors.Join(err, werr)
			}
			if err != nil {
				return err
			}
			if sum.Found() {
				code = exitDefects
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	flags := cmd.Flags()
	overrides = campaign.BindFlags(flags)
	flags.StringVar(&configPath, "config", "", "JSONC config file (default "+campaign.ConfigFileName+" if present)")
	flags.StringVar(&reportPath, "report", "", "also write the summary as JSON to this file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	if args == nil {
		args = []string{} // cobra would fall back to os.Args
	}
	cmd.SetArgs(cli.ProtectNumbers(flags, args))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFatal
	}
	return code
}

func report(sum *campaign.Summary, w io.Writer, path string) error {
	if err := sum.Write(w); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	return sum.WriteJSON(path)
}
