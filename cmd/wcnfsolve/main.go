// Command wcnfsolve solves a WCNF instance.
//
// It follows the conventions of the MaxSAT evaluations: the result is given
// by an "s" line, the cost of the optimal model by an "o" line and the model
// itself by a "v" line. The exit code is 30 when an optimum was found,
// 20 when the instance is unsatisfiable, 40 when it could not be solved and
// 50 on errors.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/crillab/wcnffuzz/internal/logging"
	"github.com/crillab/wcnffuzz/refsolve"
	"github.com/crillab/wcnffuzz/solver"
	"github.com/crillab/wcnffuzz/wcnf"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("wcnfsolve", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.BoolP("verbose", "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wcnfsolve [flags] <file.wcnf>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return solver.ExitError
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return solver.ExitError
	}
	log := logging.New(*verbose, stderr)
	defer func() { _ = log.Sync() }()
	path := fs.Arg(0)
	f, err := wcnf.ParseFile(path, log)
	if err == nil && !f.HasHeader() {
		err = fmt.Errorf("no header in %s", path)
	}
	if err != nil {
		log.Error("could not parse instance", zap.Error(err))
		res := refsolve.Outcome{Status: solver.Error, Reason: err.Error()}
		_ = res.Write(stdout)
		return res.ExitCode()
	}
	fmt.Fprintf(stdout, "c solving %s\n", path)
	res := refsolve.Solve(f, log)
	if err := res.Write(stdout); err != nil {
		log.Error("could not write result", zap.Error(err))
		return solver.ExitError
	}
	return res.ExitCode()
}
