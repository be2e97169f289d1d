// Command wcnffuzzer writes a random WCNF instance on its standard output.
//
// Usage:
//
//	wcnffuzzer [seed [maxvar [maxcls [maxweight [invalid]]]]]
//
// The seed is printed in a "c seed:" comment, so that the instance can be
// generated again. A non-zero invalid value allows the instance to violate
// the format.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/crillab/wcnffuzz/gen"
	"github.com/crillab/wcnffuzz/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("wcnffuzzer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wcnffuzzer [seed [maxvar [maxcls [maxweight [invalid]]]]]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(cli.ProtectNumbers(fs, args)); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 1
	}
	opts, err := parseOptions(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		fs.Usage()
		return 1
	}
	if err := gen.Write(stdout, opts); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// parseOptions reads the options given as positional arguments.
func parseOptions(args []string) (gen.Options, error) {
	opts := gen.DefaultOptions(time.Now().UnixNano() ^ int64(os.Getpid()))
	if len(args) > 5 {
		return opts, errors.New("too many arguments")
	}
	var err error
	for i, arg := range args {
		switch i {
		case 0:
			opts.Seed, err = strconv.ParseInt(arg, 10, 64)
		case 1:
			opts.MaxVar, err = strconv.Atoi(arg)
		case 2:
			opts.MaxCls, err = strconv.Atoi(arg)
		case 3:
			opts.MaxWeight, err = strconv.ParseInt(arg, 10, 64)
		case 4:
			var invalid int
			invalid, err = strconv.Atoi(arg)
			opts.Invalid = invalid != 0
		}
		if err != nil {
			return opts, fmt.Errorf("argument %d: %w", i+1, err)
		}
	}
	return opts, nil
}
