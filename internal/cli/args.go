// Package cli holds the command-line helpers shared by the wcnffuzz commands.
package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ProtectNumbers returns args where negative numbers given as positional
// arguments can no longer be mistaken for shorthand flags of fs.
// An end-of-flags marker "--" is inserted before the first of them, so flags
// must come before it on the command line.
func ProtectNumbers(fs *pflag.FlagSet, args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if !isNegativeNumber(arg) || (i > 0 && takesValue(fs, args[i-1])) {
			continue
		}
		res := make([]string, 0, len(args)+1)
		res = append(res, args[:i]...)
		res = append(res, "--")
		return append(res, args[i:]...)
	}
	return args
}

func isNegativeNumber(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	_, err := strconv.ParseInt(arg, 10, 64)
	return err == nil
}

// takesValue is true iff arg is a flag of fs whose value is the next argument.
func takesValue(fs *pflag.FlagSet, arg string) bool {
	var f *pflag.Flag
	switch {
	case strings.Contains(arg, "="):
		return false
	case strings.HasPrefix(arg, "--"):
		f = fs.Lookup(arg[2:])
	case strings.HasPrefix(arg, "-") && len(arg) == 2:
		f = fs.ShorthandLookup(arg[1:])
	}
	return f != nil && f.NoOptDefVal == ""
}
