package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/wcnffuzz/solver"
)

func instance(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instance.wcnf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    int
		status  solver.Status
		value   int64
	}{
		{"optimum", "p wcnf 2 4 10\n10 1 0\n10 2 0\n3 -1 0\n5 -2 0\n", 30, solver.Optimum, 8},
		{"unsat", "p wcnf 1 2 10\n10 1 0\n10 -1 0\n", 20, solver.Unsatisfiable, -1},
		{"unknown", "p wcnf 1 1 99999999999999\n9999999999 1 0\n", 40, solver.Unknown, -1},
		{"syntax error", "p wcnf 1 1 10\n10 x 0\n", 50, solver.Error, -1},
		{"no header", "c nothing\n", 50, solver.Error, -1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{instance(t, test.content)}, &stdout, &stderr)
			assert.Equal(t, test.code, code)
			res := solver.Extract(stdout.String(), nil)
			assert.Equal(t, test.status, res.Status)
			if test.value >= 0 {
				require.NotNil(t, res.Value)
				assert.Equal(t, test.value, res.Value.Int64())
				assert.Equal(t, map[int]bool{1: true, 2: true}, res.Model)
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, solver.ExitError, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: wcnfsolve")
}
