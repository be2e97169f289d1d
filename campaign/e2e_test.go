//go:build unix

package campaign

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/wcnffuzz/check"
	"github.com/crillab/wcnffuzz/generator"
)

func shellScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return "/bin/sh " + path
}

func TestCampaignProcesses(t *testing.T) {
	bin := t.TempDir()
	out := t.TempDir()
	counter := filepath.Join(bin, "count")
	gen := shellScript(t, bin, "gen.sh", `echo x >> `+counter+`
n=$(wc -l < `+counter+`)
echo "c seed: $n"
echo "p wcnf 2 2 5"
echo "5 1 2 0"
echo "1 -1 0"
`)
	// Reports an optimum above top on the first instance only.
	liar := shellScript(t, bin, "liar.sh", `case "$1" in
*_1.wcnf) echo "s OPTIMUM FOUND"; echo "o 6"; exit 30;;
*) echo "s OPTIMUM FOUND"; echo "o 0"; echo "v -1 2 0"; exit 30;;
esac
`)
	honest := shellScript(t, bin, "honest.sh", "echo 's OPTIMUM FOUND'\necho 'o 0'\necho 'v -1 2 0'\nexit 30\n")

	cfg := DefaultConfig()
	cfg.Generator = gen
	cfg.InstanceDir = out
	cfg.TimeoutSeconds = 5
	sum, err := New(cfg, 3, []string{liar, honest}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Iterations)
	assert.Equal(t, 6, sum.SolverRuns)

	first := filepath.Join(out, "wcnffuzzer_1.wcnf")
	e, ok := sum.Registry.Lookup(check.Key{Solver: liar, Kind: check.OptimumTooHigh})
	require.True(t, ok)
	assert.Equal(t, first, e.Instance)
	_, ok = sum.Registry.Lookup(check.Key{Solver: liar + check.PairSeparator + honest, Kind: check.OptimumMismatch})
	assert.True(t, ok)
	assert.Equal(t, 2, sum.Registry.Len())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "wcnffuzzer_1.wcnf", entries[0].Name())
}

func TestRunGeneratorFailure(t *testing.T) {
	gen := &generator.Adapter{Command: "/bin/sh -c 'exit 3'", Dir: t.TempDir()}
	run := &fakeRunner{}
	_, err := newCampaign(4, gen, run, "solver").Run(context.Background())
	require.ErrorIs(t, err, generator.ErrGeneratorFailed)
	assert.Empty(t, run.calls)
}
