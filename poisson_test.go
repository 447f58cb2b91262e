// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import (
	"bytes"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	pexec "cogentcore.org/poisson/base/exec"
	"cogentcore.org/poisson/base/iox/tomlx"
	"cogentcore.org/poisson/base/iox/yamlx"
	"cogentcore.org/poisson/base/mpi"
	"cogentcore.org/poisson/base/reflectx"
	"cogentcore.org/poisson/config"
	"cogentcore.org/poisson/grid"
	"cogentcore.org/poisson/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout redirects the root rank output for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	old := mpi.Stdout
	mpi.Stdout = &buf
	t.Cleanup(func() { mpi.Stdout = old })
	return &buf
}

func newRun(t *testing.T, np int, args ...string) *config.Run {
	r := &config.Run{}
	require.NoError(t, reflectx.SetFromDefaultTags(r))
	r.NP = np
	require.NoError(t, r.SetArgs(args))
	require.NoError(t, r.Finalize())
	return r
}

func TestRun(t *testing.T) {
	out := captureStdout(t)
	r := newRun(t, 2, "10", "100", "Jacobi")
	res, err := Run(r)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 10, res.MeshSize)
	assert.Equal(t, 100, res.Iterations)
	assert.Equal(t, 2, res.Workers)
	assert.Equal(t, "Jacobi", res.Method)
	assert.Greater(t, res.Residual, 0.0)
	assert.Less(t, res.MaxError, 0.05)
	assert.Nil(t, res.Solution)

	want := "Jacobi METHOD IS IN USE\n" + "Final Residual "
	assert.Contains(t, out.String(), want)
	assert.Contains(t, out.String(), " after 100 iterations.\n")
}

func TestRunSingle(t *testing.T) {
	captureStdout(t)
	one, err := Run(newRun(t, 1, "12", "30", "Jacobi"))
	require.NoError(t, err)
	three, err := Run(newRun(t, 3, "12", "30", "Jacobi"))
	require.NoError(t, err)
	assert.InEpsilon(t, one.Residual, three.Residual, 1e-10)
}

// captureLog installs a debug level default logger writing to the
// returned buffer for the duration of the test.
func captureLog(t *testing.T) *syncBuffer {
	buf := &syncBuffer{}
	old := slog.Default()
	slog.SetDefault(slog.New(logx.NewHandler(buf, slog.LevelDebug)))
	t.Cleanup(func() { slog.SetDefault(old) })
	return buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunLogEvery(t *testing.T) {
	captureStdout(t)
	for _, tc := range []struct {
		every, iters, want int
	}{
		{0, 6, 0},
		{-3, 6, 0},
		{2, 6, 3},
		{6, 6, 1},
		{100, 6, 1},
	} {
		lg := captureLog(t)
		r := newRun(t, 1, "8", "6", "Jacobi")
		r.LogEvery = tc.every
		_, err := Run(r)
		require.NoError(t, err)
		assert.Equal(t, tc.want, strings.Count(lg.String(), " iteration rank="), "log every %d", tc.every)
	}
}

func TestRunTooSmall(t *testing.T) {
	out := captureStdout(t)
	_, err := Run(newRun(t, 2, "3", "100", "Jacobi"))
	assert.ErrorIs(t, err, grid.ErrTooSmall)
	assert.NotContains(t, out.String(), "Final Residual")
}

func TestRunUnsupportedMethod(t *testing.T) {
	out := captureStdout(t)
	_, err := Run(newRun(t, 4, "10", "100", "GaussSeidel"))
	assert.ErrorIs(t, err, config.ErrMethod)
	assert.Empty(t, out.String(), "nothing runs when the root rejects the method")
}

func TestSolveOtherRanksIgnoreConfig(t *testing.T) {
	captureStdout(t)
	w, err := mpi.NewWorld(2)
	require.NoError(t, err)
	var res *Result
	err = w.Run(func(cm *mpi.Comm) error {
		// non-root ranks must use the broadcast config, not their own
		cfg := config.Config{MeshSize: 8, MaxIter: 5, Problem: "sine"}
		if !cm.IsRoot() {
			cfg = config.Config{MeshSize: 1000, MaxIter: -1, Problem: "bad"}
		}
		out, err := Solve(cm, cfg)
		if cm.IsRoot() {
			res = out
		} else {
			assert.Nil(t, out)
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 8, res.MeshSize)
	assert.Equal(t, 5, res.Iterations)
}

func TestRunGather(t *testing.T) {
	captureStdout(t)
	r := newRun(t, 2, "10", "50", "Jacobi")
	r.Solution = "u.csv"
	require.NoError(t, r.Finalize())
	res, err := Run(r)
	require.NoError(t, err)
	require.NotNil(t, res.Solution)
	assert.Equal(t, 10, res.Solution.Rows())
	assert.Equal(t, 10, res.Solution.Cols())
	assert.Greater(t, res.Solution.Float(5, 5), 0.5)
}

func TestRunRank(t *testing.T) {
	captureStdout(t)
	r := newRun(t, 1, "10", "20", "Jacobi")
	r.Net = true
	r.Rank = 0
	r.Addrs = []string{"127.0.0.1:0"}
	res, err := RunRank(r)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Workers)
}

// localAddrs returns n free localhost addresses.
func localAddrs(t *testing.T, n int) []string {
	t.Helper()
	addrs := make([]string, n)
	for i := range n {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addrs[i] = ln.Addr().String()
		require.NoError(t, ln.Close())
	}
	return addrs
}

// runRanks runs every rank of r with [RunRank], each in its own
// goroutine, and returns the root result and the errors by rank.
func runRanks(t *testing.T, r *config.Run) (*Result, []error) {
	t.Helper()
	r.Net = true
	r.Addrs = localAddrs(t, r.NP)
	var root *Result
	errs := make([]error, r.NP)
	var wg sync.WaitGroup
	for rank := range r.NP {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := *r
			rr.Rank = rank
			res, err := RunRank(&rr)
			errs[rank] = err
			if rank == mpi.Root {
				root = res
			} else {
				assert.Nil(t, res)
			}
		}()
	}
	wg.Wait()
	return root, errs
}

func TestRunRankNet(t *testing.T) {
	captureStdout(t)
	want, err := Run(newRun(t, 3, "12", "40", "Jacobi"))
	require.NoError(t, err)

	res, errs := runRanks(t, newRun(t, 3, "12", "40", "Jacobi"))
	for rank, err := range errs {
		require.NoError(t, err, "rank %d", rank)
	}
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Workers)
	assert.Equal(t, 40, res.Iterations)
	assert.InEpsilon(t, want.Residual, res.Residual, 1e-10)
	assert.InDelta(t, want.MaxError, res.MaxError, 1e-12)
}

func TestRunRankNetUnsupportedMethod(t *testing.T) {
	out := captureStdout(t)
	res, errs := runRanks(t, newRun(t, 3, "12", "40", "GaussSeidel"))
	assert.Nil(t, res)
	assert.ErrorIs(t, errs[0], config.ErrMethod)
	assert.ErrorIs(t, errs[1], mpi.ErrAborted)
	assert.ErrorIs(t, errs[2], mpi.ErrAborted)
	assert.Empty(t, out.String())
}

func TestLaunch(t *testing.T) {
	tr, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}
	fl, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	r := newRun(t, 2, "10", "20", "Jacobi")
	r.Net = true
	r.Addrs = []string{"127.0.0.1:7800", "127.0.0.1:7801"}

	assert.NoError(t, Launch(r, tr, []string{"10", "20"}))

	err = Launch(r, fl, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank 0")
	assert.Contains(t, err.Error(), "rank 1")

	r.Launch = "nice"
	if _, err := exec.LookPath("nice"); err == nil {
		assert.NoError(t, Launch(r, tr, nil))
	}
	r.Launch = `nice "unterminated`
	assert.Error(t, Launch(r, tr, nil))

	r.Launch = ""
	err = Launch(r, filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank 0")
}

func TestKillAll(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	var cmds []*exec.Cmd
	for range 2 {
		cm, err := pexec.Major().Start("sleep", "30")
		require.NoError(t, err)
		cmds = append(cmds, cm)
	}
	killAll(cmds)
	for _, cm := range cmds {
		// Wait has reaped the process
		require.NotNil(t, cm.ProcessState)
		assert.False(t, cm.ProcessState.Success())
		assert.Error(t, cm.Wait(), "already waited")
	}
}

func TestSaveReport(t *testing.T) {
	rp := &Report{MeshSize: 10, Iterations: 100, Method: "Jacobi", Workers: 2, Residual: 0.25, MaxError: 0.01, Seconds: 1.5}
	dir := t.TempDir()

	fn := filepath.Join(dir, "report.toml")
	require.NoError(t, SaveReport(rp, fn))
	var tr Report
	require.NoError(t, tomlx.Open(&tr, fn))
	assert.Equal(t, *rp, tr)
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mesh_size = 10")

	fn = filepath.Join(dir, "report.yaml")
	require.NoError(t, SaveReport(rp, fn))
	var yr Report
	require.NoError(t, yamlx.Open(&yr, fn))
	assert.Equal(t, *rp, yr)

	assert.Error(t, SaveReport(rp, filepath.Join(dir, "report.json")))
	assert.Equal(t, "mesh 10, 100 iterations (Jacobi) on 2 workers: residual 0.25, max error 0.01, 1.5s", rp.String())
}
