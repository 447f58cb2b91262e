// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math/rand/v2"
	"sync"
	"testing"

	"cogentcore.org/poisson/base/mpi"
	"cogentcore.org/poisson/grid"
	"cogentcore.org/poisson/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRanks runs f on every rank of an in-process world of the given size,
// with a fresh mesh of size n for prob.
func runRanks(t *testing.T, n, size int, prob problem.Problem, f func(cm *mpi.Comm, m *grid.Mesh) error) {
	t.Helper()
	w, err := mpi.NewWorld(size)
	require.NoError(t, err)
	err = w.Run(func(cm *mpi.Comm) error {
		pt, err := grid.NewPartition(n, size, cm.Rank())
		if err != nil {
			return err
		}
		return f(cm, grid.NewMesh(pt, prob))
	})
	require.NoError(t, err)
}

// iterate runs iters exchange and sweep iterations, and a final exchange.
func iterate(cm *mpi.Comm, m *grid.Mesh, iters int) error {
	for range iters {
		if err := Exchange(cm, m); err != nil {
			return err
		}
		Jacobi(m)
	}
	return Exchange(cm, m)
}

func TestExchange(t *testing.T) {
	const n = 14
	val := func(g, j int) float64 { return float64(100*g + j) }
	for size := 1; size <= 4; size++ {
		runRanks(t, n, size, problem.Constant{U: -1}, func(cm *mpi.Comm, m *grid.Mesh) error {
			pt := &m.Part
			for i := 1; i < pt.Rows-1; i++ {
				for j := range n {
					m.U.SetFloat(val(pt.GlobalRow(i), j), i, j)
				}
			}
			if err := Exchange(cm, m); err != nil {
				return err
			}
			// ghost rows now hold the neighbors' edge rows;
			// global boundary rows are untouched
			for _, i := range []int{0, pt.Rows - 1} {
				for j := range n {
					want := val(pt.GlobalRow(i), j)
					if pt.IsBoundaryRow(i) {
						want = -1
					}
					assert.Equal(t, want, m.U.Float(i, j), "size %d rank %d row %d col %d", size, pt.Rank, i, j)
				}
			}
			return nil
		})
	}
}

func TestJacobi(t *testing.T) {
	const n = 8
	pt, err := grid.NewPartition(n, 1, 0)
	require.NoError(t, err)
	m := grid.NewMesh(pt, problem.Constant{U: 0.5, F: 3})
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 1; i < n-1; i++ {
		for j := 1; j < n-1; j++ {
			m.U.SetFloat(rnd.Float64(), i, j)
			m.Unew.SetFloat(rnd.Float64(), i, j)
		}
	}
	u := grid.NewField(n, n)
	copy(u.Values, m.U.Values)
	h2 := m.H * m.H

	Jacobi(m)
	assert.Equal(t, u.Values, m.Unew.Values, "the previous iterate must not be written")
	for i := 1; i < n-1; i++ {
		for j := 1; j < n-1; j++ {
			want := 0.25 * (u.Float(i-1, j) + u.Float(i+1, j) + u.Float(i, j-1) + u.Float(i, j+1) + h2*3)
			assert.InDelta(t, want, m.U.Float(i, j), 1e-15, "(%d, %d)", i, j)
		}
	}
}

func TestBoundaryInvariance(t *testing.T) {
	const n = 12
	prob := problem.Sine{}
	runRanks(t, n, 3, prob, func(cm *mpi.Comm, m *grid.Mesh) error {
		if err := iterate(cm, m, 25); err != nil {
			return err
		}
		pt := &m.Part
		for _, fl := range []*grid.Field{m.U, m.Unew} {
			for i := range pt.Rows {
				for j := range n {
					if pt.IsBoundaryRow(i) || j == 0 || j == n-1 {
						assert.Equal(t, prob.Boundary(m.X(j), m.Y(i)), fl.Float(i, j))
					}
				}
			}
		}
		return nil
	})
}

func TestResidualDecreases(t *testing.T) {
	const n, iters = 18, 40
	for _, size := range []int{1, 2, 4} {
		var res []float64
		runRanks(t, n, size, problem.Sine{}, func(cm *mpi.Comm, m *grid.Mesh) error {
			for range iters {
				if err := iterate(cm, m, 1); err != nil {
					return err
				}
				r, err := Residual(cm, m)
				if err != nil {
					return err
				}
				if cm.IsRoot() {
					res = append(res, r)
				} else {
					assert.Zero(t, r)
				}
			}
			return nil
		})
		require.Len(t, res, iters)
		for k := 1; k < iters; k++ {
			assert.Less(t, res[k], res[k-1], "size %d iteration %d", size, k)
		}
	}
}

func TestWorkerCountIndependence(t *testing.T) {
	const n, iters = 20, 60
	type result struct {
		res, maxErr float64
		sol         *grid.Field
	}
	results := make([]result, 5)
	for size := 1; size <= 4; size++ {
		runRanks(t, n, size, problem.Sine{}, func(cm *mpi.Comm, m *grid.Mesh) error {
			if err := iterate(cm, m, iters); err != nil {
				return err
			}
			r, err := Residual(cm, m)
			if err != nil {
				return err
			}
			me, err := MaxError(cm, m, problem.Sine{})
			if err != nil {
				return err
			}
			sol, err := Gather(cm, m)
			if err != nil {
				return err
			}
			if cm.IsRoot() {
				results[size] = result{r, me, sol}
			} else {
				assert.Nil(t, sol)
			}
			return nil
		})
	}
	ref := results[1]
	assert.Greater(t, ref.res, 0.0)
	for size := 2; size <= 4; size++ {
		rs := results[size]
		assert.InEpsilon(t, ref.res, rs.res, 1e-10, "size %d", size)
		assert.InDelta(t, ref.maxErr, rs.maxErr, 1e-12, "size %d", size)
		require.NotNil(t, rs.sol)
		assert.Equal(t, n, rs.sol.Rows())
		assert.InDeltaSlice(t, ref.sol.Values, rs.sol.Values, 1e-12, "size %d", size)
	}
}

func TestGather(t *testing.T) {
	const n = 10
	var mu sync.Mutex
	var full *grid.Field
	prob := problem.Sine{}
	runRanks(t, n, 2, prob, func(cm *mpi.Comm, m *grid.Mesh) error {
		pt := &m.Part
		for i := 1; i < pt.Rows-1; i++ {
			for j := 1; j < n-1; j++ {
				m.U.SetFloat(float64(pt.GlobalRow(i)*n+j), i, j)
			}
		}
		fl, err := Gather(cm, m)
		mu.Lock()
		defer mu.Unlock()
		if cm.IsRoot() {
			full = fl
		}
		return err
	})
	require.NotNil(t, full)
	h := 1.0 / (n - 1)
	for g := range n {
		for j := range n {
			want := float64(g*n + j)
			if g == 0 || g == n-1 || j == 0 || j == n-1 {
				want = prob.Boundary(float64(j)*h, float64(g)*h)
			}
			assert.Equal(t, want, full.Float(g, j), "(%d, %d)", g, j)
		}
	}
}

func TestLocalResidual(t *testing.T) {
	// u = 1 everywhere with f = 0 solves the problem exactly
	pt, err := grid.NewPartition(6, 1, 0)
	require.NoError(t, err)
	m := grid.NewMesh(pt, problem.Constant{U: 1})
	assert.NotZero(t, LocalResidual(m))
	for i := 1; i < 5; i++ {
		for j := 1; j < 5; j++ {
			m.U.SetFloat(1, i, j)
		}
	}
	assert.Zero(t, LocalResidual(m))
}

func TestMaxErrorConverges(t *testing.T) {
	runRanks(t, 10, 2, problem.Sine{}, func(cm *mpi.Comm, m *grid.Mesh) error {
		before, err := MaxError(cm, m, problem.Sine{})
		if err != nil {
			return err
		}
		if err := iterate(cm, m, 500); err != nil {
			return err
		}
		after, err := MaxError(cm, m, problem.Sine{})
		if err != nil {
			return err
		}
		if cm.IsRoot() {
			assert.InDelta(t, 1, before, 0.05)
			assert.Less(t, after, 0.02)
		}
		return nil
	})
}
