// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"cogentcore.org/poisson/base/mpi"
	"cogentcore.org/poisson/base/num"
	"cogentcore.org/poisson/grid"
	"cogentcore.org/poisson/problem"
)

// LocalResidual returns this rank's contribution to the squared discrete
// L2 norm of the residual -Δu - f, that is the sum over owned points of
// (-Δu - f)² h², with Δu from the five-point stencil on m.U.
// Ghost rows must be current.
func LocalResidual(m *grid.Mesh) float64 {
	h2 := m.H * m.H
	n := m.Part.MeshSize
	sum := 0.0
	for i := 1; i < m.Part.Rows-1; i++ {
		dn := m.U.Row(i - 1)
		cur := m.U.Row(i)
		up := m.U.Row(i + 1)
		f := m.F.Row(i)
		for j := 1; j < n-1; j++ {
			lap := (4*cur[j] - dn[j] - up[j] - cur[j-1] - cur[j+1]) / h2
			r := lap - f[j]
			sum += r * r * h2
		}
	}
	return sum
}

// Residual returns the global L2 residual norm on the root rank,
// by summing [LocalResidual] over all ranks. Other ranks return 0.
func Residual(comm *mpi.Comm, m *grid.Mesh) (float64, error) {
	sum, err := comm.Reduce(mpi.Root, mpi.OpSum, LocalResidual(m))
	if err != nil || !comm.IsRoot() {
		return 0, err
	}
	return math.Sqrt(sum), nil
}

// LocalMaxError returns the largest absolute difference between m.U
// and the exact solution over the owned points.
func LocalMaxError(m *grid.Mesh, prob problem.Exacter) float64 {
	n := m.Part.MeshSize
	mx := 0.0
	for i := 1; i < m.Part.Rows-1; i++ {
		y := m.Y(i)
		for j := 1; j < n-1; j++ {
			mx = max(mx, num.Abs(m.U.Float(i, j)-prob.Exact(m.X(j), y)))
		}
	}
	return mx
}

// MaxError returns the global max-norm error against the exact
// solution on the root rank. Other ranks return 0.
func MaxError(comm *mpi.Comm, m *grid.Mesh, prob problem.Exacter) (float64, error) {
	mx, err := comm.Reduce(mpi.Root, mpi.OpMax, LocalMaxError(m, prob))
	if err != nil || !comm.IsRoot() {
		return 0, err
	}
	return mx, nil
}
