// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "cogentcore.org/poisson/grid"

// Jacobi performs one Jacobi sweep over the owned rows of m:
//
//	Unew(i,j) = (U(i-1,j) + U(i+1,j) + U(i,j-1) + U(i,j+1) + h²F(i,j)) / 4
//
// for every local row 1..Rows-2 and column 1..N-2, reading only U, and
// then swaps U and Unew. Ghost rows must be current (see [Exchange]).
// Boundary rows and columns are not written.
func Jacobi(m *grid.Mesh) {
	h2 := m.H * m.H
	n := m.Part.MeshSize
	for i := 1; i < m.Part.Rows-1; i++ {
		dn := m.U.Row(i - 1)
		cur := m.U.Row(i)
		up := m.U.Row(i + 1)
		f := m.F.Row(i)
		out := m.Unew.Row(i)
		for j := 1; j < n-1; j++ {
			out[j] = 0.25 * (dn[j] + up[j] + cur[j-1] + cur[j+1] + h2*f[j])
		}
	}
	m.Swap()
}
