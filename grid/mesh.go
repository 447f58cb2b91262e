// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "cogentcore.org/poisson/problem"

// Mesh holds one rank's solution and forcing values. U is the current
// iterate and Unew receives the next one; they are swapped after each
// sweep. Both carry the Dirichlet boundary values, so that the boundary
// survives every swap. F is never modified after [NewMesh].
type Mesh struct {
	Part Partition

	// H is the grid spacing.
	H float64

	U    *Field
	Unew *Field
	F    *Field
}

// NewMesh allocates and initializes the mesh for the given partition.
// Boundary rows and columns of U and Unew are set from prob.Boundary,
// F is set from prob.Source at every point, and all other values of
// U and Unew are zero.
func NewMesh(part Partition, prob problem.Problem) *Mesh {
	n := part.MeshSize
	m := &Mesh{
		Part: part,
		H:    part.Spacing(),
		U:    NewField(part.Rows, n),
		Unew: NewField(part.Rows, n),
		F:    NewField(part.Rows, n),
	}
	for i := range part.Rows {
		y := m.Y(i)
		for j := range n {
			x := m.X(j)
			m.F.SetFloat(prob.Source(x, y), i, j)
			if part.IsBoundaryRow(i) || j == 0 || j == n-1 {
				b := prob.Boundary(x, y)
				m.U.SetFloat(b, i, j)
				m.Unew.SetFloat(b, i, j)
			}
		}
	}
	return m
}

// X returns the physical x coordinate of column j.
func (m *Mesh) X(j int) float64 {
	return float64(j) * m.H
}

// Y returns the physical y coordinate of local row i.
func (m *Mesh) Y(i int) float64 {
	return float64(m.Part.GlobalRow(i)) * m.H
}

// Swap exchanges U and Unew, making the last computed iterate current.
func (m *Mesh) Swap() {
	m.U, m.Unew = m.Unew, m.U
}
