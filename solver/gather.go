// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"cogentcore.org/poisson/base/mpi"
	"cogentcore.org/poisson/grid"
)

// Gather collects the full MeshSize × MeshSize solution onto the root
// rank, which returns it. Each rank sends its owned rows, one message
// per row; the root also fills in the global boundary rows.
// Other ranks return nil.
func Gather(comm *mpi.Comm, m *grid.Mesh) (*grid.Field, error) {
	pt := &m.Part
	if !comm.IsRoot() {
		for i := 1; i < pt.Rows-1; i++ {
			if err := comm.SendF64(mpi.Root, TagGather, m.U.Row(i)); err != nil {
				return nil, err
			}
		}
		if pt.IsLast() {
			if err := comm.SendF64(mpi.Root, TagGather, m.U.Row(pt.Rows-1)); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	n := pt.MeshSize
	full := grid.NewField(n, n)
	for i := 0; i < pt.Rows-1; i++ {
		full.SetRow(pt.GlobalRow(i), m.U.Row(i))
	}
	if pt.IsLast() {
		full.SetRow(n-1, m.U.Row(pt.Rows-1))
	}
	for r := 1; r < comm.Size(); r++ {
		rp, err := grid.NewPartition(n, comm.Size(), r)
		if err != nil {
			return nil, err
		}
		last := rp.Rows - 1
		if rp.IsLast() {
			last = rp.Rows
		}
		for i := 1; i < last; i++ {
			if err := comm.RecvF64(r, TagGather, full.Row(rp.GlobalRow(i))); err != nil {
				return nil, err
			}
		}
	}
	return full, nil
}
