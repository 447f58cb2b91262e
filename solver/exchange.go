// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the distributed Jacobi relaxation of a
// Poisson problem over a row-block decomposition: halo exchange between
// neighboring ranks, the five-point stencil sweep, and the global residual.
package solver

import (
	"log/slog"

	"cogentcore.org/poisson/base/mpi"
	"cogentcore.org/poisson/grid"
)

// message tags
const (
	// TagUpper carries rows sent toward lower ranks, which
	// fill their top ghost row from their upper neighbor.
	TagUpper = 1

	// TagLower carries rows sent toward upper ranks, which
	// fill their bottom ghost row from their lower neighbor.
	TagLower = 2

	// TagGather carries owned rows to the root in [Gather].
	TagGather = 3
)

// Exchange refreshes the ghost rows of m.U from the neighboring ranks.
//
// Phase A: receive the top ghost row from the upper neighbor, then send
// the first owned row to the lower neighbor. Phase B: receive the bottom
// ghost row from the lower neighbor, then send the last owned row to the
// upper neighbor. Because the ranks form a chain with no cycle, each phase
// resolves from one end of the chain to the other without deadlock.
// Missing neighbors at the chain ends skip their half of each phase.
//
// If a neighbor never reaches its matching call, Exchange blocks forever.
func Exchange(comm *mpi.Comm, m *grid.Mesh) error {
	pt := &m.Part
	top, bottom := pt.Rows-1, 0
	if up, ok := pt.Upper().Get(); ok {
		if err := comm.RecvF64(up, TagUpper, m.U.Row(top)); err != nil {
			return err
		}
		traceRecv(comm, up, TagUpper)
	}
	if lo, ok := pt.Lower().Get(); ok {
		if err := comm.SendF64(lo, TagUpper, m.U.Row(1)); err != nil {
			return err
		}
	}

	if lo, ok := pt.Lower().Get(); ok {
		if err := comm.RecvF64(lo, TagLower, m.U.Row(bottom)); err != nil {
			return err
		}
		traceRecv(comm, lo, TagLower)
	}
	if up, ok := pt.Upper().Get(); ok {
		if err := comm.SendF64(up, TagLower, m.U.Row(top-1)); err != nil {
			return err
		}
	}
	return nil
}

func traceRecv(comm *mpi.Comm, from, tag int) {
	slog.Debug("halo received", "rank", comm.Rank(), "from", from, "tag", tag)
}
