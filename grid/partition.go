// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid provides the row-block decomposition of a square mesh
// across ranks, and the per-rank storage of solution and forcing values.
package grid

import (
	"fmt"

	"cogentcore.org/poisson/base/errors"
	"cogentcore.org/poisson/base/mpi"
)

// MinMeshSize is the smallest mesh size that can be decomposed at all.
const MinMeshSize = 4

// ErrTooSmall is returned when the mesh has too few interior rows for
// the requested number of ranks.
var ErrTooSmall = errors.New("illegal size")

// Partition is the row range of the global mesh owned by one rank.
// Ranks form a linear chain: rank 0 owns the lowest interior rows and
// the global boundary row 0; the last rank owns the highest interior
// rows, the global boundary row MeshSize-1, and the remainder rows.
//
// Local row i corresponds to global row Rank*Base + i. Local rows 0 and
// Rows-1 are ghost rows, except where they are global boundary rows.
type Partition struct {

	// MeshSize is the global number of rows and columns, including boundaries.
	MeshSize int

	// Size is the number of ranks.
	Size int

	// Rank is the rank owning this partition.
	Rank int

	// Base is the number of interior rows per rank.
	Base int

	// Remainder is the number of extra interior rows owned by the last rank.
	Remainder int

	// Rows is the number of local rows, including the two ghost rows.
	Rows int
}

// NewPartition returns the partition of a mesh of the given size for the
// given rank out of size ranks. It returns an error wrapping [ErrTooSmall]
// if a rank would have fewer than two interior rows, since the stencil
// then has nothing of its own to update.
func NewPartition(meshSize, size, rank int) (Partition, error) {
	if size < 1 || rank < 0 || rank >= size {
		return Partition{}, fmt.Errorf("%w: %d of %d", mpi.ErrRank, rank, size)
	}
	if meshSize < MinMeshSize {
		return Partition{}, fmt.Errorf("%w: mesh size %d is less than %d", ErrTooSmall, meshSize, MinMeshSize)
	}
	interior := meshSize - 2
	pt := Partition{
		MeshSize:  meshSize,
		Size:      size,
		Rank:      rank,
		Base:      interior / size,
		Remainder: interior % size,
	}
	pt.Rows = pt.Base + 2
	if pt.Rows <= 3 {
		return Partition{}, fmt.Errorf("%w: mesh size %d gives %d rows per rank for %d ranks", ErrTooSmall, meshSize, pt.Rows, size)
	}
	if pt.IsLast() {
		pt.Rows += pt.Remainder
	}
	return pt, nil
}

// Partitions returns the partitions of all ranks, in rank order.
func Partitions(meshSize, size int) ([]Partition, error) {
	pts := make([]Partition, size)
	for r := range size {
		pt, err := NewPartition(meshSize, size, r)
		if err != nil {
			return nil, err
		}
		pts[r] = pt
	}
	return pts, nil
}

// IsFirst returns true for the rank that owns global boundary row 0.
func (pt *Partition) IsFirst() bool {
	return pt.Rank == 0
}

// IsLast returns true for the rank that owns global boundary row MeshSize-1.
func (pt *Partition) IsLast() bool {
	return pt.Rank == pt.Size-1
}

// Owned returns the number of interior rows owned by this rank.
func (pt *Partition) Owned() int {
	return pt.Rows - 2
}

// Start returns the global index of the first owned interior row.
func (pt *Partition) Start() int {
	return pt.GlobalRow(1)
}

// End returns the global index one past the last owned interior row.
func (pt *Partition) End() int {
	return pt.Start() + pt.Owned()
}

// GlobalRow returns the global row index of local row i.
func (pt *Partition) GlobalRow(i int) int {
	return pt.Rank*pt.Base + i
}

// Spacing returns the grid spacing h = 1/(MeshSize-1).
func (pt *Partition) Spacing() float64 {
	return 1 / float64(pt.MeshSize-1)
}

// Upper returns the rank owning the next higher rows, or [mpi.None]
// for the last rank.
func (pt *Partition) Upper() mpi.Neighbor {
	if pt.IsLast() {
		return mpi.None
	}
	return mpi.Some(pt.Rank + 1)
}

// Lower returns the rank owning the next lower rows, or [mpi.None]
// for the first rank.
func (pt *Partition) Lower() mpi.Neighbor {
	if pt.IsFirst() {
		return mpi.None
	}
	return mpi.Some(pt.Rank - 1)
}

// IsBoundaryRow returns true if local row i is a global boundary row.
func (pt *Partition) IsBoundaryRow(i int) bool {
	return (i == 0 && pt.IsFirst()) || (i == pt.Rows-1 && pt.IsLast())
}

func (pt Partition) String() string {
	return fmt.Sprintf("rank %d/%d: rows [%d, %d) of %d", pt.Rank, pt.Size, pt.Start(), pt.End(), pt.MeshSize)
}
