// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpi

import "strconv"

// Neighbor is an optional reference to another rank, used for the
// ends of a linear chain of ranks where there is no neighbor.
// The zero value is [None].
type Neighbor struct {
	rank  int
	valid bool
}

// None is the absent neighbor.
var None = Neighbor{}

// Some returns a present neighbor with the given rank.
func Some(rank int) Neighbor {
	return Neighbor{rank: rank, valid: true}
}

// Get returns the neighbor rank and true, or 0 and false for [None].
func (nb Neighbor) Get() (int, bool) {
	return nb.rank, nb.valid
}

func (nb Neighbor) String() string {
	if !nb.valid {
		return "none"
	}
	return strconv.Itoa(nb.rank)
}
