// Copyright (c) 2020, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpi

import (
	"fmt"
	"io"
	"os"
)

// PrintAllProcs causes Comm.Printf to print on all processors -- otherwise just 0
var PrintAllProcs = false

// Stdout is where the print functions write.
var Stdout io.Writer = os.Stdout

// Printf does fmt.Printf only on the 0 rank node (see also AllPrintf to do all)
// and PrintAllProcs var to override for debugging, and print all
func (cm *Comm) Printf(fs string, pars ...any) {
	if !PrintAllProcs && cm.rank > 0 {
		return
	}
	if cm.rank > 0 {
		cm.AllPrintf(fs, pars...)
	} else {
		fmt.Fprintf(Stdout, fs, pars...)
	}
}

// AllPrintf does fmt.Printf on all nodes, with node rank printed first
// This is best for debugging MPI itself.
func (cm *Comm) AllPrintf(fs string, pars ...any) {
	fs = fmt.Sprintf("P%d: ", cm.rank) + fs
	fmt.Fprintf(Stdout, fs, pars...)
}
