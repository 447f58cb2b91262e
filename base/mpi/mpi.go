// Copyright (c) 2020, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mpi provides an MPI-like message passing communicator for a
// fixed set of ranks, either as goroutines within one process ([World])
// or as separate processes connected by websockets ([NewNetComm]).
//
// All point-to-point and collective operations block until the matching
// operation on the peer has taken place. There are no timeouts: a peer
// that crashes or never calls the matching operation leaves its partners
// blocked forever. Only [Comm.Abort] releases them, with [ErrAborted],
// except that over the network a receive from a peer whose connection
// has closed fails with [ErrDisconnected].
package mpi

import (
	"fmt"
	"math"

	"cogentcore.org/poisson/base/errors"
)

// Op is an aggregation operation: Sum, Min, Max, etc
type Op int

const (
	OpSum Op = iota
	OpMax
	OpMin
	OpProd
	OpLAND // logical AND
	OpLOR  // logical OR
)

func (op Op) String() string {
	switch op {
	case OpSum:
		return "Sum"
	case OpMax:
		return "Max"
	case OpMin:
		return "Min"
	case OpProd:
		return "Prod"
	case OpLAND:
		return "LAND"
	case OpLOR:
		return "LOR"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// apply combines val into agg according to the op.
func (op Op) apply(agg, val float64) float64 {
	switch op {
	case OpSum:
		return agg + val
	case OpMax:
		return math.Max(agg, val)
	case OpMin:
		return math.Min(agg, val)
	case OpProd:
		return agg * val
	case OpLAND:
		return b2f(agg != 0 && val != 0)
	case OpLOR:
		return b2f(agg != 0 || val != 0)
	}
	return agg
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

const (
	// Root is the rank 0 node -- it is more semantic to use this
	Root int = 0
)

// reserved tags for collective operations; user tags must be >= 0.
const (
	tagBcast   = -1
	tagReduce  = -2
	tagBarrier = -3
)

var (
	// ErrAborted is returned by any operation blocked on, or started
	// after, a call to [Comm.Abort] on any rank.
	ErrAborted = errors.New("mpi: communicator aborted")

	// ErrRank is returned for a peer rank outside of [0, Size).
	ErrRank = errors.New("mpi: invalid rank")

	// ErrDisconnected is returned by a receive from a networked peer
	// whose connection has closed, once its delivered messages are used up.
	ErrDisconnected = errors.New("mpi: peer disconnected")

	// ErrLength is returned when a received vector does not match
	// the length of the destination.
	ErrLength = errors.New("mpi: message length mismatch")
)

// transport moves messages between ranks. Sends copy their data,
// so the caller may reuse its buffers as soon as a send returns.
type transport interface {
	sendF64(from, to, tag int, vals []float64) error
	recvF64(from, to, tag int, vals []float64) error
	sendValue(from, to, tag int, v any) error
	recvValue(from, to, tag int, v any) error
	abort()
	close() error
}

// Comm is the MPI communicator -- all MPI communication operates as methods
// on this struct. Each rank has its own Comm, and a Comm must only be used
// from one goroutine at a time.
type Comm struct {
	rank int
	size int
	tr   transport
}

// Rank returns the rank/ID for this proc
func (cm *Comm) Rank() int {
	return cm.rank
}

// Size returns the number of procs in this communicator
func (cm *Comm) Size() int {
	return cm.size
}

// IsRoot returns true if this is the [Root] rank.
func (cm *Comm) IsRoot() bool {
	return cm.rank == Root
}

func (cm *Comm) checkPeer(rank int) error {
	if rank < 0 || rank >= cm.size || rank == cm.rank {
		return fmt.Errorf("%w: %d (self %d, size %d)", ErrRank, rank, cm.rank, cm.size)
	}
	return nil
}

// Abort aborts all ranks of the communicator: every blocked or
// subsequent operation on any rank returns [ErrAborted].
func (cm *Comm) Abort() error {
	cm.tr.abort()
	return nil
}

// Close releases the resources of this rank's communicator.
func (cm *Comm) Close() error {
	return cm.tr.close()
}

// SendF64 sends values to toProc, using given unique tag identifier.
// This is Blocking. Must have a corresponding Recv call with same tag on toProc, from this proc
func (cm *Comm) SendF64(toProc int, tag int, vals []float64) error {
	if err := cm.checkPeer(toProc); err != nil {
		return err
	}
	return cm.tr.sendF64(cm.rank, toProc, tag, vals)
}

// RecvF64 receives values from proc fmProc, using given unique tag identifier
// This is Blocking. Must have a corresponding Send call with same tag on fmProc, to this proc.
// The number of values sent must equal len(vals).
func (cm *Comm) RecvF64(fmProc int, tag int, vals []float64) error {
	if err := cm.checkPeer(fmProc); err != nil {
		return err
	}
	return cm.tr.recvF64(fmProc, cm.rank, tag, vals)
}

// Bcast broadcasts the value pointed to by v from fmProc to all other procs.
// On fmProc, v is the source; on all others, v is overwritten with a copy.
// v must be a pointer to a value that can be deep copied and gob encoded.
func (cm *Comm) Bcast(fmProc int, v any) error {
	if fmProc < 0 || fmProc >= cm.size {
		return fmt.Errorf("%w: %d (size %d)", ErrRank, fmProc, cm.size)
	}
	if cm.rank != fmProc {
		return cm.tr.recvValue(fmProc, cm.rank, tagBcast, v)
	}
	for p := 0; p < cm.size; p++ {
		if p == fmProc {
			continue
		}
		if err := cm.tr.sendValue(fmProc, p, tagBcast, v); err != nil {
			return err
		}
	}
	return nil
}

// ReduceF64 reduces all values across procs to toProc in dest using given operation,
// combining element-wise. orig and dest must have the same length, and can be
// the same slice. dest is only written on toProc. Contributions are combined in
// ascending rank order, so the result is deterministic for a given size.
func (cm *Comm) ReduceF64(toProc int, op Op, dest, orig []float64) error {
	if toProc < 0 || toProc >= cm.size {
		return fmt.Errorf("%w: %d (size %d)", ErrRank, toProc, cm.size)
	}
	if cm.rank != toProc {
		return cm.tr.sendF64(cm.rank, toProc, tagReduce, orig)
	}
	if len(dest) != len(orig) {
		return fmt.Errorf("%w: dest %d != orig %d", ErrLength, len(dest), len(orig))
	}
	var agg []float64
	buf := make([]float64, len(orig))
	for p := 0; p < cm.size; p++ {
		src := orig
		if p != toProc {
			if err := cm.tr.recvF64(p, toProc, tagReduce, buf); err != nil {
				return err
			}
			src = buf
		}
		if agg == nil {
			agg = append([]float64(nil), src...)
			continue
		}
		for i, v := range src {
			agg[i] = op.apply(agg[i], v)
		}
	}
	copy(dest, agg)
	return nil
}

// Reduce reduces a single value across procs onto toProc, returning
// the result on toProc and val unchanged on the others.
func (cm *Comm) Reduce(toProc int, op Op, val float64) (float64, error) {
	res := []float64{val}
	err := cm.ReduceF64(toProc, op, res, []float64{val})
	return res[0], err
}

// Barrier forces synchronisation: no proc returns until all procs
// have called Barrier.
func (cm *Comm) Barrier() error {
	if cm.rank != Root {
		if err := cm.tr.sendF64(cm.rank, Root, tagBarrier, nil); err != nil {
			return err
		}
		return cm.tr.recvF64(Root, cm.rank, tagBarrier, nil)
	}
	for p := 1; p < cm.size; p++ {
		if err := cm.tr.recvF64(p, Root, tagBarrier, nil); err != nil {
			return err
		}
	}
	for p := 1; p < cm.size; p++ {
		if err := cm.tr.sendF64(Root, p, tagBarrier, nil); err != nil {
			return err
		}
	}
	return nil
}
