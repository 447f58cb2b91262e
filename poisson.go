// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package poisson solves the Poisson equation -Δu = f on the unit square
// with Dirichlet boundary conditions, by Jacobi relaxation on a uniform
// mesh whose interior rows are divided into contiguous blocks, one per
// rank of an [mpi.Comm].
//
// Each iteration, every rank exchanges its edge rows with its row
// neighbors and then sweeps its own rows. After a fixed number of
// iterations the global L2 residual is reduced onto the root rank,
// which reports it. There is no convergence test.
//
// A rank that dies during the run leaves its neighbors blocked in the
// next exchange; there is no timeout or recovery.
package poisson

import (
	"log/slog"
	"time"

	"cogentcore.org/poisson/base/mpi"
	"cogentcore.org/poisson/base/num"
	"cogentcore.org/poisson/config"
	"cogentcore.org/poisson/grid"
	"cogentcore.org/poisson/problem"
	"cogentcore.org/poisson/solver"
)

// Result is the outcome of a run, available on the root rank.
type Result struct {
	Report

	// Solution is the full solution, if [config.Config.Gather] was set.
	Solution *grid.Field
}

// Solve runs the solver as one rank of comm. On the root rank, cfg holds
// the run parameters, which are validated and then broadcast; on other
// ranks cfg is ignored and replaced by the broadcast value. If validation
// fails on the root, the communicator is aborted before the broadcast,
// so no rank starts iterating. Solve returns the [Result] on the root
// rank and nil on others.
func Solve(comm *mpi.Comm, cfg config.Config) (*Result, error) {
	if comm.IsRoot() {
		if err := cfg.Validate(); err != nil {
			comm.Abort()
			return nil, err
		}
		comm.Printf("%s METHOD IS IN USE\n", cfg.Method)
	} else {
		// decoding only sets the fields that are present
		cfg = config.Config{}
	}
	if err := comm.Bcast(mpi.Root, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	part, err := grid.NewPartition(cfg.MeshSize, comm.Size(), comm.Rank())
	if err != nil {
		return nil, err
	}
	prob := problem.Get(cfg.Problem)
	m := grid.NewMesh(part, prob)
	slog.Debug("partition", "rank", comm.Rank(), "rows", part.Rows, "start", part.Start(), "end", part.End(),
		"upper", part.Upper(), "lower", part.Lower())

	// intervals past the last iteration log only the last one
	logEvery := num.Clamp(cfg.LogEvery, 0, cfg.MaxIter)
	if err := comm.Barrier(); err != nil {
		return nil, err
	}
	start := time.Now()
	for iter := 1; iter <= cfg.MaxIter; iter++ {
		if err := solver.Exchange(comm, m); err != nil {
			return nil, err
		}
		solver.Jacobi(m)
		if logEvery > 0 && iter%logEvery == 0 {
			slog.Debug("iteration", "rank", comm.Rank(), "iter", iter)
		}
	}
	if err := solver.Exchange(comm, m); err != nil {
		return nil, err
	}

	res, err := solver.Residual(comm, m)
	if err != nil {
		return nil, err
	}
	maxErr := 0.0
	if ex, ok := prob.(problem.Exacter); ok {
		maxErr, err = solver.MaxError(comm, m, ex)
		if err != nil {
			return nil, err
		}
	}
	var sol *grid.Field
	if cfg.Gather {
		sol, err = solver.Gather(comm, m)
		if err != nil {
			return nil, err
		}
	}
	if !comm.IsRoot() {
		return nil, nil
	}
	comm.Printf("Final Residual %f after %d iterations.\n", res, cfg.MaxIter)
	return &Result{
		Report: Report{
			MeshSize:   cfg.MeshSize,
			Iterations: cfg.MaxIter,
			Method:     cfg.Method.String(),
			Workers:    comm.Size(),
			Residual:   res,
			MaxError:   maxErr,
			Seconds:    time.Since(start).Seconds(),
		},
		Solution: sol,
	}, nil
}
