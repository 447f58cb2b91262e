// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import (
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/poisson/base/errors"
	"cogentcore.org/poisson/base/exec"
	"cogentcore.org/poisson/base/mpi"
	"cogentcore.org/poisson/config"
)

// Run solves with r.NP ranks running as goroutines in this process,
// returning the root rank's [Result].
func Run(r *config.Run) (*Result, error) {
	w, err := mpi.NewWorld(r.NP)
	if err != nil {
		return nil, err
	}
	var res *Result
	err = w.Run(func(cm *mpi.Comm) error {
		var cfg config.Config
		if cm.IsRoot() {
			cfg = r.Config
		}
		out, err := Solve(cm, cfg)
		if cm.IsRoot() {
			res = out
		}
		return err
	})
	return res, err
}

// RunRank joins a networked run as rank r.Rank of the ranks at r.Addrs,
// returning the [Result] on the root rank and nil on others.
func RunRank(r *config.Run) (*Result, error) {
	cm, err := mpi.NewNetComm(r.Rank, r.Addrs, r.InitTimeout)
	if err != nil {
		return nil, err
	}
	defer func() { errors.Log(cm.Close()) }()
	var cfg config.Config
	if cm.IsRoot() {
		cfg = r.Config
	}
	return Solve(cm, cfg)
}

// Launch starts one process per rank running exe with the given args
// plus the -rank and -addrs flags, optionally behind the r.Launch command
// prefix, and waits for all of them. Output of the processes goes to
// this process's stdout and stderr. The returned error joins those of
// all ranks that failed.
func Launch(r *config.Run, exe string, args []string) error {
	ec := exec.Major()
	cmds := make([]*exec.Cmd, 0, r.NP)
	for rank := range r.NP {
		rargs := append([]string{exe}, args...)
		rargs = append(rargs, "-rank", strconv.Itoa(rank), "-addrs", strings.Join(r.Addrs, ","))
		cm, err := ec.StartSh(r.Launch, rargs...)
		if err != nil {
			killAll(cmds)
			return fmt.Errorf("rank %d: %w", rank, err)
		}
		cmds = append(cmds, cm)
	}
	errs := make([]error, r.NP)
	for rank, cm := range cmds {
		if err := cm.Wait(); err != nil {
			errs[rank] = fmt.Errorf("rank %d: %w", rank, err)
		}
	}
	return errors.Join(errs...)
}

// killAll kills the given started processes and waits for them to exit.
func killAll(cmds []*exec.Cmd) {
	for _, c := range cmds {
		errors.Log(c.Process.Kill())
		// the error only reports the kill
		_ = c.Wait()
	}
}
