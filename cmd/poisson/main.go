// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command poisson solves the Poisson equation on the unit square by
// distributed Jacobi relaxation.
//
//	poisson [flags] [size] [max_iter] [method]
//
// For example, to run 100 iterations on a 10×10 mesh with 2 ranks:
//
//	poisson -np 2 10 100 Jacobi
//
// With -net, each rank runs as a separate process connected to the
// others over websockets; without -rank, the command launches all of
// them on localhost.
package main

import (
	"fmt"
	"io"
	"os"

	"cogentcore.org/poisson"
	"cogentcore.org/poisson/base/errors"
	"cogentcore.org/poisson/cli"
	"cogentcore.org/poisson/config"
	"cogentcore.org/poisson/grid"
	"cogentcore.org/poisson/logx"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}

func options() *cli.Options {
	opts := cli.DefaultOptions("poisson", "Solve -Δu = f on the unit square with distributed Jacobi relaxation.")
	opts.Usage = "[size] [max_iter] [method]"
	return opts
}

// run runs the command with the given args, printing any diagnostic
// to errw. The returned error means the process must exit non-zero.
func run(args []string, errw io.Writer) error {
	opts := options()
	r := &config.Run{}
	pos, err := cli.Config(opts, r, args...)
	if errors.Is(err, cli.ErrHelp) {
		fmt.Fprint(errw, cli.Usage(opts, r))
		return nil
	}
	if err == nil {
		err = r.SetArgs(pos)
	}
	if err == nil {
		err = r.Finalize()
	}
	if err != nil {
		fmt.Fprintln(errw, err)
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprint(errw, cli.Usage(opts, r))
		}
		return err
	}
	logx.Init(r.Verbose)

	var res *poisson.Result
	switch {
	case r.Net && r.Rank < 0:
		exe, err := os.Executable()
		if err == nil {
			err = poisson.Launch(r, exe, args)
		}
		if err != nil {
			fmt.Fprintln(errw, err)
		}
		return err
	case r.Net:
		res, err = poisson.RunRank(r)
	default:
		res, err = poisson.Run(r)
	}
	if err != nil {
		fmt.Fprintln(errw, err)
		return err
	}
	return save(r, res)
}

// save writes the report and solution files of the root rank.
func save(r *config.Run, res *poisson.Result) error {
	if res == nil {
		return nil
	}
	logx.PrintlnDebug(res.Report.String())
	var errs []error
	if r.Report != "" {
		errs = append(errs, poisson.SaveReport(&res.Report, r.Report))
	}
	if r.Solution != "" && res.Solution != nil {
		errs = append(errs, grid.SaveCSV(res.Solution, r.Solution, grid.Comma))
	}
	return errors.Log(errors.Join(errs...))
}
