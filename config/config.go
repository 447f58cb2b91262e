// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration structs for the
// poisson solver: [Config] is the set of run parameters that the
// root rank broadcasts to all others, and [Run] adds the options
// that only concern the local process.
package config

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"cogentcore.org/poisson/base/errors"
	"cogentcore.org/poisson/problem"
)

var (
	// ErrUsage is returned for missing or malformed run parameters.
	ErrUsage = errors.New("invalid usage")

	// ErrMethod is returned for an unknown or unsupported method.
	ErrMethod = errors.New("not a valid method")
)

// Config is the set of run parameters, constructed once on the root
// rank and broadcast as a single value to all others. It must not be
// modified after the broadcast.
type Config struct {

	// MeshSize is the number of grid points along each side,
	// including both boundaries.
	MeshSize int `default:"10" desc:"number of grid points along each side, including boundaries"`

	// MaxIter is the fixed number of iterations to run.
	MaxIter int `default:"100" desc:"number of iterations to run"`

	// Method is the relaxation method; only Jacobi is supported.
	Method Methods `default:"Jacobi" desc:"relaxation method (Jacobi)"`

	// Problem names the boundary and source functions.
	Problem string `default:"sine" desc:"problem to solve (sine)"`

	// Gather collects the full solution on the root rank at the end.
	Gather bool `desc:"collect the full solution on the root rank"`

	// LogEvery logs progress every this many iterations at debug level;
	// 0 or less for never. Values above MaxIter log the last iteration only.
	LogEvery int `desc:"log progress every this many iterations (debug level)"`
}

// SetArgs sets MeshSize, MaxIter and Method from the three positional
// arguments [size] [max_iter] [method]. No arguments leaves the config
// unchanged; any other number is an [ErrUsage] error.
func (c *Config) SetArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: expected 3 arguments [size] [max_iter] [method], got %d", ErrUsage, len(args))
	}
	size, err := parseCount(args[0])
	if err != nil {
		return fmt.Errorf("%w: size %q: %w", ErrUsage, args[0], err)
	}
	iter, err := parseCount(args[1])
	if err != nil {
		return fmt.Errorf("%w: max_iter %q: %w", ErrUsage, args[1], err)
	}
	var m Methods
	if err := m.SetString(args[2]); err != nil {
		return err
	}
	c.MeshSize, c.MaxIter, c.Method = size, iter, m
	return nil
}

// parseCount parses an integer argument, also accepting a number
// written in float notation with no fractional part, such as "10.0".
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errors.New("not a whole number")
	}
	return int(f), nil
}

// Validate checks the parameters that do not depend on the number of
// ranks. Every rank calls it on the broadcast config, so all reach the
// same decision.
func (c *Config) Validate() error {
	if !c.Method.Supported() {
		return fmt.Errorf("%w: %s", ErrMethod, c.Method)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("%w: max_iter must be positive, got %d", ErrUsage, c.MaxIter)
	}
	if c.MeshSize < 1 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrUsage, c.MeshSize)
	}
	if problem.Get(c.Problem) == nil {
		return fmt.Errorf("%w: unknown problem %q", ErrUsage, c.Problem)
	}
	return nil
}

// Run is the full configuration of one solver process.
type Run struct {
	Config

	// NP is the number of ranks.
	NP int `flag:"np" default:"1" desc:"number of ranks"`

	// Net runs each rank as a separate process connected over websockets,
	// instead of as goroutines in this process.
	Net bool `desc:"run ranks as separate processes connected over websockets"`

	// Rank is this process's rank in network mode; -1 launches all ranks.
	Rank int `default:"-1" desc:"rank of this process in network mode (-1 launches all ranks)"`

	// Addrs are the host:port addresses of all ranks in network mode.
	// If empty, localhost ports starting at BasePort are used.
	Addrs []string `desc:"comma separated host:port of every rank in network mode"`

	// BasePort is the first port used when Addrs is empty.
	BasePort int `default:"7800" desc:"first localhost port when -addrs is not given"`

	// InitTimeout bounds how long ranks wait for each other to connect.
	InitTimeout time.Duration `default:"30s" desc:"time allowed for ranks to connect in network mode"`

	// Launch is a command prefix for launched rank processes, e.g. "nice -n 10".
	Launch string `desc:"command prefix for launched rank processes"`

	// Report is a .toml or .yaml file to write the run report to.
	Report string `desc:"write the run report to this .toml or .yaml file"`

	// Solution is a .csv file to write the full solution to; implies Gather.
	Solution string `desc:"write the full solution to this .csv file"`

	// Verbose enables debug logging.
	Verbose bool `flag:"v" desc:"verbose debug logging"`
}

// Finalize resolves dependent options after all settings are applied.
func (r *Run) Finalize() error {
	if r.Solution != "" {
		r.Gather = true
	}
	if r.NP < 1 {
		return fmt.Errorf("%w: np must be positive, got %d", ErrUsage, r.NP)
	}
	if len(r.Addrs) == 0 && r.Net {
		r.Addrs = make([]string, r.NP)
		for i := range r.NP {
			r.Addrs[i] = "localhost:" + strconv.Itoa(r.BasePort+i)
		}
	}
	if r.Net && len(r.Addrs) != r.NP {
		return fmt.Errorf("%w: %d addrs given for %d ranks", ErrUsage, len(r.Addrs), r.NP)
	}
	return nil
}
