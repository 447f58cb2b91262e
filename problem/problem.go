// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problem defines the boundary values and source term of a
// Poisson problem -Δu = f on the unit square.
package problem

import "math"

// Problem supplies the Dirichlet boundary values and the forcing
// (right-hand side) at physical coordinates (x, y) in [0,1]².
type Problem interface {

	// Boundary returns u at a boundary point.
	Boundary(x, y float64) float64

	// Source returns f at a point.
	Source(x, y float64) float64
}

// Exacter is a [Problem] with a known exact solution.
type Exacter interface {
	Problem

	// Exact returns the exact solution u at a point.
	Exact(x, y float64) float64
}

// Sine is the problem with exact solution u = sin(πx)sin(πy),
// so f = 2π² sin(πx)sin(πy) and u is zero on the boundary.
type Sine struct{}

func (Sine) Exact(x, y float64) float64 {
	return math.Sin(math.Pi*x) * math.Sin(math.Pi*y)
}

func (s Sine) Boundary(x, y float64) float64 {
	return s.Exact(x, y)
}

func (s Sine) Source(x, y float64) float64 {
	return 2 * math.Pi * math.Pi * s.Exact(x, y)
}

// Constant is a problem with a constant boundary value and source,
// mainly useful for tests.
type Constant struct {
	U float64
	F float64
}

func (c Constant) Boundary(x, y float64) float64 { return c.U }

func (c Constant) Source(x, y float64) float64 { return c.F }

// Get returns the named problem, or nil if there is none.
func Get(name string) Problem {
	switch name {
	case "", "sine", "Sine":
		return Sine{}
	}
	return nil
}
