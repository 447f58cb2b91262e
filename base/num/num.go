// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package num provides generic functions for numeric types.
package num

import "golang.org/x/exp/constraints"

// Number is a number, either an integer or a float.
type Number interface {
	constraints.Integer | constraints.Float
}

// Signed is a signed number.
type Signed interface {
	constraints.Signed | constraints.Float
}

// Abs returns the absolute value of the given value.
func Abs[T Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp returns the value clamped between the given min and max values.
func Clamp[T Number](x, min, max T) T {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
