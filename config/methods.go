// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
)

// Methods are the relaxation methods that can be named in a [Config].
type Methods int32

const (
	// Jacobi updates every point from the previous iterate only.
	Jacobi Methods = iota

	// GaussSeidel updates points in place from already updated neighbors.
	// It is recognized but not supported for distributed runs.
	GaussSeidel

	// MethodsN is the number of methods.
	MethodsN
)

var methodNames = [...]string{Jacobi: "Jacobi", GaussSeidel: "GaussSeidel"}

func (m Methods) String() string {
	if m >= 0 && m < MethodsN {
		return methodNames[m]
	}
	return fmt.Sprintf("Methods(%d)", int32(m))
}

// SetString sets the method from its name, which is case sensitive.
func (m *Methods) SetString(s string) error {
	for i, nm := range methodNames {
		if nm == s {
			*m = Methods(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not one of %s", ErrMethod, s, strings.Join(methodNames[:], ", "))
}

// Supported returns whether the method can be run.
func (m Methods) Supported() bool {
	return m == Jacobi
}

func (m Methods) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Methods) UnmarshalText(text []byte) error {
	return m.SetString(string(text))
}
