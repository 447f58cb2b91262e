// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import (
	"fmt"
	"path/filepath"
	"strings"

	"cogentcore.org/poisson/base/iox/tomlx"
	"cogentcore.org/poisson/base/iox/yamlx"
)

// Report summarizes a completed run.
type Report struct {
	MeshSize   int     `toml:"mesh_size" yaml:"mesh_size"`
	Iterations int     `toml:"iterations" yaml:"iterations"`
	Method     string  `toml:"method" yaml:"method"`
	Workers    int     `toml:"workers" yaml:"workers"`
	Residual   float64 `toml:"residual" yaml:"residual"`

	// MaxError is the max-norm error against the exact solution,
	// or 0 if the problem has none.
	MaxError float64 `toml:"max_error" yaml:"max_error"`

	// Seconds is the wall time of the iterations and reductions.
	Seconds float64 `toml:"seconds" yaml:"seconds"`
}

func (rp *Report) String() string {
	return fmt.Sprintf("mesh %d, %d iterations (%s) on %d workers: residual %g, max error %g, %.3gs",
		rp.MeshSize, rp.Iterations, rp.Method, rp.Workers, rp.Residual, rp.MaxError, rp.Seconds)
}

// SaveReport writes the report to the given file, as TOML or YAML
// according to its extension.
func SaveReport(rp *Report, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return tomlx.Save(rp, filename)
	case ".yaml", ".yml":
		return yamlx.Save(rp, filename)
	}
	return fmt.Errorf("report %q: unknown extension, must be .toml, .yaml or .yml", filename)
}
