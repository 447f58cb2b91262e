// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "fmt"

// Field is a two-dimensional row-major array of float64 values, indexed
// by (row, column). Rows are contiguous, and [Field.Row] returns a view
// onto the backing storage, so that whole rows can be sent and received
// without index arithmetic at the call site.
type Field struct {
	rows, cols int

	// Values is the row-major backing storage.
	Values []float64
}

// NewField returns a new zero-valued [Field] with the given
// number of rows and columns.
func NewField(rows, cols int) *Field {
	return &Field{rows: rows, cols: cols, Values: make([]float64, rows*cols)}
}

// Rows returns the number of rows.
func (fl *Field) Rows() int { return fl.rows }

// Cols returns the number of columns.
func (fl *Field) Cols() int { return fl.cols }

// Row returns row i as a slice that shares storage with the field.
func (fl *Field) Row(i int) []float64 {
	st := i * fl.cols
	return fl.Values[st : st+fl.cols : st+fl.cols]
}

// Float returns the value at row i, column j.
func (fl *Field) Float(i, j int) float64 {
	return fl.Values[i*fl.cols+j]
}

// SetFloat sets the value at row i, column j.
func (fl *Field) SetFloat(val float64, i, j int) {
	fl.Values[i*fl.cols+j] = val
}

// SetRow copies vals into row i. vals must have [Field.Cols] values.
func (fl *Field) SetRow(i int, vals []float64) {
	copy(fl.Row(i), vals)
}

func (fl *Field) String() string {
	return fmt.Sprintf("Field[%d, %d]", fl.rows, fl.cols)
}
