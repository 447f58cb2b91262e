// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"cogentcore.org/poisson/base/errors"
)

// Delims are standard CSV delimiter options (Tab, Comma, Space)
type Delims int32

const (
	// Tab is the tab rune delimiter, for TSV tab separated values
	Tab Delims = iota

	// Comma is the comma rune delimiter, for CSV comma separated values
	Comma

	// Space is the space rune delimiter, for SSV space separated value
	Space
)

func (dl Delims) Rune() rune {
	switch dl {
	case Tab:
		return '\t'
	case Comma:
		return ','
	case Space:
		return ' '
	}
	return '\t'
}

// SaveCSV writes a field to a comma-separated-values (CSV) file
// (where comma = any delimiter, specified in the delim arg),
// with one line per row.
func SaveCSV(fl *Field, filename string, delim Delims) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	return WriteCSV(fl, fp, delim)
}

// WriteCSV writes a field as delimited values, one line per row,
// using the shortest representation that round-trips each value.
func WriteCSV(fl *Field, w io.Writer, delim Delims) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim.Rune()
	rec := make([]string, fl.Cols())
	for i := range fl.Rows() {
		for j, v := range fl.Row(i) {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a field written by [WriteCSV]. The shape is taken from
// the number of records and the number of values in the first record.
func ReadCSV(r io.Reader, delim Delims) (*Field, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim.Rune()
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("grid: ReadCSV: no records")
	}
	fl := NewField(len(recs), len(recs[0]))
	for i, rec := range recs {
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("grid: ReadCSV: row %d col %d: %w", i, j, err)
			}
			fl.SetFloat(v, i, j)
		}
	}
	return fl, nil
}
