// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := New("boom")
	assert.Same(t, err, Log(err))
	assert.Equal(t, 0, Log1(strconv.Atoi("x")))
	assert.Equal(t, 3, Log1(strconv.Atoi("3")))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("boom")) })
	assert.Equal(t, 4, Must1(strconv.Atoi("4")))
	assert.Panics(t, func() { Must1(strconv.Atoi("x")) })
	assert.Equal(t, 0, Ignore1(strconv.Atoi("x")))
}

func TestCallerInfo(t *testing.T) {
	info := func() string { return CallerInfo() }()
	assert.Contains(t, info, "TestCallerInfo")
	assert.Contains(t, info, "errors_test.go")
}
