// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tomlx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	MeshSize int
	Method   string
}

func TestOpenFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	require.NoError(t, os.WriteFile(a, []byte("MeshSize = 10\nMethod = \"Jacobi\"\n"), 0666))
	require.NoError(t, os.WriteFile(b, []byte("MeshSize = 20\n"), 0666))

	var s settings
	require.NoError(t, OpenFiles(&s, a, b))
	assert.Equal(t, 20, s.MeshSize)
	assert.Equal(t, "Jacobi", s.Method)

	assert.Error(t, Open(&s, filepath.Join(dir, "missing.toml")))
}

func TestSaveRead(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "s.toml")
	require.NoError(t, Save(&settings{MeshSize: 8, Method: "Jacobi"}, fn))
	var s settings
	require.NoError(t, Open(&s, fn))
	assert.Equal(t, settings{MeshSize: 8, Method: "Jacobi"}, s)
}
