// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Sub struct {
	MeshSize int    `default:"10" desc:"mesh size"`
	Method   string `default:"Jacobi"`
}

type testConfig struct {
	Sub
	NP      int           `default:"1"`
	Verbose bool          `flag:"v"`
	Timeout time.Duration `default:"1s"`
	Addrs   []string
	Hidden  string `flag:"-"`
}

func TestFieldNames(t *testing.T) {
	byName, list := fields(&testConfig{})
	var names []string
	for _, f := range list {
		names = append(names, f.name)
	}
	assert.Equal(t, []string{"mesh-size", "method", "np", "v", "timeout", "addrs"}, names)
	assert.NotContains(t, byName, "hidden")
}

func TestParseFlags(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, SetFromDefaults(cfg))
	pos, err := ParseFlags(cfg, []string{"-np", "4", "12", "--mesh-size=20", "-v", "-timeout", "3s", "-addrs", "a:1,b:2", "Jacobi", "-5"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "Jacobi", "-5"}, pos)
	assert.Equal(t, 4, cfg.NP)
	assert.Equal(t, 20, cfg.MeshSize)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Addrs)

	_, err = ParseFlags(cfg, []string{"-bogus", "1"}, "")
	assert.Error(t, err)
	_, err = ParseFlags(cfg, []string{"-hidden", "x"}, "")
	assert.Error(t, err)
	_, err = ParseFlags(cfg, []string{"-np"}, "")
	assert.Error(t, err)
	_, err = ParseFlags(cfg, []string{"-np", "many"}, "")
	assert.Error(t, err)
	_, err = ParseFlags(cfg, []string{"-h"}, "")
	assert.ErrorIs(t, err, ErrHelp)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "app.toml")
	require.NoError(t, os.WriteFile(fn, []byte("MeshSize = 30\nNP = 2\n"), 0666))

	opts := DefaultOptions("app", "test app")
	opts.IncludePaths = []string{dir}

	cfg := &testConfig{}
	pos, err := Config(opts, cfg, "-np", "3", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, pos)
	assert.Equal(t, 30, cfg.MeshSize)
	assert.Equal(t, 3, cfg.NP)
	assert.Equal(t, "Jacobi", cfg.Method)

	cfg = &testConfig{}
	_, err = Config(opts, cfg, "-config", "missing.toml")
	assert.Error(t, err)

	cfg = &testConfig{}
	_, err = Config(opts, cfg, "-config="+fn)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.NP)
}

func TestUsage(t *testing.T) {
	u := Usage(DefaultOptions("app", "about"), &testConfig{})
	assert.Contains(t, u, "Usage: app")
	assert.Contains(t, u, "-mesh-size int")
	assert.Contains(t, u, "mesh size (default 10)")
	assert.NotContains(t, u, "hidden")
}
