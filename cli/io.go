// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cogentcore.org/poisson/base/iox/tomlx"
	"github.com/mitchellh/go-homedir"
)

// findFiles returns the paths of all files with the given name
// found on the given include paths, in order. Paths may start with ~.
// If file is absolute, only it is checked.
func findFiles(paths []string, file string) []string {
	file, err := homedir.Expand(file)
	if err != nil {
		return nil
	}
	if filepath.IsAbs(file) {
		if fileExists(file) {
			return []string{file}
		}
		return nil
	}
	var res []string
	for _, p := range paths {
		p, err := homedir.Expand(p)
		if err != nil {
			continue
		}
		fp := filepath.Join(p, file)
		if fileExists(fp) {
			res = append(res, fp)
		}
	}
	return res
}

func fileExists(fp string) bool {
	st, err := os.Stat(fp)
	return err == nil && !st.IsDir()
}

// openConfig reads the config struct from the given TOML file, looking
// on [Options.IncludePaths] for it. Files found on later paths override
// those found on earlier ones. It returns an error if the file is not
// found on any of the paths.
func openConfig(opts *Options, cfg any, file string) error {
	files := findFiles(opts.IncludePaths, file)
	if len(files) == 0 {
		return fmt.Errorf("cli: config file %q not found on paths %v", file, opts.IncludePaths)
	}
	return tomlx.OpenFiles(cfg, files...)
}
