// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli sets a configuration struct from `default:` struct tags,
// an optional TOML config file, and command-line flags, in that order.
//
// Each exported field of the struct (recursing into struct fields) is a
// flag named by its `flag:` tag, or by the kebab-case of its field name.
// Flags are given as -name value, -name=value, or --name=value; bool
// flags may omit the value. Everything else is returned as positional
// arguments.
package cli

import (
	"cogentcore.org/poisson/base/errors"
)

// ErrHelp is returned by [Config] when -help or -h is given.
var ErrHelp = errors.New("cli: help requested")

// Options are the options for [Config].
type Options struct {

	// AppName is the name of the app, used in usage messages.
	AppName string

	// AppAbout is a one-line description of the app.
	AppAbout string

	// Usage is the positional argument synopsis, e.g. "[size] [max_iter] [method]".
	Usage string

	// DefaultFiles are config file names that are opened if they
	// exist on IncludePaths and no -config flag is given.
	DefaultFiles []string

	// IncludePaths are the directories searched for config files.
	// They may start with ~.
	IncludePaths []string

	// ConfigFlag is the flag naming an explicit config file.
	ConfigFlag string
}

// DefaultOptions returns default options for the given app name.
func DefaultOptions(appName, appAbout string) *Options {
	return &Options{
		AppName:      appName,
		AppAbout:     appAbout,
		DefaultFiles: []string{appName + ".toml"},
		IncludePaths: []string{".", "~/.config/" + appName},
		ConfigFlag:   "config",
	}
}

// Config sets the given config struct from its `default:` tags, then from
// a config file (named by [Options.ConfigFlag] in args, or else the first
// [Options.DefaultFiles] found), and finally from the flags in args.
// It returns the positional arguments.
func Config(opts *Options, cfg any, args ...string) ([]string, error) {
	if err := SetFromDefaults(cfg); err != nil {
		return nil, err
	}
	file, explicit := scanFlag(args, opts.ConfigFlag)
	if explicit {
		if err := openConfig(opts, cfg, file); err != nil {
			return nil, err
		}
	} else {
		for _, df := range opts.DefaultFiles {
			if len(findFiles(opts.IncludePaths, df)) > 0 {
				if err := openConfig(opts, cfg, df); err != nil {
					return nil, err
				}
				break
			}
		}
	}
	return ParseFlags(cfg, args, opts.ConfigFlag)
}
