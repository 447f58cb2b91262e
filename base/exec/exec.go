// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Adapted in part from: https://github.com/magefile/mage
// Copyright presumably by Nate Finch, primary contributor
// Apache License, Version 2.0, January 2004

// Package exec provides an easy way to run external commands,
// used to launch the processes of a networked solver run.
package exec

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// Cmd is a type alias for [exec.Cmd].
type Cmd = exec.Cmd

// Config contains the configuration information that
// controls the behavior of running commands.
type Config struct {

	// Dir is the directory to run commands in; empty for the current one.
	Dir string

	// Env contains any additional environment variables specified.
	Env map[string]string

	// Stdout is the writer to write the standard output of called commands to.
	// It can be set to nil to disable the writing of the standard output.
	Stdout io.Writer

	// Stderr is the writer to write the standard error of called commands to.
	// It can be set to nil to disable the writing of the standard error.
	Stderr io.Writer
}

// Major returns the default [Config] that writes to os.Stdout and os.Stderr.
func Major() *Config {
	return &Config{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Args returns a string parsed into separate args
// that can be passed into run commands.
func Args(str string) ([]string, error) {
	return shellwords.Parse(str)
}

// Command returns the [Cmd] for the given command and args,
// set up according to the config, without starting it.
func (c *Config) Command(cmd string, args ...string) *Cmd {
	cm := exec.Command(cmd, args...)
	cm.Dir = c.Dir
	cm.Stdout = c.Stdout
	cm.Stderr = c.Stderr
	if len(c.Env) > 0 {
		cm.Env = os.Environ()
		for k, v := range c.Env {
			cm.Env = append(cm.Env, k+"="+v)
		}
	}
	return cm
}

// Start starts the given command with the given args,
// not waiting for it to finish.
func (c *Config) Start(cmd string, args ...string) (*Cmd, error) {
	cm := c.Command(cmd, args...)
	slog.Debug("exec: start", "cmd", cm.String())
	if err := cm.Start(); err != nil {
		return nil, fmt.Errorf("exec: starting %q: %w", cmd, err)
	}
	return cm, nil
}

// StartSh starts the given full command string, with args formatted
// as in a standard shell command, followed by the given extra args.
func (c *Config) StartSh(cstr string, args ...string) (*Cmd, error) {
	sargs, err := Args(cstr)
	if err != nil {
		return nil, err
	}
	sargs = append(sargs, args...)
	if len(sargs) == 0 {
		return nil, fmt.Errorf("exec: command %q was not parsed correctly into content", cstr)
	}
	return c.Start(sargs[0], sargs[1:]...)
}
