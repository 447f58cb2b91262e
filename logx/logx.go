// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides structured logging for the solver processes,
// with a user-settable level and colored level names on terminals.
package logx

import (
	"fmt"
	"log/slog"
	"os"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown. Messages at levels
// at or above this level will be shown. It should typically be set through
// a command-line flag (see [SetLevel]). It defaults to [slog.LevelInfo],
// or to [slog.LevelDebug] with the debug build tag and [slog.LevelWarn]
// with the release build tag.
var UserLevel = defaultUserLevel

// level is the dynamic level shared by every handler created by [Init].
var level = new(slog.LevelVar)

func init() {
	Init(false)
}

// Init installs a [Handler] writing to stderr as the [slog] default
// logger, at [UserLevel]. If verbose is true, the level is lowered to
// [slog.LevelDebug].
func Init(verbose bool) {
	if verbose {
		UserLevel = slog.LevelDebug
	}
	level.Set(UserLevel)
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level)))
}

// SetLevel sets [UserLevel] and the level of the default logger.
func SetLevel(l slog.Level) {
	UserLevel = l
	level.Set(l)
}

// PrintlnDebug is equivalent to [fmt.Println], but only prints if
// [UserLevel] is at or below [slog.LevelDebug].
func PrintlnDebug(a ...any) {
	if UserLevel <= slog.LevelDebug {
		fmt.Println(a...)
	}
}
