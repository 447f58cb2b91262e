// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"cogentcore.org/poisson/base/reflectx"
	"cogentcore.org/poisson/strcase"
)

// field is one settable flag of a config struct.
type field struct {
	name  string
	desc  string
	def   string
	value reflect.Value
}

// fields returns the flags of the given config struct pointer, by name.
func fields(cfg any) (map[string]*field, []*field) {
	byName := map[string]*field{}
	var list []*field
	v := reflectx.NonPointerValue(reflect.ValueOf(cfg))
	reflectx.WalkFields(v, func(sf reflect.StructField, fv reflect.Value) {
		name := sf.Tag.Get("flag")
		if name == "-" {
			return
		}
		if name == "" {
			name = strcase.ToKebab(sf.Name)
		}
		f := &field{name: name, desc: sf.Tag.Get("desc"), def: sf.Tag.Get("default"), value: fv}
		byName[name] = f
		list = append(list, f)
	})
	return byName, list
}

// ParseFlags sets fields of cfg from the flags in args, returning the
// positional arguments. The flag named skip takes a value but is not
// set on cfg (it is used for the config file). A "--" ends flag parsing.
func ParseFlags(cfg any, args []string, skip string) ([]string, error) {
	byName, _ := fields(cfg)
	var pos []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			pos = append(pos, args[i+1:]...)
			break
		}
		if !isFlag(a) {
			pos = append(pos, a)
			continue
		}
		name, val, hasVal := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if name == "help" || name == "h" {
			return pos, ErrHelp
		}
		if name == skip {
			if !hasVal {
				i++
			}
			continue
		}
		f, ok := byName[name]
		if !ok {
			return pos, fmt.Errorf("cli: unknown flag %q", a)
		}
		if !hasVal {
			if f.value.Kind() == reflect.Bool {
				val = "true"
			} else {
				if i+1 >= len(args) {
					return pos, fmt.Errorf("cli: flag %q needs a value", a)
				}
				i++
				val = args[i]
			}
		}
		if err := reflectx.SetRobust(f.value.Addr().Interface(), val); err != nil {
			return pos, fmt.Errorf("cli: flag %q: %w", a, err)
		}
	}
	return pos, nil
}

// scanFlag returns the value of the given flag in args, if present.
func scanFlag(args []string, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for i, a := range args {
		if a == "--" {
			break
		}
		if !isFlag(a) {
			continue
		}
		n, val, hasVal := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if n != name {
			continue
		}
		if hasVal {
			return val, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// isFlag returns whether the arg is a flag rather than a positional
// argument; negative numbers are positional.
func isFlag(a string) bool {
	if len(a) < 2 || a[0] != '-' {
		return false
	}
	t := strings.TrimLeft(a, "-")
	if t == "" {
		return false
	}
	return !unicode.IsDigit(rune(t[0])) && t[0] != '.'
}
