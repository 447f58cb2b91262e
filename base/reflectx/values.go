// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reflectx provides a collection of helpers for the reflect
// package in the Go standard library, used here to set configuration
// structs from struct tags and strings.
package reflectx

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cogentcore.org/poisson/base/errors"
)

// NonPointerValue returns a non-pointer version of the given value.
// If it encounters a nil pointer, it returns the nil pointer instead
// of an invalid value.
func NonPointerValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// SetRobust sets the value pointed to by ptr from the given string,
// converting as needed for the kind of value: ints, floats, bools,
// strings, durations, string slices (comma separated), and any type
// implementing [encoding.TextUnmarshaler].
func SetRobust(ptr any, s string) error {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("reflectx.SetRobust: need a non-nil pointer, not %T", ptr)
	}
	return setValue(v.Elem(), s)
}

func setValue(v reflect.Value, s string) error {
	if v.CanAddr() {
		if tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return tu.UnmarshalText([]byte(s))
		}
	}
	if v.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		v.SetInt(int64(d))
		return nil
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 0, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 0, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("reflectx.SetRobust: unsupported slice type %s", v.Type())
		}
		var parts []string
		if s != "" {
			parts = strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
		}
		v.Set(reflect.ValueOf(parts).Convert(v.Type()))
	default:
		return fmt.Errorf("reflectx.SetRobust: unsupported kind %s", v.Kind())
	}
	return nil
}

// SetFromDefaultTags sets the values of fields in the given struct based on
// `default:` struct field tags, recursing into struct fields.
func SetFromDefaultTags(obj any) error {
	v := NonPointerValue(reflect.ValueOf(obj))
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return fmt.Errorf("reflectx.SetFromDefaultTags: expected a pointer to a struct, not %T", obj)
	}
	var errs []error
	WalkFields(v, func(f reflect.StructField, fv reflect.Value) {
		def, ok := f.Tag.Lookup("default")
		if !ok {
			return
		}
		if err := setValue(fv, def); err != nil {
			errs = append(errs, fmt.Errorf("field %s: default %q: %w", f.Name, def, err))
		}
	})
	return errors.Join(errs...)
}

// WalkFields calls fun for every exported non-struct field of the given
// struct value, recursing into struct-valued fields (embedded or not).
// Fields of type [time.Duration] and types implementing
// [encoding.TextUnmarshaler] are treated as leaves.
func WalkFields(v reflect.Value, fun func(f reflect.StructField, fv reflect.Value)) {
	typ := v.Type()
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			if _, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); !ok {
				WalkFields(fv, fun)
				continue
			}
		}
		fun(f, fv)
	}
}
