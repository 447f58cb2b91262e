// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"
)

// Usage returns a usage message for the given config struct.
func Usage(opts *Options, cfg any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [flags] %s\n", opts.AppName, opts.Usage)
	if opts.AppAbout != "" {
		fmt.Fprintf(&b, "\n%s\n", opts.AppAbout)
	}
	b.WriteString("\nFlags:\n")
	_, list := fields(cfg)
	if opts.ConfigFlag != "" {
		fmt.Fprintf(&b, "  -%s string\n    \tTOML config file\n", opts.ConfigFlag)
	}
	for _, f := range list {
		fmt.Fprintf(&b, "  -%s %s\n", f.name, f.value.Type())
		if f.desc != "" || f.def != "" {
			b.WriteString("    \t" + f.desc)
			if f.def != "" {
				fmt.Fprintf(&b, " (default %s)", f.def)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
