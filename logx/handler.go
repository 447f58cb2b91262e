// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// Handler is a [slog.Handler] that writes one line per record, with the
// level name colored according to severity when the output is a terminal.
type Handler struct {
	out    io.Writer
	level  slog.Leveler
	output *termenv.Output
	attrs  []slog.Attr
	group  string
	mu     *sync.Mutex
}

// NewHandler returns a new [Handler] writing to w at the given level.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		out:    w,
		level:  level,
		output: termenv.NewOutput(w),
		mu:     &sync.Mutex{},
	}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format(time.TimeOnly))
		b.WriteByte(' ')
	}
	b.WriteString(h.levelString(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	write := func(a slog.Attr) {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.Resolve().String())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if !a.Equal(slog.Attr{}) {
			write(h.qualify(a))
		}
		return true
	})
	b.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, h.qualify(a))
	}
	return &nh
}

// qualify prefixes the attribute key with the current group.
func (h *Handler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *Handler) WithGroup(name string) slog.Handler {
	nh := *h
	if nh.group != "" {
		name = nh.group + "." + name
	}
	nh.group = name
	return &nh
}

// levelString returns the level name, colored if supported.
func (h *Handler) levelString(l slog.Level) string {
	s := h.output.String(l.String())
	switch {
	case l >= slog.LevelError:
		s = s.Foreground(h.output.Color("1")).Bold()
	case l >= slog.LevelWarn:
		s = s.Foreground(h.output.Color("3"))
	case l >= slog.LevelInfo:
		s = s.Foreground(h.output.Color("4"))
	default:
		s = s.Faint()
	}
	return s.String()
}
