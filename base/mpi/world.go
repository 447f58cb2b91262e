// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpi

import (
	"fmt"
	"reflect"
	"sync"

	"cogentcore.org/poisson/base/errors"
	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

// World is an in-process set of ranks that communicate over unbuffered
// channels, so that every send is a rendezvous with the matching receive.
// Each rank runs in its own goroutine via [World.Run].
type World struct {
	size int

	mu    sync.Mutex
	links map[linkKey]chan message

	aborted   chan struct{}
	abortOnce sync.Once
}

type linkKey struct {
	from, to, tag int
}

// message is what travels over a link. Exactly one of f64 or value is used.
type message struct {
	f64   []float64
	value any
}

// NewWorld returns a new [World] with the given number of ranks.
func NewWorld(size int) (*World, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: world size %d", ErrRank, size)
	}
	return &World{
		size:    size,
		links:   make(map[linkKey]chan message),
		aborted: make(chan struct{}),
	}, nil
}

// Size returns the number of ranks.
func (w *World) Size() int {
	return w.size
}

// Comm returns the communicator for the given rank.
func (w *World) Comm(rank int) *Comm {
	return &Comm{rank: rank, size: w.size, tr: w}
}

// Run calls f for every rank, each in its own goroutine, and waits for
// all of them to return. If any rank returns an error, the world is
// aborted so that no other rank stays blocked. The returned error is the
// first one that is not a consequence of the abort.
func (w *World) Run(f func(cm *Comm) error) error {
	errs := make([]error, w.size)
	var g errgroup.Group
	for r := range w.size {
		g.Go(func() error {
			err := f(w.Comm(r))
			if err != nil {
				errs[r] = err
				w.abort()
			}
			return err
		})
	}
	gerr := g.Wait()
	for _, err := range errs {
		if err != nil && !errors.Is(err, ErrAborted) {
			return err
		}
	}
	return gerr
}

func (w *World) link(from, to, tag int) chan message {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := linkKey{from, to, tag}
	ch, ok := w.links[k]
	if !ok {
		ch = make(chan message)
		w.links[k] = ch
	}
	return ch
}

func (w *World) send(from, to, tag int, msg message) error {
	select {
	case <-w.aborted:
		return ErrAborted
	default:
	}
	select {
	case w.link(from, to, tag) <- msg:
		return nil
	case <-w.aborted:
		return ErrAborted
	}
}

func (w *World) recv(from, to, tag int) (message, error) {
	select {
	case <-w.aborted:
		return message{}, ErrAborted
	default:
	}
	select {
	case msg := <-w.link(from, to, tag):
		return msg, nil
	case <-w.aborted:
		return message{}, ErrAborted
	}
}

func (w *World) sendF64(from, to, tag int, vals []float64) error {
	return w.send(from, to, tag, message{f64: append([]float64(nil), vals...)})
}

func (w *World) recvF64(from, to, tag int, vals []float64) error {
	msg, err := w.recv(from, to, tag)
	if err != nil {
		return err
	}
	if len(msg.f64) != len(vals) {
		return fmt.Errorf("%w: from %d tag %d: got %d, want %d", ErrLength, from, tag, len(msg.f64), len(vals))
	}
	copy(vals, msg.f64)
	return nil
}

// sendValue sends a deep copy of v, so that the receiver never
// shares memory with the sender.
func (w *World) sendValue(from, to, tag int, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("mpi: value must be a non-nil pointer, not %T", v)
	}
	cp := reflect.New(rv.Elem().Type()).Interface()
	if err := copier.CopyWithOption(cp, v, copier.Option{DeepCopy: true}); err != nil {
		return err
	}
	return w.send(from, to, tag, message{value: cp})
}

func (w *World) recvValue(from, to, tag int, v any) error {
	msg, err := w.recv(from, to, tag)
	if err != nil {
		return err
	}
	return copier.CopyWithOption(v, msg.value, copier.Option{DeepCopy: true})
}

func (w *World) abort() {
	w.abortOnce.Do(func() { close(w.aborted) })
}

func (w *World) close() error {
	return nil
}
