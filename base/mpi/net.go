// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpi

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"cogentcore.org/poisson/base/errors"
	"cogentcore.org/poisson/base/websocket"
)

// frame kinds on the wire
const (
	kindHello byte = iota
	kindF64
	kindValue
	kindAbort
)

// headerSize is kind (1) + from (4) + tag (4).
const headerSize = 9

// mailboxSize is the number of undelivered messages buffered per
// source and tag. Neighbors in a lock-step exchange are never more
// than a few messages ahead of each other.
const mailboxSize = 256

// NetPath is the HTTP path on which ranks accept connections.
const NetPath = "/mpi"

// netTransport connects one rank to every other rank over websockets.
// Each rank listens on its own address, and dials every lower rank.
type netTransport struct {
	rank  int
	addrs []string

	peers  []*websocket.Client
	gone   []chan struct{}
	server *http.Server
	ln     net.Listener

	mu        sync.Mutex
	mailboxes map[mailKey]chan []byte
	joined    chan int

	aborted   chan struct{}
	abortOnce sync.Once
}

type mailKey struct {
	from, tag int
}

// NewNetComm joins the communicator of len(addrs) ranks as the given rank,
// listening on addrs[rank] (host:port) and connecting to all other ranks.
// It returns once every peer is connected, or an error if that does not
// happen within the timeout. After setup there are no timeouts.
func NewNetComm(rank int, addrs []string, timeout time.Duration) (*Comm, error) {
	size := len(addrs)
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrRank, rank, size)
	}
	nt := &netTransport{
		rank:      rank,
		addrs:     addrs,
		peers:     make([]*websocket.Client, size),
		gone:      make([]chan struct{}, size),
		mailboxes: make(map[mailKey]chan []byte),
		joined:    make(chan int, size),
		aborted:   make(chan struct{}),
	}
	for p := range size {
		nt.gone[p] = make(chan struct{})
	}
	if err := nt.listen(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(timeout)
	for p := 0; p < rank; p++ {
		if err := nt.dial(p, deadline); err != nil {
			nt.close()
			return nil, err
		}
	}
	for range size - 1 - rank {
		select {
		case <-nt.joined:
		case <-time.After(time.Until(deadline)):
			nt.close()
			return nil, fmt.Errorf("mpi: rank %d: timed out waiting for higher ranks to connect", rank)
		}
	}
	slog.Debug("mpi: connected", "rank", rank, "size", size)
	return &Comm{rank: rank, size: size, tr: nt}, nil
}

func (nt *netTransport) listen() error {
	ln, err := net.Listen("tcp", nt.addrs[nt.rank])
	if err != nil {
		return err
	}
	nt.ln = ln
	mux := http.NewServeMux()
	mux.HandleFunc(NetPath, nt.accept)
	nt.server = &http.Server{Handler: mux}
	go func() {
		err := nt.server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errors.Log(err)
		}
	}()
	return nil
}

// accept handles a connection from a higher rank, which
// identifies itself with a hello frame.
func (nt *netTransport) accept(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r)
	if errors.Log(err) != nil {
		return
	}
	_, msg, err := c.ReadMessage()
	if errors.Log(err) != nil {
		c.Close()
		return
	}
	kind, from, _, _, err := decodeHeader(msg)
	if err == nil && (kind != kindHello || from <= nt.rank || from >= len(nt.addrs)) {
		err = fmt.Errorf("mpi: rank %d: unexpected hello from %d", nt.rank, from)
	}
	if errors.Log(err) != nil {
		c.Close()
		return
	}
	nt.attach(from, c)
	nt.joined <- from
}

func (nt *netTransport) dial(p int, deadline time.Time) error {
	url := "ws://" + nt.addrs[p] + NetPath
	for {
		c, err := websocket.Connect(url)
		if err == nil {
			if err := c.Send(websocket.BinaryMessage, encodeHeader(kindHello, nt.rank, 0, 0)); err != nil {
				c.Close()
				return err
			}
			nt.attach(p, c)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("mpi: rank %d: connecting to rank %d at %s: %w", nt.rank, p, nt.addrs[p], err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (nt *netTransport) attach(p int, c *websocket.Client) {
	nt.mu.Lock()
	nt.peers[p] = c
	nt.mu.Unlock()
	c.OnMessage(func(typ websocket.MessageTypes, msg []byte) {
		kind, from, tag, payload, err := decodeHeader(msg)
		if errors.Log(err) != nil {
			return
		}
		if kind == kindAbort {
			nt.markAborted()
			return
		}
		nt.mailbox(from, tag) <- payload
	})
	// all messages read before the close are already in the mailboxes
	c.OnClose(func() {
		slog.Debug("mpi: peer disconnected", "rank", nt.rank, "peer", p)
		close(nt.gone[p])
	})
}

func (nt *netTransport) peer(p int) *websocket.Client {
	nt.mu.Lock()
	defer nt.mu.Unlock()
	return nt.peers[p]
}

func (nt *netTransport) mailbox(from, tag int) chan []byte {
	nt.mu.Lock()
	defer nt.mu.Unlock()
	k := mailKey{from, tag}
	mb, ok := nt.mailboxes[k]
	if !ok {
		mb = make(chan []byte, mailboxSize)
		nt.mailboxes[k] = mb
	}
	return mb
}

func (nt *netTransport) send(to, tag int, kind byte, payload []byte) error {
	select {
	case <-nt.aborted:
		return ErrAborted
	default:
	}
	msg := append(encodeHeader(kind, nt.rank, tag, len(payload)), payload...)
	return nt.peer(to).Send(websocket.BinaryMessage, msg)
}

func (nt *netTransport) recv(from, tag int) ([]byte, error) {
	select {
	case <-nt.aborted:
		return nil, ErrAborted
	default:
	}
	mb := nt.mailbox(from, tag)
	select {
	case payload := <-mb:
		return payload, nil
	case <-nt.aborted:
		return nil, ErrAborted
	case <-nt.gone[from]:
		select {
		case payload := <-mb:
			return payload, nil
		case <-nt.aborted:
			return nil, ErrAborted
		default:
		}
		return nil, fmt.Errorf("%w: rank %d", ErrDisconnected, from)
	}
}

func (nt *netTransport) sendF64(from, to, tag int, vals []float64) error {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	return nt.send(to, tag, kindF64, b)
}

func (nt *netTransport) recvF64(from, to, tag int, vals []float64) error {
	b, err := nt.recv(from, tag)
	if err != nil {
		return err
	}
	if len(b) != 8*len(vals) {
		return fmt.Errorf("%w: from %d tag %d: got %d, want %d", ErrLength, from, tag, len(b)/8, len(vals))
	}
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return nil
}

func (nt *netTransport) sendValue(from, to, tag int, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	return nt.send(to, tag, kindValue, buf.Bytes())
}

func (nt *netTransport) recvValue(from, to, tag int, v any) error {
	b, err := nt.recv(from, tag)
	if err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}

func (nt *netTransport) markAborted() {
	nt.abortOnce.Do(func() { close(nt.aborted) })
}

// abort tells every peer to abort, then aborts locally.
func (nt *netTransport) abort() {
	for p := range nt.addrs {
		if p == nt.rank {
			continue
		}
		if c := nt.peer(p); c != nil {
			c.Send(websocket.BinaryMessage, encodeHeader(kindAbort, nt.rank, 0, 0))
		}
	}
	nt.markAborted()
}

func (nt *netTransport) close() error {
	for p := range nt.addrs {
		if c := nt.peer(p); c != nil {
			// the peer may already have closed its end
			if err := c.Close(); err != nil {
				slog.Debug("mpi: close", "rank", nt.rank, "peer", p, "err", err)
			}
		}
	}
	if nt.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return nt.server.Shutdown(ctx)
}

func encodeHeader(kind byte, from, tag, n int) []byte {
	b := make([]byte, headerSize, headerSize+n)
	b[0] = kind
	binary.LittleEndian.PutUint32(b[1:], uint32(int32(from)))
	binary.LittleEndian.PutUint32(b[5:], uint32(int32(tag)))
	return b
}

func decodeHeader(msg []byte) (kind byte, from, tag int, payload []byte, err error) {
	if len(msg) < headerSize {
		return 0, 0, 0, nil, fmt.Errorf("mpi: short frame of %d bytes", len(msg))
	}
	kind = msg[0]
	from = int(int32(binary.LittleEndian.Uint32(msg[1:])))
	tag = int(int32(binary.LittleEndian.Uint32(msg[5:])))
	return kind, from, tag, msg[headerSize:], nil
}
