// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package websocket provides a thin message-oriented wrapper around
// gorilla websocket connections, used as the point-to-point links
// between solver processes.
package websocket

import (
	"net/http"
	"sync"

	"cogentcore.org/poisson/base/errors"
	"github.com/gorilla/websocket"
)

// MessageTypes are the types of websocket messages.
type MessageTypes int

const (
	// TextMessage is a UTF-8 encoded text message.
	TextMessage MessageTypes = websocket.TextMessage

	// BinaryMessage is a binary data message.
	BinaryMessage MessageTypes = websocket.BinaryMessage
)

// Client represents one end of a WebSocket connection.
// You can use [Connect] or [Accept] to create a new Client.
type Client struct {

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// done is a channel that is closed when the connection is closed.
	done chan struct{}

	// writeMu serializes writes, which gorilla requires.
	writeMu sync.Mutex

	// closing is set by [Client.Close] so that the resulting read
	// error is not logged.
	closing bool
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn, done: make(chan struct{})}
}

// Connect connects to a WebSocket server and returns a [Client].
func Connect(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return newClient(conn), nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
}

// Accept upgrades the given HTTP request to a WebSocket connection
// and returns a [Client] for the server side of it.
func Accept(w http.ResponseWriter, r *http.Request) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newClient(conn), nil
}

// OnMessage sets a callback function to be called when a message is received.
// Messages are delivered in order from a single goroutine.
// This function can only be called once.
func (c *Client) OnMessage(f func(typ MessageTypes, msg []byte)) {
	go func() {
		defer close(c.done)
		for {
			typ, msg, err := c.conn.ReadMessage()
			if err != nil {
				if !c.isClosing() && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					errors.Log(err)
				}
				return
			}
			f(MessageTypes(typ), msg)
		}
	}()
}

// ReadMessage reads a single message directly, for use before
// [Client.OnMessage] has been called (e.g., for a handshake).
func (c *Client) ReadMessage() (MessageTypes, []byte, error) {
	typ, msg, err := c.conn.ReadMessage()
	return MessageTypes(typ), msg, err
}

// Send sends a message to the other end with the given type and message.
// It is safe to call from multiple goroutines.
func (c *Client) Send(typ MessageTypes, msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(int(typ), msg)
}

// Close cleanly closes the WebSocket connection.
// It does not directly trigger [Client.OnClose], but once the connection
// is closed, [Client.OnMessage] will trigger it.
func (c *Client) Close() error {
	c.writeMu.Lock()
	c.closing = true
	err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return errors.Join(err, c.conn.Close())
}

func (c *Client) isClosing() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.closing
}

// OnClose sets a callback function to be called when the connection is closed.
// This function can only be called once.
func (c *Client) OnClose(f func()) {
	go func() {
		<-c.done
		f()
	}()
}
