// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcho(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := Accept(w, r)
		if err != nil {
			return
		}
		c.OnMessage(func(typ MessageTypes, msg []byte) {
			c.Send(typ, append([]byte("echo "), msg...))
		})
	}))
	defer srv.Close()

	c, err := Connect("ws" + strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)

	require.NoError(t, c.Send(TextMessage, []byte("hello")))
	typ, msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, TextMessage, typ)
	assert.Equal(t, "echo hello", string(msg))

	got := make(chan string, 1)
	closed := make(chan struct{})
	c.OnMessage(func(typ MessageTypes, msg []byte) {
		got <- string(msg)
	})
	c.OnClose(func() { close(closed) })
	require.NoError(t, c.Send(BinaryMessage, []byte{1, 2}))
	select {
	case s := <-got:
		assert.Equal(t, "echo \x01\x02", s)
	case <-time.After(5 * time.Second):
		t.Fatal("no echo")
	}

	c.Close()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("OnClose not called")
	}
}
