// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package conn

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// ErrWebSocketClosed is returned when reading from a WebSocket whose
// connection has failed or been closed.
var ErrWebSocketClosed = fmt.Errorf("websocket connection closed")

// WebSocket adapts a WebSocket connection carrying raw serial bytes (as
// binary messages) to the pumplink Stream contract. A background goroutine
// pumps inbound messages into a channel, so Read can report "no byte yet"
// without disturbing the connection's read state.
type WebSocket struct {
	conn *websocket.Conn
	msgs chan []byte
	buf  []byte
	off  int
	err  error // sticky read error, valid once msgs is closed
}

// NewWebSocket wraps an established connection and starts its reader.
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	w := &WebSocket{
		conn: conn,
		msgs: make(chan []byte, 16),
	}
	go w.readLoop()
	return w
}

// DialWebSocket connects to wsURL (ws:// or wss://) and wraps the result.
func DialWebSocket(wsURL string) (*WebSocket, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}

	return NewWebSocket(conn), nil
}

// readLoop forwards binary messages until the connection fails.
func (w *WebSocket) readLoop() {
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.err = err
			close(w.msgs)
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		w.msgs <- data
	}
}

// Read returns buffered bytes if any, otherwise whatever message has already
// arrived, otherwise (0, nil).
func (w *WebSocket) Read(p []byte) (int, error) {
	if w.off < len(w.buf) {
		n := copy(p, w.buf[w.off:])
		w.off += n
		return n, nil
	}

	select {
	case data, ok := <-w.msgs:
		if !ok {
			if w.err != nil {
				return 0, fmt.Errorf("%w: %v", ErrWebSocketClosed, w.err)
			}
			return 0, ErrWebSocketClosed
		}
		w.buf = data
		w.off = copy(p, data)
		return w.off, nil
	default:
		return 0, nil
	}
}

func (w *WebSocket) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the underlying connection; the reader goroutine exits on the
// resulting read error.
func (w *WebSocket) Close() error {
	return w.conn.Close()
}
