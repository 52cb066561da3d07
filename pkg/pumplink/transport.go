// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import (
	"fmt"
	"io"
	"time"
)

// Stream is the duplex byte stream connecting the driver to the controller.
// Construction and lifecycle belong to the caller; the driver only reads and
// writes.
//
// Read must not block indefinitely: it returns (0, nil) when no byte is
// available yet, either because the underlying primitive is non-blocking or
// because it is armed with a short read deadline. The pkg/conn adapters
// provide this behavior for serial ports and WebSocket bridges.
type Stream interface {
	io.Reader
	io.Writer
}

// InputFlusher is implemented by streams that can discard pending receive
// data natively, such as a serial port's input buffer reset. When available
// it is preferred over reading the stale bytes off one at a time.
type InputFlusher interface {
	ResetInputBuffer() error
}

// maxDrainBytes bounds how much stale input a drain will discard before
// giving up, so a stream that never runs dry cannot stall an operation.
const maxDrainBytes = 256

// transport moves frames between the driver and the stream with explicit
// waiting semantics. It is the single bounded-wait primitive shared by every
// read path; no code in this package polls without a deadline.
type transport struct {
	stream       Stream
	replyTimeout time.Duration
	pollInterval time.Duration
}

// writeFrame writes the full frame. No partial-write recovery is attempted:
// a short write leaves the controller with half a command, which is not a
// state this driver can repair, so it is reported as a transport failure.
func (t *transport) writeFrame(frame []byte) error {
	n, err := t.stream.Write(frame)
	if err != nil {
		return fmt.Errorf("%w: writing frame: %v", ErrTransport, err)
	}
	if n != len(frame) {
		return fmt.Errorf("%w: short write, %d of %d bytes", ErrTransport, n, len(frame))
	}
	return nil
}

// readByte polls the stream until a byte arrives or the deadline expires.
func (t *transport) readByte(deadline time.Time) (byte, error) {
	var buf [1]byte
	for {
		n, err := t.stream.Read(buf[:])
		if err != nil {
			return 0, fmt.Errorf("%w: reading reply: %v", ErrTransport, err)
		}
		if n > 0 {
			return buf[0], nil
		}
		if !time.Now().Before(deadline) {
			return 0, fmt.Errorf("%w after %v", ErrTimeout, t.replyTimeout)
		}
		if t.pollInterval > 0 {
			time.Sleep(t.pollInterval)
		}
	}
}

// readFull reads exactly len(buf) bytes, each within the shared deadline.
func (t *transport) readFull(buf []byte, deadline time.Time) error {
	for i := range buf {
		b, err := t.readByte(deadline)
		if err != nil {
			return err
		}
		buf[i] = b
	}
	return nil
}

// drain discards any bytes already buffered in the input direction so that a
// stale byte from a previous exchange cannot be misread as the response to
// the next command. It only consumes what is immediately available and never
// waits for more.
func (t *transport) drain() (int, error) {
	if f, ok := t.stream.(InputFlusher); ok {
		if err := f.ResetInputBuffer(); err != nil {
			return 0, fmt.Errorf("%w: flushing input: %v", ErrTransport, err)
		}
		return 0, nil
	}

	var buf [1]byte
	discarded := 0
	for discarded < maxDrainBytes {
		n, err := t.stream.Read(buf[:])
		if err != nil {
			return discarded, fmt.Errorf("%w: draining input: %v", ErrTransport, err)
		}
		if n == 0 {
			break
		}
		discarded++
	}
	return discarded, nil
}

// deadline computes the reply deadline for one operation.
func (t *transport) deadline() time.Time {
	return time.Now().Add(t.replyTimeout)
}
