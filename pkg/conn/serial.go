// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

// Package conn provides pumplink.Stream adapters for the transports a pump
// controller is typically reached over: a local serial port, or a WebSocket
// bridge that tunnels the serial bytes across the network.
//
// Both adapters honor the Stream read contract: Read returns (0, nil) when
// no byte is available yet, so the driver's bounded polling works unchanged
// across transports.
package conn

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// serialReadTimeout arms the port so an idle Read returns (0, nil) instead
// of blocking until the next byte.
const serialReadTimeout = 10 * time.Millisecond

// Serial adapts a serial port to the pumplink Stream contract. The port may
// be owned by the caller (NewSerial) or opened here (OpenSerial); either
// way, closing it remains the caller's job.
type Serial struct {
	port serial.Port
}

// NewSerial wraps an already-open port. The port's read timeout is armed so
// reads poll rather than block.
func NewSerial(port serial.Port) (*Serial, error) {
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	return &Serial{port: port}, nil
}

// OpenSerial opens portName at the given baud rate, 8N1, and wraps it.
func OpenSerial(portName string, baudRate int) (*Serial, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	return NewSerial(port)
}

func (s *Serial) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// ResetInputBuffer discards pending receive data in the port's own buffer.
// The pumplink transport prefers this over reading stale bytes off one at a
// time.
func (s *Serial) ResetInputBuffer() error {
	return s.port.ResetInputBuffer()
}

// Close closes the underlying port.
func (s *Serial) Close() error {
	return s.port.Close()
}
