// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import "errors"

// Error taxonomy for pump operations. Every failure returned by this package
// wraps one of these sentinels, so callers can classify results with
// errors.Is and decide for themselves whether to retry; the driver itself
// never retries.
var (
	// ErrOutOfRange indicates a caller-supplied address, mantissa or
	// exponent outside the protocol-legal bounds. Rejected before any I/O.
	ErrOutOfRange = errors.New("value out of range")

	// ErrFrameTooLong indicates an encoded command would exceed the frame
	// buffer. Truncated commands are unsafe to send to hardware, so this
	// fails the operation instead.
	ErrFrameTooLong = errors.New("command frame too long")

	// ErrTransport indicates the underlying stream could not accept a
	// write or failed while reading.
	ErrTransport = errors.New("transport failure")

	// ErrTimeout indicates no reply byte arrived within the bounded
	// polling budget.
	ErrTimeout = errors.New("timed out waiting for reply")

	// ErrDeviceRejected indicates the controller explicitly answered with
	// the error marker byte.
	ErrDeviceRejected = errors.New("device rejected command")

	// ErrMalformedReply indicates bytes arrived but did not match the
	// expected reply shape, or a set-flow-rate echo disagreed with the
	// requested value beyond tolerance.
	ErrMalformedReply = errors.New("malformed reply")
)
