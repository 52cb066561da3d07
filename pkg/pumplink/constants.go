// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

// Package pumplink drives a digital peristaltic pump controller over a
// byte-oriented serial link.
//
// The controller speaks a fixed ASCII protocol: CR-terminated command frames
// of the form <address><opcode>[<params>], answered either by a single
// confirmation byte or, for flow-rate exchanges, by a fixed-width numeric
// reply in the controller's native mantissa/exponent notation. This package
// provides frame encoding/decoding, bounded-wait transport, and the
// per-operation command protocol.
package pumplink

// Command opcodes as sent on the wire.
const (
	CmdStart            = 'H'
	CmdStop             = 'I'
	CmdPanelDisable     = 'B'
	CmdPanelEnable      = 'A'
	CmdClockwise        = 'J'
	CmdCounterClockwise = 'K'
	CmdFlowRate         = 'f'
)

// Reply markers.
const (
	ReplyOK    = '*'
	ReplyError = '#'
)

// Frame size limits.
const (
	// FrameCapacity is the largest command frame the controller accepts,
	// terminator included. Frames that would not fit are rejected rather
	// than truncated.
	FrameCapacity = 16

	// FlowReplyLength is the exact size of a numeric flow-rate reply:
	// 4 mantissa digits, 'E', exponent sign, 1 exponent digit, CR, LF.
	FlowReplyLength = 9
)

// Bus address range. Each controller on a shared RS-232/RS-485 bus is
// configured with one address in this range.
const (
	MinAddress = 1
	MaxAddress = 8
)

// Flow-rate encoding limits. The wire format carries the mantissa as four
// zero-padded digits and the exponent as a sign plus a single digit.
const (
	MinMantissa = 0
	MaxMantissa = 9999
	MinExponent = -9
	MaxExponent = 9
)
