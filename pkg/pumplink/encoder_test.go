// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import (
	"errors"
	"fmt"
	"testing"
)

func TestEncodeCommand_AllAddresses(t *testing.T) {
	opcodes := []struct {
		name string
		cmd  byte
	}{
		{"start", CmdStart},
		{"stop", CmdStop},
		{"panel disable", CmdPanelDisable},
		{"panel enable", CmdPanelEnable},
		{"clockwise", CmdClockwise},
		{"counter-clockwise", CmdCounterClockwise},
		{"flow rate query", CmdFlowRate},
	}

	for _, op := range opcodes {
		t.Run(op.name, func(t *testing.T) {
			for addr := MinAddress; addr <= MaxAddress; addr++ {
				frame, err := EncodeCommand(addr, op.cmd)
				if err != nil {
					t.Fatalf("EncodeCommand(%d, %q) failed: %v", addr, op.cmd, err)
				}
				want := fmt.Sprintf("%d%c\r", addr, op.cmd)
				if string(frame) != want {
					t.Errorf("EncodeCommand(%d, %q) = %q, want %q", addr, op.cmd, frame, want)
				}
			}
		})
	}
}

func TestEncodeCommand_InvalidAddress(t *testing.T) {
	for _, addr := range []int{-1, 0, 9, 100} {
		if _, err := EncodeCommand(addr, CmdStart); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("EncodeCommand(%d, start) error = %v, want ErrOutOfRange", addr, err)
		}
	}
}

func TestEncodeCommand_UnknownOpcode(t *testing.T) {
	if _, err := EncodeCommand(1, 'Z'); !errors.Is(err, ErrFrameTooLong) {
		t.Errorf("EncodeCommand(1, 'Z') error = %v, want ErrFrameTooLong", err)
	}
}

func TestEncodeSetFlowRate(t *testing.T) {
	tests := []struct {
		name    string
		address int
		rate    FlowRate
		want    string
	}{
		{"15.00 ml/min", 3, FlowRate{1500, -2}, "3f1500-2\r"},
		{"zero rate", 1, FlowRate{0, 0}, "1f0000+0\r"},
		{"max mantissa max exponent", 8, FlowRate{9999, 9}, "8f9999+9\r"},
		{"min exponent", 2, FlowRate{1, -9}, "2f0001-9\r"},
		{"zero-padded mantissa", 4, FlowRate{80, -1}, "4f0080-1\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := EncodeSetFlowRate(tt.address, tt.rate)
			if err != nil {
				t.Fatalf("EncodeSetFlowRate failed: %v", err)
			}
			if string(frame) != tt.want {
				t.Errorf("EncodeSetFlowRate = %q, want %q", frame, tt.want)
			}
			if len(frame) > FrameCapacity {
				t.Errorf("frame length %d exceeds capacity %d", len(frame), FrameCapacity)
			}
		})
	}
}

func TestEncodeSetFlowRate_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		rate FlowRate
	}{
		{"mantissa too large", FlowRate{10000, 0}},
		{"mantissa negative", FlowRate{-1, 0}},
		{"exponent too large", FlowRate{1000, 10}},
		{"exponent too small", FlowRate{1000, -10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeSetFlowRate(1, tt.rate); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("EncodeSetFlowRate(%+v) error = %v, want ErrOutOfRange", tt.rate, err)
			}
		})
	}
}

// TestEncodeSetFlowRate_RoundTrip verifies the numeric portion of a set frame
// round-trips through ParseFlowReply in reply form.
func TestEncodeSetFlowRate_RoundTrip(t *testing.T) {
	for _, rate := range []FlowRate{
		{0, 0}, {1, -9}, {80, -1}, {1500, -2}, {9999, 9}, {360, -1},
	} {
		frame, err := EncodeSetFlowRate(5, rate)
		if err != nil {
			t.Fatalf("EncodeSetFlowRate(%+v) failed: %v", rate, err)
		}

		// Frame is "5f" + NNNN + sign + D + "\r"; the reply form inserts
		// 'E' between mantissa and exponent and terminates with CRLF.
		numeric := frame[2 : len(frame)-1]
		reply := append([]byte{}, numeric[:4]...)
		reply = append(reply, 'E')
		reply = append(reply, numeric[4:]...)
		reply = append(reply, '\r', '\n')

		got, err := ParseFlowReply(reply)
		if err != nil {
			t.Fatalf("ParseFlowReply(%q) failed: %v", reply, err)
		}
		if got != rate {
			t.Errorf("round trip of %+v = %+v", rate, got)
		}
	}
}
