// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import (
	"errors"
	"testing"
)

func TestParseFlowReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  FlowRate
	}{
		{"15.00 ml/min", "1500E-2\r\n", FlowRate{1500, -2}},
		{"8.0 ml/min", "0080E-1\r\n", FlowRate{80, -1}},
		{"zero", "0000E+0\r\n", FlowRate{0, 0}},
		{"positive exponent", "9999E+9\r\n", FlowRate{9999, 9}},
		{"min exponent", "0001E-9\r\n", FlowRate{1, -9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlowReply([]byte(tt.reply))
			if err != nil {
				t.Fatalf("ParseFlowReply(%q) failed: %v", tt.reply, err)
			}
			if got != tt.want {
				t.Errorf("ParseFlowReply(%q) = %+v, want %+v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestParseFlowReply_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"empty", ""},
		{"too short", "1500E-2"},
		{"too long", "01500E-2\r\n"},
		{"missing separator", "1500X-2\r\n"},
		{"lowercase separator", "1500e-2\r\n"},
		{"bad sign", "1500E*2\r\n"},
		{"missing sign", "1500E22\r\n"},
		{"non-digit mantissa", "15a0E-2\r\n"},
		{"non-digit exponent", "1500E-x\r\n"},
		{"missing CR", "1500E-2\n\n"},
		{"missing LF", "1500E-2\r\r"},
		{"confirmation byte only", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlowReply([]byte(tt.reply))
			if !errors.Is(err, ErrMalformedReply) {
				t.Errorf("ParseFlowReply(%q) error = %v, want ErrMalformedReply", tt.reply, err)
			}
		})
	}
}

func TestParseFlowReply_DeviceRejected(t *testing.T) {
	// A leading error marker wins over the shape check, whatever follows.
	for _, reply := range []string{"#", "#500E-2\r\n", "#\r\n"} {
		_, err := ParseFlowReply([]byte(reply))
		if !errors.Is(err, ErrDeviceRejected) {
			t.Errorf("ParseFlowReply(%q) error = %v, want ErrDeviceRejected", reply, err)
		}
		if errors.Is(err, ErrMalformedReply) {
			t.Errorf("ParseFlowReply(%q) classified as malformed, want rejected only", reply)
		}
	}
}

func TestClassifyConfirmation(t *testing.T) {
	tests := []struct {
		name string
		b    byte
		want error
	}{
		{"ok marker", ReplyOK, nil},
		{"error marker", ReplyError, ErrDeviceRejected},
		{"stray digit", '5', ErrMalformedReply},
		{"stray letter", 'E', ErrMalformedReply},
		{"nul byte", 0x00, ErrMalformedReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyConfirmation(tt.b)
			if tt.want == nil {
				if err != nil {
					t.Errorf("classifyConfirmation(%q) = %v, want nil", tt.b, err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyConfirmation(%q) = %v, want %v", tt.b, err, tt.want)
			}
		})
	}
}
