// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import "fmt"

// ParseFlowReply parses the fixed 9-byte numeric reply
// "<4 digits>E<sign><digit>\r\n" into a FlowRate.
//
// A leading error marker short-circuits to ErrDeviceRejected without
// attempting the numeric parse. Anything else that deviates from the
// pattern, byte for byte, is ErrMalformedReply; the parse fails closed
// rather than guessing at partially matching input.
func ParseFlowReply(reply []byte) (FlowRate, error) {
	if len(reply) > 0 && reply[0] == ReplyError {
		return FlowRate{}, fmt.Errorf("%w: error marker in flow reply", ErrDeviceRejected)
	}
	if len(reply) != FlowReplyLength {
		return FlowRate{}, fmt.Errorf("%w: reply length %d, want %d",
			ErrMalformedReply, len(reply), FlowReplyLength)
	}

	mantissa := 0
	for _, b := range reply[:4] {
		if b < '0' || b > '9' {
			return FlowRate{}, fmt.Errorf("%w: mantissa byte %q is not a digit",
				ErrMalformedReply, b)
		}
		mantissa = mantissa*10 + int(b-'0')
	}

	if reply[4] != 'E' {
		return FlowRate{}, fmt.Errorf("%w: expected 'E' separator, got %q",
			ErrMalformedReply, reply[4])
	}

	var negative bool
	switch reply[5] {
	case '+':
	case '-':
		negative = true
	default:
		return FlowRate{}, fmt.Errorf("%w: expected exponent sign, got %q",
			ErrMalformedReply, reply[5])
	}

	if reply[6] < '0' || reply[6] > '9' {
		return FlowRate{}, fmt.Errorf("%w: exponent byte %q is not a digit",
			ErrMalformedReply, reply[6])
	}
	exponent := int(reply[6] - '0')
	if negative {
		exponent = -exponent
	}

	if reply[7] != '\r' || reply[8] != '\n' {
		return FlowRate{}, fmt.Errorf("%w: missing CRLF terminator", ErrMalformedReply)
	}

	return FlowRate{Mantissa: mantissa, Exponent: exponent}, nil
}

// classifyConfirmation maps a single confirmation byte to a result.
func classifyConfirmation(b byte) error {
	switch b {
	case ReplyOK:
		return nil
	case ReplyError:
		return fmt.Errorf("%w: error marker confirmation", ErrDeviceRejected)
	default:
		return fmt.Errorf("%w: unexpected confirmation byte %q", ErrMalformedReply, b)
	}
}
